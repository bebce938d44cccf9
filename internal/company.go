package internal

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// CompanySize categorizes stored companies.
type CompanySize string

const (
	SizeSmall      CompanySize = "small"
	SizeMedium     CompanySize = "medium"
	SizeLarge      CompanySize = "large"
	SizeEnterprise CompanySize = "enterprise"
)

// FinancialMetric holds the bookkeeping figures of a stored company.
type FinancialMetric struct {
	Revenue      float64  `json:"revenue"`
	ProfitMargin float64  `json:"profit_margin"`
	GrowthRate   float64  `json:"growth_rate"`
	MarketShare  *float64 `json:"market_share,omitempty"`
}

// Company is a record in the in-memory company store.
type Company struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Industry      string          `json:"industry"`
	Size          CompanySize     `json:"size"`
	FoundedYear   int             `json:"founded_year"`
	Description   string          `json:"description,omitempty"`
	FinancialData FinancialMetric `json:"financial_data"`
}

// CompanyStore is a mutex-guarded in-memory company registry. State
// lives for the process lifetime only.
type CompanyStore struct {
	mu        sync.RWMutex
	companies map[string]Company
}

func NewCompanyStore() *CompanyStore {
	return &CompanyStore{companies: make(map[string]Company)}
}

// NewSeededCompanyStore returns a store pre-filled with sample data.
func NewSeededCompanyStore() *CompanyStore {
	s := NewCompanyStore()
	share := func(v float64) *float64 { return &v }
	seed := []Company{
		{
			ID: "company1", Name: "Tech Innovations Inc.", Industry: "Technology",
			Size: SizeLarge, FoundedYear: 2005,
			Description:   "A leading technology company specializing in AI solutions",
			FinancialData: FinancialMetric{Revenue: 5000000, ProfitMargin: 15.5, GrowthRate: 8.2, MarketShare: share(12.3)},
		},
		{
			ID: "company2", Name: "Green Energy Solutions", Industry: "Renewable Energy",
			Size: SizeMedium, FoundedYear: 2010,
			Description:   "Innovative renewable energy solutions provider",
			FinancialData: FinancialMetric{Revenue: 2500000, ProfitMargin: 12.8, GrowthRate: 15.3, MarketShare: share(7.5)},
		},
		{
			ID: "company3", Name: "HealthPlus Medical", Industry: "Healthcare",
			Size: SizeLarge, FoundedYear: 1998,
			Description:   "Leading healthcare provider with innovative medical solutions",
			FinancialData: FinancialMetric{Revenue: 8200000, ProfitMargin: 18.2, GrowthRate: 6.7, MarketShare: share(22.1)},
		},
		{
			ID: "company4", Name: "FinTech Innovations", Industry: "Financial Services",
			Size: SizeSmall, FoundedYear: 2018,
			Description:   "Cutting-edge financial technology startup",
			FinancialData: FinancialMetric{Revenue: 800000, ProfitMargin: 9.5, GrowthRate: 25.8, MarketShare: share(2.3)},
		},
	}
	for _, c := range seed {
		s.companies[c.ID] = c
	}
	return s
}

// List returns all companies ordered by ID.
func (s *CompanyStore) List() []Company {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Company, 0, len(s.companies))
	for _, c := range s.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *CompanyStore) Get(id string) (Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.companies[id]
	if !ok {
		return Company{}, ErrNotFound
	}
	return c, nil
}

// Create stores a new company. An empty ID is replaced with a random
// UUID; a clashing ID is rejected.
func (s *CompanyStore) Create(c Company) (Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, ok := s.companies[c.ID]; ok {
		return Company{}, ErrAlreadyExists
	}
	s.companies[c.ID] = c
	return c, nil
}

func (s *CompanyStore) Update(id string, c Company) (Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[id]; !ok {
		return Company{}, ErrNotFound
	}
	c.ID = id
	s.companies[id] = c
	return c, nil
}

func (s *CompanyStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[id]; !ok {
		return ErrNotFound
	}
	delete(s.companies, id)
	return nil
}
