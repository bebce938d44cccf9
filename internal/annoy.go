package internal

import (
	"fmt"
	"sync"

	"github.com/mariotoffia/goannoy/builder"
	"github.com/mariotoffia/goannoy/interfaces"
)

var _ VectorIndex = (*AnnoyIndex)(nil)

// AnnoyIndex is an approximate alternative to FlatIndex for large
// comparable sets. The forest is rebuilt lazily on the first search
// after a Reset/Add cycle, which matches the engine's full-rebuild
// lifecycle. Scores are angular similarity in [0, 1], not raw inner
// product, and ordering is approximate.
type AnnoyIndex struct {
	mu        sync.Mutex
	idx       interfaces.AnnoyIndex[float32, uint32]
	dimension int
	trees     int
	count     int
	built     bool
}

func NewAnnoyIndex(dimension, trees int) (*AnnoyIndex, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid dimension %d", dimension)
	}
	if trees <= 0 {
		trees = 10
	}
	return &AnnoyIndex{
		idx:       newAnnoyForest(dimension),
		dimension: dimension,
		trees:     trees,
	}, nil
}

func newAnnoyForest(dimension int) interfaces.AnnoyIndex[float32, uint32] {
	return builder.Index[float32, uint32]().
		AngularDistance(dimension).
		UseMultiWorkerPolicy().
		MmapIndexAllocator().
		Build()
}

func (a *AnnoyIndex) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.idx = newAnnoyForest(a.dimension)
	a.count = 0
	a.built = false
}

func (a *AnnoyIndex) Add(vector []float32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(vector) != a.dimension {
		return fmt.Errorf("dimension mismatch: expected %d, got %d", a.dimension, len(vector))
	}

	a.idx.AddItem(uint32(a.count), vector)
	a.count++
	a.built = false
	return nil
}

func (a *AnnoyIndex) Search(vector []float32, k int) ([]SearchResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if k <= 0 || a.count == 0 {
		return nil, nil
	}
	if len(vector) != a.dimension {
		return nil, fmt.Errorf("dimension mismatch: expected %d, got %d", a.dimension, len(vector))
	}

	if !a.built {
		a.idx.Build(a.trees, -1)
		a.built = true
	}

	if k > a.count {
		k = a.count
	}

	searchCtx := a.idx.CreateContext()
	ids, distances := a.idx.GetNnsByVector(vector, k, -1, searchCtx)

	results := make([]SearchResult, 0, len(ids))
	for i, id := range ids {
		// Angular distance is in [0, 2]; map to a 0-1 similarity.
		var score float32
		if i < len(distances) {
			score = 1.0 - distances[i]/2.0
		}
		results = append(results, SearchResult{Position: int(id), Score: score})
	}

	return results, nil
}

func (a *AnnoyIndex) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}
