package internal

import (
	"fmt"
	"sort"
	"sync"
)

var _ VectorIndex = (*FlatIndex)(nil)

// FlatIndex is an exact brute-force inner-product index. Vectors are
// assumed to be on a comparable scale (e.g. L2-normalized) so inner
// product approximates cosine similarity. Ties are broken by insertion
// order, lower position first.
type FlatIndex struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float32
}

// NewFlatIndex creates an empty index. dimension 0 means the dimension
// is fixed by the first vector added.
func NewFlatIndex(dimension int) *FlatIndex {
	return &FlatIndex{dimension: dimension}
}

func (f *FlatIndex) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vectors = nil
}

func (f *FlatIndex) Add(vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty vector")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dimension == 0 && len(f.vectors) == 0 {
		f.dimension = len(vector)
	}
	if len(vector) != f.dimension {
		return fmt.Errorf("dimension mismatch: expected %d, got %d", f.dimension, len(vector))
	}

	f.vectors = append(f.vectors, vector)
	return nil
}

func (f *FlatIndex) Search(vector []float32, k int) ([]SearchResult, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if k <= 0 || len(f.vectors) == 0 {
		return nil, nil
	}
	if len(vector) != f.dimension {
		return nil, fmt.Errorf("dimension mismatch: expected %d, got %d", f.dimension, len(vector))
	}

	results := make([]SearchResult, len(f.vectors))
	for i, v := range f.vectors {
		results[i] = SearchResult{Position: i, Score: dot(v, vector)}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Position < results[j].Position
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

func (f *FlatIndex) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.vectors)
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
