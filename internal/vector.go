package internal

// SearchResult is one nearest-neighbor hit. Position is the insertion
// position of the matched vector, stable and parallel to the document
// storage of the owning session.
type SearchResult struct {
	Position int
	Score    float32
}

// VectorIndex stores vectors in insertion order and supports top-k
// similarity search. Implementations return up to min(k, Len()) results
// sorted by descending score and never fail on an empty index.
type VectorIndex interface {
	Reset()
	Add(vector []float32) error
	Search(vector []float32, k int) ([]SearchResult, error)
	Len() int
}
