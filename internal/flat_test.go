package internal

import "testing"

func TestFlatIndexSearchOrdering(t *testing.T) {
	idx := NewFlatIndex(0)

	vectors := [][]float32{
		{1, 0},
		{0, 1},
		{0.5, 0.5},
	}
	for i, v := range vectors {
		if err := idx.Add(v); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	results, err := idx.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	wantPositions := []int{0, 2, 1}
	for i, want := range wantPositions {
		if results[i].Position != want {
			t.Errorf("result %d: expected position %d, got %d", i, want, results[i].Position)
		}
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("scores not non-increasing at %d: %v > %v", i, results[i].Score, results[i-1].Score)
		}
	}
}

func TestFlatIndexSearchReturnsMinKN(t *testing.T) {
	idx := NewFlatIndex(0)
	for i := 0; i < 3; i++ {
		if err := idx.Add([]float32{1, float32(i)}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	results, err := idx.Search([]float32{1, 1}, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected min(k, N)=3 results, got %d", len(results))
	}

	results, err = idx.Search([]float32{1, 1}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestFlatIndexTieBreakByInsertionOrder(t *testing.T) {
	idx := NewFlatIndex(0)
	for i := 0; i < 4; i++ {
		if err := idx.Add([]float32{1, 0}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	results, err := idx.Search([]float32{1, 0}, 4)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for i, r := range results {
		if r.Position != i {
			t.Errorf("tie-break: expected position %d at rank %d, got %d", i, i, r.Position)
		}
	}
}

func TestFlatIndexEmptySearch(t *testing.T) {
	idx := NewFlatIndex(0)

	results, err := idx.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("search on empty index: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result, got %d", len(results))
	}
}

func TestFlatIndexReset(t *testing.T) {
	idx := NewFlatIndex(0)
	if err := idx.Add([]float32{1, 0}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if idx.Len() != 1 {
		t.Fatalf("expected len 1, got %d", idx.Len())
	}

	idx.Reset()
	if idx.Len() != 0 {
		t.Errorf("expected len 0 after reset, got %d", idx.Len())
	}

	results, err := idx.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("search after reset: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result after reset, got %d", len(results))
	}
}

func TestFlatIndexDimensionMismatch(t *testing.T) {
	idx := NewFlatIndex(0)
	if err := idx.Add([]float32{1, 0}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := idx.Add([]float32{1, 0, 0}); err == nil {
		t.Error("expected dimension mismatch error on add")
	}
	if _, err := idx.Search([]float32{1, 0, 0}, 1); err == nil {
		t.Error("expected dimension mismatch error on search")
	}
}
