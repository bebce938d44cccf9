package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnoyIndexInvalidDimension(t *testing.T) {
	_, err := NewAnnoyIndex(0, 10)
	assert.Error(t, err)
}

func TestAnnoyIndexNearest(t *testing.T) {
	idx, err := NewAnnoyIndex(3, 10)
	require.NoError(t, err)

	require.NoError(t, idx.Add([]float32{1, 0, 0}))
	require.NoError(t, idx.Add([]float32{0, 1, 0}))
	require.NoError(t, idx.Add([]float32{0, 0, 1}))
	assert.Equal(t, 3, idx.Len())

	results, err := idx.Search([]float32{0.9, 0.1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Position)
}

func TestAnnoyIndexReset(t *testing.T) {
	idx, err := NewAnnoyIndex(2, 5)
	require.NoError(t, err)

	require.NoError(t, idx.Add([]float32{1, 0}))
	require.NoError(t, idx.Add([]float32{0, 1}))

	idx.Reset()
	assert.Zero(t, idx.Len())

	results, err := idx.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAnnoyIndexDimensionMismatch(t *testing.T) {
	idx, err := NewAnnoyIndex(2, 5)
	require.NoError(t, err)

	assert.Error(t, idx.Add([]float32{1, 0, 0}))

	require.NoError(t, idx.Add([]float32{1, 0}))
	_, err = idx.Search([]float32{1}, 1)
	assert.Error(t, err)
}
