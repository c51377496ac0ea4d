package vectorindex

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

// Hit is a single search result.
type Hit struct {
	// Index is the position of the matching vector, equal to the chunk position.
	Index int

	// Distance is the squared L2 distance to the query.
	Distance float32
}

// Index is an immutable flat L2 index.
type Index struct {
	dimension int
	data      []float32
}

// Build creates an index from vectors. Every vector must have the same
// non-zero dimension. An empty input yields an empty index.
func Build(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return &Index{}, nil
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("vectorindex: zero-length vector: %w", domain.ErrInvalidInput)
	}

	data := make([]float32, 0, dim*len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vectorindex: vector %d has dimension %d, want %d: %w",
				i, len(v), dim, domain.ErrInvalidInput)
		}
		data = append(data, v...)
	}

	return &Index{dimension: dim, data: data}, nil
}

// Len returns the number of indexed vectors.
func (idx *Index) Len() int {
	if idx.dimension == 0 {
		return 0
	}
	return len(idx.data) / idx.dimension
}

// Dimensions returns the vector dimension, or 0 for an empty index.
func (idx *Index) Dimensions() int {
	return idx.dimension
}

// Search returns the min(k, Len()) nearest vectors to query in ascending
// distance order. Equal distances are ordered by index.
func (idx *Index) Search(query []float32, k int) ([]Hit, error) {
	n := idx.Len()
	if n == 0 {
		return nil, domain.ErrEmptyIndex
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("vectorindex: query dimension %d, want %d: %w",
			len(query), idx.dimension, domain.ErrInvalidInput)
	}
	if k <= 0 {
		return nil, nil
	}

	hits := make([]Hit, n)
	for i := 0; i < n; i++ {
		hits[i] = Hit{Index: i, Distance: squaredL2(idx.data[i*idx.dimension:(i+1)*idx.dimension], query)}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})

	if k > n {
		k = n
	}
	return hits[:k], nil
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
