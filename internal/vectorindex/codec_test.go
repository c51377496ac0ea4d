package vectorindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

func TestMarshalBinary_RoundTrip(t *testing.T) {
	idx, err := Build([][]float32{{0.5, -1.25, 3}, {7, 8, 9}})
	require.NoError(t, err)

	data, err := idx.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, "CWVI", string(data[:4]))
	assert.Len(t, data, headerSize+4*6)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, idx.Len(), decoded.Len())
	assert.Equal(t, idx.Dimensions(), decoded.Dimensions())

	want, err := idx.Search([]float32{7, 8, 9}, 2)
	require.NoError(t, err)
	got, err := decoded.Search([]float32{7, 8, 9}, 2)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMarshalBinary_EmptyIndex(t *testing.T) {
	idx, err := Build(nil)
	require.NoError(t, err)

	data, err := idx.MarshalBinary()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 0, decoded.Len())
}

func TestUnmarshalBinary_Rejects(t *testing.T) {
	idx, err := Build([][]float32{{1, 2}})
	require.NoError(t, err)
	good, err := idx.MarshalBinary()
	require.NoError(t, err)

	badVersion := append([]byte(nil), good...)
	badVersion[4] = 9

	tests := map[string][]byte{
		"short":       []byte("CW"),
		"bad magic":   append([]byte("XXXX"), good[4:]...),
		"bad version": badVersion,
		"truncated":   good[:len(good)-1],
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(data)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
