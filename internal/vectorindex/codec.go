package vectorindex

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

// Serialised layout, little endian:
//
//	magic   [4]byte "CWVI"
//	version uint16
//	dim     uint32
//	count   uint32
//	data    [count*dim]float32
const (
	magic      = "CWVI"
	version    = uint16(1)
	headerSize = 4 + 2 + 4 + 4
)

// MarshalBinary encodes the index for storage.
func (idx *Index) MarshalBinary() ([]byte, error) {
	buf := make([]byte, headerSize+4*len(idx.data))
	copy(buf, magic)
	binary.LittleEndian.PutUint16(buf[4:], version)
	binary.LittleEndian.PutUint32(buf[6:], uint32(idx.dimension))
	binary.LittleEndian.PutUint32(buf[10:], uint32(idx.Len()))

	off := headerSize
	for _, f := range idx.data {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
		off += 4
	}
	return buf, nil
}

// UnmarshalBinary decodes an index produced by MarshalBinary.
func (idx *Index) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize || string(data[:4]) != magic {
		return fmt.Errorf("vectorindex: bad header: %w", domain.ErrInvalidInput)
	}
	if v := binary.LittleEndian.Uint16(data[4:]); v != version {
		return fmt.Errorf("vectorindex: unsupported version %d: %w", v, domain.ErrInvalidInput)
	}

	dim := int(binary.LittleEndian.Uint32(data[6:]))
	count := int(binary.LittleEndian.Uint32(data[10:]))
	if (dim == 0) != (count == 0) || len(data) != headerSize+4*dim*count {
		return fmt.Errorf("vectorindex: truncated payload: %w", domain.ErrInvalidInput)
	}

	vals := make([]float32, dim*count)
	off := headerSize
	for i := range vals {
		vals[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		off += 4
	}

	idx.dimension = dim
	idx.data = vals
	return nil
}

// Decode is a convenience wrapper around UnmarshalBinary.
func Decode(data []byte) (*Index, error) {
	idx := &Index{}
	if err := idx.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return idx, nil
}
