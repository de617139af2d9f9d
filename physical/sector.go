package physical

import (
	"encoding/binary"

	"github.com/weiju/adftools/adferr"
)

// Sector is a fixed-size, mutable, write-through window into an Image's
// backing byte buffer. It never copies: a Go slice shares the backing
// array with the Image it was carved from, so writes through a Sector are
// observed immediately by anyone else holding the same Image.
type Sector struct {
	data []byte
}

// SizeInBytes returns the sector size (512 for floppies).
func (s *Sector) SizeInBytes() int {
	return len(s.data)
}

// Raw exposes the sector's full byte range, for checksum computation.
func (s *Sector) Raw() []byte {
	return s.data
}

// At reads a single byte, bounds-checked against the sector.
func (s *Sector) At(index int) (byte, error) {
	if index < 0 || index >= len(s.data) {
		return 0, adferr.New(adferr.OutOfRange, "byte index %d out of range (0..%d)", index, len(s.data)-1)
	}
	return s.data[index], nil
}

// SetAt writes a single byte, bounds-checked against the sector.
func (s *Sector) SetAt(index int, value byte) error {
	if index < 0 || index >= len(s.data) {
		return adferr.New(adferr.OutOfRange, "byte index %d out of range (0..%d)", index, len(s.data)-1)
	}
	s.data[index] = value
	return nil
}

// U16At reads a big-endian uint16 at a fixed, known-valid offset.
func (s *Sector) U16At(offset int) uint16 {
	return binary.BigEndian.Uint16(s.data[offset : offset+2])
}

// U32At reads a big-endian uint32 at a fixed, known-valid offset.
func (s *Sector) U32At(offset int) uint32 {
	return binary.BigEndian.Uint32(s.data[offset : offset+4])
}

// I32At reads a big-endian, two's-complement int32 at a fixed offset.
func (s *Sector) I32At(offset int) int32 {
	return int32(s.U32At(offset))
}

// SetU32At writes a big-endian uint32 at a fixed, known-valid offset.
func (s *Sector) SetU32At(offset int, value uint32) {
	binary.BigEndian.PutUint32(s.data[offset:offset+4], value)
}

// ClearData zeroes the whole sector in place.
func (s *Sector) ClearData() {
	for i := range s.data {
		s.data[i] = 0
	}
}
