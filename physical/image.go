// Package physical models the flat byte image of an Amiga floppy disk and
// the fixed-size sector views over it. It has no notion of directories,
// files, or checksums: those belong to package block and package volume.
package physical

import (
	"github.com/weiju/adftools/adferr"
)

// Disk geometry constants, floppies only. Hard-disk sizing beyond these
// constants is not supported.
const (
	BytesPerSector = 512

	ddCylinders         = 80
	ddTracksPerCylinder = 2
	ddSectorsPerTrack   = 11
	DDSectors           = ddCylinders * ddTracksPerCylinder * ddSectorsPerTrack // 1760
	DDImageSize         = BytesPerSector * DDSectors                           // 901,120

	hdSectorsPerTrack = 22
	HDSectors         = ddCylinders * ddTracksPerCylinder * hdSectorsPerTrack // 3520
	HDImageSize       = BytesPerSector * HDSectors                           // 1,802,240
)

// Kind selects the disk density for a freshly created, all-zero Image.
type Kind int

const (
	DD Kind = iota
	HD
)

// Image owns a mutable byte buffer sized to a whole floppy disk.
type Image struct {
	data []byte
}

// NewImage allocates an all-zero image of the requested density.
func NewImage(kind Kind) *Image {
	size := DDImageSize
	if kind == HD {
		size = HDImageSize
	}
	return &Image{data: make([]byte, size)}
}

// OpenImage wraps an existing byte buffer as an Image, validating its
// length against the two known disk sizes.
func OpenImage(data []byte) (*Image, error) {
	switch len(data) {
	case DDImageSize, HDImageSize:
		return &Image{data: data}, nil
	default:
		return nil, adferr.New(adferr.BadImageSize,
			"image size %d is neither a DD (%d) nor an HD (%d) ADF image", len(data), DDImageSize, HDImageSize)
	}
}

// NumSectors returns the number of 512-byte sectors in the image.
func (img *Image) NumSectors() int {
	return len(img.data) / BytesPerSector
}

// Bytes exposes the whole backing buffer, e.g. for persisting the image or
// for boot-block access (which spans two sectors as one 1024-byte region).
func (img *Image) Bytes() []byte {
	return img.data
}

// Sector returns a write-through view of sector n.
func (img *Image) Sector(n int) (*Sector, error) {
	if n < 0 || n >= img.NumSectors() {
		return nil, adferr.New(adferr.OutOfRange, "sector %d out of range (0..%d)", n, img.NumSectors()-1)
	}
	start := n * BytesPerSector
	return &Sector{data: img.data[start : start+BytesPerSector]}, nil
}
