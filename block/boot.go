package block

import (
	"encoding/binary"

	"github.com/weiju/adftools/checksum"
	"github.com/weiju/adftools/physical"
)

// bootBlockBytes is the checksum span: two 512-byte sectors treated as one
// 1024-byte region.
const bootBlockBytes = physical.BytesPerSector * 2

// BootBlock is the first two sectors of the volume: a "DOS" magic, a
// 3-bit flags byte, a stored checksum, and opaque boot code.
type BootBlock struct {
	img *physical.Image
}

// NewBootBlock returns the boot-block view over img.
func NewBootBlock(img *physical.Image) *BootBlock {
	return &BootBlock{img: img}
}

func (b *BootBlock) data() []byte {
	return b.img.Bytes()[0:bootBlockBytes]
}

// Initialize stamps the "DOS" magic and the filesystem flags. It does not
// synthesize a full empty filesystem: no root block or bitmap is written.
func (b *BootBlock) Initialize(fsType FilesystemType, isInternational, useDircache bool) {
	data := b.img.Bytes()
	data[0], data[1], data[2] = 'D', 'O', 'S'

	var flags byte
	if fsType == FFS {
		flags = 1
	}
	switch {
	case isInternational && useDircache:
		flags += 4
	case isInternational:
		flags += 2
	}
	data[3] = flags
}

func (b *BootBlock) IsDos() bool {
	data := b.img.Bytes()
	return data[0] == 'D' && data[1] == 'O' && data[2] == 'S'
}

// Flags returns the raw 3-bit flags byte.
func (b *BootBlock) Flags() byte {
	return b.img.Bytes()[3] & 0x07
}

func (b *BootBlock) FilesystemType() FilesystemType {
	if b.Flags()&1 == 1 {
		return FFS
	}
	return OFS
}

func (b *BootBlock) ComputedChecksum() uint32 {
	return checksum.BootBlock(b.data())
}

func (b *BootBlock) StoredChecksum() uint32 {
	return binary.BigEndian.Uint32(b.img.Bytes()[4:8])
}

func (b *BootBlock) UpdateChecksum() {
	binary.BigEndian.PutUint32(b.img.Bytes()[4:8], b.ComputedChecksum())
}
