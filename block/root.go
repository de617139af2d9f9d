package block

import (
	"time"

	"github.com/weiju/adftools/adferr"
	"github.com/weiju/adftools/physical"
)

// validBitmapFlag is the root-block bitmap_flag value meaning "the bitmap
// is current and authoritative".
const validBitmapFlag = -1

// RootBlock is the root directory's header block, at a fixed sector
// (num_sectors/2), extended with the volume-wide bitmap allocator and the
// disk-wide timestamps.
type RootBlock struct {
	*HeaderBlock
}

// NewRootBlock materializes the root block view at blocknum.
func NewRootBlock(img *physical.Image, blocknum uint32) (*RootBlock, error) {
	hb, err := NewHeaderBlock(img, blocknum)
	if err != nil {
		return nil, err
	}
	return &RootBlock{HeaderBlock: hb}, nil
}

func (r *RootBlock) BitmapFlag() int32 {
	return r.sec.I32At(r.BlockSize() + sizeOffBitmapFlag)
}

// BitmapIsValid reports whether the bitmap is current and authoritative.
func (r *RootBlock) BitmapIsValid() bool {
	return r.BitmapFlag() == validBitmapFlag
}

// BitmapBlock0 returns the (single, for a floppy) bitmap block referenced
// by bitmap_pages[0].
func (r *RootBlock) BitmapBlock0() (*BitmapBlock, error) {
	blocknum := r.sec.U32At(r.BlockSize() + sizeOffBitmapPages)
	return NewBitmapBlock(r.img, blocknum)
}

func (r *RootBlock) LastDiskModificationTime() time.Time {
	return r.amigadosTimeAt(sizeOffLastDiskMod)
}

func (r *RootBlock) UpdateLastDiskModificationTime(now time.Time) {
	r.setAmigadosTimeAt(sizeOffLastDiskMod, now)
}

// FilesysCreationTime reads the filesystem creation timestamp. There is no
// corresponding setter: nothing in this package ever stamps it.
func (r *RootBlock) FilesysCreationTime() time.Time {
	return r.amigadosTimeAt(sizeOffFilesysCreation)
}

// MarkDiskAsModified refreshes the disk-alteration timestamp, then the
// checksum, in that order.
func (r *RootBlock) MarkDiskAsModified(now time.Time) {
	r.UpdateLastDiskModificationTime(now)
	r.UpdateChecksum()
}

// BlockAllocation walks the (single) bitmap block and returns the free and
// used block numbers, starting at block 2 (blocks 0-1 are reserved).
// It returns two empty slices, not an error, when the bitmap is not
// currently valid. Callers that need allocation must check
// BitmapIsValid() first, since an invalid bitmap is not itself an error.
func (r *RootBlock) BlockAllocation() (free, used []uint32, err error) {
	if !r.BitmapIsValid() {
		return nil, nil, nil
	}
	bm, err := r.BitmapBlock0()
	if err != nil {
		return nil, nil, err
	}
	numSectors := r.img.NumSectors()
	blockIdx := 2
	for bytenum := 4; bytenum < bm.BlockSize(); bytenum += 4 {
		if blockIdx >= numSectors {
			break
		}
		word := bm.sec.U32At(bytenum)
		mask := uint32(0x80000000)
		for i := 0; i < 32; i++ {
			if word&mask == mask {
				free = append(free, uint32(blockIdx))
			} else {
				used = append(used, uint32(blockIdx))
			}
			mask >>= 1
			blockIdx++
			if blockIdx >= numSectors {
				break
			}
		}
	}
	return free, used, nil
}

// AllocateBlock marks blocknum used in the bitmap, failing if it isn't
// currently free.
func (r *RootBlock) AllocateBlock(blocknum uint32) error {
	free, _, err := r.BlockAllocation()
	if err != nil {
		return err
	}
	isFree := false
	for _, b := range free {
		if b == blocknum {
			isFree = true
			break
		}
	}
	if !isFree {
		return adferr.New(adferr.AlreadyAllocated, "block %d is already allocated", blocknum)
	}
	bm, err := r.BitmapBlock0()
	if err != nil {
		return err
	}
	return bm.MarkBlockUsed(blocknum)
}

// FreeBlock marks blocknum free in the bitmap.
func (r *RootBlock) FreeBlock(blocknum uint32) error {
	bm, err := r.BitmapBlock0()
	if err != nil {
		return err
	}
	return bm.MarkBlockFree(blocknum)
}
