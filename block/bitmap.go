package block

import (
	"github.com/pkg/errors"

	"github.com/weiju/adftools/checksum"
	"github.com/weiju/adftools/physical"
)

// BitmapBlock describes the free/used status of every data-addressable
// block (indices 2..num_sectors-1). Offset 0 is its own checksum; bit
// index 31 (MSB) within a word represents the lowest block index in that
// word. A set bit means FREE, a clear bit means USED.
type BitmapBlock struct {
	img      *physical.Image
	blocknum uint32
	sec      *physical.Sector
}

// NewBitmapBlock materializes the bitmap block view at blocknum.
func NewBitmapBlock(img *physical.Image, blocknum uint32) (*BitmapBlock, error) {
	sec, err := img.Sector(int(blocknum))
	if err != nil {
		return nil, errors.Wrapf(err, "bitmap block %d", blocknum)
	}
	return &BitmapBlock{img: img, blocknum: blocknum, sec: sec}, nil
}

func (b *BitmapBlock) BlockNum() uint32   { return b.blocknum }
func (b *BitmapBlock) BlockSize() int     { return b.sec.SizeInBytes() }
func (b *BitmapBlock) StoredChecksum() uint32 { return b.sec.U32At(bitmapOffChecksum) }

func (b *BitmapBlock) ComputedChecksum() uint32 {
	return checksum.HeaderBlock(b.sec.Raw(), bitmapOffChecksum)
}

func (b *BitmapBlock) updateChecksum() {
	b.sec.SetU32At(bitmapOffChecksum, b.ComputedChecksum())
}

// wordAndMask locates the bitmap word and bit mask for block n (n >= 2).
// wordnum is 1-based because word 0 of the block holds the checksum.
func wordAndMask(n uint32) (byteOffset int, mask uint32) {
	wordnum := (n - 2) / 32
	bitnum := (n - 2) % 32
	byteOffset = int(wordnum+1) * 4
	mask = 0x80000000 >> bitnum
	return
}

// MarkBlockUsed clears the bit for block n (used) and refreshes the
// checksum.
func (b *BitmapBlock) MarkBlockUsed(n uint32) error {
	byteOffset, mask := wordAndMask(n)
	orig := b.sec.U32At(byteOffset)
	b.sec.SetU32At(byteOffset, orig&^mask)
	b.updateChecksum()
	return nil
}

// MarkBlockFree sets the bit for block n (free) and refreshes the
// checksum.
func (b *BitmapBlock) MarkBlockFree(n uint32) error {
	byteOffset, mask := wordAndMask(n)
	orig := b.sec.U32At(byteOffset)
	b.sec.SetU32At(byteOffset, orig|mask)
	b.updateChecksum()
	return nil
}
