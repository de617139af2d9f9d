package block

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/weiju/adftools/adferr"
	"github.com/weiju/adftools/amigatime"
	"github.com/weiju/adftools/checksum"
	"github.com/weiju/adftools/hash"
	"github.com/weiju/adftools/physical"
)

// HeaderBlock is the first block of a directory or file, and (as RootBlock)
// the root block itself.
type HeaderBlock struct {
	img      *physical.Image
	blocknum uint32
	sec      *physical.Sector
}

// NewHeaderBlock materializes the header block view at blocknum.
func NewHeaderBlock(img *physical.Image, blocknum uint32) (*HeaderBlock, error) {
	sec, err := img.Sector(int(blocknum))
	if err != nil {
		return nil, errors.Wrapf(err, "header block %d", blocknum)
	}
	return &HeaderBlock{img: img, blocknum: blocknum, sec: sec}, nil
}

// BlockNum returns this block's own block number (its header_key, for a
// correctly initialized block).
func (h *HeaderBlock) BlockNum() uint32 { return h.blocknum }

// BlockSize returns the sector size backing this view (512 for floppies).
func (h *HeaderBlock) BlockSize() int { return h.sec.SizeInBytes() }

func (h *HeaderBlock) PrimaryType() uint32 { return h.sec.U32At(offPrimaryType) }

func (h *HeaderBlock) SecondaryType() int32 { return h.sec.I32At(h.BlockSize() + sizeOffSecType) }

func (h *HeaderBlock) IsFile() bool      { return h.SecondaryType() == SecTypeFile }
func (h *HeaderBlock) IsDirectory() bool { return h.SecondaryType() == SecTypeUserDir }
func (h *HeaderBlock) IsRoot() bool      { return h.SecondaryType() == SecTypeRoot }

func (h *HeaderBlock) HeaderKey() uint32 { return h.sec.U32At(offHeaderKey) }

// Name reads the (max 30-byte) directory/file name.
func (h *HeaderBlock) Name() string {
	bs := h.BlockSize()
	n, _ := h.sec.At(bs + sizeOffNameLen)
	if int(n) > maxNameLen {
		n = maxNameLen
	}
	buf := make([]byte, n)
	for i := 0; i < int(n); i++ {
		buf[i], _ = h.sec.At(bs + sizeOffName + i)
	}
	return string(buf)
}

// setName writes the name field directly. It never recomputes the hash
// chain this block lives on: callers that rename a live block must
// unlink and re-append it under the new hash index themselves.
func (h *HeaderBlock) setName(name string) error {
	if len(name) > maxNameLen {
		return adferr.New(adferr.InvalidArgument, "name %q exceeds %d bytes", name, maxNameLen)
	}
	bs := h.BlockSize()
	if err := h.sec.SetAt(bs+sizeOffNameLen, byte(len(name))); err != nil {
		return err
	}
	for i := 0; i < len(name); i++ {
		if err := h.sec.SetAt(bs+sizeOffName+i, name[i]); err != nil {
			return err
		}
	}
	return nil
}

// FileComment reads the optional per-file comment stored alongside the name.
func (h *HeaderBlock) FileComment() string {
	bs := h.BlockSize()
	n, _ := h.sec.At(bs + sizeOffCommentLen)
	buf := make([]byte, n)
	for i := 0; i < int(n); i++ {
		buf[i], _ = h.sec.At(bs + sizeOffComment + i)
	}
	return string(buf)
}

func (h *HeaderBlock) amigadosTimeAt(offset int) time.Time {
	bs := h.BlockSize()
	days := h.sec.U32At(bs + offset)
	minutes := h.sec.U32At(bs + offset + 4)
	ticks := h.sec.U32At(bs + offset + 8)
	return amigatime.ToTime(days, minutes, ticks)
}

func (h *HeaderBlock) setAmigadosTimeAt(offset int, t time.Time) {
	bs := h.BlockSize()
	days, minutes, ticks := amigatime.FromTime(t)
	h.sec.SetU32At(bs+offset, days)
	h.sec.SetU32At(bs+offset+4, minutes)
	h.sec.SetU32At(bs+offset+8, ticks)
}

func (h *HeaderBlock) LastModificationTime() time.Time {
	return h.amigadosTimeAt(sizeOffLastModified)
}

// UpdateLastModificationTime stamps now. The caller supplies the clock
// (see volume.Clock) so fixtures can pin deterministic times.
func (h *HeaderBlock) UpdateLastModificationTime(now time.Time) {
	h.setAmigadosTimeAt(sizeOffLastModified, now)
}

func (h *HeaderBlock) StoredChecksum() uint32 { return h.sec.U32At(offChecksum) }

func (h *HeaderBlock) ComputedChecksum() uint32 {
	return checksum.HeaderBlock(h.sec.Raw(), offChecksum)
}

func (h *HeaderBlock) UpdateChecksum() {
	h.sec.SetU32At(offChecksum, h.ComputedChecksum())
}

// MarkAsModified refreshes the modification timestamp, then the checksum,
// in that order.
func (h *HeaderBlock) MarkAsModified(now time.Time) {
	h.UpdateLastModificationTime(now)
	h.UpdateChecksum()
}

func (h *HeaderBlock) Parent() uint32 {
	return h.sec.U32At(h.BlockSize() + sizeOffParent)
}

func (h *HeaderBlock) SetParent(blocknum uint32) {
	h.sec.SetU32At(h.BlockSize()+sizeOffParent, blocknum)
}

func (h *HeaderBlock) NextHash() uint32 {
	return h.sec.U32At(h.BlockSize() + sizeOffNextHash)
}

func (h *HeaderBlock) SetNextHash(blocknum uint32) {
	h.sec.SetU32At(h.BlockSize()+sizeOffNextHash, blocknum)
}

// HashtableSize returns the hash-table slot count: the stored value for
// the root block, or the hard-coded 72 for any other directory.
func (h *HeaderBlock) HashtableSize() int {
	if h.IsRoot() {
		return int(h.sec.U32At(offHashtableSize))
	}
	return hashtableSlots
}

// HashtableEntryAt reads slot index, bounds-checked against the valid
// range [0, HashtableSize()). index == HashtableSize() is out of range.
func (h *HeaderBlock) HashtableEntryAt(index int) (uint32, error) {
	if index < 0 || index >= h.HashtableSize() {
		return 0, adferr.New(adferr.OutOfRange, "hashtable index %d out of bounds (size %d)", index, h.HashtableSize())
	}
	return h.sec.U32At(offHashtable + index*4), nil
}

func (h *HeaderBlock) setHashtableEntryAt(index int, blocknum uint32) {
	h.sec.SetU32At(offHashtable+index*4, blocknum)
}

// AppendHashtableEntryAt adds blocknum to the bucket at index: direct if
// the slot is empty, otherwise appended to the tail of the collision chain.
func (h *HeaderBlock) AppendHashtableEntryAt(index int, blocknum uint32) error {
	cur, err := h.HashtableEntryAt(index)
	if err != nil {
		return err
	}
	if cur == 0 {
		h.setHashtableEntryAt(index, blocknum)
		return nil
	}
	tail, err := NewHeaderBlock(h.img, cur)
	if err != nil {
		return err
	}
	for tail.NextHash() != 0 {
		tail, err = NewHeaderBlock(h.img, tail.NextHash())
		if err != nil {
			return err
		}
	}
	tail.SetNextHash(blocknum)
	tail.UpdateChecksum()
	return nil
}

// DeleteHashtableEntryAt unlinks blocknum from the bucket at index.
func (h *HeaderBlock) DeleteHashtableEntryAt(index int, blocknum uint32) error {
	cur, err := h.HashtableEntryAt(index)
	if err != nil {
		return err
	}
	if cur == blocknum {
		target, err := NewHeaderBlock(h.img, blocknum)
		if err != nil {
			return err
		}
		h.setHashtableEntryAt(index, target.NextHash())
		return nil
	}

	node, err := NewHeaderBlock(h.img, cur)
	if err != nil {
		return err
	}
	var prev *HeaderBlock
	for node.HeaderKey() != blocknum {
		if node.NextHash() == 0 {
			return adferr.New(adferr.ChainCorrupt, "block %d not found on hash chain at index %d", blocknum, index)
		}
		prev = node
		node, err = NewHeaderBlock(h.img, node.NextHash())
		if err != nil {
			return err
		}
	}
	prev.SetNextHash(node.NextHash())
	prev.UpdateChecksum()
	return nil
}

// DeleteChildFromHashtable unlinks child from this directory's hashtable,
// using child's own name to recompute the slot it was filed under.
func (h *HeaderBlock) DeleteChildFromHashtable(child *HeaderBlock) error {
	idx := hash.Compute(child.Name(), h.BlockSize())
	return h.DeleteHashtableEntryAt(idx, child.HeaderKey())
}

// IsEmpty reports whether every hashtable slot in this directory is empty.
func (h *HeaderBlock) IsEmpty() bool {
	for i := 0; i < h.HashtableSize(); i++ {
		v, err := h.HashtableEntryAt(i)
		if err != nil || v != 0 {
			return false
		}
	}
	return true
}

// FindHeader walks the hash chain for name and returns the matching header,
// case-insensitively.
func (h *HeaderBlock) FindHeader(name string) (*HeaderBlock, error) {
	idx := hash.Compute(name, h.BlockSize())
	blocknum, err := h.HashtableEntryAt(idx)
	if err != nil {
		return nil, err
	}
	if blocknum == 0 {
		return nil, adferr.New(adferr.NotFound, "can't find file/dir %q", name)
	}
	node, err := NewHeaderBlock(h.img, blocknum)
	if err != nil {
		return nil, err
	}
	for !strings.EqualFold(node.Name(), name) {
		if node.NextHash() == 0 {
			return nil, adferr.New(adferr.NotFound, "can't find file/dir %q", name)
		}
		node, err = NewHeaderBlock(h.img, node.NextHash())
		if err != nil {
			return nil, err
		}
	}
	return node, nil
}

// InitDirectory zeroes this block and writes it as a fresh, empty
// directory header owned by parentBlock.
func (h *HeaderBlock) InitDirectory(name string, parentBlock uint32, now time.Time) error {
	h.sec.ClearData()
	h.sec.SetU32At(offPrimaryType, PrimaryTypeHeader)
	h.sec.SetU32At(offHeaderKey, h.blocknum)
	h.sec.SetU32At(h.BlockSize()+sizeOffSecType, uint32(SecTypeUserDir))
	if err := h.setName(name); err != nil {
		return err
	}
	h.SetParent(parentBlock)
	h.UpdateLastModificationTime(now)
	h.UpdateChecksum()
	return nil
}

//////////////////////////////////////////////////////////////////////////
// File header block only

// HighSeq returns the number of data-block pointers stored in this file
// header.
func (h *HeaderBlock) HighSeq() uint32 { return h.sec.U32At(offHighSeq) }

func (h *HeaderBlock) FileSize() uint32 { return h.sec.U32At(h.BlockSize() + sizeOffFileSize) }

// DataBlocks returns every data-block number referenced by this file
// header, in on-disk (descending-offset) order: the first data block is
// stored highest in the pointer table.
//
// TODO: extension blocks for files beyond ~35 KiB are not followed.
func (h *HeaderBlock) DataBlocks() []uint32 {
	n := h.HighSeq()
	result := make([]uint32, 0, n)
	bs := h.BlockSize()
	for i := uint32(0); i < n; i++ {
		off := bs + sizeOffDataBlocksStart - int(i)*4
		result = append(result, h.sec.U32At(off))
	}
	return result
}
