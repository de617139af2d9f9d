// Package volume is the top-level façade over a physical.Image: path
// resolution, file-data assembly, directory creation, and deletion. It
// coordinates the bitmap allocator, hash-chain maintenance, and
// timestamp/checksum refresh that package block exposes as primitives.
package volume

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/weiju/adftools/adferr"
	"github.com/weiju/adftools/block"
	"github.com/weiju/adftools/hash"
	"github.com/weiju/adftools/physical"
)

// Clock returns the current time. Injectable so fixtures and tests can
// pin deterministic timestamps.
type Clock func() time.Time

// Volume is the single owner of an Image's exclusive mutable access: every
// write path (Initialize, Makedir, Delete) and read path (HeaderForPath,
// FileData) goes through it. Scheduling is single-threaded and synchronous:
// Volume is not safe for concurrent use without external synchronization.
type Volume struct {
	img   *physical.Image
	clock Clock
}

// New wraps img as a Volume, using the wall clock for timestamps.
func New(img *physical.Image) *Volume {
	return &Volume{img: img, clock: time.Now}
}

// WithClock overrides the clock used for timestamp refresh (tests only;
// production callers should rely on the wall-clock default).
func (v *Volume) WithClock(c Clock) *Volume {
	v.clock = c
	return v
}

// Image exposes the underlying physical image, e.g. for persisting it.
func (v *Volume) Image() *physical.Image { return v.img }

// Initialize stamps the boot block with the "DOS" magic and filesystem
// flags. It does not format a full empty filesystem.
func (v *Volume) Initialize(fsType block.FilesystemType, isInternational, useDircache bool) {
	block.NewBootBlock(v.img).Initialize(fsType, isInternational, useDircache)
}

func (v *Volume) BootBlock() *block.BootBlock { return block.NewBootBlock(v.img) }

func (v *Volume) FilesystemType() block.FilesystemType {
	return v.BootBlock().FilesystemType()
}

// RootBlock returns the root block, at sector num_sectors/2.
func (v *Volume) RootBlock() (*block.RootBlock, error) {
	return block.NewRootBlock(v.img, uint32(v.img.NumSectors()/2))
}

func splitPath(path string) []string {
	var out []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// HeaderForPath resolves path from the root, one hash-chain lookup per
// component.
func (v *Volume) HeaderForPath(path string) (*block.HeaderBlock, error) {
	root, err := v.RootBlock()
	if err != nil {
		return nil, err
	}
	cur := root.HeaderBlock
	for _, comp := range splitPath(path) {
		cur, err = cur.FindHeader(comp)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %q", path)
		}
	}
	return cur, nil
}

// FileData assembles a file's full content by following its data-block
// chain. OFS and FFS data blocks have different on-disk layouts.
func (v *Volume) FileData(path string) ([]byte, error) {
	header, err := v.HeaderForPath(path)
	if err != nil {
		return nil, err
	}

	var result []byte
	remaining := header.FileSize()

	switch fsType := v.FilesystemType(); fsType {
	case block.OFS:
		for _, bn := range header.DataBlocks() {
			db, err := block.NewDataBlock(v.img, bn)
			if err != nil {
				return nil, err
			}
			result = append(result, db.Payload()...)
		}
	case block.FFS:
		for _, bn := range header.DataBlocks() {
			db, err := block.NewDataBlock(v.img, bn)
			if err != nil {
				return nil, err
			}
			raw := db.Raw()
			blockSize := uint32(db.BlockSize())
			if remaining >= blockSize {
				result = append(result, raw...)
				remaining -= blockSize
			} else {
				result = append(result, raw[:remaining]...)
				remaining = 0
			}
		}
	default:
		return nil, adferr.New(adferr.UnsupportedFs, "unsupported filesystem type %v", fsType)
	}
	return result, nil
}

// Makedir creates a new, empty directory at path.
//
// Order of operations: mutate data first (bitmap bit, new header, parent
// hashtable slot), refresh timestamps second, refresh checksums last.
func (v *Volume) Makedir(path string) error {
	comps := splitPath(path)
	if len(comps) == 0 {
		return adferr.New(adferr.InvalidArgument, "can't create directory '/'")
	}
	name := comps[len(comps)-1]
	parentPath := strings.Join(comps[:len(comps)-1], "/")

	parent, err := v.HeaderForPath(parentPath)
	if err != nil {
		return errors.Wrapf(err, "resolving parent of %q", path)
	}

	root, err := v.RootBlock()
	if err != nil {
		return err
	}
	free, _, err := root.BlockAllocation()
	if err != nil {
		return err
	}
	if len(free) == 0 {
		return adferr.New(adferr.AlreadyAllocated, "no free blocks available")
	}
	dirBlockNum := free[0]
	if err := root.AllocateBlock(dirBlockNum); err != nil {
		return err
	}

	dirBlock, err := block.NewHeaderBlock(v.img, dirBlockNum)
	if err != nil {
		return err
	}
	now := v.clock()
	if err := dirBlock.InitDirectory(name, parent.BlockNum(), now); err != nil {
		return err
	}

	idx := hash.Compute(name, dirBlock.BlockSize())
	if err := parent.AppendHashtableEntryAt(idx, dirBlockNum); err != nil {
		return err
	}

	parent.MarkAsModified(now)
	root.MarkDiskAsModified(now)
	return nil
}

// Delete removes the file or empty directory at path. A non-empty
// directory fails with DirNotEmpty when recursive is false and with
// Unimplemented when recursive is true: children are never deleted.
func (v *Volume) Delete(path string, recursive bool) error {
	comps := splitPath(path)
	if len(comps) == 0 {
		return adferr.New(adferr.InvalidArgument, "can't delete directory '/'")
	}

	target, err := v.HeaderForPath(path)
	if err != nil {
		return err
	}
	root, err := v.RootBlock()
	if err != nil {
		return err
	}
	parent, err := block.NewHeaderBlock(v.img, target.Parent())
	if err != nil {
		return err
	}

	switch {
	case target.IsFile():
		if err := parent.DeleteChildFromHashtable(target); err != nil {
			return err
		}
		for _, dbn := range target.DataBlocks() {
			if err := root.FreeBlock(dbn); err != nil {
				return err
			}
		}
		if err := root.FreeBlock(target.HeaderKey()); err != nil {
			return err
		}

	case target.IsDirectory():
		switch {
		case target.IsEmpty():
			if err := parent.DeleteChildFromHashtable(target); err != nil {
				return err
			}
			if err := root.FreeBlock(target.HeaderKey()); err != nil {
				return err
			}
		case !recursive:
			return adferr.New(adferr.DirNotEmpty, "directory %q is not empty", path)
		default:
			// Recursive delete would need to walk the hashtable depth-first,
			// deleting children before the directory itself. Not implemented.
			return adferr.New(adferr.Unimplemented, "recursive directory delete is not implemented")
		}

	default:
		return adferr.New(adferr.Unimplemented, "deleting secondary type %d is not implemented", target.SecondaryType())
	}

	now := v.clock()
	parent.MarkAsModified(now)
	root.MarkDiskAsModified(now)
	return nil
}
