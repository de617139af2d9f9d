// Package adferr defines the sentinel error kinds the ADF engine raises.
//
// Call sites wrap these with github.com/pkg/errors (errors.Wrap / Wrapf) to
// attach positional context (path, block number); Is() recovers the
// sentinel kind through any such wrapping via errors.Cause.
package adferr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the class of failure the core engine can raise.
type Kind int

const (
	// BadImageSize: image length is not a known disk size.
	BadImageSize Kind = iota
	// NotDos: boot-block magic is not "DOS".
	NotDos
	// UnsupportedFs: flag bits indicate a filesystem variant the engine
	// does not handle (dircache reads, international hash, neither OFS/FFS).
	UnsupportedFs
	// OutOfRange: byte or block index outside the image; hashtable index
	// outside [0, size).
	OutOfRange
	// NotFound: path component does not exist in the parent's hash chain.
	NotFound
	// AlreadyAllocated: attempt to allocate a block whose bitmap bit is
	// already clear, or no free block remains.
	AlreadyAllocated
	// ChainCorrupt: hash chain walk ran off the end without finding an
	// expected block.
	ChainCorrupt
	// DirNotEmpty: non-recursive delete on a populated directory.
	DirNotEmpty
	// InvalidArgument: empty path, attempt to delete root, malformed name.
	InvalidArgument
	// Unimplemented: recursive directory delete, file extension blocks,
	// dircache, international hash.
	Unimplemented
)

func (k Kind) String() string {
	switch k {
	case BadImageSize:
		return "BadImageSize"
	case NotDos:
		return "NotDos"
	case UnsupportedFs:
		return "UnsupportedFs"
	case OutOfRange:
		return "OutOfRange"
	case NotFound:
		return "NotFound"
	case AlreadyAllocated:
		return "AlreadyAllocated"
	case ChainCorrupt:
		return "ChainCorrupt"
	case DirNotEmpty:
		return "DirNotEmpty"
	case InvalidArgument:
		return "InvalidArgument"
	case Unimplemented:
		return "Unimplemented"
	default:
		return "Unknown"
	}
}

// Error is the concrete error value carried for every Kind.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds a sentinel error of the given kind.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err (or its pkg/errors cause chain) carries kind.
func Is(err error, kind Kind) bool {
	cause := errors.Cause(err)
	e, ok := cause.(*Error)
	return ok && e.Kind == kind
}
