package block

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weiju/adftools/physical"
)

func TestBootBlockInitializeOFS(t *testing.T) {
	img := physical.NewImage(physical.DD)
	bb := NewBootBlock(img)

	bb.Initialize(OFS, false, false)

	assert.True(t, bb.IsDos())
	assert.Equal(t, OFS, bb.FilesystemType())
	assert.Equal(t, byte(0), bb.Flags())
}

func TestBootBlockInitializeFFSInternationalDircache(t *testing.T) {
	img := physical.NewImage(physical.DD)
	bb := NewBootBlock(img)

	bb.Initialize(FFS, true, true)

	assert.Equal(t, FFS, bb.FilesystemType())
	assert.Equal(t, byte(1|4), bb.Flags())
}

func TestBootBlockInitializeDoesNotTouchChecksum(t *testing.T) {
	img := physical.NewImage(physical.DD)
	bb := NewBootBlock(img)

	bb.Initialize(OFS, false, false)
	assert.Equal(t, uint32(0), bb.StoredChecksum())

	bb.UpdateChecksum()
	assert.Equal(t, bb.ComputedChecksum(), bb.StoredChecksum())
}

func TestBootBlockIsDosFalseOnBlank(t *testing.T) {
	img := physical.NewImage(physical.DD)
	bb := NewBootBlock(img)
	assert.False(t, bb.IsDos())
}
