package volume

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiju/adftools/block"
	"github.com/weiju/adftools/checksum"
	"github.com/weiju/adftools/hash"
	"github.com/weiju/adftools/physical"
)

// Field offsets duplicated from block/types.go: the block package
// deliberately keeps these unexported, so fixture setup here pokes bytes
// directly through the exported physical.Sector API.
const (
	offPrimaryType    = 0
	offHeaderKey      = 4
	offHighSeq        = 8
	offHashtableSize  = 12
	sizeOffBitmapFlag = -200
	sizeOffBitmapPgs  = -196
	sizeOffNameLen    = -80
	sizeOffName       = -79
	sizeOffFileSize   = -188
	sizeOffDataStart  = -204
	sizeOffSecType    = -4
	sizeOffParent     = -12
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// initTestVolume builds a minimal but consistent filesystem: a root block
// (with an all-free bitmap covering every data block) and a boot block
// stamped with fsType. No real binary ADF fixture ships in this module, so
// tests construct their own rather than parsing one.
func initTestVolume(t *testing.T, fsType block.FilesystemType) *Volume {
	t.Helper()
	img := physical.NewImage(physical.DD)
	rootNum := uint32(img.NumSectors() / 2)
	bitmapNum := rootNum + 1

	rootSec, err := img.Sector(int(rootNum))
	require.NoError(t, err)
	bs := rootSec.SizeInBytes()

	rootSec.SetU32At(offPrimaryType, block.PrimaryTypeHeader)
	rootSec.SetU32At(offHeaderKey, rootNum)
	rootSec.SetU32At(offHashtableSize, 72)
	rootSec.SetU32At(bs+sizeOffSecType, uint32(int32(block.SecTypeRoot)))
	rootSec.SetU32At(bs+sizeOffBitmapFlag, uint32(int32(-1)))
	rootSec.SetU32At(bs+sizeOffBitmapPgs, bitmapNum)
	require.NoError(t, rootSec.SetAt(bs+sizeOffNameLen, byte(len("Volume"))))
	for i, c := range []byte("Volume") {
		require.NoError(t, rootSec.SetAt(bs+sizeOffName+i, c))
	}

	bmSec, err := img.Sector(int(bitmapNum))
	require.NoError(t, err)
	for i := 4; i < bmSec.SizeInBytes(); i += 4 {
		bmSec.SetU32At(i, 0xFFFFFFFF)
	}
	bmSec.SetU32At(0, checksum.HeaderBlock(bmSec.Raw(), 0))

	root, err := block.NewRootBlock(img, rootNum)
	require.NoError(t, err)
	root.UpdateChecksum()

	vol := New(img).WithClock(fixedClock(time.Date(2023, time.November, 26, 11, 32, 0, 0, time.UTC)))
	vol.Initialize(fsType, false, false)
	return vol
}

// writeFile constructs a file header block directly (Volume has no file
// write path) so FileData has something to assemble.
func writeFile(t *testing.T, vol *Volume, parent *block.HeaderBlock, headerBlockNum uint32, name string, dataBlockNums []uint32, fileSize uint32, fsType block.FilesystemType, payloadPerBlock [][]byte) {
	t.Helper()
	img := vol.Image()

	sec, err := img.Sector(int(headerBlockNum))
	require.NoError(t, err)
	bs := sec.SizeInBytes()

	sec.SetU32At(offPrimaryType, block.PrimaryTypeHeader)
	sec.SetU32At(offHeaderKey, headerBlockNum)
	sec.SetU32At(offHighSeq, uint32(len(dataBlockNums)))
	sec.SetU32At(bs+sizeOffSecType, uint32(int32(block.SecTypeFile)))
	sec.SetU32At(bs+sizeOffFileSize, fileSize)
	sec.SetU32At(bs+sizeOffParent, parent.BlockNum())
	require.NoError(t, sec.SetAt(bs+sizeOffNameLen, byte(len(name))))
	for i, c := range []byte(name) {
		require.NoError(t, sec.SetAt(bs+sizeOffName+i, c))
	}
	for i, bn := range dataBlockNums {
		sec.SetU32At(bs+sizeOffDataStart-i*4, bn)
	}

	for i, bn := range dataBlockNums {
		dataSec, err := img.Sector(int(bn))
		require.NoError(t, err)
		payload := payloadPerBlock[i]
		switch fsType {
		case block.OFS:
			dataSec.SetU32At(8, uint32(i+1))
			dataSec.SetU32At(12, uint32(len(payload)))
			copy(dataSec.Raw()[24:], payload)
		case block.FFS:
			copy(dataSec.Raw(), payload)
		}
	}

	hb, err := block.NewHeaderBlock(img, headerBlockNum)
	require.NoError(t, err)
	hb.UpdateChecksum()
}

func TestMakedirCreatesDirectoryUnderParent(t *testing.T) {
	vol := initTestVolume(t, block.OFS)

	require.NoError(t, vol.Makedir("games"))

	dir, err := vol.HeaderForPath("games")
	require.NoError(t, err)
	assert.True(t, dir.IsDirectory())
	assert.Equal(t, "games", dir.Name())

	root, err := vol.RootBlock()
	require.NoError(t, err)
	_, used, err := root.BlockAllocation()
	require.NoError(t, err)
	assert.Contains(t, used, dir.BlockNum())
}

func TestMakedirNestedPath(t *testing.T) {
	vol := initTestVolume(t, block.OFS)

	require.NoError(t, vol.Makedir("games"))
	require.NoError(t, vol.Makedir("games/arcade"))

	dir, err := vol.HeaderForPath("games/arcade")
	require.NoError(t, err)
	assert.Equal(t, "arcade", dir.Name())
}

func TestMakedirRootRejected(t *testing.T) {
	vol := initTestVolume(t, block.OFS)
	err := vol.Makedir("/")
	assert.Error(t, err)
}

func TestDeleteEmptyDirectory(t *testing.T) {
	vol := initTestVolume(t, block.OFS)
	require.NoError(t, vol.Makedir("empty"))

	dir, err := vol.HeaderForPath("empty")
	require.NoError(t, err)
	blockNum := dir.BlockNum()

	require.NoError(t, vol.Delete("empty", false))

	_, err = vol.HeaderForPath("empty")
	assert.Error(t, err)

	root, err := vol.RootBlock()
	require.NoError(t, err)
	free, _, err := root.BlockAllocation()
	require.NoError(t, err)
	assert.Contains(t, free, blockNum)
}

func TestDeleteNonEmptyDirectoryRequiresRecursive(t *testing.T) {
	vol := initTestVolume(t, block.OFS)
	require.NoError(t, vol.Makedir("parent"))
	require.NoError(t, vol.Makedir("parent/child"))

	err := vol.Delete("parent", false)
	assert.Error(t, err)
}

func TestDeleteRootRejected(t *testing.T) {
	vol := initTestVolume(t, block.OFS)
	err := vol.Delete("/", false)
	assert.Error(t, err)
}

func TestFileDataOFS(t *testing.T) {
	vol := initTestVolume(t, block.OFS)
	root, err := vol.RootBlock()
	require.NoError(t, err)

	require.NoError(t, root.AllocateBlock(400))
	require.NoError(t, root.AllocateBlock(500))
	require.NoError(t, root.AllocateBlock(501))

	payload1 := []byte("first block payload")
	payload2 := []byte("second")
	writeFile(t, vol, root.HeaderBlock, 400, "readme", []uint32{500, 501}, uint32(len(payload1)+len(payload2)), block.OFS, [][]byte{payload1, payload2})

	require.NoError(t, root.AppendHashtableEntryAt(hash.Compute("readme", root.BlockSize()), 400))

	data, err := vol.FileData("readme")
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte{}, payload1...), payload2...), data)
}

func TestFileDataFFS(t *testing.T) {
	vol := initTestVolume(t, block.FFS)
	root, err := vol.RootBlock()
	require.NoError(t, err)

	require.NoError(t, root.AllocateBlock(400))
	require.NoError(t, root.AllocateBlock(500))

	full := make([]byte, 512)
	for i := range full {
		full[i] = byte(i)
	}
	fileSize := uint32(300)
	writeFile(t, vol, root.HeaderBlock, 400, "bin", []uint32{500}, fileSize, block.FFS, [][]byte{full})
	require.NoError(t, root.AppendHashtableEntryAt(hash.Compute("bin", root.BlockSize()), 400))

	data, err := vol.FileData("bin")
	require.NoError(t, err)
	assert.Equal(t, int(fileSize), len(data))
	assert.Equal(t, full[:fileSize], data)
}
