package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiju/adftools/physical"
)

func TestWordAndMaskLowestBitIsBlockTwo(t *testing.T) {
	byteOffset, mask := wordAndMask(2)
	assert.Equal(t, 4, byteOffset)
	assert.Equal(t, uint32(0x80000000), mask)
}

func TestWordAndMaskAdvancesWords(t *testing.T) {
	byteOffset, mask := wordAndMask(34)
	assert.Equal(t, 8, byteOffset)
	assert.Equal(t, uint32(0x80000000), mask)
}

func TestMarkBlockUsedClearsBit(t *testing.T) {
	img := physical.NewImage(physical.DD)
	bm, err := NewBitmapBlock(img, 5)
	require.NoError(t, err)

	byteOffset, _ := wordAndMask(2)
	bm.sec.SetU32At(byteOffset, 0xFFFFFFFF)

	require.NoError(t, bm.MarkBlockUsed(2))
	assert.Equal(t, uint32(0x7FFFFFFF), bm.sec.U32At(byteOffset))
	assert.Equal(t, bm.ComputedChecksum(), bm.StoredChecksum())
}

func TestMarkBlockFreeSetsBit(t *testing.T) {
	img := physical.NewImage(physical.DD)
	bm, err := NewBitmapBlock(img, 5)
	require.NoError(t, err)

	byteOffset, _ := wordAndMask(2)
	bm.sec.SetU32At(byteOffset, 0)

	require.NoError(t, bm.MarkBlockFree(2))
	assert.Equal(t, uint32(0x80000000), bm.sec.U32At(byteOffset))
	assert.Equal(t, bm.ComputedChecksum(), bm.StoredChecksum())
}
