// Package checksum implements the two distinct AmigaDOS block-checksum
// algorithms. They are intentionally not shared: the boot-block and the
// header/bitmap-block checksums differ in both their overflow simulation
// and their final transform.
package checksum

import "encoding/binary"

// bootBlockExcludeOffset is the stored-checksum field inside the boot block.
const bootBlockExcludeOffset = 4

// bootBlockBytes is the span the boot-block checksum is computed over
// (two sectors), regardless of the full data slice's length.
const bootBlockBytes = 1024

// BootBlock computes the boot-block checksum over data[0:1024], skipping
// the stored-checksum word at offset 4, and returns the bitwise NOT of the
// 32-bit wraparound sum.
func BootBlock(data []byte) uint32 {
	var result uint32
	for i := 0; i+4 <= bootBlockBytes; i += 4 {
		if i == bootBlockExcludeOffset {
			continue
		}
		d := binary.BigEndian.Uint32(data[i : i+4])
		sum := uint64(result) + uint64(d)
		if sum > 0xFFFFFFFF {
			sum -= 0xFFFFFFFF
		}
		result = uint32(sum)
	}
	return ^result
}

// HeaderBlock computes the header/bitmap-block checksum over the full
// block, skipping the word at excludeOffset (20 for header blocks, 0 for
// bitmap blocks), and returns the two's-complement negation of the sum.
func HeaderBlock(data []byte, excludeOffset int) uint32 {
	var result uint32
	for i := 0; i+4 <= len(data); i += 4 {
		if i == excludeOffset {
			continue
		}
		d := binary.BigEndian.Uint32(data[i : i+4])
		sum := uint64(result) + uint64(d)
		if sum > 0xFFFFFFFF {
			sum = sum - 0xFFFFFFFF - 1
		}
		result = uint32(sum)
	}
	return -result
}
