// Package hash implements the AmigaDOS non-international directory-name
// hash used to pick a header block's hash-table slot. The "international"
// case-folding variant is not implemented.
package hash

// Compute returns the hash-table slot index for name on a block of the
// given size. Folding is ASCII-uppercase only, on the [a-z] range.
func Compute(name string, blockSize int) int {
	h := len(name)
	for i := 0; i < len(name); i++ {
		h = (h*13 + int(foldUpper(name[i]))) & 0x7FF
	}
	divisor := blockSize/4 - 56
	return h % divisor
}

func foldUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
