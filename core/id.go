package core

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for dataset entries and cache keys.
// It is generated from content so identical content produces identical IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// CacheKey derives a stable hex key from the given parts. Parts are joined
// with a unit separator so ("ab","c") and ("a","bc") hash differently.
func CacheKey(parts ...string) string {
	h, _ := blake2b.New(16, nil)
	for i, part := range parts {
		if i > 0 {
			h.Write([]byte{0x1f})
		}
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}
