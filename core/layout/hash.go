package layout

import "unicode/utf16"

const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619
)

// HashFn maps a string to a 32 bit hash. Any deterministic function works.
type HashFn func(s string) uint32

// FNV1a is the 32 bit FNV-1a hash over the UTF-16 code units of s.
// The empty string hashes like "0".
func FNV1a(s string) uint32 {
	if s == "" {
		s = "0"
	}
	h := fnvOffset32
	for _, unit := range utf16.Encode([]rune(s)) {
		h ^= uint32(unit)
		h *= fnvPrime32
	}
	return h
}
