// internal/hash/seahash/seahash.go

// Package seahash implements the SeaHash 64-bit non-cryptographic hash.
//
// The output is bit-compatible with the reference implementation's
// hash(buf) using the default seeds, so hashes computed here agree with
// those computed by other pipelines over the same bytes.
package seahash

import "encoding/binary"

// Default seeds of the reference implementation.
const (
	seedA uint64 = 0x16f11fe89b0d677c
	seedB uint64 = 0xb480a793d8e6c86c
	seedC uint64 = 0x6fe2e5aaf078ebc9
	seedD uint64 = 0x14f994a4c5259381
)

const prime uint64 = 0x6eed0e9da4d94a4f

// diffuse is the bijective mixing step applied to every lane write.
func diffuse(x uint64) uint64 {
	x *= prime
	x ^= (x >> 32) >> (x >> 60)
	x *= prime
	return x
}

// Sum64 returns the SeaHash of buf.
func Sum64(buf []byte) uint64 {
	a, b, c, d := seedA, seedB, seedC, seedD

	// Four lanes consume 32 bytes per round.
	n := len(buf)
	for len(buf) >= 32 {
		a = diffuse(a ^ binary.LittleEndian.Uint64(buf[0:8]))
		b = diffuse(b ^ binary.LittleEndian.Uint64(buf[8:16]))
		c = diffuse(c ^ binary.LittleEndian.Uint64(buf[16:24]))
		d = diffuse(d ^ binary.LittleEndian.Uint64(buf[24:32]))
		buf = buf[32:]
	}

	// Remaining whole and partial words continue the lane rotation a, b, c, d.
	for len(buf) > 0 {
		var word [8]byte
		k := copy(word[:], buf)
		buf = buf[k:]

		w := binary.LittleEndian.Uint64(word[:])
		a = diffuse(a ^ w)
		a, b, c, d = b, c, d, a
	}

	return diffuse(a ^ b ^ c ^ d ^ uint64(n))
}
