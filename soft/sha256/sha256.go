// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package sha256 implements the software SHA-256 hash backend.
//
// The compression function lives here rather than being borrowed from a
// platform engine so that a board with a hardware digest peripheral and a
// board without one produce byte identical digests from two genuinely
// distinct implementations.  Streaming sessions and the one shot path share
// the same compression, a message fed in any sequence of chunks digests to
// the same value as the whole message at once.
package sha256

import (
	"encoding/binary"
	"math/bits"

	"gitlab.com/yawning/board.git"
	"gitlab.com/yawning/slice.git"
)

const (
	// Size is the SHA-256 digest size in bytes.
	Size = 32

	// BlockSize is the SHA-256 compression block size in bytes.
	BlockSize = 64
)

var initH = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

var roundK = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

type state struct {
	h   [8]uint32
	x   [BlockSize]byte
	nx  int
	len uint64
}

func (d *state) reset() {
	d.h = initH
	d.nx = 0
	d.len = 0
}

func (d *state) update(p []byte) {
	d.len += uint64(len(p))
	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == BlockSize {
			blocks(&d.h, d.x[:])
			d.nx = 0
		}
		p = p[n:]
	}
	if len(p) >= BlockSize {
		n := len(p) &^ (BlockSize - 1)
		blocks(&d.h, p[:n])
		p = p[n:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
}

// finalize applies the padding and length trailer, appends the digest to
// dst, and wipes the state.
func (d *state) finalize(dst []byte) []byte {
	msgLen := d.len

	var trailer [BlockSize + 8]byte
	trailer[0] = 0x80
	var pad uint64
	if r := msgLen % BlockSize; r < 56 {
		pad = 56 - r
	} else {
		pad = BlockSize + 56 - r
	}
	binary.BigEndian.PutUint64(trailer[pad:], msgLen<<3)
	d.update(trailer[:pad+8])

	ret, out := slice.ForAppend(dst, Size)
	for i, v := range d.h {
		binary.BigEndian.PutUint32(out[i*4:], v)
	}
	d.wipe()

	return ret
}

func (d *state) wipe() {
	for i := range d.h {
		d.h[i] = 0
	}
	for i := range d.x {
		d.x[i] = 0
	}
	d.nx = 0
	d.len = 0
}

func blocks(s *[8]uint32, p []byte) {
	var w [64]uint32

	for len(p) >= BlockSize {
		for i := 0; i < 16; i++ {
			w[i] = binary.BigEndian.Uint32(p[i*4:])
		}
		for i := 16; i < 64; i++ {
			v1 := w[i-2]
			t1 := bits.RotateLeft32(v1, -17) ^ bits.RotateLeft32(v1, -19) ^ (v1 >> 10)
			v2 := w[i-15]
			t2 := bits.RotateLeft32(v2, -7) ^ bits.RotateLeft32(v2, -18) ^ (v2 >> 3)
			w[i] = t1 + w[i-7] + t2 + w[i-16]
		}

		a, b, c, d, e, f, g, h := s[0], s[1], s[2], s[3], s[4], s[5], s[6], s[7]
		for i := 0; i < 64; i++ {
			t1 := h + (bits.RotateLeft32(e, -6) ^ bits.RotateLeft32(e, -11) ^ bits.RotateLeft32(e, -25)) + ((e & f) ^ (^e & g)) + roundK[i] + w[i]
			t2 := (bits.RotateLeft32(a, -2) ^ bits.RotateLeft32(a, -13) ^ bits.RotateLeft32(a, -22)) + ((a & b) ^ (a & c) ^ (b & c))
			h = g
			g = f
			f = e
			e = d + t1
			d = c
			c = b
			b = a
			a = t1 + t2
		}
		s[0] += a
		s[1] += b
		s[2] += c
		s[3] += d
		s[4] += e
		s[5] += f
		s[6] += g
		s[7] += h

		p = p[BlockSize:]
	}
}

type backend struct{}

// New constructs the software SHA-256 hash backend.
func New() board.Hash {
	return backend{}
}

func (backend) Size() int {
	return Size
}

func (backend) BlockSize() int {
	return BlockSize
}

func (backend) Sum(dst, msg []byte) ([]byte, error) {
	var d state
	d.reset()
	d.update(msg)

	return d.finalize(dst), nil
}

func (backend) New() (board.HashSession, error) {
	s := new(session)
	s.d.reset()

	return s, nil
}

type session struct {
	d    state
	done bool
}

func (s *session) Write(p []byte) (int, error) {
	if s.done {
		return 0, board.ErrUnsupported
	}
	s.d.update(p)

	return len(p), nil
}

func (s *session) Sum(dst []byte) ([]byte, error) {
	if s.done {
		return nil, board.ErrUnsupported
	}
	s.done = true

	return s.d.finalize(dst), nil
}
