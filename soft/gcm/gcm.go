// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package gcm implements the software AES-256-GCM AEAD backend.
//
// The mode is composed here from a 32 bit counter stream and a GHASH
// written as a branch free GF(2^128) multiply, only the AES block primitive
// is borrowed.  The platform engine on capable hosts is the carryless
// multiply accelerated implementation, keeping the two backends genuinely
// distinct lets the equivalence tests mean something.
//
// Only the 96 bit nonce case is supported, the GHASH based derivation for
// other nonce sizes is deliberately absent and such nonces are rejected.
// The tag is always 16 bytes.  GHASH here trades speed for a total absence
// of secret indexed table lookups, which is the right trade for a software
// fallback standing in for silicon.
package gcm

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"

	"gitlab.com/yawning/board.git"
	"gitlab.com/yawning/slice.git"
)

const (
	// KeySize is the AES-256-GCM key size in bytes.
	KeySize = 32

	// NonceSize is the AES-256-GCM nonce size in bytes.
	NonceSize = 12

	// TagSize is the AES-256-GCM authentication tag size in bytes.
	TagSize = 16

	blockSize = 16

	// maxPlaintext is the largest message the 32 bit block counter can
	// address.
	maxPlaintext = (1<<32 - 2) * blockSize
)

type backend struct{}

// New constructs the software AES-256-GCM backend.
func New() board.AEAD {
	return backend{}
}

func (backend) KeySize() int {
	return KeySize
}

func (backend) NonceSize() int {
	return NonceSize
}

func (backend) Overhead() int {
	return TagSize
}

func (backend) Seal(dst, key, nonce, plaintext, additionalData []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, board.ErrInvalidKeySize
	}
	if len(nonce) != NonceSize {
		return nil, board.ErrInvalidNonceSize
	}
	if uint64(len(plaintext)) > maxPlaintext {
		return nil, board.ErrOversized
	}

	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, board.ErrInvalidKeySize
	}

	var zero, h, j0, tagMask [blockSize]byte
	blk.Encrypt(h[:], zero[:])
	copy(j0[:], nonce)
	j0[blockSize-1] = 1
	blk.Encrypt(tagMask[:], j0[:])

	ret, out := slice.ForAppend(dst, len(plaintext)+TagSize)
	ctr32XOR(blk, &j0, out[:len(plaintext)], plaintext)

	var g ghash
	g.init(&h)
	g.absorb(additionalData)
	g.absorb(out[:len(plaintext)])
	g.lengths(uint64(len(additionalData)), uint64(len(plaintext)))

	var tag [blockSize]byte
	g.sum(&tag, &tagMask)
	copy(out[len(plaintext):], tag[:])
	g.wipe()
	wipe(tag[:])
	wipe(h[:])
	wipe(tagMask[:])

	return ret, nil
}

func (backend) Open(dst, key, nonce, sealed, additionalData []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, board.ErrInvalidKeySize
	}
	if len(nonce) != NonceSize {
		return nil, board.ErrInvalidNonceSize
	}
	if len(sealed) < TagSize {
		return nil, board.ErrAuth
	}
	ptLen := len(sealed) - TagSize
	if uint64(ptLen) > maxPlaintext {
		return nil, board.ErrOversized
	}

	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, board.ErrInvalidKeySize
	}

	var zero, h, j0, tagMask [blockSize]byte
	blk.Encrypt(h[:], zero[:])
	copy(j0[:], nonce)
	j0[blockSize-1] = 1
	blk.Encrypt(tagMask[:], j0[:])

	// GHASH runs over the ciphertext, so the tag check happens before a
	// single byte is decrypted.
	var expected [blockSize]byte
	var g ghash
	g.init(&h)
	g.absorb(additionalData)
	g.absorb(sealed[:ptLen])
	g.lengths(uint64(len(additionalData)), uint64(ptLen))
	g.sum(&expected, &tagMask)
	g.wipe()
	wipe(h[:])
	wipe(tagMask[:])

	ok := subtle.ConstantTimeCompare(sealed[ptLen:], expected[:]) == 1
	wipe(expected[:])
	if !ok {
		return nil, board.ErrAuth
	}

	ret, out := slice.ForAppend(dst, ptLen)
	ctr32XOR(blk, &j0, out, sealed[:ptLen])

	return ret, nil
}

// ctr32XOR XORs src with the keystream generated by incrementing the low 32
// bits of j0, leaving the nonce octets untouched, and writes the result to
// dst.  The counter is pre-incremented, so the first keystream block uses
// inc32(J0) as GCM requires.
func ctr32XOR(blk cipher.Block, j0 *[blockSize]byte, dst, src []byte) {
	counter := *j0
	var ks [blockSize]byte

	for len(src) > 0 {
		inc32(&counter)
		blk.Encrypt(ks[:], counter[:])

		n := len(src)
		if n > blockSize {
			n = blockSize
		}
		for i := 0; i < n; i++ {
			dst[i] = src[i] ^ ks[i]
		}
		src, dst = src[n:], dst[n:]
	}

	wipe(ks[:])
}

func inc32(counter *[blockSize]byte) {
	n := binary.BigEndian.Uint32(counter[blockSize-4:])
	binary.BigEndian.PutUint32(counter[blockSize-4:], n+1)
}

// ghash is GHASH with the hash key and accumulator held as big endian
// uint64 halves.  The multiply scans all 128 bits of the operand with mask
// arithmetic, there are no secret dependent branches or table lookups.
type ghash struct {
	hHi, hLo uint64
	yHi, yLo uint64
}

func (g *ghash) init(h *[blockSize]byte) {
	g.hHi = binary.BigEndian.Uint64(h[0:8])
	g.hLo = binary.BigEndian.Uint64(h[8:16])
	g.yHi, g.yLo = 0, 0
}

// absorb folds p into the accumulator, zero padding a trailing partial
// block.
func (g *ghash) absorb(p []byte) {
	for len(p) >= blockSize {
		g.yHi ^= binary.BigEndian.Uint64(p[0:8])
		g.yLo ^= binary.BigEndian.Uint64(p[8:16])
		g.mul()
		p = p[blockSize:]
	}
	if len(p) > 0 {
		var block [blockSize]byte
		copy(block[:], p)
		g.yHi ^= binary.BigEndian.Uint64(block[0:8])
		g.yLo ^= binary.BigEndian.Uint64(block[8:16])
		g.mul()
		wipe(block[:])
	}
}

// lengths folds in the closing block of bit lengths.
func (g *ghash) lengths(aadLen, ptLen uint64) {
	g.yHi ^= aadLen << 3
	g.yLo ^= ptLen << 3
	g.mul()
}

// sum writes the accumulator XORed with the tag mask into out.
func (g *ghash) sum(out, tagMask *[blockSize]byte) {
	binary.BigEndian.PutUint64(out[0:8], g.yHi)
	binary.BigEndian.PutUint64(out[8:16], g.yLo)
	for i := range out {
		out[i] ^= tagMask[i]
	}
}

// mul sets y = y·h in GF(2^128) with the GCM bit ordering.
func (g *ghash) mul() {
	var zHi, zLo uint64
	vHi, vLo := g.hHi, g.hLo
	yHi, yLo := g.yHi, g.yLo

	for i := 0; i < 128; i++ {
		mask := uint64(int64(yHi) >> 63)
		zHi ^= vHi & mask
		zLo ^= vLo & mask

		yHi = yHi<<1 | yLo>>63
		yLo <<= 1

		carry := vLo & 1
		vLo = vLo>>1 | vHi<<63
		vHi >>= 1
		vHi ^= 0xe100000000000000 & (-carry)
	}

	g.yHi, g.yLo = zHi, zLo
}

func (g *ghash) wipe() {
	g.hHi, g.hLo, g.yHi, g.yLo = 0, 0, 0, 0
}

func wipe(p []byte) {
	for i := range p {
		p[i] = 0
	}
}
