// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package ccm implements the software AES-128-CCM AEAD backend.
//
// CCM is CBC-MAC for authenticity and CTR for confidentiality over one
// block cipher key, per RFC 3610.  The mode is composed here, only the AES
// block primitive is borrowed, which keeps this backend a genuine drop in
// substitute for a CCM peripheral rather than a relabeling of one.
//
// The board contract pins the parameters at a 16 byte key, a 13 byte nonce
// and a 16 byte tag.  A 13 byte nonce leaves 2 octets for the block
// counter, so a single message is limited to 65535 bytes, larger inputs are
// rejected before any work is done.
package ccm

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"math"

	"gitlab.com/yawning/board.git"
	"gitlab.com/yawning/slice.git"
)

const (
	// KeySize is the AES-128-CCM key size in bytes.
	KeySize = 16

	// NonceSize is the AES-128-CCM nonce size in bytes.
	NonceSize = 13

	// TagSize is the AES-128-CCM authentication tag size in bytes.
	TagSize = 16

	blockSize = 16
)

var errBadParams = errors.New("ccm: invalid mode parameters")

type backend struct{}

// New constructs the software AES-128-CCM backend.
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

	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, board.ErrInvalidKeySize
	}
	m, err := newMode(blk, TagSize, NonceSize)
	if err != nil {
		return nil, board.ErrHardware
	}
	if uint64(len(plaintext)) > m.maxLength() {
		return nil, board.ErrOversized
	}

	return m.seal(dst, nonce, plaintext, additionalData), nil
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

	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, board.ErrInvalidKeySize
	}
	m, err := newMode(blk, TagSize, NonceSize)
	if err != nil {
		return nil, board.ErrHardware
	}
	if uint64(len(sealed)-TagSize) > m.maxLength() {
		return nil, board.ErrOversized
	}

	ret, ok := m.open(dst, nonce, sealed, additionalData)
	if !ok {
		return nil, board.ErrAuth
	}

	return ret, nil
}

// mode is the CCM core, parameterized the way the RFC is: an even tag size
// between 4 and 16, and a nonce between 7 and 13 bytes with the length
// field occupying the remainder of the block.
type mode struct {
	blk       cipher.Block
	tagSize   int
	nonceSize int
}

func newMode(blk cipher.Block, tagSize, nonceSize int) (*mode, error) {
	if blk.BlockSize() != blockSize {
		return nil, errBadParams
	}
	if tagSize < 4 || tagSize > 16 || tagSize&1 != 0 {
		return nil, errBadParams
	}
	if nonceSize < 7 || nonceSize > 13 {
		return nil, errBadParams
	}

	return &mode{
		blk:       blk,
		tagSize:   tagSize,
		nonceSize: nonceSize,
	}, nil
}

// maxLength returns the largest message the counter octets can address.
func (m *mode) maxLength() uint64 {
	L := 15 - m.nonceSize
	if L >= 8 {
		return math.MaxUint64
	}

	return 1<<(8*L) - 1
}

func (m *mode) seal(dst, nonce, plaintext, additionalData []byte) []byte {
	tag := m.authTag(nonce, plaintext, additionalData)

	ret, out := slice.ForAppend(dst, len(plaintext)+m.tagSize)
	m.keystream(nonce).XORKeyStream(out[:len(plaintext)], plaintext)
	copy(out[len(plaintext):], tag[:m.tagSize])
	wipe(tag[:])

	return ret
}

func (m *mode) open(dst, nonce, sealed, additionalData []byte) ([]byte, bool) {
	ptLen := len(sealed) - m.tagSize
	ret, out := slice.ForAppend(dst, ptLen)
	m.keystream(nonce).XORKeyStream(out, sealed[:ptLen])

	// The MAC covers the plaintext, so the tag can only be recomputed
	// after decrypting.  The plaintext stays in out, which is not released
	// until the comparison passes.
	tag := m.authTag(nonce, out, additionalData)
	ok := subtle.ConstantTimeCompare(sealed[ptLen:], tag[:m.tagSize]) == 1
	wipe(tag[:])
	if !ok {
		wipe(out)
		return nil, false
	}

	return ret, true
}

// authTag computes the CBC-MAC over the formatted B0, additional data and
// payload blocks, masked with the S0 keystream block.  The result is the
// untruncated 16 byte tag.
func (m *mode) authTag(nonce, payload, additionalData []byte) [blockSize]byte {
	L := 15 - m.nonceSize

	var b0 [blockSize]byte
	b0[0] = byte(L-1) | byte((m.tagSize-2)/2)<<3
	if len(additionalData) > 0 {
		b0[0] |= 0x40
	}
	copy(b0[1:], nonce)
	putLen(b0[blockSize-L:], uint64(len(payload)))

	mac := cbcMAC{blk: m.blk}
	mac.update(b0[:])
	if n := uint64(len(additionalData)); n > 0 {
		var hdr [10]byte
		switch {
		case n < 0xff00:
			binary.BigEndian.PutUint16(hdr[:], uint16(n))
			mac.update(hdr[:2])
		case n <= math.MaxUint32:
			hdr[0], hdr[1] = 0xff, 0xfe
			binary.BigEndian.PutUint32(hdr[2:], uint32(n))
			mac.update(hdr[:6])
		default:
			hdr[0], hdr[1] = 0xff, 0xff
			binary.BigEndian.PutUint64(hdr[2:], n)
			mac.update(hdr[:10])
		}
		mac.update(additionalData)
		mac.pad()
	}
	mac.update(payload)
	mac.pad()

	var s0 [blockSize]byte
	m.blk.Encrypt(s0[:], m.counterBlock(nonce))

	var tag [blockSize]byte
	for i := range tag {
		tag[i] = mac.x[i] ^ s0[i]
	}
	wipe(mac.x[:])
	wipe(mac.buf[:])
	wipe(s0[:])

	return tag
}

// keystream returns the CTR stream positioned at the first payload block.
// The caller's length check guarantees the counter octets never carry into
// the nonce octets, so the generic CTR increment is safe here.
func (m *mode) keystream(nonce []byte) cipher.Stream {
	a1 := m.counterBlock(nonce)
	a1[blockSize-1] = 1

	return cipher.NewCTR(m.blk, a1)
}

// counterBlock returns A0: the L' flags octet, the nonce, and a zero
// counter.
func (m *mode) counterBlock(nonce []byte) []byte {
	L := 15 - m.nonceSize
	a := make([]byte, blockSize)
	a[0] = byte(L - 1)
	copy(a[1:], nonce)

	return a
}

// cbcMAC is the raw CBC-MAC over full blocks, with zero padding of trailing
// partials left to the caller via pad.
type cbcMAC struct {
	blk cipher.Block
	x   [blockSize]byte
	buf [blockSize]byte
	n   int
}

func (m *cbcMAC) update(p []byte) {
	for len(p) > 0 {
		c := copy(m.buf[m.n:], p)
		m.n += c
		p = p[c:]
		if m.n == blockSize {
			m.flush()
		}
	}
}

func (m *cbcMAC) pad() {
	if m.n > 0 {
		for i := m.n; i < blockSize; i++ {
			m.buf[i] = 0
		}
		m.flush()
	}
}

func (m *cbcMAC) flush() {
	for i := range m.x {
		m.x[i] ^= m.buf[i]
	}
	m.blk.Encrypt(m.x[:], m.x[:])
	m.n = 0
}

// putLen writes v big endian into dst, which the caller has sized to the
// mode's length field.
func putLen(dst []byte, v uint64) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte(v)
		v >>= 8
	}
}

func wipe(p []byte) {
	for i := range p {
		p[i] = 0
	}
}
