// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

//go:build amd64 && !noasm

package hardware

import (
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/sys/cpu"

	"gitlab.com/yawning/board.git"
)

const (
	gcmKeySize   = 32
	gcmNonceSize = 12
	gcmTagSize   = 16

	// gcmMaxBytes is the largest message the 32 bit block counter can
	// address.
	gcmMaxBytes = (1<<32 - 2) * 16
)

type gcmFactory struct{}

func (gcmFactory) Name() string {
	return "aesni-gcm"
}

func (gcmFactory) New() board.AEAD {
	return gcmEngine{}
}

// gcmEngine adapts the runtime library GCM, which dispatches to the AES-NI
// and PCLMULQDQ code paths on the CPUs this factory registers for, to the
// board contract.  The runtime library caches round keys inside the value
// returned by NewGCM, constructing it per call keeps the backend stateless
// the way the contract demands.
type gcmEngine struct{}

func (gcmEngine) KeySize() int {
	return gcmKeySize
}

func (gcmEngine) NonceSize() int {
	return gcmNonceSize
}

func (gcmEngine) Overhead() int {
	return gcmTagSize
}

func (gcmEngine) Seal(dst, key, nonce, plaintext, additionalData []byte) ([]byte, error) {
	if len(key) != gcmKeySize {
		return nil, board.ErrInvalidKeySize
	}
	if len(nonce) != gcmNonceSize {
		return nil, board.ErrInvalidNonceSize
	}
	if uint64(len(plaintext)) > gcmMaxBytes {
		return nil, board.ErrOversized
	}

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	return aead.Seal(dst, nonce, plaintext, additionalData), nil
}

func (gcmEngine) Open(dst, key, nonce, sealed, additionalData []byte) ([]byte, error) {
	if len(key) != gcmKeySize {
		return nil, board.ErrInvalidKeySize
	}
	if len(nonce) != gcmNonceSize {
		return nil, board.ErrInvalidNonceSize
	}
	if len(sealed) < gcmTagSize {
		return nil, board.ErrAuth
	}
	if uint64(len(sealed)-gcmTagSize) > gcmMaxBytes {
		return nil, board.ErrOversized
	}

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	ret, err := aead.Open(dst, nonce, sealed, additionalData)
	if err != nil {
		// The library error type stays on this side of the boundary.
		return nil, board.ErrAuth
	}

	return ret, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, board.ErrInvalidKeySize
	}
	aead, err := cipher.NewGCM(blk)
	if err != nil {
		return nil, board.ErrHardware
	}

	return aead, nil
}

func init() {
	if cpu.X86.HasAES && cpu.X86.HasPCLMULQDQ {
		AEAD256 = gcmFactory{}
	}
}
