// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

//go:build !noasm

package hardware

import (
	"hash"

	"github.com/klauspost/cpuid/v2"
	sha256simd "github.com/minio/sha256-simd"

	"gitlab.com/yawning/board.git"
	"gitlab.com/yawning/slice.git"
)

type shaFactory struct{}

func (shaFactory) Name() string {
	return "sha-ext"
}

func (shaFactory) New() board.Hash {
	return shaEngine{}
}

// shaEngine adapts the SIMD SHA-256 library, which uses the SHA extension
// code path on the CPUs this factory registers for, to the board contract.
type shaEngine struct{}

func (shaEngine) Size() int {
	return sha256simd.Size
}

func (shaEngine) BlockSize() int {
	return sha256simd.BlockSize
}

func (shaEngine) Sum(dst, msg []byte) ([]byte, error) {
	digest := sha256simd.Sum256(msg)
	ret, out := slice.ForAppend(dst, len(digest))
	copy(out, digest[:])

	return ret, nil
}

func (shaEngine) New() (board.HashSession, error) {
	return &shaSession{h: sha256simd.New()}, nil
}

type shaSession struct {
	h    hash.Hash
	done bool
}

func (s *shaSession) Write(p []byte) (int, error) {
	if s.done {
		return 0, board.ErrUnsupported
	}

	return s.h.Write(p)
}

func (s *shaSession) Sum(dst []byte) ([]byte, error) {
	if s.done {
		return nil, board.ErrUnsupported
	}
	s.done = true

	return s.h.Sum(dst), nil
}

func init() {
	if cpuid.CPU.Supports(cpuid.SHA) {
		Hash256 = shaFactory{}
	}
}
