// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package boardtest

import (
	"gitlab.com/yawning/board.git"
)

// FakeAEADEngine wraps a real backend and behaves like an exclusive
// hardware engine: every operation is counted, the engine can be programmed
// to start failing as a flaky peripheral would, and re-entering it while a
// call is in flight panics, since overlapping calls on one backend instance
// are a composition bug no error return should paper over.
//
// Size queries are metadata, not operations, and are never counted or
// failed.
type FakeAEADEngine struct {
	// Backend is the real implementation behind the engine.
	Backend board.AEAD

	// FailAfter, when positive, makes every operation beyond that many
	// fail.
	FailAfter int

	// Err is the failure returned once FailAfter is exceeded.  Nil means
	// ErrHardware.
	Err error

	// Calls counts Seal and Open invocations, including failed ones.
	Calls int

	inFlight bool
}

func (f *FakeAEADEngine) KeySize() int {
	return f.Backend.KeySize()
}

func (f *FakeAEADEngine) NonceSize() int {
	return f.Backend.NonceSize()
}

func (f *FakeAEADEngine) Overhead() int {
	return f.Backend.Overhead()
}

func (f *FakeAEADEngine) Seal(dst, key, nonce, plaintext, additionalData []byte) ([]byte, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	defer f.leave()

	return f.Backend.Seal(dst, key, nonce, plaintext, additionalData)
}

func (f *FakeAEADEngine) Open(dst, key, nonce, sealed, additionalData []byte) ([]byte, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	defer f.leave()

	return f.Backend.Open(dst, key, nonce, sealed, additionalData)
}

func (f *FakeAEADEngine) enter() error {
	if f.inFlight {
		panic("boardtest: aead engine re-entered while a call is in flight")
	}
	f.Calls++
	if f.FailAfter > 0 && f.Calls > f.FailAfter {
		return f.failure()
	}
	f.inFlight = true

	return nil
}

func (f *FakeAEADEngine) leave() {
	f.inFlight = false
}

func (f *FakeAEADEngine) failure() error {
	if f.Err != nil {
		return f.Err
	}

	return board.ErrHardware
}

// FakeHashEngine is the digest counterpart of FakeAEADEngine.  One shot
// sums and session construction count as operations, traffic on an already
// constructed session does not, the session owns its slice of engine state
// for its whole lifetime.
type FakeHashEngine struct {
	Backend   board.Hash
	FailAfter int
	Err       error
	Calls     int

	inFlight bool
}

func (f *FakeHashEngine) Size() int {
	return f.Backend.Size()
}

func (f *FakeHashEngine) BlockSize() int {
	return f.Backend.BlockSize()
}

func (f *FakeHashEngine) Sum(dst, msg []byte) ([]byte, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	defer f.leave()

	return f.Backend.Sum(dst, msg)
}

func (f *FakeHashEngine) New() (board.HashSession, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	defer f.leave()

	return f.Backend.New()
}

func (f *FakeHashEngine) enter() error {
	if f.inFlight {
		panic("boardtest: hash engine re-entered while a call is in flight")
	}
	f.Calls++
	if f.FailAfter > 0 && f.Calls > f.FailAfter {
		return f.failure()
	}
	f.inFlight = true

	return nil
}

func (f *FakeHashEngine) leave() {
	f.inFlight = false
}

func (f *FakeHashEngine) failure() error {
	if f.Err != nil {
		return f.Err
	}

	return board.ErrHardware
}
