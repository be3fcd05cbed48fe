// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package board

// Unsupported implements every capability contract by failing with
// ErrUnsupported.  Boards use it to fill a slot they deliberately do not
// provide while keeping the failure mode explicit rather than a nil
// dereference.
type Unsupported struct{}

var (
	_ Rng    = Unsupported{}
	_ Timer  = Unsupported{}
	_ AEAD   = Unsupported{}
	_ Hash   = Unsupported{}
	_ Store  = Unsupported{}
	_ Serial = Unsupported{}
	_ Button = Unsupported{}
	_ Led    = Unsupported{}
)

func (Unsupported) FillBytes(p []byte) error { return ErrUnsupported }

func (Unsupported) Now() uint64 { return 0 }

func (Unsupported) Frequency() uint64 { return 0 }

func (Unsupported) KeySize() int { return 0 }

func (Unsupported) NonceSize() int { return 0 }

func (Unsupported) Overhead() int { return 0 }

func (Unsupported) Seal(dst, key, nonce, plaintext, additionalData []byte) ([]byte, error) {
	return nil, ErrUnsupported
}

func (Unsupported) Open(dst, key, nonce, sealed, additionalData []byte) ([]byte, error) {
	return nil, ErrUnsupported
}

func (Unsupported) Size() int { return 0 }

func (Unsupported) BlockSize() int { return 0 }

func (Unsupported) Sum(dst, msg []byte) ([]byte, error) { return nil, ErrUnsupported }

func (Unsupported) New() (HashSession, error) { return nil, ErrUnsupported }

func (Unsupported) Read(key uint16) ([]byte, error) { return nil, ErrUnsupported }

func (Unsupported) Write(key uint16, value []byte) error { return ErrUnsupported }

func (Unsupported) Delete(key uint16) error { return ErrUnsupported }

func (Unsupported) Send(p []byte) (int, error) { return 0, ErrUnsupported }

func (Unsupported) Receive(p []byte) (int, error) { return 0, ErrUnsupported }

func (Unsupported) Flush() error { return ErrUnsupported }

func (Unsupported) Pressed() (bool, error) { return false, ErrUnsupported }

func (Unsupported) Set(on bool) error { return ErrUnsupported }

func (Unsupported) Get() (bool, error) { return false, ErrUnsupported }

// Unimplemented implements every capability contract by panicking.  It
// marks a slot that must never be reached, reaching one is a board
// composition bug, not a runtime condition.
type Unimplemented struct{}

var (
	_ Rng    = Unimplemented{}
	_ Timer  = Unimplemented{}
	_ AEAD   = Unimplemented{}
	_ Hash   = Unimplemented{}
	_ Store  = Unimplemented{}
	_ Serial = Unimplemented{}
	_ Button = Unimplemented{}
	_ Led    = Unimplemented{}
)

const unimplemented = "board: unimplemented capability reached"

func (Unimplemented) FillBytes(p []byte) error { panic(unimplemented) }

func (Unimplemented) Now() uint64 { panic(unimplemented) }

func (Unimplemented) Frequency() uint64 { panic(unimplemented) }

func (Unimplemented) KeySize() int { panic(unimplemented) }

func (Unimplemented) NonceSize() int { panic(unimplemented) }

func (Unimplemented) Overhead() int { panic(unimplemented) }

func (Unimplemented) Seal(dst, key, nonce, plaintext, additionalData []byte) ([]byte, error) {
	panic(unimplemented)
}

func (Unimplemented) Open(dst, key, nonce, sealed, additionalData []byte) ([]byte, error) {
	panic(unimplemented)
}

func (Unimplemented) Size() int { panic(unimplemented) }

func (Unimplemented) BlockSize() int { panic(unimplemented) }

func (Unimplemented) Sum(dst, msg []byte) ([]byte, error) { panic(unimplemented) }

func (Unimplemented) New() (HashSession, error) { panic(unimplemented) }

func (Unimplemented) Read(key uint16) ([]byte, error) { panic(unimplemented) }

func (Unimplemented) Write(key uint16, value []byte) error { panic(unimplemented) }

func (Unimplemented) Delete(key uint16) error { panic(unimplemented) }

func (Unimplemented) Send(p []byte) (int, error) { panic(unimplemented) }

func (Unimplemented) Receive(p []byte) (int, error) { panic(unimplemented) }

func (Unimplemented) Flush() error { panic(unimplemented) }

func (Unimplemented) Pressed() (bool, error) { panic(unimplemented) }

func (Unimplemented) Set(on bool) error { panic(unimplemented) }

func (Unimplemented) Get() (bool, error) { panic(unimplemented) }
