// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package board

import "errors"

var (
	// ErrInvalidKeySize is the error returned when the key size is invalid
	// for the backend.
	ErrInvalidKeySize = errors.New("board: invalid key size")

	// ErrInvalidNonceSize is the error returned when the nonce size is
	// invalid for the backend.
	ErrInvalidNonceSize = errors.New("board: invalid nonce size")

	// ErrOversized is the error returned when the plaintext, ciphertext
	// and or additional data are beyond the maximum the backend's counter
	// or length encoding can address.
	ErrOversized = errors.New("board: data is over limit")

	// ErrAuth is the error returned when message authentication fails
	// durring an Open call.  It carries no information about where the
	// inputs diverged, and no plaintext accompanies it.
	ErrAuth = errors.New("board: message authentication failure")

	// ErrHardware is the error returned when a peripheral or collaborator
	// misbehaves in a way that is not attributable to the caller's inputs.
	ErrHardware = errors.New("board: hardware failure")

	// ErrTimeout is the error returned when a bounded wait on a peripheral
	// expires.
	ErrTimeout = errors.New("board: hardware timeout")

	// ErrUnsupported is the error returned when the board does not provide
	// the capability at all.
	ErrUnsupported = errors.New("board: capability not supported")

	// ErrNotFound is the error returned when the store has no value for
	// the requested key.
	ErrNotFound = errors.New("board: key not found")

	// ErrOutOfSpace is the error returned when the store cannot fit the
	// value being written.
	ErrOutOfSpace = errors.New("board: out of space")

	// ErrWouldBlock is the error returned by a non-blocking send when no
	// forward progress is possible.  It is flow control, not a fault, and
	// the caller is expected to retry on a later tick.
	ErrWouldBlock = errors.New("board: would block")

	// ErrNoData is the error returned by a non-blocking receive when
	// nothing is pending.  Like ErrWouldBlock it is flow control, not a
	// fault.
	ErrNoData = errors.New("board: no data")
)
