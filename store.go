// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package board

// Store is the persistent key value capability.  The backing engine (flash
// translation, wear leveling, crash consistency) lives outside this layer,
// implementations here are adapters that translate shapes and error
// vocabularies only.
//
// A Write that returned success is durable.  Writes either complete or
// leave the previous value intact, a torn state is never observable through
// this interface.
type Store interface {
	// Read returns a copy of the value stored under key, or ErrNotFound.
	Read(key uint16) ([]byte, error)

	// Write durably stores value under key, replacing any previous value.
	// ErrOutOfSpace when the engine cannot fit it, in which case the
	// previous value (if any) is still intact.
	Write(key uint16, value []byte) error

	// Delete removes the value stored under key, or returns ErrNotFound.
	Delete(key uint16) error
}
