// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package kvstore is the storage collaborator boundary.  An Engine is the
// key value store as the collaborator presents it (on real boards, the
// wear leveling flash engine), with the collaborator's own error vocabulary.
// The Store adapter translates an Engine into the board store contract and
// nothing else, no caching, no retries, no policy.
//
// The memory and file engines are host stand-ins for the flash engine, the
// file engine persists across process restarts the way flash persists across
// reboots.
package kvstore

import (
	"errors"

	"gitlab.com/yawning/board.git"
)

var (
	// ErrNotFound is the engine's "no such key".
	ErrNotFound = errors.New("kvstore: not found")

	// ErrNoSpace is the engine's "will not fit".
	ErrNoSpace = errors.New("kvstore: no space")

	// ErrClosed is returned when using an engine after Close.
	ErrClosed = errors.New("kvstore: closed")

	// ErrInvalidKey is returned for keys the engine cannot represent.
	ErrInvalidKey = errors.New("kvstore: invalid key")
)

// Engine is a key value store collaborator.  Implementations must be safe
// for concurrent use, values returned by Get are the caller's to keep.
type Engine interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.  Put
	// either completes or leaves the previous value intact.
	Put(key string, value []byte) error

	// Delete removes the value stored under key, or returns ErrNotFound.
	Delete(key string) error

	// Close releases whatever the engine holds.  Operations after Close
	// fail with ErrClosed.
	Close() error
}

// Store adapts an Engine to the board store contract.  uint16 keys become
// fixed width hex names, engine sentinels map onto the board taxonomy, and
// engine error values never cross the boundary.
func Store(eng Engine) board.Store {
	return storeAdapter{eng}
}
