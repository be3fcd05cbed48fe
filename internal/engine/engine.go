// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package engine provides the backend constructor contracts consumed by
// board composition code.  A factory stands for "this engine exists on the
// running platform", constructing the backend is separate so that probing
// for an engine has no side effects.
package engine

import (
	"gitlab.com/yawning/board.git"
)

// AEADFactory constructs authenticated encryption backends.
type AEADFactory interface {
	// Name returns the name of the backing engine.
	Name() string

	// New constructs a backend instance.
	New() board.AEAD
}

// HashFactory constructs digest backends.
type HashFactory interface {
	// Name returns the name of the backing engine.
	Name() string

	// New constructs a backend instance.
	New() board.Hash
}
