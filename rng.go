// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package board

// Rng is the entropy capability.
type Rng interface {
	// FillBytes fills p with cryptographically unpredictable bytes.  On
	// failure p's contents are unspecified and must not be used, the wait
	// on the entropy source is bounded and surfaces ErrHardware or
	// ErrTimeout rather than stalling the runtime.
	FillBytes(p []byte) error
}
