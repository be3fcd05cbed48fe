// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package board

// Timer is the monotonic time capability.  The tick counter starts at or
// near zero at boot, never decreases, and is unaffected by wall clock
// adjustments.
type Timer interface {
	// Now returns the ticks elapsed since boot.
	Now() uint64

	// Frequency returns the tick rate in ticks per second.  The rate is
	// fixed for the lifetime of the board.
	Frequency() uint64
}
