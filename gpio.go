// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package board

// Button is a single digital input.  One value per physical pin, ownership
// is exclusive to the board that composed it.
type Button interface {
	// Pressed samples the input level.
	Pressed() (bool, error)
}

// Led is a single digital output.
type Led interface {
	// Set drives the output.
	Set(on bool) error

	// Get returns the last driven level.
	Get() (bool, error)
}
