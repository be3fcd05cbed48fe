// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package board defines the capability contracts between a portable applet
// runtime and the hardware it runs on.  A board package composes one
// backend per capability at build time and hands the runtime a Board, the
// runtime never imports a backend directly and never learns whether a
// capability is silicon or software.
//
// The model is single threaded and cooperative.  No contract method blocks
// indefinitely, hardware waits are bounded and surface ErrHardware or
// ErrTimeout, and backends do not call back into the runtime.  One call per
// backend is in flight at a time, that is caller discipline rather than
// backend locking.
package board

import (
	"fmt"
	"strings"
)

// Capability identifies a set of board capabilities.
type Capability uint32

const (
	CapRng Capability = 1 << iota
	CapTimer
	CapAEAD128
	CapAEAD256
	CapHash256
	CapStore
	CapSerial
	CapButtons
	CapLeds
)

var capNames = []struct {
	bit  Capability
	name string
}{
	{CapRng, "rng"},
	{CapTimer, "timer"},
	{CapAEAD128, "aead-aes128-ccm"},
	{CapAEAD256, "aead-aes256-gcm"},
	{CapHash256, "hash-sha256"},
	{CapStore, "store"},
	{CapSerial, "serial"},
	{CapButtons, "buttons"},
	{CapLeds, "leds"},
}

// String returns the capability names joined with "+".
func (c Capability) String() string {
	if c == 0 {
		return "none"
	}

	var names []string
	for _, v := range capNames {
		if c&v.bit != 0 {
			names = append(names, v.name)
		}
	}
	if residue := c &^ (CapLeds<<1 - 1); residue != 0 {
		names = append(names, fmt.Sprintf("unknown(%#x)", uint32(residue)))
	}

	return strings.Join(names, "+")
}

// Board is the capability set a board package hands to the runtime.  Each
// field is bound to exactly one backend at build time, a nil field (or an
// empty pin slice) means the board does not have the capability.
//
// The composed Board is threaded through the runtime explicitly, there is
// no package level board value.
type Board struct {
	Rng     Rng
	Timer   Timer
	AEAD128 AEAD
	AEAD256 AEAD
	Hash256 Hash
	Store   Store
	Serial  Serial
	Buttons []Button
	Leds    []Led
}

// Capabilities reports the capabilities this board provides.
func (b *Board) Capabilities() Capability {
	var c Capability
	if b.Rng != nil {
		c |= CapRng
	}
	if b.Timer != nil {
		c |= CapTimer
	}
	if b.AEAD128 != nil {
		c |= CapAEAD128
	}
	if b.AEAD256 != nil {
		c |= CapAEAD256
	}
	if b.Hash256 != nil {
		c |= CapHash256
	}
	if b.Store != nil {
		c |= CapStore
	}
	if b.Serial != nil {
		c |= CapSerial
	}
	if len(b.Buttons) > 0 {
		c |= CapButtons
	}
	if len(b.Leds) > 0 {
		c |= CapLeds
	}

	return c
}

// Check verifies that every required capability is present.  It is meant to
// run once at startup so a missing capability is a single clear failure
// rather than a scattering of runtime errors.  The returned error wraps
// ErrUnsupported and names every missing capability.
func (b *Board) Check(required Capability) error {
	if missing := required &^ b.Capabilities(); missing != 0 {
		return fmt.Errorf("%w: %s", ErrUnsupported, missing)
	}

	return nil
}
