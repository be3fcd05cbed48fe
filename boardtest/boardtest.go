// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package boardtest provides test doubles for capability backends and a
// conformance harness for checking that two backends of the same capability
// are interchangeable.
//
// The doubles are deterministic on purpose.  A runtime test that needs
// entropy or the passage of time gets a sequence it can predict and a clock
// it can advance by hand, so failures reproduce.
package boardtest

import (
	"encoding/binary"
)

// Rng is a deterministic entropy backend.  The same seed always yields the
// same byte sequence.
type Rng struct {
	// Err, when set, makes every FillBytes call fail with it.
	Err error

	s uint64
}

// NewRng constructs a Rng from seed.
func NewRng(seed uint64) *Rng {
	return &Rng{s: seed}
}

// FillBytes fills p with the next bytes of the sequence.
func (r *Rng) FillBytes(p []byte) error {
	if r.Err != nil {
		return r.Err
	}

	for len(p) > 0 {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], r.next())
		n := copy(p, b[:])
		p = p[n:]
	}

	return nil
}

// next is splitmix64, which is plenty for test data and nothing else.
func (r *Rng) next() uint64 {
	r.s += 0x9e3779b97f4a7c15
	z := r.s
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb

	return z ^ (z >> 31)
}

// Timer is a manually advanced monotonic timer backend.
type Timer struct {
	now  uint64
	freq uint64
}

// NewTimer constructs a Timer with the given tick rate, stopped at zero.
func NewTimer(frequency uint64) *Timer {
	return &Timer{freq: frequency}
}

// Advance moves the timer forward.
func (t *Timer) Advance(ticks uint64) {
	t.now += ticks
}

// Now returns the ticks elapsed so far.
func (t *Timer) Now() uint64 {
	return t.now
}

// Frequency returns the tick rate.
func (t *Timer) Frequency() uint64 {
	return t.freq
}
