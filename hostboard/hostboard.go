// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package hostboard composes the host development board: OS entropy, the
// process monotonic clock, software crypto backends, a file or memory
// backed store, and a socket or loopback serial transport.  Applet runtimes
// run against it exactly as they would against silicon.
//
// Crypto backend selection is a build time decision.  The default build
// binds the software backends, the hostcryptohw tag binds the platform
// engines for AES-256-GCM and SHA-256 instead (and fails construction when
// the CPU lacks them, there is no silent fallback).  Exactly one binding
// exists per build.
package hostboard

import (
	"crypto/rand"
	"fmt"
	"time"

	"gitlab.com/yawning/board.git"
	"gitlab.com/yawning/board.git/kvstore"
	"gitlab.com/yawning/board.git/logging"
	"gitlab.com/yawning/board.git/usbserial"
)

// loopbackSize is the per-direction capacity of the default transport.
const loopbackSize = 4096

// Options configures the collaborators behind the board.  Capability
// selection is not configurable here, that is what build tags are for.
type Options struct {
	// StoragePath is the directory backing the persistent store, empty
	// meaning an in-memory store.
	StoragePath string

	// StorageQuota bounds the store in bytes, 0 meaning unbounded.
	StorageQuota int64

	// Serial is the transport behind the serial capability, nil meaning
	// a loopback pair with the far end exposed as Host.Peer.  A caller
	// supplied transport stays the caller's to close.
	Serial usbserial.Transport

	// Leds is the number of logging backed leds.
	Leds int

	// Log receives adapter records.  Nil discards.
	Log *logging.Logger
}

// Host is a composed host board.
type Host struct {
	// Board is the capability set, ready for a runtime.
	Board *board.Board

	// Peer is the far end of the default loopback transport, nil when
	// Options.Serial was supplied.
	Peer *usbserial.Loopback

	eng kvstore.Engine
}

// New composes a host board.  The board has no buttons, a runtime that
// requires CapButtons finds out from Check at startup.
func New(opts Options) (*Host, error) {
	var (
		eng kvstore.Engine
		err error
	)
	if opts.StoragePath != "" {
		if eng, err = kvstore.NewFile(opts.StoragePath, opts.StorageQuota); err != nil {
			return nil, err
		}
	} else {
		eng = kvstore.NewMemory(opts.StorageQuota)
	}

	aead128, aead256, hash256, err := newCrypto()
	if err != nil {
		_ = eng.Close()
		return nil, err
	}

	host := &Host{eng: eng}

	transport := opts.Serial
	if transport == nil {
		var dev *usbserial.Loopback
		dev, host.Peer = usbserial.NewLoopback(loopbackSize)
		transport = dev
	}

	host.Board = &board.Board{
		Rng:     osRng{},
		Timer:   newClock(),
		AEAD128: aead128,
		AEAD256: aead256,
		Hash256: hash256,
		Store:   kvstore.Store(eng),
		Serial:  usbserial.Serial(transport, opts.Log),
		Leds:    newLeds(opts.Leds, opts.Log),
	}

	return host, nil
}

// Close releases the collaborator handles the board owns.
func (h *Host) Close() error {
	return h.eng.Close()
}

// osRng is the entropy capability backed by the operating system.
type osRng struct{}

func (osRng) FillBytes(p []byte) error {
	if _, err := rand.Read(p); err != nil {
		return fmt.Errorf("%w: %v", board.ErrHardware, err)
	}

	return nil
}

// clock is the timer capability backed by the process monotonic clock,
// nanosecond ticks.
type clock struct {
	base time.Time
}

func newClock() *clock {
	return &clock{base: time.Now()}
}

func (c *clock) Now() uint64 {
	return uint64(time.Since(c.base))
}

func (c *clock) Frequency() uint64 {
	return 1e9
}

// led is a status led on a headless host, state changes become debug
// records.
type led struct {
	log *logging.Logger
	on  bool
}

func newLeds(n int, log *logging.Logger) []board.Led {
	if log == nil {
		log = logging.Discard()
	}

	leds := make([]board.Led, 0, n)
	for i := 0; i < n; i++ {
		leds = append(leds, &led{log: log.With("cap", "led", "index", i)})
	}

	return leds
}

func (l *led) Set(on bool) error {
	if on != l.on {
		l.log.Debug("set", "on", on)
	}
	l.on = on

	return nil
}

func (l *led) Get() (bool, error) {
	return l.on, nil
}
