// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package usbserial is the USB transport collaborator boundary.  A Transport
// is the byte stream session the USB stack hands over once enumeration is
// done, with the stack's own error vocabulary.  The Serial adapter translates
// a Transport into the board serial contract and nothing else.
//
// Descriptors, endpoints and enumeration belong to the stack behind the
// Transport and never surface here.
package usbserial

import (
	"errors"
	"fmt"

	"gitlab.com/yawning/board.git"
	"gitlab.com/yawning/board.git/logging"
)

// ErrAgain is the transport's "no progress possible, retry on a later
// poll".
var ErrAgain = errors.New("usbserial: try again")

// Transport is a non-blocking byte stream session.  Implementations must
// be safe for one concurrent sender and one concurrent receiver.
type Transport interface {
	// Send queues as much of p as the session will take right now and
	// returns the count, ErrAgain when it will take nothing.
	Send(p []byte) (int, error)

	// Recv drains up to len(p) pending bytes into p and returns the
	// count, ErrAgain when nothing is pending.
	Recv(p []byte) (int, error)

	// Flush pushes session side buffering toward the wire.
	Flush() error
}

// Serial adapts a Transport to the board serial contract.  The transport's
// retry convention maps onto ErrWouldBlock and ErrNoData, every other
// transport failure is a stack fault.  Byte counts are logged at debug
// level, payload never is.  A nil log discards.
func Serial(t Transport, log *logging.Logger) board.Serial {
	if log == nil {
		log = logging.Discard()
	}

	return &serialAdapter{t: t, log: log.With("cap", "serial")}
}

type serialAdapter struct {
	t   Transport
	log *logging.Logger
}

func (s *serialAdapter) Send(p []byte) (int, error) {
	n, err := s.t.Send(p)
	switch {
	case err == nil:
		s.log.Debug("send", "n", n)
		return n, nil
	case errors.Is(err, ErrAgain):
		return 0, board.ErrWouldBlock
	default:
		return 0, fmt.Errorf("%w: %v", board.ErrHardware, err)
	}
}

func (s *serialAdapter) Receive(p []byte) (int, error) {
	n, err := s.t.Recv(p)
	switch {
	case err == nil:
		s.log.Debug("receive", "n", n)
		return n, nil
	case errors.Is(err, ErrAgain):
		return 0, board.ErrNoData
	default:
		return 0, fmt.Errorf("%w: %v", board.ErrHardware, err)
	}
}

func (s *serialAdapter) Flush() error {
	if err := s.t.Flush(); err != nil {
		return fmt.Errorf("%w: %v", board.ErrHardware, err)
	}

	return nil
}
