// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package usbserial

import (
	"net"
	"os"
	"time"
)

// pollWindow bounds how long a Send or Recv may wait on the socket.  The
// contract wants a poll, the kernel wants a deadline, a short window is the
// compromise.
const pollWindow = time.Millisecond

// Conn is a Transport over a deadline capable net.Conn, for boards whose
// "USB cable" is a socket.  A deadline expiry with no progress is ErrAgain,
// every other failure is a dead session.
type Conn struct {
	c net.Conn
}

// NewConn wraps c.  The Conn owns c from here on, including closing it.
func NewConn(c net.Conn) *Conn {
	return &Conn{c: c}
}

func (c *Conn) Send(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if err := c.c.SetWriteDeadline(time.Now().Add(pollWindow)); err != nil {
		return 0, err
	}

	n, err := c.c.Write(p)
	switch {
	case n > 0:
		// Partial progress is success, the contract says so.
		return n, nil
	case os.IsTimeout(err):
		return 0, ErrAgain
	default:
		return 0, err
	}
}

func (c *Conn) Recv(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if err := c.c.SetReadDeadline(time.Now().Add(pollWindow)); err != nil {
		return 0, err
	}

	n, err := c.c.Read(p)
	switch {
	case n > 0:
		return n, nil
	case os.IsTimeout(err):
		return 0, ErrAgain
	default:
		return 0, err
	}
}

func (c *Conn) Flush() error {
	return nil
}

// Close tears down the underlying session.
func (c *Conn) Close() error {
	return c.c.Close()
}
