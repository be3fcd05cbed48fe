// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package usbserial

import (
	"sync"
)

// Loopback is one end of a connected in-memory transport pair.  Each
// direction is a bounded ring, so a slow peer shows up as ErrAgain on Send
// exactly the way a stalled USB endpoint would.
type Loopback struct {
	out *ring
	in  *ring
}

// NewLoopback constructs a connected pair of ends with at most size bytes
// in flight per direction.
func NewLoopback(size int) (*Loopback, *Loopback) {
	if size <= 0 {
		panic("usbserial: non-positive loopback size")
	}
	ab, ba := newRing(size), newRing(size)

	return &Loopback{out: ab, in: ba}, &Loopback{out: ba, in: ab}
}

func (l *Loopback) Send(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n := l.out.write(p)
	if n == 0 {
		return 0, ErrAgain
	}

	return n, nil
}

func (l *Loopback) Recv(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n := l.in.read(p)
	if n == 0 {
		return 0, ErrAgain
	}

	return n, nil
}

func (l *Loopback) Flush() error {
	return nil
}

// ring is a mutex guarded bounded byte FIFO.
type ring struct {
	mu  sync.Mutex
	buf []byte
	r   int
	n   int
}

func newRing(size int) *ring {
	return &ring{buf: make([]byte, size)}
}

// write copies as much of p as fits and returns the count.
func (q *ring) write(p []byte) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	var total int
	for total < len(p) && q.n < len(q.buf) {
		q.buf[(q.r+q.n)%len(q.buf)] = p[total]
		q.n++
		total++
	}

	return total
}

// read copies as much pending data as p holds and returns the count.
func (q *ring) read(p []byte) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	var total int
	for total < len(p) && q.n > 0 {
		p[total] = q.buf[q.r]
		q.r = (q.r + 1) % len(q.buf)
		q.n--
		total++
	}

	return total
}
