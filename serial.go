// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package board

// Serial is the USB serial byte stream capability.  All operations are
// non-blocking, the runtime polls once per cooperative tick.  Enumeration,
// descriptors and endpoint management belong to the transport stack behind
// the adapter, by the time a Serial exists the stream is up.
type Serial interface {
	// Send queues as much of p as the transport will take right now and
	// returns the number of bytes accepted.  ErrWouldBlock when nothing
	// can be accepted, partial progress is success.
	Send(p []byte) (int, error)

	// Receive fills p with as many pending bytes as are available and
	// returns the count.  ErrNoData when nothing is pending.
	Receive(p []byte) (int, error)

	// Flush pushes any transport side buffering toward the wire.
	Flush() error
}
