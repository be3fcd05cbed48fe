// Copryright (C) 2019 Yawning Angel
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package usbserial

import (
	"bytes"
	"errors"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gitlab.com/yawning/board.git"
	"gitlab.com/yawning/board.git/logging"
)

func TestLoopback(t *testing.T) {
	require := require.New(t)

	dev, host := NewLoopback(8)

	buf := make([]byte, 16)
	_, err := dev.Recv(buf)
	require.ErrorIs(err, ErrAgain, "Recv() - nothing pending")

	n, err := dev.Send([]byte("hello"))
	require.NoError(err, "Send()")
	require.Equal(5, n, "Send() - all of it fits")

	// The ring takes what fits and reports it, the rest is the caller's
	// problem on a later poll.
	n, err = dev.Send([]byte("worldly"))
	require.NoError(err, "Send() - partial")
	require.Equal(3, n, "Send() - ring full after 3")

	n, err = dev.Send([]byte("!"))
	require.ErrorIs(err, ErrAgain, "Send() - ring full")
	require.Zero(n, "Send() - no progress")

	n, err = host.Recv(buf)
	require.NoError(err, "Recv()")
	require.EqualValues([]byte("hellowor"), buf[:n], "Recv() - FIFO order")

	// Draining frees the ring for the sender again.
	n, err = dev.Send([]byte("!"))
	require.NoError(err, "Send() - after drain")
	require.Equal(1, n, "Send() - after drain")

	n, err = host.Recv(buf[:1])
	require.NoError(err, "Recv() - bounded by buffer")
	require.EqualValues([]byte("!"), buf[:n], "Recv()")

	// The directions are independent.
	_, err = dev.Recv(buf)
	require.ErrorIs(err, ErrAgain, "Recv() - peer direction is empty")
	n, err = host.Send([]byte("ack"))
	require.NoError(err, "Send() - peer direction")
	require.Equal(3, n, "Send() - peer direction")
	n, err = dev.Recv(buf)
	require.NoError(err, "Recv() - peer direction")
	require.EqualValues([]byte("ack"), buf[:n], "Recv() - peer direction")

	require.NoError(dev.Flush(), "Flush()")

	n, err = dev.Send(nil)
	require.NoError(err, "Send() - empty")
	require.Zero(n, "Send() - empty")
	n, err = dev.Recv(nil)
	require.NoError(err, "Recv() - empty")
	require.Zero(n, "Recv() - empty")

	require.Panics(func() { NewLoopback(0) }, "NewLoopback() - zero size")
}

func TestConn(t *testing.T) {
	require := require.New(t)

	devSide, hostSide := net.Pipe()
	tr := NewConn(devSide)
	defer func() { _ = tr.Close() }()

	// A synchronous pipe with no peer activity never makes progress, the
	// poll window expires into ErrAgain.
	_, err := tr.Recv(make([]byte, 4))
	require.ErrorIs(err, ErrAgain, "Recv() - no data")
	_, err = tr.Send([]byte("ping"))
	require.ErrorIs(err, ErrAgain, "Send() - peer not reading")

	go func() {
		buf := make([]byte, 4)
		if _, err := hostSide.Read(buf); err != nil {
			return
		}
		_, _ = hostSide.Write(bytes.ToUpper(buf))
	}()

	sent := retry(t, func() (int, error) { return tr.Send([]byte("ping")) })
	require.Equal(4, sent, "Send()")

	buf := make([]byte, 4)
	got := retry(t, func() (int, error) { return tr.Recv(buf) })
	require.EqualValues([]byte("PING"), buf[:got], "Recv()")

	require.NoError(tr.Flush(), "Flush()")

	// A closed peer is a dead session, not a retry.
	require.NoError(hostSide.Close(), "peer Close()")
	_, err = tr.Recv(buf)
	require.Error(err, "Recv() - dead session")
	require.NotErrorIs(err, ErrAgain, "Recv() - dead session is not a retry")
}

// retry polls op until it makes progress, for driving a synchronous pipe
// from one goroutine.
func retry(t *testing.T, op func() (int, error)) int {
	deadline := time.Now().Add(10 * time.Second)
	for {
		n, err := op()
		if err == nil {
			return n
		}
		require.ErrorIs(t, err, ErrAgain, "retry()")
		require.False(t, time.Now().After(deadline), "retry() - no progress before deadline")
	}
}

func TestSerialAdapter(t *testing.T) {
	require := require.New(t)

	var logBuf bytes.Buffer
	dev, host := NewLoopback(4)
	serial := Serial(dev, logging.New(&logBuf, slog.LevelDebug))

	_, err := serial.Receive(make([]byte, 4))
	require.ErrorIs(err, board.ErrNoData, "Receive() - nothing pending")

	n, err := serial.Send([]byte("moo"))
	require.NoError(err, "Send()")
	require.Equal(3, n, "Send()")

	n, err = serial.Send([]byte("ooo"))
	require.NoError(err, "Send() - partial progress is success")
	require.Equal(1, n, "Send() - ring had one slot left")

	_, err = serial.Send([]byte("o"))
	require.ErrorIs(err, board.ErrWouldBlock, "Send() - ring full")

	buf := make([]byte, 8)
	n, err = host.Recv(buf)
	require.NoError(err, "peer Recv()")
	require.EqualValues([]byte("mooo"), buf[:n], "peer Recv()")

	require.NoError(serial.Flush(), "Flush()")

	// Counts are logged, payload is not.
	require.Contains(logBuf.String(), "send", "log - send record")
	require.NotContains(logBuf.String(), "moo", "log - payload never logged")

	// Nil logger means discard, not crash.
	quiet := Serial(dev, nil)
	_, err = quiet.Receive(buf)
	require.ErrorIs(err, board.ErrNoData, "Receive() - nil logger")
}

func TestSerialAdapterFaults(t *testing.T) {
	require := require.New(t)

	boom := errors.New("short circuit")
	serial := Serial(faultTransport{err: boom}, nil)

	_, err := serial.Send([]byte{0x00})
	require.ErrorIs(err, board.ErrHardware, "Send() - stack fault")
	require.NotErrorIs(err, boom, "Send() - transport error does not escape")

	_, err = serial.Receive(make([]byte, 1))
	require.ErrorIs(err, board.ErrHardware, "Receive() - stack fault")

	require.ErrorIs(serial.Flush(), board.ErrHardware, "Flush() - stack fault")
}

// faultTransport fails every operation with a transport specific error.
type faultTransport struct {
	err error
}

func (f faultTransport) Send(p []byte) (int, error) {
	return 0, f.err
}

func (f faultTransport) Recv(p []byte) (int, error) {
	return 0, f.err
}

func (f faultTransport) Flush() error {
	return f.err
}
