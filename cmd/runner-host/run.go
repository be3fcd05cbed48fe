// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package main

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"gitlab.com/yawning/board.git"
	"gitlab.com/yawning/board.git/hostboard"
	"gitlab.com/yawning/board.git/logging"
	"gitlab.com/yawning/board.git/usbserial"
)

const (
	// requiredCaps is what the echo applet needs from the board.
	requiredCaps = board.CapRng | board.CapTimer | board.CapAEAD128 |
		board.CapAEAD256 | board.CapHash256 | board.CapStore | board.CapSerial

	// tickPeriod is the cooperative poll rate.
	tickPeriod = 10 * time.Millisecond

	// bootCountKey is the store slot holding the boot counter.
	bootCountKey = 0x0001
)

var (
	flagStorage  string
	flagListen   string
	flagLogLevel string

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the echo applet on the host board",
		Long: `Compose the host board, bump the persistent boot counter, write a boot
banner to the serial capability, then tick forever: echo serial input back
to the peer and blink the status led.  With --listen the serial transport
is a TCP session (one peer, e.g. "nc <addr>"), otherwise it is an internal
loopback and the runner idles.`,
		RunE: doRun,
	}
)

func init() {
	runCmd.Flags().StringVar(&flagStorage, "storage", "", "directory for the persistent store (default in-memory)")
	runCmd.Flags().StringVar(&flagListen, "listen", "", "TCP address to serve the serial transport on (default loopback)")
	runCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func doRun(cmd *cobra.Command, args []string) error {
	level, err := logging.ParseLevel(flagLogLevel)
	if err != nil {
		return err
	}
	log := logging.New(os.Stderr, level)

	opts := hostboard.Options{
		StoragePath: flagStorage,
		Leds:        1,
		Log:         log,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagListen != "" {
		conn, err := acceptPeer(ctx, log, flagListen)
		if err != nil {
			// A signal while waiting for the peer is a clean exit.
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		tr := usbserial.NewConn(conn)
		defer func() { _ = tr.Close() }()
		opts.Serial = tr
	}

	host, err := hostboard.New(opts)
	if err != nil {
		return err
	}
	defer func() { _ = host.Close() }()

	b := host.Board
	if err = b.Check(requiredCaps); err != nil {
		return err
	}
	log.Info("board composed", "caps", b.Capabilities().String())

	bootCount, err := nextBootCount(b.Store)
	if err != nil {
		return fmt.Errorf("boot counter: %w", err)
	}
	log.Info("boot", "count", bootCount)

	banner := fmt.Sprintf("runner-host boot %d\r\n", bootCount)
	if err = send(b.Serial, []byte(banner)); err != nil {
		return fmt.Errorf("boot banner: %w", err)
	}

	return tick(ctx, b, log)
}

// acceptPeer listens on addr and waits for exactly one peer, the "cable
// plug in" moment of the session.
func acceptPeer(ctx context.Context, log *logging.Logger, addr string) (net.Conn, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ln.Close() }()

	log.Info("waiting for serial peer", "addr", ln.Addr().String())

	// Unblock Accept on a signal.
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	conn, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	log.Info("serial peer connected", "peer", conn.RemoteAddr().String())

	return conn, nil
}

// tick is the cooperative loop, one bounded poll of each capability per
// tick and nothing blocking in between.
func tick(ctx context.Context, b *board.Board, log *logging.Logger) error {
	ticker := time.NewTicker(tickPeriod)
	defer ticker.Stop()

	var (
		buf     [256]byte
		pending []byte
		ledOn   bool
	)

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			_ = b.Serial.Flush()
			return nil
		case <-ticker.C:
		}

		// Echo: drain what the peer sent, push it back out.  A slow
		// peer backs the echo up into pending rather than into a
		// blocked call.
		if len(pending) == 0 {
			n, err := b.Serial.Receive(buf[:])
			switch {
			case err == nil:
				pending = buf[:n]
			case errors.Is(err, board.ErrNoData):
			default:
				return fmt.Errorf("serial receive: %w", err)
			}
		}
		if len(pending) > 0 {
			n, err := b.Serial.Send(pending)
			switch {
			case err == nil:
				pending = pending[n:]
			case errors.Is(err, board.ErrWouldBlock):
			default:
				return fmt.Errorf("serial send: %w", err)
			}
		}

		// Status led heartbeat, phase driven by the board's own timer.
		if len(b.Leds) > 0 {
			on := b.Timer.Now()/(b.Timer.Frequency()/2)%2 == 0
			if on != ledOn {
				ledOn = on
				if err := b.Leds[0].Set(on); err != nil {
					return fmt.Errorf("led: %w", err)
				}
			}
		}
	}
}

// nextBootCount bumps the persistent boot counter and returns the new
// value.  A missing or malformed slot restarts the count.
func nextBootCount(store board.Store) (uint32, error) {
	var count uint32

	value, err := store.Read(bootCountKey)
	switch {
	case err == nil && len(value) == 4:
		count = binary.BigEndian.Uint32(value)
	case err != nil && !errors.Is(err, board.ErrNotFound):
		return 0, err
	}

	count++
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], count)
	if err = store.Write(bootCountKey, buf[:]); err != nil {
		return 0, err
	}

	return count, nil
}

// send pushes all of p through a non-blocking serial handle, giving a slow
// peer a bounded number of ticks to drain.
func send(serial board.Serial, p []byte) error {
	for attempts := 0; len(p) > 0; attempts++ {
		if attempts > 100 {
			return board.ErrTimeout
		}
		n, err := serial.Send(p)
		switch {
		case err == nil:
			p = p[n:]
		case errors.Is(err, board.ErrWouldBlock):
			time.Sleep(tickPeriod)
		default:
			return err
		}
	}

	return serial.Flush()
}
