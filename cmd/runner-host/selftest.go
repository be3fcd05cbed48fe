// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gitlab.com/yawning/board.git"
	"gitlab.com/yawning/board.git/hostboard"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run known answer checks through the board's capability handles",
	Long: `Compose the host board the way run does (in-memory store, loopback
serial) and exercise every capability through the board's own handles,
reporting per primitive pass/fail.  Useful for checking a hostcryptohw
build on a given machine.`,
	RunE: doSelftest,
}

func doSelftest(cmd *cobra.Command, args []string) error {
	host, err := hostboard.New(hostboard.Options{Leds: 1})
	if err != nil {
		return err
	}
	defer func() { _ = host.Close() }()

	if err = host.Board.Check(requiredCaps | board.CapLeds); err != nil {
		return err
	}

	checks := []struct {
		name string
		fn   func(*hostboard.Host) error
	}{
		{"rng", checkRng},
		{"timer", checkTimer},
		{"aead-aes128-ccm", checkAEAD128},
		{"aead-aes256-gcm", checkAEAD256},
		{"hash-sha256", checkHash256},
		{"store", checkStore},
		{"serial", checkSerial},
		{"leds", checkLeds},
	}

	var failed int
	for _, check := range checks {
		if err := check.fn(host); err != nil {
			failed++
			fmt.Printf("%-16s FAIL: %v\n", check.name, err)
			continue
		}
		fmt.Printf("%-16s ok\n", check.name)
	}
	if failed > 0 {
		return fmt.Errorf("selftest: %d capability check(s) failed", failed)
	}

	return nil
}

func checkRng(host *hostboard.Host) error {
	buf := make([]byte, 32)
	if err := host.Board.Rng.FillBytes(buf); err != nil {
		return err
	}
	if bytes.Equal(buf, make([]byte, 32)) {
		return errors.New("entropy looks like zeroes")
	}

	return nil
}

func checkTimer(host *hostboard.Host) error {
	timer := host.Board.Timer
	if timer.Frequency() == 0 {
		return errors.New("zero frequency")
	}
	before := timer.Now()
	if after := timer.Now(); after < before {
		return errors.New("clock went backwards")
	}

	return nil
}

// checkAEAD128 runs the fixed zero key scenario: deterministic output,
// 4 byte ciphertext plus 16 byte tag, round trip, tamper rejection.
func checkAEAD128(host *hostboard.Host) error {
	aead := host.Board.AEAD128
	key := make([]byte, aead.KeySize())
	nonce := make([]byte, aead.NonceSize())
	plaintext := []byte("test")

	sealed, err := aead.Seal(nil, key, nonce, plaintext, nil)
	if err != nil {
		return err
	}
	if len(sealed) != len(plaintext)+aead.Overhead() {
		return fmt.Errorf("sealed length %d", len(sealed))
	}
	again, err := aead.Seal(nil, key, nonce, plaintext, nil)
	if err != nil {
		return err
	}
	if !bytes.Equal(sealed, again) {
		return errors.New("sealing is not deterministic")
	}

	opened, err := aead.Open(nil, key, nonce, sealed, nil)
	if err != nil {
		return err
	}
	if !bytes.Equal(opened, plaintext) {
		return errors.New("round trip mismatch")
	}

	sealed[len(sealed)-1] ^= 0x01
	if _, err = aead.Open(nil, key, nonce, sealed, nil); !errors.Is(err, board.ErrAuth) {
		return fmt.Errorf("tampered tag accepted (%v)", err)
	}

	return nil
}

func checkAEAD256(host *hostboard.Host) error {
	aead := host.Board.AEAD256
	key := make([]byte, aead.KeySize())
	nonce := make([]byte, aead.NonceSize())
	plaintext := []byte("selftest payload")
	aad := []byte("header")

	sealed, err := aead.Seal(nil, key, nonce, plaintext, aad)
	if err != nil {
		return err
	}
	opened, err := aead.Open(nil, key, nonce, sealed, aad)
	if err != nil {
		return err
	}
	if !bytes.Equal(opened, plaintext) {
		return errors.New("round trip mismatch")
	}

	sealed[0] ^= 0x01
	if _, err = aead.Open(nil, key, nonce, sealed, aad); !errors.Is(err, board.ErrAuth) {
		return fmt.Errorf("tampered ciphertext accepted (%v)", err)
	}

	return nil
}

func checkHash256(host *hostboard.Host) error {
	const abcDigest = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

	digest, err := host.Board.Hash256.Sum(nil, []byte("abc"))
	if err != nil {
		return err
	}
	if hex.EncodeToString(digest) != abcDigest {
		return fmt.Errorf("digest mismatch %x", digest)
	}

	return nil
}

func checkStore(host *hostboard.Host) error {
	const key = 0x7e57

	store := host.Board.Store
	if err := store.Write(key, []byte("value")); err != nil {
		return err
	}
	value, err := store.Read(key)
	if err != nil {
		return err
	}
	if !bytes.Equal(value, []byte("value")) {
		return errors.New("read back mismatch")
	}
	if err = store.Delete(key); err != nil {
		return err
	}
	if _, err = store.Read(key); !errors.Is(err, board.ErrNotFound) {
		return fmt.Errorf("deleted key still present (%v)", err)
	}

	return nil
}

func checkSerial(host *hostboard.Host) error {
	serial := host.Board.Serial
	if _, err := serial.Send([]byte("ping")); err != nil {
		return err
	}

	buf := make([]byte, 16)
	n, err := host.Peer.Recv(buf)
	if err != nil {
		return err
	}
	if _, err = host.Peer.Send(buf[:n]); err != nil {
		return err
	}

	n, err = serial.Receive(buf)
	if err != nil {
		return err
	}
	if !bytes.Equal(buf[:n], []byte("ping")) {
		return errors.New("echo mismatch")
	}

	return nil
}

func checkLeds(host *hostboard.Host) error {
	led := host.Board.Leds[0]
	if err := led.Set(true); err != nil {
		return err
	}
	on, err := led.Get()
	if err != nil {
		return err
	}
	if !on {
		return errors.New("led state lost")
	}

	return led.Set(false)
}
