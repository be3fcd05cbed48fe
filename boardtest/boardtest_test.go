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

package boardtest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/yawning/board.git"
	"gitlab.com/yawning/board.git/soft/ccm"
	"gitlab.com/yawning/board.git/soft/sha256"
)

func TestRng(t *testing.T) {
	require := require.New(t)

	a, b := NewRng(1), NewRng(1)
	bufA, bufB := make([]byte, 37), make([]byte, 37)
	require.NoError(a.FillBytes(bufA), "FillBytes()")
	require.NoError(b.FillBytes(bufB), "FillBytes()")
	require.EqualValues(bufA, bufB, "same seed, same sequence")

	c := NewRng(2)
	bufC := make([]byte, 37)
	require.NoError(c.FillBytes(bufC), "FillBytes()")
	require.NotEqual(bufA, bufC, "different seed, different sequence")

	a.Err = board.ErrHardware
	require.ErrorIs(a.FillBytes(bufA), board.ErrHardware, "programmed failure")
}

func TestTimer(t *testing.T) {
	require := require.New(t)

	tm := NewTimer(32768)
	require.Zero(tm.Now(), "starts at zero")
	require.EqualValues(32768, tm.Frequency(), "Frequency()")

	tm.Advance(10)
	require.EqualValues(10, tm.Now(), "Advance()")
	tm.Advance(5)
	require.EqualValues(15, tm.Now(), "Advance() - accumulates")
}

func TestFakeAEADEngine(t *testing.T) {
	require := require.New(t)

	eng := &FakeAEADEngine{Backend: ccm.New()}
	require.Equal(ccm.KeySize, eng.KeySize(), "KeySize()")
	require.Equal(ccm.NonceSize, eng.NonceSize(), "NonceSize()")
	require.Equal(ccm.TagSize, eng.Overhead(), "Overhead()")

	key := make([]byte, ccm.KeySize)
	nonce := make([]byte, ccm.NonceSize)
	plaintext := []byte("through the fake")

	sealed, err := eng.Seal(nil, key, nonce, plaintext, nil)
	require.NoError(err, "Seal()")
	opened, err := eng.Open(nil, key, nonce, sealed, nil)
	require.NoError(err, "Open()")
	require.EqualValues(plaintext, opened, "round trip")
	require.Equal(2, eng.Calls, "Calls")

	// Size queries are not operations.
	_ = eng.KeySize()
	require.Equal(2, eng.Calls, "Calls - after size query")

	eng.FailAfter = 3
	_, err = eng.Seal(nil, key, nonce, plaintext, nil)
	require.NoError(err, "Seal() - last call before the fault")
	_, err = eng.Seal(nil, key, nonce, plaintext, nil)
	require.ErrorIs(err, board.ErrHardware, "Seal() - engine gone bad")
	_, err = eng.Open(nil, key, nonce, sealed, nil)
	require.ErrorIs(err, board.ErrHardware, "Open() - still bad, no retry inside the layer")

	eng.Err = board.ErrTimeout
	_, err = eng.Seal(nil, key, nonce, plaintext, nil)
	require.ErrorIs(err, board.ErrTimeout, "Seal() - programmed error kind")
}

func TestFakeAEADEngineReentry(t *testing.T) {
	eng := &FakeAEADEngine{}
	eng.Backend = reentrantAEAD{eng}

	key := make([]byte, 16)
	nonce := make([]byte, 13)
	require.Panics(t, func() { _, _ = eng.Seal(nil, key, nonce, nil, nil) }, "re-entry panics")
}

// reentrantAEAD calls back into the engine that wraps it, modeling a
// runtime that issues overlapping calls to one backend instance.
type reentrantAEAD struct {
	eng *FakeAEADEngine
}

func (r reentrantAEAD) KeySize() int   { return 16 }
func (r reentrantAEAD) NonceSize() int { return 13 }
func (r reentrantAEAD) Overhead() int  { return 16 }

func (r reentrantAEAD) Seal(dst, key, nonce, plaintext, additionalData []byte) ([]byte, error) {
	return r.eng.Seal(dst, key, nonce, plaintext, additionalData)
}

func (r reentrantAEAD) Open(dst, key, nonce, sealed, additionalData []byte) ([]byte, error) {
	return r.eng.Open(dst, key, nonce, sealed, additionalData)
}

func TestFakeHashEngine(t *testing.T) {
	require := require.New(t)

	eng := &FakeHashEngine{Backend: sha256.New()}
	require.Equal(sha256.Size, eng.Size(), "Size()")

	sum, err := eng.Sum(nil, []byte("abc"))
	require.NoError(err, "Sum()")
	require.Len(sum, sha256.Size, "Sum() - length")

	s, err := eng.New()
	require.NoError(err, "New()")
	require.Equal(2, eng.Calls, "Calls")

	// Session traffic is not counted against the engine.
	_, err = s.Write([]byte("abc"))
	require.NoError(err, "Write()")
	streamed, err := s.Sum(nil)
	require.NoError(err, "session Sum()")
	require.EqualValues(sum, streamed, "streaming agrees with one shot")
	require.Equal(2, eng.Calls, "Calls - after session traffic")

	eng.FailAfter = 2
	_, err = eng.Sum(nil, []byte("abc"))
	require.ErrorIs(err, board.ErrHardware, "Sum() - engine gone bad")
	_, err = eng.New()
	require.ErrorIs(err, board.ErrHardware, "New() - engine gone bad")
}

func TestAEADEquivalenceHarness(t *testing.T) {
	vectors := AEADVectors(24, ccm.KeySize, ccm.NonceSize)
	require.Len(t, vectors, 24, "AEADVectors()")

	// A backend is interchangeable with itself behind a fake engine, which
	// exercises every assertion in the harness.
	AEADEquivalence(t, ccm.New(), &FakeAEADEngine{Backend: ccm.New()}, vectors)
}

func TestHashEquivalenceHarness(t *testing.T) {
	msgs := HashMessages(24)
	require.Len(t, msgs, 24, "HashMessages()")

	HashEquivalence(t, sha256.New(), &FakeHashEngine{Backend: sha256.New()}, msgs)
}
