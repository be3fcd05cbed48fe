// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package boardtest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/yawning/board.git"
)

// AEADVector is one shared input for an equivalence check.
type AEADVector struct {
	Key            []byte
	Nonce          []byte
	Plaintext      []byte
	AdditionalData []byte
}

// AEADVectors generates n deterministic vectors sized for a backend,
// covering empty and non-empty plaintext and additional data.
func AEADVectors(n, keySize, nonceSize int) []AEADVector {
	rng := NewRng(uint64(keySize)<<32 | uint64(nonceSize))

	vectors := make([]AEADVector, 0, n)
	for i := 0; i < n; i++ {
		v := AEADVector{
			Key:            make([]byte, keySize),
			Nonce:          make([]byte, nonceSize),
			Plaintext:      make([]byte, (i*13)%251),
			AdditionalData: make([]byte, (i*7)%53),
		}
		for _, b := range [][]byte{v.Key, v.Nonce, v.Plaintext, v.AdditionalData} {
			_ = rng.FillBytes(b)
		}
		vectors = append(vectors, v)
	}

	return vectors
}

// AEADEquivalence asserts that two backends for the same capability are
// interchangeable: identical parameters, identical bytes from Seal,
// identical accept and reject decisions from Open, with either backend
// opening the other's output.
func AEADEquivalence(t *testing.T, a, b board.AEAD, vectors []AEADVector) {
	t.Helper()
	require := require.New(t)

	require.Equal(a.KeySize(), b.KeySize(), "KeySize()")
	require.Equal(a.NonceSize(), b.NonceSize(), "NonceSize()")
	require.Equal(a.Overhead(), b.Overhead(), "Overhead()")

	for i, v := range vectors {
		sealedA, err := a.Seal(nil, v.Key, v.Nonce, v.Plaintext, v.AdditionalData)
		require.NoError(err, "a.Seal(%d)", i)
		sealedB, err := b.Seal(nil, v.Key, v.Nonce, v.Plaintext, v.AdditionalData)
		require.NoError(err, "b.Seal(%d)", i)
		require.EqualValues(sealedA, sealedB, "Seal(%d) - identical bytes", i)

		opened, err := a.Open(nil, v.Key, v.Nonce, sealedB, v.AdditionalData)
		require.NoError(err, "a.Open(b.Seal)(%d)", i)
		if len(v.Plaintext) > 0 {
			require.EqualValues(v.Plaintext, opened, "a.Open(b.Seal)(%d) - plaintext", i)
		} else {
			require.Len(opened, 0, "a.Open(b.Seal)(%d) - plaintext", i)
		}
		opened, err = b.Open(nil, v.Key, v.Nonce, sealedA, v.AdditionalData)
		require.NoError(err, "b.Open(a.Seal)(%d)", i)
		if len(v.Plaintext) > 0 {
			require.EqualValues(v.Plaintext, opened, "b.Open(a.Seal)(%d) - plaintext", i)
		} else {
			require.Len(opened, 0, "b.Open(a.Seal)(%d) - plaintext", i)
		}

		// The same damage is rejected by both, with nothing but the
		// sentinel coming back.
		bad := append([]byte{}, sealedA...)
		bad[i%len(bad)] ^= 0x01
		_, err = a.Open(nil, v.Key, v.Nonce, bad, v.AdditionalData)
		require.ErrorIs(err, board.ErrAuth, "a.Open(%d) - tampered", i)
		_, err = b.Open(nil, v.Key, v.Nonce, bad, v.AdditionalData)
		require.ErrorIs(err, board.ErrAuth, "b.Open(%d) - tampered", i)
	}

	// Malformed sizes get the same verdict from both.
	if len(vectors) > 0 {
		v := vectors[0]
		for _, backend := range []board.AEAD{a, b} {
			_, err := backend.Seal(nil, v.Key[:len(v.Key)-1], v.Nonce, v.Plaintext, v.AdditionalData)
			require.ErrorIs(err, board.ErrInvalidKeySize, "Seal - short key")
			_, err = backend.Seal(nil, v.Key, v.Nonce[:len(v.Nonce)-1], v.Plaintext, v.AdditionalData)
			require.ErrorIs(err, board.ErrInvalidNonceSize, "Seal - short nonce")
			_, err = backend.Open(nil, v.Key[:len(v.Key)-1], v.Nonce, nil, nil)
			require.ErrorIs(err, board.ErrInvalidKeySize, "Open - short key")
			_, err = backend.Open(nil, v.Key, v.Nonce[:len(v.Nonce)-1], nil, nil)
			require.ErrorIs(err, board.ErrInvalidNonceSize, "Open - short nonce")
		}
	}
}

// HashMessages generates n deterministic messages, covering the empty
// message and the padding boundaries around the block size.
func HashMessages(n int) [][]byte {
	rng := NewRng(0x48415348)

	sizes := []int{0, 1, 55, 56, 57, 63, 64, 65, 127, 128}
	msgs := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		var sz int
		if i < len(sizes) {
			sz = sizes[i]
		} else {
			sz = (i * 17) % 509
		}
		m := make([]byte, sz)
		_ = rng.FillBytes(m)
		msgs = append(msgs, m)
	}

	return msgs
}

// HashEquivalence asserts that two digest backends are interchangeable:
// identical parameters and identical digests, with one backend's streaming
// sessions agreeing with the other's one shot path for every message.
func HashEquivalence(t *testing.T, a, b board.Hash, msgs [][]byte) {
	t.Helper()
	require := require.New(t)

	require.Equal(a.Size(), b.Size(), "Size()")
	require.Equal(a.BlockSize(), b.BlockSize(), "BlockSize()")

	for i, msg := range msgs {
		sumA, err := a.Sum(nil, msg)
		require.NoError(err, "a.Sum(%d)", i)
		sumB, err := b.Sum(nil, msg)
		require.NoError(err, "b.Sum(%d)", i)
		require.EqualValues(sumA, sumB, "Sum(%d) - identical digests", i)

		// Stream through a, one shot through b, split at an arbitrary
		// point.
		s, err := a.New()
		require.NoError(err, "a.New(%d)", i)
		split := (i * 31) % (len(msg) + 1)
		_, err = s.Write(msg[:split])
		require.NoError(err, "Write(%d) - head", i)
		_, err = s.Write(msg[split:])
		require.NoError(err, "Write(%d) - tail", i)
		sum, err := s.Sum(nil)
		require.NoError(err, "session Sum(%d)", i)
		require.EqualValues(sumB, sum, "streamed digest (%d)", i)
	}
}
