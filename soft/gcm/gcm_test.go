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

package gcm

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/yawning/board.git"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err, "decode hex")
	return b
}

// AES-256 test cases 13 through 16 from the GCM specification.
func TestSpecVectors(t *testing.T) {
	require := require.New(t)

	vectors := []struct {
		key, nonce, aad, plaintext, ciphertext, tag string
	}{
		{
			"0000000000000000000000000000000000000000000000000000000000000000",
			"000000000000000000000000",
			"",
			"",
			"",
			"530f8afbc74536b9a963b4f1c4cb738b",
		},
		{
			"0000000000000000000000000000000000000000000000000000000000000000",
			"000000000000000000000000",
			"",
			"00000000000000000000000000000000",
			"cea7403d4d606b6e074ec5d3baf39d18",
			"d0d1c8a799996bf0265b98b5d48ab919",
		},
		{
			"feffe9928665731c6d6a8f9467308308feffe9928665731c6d6a8f9467308308",
			"cafebabefacedbaddecaf888",
			"",
			"d9313225f88406e5a55909c5aff5269a86a7a9531534f7da2e4c303d8a318a721c3c0c95956809532fcf0e2449a6b525b16aedf5aa0de657ba637b391aafd255",
			"522dc1f099567d07f47f37a32a84427d643a8cdcbfe5c0c97598a2bd2555d1aa8cb08e48590dbb3da7b08b1056828838c5f61e6393ba7a0abcc9f662898015ad",
			"b094dac5d93471bdec1a502270e3cc6c",
		},
		{
			"feffe9928665731c6d6a8f9467308308feffe9928665731c6d6a8f9467308308",
			"cafebabefacedbaddecaf888",
			"feedfacedeadbeeffeedfacedeadbeefabaddad2",
			"d9313225f88406e5a55909c5aff5269a86a7a9531534f7da2e4c303d8a318a721c3c0c95956809532fcf0e2449a6b525b16aedf5aa0de657ba637b39",
			"522dc1f099567d07f47f37a32a84427d643a8cdcbfe5c0c97598a2bd2555d1aa8cb08e48590dbb3da7b08b1056828838c5f61e6393ba7a0abcc9f662",
			"76fc6ece0f4e1768cddf8853bb2d551b",
		},
	}

	aead := New()
	for i, v := range vectors {
		key := mustHex(t, v.key)
		nonce := mustHex(t, v.nonce)
		aad := mustHex(t, v.aad)
		plaintext := mustHex(t, v.plaintext)
		expectedCt := mustHex(t, v.ciphertext)
		expectedTag := mustHex(t, v.tag)

		sealed, err := aead.Seal(nil, key, nonce, plaintext, aad)
		require.NoError(err, "Seal(%d)", i)
		require.EqualValues(expectedCt, sealed[:len(plaintext)], "Seal(%d) - ciphertext", i)
		require.EqualValues(expectedTag, sealed[len(plaintext):], "Seal(%d) - tag", i)

		opened, err := aead.Open(nil, key, nonce, sealed, aad)
		require.NoError(err, "Open(%d)", i)
		if len(plaintext) > 0 {
			require.EqualValues(plaintext, opened, "Open(%d) - plaintext", i)
		} else {
			require.Len(opened, 0, "Open(%d) - plaintext", i)
		}
	}
}

func TestBasic(t *testing.T) {
	require := require.New(t)

	aead := New()
	require.Equal(KeySize, aead.KeySize(), "KeySize()")
	require.Equal(NonceSize, aead.NonceSize(), "NonceSize()")
	require.Equal(TagSize, aead.Overhead(), "Overhead()")

	key := make([]byte, KeySize)
	nonce := make([]byte, NonceSize)
	plaintext := make([]byte, 73)
	aad := make([]byte, 42)
	for _, b := range [][]byte{key, nonce, plaintext, aad} {
		_, err := rand.Read(b)
		require.NoError(err, "rand.Read()")
	}

	sealed, err := aead.Seal(nil, key, nonce, plaintext, aad)
	require.NoError(err, "Seal()")
	require.Len(sealed, len(plaintext)+TagSize, "Seal() - length")

	opened, err := aead.Open(nil, key, nonce, sealed, aad)
	require.NoError(err, "Open()")
	require.EqualValues(plaintext, opened, "Seal()/Open() - round trips")

	// Wrong sizes fail before any work.
	_, err = aead.Seal(nil, key[:KeySize-1], nonce, plaintext, aad)
	require.EqualError(err, board.ErrInvalidKeySize.Error(), "Seal() - short key")
	_, err = aead.Seal(nil, key, nonce[:NonceSize-1], plaintext, aad)
	require.EqualError(err, board.ErrInvalidNonceSize.Error(), "Seal() - short nonce")
	_, err = aead.Seal(nil, key, append(nonce, 0), plaintext, aad)
	require.EqualError(err, board.ErrInvalidNonceSize.Error(), "Seal() - long nonce")
	_, err = aead.Open(nil, key[:KeySize-1], nonce, sealed, aad)
	require.EqualError(err, board.ErrInvalidKeySize.Error(), "Open() - short key")
	_, err = aead.Open(nil, key, nonce[:NonceSize-1], sealed, aad)
	require.EqualError(err, board.ErrInvalidNonceSize.Error(), "Open() - short nonce")
	_, err = aead.Open(nil, key, nonce, sealed[:TagSize-1], aad)
	require.EqualError(err, board.ErrAuth.Error(), "Open() - truncated sealed")
}

func TestTamper(t *testing.T) {
	require := require.New(t)

	aead := New()
	key := mustHex(t, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	nonce := mustHex(t, "202122232425262728292a2b")
	plaintext := []byte("tamper evident payload")
	aad := []byte("associated")

	sealed, err := aead.Seal(nil, key, nonce, plaintext, aad)
	require.NoError(err, "Seal()")

	badNonce := append([]byte{}, nonce...)
	badNonce[0] ^= 0xa5
	_, err = aead.Open(nil, key, badNonce, sealed, aad)
	require.EqualError(err, board.ErrAuth.Error(), "Open() - altered nonce")

	badAad := append([]byte{}, aad...)
	badAad[0] ^= 0xa5
	_, err = aead.Open(nil, key, nonce, sealed, badAad)
	require.EqualError(err, board.ErrAuth.Error(), "Open() - altered aad")

	// Every single byte position, ciphertext and tag both.
	for i := range sealed {
		bad := append([]byte{}, sealed...)
		bad[i] ^= 0x01
		_, err = aead.Open(nil, key, nonce, bad, aad)
		require.EqualError(err, board.ErrAuth.Error(), "Open() - altered byte %d", i)
	}
}

func TestLengthMatrix(t *testing.T) {
	require := require.New(t)

	aead := New()
	key := make([]byte, KeySize)
	nonce := make([]byte, NonceSize)
	_, err := rand.Read(key)
	require.NoError(err, "rand.Read()")
	_, err = rand.Read(nonce)
	require.NoError(err, "rand.Read()")

	for _, ptLen := range []int{0, 1, 15, 16, 17, 63, 64, 65, 255, 1000} {
		for _, aadLen := range []int{0, 1, 15, 16, 17, 256} {
			plaintext := make([]byte, ptLen)
			aad := make([]byte, aadLen)
			_, _ = rand.Read(plaintext)
			_, _ = rand.Read(aad)

			sealed, err := aead.Seal(nil, key, nonce, plaintext, aad)
			require.NoError(err, "Seal(%d, %d)", ptLen, aadLen)
			require.Len(sealed, ptLen+TagSize, "Seal(%d, %d) - length", ptLen, aadLen)

			opened, err := aead.Open(nil, key, nonce, sealed, aad)
			require.NoError(err, "Open(%d, %d)", ptLen, aadLen)
			if ptLen > 0 {
				require.EqualValues(plaintext, opened, "round trip (%d, %d)", ptLen, aadLen)
			} else {
				require.Len(opened, 0, "round trip (%d, %d)", ptLen, aadLen)
			}
		}
	}
}

// The runtime library GCM is an independent implementation of the same mode,
// so it makes a good oracle: identical bytes out, and identical accept and
// reject decisions, in both directions.
func TestOracleEquivalence(t *testing.T) {
	require := require.New(t)

	aead := New()
	for sz := 0; sz <= 200; sz++ {
		key := make([]byte, KeySize)
		nonce := make([]byte, NonceSize)
		plaintext := make([]byte, sz)
		aad := make([]byte, sz/3)
		for _, b := range [][]byte{key, nonce, plaintext, aad} {
			_, _ = rand.Read(b)
		}

		blk, err := aes.NewCipher(key)
		require.NoError(err, "aes.NewCipher()")
		oracle, err := cipher.NewGCM(blk)
		require.NoError(err, "cipher.NewGCM()")

		sealed, err := aead.Seal(nil, key, nonce, plaintext, aad)
		require.NoError(err, "Seal() - %d bytes", sz)
		expected := oracle.Seal(nil, nonce, plaintext, aad)
		require.EqualValues(expected, sealed, "Seal() vs oracle - %d bytes", sz)

		// Exchange outputs.
		opened, err := aead.Open(nil, key, nonce, expected, aad)
		require.NoError(err, "Open(oracle sealed) - %d bytes", sz)
		require.EqualValues(plaintext, append([]byte{}, opened...), "Open(oracle sealed) - plaintext, %d bytes", sz)
		oracleOpened, err := oracle.Open(nil, nonce, sealed, aad)
		require.NoError(err, "oracle.Open(sealed) - %d bytes", sz)
		require.EqualValues(plaintext, append([]byte{}, oracleOpened...), "oracle.Open(sealed) - plaintext, %d bytes", sz)

		// Both reject the same damage.
		bad := append([]byte{}, sealed...)
		bad[sz/2] ^= 0x80
		_, err = aead.Open(nil, key, nonce, bad, aad)
		require.EqualError(err, board.ErrAuth.Error(), "Open() - tampered, %d bytes", sz)
		_, err = oracle.Open(nil, nonce, bad, aad)
		require.Error(err, "oracle.Open() - tampered, %d bytes", sz)
	}
}

func TestDeterministic(t *testing.T) {
	require := require.New(t)

	aead := New()
	key := make([]byte, KeySize)
	nonce := make([]byte, NonceSize)
	plaintext := []byte("test")

	sealed, err := aead.Seal(nil, key, nonce, plaintext, nil)
	require.NoError(err, "Seal()")
	sealed2, err := aead.Seal(nil, key, nonce, plaintext, nil)
	require.NoError(err, "Seal() - again")
	require.EqualValues(sealed, sealed2, "Seal() - deterministic")

	opened, err := aead.Open(nil, key, nonce, sealed, nil)
	require.NoError(err, "Open()")
	require.EqualValues(plaintext, opened, "round trip")

	for i := 0; i < TagSize; i++ {
		bad := append([]byte{}, sealed...)
		bad[len(plaintext)+i] ^= 0x80
		_, err = aead.Open(nil, key, nonce, bad, nil)
		require.EqualError(err, board.ErrAuth.Error(), "Open() - tag byte %d", i)
	}
}

func TestSealAppends(t *testing.T) {
	require := require.New(t)

	aead := New()
	key := make([]byte, KeySize)
	nonce := make([]byte, NonceSize)
	plaintext := []byte("appended")

	prefix := []byte("prefix")
	sealed, err := aead.Seal(prefix, key, nonce, plaintext, nil)
	require.NoError(err, "Seal()")
	require.EqualValues(prefix, sealed[:len(prefix)], "Seal() - prefix intact")

	opened, err := aead.Open(prefix, key, nonce, sealed[len(prefix):], nil)
	require.NoError(err, "Open()")
	require.EqualValues(prefix, opened[:len(prefix)], "Open() - prefix intact")
	require.EqualValues(plaintext, opened[len(prefix):], "Open() - plaintext")
}

func BenchmarkGCM(b *testing.B) {
	benchSizes := []int{8, 32, 64, 576, 1536, 4096}

	for _, sz := range benchSizes {
		sn := fmt.Sprintf("_%d", sz)
		b.Run("AES-256-GCM_Encrypt"+sn, func(b *testing.B) { doBenchmarkSeal(b, sz) })
		b.Run("AES-256-GCM_Decrypt"+sn, func(b *testing.B) { doBenchmarkOpen(b, sz) })
		b.Run("runtime-GCM_Encrypt"+sn, func(b *testing.B) { doBenchmarkRuntimeSeal(b, sz) })
	}
}

func doBenchmarkSeal(b *testing.B, sz int) {
	b.StopTimer()
	b.SetBytes(int64(sz))

	aead := New()
	nonce, key := make([]byte, NonceSize), make([]byte, KeySize)
	m, c := make([]byte, sz), make([]byte, 0, sz+TagSize)
	_, _ = rand.Read(nonce)
	_, _ = rand.Read(key)
	_, _ = rand.Read(m)

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		c = c[:0]

		var err error
		c, err = aead.Seal(c, key, nonce, m, nil)
		if err != nil || len(c) != sz+TagSize {
			b.Fatalf("Seal failed")
		}
	}
}

func doBenchmarkOpen(b *testing.B, sz int) {
	b.StopTimer()
	b.SetBytes(int64(sz))

	aead := New()
	nonce, key := make([]byte, NonceSize), make([]byte, KeySize)
	m, d := make([]byte, sz), make([]byte, 0, sz)
	_, _ = rand.Read(nonce)
	_, _ = rand.Read(key)
	_, _ = rand.Read(m)

	c, err := aead.Seal(nil, key, nonce, m, nil)
	if err != nil {
		b.Fatalf("Seal failed")
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		d = d[:0]

		d, err = aead.Open(d, key, nonce, c, nil)
		if err != nil {
			b.Fatalf("Open failed")
		}
	}
}

func doBenchmarkRuntimeSeal(b *testing.B, sz int) {
	b.StopTimer()
	b.SetBytes(int64(sz))

	nonce, key := make([]byte, NonceSize), make([]byte, KeySize)
	m, c := make([]byte, sz), make([]byte, 0, sz+TagSize)
	_, _ = rand.Read(nonce)
	_, _ = rand.Read(key)
	_, _ = rand.Read(m)
	blk, _ := aes.NewCipher(key)
	aead, _ := cipher.NewGCM(blk)

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		c = c[:0]

		c = aead.Seal(c, nonce, m, nil)
		if len(c) != sz+TagSize {
			b.Fatalf("Seal failed")
		}
	}
}
