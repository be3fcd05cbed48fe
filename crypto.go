// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package board

// AEAD is the authenticated encryption capability.  Implementations hold no
// key material between calls, the key is supplied per operation and its
// lifetime is the call's lifetime.  Given identical inputs an implementation
// always produces identical output, so a hardware engine and its software
// substitute are interchangeable.
//
// Implementations must not log, cache or otherwise retain keys, nonces,
// plaintext or intermediate state.  Nonce uniqueness under a given key is
// the caller's responsibility; implementations only enforce the nonce
// length.
type AEAD interface {
	// KeySize returns the key size in bytes.
	KeySize() int

	// NonceSize returns the nonce size in bytes.
	NonceSize() int

	// Overhead returns the authentication tag size in bytes.  Seal output
	// is exactly Overhead() bytes longer than its plaintext, with the tag
	// at the end.
	Overhead() int

	// Seal encrypts and authenticates plaintext, authenticates
	// additionalData, and appends ciphertext followed by the tag to dst,
	// returning the updated slice.  Input sizes are validated before any
	// cryptographic work, and nothing is appended on failure.
	Seal(dst, key, nonce, plaintext, additionalData []byte) ([]byte, error)

	// Open authenticates and decrypts sealed (ciphertext followed by the
	// tag), authenticates additionalData, and appends the plaintext to
	// dst.  The tag is verified with a constant time comparison before any
	// plaintext is released, on failure the return is (nil, ErrAuth) and
	// no plaintext bytes survive, not even transiently in dst.
	Open(dst, key, nonce, sealed, additionalData []byte) ([]byte, error)
}

// Hash is the cryptographic digest capability.
type Hash interface {
	// Size returns the digest size in bytes.
	Size() int

	// BlockSize returns the compression block size in bytes.
	BlockSize() int

	// Sum computes the digest of msg in one shot and appends it to dst,
	// returning the updated slice.
	Sum(dst, msg []byte) ([]byte, error)

	// New begins a streaming session.  The session's lifetime is managed
	// by the caller, nothing is buffered across contract calls outside of
	// it.
	New() (HashSession, error)
}

// HashSession is an in-progress streaming digest.  Feeding a message in any
// sequence of Write chunks produces the same digest as a one shot Sum of the
// concatenation.
type HashSession interface {
	// Write absorbs p into the session.  Chunk sizes are arbitrary and
	// need not align with the block size.
	Write(p []byte) (n int, err error)

	// Sum applies the final padding and length encoding exactly once,
	// appends the digest to dst, and returns the updated slice.  The
	// session is finished afterwards, further use fails with
	// ErrUnsupported.
	Sum(dst []byte) ([]byte, error)
}
