// Package hardware surfaces the platform cryptographic engines.  On a host
// these are the CPU extension backed implementations that stand in for the
// dedicated silicon a real board would carry.  A factory variable stays nil
// when the running CPU lacks the required extensions, composition code
// treats nil as "engine absent" rather than falling back silently.
package hardware

import (
	"gitlab.com/yawning/board.git/internal/engine"
)

// AEAD256 constructs AES-256-GCM engines backed by the AES and carryless
// multiply extensions, if supported.
var AEAD256 engine.AEADFactory

// Hash256 constructs SHA-256 engines backed by the SHA extensions, if
// supported.
var Hash256 engine.HashFactory
