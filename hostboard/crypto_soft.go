// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

//go:build !hostcryptohw

package hostboard

import (
	"gitlab.com/yawning/board.git"
	"gitlab.com/yawning/board.git/soft/ccm"
	"gitlab.com/yawning/board.git/soft/gcm"
	"gitlab.com/yawning/board.git/soft/sha256"
)

func newCrypto() (board.AEAD, board.AEAD, board.Hash, error) {
	return ccm.New(), gcm.New(), sha256.New(), nil
}
