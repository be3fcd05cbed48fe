// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

//go:build hostcryptohw

package hostboard

import (
	"fmt"

	"gitlab.com/yawning/board.git"
	"gitlab.com/yawning/board.git/internal/hardware"
	"gitlab.com/yawning/board.git/soft/ccm"
)

func newCrypto() (board.AEAD, board.AEAD, board.Hash, error) {
	if hardware.AEAD256 == nil {
		return nil, nil, nil, fmt.Errorf("%w: no platform AES-256-GCM engine", board.ErrHardware)
	}
	if hardware.Hash256 == nil {
		return nil, nil, nil, fmt.Errorf("%w: no platform SHA-256 engine", board.ErrHardware)
	}

	// There is no host CCM engine, that capability stays software.
	return ccm.New(), hardware.AEAD256.New(), hardware.Hash256.New(), nil
}
