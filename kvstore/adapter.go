// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package kvstore

import (
	"errors"
	"fmt"

	"gitlab.com/yawning/board.git"
)

type storeAdapter struct {
	eng Engine
}

func (s storeAdapter) Read(key uint16) ([]byte, error) {
	value, err := s.eng.Get(entryName(key))
	if err != nil {
		return nil, mapEngineErr(err)
	}

	return value, nil
}

func (s storeAdapter) Write(key uint16, value []byte) error {
	if err := s.eng.Put(entryName(key), value); err != nil {
		return mapEngineErr(err)
	}

	return nil
}

func (s storeAdapter) Delete(key uint16) error {
	if err := s.eng.Delete(entryName(key)); err != nil {
		return mapEngineErr(err)
	}

	return nil
}

// entryName is the engine-side spelling of a board store key.
func entryName(key uint16) string {
	return fmt.Sprintf("%04x", key)
}

// mapEngineErr folds an engine error onto the board taxonomy.  The board
// side matches with errors.Is against board sentinels, the engine's own
// error values never cross the boundary.
func mapEngineErr(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return board.ErrNotFound
	case errors.Is(err, ErrNoSpace):
		return board.ErrOutOfSpace
	default:
		return fmt.Errorf("%w: %v", board.ErrHardware, err)
	}
}
