// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const tmpSuffix = ".tmp"

// FileEngine is a directory backed Engine, one file per key.  Writes go
// through a temporary file and a rename so an interrupted Put leaves the
// previous value intact, and the contents survive reopening the directory.
type FileEngine struct {
	mu     sync.Mutex
	dir    string
	quota  int64
	used   int64
	closed bool
}

// NewFile opens (creating if needed) a FileEngine over dir, holding at most
// quota bytes of values, 0 meaning unbounded.  Temporary files left behind
// by an interrupted Put are discarded.
func NewFile(dir string, quota int64) (*FileEngine, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("kvstore: failed to open directory: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("kvstore: failed to scan directory: %w", err)
	}

	var used int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), tmpSuffix) {
			_ = os.Remove(filepath.Join(dir, entry.Name()))
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("kvstore: failed to scan directory: %w", err)
		}
		used += fi.Size()
	}

	return &FileEngine{
		dir:   dir,
		quota: quota,
		used:  used,
	}, nil
}

func (f *FileEngine) Get(key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrClosed
	}
	if err := checkKey(key); err != nil {
		return nil, err
	}

	value, err := os.ReadFile(filepath.Join(f.dir, key))
	switch {
	case err == nil:
		return value, nil
	case os.IsNotExist(err):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("kvstore: failed to read entry: %w", err)
	}
}

func (f *FileEngine) Put(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	if err := checkKey(key); err != nil {
		return err
	}

	path := filepath.Join(f.dir, key)

	var old int64
	if fi, err := os.Stat(path); err == nil {
		old = fi.Size()
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("kvstore: failed to stat entry: %w", err)
	}
	if f.quota > 0 && f.used-old+int64(len(value)) > f.quota {
		return ErrNoSpace
	}

	tmpPath := path + tmpSuffix
	if err := os.WriteFile(tmpPath, value, 0o600); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("kvstore: failed to write entry: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("kvstore: failed to write entry: %w", err)
	}
	f.used += int64(len(value)) - old

	return nil
}

func (f *FileEngine) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	if err := checkKey(key); err != nil {
		return err
	}

	path := filepath.Join(f.dir, key)

	fi, err := os.Stat(path)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		return ErrNotFound
	default:
		return fmt.Errorf("kvstore: failed to stat entry: %w", err)
	}

	if err = os.Remove(path); err != nil {
		return fmt.Errorf("kvstore: failed to remove entry: %w", err)
	}
	f.used -= fi.Size()

	return nil
}

func (f *FileEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true

	return nil
}

// checkKey rejects keys that would escape the directory or collide with the
// temporary file namespace.
func checkKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasSuffix(key, tmpSuffix) {
		return ErrInvalidKey
	}
	if key == "." || key == ".." {
		return ErrInvalidKey
	}

	return nil
}
