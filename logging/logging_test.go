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

package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo)

	log.Debug("too quiet to hear")
	require.Zero(buf.Len(), "Debug() - suppressed below the configured level")

	log.Info("boot", "counter", 7)
	require.Contains(buf.String(), "boot", "Info() - message")
	require.Contains(buf.String(), "counter", "Info() - field key")

	buf.Reset()
	log.With("cap", "serial").Warn("stalled")
	require.Contains(buf.String(), "stalled", "Warn() - message")
	require.Contains(buf.String(), "cap", "With() - attached field")

	buf.Reset()
	log = New(&buf, slog.LevelDebug)
	log.Debug("now audible")
	require.Contains(buf.String(), "now audible", "Debug() - at debug level")
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Debug("into the void")
	log.Info("into the void")
	log.Warn("into the void")
	log.Error("into the void", "err", "none")
	log.With("cap", "led").Info("still the void")
}

func TestParseLevel(t *testing.T) {
	require := require.New(t)

	for s, expected := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		level, err := ParseLevel(s)
		require.NoError(err, "ParseLevel(%s)", s)
		require.Equal(expected, level, "ParseLevel(%s)", s)
	}

	_, err := ParseLevel("chatty")
	require.Error(err, "ParseLevel() - unknown level")
}
