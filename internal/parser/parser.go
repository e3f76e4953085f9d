// Package parser implements the branch-light line parser: given a buffer
// that starts and ends on line boundaries, it extracts (station, tenths)
// pairs and upserts them into a stationmap.Map.
//
// Two equivalent implementations are provided. ParseChunk is the scalar,
// branching form (grounded in the teacher's splitOnSemi/parseFloat).
// ParseChunkSWAR is the branchless SWAR form that inspects the last eight
// bytes of each line as one big-endian word (grounded in the original
// source's has_zero/bytes_from_end bit tricks). Both must agree on every
// legal input; see parser_test.go's agreement property test.
package parser

import (
	"bytes"
	"errors"

	"github.com/asg0451/1brc/internal/stationmap"
)

// ErrMalformedRecord is returned for a line that does not match the
// grammar `<name>;<temp>\n`, including a station name exceeding the
// configured maximum.
var ErrMalformedRecord = errors.New("parser: malformed record")

// DefaultMaxStationNameBytes is the fallback cap on station-name length
// (spec's open question: 100 bytes, inferred from the original reader's
// buffer size).
const DefaultMaxStationNameBytes = 100

// minLineLen is the shortest a legal line can be: a 1-byte name plus the
// shortest temperature form ";D.D" (4 bytes).
const minLineLen = 5

func digit(b byte) int32 { return int32(b - '0') }

// ParseLine extracts the station name and temperature (in tenths) from a
// single line (no trailing '\n'). It never reads before the start of line.
func ParseLine(line []byte) (name []byte, tenths int32, err error) {
	n := len(line)
	switch {
	case n >= 5 && line[n-4] == ';':
		// ;D.D
		tenths = digit(line[n-3])*10 + digit(line[n-1])
		return line[:n-4], tenths, nil
	case n >= 6 && line[n-5] == ';':
		if line[n-4] == '-' {
			// ;-D.D
			tenths = -(digit(line[n-3])*10 + digit(line[n-1]))
		} else {
			// ;DD.D
			tenths = digit(line[n-4])*100 + digit(line[n-3])*10 + digit(line[n-1])
		}
		return line[:n-5], tenths, nil
	case n >= 7 && line[n-6] == ';':
		// ;-DD.D
		tenths = -(digit(line[n-4])*100 + digit(line[n-3])*10 + digit(line[n-1]))
		return line[:n-6], tenths, nil
	default:
		return nil, 0, ErrMalformedRecord
	}
}

// ParseChunk runs the scalar parser over buf, which must begin at the start
// of a line and end exactly on a '\n' (inclusive), upserting every
// (station, temperature) pair it finds into dst. maxNameBytes bounds the
// legal station-name length; pass 0 for DefaultMaxStationNameBytes.
func ParseChunk(buf []byte, dst stationmap.Map, maxNameBytes int) error {
	if maxNameBytes <= 0 {
		maxNameBytes = DefaultMaxStationNameBytes
	}
	start := 0
	for start < len(buf) {
		nl := bytes.IndexByte(buf[start:], '\n')
		if nl < 0 {
			return ErrMalformedRecord
		}
		line := buf[start : start+nl]
		name, tenths, err := ParseLine(line)
		if err != nil {
			return err
		}
		if len(name) == 0 || len(name) > maxNameBytes {
			return ErrMalformedRecord
		}
		if err := dst.Upsert(name, tenths); err != nil {
			return err
		}
		start += nl + 1
	}
	return nil
}
