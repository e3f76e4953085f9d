package parser

import (
	"bytes"
	"encoding/binary"
	"math/bits"

	"github.com/asg0451/1brc/internal/stationmap"
)

// The SWAR (SIMD-within-a-register) tricks below operate on the last eight
// bytes of a line as one big-endian uint64, locating the separator and sign
// by testing for zero bytes after XORing against a repeated-byte mask —
// ported from the original source's has_zero/create_mask/bytes_from_end.

func createMask(b byte) uint64 {
	return (^uint64(0) / 0xFF) * uint64(b)
}

func hasZero(v uint64) uint64 {
	return (v - createMask(0x01)) &^ v & createMask(0x80)
}

// bytesFromEnd returns, for the byte in value equal to mask's repeated
// byte, its distance from the end of the 8-byte word (0 = last byte).
func bytesFromEnd(value, mask uint64) uint32 {
	tz := bits.TrailingZeros64(hasZero(value ^ mask))
	return uint32(tz-4) >> 3
}

// getTempBranchless decodes the trailing temperature out of the last
// 8-byte word of a line, returning the number of bytes after the
// separator (exclusive of the separator itself) and the tenths value.
func getTempBranchless(end uint64) (split int, tenths int32) {
	s := bytesFromEnd(end, createMask(';'))
	negBit := (hasZero(end^createMask('-')) >> (((s - 1) << 3) + 7)) & 1
	negative := int32(negBit)
	mask := ^(createMask(0xFF) << (s << 3) >> (uint32(negative) << 3))
	e := end & mask
	ones := int32(e & 0xFF)
	tens := int32((e>>16)&0xFF) * 10
	hasHundreds := int32((e >> 24) & 0xFF) >> 5
	hundreds := int32((e>>24)&0xFF) * 100
	temp := ones - '0' + tens - ('0' * 10) + hundreds - hasHundreds*('0'*100)
	return int(s), (temp ^ -negative) + negative
}

// lastWord loads the last 8 bytes of line as a big-endian word. Lines
// shorter than 8 bytes are zero-padded from the left so the low bytes
// (the real trailing content) are unaffected.
func lastWord(line []byte) uint64 {
	if len(line) >= 8 {
		return binary.BigEndian.Uint64(line[len(line)-8:])
	}
	var buf [8]byte
	copy(buf[8-len(line):], line)
	return binary.BigEndian.Uint64(buf[:])
}

// ParseLineSWAR is the branchless counterpart to ParseLine: same contract,
// same result on every legal input, different (faster, branch-light)
// implementation.
func ParseLineSWAR(line []byte) (name []byte, tenths int32, err error) {
	n := len(line)
	if n < minLineLen {
		return nil, 0, ErrMalformedRecord
	}
	end := lastWord(line)
	split, t := getTempBranchless(end)
	nameLen := n - split - 1
	if nameLen < 1 || nameLen > n {
		return nil, 0, ErrMalformedRecord
	}
	return line[:nameLen], t, nil
}

// ParseChunkSWAR is ParseChunk's branchless counterpart.
func ParseChunkSWAR(buf []byte, dst stationmap.Map, maxNameBytes int) error {
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
		name, tenths, err := ParseLineSWAR(line)
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
