package ingest

import "errors"

// ErrInputUnavailable wraps any failure to open, stat, read, or map the
// input file.
var ErrInputUnavailable = errors.New("ingest: input unavailable")
