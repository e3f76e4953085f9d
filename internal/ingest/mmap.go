// Package ingest adapts the raw input file to the two reading strategies
// spec names: a memory mapping for random-access / offset-adjust
// splitting, and a buffered sequential reader for the streaming splitter.
package ingest

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Mmap maps path read-only and advises the kernel for sequential,
// read-ahead-friendly access (grounded in the original source's
// map.advise(Sequential)/advise(WillNeed), generalized from the teacher's
// raw syscall.Mmap to golang.org/x/sys/unix so Madvise is available). The
// returned close func must be called exactly once to unmap.
func Mmap(path string) (data []byte, close func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: opening %s: %v", ErrInputUnavailable, path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: statting %s: %v", ErrInputUnavailable, path, err)
	}

	size := fi.Size()
	if size == 0 {
		return nil, func() error { return nil }, nil
	}

	data, err = unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: mmap %s: %v", ErrInputUnavailable, path, err)
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	_ = unix.Madvise(data, unix.MADV_WILLNEED)

	return data, func() error { return unix.Munmap(data) }, nil
}
