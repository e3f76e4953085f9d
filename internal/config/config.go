// Package config resolves the program's tuning knobs: the THREADS
// environment variable spec names and an optional TOML override file for
// settings spec.md leaves as open questions (the max station-name length,
// chunk sizing, a GC-off toggle), in the style of
// ChristianF88-cidrx's config.LoadConfig.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/BurntSushi/toml"
)

// FileConfig is the optional on-disk override, loaded from a TOML file
// when one is present. Every field is optional; zero values mean "use the
// built-in default."
type FileConfig struct {
	MaxStationNameBytes int  `toml:"max_station_name_bytes"`
	ChunkBufferBytes    int  `toml:"chunk_buffer_bytes"`
	DisableGC           bool `toml:"disable_gc"`
}

// LoadFileConfig reads and decodes a TOML override file. A missing file is
// not an error: it just means no overrides apply.
func LoadFileConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var fc FileConfig
	if _, err := toml.Decode(string(data), &fc); err != nil {
		return FileConfig{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return fc, nil
}

// Workers resolves the parser pool size from the THREADS environment
// variable, falling back to runtime.NumCPU() when THREADS is unset or
// empty. A value that is not a positive integer is an error.
func Workers() (int, error) {
	raw := os.Getenv("THREADS")
	if raw == "" {
		return runtime.NumCPU(), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: THREADS=%q is not an integer: %w", raw, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("config: THREADS=%d must be positive", n)
	}
	return n, nil
}
