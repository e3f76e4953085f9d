package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWorkersDefaultsToNumCPUWhenUnset(t *testing.T) {
	t.Setenv("THREADS", "")
	n, err := Workers()
	if err != nil {
		t.Fatal(err)
	}
	if n < 1 {
		t.Fatalf("Workers() = %d, want >= 1", n)
	}
}

func TestWorkersHonorsOverride(t *testing.T) {
	t.Setenv("THREADS", "7")
	n, err := Workers()
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 {
		t.Fatalf("Workers() = %d, want 7", n)
	}
}

func TestWorkersRejectsNonPositive(t *testing.T) {
	t.Setenv("THREADS", "0")
	if _, err := Workers(); err == nil {
		t.Fatal("expected error for THREADS=0")
	}
}

func TestWorkersRejectsGarbage(t *testing.T) {
	t.Setenv("THREADS", "banana")
	if _, err := Workers(); err == nil {
		t.Fatal("expected error for non-numeric THREADS")
	}
}

func TestLoadFileConfigMissingIsNotError(t *testing.T) {
	fc, err := LoadFileConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if fc.MaxStationNameBytes != 0 {
		t.Fatalf("expected zero-value FileConfig, got %+v", fc)
	}
}

func TestLoadFileConfigParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "1brc.toml")
	contents := "max_station_name_bytes = 50\nchunk_buffer_bytes = 1048576\ndisable_gc = true\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if fc.MaxStationNameBytes != 50 || fc.ChunkBufferBytes != 1048576 || !fc.DisableGC {
		t.Fatalf("got %+v", fc)
	}
}
