package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/asg0451/1brc/internal/stationmap"
)

func TestFormatSingleStation(t *testing.T) {
	m := stationmap.NewHashMap(8)
	if err := m.Upsert([]byte("Hamburg"), 120); err != nil {
		t.Fatal(err)
	}
	got := Format(m)
	want := "{Hamburg=12.0/12.0/12.0}"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatSortsLexicographically(t *testing.T) {
	m := stationmap.NewHashMap(8)
	_ = m.Upsert([]byte("b"), 10)
	_ = m.Upsert([]byte("a"), 10)
	got := Format(m)
	want := "{a=1.0/1.0/1.0, b=1.0/1.0/1.0}"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatMeanAveraging(t *testing.T) {
	m := stationmap.NewHashMap(8)
	for _, v := range []int32{10, 20, 30, 40, 50} {
		if err := m.Upsert([]byte("X"), v); err != nil {
			t.Fatal(err)
		}
	}
	got := Format(m)
	want := "{X=1.0/3.0/5.0}"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCompareBaselineMatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "baseline.txt")
	if err := os.WriteFile(path, []byte("{a=1.0/1.0/1.0}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CompareBaseline("{a=1.0/1.0/1.0}", path); err != nil {
		t.Fatal(err)
	}
}

func TestCompareBaselineMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "baseline.txt")
	if err := os.WriteFile(path, []byte("{a=1.0/1.0/1.0}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CompareBaseline("{a=2.0/2.0/2.0}", path); err == nil {
		t.Fatal("expected mismatch error")
	}
}
