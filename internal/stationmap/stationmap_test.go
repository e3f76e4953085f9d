package stationmap

import (
	"testing"

	"github.com/asg0451/1brc/internal/aggregate"
)

func schemes() map[string]func() Map {
	return map[string]func() Map{
		"hash":        func() Map { return NewHashMap(0) },
		"fingerprint": func() Map { return NewFingerprintMap(0) },
	}
}

func TestUpsertAndGet(t *testing.T) {
	for name, newMap := range schemes() {
		t.Run(name, func(t *testing.T) {
			m := newMap()
			if err := m.Upsert([]byte("Hamburg"), 120); err != nil {
				t.Fatal(err)
			}
			if err := m.Upsert([]byte("Hamburg"), 100); err != nil {
				t.Fatal(err)
			}
			v, ok := m.GetMut([]byte("Hamburg"))
			if !ok {
				t.Fatal("expected Hamburg to be present")
			}
			if v.Min != 100 || v.Max != 120 || v.Sum != 220 || v.Count != 2 {
				t.Fatalf("got %+v", v)
			}
			if m.Len() != 1 {
				t.Fatalf("Len() = %d, want 1", m.Len())
			}
		})
	}
}

func TestDistinctStationsDontCollide(t *testing.T) {
	for name, newMap := range schemes() {
		t.Run(name, func(t *testing.T) {
			m := newMap()
			stations := []string{"Abha", "Zurich", "Oslo", "X", "A"}
			for _, s := range stations {
				if err := m.Upsert([]byte(s), 10); err != nil {
					t.Fatal(err)
				}
			}
			if m.Len() != len(stations) {
				t.Fatalf("Len() = %d, want %d", m.Len(), len(stations))
			}
			for _, s := range stations {
				if _, ok := m.GetMut([]byte(s)); !ok {
					t.Fatalf("station %q missing", s)
				}
			}
		})
	}
}

func TestMergeValue(t *testing.T) {
	for name, newMap := range schemes() {
		t.Run(name, func(t *testing.T) {
			m := newMap()
			a := aggregate.New(-230)
			a.UpdateSingle(10)
			if err := m.MergeValue([]byte("Y"), a); err != nil {
				t.Fatal(err)
			}
			b := aggregate.New(999)
			if err := m.MergeValue([]byte("Y"), b); err != nil {
				t.Fatal(err)
			}
			v, ok := m.GetMut([]byte("Y"))
			if !ok {
				t.Fatal("expected Y")
			}
			if v.Min != -230 || v.Max != 999 || v.Count != 3 {
				t.Fatalf("got %+v", v)
			}
		})
	}
}

func TestGetMutMissing(t *testing.T) {
	for name, newMap := range schemes() {
		t.Run(name, func(t *testing.T) {
			m := newMap()
			if _, ok := m.GetMut([]byte("nope")); ok {
				t.Fatal("expected miss")
			}
		})
	}
}

func TestAllVisitsEveryEntry(t *testing.T) {
	for name, newMap := range schemes() {
		t.Run(name, func(t *testing.T) {
			m := newMap()
			want := map[string]bool{"a": true, "bb": true, "ccc": true}
			for s := range want {
				_ = m.Upsert([]byte(s), 1)
			}
			seen := map[string]bool{}
			m.All(func(key []byte, _ aggregate.Temperature) bool {
				seen[string(key)] = true
				return true
			})
			if len(seen) != len(want) {
				t.Fatalf("saw %v, want %v", seen, want)
			}
		})
	}
}
