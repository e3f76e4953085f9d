// Package report is the formatter/driver named out-of-scope by spec but
// implemented here for completeness: it flattens the merged station map,
// sorts station names lexicographically, and renders the
// "{name=min/mean/max, ...}" result line. It also offers an optional
// baseline-comparison mode, recovered from the original source's
// `#[cfg(feature = "assert_result")]` main.
package report

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/asg0451/1brc/internal/aggregate"
	"github.com/asg0451/1brc/internal/stationmap"
	"golang.org/x/exp/maps"
)

// Format flattens m into the sorted "{name=min/mean/max, ...}" line.
func Format(m stationmap.Map) string {
	entries := make(map[string]aggregate.Temperature, m.Len())
	m.All(func(key []byte, v aggregate.Temperature) bool {
		entries[string(key)] = v
		return true
	})

	names := maps.Keys(entries)
	slices.Sort(names)

	var b strings.Builder
	b.WriteByte('{')
	for i, name := range names {
		v := entries[name]
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%.1f/%.1f/%.1f", name, v.MinDegrees(), v.Mean(), v.MaxDegrees())
	}
	b.WriteByte('}')
	return b.String()
}

// CompareBaseline reads the file at baselinePath and compares it byte for
// byte against output, ignoring trailing newlines on both sides, returning
// an error naming the baseline file on mismatch. This is
// the Go analogue of the original source's
// `#[cfg(feature = "assert_result")] assert_eq!(BASELINE, output)`.
func CompareBaseline(output, baselinePath string) error {
	want, err := os.ReadFile(baselinePath)
	if err != nil {
		return fmt.Errorf("report: reading baseline %s: %w", baselinePath, err)
	}
	got := strings.TrimRight(output, "\n")
	wantStr := strings.TrimRight(string(want), "\n")
	if got != wantStr {
		return fmt.Errorf("report: output does not match baseline %s", baselinePath)
	}
	return nil
}
