// Package aggregate holds the per-station temperature record and the two
// operations (single-sample update, merge) that make it a commutative
// monoid under min/max/sum/count.
package aggregate

// Temperature is a per-station aggregate, stored in tenths of a degree
// Celsius so the hot path never touches floating point.
type Temperature struct {
	Min, Max int32
	Sum      int64
	Count    int64
}

// New returns the aggregate for a single observed sample.
func New(tenths int32) Temperature {
	return Temperature{Min: tenths, Max: tenths, Sum: int64(tenths), Count: 1}
}

// UpdateSingle folds one more sample into t.
func (t *Temperature) UpdateSingle(tenths int32) {
	if tenths < t.Min {
		t.Min = tenths
	}
	if tenths > t.Max {
		t.Max = tenths
	}
	t.Sum += int64(tenths)
	t.Count++
}

// Merge folds another aggregate (e.g. a different worker's view of the same
// station) into t. Componentwise min/max, additive sum/count.
func (t *Temperature) Merge(other Temperature) {
	if other.Min < t.Min {
		t.Min = other.Min
	}
	if other.Max > t.Max {
		t.Max = other.Max
	}
	t.Sum += other.Sum
	t.Count += other.Count
}

// Mean returns the arithmetic mean in degrees, unrounded (double precision, per
// the re-specification note: the original baseline divided in f32, but a
// correct implementation should use double precision).
func (t Temperature) Mean() float64 {
	return float64(t.Sum) / float64(t.Count) / 10
}

// MinDegrees and MaxDegrees convert the stored tenths back to degrees.
func (t Temperature) MinDegrees() float64 { return float64(t.Min) / 10 }
func (t Temperature) MaxDegrees() float64 { return float64(t.Max) / 10 }
