package ccl

import "fmt"

// Direction is the comparison a Threshold uses to exclude components.
type Direction int

const (
	// ExcludeAbove removes components whose statistic is greater than the threshold.
	ExcludeAbove Direction = iota
	// ExcludeUnder removes components whose statistic is less than the threshold.
	ExcludeUnder
)

// Excludes reports whether value is excluded by threshold thr.
func (d Direction) Excludes(value, thr int) bool {
	if d == ExcludeUnder {
		return value < thr
	}
	return value > thr
}

func (d Direction) String() string {
	switch d {
	case ExcludeAbove:
		return "above"
	case ExcludeUnder:
		return "under"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Threshold removes the components whose selected statistic crosses Value.
// Background is never removed.
type Threshold struct {
	Stat      Stat
	Value     int
	Direction Direction
}

// Excluded returns the foreground labels matched by the threshold, ascending.
func (t Threshold) Excluded(stats Stats) []int {
	var out []int
	for _, c := range stats.Foreground() {
		if t.Direction.Excludes(c.Stat(t.Stat), t.Value) {
			out = append(out, c.Label)
		}
	}
	return out
}

// Apply returns a copy of src with every pixel of an excluded label set to
// zero, and the excluded labels. src is not modified. res must come from
// labeling src.
func (t Threshold) Apply(src *Mask, res *Result) (*Mask, []int) {
	dst := src.Clone()
	excluded := t.Excluded(res.Stats)
	if len(excluded) == 0 {
		return dst, nil
	}

	drop := make([]bool, len(res.Stats))
	for _, l := range excluded {
		drop[l] = true
	}

	lm := res.Labels
	for y := 0; y < lm.Height; y++ {
		row := lm.Pix[y*lm.Width : (y+1)*lm.Width]
		out := dst.Pix[y*dst.Stride:]
		for x, l := range row {
			if int(l) < len(drop) && drop[l] {
				out[x] = 0
			}
		}
	}
	return dst, excluded
}
