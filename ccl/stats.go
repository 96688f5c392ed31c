package ccl

import (
	"gonum.org/v1/gonum/mat"
)

// Columns of the matrix returned by Stats.Table.
const (
	ColArea = iota
	ColLeft
	ColTop
	ColWidth
	ColHeight
	ColCentroidX
	ColCentroidY
	numCols
)

// Stats is indexed by label: Stats[i].Label == i.
type Stats []Component

// NumLabels is the total label count, background included.
func (s Stats) NumLabels() int {
	return len(s)
}

// Background returns the record for label 0.
func (s Stats) Background() Component {
	if len(s) == 0 {
		return Component{}
	}
	return s[0]
}

// Foreground returns labels 1..N-1.
func (s Stats) Foreground() Stats {
	if len(s) < 2 {
		return nil
	}
	return s[1:]
}

// ForegroundArea sums the area of every foreground component.
func (s Stats) ForegroundArea() int {
	total := 0
	for _, c := range s.Foreground() {
		total += c.Area
	}
	return total
}

// Table returns an N×7 matrix with one row per label, in label order. Returns
// nil for empty stats since gonum does not allow zero-sized matrices.
func (s Stats) Table() *mat.Dense {
	if len(s) == 0 {
		return nil
	}
	t := mat.NewDense(len(s), numCols, nil)
	for i, c := range s {
		t.SetRow(i, []float64{
			float64(c.Area),
			float64(c.Left),
			float64(c.Top),
			float64(c.Width),
			float64(c.Height),
			c.CentroidX,
			c.CentroidY,
		})
	}
	return t
}

// ForegroundCentroid is the area-weighted centroid of all foreground
// components. ok is false when there is no foreground.
func (s Stats) ForegroundCentroid() (x, y float64, ok bool) {
	t := s.Foreground().Table()
	if t == nil {
		return 0, 0, false
	}
	area := t.ColView(ColArea)
	total := mat.Sum(area)
	if total == 0 {
		return 0, 0, false
	}
	x = mat.Dot(area, t.ColView(ColCentroidX)) / total
	y = mat.Dot(area, t.ColView(ColCentroidY)) / total
	return x, y, true
}

type accum struct {
	area                   int
	minX, minY, maxX, maxY int
	sumX, sumY             float64
}

func (a *accum) add(x, y int) {
	if a.area == 0 {
		a.minX, a.maxX = x, x
		a.minY, a.maxY = y, y
	} else {
		if x < a.minX {
			a.minX = x
		}
		if x > a.maxX {
			a.maxX = x
		}
		if y < a.minY {
			a.minY = y
		}
		if y > a.maxY {
			a.maxY = y
		}
	}
	a.area++
	a.sumX += float64(x)
	a.sumY += float64(y)
}

func (a *accum) component(label int) Component {
	c := Component{Label: label}
	if a.area == 0 {
		return c
	}
	c.Area = a.area
	c.Left = a.minX
	c.Top = a.minY
	c.Width = a.maxX - a.minX + 1
	c.Height = a.maxY - a.minY + 1
	c.CentroidX = a.sumX / float64(a.area)
	c.CentroidY = a.sumY / float64(a.area)
	return c
}

// Measure computes statistics for labels 0..n-1 of a label map. Pixels with a
// label >= n are ignored.
func Measure(labels *LabelMap, n int) Stats {
	acc := make([]accum, n)
	for y := 0; y < labels.Height; y++ {
		row := labels.Pix[y*labels.Width : (y+1)*labels.Width]
		for x, l := range row {
			if int(l) < n {
				acc[l].add(x, y)
			}
		}
	}
	stats := make(Stats, n)
	for i := range acc {
		stats[i] = acc[i].component(i)
	}
	return stats
}
