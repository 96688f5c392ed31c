package ccl

import (
	"fmt"
)

// Columns is the per-label statistics laid out as parallel sequences, one
// entry per label in ascending label order starting at background. Entry i of
// every sequence belongs to label i.
type Columns struct {
	NumLabels  int
	Areas      []int64
	Lefts      []int64
	Tops       []int64
	Widths     []int64
	Heights    []int64
	CentroidsX []float64
	CentroidsY []float64
}

// Export lays stats out as Columns. When the mask had no foreground the
// sequences hold the single background entry.
func Export(stats Stats) Columns {
	c := Columns{NumLabels: len(stats)}
	if len(stats) == 0 {
		return c
	}
	c.Areas = make([]int64, len(stats))
	c.Lefts = make([]int64, len(stats))
	c.Tops = make([]int64, len(stats))
	c.Widths = make([]int64, len(stats))
	c.Heights = make([]int64, len(stats))
	c.CentroidsX = make([]float64, len(stats))
	c.CentroidsY = make([]float64, len(stats))
	for i, s := range stats {
		c.Areas[i] = int64(s.Area)
		c.Lefts[i] = int64(s.Left)
		c.Tops[i] = int64(s.Top)
		c.Widths[i] = int64(s.Width)
		c.Heights[i] = int64(s.Height)
		c.CentroidsX[i] = s.CentroidX
		c.CentroidsY[i] = s.CentroidY
	}
	return c
}

// Components zips the sequences back into records. Every sequence must hold
// exactly NumLabels entries.
func (c Columns) Components() (Stats, error) {
	n := c.NumLabels
	lens := []struct {
		name string
		n    int
	}{
		{"areas", len(c.Areas)},
		{"lefts", len(c.Lefts)},
		{"tops", len(c.Tops)},
		{"widths", len(c.Widths)},
		{"heights", len(c.Heights)},
		{"centroids_x", len(c.CentroidsX)},
		{"centroids_y", len(c.CentroidsY)},
	}
	for _, l := range lens {
		if l.n != n {
			return nil, fmt.Errorf("%s has %d entries, want %d", l.name, l.n, n)
		}
	}

	stats := make(Stats, n)
	for i := range stats {
		stats[i] = Component{
			Label:     i,
			Area:      int(c.Areas[i]),
			Left:      int(c.Lefts[i]),
			Top:       int(c.Tops[i]),
			Width:     int(c.Widths[i]),
			Height:    int(c.Heights[i]),
			CentroidX: c.CentroidsX[i],
			CentroidY: c.CentroidsY[i],
		}
	}
	return stats, nil
}
