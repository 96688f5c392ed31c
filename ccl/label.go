package ccl

// ScanLabeler is a two-pass raster labeler. The first pass assigns provisional
// labels and records which of them touch; the second resolves each provisional
// label to its equivalence class and numbers the classes in the raster order of
// their first pixel.
//
// Every Algorithm variant yields the same labeling, so the variant is only
// validated.
type ScanLabeler struct{}

// DefaultLabeler is used by filters that were not given one.
var DefaultLabeler Labeler = ScanLabeler{}

func (ScanLabeler) Label(m *Mask, conn Connectivity, alg Algorithm) (*Result, error) {
	if err := CheckParams(conn, alg); err != nil {
		return nil, err
	}
	if err := m.valid(); err != nil {
		return nil, err
	}

	w, h := m.Width, m.Height
	prov := make([]int32, w*h)
	eq := newEquivalence()

	for y := 0; y < h; y++ {
		row := m.Pix[y*m.Stride : y*m.Stride+w]
		for x, v := range row {
			if v == 0 {
				continue
			}
			i := y*w + x

			var l int32
			if x > 0 {
				l = eq.join(l, prov[i-1])
			}
			if y > 0 {
				up := i - w
				if conn == Eight && x > 0 {
					l = eq.join(l, prov[up-1])
				}
				l = eq.join(l, prov[up])
				if conn == Eight && x < w-1 {
					l = eq.join(l, prov[up+1])
				}
			}
			if l == 0 {
				l = eq.add()
			}
			prov[i] = l
		}
	}

	final := make([]int32, len(eq.parent))
	next := 1
	labels := NewLabelMap(w, h)
	for i, p := range prov {
		if p == 0 {
			continue
		}
		r := eq.find(p)
		if final[r] == 0 {
			if next >= MaxLabels {
				return nil, ErrTooManyLabels
			}
			final[r] = int32(next)
			next++
		}
		labels.Pix[i] = uint16(final[r])
	}

	return &Result{
		Labels: labels,
		Stats:  Measure(labels, next),
	}, nil
}

// equivalence is a union-find over provisional labels. Index 0 is background
// and is never joined.
type equivalence struct {
	parent []int32
}

func newEquivalence() *equivalence {
	return &equivalence{parent: []int32{0}}
}

func (e *equivalence) add() int32 {
	l := int32(len(e.parent))
	e.parent = append(e.parent, l)
	return l
}

func (e *equivalence) find(l int32) int32 {
	for e.parent[l] != l {
		e.parent[l] = e.parent[e.parent[l]]
		l = e.parent[l]
	}
	return l
}

// join merges neighbor n into the class of cur and returns the label the
// current pixel should carry.
func (e *equivalence) join(cur, n int32) int32 {
	if n == 0 {
		return cur
	}
	if cur == 0 {
		return n
	}
	a, b := e.find(cur), e.find(n)
	if a == b {
		return cur
	}
	if a < b {
		e.parent[b] = a
	} else {
		e.parent[a] = b
	}
	return cur
}
