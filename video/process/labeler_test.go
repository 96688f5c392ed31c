//go:build opencv

package process

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maskccl/ccl"
)

// paddedMask returns a random w×h mask whose rows are pad bytes longer than
// w. Padding is set so it would show up as foreground if it leaked.
func paddedMask(r *rand.Rand, w, h, pad int, density float64) *ccl.Mask {
	m := &ccl.Mask{
		Width:  w,
		Height: h,
		Stride: w + pad,
		Pix:    make([]byte, (w+pad)*h),
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w+pad; x++ {
			if x >= w || r.Float64() < density {
				m.Pix[y*m.Stride+x] = 255
			}
		}
	}
	return m
}

func TestCVLabelerMatchesScanLabeler(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 40; i++ {
		w, h := 1+r.Intn(48), 1+r.Intn(48)
		pad := 0
		if i%2 == 1 {
			pad = 1 + r.Intn(5)
		}
		m := paddedMask(r, w, h, pad, r.Float64())
		for _, conn := range []ccl.Connectivity{ccl.Four, ccl.Eight} {
			want, err := ccl.ScanLabeler{}.Label(m, conn, ccl.AlgDefault)
			require.NoError(t, err)
			got, err := CVLabeler{}.Label(m, conn, ccl.AlgDefault)
			require.NoError(t, err)

			if diff := cmp.Diff(want.Labels, got.Labels); diff != "" {
				t.Fatalf("mask %d (%dx%d pad %d) conn %d: label maps differ (-scan +cv):\n%s", i, w, h, pad, conn, diff)
			}
			if diff := cmp.Diff(want.Stats, got.Stats, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Fatalf("mask %d (%dx%d pad %d) conn %d: stats differ (-scan +cv):\n%s", i, w, h, pad, conn, diff)
			}
		}
	}
}

func TestCVLabelerStatColumns(t *testing.T) {
	// A 2x3 block at (1,1) and a single pixel at (5,0).
	m := ccl.NewMask(6, 4)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 2; x++ {
			m.Set(x, y, 255)
		}
	}
	m.Set(5, 0, 255)

	res, err := CVLabeler{}.Label(m, ccl.Eight, ccl.AlgDefault)
	require.NoError(t, err)
	require.Equal(t, 3, res.Stats.NumLabels())

	assert.Equal(t, ccl.Component{Label: 1, Area: 1, Left: 5, Top: 0, Width: 1, Height: 1, CentroidX: 5, CentroidY: 0}, res.Stats[1])
	assert.Equal(t, ccl.Component{Label: 2, Area: 6, Left: 1, Top: 1, Width: 2, Height: 3, CentroidX: 1.5, CentroidY: 2}, res.Stats[2])
	assert.Equal(t, 24-7, res.Stats.Background().Area)
	assert.Equal(t, uint16(2), res.Labels.At(2, 3))
	assert.Equal(t, uint16(1), res.Labels.At(5, 0))
}

func TestCVLabelerAlgorithms(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	m := paddedMask(r, 40, 30, 3, 0.5)
	want, err := ccl.ScanLabeler{}.Label(m, ccl.Eight, ccl.AlgDefault)
	require.NoError(t, err)
	for alg := ccl.AlgDefault; alg <= ccl.AlgSpaghetti; alg++ {
		got, err := CVLabeler{}.Label(m, ccl.Eight, alg)
		require.NoError(t, err, "algorithm %v", alg)
		assert.Equal(t, want.Labels.Pix, got.Labels.Pix, "algorithm %v", alg)
	}
}

func TestCVLabelerEmptyAndBadParams(t *testing.T) {
	res, err := CVLabeler{}.Label(ccl.NewMask(0, 0), ccl.Eight, ccl.AlgDefault)
	require.NoError(t, err)
	want, err := ccl.ScanLabeler{}.Label(ccl.NewMask(0, 0), ccl.Eight, ccl.AlgDefault)
	require.NoError(t, err)
	assert.Equal(t, want, res)

	_, err = CVLabeler{}.Label(ccl.NewMask(2, 2), ccl.Connectivity(6), ccl.AlgDefault)
	assert.ErrorIs(t, err, ccl.ErrConnectivity)
	_, err = CVLabeler{}.Label(ccl.NewMask(2, 2), ccl.Eight, ccl.Algorithm(9))
	assert.ErrorIs(t, err, ccl.ErrAlgorithm)
}
