package process

import (
	"fmt"

	"gocv.io/x/gocv"

	"maskccl/ccl"
)

// CVLabeler labels masks with OpenCV's connectedComponentsWithStats using a
// 16-bit label map. Its output follows the same conventions as
// ccl.ScanLabeler: labels with no pixels report a zero box and centroid.
type CVLabeler struct{}

func (CVLabeler) Label(m *ccl.Mask, conn ccl.Connectivity, alg ccl.Algorithm) (*ccl.Result, error) {
	if err := ccl.CheckParams(conn, alg); err != nil {
		return nil, err
	}
	if m.Width == 0 || m.Height == 0 {
		return ccl.ScanLabeler{}.Label(m, conn, alg)
	}

	src, err := gocv.NewMatFromBytes(m.Height, m.Width, gocv.MatTypeCV8UC1, m.Packed())
	if err != nil {
		return nil, fmt.Errorf("wrapping mask: %w", err)
	}
	defer src.Close()

	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	// With CV_16U labels OpenCV itself refuses masks needing more than
	// ccl.MaxLabels labels, so n always fits.
	n := gocv.ConnectedComponentsWithStatsWithParams(src, &labels, &stats, &centroids,
		int(conn), gocv.MatTypeCV16U, gocv.ConnectedComponentsAlgorithmType(alg))

	pix, err := labels.DataPtrUint16()
	if err != nil {
		return nil, fmt.Errorf("reading label map: %w", err)
	}
	lm := ccl.NewLabelMap(m.Width, m.Height)
	copy(lm.Pix, pix)

	out := make(ccl.Stats, n)
	for l := 0; l < n; l++ {
		c := ccl.Component{Label: l}
		c.Area = int(stats.GetIntAt(l, int(ccl.StatArea)))
		if c.Area > 0 {
			c.Left = int(stats.GetIntAt(l, int(ccl.StatLeft)))
			c.Top = int(stats.GetIntAt(l, int(ccl.StatTop)))
			c.Width = int(stats.GetIntAt(l, int(ccl.StatWidth)))
			c.Height = int(stats.GetIntAt(l, int(ccl.StatHeight)))
			c.CentroidX = centroids.GetDoubleAt(l, 0)
			c.CentroidY = centroids.GetDoubleAt(l, 1)
		}
		out[l] = c
	}

	return &ccl.Result{
		Labels: lm,
		Stats:  out,
	}, nil
}
