package source

import (
	"fmt"

	"gocv.io/x/gocv"

	"maskccl/video/frame"
)

// FrameFromMat copies a Mat into a new Gray8 frame. Three and four channel
// Mats are converted to grayscale; other depths are rejected.
func FrameFromMat(m gocv.Mat) (*frame.Frame, error) {
	if m.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	src := m
	switch m.Channels() {
	case 1:
	case 3, 4:
		gray := gocv.NewMat()
		defer gray.Close()
		code := gocv.ColorBGRToGray
		if m.Channels() == 4 {
			code = gocv.ColorBGRAToGray
		}
		gocv.CvtColor(m, &gray, code)
		src = gray
	default:
		return nil, fmt.Errorf("unsupported channel count %d", m.Channels())
	}
	if src.Type() != gocv.MatTypeCV8UC1 {
		return nil, fmt.Errorf("unsupported mat type %v, want 8-bit", src.Type())
	}

	f := &frame.Frame{
		Format: frame.Gray8,
		Width:  src.Cols(),
		Height: src.Rows(),
		Stride: src.Cols(),
		Data:   src.ToBytes(),
		Props:  frame.Props{},
	}
	return f, nil
}

// MatFromFrame copies a Gray8 frame into a new CV_8UC1 Mat. The caller must
// Close it.
func MatFromFrame(f *frame.Frame) (gocv.Mat, error) {
	m, err := f.Mask()
	if err != nil {
		return gocv.NewMat(), err
	}
	return gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC1, m.Packed())
}
