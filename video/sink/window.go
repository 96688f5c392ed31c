package sink

import (
	"gocv.io/x/gocv"

	"maskccl/video/frame"
	"maskccl/video/source"
)

// Window shows frames in a desktop window, for debugging.
type Window struct {
	window  *gocv.Window
	sizeSet bool
}

func NewWindow(name string) *Window {
	return &Window{
		window: gocv.NewWindow(name),
	}
}

func (w *Window) Put(n int, f *frame.Frame) error {
	m, err := source.MatFromFrame(f)
	if err != nil {
		return err
	}
	defer m.Close()

	if !w.sizeSet {
		w.window.ResizeWindow(f.Width, f.Height)
		w.sizeSet = true
	}
	w.window.IMShow(m)
	w.window.WaitKey(1)
	return nil
}

func (w *Window) Close() error {
	return w.window.Close()
}
