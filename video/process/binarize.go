package process

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"maskccl/video/frame"
	"maskccl/video/source"
)

// BinarizeOptions controls how a grayscale clip is turned into a mask.
type BinarizeOptions struct {
	// Blur is the box blur kernel size applied before thresholding; 0 disables it.
	Blur int
	// Thresh is the level above which a pixel becomes foreground (255).
	Thresh float32
	// Erode is the size of the cross used to erode the mask; 0 disables it.
	Erode int
}

// Binarize is a Node that thresholds each frame of its source into a Gray8
// mask. Frames are independent, so it may be used from any number of workers.
type Binarize struct {
	node frame.Node
	opts BinarizeOptions
	st   gocv.Mat
}

func NewBinarize(node frame.Node, opts BinarizeOptions) (*Binarize, error) {
	if opts.Blur < 0 || opts.Erode < 0 {
		return nil, fmt.Errorf("binarize: blur and erode must not be negative")
	}
	b := &Binarize{
		node: node,
		opts: opts,
	}
	if opts.Erode > 0 {
		b.st = gocv.GetStructuringElement(gocv.MorphCross, image.Point{X: opts.Erode, Y: opts.Erode})
	}
	return b, nil
}

func (b *Binarize) Info() frame.VideoInfo {
	info := b.node.Info()
	info.Format = frame.Gray8
	return info
}

func (b *Binarize) GetFrame(n int) (*frame.Frame, error) {
	src, err := b.node.GetFrame(n)
	if err != nil {
		return nil, err
	}
	in, err := source.MatFromFrame(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	m1 := gocv.NewMat()
	defer m1.Close()
	m2 := gocv.NewMat()
	defer m2.Close()

	cur := in
	if b.opts.Blur > 0 {
		gocv.Blur(cur, &m1, image.Point{X: b.opts.Blur, Y: b.opts.Blur})
		cur = m1
	}
	gocv.Threshold(cur, &m2, b.opts.Thresh, 255, gocv.ThresholdBinary)
	if b.opts.Erode > 0 {
		gocv.Erode(m2, &m2, b.st)
	}

	out, err := source.FrameFromMat(m2)
	if err != nil {
		return nil, err
	}
	out.Props = src.Props
	return out, nil
}

func (b *Binarize) Free() {
	if b.opts.Erode > 0 {
		b.st.Close()
	}
	b.node.Free()
}
