package frame

import (
	"fmt"

	"maskccl/ccl"
)

type ColorFamily int

const (
	Undefined ColorFamily = iota
	Gray
	RGB
	YUV
)

func (c ColorFamily) String() string {
	switch c {
	case Gray:
		return "Gray"
	case RGB:
		return "RGB"
	case YUV:
		return "YUV"
	}
	return "Undefined"
}

// Format describes the pixel layout of a frame.
type Format struct {
	ColorFamily    ColorFamily
	BytesPerSample int
}

var Gray8 = Format{ColorFamily: Gray, BytesPerSample: 1}

func (f Format) String() string {
	return fmt.Sprintf("%v%d", f.ColorFamily, f.BytesPerSample*8)
}

// VideoInfo describes a clip. Width and Height are zero when frames of the
// clip may differ in size.
type VideoInfo struct {
	Format    Format
	Width     int
	Height    int
	NumFrames int
}

// Frame is one image of a clip. Only the first plane is carried since masks
// are single channel; for other formats Data holds the packed pixels of that
// plane.
type Frame struct {
	Format Format
	Width  int
	Height int
	Stride int
	Data   []byte
	Props  Props
}

// New allocates a zeroed frame. Props are copied from propSrc when given,
// the same way a host pipeline seeds an output frame from its source.
func New(f Format, width, height int, propSrc *Frame) *Frame {
	stride := width * f.BytesPerSample
	n := &Frame{
		Format: f,
		Width:  width,
		Height: height,
		Stride: stride,
		Data:   make([]byte, stride*height),
		Props:  Props{},
	}
	if propSrc != nil {
		n.Props = propSrc.Props.Clone()
	}
	return n
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	n := *f
	n.Data = make([]byte, len(f.Data))
	copy(n.Data, f.Data)
	n.Props = f.Props.Clone()
	return &n
}

// Mask views a Gray8 frame as a ccl.Mask. The mask shares the frame's buffer.
func (f *Frame) Mask() (*ccl.Mask, error) {
	if f.Format != Gray8 {
		return nil, fmt.Errorf("frame format %v is not %v", f.Format, Gray8)
	}
	return &ccl.Mask{
		Width:  f.Width,
		Height: f.Height,
		Stride: f.Stride,
		Pix:    f.Data,
	}, nil
}

// FromMask wraps a mask as a Gray8 frame, sharing its buffer.
func FromMask(m *ccl.Mask, props Props) *Frame {
	if props == nil {
		props = Props{}
	}
	return &Frame{
		Format: Gray8,
		Width:  m.Width,
		Height: m.Height,
		Stride: m.Stride,
		Data:   m.Pix,
		Props:  props,
	}
}
