package ccl

import (
	"errors"
	"fmt"
	"image"
)

// MaxLabels is the number of labels a 16-bit label map can hold, background included.
const MaxLabels = 1 << 16

var (
	ErrTooManyLabels = errors.New("label count exceeds 16-bit label range")
	ErrConnectivity  = errors.New("connectivity must be 4 or 8")
	ErrAlgorithm     = errors.New("labeling algorithm must be between -1 and 5")
	ErrStat          = errors.New("statistic must be between 0 and 4")
)

// Connectivity is the adjacency rule used to join foreground pixels.
type Connectivity int

const (
	Four  Connectivity = 4
	Eight Connectivity = 8
)

func (c Connectivity) Valid() bool {
	return c == Four || c == Eight
}

// Algorithm selects a labeling algorithm variant. The values match OpenCV's
// cv::ConnectedComponentsAlgorithmsTypes.
type Algorithm int

const (
	AlgDefault Algorithm = iota - 1
	AlgWu
	AlgGrana
	AlgBolelli
	AlgSAUF
	AlgBBDT
	AlgSpaghetti
)

func (a Algorithm) Valid() bool {
	return a >= AlgDefault && a <= AlgSpaghetti
}

func (a Algorithm) String() string {
	switch a {
	case AlgDefault:
		return "default"
	case AlgWu:
		return "wu"
	case AlgGrana:
		return "grana"
	case AlgBolelli:
		return "bolelli"
	case AlgSAUF:
		return "sauf"
	case AlgBBDT:
		return "bbdt"
	case AlgSpaghetti:
		return "spaghetti"
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// Stat selects one integer statistic of a component. The values follow the
// column order of OpenCV's CC_STAT_* constants.
type Stat int

const (
	StatLeft Stat = iota
	StatTop
	StatWidth
	StatHeight
	StatArea
)

func (s Stat) Valid() bool {
	return s >= StatLeft && s <= StatArea
}

func (s Stat) String() string {
	switch s {
	case StatLeft:
		return "left"
	case StatTop:
		return "top"
	case StatWidth:
		return "width"
	case StatHeight:
		return "height"
	case StatArea:
		return "area"
	}
	return fmt.Sprintf("Stat(%d)", int(s))
}

// Mask is a single-channel 8-bit image. Zero is background, anything else is
// foreground. Rows are Stride bytes apart.
type Mask struct {
	Width, Height int
	Stride        int
	Pix           []byte
}

func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Stride: width,
		Pix:    make([]byte, width*height),
	}
}

func (m *Mask) At(x, y int) byte {
	return m.Pix[y*m.Stride+x]
}

func (m *Mask) Set(x, y int, v byte) {
	m.Pix[y*m.Stride+x] = v
}

// Clone returns a deep copy with the same stride.
func (m *Mask) Clone() *Mask {
	n := &Mask{
		Width:  m.Width,
		Height: m.Height,
		Stride: m.Stride,
		Pix:    make([]byte, len(m.Pix)),
	}
	copy(n.Pix, m.Pix)
	return n
}

// Packed returns the pixels without row padding. The backing array is shared
// when the mask has no padding.
func (m *Mask) Packed() []byte {
	if m.Stride == m.Width {
		return m.Pix[:m.Width*m.Height]
	}
	out := make([]byte, m.Width*m.Height)
	for y := 0; y < m.Height; y++ {
		copy(out[y*m.Width:(y+1)*m.Width], m.Pix[y*m.Stride:y*m.Stride+m.Width])
	}
	return out
}

func (m *Mask) valid() error {
	if m.Width < 0 || m.Height < 0 || m.Stride < m.Width {
		return fmt.Errorf("invalid mask geometry %dx%d stride %d", m.Width, m.Height, m.Stride)
	}
	if m.Height > 0 && len(m.Pix) < (m.Height-1)*m.Stride+m.Width {
		return fmt.Errorf("mask buffer too small: %d bytes for %dx%d stride %d", len(m.Pix), m.Width, m.Height, m.Stride)
	}
	return nil
}

// LabelMap holds the component label of every pixel. Label 0 is background.
type LabelMap struct {
	Width, Height int
	Pix           []uint16
}

func NewLabelMap(width, height int) *LabelMap {
	return &LabelMap{
		Width:  width,
		Height: height,
		Pix:    make([]uint16, width*height),
	}
}

func (l *LabelMap) At(x, y int) uint16 {
	return l.Pix[y*l.Width+x]
}

// Component holds the statistics of one label.
type Component struct {
	Label     int
	Area      int
	Left      int
	Top       int
	Width     int
	Height    int
	CentroidX float64
	CentroidY float64
}

// Stat returns the statistic selected by s.
func (c Component) Stat(s Stat) int {
	switch s {
	case StatLeft:
		return c.Left
	case StatTop:
		return c.Top
	case StatWidth:
		return c.Width
	case StatHeight:
		return c.Height
	}
	return c.Area
}

func (c Component) Bounds() image.Rectangle {
	return image.Rect(c.Left, c.Top, c.Left+c.Width, c.Top+c.Height)
}

// Result is the output of one labeling pass.
type Result struct {
	Labels *LabelMap
	Stats  Stats
}

// NumLabels is the total label count, background included.
func (r *Result) NumLabels() int {
	return len(r.Stats)
}

// Labeler labels the connected components of a mask.
type Labeler interface {
	Label(m *Mask, conn Connectivity, alg Algorithm) (*Result, error)
}

// CheckParams validates labeling parameters shared by every Labeler.
func CheckParams(conn Connectivity, alg Algorithm) error {
	if !conn.Valid() {
		return ErrConnectivity
	}
	if !alg.Valid() {
		return ErrAlgorithm
	}
	return nil
}
