//go:build opencv

package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"maskccl/video/frame"
)

// scriptedCapture fails reads at the positions in fail and records seeks.
type scriptedCapture struct {
	pos   int
	fail  map[int]bool
	seeks []int
}

func (c *scriptedCapture) Read(m *gocv.Mat) bool {
	at := c.pos
	c.pos++
	if c.fail[at] {
		return false
	}
	src := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV8UC1)
	defer src.Close()
	src.CopyTo(m)
	return true
}

func (c *scriptedCapture) Set(prop gocv.VideoCaptureProperties, param float64) {
	if prop == gocv.VideoCapturePosFrames {
		c.pos = int(param)
		c.seeks = append(c.seeks, c.pos)
	}
}

func (c *scriptedCapture) Close() error { return nil }

func newScripted(c *scriptedCapture) *VideoCapture {
	return &VideoCapture{
		URI:  "scripted",
		info: frame.VideoInfo{Format: frame.Gray8, Width: 3, Height: 2, NumFrames: 10},
		cap:  c,
		pool: NewMatPool(),
	}
}

func TestVideoCaptureSequentialReadsDoNotSeek(t *testing.T) {
	c := &scriptedCapture{}
	v := newScripted(c)
	defer v.Free()

	for n := 0; n < 3; n++ {
		f, err := v.GetFrame(n)
		require.NoError(t, err)
		assert.Equal(t, 3, f.Width)
	}
	assert.Empty(t, c.seeks)

	_, err := v.GetFrame(7)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, c.seeks)
}

func TestVideoCaptureSeeksAfterFailedRead(t *testing.T) {
	c := &scriptedCapture{fail: map[int]bool{1: true}}
	v := newScripted(c)
	defer v.Free()

	_, err := v.GetFrame(0)
	require.NoError(t, err)
	_, err = v.GetFrame(1)
	require.Error(t, err)

	// The failed read leaves the position unknown, so frame 2 must seek.
	_, err = v.GetFrame(2)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, c.seeks)
}
