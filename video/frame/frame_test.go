package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropsAppend(t *testing.T) {
	p := Props{}
	p.AppendInt("a", 1)
	p.AppendInt("a", 2)
	p.AppendFloat("f", 0.5)

	ints, err := p.Ints("a")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ints)

	floats, err := p.Floats("f")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, floats)

	p.SetInt("n", 3)
	p.AppendInt("n", 4)
	ints, err = p.Ints("n")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, ints)

	_, err = p.Int("missing")
	assert.Error(t, err)
	_, err = p.Floats("a")
	assert.Error(t, err)
}

func TestPropsCloneIsDeep(t *testing.T) {
	p := Props{}
	p.SetInts("a", []int64{1})
	c := p.Clone()
	c.AppendInt("a", 2)

	orig, err := p.Ints("a")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, orig)
}

func TestNewCopiesProps(t *testing.T) {
	src := New(Gray8, 3, 2, nil)
	src.Props.SetInt("k", 1)

	dst := New(Gray8, 3, 2, src)
	assert.Equal(t, 3, dst.Stride)
	assert.Len(t, dst.Data, 6)
	v, err := dst.Props.Int("k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestFrameMask(t *testing.T) {
	f := New(Gray8, 2, 2, nil)
	f.Data[3] = 255
	m, err := f.Mask()
	require.NoError(t, err)
	assert.Equal(t, byte(255), m.At(1, 1))

	rgb := New(Format{ColorFamily: RGB, BytesPerSample: 1}, 2, 2, nil)
	_, err = rgb.Mask()
	assert.Error(t, err)
}

func TestClip(t *testing.T) {
	a := New(Gray8, 2, 2, nil)
	b := New(Gray8, 3, 2, nil)

	same := NewClip(Gray8, a, a)
	assert.Equal(t, VideoInfo{Format: Gray8, Width: 2, Height: 2, NumFrames: 2}, same.Info())

	mixed := NewClip(Gray8, a, b)
	assert.Equal(t, 0, mixed.Info().Width)

	f, err := mixed.GetFrame(1)
	require.NoError(t, err)
	f.Data[0] = 1
	assert.Equal(t, byte(0), b.Data[0], "GetFrame must return a copy")

	_, err = mixed.GetFrame(2)
	assert.Error(t, err)

	assert.False(t, mixed.Freed())
	mixed.Free()
	assert.True(t, mixed.Freed())
}
