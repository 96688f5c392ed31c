package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maskccl/video/frame"
)

func TestPluginFunctions(t *testing.T) {
	p := NewPlugin()
	assert.Equal(t, "com.dtlnor.cv_ccl", p.ID)
	assert.Equal(t, "cv_ccl", p.Namespace)

	var names []string
	for _, f := range p.Functions() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"ExcludeCCLAbove", "ExcludeCCLUnder", "GetCCLStats"}, names)

	for _, f := range p.Functions() {
		if f.Name == NameStats {
			assert.Equal(t, []string{"mask", "connectivity", "ccl_type"}, f.ArgNames())
		}
	}
}

func TestPluginCreate(t *testing.T) {
	p := NewPlugin()
	clip := frame.NewClip(frame.Gray8, maskFrame(sample...))

	node, err := p.Create(NameStats, Args{ArgMask: clip, ArgConnectivity: 4})
	require.NoError(t, err)
	out, err := node.GetFrame(0)
	require.NoError(t, err)
	assert.True(t, HasStats(out.Props))

	node, err = p.Create(NameExcludeUnder, Args{ArgMask: clip, ArgThreshold: 2})
	require.NoError(t, err)
	_, ok := node.(*Exclude)
	assert.True(t, ok)
}

func TestPluginCreateErrors(t *testing.T) {
	p := NewPlugin()

	_, err := p.Create("Nope", Args{})
	assert.EqualError(t, err, `cv_ccl: no function named "Nope"`)

	// cc_thr is not part of GetCCLStats.
	clip := frame.NewClip(frame.Gray8, maskFrame(sample...))
	node, err := p.Create(NameStats, Args{ArgMask: clip, ArgThreshold: 3})
	assert.Nil(t, node)
	assert.EqualError(t, err, "GetCCLStats: unknown argument cc_thr.")
	assert.True(t, clip.Freed())

	clip = frame.NewClip(frame.Gray8, maskFrame(sample...))
	node, err = p.Create(NameExcludeAbove, Args{ArgMask: clip})
	assert.Nil(t, node)
	assert.ErrorIs(t, err, ErrMissingArg)
	assert.True(t, clip.Freed())
}
