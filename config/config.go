package config

import (
	"errors"
	"fmt"

	"maskccl/filter"
	"maskccl/video/frame"
)

// Binarize turns a grayscale source into a mask before filtering.
type Binarize struct {
	Blur   int
	Thresh float32
	Erode  int
}

const (
	LabelerOpenCV  = "opencv"
	LabelerBuiltin = "builtin"
)

type Config struct {
	// Filter is ExcludeCCLAbove, ExcludeCCLUnder or GetCCLStats.
	Filter string

	// Filter arguments. Unset values take the filter defaults.
	Threshold    *int64 `json:"cc_thr,omitempty"`
	Connectivity *int64 `json:"connectivity,omitempty"`
	Algorithm    *int64 `json:"ccl_type,omitempty"`
	Stat         *int64 `json:"cc_stat_type,omitempty"`

	// Labeler is LabelerOpenCV (the default when empty) or LabelerBuiltin.
	Labeler string

	// Exactly one of Input (an image glob) and Video must be set.
	Input    string
	Video    string
	Binarize *Binarize

	// Outputs. Each is disabled when empty.
	OutputDir string
	StatsPath string
	DSN       string
	Window    bool

	Workers   int
	MaxFrames int
}

var ErrInvalid = errors.New("invalid configuration")

func (c *Config) Validate() error {
	switch c.Filter {
	case filter.NameExcludeAbove, filter.NameExcludeUnder:
		if c.Threshold == nil {
			return fmt.Errorf("%w: %s needs cc_thr", ErrInvalid, c.Filter)
		}
	case filter.NameStats:
		if c.Threshold != nil || c.Stat != nil {
			return fmt.Errorf("%w: %s takes no cc_thr or cc_stat_type", ErrInvalid, c.Filter)
		}
	default:
		return fmt.Errorf("%w: unknown filter %q", ErrInvalid, c.Filter)
	}
	switch c.Labeler {
	case "", LabelerOpenCV, LabelerBuiltin:
	default:
		return fmt.Errorf("%w: unknown labeler %q", ErrInvalid, c.Labeler)
	}
	if (c.Input == "") == (c.Video == "") {
		return fmt.Errorf("%w: exactly one of Input and Video must be set", ErrInvalid)
	}
	if c.Workers < 0 || c.MaxFrames < 0 {
		return fmt.Errorf("%w: Workers and MaxFrames must not be negative", ErrInvalid)
	}
	if b := c.Binarize; b != nil && (b.Blur < 0 || b.Erode < 0) {
		return fmt.Errorf("%w: Binarize sizes must not be negative", ErrInvalid)
	}
	return nil
}

// OpenCV reports whether frames are labeled with OpenCV.
func (c *Config) OpenCV() bool {
	return c.Labeler != LabelerBuiltin
}

// Args builds the filter arguments for node.
func (c *Config) Args(node frame.Node) filter.Args {
	args := filter.Args{filter.ArgMask: node}
	for _, a := range []struct {
		key string
		v   *int64
	}{
		{filter.ArgThreshold, c.Threshold},
		{filter.ArgConnectivity, c.Connectivity},
		{filter.ArgAlgorithm, c.Algorithm},
		{filter.ArgStat, c.Stat},
	} {
		if a.v != nil {
			args[a.key] = *a.v
		}
	}
	return args
}
