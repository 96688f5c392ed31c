package filter

import (
	log "github.com/sirupsen/logrus"

	"maskccl/ccl"
	"maskccl/video/frame"
)

const (
	NameExcludeAbove = "ExcludeCCLAbove"
	NameExcludeUnder = "ExcludeCCLUnder"
	NameStats        = "GetCCLStats"
)

type Option func(*base)

// WithLabeler replaces ccl.DefaultLabeler.
func WithLabeler(l ccl.Labeler) Option {
	return func(b *base) {
		if l != nil {
			b.labeler = l
		}
	}
}

// base holds what every filter kind shares. It is read-only once built and
// safe for concurrent GetFrame calls.
type base struct {
	name    string
	node    frame.Node
	info    frame.VideoInfo
	params  Params
	labeler ccl.Labeler
}

func newBase(name string, args Args, needThreshold bool, opts []Option) (*base, error) {
	node, err := args.node(name)
	if err != nil {
		return nil, err
	}
	params, err := args.parse(name, needThreshold)
	if err != nil {
		node.Free()
		return nil, err
	}
	info := node.Info()
	if err := checkFormat(name, info); err != nil {
		node.Free()
		return nil, err
	}
	b := &base{
		name:    name,
		node:    node,
		info:    info,
		params:  params,
		labeler: ccl.DefaultLabeler,
	}
	for _, o := range opts {
		o(b)
	}
	log.WithField("filter", name).Debugf("Created with %+v", params)
	return b, nil
}

func (b *base) Info() frame.VideoInfo {
	return b.info
}

func (b *base) Params() Params {
	return b.params
}

func (b *base) Free() {
	b.node.Free()
}

// label requests frame n and labels it. ok is false when the frame is
// returned to the caller as is.
func (b *base) label(n int) (src *frame.Frame, m *ccl.Mask, res *ccl.Result, ok bool, err error) {
	src, err = b.node.GetFrame(n)
	if err != nil {
		return nil, nil, nil, false, err
	}
	flog := log.WithField("filter", b.name).WithField("frame", n)

	m, err = src.Mask()
	if err != nil {
		flog.Warnf("Passing frame through: %v", err)
		framesPassthrough.WithLabelValues(b.name).Inc()
		return src, nil, nil, false, nil
	}
	res, err = b.labeler.Label(m, b.params.Connectivity, b.params.Algorithm)
	if err != nil {
		flog.Warnf("Passing frame through, labeling failed: %v", err)
		framesPassthrough.WithLabelValues(b.name).Inc()
		return src, nil, nil, false, nil
	}
	framesFiltered.WithLabelValues(b.name).Inc()
	frameLabels.WithLabelValues(b.name).Observe(float64(res.NumLabels()))
	return src, m, res, true, nil
}

// Exclude erases components whose statistic crosses a threshold.
type Exclude struct {
	*base
	threshold ccl.Threshold
}

func newExclude(name string, dir ccl.Direction, args Args, opts []Option) (*Exclude, error) {
	b, err := newBase(name, args, true, opts)
	if err != nil {
		return nil, err
	}
	return &Exclude{
		base: b,
		threshold: ccl.Threshold{
			Stat:      b.params.Stat,
			Value:     b.params.Threshold,
			Direction: dir,
		},
	}, nil
}

// NewExcludeAbove erases components whose statistic is above cc_thr.
func NewExcludeAbove(args Args, opts ...Option) (*Exclude, error) {
	return newExclude(NameExcludeAbove, ccl.ExcludeAbove, args, opts)
}

// NewExcludeUnder erases components whose statistic is under cc_thr.
func NewExcludeUnder(args Args, opts ...Option) (*Exclude, error) {
	return newExclude(NameExcludeUnder, ccl.ExcludeUnder, args, opts)
}

func (e *Exclude) Threshold() ccl.Threshold {
	return e.threshold
}

func (e *Exclude) GetFrame(n int) (*frame.Frame, error) {
	src, m, res, ok, err := e.label(n)
	if err != nil || !ok {
		return src, err
	}
	out, excluded := e.threshold.Apply(m, res)
	componentsExcluded.WithLabelValues(e.name).Add(float64(len(excluded)))
	return frame.FromMask(out, src.Props), nil
}

// Stats attaches component statistics to each frame and leaves the pixels
// untouched.
type Stats struct {
	*base
}

func NewStats(args Args, opts ...Option) (*Stats, error) {
	b, err := newBase(NameStats, args, false, opts)
	if err != nil {
		return nil, err
	}
	return &Stats{base: b}, nil
}

func (s *Stats) GetFrame(n int) (*frame.Frame, error) {
	src, _, res, ok, err := s.label(n)
	if err != nil || !ok {
		return src, err
	}
	dst := src.Clone()
	SetStatsProps(dst.Props, res.Stats)
	return dst, nil
}
