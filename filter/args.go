package filter

import (
	"errors"
	"fmt"
	"math"

	"maskccl/ccl"
	"maskccl/video/frame"
)

// Argument names.
const (
	ArgMask         = "mask"
	ArgThreshold    = "cc_thr"
	ArgConnectivity = "connectivity"
	ArgAlgorithm    = "ccl_type"
	ArgStat         = "cc_stat_type"
)

var (
	ErrMissingArg        = errors.New("missing required argument")
	ErrOutOfRange        = errors.New("argument out of range")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrArgType           = errors.New("wrong argument type")
)

// ConfigError is returned when a filter cannot be created from its arguments.
type ConfigError struct {
	Filter string
	Msg    string
	Err    error
}

func (e *ConfigError) Error() string {
	return e.Filter + ": " + e.Msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Args holds the arguments of a filter invocation. Integers may be int or
// int64; the mask is a frame.Node.
type Args map[string]interface{}

func (a Args) node(filter string) (frame.Node, error) {
	v, ok := a[ArgMask]
	if !ok || v == nil {
		return nil, &ConfigError{Filter: filter, Msg: "mask must be specified.", Err: ErrMissingArg}
	}
	n, ok := v.(frame.Node)
	if !ok {
		return nil, &ConfigError{Filter: filter, Msg: fmt.Sprintf("mask must be a clip, not %T.", v), Err: ErrArgType}
	}
	return n, nil
}

// int returns the argument saturated to the int32 range. ok is false when the
// argument is absent.
func (a Args) int(filter, key string) (v int, ok bool, err error) {
	raw, present := a[key]
	if !present || raw == nil {
		return 0, false, nil
	}
	var i int64
	switch t := raw.(type) {
	case int:
		i = int64(t)
	case int32:
		i = int64(t)
	case int64:
		i = t
	default:
		return 0, false, &ConfigError{Filter: filter, Msg: fmt.Sprintf("%s must be an integer, not %T.", key, raw), Err: ErrArgType}
	}
	if i > math.MaxInt32 {
		i = math.MaxInt32
	} else if i < math.MinInt32 {
		i = math.MinInt32
	}
	return int(i), true, nil
}

// Params is the validated configuration of one filter instance. It is not
// modified after construction.
type Params struct {
	Threshold    int
	Connectivity ccl.Connectivity
	Algorithm    ccl.Algorithm
	Stat         ccl.Stat
}

// DefaultParams holds the values used for omitted optional arguments.
var DefaultParams = Params{
	Connectivity: ccl.Eight,
	Algorithm:    ccl.AlgDefault,
	Stat:         ccl.StatArea,
}

// parse validates the arguments in the order the host reports errors. When
// needThreshold is false cc_thr and cc_stat_type are ignored.
func (a Args) parse(filter string, needThreshold bool) (Params, error) {
	p := DefaultParams

	if needThreshold {
		thr, ok, err := a.int(filter, ArgThreshold)
		if err != nil {
			return p, err
		}
		if !ok {
			return p, &ConfigError{Filter: filter, Msg: "cc_thr must be specified.", Err: ErrMissingArg}
		}
		p.Threshold = thr
	}

	alg, ok, err := a.int(filter, ArgAlgorithm)
	if err != nil {
		return p, err
	}
	if ok {
		p.Algorithm = ccl.Algorithm(alg)
		if !p.Algorithm.Valid() {
			return p, &ConfigError{Filter: filter, Msg: "ccl_type must be between -1 and 5.", Err: ErrOutOfRange}
		}
	}

	if needThreshold {
		stat, ok, err := a.int(filter, ArgStat)
		if err != nil {
			return p, err
		}
		if ok {
			p.Stat = ccl.Stat(stat)
			if !p.Stat.Valid() {
				return p, &ConfigError{Filter: filter, Msg: "cc_stat_type must be between 0 and 4.", Err: ErrOutOfRange}
			}
		}
	}

	conn, ok, err := a.int(filter, ArgConnectivity)
	if err != nil {
		return p, err
	}
	if ok {
		p.Connectivity = ccl.Connectivity(conn)
		if !p.Connectivity.Valid() {
			return p, &ConfigError{Filter: filter, Msg: "connectivity must be 4 or 8.", Err: ErrOutOfRange}
		}
	}
	return p, nil
}

func checkFormat(filter string, info frame.VideoInfo) error {
	if info.Format != frame.Gray8 {
		return &ConfigError{Filter: filter, Msg: "only Gray8 formats supported.", Err: ErrUnsupportedFormat}
	}
	return nil
}
