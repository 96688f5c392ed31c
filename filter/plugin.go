package filter

import (
	"fmt"
	"sort"
	"strings"

	"maskccl/video/frame"
)

const (
	PluginID          = "com.dtlnor.cv_ccl"
	PluginNamespace   = "cv_ccl"
	PluginDescription = "Mask connected components label filtering"
	PluginVersion     = "1.0"
)

// CreateFunc builds a filter node from its arguments.
type CreateFunc func(args Args, opts ...Option) (frame.Node, error)

// Function is one filter kind exposed by the plugin. Signature lists the
// arguments as "name:type[:opt];".
type Function struct {
	Name      string
	Signature string
	Create    CreateFunc
}

// ArgNames returns the argument names of the signature in order.
func (f Function) ArgNames() []string {
	var out []string
	for _, p := range strings.Split(f.Signature, ";") {
		if p == "" {
			continue
		}
		out = append(out, strings.SplitN(p, ":", 2)[0])
	}
	return out
}

// Plugin is the registry of filter kinds.
type Plugin struct {
	ID          string
	Namespace   string
	Description string
	Version     string

	funcs map[string]Function
}

// NewPlugin returns the plugin with every filter kind registered.
func NewPlugin() *Plugin {
	p := &Plugin{
		ID:          PluginID,
		Namespace:   PluginNamespace,
		Description: PluginDescription,
		Version:     PluginVersion,
		funcs:       make(map[string]Function),
	}
	thresholdSig := "mask:vnode;cc_thr:int;connectivity:int:opt;ccl_type:int:opt;cc_stat_type:int:opt;"
	p.Register(Function{
		Name:      NameExcludeAbove,
		Signature: thresholdSig,
		Create: func(args Args, opts ...Option) (frame.Node, error) {
			f, err := NewExcludeAbove(args, opts...)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	})
	p.Register(Function{
		Name:      NameExcludeUnder,
		Signature: thresholdSig,
		Create: func(args Args, opts ...Option) (frame.Node, error) {
			f, err := NewExcludeUnder(args, opts...)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	})
	p.Register(Function{
		Name:      NameStats,
		Signature: "mask:vnode;connectivity:int:opt;ccl_type:int:opt;",
		Create: func(args Args, opts ...Option) (frame.Node, error) {
			f, err := NewStats(args, opts...)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	})
	return p
}

func (p *Plugin) Register(f Function) {
	p.funcs[f.Name] = f
}

// Functions returns the registered functions sorted by name.
func (p *Plugin) Functions() []Function {
	out := make([]Function, 0, len(p.funcs))
	for _, f := range p.funcs {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Create invokes the named function. Arguments not in its signature are
// rejected before the filter is built; the mask node is freed in that case.
func (p *Plugin) Create(name string, args Args, opts ...Option) (frame.Node, error) {
	f, ok := p.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%s: no function named %q", p.Namespace, name)
	}
	known := make(map[string]bool)
	for _, n := range f.ArgNames() {
		known[n] = true
	}
	for k := range args {
		if !known[k] {
			if n, ok := args[ArgMask].(frame.Node); ok {
				n.Free()
			}
			return nil, &ConfigError{Filter: name, Msg: fmt.Sprintf("unknown argument %s.", k), Err: ErrArgType}
		}
	}
	return f.Create(args, opts...)
}
