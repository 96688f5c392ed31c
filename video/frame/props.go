package frame

import "fmt"

// Props is the metadata attached to a frame. Values are int64, float64,
// []int64 or []float64.
type Props map[string]interface{}

func (p Props) Clone() Props {
	n := make(Props, len(p))
	for k, v := range p {
		switch vv := v.(type) {
		case []int64:
			n[k] = append([]int64(nil), vv...)
		case []float64:
			n[k] = append([]float64(nil), vv...)
		default:
			n[k] = v
		}
	}
	return n
}

// SetInt replaces key with a single integer.
func (p Props) SetInt(key string, v int64) {
	p[key] = v
}

// SetInts replaces key with a sequence of integers.
func (p Props) SetInts(key string, v []int64) {
	p[key] = append([]int64(nil), v...)
}

// SetFloats replaces key with a sequence of floats.
func (p Props) SetFloats(key string, v []float64) {
	p[key] = append([]float64(nil), v...)
}

// AppendInt adds v to the sequence stored under key, creating it if absent.
// A scalar already stored under key becomes the first element.
func (p Props) AppendInt(key string, v int64) {
	switch cur := p[key].(type) {
	case []int64:
		p[key] = append(cur, v)
	case int64:
		p[key] = []int64{cur, v}
	default:
		p[key] = []int64{v}
	}
}

// AppendFloat adds v to the sequence stored under key, creating it if absent.
func (p Props) AppendFloat(key string, v float64) {
	switch cur := p[key].(type) {
	case []float64:
		p[key] = append(cur, v)
	case float64:
		p[key] = []float64{cur, v}
	default:
		p[key] = []float64{v}
	}
}

func (p Props) Int(key string) (int64, error) {
	switch v := p[key].(type) {
	case int64:
		return v, nil
	case []int64:
		if len(v) == 1 {
			return v[0], nil
		}
	case nil:
		return 0, fmt.Errorf("property %q not set", key)
	}
	return 0, fmt.Errorf("property %q is %T, not an integer", key, p[key])
}

// Ints returns the integer sequence under key. A scalar is returned as a
// one-element sequence.
func (p Props) Ints(key string) ([]int64, error) {
	switch v := p[key].(type) {
	case []int64:
		return v, nil
	case int64:
		return []int64{v}, nil
	case nil:
		return nil, fmt.Errorf("property %q not set", key)
	}
	return nil, fmt.Errorf("property %q is %T, not an integer sequence", key, p[key])
}

func (p Props) Floats(key string) ([]float64, error) {
	switch v := p[key].(type) {
	case []float64:
		return v, nil
	case float64:
		return []float64{v}, nil
	case nil:
		return nil, fmt.Errorf("property %q not set", key)
	}
	return nil, fmt.Errorf("property %q is %T, not a float sequence", key, p[key])
}
