// Package param holds the typed key/value parameters that flow from site
// defaults, the params file and front matter into templates.
package param

import "fmt"

// Params maps placeholder identifiers to values.
type Params map[string]Value

// FromMap converts decoded front matter or a params file.
func FromMap(m map[string]any) (Params, error) {
	p := make(Params, len(m))
	for k, raw := range m {
		v, err := FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", k, err)
		}
		p[k] = v
	}
	return p, nil
}

// Merge returns a new Params holding p overlaid with each of others in turn.
// Later sources win on key collision. p is not modified.
func (p Params) Merge(others ...Params) Params {
	n := len(p)
	for _, o := range others {
		n += len(o)
	}
	out := make(Params, n)
	for k, v := range p {
		out[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// With returns a copy of p with key set to v.
func (p Params) With(key string, v Value) Params {
	return p.Merge(Params{key: v})
}

// Lookup returns the template text for key.
func (p Params) Lookup(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	return v.String(), true
}

// Get returns the template text for key, or "" when absent.
func (p Params) Get(key string) string {
	s, _ := p.Lookup(key)
	return s
}
