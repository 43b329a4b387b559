package param

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the layout of dates in front matter and parameter files.
const DateLayout = "2006-01-02"

// Kind identifies which field of a Value is set.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDate
)

// Value is a single template parameter.
// The zero value is the empty string.
type Value struct {
	kind Kind
	s    string
	b    bool
	i    int64
	f    float64
	t    time.Time
}

func String(s string) Value  { return Value{kind: KindString, s: s} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func Int(i int64) Value      { return Value{kind: KindInt, i: i} }
func Float(f float64) Value  { return Value{kind: KindFloat, f: f} }
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }

func (v Value) Kind() Kind { return v.kind }

// String returns the text substituted into templates.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindDate:
		return v.t.Format(DateLayout)
	}
	return v.s
}

// AsBool reports the boolean held by v. ok is false for any other kind.
func (v Value) AsBool() (b, ok bool) {
	return v.b, v.kind == KindBool
}

// FromAny converts a decoded YAML or JSON value. Lists and maps are kept as
// their fmt.Sprint text since templates only ever see strings.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return String(""), nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint64:
		return Int(int64(t)), nil
	case float64:
		return Float(t), nil
	case time.Time:
		return Date(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t, err)
		}
		return Float(f), nil
	case fmt.Stringer:
		return String(t.String()), nil
	case []any, map[string]any:
		return String(fmt.Sprint(t)), nil
	}
	return Value{}, fmt.Errorf("unsupported parameter type %T", x)
}
