package directive

import (
	"math"
	"strconv"
)

// ValueKind discriminates the parameter value variants.
type ValueKind int

const (
	StringValue ValueKind = iota
	NumberValue
	BoolValue
	ObjectValue
	ListValue
)

// Value is one directive parameter. Parameters parsed from the key=value
// form are always strings; the JSON object form can carry numbers, bools,
// nested objects and lists.
type Value struct {
	kind    ValueKind
	str     string
	num     float64
	boolean bool
	object  map[string]Value
	list    []Value
}

func String(s string) Value  { return Value{kind: StringValue, str: s} }
func Number(n float64) Value { return Value{kind: NumberValue, num: n} }
func Bool(b bool) Value      { return Value{kind: BoolValue, boolean: b} }

func Object(fields map[string]Value) Value {
	return Value{kind: ObjectValue, object: fields}
}

func List(items []Value) Value {
	return Value{kind: ListValue, list: items}
}

func (v Value) Kind() ValueKind { return v.kind }

// AsString returns the string form of a string value.
func (v Value) AsString() (string, bool) {
	if v.kind != StringValue {
		return "", false
	}
	return v.str, true
}

// AsInt returns an integer from a number value or a numeric string. The
// key=value parameter form can only produce strings, so numeric parameters
// arrive either way depending on how the model encoded them.
func (v Value) AsInt() (int, bool) {
	switch v.kind {
	case NumberValue:
		if v.num != math.Trunc(v.num) {
			return 0, false
		}
		return int(v.num), true
	case StringValue:
		n, err := strconv.Atoi(v.str)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func (v Value) AsBool() (bool, bool) {
	if v.kind != BoolValue {
		return false, false
	}
	return v.boolean, true
}

func (v Value) AsList() ([]Value, bool) {
	if v.kind != ListValue {
		return nil, false
	}
	return v.list, true
}

func (v Value) AsObject() (map[string]Value, bool) {
	if v.kind != ObjectValue {
		return nil, false
	}
	return v.object, true
}

// Params maps parameter names to values.
type Params map[string]Value

func (p Params) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	return v.AsString()
}

func (p Params) Int(key string) (int, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	return v.AsInt()
}

// Strings returns a parameter that is a list of strings.
func (p Params) Strings(key string) ([]string, bool) {
	v, ok := p[key]
	if !ok {
		return nil, false
	}
	items, ok := v.AsList()
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.AsString()
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// Directive is one parsed action instruction recovered from model output.
// Description keeps the untouched directive body for display and audit.
type Directive struct {
	Name        string
	Params      Params
	Description string
}
