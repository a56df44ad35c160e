package plugin

import (
	"fmt"
	"math"
)

// FirstKey is the reserved parameter that is true until a visitor clears it.
const FirstKey = "_first"

// Params is the mutable parameter registry of one plugin reference. Values
// are int, float64, string, bool, nil or []any as produced by ParseParams.
type Params map[string]any

// First reports whether the visitor has not yet cleared the _first flag.
func (p Params) First() bool {
	v, _ := p[FirstKey].(bool)
	return v
}

// SetFirst sets the _first flag.
func (p Params) SetFirst(v bool) { p[FirstKey] = v }

// Int returns key as an int, or def when it is absent.
func (p Params) Int(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	return toInt(key, v)
}

// Float returns key as a float64, or def when it is absent.
func (p Params) Float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("parameter %s must be a number, got %v", key, v)
}

// String returns key as a string, or def when it is absent.
func (p Params) String(key, def string) (string, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %s must be a string, got %v", key, v)
	}
	return s, nil
}

// Bool returns key as a bool, or def when it is absent. The integers 0 and 1
// are accepted as false and true.
func (p Params) Bool(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case int:
		if b == 0 || b == 1 {
			return b == 1, nil
		}
	}
	return false, fmt.Errorf("parameter %s must be True or False, got %v", key, v)
}

// Ints returns key as a list of ints. A single int is returned as a one element list.
func (p Params) Ints(key string) ([]int, bool, error) {
	v, ok := p[key]
	if !ok {
		return nil, false, nil
	}
	list, isList := v.([]any)
	if !isList {
		n, err := toInt(key, v)
		if err != nil {
			return nil, true, err
		}
		return []int{n}, true, nil
	}
	out := make([]int, 0, len(list))
	for _, item := range list {
		n, err := toInt(key, item)
		if err != nil {
			return nil, true, err
		}
		out = append(out, n)
	}
	return out, true, nil
}

// Strings returns key as a list of strings. A single string is returned as a one element list.
func (p Params) Strings(key string) ([]string, bool, error) {
	v, ok := p[key]
	if !ok {
		return nil, false, nil
	}
	if s, isString := v.(string); isString {
		return []string{s}, true, nil
	}
	list, isList := v.([]any)
	if !isList {
		return nil, true, fmt.Errorf("parameter %s must be a list of strings, got %v", key, v)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, isString := item.(string)
		if !isString {
			return nil, true, fmt.Errorf("parameter %s must be a list of strings, got %v", key, item)
		}
		out = append(out, s)
	}
	return out, true, nil
}

func toInt(key string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		if n == math.Trunc(n) && n >= math.MinInt64 && n < math.MaxInt64 {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("parameter %s must be an integer, got %v", key, v)
}
