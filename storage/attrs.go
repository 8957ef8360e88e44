package storage

import (
	"encoding/json"
	"maps"
	"slices"
	"sync"
)

// Attributes is a concurrency-safe string-keyed metadata map.
//
// Values should be JSON-representable: numbers, strings, bools and slices of
// those. After a directory store is reopened, numbers come back as
// json.Number and slices as []any. Use the typed getters to read them.
type Attributes struct {
	mu sync.RWMutex
	m  map[string]any
}

func newAttributes() *Attributes {
	return &Attributes{m: map[string]any{}}
}

// Set stores v under key.
func (a *Attributes) Set(key string, v any) {
	a.mu.Lock()
	a.m[key] = v
	a.mu.Unlock()
}

// Merge stores every entry of m.
func (a *Attributes) Merge(m map[string]any) {
	a.mu.Lock()
	maps.Copy(a.m, m)
	a.mu.Unlock()
}

// Get returns the raw value under key.
func (a *Attributes) Get(key string) (any, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.m[key]
	return v, ok
}

// Keys returns the sorted attribute names.
func (a *Attributes) Keys() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Sorted(maps.Keys(a.m))
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.m)
}

// Snapshot returns a shallow copy of the attributes.
func (a *Attributes) Snapshot() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return maps.Clone(a.m)
}

// Int returns the value under key as an int.
func (a *Attributes) Int(key string) (int, bool) {
	v, ok := a.Get(key)
	if !ok {
		return 0, false
	}
	f, ok := toFloat(v)
	return int(f), ok
}

// Float returns the value under key as a float64.
func (a *Attributes) Float(key string) (float64, bool) {
	v, ok := a.Get(key)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// String returns the value under key if it is a string.
func (a *Attributes) String(key string) (string, bool) {
	v, ok := a.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Strings returns the value under key as a string slice.
func (a *Attributes) Strings(key string) ([]string, bool) {
	v, ok := a.Get(key)
	if !ok {
		return nil, false
	}
	switch s := v.(type) {
	case []string:
		return slices.Clone(s), true
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	default:
		return nil, false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
