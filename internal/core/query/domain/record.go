package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Record is an insertion-ordered set of column values. INSERT column lists
// follow the record's key order.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// RecordOf builds a record from alternating key, value pairs.
func RecordOf(kv ...any) *Record {
	r := NewRecord()
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		r.Set(key, kv[i+1])
	}
	return r
}

// RecordFromMap builds a record from a map. Go maps are unordered, so keys
// are sorted to keep the generated SQL deterministic.
func RecordFromMap(m map[string]any) *Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	r := NewRecord()
	for _, k := range keys {
		r.Set(k, m[k])
	}
	return r
}

// Set assigns a value. Existing keys keep their position.
func (r *Record) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of columns.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Clone returns an independent copy.
func (r *Record) Clone() *Record {
	c := NewRecord()
	if r == nil {
		return c
	}
	for _, k := range r.keys {
		c.Set(k, r.values[k])
	}
	return c
}

// Map returns the record as a plain map.
func (r *Record) Map() map[string]any {
	out := make(map[string]any, r.Len())
	if r == nil {
		return out
	}
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the record as an object in key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: record must be a JSON object", ErrInvalidInput)
	}
	*r = Record{values: make(map[string]any)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: record key must be a string", ErrInvalidInput)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		r.Set(key, normalizeJSONValue(value))
	}
	_, err = dec.Token()
	return err
}

// normalizeJSONValue converts json.Number into int64 when possible, float64 otherwise.
func normalizeJSONValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case []any:
		for i := range val {
			val[i] = normalizeJSONValue(val[i])
		}
		return val
	case map[string]any:
		for k := range val {
			val[k] = normalizeJSONValue(val[k])
		}
		return val
	}
	return v
}
