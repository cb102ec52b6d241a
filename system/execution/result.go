package execution

import (
	"bytes"
	"encoding/json"

	"github.com/shyptr/gqlengine/errors"
)

// Result is the response of an execution. Errors is omitted from the JSON
// encoding when empty.
type Result struct {
	Data   *ResultMap        `json:"data"`
	Errors errors.MultiError `json:"errors,omitempty"`
}

// HasErrors reports whether the execution produced any error.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// ResultMap is a response object. Its JSON encoding lists the keys in
// the order the fields were selected.
type ResultMap struct {
	keys   []string
	values map[string]interface{}
}

func NewResultMap() *ResultMap {
	return &ResultMap{values: make(map[string]interface{})}
}

// Set adds or replaces key. A new key goes last.
func (m *ResultMap) Set(key string, value interface{}) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *ResultMap) Get(key string) (interface{}, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *ResultMap) Keys() []string { return m.keys }

func (m *ResultMap) Len() int { return len(m.keys) }

// ToMap converts m and every response object nested in it to plain maps.
func (m *ResultMap) ToMap() map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m.keys))
	for _, key := range m.keys {
		out[key] = plain(m.values[key])
	}
	return out
}

func plain(v interface{}) interface{} {
	switch v := v.(type) {
	case *ResultMap:
		if v == nil {
			return nil
		}
		return v.ToMap()
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = plain(item)
		}
		return out
	}
	return v
}

func (m *ResultMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
