// Package dataset holds raw upstream records and their normalized form.
package dataset

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/kailas-cloud/stationview/internal/domain/schema"
	"github.com/kailas-cloud/stationview/internal/domain/value"
)

// Raw is one upstream record: display key -> value, in upstream key order.
type Raw struct {
	fields *orderedmap.OrderedMap[string, value.Value]
}

// NewRaw creates an empty Raw record.
func NewRaw() Raw {
	return Raw{fields: orderedmap.New[string, value.Value]()}
}

// Set stores a value under key, keeping the key's first position.
func (r *Raw) Set(key string, v value.Value) {
	if r.fields == nil {
		r.fields = orderedmap.New[string, value.Value]()
	}
	r.fields.Set(key, v)
}

// Get returns the value for key, or an absent value.
func (r Raw) Get(key string) value.Value {
	if r.fields == nil {
		return value.Absent()
	}
	v, _ := r.fields.Get(key)
	return v
}

// Keys returns the record keys in order.
func (r Raw) Keys() []string {
	if r.fields == nil {
		return nil
	}
	keys := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of keys.
func (r Raw) Len() int {
	if r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (r *Raw) UnmarshalJSON(data []byte) error {
	m := orderedmap.New[string, value.Value]()
	if err := m.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	r.fields = m
	return nil
}

// MarshalJSON encodes the record in key order.
func (r Raw) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return r.fields.MarshalJSON() //nolint:wrapcheck // delegating to ordered map
}

// Record is a normalized record keyed by canonical field name, in schema order.
// The zero value is an empty record.
type Record struct {
	fields *orderedmap.OrderedMap[string, value.Value]
}

// NewRecord creates an empty Record.
func NewRecord() Record {
	return Record{fields: orderedmap.New[string, value.Value]()}
}

// Set stores a field value, appending the field if it is new.
func (r *Record) Set(name string, v value.Value) {
	if r.fields == nil {
		r.fields = orderedmap.New[string, value.Value]()
	}
	r.fields.Set(name, v)
}

// Get returns the value of a field, absent if missing.
func (r Record) Get(name string) value.Value {
	if r.fields == nil {
		return value.Absent()
	}
	v, _ := r.fields.Get(name)
	return v
}

// Has reports whether the record carries the field at all.
func (r Record) Has(name string) bool {
	if r.fields == nil {
		return false
	}
	_, ok := r.fields.Get(name)
	return ok
}

// Keys returns the field names in schema order.
func (r Record) Keys() []string {
	if r.fields == nil {
		return nil
	}
	keys := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of fields.
func (r Record) Len() int {
	if r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

// MarshalJSON encodes fields in schema order, omitting absent entries; nulls are kept.
func (r Record) MarshalJSON() ([]byte, error) {
	present := orderedmap.New[string, value.Value]()
	for _, k := range r.Keys() {
		if v := r.Get(k); !v.IsAbsent() {
			present.Set(k, v)
		}
	}
	return present.MarshalJSON() //nolint:wrapcheck // delegating to ordered map
}

// Normalize reshapes raw records into canonical-keyed records with
// normalized values. Every output record carries every schema field,
// in schema order.
func Normalize(raws []Raw, fields []schema.Field) []Record {
	out := make([]Record, len(raws))
	for i, raw := range raws {
		rec := NewRecord()
		for _, f := range fields {
			rec.Set(f.Name(), value.Normalize(raw.Get(f.Display())))
		}
		out[i] = rec
	}
	return out
}
