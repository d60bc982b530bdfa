// Package schema describes the fields inferred from an upstream dataset.
package schema

import "encoding/json"

// Type is the semantic type of a field.
type Type string

// Field type constants.
const (
	Boolean Type = "BOOLEAN"
	Integer Type = "INTEGER"
	Float   Type = "FLOAT"
	Date    Type = "DATE"
	Option  Type = "OPTION"
	Text    Type = "TEXT"
)

// Field is an immutable descriptor of one dataset field.
type Field struct {
	display   string
	name      string
	fieldType Type
	options   []string
}

// NewField creates a Field, deriving the canonical name from display.
// Options are kept only for OPTION fields.
func NewField(display string, ft Type, options []string) Field {
	f := Field{display: display, name: NormalizeName(display), fieldType: ft}
	if ft == Option && len(options) > 0 {
		f.options = append([]string(nil), options...)
	}
	return f
}

// Display returns the raw upstream key.
func (f Field) Display() string { return f.display }

// Name returns the canonical field name.
func (f Field) Name() string { return f.name }

// FieldType returns the semantic type.
func (f Field) FieldType() Type { return f.fieldType }

// Options returns the enumerated values of an OPTION field, nil otherwise.
func (f Field) Options() []string { return append([]string(nil), f.options...) }

type fieldJSON struct {
	Display string   `json:"display"`
	Name    string   `json:"name"`
	Type    Type     `json:"type"`
	Options []string `json:"options"`
}

// MarshalJSON encodes the descriptor; options is always an array.
func (f Field) MarshalJSON() ([]byte, error) {
	opts := f.options
	if opts == nil {
		opts = []string{}
	}
	return json.Marshal(fieldJSON{Display: f.display, Name: f.name, Type: f.fieldType, Options: opts})
}

// UnmarshalJSON decodes a descriptor as produced by MarshalJSON.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw fieldJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err //nolint:wrapcheck // plain decode error
	}
	*f = Field{display: raw.Display, name: raw.Name, fieldType: raw.Type}
	if len(raw.Options) > 0 {
		f.options = raw.Options
	}
	return nil
}
