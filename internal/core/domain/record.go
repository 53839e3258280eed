package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// FieldKind identifies the scalar type held by a FieldValue.
type FieldKind uint8

// Supported field kinds.
const (
	KindNull FieldKind = iota
	KindString
	KindBool
	KindNumber
)

// String returns the kind name.
func (k FieldKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	default:
		return unknownDescription
	}
}

// FieldValue is a tagged scalar value of a record field.
// FieldValues are comparable with ==.
type FieldValue struct {
	kind FieldKind
	str  string
	b    bool
	num  float64
}

// StringValue returns a string field value.
func StringValue(s string) FieldValue {
	return FieldValue{kind: KindString, str: s}
}

// BoolValue returns a boolean field value.
func BoolValue(b bool) FieldValue {
	return FieldValue{kind: KindBool, b: b}
}

// NumberValue returns a numeric field value.
func NumberValue(n float64) FieldValue {
	return FieldValue{kind: KindNumber, num: n}
}

// NullValue returns an explicit null field value.
func NullValue() FieldValue {
	return FieldValue{}
}

// Kind returns the value kind.
func (v FieldValue) Kind() FieldKind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v FieldValue) IsNull() bool {
	return v.kind == KindNull
}

// Str returns the string payload and whether the value is a string.
func (v FieldValue) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Bool returns the boolean payload and whether the value is a bool.
func (v FieldValue) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Number returns the numeric payload and whether the value is a number.
func (v FieldValue) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Equal reports whether two values have the same kind and payload.
func (v FieldValue) Equal(other FieldValue) bool {
	return v == other
}

// String renders the value for display.
func (v FieldValue) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return "null"
	}
}

// Interface returns the value as a plain Go scalar (nil, string, bool, float64).
func (v FieldValue) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	default:
		return nil
	}
}

// MarshalJSON encodes the value as a native JSON scalar.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes a JSON scalar. Objects and arrays are rejected.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	fv, err := FieldValueOf(raw)
	if err != nil {
		return err
	}
	*v = fv
	return nil
}

// FieldValueOf converts a plain Go scalar into a FieldValue.
func FieldValueOf(raw any) (FieldValue, error) {
	switch x := raw.(type) {
	case nil:
		return NullValue(), nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case float64:
		return NumberValue(x), nil
	case int:
		return NumberValue(float64(x)), nil
	case int64:
		return NumberValue(float64(x)), nil
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return FieldValue{}, fmt.Errorf("%w: number %q", ErrInputContract, x.String())
		}
		return NumberValue(n), nil
	default:
		return FieldValue{}, fmt.Errorf("%w: unsupported field value of type %T", ErrInputContract, raw)
	}
}

// Fields is the open field mapping of a record.
type Fields map[string]FieldValue

// Clone returns a copy of the mapping.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Keys returns the field names in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns the string payload of a field, or "" when absent or not a string.
func (f Fields) String(name string) string {
	s, _ := f[name].Str()
	return s
}

// Bool returns the boolean payload of a field, or false when absent or not a bool.
func (f Fields) Bool(name string) bool {
	b, _ := f[name].Bool()
	return b
}

// FieldDiff holds the fields whose values differ, mapped to the current value.
type FieldDiff = Fields

// idField is the reserved JSON key carrying the record identity.
const idField = "id"

// Record is a comparable remote entity: a category or a task.
type Record struct {
	ID     string
	Fields Fields
}

// NewRecord creates a record with the given id and fields.
func NewRecord(id string, fields Fields) Record {
	if fields == nil {
		fields = Fields{}
	}
	return Record{ID: id, Fields: fields}
}

// Get returns a field value and whether it is present.
func (r Record) Get(name string) (FieldValue, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// Title returns the record's title field.
func (r Record) Title() string {
	return r.Fields.String("title")
}

// Validate checks the identity contract of the record.
func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: record has no id", ErrInputContract)
	}
	if _, ok := r.Fields[idField]; ok {
		return fmt.Errorf("%w: record %s carries a field named %q", ErrInputContract, r.ID, idField)
	}
	return nil
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	return Record{ID: r.ID, Fields: r.Fields.Clone()}
}

// MarshalJSON encodes the record as a flat object with "id" and every field.
func (r Record) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		obj[k] = v
	}
	obj[idField] = r.ID
	return json.Marshal(obj)
}

// UnmarshalJSON decodes a flat object into a record.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	rec := Record{Fields: make(Fields, len(raw))}
	for k, msg := range raw {
		if k == idField {
			if err := json.Unmarshal(msg, &rec.ID); err != nil {
				return fmt.Errorf("%w: id must be a string", ErrInputContract)
			}
			continue
		}
		var v FieldValue
		if err := v.UnmarshalJSON(msg); err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
		rec.Fields[k] = v
	}

	*r = rec
	return nil
}

// Collection is an unordered set of records of one kind.
type Collection []Record

// Validate checks every record's identity contract.
func (c Collection) Validate() error {
	for i := range c {
		if err := c[i].Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i := range c {
		out[i] = c[i].Clone()
	}
	return out
}

// ByID indexes the collection by id. The first occurrence of an id wins.
func (c Collection) ByID() map[string]Record {
	out := make(map[string]Record, len(c))
	for _, rec := range c {
		if _, seen := out[rec.ID]; !seen {
			out[rec.ID] = rec
		}
	}
	return out
}

// IDs returns the record ids in collection order.
func (c Collection) IDs() []string {
	ids := make([]string, len(c))
	for i := range c {
		ids[i] = c[i].ID
	}
	return ids
}

// FindByTitle returns the first record whose title equals title exactly.
func (c Collection) FindByTitle(title string) (Record, bool) {
	for _, rec := range c {
		if rec.Title() == title {
			return rec, true
		}
	}
	return Record{}, false
}
