package model

import (
	"encoding/json"
	"strings"
)

// MissingToken is the placeholder the site renders for an empty cell.
const MissingToken = "-"

// Value is an optional text value extracted from a page.
// The zero Value is null; a null value is written as an empty CSV field.
type Value struct {
	s     string
	valid bool
}

// Null returns a null Value.
func Null() Value {
	return Value{}
}

// Text returns a non-null Value holding s, even when s is empty.
func Text(s string) Value {
	return Value{s: s, valid: true}
}

// Token normalizes a scraped token into a Value.
// Surrounding whitespace is trimmed; an empty token and the "-" placeholder
// become null.
func Token(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" || s == MissingToken {
		return Null()
	}
	return Text(s)
}

// Get returns the value and whether it is set.
func (v Value) Get() (string, bool) {
	return v.s, v.valid
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return !v.valid
}

// String returns the value, or an empty string when null.
func (v Value) String() string {
	return v.s
}

// Or returns the value, or fallback when null.
func (v Value) Or(fallback string) string {
	if !v.valid {
		return fallback
	}
	return v.s
}

// Map applies fn to a non-null value. Null stays null.
func (v Value) Map(fn func(string) string) Value {
	if !v.valid {
		return v
	}
	return Text(fn(v.s))
}

// DecimalComma rewrites the decimal point as a comma, the separator used by
// every dataset file.
func (v Value) DecimalComma() Value {
	return v.Map(func(s string) string {
		return strings.ReplaceAll(s, ".", ",")
	})
}

// MarshalJSON encodes null as JSON null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.s)
}

// UnmarshalJSON decodes JSON null as a null Value.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Null()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = Text(s)
	return nil
}
