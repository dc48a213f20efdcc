package dataset

import (
	"strconv"
	"strings"
)

// ColumnKind is the declared semantic kind of a column
type ColumnKind string

const (
	KindInteger ColumnKind = "integer"
	KindBoolean ColumnKind = "boolean"
	KindFloat   ColumnKind = "float"
	KindText    ColumnKind = "text"
)

// Valid reports whether k is one of the known kinds
func (k ColumnKind) Valid() bool {
	switch k {
	case KindInteger, KindBoolean, KindFloat, KindText:
		return true
	}
	return false
}

// Value is a nullable scalar cell. The zero Value is null.
type Value struct {
	kind  ColumnKind
	valid bool
	i     int64
	f     float64
	b     bool
	s     string
}

// Null returns a null value
func Null() Value { return Value{} }

// Int returns an integer value
func Int(v int64) Value { return Value{kind: KindInteger, valid: true, i: v} }

// Float returns a floating value
func Float(v float64) Value { return Value{kind: KindFloat, valid: true, f: v} }

// Bool returns a boolean value
func Bool(v bool) Value { return Value{kind: KindBoolean, valid: true, b: v} }

// Text returns a string value. An empty string is a value, not a null.
func Text(v string) Value { return Value{kind: KindText, valid: true, s: v} }

// IsNull reports whether the cell holds no value
func (v Value) IsNull() bool { return !v.valid }

// Kind returns the kind of a non-null value, or "" for null
func (v Value) Kind() ColumnKind {
	if !v.valid {
		return ""
	}
	return v.kind
}

func (v Value) AsInt() (int64, bool)     { return v.i, v.valid && v.kind == KindInteger }
func (v Value) AsFloat() (float64, bool) { return v.f, v.valid && v.kind == KindFloat }
func (v Value) AsBool() (bool, bool)     { return v.b, v.valid && v.kind == KindBoolean }
func (v Value) AsText() (string, bool)   { return v.s, v.valid && v.kind == KindText }

// Numeric returns the value as float64 for integer, float and boolean cells
func (v Value) Numeric() (float64, bool) {
	if !v.valid {
		return 0, false
	}
	switch v.kind {
	case KindInteger:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	case KindBoolean:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		return f, err == nil
	}
	return 0, false
}

// String renders the value the way it would appear in a delimited file
func (v Value) String() string {
	if !v.valid {
		return ""
	}
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	default:
		return v.s
	}
}

// Key identifies a value for distinct counting. Values of different kinds
// never collide, so Int(1) and Text("1") are distinct.
func (v Value) Key() string {
	if !v.valid {
		return "\x00null"
	}
	return string(v.kind) + ":" + v.String()
}

// IsBinaryCompatible reports whether the value can act as a binary label:
// integer 0/1, any boolean, or a string equal to "0" or "1" after trimming.
func (v Value) IsBinaryCompatible() bool {
	_, ok := v.BinaryTruth()
	return ok
}

// BinaryTruth maps a binary-compatible value to its class
func (v Value) BinaryTruth() (bool, bool) {
	if !v.valid {
		return false, false
	}
	switch v.kind {
	case KindBoolean:
		return v.b, true
	case KindInteger:
		switch v.i {
		case 0:
			return false, true
		case 1:
			return true, true
		}
	case KindText:
		switch strings.TrimSpace(v.s) {
		case "0":
			return false, true
		case "1":
			return true, true
		}
	}
	return false, false
}

// IsEmptyText reports whether the value is null or a blank string
func (v Value) IsEmptyText() bool {
	if !v.valid {
		return true
	}
	return v.kind == KindText && strings.TrimSpace(v.s) == ""
}
