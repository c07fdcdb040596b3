package value

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the structural classification of a Value.
type Kind int

const (
	Null Kind = iota
	Primitive
	Array
	Object
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Primitive:
		return "primitive"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// PrimitiveType distinguishes the primitive variants.
type PrimitiveType int

const (
	NotPrimitive PrimitiveType = iota
	StringType
	NumberType
	BoolType
)

// Value is one node of an input tree. The zero Value is Null.
type Value struct {
	kind    Kind
	prim    PrimitiveType
	str     string
	num     float64
	boolean bool
	items   []Value
	members []Member
}

// Member is one key/value pair of an Object, or a synthesized index entry of an Array.
type Member struct {
	Key   string
	Value Value
}

// NewNull returns the Null value.
func NewNull() Value { return Value{} }

// NewString returns a string primitive.
func NewString(s string) Value { return Value{kind: Primitive, prim: StringType, str: s} }

// NewNumber returns a number primitive.
func NewNumber(f float64) Value { return Value{kind: Primitive, prim: NumberType, num: f} }

// NewBool returns a boolean primitive.
func NewBool(b bool) Value { return Value{kind: Primitive, prim: BoolType, boolean: b} }

// NewArray returns an array of the given items. A nil slice yields an empty array.
func NewArray(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: Array, items: items}
}

// NewObject returns an object whose members keep the given order.
func NewObject(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{kind: Object, members: members}
}

// M is shorthand for building a Member.
func M(key string, v Value) Member { return Member{Key: key, Value: v} }

// Kind returns the structural kind of v.
func (v Value) Kind() Kind { return v.kind }

// PrimitiveType returns the primitive variant, or NotPrimitive.
func (v Value) PrimitiveType() PrimitiveType { return v.prim }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == Null }

// IsNested reports whether v is an Array or an Object.
func (v Value) IsNested() bool { return v.kind == Array || v.kind == Object }

// Text returns the string payload and whether v is a string primitive.
func (v Value) Text() (string, bool) {
	if v.prim != StringType {
		return "", false
	}
	return v.str, true
}

// Number returns the numeric payload and whether v is a number primitive.
func (v Value) Number() (float64, bool) {
	if v.prim != NumberType {
		return 0, false
	}
	return v.num, true
}

// Bool returns the boolean payload and whether v is a boolean primitive.
func (v Value) Bool() (bool, bool) {
	if v.prim != BoolType {
		return false, false
	}
	return v.boolean, true
}

// Items returns the elements of an Array, or nil.
func (v Value) Items() []Value { return v.items }

// Members returns the members of an Object in order, or nil.
func (v Value) Members() []Member { return v.members }

// Len returns the number of entries of a nested value, or 0.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.members)
	}
	return 0
}

// Entries enumerates own entries in order. Arrays yield their index as key.
func (v Value) Entries() []Member {
	switch v.kind {
	case Object:
		return v.members
	case Array:
		out := make([]Member, len(v.items))
		for i, item := range v.items {
			out[i] = Member{Key: strconv.Itoa(i), Value: item}
		}
		return out
	}
	return nil
}

// Get returns the member value for key and whether it exists.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// String stringifies v the way a frame title or a bare label shows it.
// Nested values render as their kind name capitalized ("Array", "Object").
func (v Value) String() string {
	switch v.kind {
	case Null:
		return "null"
	case Array:
		return "Array"
	case Object:
		return "Object"
	}
	switch v.prim {
	case StringType:
		return v.str
	case BoolType:
		return strconv.FormatBool(v.boolean)
	default:
		return formatNumber(v.num)
	}
}

// Quoted renders a property value: strings in double quotes, everything else as String.
func (v Value) Quoted() string {
	if v.prim == StringType {
		return `"` + v.str + `"`
	}
	return v.String()
}

// formatNumber matches the shortest round-trip form used by JSON producers:
// integers without a fraction, exponent form only for very large or small magnitudes.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		// Negative zero prints as "0".
		return "0"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		s = strings.Replace(s, "e-0", "e-", 1)
		return strings.Replace(s, "e+0", "e+", 1)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
