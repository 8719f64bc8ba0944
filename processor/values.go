package processor

import (
	"fmt"
	"go/token"

	"github.com/jhump/annomodel"
)

// Value is a resolved annotation parameter value, tagged with its kind.
type Value struct {
	Kind Kind
	// The actual value. By base kind, this will be a bool (boolean), int8
	// (byte), annomodel.Char (char), float64 (double), float32 (float), int32
	// (int), int64 (long), string (String), annomodel.EnumConst (enum), or
	// annomodel.ClassRef (class). For array kinds, it is a []Value whose
	// elements all have the array's element kind.
	Value interface{}
	// The position in source where this value is defined.
	Pos token.Position
}

// AsBool is a convenience function that type asserts the value as a bool.
func (v *Value) AsBool() bool {
	return v.Value.(bool)
}

// AsByte is a convenience function that type asserts the value as an int8.
func (v *Value) AsByte() int8 {
	return v.Value.(int8)
}

// AsChar is a convenience function that type asserts the value as a
// annomodel.Char.
func (v *Value) AsChar() annomodel.Char {
	return v.Value.(annomodel.Char)
}

// AsDouble is a convenience function that type asserts the value as a float64.
func (v *Value) AsDouble() float64 {
	return v.Value.(float64)
}

// AsFloat is a convenience function that type asserts the value as a float32.
func (v *Value) AsFloat() float32 {
	return v.Value.(float32)
}

// AsInt is a convenience function that type asserts the value as an int32.
func (v *Value) AsInt() int32 {
	return v.Value.(int32)
}

// AsLong is a convenience function that type asserts the value as an int64.
func (v *Value) AsLong() int64 {
	return v.Value.(int64)
}

// AsString is a convenience function that type asserts the value as a string.
func (v *Value) AsString() string {
	return v.Value.(string)
}

// AsEnum is a convenience function that type asserts the value as a
// annomodel.EnumConst.
func (v *Value) AsEnum() annomodel.EnumConst {
	return v.Value.(annomodel.EnumConst)
}

// AsClass is a convenience function that type asserts the value as a
// annomodel.ClassRef.
func (v *Value) AsClass() annomodel.ClassRef {
	return v.Value.(annomodel.ClassRef)
}

// AsArray is a convenience function that type asserts the value as a
// []Value.
func (v *Value) AsArray() []Value {
	return v.Value.([]Value)
}

// Interface returns the value as the Go type used by the annomodel runtime
// package. Arrays are returned as typed slices, like []int32.
func (v *Value) Interface() interface{} {
	if !v.Kind.IsArray() {
		return v.Value
	}
	elems := v.AsArray()
	switch v.Kind.Base() {
	case KindBoolean:
		return sliceOf(elems, (*Value).AsBool)
	case KindByte:
		return sliceOf(elems, (*Value).AsByte)
	case KindChar:
		return sliceOf(elems, (*Value).AsChar)
	case KindDouble:
		return sliceOf(elems, (*Value).AsDouble)
	case KindFloat:
		return sliceOf(elems, (*Value).AsFloat)
	case KindInt:
		return sliceOf(elems, (*Value).AsInt)
	case KindLong:
		return sliceOf(elems, (*Value).AsLong)
	case KindString:
		return sliceOf(elems, (*Value).AsString)
	case KindEnum:
		return sliceOf(elems, (*Value).AsEnum)
	case KindClassRef:
		return sliceOf(elems, (*Value).AsClass)
	default:
		panic(fmt.Sprintf("unexpected kind %v", v.Kind))
	}
}

func sliceOf[T any](elems []Value, fn func(*Value) T) []T {
	res := make([]T, len(elems))
	for i := range elems {
		res[i] = fn(&elems[i])
	}
	return res
}

func (v Value) String() string {
	if v.Kind.IsArray() {
		return fmt.Sprintf("%v", v.Interface())
	}
	return fmt.Sprintf("%v", v.Value)
}

// checkValue verifies that v holds a Go value of the right type for kind k.
func checkValue(k Kind, v interface{}) error {
	if k.IsArray() {
		elems, ok := v.([]Value)
		if !ok {
			return fmt.Errorf("value of kind %v has non-slice val: %T", k, v)
		}
		for i := range elems {
			if elems[i].Kind != k.Elem() {
				return fmt.Errorf("element %d of value of kind %v has kind %v", i, k, elems[i].Kind)
			}
			if err := checkValue(elems[i].Kind, elems[i].Value); err != nil {
				return err
			}
		}
		return nil
	}
	var ok bool
	switch k.Base() {
	case KindBoolean:
		_, ok = v.(bool)
	case KindByte:
		_, ok = v.(int8)
	case KindChar:
		_, ok = v.(annomodel.Char)
	case KindDouble:
		_, ok = v.(float64)
	case KindFloat:
		_, ok = v.(float32)
	case KindInt:
		_, ok = v.(int32)
	case KindLong:
		_, ok = v.(int64)
	case KindString:
		_, ok = v.(string)
	case KindEnum:
		_, ok = v.(annomodel.EnumConst)
	case KindClassRef:
		_, ok = v.(annomodel.ClassRef)
	default:
		return fmt.Errorf("invalid kind %v", k)
	}
	if !ok {
		return fmt.Errorf("value of kind %v has wrong type of val: %T", k, v)
	}
	return nil
}

func newValue(k Kind, v interface{}, pos token.Position) Value {
	if err := checkValue(k, v); err != nil {
		panic(err.Error())
	}
	return Value{Kind: k, Value: v, Pos: pos}
}
