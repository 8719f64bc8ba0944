package processor

import (
	"fmt"

	"github.com/jhump/annomodel/parser"
)

// BaseKind is one of the ten scalar kinds of annotation parameter.
type BaseKind uint8

const (
	// KindInvalid should not be used and indicates an incorrectly uninitialized
	// kind.
	KindInvalid BaseKind = iota
	KindBoolean
	KindByte
	KindChar
	KindDouble
	KindFloat
	KindInt
	KindLong
	KindString
	KindEnum
	KindClassRef
)

var baseKindNames = map[BaseKind]string{
	KindBoolean:  "boolean",
	KindByte:     "byte",
	KindChar:     "char",
	KindDouble:   "double",
	KindFloat:    "float",
	KindInt:      "int",
	KindLong:     "long",
	KindString:   "String",
	KindEnum:     "enum",
	KindClassRef: "class",
}

// JVM element_value tags, as they appear in class files.
var baseKindTags = map[BaseKind]byte{
	KindBoolean:  'Z',
	KindByte:     'B',
	KindChar:     'C',
	KindDouble:   'D',
	KindFloat:    'F',
	KindInt:      'I',
	KindLong:     'J',
	KindString:   's',
	KindEnum:     'e',
	KindClassRef: 'c',
}

func (k BaseKind) String() string {
	if s, ok := baseKindNames[k]; ok {
		return s
	}
	return "<invalid>"
}

// IsNumeric returns true for the kinds whose values are numbers: byte, char,
// double, float, int, and long.
func (k BaseKind) IsNumeric() bool {
	return k >= KindByte && k <= KindLong
}

// Kind is the classification of an annotation parameter: a base kind plus
// an indication of whether the parameter is an array of that base kind.
// The zero value is invalid.
type Kind struct {
	base  BaseKind
	array bool
}

// ScalarKind returns the non-array kind for the given base kind.
func ScalarKind(b BaseKind) Kind {
	return Kind{base: b}
}

// ArrayKind returns the array kind for the given base kind.
func ArrayKind(b BaseKind) Kind {
	return Kind{base: b, array: true}
}

func (k Kind) Base() BaseKind {
	return k.base
}

func (k Kind) IsArray() bool {
	return k.array
}

func (k Kind) IsValid() bool {
	_, ok := baseKindNames[k.base]
	return ok
}

// Elem returns the scalar kind of array elements. For a scalar kind, it
// returns k.
func (k Kind) Elem() Kind {
	return Kind{base: k.base}
}

// ArrayOf returns the array kind whose elements have kind k.
func (k Kind) ArrayOf() Kind {
	return Kind{base: k.base, array: true}
}

func (k Kind) String() string {
	if k.array {
		return k.base.String() + "[]"
	}
	return k.base.String()
}

// Tag returns the class file descriptor tag for the kind, such as "I" for int
// or "[e" for an array of enums.
func (k Kind) Tag() string {
	t, ok := baseKindTags[k.base]
	if !ok {
		return "?"
	}
	if k.array {
		return "[" + string(t)
	}
	return string(t)
}

// ParamType is the classified type of an annotation parameter.
type ParamType struct {
	Kind Kind
	// Enum is the enum declaration for parameters whose base kind is
	// KindEnum, nil otherwise.
	Enum *parser.EnumDecl
}

func (t ParamType) String() string {
	if t.Enum != nil {
		if t.Kind.IsArray() {
			return t.Enum.QualifiedName + "[]"
		}
		return t.Enum.QualifiedName
	}
	return t.Kind.String()
}

var (
	javaPrimitives = map[string]BaseKind{
		"boolean": KindBoolean,
		"byte":    KindByte,
		"char":    KindChar,
		"double":  KindDouble,
		"float":   KindFloat,
		"int":     KindInt,
		"long":    KindLong,
	}
	kotlinPrimitives = map[string]BaseKind{
		"Boolean": KindBoolean,
		"Byte":    KindByte,
		"Char":    KindChar,
		"Double":  KindDouble,
		"Float":   KindFloat,
		"Int":     KindInt,
		"Long":    KindLong,
	}
	kotlinPrimitiveArrays = map[string]BaseKind{
		"BooleanArray": KindBoolean,
		"ByteArray":    KindByte,
		"CharArray":    KindChar,
		"DoubleArray":  KindDouble,
		"FloatArray":   KindFloat,
		"IntArray":     KindInt,
		"LongArray":    KindLong,
	}
	stringTypes = map[string]bool{
		"String":           true,
		"java.lang.String": true,
		"kotlin.String":    true,
	}
	javaClassTypes = map[string]bool{
		"Class":           true,
		"java.lang.Class": true,
	}
	kotlinClassTypes = map[string]bool{
		"KClass":                true,
		"kotlin.reflect.KClass": true,
	}
	kotlinArrayTypes = map[string]bool{
		"Array":        true,
		"kotlin.Array": true,
	}
	shortTypes = map[string]bool{
		"short":             true,
		"Short":             true,
		"kotlin.Short":      true,
		"ShortArray":        true,
		"kotlin.ShortArray": true,
	}
)

func kotlinBuiltin(m map[string]BaseKind, name string) (BaseKind, bool) {
	if b, ok := m[name]; ok {
		return b, true
	}
	if len(name) > len("kotlin.") && name[:len("kotlin.")] == "kotlin." {
		b, ok := m[name[len("kotlin."):]]
		return b, ok
	}
	return KindInvalid, false
}

// ClassifyType maps a declared parameter type to its kind. The given scope is
// used to resolve named types (to find enums). It returns an
// *UnsupportedTypeError if the type is not one of the ten scalar kinds or a
// one-dimensional array of one of them.
func ClassifyType(t parser.TypeRef, scope Scope, symbols SymbolResolver) (ParamType, error) {
	dialect := scope.dialect()
	if t.Nullable {
		return ParamType{}, unsupportedType(t, "nullable types cannot be annotation parameters")
	}
	if t.Dims > 1 {
		return ParamType{}, unsupportedType(t, "arrays of arrays are not supported")
	}
	if t.Dims == 1 {
		if dialect != parser.Java {
			return ParamType{}, unsupportedType(t, "array dimensions are only valid in Java")
		}
		elem := t
		elem.Dims = 0
		pt, err := classifyScalar(elem, scope, symbols)
		if err != nil {
			return ParamType{}, err
		}
		pt.Kind = pt.Kind.ArrayOf()
		return pt, nil
	}

	name := t.QualifiedName()
	if dialect == parser.Kotlin {
		if b, ok := kotlinBuiltin(kotlinPrimitiveArrays, name); ok {
			if len(t.Args) > 0 {
				return ParamType{}, unsupportedType(t, "primitive array types are not generic")
			}
			return ParamType{Kind: ArrayKind(b)}, nil
		}
		if kotlinArrayTypes[name] {
			if len(t.Args) != 1 || t.Args[0].Type == nil || t.Args[0].Variance == "in" {
				return ParamType{}, unsupportedType(t, "Array requires a single invariant or covariant element type")
			}
			elem := *t.Args[0].Type
			if kotlinArrayTypes[elem.QualifiedName()] {
				return ParamType{}, unsupportedType(t, "arrays of arrays are not supported")
			}
			if _, ok := kotlinBuiltin(kotlinPrimitiveArrays, elem.QualifiedName()); ok {
				return ParamType{}, unsupportedType(t, "arrays of arrays are not supported")
			}
			pt, err := classifyScalar(elem, scope, symbols)
			if err != nil {
				return ParamType{}, err
			}
			pt.Kind = pt.Kind.ArrayOf()
			return pt, nil
		}
	}
	return classifyScalar(t, scope, symbols)
}

func classifyScalar(t parser.TypeRef, scope Scope, symbols SymbolResolver) (ParamType, error) {
	if t.Nullable {
		return ParamType{}, unsupportedType(t, "nullable types cannot be annotation parameters")
	}
	name := t.QualifiedName()
	if shortTypes[name] {
		return ParamType{}, unsupportedType(t, "short is not a supported parameter kind")
	}
	switch scope.dialect() {
	case parser.Java:
		if b, ok := javaPrimitives[name]; ok {
			return ParamType{Kind: ScalarKind(b)}, nil
		}
		if javaClassTypes[name] {
			if len(t.Args) > 1 {
				return ParamType{}, unsupportedType(t, "Class takes a single type argument")
			}
			return ParamType{Kind: ScalarKind(KindClassRef)}, nil
		}
	case parser.Kotlin:
		if b, ok := kotlinBuiltin(kotlinPrimitives, name); ok {
			return ParamType{Kind: ScalarKind(b)}, nil
		}
		if kotlinClassTypes[name] {
			if len(t.Args) != 1 {
				return ParamType{}, unsupportedType(t, "KClass requires a single type argument")
			}
			return ParamType{Kind: ScalarKind(KindClassRef)}, nil
		}
	}
	if stringTypes[name] {
		if len(t.Args) > 0 {
			return ParamType{}, unsupportedType(t, "String is not generic")
		}
		return ParamType{Kind: ScalarKind(KindString)}, nil
	}
	if len(t.Args) > 0 {
		return ParamType{}, unsupportedType(t, "generic types other than class references are not supported")
	}

	sym, ok := symbols.ResolveType(scope, t.Name)
	if !ok {
		return ParamType{}, unsupportedType(t, "type is not a known enum or supported parameter type")
	}
	switch sym.Kind {
	case SymbolEnum:
		return ParamType{Kind: ScalarKind(KindEnum), Enum: sym.Enum}, nil
	case SymbolAnnotation:
		return ParamType{}, unsupportedType(t, "annotation-typed parameters are not supported")
	default:
		return ParamType{}, unsupportedType(t, fmt.Sprintf("%s is not a supported parameter type", sym.Name))
	}
}

func unsupportedType(t parser.TypeRef, reason string) *UnsupportedTypeError {
	return &UnsupportedTypeError{
		location: location{pos: t.Pos},
		Type:     t.String(),
		Reason:   reason,
	}
}
