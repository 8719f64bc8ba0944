// Package annomodel is the runtime library for code generated from annotation
// usages found in Java and Kotlin sources.
//
// The code generator (see the codegen package and the annomodel command)
// produces a Go file whose init function registers one Usage per annotation
// usage. Each usage carries fully resolved parameter values: supplied values
// where the source supplied them and declared defaults everywhere else.
//
// Values use the following Go types, by parameter kind:
//
//	boolean   bool
//	byte      int8
//	char      Char
//	double    float64
//	float     float32
//	int       int32
//	long      int64
//	String    string
//	enum      EnumConst
//	class     ClassRef
//
// Array parameters use a slice of the element type, e.g. []int32 or
// []EnumConst.
package annomodel

import (
	"fmt"
	"math"
	"unicode/utf16"
)

// Char is a Java/Kotlin char value: a single UTF-16 code unit.
type Char uint16

func (c Char) String() string {
	return string(utf16.Decode([]uint16{uint16(c)}))
}

// EnumConst is a reference to an enum constant.
type EnumConst struct {
	// Type is the qualified name of the enum type.
	Type string
	// Name is the name of the constant.
	Name string
}

func (e EnumConst) String() string {
	return e.Type + "." + e.Name
}

// ClassRef is a class literal.
type ClassRef struct {
	// Name is the qualified name of the referenced class.
	Name string
}

func (c ClassRef) String() string {
	return c.Name
}

// ElementType is an enumeration of the kinds of elements that can be annotated.
type ElementType int

const (
	// Types are classes, interfaces, objects, and enums.
	Types ElementType = iota
	// AnnotationTypes are declared annotations.
	AnnotationTypes
	// EnumConstants are the constants of an enum.
	EnumConstants
	// Methods are Java methods, including annotation elements.
	Methods
	// Fields are Java fields.
	Fields
	// Constructors are Java constructors.
	Constructors
	// Functions are Kotlin functions.
	Functions
	// Properties are Kotlin properties.
	Properties
	// Parameters are Kotlin annotation constructor parameters.
	Parameters
)

func (et ElementType) String() string {
	switch et {
	case Types:
		return "types"
	case AnnotationTypes:
		return "annotation types"
	case EnumConstants:
		return "enum constants"
	case Methods:
		return "methods"
	case Fields:
		return "fields"
	case Constructors:
		return "constructors"
	case Functions:
		return "functions"
	case Properties:
		return "properties"
	case Parameters:
		return "parameters"
	default:
		return fmt.Sprintf("unknown element type (%d)", et)
	}
}

// NaN returns a float64 NaN value. Generated code uses it since NaN has no
// literal form.
func NaN() float64 {
	return math.NaN()
}

// Inf returns positive infinity if sign >= 0, negative infinity if sign < 0.
func Inf(sign int) float64 {
	return math.Inf(sign)
}
