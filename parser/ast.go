package parser

import (
	"fmt"
	"go/token"
	"strings"
)

// Dialect identifies the source language of a parsed file.
type Dialect int

const (
	Java Dialect = iota
	Kotlin
)

func (d Dialect) String() string {
	switch d {
	case Java:
		return "java"
	case Kotlin:
		return "kotlin"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// ElementKind describes the kind of declaration that an annotation usage is
// attached to.
type ElementKind int

const (
	TypeElement ElementKind = iota
	AnnotationTypeElement
	EnumConstantElement
	MethodElement
	FieldElement
	ConstructorElement
	FunctionElement
	PropertyElement
	ParameterElement
)

var elementKindNames = map[ElementKind]string{
	TypeElement:           "type",
	AnnotationTypeElement: "annotation type",
	EnumConstantElement:   "enum constant",
	MethodElement:         "method",
	FieldElement:          "field",
	ConstructorElement:    "constructor",
	FunctionElement:       "function",
	PropertyElement:       "property",
	ParameterElement:      "parameter",
}

func (k ElementKind) String() string {
	if n, ok := elementKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ElementKind(%d)", int(k))
}

// File is the result of parsing one source file. It contains the
// declarations and usages that are relevant to annotation processing, in the
// order they appear in source.
type File struct {
	Name        string
	Dialect     Dialect
	Package     string
	Imports     []Import
	Enums       []*EnumDecl
	Annotations []*AnnotationDecl
	// Types lists the qualified names of all other declared classes,
	// interfaces, and objects. These are used to qualify class literals.
	Types  []string
	Usages []*Usage
}

// Import is an import statement.
type Import struct {
	// Path is the imported name, without any trailing ".*".
	Path     string
	Alias    string
	Wildcard bool
	Static   bool
	Pos      token.Position
}

// Name returns the simple name under which the import is visible in a file.
// It returns the empty string for wildcard imports.
func (i Import) Name() string {
	if i.Wildcard {
		return ""
	}
	if i.Alias != "" {
		return i.Alias
	}
	return lastName(i.Path)
}

// EnumDecl is a declared enum type.
type EnumDecl struct {
	Name          string
	QualifiedName string
	Constants     []EnumConstant
	File          *File
	Pos           token.Position
}

// HasConstant reports whether the enum declares a constant with the given
// name.
func (e *EnumDecl) HasConstant(name string) bool {
	for _, c := range e.Constants {
		if c.Name == name {
			return true
		}
	}
	return false
}

// EnumConstant is a single constant in an enum declaration.
type EnumConstant struct {
	Name string
	Pos  token.Position
}

// AnnotationDecl is a declared annotation type: a Java @interface or a Kotlin
// annotation class.
type AnnotationDecl struct {
	Name          string
	QualifiedName string
	Params        []*ParamDecl
	File          *File
	Pos           token.Position
}

// ParamDecl is a single declared annotation parameter. For Java, this is an
// annotation element method; for Kotlin, a constructor property.
type ParamDecl struct {
	Name string
	Type TypeRef
	// Default is nil when the declaration has no default value.
	Default Expr
	Pos     token.Position
}

// TypeRef is a reference to a type, as written in source.
type TypeRef struct {
	Name []string
	Args []TypeArg
	// Dims is the number of Java array dimensions ("[]") that follow the
	// type name.
	Dims     int
	Nullable bool
	Pos      token.Position
}

func (t TypeRef) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(t.Name, "."))
	if len(t.Args) > 0 {
		sb.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
		sb.WriteByte('>')
	}
	for i := 0; i < t.Dims; i++ {
		sb.WriteString("[]")
	}
	if t.Nullable {
		sb.WriteByte('?')
	}
	return sb.String()
}

// QualifiedName returns the dotted type name, without type arguments.
func (t TypeRef) QualifiedName() string {
	return strings.Join(t.Name, ".")
}

// TypeArg is a type argument in a parameterized type. Java's "?" and Kotlin's
// "*" both produce a wildcard with no type; Star is set for the latter.
type TypeArg struct {
	Wildcard bool
	Star     bool
	// Variance is one of "extends", "super", "out", "in", or empty.
	Variance string
	Type     *TypeRef
}

func (a TypeArg) String() string {
	var parts []string
	switch {
	case a.Star:
		parts = append(parts, "*")
	case a.Wildcard:
		parts = append(parts, "?")
	}
	if a.Variance != "" {
		parts = append(parts, a.Variance)
	}
	if a.Type != nil {
		parts = append(parts, a.Type.String())
	}
	return strings.Join(parts, " ")
}

// Usage is a concrete application of an annotation to a declaration.
type Usage struct {
	// Annotation is the name of the annotation, as written.
	Annotation []string
	// Target is the qualified name of the annotated declaration.
	Target     string
	TargetKind ElementKind
	Args       []Argument
	File       *File
	Pos        token.Position
}

// AnnotationName returns the annotation name as written in source.
func (u *Usage) AnnotationName() string {
	return strings.Join(u.Annotation, ".")
}

// Argument is one supplied value in an annotation usage. Name is empty for
// positional (Kotlin) and single-element (Java) arguments.
type Argument struct {
	Name  string
	Value Expr
	Pos   token.Position
}

// Expr is a node in the AST for annotation values and default values.
type Expr interface {
	Pos() token.Position
}

// LiteralKind is the kind of a literal token.
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	CharLiteral
	StringLiteral
	BoolLiteral
	NullLiteral
)

var literalKindNames = map[LiteralKind]string{
	IntLiteral:    "int literal",
	FloatLiteral:  "float literal",
	CharLiteral:   "char literal",
	StringLiteral: "string literal",
	BoolLiteral:   "boolean literal",
	NullLiteral:   "null",
}

func (k LiteralKind) String() string {
	if n, ok := literalKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("LiteralKind(%d)", int(k))
}

// LiteralExpr is an expression node that is a literal token. For string and
// char literals, escapes have already been decoded.
type LiteralExpr struct {
	Kind LiteralKind
	// Raw is the literal as written in source.
	Raw  string
	Str  string // decoded string literals
	Char uint16 // decoded char literals, as a UTF-16 code unit
	Bool bool
	pos  token.Position
}

func (n *LiteralExpr) Pos() token.Position {
	return n.pos
}

// UnaryExpr is an expression node for a prefix sign operator.
type UnaryExpr struct {
	Op  string // "-" or "+"
	X   Expr
	pos token.Position
}

func (n *UnaryExpr) Pos() token.Position {
	return n.pos
}

// ArrayForm indicates how an array value was written.
type ArrayForm int

const (
	// BraceArray is a Java array initializer: {a, b}.
	BraceArray ArrayForm = iota
	// BracketArray is a Kotlin collection literal: [a, b].
	BracketArray
	// CallArray is a Kotlin array factory call: intArrayOf(a, b).
	CallArray
)

// ArrayExpr is an expression node for an array value.
type ArrayExpr struct {
	Form ArrayForm
	// Func is the factory function name for CallArray forms.
	Func  string
	Elems []Expr
	pos   token.Position
}

func (n *ArrayExpr) Pos() token.Position {
	return n.pos
}

// RefExpr is an expression node that refers to a named constant, such as an
// enum constant (TestEnum.NONE) or a well-known constant (Integer.MAX_VALUE).
type RefExpr struct {
	Name []string
	pos  token.Position
}

func (n *RefExpr) Pos() token.Position {
	return n.pos
}

func (n *RefExpr) String() string {
	return strings.Join(n.Name, ".")
}

// ClassLitExpr is an expression node for a class literal: Foo.class in Java
// or Foo::class in Kotlin. Name excludes the "class" suffix.
type ClassLitExpr struct {
	Name []string
	pos  token.Position
}

func (n *ClassLitExpr) Pos() token.Position {
	return n.pos
}

func (n *ClassLitExpr) String() string {
	return strings.Join(n.Name, ".")
}

// AnnotationExpr is an expression node for a nested annotation value.
type AnnotationExpr struct {
	Usage *Usage
}

func (n *AnnotationExpr) Pos() token.Position {
	return n.Usage.Pos
}

func lastName(dotted string) string {
	if i := strings.LastIndexByte(dotted, '.'); i >= 0 {
		return dotted[i+1:]
	}
	return dotted
}
