package parser

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"path/filepath"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// ParseError is an error encountered while parsing a source file.
type ParseError struct {
	err error
	pos token.Position
}

func (e *ParseError) Error() string {
	if e.pos.Filename == "" {
		return fmt.Sprintf("line %d, column %d: %s", e.pos.Line, e.pos.Column, e.err)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.pos.Filename, e.pos.Line, e.pos.Column, e.err)
}

func (e *ParseError) Underlying() error {
	return e.err
}

func (e *ParseError) Unwrap() error {
	return e.err
}

func (e *ParseError) Pos() token.Position {
	return e.pos
}

// DialectForFile returns the dialect implied by the given file name: Kotlin
// for ".kt" and ".kts" files, Java otherwise.
func DialectForFile(filename string) Dialect {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".kt", ".kts":
		return Kotlin
	default:
		return Java
	}
}

// Parse parses the given source, choosing a dialect based on the file name.
// If the returned error is not nil, it will be a *ParseError.
func Parse(filename string, r io.Reader) (*File, error) {
	if DialectForFile(filename) == Kotlin {
		return ParseKotlin(filename, r)
	}
	return ParseJava(filename, r)
}

// ParseJava parses the given Java source.
func ParseJava(filename string, r io.Reader) (*File, error) {
	jf, err := javaGrammar.Parse(filename, r)
	if err != nil {
		return nil, newParseError(filename, err)
	}
	b := newBuilder(filename, Java)
	if jf.Package != nil {
		b.file.Package = strings.Join(identNames(jf.Package.Parts), ".")
	}
	b.imports(jf.Imports)
	for _, d := range jf.Decls {
		b.javaDecl(b.file.Package, d)
	}
	return b.result()
}

// ParseKotlin parses the given Kotlin source.
func ParseKotlin(filename string, r io.Reader) (*File, error) {
	kf, err := kotlinGrammar.Parse(filename, r)
	if err != nil {
		return nil, newParseError(filename, err)
	}
	b := newBuilder(filename, Kotlin)
	if kf.Package != nil {
		b.file.Package = strings.Join(identNames(kf.Package.Parts), ".")
	}
	b.imports(kf.Imports)
	for _, d := range kf.Decls {
		b.kotlinDecl(b.file.Package, d)
	}
	return b.result()
}

func newParseError(filename string, err error) *ParseError {
	var perr participle.Error
	if errors.As(err, &perr) {
		return &ParseError{err: errors.New(perr.Message()), pos: toPosition(perr.Position())}
	}
	return &ParseError{err: err, pos: token.Position{Filename: filename}}
}

// builder converts grammar nodes into the AST. Only the first error is kept.
type builder struct {
	file *File
	err  *ParseError
}

func newBuilder(filename string, d Dialect) *builder {
	return &builder{file: &File{Name: filename, Dialect: d}}
}

func (b *builder) result() (*File, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.file, nil
}

func (b *builder) fail(pos token.Position, err error) {
	if b.err == nil {
		b.err = &ParseError{err: err, pos: pos}
	}
}

func qualify(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}

func (b *builder) imports(nodes []*importNode) {
	for _, n := range nodes {
		parts := identNames(n.Parts)
		imp := Import{Static: n.Static, Alias: identName(n.Alias), Pos: toPosition(n.Pos)}
		if len(parts) > 0 && parts[len(parts)-1] == "*" {
			imp.Wildcard = true
			parts = parts[:len(parts)-1]
		}
		imp.Path = strings.Join(parts, ".")
		b.file.Imports = append(b.file.Imports, imp)
	}
}

func (b *builder) usages(nodes []*usageNode, target string, kind ElementKind) {
	for _, n := range nodes {
		b.file.Usages = append(b.file.Usages, b.usage(n, target, kind))
	}
}

func (b *builder) usage(n *usageNode, target string, kind ElementKind) *Usage {
	u := &Usage{
		Annotation: identNames(n.Name),
		Target:     target,
		TargetKind: kind,
		File:       b.file,
		Pos:        toPosition(n.Pos),
	}
	for _, a := range n.Args {
		u.Args = append(u.Args, Argument{
			Name:  identName(a.Name),
			Value: b.expr(a.Value),
			Pos:   toPosition(a.Pos),
		})
	}
	return u
}

func (b *builder) enum(scope, name string, pos token.Position, constants []*enumConstantNode) {
	qn := qualify(scope, name)
	decl := &EnumDecl{Name: name, QualifiedName: qn, File: b.file, Pos: pos}
	for _, c := range constants {
		cname := identName(c.Name)
		decl.Constants = append(decl.Constants, EnumConstant{Name: cname, Pos: toPosition(c.Pos)})
		b.usages(c.Usages, qualify(qn, cname), EnumConstantElement)
	}
	b.file.Enums = append(b.file.Enums, decl)
}

// Java

func (b *builder) javaDecl(scope string, d *javaDecl) {
	switch {
	case d.Annotation != nil:
		b.javaAnnotation(scope, d)
	case d.Enum != nil:
		name := identName(d.Enum.Name)
		qn := qualify(scope, name)
		b.usages(d.Usages, qn, TypeElement)
		b.enum(scope, name, toPosition(d.Pos), d.Enum.Constants)
		for _, m := range d.Enum.Body {
			b.javaDecl(qn, m)
		}
	case d.Class != nil:
		qn := qualify(scope, identName(d.Class.Name))
		b.usages(d.Usages, qn, TypeElement)
		b.file.Types = append(b.file.Types, qn)
		for _, m := range d.Class.Members {
			b.javaDecl(qn, m)
		}
	case d.Member != nil:
		m := d.Member
		switch {
		case m.Method != nil && m.Name == "":
			b.usages(d.Usages, qualify(scope, "<init>"), ConstructorElement)
		case m.Method != nil:
			b.usages(d.Usages, qualify(scope, identName(m.Name)), MethodElement)
		case m.Name != "":
			b.usages(d.Usages, qualify(scope, identName(m.Name)), FieldElement)
		}
	}
}

func (b *builder) javaAnnotation(scope string, d *javaDecl) {
	name := identName(d.Annotation.Name)
	qn := qualify(scope, name)
	b.usages(d.Usages, qn, AnnotationTypeElement)
	decl := &AnnotationDecl{Name: name, QualifiedName: qn, File: b.file, Pos: toPosition(d.Pos)}
	for _, m := range d.Annotation.Members {
		if m.Member != nil && m.Member.Field != nil && looksLikeElement(m.Member.Field) {
			// an element whose default value did not parse as an expression
			b.fail(toPosition(m.Pos), malformedElement(name, identName(m.Member.Name), m.Member.Field))
			continue
		}
		if m.Member == nil || m.Member.Method == nil {
			// constants and nested types
			b.javaDecl(qn, m)
			continue
		}
		el := m.Member
		pname := identName(el.Name)
		if pname == "" {
			b.fail(toPosition(m.Pos), fmt.Errorf("annotation %s has an element with no name", name))
			continue
		}
		if len(el.Method.Params.Items) > 0 {
			b.fail(toPosition(el.Method.Params.Pos), fmt.Errorf("annotation element %s.%s must not declare parameters", name, pname))
			continue
		}
		b.usages(m.Usages, qualify(qn, pname), MethodElement)
		decl.Params = append(decl.Params, &ParamDecl{
			Name:    pname,
			Type:    javaTypeRef(el.Type, len(el.Method.Dims)),
			Default: b.expr(el.Method.Default),
			Pos:     toPosition(m.Pos),
		})
	}
	b.file.Annotations = append(b.file.Annotations, decl)
}

// looksLikeElement reports whether a member that was recognized as a field
// starts with a parameter list and so is really a malformed element.
func looksLikeElement(f *javaField) bool {
	return len(f.Rest) > 0 && f.Rest[0].Parens != nil
}

func malformedElement(annotation, element string, f *javaField) error {
	rest := f.Rest[1:]
	if len(rest) > 0 && rest[0].Token == "default" {
		if len(rest) == 1 {
			return fmt.Errorf("annotation element %s.%s is missing its default value", annotation, element)
		}
		return fmt.Errorf("default value of annotation element %s.%s is not a constant value", annotation, element)
	}
	return fmt.Errorf("annotation element %s.%s is malformed", annotation, element)
}

func javaTypeRef(t *javaType, extraDims int) TypeRef {
	ref := TypeRef{Name: identNames(t.Name), Dims: len(t.Dims) + extraDims, Pos: toPosition(t.Pos)}
	for _, a := range t.Args {
		arg := TypeArg{Wildcard: a.Wildcard, Variance: a.Variance}
		switch {
		case a.Bound != nil:
			r := javaTypeRef(a.Bound, 0)
			arg.Type = &r
		case a.Type != nil:
			r := javaTypeRef(a.Type, 0)
			arg.Type = &r
		}
		ref.Args = append(ref.Args, arg)
	}
	return ref
}

// Kotlin

func (b *builder) kotlinDecl(scope string, d *kotlinDecl) {
	switch {
	case d.Annotation != nil:
		b.kotlinAnnotation(scope, d)
	case d.Enum != nil:
		name := identName(d.Enum.Name)
		qn := qualify(scope, name)
		b.usages(d.Usages, qn, TypeElement)
		b.enum(scope, name, toPosition(d.Pos), d.Enum.Constants)
		for _, m := range d.Enum.Body {
			b.kotlinDecl(qn, m)
		}
	case d.Class != nil:
		name := identName(d.Class.Name)
		if name == "" {
			name = "Companion"
		}
		qn := qualify(scope, name)
		b.usages(d.Usages, qn, TypeElement)
		b.file.Types = append(b.file.Types, qn)
		for _, m := range d.Class.Members {
			b.kotlinDecl(qn, m)
		}
	case d.Func != nil:
		parts := identNames(d.Func.Name)
		b.usages(d.Usages, qualify(scope, parts[len(parts)-1]), FunctionElement)
	case d.Property != nil:
		b.usages(d.Usages, qualify(scope, identName(d.Property.Name)), PropertyElement)
	}
}

func (b *builder) kotlinAnnotation(scope string, d *kotlinDecl) {
	name := identName(d.Annotation.Name)
	qn := qualify(scope, name)
	b.usages(d.Usages, qn, AnnotationTypeElement)
	decl := &AnnotationDecl{Name: name, QualifiedName: qn, File: b.file, Pos: toPosition(d.Pos)}
	for _, p := range d.Annotation.Params {
		pname := identName(p.Name)
		b.usages(p.Usages, qualify(qn, pname), ParameterElement)
		decl.Params = append(decl.Params, &ParamDecl{
			Name:    pname,
			Type:    kotlinTypeRef(p.Type),
			Default: b.expr(p.Default),
			Pos:     toPosition(p.Pos),
		})
	}
	for _, m := range d.Annotation.Body {
		b.kotlinDecl(qn, m)
	}
	b.file.Annotations = append(b.file.Annotations, decl)
}

func kotlinTypeRef(t *kotlinType) TypeRef {
	ref := TypeRef{Name: identNames(t.Name), Nullable: t.Nullable, Pos: toPosition(t.Pos)}
	for _, a := range t.Args {
		arg := TypeArg{Wildcard: a.Star, Star: a.Star, Variance: a.Variance}
		if a.Type != nil {
			r := kotlinTypeRef(a.Type)
			arg.Type = &r
		}
		ref.Args = append(ref.Args, arg)
	}
	return ref
}

// Expressions

func (b *builder) exprs(nodes []*exprNode) []Expr {
	if len(nodes) == 0 {
		return nil
	}
	exprs := make([]Expr, len(nodes))
	for i, n := range nodes {
		exprs[i] = b.expr(n)
	}
	return exprs
}

func (b *builder) expr(n *exprNode) Expr {
	if n == nil {
		return nil
	}
	pos := toPosition(n.Pos)
	switch {
	case n.Unary != nil:
		return &UnaryExpr{Op: n.Unary.Op, X: b.expr(n.Unary.Operand), pos: pos}
	case n.Paren != nil:
		return b.expr(n.Paren)
	case n.Array != nil:
		form := BraceArray
		if n.Array.Open == "[" {
			form = BracketArray
		}
		return &ArrayExpr{Form: form, Elems: b.exprs(n.Array.Elems), pos: pos}
	case n.Call != nil:
		return &ArrayExpr{Form: CallArray, Func: n.Call.Func, Elems: b.exprs(n.Call.Elems), pos: pos}
	case n.Literal != nil:
		return b.literal(n.Literal, pos)
	case n.Nested != nil:
		return &AnnotationExpr{Usage: b.usage(n.Nested, "", ParameterElement)}
	case n.Ref != nil:
		parts := identNames(n.Ref.Parts)
		if n.Ref.KClass {
			return &ClassLitExpr{Name: parts, pos: pos}
		}
		if b.file.Dialect == Java && len(parts) > 1 && parts[len(parts)-1] == "class" {
			return &ClassLitExpr{Name: parts[:len(parts)-1], pos: pos}
		}
		return &RefExpr{Name: parts, pos: pos}
	}
	b.fail(pos, errors.New("unrecognized expression"))
	return nil
}

func (b *builder) literal(n *literalNode, pos token.Position) Expr {
	switch {
	case n.Float != "":
		return &LiteralExpr{Kind: FloatLiteral, Raw: n.Float, pos: pos}
	case n.Int != "":
		return &LiteralExpr{Kind: IntLiteral, Raw: n.Int, pos: pos}
	case n.Str != "":
		s, err := unquoteString(n.Str, b.file.Dialect)
		if err != nil {
			b.fail(pos, err)
		}
		return &LiteralExpr{Kind: StringLiteral, Raw: n.Str, Str: s, pos: pos}
	case n.Char != "":
		c, err := unquoteChar(n.Char, b.file.Dialect)
		if err != nil {
			b.fail(pos, err)
		}
		return &LiteralExpr{Kind: CharLiteral, Raw: n.Char, Char: c, pos: pos}
	case n.Bool != "":
		return &LiteralExpr{Kind: BoolLiteral, Raw: n.Bool, Bool: n.Bool == "true", pos: pos}
	default:
		return &LiteralExpr{Kind: NullLiteral, Raw: "null", pos: pos}
	}
}
