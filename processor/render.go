package processor

import (
	"fmt"
	"go/token"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/jhump/annomodel"
	"github.com/jhump/annomodel/parser"
)

// Syntax renders values as source code literals.
type Syntax interface {
	// Token renders a scalar value. If inArray is true, the token is an
	// element of an array literal whose type is already known.
	Token(v Value, inArray bool) string
	// Array renders an array literal of the given element tokens.
	Array(k Kind, elems []string) string
}

// RenderedParam is a parameter value rendered as code.
type RenderedParam struct {
	Name string
	Kind Kind
	// Tokens holds one token for a scalar value and one per element for an
	// array value.
	Tokens []string
	// Code is the complete expression for the value.
	Code    string
	Default bool
}

// RenderedInstance is an annotation instance with all of its values
// rendered as code.
type RenderedInstance struct {
	Annotation string
	Target     string
	TargetKind parser.ElementKind
	Pos        token.Position
	Params     []RenderedParam
}

// Render renders every value of the given instance using the given syntax.
// It returns an error if the instance holds a value that does not agree with
// its schema.
func Render(inst *AnnotationInstance, syntax Syntax) (*RenderedInstance, error) {
	ri := &RenderedInstance{
		Annotation: inst.schema.name,
		Target:     inst.target,
		TargetKind: inst.targetKind,
		Pos:        inst.pos,
		Params:     make([]RenderedParam, 0, len(inst.values)),
	}
	for _, nv := range inst.Values() {
		p, _ := inst.schema.Param(nv.Name)
		if nv.Value.Kind != p.Kind() {
			err := kindMismatch(nv.Value.Pos, p.Kind(), nv.Value.Kind)
			return nil, withContext(err, inst.schema.name, nv.Name)
		}
		if err := checkValue(nv.Value.Kind, nv.Value.Value); err != nil {
			return nil, NewErrorWithPosition(nv.Value.Pos, fmt.Errorf("%s.%s: %w", inst.schema.name, nv.Name, err))
		}
		rp := RenderedParam{Name: nv.Name, Kind: nv.Value.Kind, Default: nv.Default}
		rp.Code, rp.Tokens = renderValue(nv.Value, syntax)
		ri.Params = append(ri.Params, rp)
	}
	return ri, nil
}

// RenderValue renders a single value, scalar or array, as code.
func RenderValue(v Value, syntax Syntax) string {
	code, _ := renderValue(v, syntax)
	return code
}

func renderValue(v Value, syntax Syntax) (string, []string) {
	if !v.Kind.IsArray() {
		tok := syntax.Token(v, false)
		return tok, []string{tok}
	}
	elems := v.AsArray()
	toks := make([]string, len(elems))
	for i := range elems {
		toks[i] = syntax.Token(elems[i], true)
	}
	return syntax.Array(v.Kind, toks), toks
}

// JavaSyntax renders values as Java literals.
type JavaSyntax struct{}

var _ Syntax = JavaSyntax{}

func (JavaSyntax) Token(v Value, _ bool) string {
	switch v.Kind.Base() {
	case KindBoolean:
		return strconv.FormatBool(v.AsBool())
	case KindByte:
		return strconv.Itoa(int(v.AsByte()))
	case KindChar:
		return "'" + javaEscape([]rune{rune(v.AsChar())}, '\'') + "'"
	case KindDouble:
		return javaFloat(v.AsDouble(), 64, "Double")
	case KindFloat:
		return javaFloat(float64(v.AsFloat()), 32, "Float")
	case KindInt:
		return strconv.FormatInt(int64(v.AsInt()), 10)
	case KindLong:
		return strconv.FormatInt(v.AsLong(), 10) + "L"
	case KindString:
		return `"` + javaEscape([]rune(v.AsString()), '"') + `"`
	case KindEnum:
		e := v.AsEnum()
		return e.Type + "." + e.Name
	case KindClassRef:
		return v.AsClass().Name + ".class"
	default:
		panic(fmt.Sprintf("unexpected kind %v", v.Kind))
	}
}

func (JavaSyntax) Array(_ Kind, elems []string) string {
	return "{" + strings.Join(elems, ", ") + "}"
}

func javaFloat(f float64, bits int, boxed string) string {
	switch {
	case math.IsNaN(f):
		return boxed + ".NaN"
	case math.IsInf(f, 1):
		return boxed + ".POSITIVE_INFINITY"
	case math.IsInf(f, -1):
		return boxed + ".NEGATIVE_INFINITY"
	}
	s := formatFloat(f, bits)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	if bits == 32 {
		s += "f"
	}
	return s
}

// formatFloat formats without an exponent for moderate magnitudes.
func formatFloat(f float64, bits int) string {
	if a := math.Abs(f); a == 0 || (a >= 1e-3 && a < 1e7) {
		return strconv.FormatFloat(f, 'f', -1, bits)
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

// javaEscape renders text for a Java string or char literal. Only printable
// ASCII is written as-is.
func javaEscape(rs []rune, quote rune) string {
	var sb strings.Builder
	for _, r := range rs {
		switch r {
		case '\b':
			sb.WriteString(`\b`)
		case '\t':
			sb.WriteString(`\t`)
		case '\n':
			sb.WriteString(`\n`)
		case '\f':
			sb.WriteString(`\f`)
		case '\r':
			sb.WriteString(`\r`)
		case '\\':
			sb.WriteString(`\\`)
		case quote:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			if r >= 0x20 && r < 0x7f {
				sb.WriteRune(r)
				continue
			}
			if r > 0xffff {
				r1, r2 := utf16.EncodeRune(r)
				fmt.Fprintf(&sb, `\u%04x\u%04x`, r1, r2)
				continue
			}
			fmt.Fprintf(&sb, `\u%04x`, r)
		}
	}
	return sb.String()
}

// GoSyntax renders values as Go expressions of the types used by the
// annomodel runtime package.
type GoSyntax struct {
	// Runtime is the name by which the runtime package is referenced, such
	// as "annomodel". If empty, runtime names are not qualified, which is
	// only correct for code in the runtime package itself.
	Runtime string
}

var _ Syntax = GoSyntax{}

func (g GoSyntax) qualify(name string) string {
	if g.Runtime == "" {
		return name
	}
	return g.Runtime + "." + name
}

func (g GoSyntax) Token(v Value, inArray bool) string {
	cast := func(typ, lit string) string {
		if inArray {
			return lit
		}
		return typ + "(" + lit + ")"
	}
	switch v.Kind.Base() {
	case KindBoolean:
		return strconv.FormatBool(v.AsBool())
	case KindByte:
		return cast("int8", strconv.Itoa(int(v.AsByte())))
	case KindChar:
		return cast(g.qualify("Char"), goChar(v.AsChar()))
	case KindDouble:
		f := v.AsDouble()
		if s, ok := g.special(f); ok {
			return s
		}
		return cast("float64", formatFloat(f, 64))
	case KindFloat:
		f := float64(v.AsFloat())
		if s, ok := g.special(f); ok {
			return "float32(" + s + ")"
		}
		return cast("float32", formatFloat(f, 32))
	case KindInt:
		return cast("int32", strconv.FormatInt(int64(v.AsInt()), 10))
	case KindLong:
		return cast("int64", strconv.FormatInt(v.AsLong(), 10))
	case KindString:
		return strconv.Quote(v.AsString())
	case KindEnum:
		e := v.AsEnum()
		lit := fmt.Sprintf("{Type: %q, Name: %q}", e.Type, e.Name)
		if inArray {
			return lit
		}
		return g.qualify("EnumConst") + lit
	case KindClassRef:
		lit := fmt.Sprintf("{Name: %q}", v.AsClass().Name)
		if inArray {
			return lit
		}
		return g.qualify("ClassRef") + lit
	default:
		panic(fmt.Sprintf("unexpected kind %v", v.Kind))
	}
}

func (g GoSyntax) special(f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return g.qualify("NaN()"), true
	case math.IsInf(f, 1):
		return g.qualify("Inf(1)"), true
	case math.IsInf(f, -1):
		return g.qualify("Inf(-1)"), true
	}
	return "", false
}

func (g GoSyntax) Array(k Kind, elems []string) string {
	return "[]" + g.elemType(k.Base()) + "{" + strings.Join(elems, ", ") + "}"
}

func (g GoSyntax) elemType(b BaseKind) string {
	switch b {
	case KindBoolean:
		return "bool"
	case KindByte:
		return "int8"
	case KindChar:
		return g.qualify("Char")
	case KindDouble:
		return "float64"
	case KindFloat:
		return "float32"
	case KindInt:
		return "int32"
	case KindLong:
		return "int64"
	case KindString:
		return "string"
	case KindEnum:
		return g.qualify("EnumConst")
	case KindClassRef:
		return g.qualify("ClassRef")
	default:
		panic(fmt.Sprintf("unexpected kind %v", b))
	}
}

// goChar renders a UTF-16 code unit as a Go rune literal. Surrogates and
// non-printable characters are rendered as numbers.
func goChar(c annomodel.Char) string {
	r := rune(c)
	if utf16.IsSurrogate(r) || !unicode.IsPrint(r) {
		return fmt.Sprintf("0x%04x", uint16(c))
	}
	return strconv.QuoteRune(r)
}
