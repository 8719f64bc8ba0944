package processor

import (
	"fmt"
	"go/constant"
	"go/token"
	"math"
	"strings"

	"github.com/jhump/annomodel"
	"github.com/jhump/annomodel/parser"
)

// numeric is the result of evaluating a numeric constant expression. The
// kind is the apparent kind of the expression per Java/Kotlin typing rules:
// one of KindInt, KindLong, KindChar, KindFloat, or KindDouble. Values that
// go/constant cannot represent (NaN and infinities) are kept in special.
type numeric struct {
	kind    BaseKind
	val     constant.Value
	special float64
}

func (n numeric) isSpecial() bool {
	return n.val == nil
}

func (n numeric) String() string {
	if n.isSpecial() {
		return fmt.Sprintf("%v", n.special)
	}
	return n.val.ExactString()
}

type wellKnown struct {
	kind    BaseKind
	val     constant.Value
	special float64
}

var wellKnownConstants = map[string]wellKnown{
	"Byte.MIN_VALUE":           {kind: KindInt, val: constant.MakeInt64(math.MinInt8)},
	"Byte.MAX_VALUE":           {kind: KindInt, val: constant.MakeInt64(math.MaxInt8)},
	"Character.MIN_VALUE":      {kind: KindChar, val: constant.MakeInt64(0)},
	"Character.MAX_VALUE":      {kind: KindChar, val: constant.MakeInt64(math.MaxUint16)},
	"Char.MIN_VALUE":           {kind: KindChar, val: constant.MakeInt64(0)},
	"Char.MAX_VALUE":           {kind: KindChar, val: constant.MakeInt64(math.MaxUint16)},
	"Integer.MIN_VALUE":        {kind: KindInt, val: constant.MakeInt64(math.MinInt32)},
	"Integer.MAX_VALUE":        {kind: KindInt, val: constant.MakeInt64(math.MaxInt32)},
	"Int.MIN_VALUE":            {kind: KindInt, val: constant.MakeInt64(math.MinInt32)},
	"Int.MAX_VALUE":            {kind: KindInt, val: constant.MakeInt64(math.MaxInt32)},
	"Long.MIN_VALUE":           {kind: KindLong, val: constant.MakeInt64(math.MinInt64)},
	"Long.MAX_VALUE":           {kind: KindLong, val: constant.MakeInt64(math.MaxInt64)},
	"Float.MIN_VALUE":          {kind: KindFloat, val: constant.MakeFloat64(math.SmallestNonzeroFloat32)},
	"Float.MAX_VALUE":          {kind: KindFloat, val: constant.MakeFloat64(math.MaxFloat32)},
	"Float.NaN":                {kind: KindFloat, special: math.NaN()},
	"Float.POSITIVE_INFINITY":  {kind: KindFloat, special: math.Inf(1)},
	"Float.NEGATIVE_INFINITY":  {kind: KindFloat, special: math.Inf(-1)},
	"Double.MIN_VALUE":         {kind: KindDouble, val: constant.MakeFloat64(math.SmallestNonzeroFloat64)},
	"Double.MAX_VALUE":         {kind: KindDouble, val: constant.MakeFloat64(math.MaxFloat64)},
	"Double.NaN":               {kind: KindDouble, special: math.NaN()},
	"Double.POSITIVE_INFINITY": {kind: KindDouble, special: math.Inf(1)},
	"Double.NEGATIVE_INFINITY": {kind: KindDouble, special: math.Inf(-1)},
}

func lookupWellKnown(name []string) (wellKnown, bool) {
	joined := strings.Join(name, ".")
	joined = strings.TrimPrefix(joined, "java.lang.")
	joined = strings.TrimPrefix(joined, "kotlin.")
	wk, ok := wellKnownConstants[joined]
	return wk, ok
}

// converter turns expressions into values of a given parameter type.
type converter struct {
	scope   Scope
	symbols SymbolResolver
}

func (cv *converter) dialect() parser.Dialect {
	return cv.scope.dialect()
}

// apparentKind computes the kind of value an expression denotes, without
// regard to the kind expected. It returns an invalid kind for null and for
// nested annotations.
func (cv *converter) apparentKind(expr parser.Expr) Kind {
	switch e := expr.(type) {
	case *parser.LiteralExpr:
		switch e.Kind {
		case parser.BoolLiteral:
			return ScalarKind(KindBoolean)
		case parser.StringLiteral:
			return ScalarKind(KindString)
		case parser.CharLiteral:
			return ScalarKind(KindChar)
		case parser.IntLiteral:
			if hasSuffix(e.Raw, "lL") {
				return ScalarKind(KindLong)
			}
			return ScalarKind(KindInt)
		case parser.FloatLiteral:
			if hasSuffix(e.Raw, "fF") {
				return ScalarKind(KindFloat)
			}
			return ScalarKind(KindDouble)
		}
	case *parser.UnaryExpr:
		k := cv.apparentKind(e.X)
		if k == ScalarKind(KindChar) {
			// unary plus and minus promote char to int
			return ScalarKind(KindInt)
		}
		return k
	case *parser.ArrayExpr:
		if b, ok := arrayFuncKinds[e.Func]; ok {
			return ArrayKind(b)
		}
		if len(e.Elems) > 0 {
			if k := cv.apparentKind(e.Elems[0]); k.IsValid() && !k.IsArray() {
				return k.ArrayOf()
			}
		}
		return Kind{array: true}
	case *parser.RefExpr:
		if wk, ok := lookupWellKnown(e.Name); ok {
			return ScalarKind(wk.kind)
		}
		return ScalarKind(KindEnum)
	case *parser.ClassLitExpr:
		return ScalarKind(KindClassRef)
	}
	return Kind{}
}

func hasSuffix(s, chars string) bool {
	return len(s) > 0 && strings.IndexByte(chars, s[len(s)-1]) >= 0
}

var arrayFuncKinds = map[string]BaseKind{
	"booleanArrayOf": KindBoolean,
	"byteArrayOf":    KindByte,
	"charArrayOf":    KindChar,
	"doubleArrayOf":  KindDouble,
	"floatArrayOf":   KindFloat,
	"intArrayOf":     KindInt,
	"longArrayOf":    KindLong,
}

// convert converts the given expression into a value of the given type.
func (cv *converter) convert(expr parser.Expr, pt ParamType) (Value, error) {
	if pt.Kind.IsArray() {
		return cv.convertArray(expr, pt)
	}
	if arr, ok := expr.(*parser.ArrayExpr); ok {
		return Value{}, kindMismatch(arr.Pos(), pt.Kind, cv.apparentKind(arr))
	}
	return cv.convertScalar(expr, pt)
}

func (cv *converter) convertArray(expr parser.Expr, pt ParamType) (Value, error) {
	elemType := ParamType{Kind: pt.Kind.Elem(), Enum: pt.Enum}
	arr, ok := expr.(*parser.ArrayExpr)
	if !ok {
		if cv.dialect() != parser.Java {
			return Value{}, kindMismatch(expr.Pos(), pt.Kind, cv.apparentKind(expr))
		}
		// Java allows a single element in place of an array with one element.
		v, err := cv.convertScalar(expr, elemType)
		if err != nil {
			return Value{}, err
		}
		return newValue(pt.Kind, []Value{v}, expr.Pos()), nil
	}
	if arr.Form == parser.CallArray {
		if b, ok := arrayFuncKinds[arr.Func]; ok && b != pt.Kind.Base() {
			return Value{}, kindMismatch(arr.Pos(), pt.Kind, ArrayKind(b))
		}
		if _, ok := arrayFuncKinds[arr.Func]; !ok && arr.Func != "arrayOf" && arr.Func != "emptyArray" {
			return Value{}, invalidValue(arr.Pos(), pt.Kind, "%s cannot create an array of %v", arr.Func, pt.Kind.Elem())
		}
		if arr.Func == "emptyArray" && len(arr.Elems) > 0 {
			return Value{}, invalidValue(arr.Pos(), pt.Kind, "emptyArray takes no arguments")
		}
	}
	elems := make([]Value, 0, len(arr.Elems))
	for _, e := range arr.Elems {
		if _, nested := e.(*parser.ArrayExpr); nested {
			return Value{}, kindMismatch(e.Pos(), pt.Kind.Elem(), cv.apparentKind(e))
		}
		v, err := cv.convertScalar(e, elemType)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
	return newValue(pt.Kind, elems, arr.Pos()), nil
}

func (cv *converter) convertScalar(expr parser.Expr, pt ParamType) (Value, error) {
	pos := expr.Pos()
	k := pt.Kind
	apparent := cv.apparentKind(expr)
	if !apparent.IsValid() {
		if lit, ok := expr.(*parser.LiteralExpr); ok && lit.Kind == parser.NullLiteral {
			return Value{}, invalidValue(pos, k, "null is not a valid annotation value")
		}
		if _, ok := expr.(*parser.AnnotationExpr); ok {
			return Value{}, invalidValue(pos, k, "nested annotations are not supported")
		}
		return Value{}, invalidValue(pos, k, "unsupported expression")
	}

	switch k.Base() {
	case KindBoolean:
		lit, ok := expr.(*parser.LiteralExpr)
		if !ok || lit.Kind != parser.BoolLiteral {
			return Value{}, kindMismatch(pos, k, apparent)
		}
		return newValue(k, lit.Bool, pos), nil

	case KindString:
		lit, ok := expr.(*parser.LiteralExpr)
		if !ok || lit.Kind != parser.StringLiteral {
			return Value{}, kindMismatch(pos, k, apparent)
		}
		return newValue(k, lit.Str, pos), nil

	case KindEnum:
		ref, ok := expr.(*parser.RefExpr)
		if !ok || apparent.Base() != KindEnum {
			return Value{}, kindMismatch(pos, k, apparent)
		}
		return cv.convertEnum(ref, pt)

	case KindClassRef:
		cls, ok := expr.(*parser.ClassLitExpr)
		if !ok {
			return Value{}, kindMismatch(pos, k, apparent)
		}
		name := qualifyClassName(cv.scope, cv.symbols, cls.Name)
		return newValue(k, annomodel.ClassRef{Name: name}, pos), nil

	case KindByte, KindChar, KindDouble, KindFloat, KindInt, KindLong:
		if !apparent.Base().IsNumeric() {
			return Value{}, kindMismatch(pos, k, apparent)
		}
		n, err := cv.evalNumeric(expr)
		if err != nil {
			return Value{}, err
		}
		if !cv.assignable(n, k.Base()) {
			return Value{}, kindMismatch(pos, k, ScalarKind(n.kind))
		}
		v, err := convertNumeric(n, k.Base(), pos)
		if err != nil {
			return Value{}, err
		}
		return newValue(k, v, pos), nil

	default:
		panic(fmt.Sprintf("unexpected parameter kind %v", k))
	}
}

func (cv *converter) convertEnum(ref *parser.RefExpr, pt ParamType) (Value, error) {
	k := ScalarKind(KindEnum)
	enum := pt.Enum
	if enum == nil {
		return Value{}, invalidValue(ref.Pos(), k, "enum type is unknown")
	}
	name := ref.Name[len(ref.Name)-1]
	if len(ref.Name) > 1 {
		sym, ok := cv.symbols.ResolveType(cv.scope, ref.Name[:len(ref.Name)-1])
		if !ok || sym.Kind != SymbolEnum {
			return Value{}, invalidValue(ref.Pos(), k, "%s is not a constant of enum %s", ref, enum.QualifiedName)
		}
		if sym.Name != enum.QualifiedName {
			return Value{}, invalidValue(ref.Pos(), k, "%s is a constant of %s, not %s", ref, sym.Name, enum.QualifiedName)
		}
	}
	if !enum.HasConstant(name) {
		return Value{}, invalidValue(ref.Pos(), k, "enum %s has no constant named %s", enum.QualifiedName, name)
	}
	return newValue(k, annomodel.EnumConst{Type: enum.QualifiedName, Name: name}, ref.Pos()), nil
}

// evalNumeric evaluates a numeric constant expression: a literal, a signed
// literal, or a well-known constant.
func (cv *converter) evalNumeric(expr parser.Expr) (numeric, error) {
	switch e := expr.(type) {
	case *parser.LiteralExpr:
		return cv.evalLiteral(e, false)
	case *parser.UnaryExpr:
		var n numeric
		var err error
		if lit, ok := e.X.(*parser.LiteralExpr); ok {
			n, err = cv.evalLiteral(lit, e.Op == "-")
		} else {
			n, err = cv.evalNumeric(e.X)
		}
		if err != nil {
			return numeric{}, err
		}
		if n.kind == KindChar {
			n.kind = KindInt
		}
		if e.Op == "-" {
			if n.isSpecial() {
				n.special = -n.special
			} else {
				n.val = constant.UnaryOp(token.SUB, n.val, 0)
				if cv.dialect() == parser.Java && (n.kind == KindInt || n.kind == KindLong) {
					// Java negation wraps, so -Integer.MIN_VALUE is itself
					n.val = wrapUnsigned(n.val, n.kind)
				}
			}
		}
		return n, nil
	case *parser.RefExpr:
		if wk, ok := lookupWellKnown(e.Name); ok {
			return numeric{kind: wk.kind, val: wk.val, special: wk.special}, nil
		}
	}
	return numeric{}, invalidValue(expr.Pos(), cv.apparentKind(expr), "not a numeric constant")
}

// evalLiteral evaluates a literal. The negated flag indicates that the
// literal is the operand of a unary minus, which is the only place Java
// allows the decimal literals 2147483648 and 9223372036854775808L.
func (cv *converter) evalLiteral(lit *parser.LiteralExpr, negated bool) (numeric, error) {
	pos := lit.Pos()
	switch lit.Kind {
	case parser.CharLiteral:
		return numeric{kind: KindChar, val: constant.MakeUint64(uint64(lit.Char))}, nil

	case parser.IntLiteral:
		text := strings.ReplaceAll(lit.Raw, "_", "")
		kind := KindInt
		if hasSuffix(text, "lL") {
			kind = KindLong
			text = text[:len(text)-1]
		}
		nonDecimal := len(text) > 1 && text[0] == '0'
		if cv.dialect() == parser.Kotlin && nonDecimal && text[1] >= '0' && text[1] <= '9' {
			return numeric{}, invalidValue(pos, ScalarKind(kind), "octal literals are not supported in Kotlin")
		}
		v := constant.MakeFromLiteral(text, token.INT, 0)
		if v.Kind() != constant.Int {
			return numeric{}, invalidValue(pos, ScalarKind(kind), "malformed integer literal %s", lit.Raw)
		}
		if cv.dialect() == parser.Java {
			if err := checkJavaIntLiteral(v, kind, nonDecimal, negated); err != nil {
				return numeric{}, invalidValue(pos, ScalarKind(kind), "integer literal %s %s", lit.Raw, err)
			}
			if nonDecimal {
				// Java hex, octal, and binary literals may use the sign bit.
				v = wrapUnsigned(v, kind)
			}
		}
		if kind == KindInt && cv.dialect() == parser.Kotlin && !fitsInt(v, math.MinInt32, math.MaxInt32) {
			// Kotlin integer literals that do not fit in an Int are Longs.
			kind = KindLong
		}
		return numeric{kind: kind, val: v}, nil

	case parser.FloatLiteral:
		text := strings.ReplaceAll(lit.Raw, "_", "")
		kind := KindDouble
		if hasSuffix(text, "fF") {
			kind = KindFloat
			text = text[:len(text)-1]
		} else if hasSuffix(text, "dD") {
			text = text[:len(text)-1]
		}
		if !strings.ContainsAny(text, ".eE") {
			text += ".0"
		}
		v := constant.MakeFromLiteral(text, token.FLOAT, 0)
		if v.Kind() != constant.Float && v.Kind() != constant.Int {
			return numeric{}, invalidValue(pos, ScalarKind(kind), "malformed floating point literal %s", lit.Raw)
		}
		return numeric{kind: kind, val: v}, nil
	}
	return numeric{}, kindMismatch(pos, ScalarKind(KindDouble), cv.apparentKind(lit))
}

// checkJavaIntLiteral rejects literals that are too large for their type.
// Hex, octal, and binary literals may fill all of the type's bits. Decimal
// literals must fit as a signed value, except that the magnitude of the
// minimum value is allowed when negated.
func checkJavaIntLiteral(v constant.Value, kind BaseKind, nonDecimal, negated bool) error {
	bits := uint(32)
	if kind == KindLong {
		bits = 64
	}
	if nonDecimal {
		limit := constant.Shift(constant.MakeInt64(1), token.SHL, bits)
		if constant.Compare(v, token.GEQ, limit) {
			return fmt.Errorf("overflows %v", kind)
		}
		return nil
	}
	half := constant.Shift(constant.MakeInt64(1), token.SHL, bits-1)
	if constant.Compare(v, token.GTR, half) || (!negated && constant.Compare(v, token.EQL, half)) {
		return fmt.Errorf("overflows %v", kind)
	}
	return nil
}

func wrapUnsigned(v constant.Value, kind BaseKind) constant.Value {
	bits := uint(32)
	if kind == KindLong {
		bits = 64
	}
	limit := constant.Shift(constant.MakeInt64(1), token.SHL, bits)
	half := constant.Shift(constant.MakeInt64(1), token.SHL, bits-1)
	if constant.Compare(v, token.GEQ, half) && constant.Compare(v, token.LSS, limit) {
		return constant.BinaryOp(v, token.SUB, limit)
	}
	return v
}

func fitsInt(v constant.Value, min, max int64) bool {
	i, ok := constant.Int64Val(v)
	return ok && i >= min && i <= max
}

// assignable applies the constant assignment rules of the file's dialect.
// Java allows widening primitive conversions and narrowing of int constants
// to byte and char. Kotlin only adapts integer literals to Byte and Long.
func (cv *converter) assignable(n numeric, to BaseKind) bool {
	from := n.kind
	if cv.dialect() == parser.Kotlin {
		switch to {
		case KindByte:
			return from == KindInt
		case KindLong:
			return from == KindInt || from == KindLong
		default:
			return from == to
		}
	}
	switch to {
	case KindByte:
		return from == KindInt
	case KindChar:
		return from == KindChar || from == KindInt
	case KindInt:
		return from == KindInt || from == KindChar
	case KindLong:
		return from == KindInt || from == KindLong || from == KindChar
	case KindFloat:
		return from != KindDouble
	case KindDouble:
		return true
	}
	return false
}

// convertNumeric converts a numeric constant to the Go representation of the
// given kind, checking that it does not overflow.
func convertNumeric(n numeric, to BaseKind, pos token.Position) (interface{}, error) {
	k := ScalarKind(to)
	if n.isSpecial() {
		switch to {
		case KindDouble:
			return n.special, nil
		case KindFloat:
			return float32(n.special), nil
		default:
			return nil, invalidValue(pos, k, "%v cannot be represented as %v", n.special, k)
		}
	}
	switch to {
	case KindByte, KindChar, KindInt, KindLong:
		if n.val.Kind() != constant.Int {
			return nil, invalidValue(pos, k, "%s is not an integer", n)
		}
		i, ok := constant.Int64Val(n.val)
		if !ok {
			return nil, invalidValue(pos, k, "%s overflows %v", n, k)
		}
		switch to {
		case KindByte:
			if i < math.MinInt8 || i > math.MaxInt8 {
				return nil, invalidValue(pos, k, "%s overflows %v", n, k)
			}
			return int8(i), nil
		case KindChar:
			if i < 0 || i > math.MaxUint16 {
				return nil, invalidValue(pos, k, "%s overflows %v", n, k)
			}
			return annomodel.Char(i), nil
		case KindInt:
			if i < math.MinInt32 || i > math.MaxInt32 {
				return nil, invalidValue(pos, k, "%s overflows %v", n, k)
			}
			return int32(i), nil
		default:
			return i, nil
		}
	case KindFloat:
		// get value as float32, to reduce to expected precision
		f, _ := constant.Float32Val(n.val)
		if math.IsInf(float64(f), 0) {
			return nil, invalidValue(pos, k, "%s overflows %v", n, k)
		}
		return f, nil
	case KindDouble:
		f, _ := constant.Float64Val(n.val)
		if math.IsInf(f, 0) {
			return nil, invalidValue(pos, k, "%s overflows %v", n, k)
		}
		return f, nil
	}
	return nil, invalidValue(pos, k, "not a numeric kind")
}
