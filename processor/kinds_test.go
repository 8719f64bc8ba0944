package processor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhump/annomodel/parser"
)

func TestKind(t *testing.T) {
	k := ScalarKind(KindEnum)
	assert.True(t, k.IsValid())
	assert.False(t, k.IsArray())
	assert.Equal(t, "enum", k.String())
	assert.Equal(t, "e", k.Tag())

	arr := k.ArrayOf()
	assert.Equal(t, ArrayKind(KindEnum), arr)
	assert.True(t, arr.IsArray())
	assert.Equal(t, k, arr.Elem())
	assert.Equal(t, "enum[]", arr.String())
	assert.Equal(t, "[e", arr.Tag())

	assert.False(t, Kind{}.IsValid())
	assert.Equal(t, "?", Kind{}.Tag())

	tags := map[BaseKind]string{
		KindBoolean: "Z", KindByte: "B", KindChar: "C", KindDouble: "D", KindFloat: "F",
		KindInt: "I", KindLong: "J", KindString: "s", KindEnum: "e", KindClassRef: "c",
	}
	for b, tag := range tags {
		assert.Equal(t, tag, ScalarKind(b).Tag(), b.String())
		assert.Equal(t, b >= KindByte && b <= KindLong, b.IsNumeric(), b.String())
	}
}

// classify declares an annotation with a single parameter and classifies
// its type.
func classify(t *testing.T, dialect parser.Dialect, param string) (ParamType, error) {
	t.Helper()
	var f *parser.File
	var syms *Symbols
	if dialect == parser.Java {
		f, syms = parseSource(t, "A.java", fmt.Sprintf(`package p;
import q.Imported;
enum Color { RED }
@interface Other {}
class Plain {}
@interface A { %s; }
`, param))
	} else {
		f, syms = parseSource(t, "A.kt", fmt.Sprintf(`package p
enum class Color { RED }
annotation class Other
class Plain
annotation class A(%s)
`, param))
	}
	decl := f.Annotations[len(f.Annotations)-1]
	require.Len(t, decl.Params, 1)
	return ClassifyType(decl.Params[0].Type, Scope{File: f, Enclosing: decl.QualifiedName}, syms)
}

func TestClassifyType(t *testing.T) {
	testCases := []struct {
		dialect parser.Dialect
		param   string
		want    Kind
	}{
		{parser.Java, "boolean a()", ScalarKind(KindBoolean)},
		{parser.Java, "byte a()", ScalarKind(KindByte)},
		{parser.Java, "char a()", ScalarKind(KindChar)},
		{parser.Java, "double a()", ScalarKind(KindDouble)},
		{parser.Java, "float a()", ScalarKind(KindFloat)},
		{parser.Java, "int a()", ScalarKind(KindInt)},
		{parser.Java, "long a()", ScalarKind(KindLong)},
		{parser.Java, "String a()", ScalarKind(KindString)},
		{parser.Java, "java.lang.String a()", ScalarKind(KindString)},
		{parser.Java, "Class a()", ScalarKind(KindClassRef)},
		{parser.Java, "Class<?> a()", ScalarKind(KindClassRef)},
		{parser.Java, "Class<? extends Number> a()", ScalarKind(KindClassRef)},
		{parser.Java, "Color a()", ScalarKind(KindEnum)},
		{parser.Java, "p.Color a()", ScalarKind(KindEnum)},
		{parser.Java, "int[] a()", ArrayKind(KindInt)},
		{parser.Java, "int a()[]", ArrayKind(KindInt)},
		{parser.Java, "Color[] a()", ArrayKind(KindEnum)},
		{parser.Java, "Class<?>[] a()", ArrayKind(KindClassRef)},

		{parser.Kotlin, "val a: Boolean", ScalarKind(KindBoolean)},
		{parser.Kotlin, "val a: Byte", ScalarKind(KindByte)},
		{parser.Kotlin, "val a: Char", ScalarKind(KindChar)},
		{parser.Kotlin, "val a: Double", ScalarKind(KindDouble)},
		{parser.Kotlin, "val a: Float", ScalarKind(KindFloat)},
		{parser.Kotlin, "val a: kotlin.Int", ScalarKind(KindInt)},
		{parser.Kotlin, "val a: Long", ScalarKind(KindLong)},
		{parser.Kotlin, "val a: String", ScalarKind(KindString)},
		{parser.Kotlin, "val a: KClass<*>", ScalarKind(KindClassRef)},
		{parser.Kotlin, "val a: kotlin.reflect.KClass<out Any>", ScalarKind(KindClassRef)},
		{parser.Kotlin, "val a: Color", ScalarKind(KindEnum)},
		{parser.Kotlin, "val a: BooleanArray", ArrayKind(KindBoolean)},
		{parser.Kotlin, "val a: kotlin.LongArray", ArrayKind(KindLong)},
		{parser.Kotlin, "val a: Array<String>", ArrayKind(KindString)},
		{parser.Kotlin, "val a: Array<out String>", ArrayKind(KindString)},
		{parser.Kotlin, "val a: Array<KClass<*>>", ArrayKind(KindClassRef)},
		{parser.Kotlin, "val a: Array<Color>", ArrayKind(KindEnum)},
	}
	for _, tc := range testCases {
		t.Run(tc.dialect.String()+" "+tc.param, func(t *testing.T) {
			pt, err := classify(t, tc.dialect, tc.param)
			require.NoError(t, err)
			assert.Equal(t, tc.want, pt.Kind)
			if tc.want.Base() == KindEnum {
				require.NotNil(t, pt.Enum)
				assert.Equal(t, "p.Color", pt.Enum.QualifiedName)
			} else {
				assert.Nil(t, pt.Enum)
			}
		})
	}
}

func TestClassifyType_Unsupported(t *testing.T) {
	testCases := []struct {
		dialect parser.Dialect
		param   string
		reason  string
	}{
		{parser.Java, "short a()", "short is not a supported parameter kind"},
		{parser.Java, "int[][] a()", "arrays of arrays"},
		{parser.Java, "int[] a()[]", "arrays of arrays"},
		{parser.Java, "Integer a()", "not a known enum"},
		{parser.Java, "Imported a()", "not a known enum"},
		{parser.Java, "Other a()", "annotation-typed parameters are not supported"},
		{parser.Java, "Plain a()", "p.Plain is not a supported parameter type"},
		{parser.Java, "java.util.List<String> a()", "generic types"},
		{parser.Java, "Class<String, String> a()", "single type argument"},
		{parser.Java, "Int a()", "not a known enum"},

		{parser.Kotlin, "val a: Short", "short"},
		{parser.Kotlin, "val a: ShortArray", "short"},
		{parser.Kotlin, "val a: Array<Short>", "short"},
		{parser.Kotlin, "val a: Int?", "nullable"},
		{parser.Kotlin, "val a: Array<String?>", "nullable"},
		{parser.Kotlin, "val a: Array<IntArray>", "arrays of arrays"},
		{parser.Kotlin, "val a: Array<Array<Int>>", "arrays of arrays"},
		{parser.Kotlin, "val a: Array<in String>", "Array requires"},
		{parser.Kotlin, "val a: Array<*>", "Array requires"},
		{parser.Kotlin, "val a: Array", "Array requires"},
		{parser.Kotlin, "val a: KClass", "KClass requires a single type argument"},
		{parser.Kotlin, "val a: IntArray<Int>", "not generic"},
		{parser.Kotlin, "val a: Other", "annotation-typed"},
		{parser.Kotlin, "val a: int", "not a known enum"},
		{parser.Kotlin, "val a: List<String>", "generic types"},
	}
	for _, tc := range testCases {
		t.Run(tc.dialect.String()+" "+tc.param, func(t *testing.T) {
			_, err := classify(t, tc.dialect, tc.param)
			var ute *UnsupportedTypeError
			require.True(t, errors.As(err, &ute), "expected *UnsupportedTypeError, got %v", err)
			assert.Contains(t, ute.Reason, tc.reason)
			assert.Contains(t, err.Error(), "unsupported type "+ute.Type)
		})
	}
}
