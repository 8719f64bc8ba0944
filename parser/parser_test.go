package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const javaSource = `
package com.example.annos;

import java.util.List;
import static com.example.Other.CONST;
import com.example.other.*;

/** Configures a service. */
public @interface Config {
    String name();
    int[] sizes() default {1, 2};
    Class<? extends Number> type() default Integer.class;
    // long legacy() default 1L;
    Mode mode() default Mode.FAST;

    enum Mode { FAST, SLOW }
}

@Config(name = "svc")
public class Service {
    @Config(name = "field", sizes = 3)
    private final List<String> names = null;

    @Config(name = "ctor")
    public Service(int x) {
        this.x = x;
    }

    @Config(name = "method", mode = Config.Mode.SLOW)
    public void run() throws Exception {
        if (x > 0) { call("}"); }
    }
}

enum Color {
    @Config(name = "red") RED,
    GREEN;

    int rgb() { return 0; }
}
`

func TestParseJava(t *testing.T) {
	f, err := Parse("Config.java", strings.NewReader(javaSource))
	require.NoError(t, err)

	assert.Equal(t, Java, f.Dialect)
	assert.Equal(t, "com.example.annos", f.Package)
	require.Len(t, f.Imports, 3)
	assert.Equal(t, Import{Path: "java.util.List", Pos: f.Imports[0].Pos}, f.Imports[0])
	assert.Equal(t, "List", f.Imports[0].Name())
	assert.True(t, f.Imports[1].Static)
	assert.Equal(t, "com.example.Other.CONST", f.Imports[1].Path)
	assert.True(t, f.Imports[2].Wildcard)
	assert.Equal(t, "com.example.other", f.Imports[2].Path)
	assert.Equal(t, "", f.Imports[2].Name())

	require.Len(t, f.Annotations, 1)
	a := f.Annotations[0]
	assert.Equal(t, "Config", a.Name)
	assert.Equal(t, "com.example.annos.Config", a.QualifiedName)
	require.Len(t, a.Params, 4, "commented-out element must not be parsed")

	names := make([]string, len(a.Params))
	for i, p := range a.Params {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"name", "sizes", "type", "mode"}, names)

	assert.Equal(t, "String", a.Params[0].Type.String())
	assert.Nil(t, a.Params[0].Default)

	assert.Equal(t, "int[]", a.Params[1].Type.String())
	assert.Equal(t, 1, a.Params[1].Type.Dims)
	arr, ok := a.Params[1].Default.(*ArrayExpr)
	require.True(t, ok)
	assert.Equal(t, BraceArray, arr.Form)
	require.Len(t, arr.Elems, 2)
	assert.Equal(t, "2", arr.Elems[1].(*LiteralExpr).Raw)

	assert.Equal(t, "Class<? extends Number>", a.Params[2].Type.String())
	cls, ok := a.Params[2].Default.(*ClassLitExpr)
	require.True(t, ok)
	assert.Equal(t, []string{"Integer"}, cls.Name)

	ref, ok := a.Params[3].Default.(*RefExpr)
	require.True(t, ok)
	assert.Equal(t, "Mode.FAST", ref.String())

	require.Len(t, f.Enums, 2)
	assert.Equal(t, "com.example.annos.Config.Mode", f.Enums[0].QualifiedName)
	assert.True(t, f.Enums[0].HasConstant("SLOW"))
	assert.Equal(t, "com.example.annos.Color", f.Enums[1].QualifiedName)
	assert.Len(t, f.Enums[1].Constants, 2)
	assert.False(t, f.Enums[1].HasConstant("rgb"))

	assert.Equal(t, []string{"com.example.annos.Service"}, f.Types)

	type usage struct {
		target string
		kind   ElementKind
		args   int
	}
	var usages []usage
	for _, u := range f.Usages {
		assert.Equal(t, "Config", u.AnnotationName())
		assert.Same(t, f, u.File)
		usages = append(usages, usage{target: u.Target, kind: u.TargetKind, args: len(u.Args)})
	}
	assert.Equal(t, []usage{
		{target: "com.example.annos.Service", kind: TypeElement, args: 1},
		{target: "com.example.annos.Service.names", kind: FieldElement, args: 2},
		{target: "com.example.annos.Service.<init>", kind: ConstructorElement, args: 1},
		{target: "com.example.annos.Service.run", kind: MethodElement, args: 2},
		{target: "com.example.annos.Color.RED", kind: EnumConstantElement, args: 1},
	}, usages)

	arg := f.Usages[3].Args[1]
	assert.Equal(t, "mode", arg.Name)
	assert.Equal(t, []string{"Config", "Mode", "SLOW"}, arg.Value.(*RefExpr).Name)
	assert.Equal(t, 29, arg.Pos.Line)
}

const kotlinSource = `
@file:JvmName("Fixtures")
package com.example.kt

import kotlin.reflect.KClass
import com.example.other.Thing as OtherThing

annotation class Marker(
    val name: String = "",
    val weights: IntArray = intArrayOf(1, 2),
    val kind: KClass<*> = Marker::class,
    @Deprecated("old") val level: Level = Level.LOW,
    val tags: Array<String> = [],
    val ratio: Double? = null,
)

enum class Level { LOW, HIGH }

@Marker("type")
class Holder(val x: Int) : Base(), Iface {
    @Marker(name = "prop", level = Level.HIGH)
    val prop: Int = 5

    @Marker
    fun work(a: Int): String {
        return "done $a"
    }

    companion object {
        @Marker(weights = [3])
        fun create(): Holder {
            return Holder(1)
        }
    }
}
`

func TestParseKotlin(t *testing.T) {
	f, err := Parse("Marker.kt", strings.NewReader(kotlinSource))
	require.NoError(t, err)

	assert.Equal(t, Kotlin, f.Dialect)
	assert.Equal(t, "com.example.kt", f.Package)
	require.Len(t, f.Imports, 2)
	assert.Equal(t, "OtherThing", f.Imports[1].Name())
	assert.Equal(t, "com.example.other.Thing", f.Imports[1].Path)

	require.Len(t, f.Annotations, 1)
	a := f.Annotations[0]
	assert.Equal(t, "com.example.kt.Marker", a.QualifiedName)
	require.Len(t, a.Params, 6)

	lit := a.Params[0].Default.(*LiteralExpr)
	assert.Equal(t, StringLiteral, lit.Kind)
	assert.Equal(t, "", lit.Str)

	call := a.Params[1].Default.(*ArrayExpr)
	assert.Equal(t, CallArray, call.Form)
	assert.Equal(t, "intArrayOf", call.Func)
	assert.Len(t, call.Elems, 2)

	assert.Equal(t, "KClass<*>", a.Params[2].Type.String())
	assert.Equal(t, []string{"Marker"}, a.Params[2].Default.(*ClassLitExpr).Name)

	assert.Equal(t, "Array<String>", a.Params[4].Type.String())
	assert.Equal(t, BracketArray, a.Params[4].Default.(*ArrayExpr).Form)

	assert.True(t, a.Params[5].Type.Nullable)
	assert.Equal(t, NullLiteral, a.Params[5].Default.(*LiteralExpr).Kind)

	require.Len(t, f.Enums, 1)
	assert.Equal(t, []EnumConstant{
		{Name: "LOW", Pos: f.Enums[0].Constants[0].Pos},
		{Name: "HIGH", Pos: f.Enums[0].Constants[1].Pos},
	}, f.Enums[0].Constants)

	assert.Equal(t, []string{"com.example.kt.Holder", "com.example.kt.Holder.Companion"}, f.Types)

	targets := map[string]ElementKind{}
	for _, u := range f.Usages {
		targets[u.AnnotationName()+" "+u.Target] = u.TargetKind
	}
	assert.Equal(t, map[string]ElementKind{
		"Deprecated com.example.kt.Marker.level": ParameterElement,
		"Marker com.example.kt.Holder":           TypeElement,
		"Marker com.example.kt.Holder.prop":      PropertyElement,
		"Marker com.example.kt.Holder.work":      FunctionElement,
		"Marker com.example.kt.Holder.Companion.create": FunctionElement,
	}, targets)

	var holder *Usage
	for _, u := range f.Usages {
		if u.Target == "com.example.kt.Holder" {
			holder = u
		}
	}
	require.NotNil(t, holder)
	require.Len(t, holder.Args, 1)
	assert.Equal(t, "", holder.Args[0].Name)
	assert.Equal(t, "type", holder.Args[0].Value.(*LiteralExpr).Str)
}

func TestParseError(t *testing.T) {
	_, err := Parse("Broken.java", strings.NewReader("package foo;\n\npublic @interface Broken {\n  int x() default ;\n}\n"))
	require.Error(t, err)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "Broken.java", perr.Pos().Filename)
	assert.Equal(t, 4, perr.Pos().Line)
	assert.True(t, strings.HasPrefix(err.Error(), "Broken.java:4:"), err.Error())
	assert.NotNil(t, perr.Underlying())
}

func TestParseErrorInLiteral(t *testing.T) {
	src := "annotation class A(val s: String = \"hello ${name}\")\n"
	_, err := ParseKotlin("A.kt", strings.NewReader(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "string templates are not constant values")
}

func TestParseAnnotationElementWithParams(t *testing.T) {
	_, err := ParseJava("A.java", strings.NewReader("@interface A { int x(int y); }"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not declare parameters")
}

func TestDialectForFile(t *testing.T) {
	assert.Equal(t, Java, DialectForFile("Foo.java"))
	assert.Equal(t, Kotlin, DialectForFile("Foo.kt"))
	assert.Equal(t, Kotlin, DialectForFile("build.gradle.KTS"))
	assert.Equal(t, Java, DialectForFile("README"))
}

func TestParseMalformedElementDefaults(t *testing.T) {
	testCases := []struct {
		name   string
		member string
	}{
		{name: "binary expression", member: "int x() default 1 + 2;"},
		{name: "string concatenation", member: `String x() default "a" + "b";`},
		{name: "missing value", member: "int x() default ;"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := "package p;\n\n@interface A {\n    " + tc.member + "\n    String s();\n}\n"
			f, err := ParseJava("A.java", strings.NewReader(src))
			require.Error(t, err, "element was dropped: %v", f)
			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, 4, perr.Pos().Line)
		})
	}

	// a constant in an annotation body is still fine
	f, err := ParseJava("A.java", strings.NewReader("@interface A { int X = 1 + 2; String s(); }"))
	require.NoError(t, err)
	require.Len(t, f.Annotations, 1)
	require.Len(t, f.Annotations[0].Params, 1)
	assert.Equal(t, "s", f.Annotations[0].Params[0].Name)
}

func TestParseRequiresSeparators(t *testing.T) {
	testCases := []struct {
		name string
		file string
		src  string
	}{
		{name: "java array default", file: "A.java", src: "@interface A { int[] v() default {1 -2}; }"},
		{name: "java array default without minus", file: "A.java", src: "@interface A { int[] v() default {1 2}; }"},
		{name: "java usage arguments", file: "A.java", src: "@A(x = 1 y = 2) class C {}"},
		{name: "java array argument", file: "A.java", src: "@A(v = {1 2}) class C {}"},
		{name: "kotlin array function", file: "A.kt", src: "annotation class A(val v: IntArray = intArrayOf(1 2))"},
		{name: "kotlin bracket array", file: "A.kt", src: "annotation class A(val v: IntArray = [1 2])"},
		{name: "kotlin parameters", file: "A.kt", src: "annotation class A(val x: Int val y: Int)"},
		{name: "kotlin usage arguments", file: "A.kt", src: "@A(1 2) class C"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.file, strings.NewReader(tc.src))
			var perr *ParseError
			assert.True(t, errors.As(err, &perr), "expected a parse error, got %v", err)
		})
	}

	// trailing commas are allowed
	f, err := ParseKotlin("A.kt", strings.NewReader("annotation class A(val v: IntArray = [1, -2,],)\n@A([3, 4],) class C"))
	require.NoError(t, err)
	arr := f.Annotations[0].Params[0].Default.(*ArrayExpr)
	require.Len(t, arr.Elems, 2)
	assert.IsType(t, &UnaryExpr{}, arr.Elems[1])
	require.Len(t, f.Usages, 1)
	require.Len(t, f.Usages[0].Args, 1)
	assert.Len(t, f.Usages[0].Args[0].Value.(*ArrayExpr).Elems, 2)

	f, err = ParseJava("A.java", strings.NewReader("@interface A { int[] v() default {1, -2}; }"))
	require.NoError(t, err)
	assert.Len(t, f.Annotations[0].Params[0].Default.(*ArrayExpr).Elems, 2)
}

func TestTypeArgString(t *testing.T) {
	f, err := ParseKotlin("A.kt", strings.NewReader("annotation class A(val a: KClass<*>, val b: Array<out KClass<*>>, val c: KClass<in Any>)"))
	require.NoError(t, err)
	params := f.Annotations[0].Params
	assert.Equal(t, "KClass<*>", params[0].Type.String())
	assert.Equal(t, "Array<out KClass<*>>", params[1].Type.String())
	assert.Equal(t, "KClass<in Any>", params[2].Type.String())
	assert.True(t, params[0].Type.Args[0].Star)
	assert.True(t, params[0].Type.Args[0].Wildcard)

	f, err = ParseJava("A.java", strings.NewReader("@interface A { Class<?> a(); Class<? extends Number> b(); }"))
	require.NoError(t, err)
	params = f.Annotations[0].Params
	assert.Equal(t, "Class<?>", params[0].Type.String())
	assert.Equal(t, "Class<? extends Number>", params[1].Type.String())
	assert.False(t, params[0].Type.Args[0].Star)
}
