package processor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchema(t *testing.T) {
	f, syms := parseSource(t, "Route.java", `
package web;

public @interface Route {
    String value();
    String[] methods() default {"GET"};
    int timeout() default 30;
    Class<?> handler();
}
`)
	s, err := BuildSchema(f.Annotations[0], syms)
	require.NoError(t, err)

	assert.Equal(t, "web.Route", s.Name())
	assert.Equal(t, "Route", s.SimpleName())
	assert.Equal(t, 4, s.Pos().Line)
	assert.Equal(t, 4, s.Len())

	params := s.Params()
	var names []string
	for _, p := range params {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"value", "methods", "timeout", "handler"}, names)

	assert.True(t, params[0].IsRequired())
	_, ok := params[0].Default()
	assert.False(t, ok)
	assert.True(t, params[3].IsRequired())
	assert.Equal(t, ScalarKind(KindClassRef), params[3].Kind())

	methods, ok := s.Param("methods")
	require.True(t, ok)
	assert.Equal(t, ArrayKind(KindString), methods.Kind())
	assert.False(t, methods.IsRequired())
	d, ok := methods.Default()
	require.True(t, ok)
	assert.Equal(t, []string{"GET"}, d.Interface())
	assert.Equal(t, 6, methods.Pos.Line)

	timeout, ok := s.Param("timeout")
	require.True(t, ok)
	d, _ = timeout.Default()
	assert.Equal(t, int32(30), d.Interface())

	_, ok = s.Param("missing")
	assert.False(t, ok)

	// Params returns a copy
	params[0].Name = "changed"
	assert.Equal(t, "value", s.Params()[0].Name)
}

func TestBuildSchema_Duplicate(t *testing.T) {
	f, syms := parseSource(t, "Dup.kt", `
package p

annotation class Dup(val a: Int, val b: Int = 1, val a: String)
`)
	_, err := BuildSchema(f.Annotations[0], syms)
	var sbe *SchemaBuildError
	require.True(t, errors.As(err, &sbe))
	assert.Equal(t, "p.Dup", sbe.Annotation())
	assert.Equal(t, "a", sbe.Parameter())
	var dup *DuplicateParameterError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "p.Dup", dup.Annotation())
	assert.Contains(t, err.Error(), "cannot build schema for annotation p.Dup")
	assert.Contains(t, err.Error(), "p.Dup.a: parameter specified more than once")
}

func TestBuildSchema_BadDefault(t *testing.T) {
	f, syms := parseSource(t, "Bad.kt", `
package p

annotation class Bad(
    val ok: Int = 1,
    val wrong: Int = "one",
)
`)
	_, err := BuildSchema(f.Annotations[0], syms)
	require.Error(t, err)
	var sbe *SchemaBuildError
	require.True(t, errors.As(err, &sbe))
	assert.Equal(t, "wrong", sbe.Parameter())
	assert.Equal(t, 6, sbe.Pos().Line)

	var mismatch *KindMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, ScalarKind(KindInt), mismatch.Expected)
	assert.Equal(t, ScalarKind(KindString), mismatch.Actual)
	assert.Equal(t, "wrong", mismatch.Parameter())
	assert.Equal(t, "Bad.kt", mismatch.Pos().Filename)
	assert.Contains(t, err.Error(), "expecting a value of kind int but got String")
}

func TestBuildSchema_NestedEnum(t *testing.T) {
	f, syms := parseSource(t, "Outer.java", `
package p;

public class Outer {
    public @interface Level {
        Kind kind() default Kind.LOW;
    }

    public enum Kind { LOW, HIGH }
}
`)
	s, err := BuildSchema(f.Annotations[0], syms)
	require.NoError(t, err)
	assert.Equal(t, "p.Outer.Level", s.Name())
	p, ok := s.Param("kind")
	require.True(t, ok)
	require.NotNil(t, p.Type.Enum)
	assert.Equal(t, "p.Outer.Kind", p.Type.String())
	d, ok := p.Default()
	require.True(t, ok)
	assert.Equal(t, "p.Outer.Kind.LOW", d.AsEnum().String())
}

func TestBuildSchema_Idempotent(t *testing.T) {
	f, syms := parseSource(t, "Job.kt", `
package p

enum class Priority { LOW, HIGH }

annotation class Job(
    val name: String,
    val priority: Priority = Priority.HIGH,
    val retries: Int = -3,
    val tags: Array<String> = ["a", "b"],
    val weights: DoubleArray = doubleArrayOf(0.5, 1.0),
    val handler: KClass<*> = Job::class,
)
`)
	first, err := BuildSchema(f.Annotations[0], syms)
	require.NoError(t, err)
	second, err := BuildSchema(f.Annotations[0], syms)
	require.NoError(t, err)

	assert.Equal(t, first.Name(), second.Name())
	assert.Equal(t, first.Params(), second.Params())

	for _, p := range first.Params() {
		q, ok := second.Param(p.Name)
		require.True(t, ok)
		assert.Equal(t, p.Kind(), q.Kind(), p.Name)
		assert.Equal(t, p.IsRequired(), q.IsRequired(), p.Name)
		d1, ok1 := p.Default()
		d2, ok2 := q.Default()
		assert.Equal(t, ok1, ok2, p.Name)
		assert.Equal(t, d1.Interface(), d2.Interface(), p.Name)
	}
}
