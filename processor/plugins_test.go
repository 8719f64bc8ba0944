package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterProcessor(t *testing.T) {
	var calls []string
	recorder := func(name string) Processor {
		return func(*Context, OutputFactory) error {
			calls = append(calls, name)
			return nil
		}
	}
	RegisterProcessor("test.zeta", recorder("zeta"))
	RegisterProcessor("test.alpha", recorder("alpha"))

	names := RegisteredProcessorNames()
	assert.Subset(t, names, []string{"test.alpha", "test.zeta"})
	assert.IsNonDecreasing(t, names)

	p, ok := RegisteredProcessor("test.alpha")
	require.True(t, ok)
	require.NoError(t, p(nil, nil))
	assert.Equal(t, []string{"alpha"}, calls)
	_, ok = RegisteredProcessor("test.missing")
	assert.False(t, ok)

	calls = nil
	procs, err := SelectProcessors("test.zeta", "test.alpha")
	require.NoError(t, err)
	for _, p := range procs {
		require.NoError(t, p(nil, nil))
	}
	assert.Equal(t, []string{"zeta", "alpha"}, calls)

	_, err = SelectProcessors("test.alpha", "test.missing")
	assert.EqualError(t, err, `no processor registered with name "test.missing"`)

	assert.Len(t, AllRegisteredProcessors(), len(names))

	assert.PanicsWithValue(t, `processor "test.alpha" is already registered`, func() {
		RegisterProcessor("test.alpha", recorder("again"))
	})
	assert.Panics(t, func() { RegisterProcessor("", recorder("x")) })
	assert.Panics(t, func() { RegisterProcessor("test.nil", nil) })
}
