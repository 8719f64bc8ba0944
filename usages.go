package annomodel

import (
	"fmt"
	"sync"
)

// Param is a single named parameter value in an annotation usage.
type Param struct {
	Name  string
	Value interface{}
}

// Usage is a single annotation usage, with every parameter populated.
type Usage struct {
	// Annotation is the qualified name of the annotation type.
	Annotation string
	// Target is the qualified name of the annotated element.
	Target      string
	ElementType ElementType
	// Params are in the order the annotation declares them.
	Params []Param
}

// Get returns the value of the named parameter.
func (u Usage) Get(name string) (interface{}, bool) {
	for _, p := range u.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Value returns the value of the named parameter as type T. It returns false
// if there is no such parameter or if its value is not a T.
func Value[T any](u Usage, name string) (T, bool) {
	v, ok := u.Get(name)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// MustValue is like Value but panics if the parameter is absent or has a
// different type.
func MustValue[T any](u Usage, name string) T {
	v, ok := u.Get(name)
	if !ok {
		panic(fmt.Sprintf("annotation %s has no parameter %q", u.Annotation, name))
	}
	t, ok := v.(T)
	if !ok {
		var zero T
		panic(fmt.Sprintf("parameter %q of annotation %s is %T, not %T", name, u.Annotation, v, zero))
	}
	return t
}

var (
	registryMu   sync.RWMutex
	allUsages    []Usage
	byAnnotation = map[string][]int{}
	byTarget     = map[string][]int{}
)

// RegisterUsage registers an annotation usage. This is called from
// generated code and is not intended to be called by users.
func RegisterUsage(target string, et ElementType, annotation string, params ...Param) {
	u := Usage{
		Annotation:  annotation,
		Target:      target,
		ElementType: et,
		Params:      params,
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	idx := len(allUsages)
	allUsages = append(allUsages, u)
	byAnnotation[annotation] = append(byAnnotation[annotation], idx)
	byTarget[target] = append(byTarget[target], idx)
}

// UsagesOf returns all registered usages of the given annotation type, in
// registration order.
func UsagesOf(annotation string) []Usage {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return collect(byAnnotation[annotation])
}

// UsagesOn returns all registered usages on the given target element.
func UsagesOn(target string) []Usage {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return collect(byTarget[target])
}

// AllUsages returns every registered usage.
func AllUsages() []Usage {
	registryMu.RLock()
	defer registryMu.RUnlock()
	res := make([]Usage, len(allUsages))
	copy(res, allUsages)
	return res
}

func collect(indexes []int) []Usage {
	if len(indexes) == 0 {
		return nil
	}
	res := make([]Usage, len(indexes))
	for i, idx := range indexes {
		res[i] = allUsages[idx]
	}
	return res
}
