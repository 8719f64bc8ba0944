package processor

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registryLock sync.RWMutex
	registered   = map[string]Processor{}
)

// RegisterProcessor registers an annotation processor under the given name.
// It is typically called from an init function. It panics if the name is
// empty or already taken, or if p is nil.
func RegisterProcessor(name string, p Processor) {
	if name == "" {
		panic("processor name must not be empty")
	}
	if p == nil {
		panic(fmt.Sprintf("processor %q is nil", name))
	}
	registryLock.Lock()
	defer registryLock.Unlock()
	if _, ok := registered[name]; ok {
		panic(fmt.Sprintf("processor %q is already registered", name))
	}
	registered[name] = p
}

// RegisteredProcessor returns the processor registered with the given name.
func RegisteredProcessor(name string) (Processor, bool) {
	registryLock.RLock()
	defer registryLock.RUnlock()
	p, ok := registered[name]
	return p, ok
}

// RegisteredProcessorNames returns the names of all registered processors,
// sorted.
func RegisteredProcessorNames() []string {
	registryLock.RLock()
	defer registryLock.RUnlock()
	names := make([]string, 0, len(registered))
	for name := range registered {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllRegisteredProcessors returns all registered processors, ordered by name.
func AllRegisteredProcessors() []Processor {
	registryLock.RLock()
	defer registryLock.RUnlock()
	names := make([]string, 0, len(registered))
	for name := range registered {
		names = append(names, name)
	}
	sort.Strings(names)
	procs := make([]Processor, len(names))
	for i, name := range names {
		procs[i] = registered[name]
	}
	return procs
}

// SelectProcessors returns the registered processors with the given names, in
// the order given. An unknown name is an error.
func SelectProcessors(names ...string) ([]Processor, error) {
	procs := make([]Processor, 0, len(names))
	for _, name := range names {
		p, ok := RegisteredProcessor(name)
		if !ok {
			return nil, fmt.Errorf("no processor registered with name %q", name)
		}
		procs = append(procs, p)
	}
	return procs, nil
}
