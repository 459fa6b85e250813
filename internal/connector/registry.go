package connector

import (
	"fmt"
	"slices"
	"sync"
)

// Constructor is a function that creates a new Connector instance.
type Constructor func() Connector

var (
	mu       sync.RWMutex
	registry = map[string]Constructor{}
)

// Register adds a connector constructor under the given provider name.
func Register(name string, ctor Constructor) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = ctor
}

// Get returns the connector constructor for the given provider name.
func Get(name string) (Constructor, error) {
	mu.RLock()
	defer mu.RUnlock()
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown connector provider: %s", name)
	}
	return ctor, nil
}

// Providers returns the sorted names of all registered providers.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
