// Package registry provides module registries for input, filter, and output modules.
//
// # Overview
//
// The registry package enables extensible module registration for the feedpipe
// runtime. Instead of hard-coded switch statements, modules register their
// constructors by type string. This allows contributors to add new module
// types without modifying core factory code.
//
// # Adding a New Module
//
// To add a new module type:
//
//  1. Implement the appropriate interface (input.Module, filter.Module, or output.Module)
//  2. Create a constructor function matching the registry signature
//  3. Register the constructor in an init() function
//
// # Built-in Modules
//
// Built-in modules (file, unique, condition, json) are registered
// automatically at runtime startup via init() functions in builtins.go.
package registry

import (
	"slices"
	"sync"

	"github.com/feedpipe/runtime/internal/modules/filter"
	"github.com/feedpipe/runtime/internal/modules/input"
	"github.com/feedpipe/runtime/internal/modules/output"
	"github.com/feedpipe/runtime/pkg/feed"
)

// InputConstructor is a function that creates an input module from configuration.
// Returns an error if the configuration is invalid.
type InputConstructor func(cfg *feed.ModuleConfig) (input.Module, error)

// FilterConstructor is a function that creates a filter module from configuration.
// The constructor receives the ModuleConfig and the filter's index in the pipeline.
// Returns an error if the configuration is invalid.
type FilterConstructor func(cfg feed.ModuleConfig, index int) (filter.Module, error)

// OutputConstructor is a function that creates an output module from configuration.
// Returns an error if the configuration is invalid.
type OutputConstructor func(cfg *feed.ModuleConfig) (output.Module, error)

// inputRegistry holds registered input module constructors.
var (
	inputMu       sync.RWMutex
	inputRegistry = make(map[string]InputConstructor)
)

// filterRegistry holds registered filter module constructors.
var (
	filterMu       sync.RWMutex
	filterRegistry = make(map[string]FilterConstructor)
)

// outputRegistry holds registered output module constructors.
var (
	outputMu       sync.RWMutex
	outputRegistry = make(map[string]OutputConstructor)
)

// RegisterInput registers an input module constructor for the given type.
// Registering the same type twice overwrites the previous constructor.
func RegisterInput(moduleType string, constructor InputConstructor) {
	inputMu.Lock()
	defer inputMu.Unlock()
	inputRegistry[moduleType] = constructor
}

// GetInputConstructor returns the constructor for the given input module type,
// or nil if no constructor is registered.
func GetInputConstructor(moduleType string) InputConstructor {
	inputMu.RLock()
	defer inputMu.RUnlock()
	return inputRegistry[moduleType]
}

// RegisterFilter registers a filter module constructor for the given type.
// Registering the same type twice overwrites the previous constructor.
func RegisterFilter(moduleType string, constructor FilterConstructor) {
	filterMu.Lock()
	defer filterMu.Unlock()
	filterRegistry[moduleType] = constructor
}

// GetFilterConstructor returns the constructor for the given filter module type,
// or nil if no constructor is registered.
func GetFilterConstructor(moduleType string) FilterConstructor {
	filterMu.RLock()
	defer filterMu.RUnlock()
	return filterRegistry[moduleType]
}

// RegisterOutput registers an output module constructor for the given type.
// Registering the same type twice overwrites the previous constructor.
func RegisterOutput(moduleType string, constructor OutputConstructor) {
	outputMu.Lock()
	defer outputMu.Unlock()
	outputRegistry[moduleType] = constructor
}

// GetOutputConstructor returns the constructor for the given output module type,
// or nil if no constructor is registered.
func GetOutputConstructor(moduleType string) OutputConstructor {
	outputMu.RLock()
	defer outputMu.RUnlock()
	return outputRegistry[moduleType]
}

// RegisteredFilterTypes returns the sorted list of registered filter types.
// Intended for diagnostics and error messages.
func RegisteredFilterTypes() []string {
	filterMu.RLock()
	defer filterMu.RUnlock()
	types := make([]string, 0, len(filterRegistry))
	for t := range filterRegistry {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
