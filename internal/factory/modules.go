// Package factory provides module creation functions for the pipeline runtime.
// It centralizes the logic for instantiating input, filter, and output modules
// from their configuration using the module registry.
//
// # Adding New Module Types
//
// To add a new module type, see the documentation in internal/registry.
// You do NOT need to modify this factory; just register your constructor.
package factory

import (
	"fmt"

	"github.com/feedpipe/runtime/internal/modules/filter"
	"github.com/feedpipe/runtime/internal/modules/input"
	"github.com/feedpipe/runtime/internal/modules/output"
	"github.com/feedpipe/runtime/internal/registry"
	"github.com/feedpipe/runtime/pkg/feed"
)

// CreateInputModule creates an input module instance from configuration.
// Uses the registry to look up the constructor by type.
func CreateInputModule(cfg *feed.ModuleConfig) (input.Module, error) {
	if cfg == nil {
		return nil, nil
	}

	constructor := registry.GetInputConstructor(cfg.Type)
	if constructor == nil {
		return nil, fmt.Errorf("unknown input module type: %s", cfg.Type)
	}
	return constructor(cfg)
}

// CreateFilterModules creates filter module instances from configuration,
// in pipeline order.
func CreateFilterModules(cfgs []feed.ModuleConfig) ([]filter.Module, error) {
	if len(cfgs) == 0 {
		return nil, nil
	}

	modules := make([]filter.Module, 0, len(cfgs))
	for i, cfg := range cfgs {
		constructor := registry.GetFilterConstructor(cfg.Type)
		if constructor == nil {
			return nil, fmt.Errorf("unknown filter module type at index %d: %s (registered: %v)",
				i, cfg.Type, registry.RegisteredFilterTypes())
		}
		module, err := constructor(cfg, i)
		if err != nil {
			return nil, err
		}
		modules = append(modules, module)
	}
	return modules, nil
}

// CreateOutputModule creates an output module instance from configuration.
// Uses the registry to look up the constructor by type.
func CreateOutputModule(cfg *feed.ModuleConfig) (output.Module, error) {
	if cfg == nil {
		return nil, nil
	}

	constructor := registry.GetOutputConstructor(cfg.Type)
	if constructor == nil {
		return nil, fmt.Errorf("unknown output module type: %s", cfg.Type)
	}
	return constructor(cfg)
}
