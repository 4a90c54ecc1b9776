// Package config provides functionality for parsing and validating
// pipeline configuration files (JSON/YAML).
// This file converts parsed configuration maps into typed pipeline structures.
package config

import (
	"errors"
	"fmt"

	"github.com/feedpipe/runtime/pkg/feed"
)

// ErrNoPipeline is returned when the configuration has no pipeline section.
var ErrNoPipeline = errors.New("configuration has no 'pipeline' section")

// ToPipeline converts a parsed and validated configuration map into a
// feed.Pipeline. The data is expected to have passed schema validation;
// conversion still guards against shape mismatches so it can be used on
// unvalidated maps in tests.
func ToPipeline(data map[string]any) (*feed.Pipeline, error) {
	raw, ok := data["pipeline"]
	if !ok {
		return nil, ErrNoPipeline
	}
	section, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("'pipeline' must be an object, got %T", raw)
	}

	pipeline := &feed.Pipeline{
		ID:          stringField(section, "id"),
		Name:        stringField(section, "name"),
		Description: stringField(section, "description"),
		Version:     stringField(section, "version"),
		Enabled:     true,
	}
	if enabled, ok := section["enabled"].(bool); ok {
		pipeline.Enabled = enabled
	}

	var err error
	if pipeline.Input, err = moduleField(section, "input"); err != nil {
		return nil, err
	}
	if pipeline.Output, err = moduleField(section, "output"); err != nil {
		return nil, err
	}

	if rawFilters, ok := section["filters"]; ok {
		filters, ok := rawFilters.([]any)
		if !ok {
			return nil, fmt.Errorf("'filters' must be an array, got %T", rawFilters)
		}
		pipeline.Filters = make([]feed.ModuleConfig, 0, len(filters))
		for i, rawFilter := range filters {
			module, err := toModuleConfig(rawFilter)
			if err != nil {
				return nil, fmt.Errorf("filter %d: %w", i, err)
			}
			pipeline.Filters = append(pipeline.Filters, *module)
		}
	}

	return pipeline, nil
}

// moduleField extracts a named module configuration from the section.
func moduleField(section map[string]any, name string) (*feed.ModuleConfig, error) {
	raw, ok := section[name]
	if !ok {
		return nil, fmt.Errorf("'%s' module is required", name)
	}
	module, err := toModuleConfig(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return module, nil
}

// toModuleConfig converts a raw value into a ModuleConfig.
func toModuleConfig(raw any) (*feed.ModuleConfig, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("module must be an object, got %T", raw)
	}

	moduleType, ok := m["type"].(string)
	if !ok || moduleType == "" {
		return nil, errors.New("module 'type' is required")
	}

	module := &feed.ModuleConfig{Type: moduleType}
	if rawConfig, ok := m["config"]; ok {
		config, ok := rawConfig.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("module 'config' must be an object, got %T", rawConfig)
		}
		module.Config = config
	}
	if module.Config == nil {
		module.Config = map[string]any{}
	}

	return module, nil
}

// stringField returns the string value of a field, or empty if absent.
func stringField(section map[string]any, name string) string {
	s, _ := section[name].(string)
	return s
}
