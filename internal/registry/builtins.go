// Package registry provides module registries for the feedpipe runtime.
// This file registers all built-in modules during initialization.
package registry

import (
	"fmt"

	"github.com/feedpipe/runtime/internal/modules/filter"
	"github.com/feedpipe/runtime/internal/modules/input"
	"github.com/feedpipe/runtime/internal/modules/output"
	"github.com/feedpipe/runtime/pkg/feed"
)

func init() {
	registerBuiltinInputModules()
	registerBuiltinFilterModules()
	registerBuiltinOutputModules()
}

// registerBuiltinInputModules registers all built-in input module types.
func registerBuiltinInputModules() {
	// file - local file / stdin feed source
	RegisterInput("file", func(cfg *feed.ModuleConfig) (input.Module, error) {
		if cfg == nil {
			return nil, nil
		}
		fileConfig, err := input.ParseFileConfig(cfg.Config)
		if err != nil {
			return nil, fmt.Errorf("invalid file input config: %w", err)
		}
		return input.NewFileFromConfig(fileConfig)
	})
}

// registerBuiltinFilterModules registers all built-in filter module types.
func registerBuiltinFilterModules() {
	// unique - first-occurrence deduplication by a configured key field
	RegisterFilter("unique", func(cfg feed.ModuleConfig, index int) (filter.Module, error) {
		uniqueConfig, err := filter.ParseUniqueConfig(cfg.Config)
		if err != nil {
			return nil, fmt.Errorf("invalid unique config at index %d: %w", index, err)
		}
		return filter.NewUniqueFromConfig(uniqueConfig)
	})

	// condition - expression-based record filtering
	RegisterFilter("condition", func(cfg feed.ModuleConfig, index int) (filter.Module, error) {
		condConfig := filter.ConditionConfig{}
		expression, ok := cfg.Config["expression"].(string)
		if !ok || expression == "" {
			return nil, fmt.Errorf("required field 'expression' is missing or empty in condition config at index %d", index)
		}
		condConfig.Expression = expression

		if onTrue, ok := cfg.Config["onTrue"].(string); ok {
			condConfig.OnTrue = onTrue
		}
		if onFalse, ok := cfg.Config["onFalse"].(string); ok {
			condConfig.OnFalse = onFalse
		}
		if onError, ok := cfg.Config["onError"].(string); ok {
			condConfig.OnError = onError
		}

		module, err := filter.NewConditionFromConfig(condConfig)
		if err != nil {
			return nil, fmt.Errorf("invalid condition config at index %d: %w", index, err)
		}
		return module, nil
	})
}

// registerBuiltinOutputModules registers all built-in output module types.
func registerBuiltinOutputModules() {
	// json - JSON array / ndjson destination (file or stdout)
	RegisterOutput("json", func(cfg *feed.ModuleConfig) (output.Module, error) {
		if cfg == nil {
			return nil, nil
		}
		jsonConfig, err := output.ParseJSONConfig(cfg.Config)
		if err != nil {
			return nil, fmt.Errorf("invalid json output config: %w", err)
		}
		return output.NewJSONFromConfig(jsonConfig)
	})
}
