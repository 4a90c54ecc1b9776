// Package filter provides implementations for filter modules.
// Condition module drops or keeps records based on a conditional expression.
package filter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/feedpipe/runtime/internal/logger"
	"github.com/feedpipe/runtime/pkg/feed"
)

// Common errors for condition module
var (
	// ErrEmptyExpression is returned when no expression is configured.
	ErrEmptyExpression = errors.New("expression cannot be empty")
	// ErrInvalidExpression is returned when the expression syntax is invalid
	ErrInvalidExpression = errors.New("invalid expression syntax")
)

// Routing behavior constants
const (
	OnConditionContinue = "continue"
	OnConditionSkip     = "skip"
)

// ConditionConfig represents the configuration for a condition filter module.
type ConditionConfig struct {
	// Expression is the condition expression string (required)
	Expression string `json:"expression"`
	// OnTrue specifies behavior when condition is true: "continue" (default) or "skip"
	OnTrue string `json:"onTrue,omitempty"`
	// OnFalse specifies behavior when condition is false: "continue" or "skip" (default)
	OnFalse string `json:"onFalse,omitempty"`
	// OnError specifies error handling mode: "fail" (default), "skip", "log"
	OnError string `json:"onError,omitempty"`
}

// ConditionModule implements conditional filtering.
// It evaluates an expression against each record and keeps or drops the
// record according to the onTrue/onFalse routing.
type ConditionModule struct {
	expression string
	onTrue     string
	onFalse    string
	onError    string
	program    *vm.Program
}

// NewConditionFromConfig creates a new condition filter module from configuration.
// It validates the configuration and returns an error if invalid.
func NewConditionFromConfig(config ConditionConfig) (*ConditionModule, error) {
	if config.Expression == "" {
		return nil, ErrEmptyExpression
	}

	onTrue := config.OnTrue
	if onTrue == "" {
		onTrue = OnConditionContinue
	}
	onFalse := config.OnFalse
	if onFalse == "" {
		onFalse = OnConditionSkip
	}
	onError := config.OnError
	if onError == "" {
		onError = OnErrorFail
	}
	if onError != OnErrorFail && onError != OnErrorSkip && onError != OnErrorLog {
		logger.Warn("invalid onError value for condition module; defaulting to fail",
			slog.String("on_error", onError),
		)
		onError = OnErrorFail
	}

	// AllowUndefinedVariables() handles missing fields gracefully
	program, err := expr.Compile(config.Expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	logger.Debug("condition module initialized",
		slog.String("expression", config.Expression),
		slog.String("on_true", onTrue),
		slog.String("on_false", onFalse),
		slog.String("on_error", onError),
	)

	return &ConditionModule{
		expression: config.Expression,
		onTrue:     onTrue,
		onFalse:    onFalse,
		onError:    onError,
		program:    program,
	}, nil
}

// Process implements the filter.Module interface.
// Each record is evaluated against the expression; the onTrue/onFalse routing
// decides whether it continues downstream. Evaluation errors follow the
// configured onError mode.
func (c *ConditionModule) Process(ctx context.Context, in feed.Stream) feed.Stream {
	return func(yield func(feed.Record, error) bool) {
		for record, err := range in {
			if err != nil {
				yield(nil, err)
				return
			}
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			output, err := expr.Run(c.program, map[string]any(record))
			if err != nil {
				switch c.onError {
				case OnErrorSkip:
					logger.Warn("skipping record due to condition evaluation error",
						slog.String("expression", c.expression),
						slog.String("error", err.Error()),
					)
					continue
				case OnErrorLog:
					logger.Error("condition evaluation error (continuing)",
						slog.String("expression", c.expression),
						slog.String("error", err.Error()),
					)
					continue
				default:
					yield(nil, fmt.Errorf("condition evaluation failed: %w", err))
					return
				}
			}

			result, ok := output.(bool)
			if !ok {
				result = toBool(output)
			}

			keep := c.onFalse == OnConditionContinue
			if result {
				keep = c.onTrue == OnConditionContinue
			}
			if !keep {
				continue
			}
			if !yield(record, nil) {
				return
			}
		}
	}
}

// toBool converts a value to boolean.
func toBool(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

// Verify interface compliance at compile time
var _ Module = (*ConditionModule)(nil)
