// Package feed provides public types for feed-processing pipelines.
// This package is intended to be importable by external projects that need
// to interact with the feedpipe runtime.
package feed

import "time"

// Record is one structured item flowing through a pipeline, modeled as a
// mapping from field name to value. Records are treated as opaque by the
// runtime except for the fields a module is configured to inspect.
type Record map[string]any

// Field returns the value of the named field and whether the field exists.
// A nil Record behaves like an empty one.
func (r Record) Field(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

// Pipeline represents a complete pipeline configuration.
// It contains all the modules (Input, Filters, Output) and metadata
// required to run a feed through the runtime.
type Pipeline struct {
	// ID is the unique identifier for this pipeline
	ID string `json:"id"`

	// Name is the human-readable name of the pipeline
	Name string `json:"name"`

	// Description provides additional context about the pipeline
	Description string `json:"description,omitempty"`

	// Version is the pipeline configuration version
	Version string `json:"version"`

	// Input defines the feed source module
	Input *ModuleConfig `json:"input"`

	// Filters is an ordered list of filter modules applied to the feed
	Filters []ModuleConfig `json:"filters,omitempty"`

	// Output defines the feed destination module
	Output *ModuleConfig `json:"output"`

	// Enabled indicates whether the pipeline is active
	Enabled bool `json:"enabled"`

	// CreatedAt is when the pipeline was created
	CreatedAt time.Time `json:"createdAt,omitempty"`

	// UpdatedAt is when the pipeline was last modified
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// ModuleConfig represents the configuration for a pipeline module.
// Modules can be Input, Filter, or Output types.
type ModuleConfig struct {
	// Type identifies the module type (e.g., "file", "unique", "json")
	Type string `json:"type"`

	// Config contains the module-specific configuration
	Config map[string]any `json:"config"`
}

// ExecutionResult represents the result of a pipeline execution.
type ExecutionResult struct {
	// PipelineID is the ID of the executed pipeline
	PipelineID string `json:"pipelineId"`

	// Status is the execution status ("success" or "error")
	Status string `json:"status"`

	// StartedAt is when execution started
	StartedAt time.Time `json:"startedAt"`

	// CompletedAt is when execution completed
	CompletedAt time.Time `json:"completedAt"`

	// RecordsProcessed is the number of records delivered to the output
	RecordsProcessed int `json:"recordsProcessed"`

	// Error contains error details if execution failed
	Error *ExecutionError `json:"error,omitempty"`
}

// ExecutionError contains details about an execution failure.
type ExecutionError struct {
	// Code is the error code
	Code string `json:"code"`

	// Message is the human-readable error message
	Message string `json:"message"`

	// Module is the module where the error occurred
	Module string `json:"module,omitempty"`
}
