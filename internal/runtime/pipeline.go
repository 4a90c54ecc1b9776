// Package runtime provides the pipeline execution engine.
//
// The executor is a thin shim around the modules: it opens the input stream,
// chains each filter onto it lazily, and hands the composed stream to the
// output. Records flow through the whole chain one at a time; no stage
// materializes the feed. Because stages share one lazy stream, per-stage
// timings overlap and only whole-run duration is reported.
package runtime

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/feedpipe/runtime/internal/errhandling"
	"github.com/feedpipe/runtime/internal/factory"
	"github.com/feedpipe/runtime/internal/logger"
	"github.com/feedpipe/runtime/internal/modules/filter"
	"github.com/feedpipe/runtime/internal/modules/input"
	"github.com/feedpipe/runtime/internal/modules/output"
	"github.com/feedpipe/runtime/pkg/feed"
)

// Execution status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrPipelineDisabled is returned when executing a disabled pipeline.
var ErrPipelineDisabled = errors.New("pipeline is disabled")

// Executor runs a pipeline: input → filters → output over one lazy stream.
type Executor struct {
	pipeline *feed.Pipeline
	input    input.Module
	filters  []filter.Module
	output   output.Module
}

// NewExecutor creates an executor for the given pipeline, instantiating all
// modules from their configuration via the factory.
func NewExecutor(pipeline *feed.Pipeline) (*Executor, error) {
	if pipeline == nil {
		return nil, errors.New("pipeline is required")
	}
	if !pipeline.Enabled {
		return nil, ErrPipelineDisabled
	}

	in, err := factory.CreateInputModule(pipeline.Input)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, errors.New("pipeline has no input module")
	}

	filters, err := factory.CreateFilterModules(pipeline.Filters)
	if err != nil {
		return nil, err
	}

	out, err := factory.CreateOutputModule(pipeline.Output)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.New("pipeline has no output module")
	}

	return &Executor{
		pipeline: pipeline,
		input:    in,
		filters:  filters,
		output:   out,
	}, nil
}

// Execute runs the pipeline to completion and returns the execution result.
// The returned error mirrors result.Error for callers that prefer error
// handling over result inspection.
func (e *Executor) Execute(ctx context.Context) (*feed.ExecutionResult, error) {
	result := &feed.ExecutionResult{
		PipelineID: e.pipeline.ID,
		StartedAt:  time.Now(),
	}
	log := logger.WithPipeline(e.pipeline.ID)
	log.Info("execution started", "pipeline_name", e.pipeline.Name, "filters", len(e.filters))

	defer func() {
		if err := e.input.Close(); err != nil {
			log.Warn("closing input module", "error", err.Error())
		}
		if err := e.output.Close(); err != nil {
			log.Warn("closing output module", "error", err.Error())
		}
	}()

	logger.LogStageStart(e.pipeline.ID, "input", e.pipeline.Input.Type)
	stream, err := e.input.Open(ctx)
	if err != nil {
		return e.fail(result, "input", e.pipeline.Input.Type, err)
	}

	for i, f := range e.filters {
		logger.LogStageStart(e.pipeline.ID, "filter", e.pipeline.Filters[i].Type)
		stream = f.Process(ctx, stream)
	}

	logger.LogStageStart(e.pipeline.ID, "output", e.pipeline.Output.Type)
	sent, err := e.output.Send(ctx, stream)
	duration := time.Since(result.StartedAt)
	logger.LogStageEnd(e.pipeline.ID, "output", e.pipeline.Output.Type, sent, duration, err)
	if err != nil {
		result.RecordsProcessed = sent
		return e.fail(result, "output", e.pipeline.Output.Type, err)
	}

	result.CompletedAt = time.Now()
	result.Status = StatusSuccess
	result.RecordsProcessed = sent
	log.Info("execution completed",
		"status", result.Status,
		"records_processed", sent,
		"duration", duration,
	)
	return result, nil
}

// fail finalizes a result with error details and returns the error.
func (e *Executor) fail(result *feed.ExecutionResult, stage, moduleType string, err error) (*feed.ExecutionResult, error) {
	result.CompletedAt = time.Now()
	result.Status = StatusError
	result.Error = &feed.ExecutionError{
		Code:    errorCode(err),
		Message: err.Error(),
		Module:  stage + "/" + moduleType,
	}
	logger.WithPipeline(e.pipeline.ID).Error("execution failed",
		"stage", stage,
		"module_type", moduleType,
		"error", err.Error(),
	)
	return result, err
}

// errorCode maps an error to a short machine-readable code.
func errorCode(err error) string {
	return strings.ToUpper(string(errhandling.Classify(err)))
}
