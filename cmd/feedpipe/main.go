// Package main provides the CLI entry point for the feedpipe runtime.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/feedpipe/runtime/internal/config"
	"github.com/feedpipe/runtime/internal/logger"
	"github.com/feedpipe/runtime/internal/runtime"
)

// Exit codes
const (
	ExitSuccess         = 0
	ExitValidationError = 1
	ExitParseError      = 2
	ExitRuntimeError    = 3
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	logFormat string

	// Build information (set via ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitRuntimeError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "feedpipe",
	Short: "Feedpipe - Declarative feed pipeline runtime",
	Long: `Feedpipe is a CLI tool for running declarative feed pipelines.

It parses and validates pipeline configurations (JSON/YAML format),
then executes them according to the defined Input → Filter → Output pattern.

Examples:
  # Validate a configuration file
  feedpipe validate pipeline.json

  # Run a pipeline
  feedpipe run pipeline.yaml

  # Run with verbose output
  feedpipe run --verbose pipeline.yaml`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// Configure logger level and format based on flags
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		} else if quiet {
			level = slog.LevelError
		}
		format := logger.FormatJSON
		if logFormat == "human" {
			format = logger.FormatHuman
		}
		logger.SetLevelAndFormat(level, format)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <config-file>",
	Short: "Validate a pipeline configuration file",
	Long: `Validate a pipeline configuration file against the schema.

Supports both JSON and YAML formats. The format is auto-detected
based on file extension (.json, .yaml, .yml) or content.

Exit codes:
  0 - Configuration is valid
  1 - Validation errors (schema violations)
  2 - Parse errors (invalid JSON/YAML syntax)`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

var runCmd = &cobra.Command{
	Use:   "run <config-file>",
	Short: "Run a pipeline from configuration file",
	Long: `Run a pipeline defined in the configuration file.

The configuration file is first validated against the schema.
If validation fails, the pipeline will not be executed.

Exit codes:
  0 - Pipeline executed successfully
  1 - Validation errors
  2 - Parse errors
  3 - Runtime errors`,
	Args: cobra.ExactArgs(1),
	Run:  runPipeline,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version, commit hash, and build date information.",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("feedpipe %s (commit %s, built %s)\n", version, commit, buildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "Log output format (json, human)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func runValidate(_ *cobra.Command, args []string) {
	configPath := args[0]

	if !quiet {
		fmt.Printf("Validating configuration: %s\n", configPath)
	}

	result := config.ParseConfig(configPath)

	if len(result.ParseErrors) > 0 {
		printParseErrors(result.ParseErrors)
		os.Exit(ExitParseError)
	}
	if len(result.ValidationErrors) > 0 {
		printValidationErrors(result.ValidationErrors)
		os.Exit(ExitValidationError)
	}

	if !quiet {
		fmt.Printf("✓ Configuration is valid (format: %s)\n", result.Format)
	}
	os.Exit(ExitSuccess)
}

func runPipeline(cmd *cobra.Command, args []string) {
	configPath := args[0]

	if !quiet {
		fmt.Printf("Loading pipeline configuration: %s\n", configPath)
	}

	result := config.ParseConfig(configPath)

	if len(result.ParseErrors) > 0 {
		printParseErrors(result.ParseErrors)
		os.Exit(ExitParseError)
	}
	if len(result.ValidationErrors) > 0 {
		printValidationErrors(result.ValidationErrors)
		os.Exit(ExitValidationError)
	}

	pipeline, err := config.ToPipeline(result.Data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitValidationError)
	}

	executor, err := runtime.NewExecutor(pipeline)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitRuntimeError)
	}

	execResult, err := executor.Execute(cmd.Context())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitRuntimeError)
	}

	if !quiet {
		fmt.Printf("✓ Pipeline completed: %d records\n", execResult.RecordsProcessed)
	}
	os.Exit(ExitSuccess)
}

func printParseErrors(errors []config.ParseError) {
	fmt.Fprintf(os.Stderr, "Parse errors:\n")
	for _, e := range errors {
		fmt.Fprintf(os.Stderr, "  ✗ %s\n", e.Error())
	}
}

func printValidationErrors(errors []config.ValidationError) {
	fmt.Fprintf(os.Stderr, "Validation errors:\n")
	for _, e := range errors {
		fmt.Fprintf(os.Stderr, "  ✗ %s\n", e.Error())
	}
}
