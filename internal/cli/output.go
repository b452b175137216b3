package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/recipekb/internal/recipe"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failed (store unavailable, build aborted)
	ExitCommandError = 2 // Command error (invalid arguments, paths, database not found)
)

// Error codes reported in JSON error responses.
const (
	ErrCodeInvalidInput = "E002" // Invalid arguments or flags
	ErrCodeConfig       = "E003" // Configuration could not be loaded
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeStore        = "E010" // Recipe store unavailable
	ErrCodeBuild        = "E011" // Build failed
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// In text mode data is printed with its String method or %v.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.GetErrWriter(), "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.GetErrWriter(), "Details: %v\n", details)
	}
	return nil
}

// Fail returns err as an ExitError with the given exit code. In JSON mode the
// error is also written as a CLIResponse so stdout stays machine-readable;
// text mode leaves printing to the caller of Execute.
func (f *OutputFormatter) Fail(exitCode int, errCode, message string, err error) error {
	if f.Format == "json" {
		var details any
		if err != nil {
			details = err.Error()
		}
		_ = f.Error(errCode, message, details)
	}
	return WrapExitError(exitCode, message, err)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// RecipesResult is the payload of every recipe-listing command.
type RecipesResult struct {
	Query   map[string]any  `json:"query"`
	Count   int             `json:"count"`
	Recipes []recipe.Record `json:"recipes"`
}

// String renders the result for text output.
func (r RecipesResult) String() string {
	if r.Count == 0 {
		return "No recipes found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d recipe(s):\n", r.Count)
	for _, rec := range r.Recipes {
		writeRecord(&b, rec)
	}
	return strings.TrimRight(b.String(), "\n")
}

// writeRecord prints one record as a short block:
//
//	minecraft:chest  1x Chest  (minecraft:crafting_shaped, chest)
//	  ingredients: 8x #minecraft:planks
//	  pattern:     ### | # # | ###
func writeRecord(w io.Writer, rec recipe.Record) {
	sum := rec.Summary()
	fmt.Fprintf(w, "\n%s  %s  (%s, %s)\n", rec.ResultItem, sum.Output, sum.Type, rec.Source)

	if len(sum.Ingredients) == 0 {
		fmt.Fprintln(w, "  ingredients: (none)")
	} else {
		fmt.Fprintf(w, "  ingredients: %s\n", groupIngredients(sum.Ingredients))
	}
	if len(sum.Pattern) > 0 {
		fmt.Fprintf(w, "  pattern:     %s\n", strings.Join(sum.Pattern, " | "))
	}
}

// groupIngredients collapses a sorted multiset to "2x a, b".
func groupIngredients(ids []string) string {
	var parts []string
	for i := 0; i < len(ids); {
		j := i
		for j < len(ids) && ids[j] == ids[i] {
			j++
		}
		if n := j - i; n > 1 {
			parts = append(parts, fmt.Sprintf("%dx %s", n, ids[i]))
		} else {
			parts = append(parts, ids[i])
		}
		i = j
	}
	return strings.Join(parts, ", ")
}
