package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/roach88/people/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess = 0 // Successful execution
	ExitFailure = 1 // Storage failure (unwritable path, corrupt file, ...)
	ExitUsage   = 2 // Argument error, reported before any storage access
)

// Error codes reported by OutputFormatter.Error.
const (
	CodeUsage   = "E001"
	CodeStorage = "E002"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitUsage)
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
// Errors that are not ExitErrors come from cobra's flag and argument
// parsing, so they map to ExitUsage.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}

// errorCode maps an error to the code shown by OutputFormatter.Error.
func errorCode(err error) string {
	if GetExitCode(err) == ExitFailure {
		return CodeStorage
	}
	return CodeUsage
}

// OutputFormatter handles text, JSON and YAML output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard structured response for json and yaml output.
type CLIResponse struct {
	Status string      `json:"status" yaml:"status"`                   // "ok" or "error"
	Data   interface{} `json:"data,omitempty" yaml:"data,omitempty"`   // success payload
	Error  *CLIError   `json:"error,omitempty" yaml:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code" yaml:"code"`                           // "E001", "E002"
	Message string      `json:"message" yaml:"message"`                     // human-readable message
	Details interface{} `json:"details,omitempty" yaml:"details,omitempty"` // additional context
}

// Success writes data in the standard response envelope: YAML when the
// format is "yaml", JSON otherwise. Text output is rendered by the caller.
func (f *OutputFormatter) Success(data interface{}) error {
	resp := CLIResponse{Status: "ok", Data: data}
	if f.Format == "yaml" {
		return encodeYAML(f.Writer, resp)
	}
	return json.NewEncoder(f.Writer).Encode(resp)
}

// People outputs a list of records: the fixed-width table for text, the
// standard response envelope otherwise.
func (f *OutputFormatter) People(records []store.Record) error {
	if f.Format == "text" || f.Format == "" {
		DisplayPeople(f.Writer, records)
		return nil
	}
	if records == nil {
		records = []store.Record{}
	}
	return f.Success(records)
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	resp := CLIResponse{
		Status: "error",
		Error: &CLIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	switch f.Format {
	case "json":
		return json.NewEncoder(f.Writer).Encode(resp)
	case "yaml":
		return encodeYAML(f.Writer, resp)
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func encodeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// EmptyListMessage is printed by DisplayPeople for an empty list.
const EmptyListMessage = "List is empty."

// Table column widths: row number, name, third and fourth column.
const (
	colNumber = 4
	colName   = 30
	colThird  = 14
	colFourth = 19
)

// DisplayPeople writes records as a bordered fixed-width table.
//
// The third column holds the phone number and the fourth the birth date,
// while the header reads "Birth date" then "Phone number". The mismatch is
// long-standing output that scripts may parse, so it is kept as is.
func DisplayPeople(w io.Writer, records []store.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, EmptyListMessage)
		return
	}

	line := fmt.Sprintf("+-%s-+-%s-+-%s-+-%s-+",
		strings.Repeat("-", colNumber),
		strings.Repeat("-", colName),
		strings.Repeat("-", colThird),
		strings.Repeat("-", colFourth),
	)

	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
		center("No", colNumber),
		center("Full name", colName),
		center("Birth date", colThird),
		center("Phone number", colFourth),
	)
	fmt.Fprintln(w, line)

	for i, r := range records {
		fmt.Fprintf(w, "| %*d | %-*s | %-*s | %*s |\n",
			colNumber, i+1,
			colName, r.Name,
			colThird, formatPhone(r.Phone),
			colFourth, r.Birth,
		)
	}
	fmt.Fprintln(w, line)
}

func formatPhone(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}

// center pads s to width, putting the odd space on the right.
func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}
