package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of an error.
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// EngineError is a structured, positioned error raised while ingesting a
// trace file. It is fatal to the file being ingested (spec.md §7); it is
// never raised for the non-fatal conditions (arithmetic failure, missing
// value) that spec.md requires to be absorbed into weaker invariants
// instead.
type EngineError struct {
	Level    ErrorLevel
	Code     string // Error code like E1001
	Message  string
	Position Position
	Length   int // length of the problematic region, in runes
	Notes    []string
	HelpText string
}

func (e EngineError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s[%s]: %s (%s:%d:%d)", e.Level, e.Code, e.Message, e.Position.Filename, e.Position.Line, e.Position.Column)
	}
	return fmt.Sprintf("%s: %s (%s:%d:%d)", e.Level, e.Message, e.Position.Filename, e.Position.Line, e.Position.Column)
}

func MalformedHeader(pos Position, message string) EngineError {
	return EngineError{Level: Error, Code: ErrorMalformedHeader, Message: message, Position: pos}
}

func MalformedValue(pos Position, message string) EngineError {
	return EngineError{Level: Error, Code: ErrorMalformedValue, Message: message, Position: pos}
}

func MissingLeadingLabel(pos Position) EngineError {
	return EngineError{
		Level:    Error,
		Code:     ErrorMissingLeadingLabel,
		Message:  "the first line of a trace file must be a program point label",
		Position: pos,
		HelpText: "add a \"NAME:::BEGIN\" or \"NAME:::END\" label before any value lines",
	}
}

func OrphanEntry(pos Position, name string) EngineError {
	return EngineError{
		Level:    Error,
		Code:     ErrorOrphanEntry,
		Message:  fmt.Sprintf("entry %q has no preceding program point label", name),
		Position: pos,
	}
}

func InconsistentSchema(pos Position, point string, want, got []string) EngineError {
	return EngineError{
		Level:   Error,
		Code:    ErrorInconsistentSchema,
		Message: fmt.Sprintf("program point %q re-occurs with a different variable-name sequence", point),
		Notes: []string{
			fmt.Sprintf("first seen: %s", strings.Join(want, ", ")),
			fmt.Sprintf("now seen:   %s", strings.Join(got, ", ")),
		},
		Position: pos,
	}
}

// ErrorReporter handles consistent error formatting with source context.
type ErrorReporter struct {
	filename string
	source   string
	lines    []string
}

// NewErrorReporter creates a new error reporter for a file.
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		source:   source,
		lines:    strings.Split(source, "\n"),
	}
}

// FormatError formats an engine error with caret-style source context.
func (er *ErrorReporter) FormatError(err EngineError) string {
	var result strings.Builder

	levelColor := er.getLevelColor(err.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if err.Code != "" {
		result.WriteString(fmt.Sprintf("%s[%s]: %s\n",
			levelColor(string(err.Level)), err.Code, err.Message))
	} else {
		result.WriteString(fmt.Sprintf("%s: %s\n",
			levelColor(string(err.Level)), err.Message))
	}

	lineNumberWidth := er.getLineNumberWidth(err.Position.Line)
	indent := strings.Repeat(" ", lineNumberWidth)

	result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n",
		indent, dim("-->"), er.filename, err.Position.Line, err.Position.Column))

	result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	if err.Position.Line > 1 && err.Position.Line-1 < len(er.lines) {
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			dim(fmt.Sprintf("%*d", lineNumberWidth, err.Position.Line-1)),
			dim("│"),
			er.lines[err.Position.Line-2]))
	}

	if err.Position.Line <= len(er.lines) && err.Position.Line > 0 {
		lineContent := er.lines[err.Position.Line-1]
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			bold(fmt.Sprintf("%*d", lineNumberWidth, err.Position.Line)),
			dim("│"),
			lineContent))

		marker := er.createMarker(err.Position.Column, err.Length, err.Level)
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			indent, dim("│"), marker))
	}

	if err.Position.Line < len(er.lines) {
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			dim(fmt.Sprintf("%*d", lineNumberWidth, err.Position.Line+1)),
			dim("│"),
			er.lines[err.Position.Line]))
	}

	for _, note := range err.Notes {
		noteColor := color.New(color.FgBlue).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n",
			indent, dim("│"), noteColor("note:"), note))
	}

	if err.HelpText != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n",
			indent, dim("│"), helpColor("help:"), err.HelpText))
	}

	result.WriteString("\n")
	return result.String()
}

func (er *ErrorReporter) getLevelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

func (er *ErrorReporter) createMarker(column, length int, level ErrorLevel) string {
	if length <= 0 {
		length = 1
	}

	spaces := strings.Repeat(" ", max(0, column-1))

	var markerChar string
	var markerColor func(...interface{}) string

	switch level {
	case Error:
		markerChar = "^"
		markerColor = color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		markerChar = "^"
		markerColor = color.New(color.FgYellow, color.Bold).SprintFunc()
	default:
		markerChar = "^"
		markerColor = color.New(color.FgRed, color.Bold).SprintFunc()
	}

	marker := strings.Repeat(markerChar, length)
	return spaces + markerColor(marker)
}

func (er *ErrorReporter) getLineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3
	}
	return width
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
