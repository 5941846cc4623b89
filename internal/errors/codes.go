package errors

// Error codes for the dinv trace ingester.
//
// spec.md §7 names exactly two fatal kinds plus one non-fatal, absorbed
// kind; the code ranges below leave room for the engine to grow
// additional fatal kinds without renumbering the ones that already exist.
//
// Error code ranges:
// E1000-E1099: Trace ingestion errors (malformed trace)
// E1100-E1199: Schema consistency errors
// E1800-E1899: Warning codes

const (
	// E1001: Header line containing a tab, or otherwise not a valid
	// "TAG:::SUFFIX[(params)]" label.
	ErrorMalformedHeader = "E1001"

	// E1002: A value with an unrecognized lexeme (not an integer, a
	// decimal, "uninit", "NIL", or a "#( ... )" sequence).
	ErrorMalformedValue = "E1002"

	// E1003: The first line of a trace file is not a label line.
	ErrorMissingLeadingLabel = "E1003"

	// E1004: An indented entry line appears with no preceding label.
	ErrorOrphanEntry = "E1004"

	// E1101: Two occurrences of the same program point have differing
	// variable-name sequences.
	ErrorInconsistentSchema = "E1101"

	// W1801: A selection regular expression matched no program point in
	// the file (a non-fatal warning code; no ingestion or CLI path
	// raises it).
	WarningEmptySelection = "W1801"
)

// GetErrorDescription returns a human-readable description of the error code.
func GetErrorDescription(code string) string {
	switch code {
	case ErrorMalformedHeader:
		return "Program point label is malformed"
	case ErrorMalformedValue:
		return "Value does not match the trace value grammar"
	case ErrorMissingLeadingLabel:
		return "Trace file must begin with a program point label"
	case ErrorOrphanEntry:
		return "Indented entry line has no preceding program point label"
	case ErrorInconsistentSchema:
		return "Program point re-occurs with a different variable-name sequence"
	case WarningEmptySelection:
		return "Selection pattern matched no program point"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than a fatal error.
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}
