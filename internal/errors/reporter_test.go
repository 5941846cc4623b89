package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatErrorIncludesCodeAndLocation(t *testing.T) {
	reporter := NewErrorReporter("trace.dtrace", "F:::BEGIN(a, b[])\n\ta\t5\n")
	err := MalformedHeader(Position{Filename: "trace.dtrace", Line: 2, Column: 1}, "indented entry line has no program point")

	out := reporter.FormatError(err)

	assert.Contains(t, out, ErrorMalformedHeader)
	assert.Contains(t, out, "trace.dtrace:2:1")
	assert.Contains(t, out, "indented entry line has no program point")
}

func TestInconsistentSchemaNotesBothSequences(t *testing.T) {
	err := InconsistentSchema(Position{Filename: "t.dtrace", Line: 10, Column: 1}, "F:::BEGIN", []string{"a", "b"}, []string{"a", "c"})

	assert.Equal(t, ErrorInconsistentSchema, err.Code)
	joined := strings.Join(err.Notes, "\n")
	assert.Contains(t, joined, "a, b")
	assert.Contains(t, joined, "a, c")
}

func TestIsWarning(t *testing.T) {
	assert.True(t, IsWarning(WarningEmptySelection))
	assert.False(t, IsWarning(ErrorMalformedHeader))
}

func TestGetErrorDescriptionKnownAndUnknown(t *testing.T) {
	assert.NotEqual(t, "Unknown error code", GetErrorDescription(ErrorMalformedValue))
	assert.Equal(t, "Unknown error code", GetErrorDescription("E9999"))
}
