package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCategory_String(t *testing.T) {
	tests := map[string]struct {
		category ErrorCategory
		want     string
	}{
		"argument":         {Argument, "Argument Error"},
		"configuration":    {Configuration, "Configuration Error"},
		"prerequisite":     {Prerequisite, "Prerequisite Error"},
		"runtime":          {Runtime, "Runtime Error"},
		"unknown category": {ErrorCategory(99), "Error"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.category.String())
		})
	}
}

func TestCLIError_Error(t *testing.T) {
	err := NewRuntimeError("something broke")
	assert.Equal(t, "something broke", err.Error())
}

func TestWrap(t *testing.T) {
	err := Wrap(assert.AnError, "loading release notes")
	assert.Equal(t, Runtime, err.Category)
	assert.Contains(t, err.Message, "loading release notes: ")
	assert.Contains(t, err.Message, assert.AnError.Error())
}

func TestFormatErrorPlain(t *testing.T) {
	err := NewArgumentErrorWithUsage(
		"invalid version identifier \"abc\"",
		"relnote new <version>",
		"Use a dotted numeric version such as 2.24.0",
		"Use \"unreleased\" for unshipped changes",
	)

	out := FormatErrorPlain(err)
	assert.Contains(t, out, "Error [Argument Error]: invalid version identifier \"abc\"")
	assert.Contains(t, out, "Usage: relnote new <version>")
	assert.Contains(t, out, "To fix this:")
	assert.Contains(t, out, "  • Use a dotted numeric version such as 2.24.0")
}

func TestFormatError_NilError(t *testing.T) {
	assert.Empty(t, FormatError(nil))
	assert.Empty(t, FormatErrorPlain(nil))
}
