package middleware

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestValidateExportType(t *testing.T) {
	assert.NoError(t, ValidateExportType("pdf"))
	assert.NoError(t, ValidateExportType("print"))
	assert.NoError(t, ValidateExportType("PDF"))
	assert.Error(t, ValidateExportType("csv"))
	assert.Error(t, ValidateExportType(""))
}

func TestValidateVisitID(t *testing.T) {
	assert.NoError(t, ValidateVisitID("123e4567-e89b-12d3-a456-426614174000"))
	assert.Error(t, ValidateVisitID(""))
	assert.Error(t, ValidateVisitID("not-a-uuid"))
	assert.Error(t, ValidateVisitID("123e4567-e89b-12d3-a456"))
}

func TestValidateDwellSeconds(t *testing.T) {
	assert.NoError(t, ValidateDwellSeconds(0))
	assert.NoError(t, ValidateDwellSeconds(93.4))
	assert.NoError(t, ValidateDwellSeconds(86400))
	assert.Error(t, ValidateDwellSeconds(-1))
	assert.Error(t, ValidateDwellSeconds(86401))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "bail.pdf", "bail.pdf"},
		{"accented", "bail commercial Lévy.pdf", "bail commercial Lévy.pdf"},
		{"path traversal", "../../etc/passwd", "passwd"},
		{"windows path", `C:\Users\x\bail.pdf`, "bail.pdf"},
		{"control chars", "bail\x01\x02.pdf", "bail.pdf"},
		{"null byte", "bail\x00.pdf", "bail.pdf"},
		{"dot only", ".", ""},
		{"dot dot", "..", ""},
		{"whitespace", "  bail.pdf  ", "bail.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}

	long := strings.Repeat("a", 300) + ".pdf"
	assert.Len(t, SanitizeFilename(long), 255)
}

func TestSanitizeFilenameTruncatesOnRuneBoundary(t *testing.T) {
	// 200 × "é" is 400 bytes; a byte cut at 255 would land mid-rune
	long := strings.Repeat("é", 200) + ".pdf"
	got := SanitizeFilename(long)

	assert.LessOrEqual(t, len(got), 255)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 127), got)
}
