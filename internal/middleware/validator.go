package middleware

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Input validation and sanitization for the upload and event endpoints.

// ValidateExportType checks the export label attached to a report export.
func ValidateExportType(exportType string) error {
	allowed := map[string]bool{
		"pdf":   true,
		"print": true,
	}
	if !allowed[strings.ToLower(exportType)] {
		return fmt.Errorf("invalid export type: %s (allowed: pdf, print)", exportType)
	}
	return nil
}

// ValidateVisitID checks a dwell-beacon visit ID (client-generated UUID).
func ValidateVisitID(visitID string) error {
	if visitID == "" {
		return fmt.Errorf("visit ID cannot be empty")
	}
	if _, err := uuid.Parse(visitID); err != nil {
		return fmt.Errorf("invalid visit ID format")
	}
	return nil
}

// ValidateDwellSeconds bounds a reported dwell time to one day.
func ValidateDwellSeconds(seconds float64) error {
	if seconds < 0 {
		return fmt.Errorf("dwell seconds cannot be negative")
	}
	if seconds > 86400 {
		return fmt.Errorf("dwell seconds out of range")
	}
	return nil
}

// SanitizeFilename reduces an uploaded filename to a safe display name:
// no directories, no control characters, bounded length.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "\x00", "")

	var b strings.Builder
	for _, r := range name {
		if r >= 32 {
			b.WriteRune(r)
		}
	}
	name = strings.TrimSpace(b.String())

	if name == "." || name == ".." {
		return ""
	}
	if len(name) > 255 {
		cut := 255
		// back off to a rune boundary so a multi-byte character is never split
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}
	return name
}
