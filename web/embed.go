// Package web carries the embedded page templates and editorial content.
package web

import "embed"

//go:embed templates content
var FS embed.FS
