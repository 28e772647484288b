// Package web holds the page templates and the public static files.
package web

import "embed"

//go:embed public templates
var Files embed.FS
