// Package web embeds the HTML templates and static assets.
package web

import "embed"

// FS holds templates/ and static/.
//
//go:embed templates static
var FS embed.FS

// TemplateRoot is the directory of FS that holds the page templates.
const TemplateRoot = "templates"
