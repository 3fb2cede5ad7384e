// Package printing renders HTML invoices to PDF with headless Chrome.
package printing

import (
	"bytes"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Document is an HTML page to print
type Document struct {
	HTML  string
	Title string // becomes the PDF title; words are title-cased
	// Margins in millimeters; zero uses DefaultMargins
	Margins Margins
}

// Margins are page margins in millimeters
type Margins struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargins is used for documents without margins
var DefaultMargins = Margins{Top: 12, Right: 12, Bottom: 12, Left: 12}

// A4 paper in millimeters
const (
	a4Width  = 210.0
	a4Height = 297.0
)

// RenderError is a failed rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeInvalidHTML   = "INVALID_HTML"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

// Result is a rendered PDF
type Result struct {
	PDF      []byte
	Pages    int
	Duration time.Duration
}

var titleCaser = cases.Title(language.English, cases.NoLower)

// buildHTML wraps a fragment in a complete UTF-8 document. Complete
// documents are returned unchanged.
func buildHTML(doc Document) string {
	lower := strings.ToLower(doc.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return doc.HTML
	}
	var buf bytes.Buffer
	buf.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	if doc.Title != "" {
		buf.WriteString("<title>")
		buf.WriteString(titleCaser.String(doc.Title))
		buf.WriteString("</title>")
	}
	buf.WriteString("</head><body>")
	buf.WriteString(doc.HTML)
	buf.WriteString("</body></html>")
	return buf.String()
}

// countPages estimates the page count from the /Type /Page markers
func countPages(pdf []byte) int {
	n := bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
	if n < 1 {
		return 1
	}
	return n
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}
