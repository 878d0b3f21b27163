package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Format names a document format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatPDF      Format = "pdf"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatMarkdown, FormatHTML, FormatJSON, FormatPDF}

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatMarkdown, FormatHTML, FormatJSON, FormatPDF:
		return f, nil
	case "txt":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatMarkdown:
		return "md"
	default:
		return string(f)
	}
}

// ContentType returns the MIME type of the rendered document.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatPDF:
		return "application/pdf"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Renderer writes a report as a document.
type Renderer interface {
	Render(ctx context.Context, r *Report, w io.Writer) error
}

// NewRenderer returns the renderer for format.
func NewRenderer(format Format) (Renderer, error) {
	switch format {
	case FormatText:
		return TextRenderer{}, nil
	case FormatMarkdown:
		return MarkdownRenderer{}, nil
	case FormatHTML:
		return HTMLRenderer{}, nil
	case FormatJSON:
		return JSONRenderer{Indent: true}, nil
	case FormatPDF:
		return &PDFRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// RenderError reports a failure to produce a document.
type RenderError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render %s: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("render %s: %s", e.Format, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// FileName returns a stable file name for the report, e.g.
// "interview-networking-20260301-100000.pdf".
func FileName(r *Report, format Format) string {
	slug := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(r.Category), "-"), "-")
	if slug == "" {
		slug = "interview"
	}
	ts := r.EndedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return fmt.Sprintf("interview-%s-%s.%s", slug, ts.Format("20060102-150405"), format.Ext())
}

// Export renders r into dir and returns the written path.
func Export(ctx context.Context, r *Report, format Format, dir string) (string, error) {
	renderer, err := NewRenderer(format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(dir, FileName(r, format))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}

	if err := renderer.Render(ctx, r, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report file: %w", err)
	}
	return path, nil
}
