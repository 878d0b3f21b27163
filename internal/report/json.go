package report

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/interviewz/internal/evaluation"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed templates/report.schema.json
var exportSchemaJSON string

const exportSchemaURL = "https://interviewz.local/schemas/report.json"

var exportSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(exportSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse export schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(exportSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add export schema: %w", err)
	}
	return c.Compile(exportSchemaURL)
})

// ExportDocument is the JSON document written for a report.
type ExportDocument struct {
	SessionID    string            `json:"session_id,omitempty"`
	Category     string            `json:"category"`
	Locale       string            `json:"locale,omitempty"`
	Model        string            `json:"model,omitempty"`
	Date         string            `json:"date"`
	NumQuestions int               `json:"num_questions"`
	Score        int               `json:"score"`
	MaxScore     int               `json:"max_score"`
	DurationMs   int64             `json:"duration_ms"`
	Duration     string            `json:"duration"`
	StartedAt    *time.Time        `json:"started_at,omitempty"`
	EndedAt      *time.Time        `json:"ended_at,omitempty"`
	Results      []evaluation.Line `json:"results"`
}

// NewExport converts a report to its export document.
func NewExport(r *Report) ExportDocument {
	e := ExportDocument{
		SessionID:    r.SessionID,
		Category:     r.Category,
		Locale:       r.Locale,
		Model:        r.Model,
		NumQuestions: len(r.Results),
		Score:        r.Score,
		MaxScore:     r.MaxScore,
		DurationMs:   r.DurationMs,
		Duration:     FormatDuration(r.Duration()),
		Results:      r.Results,
	}
	if e.Results == nil {
		e.Results = []evaluation.Line{}
	}
	if !r.StartedAt.IsZero() {
		t := r.StartedAt.UTC()
		e.StartedAt = &t
	}
	if !r.EndedAt.IsZero() {
		t := r.EndedAt.UTC()
		e.EndedAt = &t
		e.Date = t.Format(time.DateOnly)
	}
	return e
}

// JSONRenderer writes the export document, validated against the
// embedded export schema.
type JSONRenderer struct {
	Indent bool
}

func (j JSONRenderer) Render(_ context.Context, r *Report, w io.Writer) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if j.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(NewExport(r)); err != nil {
		return &RenderError{Format: FormatJSON, Message: "encode", Cause: err}
	}

	if err := ValidateExport(buf.Bytes()); err != nil {
		return &RenderError{Format: FormatJSON, Message: "validate", Cause: err}
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &RenderError{Format: FormatJSON, Message: "write", Cause: err}
	}
	return nil
}

// ValidateExport checks raw JSON against the export schema.
func ValidateExport(raw []byte) error {
	schema, err := exportSchema()
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parse export: %w", err)
	}
	return schema.Validate(doc)
}

// FromExport rebuilds a Report from an export document.
func FromExport(raw []byte) (*Report, error) {
	if err := ValidateExport(raw); err != nil {
		return nil, err
	}
	var e ExportDocument
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	r := &Report{
		SessionID:  e.SessionID,
		Category:   e.Category,
		Locale:     e.Locale,
		Model:      e.Model,
		Results:    e.Results,
		DurationMs: e.DurationMs,
		Score:      e.Score,
		MaxScore:   e.MaxScore,
	}
	if e.StartedAt != nil {
		r.StartedAt = *e.StartedAt
	}
	if e.EndedAt != nil {
		r.EndedAt = *e.EndedAt
	}
	return r, nil
}
