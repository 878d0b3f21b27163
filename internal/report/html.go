package report

import (
	"context"
	_ "embed"
	"html/template"
	"io"
	"sync"
)

//go:embed templates/report.html.tmpl
var reportHTML string

var htmlTemplate = sync.OnceValues(func() (*template.Template, error) {
	return template.New("report").Funcs(template.FuncMap{
		"duration": FormatDuration,
	}).Parse(reportHTML)
})

// HTMLRenderer writes a standalone HTML page. Correct answers are shown in
// green and incorrect ones in red.
type HTMLRenderer struct{}

type htmlView struct {
	*Report
	L labels
}

func (HTMLRenderer) Render(_ context.Context, r *Report, w io.Writer) error {
	tmpl, err := htmlTemplate()
	if err != nil {
		return &RenderError{Format: FormatHTML, Message: "parse template", Cause: err}
	}
	if err := tmpl.Execute(w, htmlView{Report: r, L: labelsFor(r.Locale)}); err != nil {
		return &RenderError{Format: FormatHTML, Message: "execute template", Cause: err}
	}
	return nil
}
