package report

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFRenderer prints the HTML report through headless Chrome. Chrome or
// Chromium must be installed.
type PDFRenderer struct {
	// Timeout bounds the whole browser session. Default: 30s.
	Timeout time.Duration

	// ExecPath overrides the browser binary chromedp looks up.
	ExecPath string
}

func (p *PDFRenderer) Render(ctx context.Context, r *Report, w io.Writer) error {
	var html bytes.Buffer
	if err := (HTMLRenderer{}).Render(ctx, r, &html); err != nil {
		return err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(p.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html.String()).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return &RenderError{Format: FormatPDF, Message: "print with headless browser", Cause: err}
	}

	if _, err := w.Write(pdf); err != nil {
		return &RenderError{Format: FormatPDF, Message: "write", Cause: err}
	}
	return nil
}
