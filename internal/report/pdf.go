package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/saascan/saascan/internal/analysis"
)

type ChromiumPDFRenderer struct {
	chromePath string
}

func NewChromiumPDFRenderer() *ChromiumPDFRenderer {
	return &ChromiumPDFRenderer{chromePath: detectChromePath()}
}

// Render produces an A4 PDF of the record via headless Chromium.
func (r *ChromiumPDFRenderer) Render(ctx context.Context, rec analysis.Record) ([]byte, error) {
	htmlDoc, err := BuildHTML(rec)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			footer := `<div style="width:100%;text-align:center;font-size:9px;color:#666;padding-right:8px;">` +
				`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.5).
				WithMarginBottom(0.75).
				WithMarginLeft(0.45).
				WithMarginRight(0.45).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, err
	}
	return pdf, nil
}

const reportCSS = `
body{font-family:Georgia,serif;color:#1c1917;background:#fff;padding:0.6rem;}
.pdf-wrap{max-width:1000px;margin:0 auto;}
.report-meta{color:#44403c;font-size:0.85rem;margin-bottom:0.5rem;}
.report-meta strong{color:#1c1917;}
.report-badge{display:inline-block;background:#eef2ff;color:#312e81;border:1px solid #c7d2fe;border-radius:4px;padding:0.1rem 0.5rem;font-size:0.8rem;margin-right:0.35rem;}
.report-html h1,.report-html h2{font-family:Helvetica,Arial,sans-serif;}
.report-html table{width:100%;border-collapse:collapse;border:1px solid #a8a29e;font-size:0.8rem;}
.report-html th,.report-html td{border:1px solid #a8a29e;padding:0.35rem 0.45rem;text-align:left;vertical-align:top;}
.report-html thead th{background:#f1f5f9;font-weight:700;}
html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;}
@media print{ @page{size:auto;margin:12mm;} body{padding:0;} .pdf-wrap{max-width:none;} }
`

// BuildHTML renders the record's markdown report into a standalone HTML
// document suitable for printing.
func BuildHTML(rec analysis.Record) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(BuildMarkdown(rec)), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	meta := "<div><strong>Reference:</strong> " + html.EscapeString(rec.ID) + "</div>" +
		"<div><strong>Date:</strong> " + html.EscapeString(rec.Timestamp) + "</div>"
	badge := ""
	if rec.Verdict != "" {
		badge = "<span class='report-badge'>" + html.EscapeString(string(rec.Verdict)) + "</span>"
	}
	badge += fmt.Sprintf("<span class='report-badge'>Score %d</span>", rec.OverallScore)

	return "<!doctype html><html><head><meta charset='utf-8'><title>SaaS Idea Analysis</title>" +
		"<style>" + reportCSS + "</style></head><body>" +
		"<div class='pdf-wrap'>" +
		"<div class='report-meta'>" + meta + "</div>" +
		"<div class='report-badges'>" + badge + "</div>" +
		"<div class='report-html'>" + content.String() + "</div>" +
		"</div></body></html>", nil
}

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
