package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/KaramelBytes/autoeda-cli/internal/frame"
	"github.com/KaramelBytes/autoeda-cli/internal/schema"
)

// Markdown renders a compact report.
func (p *Profile) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# %s\n\n", p.Title))
	b.WriteString("[DATASET SUMMARY]\n")
	if p.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", p.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", p.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(p.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range p.Cols {
		b.WriteString(fmt.Sprintf("- %s: %s [%s] (non-null %d, missing %.1f%%)", safeName(c.Name), c.Category, c.Storage, c.NonNull, c.MissingPct()))
		b.WriteString(c.detail())
		b.WriteString("\n")
	}
	if len(p.Corr) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, pc := range p.Corr {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", pc.A, pc.B, pc.R))
		}
	}
	if len(p.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, h := range p.Header {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(h))
		}
		b.WriteString(" |\n|")
		for range p.Header {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for _, row := range p.Samples {
			b.WriteString("| ")
			for i, val := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(safeVal(truncate(val)))
			}
			b.WriteString(" |\n")
		}
	}
	if len(p.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range p.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// detail renders the category specific part of a schema line.
func (c ColumnSummary) detail() string {
	var b strings.Builder
	switch c.Category {
	case schema.TaxonomyNumeric:
		b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
		if c.OutlierThreshold > 0 {
			b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
			if c.OutliersMaxAbsZ > 0 {
				b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.OutliersMaxAbsZ))
			}
		}
	case schema.TaxonomyDatetime:
		if !c.First.IsZero() {
			b.WriteString(fmt.Sprintf(" — from %s to %s", frame.FormatTime(c.First, false), frame.FormatTime(c.Last, false)))
		}
	case schema.TaxonomyCategorical, schema.TaxonomyText:
		b.WriteString(fmt.Sprintf(" — unique=%d", c.Unique))
		if c.Category == schema.TaxonomyText {
			b.WriteString(fmt.Sprintf(", mean length %.1f", c.MeanLength))
		}
		if len(c.TopValues) > 0 {
			b.WriteString("; top: ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
		}
	}
	return b.String()
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct":    func(c ColumnSummary) string { return fmt.Sprintf("%.1f%%", c.MissingPct()) },
	"detail": func(c ColumnSummary) string { return strings.TrimPrefix(c.detail(), " — ") },
	"corr":   func(r float64) string { return fmt.Sprintf("%.3f", r) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:sans-serif;margin:2em}
table{border-collapse:collapse;margin-bottom:1.5em}
th,td{border:1px solid #ccc;padding:4px 8px;text-align:left}
th{background:#f4f4f4}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>File: {{.Name}} &middot; Rows: {{.Rows}} &middot; Columns: {{len .Cols}}{{if .Minimal}} &middot; minimal{{end}}{{if .Explorative}} &middot; explorative{{end}}</p>
<h2>Variables</h2>
<table>
<tr><th>Column</th><th>Type</th><th>Storage</th><th>Non-null</th><th>Missing</th><th>Summary</th></tr>
{{range .Cols}}<tr><td>{{.Name}}</td><td>{{.Category}}</td><td>{{.Storage}}</td><td>{{.NonNull}}</td><td>{{pct .}}</td><td>{{detail .}}</td></tr>
{{end}}</table>
{{if .Corr}}<h2>Correlations</h2>
<table>
<tr><th>A</th><th>B</th><th>r</th></tr>
{{range .Corr}}<tr><td>{{.A}}</td><td>{{.B}}</td><td>{{corr .R}}</td></tr>
{{end}}</table>
{{end}}{{if .Samples}}<h2>Sample</h2>
<table>
<tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
{{range .Samples}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
{{end}}{{if .Warnings}}<h2>Notes</h2>
<ul>{{range .Warnings}}<li>{{.}}</li>{{end}}</ul>
{{end}}</body>
</html>
`))

// HTML renders a standalone HTML document.
func (p *Profile) HTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

func truncate(s string) string {
	if len(s) > 80 {
		return s[:77] + "..."
	}
	return s
}
