// Package report turns a typed dataset and its taxonomy into a profiling document.
package report

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KaramelBytes/autoeda-cli/internal/frame"
	"github.com/KaramelBytes/autoeda-cli/internal/schema"
)

// Input is everything a generator receives for one file. Minimal and
// Explorative are caller choices and are only interpreted by the generator.
type Input struct {
	Dataset     *frame.Frame
	Types       map[string]schema.TaxonomyCategory
	Title       string
	Minimal     bool
	Explorative bool
}

// Document is a rendered report ready to be written to disk.
type Document struct {
	Title     string
	FileName  string
	MediaType string
	Body      []byte
}

// Generator produces a report document from a typed dataset.
type Generator interface {
	Generate(in Input) (*Document, error)
}

// Format selects how the bundled Profiler renders documents.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts "html", "markdown" or "md".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unsupported report format: %s (use html|markdown)", s)
}

func (f Format) ext() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return ".html"
}

func (f Format) mediaType() string {
	if f == FormatMarkdown {
		return "text/markdown"
	}
	return "text/html"
}

// Stem returns a file name up to its first dot, title-cased. Every run of
// letters starts a new word, so "sales_data" becomes "Sales_Data" and
// "q3-revenue2x" becomes "Q3-Revenue2X".
func Stem(fileName string) string {
	base := strings.SplitN(fileName, ".", 2)[0]
	caser := cases.Title(language.English)
	var b strings.Builder
	start := -1
	for i, r := range base {
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			b.WriteString(caser.String(base[start:i]))
			start = -1
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		b.WriteString(caser.String(base[start:]))
	}
	return b.String()
}

// DefaultTitle returns the report title used when none is given.
func DefaultTitle(fileName string) string {
	return Stem(fileName) + " Report"
}

// FileName returns the download name of a report for a datafile.
func FileName(fileName string, f Format) string {
	return Stem(fileName) + "-report" + f.ext()
}
