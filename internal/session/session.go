// Package session holds the per-file state of one profiling run: the raw
// frame read from disk, the schema being edited, and once reconciled the
// typed frame and its taxonomy.
package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/autoeda-cli/internal/coerce"
	"github.com/KaramelBytes/autoeda-cli/internal/frame"
	"github.com/KaramelBytes/autoeda-cli/internal/ingest"
	"github.com/KaramelBytes/autoeda-cli/internal/report"
	"github.com/KaramelBytes/autoeda-cli/internal/schema"
)

// Options are the caller choices that apply to every file of a run.
type Options struct {
	Ingest ingest.Options
	// Title overrides the report title. Empty uses the file stem.
	Title       string
	Minimal     bool
	Explorative bool
}

// Session is the context of a single file. Sessions share no state.
type Session struct {
	ID       string
	Path     string
	FileName string
	Opened   time.Time

	Raw    *frame.Frame
	Editor *schema.Editor

	// Set by Reconcile.
	Typed    *frame.Frame
	Taxonomy map[string]schema.TaxonomyCategory

	opt Options
}

// Open reads path and infers its schema.
func Open(path string, opt Options) (*Session, error) {
	raw, err := ingest.Load(path, opt.Ingest)
	if err != nil {
		return nil, err
	}
	s := New(raw, opt)
	s.Path = path
	return s, nil
}

// New starts a session over an already loaded frame. Object columns of raw
// are normalized to string storage by inference.
func New(raw *frame.Frame, opt Options) *Session {
	decl := schema.Infer(raw)
	return &Session{
		ID:       uuid.NewString(),
		Path:     raw.Name,
		FileName: filepath.Base(raw.Name),
		Opened:   time.Now(),
		Raw:      raw,
		Editor:   schema.NewEditor(decl),
		opt:      opt,
	}
}

// Options returns the session's report options.
func (s *Session) Options() Options { return s.opt }

// Declaration returns a copy of the schema as currently edited.
func (s *Session) Declaration() *schema.Declaration { return s.Editor.Declaration() }

// Reconcile applies the approved schema. The taxonomy is checked before any
// column is converted, so a declaration the report cannot consume never
// reaches coercion. On failure Typed and Taxonomy are cleared.
func (s *Session) Reconcile() (*report.Input, error) {
	s.Typed, s.Taxonomy = nil, nil
	decl := s.Editor.Declaration()
	types, err := schema.Taxonomy(decl)
	if err != nil {
		return nil, err
	}
	typed, err := coerce.Apply(s.Raw, decl)
	if err != nil {
		return nil, err
	}
	if !decl.Satisfied(typed) {
		return nil, fmt.Errorf("%s: coerced frame does not match its declaration", s.FileName)
	}
	s.Typed, s.Taxonomy = typed, types
	return s.Input(), nil
}

// Input returns the generator input of a reconciled session, or nil.
func (s *Session) Input() *report.Input {
	if s.Typed == nil {
		return nil
	}
	return &report.Input{
		Dataset:     s.Typed,
		Types:       s.Taxonomy,
		Title:       s.opt.Title,
		Minimal:     s.opt.Minimal,
		Explorative: s.opt.Explorative,
	}
}

// Report reconciles the session and runs g over the result.
func (s *Session) Report(g report.Generator) (*report.Document, error) {
	in, err := s.Reconcile()
	if err != nil {
		return nil, err
	}
	doc, err := g.Generate(*in)
	if err != nil {
		return nil, &ReportError{File: s.FileName, Err: err}
	}
	return doc, nil
}

// Stage names the step at which a file stopped.
type Stage string

const (
	StageLoad    Stage = "load"
	StagePrepare Stage = "schema"
	StageCoerce  Stage = "coerce"
	StageReport  Stage = "report"
	StageDone    Stage = "done"
)

// ReportError wraps a failure of the report generator.
type ReportError struct {
	File string
	Err  error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("generate report for %s: %v", e.File, e.Err)
}

func (e *ReportError) Unwrap() error { return e.Err }

// Result is the outcome of one file of a batch.
type Result struct {
	Path     string
	Session  *Session
	Document *report.Document
	Stage    Stage
	Err      error
}

// OK reports whether the file produced a document.
func (r Result) OK() bool { return r.Err == nil }

// PrepareFunc edits a session's schema before it is reconciled.
type PrepareFunc func(*Session) error

// RunBatch processes every path in its own session, in order. A failing file
// is recorded in its Result and never stops the others. prepare may be nil.
func RunBatch(paths []string, opt Options, prepare PrepareFunc, g report.Generator) []Result {
	out := make([]Result, 0, len(paths))
	for _, p := range paths {
		out = append(out, runOne(p, opt, prepare, g))
	}
	return out
}

func runOne(path string, opt Options, prepare PrepareFunc, g report.Generator) Result {
	res := Result{Path: path, Stage: StageLoad}
	s, err := Open(path, opt)
	if err != nil {
		res.Err = err
		return res
	}
	res.Session = s
	res.Stage = StagePrepare
	if prepare != nil {
		if err := prepare(s); err != nil {
			res.Err = err
			return res
		}
	}
	doc, err := s.Report(g)
	if err != nil {
		res.Err = err
		res.Stage = failedStage(err)
		return res
	}
	res.Document = doc
	res.Stage = StageDone
	return res
}

func failedStage(err error) Stage {
	var rep *ReportError
	var unsupported *schema.UnsupportedTypeError
	switch {
	case errors.As(err, &rep):
		return StageReport
	case errors.As(err, &unsupported):
		return StagePrepare
	default:
		return StageCoerce
	}
}
