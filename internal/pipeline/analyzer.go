package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tanisha290/adobe-teamkt-1b/internal/doctree"
	"github.com/tanisha290/adobe-teamkt-1b/internal/layout"
	"github.com/tanisha290/adobe-teamkt-1b/internal/outline"
	"github.com/tanisha290/adobe-teamkt-1b/internal/parser"
	"github.com/tanisha290/adobe-teamkt-1b/internal/persona"
	"github.com/tanisha290/adobe-teamkt-1b/internal/ranking"
	"github.com/tanisha290/adobe-teamkt-1b/internal/stats"
)

// ErrDocumentTimeout is recorded for a document whose extraction exceeded
// the per-document timeout.
var ErrDocumentTimeout = errors.New("document extraction timed out")

// Document is one input of a collection. Data is used when set; otherwise
// the file at Path is read.
type Document struct {
	Filename string
	Path     string
	Data     []byte
}

func (d Document) load() ([]byte, error) {
	if d.Data != nil {
		return d.Data, nil
	}
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.Filename, err)
	}
	return data, nil
}

// Options configures an Analyzer.
type Options struct {
	Workers     int           // documents extracted in parallel
	Timeout     time.Duration // per document; 0 disables
	MaxRanked   int
	Subsections ranking.SubsectionOptions
	Parser      parser.Options
	Layout      layout.Config
}

// DocResult is the outcome of extracting one document. A failed, empty or
// timed-out document keeps a fallback title, an empty outline and no
// sections.
type DocResult struct {
	Index       int
	Filename    string
	Tree        doctree.DocTree
	Sections    []doctree.Section
	ContentHash string
	DuplicateOf string // filename of the earlier identical document
	Outcome     stats.Outcome
	Err         error
	Elapsed     time.Duration
}

// Analysis is the full result for a collection.
type Analysis struct {
	Documents  []DocResult
	Keywords   persona.Keywords
	Ranking    ranking.Ranking
	Refinement ranking.Refinement
}

// Analyzer runs the outline and ranking pipeline. It holds only read-only
// state and is safe for concurrent use.
type Analyzer struct {
	opts  Options
	lex   *persona.Lexicon
	stats *stats.Extraction
	log   *slog.Logger
}

// NewAnalyzer creates an Analyzer. st may be nil.
func NewAnalyzer(opts Options, lex *persona.Lexicon, st *stats.Extraction, log *slog.Logger) *Analyzer {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Layout == (layout.Config{}) {
		opts.Layout = layout.DefaultConfig()
	}
	return &Analyzer{opts: opts, lex: lex, stats: st, log: log}
}

// Outline extracts a single document's outline payload.
func (a *Analyzer) Outline(ctx context.Context, doc Document) DocResult {
	data, err := doc.load()
	if err != nil {
		r := DocResult{Filename: doc.Filename, Tree: outline.Empty(parser.Stem(doc.Filename)).Tree, Outcome: stats.OutcomeFailed, Err: err}
		a.record(r)
		return r
	}
	return a.extractWithTimeout(ctx, 0, doc.Filename, data)
}

// ExtractAll is the map stage: every document is extracted independently
// with bounded parallelism. Identical documents are extracted once; later
// copies share the outline but contribute no sections. The returned slice
// is in input order. Only context cancellation returns an error.
func (a *Analyzer) ExtractAll(ctx context.Context, docs []Document, done func(DocResult)) ([]DocResult, error) {
	results := make([]DocResult, len(docs))
	payloads := make([][]byte, len(docs))
	for i, d := range docs {
		results[i] = DocResult{Index: i, Filename: d.Filename}
		data, err := d.load()
		if err != nil {
			a.log.Error("document unreadable", "document", d.Filename, "error", err)
			results[i].Tree = outline.Empty(parser.Stem(d.Filename)).Tree
			results[i].Outcome = stats.OutcomeFailed
			results[i].Err = err
			a.record(results[i])
			if done != nil {
				done(results[i])
			}
			continue
		}
		payloads[i] = data
		results[i].ContentHash = ContentHashHex(data)
	}

	firstByHash := make(map[string]int)
	var unique []int
	for i := range docs {
		if payloads[i] == nil {
			continue
		}
		if j, ok := firstByHash[results[i].ContentHash]; ok {
			results[i].DuplicateOf = docs[j].Filename
			continue
		}
		firstByHash[results[i].ContentHash] = i
		unique = append(unique, i)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Workers)
	for _, i := range unique {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := a.extractWithTimeout(gctx, i, docs[i].Filename, payloads[i])
			r.ContentHash = results[i].ContentHash
			results[i] = r
			if done != nil {
				done(r)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extract documents: %w", err)
	}

	for i := range results {
		orig := results[i].DuplicateOf
		if orig == "" {
			continue
		}
		j := firstByHash[results[i].ContentHash]
		a.log.Info("duplicate document", "document", results[i].Filename, "duplicate_of", orig)
		results[i].Tree = results[j].Tree
		results[i].Outcome = stats.OutcomeDuplicate
		a.record(results[i])
		if done != nil {
			done(results[i])
		}
	}
	return results, nil
}

// extractWithTimeout isolates one document: a panic, an error or the
// per-document timeout degrades only this document. Parsing is not
// cancellable, so a timed-out extraction finishes in the background and its
// result is discarded.
func (a *Analyzer) extractWithTimeout(ctx context.Context, index int, filename string, data []byte) DocResult {
	start := time.Now()
	log := a.log.With("document", filename)

	ch := make(chan DocResult, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("document extraction panicked", "panic", rec)
				ch <- a.failed(index, filename, fmt.Errorf("panic: %v", rec))
			}
		}()
		ch <- a.extract(index, filename, data, log)
	}()

	var timeout <-chan time.Time
	if a.opts.Timeout > 0 {
		t := time.NewTimer(a.opts.Timeout)
		defer t.Stop()
		timeout = t.C
	}

	var res DocResult
	select {
	case res = <-ch:
	case <-timeout:
		log.Warn("document timed out", "timeout", a.opts.Timeout)
		res = a.failed(index, filename, fmt.Errorf("%s: %w", filename, ErrDocumentTimeout))
		res.Outcome = stats.OutcomeTimeout
	case <-ctx.Done():
		res = a.failed(index, filename, ctx.Err())
	}
	res.Elapsed = time.Since(start)
	a.record(res)
	return res
}

func (a *Analyzer) failed(index int, filename string, err error) DocResult {
	return DocResult{
		Index:    index,
		Filename: filename,
		Tree:     outline.Empty(parser.Stem(filename)).Tree,
		Outcome:  stats.OutcomeFailed,
		Err:      err,
	}
}

// extract runs parse, normalize, outline and section building.
func (a *Analyzer) extract(index int, filename string, data []byte, log *slog.Logger) DocResult {
	name := parser.Stem(filename)

	p, err := parser.ForFile(filename, a.opts.Parser)
	if err != nil {
		log.Error("unsupported format", "error", err)
		return a.failed(index, filename, err)
	}
	raw, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		return a.failed(index, filename, fmt.Errorf("parse: %w", err))
	}

	lines, err := layout.Normalize(raw, a.opts.Layout)
	if errors.Is(err, layout.ErrEmptyDocument) {
		log.Warn("empty document")
		return DocResult{
			Index:    index,
			Filename: filename,
			Tree:     outline.Empty(name).Tree,
			Outcome:  stats.OutcomeEmpty,
			Err:      err,
		}
	}
	if err != nil {
		return a.failed(index, filename, err)
	}

	res := outline.Extract(lines, name)
	if res.Degenerate {
		log.Debug("single heading size, all headings are H1")
	}
	sections := outline.BuildSections(filename, index, res)
	log.Debug("document extracted",
		"lines", len(lines),
		"body_size", res.BodySize,
		"headings", len(res.Tree.Outline),
		"sections", len(sections),
	)
	return DocResult{
		Index:    index,
		Filename: filename,
		Tree:     res.Tree,
		Sections: sections,
		Outcome:  stats.OutcomeOK,
	}
}

func (a *Analyzer) record(r DocResult) {
	if a.stats != nil {
		a.stats.Record(r.Elapsed, r.Outcome)
	}
}

// Keywords derives the persona and job term sets.
func (a *Analyzer) Keywords(p persona.Profile, j persona.Job) persona.Keywords {
	kw := persona.Extract(p, j, a.lex)
	a.log.Debug("persona keywords",
		"matched_role", kw.MatchedRole,
		"persona_terms", len(kw.Persona),
		"job_terms", len(kw.Job),
	)
	return kw
}

// Rank is the reduce stage: it needs every document's sections before
// assigning collection-wide ranks.
func (a *Analyzer) Rank(docs []DocResult, kw persona.Keywords) ranking.Ranking {
	var sections []doctree.Section
	for _, d := range docs {
		sections = append(sections, d.Sections...)
	}
	r := ranking.RankSections(sections, kw, a.opts.MaxRanked)
	if r.Fallback != nil {
		a.log.Debug("keyword-only section scoring", "reason", r.Fallback)
	}
	return r
}

// Refine extracts sub-section excerpts from the top ranked sections.
func (a *Analyzer) Refine(r ranking.Ranking, kw persona.Keywords) ranking.Refinement {
	ref := ranking.RefineSubsections(r.Sections, kw, a.opts.Subsections)
	if ref.Fallback != nil {
		a.log.Debug("keyword-only sub-section scoring", "reason", ref.Fallback)
	}
	return ref
}

// Analyze runs the whole pipeline over a collection.
func (a *Analyzer) Analyze(ctx context.Context, p persona.Profile, j persona.Job, docs []Document) (*Analysis, error) {
	results, err := a.ExtractAll(ctx, docs, nil)
	if err != nil {
		return nil, err
	}
	kw := a.Keywords(p, j)
	r := a.Rank(results, kw)
	return &Analysis{
		Documents:  results,
		Keywords:   kw,
		Ranking:    r,
		Refinement: a.Refine(r, kw),
	}, nil
}

// DocumentsFromPaths builds documents for files on disk.
func DocumentsFromPaths(paths []string) []Document {
	docs := make([]Document, len(paths))
	for i, p := range paths {
		docs[i] = Document{Filename: filepath.Base(p), Path: p}
	}
	return docs
}
