package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Options configures an Engine.
type Options struct {
	// Extractor reads document text. Required.
	Extractor Extractor

	// Cache memoizes extracted text across runs.
	// Defaults to a BoundedCache of DefaultCacheSize entries.
	Cache Cache

	// Workers is the number of documents searched at once.
	// Defaults to runtime.NumCPU().
	Workers int

	// PathOrder processes documents in path order instead of smallest first.
	PathOrder bool

	// LinesPerPage is the density assumed when a page has to be estimated.
	LinesPerPage int

	// Extensions of the files to search. Defaults to ".pdf".
	Extensions []string

	Logger *slog.Logger
}

// Engine searches folders of documents in parallel.
type Engine struct {
	extractor Extractor
	paged     bool
	cache     Cache
	locators  Locators
	workers   int
	pathOrder bool
	exts      []string
	log       *slog.Logger
}

// New returns an Engine for opts.
func New(opts Options) (*Engine, error) {
	if opts.Extractor == nil {
		return nil, errors.New("search: extractor is required")
	}

	_, paged := opts.Extractor.(PageExtractor)
	e := &Engine{
		extractor: opts.Extractor,
		paged:     paged,
		cache:     opts.Cache,
		locators:  NewLocators(opts.Extractor, opts.LinesPerPage),
		workers:   opts.Workers,
		pathOrder: opts.PathOrder,
		exts:      opts.Extensions,
		log:       opts.Logger,
	}

	if e.cache == nil {
		e.cache = NewBoundedCache(DefaultCacheSize)
	}
	if e.workers <= 0 {
		e.workers = runtime.NumCPU()
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e, nil
}

// Cache returns the text cache shared by all runs of the engine.
func (e *Engine) Cache() Cache {
	return e.cache
}

// Paged reports whether the extractor has page granularity.
func (e *Engine) Paged() bool {
	return e.paged
}

// Search runs q and returns the sorted results. progress may be nil.
func (e *Engine) Search(ctx context.Context, q Query, progress ProgressFunc) ([]Result, error) {
	report, err := e.Run(ctx, q, Hooks{Progress: progress})
	if err != nil {
		return nil, err
	}
	return report.Results, nil
}

// Run searches every document under q.Root. Documents that cannot be read are
// skipped and recorded in the report. Run returns once all documents are done,
// or with ctx.Err() if ctx is cancelled first.
func (e *Engine) Run(ctx context.Context, q Query, hooks Hooks) (*Report, error) {
	if len(q.Keywords) == 0 {
		return nil, ErrEmptyQuery
	}

	switch q.Mode {
	case ModePages:
		if !e.paged {
			return nil, ErrPagesUnsupported
		}
	case ModeText, ModeMulti:
	default:
		return nil, fmt.Errorf("unknown search mode %q", q.Mode)
	}

	start := time.Now()
	report := &Report{RunID: uuid.NewString(), Query: q, Results: []Result{}, Skipped: []Outcome{}}
	log := e.log.With("run", report.RunID)

	docs := Documents(Discover(q.Root, e.exts...))
	if !e.pathOrder {
		SortBySize(docs)
	}
	report.Total = len(docs)
	log.Info("search started", "root", q.Root, "keywords", q.Keywords,
		"mode", q.Mode, "files", len(docs), "workers", e.workers)

	var (
		progressMu sync.Mutex
		started    int

		outcomesMu sync.Mutex
		outcomes   = make([]Outcome, 0, len(docs))
	)

	g := new(errgroup.Group)
	g.SetLimit(e.workers)

	for _, doc := range docs {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			progressMu.Lock()
			started++
			if hooks.Progress != nil {
				hooks.Progress(Progress{Current: started, Total: len(docs), File: doc.Path})
			}
			progressMu.Unlock()

			outcome := e.searchDocument(ctx, log, q, doc)

			outcomesMu.Lock()
			outcomes = append(outcomes, outcome)
			outcomesMu.Unlock()

			if hooks.Outcome != nil {
				hooks.Outcome(outcome)
			}
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		log.Info("search cancelled", "started", started, "files", len(docs))
		return nil, err
	}

	results := make([]Result, 0, len(outcomes))
	for _, o := range outcomes {
		switch o.Status {
		case Matched:
			results = append(results, *o.Result)
		case NoMatch:
			report.NoMatch++
		case Skipped:
			report.Skipped = append(report.Skipped, o)
		}
	}

	report.Results = Aggregate(results)
	report.Matched = len(report.Results)
	report.Elapsed = time.Since(start)

	log.Info("search finished", "matched", report.Matched, "no_match", report.NoMatch,
		"skipped", len(report.Skipped), "took", report.Elapsed.String())
	return report, nil
}

func (e *Engine) searchDocument(ctx context.Context, log *slog.Logger, q Query, doc Document) Outcome {
	outcome := Outcome{Document: doc}

	text, err := e.Text(ctx, doc.Path)
	if err != nil {
		log.Warn("skipping document", "path", doc.Path, "error", err)
		outcome.Status = Skipped
		outcome.Reason = err.Error()
		return outcome
	}

	result := Result{Path: doc.Path, Size: doc.Size}

	switch q.Mode {
	case ModePages:
		keyword, pages := MatchPages(text.Pages, q.Keywords)
		if len(pages) == 0 {
			outcome.Status = NoMatch
			return outcome
		}
		result.Keywords = []string{keyword}
		result.Pages = pages

	default:
		match := MatchText
		if q.Mode == ModeMulti {
			match = MatchMulti
		}

		mc, ok := match(text.All(), q.Keywords)
		if !ok {
			outcome.Status = NoMatch
			return outcome
		}

		page, err := e.locators.Locate(ctx, targetFor(doc.Path, mc.Anchor, text))
		if err != nil {
			log.Debug("page unresolved", "path", doc.Path, "error", err)
			page = 0
		}

		result.Keywords = mc.Keywords
		result.Pages = []PageMatch{{Page: page, Text: mc.Text}}
	}

	outcome.Status = Matched
	outcome.Result = &result
	return outcome
}

// Text returns the text of the document at path, from the cache when possible.
// Freshly extracted text is cached if the cache accepts it.
func (e *Engine) Text(ctx context.Context, path string) (*Text, error) {
	if text, ok := e.cache.Get(path); ok {
		return text, nil
	}

	text, err := extract(ctx, e.extractor, path)
	if err != nil {
		return nil, err
	}

	if !e.cache.Put(path, text) {
		e.log.Debug("cache full, not caching", "path", path, "entries", e.cache.Len())
	}
	return text, nil
}

// LocatePage returns the first page of the document at path containing text.
// It re-reads the document page by page and falls back to the line-density
// estimate only when the pages cannot be read.
func (e *Engine) LocatePage(ctx context.Context, path, text string) (int, bool) {
	if cached, ok := e.cache.Get(path); ok {
		page, err := e.locators.Locate(ctx, targetFor(path, text, cached))
		return page, err == nil
	}

	if pe, ok := e.extractor.(PageExtractor); ok {
		page, err := ExactLocator{Extractor: pe}.Locate(ctx, Target{Path: path, Needle: text})
		switch {
		case err == nil:
			return page, true
		case errors.Is(err, ErrPageNotFound):
			return 0, false
		}
		e.log.Debug("exact page lookup failed", "path", path, "error", err)
	}

	doc, err := e.Text(ctx, path)
	if err != nil {
		e.log.Warn("unable to read document", "path", path, "error", err)
		return 0, false
	}

	page, err := e.locators.Locate(ctx, targetFor(path, text, doc))
	return page, err == nil
}

func targetFor(path, needle string, text *Text) Target {
	return Target{
		Path:      path,
		Needle:    needle,
		Text:      text.All(),
		Pages:     text.Pages,
		PageCount: text.PageCount(),
	}
}
