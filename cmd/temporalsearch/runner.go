package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Fredrikaaa/temporalsearch/internal/config"
	"github.com/Fredrikaaa/temporalsearch/internal/corpus"
	"github.com/Fredrikaaa/temporalsearch/internal/exec"
	"github.com/Fredrikaaa/temporalsearch/internal/format"
	"github.com/Fredrikaaa/temporalsearch/internal/index/badger"
	"github.com/Fredrikaaa/temporalsearch/internal/lang/ast"
	"github.com/Fredrikaaa/temporalsearch/internal/lang/parser"
	"github.com/Fredrikaaa/temporalsearch/internal/model"
	"github.com/Fredrikaaa/temporalsearch/internal/project"
	"github.com/Fredrikaaa/temporalsearch/internal/trace"
	"github.com/Fredrikaaa/temporalsearch/internal/xerrors"
)

// engine bundles the collaborators a query needs end to end: the
// positional index, the relational store backing projection/snippets, and
// the executor built on top of them. One engine is opened per CLI
// invocation and shared across every query it runs (useful in repl mode).
type engine struct {
	cfg       config.Config
	index     *badger.Store
	corpus    *corpus.Store
	projector *project.Projector
	snippets  *project.SnippetExpander
	exec      *exec.Engine
}

// dateLookup adapts corpus.Store to exec.DateLookup.
type dateLookup struct {
	store *corpus.Store
}

func (d dateLookup) DocumentDate(docID uint32) (model.Date, bool) {
	doc, err := d.store.Document(docID)
	if err != nil || doc == nil {
		return 0, false
	}
	return model.DateFromTime(doc.Timestamp), true
}

// openEngine opens the index and relational store named by cfg and wires
// an exec.Engine and project.Projector on top of them.
func openEngine(cfg config.Config) (*engine, error) {
	idx, err := badger.Open(cfg.IndexPath)
	if err != nil {
		return nil, err
	}

	cs, err := corpus.Open(cfg.RelationalDBPath, false)
	if err != nil {
		idx.Close()
		return nil, err
	}

	adapter := project.CorpusAdapter{Store: cs}
	style := project.Style{Before: cfg.SnippetBeforeAffix, After: cfg.SnippetAfterAffix}
	snippets, err := project.NewSnippetExpander(adapter, adapter, style)
	if err != nil {
		cs.Close()
		idx.Close()
		return nil, err
	}

	projector := project.NewProjector(adapter, snippets)
	ex := exec.New(idx, dateLookup{store: cs}, model.GranularityDocument, cfg.MaxWorkers)

	return &engine{
		cfg:       cfg,
		index:     idx,
		corpus:    cs,
		projector: projector,
		snippets:  snippets,
		exec:      ex,
	}, nil
}

func (e *engine) Close() {
	e.snippets.Close()
	e.corpus.Close()
	e.index.Close()
}

// queryOptions carries the per-invocation overrides a query subcommand
// accepts on top of the loaded configuration.
type queryOptions struct {
	limit   *int
	format  string
	explain bool
}

// runQuery parses, validates, executes, and projects queryText, returning
// the rendered output and any trace events collected along the way.
func (e *engine) runQuery(ctx context.Context, queryText string, opts queryOptions) (string, []trace.Event, error) {
	var handler trace.Handler
	if opts.explain {
		handler = trace.ConsoleHandler()
	}
	collector := trace.NewCollector(handler)
	queryStart := time.Now()

	pq, err := parser.Parse(queryText)
	if err != nil {
		collector.Add(trace.Event{Name: trace.ErrorParse, Data: map[string]any{"error": err.Error()}})
		return "", collector.Events(), err
	}
	collector.Add(trace.Event{Name: trace.QueryParsed, Data: map[string]any{"query": queryText}})

	if errs := pq.Validate(); len(errs) > 0 {
		err := xerrors.Validation(fmt.Sprintf("%d validation error(s): %v", len(errs), errs))
		collector.Add(trace.Event{Name: trace.ErrorValidation, Data: map[string]any{"error": err.Error()}})
		return "", collector.Events(), err
	}
	collector.Add(trace.Event{Name: trace.QueryValidated})

	if opts.limit != nil {
		pq.Query.Limit = opts.limit
	} else if pq.Query.Limit == nil && e.cfg.DefaultLimit > 0 {
		limit := e.cfg.DefaultLimit
		pq.Query.Limit = &limit
	}

	table, err := e.execute(ctx, pq, collector)
	if err != nil {
		collector.Add(trace.Event{Name: trace.ErrorExecution, Data: map[string]any{"error": err.Error()}})
		return "", collector.Events(), err
	}
	collector.AddTiming(trace.QueryCompleted, queryStart, map[string]any{"rows": len(table.Rows)})

	return e.render(table, opts.format), collector.Events(), nil
}

func (e *engine) execute(ctx context.Context, pq *ast.ParsedQuery, collector *trace.Collector) (*project.Table, error) {
	conditionStart := time.Now()

	var ms *model.MatchSet
	var err error
	if len(pq.Query.Conditions) == 0 {
		// whereClause is optional in the grammar; with no condition there is
		// nothing in the positional index to enumerate a match from.
		ms = model.NewMatchSet(pq.Query.Granularity)
	} else {
		collector.Add(trace.Event{Name: trace.ConditionBegin, Data: map[string]any{"condition": pq.Query.Conditions[0].String()}})
		ex := e.exec
		if pq.Query.Granularity != model.GranularityDocument {
			ex = exec.New(e.index, dateLookup{store: e.corpus}, pq.Query.Granularity, e.cfg.MaxWorkers)
		}
		ms, err = ex.Execute(ctx, pq.Query.Conditions[0])
		if err != nil {
			return nil, err
		}
	}
	collector.AddTiming(trace.ConditionComplete, conditionStart, map[string]any{"matches": len(ms.All())})

	projectStart := time.Now()
	table, err := e.projector.Project(pq.Query, ms)
	if err != nil {
		return nil, err
	}
	collector.AddTiming(trace.ProjectComplete, projectStart, map[string]any{"rows": len(table.Rows)})

	return table, nil
}

func (e *engine) render(table *project.Table, outputFormat string) string {
	switch outputFormat {
	case "csv":
		return format.NewCSVFormatter().Format(table)
	default:
		return format.NewTableFormatter().Format(table)
	}
}
