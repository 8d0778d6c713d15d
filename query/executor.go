package query

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-localize/bundle"
	"github.com/goliatone/go-localize/domain"
	"github.com/goliatone/go-localize/identity"
	"github.com/goliatone/go-localize/store"
)

// Executor is the hybrid query engine: it decides cache hit versus miss per
// request and guarantees both paths answer identically. Ownership is always
// checked against the relational store; the cache is never trusted for ACLs.
type Executor struct {
	templates       *store.TemplateStore
	values          *store.ValueStore
	translations    *store.TranslationStore
	templateBundles *bundle.Service
	valueBundles    *bundle.Service
	logger          *slog.Logger
}

// NewExecutor wires the executor's stores and bundle services.
func NewExecutor(
	templates *store.TemplateStore,
	values *store.ValueStore,
	translations *store.TranslationStore,
	templateBundles *bundle.Service,
	valueBundles *bundle.Service,
	logger *slog.Logger,
) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		templates:       templates,
		values:          values,
		translations:    translations,
		templateBundles: templateBundles,
		valueBundles:    valueBundles,
		logger:          logger,
	}
}

// QueryTemplate answers a paginated translation query over one template.
func (e *Executor) QueryTemplate(ctx context.Context, templateID string, req Request) (*Result, error) {
	caller, ok := identity.CallerFrom(ctx)
	if !ok {
		return nil, domain.Unauthorized("no caller identity resolved")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.normalized()

	tmpl, err := e.templates.ByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !tmpl.Owner().VisibleTo(caller) {
		return nil, domain.NotFound("template %s", templateID)
	}

	if b := e.templateBundles.Get(ctx, templateID); b != nil {
		return applyPipeline(b.Rows(), req), nil
	}
	return e.queryRelational(ctx, store.RowQuery{TemplateID: templateID}, req,
		"template", templateID)
}

// QueryValue answers a paginated translation query over one value.
func (e *Executor) QueryValue(ctx context.Context, valueID string, req Request) (*Result, error) {
	caller, ok := identity.CallerFrom(ctx)
	if !ok {
		return nil, domain.Unauthorized("no caller identity resolved")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.normalized()

	value, err := e.values.ByID(ctx, valueID)
	if err != nil {
		return nil, err
	}
	if !value.Owner().VisibleTo(caller) {
		return nil, domain.NotFound("value %s", valueID)
	}

	if b := e.valueBundles.Get(ctx, valueID); b != nil {
		return applyPipeline(b.Rows(), req), nil
	}
	return e.queryRelational(ctx, store.RowQuery{ValueID: valueID}, req,
		"value", valueID)
}

// queryRelational is the miss path. Zero rows from an unfiltered probe means
// the entity carries no translations at all, which is NotFound; zero rows
// caused purely by search or language filters is an empty page, matching the
// hit path.
func (e *Executor) queryRelational(ctx context.Context, scope store.RowQuery, req Request, kind, id string) (*Result, error) {
	// SQL LIKE folds case ASCII-only and treats % and _ as wildcards, neither
	// of which the in-memory matcher does. A searching miss therefore loads the
	// scope's rows and runs the exact pipeline the hit path runs, so both paths
	// share one search implementation.
	if req.Search != "" {
		all := scope
		all.AllTranslations = true
		all.SortColumn = store.SortKey
		rows, _, err := e.translations.QueryRows(ctx, all)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, domain.NotFound("%s %s has no translations", kind, id)
		}
		return applyPipeline(rows, req), nil
	}

	rq := scope
	rq.Language = req.Language
	rq.AllTranslations = req.AllTranslations
	rq.SortColumn = sortColumn(req.SortBy)
	rq.SortDesc = req.SortDir == SortDesc
	rq.Limit = req.PageSize
	rq.Offset = (req.Page - 1) * req.PageSize

	rows, total, err := e.translations.QueryRows(ctx, rq)
	if err != nil {
		return nil, err
	}

	if total == 0 {
		probe := scope
		probe.AllTranslations = true
		probe.SortColumn = store.SortKey
		probe.Limit = 1
		if _, n, err := e.translations.QueryRows(ctx, probe); err != nil {
			return nil, err
		} else if n == 0 {
			return nil, domain.NotFound("%s %s has no translations", kind, id)
		}
	}

	return newResult(itemsFromRows(rows), total, req.Page, req.PageSize), nil
}

func sortColumn(sortBy string) string {
	switch sortBy {
	case SortByValue:
		return store.SortText
	case SortByLanguageCode:
		return store.SortLanguageCode
	default:
		return store.SortKey
	}
}
