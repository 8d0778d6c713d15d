// Package localize is the service facade: owner-scoped dictionary values,
// templates and translations backed by a relational store, with denormalized
// translation bundles cached beside it and kept consistent by explicit
// invalidation after every mutation.
package localize

import (
	"context"
	"log/slog"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-localize/bundle"
	"github.com/goliatone/go-localize/domain"
	"github.com/goliatone/go-localize/identity"
	"github.com/goliatone/go-localize/language"
	"github.com/goliatone/go-localize/query"
	"github.com/goliatone/go-localize/store"
)

// Service composes the stores, the two bundle services and the query executor.
// Every operation resolves the caller from ctx; ownership violations on reads
// surface as NotFound so existence is never leaked.
type Service struct {
	db           *bun.DB
	languages    *store.LanguageStore
	values       *store.ValueStore
	templates    *store.TemplateStore
	translations *store.TranslationStore

	templateBundles *bundle.Service
	valueBundles    *bundle.Service
	executor        *query.Executor
	logger          *slog.Logger
}

// New wires a Service. The bundle services must be namespaced per kind.
func New(db *bun.DB, templateBundles, valueBundles *bundle.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	languages := store.NewLanguageStore(db)
	values := store.NewValueStore(db)
	templates := store.NewTemplateStore(db)
	translations := store.NewTranslationStore(db)

	return &Service{
		db:              db,
		languages:       languages,
		values:          values,
		templates:       templates,
		translations:    translations,
		templateBundles: templateBundles,
		valueBundles:    valueBundles,
		executor: query.NewExecutor(
			templates, values, translations,
			templateBundles, valueBundles, logger,
		),
		logger: logger,
	}
}

// QueryTemplate answers a paginated translation query over one template,
// served from the cached bundle when present and the relational store
// otherwise. Both paths answer identically.
func (s *Service) QueryTemplate(ctx context.Context, templateID string, req query.Request) (*query.Result, error) {
	return s.executor.QueryTemplate(ctx, templateID, req)
}

// QueryValue answers a paginated translation query over one value.
func (s *Service) QueryValue(ctx context.Context, valueID string, req query.Request) (*query.Result, error) {
	return s.executor.QueryValue(ctx, valueID, req)
}

// WarmTemplate populates the template's bundle from the relational store. A
// template with no active translations is reported NotFound and left uncached,
// matching the miss-path answer.
func (s *Service) WarmTemplate(ctx context.Context, templateID string) error {
	caller, ok := identity.CallerFrom(ctx)
	if !ok {
		return domain.Unauthorized("no caller identity resolved")
	}
	tmpl, err := s.templates.ByID(ctx, templateID)
	if err != nil {
		return err
	}
	if !tmpl.Owner().VisibleTo(caller) {
		return domain.NotFound("template %s", templateID)
	}

	rows, err := s.translations.RowsByTemplate(ctx, templateID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return domain.NotFound("template %s has no translations", templateID)
	}
	return s.templateBundles.Set(ctx, tmpl.ID, tmpl.Name, tmpl.Owner(), tmpl.Owner().Name(), bundle.EntriesFromRows(rows))
}

// WarmValue populates the value's bundle from the relational store.
func (s *Service) WarmValue(ctx context.Context, valueID string) error {
	caller, ok := identity.CallerFrom(ctx)
	if !ok {
		return domain.Unauthorized("no caller identity resolved")
	}
	value, err := s.values.ByID(ctx, valueID)
	if err != nil {
		return err
	}
	if !value.Owner().VisibleTo(caller) {
		return domain.NotFound("value %s", valueID)
	}

	rows, err := s.translations.RowsByValue(ctx, valueID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return domain.NotFound("value %s has no translations", valueID)
	}
	return s.valueBundles.Set(ctx, value.ID, value.Key, value.Owner(), value.Owner().Name(), bundle.EntriesFromRows(rows))
}

// CachedTemplates enumerates the live template bundles, skip/take paginated
// over the sorted key index.
func (s *Service) CachedTemplates(ctx context.Context, skip, take int) ([]bundle.Summary, error) {
	if _, ok := identity.CallerFrom(ctx); !ok {
		return nil, domain.Unauthorized("no caller identity resolved")
	}
	return s.templateBundles.List(ctx, skip, take)
}

// CachedValues enumerates the live value bundles.
func (s *Service) CachedValues(ctx context.Context, skip, take int) ([]bundle.Summary, error) {
	if _, ok := identity.CallerFrom(ctx); !ok {
		return nil, domain.Unauthorized("no caller identity resolved")
	}
	return s.valueBundles.List(ctx, skip, take)
}

// refreshTemplate reconciles one template bundle after a committed mutation.
// Cold bundles stay cold; warm ones are dropped and rebuilt from the store. A
// cache failure here leaves the bundle cold, never stale, so it is logged and
// not surfaced.
func (s *Service) refreshTemplate(ctx context.Context, tmpl *store.Template) {
	if !s.templateBundles.IsCached(ctx, tmpl.ID) {
		return
	}
	if err := s.templateBundles.Delete(ctx, tmpl.ID); err != nil {
		s.logger.WarnContext(ctx, "template bundle drop failed",
			"template_id", tmpl.ID, "error", err)
		return
	}

	rows, err := s.translations.RowsByTemplate(ctx, tmpl.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "template bundle rebuild read failed",
			"template_id", tmpl.ID, "error", err)
		return
	}
	if len(rows) == 0 {
		return
	}
	err = s.templateBundles.Set(ctx, tmpl.ID, tmpl.Name, tmpl.Owner(), tmpl.Owner().Name(), bundle.EntriesFromRows(rows))
	if err != nil {
		s.logger.WarnContext(ctx, "template bundle rebuild failed",
			"template_id", tmpl.ID, "error", err)
	}
}

// refreshValue reconciles one value bundle after a committed mutation.
func (s *Service) refreshValue(ctx context.Context, value *store.Value) {
	if !s.valueBundles.IsCached(ctx, value.ID) {
		return
	}
	if err := s.valueBundles.Delete(ctx, value.ID); err != nil {
		s.logger.WarnContext(ctx, "value bundle drop failed",
			"value_id", value.ID, "error", err)
		return
	}

	rows, err := s.translations.RowsByValue(ctx, value.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "value bundle rebuild read failed",
			"value_id", value.ID, "error", err)
		return
	}
	if len(rows) == 0 {
		return
	}
	err = s.valueBundles.Set(ctx, value.ID, value.Key, value.Owner(), value.Owner().Name(), bundle.EntriesFromRows(rows))
	if err != nil {
		s.logger.WarnContext(ctx, "value bundle rebuild failed",
			"value_id", value.ID, "error", err)
	}
}

// fanOut reconciles the value's own bundle plus every cached template bundle
// that contains the value. Used after translation-level mutations.
func (s *Service) fanOut(ctx context.Context, value *store.Value) {
	s.refreshValue(ctx, value)

	templates, err := s.templates.ByValue(ctx, value.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "invalidation fan-out lookup failed",
			"value_id", value.ID, "error", err)
		return
	}
	for i := range templates {
		s.refreshTemplate(ctx, &templates[i])
	}
}

// activeCandidates builds the classifier candidate set from every active
// language. Records with unparseable block ranges are skipped and logged.
func (s *Service) activeCandidates(ctx context.Context) ([]language.Candidate, map[string]*store.Language, error) {
	langs, err := s.languages.ListActive(ctx)
	if err != nil {
		return nil, nil, err
	}

	candidates := make([]language.Candidate, 0, len(langs))
	byCode := make(map[string]*store.Language, len(langs))
	for i := range langs {
		lang := &langs[i]
		table, err := language.ParseBlocks(lang.Blocks)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping language with invalid blocks",
				"code", lang.Code, "error", err)
			continue
		}
		candidates = append(candidates, language.Candidate{Code: lang.Code, Table: table})
		byCode[lang.Code] = lang
	}
	return candidates, byCode, nil
}
