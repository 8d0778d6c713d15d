package store

import (
	"context"

	"github.com/uptrace/bun"
)

// TranslationStore is the typed repository for translations, including the SQL
// side of the hybrid query pipeline.
type TranslationStore struct {
	db bun.IDB
}

// NewTranslationStore builds a TranslationStore over db.
func NewTranslationStore(db bun.IDB) *TranslationStore {
	return &TranslationStore{db: db}
}

// Create inserts a translation.
func (s *TranslationStore) Create(ctx context.Context, tr *Translation) error {
	_, err := s.db.NewInsert().Model(tr).Exec(ctx)
	return err
}

// Update rewrites a translation row by primary key.
func (s *TranslationStore) Update(ctx context.Context, tr *Translation) error {
	_, err := s.db.NewUpdate().Model(tr).WherePK().Exec(ctx)
	return err
}

// ByID fetches a translation by primary key.
func (s *TranslationStore) ByID(ctx context.Context, id string) (*Translation, error) {
	tr := new(Translation)
	if err := s.db.NewSelect().Model(tr).Where("t.id = ?", id).Scan(ctx); err != nil {
		return nil, notFound(err, "translation %s", id)
	}
	return tr, nil
}

// Delete removes a translation row.
func (s *TranslationStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.NewDelete().
		Model((*Translation)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// DeleteByValue cascades a value deletion onto its translations.
func (s *TranslationStore) DeleteByValue(ctx context.Context, valueID string) error {
	_, err := s.db.NewDelete().
		Model((*Translation)(nil)).
		Where("value_id = ?", valueID).
		Exec(ctx)
	return err
}

// ActiveExists reports whether the value already carries an active translation
// for the language. Guards the one-active-per-(value, language) invariant.
func (s *TranslationStore) ActiveExists(ctx context.Context, valueID, languageID string) (bool, error) {
	return s.db.NewSelect().
		Model((*Translation)(nil)).
		Where("t.value_id = ?", valueID).
		Where("t.language_id = ?", languageID).
		Where("t.active").
		Exists(ctx)
}

// RowQuery parameterizes the miss-path pipeline. Exactly one of TemplateID and
// ValueID is set. Fields arrive normalized: SortColumn is one of the Sort*
// constants, SortDesc flips direction, Limit/Offset are already computed.
// Substring search is deliberately absent: it lives in one place, the
// in-memory pipeline, so cached and relational answers cannot diverge on case
// folding or wildcard characters.
type RowQuery struct {
	TemplateID      string
	ValueID         string
	Language        string
	AllTranslations bool
	SortColumn      string
	SortDesc        bool
	Limit           int
	Offset          int
}

// Sort columns accepted by RowQuery, keyed by the public sort field names.
const (
	SortKey          = "v.key"
	SortText         = "t.text"
	SortLanguageCode = "l.code"
)

// QueryRows runs the filter, sort, count and slice pipeline in SQL, returning
// one page of rows plus the unsliced total. Shape and ordering are kept
// observably identical to the cached bundle pipeline.
func (s *TranslationStore) QueryRows(ctx context.Context, rq RowQuery) ([]Row, int, error) {
	rows := make([]Row, 0)

	q := s.rowSelect()
	if rq.TemplateID != "" {
		q = q.Join("JOIN template_values AS tv ON tv.value_id = t.value_id").
			Where("tv.template_id = ?", rq.TemplateID)
	} else {
		q = q.Where("t.value_id = ?", rq.ValueID)
	}

	if !rq.AllTranslations {
		q = q.Where("l.code = ?", rq.Language)
	}

	dir := "ASC"
	if rq.SortDesc {
		dir = "DESC"
	}
	// Stable tiebreaks keep the ordering byte-identical to the in-memory path.
	q = q.OrderExpr(rq.SortColumn + " " + dir).
		OrderExpr("v.key ASC").
		OrderExpr("l.code ASC").
		OrderExpr("t.value_id ASC")

	if rq.Limit > 0 {
		q = q.Limit(rq.Limit).Offset(rq.Offset)
	}

	total, err := q.ScanAndCount(ctx, &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// RowsByValue returns the value's full active translation set, ordered for
// bundle population.
func (s *TranslationStore) RowsByValue(ctx context.Context, valueID string) ([]Row, error) {
	rows := make([]Row, 0)
	err := s.rowSelect().
		Where("t.value_id = ?", valueID).
		OrderExpr("v.key ASC").
		OrderExpr("l.code ASC").
		Scan(ctx, &rows)
	return rows, err
}

// RowsByTemplate returns the full active translation set across the template's
// values, ordered for bundle population.
func (s *TranslationStore) RowsByTemplate(ctx context.Context, templateID string) ([]Row, error) {
	rows := make([]Row, 0)
	err := s.rowSelect().
		Join("JOIN template_values AS tv ON tv.value_id = t.value_id").
		Where("tv.template_id = ?", templateID).
		OrderExpr("v.key ASC").
		OrderExpr("l.code ASC").
		Scan(ctx, &rows)
	return rows, err
}

func (s *TranslationStore) rowSelect() *bun.SelectQuery {
	return s.db.NewSelect().
		TableExpr("translations AS t").
		ColumnExpr("t.value_id AS value_id").
		ColumnExpr("v.key AS key").
		ColumnExpr("t.text AS text").
		ColumnExpr("l.code AS language_code").
		Join("JOIN dictionary_values AS v ON v.id = t.value_id").
		Join("JOIN languages AS l ON l.id = t.language_id").
		Where("t.active").
		Where("l.active")
}
