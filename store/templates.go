package store

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// TemplateStore is the typed repository for templates and their value
// memberships.
type TemplateStore struct {
	db bun.IDB
}

// NewTemplateStore builds a TemplateStore over db.
func NewTemplateStore(db bun.IDB) *TemplateStore {
	return &TemplateStore{db: db}
}

// Create inserts a template.
func (s *TemplateStore) Create(ctx context.Context, template *Template) error {
	_, err := s.db.NewInsert().Model(template).Exec(ctx)
	return err
}

// ByID fetches a template by primary key, with optional composable criteria.
func (s *TemplateStore) ByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*Template, error) {
	template := new(Template)
	q := s.db.NewSelect().Model(template).Where("tpl.id = ?", id)
	for _, c := range criteria {
		q = c(q)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, notFound(err, "template %s", id)
	}
	return template, nil
}

// ExistsHash is the O(1) duplicate check used before creating a template.
func (s *TemplateStore) ExistsHash(ctx context.Context, hash string) (bool, error) {
	return s.db.NewSelect().
		Model((*Template)(nil)).
		Where("tpl.name_hash = ?", hash).
		Exists(ctx)
}

// AttachValue adds a value to the template.
func (s *TemplateStore) AttachValue(ctx context.Context, templateID, valueID string) error {
	_, err := s.db.NewInsert().
		Model(&TemplateValue{TemplateID: templateID, ValueID: valueID}).
		Exec(ctx)
	return err
}

// DetachValue removes a value from the template.
func (s *TemplateStore) DetachValue(ctx context.Context, templateID, valueID string) error {
	_, err := s.db.NewDelete().
		Model((*TemplateValue)(nil)).
		Where("template_id = ?", templateID).
		Where("value_id = ?", valueID).
		Exec(ctx)
	return err
}

// HasValue is the O(1) membership check used before attaching.
func (s *TemplateStore) HasValue(ctx context.Context, templateID, valueID string) (bool, error) {
	return s.db.NewSelect().
		Model((*TemplateValue)(nil)).
		Where("tv.template_id = ?", templateID).
		Where("tv.value_id = ?", valueID).
		Exists(ctx)
}

// ValueCount returns how many values the template references.
func (s *TemplateStore) ValueCount(ctx context.Context, templateID string) (int, error) {
	return s.db.NewSelect().
		Model((*TemplateValue)(nil)).
		Where("tv.template_id = ?", templateID).
		Count(ctx)
}

// ByValue lists every template referencing the value; mutation handlers use it
// to fan invalidation out to affected template bundles.
func (s *TemplateStore) ByValue(ctx context.Context, valueID string) ([]Template, error) {
	var templates []Template
	err := s.db.NewSelect().
		Model(&templates).
		Join("JOIN template_values AS tv ON tv.template_id = tpl.id").
		Where("tv.value_id = ?", valueID).
		Order("tpl.id ASC").
		Scan(ctx)
	return templates, err
}

// Delete removes the template and its memberships.
func (s *TemplateStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.NewDelete().
		Model((*TemplateValue)(nil)).
		Where("template_id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	_, err = s.db.NewDelete().
		Model((*Template)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
