package store

import (
	"context"

	"github.com/uptrace/bun"
)

// LanguageStore is the typed repository for configured languages.
type LanguageStore struct {
	db bun.IDB
}

// NewLanguageStore builds a LanguageStore over db.
func NewLanguageStore(db bun.IDB) *LanguageStore {
	return &LanguageStore{db: db}
}

// Create inserts a language.
func (s *LanguageStore) Create(ctx context.Context, lang *Language) error {
	_, err := s.db.NewInsert().Model(lang).Exec(ctx)
	return err
}

// ByID fetches a language by primary key.
func (s *LanguageStore) ByID(ctx context.Context, id string) (*Language, error) {
	lang := new(Language)
	if err := s.db.NewSelect().Model(lang).Where("l.id = ?", id).Scan(ctx); err != nil {
		return nil, notFound(err, "language %s", id)
	}
	return lang, nil
}

// ActiveByCode fetches an active language by its unique code.
func (s *LanguageStore) ActiveByCode(ctx context.Context, code string) (*Language, error) {
	lang := new(Language)
	err := s.db.NewSelect().
		Model(lang).
		Where("l.code = ?", code).
		Where("l.active").
		Scan(ctx)
	if err != nil {
		return nil, notFound(err, "language %s", code)
	}
	return lang, nil
}

// ExistsCode reports whether any language, active or not, holds the code.
func (s *LanguageStore) ExistsCode(ctx context.Context, code string) (bool, error) {
	return s.db.NewSelect().
		Model((*Language)(nil)).
		Where("l.code = ?", code).
		Exists(ctx)
}

// ListActive returns every active language, the classifier's candidate set.
func (s *LanguageStore) ListActive(ctx context.Context) ([]Language, error) {
	var langs []Language
	err := s.db.NewSelect().
		Model(&langs).
		Where("l.active").
		Order("l.code ASC").
		Scan(ctx)
	return langs, err
}
