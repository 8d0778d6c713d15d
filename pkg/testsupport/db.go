// Package testsupport provides database fixtures and seed helpers shared by
// package tests.
package testsupport

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-localize/domain"
	"github.com/goliatone/go-localize/identity"
	"github.com/goliatone/go-localize/language"
	"github.com/goliatone/go-localize/store"
)

// NewDB opens a fresh in-memory database with the full schema. Each call gets
// its own named memory database so parallel tests never share state.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := store.Open(dsn)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := store.CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

// SeedLanguage inserts an active language using the built-in block table.
func SeedLanguage(t *testing.T, db *bun.DB, code, name string) *store.Language {
	t.Helper()

	blocks, ok := language.DefaultBlocks[code]
	if !ok {
		t.Fatalf("no default blocks for language %s", code)
	}
	lang := &store.Language{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      name,
		Blocks:    blocks,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.NewLanguageStore(db).Create(context.Background(), lang); err != nil {
		t.Fatalf("seed language %s: %v", code, err)
	}
	return lang
}

// SeedValue inserts a dictionary value for the given owner.
func SeedValue(t *testing.T, db *bun.DB, key string, owner domain.Owner) *store.Value {
	t.Helper()

	value := &store.Value{
		ID:        uuid.NewString(),
		Key:       identity.Normalize(key),
		KeyHash:   identity.HashScoped(key, owner.Column()),
		OwnerID:   owner.Column(),
		CreatedAt: time.Now().UTC(),
	}
	if err := store.NewValueStore(db).Create(context.Background(), value); err != nil {
		t.Fatalf("seed value %s: %v", key, err)
	}
	return value
}

// SeedTranslation inserts an active translation of value in lang.
func SeedTranslation(t *testing.T, db *bun.DB, value *store.Value, lang *store.Language, text string) *store.Translation {
	t.Helper()

	tr := &store.Translation{
		ID:         uuid.NewString(),
		ValueID:    value.ID,
		LanguageID: lang.ID,
		Text:       text,
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}
	if err := store.NewTranslationStore(db).Create(context.Background(), tr); err != nil {
		t.Fatalf("seed translation %q: %v", text, err)
	}
	return tr
}

// SeedTemplate inserts a template referencing the given values.
func SeedTemplate(t *testing.T, db *bun.DB, name string, owner domain.Owner, values ...*store.Value) *store.Template {
	t.Helper()

	ctx := context.Background()
	templates := store.NewTemplateStore(db)

	tmpl := &store.Template{
		ID:        uuid.NewString(),
		Name:      name,
		NameHash:  identity.HashScoped(name, owner.Column()),
		OwnerID:   owner.Column(),
		CreatedAt: time.Now().UTC(),
	}
	if err := templates.Create(ctx, tmpl); err != nil {
		t.Fatalf("seed template %s: %v", name, err)
	}
	for _, v := range values {
		if err := templates.AttachValue(ctx, tmpl.ID, v.ID); err != nil {
			t.Fatalf("attach %s to %s: %v", v.Key, name, err)
		}
	}
	return tmpl
}
