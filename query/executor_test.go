package query_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-localize/bundle"
	"github.com/goliatone/go-localize/domain"
	"github.com/goliatone/go-localize/identity"
	"github.com/goliatone/go-localize/internal/cachestore"
	"github.com/goliatone/go-localize/pkg/testsupport"
	"github.com/goliatone/go-localize/query"
	"github.com/goliatone/go-localize/store"
)

type fixture struct {
	db              *bun.DB
	executor        *query.Executor
	templateBundles *bundle.Service
	valueBundles    *bundle.Service
	translations    *store.TranslationStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testsupport.NewDB(t)

	newMemory := func() cachestore.Store {
		m, err := cachestore.NewMemory(cachestore.DefaultMemoryConfig())
		if err != nil {
			t.Fatalf("memory store: %v", err)
		}
		return m
	}

	templateBundles := bundle.NewService(newMemory(), 0, nil)
	valueBundles := bundle.NewService(newMemory(), 0, nil)
	translations := store.NewTranslationStore(db)

	return &fixture{
		db:              db,
		translations:    translations,
		templateBundles: templateBundles,
		valueBundles:    valueBundles,
		executor: query.NewExecutor(
			store.NewTemplateStore(db),
			store.NewValueStore(db),
			translations,
			templateBundles,
			valueBundles,
			nil,
		),
	}
}

func (f *fixture) warmTemplate(t *testing.T, tmpl *store.Template) {
	t.Helper()
	ctx := context.Background()
	rows, err := f.translations.RowsByTemplate(ctx, tmpl.ID)
	if err != nil {
		t.Fatalf("rows for warmup: %v", err)
	}
	err = f.templateBundles.Set(ctx, tmpl.ID, tmpl.Name, tmpl.Owner(), tmpl.Owner().Name(), bundle.EntriesFromRows(rows))
	if err != nil {
		t.Fatalf("warm template: %v", err)
	}
}

func callerCtx(id string) context.Context {
	return identity.WithCaller(context.Background(), id)
}

func seedBasics(t *testing.T, db *bun.DB) *store.Template {
	t.Helper()
	en := testsupport.SeedLanguage(t, db, "en", "English")
	ru := testsupport.SeedLanguage(t, db, "ru", "Russian")

	greeting := testsupport.SeedValue(t, db, "greeting", domain.Global())
	farewell := testsupport.SeedValue(t, db, "farewell", domain.Global())
	discount := testsupport.SeedValue(t, db, "discount", domain.Global())
	promo := testsupport.SeedValue(t, db, "promo", domain.Global())

	testsupport.SeedTranslation(t, db, greeting, en, "Hello")
	testsupport.SeedTranslation(t, db, greeting, ru, "Привет")
	testsupport.SeedTranslation(t, db, farewell, en, "Goodbye")
	testsupport.SeedTranslation(t, db, discount, en, "Save 10% today")
	testsupport.SeedTranslation(t, db, promo, en, "Save 100 coins")

	return testsupport.SeedTemplate(t, db, "basics", domain.Global(), greeting, farewell, discount, promo)
}

func TestQueryTemplateHitAndMissAnswerIdentically(t *testing.T) {
	requests := []query.Request{
		{},
		{AllTranslations: true},
		{Search: "hell"},
		{Search: "ПРИВЕТ", AllTranslations: true},
		{Search: "10%"},
		{Search: "e 1_0"},
		{SortBy: query.SortByValue, SortDir: query.SortDesc, AllTranslations: true},
		{SortBy: query.SortByLanguageCode, AllTranslations: true},
		{PageSize: 1, Page: 2},
		{Language: "ru", AllTranslations: false},
	}

	f := newFixture(t)
	tmpl := seedBasics(t, f.db)
	ctx := callerCtx("user-1")

	cold := make([]*query.Result, len(requests))
	for i, req := range requests {
		res, err := f.executor.QueryTemplate(ctx, tmpl.ID, req)
		if err != nil {
			t.Fatalf("cold request %d: %v", i, err)
		}
		cold[i] = res
	}

	f.warmTemplate(t, tmpl)

	for i, req := range requests {
		warm, err := f.executor.QueryTemplate(ctx, tmpl.ID, req)
		if err != nil {
			t.Fatalf("warm request %d: %v", i, err)
		}
		if !reflect.DeepEqual(cold[i], warm) {
			t.Errorf("request %d diverged:\n cold: %+v\n warm: %+v", i, cold[i], warm)
		}
	}
}

func TestQuerySearchFoldsCaseAndMatchesLiterally(t *testing.T) {
	f := newFixture(t)
	tmpl := seedBasics(t, f.db)
	ctx := callerCtx("user-1")

	check := func(phase string) {
		t.Helper()

		// Case folding is full Unicode, so an uppercase Cyrillic needle finds
		// the Russian translation.
		res, err := f.executor.QueryTemplate(ctx, tmpl.ID, query.Request{Search: "ПРИВЕТ", AllTranslations: true})
		if err != nil {
			t.Fatalf("%s cyrillic search: %v", phase, err)
		}
		if res.TotalItems != 1 || res.Items[0].Value != "Привет" {
			t.Errorf("%s cyrillic search = %+v, want the ru translation", phase, res)
		}

		// Percent is a literal character: "Save 100 coins" must not match.
		res, err = f.executor.QueryTemplate(ctx, tmpl.ID, query.Request{Search: "10%"})
		if err != nil {
			t.Fatalf("%s percent search: %v", phase, err)
		}
		if res.TotalItems != 1 || res.Items[0].Key != "discount" {
			t.Errorf("%s percent search = %+v, want only the literal match", phase, res)
		}

		// Underscore is a literal character too, never a single-char wildcard.
		res, err = f.executor.QueryTemplate(ctx, tmpl.ID, query.Request{Search: "1_0"})
		if err != nil {
			t.Fatalf("%s underscore search: %v", phase, err)
		}
		if res.TotalItems != 0 {
			t.Errorf("%s underscore search = %+v, want no matches", phase, res)
		}
	}

	check("cold")
	f.warmTemplate(t, tmpl)
	check("warm")
}

func TestQueryValueDefaultsToEnglishKeyAscending(t *testing.T) {
	f := newFixture(t)
	en := testsupport.SeedLanguage(t, f.db, "en", "English")
	ru := testsupport.SeedLanguage(t, f.db, "ru", "Russian")
	value := testsupport.SeedValue(t, f.db, "greeting", domain.Global())
	testsupport.SeedTranslation(t, f.db, value, en, "Hello")
	testsupport.SeedTranslation(t, f.db, value, ru, "Привет")

	res, err := f.executor.QueryValue(callerCtx("user-1"), value.ID, query.Request{})
	if err != nil {
		t.Fatalf("QueryValue: %v", err)
	}
	if res.TotalItems != 1 || len(res.Items) != 1 {
		t.Fatalf("result = %+v, want single default-language item", res)
	}
	item := res.Items[0]
	if item.LanguageCode != "en" || item.Value != "Hello" || item.Key != "greeting" {
		t.Errorf("item = %+v", item)
	}
	if res.Page != 1 || res.PageSize != query.DefaultPageSize {
		t.Errorf("page defaults = %d/%d", res.Page, res.PageSize)
	}
}

func TestQueryPaginationBoundary(t *testing.T) {
	f := newFixture(t)
	en := testsupport.SeedLanguage(t, f.db, "en", "English")

	values := make([]*store.Value, 11)
	for i := range values {
		v := testsupport.SeedValue(t, f.db, fmt.Sprintf("key-%02d", i), domain.Global())
		testsupport.SeedTranslation(t, f.db, v, en, fmt.Sprintf("text %02d", i))
		values[i] = v
	}
	tmpl := testsupport.SeedTemplate(t, f.db, "long", domain.Global(), values...)
	ctx := callerCtx("user-1")

	first, err := f.executor.QueryTemplate(ctx, tmpl.ID, query.Request{})
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(first.Items) != 10 || first.TotalItems != 11 {
		t.Fatalf("page 1 = %d of %d, want 10 of 11", len(first.Items), first.TotalItems)
	}
	if !first.HasNextPage || first.HasPreviousPage {
		t.Errorf("page 1 flags = next %v, prev %v", first.HasNextPage, first.HasPreviousPage)
	}

	second, err := f.executor.QueryTemplate(ctx, tmpl.ID, query.Request{Page: 2})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(second.Items) != 1 || second.Items[0].Key != "key-10" {
		t.Fatalf("page 2 = %+v, want the single trailing item", second.Items)
	}
	if second.HasNextPage || !second.HasPreviousPage {
		t.Errorf("page 2 flags = next %v, prev %v", second.HasNextPage, second.HasPreviousPage)
	}

	// The warmed path must cut pages at the same boundary.
	f.warmTemplate(t, tmpl)
	warm, err := f.executor.QueryTemplate(ctx, tmpl.ID, query.Request{Page: 2})
	if err != nil {
		t.Fatalf("warm page 2: %v", err)
	}
	if !reflect.DeepEqual(second, warm) {
		t.Errorf("warm page diverged:\n cold: %+v\n warm: %+v", second, warm)
	}
}

func TestQueryOwnershipHiddenAsNotFound(t *testing.T) {
	f := newFixture(t)
	en := testsupport.SeedLanguage(t, f.db, "en", "English")
	value := testsupport.SeedValue(t, f.db, "secret", domain.OwnedBy("user-1"))
	testsupport.SeedTranslation(t, f.db, value, en, "Secret")
	tmpl := testsupport.SeedTemplate(t, f.db, "private", domain.OwnedBy("user-1"), value)

	if _, err := f.executor.QueryValue(callerCtx("user-2"), value.ID, query.Request{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("QueryValue by stranger = %v, want ErrNotFound", err)
	}
	if _, err := f.executor.QueryTemplate(callerCtx("user-2"), tmpl.ID, query.Request{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("QueryTemplate by stranger = %v, want ErrNotFound", err)
	}

	if _, err := f.executor.QueryValue(callerCtx("user-1"), value.ID, query.Request{}); err != nil {
		t.Errorf("QueryValue by owner = %v, want success", err)
	}
}

func TestQueryRequiresCaller(t *testing.T) {
	f := newFixture(t)
	tmpl := seedBasics(t, f.db)

	_, err := f.executor.QueryTemplate(context.Background(), tmpl.ID, query.Request{})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("QueryTemplate without caller = %v, want ErrUnauthorized", err)
	}
}

func TestQueryRejectsOutOfRangeRequests(t *testing.T) {
	f := newFixture(t)
	tmpl := seedBasics(t, f.db)
	ctx := callerCtx("user-1")

	bad := []query.Request{
		{PageSize: query.MaxPageSize + 1},
		{SortBy: "created_at"},
		{SortDir: "sideways"},
	}
	for i, req := range bad {
		if _, err := f.executor.QueryTemplate(ctx, tmpl.ID, req); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("request %d = %v, want ErrValidation", i, err)
		}
	}
}

func TestQueryDistinguishesEmptyFilterFromNoTranslations(t *testing.T) {
	f := newFixture(t)
	en := testsupport.SeedLanguage(t, f.db, "en", "English")
	translated := testsupport.SeedValue(t, f.db, "greeting", domain.Global())
	testsupport.SeedTranslation(t, f.db, translated, en, "Hello")
	bare := testsupport.SeedValue(t, f.db, "untranslated", domain.Global())
	ctx := callerCtx("user-1")

	// A filter that matches nothing is an empty page, not an error.
	res, err := f.executor.QueryValue(ctx, translated.ID, query.Request{Language: "ru"})
	if err != nil {
		t.Fatalf("filtered-empty query: %v", err)
	}
	if res.TotalItems != 0 || len(res.Items) != 0 {
		t.Errorf("filtered-empty result = %+v, want empty page", res)
	}

	// A value with no translations at all is NotFound.
	if _, err := f.executor.QueryValue(ctx, bare.ID, query.Request{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("bare value = %v, want ErrNotFound", err)
	}
}
