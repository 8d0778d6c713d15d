package localize

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-localize/domain"
	"github.com/goliatone/go-localize/identity"
	"github.com/goliatone/go-localize/language"
	"github.com/goliatone/go-localize/store"
)

// AddTranslationRequest adds a translation of an existing value in a named
// language.
type AddTranslationRequest struct {
	Text     string
	Language string
}

// Validate checks required fields. Failures carry ErrValidation.
func (r AddTranslationRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required),
		validation.Field(&r.Language, validation.Required),
	)
	if err != nil {
		return domain.Validation("add translation: %v", err)
	}
	return nil
}

// AddTranslation adds an active translation. The language must be active and
// script-compatible with the text, and the value may hold at most one active
// translation per language. Any caller who can see the value may translate it.
func (s *Service) AddTranslation(ctx context.Context, valueID string, req AddTranslationRequest) (*store.Translation, error) {
	caller, ok := identity.CallerFrom(ctx)
	if !ok {
		return nil, domain.Unauthorized("no caller identity resolved")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	value, err := s.values.ByID(ctx, valueID)
	if err != nil {
		return nil, err
	}
	if !value.Owner().VisibleTo(caller) {
		return nil, domain.NotFound("value %s", valueID)
	}

	lang, err := s.languages.ActiveByCode(ctx, req.Language)
	if err != nil {
		return nil, err
	}
	if err := checkScript(req.Text, lang); err != nil {
		return nil, err
	}

	taken, err := s.translations.ActiveExists(ctx, valueID, lang.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.AlreadyExists("active %s translation for value %s", lang.Code, valueID)
	}

	translation := &store.Translation{
		ID:         uuid.NewString(),
		ValueID:    valueID,
		LanguageID: lang.ID,
		Text:       req.Text,
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.translations.Create(ctx, translation); err != nil {
		return nil, err
	}

	s.fanOut(ctx, value)
	return translation, nil
}

// UpdateTranslation rewrites a translation's text, then reconciles the value
// bundle and every cached template bundle containing the value.
func (s *Service) UpdateTranslation(ctx context.Context, translationID, text string) error {
	caller, ok := identity.CallerFrom(ctx)
	if !ok {
		return domain.Unauthorized("no caller identity resolved")
	}
	if text == "" {
		return domain.Validation("update translation: text cannot be blank")
	}

	translation, err := s.translations.ByID(ctx, translationID)
	if err != nil {
		return err
	}
	value, err := s.values.ByID(ctx, translation.ValueID)
	if err != nil {
		return err
	}
	if !value.Owner().VisibleTo(caller) {
		return domain.NotFound("translation %s", translationID)
	}

	lang, err := s.languages.ByID(ctx, translation.LanguageID)
	if err != nil {
		return err
	}
	if err := checkScript(text, lang); err != nil {
		return err
	}

	translation.Text = text
	if err := s.translations.Update(ctx, translation); err != nil {
		return err
	}

	s.fanOut(ctx, value)
	return nil
}

// DeleteTranslation removes a translation, then reconciles the value bundle
// and every cached template bundle containing the value.
func (s *Service) DeleteTranslation(ctx context.Context, translationID string) error {
	caller, ok := identity.CallerFrom(ctx)
	if !ok {
		return domain.Unauthorized("no caller identity resolved")
	}

	translation, err := s.translations.ByID(ctx, translationID)
	if err != nil {
		return err
	}
	value, err := s.values.ByID(ctx, translation.ValueID)
	if err != nil {
		return err
	}
	if !value.Owner().VisibleTo(caller) {
		return domain.NotFound("translation %s", translationID)
	}

	if err := s.translations.Delete(ctx, translationID); err != nil {
		return err
	}

	s.fanOut(ctx, value)
	return nil
}

// checkScript verifies the text is recognizably written in the language's
// configured Unicode blocks.
func checkScript(text string, lang *store.Language) error {
	table, err := language.ParseBlocks(lang.Blocks)
	if err != nil {
		return domain.Validation("language %s has invalid blocks: %v", lang.Code, err)
	}
	matches := language.Classify(text, []language.Candidate{{Code: lang.Code, Table: table}})
	if len(matches) == 0 {
		return domain.Validation("text is not written in %s", lang.Code)
	}
	return nil
}
