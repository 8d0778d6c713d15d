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

// AddLanguageRequest configures a new active language. Blocks is the
// comma-separated list of inclusive hex Unicode ranges the classifier matches
// against, for example "0400-04FF".
type AddLanguageRequest struct {
	Code   string
	Name   string
	Blocks string
}

// Validate checks required fields. Failures carry ErrValidation.
func (r AddLanguageRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required),
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Blocks, validation.Required),
	)
	if err != nil {
		return domain.Validation("add language: %v", err)
	}
	return nil
}

// AddLanguage registers an active language. Codes are globally unique and the
// block ranges must parse.
func (s *Service) AddLanguage(ctx context.Context, req AddLanguageRequest) (*store.Language, error) {
	if _, ok := identity.CallerFrom(ctx); !ok {
		return nil, domain.Unauthorized("no caller identity resolved")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := language.ParseBlocks(req.Blocks); err != nil {
		return nil, domain.Validation("add language: %v", err)
	}

	exists, err := s.languages.ExistsCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.AlreadyExists("language %s", req.Code)
	}

	lang := &store.Language{
		ID:        uuid.NewString(),
		Code:      req.Code,
		Name:      req.Name,
		Blocks:    req.Blocks,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.languages.Create(ctx, lang); err != nil {
		return nil, err
	}
	return lang, nil
}
