package localize

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-localize/domain"
	"github.com/goliatone/go-localize/identity"
	"github.com/goliatone/go-localize/language"
	"github.com/goliatone/go-localize/store"
)

// CreateValueRequest creates a dictionary value together with its first active
// translation. Language is optional; when empty the classifier assigns one,
// preferring English among the script matches. Global publishes the value to
// the shared tenant instead of the caller's own scope.
type CreateValueRequest struct {
	Key      string
	Text     string
	Language string
	Global   bool
}

// Validate checks required fields. Failures carry ErrValidation.
func (r CreateValueRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Key, validation.Required),
		validation.Field(&r.Text, validation.Required),
	)
	if err != nil {
		return domain.Validation("create value: %v", err)
	}
	return nil
}

// CreateValue creates a value and its first translation in one transaction.
// The key is normalized and duplicate-checked via its owner-scoped hash.
func (s *Service) CreateValue(ctx context.Context, req CreateValueRequest) (*store.Value, error) {
	caller, ok := identity.CallerFrom(ctx)
	if !ok {
		return nil, domain.Unauthorized("no caller identity resolved")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	owner := domain.OwnedBy(caller)
	if req.Global {
		owner = domain.Global()
	}

	hash := identity.HashScoped(req.Key, owner.Column())
	exists, err := s.values.ExistsHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.AlreadyExists("value %q in %s scope", identity.Normalize(req.Key), owner.Name())
	}

	candidates, byCode, err := s.activeCandidates(ctx)
	if err != nil {
		return nil, err
	}
	matches := language.Classify(req.Text, candidates)
	if len(matches) == 0 {
		return nil, domain.Validation("text matches no configured language")
	}

	var chosen *store.Language
	if req.Language != "" {
		if !language.Matches(matches, req.Language) {
			return nil, domain.Validation("text is not written in %s", req.Language)
		}
		chosen = byCode[req.Language]
	} else {
		pick, _ := language.Pick(matches)
		chosen = byCode[pick.Code]
	}

	now := time.Now().UTC()
	value := &store.Value{
		ID:        uuid.NewString(),
		Key:       identity.Normalize(req.Key),
		KeyHash:   hash,
		OwnerID:   owner.Column(),
		CreatedAt: now,
	}
	translation := &store.Translation{
		ID:         uuid.NewString(),
		ValueID:    value.ID,
		LanguageID: chosen.ID,
		Text:       req.Text,
		Active:     true,
		CreatedAt:  now,
	}

	err = store.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		if err := store.NewValueStore(tx).Create(ctx, value); err != nil {
			return err
		}
		return store.NewTranslationStore(tx).Create(ctx, translation)
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// DeleteValue removes a value, its translations and its template memberships
// in one transaction. Templates left without values are deleted too. Bundles
// are reconciled after commit: the value's bundle is dropped, each affected
// template bundle is rebuilt or dropped.
func (s *Service) DeleteValue(ctx context.Context, valueID string) error {
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
	if !value.Owner().CanMutate(caller) {
		return domain.Forbidden("value %s is not mutable by %s", valueID, caller)
	}

	affected, err := s.templates.ByValue(ctx, valueID)
	if err != nil {
		return err
	}

	emptied := make(map[string]bool, len(affected))
	err = store.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		templates := store.NewTemplateStore(tx)
		if err := store.NewTranslationStore(tx).DeleteByValue(ctx, valueID); err != nil {
			return err
		}
		for _, tmpl := range affected {
			if err := templates.DetachValue(ctx, tmpl.ID, valueID); err != nil {
				return err
			}
			n, err := templates.ValueCount(ctx, tmpl.ID)
			if err != nil {
				return err
			}
			if n == 0 {
				if err := templates.Delete(ctx, tmpl.ID); err != nil {
					return err
				}
				emptied[tmpl.ID] = true
			}
		}
		return store.NewValueStore(tx).Delete(ctx, valueID)
	})
	if err != nil {
		return err
	}

	if err := s.valueBundles.Delete(ctx, valueID); err != nil {
		s.logger.WarnContext(ctx, "value bundle drop failed",
			"value_id", valueID, "error", err)
	}
	for i := range affected {
		tmpl := &affected[i]
		if emptied[tmpl.ID] {
			if err := s.templateBundles.Delete(ctx, tmpl.ID); err != nil {
				s.logger.WarnContext(ctx, "template bundle drop failed",
					"template_id", tmpl.ID, "error", err)
			}
			continue
		}
		s.refreshTemplate(ctx, tmpl)
	}
	return nil
}
