package localize

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-localize/domain"
	"github.com/goliatone/go-localize/identity"
	"github.com/goliatone/go-localize/store"
)

// CreateTemplateRequest creates a named collection of values. A template
// references at least one value. Global publishes the template to the shared
// tenant instead of the caller's own scope.
type CreateTemplateRequest struct {
	Name     string
	ValueIDs []string
	Global   bool
}

// Validate checks required fields. Failures carry ErrValidation.
func (r CreateTemplateRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.ValueIDs, validation.Required, validation.Length(1, 0)),
	)
	if err != nil {
		return domain.Validation("create template: %v", err)
	}
	return nil
}

// CreateTemplate creates a template and attaches its values in one
// transaction. The name is duplicate-checked via its owner-scoped hash, and
// every referenced value must be visible to the caller.
func (s *Service) CreateTemplate(ctx context.Context, req CreateTemplateRequest) (*store.Template, error) {
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

	hash := identity.HashScoped(req.Name, owner.Column())
	exists, err := s.templates.ExistsHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.AlreadyExists("template %q in %s scope", req.Name, owner.Name())
	}

	for _, valueID := range req.ValueIDs {
		value, err := s.values.ByID(ctx, valueID)
		if err != nil {
			return nil, err
		}
		if !value.Owner().VisibleTo(caller) {
			return nil, domain.NotFound("value %s", valueID)
		}
	}

	template := &store.Template{
		ID:        uuid.NewString(),
		Name:      req.Name,
		NameHash:  hash,
		OwnerID:   owner.Column(),
		CreatedAt: time.Now().UTC(),
	}
	err = store.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		templates := store.NewTemplateStore(tx)
		if err := templates.Create(ctx, template); err != nil {
			return err
		}
		for _, valueID := range req.ValueIDs {
			if err := templates.AttachValue(ctx, template.ID, valueID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return template, nil
}

// AttachValue adds a value to a template and reconciles the template bundle.
// The value's own bundle is untouched; bundles are independent.
func (s *Service) AttachValue(ctx context.Context, templateID, valueID string) error {
	tmpl, err := s.mutableTemplate(ctx, templateID)
	if err != nil {
		return err
	}
	caller, _ := identity.CallerFrom(ctx)

	value, err := s.values.ByID(ctx, valueID)
	if err != nil {
		return err
	}
	if !value.Owner().VisibleTo(caller) {
		return domain.NotFound("value %s", valueID)
	}

	member, err := s.templates.HasValue(ctx, templateID, valueID)
	if err != nil {
		return err
	}
	if member {
		return domain.AlreadyExists("value %s in template %s", valueID, templateID)
	}

	if err := s.templates.AttachValue(ctx, templateID, valueID); err != nil {
		return err
	}
	s.refreshTemplate(ctx, tmpl)
	return nil
}

// DetachValue removes a value from a template. A template left with zero
// values is deleted and its bundle dropped; otherwise the bundle is
// reconciled.
func (s *Service) DetachValue(ctx context.Context, templateID, valueID string) error {
	tmpl, err := s.mutableTemplate(ctx, templateID)
	if err != nil {
		return err
	}

	member, err := s.templates.HasValue(ctx, templateID, valueID)
	if err != nil {
		return err
	}
	if !member {
		return domain.NotFound("value %s in template %s", valueID, templateID)
	}

	var deleted bool
	err = store.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		templates := store.NewTemplateStore(tx)
		if err := templates.DetachValue(ctx, templateID, valueID); err != nil {
			return err
		}
		n, err := templates.ValueCount(ctx, templateID)
		if err != nil {
			return err
		}
		if n == 0 {
			deleted = true
			return templates.Delete(ctx, templateID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if deleted {
		if err := s.templateBundles.Delete(ctx, templateID); err != nil {
			s.logger.WarnContext(ctx, "template bundle drop failed",
				"template_id", templateID, "error", err)
		}
		return nil
	}
	s.refreshTemplate(ctx, tmpl)
	return nil
}

// DeleteTemplate removes a template and its memberships and drops its bundle.
// The referenced values are kept.
func (s *Service) DeleteTemplate(ctx context.Context, templateID string) error {
	if _, err := s.mutableTemplate(ctx, templateID); err != nil {
		return err
	}

	if err := s.templates.Delete(ctx, templateID); err != nil {
		return err
	}
	if err := s.templateBundles.Delete(ctx, templateID); err != nil {
		s.logger.WarnContext(ctx, "template bundle drop failed",
			"template_id", templateID, "error", err)
	}
	return nil
}

// mutableTemplate resolves a template the caller may structurally change.
// Invisible templates are NotFound; visible but shared ones are Forbidden.
func (s *Service) mutableTemplate(ctx context.Context, templateID string) (*store.Template, error) {
	caller, ok := identity.CallerFrom(ctx)
	if !ok {
		return nil, domain.Unauthorized("no caller identity resolved")
	}
	tmpl, err := s.templates.ByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !tmpl.Owner().VisibleTo(caller) {
		return nil, domain.NotFound("template %s", templateID)
	}
	if !tmpl.Owner().CanMutate(caller) {
		return nil, domain.Forbidden("template %s is not mutable by %s", templateID, caller)
	}
	return tmpl, nil
}
