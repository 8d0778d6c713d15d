package bundle

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/goliatone/go-localize/domain"
	"github.com/goliatone/go-localize/internal/cachestore"
)

// Namespaces for the two bundle kinds; each gets its own cachestore namespace
// and therefore its own live-key index.
const (
	NamespaceTemplate = "bundles:template"
	NamespaceValue    = "bundles:value"
)

// Service orchestrates cache population, point lookup, existence checks,
// invalidation and enumeration for one bundle kind. Reads fail soft: an
// unreachable cache store is reported as a miss so callers fall through to the
// relational path.
type Service struct {
	store  cachestore.Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewService builds a Service over a namespaced cache store. ttl is the
// staleness ceiling applied to every bundle write.
func NewService(store cachestore.Store, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, ttl: ttl, logger: logger}
}

// Get returns the cached bundle for the entity, or nil on a miss. Reads fail
// soft by contract: store failures and undecodable payloads degrade to a miss,
// logged and never surfaced, so the signature carries no error at all.
func (s *Service) Get(ctx context.Context, entityID string) *Bundle {
	payload, err := s.store.Get(ctx, entityID)
	if errors.Is(err, cachestore.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.WarnContext(ctx, "bundle cache read failed, treating as miss",
			"entity_id", entityID, "error", err)
		return nil
	}

	b, err := decode(payload)
	if err != nil {
		s.logger.WarnContext(ctx, "bundle payload undecodable, treating as miss",
			"entity_id", entityID, "error", err)
		return nil
	}
	return b
}

// Set stores a fresh bundle and registers its key in the live-key index.
func (s *Service) Set(ctx context.Context, entityID, name string, owner domain.Owner, ownerName string, entries []Entry) error {
	b := &Bundle{
		EntityID:  entityID,
		Name:      name,
		OwnerID:   owner.Column(),
		OwnerName: ownerName,
		Entries:   entries,
		CachedAt:  time.Now().UTC(),
	}

	payload, err := encode(b)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, entityID, payload, s.ttl); err != nil {
		return domain.Transient("bundle cache write for %s: %v", entityID, err)
	}
	return nil
}

// Delete removes the bundle and its index entry.
func (s *Service) Delete(ctx context.Context, entityID string) error {
	if err := s.store.Delete(ctx, entityID); err != nil {
		return domain.Transient("bundle cache delete for %s: %v", entityID, err)
	}
	return nil
}

// IsCached reports whether a bundle is present without deserializing it. Store
// failures degrade to false.
func (s *Service) IsCached(ctx context.Context, entityID string) bool {
	ok, err := s.store.Exists(ctx, entityID)
	if err != nil {
		s.logger.WarnContext(ctx, "bundle cache existence check failed",
			"entity_id", entityID, "error", err)
		return false
	}
	return ok
}

// List paginates the live-key index and projects each bundle to a summary.
// Entries that expired between the index read and the fetch are skipped. A
// non-positive take is an empty page; callers always state how much they want,
// so enumeration can never fetch every bundle by accident.
func (s *Service) List(ctx context.Context, skip, take int) ([]Summary, error) {
	if take <= 0 {
		return []Summary{}, nil
	}

	ids, err := s.store.Keys(ctx)
	if err != nil {
		return nil, domain.Transient("bundle key index: %v", err)
	}

	if skip < 0 {
		skip = 0
	}
	if skip >= len(ids) {
		return []Summary{}, nil
	}
	ids = ids[skip:]
	if take < len(ids) {
		ids = ids[:take]
	}

	summaries := make([]Summary, 0, len(ids))
	for _, id := range ids {
		payload, err := s.store.Get(ctx, id)
		if err != nil {
			continue
		}
		b, err := decode(payload)
		if err != nil {
			continue
		}
		summaries = append(summaries, Summary{
			EntityID:     b.EntityID,
			Name:         b.Name,
			OwnerName:    b.OwnerName,
			Translations: len(b.Entries),
		})
	}
	return summaries, nil
}
