package store

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// ValueStore is the typed repository for dictionary values. It accepts an IDB so
// the same store runs against the database or an open transaction.
type ValueStore struct {
	db bun.IDB
}

// NewValueStore builds a ValueStore over db.
func NewValueStore(db bun.IDB) *ValueStore {
	return &ValueStore{db: db}
}

// Create inserts a value.
func (s *ValueStore) Create(ctx context.Context, value *Value) error {
	_, err := s.db.NewInsert().Model(value).Exec(ctx)
	return err
}

// ByID fetches a value by primary key, with optional composable criteria.
func (s *ValueStore) ByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*Value, error) {
	value := new(Value)
	q := s.db.NewSelect().Model(value).Where("v.id = ?", id)
	for _, c := range criteria {
		q = c(q)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, notFound(err, "value %s", id)
	}
	return value, nil
}

// ByHash fetches a value by its owner-scoped identity hash.
func (s *ValueStore) ByHash(ctx context.Context, hash string) (*Value, error) {
	value := new(Value)
	err := s.db.NewSelect().Model(value).Where("v.key_hash = ?", hash).Scan(ctx)
	if err != nil {
		return nil, notFound(err, "value hash %s", hash)
	}
	return value, nil
}

// ExistsHash is the O(1) duplicate check used before creating a value.
func (s *ValueStore) ExistsHash(ctx context.Context, hash string) (bool, error) {
	return s.db.NewSelect().
		Model((*Value)(nil)).
		Where("v.key_hash = ?", hash).
		Exists(ctx)
}

// Delete removes a value row. Translation and template-membership cleanup is the
// mutation handler's job, inside the same transaction.
func (s *ValueStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.NewDelete().
		Model((*Value)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
