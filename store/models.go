package store

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-localize/domain"
)

// Language is a configured language: a globally unique code plus the Unicode
// block ranges used by the classifier. Only active languages participate in
// classification and lookup.
type Language struct {
	bun.BaseModel `bun:"table:languages,alias:l"`

	ID        string    `bun:"id,pk"`
	Code      string    `bun:"code,notnull,unique"`
	Name      string    `bun:"name,notnull"`
	Blocks    string    `bun:"blocks,notnull"`
	Active    bool      `bun:"active,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// Value is an owner-scoped dictionary entry. KeyHash is the owner-scoped
// identity hash of Key, unique per owner.
type Value struct {
	bun.BaseModel `bun:"table:dictionary_values,alias:v"`

	ID        string    `bun:"id,pk"`
	Key       string    `bun:"key,notnull"`
	KeyHash   string    `bun:"key_hash,notnull"`
	OwnerID   *string   `bun:"owner_id"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// Owner returns the tagged ownership variant for the value.
func (v *Value) Owner() domain.Owner {
	return domain.OwnerOf(v.OwnerID)
}

// Translation is one rendering of a Value in one Language. At most one active
// translation may exist per (value, language).
type Translation struct {
	bun.BaseModel `bun:"table:translations,alias:t"`

	ID         string    `bun:"id,pk"`
	ValueID    string    `bun:"value_id,notnull"`
	LanguageID string    `bun:"language_id,notnull"`
	Text       string    `bun:"text,notnull"`
	Active     bool      `bun:"active,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
}

// Template is an owner-scoped named collection of values. NameHash is the
// owner-scoped identity hash of Name. A template references at least one value;
// one left empty is deleted.
type Template struct {
	bun.BaseModel `bun:"table:templates,alias:tpl"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name,notnull"`
	NameHash  string    `bun:"name_hash,notnull"`
	OwnerID   *string   `bun:"owner_id"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// Owner returns the tagged ownership variant for the template.
func (t *Template) Owner() domain.Owner {
	return domain.OwnerOf(t.OwnerID)
}

// TemplateValue associates a value with a template.
type TemplateValue struct {
	bun.BaseModel `bun:"table:template_values,alias:tv"`

	TemplateID string `bun:"template_id,pk"`
	ValueID    string `bun:"value_id,pk"`
}

// Row is the flat projection shared by the relational miss path and the cached
// bundle entries, so both query pipelines operate on the same shape.
type Row struct {
	ValueID      string `bun:"value_id"`
	Key          string `bun:"key"`
	Text         string `bun:"text"`
	LanguageCode string `bun:"language_code"`
}
