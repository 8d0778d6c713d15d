// Package bundle maintains the denormalized translation snapshots cached next
// to the relational source of truth.
package bundle

import (
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/goliatone/go-localize/store"
)

// Entry is one translated value inside a bundle. Shape matches store.Row so the
// cached and relational query pipelines are interchangeable.
type Entry struct {
	ValueID      string `msgpack:"value_id"`
	Key          string `msgpack:"key"`
	Text         string `msgpack:"text"`
	LanguageCode string `msgpack:"language_code"`
}

// Bundle is the denormalized snapshot of one template's or value's active
// translations. Bundles are replaced wholesale, never patched in place.
type Bundle struct {
	EntityID  string    `msgpack:"entity_id"`
	Name      string    `msgpack:"name"`
	OwnerID   *string   `msgpack:"owner_id"`
	OwnerName string    `msgpack:"owner_name"`
	Entries   []Entry   `msgpack:"entries"`
	CachedAt  time.Time `msgpack:"cached_at"`
}

// Summary is the lightweight projection returned by bundle enumeration.
type Summary struct {
	EntityID     string
	Name         string
	OwnerName    string
	Translations int
}

// EntriesFromRows converts relational rows into bundle entries.
func EntriesFromRows(rows []store.Row) []Entry {
	entries := make([]Entry, len(rows))
	for i, row := range rows {
		entries[i] = Entry{
			ValueID:      row.ValueID,
			Key:          row.Key,
			Text:         row.Text,
			LanguageCode: row.LanguageCode,
		}
	}
	return entries
}

// Rows converts bundle entries back into the shared row shape.
func (b *Bundle) Rows() []store.Row {
	rows := make([]store.Row, len(b.Entries))
	for i, e := range b.Entries {
		rows[i] = store.Row{
			ValueID:      e.ValueID,
			Key:          e.Key,
			Text:         e.Text,
			LanguageCode: e.LanguageCode,
		}
	}
	return rows
}

func encode(b *Bundle) ([]byte, error) {
	return msgpack.Marshal(b)
}

func decode(payload []byte) (*Bundle, error) {
	b := new(Bundle)
	if err := msgpack.Unmarshal(payload, b); err != nil {
		return nil, err
	}
	return b, nil
}
