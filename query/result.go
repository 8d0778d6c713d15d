package query

import (
	"sort"
	"strings"

	"github.com/goliatone/go-localize/store"
)

// Item is one translated value in a query result page.
type Item struct {
	ValueID      string
	Key          string
	Value        string
	LanguageCode string
}

// Result is the uniform paginated shape both query paths produce.
type Result struct {
	Page            int
	PageSize        int
	TotalItems      int
	HasNextPage     bool
	HasPreviousPage bool
	Items           []Item
}

func itemsFromRows(rows []store.Row) []Item {
	items := make([]Item, len(rows))
	for i, row := range rows {
		items[i] = Item{
			ValueID:      row.ValueID,
			Key:          row.Key,
			Value:        row.Text,
			LanguageCode: row.LanguageCode,
		}
	}
	return items
}

func newResult(items []Item, total, page, pageSize int) *Result {
	return &Result{
		Page:            page,
		PageSize:        pageSize,
		TotalItems:      total,
		HasNextPage:     page*pageSize < total,
		HasPreviousPage: page > 1,
		Items:           items,
	}
}

// applyPipeline runs the in-memory half of the hybrid query: language
// projection, substring search, deterministic sort, count and page slice. It
// must stay observably identical to store.TranslationStore.QueryRows.
func applyPipeline(rows []store.Row, req Request) *Result {
	filtered := rows[:0:0]
	needle := strings.ToLower(req.Search)
	for _, row := range rows {
		if !req.AllTranslations && row.LanguageCode != req.Language {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(row.Key), needle) &&
			!strings.Contains(strings.ToLower(row.Text), needle) {
			continue
		}
		filtered = append(filtered, row)
	}

	sortRows(filtered, req.SortBy, req.SortDir == SortDesc)

	total := len(filtered)
	lo := (req.Page - 1) * req.PageSize
	hi := lo + req.PageSize
	if lo > total {
		lo = total
	}
	if hi > total {
		hi = total
	}

	return newResult(itemsFromRows(filtered[lo:hi]), total, req.Page, req.PageSize)
}

// sortRows mirrors the relational ORDER BY: the requested column with its
// direction, then key, language code and value id ascending as tiebreaks.
func sortRows(rows []store.Row, sortBy string, desc bool) {
	field := func(row store.Row) string {
		switch sortBy {
		case SortByValue:
			return row.Text
		case SortByLanguageCode:
			return row.LanguageCode
		default:
			return row.Key
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := field(rows[i]), field(rows[j])
		if a != b {
			if desc {
				return a > b
			}
			return a < b
		}
		if rows[i].Key != rows[j].Key {
			return rows[i].Key < rows[j].Key
		}
		if rows[i].LanguageCode != rows[j].LanguageCode {
			return rows[i].LanguageCode < rows[j].LanguageCode
		}
		return rows[i].ValueID < rows[j].ValueID
	})
}
