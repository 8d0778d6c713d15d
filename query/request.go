// Package query answers paginated, sorted, filtered translation queries
// identically whether they are served from a cached bundle or the relational
// store.
package query

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-localize/domain"
)

// Sort fields accepted by Request.SortBy.
const (
	SortByKey          = "key"
	SortByValue        = "value"
	SortByLanguageCode = "languageCode"
)

// Sort directions accepted by Request.SortDir.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// DefaultPageSize applies when a request leaves PageSize unset.
const DefaultPageSize = 10

// MaxPageSize caps a single page.
const MaxPageSize = 500

// DefaultLanguage is the filter applied when a single-language request names no
// language.
const DefaultLanguage = "en"

// Request carries the query parameters. Zero values mean "use the default";
// Validate rejects out-of-range input before normalization fills defaults.
type Request struct {
	Page            int
	PageSize        int
	Search          string
	SortBy          string
	SortDir         string
	Language        string
	AllTranslations bool
}

// Validate checks ranges and enumerations. Failures carry ErrValidation.
func (r Request) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Page, validation.Min(0)),
		validation.Field(&r.PageSize, validation.Min(0), validation.Max(MaxPageSize)),
		validation.Field(&r.SortBy, validation.In(SortByKey, SortByValue, SortByLanguageCode)),
		validation.Field(&r.SortDir, validation.In(SortAsc, SortDesc)),
	)
	if err != nil {
		return domain.Validation("query request: %v", err)
	}
	return nil
}

// normalized returns a copy with every default filled in: first page, default
// page size, key-ascending sort, English single-language filter.
func (r Request) normalized() Request {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
	if r.SortBy == "" {
		r.SortBy = SortByKey
	}
	if r.SortDir == "" {
		r.SortDir = SortAsc
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	return r
}
