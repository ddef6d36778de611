// Package pagination provides page/per_page parsing and the pagination envelope
// returned by every list endpoint.
package pagination

import (
	"math"
	"net/url"
	"strconv"
)

// Config holds the upper bound applied to per_page.
type Config struct {
	MaxPerPage int `mapstructure:"max_per_page"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{MaxPerPage: 100}
}

// Request is a normalized page request.
type Request struct {
	Page    int
	PerPage int
}

// Normalize clamps the request: page < 1 becomes 1, per_page < 1 becomes
// defaultPerPage and per_page above the configured maximum is capped.
func (r *Request) Normalize(defaultPerPage int, cfg Config) {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PerPage < 1 {
		r.PerPage = max(defaultPerPage, 1)
	}
	if cfg.MaxPerPage > 0 && r.PerPage > cfg.MaxPerPage {
		r.PerPage = cfg.MaxPerPage
	}
	// 保证 Offset 不溢出; 这样的页码必然越界, 返回空列表
	if maxPage := math.MaxInt/r.PerPage + 1; r.Page > maxPage {
		r.Page = maxPage
	}
}

// Offset is the number of rows to skip.
func (r Request) Offset() int {
	return (r.Page - 1) * r.PerPage
}

// Limit is the number of rows to fetch.
func (r Request) Limit() int {
	return r.PerPage
}

// FromQuery parses the page and per_page query parameters. Values that are not
// integers fall back to the defaults.
func FromQuery(values url.Values, defaultPerPage int, cfg Config) Request {
	page, err := strconv.Atoi(values.Get("page"))
	if err != nil {
		page = 1
	}
	perPage, err := strconv.Atoi(values.Get("per_page"))
	if err != nil {
		perPage = defaultPerPage
	}

	req := Request{Page: page, PerPage: perPage}
	req.Normalize(defaultPerPage, cfg)
	return req
}

// Meta is the pagination envelope.
type Meta struct {
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"current_page"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// NewMeta computes the envelope for a page of a result set with total rows.
func NewMeta(total int64, req Request) Meta {
	pages := 0
	if req.PerPage > 0 && total > 0 {
		pages = int((total + int64(req.PerPage) - 1) / int64(req.PerPage))
	}

	return Meta{
		Total:       total,
		Pages:       pages,
		CurrentPage: req.Page,
		HasNext:     req.Page < pages,
		HasPrev:     req.Page > 1,
	}
}

// Page is one page of items along with its envelope.
type Page[T any] struct {
	Items []T
	Meta  Meta
}

// NewPage builds a Page, never returning a nil item slice.
func NewPage[T any](items []T, total int64, req Request) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items: items,
		Meta:  NewMeta(total, req),
	}
}

// Map converts the items of a page while keeping its envelope.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		out = append(out, fn(item))
	}
	return Page[U]{Items: out, Meta: p.Meta}
}
