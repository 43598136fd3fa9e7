// Package pagination applies uniform paging behavior to listing operations.
// Callers supply a raw page request; the normalizer corrects out-of-bounds
// values instead of rejecting them, so a listing never fails on bad paging
// input.
package pagination

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// Request carries caller-supplied paging parameters. Zero values mean the
// parameter was absent.
type Request struct {
	PageNumber int
	PageSize   int
}

// Bounds are the per-operation paging limits.
type Bounds struct {
	DefaultPageNumber int
	DefaultPageSize   int
	MaxPageSize       int
}

// Result wraps one page of items with paging metadata. TotalItems comes from
// a companion count query and is best-effort consistent with Items; no
// transactional snapshot is assumed of the underlying store.
type Result[T any] struct {
	Items      []T   `json:"items"`
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// Source is the listing collaborator a paginated operation is built on. The
// operation itself is written as if returning an unbounded ordered sequence;
// slicing happens here.
type Source[T any] interface {
	CountAll(ctx context.Context) (int64, error)
	FetchSlice(ctx context.Context, offset, limit int) ([]T, error)
}

// Normalizer validates and clamps page requests against configured bounds.
// It is stateless per call and safe for concurrent use.
type Normalizer struct {
	bounds Bounds
	logger *zap.Logger
}

// NewNormalizer creates a Normalizer with the given bounds.
func NewNormalizer(bounds Bounds, logger *zap.Logger) *Normalizer {
	return &Normalizer{bounds: bounds, logger: logger}
}

// Normalize corrects req against the configured bounds. An absent or sub-1
// page number or size falls back to the default; an oversized page size is
// clamped to the maximum with a warning, not an error.
func (n *Normalizer) Normalize(req Request) Request {
	out := req
	if out.PageNumber < 1 {
		out.PageNumber = n.bounds.DefaultPageNumber
	}
	if out.PageSize < 1 {
		out.PageSize = n.bounds.DefaultPageSize
	}
	if out.PageSize > n.bounds.MaxPageSize {
		n.logger.Warn("page size exceeds maximum, clamping",
			zap.Int("requested", out.PageSize),
			zap.Int("max", n.bounds.MaxPageSize))
		out.PageSize = n.bounds.MaxPageSize
	}
	return out
}

// Paginate normalizes req, runs the companion count query, fetches the
// bounded slice, and wraps it with paging metadata. Normalization runs before
// the fetch so the source sees only valid bounds.
func Paginate[T any](ctx context.Context, n *Normalizer, req Request, src Source[T]) (*Result[T], error) {
	norm := n.Normalize(req)

	total, err := src.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	offset := (norm.PageNumber - 1) * norm.PageSize
	items, err := src.FetchSlice(ctx, offset, norm.PageSize)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	return &Result[T]{
		Items:      items,
		PageNumber: norm.PageNumber,
		PageSize:   norm.PageSize,
		TotalItems: total,
		TotalPages: TotalPages(total, norm.PageSize),
	}, nil
}

// TotalPages computes ceil(totalItems / pageSize).
func TotalPages(totalItems int64, pageSize int) int {
	if pageSize < 1 || totalItems <= 0 {
		return 0
	}
	return int((totalItems + int64(pageSize) - 1) / int64(pageSize))
}

// FromQuery reads "page" and "pageSize" query parameters from an HTTP
// request. Missing or non-numeric values are left at zero for Normalize to
// fill in.
func FromQuery(r *http.Request) Request {
	var req Request
	if v := r.URL.Query().Get("page"); v != "" {
		if num, err := strconv.Atoi(v); err == nil {
			req.PageNumber = num
		}
	}
	if v := r.URL.Query().Get("pageSize"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			req.PageSize = size
		}
	}
	return req
}
