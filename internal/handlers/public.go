// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/content"
	"inkwell/internal/query"
)

// Related/popular read defaults.
const (
	defaultRelatedLimit = 5
	maxRelatedLimit     = 20
	defaultPopularLimit = 10
)

// Public groups the read-side handlers: listings, blog detail, and the
// related and popularity rankers. The listing routes sit behind the
// response-cache middleware; callers see the result in the X-Cache header.
type Public struct {
	svc    *content.Service
	limits query.Limits
}

// NewPublic creates a new Public handler group.
func NewPublic(svc *content.Service, limits query.Limits) *Public {
	return &Public{svc: svc, limits: limits}
}

// ListBlogs serves GET /api/blogs: a filtered, paginated, optionally
// full-text-searched listing.
//
// Without an explicit status parameter the listing applies NO status
// restriction, so drafts are included. Public-facing callers must pass
// status=published.
func (p *Public) ListBlogs(w http.ResponseWriter, r *http.Request) {
	f, err := query.ParseFilter(r.URL.Query(), p.limits)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := p.svc.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetBlog serves GET /api/blogs/{slug}: a published blog's detail. Each
// hit records a view; the route is deliberately uncached so counts stay
// honest.
func (p *Public) GetBlog(w http.ResponseWriter, r *http.Request) {
	b, err := p.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := p.svc.RecordView(r.Context(), b.ID); err != nil {
		// A lost view is not worth failing the read.
		writeJSON(w, http.StatusOK, b)
		return
	}
	b.ViewCount++
	writeJSON(w, http.StatusOK, b)
}

// Related serves GET /api/blogs/{id}/related: blogs sharing the source's
// category or tags, ranked.
func (p *Public) Related(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("id", "must be a valid id"))
		return
	}

	limit := defaultRelatedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, apperr.Validation("limit", "must be a positive integer"))
			return
		}
		limit = n
	}
	if limit > maxRelatedLimit {
		limit = maxRelatedLimit
	}

	res, err := p.svc.Related(r.Context(), id, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Popular serves GET /api/blogs/popular: published blogs ranked by view
// count. Accepts category, an optional RFC 3339 since/until window, and
// limit.
func (p *Public) Popular(w http.ResponseWriter, r *http.Request) {
	params := content.PopularParams{
		Category: r.URL.Query().Get("category"),
		Limit:    defaultPopularLimit,
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, apperr.Validation("limit", "must be a positive integer"))
			return
		}
		params.Limit = n
	}
	if max := p.limits.MaxPageSize; max > 0 && params.Limit > max {
		params.Limit = max
	}

	if raw := r.URL.Query().Get("since"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, apperr.Validation("since", "must be an RFC 3339 timestamp"))
			return
		}
		params.Since = &ts
	}
	if raw := r.URL.Query().Get("until"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, apperr.Validation("until", "must be an RFC 3339 timestamp"))
			return
		}
		params.Until = &ts
	}

	res, err := p.svc.Popular(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListCategories serves GET /api/categories with the denormalized counts.
func (p *Public) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := p.svc.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}
