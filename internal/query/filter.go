// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package query turns raw listing parameters into validated, executable
// query plans: filter normalization, SQL plan construction, and read-path
// timing.
package query

import (
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
)

// Pagination defaults and bounds. MaxLimit is the hard fallback; callers
// usually pass the configured maximum through Limits.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Limits bounds a normalized filter. Zero values fall back to the
// package defaults.
type Limits struct {
	MaxPageSize int
}

// Filter is a fully-resolved query descriptor. Once built it contains no
// ambiguity: every downstream component can consume it without further
// validation.
//
// An empty Status means NO status restriction — drafts and archived posts
// are included. Public listings must request status=published explicitly.
type Filter struct {
	Search   string
	Category string
	Tags     []string
	Status   models.BlogStatus
	Featured *bool
	AuthorID *uuid.UUID
	Exclude  *uuid.UUID
	Sort     string
	SortDesc bool
	Page     int
	Limit    int
}

// ParseFilter normalizes raw listing parameters into a Filter.
// Recognized parameters: q, category, tags (comma-joined), status,
// featured, author, exclude, sort, order, page, limit.
func ParseFilter(params url.Values, limits Limits) (Filter, error) {
	maxLimit := limits.MaxPageSize
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}

	f := Filter{
		Search:   strings.TrimSpace(params.Get("q")),
		Category: strings.TrimSpace(params.Get("category")),
		Page:     DefaultPage,
		Limit:    DefaultLimit,
	}

	if raw := params.Get("tags"); raw != "" {
		f.Tags = models.NormalizeTags(strings.Split(raw, ","))
	}

	// Unknown or empty status means no status filter. "all" and any
	// unrecognized value are spellings of the same thing.
	if raw := strings.ToLower(strings.TrimSpace(params.Get("status"))); raw != "" && raw != "all" {
		if status := models.BlogStatus(raw); status.Valid() {
			f.Status = status
		}
	}

	if raw := params.Get("featured"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Filter{}, apperr.Validation("featured", "must be a boolean, got %q", raw)
		}
		f.Featured = &b
	}

	if raw := params.Get("author"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Filter{}, apperr.Validation("author", "must be a valid id")
		}
		f.AuthorID = &id
	}

	if raw := params.Get("exclude"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Filter{}, apperr.Validation("exclude", "must be a valid id")
		}
		f.Exclude = &id
	}

	f.Sort = strings.TrimSpace(params.Get("sort"))
	switch order := strings.ToLower(strings.TrimSpace(params.Get("order"))); order {
	case "", "desc":
		f.SortDesc = true
	case "asc":
		f.SortDesc = false
	default:
		return Filter{}, apperr.Validation("order", "must be asc or desc, got %q", order)
	}

	if raw := params.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Filter{}, apperr.Validation("page", "must be a positive integer")
		}
		f.Page = n
	}

	if raw := params.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Filter{}, apperr.Validation("limit", "must be a positive integer")
		}
		f.Limit = n
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	if err := f.validate(); err != nil {
		return Filter{}, err
	}
	return f, nil
}

// validate covers the structural constraints not already enforced during
// parsing. Kept separate so hand-built filters get checked too.
func (f Filter) validate() error {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Page, validation.Required, validation.Min(1)),
		validation.Field(&f.Limit, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return apperr.Validation("filter", "%v", err)
	}
	return nil
}

// Offset returns the number of rows to skip for the requested page.
func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}
