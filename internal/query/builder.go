// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package query

import (
	"fmt"
	"strings"

	"inkwell/internal/apperr"
)

// sortColumns whitelists the caller-selectable sort fields and maps them
// to their column expressions.
var sortColumns = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"title":        "title",
	"view_count":   "view_count",
	"like_count":   "like_count",
	"reading_time": "reading_time",
}

// Plan is an executable filter + sort plan: SQL fragments with positional
// placeholders and their arguments. The store prepends the SELECT and
// appends LIMIT/OFFSET, continuing the placeholder numbering via NextArg.
type Plan struct {
	Where     []string
	Args      []any
	OrderBy   string
	HasSearch bool
}

// arg appends v to the plan's arguments and returns its placeholder.
func (p *Plan) arg(v any) string {
	p.Args = append(p.Args, v)
	return fmt.Sprintf("$%d", len(p.Args))
}

// NextArg returns the placeholder number the next appended argument
// would receive.
func (p *Plan) NextArg() int {
	return len(p.Args) + 1
}

// WhereClause renders the combined WHERE clause, or an empty string when
// the plan has no predicates.
func (p *Plan) WhereClause() string {
	if len(p.Where) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(p.Where, " AND ")
}

// BuildPlan translates a normalized filter into a concrete plan.
//
// Structured predicates compose with AND semantics. A free-text query
// switches the plan to relevance search: title matches weigh heaviest,
// excerpt and tags next, body lowest, and results order by rank unless
// the caller requested an explicit sort field.
func BuildPlan(f Filter) (Plan, error) {
	var p Plan

	if f.Search != "" {
		p.HasSearch = true
		ph := p.arg(f.Search)
		p.Where = append(p.Where, fmt.Sprintf("search @@ websearch_to_tsquery('english', %s)", ph))
		p.OrderBy = fmt.Sprintf("ORDER BY ts_rank(search, websearch_to_tsquery('english', %s)) DESC, id DESC", ph)
	}

	if f.Category != "" {
		p.Where = append(p.Where, fmt.Sprintf("category = %s", p.arg(f.Category)))
	}
	if len(f.Tags) > 0 {
		p.Where = append(p.Where, fmt.Sprintf("tags && %s", p.arg(f.Tags)))
	}
	if f.Status != "" {
		p.Where = append(p.Where, fmt.Sprintf("status = %s", p.arg(string(f.Status))))
	}
	if f.Featured != nil {
		p.Where = append(p.Where, fmt.Sprintf("featured = %s", p.arg(*f.Featured)))
	}
	if f.AuthorID != nil {
		p.Where = append(p.Where, fmt.Sprintf("author_id = %s", p.arg(*f.AuthorID)))
	}
	if f.Exclude != nil {
		p.Where = append(p.Where, fmt.Sprintf("id <> %s", p.arg(*f.Exclude)))
	}

	// An explicit sort field overrides relevance ordering.
	if f.Sort != "" {
		col, ok := sortColumns[f.Sort]
		if !ok {
			return Plan{}, apperr.Validation("sort", "unknown sort field %q", f.Sort)
		}
		dir := "ASC"
		if f.SortDesc {
			dir = "DESC"
		}
		// id tie-break keeps pagination stable across equal sort values.
		p.OrderBy = fmt.Sprintf("ORDER BY %s %s, id DESC", col, dir)
	} else if !p.HasSearch {
		p.OrderBy = "ORDER BY created_at DESC, id DESC"
	}

	return p, nil
}
