// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlogStatus represents the publishing state of a blog post.
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
	BlogStatusArchived  BlogStatus = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s BlogStatus) Valid() bool {
	switch s {
	case BlogStatusDraft, BlogStatusPublished, BlogStatusArchived:
		return true
	}
	return false
}

// wordsPerMinute is the reading speed assumed for the reading_time estimate.
const wordsPerMinute = 200

// Blog represents a single blog post. The Category field stores the
// category's name by value, not its id — renaming a category rewrites
// this field on every referencing post. Like membership lives in the
// liked_by column; only the count is exposed here.
type Blog struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Status      BlogStatus `json:"status"`
	Featured    bool       `json:"featured"`
	AuthorID    uuid.UUID  `json:"author_id"`
	ViewCount   int        `json:"view_count"`
	LikeCount   int        `json:"like_count"`
	ReadingTime int        `json:"reading_time"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsPublished returns true if the blog is in published status.
func (b *Blog) IsPublished() bool {
	return b.Status == BlogStatusPublished
}

// EstimateReadingTime derives the reading time in minutes from the body
// word count. Always at least 1.
func EstimateReadingTime(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 1
	}
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// NormalizeTags trims, lowercases, and deduplicates a tag list while
// preserving first-seen order. Empty entries are dropped.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
