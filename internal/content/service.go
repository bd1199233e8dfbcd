// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content implements the retrieval and mutation service for blogs
// and categories: filtered/paginated listings, the related and popularity
// rankers, counter synchronization, and response-cache invalidation.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/query"
	"inkwell/internal/slug"
)

// Cache-invalidation prefixes. Coarse on purpose: any blog mutation
// clears every cached blog listing.
const (
	BlogsPrefix      = "/api/blogs"
	CategoriesPrefix = "/api/categories"
)

// maxSlugAttempts bounds the numbered-suffix retry when resolving slug
// collisions.
const maxSlugAttempts = 50

// BlogStore is the persistence surface the service needs for blogs.
type BlogStore interface {
	List(ctx context.Context, f query.Filter) ([]models.Blog, int, error)
	Related(ctx context.Context, sourceID uuid.UUID, category string, tags []string, limit int) ([]models.Blog, error)
	Popular(ctx context.Context, category string, since, until *time.Time, limit int) ([]models.Blog, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error)
	FindBySlug(ctx context.Context, slug string) (*models.Blog, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, b *models.Blog) (*models.Blog, error)
	Update(ctx context.Context, b *models.Blog) (*models.Blog, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	Like(ctx context.Context, id, userID uuid.UUID) error
	Unlike(ctx context.Context, id, userID uuid.UUID) error
	CountByCategory(ctx context.Context, category string) (int, error)
	ReassignCategory(ctx context.Context, from, to string) (int64, error)
}

// CategoryStore is the persistence surface the service needs for categories.
type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Rename(ctx context.Context, id uuid.UUID, name, slugVal string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustBlogCount(ctx context.Context, name string, delta int) error
	Reconcile(ctx context.Context, name string) (int, error)
}

// Service coordinates blog and category operations. The response cache is
// optional; when nil, mutations skip invalidation.
type Service struct {
	blogs      BlogStore
	categories CategoryStore
	cache      *cache.ResponseCache
	slowQuery  time.Duration
}

// NewService creates the content service.
func NewService(blogs BlogStore, categories CategoryStore, rc *cache.ResponseCache, slowQuery time.Duration) *Service {
	return &Service{
		blogs:      blogs,
		categories: categories,
		cache:      rc,
		slowQuery:  slowQuery,
	}
}

// Pagination is the paging metadata attached to listing responses.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// ListResult is the envelope for paginated listings.
type ListResult struct {
	Data        []models.Blog     `json:"data"`
	Pagination  Pagination        `json:"pagination"`
	Performance query.Performance `json:"performance"`
}

// ReadResult is the envelope for the ranker read paths.
type ReadResult struct {
	Data        []models.Blog     `json:"data"`
	Performance query.Performance `json:"performance"`
}

// List runs a filtered, paginated fetch. A page past the end of the data
// returns an empty slice with the true total; that is not an error.
func (s *Service) List(ctx context.Context, f query.Filter) (*ListResult, error) {
	// ParseFilter guarantees these for HTTP callers; hand-built filters
	// get the same floor so the pages math never divides by zero.
	if f.Page < 1 {
		f.Page = query.DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = query.DefaultLimit
	}

	type pageOut struct {
		items []models.Blog
		total int
	}

	out, perf, err := query.Measure(ctx, "listBlogs", s.slowQuery, func(ctx context.Context) (pageOut, error) {
		items, total, err := s.blogs.List(ctx, f)
		return pageOut{items, total}, err
	})
	if err != nil {
		return nil, err
	}

	pages := 0
	if out.total > 0 {
		pages = (out.total + f.Limit - 1) / f.Limit
	}

	return &ListResult{
		Data: out.items,
		Pagination: Pagination{
			Page:    f.Page,
			Limit:   f.Limit,
			Total:   out.total,
			Pages:   pages,
			HasNext: f.Page < pages,
			HasPrev: f.Page > 1 && out.total > 0,
		},
		Performance: perf,
	}, nil
}

// Related returns up to limit published blogs related to the source by
// category or tag overlap. The source itself is never included.
func (s *Service) Related(ctx context.Context, sourceID uuid.UUID, limit int) (*ReadResult, error) {
	source, err := s.blogs.FindByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("blog %s: %w", sourceID, apperr.ErrNotFound)
	}

	items, perf, err := query.Measure(ctx, "relatedBlogs", s.slowQuery, func(ctx context.Context) ([]models.Blog, error) {
		return s.blogs.Related(ctx, source.ID, source.Category, source.Tags, limit)
	})
	if err != nil {
		return nil, err
	}
	return &ReadResult{Data: items, Performance: perf}, nil
}

// PopularParams narrows the popularity ranking. The time window is a hard
// filter: blogs outside it are excluded entirely, not down-weighted.
type PopularParams struct {
	Category string
	Since    *time.Time
	Until    *time.Time
	Limit    int
}

// Popular returns published blogs ranked by views, likes as tie-break.
func (s *Service) Popular(ctx context.Context, p PopularParams) (*ReadResult, error) {
	items, perf, err := query.Measure(ctx, "popularBlogs", s.slowQuery, func(ctx context.Context) ([]models.Blog, error) {
		return s.blogs.Popular(ctx, p.Category, p.Since, p.Until, p.Limit)
	})
	if err != nil {
		return nil, err
	}
	return &ReadResult{Data: items, Performance: perf}, nil
}

// GetBySlug returns a published blog for public detail pages.
func (s *Service) GetBySlug(ctx context.Context, slugVal string) (*models.Blog, error) {
	b, err := s.blogs.FindBySlug(ctx, slugVal)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("blog %q: %w", slugVal, apperr.ErrNotFound)
	}
	return b, nil
}

// GetByID returns a blog in any status. Used by mutation handlers that
// need the stored row for ownership checks.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	b, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("blog %s: %w", id, apperr.ErrNotFound)
	}
	return b, nil
}

// BlogInput carries the caller-editable blog fields.
type BlogInput struct {
	Title    string
	Body     string
	Excerpt  *string
	Category string
	Tags     []string
	Status   models.BlogStatus
	Featured bool
}

// CreateBlog validates the input, derives slug/tags/reading time, stores
// the blog, and synchronizes the category counter and response cache.
func (s *Service) CreateBlog(ctx context.Context, in BlogInput, authorID uuid.UUID) (*models.Blog, error) {
	if in.Status == "" {
		in.Status = models.BlogStatusDraft
	}
	if err := s.validateInput(ctx, &in); err != nil {
		return nil, err
	}

	slugVal, err := s.uniqueSlug(ctx, in.Title)
	if err != nil {
		return nil, err
	}

	b := &models.Blog{
		Title:       in.Title,
		Slug:        slugVal,
		Body:        in.Body,
		Excerpt:     in.Excerpt,
		Category:    in.Category,
		Tags:        models.NormalizeTags(in.Tags),
		Status:      in.Status,
		Featured:    in.Featured,
		AuthorID:    authorID,
		ReadingTime: models.EstimateReadingTime(in.Body),
	}

	created, err := s.blogs.Create(ctx, b)
	if err != nil {
		return nil, err
	}

	s.applyCounterDeltas(ctx, counterTransitions("", false, created.Category, created.IsPublished()))
	s.invalidate(ctx, BlogsPrefix, CategoriesPrefix)
	return created, nil
}

// UpdateBlog applies the input to an existing blog. The slug changes only
// when the title does. Counter deltas follow the blog's transitions in
// and out of the published state, per category.
func (s *Service) UpdateBlog(ctx context.Context, id uuid.UUID, in BlogInput) (*models.Blog, error) {
	existing, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("blog %s: %w", id, apperr.ErrNotFound)
	}

	if in.Status == "" {
		in.Status = existing.Status
	}
	if err := s.validateInput(ctx, &in); err != nil {
		return nil, err
	}

	slugVal := existing.Slug
	if in.Title != existing.Title {
		slugVal, err = s.uniqueSlug(ctx, in.Title)
		if err != nil {
			return nil, err
		}
	}

	updated := &models.Blog{
		ID:          existing.ID,
		Title:       in.Title,
		Slug:        slugVal,
		Body:        in.Body,
		Excerpt:     in.Excerpt,
		Category:    in.Category,
		Tags:        models.NormalizeTags(in.Tags),
		Status:      in.Status,
		Featured:    in.Featured,
		ReadingTime: models.EstimateReadingTime(in.Body),
	}

	stored, err := s.blogs.Update(ctx, updated)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("blog %s: %w", id, apperr.ErrNotFound)
	}

	s.applyCounterDeltas(ctx, counterTransitions(
		existing.Category, existing.IsPublished(),
		stored.Category, stored.IsPublished(),
	))
	s.invalidate(ctx, BlogsPrefix, CategoriesPrefix)
	return stored, nil
}

// DeleteBlog removes a blog and rolls its category counter back if it was
// published.
func (s *Service) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	existing, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("blog %s: %w", id, apperr.ErrNotFound)
	}

	if err := s.blogs.Delete(ctx, id); err != nil {
		return err
	}

	s.applyCounterDeltas(ctx, counterTransitions(existing.Category, existing.IsPublished(), "", false))
	s.invalidate(ctx, BlogsPrefix, CategoriesPrefix)
	return nil
}

// RecordView bumps the view counter. Listings catch up when their cache
// TTL lapses; views do not invalidate.
func (s *Service) RecordView(ctx context.Context, id uuid.UUID) error {
	return s.blogs.IncrementViewCount(ctx, id)
}

// Like records a like for userID. Idempotent. Like views, likes do not
// invalidate cached listings: counter-only changes tolerate TTL staleness,
// and invalidating per like would defeat the cache under reader traffic.
func (s *Service) Like(ctx context.Context, id, userID uuid.UUID) error {
	return s.blogs.Like(ctx, id, userID)
}

// Unlike removes userID's like. Idempotent. Same cache contract as Like.
func (s *Service) Unlike(ctx context.Context, id, userID uuid.UUID) error {
	return s.blogs.Unlike(ctx, id, userID)
}

// ListCategories returns all categories with their denormalized counts.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// CreateCategory adds a category with a derived slug.
func (s *Service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	if name == "" {
		return nil, apperr.Validation("name", "is required")
	}
	existing, err := s.categories.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("category %q: %w", name, apperr.ErrConflict)
	}
	return s.categories.Create(ctx, &models.Category{
		Name:     name,
		Slug:     slug.Generate(name),
		IsActive: true,
	})
}

// RenameCategory renames a category and bulk-rewrites the denormalized
// category field on every referencing blog. The blog counter carries over
// unchanged: a pure rename moves the whole population with it.
func (s *Service) RenameCategory(ctx context.Context, id uuid.UUID, newName string) (*models.Category, error) {
	if newName == "" {
		return nil, apperr.Validation("name", "is required")
	}

	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("category %s: %w", id, apperr.ErrNotFound)
	}
	if cat.Name == newName {
		return cat, nil
	}

	if taken, err := s.categories.FindByName(ctx, newName); err != nil {
		return nil, err
	} else if taken != nil {
		return nil, fmt.Errorf("category %q: %w", newName, apperr.ErrConflict)
	}

	if err := s.categories.Rename(ctx, id, newName, slug.Generate(newName)); err != nil {
		return nil, err
	}

	moved, err := s.blogs.ReassignCategory(ctx, cat.Name, newName)
	if err != nil {
		return nil, err
	}
	slog.Info("category renamed",
		"from", cat.Name,
		"to", newName,
		"blogs_rewritten", moved,
	)

	s.invalidate(ctx, BlogsPrefix, CategoriesPrefix)
	return s.categories.FindByID(ctx, id)
}

// DeleteCategory removes a category. While blogs still reference it the
// call is refused unless reassignTo names an existing, active target; the
// referencing blogs are then bulk-moved to the target, whose counter is
// reconciled from ground truth afterwards.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID, reassignTo string) error {
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("category %s: %w", id, apperr.ErrNotFound)
	}

	refs, err := s.blogs.CountByCategory(ctx, cat.Name)
	if err != nil {
		return err
	}

	if refs > 0 {
		if reassignTo == "" {
			return apperr.Validation("reassign_to",
				"category %q has %d referencing blogs; supply reassign_to", cat.Name, refs)
		}
		if reassignTo == cat.Name {
			return apperr.Validation("reassign_to", "cannot reassign a category to itself")
		}
		target, err := s.categories.FindByName(ctx, reassignTo)
		if err != nil {
			return err
		}
		if target == nil {
			return apperr.Validation("reassign_to", "category %q does not exist", reassignTo)
		}
		if !target.IsActive {
			return apperr.Validation("reassign_to", "category %q is not active", reassignTo)
		}

		moved, err := s.blogs.ReassignCategory(ctx, cat.Name, target.Name)
		if err != nil {
			return err
		}
		slog.Info("category blogs reassigned",
			"from", cat.Name,
			"to", target.Name,
			"blogs_rewritten", moved,
		)

		// Two populations merged: recompute the target from ground truth
		// rather than guessing at the delta.
		if _, err := s.categories.Reconcile(ctx, target.Name); err != nil {
			return err
		}
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, BlogsPrefix, CategoriesPrefix)
	return nil
}

// ReconcileCategory recomputes a category's blog_count from ground truth
// and returns the new value. The authoritative repair path for drift.
func (s *Service) ReconcileCategory(ctx context.Context, name string) (int, error) {
	cat, err := s.categories.FindByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if cat == nil {
		return 0, fmt.Errorf("category %q: %w", name, apperr.ErrNotFound)
	}

	count, err := s.categories.Reconcile(ctx, name)
	if err != nil {
		return 0, err
	}

	if count != cat.BlogCount {
		slog.Warn("category counter drift repaired",
			"category", name,
			"stored", cat.BlogCount,
			"actual", count,
		)
	}
	s.invalidate(ctx, CategoriesPrefix)
	return count, nil
}

// StartReconcileLoop reconciles every category on a fixed interval until
// ctx is cancelled. Catches drift that incremental updates missed.
func (s *Service) StartReconcileLoop(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cats, err := s.categories.List(ctx)
				if err != nil {
					slog.Warn("reconcile sweep: list categories", "error", err)
					continue
				}
				for _, c := range cats {
					if _, err := s.categories.Reconcile(ctx, c.Name); err != nil {
						slog.Warn("reconcile sweep failed", "category", c.Name, "error", err)
					}
				}
				slog.Debug("reconcile sweep complete", "categories", len(cats))
			}
		}
	}()
}

// validateInput checks the caller-editable fields and resolves the
// category reference, which must name an existing, active category.
func (s *Service) validateInput(ctx context.Context, in *BlogInput) error {
	if in.Title == "" {
		return apperr.Validation("title", "is required")
	}
	if in.Body == "" {
		return apperr.Validation("body", "is required")
	}
	if !in.Status.Valid() {
		return apperr.Validation("status", "unknown status %q", in.Status)
	}
	if in.Category == "" {
		return apperr.Validation("category", "is required")
	}

	cat, err := s.categories.FindByName(ctx, in.Category)
	if err != nil {
		return err
	}
	if cat == nil {
		return apperr.Validation("category", "category %q does not exist", in.Category)
	}
	if !cat.IsActive {
		return apperr.Validation("category", "category %q is not active", in.Category)
	}
	return nil
}

// uniqueSlug derives a slug from the title, resolving collisions with a
// numbered suffix.
func (s *Service) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Generate(title)
	if base == "" {
		return "", apperr.Validation("title", "cannot be reduced to a slug")
	}

	candidate := base
	for i := 2; ; i++ {
		taken, err := s.blogs.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		if i > maxSlugAttempts {
			return "", fmt.Errorf("slug %q: %w", base, apperr.ErrConflict)
		}
		candidate = slug.WithSuffix(base, i)
	}
}

// invalidate clears cached responses under the given route prefixes.
func (s *Service) invalidate(ctx context.Context, prefixes ...string) {
	if s.cache == nil {
		return
	}
	for _, p := range prefixes {
		s.cache.Invalidate(ctx, p)
	}
}
