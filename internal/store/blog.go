// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"inkwell/internal/models"
	"inkwell/internal/query"
)

// pgTypeMap decodes Postgres array columns (text[]) through database/sql.
var pgTypeMap = pgtype.NewMap()

// BlogStore handles all blog-related database operations.
type BlogStore struct {
	db *sql.DB
}

// NewBlogStore creates a new BlogStore with the given database connection.
func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

const blogColumns = `id, title, slug, body, excerpt, category, tags, status,
	featured, author_id, view_count, like_count, reading_time, created_at, updated_at`

// scanBlog scans a row into a Blog struct.
func scanBlog(scanner interface{ Scan(...any) error }) (*models.Blog, error) {
	var b models.Blog
	err := scanner.Scan(
		&b.ID, &b.Title, &b.Slug, &b.Body, &b.Excerpt, &b.Category,
		pgTypeMap.SQLScanner(&b.Tags), &b.Status, &b.Featured, &b.AuthorID,
		&b.ViewCount, &b.LikeCount, &b.ReadingTime, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List executes a paged fetch for the given filter: the requested page of
// rows plus an independent total count under the same predicates. The two
// sub-queries are not mutually atomic; under concurrent writes the total
// may disagree slightly with the rows. Acceptable for listings.
func (s *BlogStore) List(ctx context.Context, f query.Filter) ([]models.Blog, int, error) {
	plan, err := query.BuildPlan(f)
	if err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf(`SELECT %s FROM blogs %s %s LIMIT $%d OFFSET $%d`,
		blogColumns, plan.WhereClause(), plan.OrderBy, plan.NextArg(), plan.NextArg()+1)
	args := append(plan.Args, f.Limit, f.Offset())

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	items := []models.Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan blog: %w", err)
		}
		items = append(items, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}

	var total int
	countQ := fmt.Sprintf(`SELECT COUNT(*) FROM blogs %s`, plan.WhereClause())
	if err := s.db.QueryRowContext(ctx, countQ, plan.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}

	return items, total, nil
}

// Related returns up to limit published blogs sharing the source's
// category or tags, excluding the source itself. The category weight is
// one more than the source's tag count, so a same-category candidate
// always outranks one matching on tags alone. Ties break by view count,
// then recency.
func (s *BlogStore) Related(ctx context.Context, sourceID uuid.UUID, category string, tags []string, limit int) ([]models.Blog, error) {
	if tags == nil {
		tags = []string{}
	}
	categoryWeight := len(tags) + 1

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s,
		       (CASE WHEN category = $1 THEN $4::int ELSE 0 END
		        + cardinality(ARRAY(SELECT UNNEST(tags) INTERSECT SELECT UNNEST($2::text[])))) AS score
		FROM blogs
		WHERE status = 'published'
		  AND id <> $3
		  AND (category = $1 OR tags && $2)
		ORDER BY score DESC, view_count DESC, created_at DESC
		LIMIT $5
	`, blogColumns), category, tags, sourceID, categoryWeight, limit)
	if err != nil {
		return nil, fmt.Errorf("related blogs: %w", err)
	}
	defer rows.Close()

	items := []models.Blog{}
	for rows.Next() {
		var b models.Blog
		var score int
		err := rows.Scan(
			&b.ID, &b.Title, &b.Slug, &b.Body, &b.Excerpt, &b.Category,
			pgTypeMap.SQLScanner(&b.Tags), &b.Status, &b.Featured, &b.AuthorID,
			&b.ViewCount, &b.LikeCount, &b.ReadingTime, &b.CreatedAt, &b.UpdatedAt,
			&score,
		)
		if err != nil {
			return nil, fmt.Errorf("scan related blog: %w", err)
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

// Popular returns published blogs ordered by view count, with like count
// as tie-break. The optional category and created_at window are hard
// filters: rows outside them are excluded, not down-weighted.
func (s *BlogStore) Popular(ctx context.Context, category string, since, until *time.Time, limit int) ([]models.Blog, error) {
	where := "status = 'published'"
	args := []any{}
	n := 1
	if category != "" {
		where += fmt.Sprintf(" AND category = $%d", n)
		args = append(args, category)
		n++
	}
	if since != nil {
		where += fmt.Sprintf(" AND created_at >= $%d", n)
		args = append(args, *since)
		n++
	}
	if until != nil {
		where += fmt.Sprintf(" AND created_at <= $%d", n)
		args = append(args, *until)
		n++
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM blogs
		WHERE %s
		ORDER BY view_count DESC, like_count DESC, id DESC
		LIMIT $%d
	`, blogColumns, where, n), args...)
	if err != nil {
		return nil, fmt.Errorf("popular blogs: %w", err)
	}
	defer rows.Close()

	items := []models.Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan popular blog: %w", err)
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// FindByID retrieves a blog by its UUID. Returns nil if not found.
func (s *BlogStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM blogs WHERE id = $1`, blogColumns), id)
	b, err := scanBlog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog by id: %w", err)
	}
	return b, nil
}

// FindBySlug retrieves a published blog by its slug. Used for public
// detail pages.
func (s *BlogStore) FindBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM blogs WHERE slug = $1 AND status = 'published'`, blogColumns), slug)
	b, err := scanBlog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog by slug: %w", err)
	}
	return b, nil
}

// SlugExists reports whether any blog already uses the given slug.
func (s *BlogStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM blogs WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new blog and returns it with generated fields.
func (s *BlogStore) Create(ctx context.Context, b *models.Blog) (*models.Blog, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		INSERT INTO blogs (title, slug, body, excerpt, category, tags, status,
		                   featured, author_id, reading_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s
	`, blogColumns), b.Title, b.Slug, b.Body, b.Excerpt, b.Category, b.Tags,
		b.Status, b.Featured, b.AuthorID, b.ReadingTime)

	result, err := scanBlog(row)
	if err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}
	return result, nil
}

// Update modifies an existing blog and returns the stored row.
func (s *BlogStore) Update(ctx context.Context, b *models.Blog) (*models.Blog, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		UPDATE blogs SET
			title = $1, slug = $2, body = $3, excerpt = $4, category = $5,
			tags = $6, status = $7, featured = $8, reading_time = $9,
			updated_at = NOW()
		WHERE id = $10
		RETURNING %s
	`, blogColumns), b.Title, b.Slug, b.Body, b.Excerpt, b.Category, b.Tags,
		b.Status, b.Featured, b.ReadingTime, b.ID)

	result, err := scanBlog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}
	return result, nil
}

// Delete removes a blog by ID.
func (s *BlogStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	return nil
}

// IncrementViewCount bumps the view counter in a single atomic statement.
func (s *BlogStore) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE blogs SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	return nil
}

// Like records a user's like. Idempotent: a repeated like by the same
// user changes nothing.
func (s *BlogStore) Like(ctx context.Context, id, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE blogs SET
			liked_by = array_append(liked_by, $2),
			like_count = like_count + 1
		WHERE id = $1 AND NOT ($2 = ANY(liked_by))
	`, id, userID)
	if err != nil {
		return fmt.Errorf("like blog: %w", err)
	}
	return nil
}

// Unlike removes a user's like. Idempotent.
func (s *BlogStore) Unlike(ctx context.Context, id, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE blogs SET
			liked_by = array_remove(liked_by, $2),
			like_count = GREATEST(like_count - 1, 0)
		WHERE id = $1 AND $2 = ANY(liked_by)
	`, id, userID)
	if err != nil {
		return fmt.Errorf("unlike blog: %w", err)
	}
	return nil
}

// CountByCategory returns the number of blogs (any status) referencing
// the category name. Used to guard category deletion.
func (s *BlogStore) CountByCategory(ctx context.Context, category string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blogs WHERE category = $1`, category).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count blogs by category: %w", err)
	}
	return count, nil
}

// ReassignCategory bulk-rewrites the category field on every referencing
// blog and returns the number of rows touched. Serves both renames and
// delete-with-reassignment.
func (s *BlogStore) ReassignCategory(ctx context.Context, from, to string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE blogs SET category = $2, updated_at = NOW() WHERE category = $1
	`, from, to)
	if err != nil {
		return 0, fmt.Errorf("reassign category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reassign category rows: %w", err)
	}
	return n, nil
}
