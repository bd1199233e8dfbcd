// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// CategoryStore manages categories and their denormalized blog counters.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, is_active, blog_count, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.IsActive, &c.BlogCount,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindByName retrieves a category by its unique name. Returns nil if not found.
func (s *CategoryStore) FindByName(ctx context.Context, name string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, is_active)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.IsActive)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Rename updates a category's name and slug. The blog_count carries over
// unchanged — a pure rename moves the whole population with it.
func (s *CategoryStore) Rename(ctx context.Context, id uuid.UUID, name, slug string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = $2, slug = $3, updated_at = NOW() WHERE id = $1
	`, id, name, slug)
	if err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	return nil
}

// SetActive toggles a category's active flag.
func (s *CategoryStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE categories SET is_active = $2, updated_at = NOW() WHERE id = $1
	`, id, active)
	if err != nil {
		return fmt.Errorf("set category active: %w", err)
	}
	return nil
}

// Delete removes a category by ID.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// AdjustBlogCount applies a delta to the denormalized counter in a single
// atomic statement, clamped at zero. Safe under concurrent increments;
// note the blog write and this counter write are still two separate
// operations, so a crash between them leaves drift for Reconcile to repair.
func (s *CategoryStore) AdjustBlogCount(ctx context.Context, name string, delta int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE categories SET blog_count = GREATEST(blog_count + $2, 0), updated_at = NOW()
		WHERE name = $1
	`, name, delta)
	if err != nil {
		return fmt.Errorf("adjust blog count: %w", err)
	}
	return nil
}

// Reconcile recomputes a category's blog_count from ground truth — the
// count of published blogs referencing it — and overwrites the stored
// value. This is the authoritative repair path for counter drift.
func (s *CategoryStore) Reconcile(ctx context.Context, name string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		UPDATE categories SET
			blog_count = (
				SELECT COUNT(*) FROM blogs
				WHERE category = categories.name AND status = 'published'
			),
			updated_at = NOW()
		WHERE name = $1
		RETURNING blog_count
	`, name).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("reconcile category %q: %w", name, sql.ErrNoRows)
	}
	if err != nil {
		return 0, fmt.Errorf("reconcile category: %w", err)
	}
	return count, nil
}
