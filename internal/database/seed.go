package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Seed populates the database with initial development data: a couple of
// categories and published posts so the public listing endpoints return
// something out of the box. No-op if categories already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	categories := []struct {
		name, slug string
	}{
		{"Technology", "technology"},
		{"Engineering", "engineering"},
	}
	for _, c := range categories {
		if _, err := db.Exec(`
			INSERT INTO categories (name, slug, is_active) VALUES ($1, $2, TRUE)
		`, c.name, c.slug); err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.name, err)
		}
	}

	authorID := uuid.New()
	posts := []struct {
		title, slug, body, category string
		tags                        []string
	}{
		{
			"Welcome to Inkwell", "welcome-to-inkwell",
			"Inkwell is a headless blog service. This seed post exists so the listing endpoints have something to return.",
			"Technology", []string{"inkwell", "intro"},
		},
		{
			"Designing Denormalized Counters", "designing-denormalized-counters",
			"Keeping a per-category published count next to the source of truth trades write complexity for cheap reads.",
			"Engineering", []string{"postgres", "design"},
		},
	}
	for _, p := range posts {
		if _, err := db.Exec(`
			INSERT INTO blogs (title, slug, body, category, tags, status, author_id)
			VALUES ($1, $2, $3, $4, $5, 'published', $6)
		`, p.title, p.slug, p.body, p.category, p.tags, authorID); err != nil {
			return fmt.Errorf("seed insert blog %s: %w", p.slug, err)
		}
	}

	// Bring the denormalized counters in line with the seeded posts.
	if _, err := db.Exec(`
		UPDATE categories c SET blog_count = (
			SELECT COUNT(*) FROM blogs b
			WHERE b.category = c.name AND b.status = 'published'
		)
	`); err != nil {
		return fmt.Errorf("seed reconcile counters: %w", err)
	}

	slog.Info("database seeded with development content",
		"categories", len(categories),
		"blogs", len(posts),
	)
	return nil
}
