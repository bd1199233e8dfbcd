// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

func testCategory(name string) *models.Category {
	return &models.Category{
		Name:     name,
		Slug:     strings.ToLower(name),
		IsActive: true,
	}
}

func TestCategoryCRUD(t *testing.T) {
	db := testDB(t)
	store := NewCategoryStore(db)
	ctx := context.Background()

	suffix := uuid.NewString()[:8]
	name := "It-Cat-" + suffix
	renamed := "It-Cat-Renamed-" + suffix
	t.Cleanup(func() { cleanCategories(t, db, name, renamed) })

	created, err := store.Create(ctx, testCategory(name))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("Create: expected generated ID")
	}
	if created.BlogCount != 0 {
		t.Errorf("Create: blog_count = %d, want 0", created.BlogCount)
	}

	byName, err := store.FindByName(ctx, name)
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if byName == nil || byName.ID != created.ID {
		t.Fatalf("FindByName: got %+v", byName)
	}

	if err := store.Rename(ctx, created.ID, renamed, strings.ToLower(renamed)); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	byName, err = store.FindByName(ctx, renamed)
	if err != nil {
		t.Fatalf("FindByName after rename: %v", err)
	}
	if byName == nil {
		t.Fatal("FindByName: renamed category not found")
	}
	// A pure rename carries the counter over.
	if byName.BlogCount != created.BlogCount {
		t.Errorf("blog_count = %d after rename, want %d", byName.BlogCount, created.BlogCount)
	}

	if err := store.SetActive(ctx, created.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	byID, err := store.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID.IsActive {
		t.Error("SetActive: category still active")
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	byID, err = store.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if byID != nil {
		t.Error("FindByID: deleted category should be gone")
	}
}

func TestCategoryAdjustBlogCountClampsAtZero(t *testing.T) {
	db := testDB(t)
	store := NewCategoryStore(db)
	ctx := context.Background()

	suffix := uuid.NewString()[:8]
	name := "It-Cat-" + suffix
	t.Cleanup(func() { cleanCategories(t, db, name) })

	if _, err := store.Create(ctx, testCategory(name)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.AdjustBlogCount(ctx, name, 3); err != nil {
		t.Fatalf("AdjustBlogCount: %v", err)
	}
	c, err := store.FindByName(ctx, name)
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if c.BlogCount != 3 {
		t.Errorf("blog_count = %d, want 3", c.BlogCount)
	}

	// A delta past zero clamps instead of going negative.
	if err := store.AdjustBlogCount(ctx, name, -5); err != nil {
		t.Fatalf("AdjustBlogCount: %v", err)
	}
	c, err = store.FindByName(ctx, name)
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if c.BlogCount != 0 {
		t.Errorf("blog_count = %d, want 0", c.BlogCount)
	}
}

func TestCategoryReconcileRepairsDrift(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	blogs := NewBlogStore(db)
	ctx := context.Background()

	suffix := uuid.NewString()[:8]
	name := "It-Cat-" + suffix
	t.Cleanup(func() {
		cleanBlogsByCategory(t, db, name)
		cleanCategories(t, db, name)
	})

	if _, err := cats.Create(ctx, testCategory(name)); err != nil {
		t.Fatalf("Create category: %v", err)
	}

	// Two published posts and one draft; only published count.
	for _, status := range []models.BlogStatus{
		models.BlogStatusPublished, models.BlogStatusPublished, models.BlogStatusDraft,
	} {
		b := testBlog(uuid.NewString()[:8], name, status)
		if _, err := blogs.Create(ctx, b); err != nil {
			t.Fatalf("Create blog: %v", err)
		}
	}

	// Force drift.
	if err := cats.AdjustBlogCount(ctx, name, 40); err != nil {
		t.Fatalf("AdjustBlogCount: %v", err)
	}

	count, err := cats.Reconcile(ctx, name)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if count != 2 {
		t.Errorf("Reconcile returned %d, want 2", count)
	}
	c, err := cats.FindByName(ctx, name)
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if c.BlogCount != 2 {
		t.Errorf("stored blog_count = %d, want 2", c.BlogCount)
	}
}
