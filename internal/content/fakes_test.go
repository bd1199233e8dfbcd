package content

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/query"
)

// fakeBlogStore is an in-memory BlogStore with call-count spies for
// asserting cache behavior.
type fakeBlogStore struct {
	blogs     map[uuid.UUID]*models.Blog
	listCalls int
}

func newFakeBlogStore() *fakeBlogStore {
	return &fakeBlogStore{blogs: make(map[uuid.UUID]*models.Blog)}
}

func (f *fakeBlogStore) add(b models.Blog) *models.Blog {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	f.blogs[b.ID] = &b
	return &b
}

func matches(b *models.Blog, f query.Filter) bool {
	if f.Category != "" && b.Category != f.Category {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.Featured != nil && b.Featured != *f.Featured {
		return false
	}
	if f.AuthorID != nil && b.AuthorID != *f.AuthorID {
		return false
	}
	if f.Exclude != nil && b.ID == *f.Exclude {
		return false
	}
	if len(f.Tags) > 0 && len(intersect(b.Tags, f.Tags)) == 0 {
		return false
	}
	return true
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeBlogStore) List(_ context.Context, flt query.Filter) ([]models.Blog, int, error) {
	f.listCalls++

	var all []models.Blog
	for _, b := range f.blogs {
		if matches(b, flt) {
			all = append(all, *b)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() > all[j].ID.String()
	})

	total := len(all)
	start := flt.Offset()
	if start > total {
		start = total
	}
	end := start + flt.Limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (f *fakeBlogStore) Related(_ context.Context, sourceID uuid.UUID, category string, tags []string, limit int) ([]models.Blog, error) {
	type scored struct {
		blog  models.Blog
		score int
	}
	categoryWeight := len(tags) + 1

	var candidates []scored
	for _, b := range f.blogs {
		if b.ID == sourceID || !b.IsPublished() {
			continue
		}
		overlap := len(intersect(b.Tags, tags))
		score := overlap
		if b.Category == category {
			score += categoryWeight
		}
		if score == 0 {
			continue
		}
		candidates = append(candidates, scored{*b, score})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].blog.ViewCount != candidates[j].blog.ViewCount {
			return candidates[i].blog.ViewCount > candidates[j].blog.ViewCount
		}
		return candidates[i].blog.CreatedAt.After(candidates[j].blog.CreatedAt)
	})

	var out []models.Blog
	for _, c := range candidates {
		if len(out) == limit {
			break
		}
		out = append(out, c.blog)
	}
	return out, nil
}

func (f *fakeBlogStore) Popular(_ context.Context, category string, since, until *time.Time, limit int) ([]models.Blog, error) {
	var all []models.Blog
	for _, b := range f.blogs {
		if !b.IsPublished() {
			continue
		}
		if category != "" && b.Category != category {
			continue
		}
		if since != nil && b.CreatedAt.Before(*since) {
			continue
		}
		if until != nil && b.CreatedAt.After(*until) {
			continue
		}
		all = append(all, *b)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].ViewCount != all[j].ViewCount {
			return all[i].ViewCount > all[j].ViewCount
		}
		return all[i].LikeCount > all[j].LikeCount
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeBlogStore) FindByID(_ context.Context, id uuid.UUID) (*models.Blog, error) {
	if b, ok := f.blogs[id]; ok {
		copy := *b
		return &copy, nil
	}
	return nil, nil
}

func (f *fakeBlogStore) FindBySlug(_ context.Context, slug string) (*models.Blog, error) {
	for _, b := range f.blogs {
		if b.Slug == slug && b.IsPublished() {
			copy := *b
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeBlogStore) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, b := range f.blogs {
		if b.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBlogStore) Create(_ context.Context, b *models.Blog) (*models.Blog, error) {
	stored := *b
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.blogs[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeBlogStore) Update(_ context.Context, b *models.Blog) (*models.Blog, error) {
	existing, ok := f.blogs[b.ID]
	if !ok {
		return nil, nil
	}
	stored := *b
	stored.AuthorID = existing.AuthorID
	stored.CreatedAt = existing.CreatedAt
	stored.ViewCount = existing.ViewCount
	stored.LikeCount = existing.LikeCount
	stored.UpdatedAt = time.Now()
	f.blogs[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeBlogStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.blogs, id)
	return nil
}

func (f *fakeBlogStore) IncrementViewCount(_ context.Context, id uuid.UUID) error {
	if b, ok := f.blogs[id]; ok {
		b.ViewCount++
	}
	return nil
}

func (f *fakeBlogStore) Like(_ context.Context, id, _ uuid.UUID) error {
	if b, ok := f.blogs[id]; ok {
		b.LikeCount++
	}
	return nil
}

func (f *fakeBlogStore) Unlike(_ context.Context, id, _ uuid.UUID) error {
	if b, ok := f.blogs[id]; ok && b.LikeCount > 0 {
		b.LikeCount--
	}
	return nil
}

func (f *fakeBlogStore) CountByCategory(_ context.Context, category string) (int, error) {
	n := 0
	for _, b := range f.blogs {
		if b.Category == category {
			n++
		}
	}
	return n, nil
}

func (f *fakeBlogStore) ReassignCategory(_ context.Context, from, to string) (int64, error) {
	var n int64
	for _, b := range f.blogs {
		if b.Category == from {
			b.Category = to
			n++
		}
	}
	return n, nil
}

// fakeCategoryStore is an in-memory CategoryStore.
type fakeCategoryStore struct {
	categories map[uuid.UUID]*models.Category
	blogs      *fakeBlogStore // ground truth for Reconcile
}

func newFakeCategoryStore(blogs *fakeBlogStore) *fakeCategoryStore {
	return &fakeCategoryStore{
		categories: make(map[uuid.UUID]*models.Category),
		blogs:      blogs,
	}
}

func (f *fakeCategoryStore) add(name string, active bool) *models.Category {
	c := &models.Category{ID: uuid.New(), Name: name, IsActive: active}
	f.categories[c.ID] = c
	return c
}

func (f *fakeCategoryStore) List(_ context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	if c, ok := f.categories[id]; ok {
		copy := *c
		return &copy, nil
	}
	return nil, nil
}

func (f *fakeCategoryStore) FindByName(_ context.Context, name string) (*models.Category, error) {
	for _, c := range f.categories {
		if c.Name == name {
			copy := *c
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryStore) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	stored := *c
	stored.ID = uuid.New()
	f.categories[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeCategoryStore) Rename(_ context.Context, id uuid.UUID, name, slugVal string) error {
	if c, ok := f.categories[id]; ok {
		c.Name = name
		c.Slug = slugVal
	}
	return nil
}

func (f *fakeCategoryStore) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	if c, ok := f.categories[id]; ok {
		c.IsActive = active
	}
	return nil
}

func (f *fakeCategoryStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.categories, id)
	return nil
}

func (f *fakeCategoryStore) AdjustBlogCount(_ context.Context, name string, delta int) error {
	for _, c := range f.categories {
		if c.Name == name {
			c.BlogCount += delta
			if c.BlogCount < 0 {
				c.BlogCount = 0
			}
		}
	}
	return nil
}

func (f *fakeCategoryStore) Reconcile(_ context.Context, name string) (int, error) {
	count := 0
	for _, b := range f.blogs.blogs {
		if b.Category == name && b.IsPublished() {
			count++
		}
	}
	for _, c := range f.categories {
		if c.Name == name {
			c.BlogCount = count
		}
	}
	return count, nil
}
