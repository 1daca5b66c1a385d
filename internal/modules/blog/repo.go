package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sinahmd/ecommerce/internal/shared/slug"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type ListParams struct {
	TagSlug  string
	Search   string
	Page     int
	PageSize int
	// IncludeDrafts lifts the published filter for the admin surface.
	IncludeDrafts bool
}

type ListResult struct {
	Items []Post
	Total int64
}

func (r *Repo) List(ctx context.Context, in ListParams) (ListResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 || size > 50 {
		size = 10
	}

	base := r.db.WithContext(ctx).Model(&Post{})
	if !in.IncludeDrafts {
		base = base.Where("published = ?", true)
	}
	if ts := strings.TrimSpace(in.TagSlug); ts != "" {
		base = base.
			Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", ts)
	}
	if s := strings.TrimSpace(in.Search); s != "" {
		like := "%" + s + "%"
		base = base.Where("(posts.title LIKE ? OR posts.excerpt LIKE ?)", like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return ListResult{}, err
	}

	var items []Post
	if err := base.
		Preload("Tags").
		Order("posts.published_at DESC, posts.created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total}, nil
}

func (r *Repo) GetBySlug(ctx context.Context, s string) (Post, error) {
	var p Post
	err := r.db.WithContext(ctx).Preload("Tags").
		First(&p, "slug = ? AND published = ?", s, true).Error
	return p, err
}

func (r *Repo) Get(ctx context.Context, id string) (Post, error) {
	var p Post
	err := r.db.WithContext(ctx).Preload("Tags").First(&p, "id = ?", id).Error
	return p, err
}

func (r *Repo) ListTags(ctx context.Context) ([]Tag, error) {
	var out []Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

type PostInput struct {
	AuthorID   string
	Title      string
	Slug       string
	Excerpt    string
	Body       string
	CoverImage string
	Published  bool
	TagNames   []string
}

func (r *Repo) Create(ctx context.Context, in PostInput) (Post, error) {
	now := time.Now()
	p := Post{
		ID:        uuid.NewString(),
		AuthorID:  in.AuthorID,
		Title:     strings.TrimSpace(in.Title),
		Excerpt:   in.Excerpt,
		Body:      in.Body,
		Published: in.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.CoverImage != "" {
		p.CoverImage = &in.CoverImage
	}
	if in.Published {
		p.PublishedAt = &now
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s, err := r.uniqueSlug(ctx, tx, in.Slug, p.Title, "")
		if err != nil {
			return err
		}
		p.Slug = s

		tags, err := r.resolveTags(ctx, tx, in.TagNames)
		if err != nil {
			return err
		}
		p.Tags = tags

		return tx.WithContext(ctx).Create(&p).Error
	})
	if err != nil {
		return Post{}, err
	}
	return p, nil
}

func (r *Repo) Update(ctx context.Context, id string, in PostInput) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Post
		if err := tx.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
			return err
		}

		s, err := r.uniqueSlug(ctx, tx, in.Slug, in.Title, id)
		if err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]any{
			"title":      strings.TrimSpace(in.Title),
			"slug":       s,
			"excerpt":    in.Excerpt,
			"body":       in.Body,
			"published":  in.Published,
			"updated_at": now,
		}
		if in.CoverImage != "" {
			updates["cover_image"] = in.CoverImage
		}
		// The first publish stamps published_at; unpublishing keeps it.
		if in.Published && p.PublishedAt == nil {
			updates["published_at"] = now
		}
		if err := tx.WithContext(ctx).Model(&Post{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return err
		}

		tags, err := r.resolveTags(ctx, tx, in.TagNames)
		if err != nil {
			return err
		}
		return tx.WithContext(ctx).Model(&p).Association("Tags").Replace(tags)
	})
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p := Post{ID: id}
		if err := tx.WithContext(ctx).Model(&p).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.WithContext(ctx).Delete(&Post{}, "id = ?", id).Error
	})
}

// uniqueSlug derives a slug from the explicit value or the title and
// suffixes -2, -3, ... until it is free among other posts.
func (r *Repo) uniqueSlug(ctx context.Context, tx *gorm.DB, explicit, title, excludeID string) (string, error) {
	base := strings.TrimSpace(explicit)
	if base == "" {
		base = slug.FromName(title)
	}
	candidate := base
	for i := 2; ; i++ {
		q := tx.WithContext(ctx).Model(&Post{}).Where("slug = ?", candidate)
		if excludeID != "" {
			q = q.Where("id <> ?", excludeID)
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (r *Repo) resolveTags(ctx context.Context, tx *gorm.DB, names []string) ([]Tag, error) {
	var tags []Tag
	seen := map[string]bool{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true

		var t Tag
		err := tx.WithContext(ctx).First(&t, "name = ?", name).Error
		if err == nil {
			tags = append(tags, t)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		t = Tag{
			ID:        uuid.NewString(),
			Name:      name,
			Slug:      slug.FromName(name),
			CreatedAt: time.Now(),
		}
		if err := tx.WithContext(ctx).Create(&t).Error; err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}
