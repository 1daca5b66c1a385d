package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sinahmd/ecommerce/internal/shared/slug"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) ListCategories(ctx context.Context, limit int) ([]Category, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []Category
	err := q.Find(&out).Error
	return out, err
}

func (r *Repo) GetCategoryBySlug(ctx context.Context, s string) (Category, error) {
	var c Category
	err := r.db.WithContext(ctx).First(&c, "slug = ?", s).Error
	return c, err
}

type ListProductsParams struct {
	CategorySlug string
	Search       string
	Limit        int
	OnlyAvailable bool
}

func (r *Repo) ListProducts(ctx context.Context, in ListProductsParams) ([]Product, error) {
	q := r.db.WithContext(ctx).Model(&Product{}).Preload("Category")
	if in.OnlyAvailable {
		q = q.Where("available = ?", true)
	}
	if cs := strings.TrimSpace(in.CategorySlug); cs != "" {
		q = q.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", cs)
	}
	if s := strings.TrimSpace(in.Search); s != "" {
		q = q.Where("products.name LIKE ?", "%"+s+"%")
	}
	q = q.Order("products.created_at DESC")
	if in.Limit > 0 {
		q = q.Limit(in.Limit)
	}
	var out []Product
	err := q.Find(&out).Error
	return out, err
}

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.db.WithContext(ctx).Preload("Category").First(&p, "id = ?", id).Error
	return p, err
}

func (r *Repo) GetProductBySlug(ctx context.Context, s string) (Product, error) {
	var p Product
	err := r.db.WithContext(ctx).Preload("Category").
		First(&p, "slug = ? AND available = ?", s, true).Error
	return p, err
}

// RelatedProducts returns up to limit available products from the same
// category, excluding the product itself.
func (r *Repo) RelatedProducts(ctx context.Context, p Product, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 4
	}
	var out []Product
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND id <> ? AND available = ?", p.CategoryID, p.ID, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

type CategoryInput struct {
	Name        string
	Slug        string
	Description string
}

func (r *Repo) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	s := strings.TrimSpace(in.Slug)
	if s == "" {
		s = slug.FromName(in.Name)
	}
	c := Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Slug:        s,
		Description: in.Description,
	}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return Category{}, err
	}
	return c, nil
}

func (r *Repo) UpdateCategory(ctx context.Context, id string, in CategoryInput) error {
	s := strings.TrimSpace(in.Slug)
	if s == "" {
		s = slug.FromName(in.Name)
	}
	return r.db.WithContext(ctx).Model(&Category{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":        strings.TrimSpace(in.Name),
			"slug":        s,
			"description": in.Description,
		}).Error
}

func (r *Repo) DeleteCategory(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Category{}, "id = ?", id).Error
}

type ProductInput struct {
	CategoryID  string
	Name        string
	Slug        string
	Description string
	PriceCents  int
	ImageURL    string
	Stock       int
	Available   bool
}

func (r *Repo) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	s := strings.TrimSpace(in.Slug)
	if s == "" {
		s = slug.FromName(in.Name)
	}
	now := time.Now()
	p := Product{
		ID:          uuid.NewString(),
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		Slug:        s,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
		Available:   in.Available,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) UpdateProduct(ctx context.Context, id string, in ProductInput) error {
	s := strings.TrimSpace(in.Slug)
	if s == "" {
		s = slug.FromName(in.Name)
	}
	return r.db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"category_id": in.CategoryID,
			"name":        strings.TrimSpace(in.Name),
			"slug":        s,
			"description": in.Description,
			"price_cents": in.PriceCents,
			"image_url":   in.ImageURL,
			"stock":       in.Stock,
			"available":   in.Available,
			"updated_at":  time.Now(),
		}).Error
}

func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Product{}, "id = ?", id).Error
}
