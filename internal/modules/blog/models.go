package blog

import "time"

type Tag struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:ux_tags_name"`
	Slug      string    `gorm:"type:varchar(120);not null;uniqueIndex:ux_tags_slug"`
	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Tag) TableName() string { return "tags" }

type Post struct {
	ID          string  `gorm:"type:char(36);primaryKey"`
	AuthorID    string  `gorm:"type:char(36);not null;index:ix_posts_author_id"`
	Title       string  `gorm:"type:varchar(200);not null"`
	Slug        string  `gorm:"type:varchar(220);not null;uniqueIndex:ux_posts_slug"`
	Excerpt     string  `gorm:"type:varchar(500);not null"`
	Body        string  `gorm:"type:longtext;not null"`
	CoverImage  *string `gorm:"type:varchar(500)"`
	Published   bool    `gorm:"not null;default:false;index:ix_posts_published"`
	PublishedAt *time.Time

	Tags []Tag `gorm:"many2many:post_tags;"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Post) TableName() string { return "posts" }
