package repo

import (
	"context"

	"github.com/bloggerhq/blogger/internal/domain/model"
	"github.com/google/uuid"
)

// BlogListFilter narrows List results. Zero value lists published public posts.
type BlogListFilter struct {
	Page      int
	Limit     int
	Ascending bool
}

type BlogRepo interface {
	CreateBlog(ctx context.Context, b model.Blog) (uuid.UUID, error)

	GetBlogByID(ctx context.Context, id uuid.UUID) (model.Blog, error)

	GetBlogByTitle(ctx context.Context, title string) (model.Blog, error)

	// ListBlogs returns published public posts plus the total count.
	ListBlogs(ctx context.Context, f BlogListFilter) ([]model.Blog, int64, error)

	UpdateBlog(ctx context.Context, b model.Blog) error

	// ReplaceTags rewrites the blog's tag set, creating tags on demand.
	ReplaceTags(ctx context.Context, blogID uuid.UUID, tags []string) error

	DeleteBlog(ctx context.Context, id uuid.UUID) error
}
