package service

import (
	"bytes"
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/bloggerhq/blogger/internal/adapters/transport/http/dto"
	customErrors "github.com/bloggerhq/blogger/internal/domain/errors"
	"github.com/bloggerhq/blogger/internal/domain/model"
	"github.com/bloggerhq/blogger/internal/domain/repo"
)

type blogService struct {
	blogRepo repo.BlogRepo
	v        *validator.Validate
	md       goldmark.Markdown
	policy   *bluemonday.Policy
}

type Service interface {
	Create(ctx context.Context, authorID uuid.UUID, d dto.CreateBlogDTO) (model.Blog, error)

	// Get returns the post when the viewer may see it. Drafts and private
	// posts exist only for their author; everyone else gets not-found rather
	// than forbidden so the title leaks nothing.
	Get(ctx context.Context, id uuid.UUID, viewer *uuid.UUID) (model.Blog, error)

	List(ctx context.Context, q dto.BlogListQuery) ([]model.Blog, int64, error)

	Update(ctx context.Context, id, actorID uuid.UUID, d dto.UpdateBlogDTO) (model.Blog, error)

	Delete(ctx context.Context, id, actorID uuid.UUID) error
}

func New(br repo.BlogRepo, v *validator.Validate) Service {
	return &blogService{
		blogRepo: br,
		v:        v,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   bluemonday.UGCPolicy(),
	}
}

func (b *blogService) Create(ctx context.Context, authorID uuid.UUID, d dto.CreateBlogDTO) (model.Blog, error) {
	if err := b.v.Struct(d); err != nil {
		return model.Blog{}, customErrors.NewInvalidArgument(err.Error())
	}

	html, err := b.render(d.Content)
	if err != nil {
		return model.Blog{}, err
	}

	blog := model.Blog{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       d.Title,
		Description: d.Description,
		Thumbnail:   d.Thumbnail,
		Content:     d.Content,
		HTMLCache:   html,
		Status:      model.BlogDraft,
		Visibility:  model.VisibilityPublic,
	}
	if d.Status != "" {
		blog.Status = model.BlogStatus(d.Status)
	}
	if d.Visibility != "" {
		blog.Visibility = model.Visibility(d.Visibility)
	}

	if _, err := b.blogRepo.CreateBlog(ctx, blog); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.Blog{}, customErrors.NewInvalidArgument("title already in use")
		}
		return model.Blog{}, customErrors.WrapInternal(err, "CreateBlog")
	}

	if len(d.Tags) > 0 {
		if err := b.blogRepo.ReplaceTags(ctx, blog.ID, d.Tags); err != nil {
			return model.Blog{}, err
		}
	}

	return b.blogRepo.GetBlogByID(ctx, blog.ID)
}

func (b *blogService) Get(ctx context.Context, id uuid.UUID, viewer *uuid.UUID) (model.Blog, error) {
	blog, err := b.blogRepo.GetBlogByID(ctx, id)
	if err != nil {
		return model.Blog{}, err
	}

	visible := blog.Status == model.BlogPublished && blog.Visibility == model.VisibilityPublic
	if !visible && (viewer == nil || *viewer != blog.AuthorID) {
		return model.Blog{}, customErrors.ErrNotFound
	}
	return blog, nil
}

func (b *blogService) List(ctx context.Context, q dto.BlogListQuery) ([]model.Blog, int64, error) {
	if err := b.v.Struct(q); err != nil {
		return nil, 0, customErrors.NewInvalidArgument(err.Error())
	}

	f := repo.BlogListFilter{
		Page:      q.Page,
		Limit:     q.Limit,
		Ascending: q.Sort == "asc",
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	return b.blogRepo.ListBlogs(ctx, f)
}

func (b *blogService) Update(ctx context.Context, id, actorID uuid.UUID, d dto.UpdateBlogDTO) (model.Blog, error) {
	if err := b.v.Struct(d); err != nil {
		return model.Blog{}, customErrors.NewInvalidArgument(err.Error())
	}

	blog, err := b.blogRepo.GetBlogByID(ctx, id)
	if err != nil {
		return model.Blog{}, err
	}
	if blog.AuthorID != actorID {
		return model.Blog{}, customErrors.ErrForbidden
	}

	if d.Title != nil {
		blog.Title = *d.Title
	}
	if d.Description != nil {
		blog.Description = *d.Description
	}
	if d.Thumbnail != nil {
		blog.Thumbnail = *d.Thumbnail
	}
	if d.Content != nil && *d.Content != blog.Content {
		blog.Content = *d.Content
		html, err := b.render(*d.Content)
		if err != nil {
			return model.Blog{}, err
		}
		blog.HTMLCache = html
	}
	if d.Status != nil {
		blog.Status = model.BlogStatus(*d.Status)
	}
	if d.Visibility != nil {
		blog.Visibility = model.Visibility(*d.Visibility)
	}

	if err := b.blogRepo.UpdateBlog(ctx, blog); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.Blog{}, customErrors.NewInvalidArgument("title already in use")
		}
		return model.Blog{}, err
	}

	if d.Tags != nil {
		if err := b.blogRepo.ReplaceTags(ctx, id, d.Tags); err != nil {
			return model.Blog{}, err
		}
	}

	return b.blogRepo.GetBlogByID(ctx, id)
}

func (b *blogService) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	blog, err := b.blogRepo.GetBlogByID(ctx, id)
	if err != nil {
		return err
	}
	if blog.AuthorID != actorID {
		return customErrors.ErrForbidden
	}
	return b.blogRepo.DeleteBlog(ctx, id)
}

// render converts markdown to HTML and strips anything the UGC policy does
// not allow, so the cache is always safe to serve as-is.
func (b *blogService) render(content string) (string, error) {
	var buf bytes.Buffer
	if err := b.md.Convert([]byte(content), &buf); err != nil {
		return "", customErrors.WrapInternal(err, "render markdown")
	}
	return b.policy.Sanitize(buf.String()), nil
}
