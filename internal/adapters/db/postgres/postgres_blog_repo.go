package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	customErrors "github.com/bloggerhq/blogger/internal/domain/errors"
	"github.com/bloggerhq/blogger/internal/domain/model"
	"github.com/bloggerhq/blogger/internal/domain/repo"
)

type PostgresBlogRepo struct {
	db *gorm.DB
}

func NewPostgresBlogRepo(db *gorm.DB) *PostgresBlogRepo {
	return &PostgresBlogRepo{db: db}
}

func (p *PostgresBlogRepo) CreateBlog(ctx context.Context, blog model.Blog) (uuid.UUID, error) {
	res := p.db.WithContext(ctx).Create(&blog)
	if err := res.Error; err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, customErrors.ErrAlreadyExists
		}
		return uuid.Nil, customErrors.WrapInternal(err, "CreateBlog")
	}
	return blog.ID, nil
}

func (p *PostgresBlogRepo) GetBlogByID(ctx context.Context, id uuid.UUID) (model.Blog, error) {
	var b model.Blog
	res := p.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).First(&b)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Blog{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Blog{}, customErrors.WrapInternal(err, "GetBlogByID")
	}

	return b, nil
}

func (p *PostgresBlogRepo) GetBlogByTitle(ctx context.Context, title string) (model.Blog, error) {
	var b model.Blog
	res := p.db.WithContext(ctx).Where("title = ?", title).First(&b)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Blog{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Blog{}, customErrors.WrapInternal(err, "GetBlogByTitle")
	}

	return b, nil
}

func (p *PostgresBlogRepo) ListBlogs(ctx context.Context, f repo.BlogListFilter) ([]model.Blog, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	base := p.db.WithContext(ctx).Model(&model.Blog{}).
		Where("status = ? AND visibility = ?", model.BlogPublished, model.VisibilityPublic)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, customErrors.WrapInternal(err, "ListBlogs count")
	}

	order := "created_at DESC"
	if f.Ascending {
		order = "created_at ASC"
	}

	var blogs []model.Blog
	err := base.Preload("Tags").
		Order(order).
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, customErrors.WrapInternal(err, "ListBlogs")
	}

	return blogs, total, nil
}

func (p *PostgresBlogRepo) UpdateBlog(ctx context.Context, blog model.Blog) error {
	res := p.db.WithContext(ctx).Omit("Tags").Save(&blog)
	if err := res.Error; err != nil {
		if isUniqueViolation(err) {
			return customErrors.ErrAlreadyExists
		}
		return customErrors.WrapInternal(err, "UpdateBlog")
	}

	return nil
}

func (p *PostgresBlogRepo) ReplaceTags(ctx context.Context, blogID uuid.UUID, tags []string) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		models := make([]model.Tag, 0, len(tags))
		for _, name := range tags {
			t := model.Tag{Name: name}
			if err := tx.Where("name = ?", name).FirstOrCreate(&t).Error; err != nil {
				return err
			}
			models = append(models, t)
		}
		blog := model.Blog{ID: blogID}
		return tx.Model(&blog).Association("Tags").Replace(&models)
	})
	if err != nil {
		return customErrors.WrapInternal(err, "ReplaceTags")
	}

	return nil
}

func (p *PostgresBlogRepo) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Delete(&model.Blog{}, id)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteBlog")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}
