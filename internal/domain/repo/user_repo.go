package repo

import (
	"context"

	"github.com/bloggerhq/blogger/internal/domain/model"
	"github.com/google/uuid"
)

type UserRepo interface {
	CreateUser(ctx context.Context, u model.User) (uuid.UUID, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)

	GetUserByUsername(ctx context.Context, username string) (model.User, error)

	UpdateUser(ctx context.Context, u model.User) error

	// UpdatePasswordHash writes only the password hash column.
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error

	// MarkVerified flips the verification flag.
	MarkVerified(ctx context.Context, id uuid.UUID) error

	// ReplaceSocialLinks rewrites the user's social link set.
	ReplaceSocialLinks(ctx context.Context, id uuid.UUID, links []model.SocialLink) error

	DeleteUser(ctx context.Context, id uuid.UUID) error
}
