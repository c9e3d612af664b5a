package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/bloggerhq/blogger/internal/adapters/transport/http/dto"
	"github.com/bloggerhq/blogger/internal/app/auth/hash"
	"github.com/bloggerhq/blogger/internal/app/auth/tokens"
	"github.com/bloggerhq/blogger/internal/app/notify"
	customErrors "github.com/bloggerhq/blogger/internal/domain/errors"
	"github.com/bloggerhq/blogger/internal/domain/jwt"
	"github.com/bloggerhq/blogger/internal/domain/model"
	"github.com/bloggerhq/blogger/internal/domain/repo"
	"github.com/bloggerhq/blogger/internal/infra/config"
)

type authService struct {
	userRepo   repo.UserRepo
	issuer     *tokens.Issuer
	signer     jwt.TokenSigner
	hasher     hash.Hasher
	dispatcher *notify.Dispatcher
	cfg        *config.Config
	v          *validator.Validate
}

type Service interface {
	Register(context.Context, dto.RegisterDTO) (model.TokenPair, error)
	Login(context.Context, dto.LoginDTO, model.LoginContext) (model.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error

	ChangePassword(ctx context.Context, userID uuid.UUID, d dto.ChangePasswordDTO) error
	ForgotPassword(context.Context, dto.ForgotPasswordDTO) error
	ResetPassword(ctx context.Context, uid uuid.UUID, nonce string, d dto.ResetPasswordDTO) error

	SendVerification(ctx context.Context, userID uuid.UUID) error
	VerifyEmail(ctx context.Context, uid uuid.UUID, nonce string) error

	// GetUser hydrates a verified minimal identity into the full record.
	GetUser(ctx context.Context, userID uuid.UUID) (model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, d dto.UpdateProfileDTO) (model.User, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID, refreshToken string) error
}

func New(
	ur repo.UserRepo,
	issuer *tokens.Issuer,
	signer jwt.TokenSigner,
	hasher hash.Hasher,
	dispatcher *notify.Dispatcher,
	cfg *config.Config,
	v *validator.Validate,
) Service {
	return &authService{
		userRepo: ur, issuer: issuer, signer: signer,
		hasher: hasher, dispatcher: dispatcher, cfg: cfg, v: v,
	}
}

func (a *authService) Register(ctx context.Context, d dto.RegisterDTO) (model.TokenPair, error) {
	if err := a.v.Struct(d); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	passwordHash, err := a.hasher.Hash(d.Password)
	if err != nil {
		return model.TokenPair{}, err
	}

	user := model.User{
		ID:            uuid.New(),
		Email:         d.Email,
		Name:          d.Name,
		PasswordHash:  &passwordHash,
		AccountStatus: model.StatusActive,
		Role:          model.RoleUser,
	}
	if _, err = a.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.TokenPair{}, customErrors.ErrAlreadyExists
		}
		return model.TokenPair{}, customErrors.WrapInternal(err, "Register")
	}

	pair, err := a.issueTokens(ctx, user)
	if err != nil {
		return model.TokenPair{}, err
	}

	a.dispatcher.Enqueue(notify.WelcomeEmail(
		user.Name, user.Email, a.cfg.ClientOrigin+"/verify-email",
	))
	return pair, nil
}

func (a *authService) Login(ctx context.Context, d dto.LoginDTO, lc model.LoginContext) (model.TokenPair, error) {
	if err := a.v.Struct(d); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByEmail(ctx, d.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		// indistinguishable from a wrong password, by the same rule below
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}

	if user.PasswordHash == nil {
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	}
	ok, err := a.hasher.Verify(d.Password, *user.PasswordHash)
	if err != nil {
		return model.TokenPair{}, err
	}
	if !ok {
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	}

	pair, err := a.issueTokens(ctx, user)
	if err != nil {
		return model.TokenPair{}, err
	}

	a.dispatcher.Enqueue(notify.LoginAlertEmail(user.Name, user.Email, lc))
	return pair, nil
}

// Refresh rotates: the presented token is consumed atomically before any new
// credential exists, so a duplicate use loses and the flow fails closed.
func (a *authService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	if refreshToken == "" {
		return model.TokenPair{}, customErrors.ErrUnauthenticated
	}

	uid, err := a.issuer.ConsumeRefreshToken(ctx, refreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}

	user, err := a.userRepo.GetUserByID(ctx, uid)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.TokenPair{}, customErrors.ErrInvalidToken
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Refresh")
	}

	return a.issueTokens(ctx, user)
}

func (a *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return a.issuer.RevokeRefreshToken(ctx, refreshToken)
}

func (a *authService) ChangePassword(ctx context.Context, userID uuid.UUID, d dto.ChangePasswordDTO) error {
	if err := a.v.Struct(d); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.PasswordHash != nil {
		if d.OldPassword == "" {
			return customErrors.ErrMissingOldPassword
		}
		ok, err := a.hasher.Verify(d.OldPassword, *user.PasswordHash)
		if err != nil {
			return err
		}
		if !ok {
			return customErrors.ErrIncorrectOldPassword
		}
	}

	newHash, err := a.hasher.Hash(d.NewPassword)
	if err != nil {
		return err
	}
	if err := a.userRepo.UpdatePasswordHash(ctx, userID, newHash); err != nil {
		return err
	}

	a.dispatcher.Enqueue(notify.PasswordUpdatedEmail(
		user.Name, user.Email, a.cfg.ClientOrigin+"/support/account",
	))
	return nil
}

// ForgotPassword is success-shaped regardless of whether the email exists so
// the endpoint cannot be used to enumerate accounts.
func (a *authService) ForgotPassword(ctx context.Context, d dto.ForgotPasswordDTO) error {
	if err := a.v.Struct(d); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByEmail(ctx, d.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return nil
	case err != nil:
		return customErrors.WrapInternal(err, "ForgotPassword")
	}

	nonce, err := a.issuer.IssueResetToken(ctx, user.ID)
	if err != nil {
		return err
	}

	resetURL := a.cfg.ClientOrigin + "/reset-password?uid=" + user.ID.String() + "&token=" + nonce
	a.dispatcher.Enqueue(notify.ResetPasswordEmail(user.Name, user.Email, resetURL))
	return nil
}

func (a *authService) ResetPassword(ctx context.Context, uid uuid.UUID, nonce string, d dto.ResetPasswordDTO) error {
	if err := a.v.Struct(d); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	if err := a.issuer.VerifyResetToken(ctx, uid, nonce); err != nil {
		return err
	}

	user, err := a.userRepo.GetUserByID(ctx, uid)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return customErrors.ErrInvalidToken
	case err != nil:
		return customErrors.WrapInternal(err, "ResetPassword")
	}

	newHash, err := a.hasher.Hash(d.NewPassword)
	if err != nil {
		return err
	}
	if err := a.userRepo.UpdatePasswordHash(ctx, uid, newHash); err != nil {
		return err
	}

	a.dispatcher.Enqueue(notify.PasswordUpdatedEmail(
		user.Name, user.Email, a.cfg.ClientOrigin+"/support/account",
	))
	return nil
}

func (a *authService) SendVerification(ctx context.Context, userID uuid.UUID) error {
	user, err := a.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		// nothing to do, the caller still gets a success response
		return nil
	}

	nonce, err := a.issuer.IssueVerifyToken(ctx, userID)
	if err != nil {
		return err
	}

	verifyURL := a.cfg.ClientOrigin + "/verify-email?uid=" + userID.String() + "&token=" + nonce
	a.dispatcher.Enqueue(notify.VerifyEmail(user.Name, user.Email, verifyURL))
	return nil
}

func (a *authService) VerifyEmail(ctx context.Context, uid uuid.UUID, nonce string) error {
	if err := a.issuer.VerifyEmailToken(ctx, uid, nonce); err != nil {
		return err
	}

	user, err := a.userRepo.GetUserByID(ctx, uid)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return customErrors.ErrInvalidToken
	case err != nil:
		return customErrors.WrapInternal(err, "VerifyEmail")
	}

	if err := a.userRepo.MarkVerified(ctx, uid); err != nil {
		return err
	}

	a.dispatcher.Enqueue(notify.EmailVerifiedEmail(
		user.Email, a.cfg.ClientOrigin+"/onboarding",
	))
	return nil
}

func (a *authService) GetUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	return a.userRepo.GetUserByID(ctx, userID)
}

func (a *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, d dto.UpdateProfileDTO) (model.User, error) {
	if err := a.v.Struct(d); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	if d.Name != nil {
		user.Name = *d.Name
	}
	if d.About != nil {
		user.About = *d.About
	}
	if d.Location != nil {
		user.Location = *d.Location
	}
	if d.Website != nil {
		user.Website = *d.Website
	}
	if d.Avatar != nil {
		user.Avatar = *d.Avatar
	}
	if d.Phone != nil {
		user.Phone = *d.Phone
	}

	if err := a.userRepo.UpdateUser(ctx, user); err != nil {
		return model.User{}, err
	}

	if d.SocialLinks != nil {
		links := make([]model.SocialLink, 0, len(d.SocialLinks))
		for _, l := range d.SocialLinks {
			links = append(links, model.SocialLink{Platform: l.Platform, URL: l.URL})
		}
		if err := a.userRepo.ReplaceSocialLinks(ctx, userID, links); err != nil {
			return model.User{}, err
		}
	}

	return a.userRepo.GetUserByID(ctx, userID)
}

func (a *authService) DeleteAccount(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	if err := a.userRepo.DeleteUser(ctx, userID); err != nil {
		return err
	}
	if refreshToken != "" {
		// best effort, the account is already gone
		_ = a.issuer.RevokeRefreshToken(ctx, refreshToken)
	}
	return nil
}

func (a *authService) issueTokens(ctx context.Context, user model.User) (model.TokenPair, error) {
	at, _, err := a.signer.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateAccessToken")
	}
	rt, err := a.issuer.IssueRefreshToken(ctx, user.ID)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  "Bearer " + at,
		RefreshToken: rt,
		AccessTTL:    a.cfg.AccessTokenTTL,
		RefreshTTL:   a.cfg.RefreshTokenTTL,
		UserID:       user.ID,
	}, nil
}
