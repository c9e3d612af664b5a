package dto

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

type RegisterDTO struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,strongpwd"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordDTO struct {
	Email string `json:"email" validate:"required,email"`
}

// uid and token arrive as query parameters, only the new password is body.
type ResetPasswordDTO struct {
	NewPassword string `json:"newPassword" validate:"required,strongpwd"`
}

type ChangePasswordDTO struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword" validate:"required,strongpwd"`
}

type SocialLinkDTO struct {
	Platform string `json:"platform" validate:"required,oneof=twitter github linkedin facebook instagram youtube tiktok other"`
	URL      string `json:"url"      validate:"required,url"`
}

type UpdateProfileDTO struct {
	Name        *string         `json:"name"     validate:"omitempty,min=1,max=100"`
	About       *string         `json:"about"    validate:"omitempty,max=160"`
	Location    *string         `json:"location" validate:"omitempty,max=100"`
	Website     *string         `json:"website"  validate:"omitempty,url,max=200"`
	Avatar      *string         `json:"avatar"   validate:"omitempty,url"`
	Phone       *string         `json:"phone"    validate:"omitempty,e164"`
	SocialLinks []SocialLinkDTO `json:"socialLinks" validate:"omitempty,dive"`
}

type CreateBlogDTO struct {
	Thumbnail   string   `json:"thumbnail"   validate:"required,url"`
	Title       string   `json:"title"       validate:"required,max=100"`
	Description string   `json:"description" validate:"omitempty,max=250"`
	Content     string   `json:"content"     validate:"required"`
	Status      string   `json:"status"      validate:"omitempty,oneof=draft published"`
	Visibility  string   `json:"visibility"  validate:"omitempty,oneof=private public"`
	Tags        []string `json:"tags"        validate:"omitempty,dive,min=1"`
}

type UpdateBlogDTO struct {
	Thumbnail   *string  `json:"thumbnail"   validate:"omitempty,url"`
	Title       *string  `json:"title"       validate:"omitempty,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=250"`
	Content     *string  `json:"content"`
	Status      *string  `json:"status"      validate:"omitempty,oneof=draft published archived"`
	Visibility  *string  `json:"visibility"  validate:"omitempty,oneof=private public"`
	Tags        []string `json:"tags"        validate:"omitempty,dive,min=1"`
}

type BlogListQuery struct {
	Page  int    `form:"page,default=1"  validate:"omitempty,min=1"`
	Limit int    `form:"limit,default=10" validate:"omitempty,min=1,max=100"`
	Sort  string `form:"sort,default=desc" validate:"omitempty,oneof=asc desc"`
}

// RegisterValidators installs the custom password-strength rule: at least 8
// characters mixing upper, lower, digit and a special character.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		pwd := fl.Field().String()
		if len(pwd) < 8 {
			return false
		}
		var hasUpper, hasLower, hasDigit, hasSpecial bool
		for _, r := range pwd {
			switch {
			case unicode.IsUpper(r):
				hasUpper = true
			case unicode.IsLower(r):
				hasLower = true
			case unicode.IsDigit(r):
				hasDigit = true
			default:
				hasSpecial = true
			}
		}
		return hasUpper && hasLower && hasDigit && hasSpecial
	})
}
