package http

import (
	"time"

	"github.com/bloggerhq/blogger/internal/domain/model"
)

// Response views. Domain models never marshal directly: the user record
// carries the password hash and the gorm field names are not the wire names.

type socialLinkView struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type userView struct {
	ID          string           `json:"id"`
	Email       string           `json:"email"`
	Username    *string          `json:"username,omitempty"`
	Name        string           `json:"name"`
	About       string           `json:"about,omitempty"`
	Avatar      string           `json:"avatar,omitempty"`
	Location    string           `json:"location,omitempty"`
	Website     string           `json:"website,omitempty"`
	Phone       string           `json:"phone,omitempty"`
	SocialLinks []socialLinkView `json:"socialLinks"`
	IsVerified  bool             `json:"isVerified"`
	Role        string           `json:"role"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func newUserView(u model.User) userView {
	links := make([]socialLinkView, 0, len(u.SocialLinks))
	for _, l := range u.SocialLinks {
		links = append(links, socialLinkView{Platform: l.Platform, URL: l.URL})
	}
	return userView{
		ID:          u.ID.String(),
		Email:       u.Email,
		Username:    u.Username,
		Name:        u.Name,
		About:       u.About,
		Avatar:      u.Avatar,
		Location:    u.Location,
		Website:     u.Website,
		Phone:       u.Phone,
		SocialLinks: links,
		IsVerified:  u.IsVerified,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
	}
}

type blogView struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"authorId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Content     string    `json:"content"`
	HTML        string    `json:"html"`
	Status      string    `json:"status"`
	Visibility  string    `json:"visibility"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newBlogView(b model.Blog) blogView {
	tags := make([]string, 0, len(b.Tags))
	for _, t := range b.Tags {
		tags = append(tags, t.Name)
	}
	return blogView{
		ID:          b.ID.String(),
		AuthorID:    b.AuthorID.String(),
		Title:       b.Title,
		Description: b.Description,
		Thumbnail:   b.Thumbnail,
		Content:     b.Content,
		HTML:        b.HTMLCache,
		Status:      string(b.Status),
		Visibility:  string(b.Visibility),
		Tags:        tags,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func newBlogViews(blogs []model.Blog) []blogView {
	out := make([]blogView, 0, len(blogs))
	for _, b := range blogs {
		out = append(out, newBlogView(b))
	}
	return out
}
