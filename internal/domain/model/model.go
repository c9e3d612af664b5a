package model

import (
	"time"

	"github.com/google/uuid"
)

type AccountStatus string

const (
	StatusActive      AccountStatus = "active"
	StatusSuspended   AccountStatus = "suspended"
	StatusDeactivated AccountStatus = "deactivated"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the identity record. PasswordHash is a pointer because an identity
// may be provisioned without a local password.
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email         string    `gorm:"uniqueIndex;not null"`
	Username      *string   `gorm:"uniqueIndex"`
	PasswordHash  *string
	Name          string
	About         string
	Avatar        string
	Location      string
	Website       string
	Phone         string
	SocialLinks   []SocialLink  `gorm:"constraint:OnDelete:CASCADE"`
	IsVerified    bool          `gorm:"not null;default:false"`
	AccountStatus AccountStatus `gorm:"not null;default:active"`
	Role          Role          `gorm:"not null;default:user"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type SocialLink struct {
	ID       uint      `gorm:"primaryKey"`
	UserID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Platform string    `gorm:"not null"`
	URL      string    `gorm:"not null"`
}

type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
	BlogArchived  BlogStatus = "archived"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

type Blog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	AuthorID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Author      User      `gorm:"foreignKey:AuthorID"`
	Title       string    `gorm:"uniqueIndex;not null"`
	Description string
	Thumbnail   string
	Content     string `gorm:"not null"`
	// HTMLCache holds the sanitized render of Content, recomputed on every
	// content change.
	HTMLCache  string
	Status     BlogStatus `gorm:"not null;default:draft"`
	Visibility Visibility `gorm:"not null;default:public"`
	Tags       []Tag      `gorm:"many2many:blog_tags"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Tag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

// TokenPair is what login, registration and refresh hand back to the client.
// AccessToken already carries the "Bearer " prefix; RefreshToken is the opaque
// identifier destined for the jid cookie.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	UserID       uuid.UUID
}

// LoginContext captures best-effort request metadata for the login alert.
type LoginContext struct {
	Time     time.Time
	IP       string
	Location string
	Device   string
}
