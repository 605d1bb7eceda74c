// internal/domain/author/model.go

package author

import (
	"context"
	"time"
)

// Supported platform identifiers
const (
	PlatformTikTok        = "tiktok"
	PlatformInstagram     = "instagram"
	PlatformYouTube       = "youtube"
	PlatformYouTubeShorts = "youtube_shorts"
	PlatformFacebook      = "facebook"
	PlatformTwitter       = "twitter"
	PlatformTelegram      = "telegram"
)

// Platforms lists every platform an account can be registered on
var Platforms = []string{
	PlatformTikTok,
	PlatformInstagram,
	PlatformYouTube,
	PlatformYouTubeShorts,
	PlatformFacebook,
	PlatformTwitter,
	PlatformTelegram,
}

// IsValidPlatform reports whether p is a known platform identifier
func IsValidPlatform(p string) bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// Author represents a content author tracked by the system
type Author struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SocialAccount represents an author's account on one platform
type SocialAccount struct {
	ID             int64     `json:"id"`
	AuthorID       int64     `json:"author_id"`
	AuthorName     string    `json:"author_name,omitempty"`
	Platform       string    `json:"platform"`
	PlatformUserID string    `json:"platform_user_id"`
	Username       string    `json:"username,omitempty"`
	ProfileURL     string    `json:"profile_url,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Store defines persistence for authors and their social accounts
type Store interface {
	// CreateAuthor creates a new author
	CreateAuthor(ctx context.Context, name string) (*Author, error)

	// ListAuthors returns all authors
	ListAuthors(ctx context.Context) ([]Author, error)

	// GetAuthor returns an author by ID
	GetAuthor(ctx context.Context, id int64) (*Author, error)

	// UpdateAuthor renames an author
	UpdateAuthor(ctx context.Context, id int64, name string) (*Author, error)

	// DeleteAuthor removes an author and all data of their accounts
	DeleteAuthor(ctx context.Context, id int64) error

	// CreateAccount registers a social account for an author
	CreateAccount(ctx context.Context, account SocialAccount) (*SocialAccount, error)

	// ListAccounts returns accounts, optionally filtered by platform
	ListAccounts(ctx context.Context, platform string) ([]SocialAccount, error)

	// GetAccount returns an account by ID
	GetAccount(ctx context.Context, id int64) (*SocialAccount, error)

	// UpdateAccount updates an account's mutable fields
	UpdateAccount(ctx context.Context, account SocialAccount) (*SocialAccount, error)

	// DeleteAccount removes an account and all its collected data
	DeleteAccount(ctx context.Context, id int64) error
}
