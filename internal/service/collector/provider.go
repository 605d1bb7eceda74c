// internal/service/collector/provider.go

package collector

import (
	"context"
	"errors"
	"time"

	"creatorpulse/internal/domain/author"
	"creatorpulse/internal/domain/metrics"
)

// ErrUnsupportedPlatform is returned when no provider can collect the
// account's platform
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Provider fetches profile and post data from an external scraping API
type Provider interface {
	// Name identifies the provider in logs and progress events
	Name() string

	// Supports reports whether the provider can collect the platform
	Supports(platform string) bool

	// Fetch returns the account's current profile snapshot and its posts
	// published inside [from, to]
	Fetch(ctx context.Context, account author.SocialAccount, from, to time.Time) (*metrics.ProfileSnapshot, []metrics.PostRecord, error)
}

// Event stages published while a collection run progresses
const (
	StageStarted   = "started"
	StageProfile   = "profile_saved"
	StagePosts     = "posts_saved"
	StageCompleted = "completed"
	StageFailed    = "failed"
)

// Event is one progress update of a collection run, published to NATS
type Event struct {
	RunID          string    `json:"run_id"`
	AccountID      int64     `json:"social_account_id"`
	Platform       string    `json:"platform"`
	Stage          string    `json:"stage"`
	PostsCollected int       `json:"posts_collected"`
	Error          string    `json:"error,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Result summarizes a finished collection run
type Result struct {
	RunID          string `json:"run_id"`
	Message        string `json:"message"`
	PostsCollected int    `json:"posts_collected"`
	ProfileUpdated bool   `json:"profile_updated"`
}
