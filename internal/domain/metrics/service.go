// internal/domain/metrics/service.go

package metrics

import (
	"context"
	"time"

	"creatorpulse/internal/domain/author"
)

// Source supplies raw account data to the analytics engine. Implementations
// are read-only; any error they return is propagated unchanged by the engine.
type Source interface {
	// SnapshotAt returns the most recent profile snapshot taken at or before
	// the given instant, or nil when the account has none.
	SnapshotAt(ctx context.Context, accountID int64, atOrBefore time.Time) (*ProfileSnapshot, error)

	// PostsBetween returns the account's posts published inside [from, to],
	// inclusive of both endpoints.
	PostsBetween(ctx context.Context, accountID int64, from, to time.Time) ([]PostRecord, error)

	// ListActiveAccounts returns the platform's active accounts, forming the
	// cohort percentiles are ranked within.
	ListActiveAccounts(ctx context.Context, platform string) ([]author.SocialAccount, error)
}

// Engine computes account and cohort analytics. Both operations are pure
// queries: nothing is cached or persisted between invocations.
type Engine interface {
	// ComputeAccountAnalytics computes one account's metrics for the current
	// window and, when a previous window is supplied, the comparison block.
	ComputeAccountAnalytics(ctx context.Context, account author.SocialAccount, current Window, previous *Window) (*AccountAnalytics, error)

	// ComputeComparativeAnalytics computes the multi-platform cohort report.
	ComputeComparativeAnalytics(ctx context.Context, platforms []string, spec PeriodSpec, includePrevious bool) (*ComparativeReport, error)
}
