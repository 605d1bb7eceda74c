// internal/adapter/storage/metric_store.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"creatorpulse/internal/domain/author"
	"creatorpulse/internal/domain/metrics"
)

// MetricStore implements storage for profile snapshots and posts. Its read
// side is the analytics engine's metrics.Source; its write side is used by
// the collectors.
type MetricStore struct {
	db *pgxpool.Pool
}

// NewMetricStore creates a new metric store
func NewMetricStore(db *pgxpool.Pool) *MetricStore {
	return &MetricStore{
		db: db,
	}
}

// SnapshotAt returns the most recent snapshot taken at or before the given
// instant, or nil when the account has none
func (s *MetricStore) SnapshotAt(ctx context.Context, accountID int64, atOrBefore time.Time) (*metrics.ProfileSnapshot, error) {
	query := `
		SELECT id, social_account_id, snapshot_date, followers_count,
		       following_count, total_posts, COALESCE(avatar_url, '')
		FROM profile_snapshots
		WHERE social_account_id = $1 AND snapshot_date <= $2
		ORDER BY snapshot_date DESC
		LIMIT 1
	`

	var snap metrics.ProfileSnapshot
	err := s.db.QueryRow(ctx, query, accountID, atOrBefore).Scan(
		&snap.ID,
		&snap.AccountID,
		&snap.SnapshotDate,
		&snap.FollowersCount,
		&snap.FollowingCount,
		&snap.TotalPosts,
		&snap.AvatarURL,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &snap, nil
}

// PostsBetween returns posts published inside [from, to], both ends inclusive
func (s *MetricStore) PostsBetween(ctx context.Context, accountID int64, from, to time.Time) ([]metrics.PostRecord, error) {
	query := `
		SELECT id, social_account_id, platform_post_id, COALESCE(description, ''),
		       published_at, COALESCE(url, ''), COALESCE(duration_ms, 0),
		       views_count, likes_count, comments_count, shares_count, saves_count
		FROM posts
		WHERE social_account_id = $1 AND published_at >= $2 AND published_at <= $3
		ORDER BY published_at
	`

	rows, err := s.db.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var posts []metrics.PostRecord
	for rows.Next() {
		var p metrics.PostRecord
		if err := rows.Scan(
			&p.ID,
			&p.AccountID,
			&p.PlatformPostID,
			&p.Description,
			&p.PublishedAt,
			&p.URL,
			&p.DurationMS,
			&p.ViewsCount,
			&p.LikesCount,
			&p.CommentsCount,
			&p.SharesCount,
			&p.SavesCount,
		); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

// ListActiveAccounts returns the platform's active accounts with author names
func (s *MetricStore) ListActiveAccounts(ctx context.Context, platform string) ([]author.SocialAccount, error) {
	query := `
		SELECT sa.id, sa.author_id, a.name, sa.platform, sa.platform_user_id,
		       COALESCE(sa.username, ''), COALESCE(sa.profile_url, ''),
		       sa.is_active, sa.created_at, sa.updated_at
		FROM social_accounts sa
		JOIN authors a ON a.id = sa.author_id
		WHERE sa.platform = $1 AND sa.is_active
		ORDER BY sa.id
	`

	rows, err := s.db.Query(ctx, query, platform)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// SaveSnapshot stores a new profile snapshot
func (s *MetricStore) SaveSnapshot(ctx context.Context, snap metrics.ProfileSnapshot) error {
	query := `
		INSERT INTO profile_snapshots (
			social_account_id, snapshot_date, followers_count,
			following_count, total_posts, avatar_url
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	if snap.SnapshotDate.IsZero() {
		snap.SnapshotDate = time.Now()
	}

	_, err := s.db.Exec(
		ctx,
		query,
		snap.AccountID,
		snap.SnapshotDate,
		snap.FollowersCount,
		snap.FollowingCount,
		snap.TotalPosts,
		snap.AvatarURL,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// UpsertPost inserts a post or refreshes the counters of an already known
// one, keyed by its platform post ID. Returns the post's row ID.
func (s *MetricStore) UpsertPost(ctx context.Context, p metrics.PostRecord) (int64, error) {
	query := `
		INSERT INTO posts (
			social_account_id, platform_post_id, description, published_at,
			url, duration_ms, views_count, likes_count, comments_count,
			shares_count, saves_count, created_at, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		ON CONFLICT (platform_post_id) DO UPDATE
		SET
			description = $3,
			views_count = $7,
			likes_count = $8,
			comments_count = $9,
			shares_count = $10,
			saves_count = $11,
			last_updated = now()
		RETURNING id
	`

	var id int64
	err := s.db.QueryRow(
		ctx,
		query,
		p.AccountID,
		p.PlatformPostID,
		p.Description,
		p.PublishedAt,
		p.URL,
		p.DurationMS,
		p.ViewsCount,
		p.LikesCount,
		p.CommentsCount,
		p.SharesCount,
		p.SavesCount,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// SavePostHistory appends a metrics-history row for a post
func (s *MetricStore) SavePostHistory(ctx context.Context, postID int64, p metrics.PostRecord) error {
	query := `
		INSERT INTO post_metrics_history (
			post_id, snapshot_date, views_count, likes_count,
			comments_count, shares_count, saves_count
		) VALUES ($1, now(), $2, $3, $4, $5, $6)
	`

	_, err := s.db.Exec(
		ctx,
		query,
		postID,
		p.ViewsCount,
		p.LikesCount,
		p.CommentsCount,
		p.SharesCount,
		p.SavesCount,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}
