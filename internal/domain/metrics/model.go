// internal/domain/metrics/model.go

package metrics

import (
	"math"
	"time"
)

// ProfileSnapshot is a point-in-time capture of an account's profile state.
// Snapshots are immutable once created; multiple snapshots exist per account
// ordered by SnapshotDate.
type ProfileSnapshot struct {
	ID             int64     `json:"id"`
	AccountID      int64     `json:"social_account_id"`
	SnapshotDate   time.Time `json:"snapshot_date"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	TotalPosts     int64     `json:"total_posts"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
}

// PostRecord is one published item with its current counters. Counters may be
// refreshed by later collection runs but the identity is stable.
type PostRecord struct {
	ID             int64     `json:"id"`
	AccountID      int64     `json:"social_account_id"`
	PlatformPostID string    `json:"platform_post_id"`
	Description    string    `json:"description,omitempty"`
	PublishedAt    time.Time `json:"published_at"`
	URL            string    `json:"url,omitempty"`
	DurationMS     int64     `json:"duration_ms,omitempty"`
	ViewsCount     int64     `json:"views_count"`
	LikesCount     int64     `json:"likes_count"`
	CommentsCount  int64     `json:"comments_count"`
	SharesCount    int64     `json:"shares_count"`
	SavesCount     *int64    `json:"saves_count,omitempty"` // not reported by every platform
}

// Engagement returns likes+comments+shares+saves with a missing saves count
// treated as zero.
func (p PostRecord) Engagement() int64 {
	e := p.LikesCount + p.CommentsCount + p.SharesCount
	if p.SavesCount != nil {
		e += *p.SavesCount
	}
	return e
}

// Window is a concrete time span analytics are computed over.
type Window struct {
	Start time.Time
	End   time.Time
}

// Period describes a window in report output.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`
}

// PeriodSpec selects the analysis window: explicit dates take precedence over
// the named token (7d, 30d, 90d, 365d).
type PeriodSpec struct {
	Token string
	Start *time.Time
	End   *time.Time
}

// PeriodMetrics is the full set of per-account metrics for one window.
//
// Ratio conventions, pinned by tests: FollowerDeltaPct, ERView, ShareRate and
// CommentRate are percentages (scaled by 100); ERFollowers is a plain ratio.
// Every float field is carried unrounded so downstream percentile and delta
// computations see the exact values; Rounded copies are substituted only when
// the final report is assembled.
type PeriodMetrics struct {
	Followers        int64   `json:"F"`
	FollowersPrev    int64   `json:"F_prev"`
	FollowerDelta    int64   `json:"delta_F"`
	FollowerDeltaPct float64 `json:"delta_F_percent"`

	Posts       int64   `json:"P"`
	Views       int64   `json:"V"`
	AvgViews    float64 `json:"V_avg"`
	MedianViews float64 `json:"V_median"`

	Engagement       int64   `json:"E"`
	AvgEngagement    float64 `json:"E_avg"`
	MedianEngagement float64 `json:"E_median"`
	ERView           float64 `json:"ER_view"`
	ERFollowers      float64 `json:"ER_fol"`

	TotalLikes    int64 `json:"total_likes"`
	TotalComments int64 `json:"total_comments"`
	TotalShares   int64 `json:"total_shares"`
	TotalSaves    int64 `json:"total_saves"`

	ShareRate   float64 `json:"SR"`
	CommentRate float64 `json:"CR"`

	// Set only when the immediately preceding window was computed too.
	// The delta ratios are the raw values the momentum percentiles rank.
	Previous         *PeriodMetrics `json:"prev_metrics,omitempty"`
	DeltaAvgViewsPct float64        `json:"delta_V_avg_percent"`
	DeltaERPct       float64        `json:"delta_ER_percent"`
}

// Rounded returns a display copy with ratio fields rounded: two decimals,
// four for the view-normalized virality rates. The momentum delta ratios stay
// unrounded, matching what the percentile ranker consumed.
func (m PeriodMetrics) Rounded() PeriodMetrics {
	r := m
	r.FollowerDeltaPct = Round2(m.FollowerDeltaPct)
	r.AvgViews = Round2(m.AvgViews)
	r.MedianViews = Round2(m.MedianViews)
	r.AvgEngagement = Round2(m.AvgEngagement)
	r.MedianEngagement = Round2(m.MedianEngagement)
	r.ERView = Round2(m.ERView)
	r.ERFollowers = Round2(m.ERFollowers)
	r.ShareRate = Round4(m.ShareRate)
	r.CommentRate = Round4(m.CommentRate)
	if m.Previous != nil {
		prev := m.Previous.Rounded()
		r.Previous = &prev
	}
	return r
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds to four decimal places.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// PercentileSet holds the five presence-score component percentiles.
type PercentileSet struct {
	AvgViews  float64 `json:"V_avg"`
	ERView    float64 `json:"ER_view"`
	ShareRate float64 `json:"SR"`
	Posts     float64 `json:"P"`
	Followers float64 `json:"F"`
}

// MomentumPercentiles holds the three momentum-score component percentiles.
type MomentumPercentiles struct {
	DeltaAvgViews  float64 `json:"delta_V_avg"`
	DeltaER        float64 `json:"delta_ER"`
	DeltaFollowers float64 `json:"delta_F"`
}

// Scores carries an account's composite scores within its platform cohort.
type Scores struct {
	Presence    float64       `json:"PS"`
	Percentiles PercentileSet `json:"percentiles"`

	PrevPresence    *float64             `json:"prev_PS,omitempty"`
	PrevPercentiles *PercentileSet       `json:"prev_percentiles,omitempty"`
	Momentum        *float64             `json:"MS,omitempty"`
	MomentumParts   *MomentumPercentiles `json:"momentum_percentiles,omitempty"`
}

// CohortEntry pairs one account's identity with its metrics and scores.
type CohortEntry struct {
	AuthorID   int64         `json:"author_id"`
	AuthorName string        `json:"author_name"`
	AccountID  int64         `json:"social_account_id"`
	Username   string        `json:"username"`
	Metrics    PeriodMetrics `json:"metrics"`
	Scores     Scores        `json:"scores"`
}

// Delta is an absolute and percentage change of one aggregate.
type Delta struct {
	Absolute float64 `json:"absolute"`
	Percent  float64 `json:"percent"`
}

// AggregateDeltas holds period-over-period changes of the platform totals.
type AggregateDeltas struct {
	Followers  Delta `json:"followers"`
	Posts      Delta `json:"posts"`
	Views      Delta `json:"views"`
	Engagement Delta `json:"engagement"`
	ERView     Delta `json:"ER_view"`
}

// Aggregated holds platform-level totals and averages across the cohort.
type Aggregated struct {
	TotalAuthors    int     `json:"total_authors"`
	TotalFollowers  int64   `json:"total_followers"`
	TotalPosts      int64   `json:"total_posts"`
	TotalViews      int64   `json:"total_views"`
	TotalEngagement int64   `json:"total_engagement"`
	AvgPresence     float64 `json:"avg_PS"`
	AvgERView       float64 `json:"avg_ER_view"`

	AvgMomentum *float64         `json:"avg_MS,omitempty"`
	Deltas      *AggregateDeltas `json:"deltas,omitempty"`
}

// PlatformReport is one platform's cohort sorted by presence score plus its
// aggregates.
type PlatformReport struct {
	Platform   string        `json:"platform"`
	Authors    []CohortEntry `json:"authors"`
	Aggregated Aggregated    `json:"aggregated"`
}

// ComparativeReport is the multi-platform result structure. Platforms with no
// active accounts are absent from the map.
type ComparativeReport struct {
	Period         Period                    `json:"period"`
	PreviousPeriod *Period                   `json:"previous_period,omitempty"`
	Platforms      map[string]PlatformReport `json:"platforms"`
}

// DeltaMetrics compares two periods for one account in the account-detail view.
type DeltaMetrics struct {
	AvgViewsChange      float64 `json:"V_avg_change"`
	AvgEngagementChange float64 `json:"E_avg_change"`
	ERViewChange        float64 `json:"ER_view_change"`
	ERFollowersChange   float64 `json:"ER_fol_change"`
	PostsChange         int64   `json:"P_change"`
	ViewsChangePct      float64 `json:"V_change_percent"`
	EngagementChangePct float64 `json:"E_change_percent"`
	ShareRateChange     float64 `json:"SR_change"`
	CommentRateChange   float64 `json:"CR_change"`
}

// PeriodWithMetrics is one window of the account-detail response.
type PeriodWithMetrics struct {
	Start   time.Time     `json:"start"`
	End     time.Time     `json:"end"`
	Metrics PeriodMetrics `json:"metrics"`
}

// AccountAnalytics is the single-account analytics result.
type AccountAnalytics struct {
	AccountID  int64              `json:"social_account_id"`
	Platform   string             `json:"platform"`
	Current    PeriodWithMetrics  `json:"current_period"`
	Previous   *PeriodWithMetrics `json:"previous_period,omitempty"`
	Comparison *DeltaMetrics      `json:"comparison,omitempty"`
}
