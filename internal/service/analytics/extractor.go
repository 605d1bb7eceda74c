// internal/service/analytics/extractor.go

package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"creatorpulse/internal/domain/metrics"
)

// Extractor computes per-account PeriodMetrics for one time window. It only
// reads from the source and degrades to zeros on empty data; it never fails
// on an account without snapshots or posts.
type Extractor struct {
	source metrics.Source
}

// NewExtractor creates a new extractor
func NewExtractor(source metrics.Source) *Extractor {
	return &Extractor{source: source}
}

// Extract computes the metrics over whole calendar days: the window start is
// floored to the start of its day and the end ceiled to the last microsecond
// of its day, so both endpoint days are fully included.
func (e *Extractor) Extract(ctx context.Context, accountID int64, start, end time.Time) (metrics.PeriodMetrics, error) {
	start = startOfDay(start)
	end = endOfDay(end)

	endSnap, err := e.source.SnapshotAt(ctx, accountID, end)
	if err != nil {
		return metrics.PeriodMetrics{}, fmt.Errorf("fetching end snapshot: %w", err)
	}
	startSnap, err := e.source.SnapshotAt(ctx, accountID, start)
	if err != nil {
		return metrics.PeriodMetrics{}, fmt.Errorf("fetching start snapshot: %w", err)
	}

	var followers, followersPrev int64
	if endSnap != nil {
		followers = endSnap.FollowersCount
	}
	if startSnap != nil {
		followersPrev = startSnap.FollowersCount
	}

	deltaF := followers - followersPrev
	var deltaFPct float64
	if followersPrev > 0 {
		deltaFPct = float64(deltaF) / float64(followersPrev) * 100
	}

	posts, err := e.source.PostsBetween(ctx, accountID, start, end)
	if err != nil {
		return metrics.PeriodMetrics{}, fmt.Errorf("fetching posts: %w", err)
	}

	var views, engagement int64
	var likes, comments, shares, saves int64
	viewsList := make([]float64, 0, len(posts))
	engagementList := make([]float64, 0, len(posts))

	for _, p := range posts {
		views += p.ViewsCount
		engagement += p.Engagement()
		likes += p.LikesCount
		comments += p.CommentsCount
		shares += p.SharesCount
		if p.SavesCount != nil {
			saves += *p.SavesCount
		}
		viewsList = append(viewsList, float64(p.ViewsCount))
		engagementList = append(engagementList, float64(p.Engagement()))
	}

	postCount := int64(len(posts))
	m := metrics.PeriodMetrics{
		Followers:        followers,
		FollowersPrev:    followersPrev,
		FollowerDelta:    deltaF,
		FollowerDeltaPct: deltaFPct,
		Posts:            postCount,
		Views:            views,
		Engagement:       engagement,
		TotalLikes:       likes,
		TotalComments:    comments,
		TotalShares:      shares,
		TotalSaves:       saves,
		MedianViews:      median(viewsList),
		MedianEngagement: median(engagementList),
	}

	if postCount > 0 {
		m.AvgViews = float64(views) / float64(postCount)
		m.AvgEngagement = float64(engagement) / float64(postCount)
	}
	if views > 0 {
		m.ERView = float64(engagement) / float64(views) * 100
		m.ShareRate = float64(shares) / float64(views) * 100
		m.CommentRate = float64(comments) / float64(views) * 100
	}
	if followers > 0 {
		// Plain ratio, not a percentage. Pinned by a regression test.
		m.ERFollowers = float64(engagement) / float64(followers)
	}

	return m, nil
}

// ExtractWithPrevious computes the current window's metrics with the previous
// window's metrics nested inside, plus the period-over-period delta ratios
// the momentum percentiles rank. The tiny denominator floors turn a
// zero-to-positive jump into a large but finite ratio.
func (e *Extractor) ExtractWithPrevious(ctx context.Context, accountID int64, current, previous metrics.Window) (metrics.PeriodMetrics, error) {
	m, err := e.Extract(ctx, accountID, current.Start, current.End)
	if err != nil {
		return metrics.PeriodMetrics{}, err
	}

	prev, err := e.Extract(ctx, accountID, previous.Start, previous.End)
	if err != nil {
		return metrics.PeriodMetrics{}, err
	}

	m.Previous = &prev
	m.DeltaAvgViewsPct = (m.AvgViews - prev.AvgViews) / math.Max(prev.AvgViews, 0.001)
	m.DeltaERPct = (m.ERView - prev.ERView) / math.Max(prev.ERView, 0.000001)

	return m, nil
}

// median returns the conventional median: the mean of the two middle elements
// for even-sized lists, 0 for an empty list.
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999000, t.Location())
}
