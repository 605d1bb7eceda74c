// internal/service/analytics/engine_test.go

package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creatorpulse/internal/domain/author"
	"creatorpulse/internal/domain/metrics"
)

func testEngine(src *fakeSource, now time.Time) *Engine {
	e := NewEngine(src)
	e.now = func() time.Time { return now }
	return e
}

func TestResolvePeriodTokens(t *testing.T) {
	now := day(2025, time.June, 30)
	e := testEngine(newFakeSource(), now)

	tests := []struct {
		token string
		days  int
	}{
		{"7d", 7},
		{"30d", 30},
		{"90d", 90},
		{"365d", 365},
		{"", 30},
	}

	for _, tt := range tests {
		w, err := e.resolvePeriod(metrics.PeriodSpec{Token: tt.token})
		require.NoError(t, err, tt.token)
		assert.Equal(t, now, w.End)
		assert.Equal(t, now.AddDate(0, 0, -tt.days), w.Start)
	}
}

func TestResolvePeriodUnknownToken(t *testing.T) {
	e := testEngine(newFakeSource(), day(2025, time.June, 30))

	_, err := e.resolvePeriod(metrics.PeriodSpec{Token: "14d"})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestResolvePeriodExplicitDatesWin(t *testing.T) {
	e := testEngine(newFakeSource(), day(2025, time.June, 30))
	start := day(2025, time.January, 1)
	end := day(2025, time.January, 31)

	w, err := e.resolvePeriod(metrics.PeriodSpec{Token: "7d", Start: &start, End: &end})
	require.NoError(t, err)
	assert.Equal(t, start, w.Start)
	assert.Equal(t, end, w.End)
}

func TestResolvePeriodReversedDates(t *testing.T) {
	e := testEngine(newFakeSource(), day(2025, time.June, 30))
	start := day(2025, time.January, 31)
	end := day(2025, time.January, 1)

	_, err := e.resolvePeriod(metrics.PeriodSpec{Start: &start, End: &end})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestComparativePreviousWindowBackToBack(t *testing.T) {
	src := newFakeSource()
	e := testEngine(src, day(2025, time.June, 30))

	report, err := e.ComputeComparativeAnalytics(context.Background(), []string{author.PlatformTikTok}, metrics.PeriodSpec{Token: "30d"}, true)
	require.NoError(t, err)
	require.NotNil(t, report.PreviousPeriod)

	assert.Equal(t, report.Period.Start, report.PreviousPeriod.End)
	assert.Equal(t, report.Period.End.Sub(report.Period.Start), report.PreviousPeriod.End.Sub(report.PreviousPeriod.Start))
	assert.Equal(t, 30, report.Period.Days)
}

func TestComparativeEmptyPlatformAbsent(t *testing.T) {
	src := newFakeSource()
	src.accounts[author.PlatformTikTok] = []author.SocialAccount{
		{ID: 1, AuthorID: 1, Platform: author.PlatformTikTok, Username: "a", IsActive: true},
	}
	e := testEngine(src, day(2025, time.June, 30))

	report, err := e.ComputeComparativeAnalytics(context.Background(),
		[]string{author.PlatformTikTok, author.PlatformInstagram},
		metrics.PeriodSpec{Token: "30d"}, false)
	require.NoError(t, err)

	assert.Contains(t, report.Platforms, author.PlatformTikTok)
	assert.NotContains(t, report.Platforms, author.PlatformInstagram)
	assert.Nil(t, report.PreviousPeriod)
}

func TestComparativeSortsByPresenceDescending(t *testing.T) {
	src := newFakeSource()
	now := day(2025, time.June, 30)
	start := now.AddDate(0, 0, -30)

	src.accounts[author.PlatformTikTok] = []author.SocialAccount{
		{ID: 1, AuthorID: 1, Platform: author.PlatformTikTok, Username: "small", IsActive: true},
		{ID: 2, AuthorID: 2, Platform: author.PlatformTikTok, Username: "big", IsActive: true},
	}
	src.snapshots[1] = []metrics.ProfileSnapshot{{AccountID: 1, SnapshotDate: now, FollowersCount: 100}}
	src.snapshots[2] = []metrics.ProfileSnapshot{{AccountID: 2, SnapshotDate: now, FollowersCount: 10000}}
	src.posts[1] = []metrics.PostRecord{{AccountID: 1, PublishedAt: start.AddDate(0, 0, 5), ViewsCount: 100, LikesCount: 1}}
	src.posts[2] = []metrics.PostRecord{
		{AccountID: 2, PublishedAt: start.AddDate(0, 0, 5), ViewsCount: 5000, LikesCount: 500},
		{AccountID: 2, PublishedAt: start.AddDate(0, 0, 10), ViewsCount: 7000, LikesCount: 900},
	}

	e := testEngine(src, now)
	report, err := e.ComputeComparativeAnalytics(context.Background(), []string{author.PlatformTikTok}, metrics.PeriodSpec{Token: "30d"}, false)
	require.NoError(t, err)

	tiktok := report.Platforms[author.PlatformTikTok]
	require.Len(t, tiktok.Authors, 2)
	assert.Equal(t, "big", tiktok.Authors[0].Username)
	assert.Equal(t, "small", tiktok.Authors[1].Username)
	assert.GreaterOrEqual(t, tiktok.Authors[0].Scores.Presence, tiktok.Authors[1].Scores.Presence)

	agg := tiktok.Aggregated
	assert.Equal(t, 2, agg.TotalAuthors)
	assert.Equal(t, int64(10100), agg.TotalFollowers)
	assert.Equal(t, int64(3), agg.TotalPosts)
	assert.Equal(t, int64(12100), agg.TotalViews)
	assert.Nil(t, agg.AvgMomentum)
	assert.Nil(t, agg.Deltas)
}

func TestComparativeWithPreviousAggregates(t *testing.T) {
	src := newFakeSource()
	now := day(2025, time.June, 30)
	start := now.AddDate(0, 0, -30)
	prevStart := start.AddDate(0, 0, -30)

	src.accounts[author.PlatformInstagram] = []author.SocialAccount{
		{ID: 1, AuthorID: 1, Platform: author.PlatformInstagram, Username: "a", IsActive: true},
	}
	src.snapshots[1] = []metrics.ProfileSnapshot{
		{AccountID: 1, SnapshotDate: prevStart, FollowersCount: 800},
		{AccountID: 1, SnapshotDate: start, FollowersCount: 900},
		{AccountID: 1, SnapshotDate: now, FollowersCount: 1000},
	}
	src.posts[1] = []metrics.PostRecord{
		{AccountID: 1, PublishedAt: prevStart.AddDate(0, 0, 5), ViewsCount: 1000, LikesCount: 50},
		{AccountID: 1, PublishedAt: start.AddDate(0, 0, 5), ViewsCount: 2000, LikesCount: 200},
	}

	e := testEngine(src, now)
	report, err := e.ComputeComparativeAnalytics(context.Background(), []string{author.PlatformInstagram}, metrics.PeriodSpec{Token: "30d"}, true)
	require.NoError(t, err)

	instagram := report.Platforms[author.PlatformInstagram]
	require.Len(t, instagram.Authors, 1)

	entry := instagram.Authors[0]
	require.NotNil(t, entry.Metrics.Previous)
	require.NotNil(t, entry.Scores.Momentum)

	agg := instagram.Aggregated
	require.NotNil(t, agg.AvgMomentum)
	require.NotNil(t, agg.Deltas)

	// Followers 900 -> 1000 across back-to-back windows
	assert.InDelta(t, 100.0, agg.Deltas.Followers.Absolute, 1e-9)
	assert.InDelta(t, 11.11, agg.Deltas.Followers.Percent, 0.01)
	// Views 1000 -> 2000
	assert.InDelta(t, 1000.0, agg.Deltas.Views.Absolute, 1e-9)
	assert.InDelta(t, 100.0, agg.Deltas.Views.Percent, 1e-9)
}

func TestComparativePlatformErrorFailsWholeCall(t *testing.T) {
	src := newFakeSource()
	src.accountsErr = errors.New("db down")
	e := testEngine(src, day(2025, time.June, 30))

	_, err := e.ComputeComparativeAnalytics(context.Background(), []string{author.PlatformTikTok}, metrics.PeriodSpec{Token: "30d"}, false)
	assert.Error(t, err)
}

func TestAccountAnalytics(t *testing.T) {
	src := newFakeSource()
	start := day(2025, time.March, 1)
	end := day(2025, time.March, 30)
	seedReferenceAccount(src, 1, start, end)

	account := author.SocialAccount{ID: 1, Platform: author.PlatformTikTok}
	e := testEngine(src, end)

	result, err := e.ComputeAccountAnalytics(context.Background(), account, metrics.Window{Start: start, End: end}, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.AccountID)
	assert.Equal(t, author.PlatformTikTok, result.Platform)
	assert.Equal(t, int64(5), result.Current.Metrics.Posts)
	assert.InDelta(t, 10.0, result.Current.Metrics.ERView, 1e-9)
	assert.Nil(t, result.Previous)
	assert.Nil(t, result.Comparison)
}

func TestAccountAnalyticsWithComparison(t *testing.T) {
	src := newFakeSource()
	prevStart := day(2025, time.February, 1)
	prevEnd := day(2025, time.February, 28)
	start := day(2025, time.March, 1)
	end := day(2025, time.March, 28)

	src.posts[1] = []metrics.PostRecord{
		{AccountID: 1, PublishedAt: prevStart.AddDate(0, 0, 3), ViewsCount: 100, LikesCount: 10},
		{AccountID: 1, PublishedAt: start.AddDate(0, 0, 3), ViewsCount: 300, LikesCount: 30},
	}

	account := author.SocialAccount{ID: 1, Platform: author.PlatformTikTok}
	e := testEngine(src, end)

	result, err := e.ComputeAccountAnalytics(context.Background(), account,
		metrics.Window{Start: start, End: end},
		&metrics.Window{Start: prevStart, End: prevEnd})
	require.NoError(t, err)

	require.NotNil(t, result.Previous)
	require.NotNil(t, result.Comparison)
	assert.InDelta(t, 200.0, result.Comparison.AvgViewsChange, 1e-9)
	assert.InDelta(t, 200.0, result.Comparison.ViewsChangePct, 1e-9)
	assert.Equal(t, int64(0), result.Comparison.PostsChange)
}

func TestAccountAnalyticsInvalidWindow(t *testing.T) {
	account := author.SocialAccount{ID: 1, Platform: author.PlatformTikTok}
	e := testEngine(newFakeSource(), day(2025, time.June, 30))

	_, err := e.ComputeAccountAnalytics(context.Background(), account,
		metrics.Window{Start: day(2025, time.March, 30), End: day(2025, time.March, 1)}, nil)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestSafePercentChange(t *testing.T) {
	tests := []struct {
		current  float64
		previous float64
		expected float64
	}{
		{0, 0, 0},
		{50, 0, 100},
		{150, 100, 50},
		{50, 100, -50},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, safePercentChange(tt.current, tt.previous), 1e-9)
	}
}
