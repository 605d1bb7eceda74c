// internal/service/analytics/scorer.go

package analytics

import (
	"creatorpulse/internal/domain/metrics"
)

// Presence score weights; they sum to 1, so the score stays on the 0-100
// scale of its component percentiles.
const (
	weightAvgViews  = 0.25
	weightERView    = 0.25
	weightShareRate = 0.15
	weightPosts     = 0.10
	weightFollowers = 0.25
)

// Momentum score weights
const (
	weightDeltaAvgViews  = 0.50
	weightDeltaER        = 0.30
	weightDeltaFollowers = 0.20
)

// CohortValues holds the platform-wide value lists percentiles are ranked
// over. The previous-period and delta lists are populated only from accounts
// that carry a previous period.
type CohortValues struct {
	AvgViews  []float64
	ERView    []float64
	ShareRate []float64
	Posts     []float64
	Followers []float64

	PrevAvgViews  []float64
	PrevERView    []float64
	PrevShareRate []float64
	PrevPosts     []float64
	PrevFollowers []float64

	DeltaAvgViews  []float64
	DeltaER        []float64
	DeltaFollowers []float64
}

// collectCohortValues builds the cohort value lists from all entries' raw
// (unrounded) metrics.
func collectCohortValues(entries []metrics.CohortEntry) CohortValues {
	cv := CohortValues{}
	for _, entry := range entries {
		m := entry.Metrics
		cv.AvgViews = append(cv.AvgViews, m.AvgViews)
		cv.ERView = append(cv.ERView, m.ERView)
		cv.ShareRate = append(cv.ShareRate, m.ShareRate)
		cv.Posts = append(cv.Posts, float64(m.Posts))
		cv.Followers = append(cv.Followers, float64(m.Followers))

		if m.Previous == nil {
			continue
		}
		cv.PrevAvgViews = append(cv.PrevAvgViews, m.Previous.AvgViews)
		cv.PrevERView = append(cv.PrevERView, m.Previous.ERView)
		cv.PrevShareRate = append(cv.PrevShareRate, m.Previous.ShareRate)
		cv.PrevPosts = append(cv.PrevPosts, float64(m.Previous.Posts))
		cv.PrevFollowers = append(cv.PrevFollowers, float64(m.Previous.Followers))

		cv.DeltaAvgViews = append(cv.DeltaAvgViews, m.DeltaAvgViewsPct)
		cv.DeltaER = append(cv.DeltaER, m.DeltaERPct)
		cv.DeltaFollowers = append(cv.DeltaFollowers, m.FollowerDeltaPct)
	}
	return cv
}

// Score combines one account's cohort percentiles into its composite scores.
// The momentum side is computed only when the account carries a previous
// period; the presence side always is.
func Score(m metrics.PeriodMetrics, cohort CohortValues) metrics.Scores {
	pct := metrics.PercentileSet{
		AvgViews:  PercentileOfScore(cohort.AvgViews, m.AvgViews),
		ERView:    PercentileOfScore(cohort.ERView, m.ERView),
		ShareRate: PercentileOfScore(cohort.ShareRate, m.ShareRate),
		Posts:     PercentileOfScore(cohort.Posts, float64(m.Posts)),
		Followers: PercentileOfScore(cohort.Followers, float64(m.Followers)),
	}

	ps := weightAvgViews*pct.AvgViews +
		weightERView*pct.ERView +
		weightShareRate*pct.ShareRate +
		weightPosts*pct.Posts +
		weightFollowers*pct.Followers

	s := metrics.Scores{
		Presence:    metrics.Round2(ps),
		Percentiles: roundPercentileSet(pct),
	}

	if m.Previous != nil && len(cohort.PrevAvgViews) > 0 {
		prevPct := metrics.PercentileSet{
			AvgViews:  PercentileOfScore(cohort.PrevAvgViews, m.Previous.AvgViews),
			ERView:    PercentileOfScore(cohort.PrevERView, m.Previous.ERView),
			ShareRate: PercentileOfScore(cohort.PrevShareRate, m.Previous.ShareRate),
			Posts:     PercentileOfScore(cohort.PrevPosts, float64(m.Previous.Posts)),
			Followers: PercentileOfScore(cohort.PrevFollowers, float64(m.Previous.Followers)),
		}

		prevPS := metrics.Round2(weightAvgViews*prevPct.AvgViews +
			weightERView*prevPct.ERView +
			weightShareRate*prevPct.ShareRate +
			weightPosts*prevPct.Posts +
			weightFollowers*prevPct.Followers)

		rounded := roundPercentileSet(prevPct)
		s.PrevPresence = &prevPS
		s.PrevPercentiles = &rounded
	}

	if m.Previous != nil {
		mp := metrics.MomentumPercentiles{
			DeltaAvgViews:  PercentileOfScore(cohort.DeltaAvgViews, m.DeltaAvgViewsPct),
			DeltaER:        PercentileOfScore(cohort.DeltaER, m.DeltaERPct),
			DeltaFollowers: PercentileOfScore(cohort.DeltaFollowers, m.FollowerDeltaPct),
		}

		ms := metrics.Round2(weightDeltaAvgViews*mp.DeltaAvgViews +
			weightDeltaER*mp.DeltaER +
			weightDeltaFollowers*mp.DeltaFollowers)

		mp.DeltaAvgViews = metrics.Round2(mp.DeltaAvgViews)
		mp.DeltaER = metrics.Round2(mp.DeltaER)
		mp.DeltaFollowers = metrics.Round2(mp.DeltaFollowers)

		s.Momentum = &ms
		s.MomentumParts = &mp
	}

	return s
}

func roundPercentileSet(p metrics.PercentileSet) metrics.PercentileSet {
	return metrics.PercentileSet{
		AvgViews:  metrics.Round2(p.AvgViews),
		ERView:    metrics.Round2(p.ERView),
		ShareRate: metrics.Round2(p.ShareRate),
		Posts:     metrics.Round2(p.Posts),
		Followers: metrics.Round2(p.Followers),
	}
}
