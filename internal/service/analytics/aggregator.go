// internal/service/analytics/aggregator.go

package analytics

import (
	"context"
	"fmt"
	"sort"

	"creatorpulse/internal/domain/metrics"
)

// Aggregator builds one platform's cohort report: it extracts every active
// account's metrics, ranks them within the cohort, scores them and computes
// the platform aggregates.
type Aggregator struct {
	source    metrics.Source
	extractor *Extractor
}

// NewAggregator creates a new aggregator
func NewAggregator(source metrics.Source, extractor *Extractor) *Aggregator {
	return &Aggregator{source: source, extractor: extractor}
}

// Aggregate computes the platform's report for the current window and, when
// previous is non-nil, the previous window. A platform with no active
// accounts yields (nil, nil) and is left out of the comparative report.
// Percentile ranking is a whole-cohort operation: every account's metrics are
// extracted before any score is computed.
func (a *Aggregator) Aggregate(ctx context.Context, platform string, current metrics.Window, previous *metrics.Window) (*metrics.PlatformReport, error) {
	accounts, err := a.source.ListActiveAccounts(ctx, platform)
	if err != nil {
		return nil, fmt.Errorf("listing active accounts for %s: %w", platform, err)
	}
	if len(accounts) == 0 {
		return nil, nil
	}

	entries := make([]metrics.CohortEntry, 0, len(accounts))
	for _, account := range accounts {
		var m metrics.PeriodMetrics
		if previous != nil {
			m, err = a.extractor.ExtractWithPrevious(ctx, account.ID, current, *previous)
		} else {
			m, err = a.extractor.Extract(ctx, account.ID, current.Start, current.End)
		}
		if err != nil {
			return nil, fmt.Errorf("extracting metrics for account %d: %w", account.ID, err)
		}

		entries = append(entries, metrics.CohortEntry{
			AuthorID:   account.AuthorID,
			AuthorName: account.AuthorName,
			AccountID:  account.ID,
			Username:   account.Username,
			Metrics:    m,
		})
	}

	cohort := collectCohortValues(entries)
	for i := range entries {
		entries[i].Scores = Score(entries[i].Metrics, cohort)
	}

	// Report presentation order is part of the contract: descending presence
	// score, ties keeping enumeration order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Scores.Presence > entries[j].Scores.Presence
	})

	agg := aggregate(entries, previous != nil)

	// Freeze display values only after every cohort computation has read the
	// raw ones.
	for i := range entries {
		entries[i].Metrics = entries[i].Metrics.Rounded()
	}

	return &metrics.PlatformReport{
		Platform:   platform,
		Authors:    entries,
		Aggregated: agg,
	}, nil
}

func aggregate(entries []metrics.CohortEntry, includePrevious bool) metrics.Aggregated {
	agg := metrics.Aggregated{TotalAuthors: len(entries)}

	var psSum, erSum float64
	for _, entry := range entries {
		agg.TotalFollowers += entry.Metrics.Followers
		agg.TotalPosts += entry.Metrics.Posts
		agg.TotalViews += entry.Metrics.Views
		agg.TotalEngagement += entry.Metrics.Engagement
		psSum += entry.Scores.Presence
		erSum += entry.Metrics.ERView
	}

	n := float64(len(entries))
	agg.AvgPresence = metrics.Round2(psSum / n)
	// Deliberately a mean of per-account ratios, not total E over total V.
	agg.AvgERView = metrics.Round4(erSum / n)

	if !includePrevious {
		return agg
	}

	var prevFollowers, prevPosts, prevViews, prevEngagement int64
	var prevERSum, msSum float64
	for _, entry := range entries {
		if prev := entry.Metrics.Previous; prev != nil {
			prevFollowers += prev.Followers
			prevPosts += prev.Posts
			prevViews += prev.Views
			prevEngagement += prev.Engagement
			prevERSum += prev.ERView
		}
		// Accounts without a momentum score contribute 0 to the mean.
		if entry.Scores.Momentum != nil {
			msSum += *entry.Scores.Momentum
		}
	}

	avgMS := metrics.Round2(msSum / n)
	agg.AvgMomentum = &avgMS

	prevAvgER := prevERSum / n
	deltaER := agg.AvgERView - prevAvgER

	agg.Deltas = &metrics.AggregateDeltas{
		Followers:  totalDelta(agg.TotalFollowers, prevFollowers),
		Posts:      totalDelta(agg.TotalPosts, prevPosts),
		Views:      totalDelta(agg.TotalViews, prevViews),
		Engagement: totalDelta(agg.TotalEngagement, prevEngagement),
		ERView: metrics.Delta{
			Absolute: metrics.Round4(deltaER),
			Percent:  metrics.Round2(percentChange(deltaER, prevAvgER)),
		},
	}

	return agg
}

func totalDelta(current, previous int64) metrics.Delta {
	delta := current - previous
	return metrics.Delta{
		Absolute: float64(delta),
		Percent:  metrics.Round2(percentChange(float64(delta), float64(previous))),
	}
}

func percentChange(delta, previous float64) float64 {
	if previous > 0 {
		return delta / previous * 100
	}
	return 0
}
