// internal/service/analytics/engine.go

package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creatorpulse/internal/domain/author"
	"creatorpulse/internal/domain/metrics"
)

// ErrInvalidWindow marks a malformed analysis window: end before start, or an
// unknown period token. It is rejected before any computation begins.
var ErrInvalidWindow = errors.New("invalid analytics window")

// DefaultPeriod is the named period used when the request carries neither
// explicit dates nor a token.
const DefaultPeriod = "30d"

var periodDays = map[string]int{
	"7d":   7,
	"30d":  30,
	"90d":  90,
	"365d": 365,
}

// Engine is the comparative analytics orchestrator. All computation is a pure
// function of the source's data at call time; nothing is cached between
// invocations, so concurrent report requests are independent.
type Engine struct {
	source     metrics.Source
	extractor  *Extractor
	aggregator *Aggregator
	now        func() time.Time
}

// NewEngine creates a new analytics engine
func NewEngine(source metrics.Source) *Engine {
	extractor := NewExtractor(source)
	return &Engine{
		source:     source,
		extractor:  extractor,
		aggregator: NewAggregator(source, extractor),
		now:        time.Now,
	}
}

// ComputeComparativeAnalytics computes the multi-platform cohort report. A
// platform with no active accounts is absent from the result; a platform that
// errors mid-computation fails the whole call.
func (e *Engine) ComputeComparativeAnalytics(ctx context.Context, platforms []string, spec metrics.PeriodSpec, includePrevious bool) (*metrics.ComparativeReport, error) {
	current, err := e.resolvePeriod(spec)
	if err != nil {
		return nil, err
	}

	report := &metrics.ComparativeReport{
		Period:    toPeriod(current),
		Platforms: make(map[string]metrics.PlatformReport),
	}

	var previous *metrics.Window
	if includePrevious {
		// Back-to-back windows of identical length, not calendar-aligned.
		length := current.End.Sub(current.Start)
		previous = &metrics.Window{
			Start: current.Start.Add(-length),
			End:   current.Start,
		}
		prevPeriod := toPeriod(*previous)
		report.PreviousPeriod = &prevPeriod
	}

	for _, platform := range platforms {
		platformReport, err := e.aggregator.Aggregate(ctx, platform, current, previous)
		if err != nil {
			return nil, err
		}
		if platformReport == nil {
			continue
		}
		report.Platforms[platform] = *platformReport
	}

	return report, nil
}

// ComputeAccountAnalytics computes one account's metrics for the current
// window plus, when a previous window is supplied, the previous metrics and
// the comparison block. The caller is responsible for having resolved the
// account; this never fails on empty data.
func (e *Engine) ComputeAccountAnalytics(ctx context.Context, account author.SocialAccount, current metrics.Window, previous *metrics.Window) (*metrics.AccountAnalytics, error) {
	if current.End.Before(current.Start) {
		return nil, fmt.Errorf("%w: end %s before start %s", ErrInvalidWindow, current.End.Format(time.RFC3339), current.Start.Format(time.RFC3339))
	}

	currentMetrics, err := e.extractor.Extract(ctx, account.ID, current.Start, current.End)
	if err != nil {
		return nil, err
	}

	result := &metrics.AccountAnalytics{
		AccountID: account.ID,
		Platform:  account.Platform,
		Current: metrics.PeriodWithMetrics{
			Start:   current.Start,
			End:     current.End,
			Metrics: currentMetrics.Rounded(),
		},
	}

	if previous != nil {
		if previous.End.Before(previous.Start) {
			return nil, fmt.Errorf("%w: previous end %s before start %s", ErrInvalidWindow, previous.End.Format(time.RFC3339), previous.Start.Format(time.RFC3339))
		}

		previousMetrics, err := e.extractor.Extract(ctx, account.ID, previous.Start, previous.End)
		if err != nil {
			return nil, err
		}

		comparison := compareMetrics(currentMetrics, previousMetrics)
		result.Previous = &metrics.PeriodWithMetrics{
			Start:   previous.Start,
			End:     previous.End,
			Metrics: previousMetrics.Rounded(),
		}
		result.Comparison = &comparison
	}

	return result, nil
}

// resolvePeriod turns a period spec into a concrete window. Explicit dates
// take precedence over the named token; the token defaults to DefaultPeriod.
func (e *Engine) resolvePeriod(spec metrics.PeriodSpec) (metrics.Window, error) {
	if spec.Start != nil && spec.End != nil {
		if spec.End.Before(*spec.Start) {
			return metrics.Window{}, fmt.Errorf("%w: end %s before start %s", ErrInvalidWindow, spec.End.Format(time.RFC3339), spec.Start.Format(time.RFC3339))
		}
		return metrics.Window{Start: *spec.Start, End: *spec.End}, nil
	}

	token := spec.Token
	if token == "" {
		token = DefaultPeriod
	}
	days, ok := periodDays[token]
	if !ok {
		return metrics.Window{}, fmt.Errorf("%w: unknown period %q", ErrInvalidWindow, token)
	}

	end := e.now()
	return metrics.Window{Start: end.AddDate(0, 0, -days), End: end}, nil
}

// compareMetrics builds the period-over-period comparison for the
// account-detail view from unrounded metrics. A zero previous value yields
// 100% when the current value is nonzero and 0% when both are zero.
func compareMetrics(current, previous metrics.PeriodMetrics) metrics.DeltaMetrics {
	return metrics.DeltaMetrics{
		AvgViewsChange:      safePercentChange(current.AvgViews, previous.AvgViews),
		AvgEngagementChange: safePercentChange(current.AvgEngagement, previous.AvgEngagement),
		ERViewChange:        safePercentChange(current.ERView, previous.ERView),
		ERFollowersChange:   safePercentChange(current.ERFollowers, previous.ERFollowers),
		PostsChange:         current.Posts - previous.Posts,
		ViewsChangePct:      safePercentChange(float64(current.Views), float64(previous.Views)),
		EngagementChangePct: safePercentChange(float64(current.Engagement), float64(previous.Engagement)),
		ShareRateChange:     current.ShareRate - previous.ShareRate,
		CommentRateChange:   current.CommentRate - previous.CommentRate,
	}
}

func safePercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}

func toPeriod(w metrics.Window) metrics.Period {
	return metrics.Period{
		Start: w.Start,
		End:   w.End,
		Days:  int(w.End.Sub(w.Start).Hours() / 24),
	}
}
