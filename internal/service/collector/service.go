// internal/service/collector/service.go

package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"creatorpulse/internal/domain/author"
	"creatorpulse/internal/domain/metrics"
)

// Store is the persistence surface a collection run writes through
type Store interface {
	SaveSnapshot(ctx context.Context, snapshot metrics.ProfileSnapshot) error
	UpsertPost(ctx context.Context, post metrics.PostRecord) (int64, error)
	SavePostHistory(ctx context.Context, postID int64, post metrics.PostRecord) error
}

// Service orchestrates collection runs across the registered providers
type Service struct {
	store       Store
	providers   []Provider
	natsConn    *nats.Conn
	eventsTopic string
}

// NewService creates a new collector service
func NewService(store Store, providers []Provider, natsConn *nats.Conn, eventsTopic string) *Service {
	return &Service{
		store:       store,
		providers:   providers,
		natsConn:    natsConn,
		eventsTopic: eventsTopic,
	}
}

// Collect runs a full collection for one account: profile snapshot, posts in
// [from, to], and a history row per post. Progress is published to NATS on
// the run's subject so clients can stream it.
func (s *Service) Collect(ctx context.Context, account author.SocialAccount, from, to time.Time) (*Result, error) {
	runID := uuid.New().String()

	provider, err := s.providerFor(account.Platform)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"run_id":   runID,
		"account":  account.Username,
		"platform": account.Platform,
		"provider": provider.Name(),
	}).Info("Starting collection run")

	s.publishEvent(Event{RunID: runID, AccountID: account.ID, Platform: account.Platform, Stage: StageStarted, Timestamp: time.Now()})

	snapshot, posts, err := provider.Fetch(ctx, account, from, to)
	if err != nil {
		s.publishEvent(Event{RunID: runID, AccountID: account.ID, Platform: account.Platform, Stage: StageFailed, Error: err.Error(), Timestamp: time.Now()})
		return nil, fmt.Errorf("fetching account data: %w", err)
	}

	profileUpdated := false
	if snapshot != nil {
		snapshot.AccountID = account.ID
		if err := s.store.SaveSnapshot(ctx, *snapshot); err != nil {
			s.publishEvent(Event{RunID: runID, AccountID: account.ID, Platform: account.Platform, Stage: StageFailed, Error: err.Error(), Timestamp: time.Now()})
			return nil, fmt.Errorf("saving profile snapshot: %w", err)
		}
		profileUpdated = true
		s.publishEvent(Event{RunID: runID, AccountID: account.ID, Platform: account.Platform, Stage: StageProfile, Timestamp: time.Now()})
	}

	saved := 0
	for _, post := range posts {
		post.AccountID = account.ID
		postID, err := s.store.UpsertPost(ctx, post)
		if err != nil {
			s.publishEvent(Event{RunID: runID, AccountID: account.ID, Platform: account.Platform, Stage: StageFailed, PostsCollected: saved, Error: err.Error(), Timestamp: time.Now()})
			return nil, fmt.Errorf("saving post %s: %w", post.PlatformPostID, err)
		}
		if err := s.store.SavePostHistory(ctx, postID, post); err != nil {
			log.WithError(err).WithField("post_id", postID).Warn("Failed to save post history row")
		}
		saved++
	}
	s.publishEvent(Event{RunID: runID, AccountID: account.ID, Platform: account.Platform, Stage: StagePosts, PostsCollected: saved, Timestamp: time.Now()})

	s.publishEvent(Event{RunID: runID, AccountID: account.ID, Platform: account.Platform, Stage: StageCompleted, PostsCollected: saved, Timestamp: time.Now()})

	log.WithFields(log.Fields{
		"run_id": runID,
		"posts":  saved,
	}).Info("Collection run completed")

	return &Result{
		RunID:          runID,
		Message:        fmt.Sprintf("collected %d posts for %s", saved, account.Username),
		PostsCollected: saved,
		ProfileUpdated: profileUpdated,
	}, nil
}

func (s *Service) providerFor(platform string) (Provider, error) {
	for _, p := range s.providers {
		if p.Supports(platform) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platform)
}

// publishEvent sends a run progress event to NATS. Publishing failures are
// logged and swallowed; the run itself must not fail over telemetry.
func (s *Service) publishEvent(event Event) {
	if s.natsConn == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Error("Failed to marshal collection event")
		return
	}
	subject := fmt.Sprintf("%s.%s", s.eventsTopic, event.RunID)
	if err := s.natsConn.Publish(subject, data); err != nil {
		log.WithError(err).WithField("subject", subject).Error("Failed to publish collection event")
	}
}
