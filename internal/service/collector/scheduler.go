// internal/service/collector/scheduler.go

package collector

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"creatorpulse/internal/domain/author"
)

// Scheduler drives periodic collection of every active account
type Scheduler struct {
	service    *Service
	accounts   author.Store
	spec       string
	windowDays int
	cron       *cron.Cron
}

// NewScheduler creates a scheduler that runs on the given cron spec and
// collects the trailing windowDays of data per account
func NewScheduler(service *Service, accounts author.Store, spec string, windowDays int) *Scheduler {
	return &Scheduler{
		service:    service,
		accounts:   accounts,
		spec:       spec,
		windowDays: windowDays,
		cron:       cron.New(cron.WithSeconds()),
	}
}

// Start registers the collection job and starts the cron loop
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runAll)
	if err != nil {
		return err
	}
	s.cron.Start()
	log.WithField("schedule", s.spec).Info("Collection scheduler started")
	return nil
}

// Stop stops the cron loop, waiting for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Collection scheduler stopped")
}

func (s *Scheduler) runAll() {
	ctx := context.Background()

	accounts, err := s.accounts.ListAccounts(ctx, "")
	if err != nil {
		log.WithError(err).Error("Scheduled collection: failed to list accounts")
		return
	}

	to := time.Now()
	from := to.AddDate(0, 0, -s.windowDays)

	collected, failed := 0, 0
	for _, account := range accounts {
		if !account.IsActive {
			continue
		}
		result, err := s.service.Collect(ctx, account, from, to)
		if err != nil {
			failed++
			log.WithError(err).WithFields(log.Fields{
				"account":  account.Username,
				"platform": account.Platform,
			}).Error("Scheduled collection failed for account")
			continue
		}
		collected++
		log.WithFields(log.Fields{
			"account": account.Username,
			"posts":   result.PostsCollected,
		}).Debug("Scheduled collection finished for account")
	}

	log.WithFields(log.Fields{
		"accounts": collected,
		"failed":   failed,
	}).Info("Scheduled collection pass completed")
}
