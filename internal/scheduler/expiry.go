package scheduler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"seat-service/internal/config"
	"seat-service/internal/models"
	"seat-service/internal/repository"
	"seat-service/internal/services"
)

// The sweep acts only on seats a customer is currently paying for;
// everything else already has a terminal or pre-sale status.
var sweepStatuses = map[models.AccountStatus]bool{
	models.StatusInUse:      true,
	models.StatusDelivered:  true,
	models.StatusSubsActive: true,
}

// ExpirySweeper periodically flags seats whose subscription window is about
// to lapse, moving them to EXPIRING through the lifecycle engine so the
// transition is audited like any other.
type ExpirySweeper struct {
	accounts  repository.AccountStore
	lifecycle *services.LifecycleService
	config    config.ExpiryConfig
	logger    *logrus.Logger
	cron      *cron.Cron
	mu        sync.Mutex
	running   bool
}

// NewExpirySweeper creates a new expiry sweeper
func NewExpirySweeper(
	accounts repository.AccountStore,
	lifecycle *services.LifecycleService,
	cfg config.ExpiryConfig,
	logger *logrus.Logger,
) *ExpirySweeper {
	return &ExpirySweeper{
		accounts:  accounts,
		lifecycle: lifecycle,
		config:    cfg,
		logger:    logger,
	}
}

// Start starts the sweep scheduler
func (s *ExpirySweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if !s.config.SweepEnabled {
		s.logger.Info("Expiry sweep is disabled")
		return nil
	}

	s.cron = cron.New(cron.WithSeconds())

	schedule := s.config.SweepSchedule
	if schedule == "" {
		schedule = "0 0 3 * * *" // Default: 3 AM daily (with seconds)
	}
	// Convert 5-field cron to 6-field (robfig with WithSeconds expects 6)
	if fields := strings.Fields(schedule); len(fields) == 5 {
		schedule = "0 " + schedule
	}

	if _, err := s.cron.AddFunc(schedule, s.runSweep); err != nil {
		s.logger.WithError(err).Error("Failed to schedule expiry sweep")
		return err
	}

	s.cron.Start()
	s.running = true

	s.logger.WithFields(logrus.Fields{
		"schedule":  s.config.SweepSchedule,
		"warn_days": s.config.WarnDays,
	}).Info("Expiry sweep scheduler started")
	return nil
}

// Stop stops the sweep scheduler
func (s *ExpirySweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		s.cron.Stop()
	}
	s.running = false
}

// RunOnce executes a single sweep pass; exposed for manual triggering
func (s *ExpirySweeper) RunOnce(ctx context.Context) (flagged int, err error) {
	reference := time.Now()
	candidates, err := s.accounts.ListExpiring(ctx, reference, s.config.WarnDays)
	if err != nil {
		return 0, err
	}

	for _, account := range candidates {
		if !sweepStatuses[account.Status] {
			continue
		}
		err := s.lifecycle.ChangeStatus(ctx, account.ID, models.StatusExpiring, "system",
			"subscription window lapsing, flagged by expiry sweep")
		if err != nil {
			// Keep sweeping the rest
			s.logger.WithError(err).WithField("account_id", account.ID).
				Warn("Failed to flag expiring seat")
			continue
		}
		flagged++
	}
	return flagged, nil
}

func (s *ExpirySweeper) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	flagged, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Expiry sweep failed")
		return
	}
	s.logger.WithField("flagged", flagged).Info("Expiry sweep completed")
}
