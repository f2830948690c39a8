package scheduler

import (
	"time"

	"github.com/dinperin/simikm-backend/internal/app/service"
	"github.com/dinperin/simikm-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// RetentionScheduler hard-deletes training activities that sat in the
// recycle bin past the retention window. Businesses and service records are
// only purged by an explicit staff action.
type RetentionScheduler struct {
	cron            *cron.Cron
	trainingService service.TrainingService
	window          time.Duration
	spec            string
}

func NewRetentionScheduler(trainingService service.TrainingService, window time.Duration, spec string) *RetentionScheduler {
	return &RetentionScheduler{
		cron:            cron.New(),
		trainingService: trainingService,
		window:          window,
		spec:            spec,
	}
}

func (s *RetentionScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		logger.Info("Starting retention sweep", map[string]interface{}{
			"window": s.window.String(),
		})

		purged, err := s.trainingService.PurgeExpired(s.window)
		if err != nil {
			logger.Error("Retention sweep failed", err, nil)
			return
		}

		logger.Info("Retention sweep completed", map[string]interface{}{
			"purged": purged,
		})
	})
	if err != nil {
		logger.Error("Failed to schedule retention sweep", err, nil)
		return err
	}

	s.cron.Start()
	logger.Info("Retention scheduler started", map[string]interface{}{
		"spec":   s.spec,
		"window": s.window.String(),
	})
	return nil
}

func (s *RetentionScheduler) Stop() {
	logger.Info("Stopping retention scheduler...", nil)
	s.cron.Stop()
	logger.Info("Retention scheduler stopped", nil)
}
