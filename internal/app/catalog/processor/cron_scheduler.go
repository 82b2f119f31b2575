package processor

import (
	"context"

	"productmanagement/pkg/logger"

	"github.com/robfig/cron/v3"
)

// DropdownWarmer перестраивает кеш выпадающего списка категорий
type DropdownWarmer interface {
	RefreshCategoryDropdownCache(ctx context.Context) error
}

// CronScheduler периодически прогревает кеш выпадающего списка,
// чтобы первый запрос после истечения TTL не ходил в БД
type CronScheduler struct {
	cron   *cron.Cron
	warmer DropdownWarmer
}

func NewCronScheduler(warmer DropdownWarmer) *CronScheduler {
	return &CronScheduler{
		cron:   cron.New(),
		warmer: warmer,
	}
}

func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.warmer.RefreshCategoryDropdownCache(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to refresh dropdown cache")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	// Первичный прогрев при старте сервиса
	if err := s.warmer.RefreshCategoryDropdownCache(ctx); err != nil {
		logger.Warn().Err(err).Msg("Initial dropdown cache warmup failed")
	}

	return nil
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
