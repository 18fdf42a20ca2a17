package jobs

import (
	"context"

	"go.uber.org/zap"

	"lab-system/internal/services"
)

// AnalyticsJob ежедневно пересчитывает сводку использования оборудования.
type AnalyticsJob struct {
	analyticsService services.AnalyticsServiceInterface
	windowDays       int
	logger           *zap.Logger
}

func NewAnalyticsJob(analyticsService services.AnalyticsServiceInterface, windowDays int, logger *zap.Logger) *AnalyticsJob {
	return &AnalyticsJob{
		analyticsService: analyticsService,
		windowDays:       windowDays,
		logger:           logger,
	}
}

func (j *AnalyticsJob) Name() string { return "usage_analytics" }

func (j *AnalyticsJob) Run(ctx context.Context) error {
	_, err := j.analyticsService.BuildSnapshot(ctx, j.windowDays)
	return err
}
