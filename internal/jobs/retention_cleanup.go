package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"lab-system/internal/repositories"
)

// RetentionCleanupJob удаляет записи чата старше срока хранения.
type RetentionCleanupJob struct {
	chatLogRepo   repositories.ChatLogRepositoryInterface
	retentionDays int
	logger        *zap.Logger
}

func NewRetentionCleanupJob(chatLogRepo repositories.ChatLogRepositoryInterface, retentionDays int, logger *zap.Logger) *RetentionCleanupJob {
	return &RetentionCleanupJob{
		chatLogRepo:   chatLogRepo,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

func (j *RetentionCleanupJob) Name() string { return "retention_cleanup" }

func (j *RetentionCleanupJob) Run(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -j.retentionDays)
	deleted, err := j.chatLogRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	j.logger.Info("история чата очищена",
		zap.Int64("deleted", deleted),
		zap.Time("cutoff", cutoff),
	)
	return nil
}
