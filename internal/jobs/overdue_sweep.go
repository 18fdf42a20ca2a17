package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"lab-system/internal/repositories"
	"lab-system/internal/services"
)

// OverdueSweepJob закрывает утвержденные брони, у которых прошло время
// возврата. Ошибка по одной броне не останавливает обход.
type OverdueSweepJob struct {
	bookingRepo    repositories.BookingRepositoryInterface
	bookingService services.BookingServiceInterface
	logger         *zap.Logger
}

func NewOverdueSweepJob(
	bookingRepo repositories.BookingRepositoryInterface,
	bookingService services.BookingServiceInterface,
	logger *zap.Logger,
) *OverdueSweepJob {
	return &OverdueSweepJob{
		bookingRepo:    bookingRepo,
		bookingService: bookingService,
		logger:         logger,
	}
}

func (j *OverdueSweepJob) Name() string { return "overdue_sweep" }

func (j *OverdueSweepJob) Run(ctx context.Context) error {
	now := time.Now()
	overdue, err := j.bookingRepo.FindApprovedOverdue(ctx, now)
	if err != nil {
		return err
	}

	var completed int
	for _, b := range overdue {
		if _, err := j.bookingService.CompleteBooking(ctx, b.ID, now); err != nil {
			j.logger.Error("не удалось завершить просроченную бронь",
				zap.Uint64("booking_id", b.ID),
				zap.Error(err),
			)
			continue
		}
		completed++
	}

	if len(overdue) > 0 {
		j.logger.Info("просроченные брони обработаны",
			zap.Int("found", len(overdue)),
			zap.Int("completed", completed),
		)
	}
	return nil
}
