package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lab-system/internal/entities"
)

// fakeChatLogRepo хранит записи в памяти и повторяет семантику
// DeleteOlderThan: строго старше среза.
type fakeChatLogRepo struct {
	logs []entities.ChatLog
}

func (r *fakeChatLogRepo) CreateChatLog(ctx context.Context, log *entities.ChatLog) (uint64, error) {
	log.ID = uint64(len(r.logs) + 1)
	r.logs = append(r.logs, *log)
	return log.ID, nil
}

func (r *fakeChatLogRepo) GetChatLogsByUser(ctx context.Context, userID uint64, limit uint64) ([]entities.ChatLog, error) {
	return r.logs, nil
}

func (r *fakeChatLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	kept := r.logs[:0]
	var deleted int64
	for _, l := range r.logs {
		if l.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, l)
	}
	r.logs = kept
	return deleted, nil
}

func TestRetentionCleanup(t *testing.T) {
	now := time.Now()
	repo := &fakeChatLogRepo{logs: []entities.ChatLog{
		{ID: 1, UserID: 10, CreatedAt: now.AddDate(0, 0, -95)},
		{ID: 2, UserID: 10, CreatedAt: now.AddDate(0, 0, -30)},
		{ID: 3, UserID: 11, CreatedAt: now},
	}}

	job := NewRetentionCleanupJob(repo, 90, zap.NewNop())
	require.NoError(t, job.Run(context.Background()))

	// Запись 95-дневной давности удалена, свежие остались.
	require.Len(t, repo.logs, 2)
	assert.Equal(t, uint64(2), repo.logs[0].ID)
	assert.Equal(t, uint64(3), repo.logs[1].ID)
}

func TestRetentionCleanupEmpty(t *testing.T) {
	repo := &fakeChatLogRepo{}
	job := NewRetentionCleanupJob(repo, 90, zap.NewNop())
	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, repo.logs)
}
