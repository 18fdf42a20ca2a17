package repositories

import (
	"context"
	"fmt"
	"time"

	"lab-system/internal/entities"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatLogRepositoryInterface interface {
	CreateChatLog(ctx context.Context, log *entities.ChatLog) (uint64, error)
	GetChatLogsByUser(ctx context.Context, userID uint64, limit uint64) ([]entities.ChatLog, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type ChatLogRepository struct {
	storage *pgxpool.Pool
}

func NewChatLogRepository(storage *pgxpool.Pool) ChatLogRepositoryInterface {
	return &ChatLogRepository{
		storage: storage,
	}
}

func (r *ChatLogRepository) CreateChatLog(ctx context.Context, log *entities.ChatLog) (uint64, error) {
	query := `
		INSERT INTO chat_logs (user_id, message, response)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.storage.QueryRow(ctx, query, log.UserID, log.Message, log.Response).
		Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи истории чата: %w", err)
	}
	return log.ID, nil
}

func (r *ChatLogRepository) GetChatLogsByUser(ctx context.Context, userID uint64, limit uint64) ([]entities.ChatLog, error) {
	query := `
		SELECT id, user_id, message, response, created_at
		FROM chat_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.storage.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории чата: %w", err)
	}
	defer rows.Close()

	logs := make([]entities.ChatLog, 0)
	for rows.Next() {
		var l entities.ChatLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Message, &l.Response, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи чата: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}

// DeleteOlderThan удаляет записи старше cutoff и возвращает их количество.
func (r *ChatLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.storage.Exec(ctx, `DELETE FROM chat_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки истории чата: %w", err)
	}
	return tag.RowsAffected(), nil
}
