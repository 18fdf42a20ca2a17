package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface - абстракция над кешем (Redis).
// SetNX нужен для идемпотентности уведомлений: первый вызов с ключом
// возвращает true, повторные - false.
type CacheRepositoryInterface interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}
