package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

type memoryEntry struct {
	value  string
	expiry time.Time
}

// MemoryCacheRepository - кеш в памяти процесса на sync.Map.
// Запасной вариант, когда Redis недоступен, и основа для тестов.
type MemoryCacheRepository struct {
	entries sync.Map
}

func NewMemoryCacheRepository() *MemoryCacheRepository {
	return &MemoryCacheRepository{}
}

func (r *MemoryCacheRepository) Get(ctx context.Context, key string) (string, error) {
	val, ok := r.entries.Load(key)
	if !ok {
		return "", redis.Nil
	}
	entry := val.(memoryEntry)
	if !entry.expiry.IsZero() && time.Now().After(entry.expiry) {
		r.entries.Delete(key)
		return "", redis.Nil
	}
	return entry.value, nil
}

func (r *MemoryCacheRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	r.entries.Store(key, newMemoryEntry(value, expiration))
	return nil
}

func (r *MemoryCacheRepository) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	fresh := newMemoryEntry(value, expiration)
	for {
		existing, loaded := r.entries.LoadOrStore(key, fresh)
		if !loaded {
			return true, nil
		}
		entry := existing.(memoryEntry)
		if entry.expiry.IsZero() || time.Now().Before(entry.expiry) {
			return false, nil
		}
		// Живая запись просрочена: убираем именно её и пробуем снова,
		// чтобы не затереть ключ, захваченный конкурентом.
		r.entries.CompareAndDelete(key, existing)
	}
}

func (r *MemoryCacheRepository) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		r.entries.Delete(key)
	}
	return nil
}

// Cleanup периодически выбрасывает просроченные записи.
func (r *MemoryCacheRepository) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			r.entries.Range(func(key, value interface{}) bool {
				entry := value.(memoryEntry)
				if !entry.expiry.IsZero() && now.After(entry.expiry) {
					r.entries.Delete(key)
				}
				return true
			})
		}
	}
}

func newMemoryEntry(value interface{}, expiration time.Duration) memoryEntry {
	entry := memoryEntry{value: fmt.Sprintf("%v", value)}
	if expiration > 0 {
		entry.expiry = time.Now().Add(expiration)
	}
	return entry
}
