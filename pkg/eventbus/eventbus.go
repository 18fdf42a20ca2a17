package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event представляет собой любое событие в системе.
// События с одинаковым Key() доставляются каждому слушателю строго в порядке
// публикации. Между разными ключами порядок не гарантируется.
type Event interface {
	Name() string
	Key() string
}

// Listener - это обработчик (слушатель) событий. Доставка "как минимум один раз":
// обработчик обязан быть идемпотентным.
type Listener func(ctx context.Context, event Event) error

// Bus - шина событий с последовательной доставкой по ключу.
type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex

	// FIFO-очереди по ключу. Пока у ключа есть необработанные события,
	// их разбирает ровно одна горутина.
	queues map[string][]Event
	qmu    sync.Mutex

	wg     sync.WaitGroup
	logger *zap.Logger
}

// New создает новую шину событий.
func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		queues:    make(map[string][]Event),
		logger:    logger,
	}
}

// Subscribe подписывает слушателя на определенное событие.
func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish ставит событие в очередь своего ключа. Если очередь была пуста,
// запускается горутина, которая разбирает её до конца.
func (b *Bus) Publish(ctx context.Context, event Event) {
	key := event.Key()

	b.qmu.Lock()
	queue, active := b.queues[key]
	b.queues[key] = append(queue, event)
	b.qmu.Unlock()

	if active {
		return
	}

	b.wg.Add(1)
	go b.drain(key)
}

func (b *Bus) drain(key string) {
	defer b.wg.Done()

	for {
		b.qmu.Lock()
		queue := b.queues[key]
		if len(queue) == 0 {
			delete(b.queues, key)
			b.qmu.Unlock()
			return
		}
		event := queue[0]
		b.queues[key] = queue[1:]
		b.qmu.Unlock()

		b.deliver(event)
	}
}

// deliver вызывает всех подписчиков события по очереди. Ошибки слушателей
// логируются и не прерывают доставку остальным.
func (b *Bus) deliver(event Event) {
	b.mu.RLock()
	listeners := b.listeners[event.Name()]
	b.mu.RUnlock()

	for _, listener := range listeners {
		// Контекст с таймаутом, чтобы избежать "вечных" горутин.
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		if err := listener(ctx, event); err != nil {
			b.logger.Error("Ошибка в обработчике события",
				zap.String("event", event.Name()),
				zap.String("key", event.Key()),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Wait блокируется, пока все очереди не опустеют. Нужен для корректного
// завершения и для тестов.
func (b *Bus) Wait() {
	b.wg.Wait()
}
