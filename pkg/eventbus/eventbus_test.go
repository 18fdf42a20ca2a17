package eventbus

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	name string
	key  string
	seq  int
}

func (e testEvent) Name() string { return e.name }
func (e testEvent) Key() string  { return e.key }

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := New(zap.NewNop())

	var mu sync.Mutex
	var first, second []string

	bus.Subscribe("thing.happened", func(ctx context.Context, event Event) error {
		mu.Lock()
		defer mu.Unlock()
		first = append(first, event.Key())
		return nil
	})
	bus.Subscribe("thing.happened", func(ctx context.Context, event Event) error {
		mu.Lock()
		defer mu.Unlock()
		second = append(second, event.Key())
		return nil
	})

	bus.Publish(context.Background(), testEvent{name: "thing.happened", key: "1"})
	bus.Wait()

	assert.Equal(t, []string{"1"}, first)
	assert.Equal(t, []string{"1"}, second)
}

func TestBusOrderingPerKey(t *testing.T) {
	bus := New(zap.NewNop())

	var mu sync.Mutex
	received := make(map[string][]int)

	bus.Subscribe("thing.happened", func(ctx context.Context, event Event) error {
		e := event.(testEvent)
		mu.Lock()
		defer mu.Unlock()
		received[e.key] = append(received[e.key], e.seq)
		return nil
	})

	const perKey = 50
	ctx := context.Background()
	for seq := 0; seq < perKey; seq++ {
		for _, key := range []string{"a", "b", "c"} {
			bus.Publish(ctx, testEvent{name: "thing.happened", key: key, seq: seq})
		}
	}
	bus.Wait()

	for _, key := range []string{"a", "b", "c"} {
		require.Len(t, received[key], perKey, "ключ %s", key)
		for seq := 0; seq < perKey; seq++ {
			assert.Equal(t, seq, received[key][seq], "нарушен порядок для ключа %s", key)
		}
	}
}

func TestBusListenerErrorDoesNotStopDelivery(t *testing.T) {
	bus := New(zap.NewNop())

	var mu sync.Mutex
	var delivered int

	bus.Subscribe("thing.happened", func(ctx context.Context, event Event) error {
		return fmt.Errorf("обработчик сломан")
	})
	bus.Subscribe("thing.happened", func(ctx context.Context, event Event) error {
		mu.Lock()
		defer mu.Unlock()
		delivered++
		return nil
	})

	ctx := context.Background()
	bus.Publish(ctx, testEvent{name: "thing.happened", key: "1"})
	bus.Publish(ctx, testEvent{name: "thing.happened", key: "1"})
	bus.Wait()

	assert.Equal(t, 2, delivered)
}

func TestBusNoSubscribers(t *testing.T) {
	bus := New(zap.NewNop())
	// Событие без подписчиков просто разбирается из очереди.
	bus.Publish(context.Background(), testEvent{name: "nobody.cares", key: "1"})
	bus.Wait()
}
