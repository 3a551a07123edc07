package event

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishOrder(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	defer sub.Close()

	for i := 0; i < 10; i++ {
		bus.Emit(TypeCoreLog, map[string]int{"n": i})
	}

	for i := 0; i < 10; i++ {
		ev := <-sub.C()
		var p map[string]int
		require.NoError(t, json.Unmarshal(ev.Payload, &p))
		assert.Equal(t, i, p["n"], "events must arrive in publish order")
		assert.Equal(t, TypeCoreLog, ev.Type)
		assert.NotEmpty(t, ev.ID)
	}
}

func TestBus_FanOut(t *testing.T) {
	bus := NewBus()
	a := bus.Subscribe()
	b := bus.Subscribe()
	defer a.Close()
	defer b.Close()

	bus.Emit(TypeCoreState, map[string]string{"state": "running"})

	assert.Equal(t, TypeCoreState, (<-a.C()).Type)
	assert.Equal(t, TypeCoreState, (<-b.C()).Type)
}

func TestBus_SlowSubscriberDrops(t *testing.T) {
	var dropped []string
	var mu sync.Mutex
	bus := NewBus(WithBufferSize(2), WithDropHook(func(ev Event) {
		mu.Lock()
		dropped = append(dropped, ev.Type)
		mu.Unlock()
	}))
	sub := bus.Subscribe()
	defer sub.Close()

	for i := 0; i < 5; i++ {
		bus.Emit(TypeCoreLog, i)
	}

	mu.Lock()
	assert.Equal(t, []string{TypeCoreLog, TypeCoreLog, TypeCoreLog}, dropped)
	mu.Unlock()
	assert.Len(t, sub.C(), 2)
}

func TestSubscription_Close(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	require.Equal(t, 1, bus.Subscribers())

	sub.Close()
	sub.Close()

	assert.Equal(t, 0, bus.Subscribers())
	_, ok := <-sub.C()
	assert.False(t, ok, "channel should be closed after Close")

	// Publishing after close must not panic.
	bus.Emit(TypeCoreExit, nil)
}

func TestNew_NilPayload(t *testing.T) {
	ev := New(TypeCoreExit, nil)
	assert.Nil(t, ev.Payload)
	assert.NotZero(t, ev.Timestamp)
}
