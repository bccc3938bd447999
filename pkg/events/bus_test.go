package events_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/totpmfa/pkg/events"
)

func TestBus_EmitWithoutListeners(t *testing.T) {
	t.Parallel()
	bus := events.NewBus()
	assert.False(t, bus.Emit(context.Background(), "attemptingLogin", nil))
}

func TestBus_OrderAndPayload(t *testing.T) {
	t.Parallel()
	bus := events.NewBus()

	var calls []string
	bus.On("attemptingLogin", func(_ context.Context, payload any) events.Result {
		calls = append(calls, "first:"+payload.(string))
		return events.Continue
	})
	bus.On("attemptingLogin", func(_ context.Context, payload any) events.Result {
		calls = append(calls, "second:"+payload.(string))
		return events.Continue
	})
	bus.On("other", func(context.Context, any) events.Result {
		calls = append(calls, "other")
		return events.Continue
	})

	prevented := bus.Emit(context.Background(), "attemptingLogin", "alice")
	assert.False(t, prevented)
	assert.Equal(t, []string{"first:alice", "second:alice"}, calls)
}

func TestBus_PreventDefaultStopsDispatch(t *testing.T) {
	t.Parallel()
	bus := events.NewBus()

	secondCalled := false
	bus.On("attemptingLogin", func(context.Context, any) events.Result {
		return events.PreventDefault
	})
	bus.On("attemptingLogin", func(context.Context, any) events.Result {
		secondCalled = true
		return events.Continue
	})

	assert.True(t, bus.Emit(context.Background(), "attemptingLogin", nil))
	assert.False(t, secondCalled)
}

func TestBus_PanicIsVeto(t *testing.T) {
	t.Parallel()
	bus := events.NewBus()

	bus.On("attemptingLogin", func(context.Context, any) events.Result {
		panic("broken listener")
	})

	assert.True(t, bus.Emit(context.Background(), "attemptingLogin", nil))
}

func TestBus_Unsubscribe(t *testing.T) {
	t.Parallel()
	bus := events.NewBus()

	called := 0
	off := bus.On("attemptingLogin", func(context.Context, any) events.Result {
		called++
		return events.Continue
	})
	require.Equal(t, 1, bus.ListenerCount("attemptingLogin"))

	bus.Emit(context.Background(), "attemptingLogin", nil)
	off()
	off()
	bus.Emit(context.Background(), "attemptingLogin", nil)

	assert.Equal(t, 1, called)
	assert.Equal(t, 0, bus.ListenerCount("attemptingLogin"))
}

func TestBus_Close(t *testing.T) {
	t.Parallel()
	bus := events.NewBus()

	bus.On("attemptingLogin", func(context.Context, any) events.Result { return events.PreventDefault })
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	assert.False(t, bus.Emit(context.Background(), "attemptingLogin", nil))

	off := bus.On("attemptingLogin", func(context.Context, any) events.Result { return events.PreventDefault })
	off()
	assert.Equal(t, 0, bus.ListenerCount("attemptingLogin"))
}

func TestBus_ConcurrentEmit(t *testing.T) {
	t.Parallel()
	bus := events.NewBus()

	var mu sync.Mutex
	count := 0
	bus.On("attemptingLogin", func(context.Context, any) events.Result {
		mu.Lock()
		count++
		mu.Unlock()
		return events.Continue
	})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Emit(context.Background(), "attemptingLogin", nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, count)
}

func TestResult_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "continue", events.Continue.String())
	assert.Equal(t, "prevent_default", events.PreventDefault.String())
}
