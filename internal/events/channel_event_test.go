package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countdown struct {
	Phase     string
	Remaining int
}

func drain[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}

func TestChannelEvent_Listen_Notify(t *testing.T) {
	event := NewChannelEvent[countdown](false)

	ch := make(chan countdown, 10)
	unregister := event.Listen(ch)
	assert.Equal(t, 1, event.ListenerCount())

	event.Notify(countdown{"exercise", 3})
	event.Notify(countdown{"exercise", 2})
	assert.Equal(t, []countdown{{"exercise", 3}, {"exercise", 2}}, drain(ch))

	unregister()
	assert.Equal(t, 0, event.ListenerCount())

	event.Notify(countdown{"exercise", 1})
	assert.Empty(t, drain(ch), "removed listener must not receive values")
}

func TestChannelEvent_MultipleListeners(t *testing.T) {
	event := NewChannelEvent[int](false)

	ch1 := make(chan int, 4)
	ch2 := make(chan int, 4)
	defer event.Listen(ch1)()
	defer event.Listen(ch2)()

	event.Notify(45)
	event.Notify(44)

	assert.Equal(t, []int{45, 44}, drain(ch1))
	assert.Equal(t, []int{45, 44}, drain(ch2))
}

func TestChannelEvent_ReplaysLastValue(t *testing.T) {
	event := NewChannelEvent[string](true)

	early := make(chan string, 4)
	defer event.Listen(early)()
	assert.Empty(t, drain(early), "nothing to replay before the first Notify")

	_, ok := event.Last()
	assert.False(t, ok)

	event.Notify("prep")
	event.Notify("exercise")
	assert.Equal(t, []string{"prep", "exercise"}, drain(early))

	late := make(chan string, 4)
	defer event.Listen(late)()
	assert.Equal(t, []string{"exercise"}, drain(late))

	last, ok := event.Last()
	require.True(t, ok)
	assert.Equal(t, "exercise", last)
}

func TestChannelEvent_NoReplayWhenDisabled(t *testing.T) {
	event := NewChannelEvent[string](false)
	event.Notify("rest")

	ch := make(chan string, 4)
	defer event.Listen(ch)()
	assert.Empty(t, drain(ch))

	_, ok := event.Last()
	assert.False(t, ok)
}

func TestChannelEvent_FullChannelIsSkipped(t *testing.T) {
	event := NewChannelEvent[int](false)

	full := make(chan int, 1)
	roomy := make(chan int, 4)
	defer event.Listen(full)()
	defer event.Listen(roomy)()

	event.Notify(1)
	event.Notify(2)

	assert.Equal(t, []int{1}, drain(full))
	assert.Equal(t, []int{1, 2}, drain(roomy))
}

func TestChannelEvent_ConcurrentAccess(t *testing.T) {
	event := NewChannelEvent[int](true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(v int) {
			defer wg.Done()
			event.Notify(v)
		}(i)
		go func() {
			defer wg.Done()
			ch := make(chan int, 32)
			unregister := event.Listen(ch)
			unregister()
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, event.ListenerCount())
}

func TestChannelEvent_Listen_NilChannel(t *testing.T) {
	event := NewChannelEvent[int](false)
	assert.Panics(t, func() { event.Listen(nil) })
}
