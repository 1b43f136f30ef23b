package events

// ChannelEvent fans values out to listener channels. Sends never block: a
// listener whose buffer is full misses that value.
type ChannelEvent[T any] struct {
	reg registry[chan<- T, T]
}

// NewChannelEvent creates a ChannelEvent. With sendLastEventOnListen a new
// listener immediately receives the most recent value, if there is one.
func NewChannelEvent[T any](sendLastEventOnListen bool) *ChannelEvent[T] {
	return &ChannelEvent[T]{reg: newRegistry[chan<- T, T](sendLastEventOnListen)}
}

// Listen registers ch and returns a function that removes it again
func (e *ChannelEvent[T]) Listen(ch chan<- T) func() {
	if ch == nil {
		panic("ChannelEvent: channel cannot be nil")
	}

	id, last, replay := e.reg.add(ch)
	if replay {
		trySend(ch, last)
	}
	return func() { e.reg.remove(id) }
}

// Notify sends value to every registered channel
func (e *ChannelEvent[T]) Notify(value T) {
	for _, ch := range e.reg.record(value) {
		trySend(ch, value)
	}
}

// Last returns the most recent value when the event replays values
func (e *ChannelEvent[T]) Last() (T, bool) {
	return e.reg.lastValue()
}

func (e *ChannelEvent[T]) ListenerCount() int {
	return e.reg.count()
}

func trySend[T any](ch chan<- T, value T) {
	select {
	case ch <- value:
	default:
	}
}
