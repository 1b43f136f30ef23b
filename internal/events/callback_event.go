package events

// CallbackEvent calls listener functions synchronously on Notify, in no
// particular order. Callbacks run outside the internal lock, so they may
// register or remove listeners themselves.
type CallbackEvent[T any] struct {
	reg registry[func(T), T]
}

// NewCallbackEvent creates a CallbackEvent. With sendLastEventOnListen a new
// callback is invoked right away with the most recent value, if there is one.
func NewCallbackEvent[T any](sendLastEventOnListen bool) *CallbackEvent[T] {
	return &CallbackEvent[T]{reg: newRegistry[func(T), T](sendLastEventOnListen)}
}

// Listen registers callback and returns a function that removes it again
func (e *CallbackEvent[T]) Listen(callback func(T)) func() {
	if callback == nil {
		panic("CallbackEvent: callback cannot be nil")
	}

	id, last, replay := e.reg.add(callback)
	if replay {
		callback(last)
	}
	return func() { e.reg.remove(id) }
}

// Notify invokes every registered callback with value
func (e *CallbackEvent[T]) Notify(value T) {
	for _, callback := range e.reg.record(value) {
		callback(value)
	}
}

// Last returns the most recent value when the event replays values
func (e *CallbackEvent[T]) Last() (T, bool) {
	return e.reg.lastValue()
}

func (e *CallbackEvent[T]) ListenerCount() int {
	return e.reg.count()
}
