package notify

// Token identifies a connected handler so it can be disconnected later.
type Token uint64

type handler[T any] struct {
	token Token
	fn    func(T)
}

// Signal is a list of observers for values of type T.
//
// A Signal is not safe for concurrent use; it is owned by the event loop that
// emits it. Handlers may connect or disconnect (themselves included) while the
// signal is being emitted; such changes apply to the next Emit.
type Signal[T any] struct {
	next     Token
	handlers []handler[T]
}

// Connect registers fn and returns a token for Disconnect.
func (s *Signal[T]) Connect(fn func(T)) Token {
	if fn == nil {
		return 0
	}
	s.next++
	s.handlers = append(s.handlers, handler[T]{token: s.next, fn: fn})
	return s.next
}

// Disconnect removes the handler registered under token. Unknown tokens are ignored.
func (s *Signal[T]) Disconnect(token Token) {
	for i, h := range s.handlers {
		if h.token == token {
			handlers := make([]handler[T], 0, len(s.handlers)-1)
			handlers = append(handlers, s.handlers[:i]...)
			handlers = append(handlers, s.handlers[i+1:]...)
			s.handlers = handlers
			return
		}
	}
}

// Emit calls every connected handler in connection order.
func (s *Signal[T]) Emit(value T) {
	handlers := s.handlers
	for _, h := range handlers {
		h.fn(value)
	}
}

// Len reports the number of connected handlers.
func (s *Signal[T]) Len() int {
	return len(s.handlers)
}
