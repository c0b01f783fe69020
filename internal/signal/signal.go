package signal

import (
	"sync"

	"github.com/google/uuid"
)

// Token identifies a handler registration
type Token string

// Source is anything handlers can be registered on
type Source[T any] interface {
	Register(handler func(T)) Token
	Unregister(token Token)
}

type registration[T any] struct {
	token   Token
	handler func(T)
}

// Signal fans a value out to registered handlers, in registration order.
// Handlers run on the goroutine calling Emit.
type Signal[T any] struct {
	mu       sync.Mutex
	handlers []registration[T]
}

// New creates an empty signal
func New[T any]() *Signal[T] {
	return &Signal[T]{}
}

func (s *Signal[T]) Register(handler func(T)) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := Token(uuid.NewString())
	s.handlers = append(s.handlers, registration[T]{token: token, handler: handler})
	return token
}

// Unregister removes a handler. Unknown tokens are ignored.
func (s *Signal[T]) Unregister(token Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.handlers {
		if r.token == token {
			s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
			return
		}
	}
}

func (s *Signal[T]) Emit(v T) {
	// Snapshot so handlers may (un)register without deadlocking
	s.mu.Lock()
	handlers := make([]registration[T], len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.Unlock()

	for _, r := range handlers {
		r.handler(v)
	}
}

// Len returns the number of registered handlers
func (s *Signal[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}

// Binding holds at most one registration on a source. Binding a new
// source disposes the previous registration first.
type Binding[T any] struct {
	mu     sync.Mutex
	source Source[T]
	token  Token
}

func (b *Binding[T]) Bind(src Source[T], handler func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseLocked()
	if src == nil {
		return
	}
	b.source = src
	b.token = src.Register(handler)
}

func (b *Binding[T]) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.releaseLocked()
}

func (b *Binding[T]) releaseLocked() {
	if b.source != nil {
		b.source.Unregister(b.token)
	}
	b.source = nil
	b.token = ""
}
