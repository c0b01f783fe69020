package signal

import "testing"

func TestSignalEmitOrder(t *testing.T) {
	s := New[int]()

	var got []int
	s.Register(func(v int) { got = append(got, v) })
	s.Register(func(v int) { got = append(got, v*10) })

	s.Emit(2)

	if len(got) != 2 || got[0] != 2 || got[1] != 20 {
		t.Errorf("unexpected handler results %v", got)
	}
}

func TestSignalUnregister(t *testing.T) {
	s := New[string]()

	calls := 0
	token := s.Register(func(string) { calls++ })
	s.Unregister(token)
	s.Unregister("unknown")
	s.Emit("x")

	if calls != 0 {
		t.Errorf("expected no calls after unregister, got %d", calls)
	}
	if s.Len() != 0 {
		t.Errorf("expected no handlers, got %d", s.Len())
	}
}

func TestSignalHandlerMayUnregister(t *testing.T) {
	s := New[struct{}]()

	var token Token
	calls := 0
	token = s.Register(func(struct{}) {
		calls++
		s.Unregister(token)
	})

	s.Emit(struct{}{})
	s.Emit(struct{}{})

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestBindingReplacesPrevious(t *testing.T) {
	first := New[int]()
	second := New[int]()

	var b Binding[int]
	var got []int
	b.Bind(first, func(v int) { got = append(got, v) })
	b.Bind(second, func(v int) { got = append(got, v+100) })

	if first.Len() != 0 {
		t.Errorf("expected previous registration disposed, got %d handlers", first.Len())
	}

	first.Emit(1)
	second.Emit(1)

	if len(got) != 1 || got[0] != 101 {
		t.Errorf("unexpected results %v", got)
	}

	b.Release()
	if second.Len() != 0 {
		t.Errorf("expected release to unregister, got %d handlers", second.Len())
	}
}

func TestBindingSameSourceTwice(t *testing.T) {
	src := New[int]()

	var b Binding[int]
	calls := 0
	b.Bind(src, func(int) { calls++ })
	b.Bind(src, func(int) { calls++ })

	src.Emit(0)

	if src.Len() != 1 {
		t.Errorf("expected a single registration, got %d", src.Len())
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
