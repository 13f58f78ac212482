package appearance

import "sync"

type subscription[F any] struct {
	id int
	fn F
}

// subscribers is an ordered callback set. Removal is idempotent.
type subscribers[F any] struct {
	mu      sync.Mutex
	nextID  int
	entries []subscription[F]
}

func (s *subscribers[F]) add(fn F) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.entries = append(s.entries, subscription[F]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, e := range s.entries {
				if e.id == id {
					s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
					return
				}
			}
		})
	}
}

// snapshot copies the callbacks so they can run without the lock held.
func (s *subscribers[F]) snapshot() []F {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]F, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.fn
	}
	return out
}

func (s *subscribers[F]) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
