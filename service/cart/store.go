package cart

import "sync"

// Store keeps one cart per staff user id. Carts never touch the
// database; a restart drops them, matching the original's
// session-scoped cart.
type Store struct {
	mu    sync.Mutex
	carts map[int64]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[int64]*Cart)}
}

// Get returns the user's cart, creating it on first use. Each staff
// pincode maps to one interactive session, so the cart itself needs no
// locking; the mutex only guards the map.
func (s *Store) Get(userID int64) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		c = New()
		s.carts[userID] = c
	}
	return c
}

func (s *Store) Drop(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}
