package users

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store. A single RWMutex guards both the map
// and the id counter, so every write is a compare-and-swap on Version.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[int64]User
	nextID int64
}

// NewMemoryStore returns a store preloaded with seed. The id counter starts
// after the largest seeded id.
func NewMemoryStore(seed ...User) *MemoryStore {
	s := &MemoryStore{
		users:  make(map[int64]User, len(seed)),
		nextID: 1,
	}
	for _, u := range seed {
		if u.Version == 0 {
			u.Version = 1
		}
		s.users[u.ID] = u
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
	return s
}

func (s *MemoryStore) List(_ context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]User, 0, len(s.users))
	for _, u := range s.users {
		items = append(items, u)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) Create(_ context.Context, u User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.ID = s.nextID
	u.Version = 1
	s.nextID++
	s.users[u.ID] = u
	return u, nil
}

func (s *MemoryStore) Update(_ context.Context, u User, expectedVersion *int64) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[u.ID]
	if !ok {
		return User{}, ErrNotFound
	}
	if expectedVersion != nil && *expectedVersion != current.Version {
		return User{}, ErrVersionConflict
	}

	u.Version = current.Version + 1
	s.users[u.ID] = u
	return u, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}
