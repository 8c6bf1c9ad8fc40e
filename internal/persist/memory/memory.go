// Package memory is the zero-dependency persistence backend: documents and
// users held in process memory. Used for local development and tests.
package memory

import (
	"context"
	"sync"

	"naildash/internal/auth"
	"naildash/internal/persist"
)

type Store struct {
	mu    sync.Mutex
	docs  map[string][]byte
	users map[string]auth.User // keyed by lowercase username
}

var (
	_ persist.Documents   = (*Store)(nil)
	_ auth.UserRepository = (*Store)(nil)
)

func New() *Store {
	return &Store{
		docs:  make(map[string][]byte),
		users: make(map[string]auth.User),
	}
}

func (s *Store) Load(_ context.Context, owner, stream string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[owner+"/"+stream]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (s *Store) Save(_ context.Context, owner, stream string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.docs[owner+"/"+stream] = stored
	return nil
}

func (s *Store) CreateUser(_ context.Context, u auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := auth.NormalizeUsername(u.Username)
	if _, ok := s.users[key]; ok {
		return auth.ErrUsernameTaken
	}
	s.users[key] = u
	return nil
}

func (s *Store) UserByUsername(_ context.Context, username string) (auth.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[auth.NormalizeUsername(username)]
	return u, ok, nil
}
