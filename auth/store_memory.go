package auth

import (
	"context"

	"github.com/joy-dx/authnet/dto"
	"github.com/joy-dx/lockablemap"
)

// MemoryStore keeps sessions for the lifetime of the process, keyed by client id.
type MemoryStore struct {
	clientID string
	sessions *lockablemap.LockableMap[string, dto.TokenInfo]
}

func NewMemoryStore(clientID string) *MemoryStore {
	return &MemoryStore{
		clientID: clientID,
		sessions: lockablemap.NewLockableMap[string, dto.TokenInfo](),
	}
}

// ForClient returns a store sharing this store's sessions under another client id.
func (s *MemoryStore) ForClient(clientID string) *MemoryStore {
	return &MemoryStore{clientID: clientID, sessions: s.sessions}
}

func (s *MemoryStore) Get(ctx context.Context) (dto.TokenInfo, error) {
	tok, ok := s.sessions.GetAll()[s.clientID]
	if !ok || tok.IsZero() {
		return dto.TokenInfo{}, dto.ErrNoSession
	}
	return tok, nil
}

func (s *MemoryStore) Set(ctx context.Context, tok dto.TokenInfo) error {
	s.sessions.Set(s.clientID, tok)
	return nil
}

// Clear stores an empty session, which Get reports as ErrNoSession.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.sessions.Set(s.clientID, dto.TokenInfo{})
	return nil
}
