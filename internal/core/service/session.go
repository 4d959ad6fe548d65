package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"todoapp/internal/core/domain"
	"todoapp/internal/core/port"
)

const sessionKeyPrefix = "session:"

// SessionService issues and resolves browser sessions backed by the
// cache store. The TTL on the cache entry matches the session expiry,
// so stale sessions vanish on their own.
type SessionService struct {
	cache port.CacheRepository
	ttl   time.Duration
}

func NewSessionService(cache port.CacheRepository, ttl time.Duration) *SessionService {
	return &SessionService{cache: cache, ttl: ttl}
}

func (ss *SessionService) Create(ctx context.Context, userID int) (domain.Session, error) {
	session := domain.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ss.ttl),
	}

	payload, err := json.Marshal(session)

	if err != nil {
		return domain.Session{}, err
	}

	if err := ss.cache.Set(ctx, sessionKeyPrefix+session.ID, payload, ss.ttl); err != nil {
		return domain.Session{}, err
	}

	return session, nil
}

func (ss *SessionService) Find(ctx context.Context, id string) (domain.Session, error) {
	payload, err := ss.cache.Get(ctx, sessionKeyPrefix+id)

	if err != nil {
		return domain.Session{}, err
	}

	if payload == nil {
		return domain.Session{}, domain.ErrSessionNotFound
	}

	var session domain.Session

	if err := json.Unmarshal(payload, &session); err != nil {
		return domain.Session{}, err
	}

	if session.Expired(time.Now()) {
		return domain.Session{}, domain.ErrSessionNotFound
	}

	return session, nil
}

func (ss *SessionService) Destroy(ctx context.Context, id string) error {
	return ss.cache.Delete(ctx, sessionKeyPrefix+id)
}
