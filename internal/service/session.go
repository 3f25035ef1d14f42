package service

import (
	"time"

	"token-signal-bot/internal/dto"
	"token-signal-bot/pkg/cache"
)

// SessionStore holds each user's transient chat history. Entries expire
// after ttl without a Save and never outlive the process.
type SessionStore interface {
	// Get returns a working copy of the user's session, empty when none is
	// stored.
	Get(userID string) *dto.ChatSession
	Save(session *dto.ChatSession)
	Reset(userID string)
}

type cacheSessionStore struct {
	cache    cache.Cache
	ttl      time.Duration
	maxTurns int
}

func NewSessionStore(ttl time.Duration, maxTurns int) SessionStore {
	return &cacheSessionStore{
		cache:    cache.NewCache(ttl, ttl/2+time.Second),
		ttl:      ttl,
		maxTurns: maxTurns,
	}
}

func sessionKey(userID string) string {
	return "session:" + userID
}

func (s *cacheSessionStore) Get(userID string) *dto.ChatSession {
	session := &dto.ChatSession{UserID: userID, MaxTurns: s.maxTurns}
	if stored, ok := cache.GetTyped[[]dto.ChatTurn](s.cache, sessionKey(userID)); ok {
		session.Turns = append(session.Turns, stored...)
	}
	return session
}

func (s *cacheSessionStore) Save(session *dto.ChatSession) {
	if session == nil {
		return
	}
	s.cache.Set(sessionKey(session.UserID), session.History(), s.ttl)
}

func (s *cacheSessionStore) Reset(userID string) {
	s.cache.Delete(sessionKey(userID))
}
