package service

import (
	"testing"
	"time"

	"token-signal-bot/internal/dto"

	"github.com/stretchr/testify/assert"
)

func TestSessionStore_SaveAndTrim(t *testing.T) {
	store := NewSessionStore(time.Minute, 3)

	session := store.Get("42")
	assert.Empty(t, session.Turns)

	for _, text := range []string{"a", "b", "c", "d"} {
		session.Add(dto.ChatRoleHuman, text)
	}
	store.Save(session)

	got := store.Get("42")
	assert.Equal(t, []dto.ChatTurn{
		{Role: dto.ChatRoleHuman, Content: "b"},
		{Role: dto.ChatRoleHuman, Content: "c"},
		{Role: dto.ChatRoleHuman, Content: "d"},
	}, got.Turns)

	got.Add(dto.ChatRoleAI, "unsaved")
	assert.Len(t, store.Get("42").Turns, 3)

	store.Reset("42")
	assert.Empty(t, store.Get("42").Turns)
}

func TestSessionStore_Expires(t *testing.T) {
	store := NewSessionStore(20*time.Millisecond, 5)
	session := store.Get("42")
	session.Add(dto.ChatRoleHuman, "hello")
	store.Save(session)

	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, store.Get("42").Turns)
}
