package service

import (
	"context"
	"testing"
	"time"

	"token-signal-bot/internal/dto"
	"token-signal-bot/internal/model"
	"token-signal-bot/internal/repository"
	"token-signal-bot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	svc      ChatService
	profiles repository.ProfileRepository
	sessions SessionStore
	agent    *fakeAgent
	assets   *fakeAssets
}

func newChatFixture(agent *fakeAgent, timeout time.Duration) *chatFixture {
	log := logger.NewNop()
	profiles := newTestProfiles()
	sessions := NewSessionStore(time.Minute, 10)
	assets := &fakeAssets{assets: []dto.Asset{
		{TokenInfo: &dto.AssetToken{Symbol: "BONK", Balance: 100000, Decimals: 5, PriceInfo: &dto.AssetPriceInfo{TotalPrice: 20}}},
	}}
	onboarding := NewOnboardingService(log, profiles, nil, nil)

	return &chatFixture{
		svc:      NewChatService(log, profiles, assets, agent, sessions, onboarding, NewStreamAggregator(log, nil, timeout)),
		profiles: profiles,
		sessions: sessions,
		agent:    agent,
		assets:   assets,
	}
}

func TestChat_RepliesAndRecordsHistory(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(&fakeAgent{chunks: []dto.AgentChunk{reply(dto.AgentRoleGeneralist, "BONK is up 12% today.")}}, time.Second)
	require.NotNil(t, f.profiles.Update(ctx, "42", repository.WithWalletAddress(testWallet)))
	r := &fakeReplier{}

	require.NoError(t, f.svc.HandleText(ctx, "42", "m1", "how is bonk?", r))

	assert.Equal(t, []string{"thinking", "reply:BONK is up 12% today."}, r.Events())
	assert.Equal(t, []string{testWallet}, f.assets.owners)

	require.Len(t, f.agent.requests, 1)
	req := f.agent.requests[0]
	assert.Equal(t, []dto.ChatTurn{{Role: dto.ChatRoleHuman, Content: "how is bonk?"}}, req.History)
	assert.Len(t, req.Assets, 1)
	assert.Equal(t, testWallet, req.Profile.WalletAddress)

	assert.Equal(t, []dto.ChatTurn{
		{Role: dto.ChatRoleHuman, Content: "how is bonk?"},
		{Role: dto.ChatRoleAI, Content: "BONK is up 12% today."},
	}, f.sessions.Get("42").Turns)

	stored := f.profiles.Get(ctx, "42")
	require.Len(t, stored.ChatHistory, 1)
	assert.Equal(t, model.ChatMessage{MessageID: "m1", Timestamp: stored.ChatHistory[0].Timestamp, Content: "how is bonk?"}, stored.ChatHistory[0])
}

func TestChat_PendingSetupIsNotSentToAgent(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(&fakeAgent{}, time.Second)
	require.NotNil(t, f.profiles.Update(ctx, "42", repository.WithWaitingForInput(model.SetupStepWalletAddress)))
	r := &fakeReplier{}

	require.NoError(t, f.svc.HandleText(ctx, "42", "m1", "hello", r))

	assert.Equal(t, []string{"send:Please enter a valid wallet address."}, r.Events())
	assert.Empty(t, f.agent.requests)
}

func TestChat_Outcomes(t *testing.T) {
	tests := []struct {
		name       string
		agent      *fakeAgent
		wantEvents []string
	}{
		{
			name:       "agent fails to start",
			agent:      &fakeAgent{startErr: errBoom},
			wantEvents: []string{"thinking", "send:" + MessageInitError},
		},
		{
			name:       "timeout",
			agent:      &fakeAgent{hang: true},
			wantEvents: []string{"thinking", "send:" + MessageTimeout},
		},
		{
			name:       "processing error",
			agent:      &fakeAgent{chunks: []dto.AgentChunk{{Role: dto.AgentRoleManager, Err: errBoom}}},
			wantEvents: []string{"thinking", "send:" + MessageProcessingError},
		},
		{
			name:       "no answer",
			agent:      &fakeAgent{chunks: []dto.AgentChunk{reply(dto.AgentRoleManager, "plan only")}},
			wantEvents: []string{"thinking", "stop", "send:" + MessageNoAnswer},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newChatFixture(tt.agent, shortTimeout)
			r := &fakeReplier{}

			require.NoError(t, f.svc.HandleText(context.Background(), "7", "m1", "hi", r))
			assert.Equal(t, tt.wantEvents, r.Events())
			assert.Empty(t, f.assets.owners)
		})
	}
}

func TestChat_TimeoutCancelsProducer(t *testing.T) {
	agent := &fakeAgent{hang: true}
	f := newChatFixture(agent, shortTimeout)

	require.NoError(t, f.svc.HandleText(context.Background(), "7", "m1", "hi", &fakeReplier{}))

	select {
	case <-agent.cancelled:
	case <-time.After(time.Second):
		t.Fatal("producer context was not canceled")
	}
}

func TestChat_ForgetAndWalletSummary(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(&fakeAgent{}, time.Second)

	_, err := f.svc.WalletSummary(ctx, "42")
	assert.ErrorIs(t, err, ErrNoWallet)

	require.NotNil(t, f.profiles.Update(ctx, "42", repository.WithWalletAddress(testWallet)))
	summary, err := f.svc.WalletSummary(ctx, "42")
	require.NoError(t, err)
	assert.Contains(t, summary, testWallet)
	assert.Contains(t, summary, "• BONK: 1 (~$20.00)")

	session := f.sessions.Get("42")
	session.Add(dto.ChatRoleHuman, "hi")
	f.sessions.Save(session)

	assert.True(t, f.svc.Forget(ctx, "42"))
	assert.Nil(t, f.profiles.Get(ctx, "42"))
	assert.Empty(t, f.sessions.Get("42").Turns)
}
