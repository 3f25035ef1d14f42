package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"token-signal-bot/internal/dto"
	"token-signal-bot/internal/repository"
	"token-signal-bot/pkg/kv"
	"token-signal-bot/pkg/logger"
)

const testWallet = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"

type fakeReplier struct {
	mu       sync.Mutex
	events   []string
	replyErr error
}

func (f *fakeReplier) record(event string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeReplier) Send(ctx context.Context, text string) error {
	f.record("send:" + text)
	return nil
}

func (f *fakeReplier) StartThinking(ctx context.Context) error {
	f.record("thinking")
	return nil
}

func (f *fakeReplier) StopThinking(ctx context.Context) error {
	f.record("stop")
	return nil
}

func (f *fakeReplier) Reply(ctx context.Context, text string) error {
	if f.replyErr != nil {
		return f.replyErr
	}
	f.record("reply:" + text)
	return nil
}

func (f *fakeReplier) Events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

// fakeAgent replays chunks. With hang set it never closes the stream and
// only returns once its context is canceled.
type fakeAgent struct {
	chunks    []dto.AgentChunk
	hang      bool
	startErr  error
	requests  []dto.AgentRequest
	cancelled chan struct{}
}

func (a *fakeAgent) Stream(ctx context.Context, req dto.AgentRequest) (<-chan dto.AgentChunk, error) {
	if a.startErr != nil {
		return nil, a.startErr
	}
	a.requests = append(a.requests, req)
	out := make(chan dto.AgentChunk, len(a.chunks))
	for _, c := range a.chunks {
		out <- c
	}
	if !a.hang {
		close(out)
		return out, nil
	}
	a.cancelled = make(chan struct{})
	go func() {
		<-ctx.Done()
		close(a.cancelled)
	}()
	return out, nil
}

type fakeAssets struct {
	assets []dto.Asset
	err    error
	owners []string
}

func (f *fakeAssets) GetAssetsByOwner(ctx context.Context, ownerAddress string) ([]dto.Asset, error) {
	f.owners = append(f.owners, ownerAddress)
	return f.assets, f.err
}

func newTestProfiles() repository.ProfileRepository {
	return repository.NewProfileRepository(kv.NewMemoryStore(), logger.NewNop())
}

func reply(role dto.AgentRole, content string) dto.AgentChunk {
	return dto.AgentChunk{Role: role, Messages: []dto.AgentMessage{{Content: content}}}
}

var errBoom = errors.New("boom")

const shortTimeout = 30 * time.Millisecond
