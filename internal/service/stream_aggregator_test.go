package service

import (
	"context"
	"testing"
	"time"

	"token-signal-bot/internal/dto"
	"token-signal-bot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(chunks ...dto.AgentChunk) <-chan dto.AgentChunk {
	ch := make(chan dto.AgentChunk, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	close(ch)
	return ch
}

func TestStreamAggregator_EmitsFirstMessageOnce(t *testing.T) {
	agg := NewStreamAggregator(logger.NewNop(), nil, time.Second)
	session := &dto.ChatSession{UserID: "42"}
	r := &fakeReplier{}

	usage := dto.AgentChunk{Role: dto.AgentRoleManager, Messages: []dto.AgentMessage{{Content: "routing", Usage: &dto.TokenUsage{TotalTokens: 12}}}}
	outcome := agg.Aggregate(context.Background(), feed(
		usage,
		reply(dto.AgentRoleAnalyzer, "first answer"),
		reply(dto.AgentRoleGeneralist, "second answer"),
	), session, r)

	assert.Equal(t, StreamReplied, outcome.Status)
	assert.Equal(t, "first answer", outcome.Reply)
	assert.Equal(t, "second answer", outcome.Latest)
	assert.Equal(t, 3, outcome.Chunks)
	assert.NoError(t, outcome.Err)
	assert.Equal(t, []string{"reply:first answer"}, r.Events())
	assert.Equal(t, []dto.ChatTurn{{Role: dto.ChatRoleAI, Content: "first answer"}}, session.Turns)
}

func TestStreamAggregator_IgnoresNonReplyRolesAndEmptyContent(t *testing.T) {
	agg := NewStreamAggregator(logger.NewNop(), nil, time.Second)
	r := &fakeReplier{}

	outcome := agg.Aggregate(context.Background(), feed(
		reply(dto.AgentRoleManager, "internal plan"),
		reply(dto.AgentRoleGeneralist, ""),
		dto.AgentChunk{Role: dto.AgentRoleAnalyzer},
	), nil, r)

	assert.Equal(t, StreamEmpty, outcome.Status)
	assert.Empty(t, r.Events())
}

func TestStreamAggregator_TimeoutBeforeAnyMessage(t *testing.T) {
	agg := NewStreamAggregator(logger.NewNop(), nil, shortTimeout)
	r := &fakeReplier{}
	never := make(chan dto.AgentChunk)

	start := time.Now()
	outcome := agg.Aggregate(context.Background(), never, nil, r)

	assert.Equal(t, StreamTimeout, outcome.Status)
	assert.ErrorIs(t, outcome.Err, ErrStreamTimeout)
	assert.NotErrorIs(t, outcome.Err, ErrStreamProcessing)
	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, r.Events())
}

func TestStreamAggregator_DeadlineAfterReplyKeepsReply(t *testing.T) {
	agg := NewStreamAggregator(logger.NewNop(), nil, shortTimeout)
	r := &fakeReplier{}
	ch := make(chan dto.AgentChunk, 1)
	ch <- reply(dto.AgentRoleGeneralist, "done")

	outcome := agg.Aggregate(context.Background(), ch, nil, r)

	assert.Equal(t, StreamReplied, outcome.Status)
	assert.NoError(t, outcome.Err)
	assert.Equal(t, []string{"reply:done"}, r.Events())
}

func TestStreamAggregator_ProcessingError(t *testing.T) {
	agg := NewStreamAggregator(logger.NewNop(), nil, time.Second)
	r := &fakeReplier{}

	outcome := agg.Aggregate(context.Background(), feed(
		reply(dto.AgentRoleManager, "thinking"),
		dto.AgentChunk{Role: dto.AgentRoleManager, Err: errBoom},
	), nil, r)

	assert.Equal(t, StreamFailed, outcome.Status)
	assert.ErrorIs(t, outcome.Err, ErrStreamProcessing)
	assert.ErrorIs(t, outcome.Err, errBoom)
	assert.NotErrorIs(t, outcome.Err, ErrStreamTimeout)
}

func TestStreamAggregator_ErrorAfterReplyIsTelemetryOnly(t *testing.T) {
	agg := NewStreamAggregator(logger.NewNop(), nil, time.Second)
	r := &fakeReplier{}

	outcome := agg.Aggregate(context.Background(), feed(
		reply(dto.AgentRoleAnalyzer, "answer"),
		dto.AgentChunk{Role: dto.AgentRoleManager, Err: errBoom},
	), nil, r)

	assert.Equal(t, StreamReplied, outcome.Status)
	assert.Equal(t, 2, outcome.Chunks)
}

func TestStreamAggregator_ReplyDeliveryFailure(t *testing.T) {
	agg := NewStreamAggregator(logger.NewNop(), nil, time.Second)
	r := &fakeReplier{replyErr: errBoom}
	session := &dto.ChatSession{UserID: "42"}

	outcome := agg.Aggregate(context.Background(), feed(reply(dto.AgentRoleAnalyzer, "answer")), session, r)

	assert.Equal(t, StreamFailed, outcome.Status)
	assert.ErrorIs(t, outcome.Err, ErrStreamProcessing)
	assert.Empty(t, session.Turns)
}

func TestStreamAggregator_ContextCanceled(t *testing.T) {
	agg := NewStreamAggregator(logger.NewNop(), nil, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := agg.Aggregate(ctx, make(chan dto.AgentChunk), nil, &fakeReplier{})
	require.Equal(t, StreamTimeout, outcome.Status)
}
