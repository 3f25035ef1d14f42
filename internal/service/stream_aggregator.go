package service

import (
	"context"
	"errors"
	"time"

	"token-signal-bot/internal/dto"
	"token-signal-bot/pkg/logger"
	"token-signal-bot/pkg/metrics"
	"token-signal-bot/pkg/utils"
)

const messagePreviewLength = 80

var (
	ErrStreamTimeout    = errors.New("agent stream timed out before producing a message")
	ErrStreamProcessing = errors.New("agent stream failed")
)

type StreamStatus string

const (
	StreamReplied StreamStatus = "replied"
	StreamTimeout StreamStatus = "timeout"
	StreamFailed  StreamStatus = "error"
	// StreamEmpty means the stream ended without a user-facing message.
	StreamEmpty StreamStatus = "empty"
)

type StreamOutcome struct {
	Status StreamStatus
	// Reply is the message delivered to the user, if any.
	Reply string
	// Latest is the last message seen; later messages than Reply are only
	// logged.
	Latest string
	Chunks int
	Err    error
}

// StreamAggregator drains one agent stream under a deadline.
type StreamAggregator struct {
	log     *logger.Logger
	metrics *metrics.Recorder
	timeout time.Duration
}

func NewStreamAggregator(log *logger.Logger, recorder *metrics.Recorder, timeout time.Duration) *StreamAggregator {
	return &StreamAggregator{
		log:     log,
		metrics: recorder,
		timeout: timeout,
	}
}

// Aggregate reads chunks until the stream closes or the deadline passes. The
// first user-facing message is sent through r and added to session; later
// ones overwrite Latest but are not sent again. A deadline with nothing sent
// yields ErrStreamTimeout, a producer fault before a reply ErrStreamProcessing.
// The caller should cancel the producer's context once this returns.
func (a *StreamAggregator) Aggregate(ctx context.Context, chunks <-chan dto.AgentChunk, session *dto.ChatSession, r Replier) StreamOutcome {
	start := time.Now()
	outcome := a.aggregate(ctx, chunks, session, r)
	a.metrics.RecordStreamOutcome(string(outcome.Status), time.Since(start).Seconds())

	a.log.InfoContext(ctx, "Agent stream finished",
		logger.StringField("status", string(outcome.Status)),
		logger.IntField("chunks", outcome.Chunks),
		logger.Field("elapsed", time.Since(start).String()),
	)
	return outcome
}

func (a *StreamAggregator) aggregate(ctx context.Context, chunks <-chan dto.AgentChunk, session *dto.ChatSession, r Replier) StreamOutcome {
	deadline := time.NewTimer(a.timeout)
	defer deadline.Stop()

	var outcome StreamOutcome
	for {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				if outcome.Reply == "" {
					outcome.Status = StreamEmpty
				}
				return outcome
			}
			outcome.Chunks++
			a.logUsage(ctx, chunk)

			if chunk.Err != nil {
				if outcome.Reply != "" {
					a.log.WarnContext(ctx, "Agent stream failed after reply", logger.ErrorField(chunk.Err))
					continue
				}
				a.log.ErrorContext(ctx, "Error processing stream", logger.ErrorField(chunk.Err))
				outcome.Status = StreamFailed
				outcome.Err = errors.Join(ErrStreamProcessing, chunk.Err)
				return outcome
			}

			content := chunk.LastContent()
			if !chunk.Role.Replies() || content == "" {
				continue
			}
			outcome.Latest = content
			a.log.DebugContext(ctx, "Got agent message",
				logger.StringField("role", string(chunk.Role)),
				logger.StringField("preview", utils.Truncate(content, messagePreviewLength)))

			if outcome.Reply != "" {
				continue
			}
			if err := r.Reply(ctx, content); err != nil {
				a.log.ErrorContext(ctx, "Failed to deliver agent reply", logger.ErrorField(err))
				outcome.Status = StreamFailed
				outcome.Err = errors.Join(ErrStreamProcessing, err)
				return outcome
			}
			outcome.Reply = content
			outcome.Status = StreamReplied
			if session != nil {
				session.Add(dto.ChatRoleAI, content)
			}

		case <-deadline.C:
			return a.expire(outcome)

		case <-ctx.Done():
			return a.expire(outcome)
		}
	}
}

// expire stops consumption. Once a reply went out the remaining chunks were
// telemetry only, so the outcome stands.
func (a *StreamAggregator) expire(outcome StreamOutcome) StreamOutcome {
	if outcome.Reply != "" {
		return outcome
	}
	outcome.Status = StreamTimeout
	outcome.Err = ErrStreamTimeout
	return outcome
}

func (a *StreamAggregator) logUsage(ctx context.Context, chunk dto.AgentChunk) {
	for _, msg := range chunk.Messages {
		if msg.Usage == nil {
			continue
		}
		a.log.DebugContext(ctx, "Token usage",
			logger.StringField("role", string(chunk.Role)),
			logger.IntField("input_tokens", msg.Usage.InputTokens),
			logger.IntField("output_tokens", msg.Usage.OutputTokens),
			logger.IntField("total_tokens", msg.Usage.TotalTokens),
		)
	}
}
