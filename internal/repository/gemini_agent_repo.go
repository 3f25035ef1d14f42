package repository

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"token-signal-bot/config"
	"token-signal-bot/internal/dto"
	"token-signal-bot/pkg/logger"
	"token-signal-bot/pkg/ratelimit"
	"token-signal-bot/pkg/utils"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

var ErrEmptyConversation = errors.New("conversation has no user message")

const agentChunkBuffer = 8

// AgentRepository starts a conversational agent run. The returned channel is
// closed when the run ends. Canceling ctx asks the producer to stop; it may
// still run briefly after the consumer has gone.
type AgentRepository interface {
	Stream(ctx context.Context, req dto.AgentRequest) (<-chan dto.AgentChunk, error)
}

type contentStreamer interface {
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
	CountTokens(ctx context.Context, model string, contents []*genai.Content, config *genai.CountTokensConfig) (*genai.CountTokensResponse, error)
}

type geminiAgentRepository struct {
	cfg            *config.Gemini
	log            *logger.Logger
	models         contentStreamer
	requestLimiter *rate.Limiter
	tokenLimiter   *ratelimit.TokenLimiter
}

func NewGeminiAgentRepository(ctx context.Context, cfg *config.Gemini, log *logger.Logger) (AgentRepository, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return newGeminiAgentRepository(cfg, log, client.Models), nil
}

func newGeminiAgentRepository(cfg *config.Gemini, log *logger.Logger, models contentStreamer) *geminiAgentRepository {
	perRequest := time.Minute / time.Duration(cfg.MaxRequestPerMinute)
	return &geminiAgentRepository{
		cfg:            cfg,
		log:            log,
		models:         models,
		requestLimiter: rate.NewLimiter(rate.Every(perRequest), 1),
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.MaxTokenPerMinute),
	}
}

func (r *geminiAgentRepository) Stream(ctx context.Context, req dto.AgentRequest) (<-chan dto.AgentChunk, error) {
	contents := buildContents(req.History)
	if len(contents) == 0 {
		return nil, ErrEmptyConversation
	}

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(buildSystemPrompt(r.cfg.SystemPrompt, req.Profile, req.Assets), genai.RoleUser),
		Temperature:       genai.Ptr(r.cfg.Temperature),
	}

	out := make(chan dto.AgentChunk, agentChunkBuffer)
	utils.GoSafe(func() {
		defer close(out)
		r.produce(ctx, contents, genConfig, out)
	}, func(rec interface{}) {
		r.log.ErrorContext(ctx, "Gemini agent stream panicked", logger.Field("panic", rec), logger.AlertField())
	})
	return out, nil
}

func (r *geminiAgentRepository) produce(ctx context.Context, contents []*genai.Content, genConfig *genai.GenerateContentConfig, out chan<- dto.AgentChunk) {
	if err := r.waitLimits(ctx, contents); err != nil {
		emit(ctx, out, dto.AgentChunk{Role: dto.AgentRoleManager, Err: err})
		return
	}

	var answer strings.Builder
	for resp, err := range r.models.GenerateContentStream(ctx, r.cfg.Model, contents, genConfig) {
		if err != nil {
			emit(ctx, out, dto.AgentChunk{Role: dto.AgentRoleManager, Err: fmt.Errorf("gemini stream: %w", err)})
			return
		}

		text := responseText(resp)
		answer.WriteString(text)

		chunk := dto.AgentChunk{
			Role:     dto.AgentRoleManager,
			Messages: []dto.AgentMessage{{Content: text, Usage: usageOf(resp)}},
		}
		if !emit(ctx, out, chunk) {
			return
		}
	}

	final := strings.TrimSpace(answer.String())
	if final == "" {
		return
	}
	emit(ctx, out, dto.AgentChunk{
		Role:     dto.AgentRoleGeneralist,
		Messages: []dto.AgentMessage{{Content: final}},
	})
}

// waitLimits keeps the process under the per-minute request and token quotas.
func (r *geminiAgentRepository) waitLimits(ctx context.Context, contents []*genai.Content) error {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for gemini request limit: %w", err)
	}

	tokens, err := r.models.CountTokens(ctx, r.cfg.Model, contents, nil)
	if err != nil {
		return fmt.Errorf("failed to count tokens: %w", err)
	}

	r.log.DebugContext(ctx, "Gemini token count",
		logger.IntField("total_tokens", int(tokens.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.Remaining()),
	)
	if int(tokens.TotalTokens) > r.cfg.MaxTokenPerMinute/2 {
		r.log.WarnContext(ctx, "Token has exceeded 50% of the limit", logger.IntField("remaining", r.tokenLimiter.Remaining()))
	}
	if err := r.tokenLimiter.Wait(ctx, int(tokens.TotalTokens)); err != nil {
		return fmt.Errorf("failed to wait for gemini token limit: %w", err)
	}
	return nil
}

// emit reports false once ctx is done so the producer can stop early.
func emit(ctx context.Context, out chan<- dto.AgentChunk, chunk dto.AgentChunk) bool {
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && !part.Thought {
				sb.WriteString(part.Text)
			}
		}
		break
	}
	return sb.String()
}

func usageOf(resp *genai.GenerateContentResponse) *dto.TokenUsage {
	if resp == nil || resp.UsageMetadata == nil {
		return nil
	}
	return &dto.TokenUsage{
		InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
		OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
	}
}
