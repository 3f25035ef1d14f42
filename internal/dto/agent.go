package dto

import "token-signal-bot/internal/model"

// AgentRole names the agent node that produced a chunk.
type AgentRole string

const (
	AgentRoleGeneralist AgentRole = "generalist"
	AgentRoleAnalyzer   AgentRole = "analyzer"
	AgentRoleManager    AgentRole = "manager"
)

// Replies reports whether messages from this role are user-facing answers.
func (r AgentRole) Replies() bool {
	return r == AgentRoleAnalyzer || r == AgentRoleGeneralist
}

type ToolCall struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Args string `json:"args"`
}

type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

type AgentMessage struct {
	Content   string      `json:"content"`
	ToolCalls []ToolCall  `json:"tool_calls,omitempty"`
	Usage     *TokenUsage `json:"usage,omitempty"`
}

// AgentChunk is one item of the agent's stream. A chunk with Err set reports
// a producer fault; the stream should be considered broken.
type AgentChunk struct {
	Role     AgentRole
	Messages []AgentMessage
	Err      error
}

// LastContent returns the content of the chunk's last message.
func (c AgentChunk) LastContent() string {
	if len(c.Messages) == 0 {
		return ""
	}
	return c.Messages[len(c.Messages)-1].Content
}

type AgentRequest struct {
	UserID  string
	History []ChatTurn
	Profile *model.UserProfile
	Assets  []Asset
}
