package service

import "context"

// Replier is the conversation's way back to the user.
type Replier interface {
	// Send delivers a plain message.
	Send(ctx context.Context, text string) error
	// StartThinking shows a progress message until StopThinking or Reply.
	StartThinking(ctx context.Context) error
	StopThinking(ctx context.Context) error
	// Reply removes the progress message and delivers the agent's answer.
	Reply(ctx context.Context, text string) error
}

const (
	MessageThinking        = "🧠 Thinking..."
	MessageTimeout         = "I'm sorry, the operation took too long and timed out. Please try again."
	MessageProcessingError = "I'm sorry, an error occurred while processing your request."
	MessageInitError       = "I'm sorry, an error occurred while initializing the agent."
	MessageNoAnswer        = "I couldn't come up with an answer this time. Please try again."
	MessageSaveFailed      = "I'm sorry, I couldn't save that. Please try again."
)
