package dto

type ChatRole string

const (
	ChatRoleHuman ChatRole = "human"
	ChatRoleAI    ChatRole = "ai"
)

type ChatTurn struct {
	Role    ChatRole
	Content string
}

// ChatSession is the transient conversation buffer for one user. It is never
// persisted and may be empty after a restart.
type ChatSession struct {
	UserID   string
	MaxTurns int
	Turns    []ChatTurn
}

func (s *ChatSession) Add(role ChatRole, content string) {
	s.Turns = append(s.Turns, ChatTurn{Role: role, Content: content})
	if s.MaxTurns > 0 && len(s.Turns) > s.MaxTurns {
		s.Turns = append([]ChatTurn(nil), s.Turns[len(s.Turns)-s.MaxTurns:]...)
	}
}

func (s *ChatSession) History() []ChatTurn {
	out := make([]ChatTurn, len(s.Turns))
	copy(out, s.Turns)
	return out
}
