package internal

import (
	"sync"
	"time"
)

const conversationLimit = 10

// ConversationTurn is one user query and its synthesized response.
type ConversationTurn struct {
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
}

// ConversationLog is a bounded, append-only log of conversation turns.
// When the log exceeds its limit the oldest turns are evicted first.
type ConversationLog struct {
	mu    sync.Mutex
	turns []ConversationTurn
}

func NewConversationLog() *ConversationLog {
	return &ConversationLog{}
}

func (l *ConversationLog) Append(user, assistant string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.turns = append(l.turns, ConversationTurn{
		Timestamp: time.Now().UTC(),
		User:      user,
		Assistant: assistant,
	})
	if n := len(l.turns); n > conversationLimit {
		l.turns = append([]ConversationTurn(nil), l.turns[n-conversationLimit:]...)
	}
}

// History returns the turns oldest first.
func (l *ConversationLog) History() []ConversationTurn {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]ConversationTurn, len(l.turns))
	copy(out, l.turns)
	return out
}

func (l *ConversationLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = nil
}

func (l *ConversationLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}
