package empath

import (
	"sync"
	"time"
	"unicode/utf8"
)

// ──────────────────────────────────────────────
// Conversation State Tracker — lightweight dialogue metadata
// ──────────────────────────────────────────────
//
// Tracks per-identity turn counts and follow-up timing in memory. The
// orchestrator uses the state to shape the condensed (tier-2) prompt;
// durable conversation history stays the collaborator's job.

// ConversationState holds computed metadata for the current message.
type ConversationState struct {
	TurnIndex       int           `json:"turn_index"`
	IsFollowUp      bool          `json:"is_followup"`
	SessionDuration time.Duration `json:"session_duration"`
	UserMsgLength   string        `json:"user_msg_length"` // short/medium/long
}

type sessionMeta struct {
	turns     int
	startedAt time.Time
	lastAt    time.Time
}

// ConversationStateTracker computes ConversationState per identity.
type ConversationStateTracker struct {
	followUpWindow time.Duration

	mu       sync.Mutex
	sessions map[string]*sessionMeta
}

// NewConversationStateTracker creates a tracker. A zero followUpWindow
// defaults to 60s.
func NewConversationStateTracker(followUpWindow time.Duration) *ConversationStateTracker {
	if followUpWindow <= 0 {
		followUpWindow = 60 * time.Second
	}
	return &ConversationStateTracker{
		followUpWindow: followUpWindow,
		sessions:       make(map[string]*sessionMeta),
	}
}

// Track records one message for identity and returns the derived state.
func (t *ConversationStateTracker) Track(identity, userInput string, now time.Time) *ConversationState {
	t.mu.Lock()
	defer t.mu.Unlock()

	meta, ok := t.sessions[identity]
	if !ok {
		meta = &sessionMeta{startedAt: now}
		t.sessions[identity] = meta
	}
	meta.turns++

	isFollowUp := !meta.lastAt.IsZero() && now.Sub(meta.lastAt) <= t.followUpWindow
	meta.lastAt = now

	return &ConversationState{
		TurnIndex:       meta.turns,
		IsFollowUp:      isFollowUp,
		SessionDuration: now.Sub(meta.startedAt),
		UserMsgLength:   classifyMsgLength(utf8.RuneCountInString(userInput)),
	}
}

// Forget drops the recorded state for identity.
func (t *ConversationStateTracker) Forget(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, identity)
}

func classifyMsgLength(runeCount int) string {
	switch {
	case runeCount < 20:
		return "short"
	case runeCount <= 120:
		return "medium"
	default:
		return "long"
	}
}
