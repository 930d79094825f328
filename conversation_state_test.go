package empath

import (
	"strings"
	"testing"
	"time"
)

// ══════════════════════════════════════════════
// ConversationStateTracker tests
// ══════════════════════════════════════════════

func TestTrack_FirstMessage(t *testing.T) {
	tracker := NewConversationStateTracker(60 * time.Second)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	state := tracker.Track("user_1", "hello", now)

	if state.TurnIndex != 1 {
		t.Fatalf("expected TurnIndex=1, got %d", state.TurnIndex)
	}
	if state.IsFollowUp {
		t.Fatal("first message cannot be a follow-up")
	}
	if state.SessionDuration != 0 {
		t.Fatalf("expected zero session duration, got %s", state.SessionDuration)
	}
	if state.UserMsgLength != "short" {
		t.Fatalf("expected short, got %s", state.UserMsgLength)
	}
}

func TestTrack_FollowUpWithinWindow(t *testing.T) {
	tracker := NewConversationStateTracker(60 * time.Second)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	tracker.Track("user_1", "first", now)
	state := tracker.Track("user_1", "second", now.Add(30*time.Second))

	if !state.IsFollowUp {
		t.Fatal("message 30s later should be a follow-up")
	}
	if state.TurnIndex != 2 {
		t.Fatalf("expected TurnIndex=2, got %d", state.TurnIndex)
	}
	if state.SessionDuration != 30*time.Second {
		t.Fatalf("expected 30s session duration, got %s", state.SessionDuration)
	}
}

func TestTrack_BeyondWindowNotFollowUp(t *testing.T) {
	tracker := NewConversationStateTracker(60 * time.Second)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	tracker.Track("user_1", "first", now)
	state := tracker.Track("user_1", "second", now.Add(5*time.Minute))

	if state.IsFollowUp {
		t.Fatal("message beyond the window is not a follow-up")
	}
}

func TestTrack_IdentitiesAreIsolated(t *testing.T) {
	tracker := NewConversationStateTracker(60 * time.Second)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	tracker.Track("user_1", "hello", now)
	state := tracker.Track("user_2", "hello", now.Add(time.Second))

	if state.TurnIndex != 1 || state.IsFollowUp {
		t.Fatalf("user_2 must start fresh, got %+v", state)
	}
}

func TestTrack_Forget(t *testing.T) {
	tracker := NewConversationStateTracker(60 * time.Second)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	tracker.Track("user_1", "hello", now)
	tracker.Forget("user_1")
	state := tracker.Track("user_1", "hello again", now.Add(time.Second))

	if state.TurnIndex != 1 {
		t.Fatalf("forgotten identity should restart at turn 1, got %d", state.TurnIndex)
	}
}

func TestClassifyMsgLength(t *testing.T) {
	tracker := NewConversationStateTracker(60 * time.Second)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		input string
		want  string
	}{
		{"hey", "short"},
		{strings.Repeat("a", 50), "medium"},
		{strings.Repeat("word ", 40), "long"},
	}
	for _, c := range cases {
		state := tracker.Track("user_len_"+c.want, c.input, now)
		if state.UserMsgLength != c.want {
			t.Fatalf("input of %d runes: expected %s, got %s", len(c.input), c.want, state.UserMsgLength)
		}
	}
}
