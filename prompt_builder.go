package empath

import (
	"fmt"
	"strings"
)

// ──────────────────────────────────────────────
// Prompt builder — the three per-provider tiers
// ──────────────────────────────────────────────
//
// Each provider gets up to three attempts before rotation:
//   tier 1: full recent history as strict alternating turns
//   tier 2: latest message plus a condensed context/style instruction
//   tier 3: the bare message
// Tiers degrade gracefully: the richer the prompt, the more ways a picky
// upstream API can reject it.

// PromptFragments collects system-prompt additions plus a debug trail.
type PromptFragments struct {
	SystemAdditions []string
	Notes           []string // decision trail for debugging, never sent upstream
}

// AddSystem appends a system-prompt segment.
func (f *PromptFragments) AddSystem(text string) {
	if text != "" {
		f.SystemAdditions = append(f.SystemAdditions, text)
	}
}

// AddNote records a debug note.
func (f *PromptFragments) AddNote(note string) {
	f.Notes = append(f.Notes, note)
}

// Text joins all system additions for injection.
func (f *PromptFragments) Text() string {
	return strings.Join(f.SystemAdditions, "\n")
}

// promptBuilder assembles the tiered prompts for one request.
type promptBuilder struct {
	systemPrompt string
	historyLimit int
}

// Tiers returns the prompt variants in attempt order.
func (b *promptBuilder) Tiers(userInput string, history []Turn, affect AffectScore, profile StyleProfile, state *ConversationState) []GenerationRequest {
	return []GenerationRequest{
		{Messages: b.fullHistory(userInput, history)},
		{Messages: b.condensed(userInput, affect, profile, state)},
		{Messages: b.bare(userInput)},
	}
}

// fullHistory builds a strict alternating user/assistant transcript that
// starts with a user turn and ends with the current user message.
func (b *promptBuilder) fullHistory(userInput string, history []Turn) []Turn {
	var msgs []Turn
	if b.systemPrompt != "" {
		msgs = append(msgs, Turn{Role: "system", Content: b.systemPrompt})
	}

	trimmed := history
	if b.historyLimit > 0 && len(trimmed) > b.historyLimit {
		trimmed = trimmed[len(trimmed)-b.historyLimit:]
	}

	var alternating []Turn
	expect := "user"
	for _, t := range trimmed {
		if t.Role != "user" && t.Role != "assistant" {
			continue
		}
		if strings.TrimSpace(t.Content) == "" {
			continue
		}
		if t.Role != expect {
			// Drop leading assistant turns; merge consecutive same-role
			// turns into one so the transcript stays strictly alternating.
			if len(alternating) == 0 {
				continue
			}
			last := &alternating[len(alternating)-1]
			last.Content = last.Content + "\n" + t.Content
			continue
		}
		alternating = append(alternating, t)
		if expect == "user" {
			expect = "assistant"
		} else {
			expect = "user"
		}
	}
	// The transcript must end right before the new user message, i.e. on
	// an assistant turn.
	if len(alternating) > 0 && alternating[len(alternating)-1].Role == "user" {
		alternating = alternating[:len(alternating)-1]
	}

	msgs = append(msgs, alternating...)
	msgs = append(msgs, Turn{Role: "user", Content: userInput})
	return msgs
}

// condensed builds the latest message plus a compact context/style
// instruction derived from affect, style and conversation state.
func (b *promptBuilder) condensed(userInput string, affect AffectScore, profile StyleProfile, state *ConversationState) []Turn {
	frags := &PromptFragments{}
	frags.AddSystem(b.systemPrompt)

	if affect.Primary != EmotionNeutral && affect.Confidence >= 0.3 {
		frags.AddSystem(fmt.Sprintf("The user currently reads as %s; respond with matching sensitivity.", affect.Primary))
		frags.AddNote("affect." + string(affect.Primary))
	}

	var style []string
	if profile.UsesLowerCase {
		style = append(style, "casual lowercase")
	}
	if profile.UsesShorthand || profile.UsesSlang {
		style = append(style, "informal shorthand")
	}
	if profile.UsesEmojis {
		style = append(style, "light emoji use")
	}
	if len(style) > 0 {
		frags.AddSystem("Match the user's writing style: " + strings.Join(style, ", ") + ".")
	}

	if state != nil {
		if state.IsFollowUp {
			frags.AddSystem("This is a follow-up; answer directly without pleasantries.")
		}
		if state.UserMsgLength == "short" {
			frags.AddSystem("Keep the reply brief.")
		}
	}

	var msgs []Turn
	if text := frags.Text(); text != "" {
		msgs = append(msgs, Turn{Role: "system", Content: text})
	}
	msgs = append(msgs, Turn{Role: "user", Content: userInput})
	return msgs
}

// bare is the last-resort minimal prompt.
func (b *promptBuilder) bare(userInput string) []Turn {
	return []Turn{{Role: "user", Content: userInput}}
}
