package empath

import (
	"errors"
	"strings"
	"testing"
)

// ══════════════════════════════════════════════
// Provider error taxonomy + text recovery tests
// ══════════════════════════════════════════════

func TestExtractPlainText(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    string
	}{
		{"plain", "just an answer", "just an answer"},
		{"whitespace", "  padded answer  ", "padded answer"},
		{"envelope text", `{"text": "inner"}`, "inner"},
		{"envelope content", `{"content": "inner"}`, "inner"},
		{"envelope response", `{"response": "inner"}`, "inner"},
		{"nested message", `{"message": {"content": "deep"}}`, "deep"},
		{"choices array", `{"choices": [{"message": {"content": "first choice"}}]}`, "first choice"},
		{"code fence", "```json\n{\"text\": \"fenced\"}\n```", "fenced"},
		{"bare fence", "```\nplain fenced\n```", "plain fenced"},
		{"invalid json", `{"broken":`, `{"broken":`},
		{"no known key", `{"unrelated": "value"}`, `{"unrelated": "value"}`},
	}
	for _, c := range cases {
		if got := ExtractPlainText(c.payload); got != c.want {
			t.Fatalf("%s: expected %q, got %q", c.name, c.want, got)
		}
	}
}

func TestExtractPlainText_ArrayJoins(t *testing.T) {
	got := ExtractPlainText(`{"output": ["line one", "line two"]}`)
	if !strings.Contains(got, "line one") || !strings.Contains(got, "line two") {
		t.Fatalf("array parts should be joined, got %q", got)
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &ProviderError{Provider: "alpha", Err: inner}

	if !errors.Is(err, inner) {
		t.Fatal("ProviderError should unwrap to the inner error")
	}
	if !strings.Contains(err.Error(), "alpha") {
		t.Fatalf("error string should name the provider, got %q", err.Error())
	}
}

func TestRateLimitedError_Message(t *testing.T) {
	err := &RateLimitedError{Identity: "user_1", RetryAfter: 0}
	if !strings.Contains(err.Error(), "user_1") {
		t.Fatalf("error should name the identity, got %q", err.Error())
	}
}

func TestMalformedOutputError_DoesNotLeakPayload(t *testing.T) {
	err := &MalformedOutputError{Provider: "alpha", Payload: `{"secret": "stuff"}`}
	if strings.Contains(err.Error(), "secret") {
		t.Fatalf("error string must not embed the payload, got %q", err.Error())
	}
}
