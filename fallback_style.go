package empath

import (
	"regexp"
	"strings"
)

// ──────────────────────────────────────────────
// Style mirroring — shape the reply like the user writes
// ──────────────────────────────────────────────

// shorthandSubs is the documented subset of full-word → shorthand
// substitutions. Each occurrence is replaced with ~50% probability so the
// result doesn't turn staccato.
var shorthandSubs = []struct {
	re    *regexp.Regexp
	short string
}{
	{regexp.MustCompile(`(?i)\byou\b`), "u"},
	{regexp.MustCompile(`(?i)\byour\b`), "ur"},
	{regexp.MustCompile(`(?i)\bplease\b`), "pls"},
	{regexp.MustCompile(`(?i)\bthanks\b`), "thx"},
	{regexp.MustCompile(`(?i)\bbecause\b`), "bc"},
	{regexp.MustCompile(`(?i)\bprobably\b`), "prob"},
	{regexp.MustCompile(`(?i)\bgoing to\b`), "gonna"},
	{regexp.MustCompile(`(?i)\bwant to\b`), "wanna"},
}

// slangSubs swap a small fixed set of generic positive adjectives for
// slang synonyms when the user's own text signals slang use.
var slangSubs = []struct {
	re    *regexp.Regexp
	slang string
}{
	{regexp.MustCompile(`(?i)\bvery good\b`), "really dope"},
	{regexp.MustCompile(`(?i)\bgreat\b`), "lit"},
	{regexp.MustCompile(`(?i)\bamazing\b`), "fire"},
	{regexp.MustCompile(`(?i)\bnice\b`), "chill"},
	{regexp.MustCompile(`(?i)\bgood\b`), "solid"},
}

var firstPersonIRe = regexp.MustCompile(`\bi\b`)

// mirrorStyle applies the StyleProfile to a generated reply.
// Caller holds g.mu (the rng is not safe for concurrent use).
func (g *FallbackGenerator) mirrorStyle(reply string, profile StyleProfile) string {
	if profile.UsesLowerCase {
		reply = strings.ToLower(reply)
		// Keep the first-person pronoun readable.
		reply = firstPersonIRe.ReplaceAllString(reply, "I")
	}

	if profile.UsesShorthand {
		for _, sub := range shorthandSubs {
			reply = g.replaceSome(reply, sub.re, sub.short, 0.5)
		}
	}

	if profile.UsesSlang {
		for _, sub := range slangSubs {
			reply = g.replaceSome(reply, sub.re, sub.slang, 0.5)
		}
	}

	reply = g.mirrorTerminators(reply, profile)

	if profile.UsesCasualAddress && len(profile.AddressTokens) > 0 && g.rng.Float64() < 0.5 {
		token := profile.AddressTokens[g.rng.Intn(len(profile.AddressTokens))]
		reply = injectAddress(reply, token)
	}

	if profile.UsesEmojis && len(profile.PreferredEmojis) > 0 {
		reply = g.sprinkleEmoticons(reply, profile.PreferredEmojis)
	}

	if profile.MeanSentenceLen > 0 && profile.MeanSentenceLen < 6 {
		reply = splitLongSentences(reply)
	}

	return reply
}

// replaceSome replaces each match with probability p.
func (g *FallbackGenerator) replaceSome(text string, re *regexp.Regexp, with string, p float64) string {
	return re.ReplaceAllStringFunc(text, func(m string) string {
		if g.rng.Float64() < p {
			return with
		}
		return m
	})
}

// mirrorTerminators converts a random subset of sentence-ending periods
// to exclamation marks or ellipses, matching the user's habits.
func (g *FallbackGenerator) mirrorTerminators(reply string, profile StyleProfile) string {
	if !profile.UsesExclamations && !profile.UsesEllipses {
		return reply
	}
	var b strings.Builder
	for i := 0; i < len(reply); i++ {
		ch := reply[i]
		if ch != '.' || (i+1 < len(reply) && reply[i+1] == '.') {
			b.WriteByte(ch)
			continue
		}
		switch {
		case profile.UsesExclamations && g.rng.Float64() < 0.4:
			b.WriteByte('!')
		case profile.UsesEllipses && g.rng.Float64() < 0.3:
			b.WriteString("...")
		default:
			b.WriteByte('.')
		}
	}
	return b.String()
}

// injectAddress appends a casual-address token to the first sentence.
func injectAddress(reply, token string) string {
	for i := 0; i < len(reply); i++ {
		if reply[i] == '.' || reply[i] == '!' || reply[i] == '?' {
			return reply[:i] + ", " + token + reply[i:]
		}
	}
	return reply + ", " + token
}

// sprinkleEmoticons appends preferred emoticon tokens at a random subset
// of sentence boundaries and possibly at the very end.
func (g *FallbackGenerator) sprinkleEmoticons(reply string, emoticons []string) string {
	var b strings.Builder
	for i := 0; i < len(reply); i++ {
		b.WriteByte(reply[i])
		boundary := (reply[i] == '.' || reply[i] == '!' || reply[i] == '?') &&
			(i+1 >= len(reply) || reply[i+1] == ' ')
		if boundary && i+1 < len(reply) && g.rng.Float64() < 0.3 {
			b.WriteString(" " + emoticons[g.rng.Intn(len(emoticons))])
		}
	}
	out := b.String()
	if g.rng.Float64() < 0.6 {
		out += " " + emoticons[g.rng.Intn(len(emoticons))]
	}
	return out
}

// splitLongSentences breaks sentences over ~18 words at a comma, for
// users whose own average sentence length is very short.
func splitLongSentences(reply string) string {
	sentences := strings.Split(reply, ". ")
	for i, s := range sentences {
		if len(strings.Fields(s)) <= 18 {
			continue
		}
		if idx := strings.Index(s, ", "); idx > 0 {
			head := s[:idx]
			tail := s[idx+2:]
			if tail != "" {
				tail = strings.ToUpper(tail[:1]) + tail[1:]
			}
			sentences[i] = head + ". " + tail
		}
	}
	return strings.Join(sentences, ". ")
}

// ──────────────────────────────────────────────
// Terms-of-endearment filter
// ──────────────────────────────────────────────

// endearmentDenylist holds pet-name tokens stripped from generated text.
var endearmentDenylist = []string{
	"sweetie", "sweetheart", "honey", "darling", "babe", "baby",
	"cutie", "dearie", "hun", "my dear", "my love",
}

var endearmentRes = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(endearmentDenylist))
	for i, term := range endearmentDenylist {
		// Strip the token plus an optional leading comma/space.
		out[i] = regexp.MustCompile(`(?i)(,\s*)?\b` + regexp.QuoteMeta(term) + `\b`)
	}
	return out
}()

// filterEndearments strips denylisted pet names from reply unless the
// user's own message already contains one, in which case the filter is a
// no-op for this turn.
func filterEndearments(reply, userText string) string {
	lowerUser := strings.ToLower(userText)
	for _, term := range endearmentDenylist {
		if strings.Contains(lowerUser, term) {
			return reply
		}
	}
	for _, re := range endearmentRes {
		reply = re.ReplaceAllString(reply, "")
	}
	reply = strings.Join(strings.Fields(reply), " ")
	return strings.TrimSpace(reply)
}
