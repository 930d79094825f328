package empath

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// ──────────────────────────────────────────────
// Style Profiler — surface writing-style features
// ──────────────────────────────────────────────
//
// ProfileStyle is a pure function over the user's current text plus prior
// samples. Every detector is an independent probe over the same
// concatenated text; absence of a pattern yields false/empty, never an
// error. Profiles are cheap and recomputed per request, not cached.

// StyleProfile captures how a user writes, not what they say.
type StyleProfile struct {
	UsesEmojis       bool     `json:"uses_emojis"`
	UsesCasualAddress bool    `json:"uses_casual_address"`
	UsesShorthand    bool     `json:"uses_shorthand"`
	UsesAllCaps      bool     `json:"uses_all_caps"`
	UsesLowerCase    bool     `json:"uses_lower_case"`
	UsesExclamations bool     `json:"uses_exclamations"`
	UsesEllipses     bool     `json:"uses_ellipses"`
	UsesSlang        bool     `json:"uses_slang"`
	PreferredEmojis  []string `json:"preferred_emojis,omitempty"`
	AddressTokens    []string `json:"address_tokens,omitempty"`
	Greetings        []string `json:"greetings,omitempty"`
	Closings         []string `json:"closings,omitempty"`
	MeanSentenceLen  float64  `json:"mean_sentence_len"` // words per sentence
}

// Approximate emoticon/emoji table. Deliberately not a full Unicode emoji
// database; the common glyphs cover the styles worth mirroring.
var styleEmoticons = []string{
	"😊", "😂", "🤣", "😍", "❤", "🎉", "👍", "🔥", "✨", "😅",
	"😢", "😭", "🙃", "🤔", "😎", "💀", "🙏", "😁", "😉",
	":)", ":-)", ":D", ":(", ":-(", ":P", ":p", ";)", "^^", "<3", "xD", "XD",
}

var (
	casualAddressRe = regexp.MustCompile(`(?i)\b(bro|bruh|dude|man|mate|buddy|fam|homie|girl|sis)\b`)
	shorthandRe     = regexp.MustCompile(`(?i)\b(u|ur|r|pls|plz|thx|ty|idk|imo|tbh|btw|omg|lol|lmao|brb|rn|bc|cuz|wanna|gonna|gotta|kinda|sorta)\b`)
	slangRe         = regexp.MustCompile(`(?i)\b(lit|dope|sick|chill|vibe|vibes|lowkey|highkey|legit|salty|sus|cap|no cap|fr|deadass|bet|slaps|goated|based|mid)\b`)
	allCapsRunRe    = regexp.MustCompile(`\b[A-Z]{3,}\b`)
	greetingRe      = regexp.MustCompile(`(?i)\b(hey+|hi+|hello+|yo+|sup|what'?s up|howdy|hiya|heya)\b`)
	closingRe       = regexp.MustCompile(`(?i)\b(bye+|see ya|cya|later[sz]?|take care|good ?night|ttyl|peace( out)?)\b`)
	sentenceSplitRe = regexp.MustCompile(`[.!?]+|\n+`)
)

// ProfileStyle derives a StyleProfile from the current text and history.
func ProfileStyle(currentText string, history []string) StyleProfile {
	samples := make([]string, 0, len(history)+1)
	if strings.TrimSpace(currentText) != "" {
		samples = append(samples, currentText)
	}
	for _, h := range history {
		if strings.TrimSpace(h) != "" {
			samples = append(samples, h)
		}
	}
	combined := strings.Join(samples, "\n")
	if combined == "" {
		return StyleProfile{}
	}

	profile := StyleProfile{
		UsesCasualAddress: casualAddressRe.MatchString(combined),
		UsesShorthand:     shorthandRe.MatchString(combined),
		UsesSlang:         slangRe.MatchString(combined),
		UsesAllCaps:       allCapsRunRe.MatchString(combined),
		UsesEllipses:      strings.Contains(combined, "...") || strings.Contains(combined, "…"),
	}

	profile.PreferredEmojis = rankEmoticons(combined)
	profile.UsesEmojis = len(profile.PreferredEmojis) > 0

	profile.UsesLowerCase = detectLowercase(samples)
	profile.UsesExclamations = exclamationDensity(combined) > 0.2

	profile.AddressTokens = uniqueMatches(casualAddressRe, combined, 3)
	profile.Greetings = uniqueMatches(greetingRe, combined, 3)
	profile.Closings = uniqueMatches(closingRe, combined, 3)

	profile.MeanSentenceLen = meanSentenceLength(combined)

	return profile
}

// rankEmoticons returns the user's emoticon tokens ordered by frequency.
func rankEmoticons(text string) []string {
	type freq struct {
		token string
		n     int
	}
	var found []freq
	for _, e := range styleEmoticons {
		if n := strings.Count(text, e); n > 0 {
			found = append(found, freq{e, n})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].n > found[j].n })
	out := make([]string, 0, len(found))
	for i, f := range found {
		if i >= 3 {
			break
		}
		out = append(out, f.token)
	}
	return out
}

// detectLowercase reports a consistent all-lowercase habit: every sample
// longer than 12 letters contains no uppercase at all.
func detectLowercase(samples []string) bool {
	qualified := 0
	for _, s := range samples {
		letters, uppers := 0, 0
		for _, r := range s {
			if unicode.IsLetter(r) {
				letters++
				if unicode.IsUpper(r) {
					uppers++
				}
			}
		}
		if letters <= 12 {
			continue
		}
		if uppers > 0 {
			return false
		}
		qualified++
	}
	return qualified > 0
}

// exclamationDensity is exclamation marks per sentence.
func exclamationDensity(text string) float64 {
	sentences := countSentences(text)
	if sentences == 0 {
		return 0
	}
	return float64(strings.Count(text, "!")) / float64(sentences)
}

func countSentences(text string) int {
	parts := sentenceSplitRe.Split(text, -1)
	n := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

func meanSentenceLength(text string) float64 {
	parts := sentenceSplitRe.Split(text, -1)
	sentences, words := 0, 0
	for _, p := range parts {
		fields := strings.Fields(p)
		if len(fields) == 0 {
			continue
		}
		sentences++
		words += len(fields)
	}
	if sentences == 0 {
		return 0
	}
	return float64(words) / float64(sentences)
}

func uniqueMatches(re *regexp.Regexp, text string, max int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range re.FindAllString(text, -1) {
		key := strings.ToLower(strings.TrimSpace(m))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
		if len(out) >= max {
			break
		}
	}
	return out
}
