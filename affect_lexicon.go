package empath

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ──────────────────────────────────────────────
// Affect Lexicon — declarative VAD signal tables
// ──────────────────────────────────────────────
//
// The lexicon is plain data: every entry maps a word-boundary pattern or
// an emoticon glyph to a (valence, arousal, dominance, weight) tuple.
// The scorer compiles the table once; deployments can replace it wholesale
// via LoadLexicon without touching the matching engine.

// SignalEntry is one lexical/emoticon signal in the lexicon.
type SignalEntry struct {
	// Pattern is a regular expression fragment. Word patterns are wrapped
	// in \b anchors at compile time; Glyph entries are matched literally.
	Pattern   string  `yaml:"pattern"`
	Glyph     bool    `yaml:"glyph,omitempty"` // literal match, no word boundary
	Valence   float64 `yaml:"valence"`
	Arousal   float64 `yaml:"arousal"`
	Dominance float64 `yaml:"dominance"`
	Weight    float64 `yaml:"weight"`
}

// ShortUtterance is a canonical short input (greeting, ack, bare question)
// with a bespoke low-weight contribution.
type ShortUtterance struct {
	Tokens    []string `yaml:"tokens"`
	Valence   float64  `yaml:"valence"`
	Arousal   float64  `yaml:"arousal"`
	Dominance float64  `yaml:"dominance"`
	Weight    float64  `yaml:"weight"`
}

// Lexicon bundles all affect rule tables.
type Lexicon struct {
	Signals         []SignalEntry    `yaml:"signals"`
	Negators        []string         `yaml:"negators"`
	ShortUtterances []ShortUtterance `yaml:"short_utterances"`
}

// LoadLexicon reads a lexicon rule table from a YAML file.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	if len(lex.Signals) == 0 {
		return nil, fmt.Errorf("lexicon %s defines no signals", path)
	}
	return &lex, nil
}

// DefaultLexicon returns the built-in English lexicon.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Signals:         defaultSignals(),
		Negators:        defaultNegators(),
		ShortUtterances: defaultShortUtterances(),
	}
}

func defaultNegators() []string {
	return []string{
		"not", "no", "never", "don't", "dont", "doesn't", "doesnt",
		"didn't", "didnt", "can't", "cant", "won't", "wont",
		"isn't", "isnt", "aren't", "arent", "wasn't", "wasnt",
		"ain't", "aint", "hardly", "barely", "without",
	}
}

func defaultSignals() []SignalEntry {
	return []SignalEntry{
		// Strong positive
		{Pattern: "amazing|awesome|fantastic|incredible|wonderful", Valence: 0.8, Arousal: 0.6, Dominance: 0.4, Weight: 1.0},
		{Pattern: "love|adore", Valence: 0.8, Arousal: 0.5, Dominance: 0.3, Weight: 1.0},
		{Pattern: "perfect|brilliant|excellent", Valence: 0.75, Arousal: 0.4, Dominance: 0.4, Weight: 1.0},
		{Pattern: "excited|thrilled|stoked|hyped", Valence: 0.7, Arousal: 0.8, Dominance: 0.4, Weight: 1.0},
		{Pattern: "happy|glad|delighted|joyful", Valence: 0.7, Arousal: 0.4, Dominance: 0.3, Weight: 1.0},
		{Pattern: "yay|woohoo|hooray|yippee", Valence: 0.8, Arousal: 0.8, Dominance: 0.3, Weight: 0.9},
		{Pattern: "great|good|nice|cool|sweet", Valence: 0.5, Arousal: 0.3, Dominance: 0.2, Weight: 0.8},
		{Pattern: "fun|enjoy(?:ed|ing)?|entertaining", Valence: 0.55, Arousal: 0.4, Dominance: 0.2, Weight: 0.8},
		{Pattern: "thanks|thank you|thankful|grateful|appreciate", Valence: 0.6, Arousal: 0.2, Dominance: 0.1, Weight: 0.9},
		{Pattern: "proud|accomplished|achieved", Valence: 0.65, Arousal: 0.4, Dominance: 0.6, Weight: 0.9},
		{Pattern: "relaxed|calm|peaceful|chill|serene", Valence: 0.4, Arousal: -0.5, Dominance: 0.3, Weight: 0.9},
		{Pattern: "relieved|relief", Valence: 0.5, Arousal: -0.2, Dominance: 0.2, Weight: 0.8},
		{Pattern: "better|improving|improved", Valence: 0.35, Arousal: 0.1, Dominance: 0.2, Weight: 0.6},
		{Pattern: "haha|hahaha|lol|lmao|rofl", Valence: 0.6, Arousal: 0.5, Dominance: 0.2, Weight: 0.8},
		{Pattern: "funny|hilarious", Valence: 0.6, Arousal: 0.5, Dominance: 0.2, Weight: 0.8},

		// Strong negative
		{Pattern: "terrible|horrible|awful|dreadful", Valence: -0.8, Arousal: 0.4, Dominance: -0.2, Weight: 1.0},
		{Pattern: "hate|despise|loathe|detest", Valence: -0.8, Arousal: 0.6, Dominance: 0.2, Weight: 1.0},
		{Pattern: "furious|enraged|livid|pissed", Valence: -0.8, Arousal: 0.9, Dominance: 0.5, Weight: 1.1},
		{Pattern: "angry|mad|annoyed|irritated", Valence: -0.6, Arousal: 0.6, Dominance: 0.4, Weight: 1.0},
		{Pattern: "sick of|fed up|tired of|sick and tired", Valence: -0.6, Arousal: 0.3, Dominance: -0.2, Weight: 1.2},
		{Pattern: "frustrat(?:ed|ing|ion)", Valence: -0.6, Arousal: 0.5, Dominance: -0.1, Weight: 1.0},
		{Pattern: "stressed|overwhelmed|burn(?:ed|t) out", Valence: -0.6, Arousal: 0.6, Dominance: -0.4, Weight: 1.0},
		{Pattern: "sad|unhappy|depressed|miserable|down", Valence: -0.7, Arousal: -0.3, Dominance: -0.3, Weight: 1.0},
		{Pattern: "lonely|alone|isolated", Valence: -0.6, Arousal: -0.3, Dominance: -0.4, Weight: 0.9},
		{Pattern: "cry(?:ing)?|tears|weeping", Valence: -0.7, Arousal: 0.1, Dominance: -0.4, Weight: 0.9},
		{Pattern: "hopeless|pointless|worthless|useless", Valence: -0.75, Arousal: -0.2, Dominance: -0.5, Weight: 1.0},
		{Pattern: "scared|afraid|terrified|frightened", Valence: -0.7, Arousal: 0.7, Dominance: -0.6, Weight: 1.0},
		{Pattern: "anxious|worried|nervous|uneasy", Valence: -0.5, Arousal: 0.6, Dominance: -0.5, Weight: 1.0},
		{Pattern: "panic(?:king|ked)?", Valence: -0.6, Arousal: 0.9, Dominance: -0.6, Weight: 1.0},
		{Pattern: "exhausted|drained|worn out", Valence: -0.5, Arousal: -0.6, Dominance: -0.3, Weight: 0.9},
		{Pattern: "bored|boring|dull|tedious", Valence: -0.35, Arousal: -0.6, Dominance: -0.1, Weight: 0.8},
		{Pattern: "disappoint(?:ed|ing|ment)", Valence: -0.55, Arousal: -0.1, Dominance: -0.2, Weight: 0.9},
		{Pattern: "upset|hurt|heartbroken", Valence: -0.65, Arousal: 0.2, Dominance: -0.3, Weight: 0.9},
		{Pattern: "bad|worse|worst", Valence: -0.5, Arousal: 0.2, Dominance: -0.1, Weight: 0.7},
		{Pattern: "ugh|argh|grr|meh", Valence: -0.4, Arousal: 0.3, Dominance: -0.1, Weight: 0.7},
		{Pattern: "wtf|bullshit|damn|dammit", Valence: -0.55, Arousal: 0.7, Dominance: 0.2, Weight: 0.9},
		{Pattern: "fail(?:ed|ing|ure)?", Valence: -0.5, Arousal: 0.1, Dominance: -0.3, Weight: 0.8},
		{Pattern: "broken|broke|crashed", Valence: -0.4, Arousal: 0.2, Dominance: -0.2, Weight: 0.7},
		{Pattern: "sigh|oh well|whatever", Valence: -0.35, Arousal: -0.3, Dominance: -0.2, Weight: 0.7},
		{Pattern: "sorry|apologize|my bad", Valence: -0.25, Arousal: 0.0, Dominance: -0.3, Weight: 0.6},

		// Curiosity / confusion
		{Pattern: "confus(?:ed|ing)|puzzled|baffled", Valence: -0.3, Arousal: 0.3, Dominance: -0.5, Weight: 0.9},
		{Pattern: "lost|stuck|no idea|don't understand", Valence: -0.35, Arousal: 0.2, Dominance: -0.5, Weight: 0.8},
		{Pattern: "curious|wonder(?:ing)?|intrigued", Valence: 0.3, Arousal: 0.4, Dominance: 0.0, Weight: 0.8},
		{Pattern: "interesting|fascinating", Valence: 0.4, Arousal: 0.4, Dominance: 0.1, Weight: 0.8},
		{Pattern: "how come|what if|why does|why is", Valence: 0.1, Arousal: 0.3, Dominance: -0.1, Weight: 0.6},
		{Pattern: "surpris(?:ed|ing)|shocked|whoa|woah", Valence: 0.1, Arousal: 0.7, Dominance: -0.2, Weight: 0.8},

		// Confidence / assertion
		{Pattern: "definitely|absolutely|certainly|for sure", Valence: 0.2, Arousal: 0.2, Dominance: 0.5, Weight: 0.6},
		{Pattern: "must|need to|have to", Valence: -0.1, Arousal: 0.3, Dominance: 0.4, Weight: 0.5},
		{Pattern: "maybe|perhaps|i guess|not sure", Valence: 0.0, Arousal: -0.1, Dominance: -0.4, Weight: 0.5},
		{Pattern: "please|could you|would you", Valence: 0.1, Arousal: 0.0, Dominance: -0.3, Weight: 0.4},

		// Emoticons / emoji glyphs (literal, no word boundary)
		{Pattern: ":)", Glyph: true, Valence: 0.5, Arousal: 0.2, Dominance: 0.1, Weight: 0.7},
		{Pattern: ":-)", Glyph: true, Valence: 0.5, Arousal: 0.2, Dominance: 0.1, Weight: 0.7},
		{Pattern: ":D", Glyph: true, Valence: 0.7, Arousal: 0.5, Dominance: 0.2, Weight: 0.8},
		{Pattern: "^^", Glyph: true, Valence: 0.5, Arousal: 0.2, Dominance: 0.1, Weight: 0.6},
		{Pattern: "<3", Glyph: true, Valence: 0.7, Arousal: 0.4, Dominance: 0.2, Weight: 0.8},
		{Pattern: ":(", Glyph: true, Valence: -0.5, Arousal: -0.1, Dominance: -0.2, Weight: 0.7},
		{Pattern: ":-(", Glyph: true, Valence: -0.5, Arousal: -0.1, Dominance: -0.2, Weight: 0.7},
		{Pattern: ":'(", Glyph: true, Valence: -0.7, Arousal: 0.1, Dominance: -0.4, Weight: 0.8},
		{Pattern: ">:(", Glyph: true, Valence: -0.6, Arousal: 0.6, Dominance: 0.3, Weight: 0.8},
		{Pattern: ":/", Glyph: true, Valence: -0.3, Arousal: 0.0, Dominance: -0.2, Weight: 0.6},
		{Pattern: ":|", Glyph: true, Valence: -0.1, Arousal: -0.2, Dominance: 0.0, Weight: 0.5},
		{Pattern: "😊", Glyph: true, Valence: 0.6, Arousal: 0.3, Dominance: 0.2, Weight: 0.8},
		{Pattern: "😂", Glyph: true, Valence: 0.7, Arousal: 0.6, Dominance: 0.2, Weight: 0.8},
		{Pattern: "🤣", Glyph: true, Valence: 0.7, Arousal: 0.7, Dominance: 0.2, Weight: 0.8},
		{Pattern: "❤", Glyph: true, Valence: 0.8, Arousal: 0.4, Dominance: 0.2, Weight: 0.8},
		{Pattern: "🎉", Glyph: true, Valence: 0.8, Arousal: 0.7, Dominance: 0.3, Weight: 0.8},
		{Pattern: "👍", Glyph: true, Valence: 0.5, Arousal: 0.2, Dominance: 0.2, Weight: 0.7},
		{Pattern: "😢", Glyph: true, Valence: -0.6, Arousal: 0.0, Dominance: -0.3, Weight: 0.8},
		{Pattern: "😭", Glyph: true, Valence: -0.7, Arousal: 0.3, Dominance: -0.4, Weight: 0.8},
		{Pattern: "😡", Glyph: true, Valence: -0.7, Arousal: 0.8, Dominance: 0.4, Weight: 0.9},
		{Pattern: "😠", Glyph: true, Valence: -0.6, Arousal: 0.6, Dominance: 0.4, Weight: 0.8},
		{Pattern: "😨", Glyph: true, Valence: -0.6, Arousal: 0.7, Dominance: -0.5, Weight: 0.8},
		{Pattern: "😴", Glyph: true, Valence: -0.1, Arousal: -0.7, Dominance: -0.1, Weight: 0.6},
		{Pattern: "🤔", Glyph: true, Valence: 0.1, Arousal: 0.2, Dominance: -0.1, Weight: 0.6},
		{Pattern: "😕", Glyph: true, Valence: -0.3, Arousal: 0.1, Dominance: -0.3, Weight: 0.6},
	}
}

func defaultShortUtterances() []ShortUtterance {
	return []ShortUtterance{
		{Tokens: []string{"hi", "hello", "hey", "yo", "sup", "hiya", "howdy"}, Valence: 0.3, Arousal: 0.2, Dominance: 0.1, Weight: 0.6},
		{Tokens: []string{"bye", "goodbye", "goodnight", "later", "cya"}, Valence: 0.2, Arousal: -0.1, Dominance: 0.1, Weight: 0.5},
		{Tokens: []string{"yes", "yeah", "yep", "yup", "sure"}, Valence: 0.25, Arousal: 0.1, Dominance: 0.2, Weight: 0.5},
		{Tokens: []string{"no", "nope", "nah"}, Valence: -0.2, Arousal: 0.1, Dominance: 0.2, Weight: 0.5},
		{Tokens: []string{"ok", "okay", "k", "kk", "alright", "fine"}, Valence: 0.05, Arousal: -0.1, Dominance: 0.1, Weight: 0.4},
		{Tokens: []string{"thanks", "thx", "ty"}, Valence: 0.5, Arousal: 0.2, Dominance: 0.1, Weight: 0.7},
		{Tokens: []string{"why", "what", "how", "when", "where", "who", "huh"}, Valence: 0.05, Arousal: 0.25, Dominance: -0.15, Weight: 0.5},
		{Tokens: []string{"wow", "omg", "whoa"}, Valence: 0.2, Arousal: 0.6, Dominance: -0.1, Weight: 0.6},
		{Tokens: []string{"help"}, Valence: -0.2, Arousal: 0.4, Dominance: -0.4, Weight: 0.6},
	}
}

// compiledSignal is a lexicon entry with its regexp ready to run.
type compiledSignal struct {
	entry SignalEntry
	re    *regexp.Regexp // nil for glyph entries
}

func compileLexicon(lex *Lexicon) []compiledSignal {
	compiled := make([]compiledSignal, 0, len(lex.Signals))
	for _, e := range lex.Signals {
		if e.Glyph {
			compiled = append(compiled, compiledSignal{entry: e})
			continue
		}
		re, err := regexp.Compile(`(?i)\b(?:` + e.Pattern + `)\b`)
		if err != nil {
			// A bad pattern in an external table should not take the
			// scorer down; skip it.
			continue
		}
		compiled = append(compiled, compiledSignal{entry: e, re: re})
	}
	return compiled
}

func compileNegators(tokens []string) *regexp.Regexp {
	if len(tokens) == 0 {
		return nil
	}
	escaped := make([]string, len(tokens))
	for i, t := range tokens {
		escaped[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(escaped, "|") + `)\b`)
}
