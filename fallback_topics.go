package empath

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ──────────────────────────────────────────────
// Fallback topic tables — keyword rules + reply pools
// ──────────────────────────────────────────────
//
// Ordered table: the first matching topic wins. Every topic carries a
// pool of candidate paragraphs; the generator picks one uniformly with
// its injected random source. The trailing "general" rule matches
// everything, so topic detection is total.

// TopicRule is one entry of the ordered topic table.
type TopicRule struct {
	Name       string
	pattern    *regexp.Regexp
	Paragraphs []string
}

// Match reports whether text belongs to this topic.
func (t *TopicRule) Match(text string) bool {
	return t.pattern.MatchString(text)
}

func topic(name, keywords string, paragraphs ...string) TopicRule {
	return TopicRule{
		Name:       name,
		pattern:    regexp.MustCompile(`(?i)\b(?:` + keywords + `)\b`),
		Paragraphs: paragraphs,
	}
}

type yamlTopicRule struct {
	Name       string   `yaml:"name"`
	Keywords   string   `yaml:"keywords"` // regexp alternation, \b-wrapped at compile time
	Paragraphs []string `yaml:"paragraphs"`
}

// LoadTopicTable reads an ordered topic table from a YAML file. The last
// rule should be a catch-all; a table whose final rule matches nothing
// universal still works, the generator just leans on its hard floor.
func LoadTopicTable(path string) ([]TopicRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topic table: %w", err)
	}
	var raw []yamlTopicRule
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse topic table: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("topic table %s defines no rules", path)
	}
	table := make([]TopicRule, 0, len(raw))
	for _, r := range raw {
		if len(r.Paragraphs) == 0 {
			return nil, fmt.Errorf("topic %q has no paragraphs", r.Name)
		}
		re, err := regexp.Compile(`(?i)\b(?:` + r.Keywords + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("topic %q: %w", r.Name, err)
		}
		table = append(table, TopicRule{Name: r.Name, pattern: re, Paragraphs: r.Paragraphs})
	}
	return table, nil
}

// DefaultTopicTable returns the built-in ordered topic table.
func DefaultTopicTable() []TopicRule {
	return []TopicRule{
		topic("mathematics",
			`math|maths|mathematics|algebra|calculus|geometry|equation|theorem|integral|derivative|matrix|probability|statistics`,
			"Math has this way of looking impossible right up until the moment it clicks, and then it feels obvious. Usually the trick is finding the one step in the chain that actually confused you.",
			"One thing that helps with math is working a tiny concrete example before touching the general case. Abstract notation gets a lot friendlier once you've seen it do something.",
			"A lot of math trouble is really notation trouble. If you can say what you're trying to do in plain words first, the symbols tend to fall into place after."),
		topic("physics",
			`physics|quantum|relativity|gravity|momentum|velocity|particle|photon|thermodynamics|entropy|newton|einstein`,
			"Physics is full of ideas that sound mystical until you see the experiment behind them. The math is really just careful bookkeeping for what nature was already doing.",
			"What I like about physics questions is that you can usually sanity-check an answer with units alone. If the units don't work out, the idea doesn't either.",
			"The counterintuitive parts of physics are usually where the interesting stuff lives. Our everyday intuition was trained on medium-sized slow things, and the universe mostly isn't that."),
		topic("chemistry",
			`chemistry|chemical|molecule|atom|reaction|acid|base|electron|bond|compound|element|periodic`,
			"Chemistry makes a lot more sense once you think of it as electrons looking for a more comfortable arrangement. Almost everything else is detail on top of that.",
			"The periodic table looks like a wall of trivia, but it's actually one big pattern. Once you see the columns as personalities, predictions get much easier."),
		topic("biology",
			`biology|cell|dna|gene|evolution|protein|organism|bacteria|virus|enzyme|species|ecosystem`,
			"Biology is basically chemistry that got ambitious. The wild part is how much of it is just the same handful of molecular tricks reused at every scale.",
			"Evolution is one of those ideas that's simple to state and endless in its consequences. Most of biology's weirdness makes sense once you ask what problem it solved."),
		topic("history",
			`history|historical|ancient|medieval|empire|revolution|war|century|dynasty|civilization`,
			"History gets a lot more interesting when you stop treating it as a list of dates and start asking what people thought they were doing at the time.",
			"The fun of history is noticing how often the same situations repeat with different costumes. The details change, the incentives mostly don't."),
		topic("philosophy",
			`philosophy|philosophical|ethics|morality|metaphysics|consciousness|free will|meaning of life|existential|epistemology`,
			"Philosophy questions rarely get settled, but wrestling with them changes how you think about everything else. That's kind of the point.",
			"A good philosophical puzzle usually survives every easy answer you throw at it. The interesting move is figuring out exactly why the easy answers fail."),
		topic("programming",
			`code|coding|program|programming|software|bug|debug|function|variable|compiler|algorithm|python|javascript|golang|database|api`,
			"Most stubborn bugs turn out to be a mismatch between what the code does and what you believe it does. Printing the actual values is humbling but effective.",
			"When code fights back, shrinking the problem usually wins. Cut the example down until the bug has nowhere left to hide.",
			"Naming things well is half of programming. If a function is hard to name, it's usually trying to do too many jobs at once."),
		topic("economics",
			`economics|economy|inflation|market|stock|invest|recession|trade|supply|demand|currency|interest rate`,
			"Economics is mostly the study of incentives wearing a suit. Once you ask who benefits from what, a lot of confusing behavior stops being confusing.",
			"The humbling thing about economics is how often confident predictions miss. The useful part is the vocabulary it gives you for trade-offs."),
		topic("psychology",
			`psychology|psychological|behavior|cognitive|memory|habit|motivation|anxiety|therapy|brain|mindset`,
			"The mind is great at telling itself tidy stories after the fact. Half of psychology is catching those stories in the act.",
			"What's striking in psychology is how much of behavior runs on autopilot. Knowing your own defaults is surprisingly practical knowledge."),
		topic("arts",
			`art|artist|painting|music|song|film|movie|novel|poetry|photography|design|creative|drawing`,
			"Art is one of the few places where a problem having many right answers is the whole point. Taste is just pattern recognition you've earned.",
			"The interesting thing about creative work is that constraints usually help more than freedom does. A blank page is harder than a prompt."),
		topic("sports",
			`sport|sports|football|soccer|basketball|tennis|running|gym|workout|training|marathon|team|match|game`,
			"The best thing about sport is that effort compounds quietly. Nothing seems to change day to day, and then one day the old hard thing is easy.",
			"Games are such a clean little laboratory for pressure. You find out fast what your habits are when there's a score attached."),
		topic("relationships",
			`relationship|friend|friendship|partner|family|marriage|dating|breakup|parents|trust`,
			"People stuff is the hardest stuff, mostly because everyone involved has a different version of the same story. Saying the quiet part gently usually helps.",
			"Most relationship friction comes down to unspoken expectations. The awkward conversation is almost always cheaper than the silence."),
		topic("education",
			`school|study|studying|exam|test|homework|university|college|course|learning|teacher|grade|degree`,
			"Learning sticks a lot better when you test yourself than when you reread. Struggling to recall something is the rep that builds the muscle.",
			"Exams measure a narrow slice of what you know, which is worth remembering both when they go well and when they don't."),
		topic("health",
			`health|sleep|diet|doctor|sick|illness|tired|exercise|nutrition|stress|headache|pain`,
			"Sleep, food and movement are boring advice because they work. Most other health tweaks are rounding errors next to those three.",
			"Bodies are annoyingly honest. They keep presenting the bill for whatever we've been postponing, usually at the worst time."),
		topic("work",
			`work|job|career|boss|office|meeting|deadline|salary|interview|promotion|colleague|project`,
			"Work piles up quietly and then all at once. Writing the mess down into a list doesn't shrink it, but it stops it from multiplying in your head.",
			"A lot of job stress is really ambiguity stress. Pinning down what 'done' means for the week tends to help more than working longer."),
		topic("emotions",
			`feel|feeling|feelings|emotion|emotional|mood|happy|sad|angry|lonely|overwhelmed|anxious`,
			"Feelings are information, even the unpleasant ones. Naming one precisely already takes some of its weight away.",
			"Moods lie about their own permanence. Whatever this one is claiming, it has an expiry date."),
		topic("general",
			`.*`,
			"That's worth chewing on. There's usually more underneath a question like that than it first lets on.",
			"Interesting one. I find these things get clearer when you poke at a concrete example of it.",
			"That touches on a few things at once, which is usually a sign it's a good question."),
	}
}

// continuationPrompts are appended to keep the conversation open.
var continuationPrompts = []string{
	"What's your take on it?",
	"How did you land on this topic?",
	"What part of it matters most to you right now?",
	"Curious what prompted this today.",
	"Want to dig into any particular side of it?",
}

// Acknowledgment pools keyed by valence sign.
var (
	positiveAcks = []string{
		"Love the energy in that.",
		"That sounds genuinely good.",
		"Glad to hear things are on the upswing.",
	}
	negativeAcks = []string{
		"That sounds rough, honestly.",
		"Sorry you're dealing with that.",
		"That would wear anyone down.",
	}
	neutralAcks = []string{
		"Fair question.",
		"Let me think about that with you.",
		"Alright, let's take it apart.",
	}
)

// Emotion-specific elaborations, used for a small subset of labels.
var emotionElaborations = map[Emotion][]string{
	EmotionConfusion: {
		"It's fine to be confused here, the thing genuinely is tangled.",
		"Confusion usually means two ideas are overlapping that shouldn't be.",
	},
	EmotionInterest: {
		"Good instinct to pull on this thread.",
		"This is the kind of curiosity that tends to pay off.",
	},
}

// detectTopic returns the first matching rule; the catch-all guarantees
// a result.
func detectTopic(text string, table []TopicRule) *TopicRule {
	for i := range table {
		if table[i].Match(text) {
			return &table[i]
		}
	}
	return &table[len(table)-1]
}
