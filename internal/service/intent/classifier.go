package intent

import (
	"fmt"
	"strings"
)

// Intent is the classification of one normalized transcript.
type Intent int

const (
	// Faq - the transcript matched an FAQ keyword; Result.Answer is set.
	Faq Intent = iota
	// Positive - confirmation, advance the guided sequence.
	Positive
	// Negative - exit request.
	Negative
	// Filler - acknowledgement with no substantive content.
	Filler
	// Incomplete - too little text to answer; wait for more speech.
	Incomplete
	// Unmatched - substantive text that matched nothing.
	Unmatched
)

// String returns the label used in logs and metrics.
func (i Intent) String() string {
	switch i {
	case Faq:
		return "faq"
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	case Filler:
		return "filler"
	case Incomplete:
		return "incomplete"
	case Unmatched:
		return "unmatched"
	default:
		return fmt.Sprintf("unknown(%d)", i)
	}
}

// Result is the outcome of classifying one transcript.
type Result struct {
	Intent Intent
	Answer string // FAQ answer text, set only for Faq
}

// Predicate is a pure function over normalized text. The incompleteness and
// filler heuristics are pluggable because their thresholds are the most
// likely to need tuning without touching the state machine.
type Predicate func(norm string) bool

// danglingStems are question stems a transcript must not end on: a trailing
// stem means the recognizer cut the caller off mid-question.
var danglingStems = map[string]bool{
	"what": true, "how": true, "why": true, "when": true, "where": true,
	"which": true, "the": true, "is": true, "a": true, "my": true,
	"to": true, "of": true, "for": true, "can": true, "do": true,
	"does": true, "in": true, "on": true, "and": true, "or": true,
}

// Config tunes the default predicates.
type Config struct {
	// MinWords is the minimum number of substantive words (longer than
	// MinWordLength) a transcript needs to be considered complete.
	MinWords int
	// MinWordLength is the length below which a word is not substantive.
	MinWordLength int
}

// DefaultConfig returns the thresholds used by the original campaign.
func DefaultConfig() Config {
	return Config{MinWords: 3, MinWordLength: 2}
}

// Classifier is a pure, deterministic transcript classifier. Evaluation
// order is fixed: incomplete, filler, FAQ (in table order), positive,
// negative, unmatched. The first match short-circuits.
type Classifier struct {
	tables     *Tables
	incomplete Predicate
	filler     Predicate
}

// NewClassifier builds a classifier over the given tables with the default
// predicates.
func NewClassifier(tables *Tables, cfg Config) *Classifier {
	c := &Classifier{tables: tables}
	c.incomplete = c.defaultIncomplete(cfg)
	c.filler = c.defaultFiller()
	return c
}

// SetIncompletePredicate replaces the incompleteness heuristic.
func (c *Classifier) SetIncompletePredicate(p Predicate) { c.incomplete = p }

// SetFillerPredicate replaces the filler heuristic.
func (c *Classifier) SetFillerPredicate(p Predicate) { c.filler = p }

// Normalize lowercases, collapses whitespace, and applies the phonetic
// correction map. All matching happens on normalized text.
func (c *Classifier) Normalize(text string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	for wrong, right := range c.tables.Corrections {
		norm = replacePhrase(norm, wrong, right)
	}
	return norm
}

// Classify maps a raw transcript to an intent.
func (c *Classifier) Classify(text string) Result {
	norm := c.Normalize(text)
	if norm == "" {
		return Result{Intent: Incomplete}
	}

	if c.incomplete(norm) {
		return Result{Intent: Incomplete}
	}
	if c.filler(norm) {
		return Result{Intent: Filler}
	}

	// FAQ scan runs before positive/negative so a question that happens to
	// contain a confirmation word still gets its answer. Matching is on word
	// boundaries: "interest" must not fire inside "interested".
	for _, e := range c.tables.FAQ {
		if hasPhrase(norm, e.Keyword) {
			return Result{Intent: Faq, Answer: e.Answer}
		}
	}

	for _, w := range c.tables.Positive {
		if hasPhrase(norm, w) {
			return Result{Intent: Positive}
		}
	}
	for _, w := range c.tables.Negative {
		if hasPhrase(norm, w) {
			return Result{Intent: Negative}
		}
	}

	return Result{Intent: Unmatched}
}

// defaultIncomplete requires a minimum number of substantive words and no
// trailing dangling stem. A transcript made entirely of configured keywords
// ("yes", "no", "hello") is always complete: short confirmations are whole
// utterances, not fragments.
func (c *Classifier) defaultIncomplete(cfg Config) Predicate {
	return func(norm string) bool {
		words := strings.Fields(norm)
		if len(words) == 0 {
			return true
		}
		if c.keywordOnly(norm) {
			return false
		}
		if danglingStems[words[len(words)-1]] {
			return true
		}

		substantive := 0
		for _, w := range words {
			if len(w) > cfg.MinWordLength {
				substantive++
			}
		}
		return substantive < cfg.MinWords
	}
}

// defaultFiller matches transcripts whose words are all in the filler set.
func (c *Classifier) defaultFiller() Predicate {
	return func(norm string) bool {
		words := strings.Fields(norm)
		if len(words) == 0 {
			return false
		}
		for _, w := range words {
			if !containsWord(c.tables.Filler, w) {
				return false
			}
		}
		return true
	}
}

// keywordOnly reports whether the transcript consists entirely of configured
// keywords or phrases, e.g. a bare "yes" or "not interested". Such
// transcripts are whole utterances even though they are short.
func (c *Classifier) keywordOnly(norm string) bool {
	rem := " " + norm + " "
	for _, set := range [][]string{c.tables.Negative, c.tables.Positive, c.tables.Filler} {
		for _, k := range set {
			rem = strings.ReplaceAll(rem, " "+k+" ", " ")
		}
	}
	return strings.TrimSpace(rem) == ""
}

func containsWord(set []string, w string) bool {
	for _, s := range set {
		if s == w {
			return true
		}
	}
	return false
}

// hasPhrase reports whether key occurs in norm on word boundaries. Plain
// substring matching would let "no" match inside "know".
func hasPhrase(norm, key string) bool {
	return strings.Contains(" "+norm+" ", " "+key+" ")
}

// replacePhrase substitutes wrong with right on word boundaries.
func replacePhrase(norm, wrong, right string) string {
	padded := " " + norm + " "
	padded = strings.ReplaceAll(padded, " "+wrong+" ", " "+right+" ")
	return strings.TrimSpace(padded)
}
