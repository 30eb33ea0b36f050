// Package intent classifies normalized transcripts against injected keyword
// tables and owns the dialogue script those tables carry.
package intent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FAQEntry is one (keyword, answer) pair. FAQ entries are an ordered list,
// not a map: overlapping keywords make evaluation order significant and the
// first match always wins.
type FAQEntry struct {
	Keyword string `yaml:"keyword"`
	Answer  string `yaml:"answer"`
}

// Tables holds the campaign script and keyword sets for one deployment.
// Immutable for the lifetime of a call; never mutated mid-session.
type Tables struct {
	// Pitch is spoken once, unconditionally, when the call starts.
	Pitch string `yaml:"pitch"`

	// Steps is the fixed guided sequence advanced by positive intents.
	Steps []string `yaml:"steps"`

	// FAQ is scanned in order; first keyword found in the transcript wins.
	FAQ []FAQEntry `yaml:"faq"`

	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
	Filler   []string `yaml:"filler"`

	// Corrections maps commonly misheard words to their canonical form,
	// applied during normalization to absorb transcription noise.
	Corrections map[string]string `yaml:"corrections"`

	// Response lines.
	FAQNudge     string `yaml:"faqNudge"`     // after an FAQ answer
	ClosingOffer string `yaml:"closingOffer"` // positive intent after the last step
	Closing      string `yaml:"closing"`      // negative intent / end of call
	Reprompt     string `yaml:"reprompt"`     // unmatched, below the retry ceiling
	Menu         string `yaml:"menu"`         // filler, or retries exhausted
}

// Load reads campaign tables from a YAML file.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read campaign tables: %w", err)
	}

	t := &Tables{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse campaign tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the table for fields the dialogue cannot run without.
func (t *Tables) Validate() error {
	if t.Pitch == "" {
		return fmt.Errorf("campaign tables: pitch is required")
	}
	if len(t.Steps) == 0 {
		return fmt.Errorf("campaign tables: at least one guided step is required")
	}
	if t.Closing == "" {
		return fmt.Errorf("campaign tables: closing line is required")
	}
	for i, e := range t.FAQ {
		if e.Keyword == "" || e.Answer == "" {
			return fmt.Errorf("campaign tables: faq entry %d is missing keyword or answer", i)
		}
	}
	return nil
}

// Default returns the built-in loan campaign used when no tables file is
// configured.
func Default() *Tables {
	return &Tables{
		Pitch: "Hi, my name is Neeraja from Rupeek. " +
			"You have a pre-approved personal loan at zero interest. " +
			"The process is fully digital and money is credited in sixty seconds. " +
			"Would you like me to guide you through the process, or answer your questions?",

		Steps: []string{
			"First, download the Rupeek app from the Play Store.",
			"Next, complete your Aadhaar KYC.",
			"Then select your loan amount and confirm disbursal.",
		},

		FAQ: []FAQEntry{
			{Keyword: "interest", Answer: "It is zero percent interest if you repay by the due date. Otherwise EMI interest applies as shown in the app."},
			{Keyword: "limit", Answer: "Your approved loan limit is visible inside the Rupeek app under the Click Cash banner."},
			{Keyword: "emi", Answer: "EMI depends on the tenure you select. The app shows the exact EMI before confirmation."},
			{Keyword: "processing", Answer: "Processing fee is shown clearly in the app before confirmation. There are no hidden charges."},
			{Keyword: "documents", Answer: "No documents or income proof are required. It is fully digital."},
			{Keyword: "cibil", Answer: "Yes, timely repayment improves your CIBIL score."},
			{Keyword: "banner", Answer: "Please update the Rupeek app and reopen it. You will see the Click Cash banner."},
			{Keyword: "mandate", Answer: "The small amount paid during mandate setup is for bank verification and gets refunded."},
			{Keyword: "repayment", Answer: "You must repay by month-end to enjoy zero percent interest."},
			{Keyword: "risk", Answer: "There is no risk if you repay on time. Otherwise the loan converts into EMI."},
			{Keyword: "did not get money", Answer: "Once you complete the steps in the app, money is credited within sixty seconds."},
		},

		Positive: []string{"yes", "guide", "sure", "proceed", "continue"},
		Negative: []string{"not interested", "no", "stop calling", "don't call"},
		Filler:   []string{"hello", "hi", "hey", "okay", "hmm"},

		Corrections: map[string]string{
			"rupee":    "rupeek",
			"rupic":    "rupeek",
			"cybil":    "cibil",
			"sibil":    "cibil",
			"kisi":     "kyc",
			"adhar":    "aadhaar",
			"intrest":  "interest",
			"yeah":     "yes",
			"yep":      "yes",
			"guard me": "guide me",
		},

		FAQNudge:     "You can ask me another question, or say guide me to continue.",
		ClosingOffer: "Great! Whenever you're ready, just open the Rupeek app and check your pre-approved loan limit.",
		Closing:      "No problem. Thank you for your time.",
		Reprompt:     "Sorry, I didn't catch that. Could you please repeat?",
		Menu:         "I can guide you step by step or answer any questions about the loan.",
	}
}
