package intent

import "testing"

func newTestClassifier() *Classifier {
	return NewClassifier(Default(), DefaultConfig())
}

func TestClassify_FAQ(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		text       string
		wantAnswer string
	}{
		{"what is the interest rate on this loan", Default().FAQ[0].Answer},
		{"how much is my loan limit right now", Default().FAQ[1].Answer},
		{"what about the emi every month", Default().FAQ[2].Answer},
		{"is there any risk if i delay", Default().FAQ[9].Answer},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			r := c.Classify(tt.text)
			if r.Intent != Faq {
				t.Fatalf("expected faq, got %s", r.Intent)
			}
			if r.Answer != tt.wantAnswer {
				t.Errorf("wrong answer: got %q", r.Answer)
			}
		})
	}
}

func TestClassify_FAQBeatsPositive(t *testing.T) {
	c := newTestClassifier()

	// Contains both "risk" (FAQ) and "sure" (positive); FAQ must win.
	r := c.Classify("sure but is there any risk in this process")
	if r.Intent != Faq {
		t.Fatalf("expected faq to win over positive, got %s", r.Intent)
	}
	if r.Answer != Default().FAQ[9].Answer {
		t.Errorf("expected the risk answer, got %q", r.Answer)
	}
}

func TestClassify_FAQOrderFirstMatchWins(t *testing.T) {
	tables := Default()
	tables.FAQ = []FAQEntry{
		{Keyword: "loan", Answer: "first"},
		{Keyword: "limit", Answer: "second"},
	}
	c := NewClassifier(tables, DefaultConfig())

	r := c.Classify("tell me about the loan limit please")
	if r.Intent != Faq || r.Answer != "first" {
		t.Errorf("expected first table entry to win, got %s %q", r.Intent, r.Answer)
	}
}

func TestClassify_FAQWordBoundary(t *testing.T) {
	c := newTestClassifier()

	// "interested" must not trigger the "interest" FAQ entry.
	if r := c.Classify("not interested"); r.Intent != Negative {
		t.Errorf("expected negative for 'not interested', got %s", r.Intent)
	}
}

func TestClassify_Positive(t *testing.T) {
	c := newTestClassifier()

	for _, text := range []string{"yes", "yes please guide me", "sure go ahead with the process", "yeah"} {
		if r := c.Classify(text); r.Intent != Positive {
			t.Errorf("%q: expected positive, got %s", text, r.Intent)
		}
	}
}

func TestClassify_Negative(t *testing.T) {
	c := newTestClassifier()

	for _, text := range []string{"no", "not interested", "please stop calling me right now"} {
		if r := c.Classify(text); r.Intent != Negative {
			t.Errorf("%q: expected negative, got %s", text, r.Intent)
		}
	}
}

func TestClassify_Incomplete(t *testing.T) {
	c := newTestClassifier()

	tests := []string{
		"",
		"what is the",      // dangling stem
		"how much is",      // dangling stem
		"tell me about my", // dangling stem
		"so um the",        // too few substantive words, trailing stem
	}
	for _, text := range tests {
		if r := c.Classify(text); r.Intent != Incomplete {
			t.Errorf("%q: expected incomplete, got %s", text, r.Intent)
		}
	}
}

func TestClassify_Filler(t *testing.T) {
	c := newTestClassifier()

	for _, text := range []string{"hello", "hi hello", "okay hmm"} {
		if r := c.Classify(text); r.Intent != Filler {
			t.Errorf("%q: expected filler, got %s", text, r.Intent)
		}
	}
}

func TestClassify_Unmatched(t *testing.T) {
	c := newTestClassifier()

	r := c.Classify("the weather today looks really nice outside")
	if r.Intent != Unmatched {
		t.Errorf("expected unmatched, got %s", r.Intent)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := newTestClassifier()

	first := c.Classify("is there any risk if i delay")
	for i := 0; i < 10; i++ {
		if got := c.Classify("is there any risk if i delay"); got != first {
			t.Fatal("classification is not deterministic")
		}
	}
}

func TestNormalize(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		in   string
		want string
	}{
		{"  What   IS the\tEMI  ", "what is the emi"},
		{"my cybil score", "my cibil score"},   // phonetic correction
		{"Yeah tell me more", "yes tell me more"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := c.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassify_CorrectionEnablesFAQ(t *testing.T) {
	c := newTestClassifier()

	// "cybil" is corrected to "cibil" before the FAQ scan.
	r := c.Classify("will this improve my cybil score")
	if r.Intent != Faq {
		t.Fatalf("expected faq after phonetic correction, got %s", r.Intent)
	}
	if r.Answer != Default().FAQ[5].Answer {
		t.Errorf("expected the cibil answer, got %q", r.Answer)
	}
}

func TestClassifier_PluggablePredicates(t *testing.T) {
	c := newTestClassifier()
	c.SetIncompletePredicate(func(string) bool { return false })
	c.SetFillerPredicate(func(string) bool { return true })

	if r := c.Classify("anything at all"); r.Intent != Filler {
		t.Errorf("expected custom filler predicate to win, got %s", r.Intent)
	}
}

func TestTables_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Tables)
		wantErr bool
	}{
		{"default is valid", func(*Tables) {}, false},
		{"missing pitch", func(tb *Tables) { tb.Pitch = "" }, true},
		{"missing steps", func(tb *Tables) { tb.Steps = nil }, true},
		{"missing closing", func(tb *Tables) { tb.Closing = "" }, true},
		{"faq entry without answer", func(tb *Tables) { tb.FAQ[0].Answer = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := Default()
			tt.mutate(tb)
			err := tb.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
