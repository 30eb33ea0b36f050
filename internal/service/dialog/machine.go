// Package dialog implements the scripted dialogue state machine: given a
// classified intent it selects the next spoken lines and the next call state.
package dialog

import (
	"fmt"

	"ai-voice-dialog-service/internal/service/intent"
)

// State is the dialogue lifecycle state of one call.
type State int

const (
	// StateAwaitingStart - connection accepted, pitch not yet spoken.
	StateAwaitingStart State = iota
	// StateListening - waiting for caller speech.
	StateListening
	// StateEnded - call is over; no further intents are reacted to.
	StateEnded
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateAwaitingStart:
		return "AWAITING_START"
	case StateListening:
		return "LISTENING"
	case StateEnded:
		return "ENDED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// Action is what the session must do after one intent: speak the lines in
// order, then end the call if End is set.
type Action struct {
	Lines []string
	End   bool
}

// Machine drives one call's scripted conversation. Owned by exactly one
// session; not safe for concurrent use.
type Machine struct {
	tables       *intent.Tables
	retryCeiling int

	state      State
	stepIndex  int
	retryCount int
}

// New creates a machine in AWAITING_START over the given tables.
func New(tables *intent.Tables, retryCeiling int) *Machine {
	return &Machine{tables: tables, retryCeiling: retryCeiling}
}

// Start handles the transport's start signal. The first call returns the
// pitch and moves to LISTENING; duplicates are a no-op.
func (m *Machine) Start() ([]string, bool) {
	if m.state != StateAwaitingStart {
		return nil, false
	}
	m.state = StateListening
	return []string{m.tables.Pitch}, true
}

// React maps a classified intent to the next action. Outside LISTENING it
// does nothing.
func (m *Machine) React(r intent.Result) Action {
	if m.state != StateListening {
		return Action{}
	}

	switch r.Intent {
	case intent.Faq:
		m.retryCount = 0
		return Action{Lines: []string{r.Answer, m.tables.FAQNudge}}

	case intent.Positive:
		m.retryCount = 0
		if m.stepIndex < len(m.tables.Steps) {
			line := m.tables.Steps[m.stepIndex]
			m.stepIndex++
			return Action{Lines: []string{line}}
		}
		return Action{Lines: []string{m.tables.ClosingOffer}}

	case intent.Negative:
		m.retryCount = 0
		m.state = StateEnded
		return Action{Lines: []string{m.tables.Closing}, End: true}

	case intent.Filler:
		m.retryCount = 0
		return Action{Lines: []string{m.tables.Menu}}

	case intent.Incomplete:
		// Withhold: wait for more speech. Counters unchanged.
		return Action{}

	default: // intent.Unmatched
		if m.retryCount < m.retryCeiling {
			m.retryCount++
		}
		if m.retryCount < m.retryCeiling {
			return Action{Lines: []string{m.tables.Reprompt}}
		}
		return Action{Lines: []string{m.tables.Menu}}
	}
}

// State returns the current dialogue state.
func (m *Machine) State() State { return m.state }

// StepIndex returns the guided-step cursor, clamped at the script length.
func (m *Machine) StepIndex() int { return m.stepIndex }

// RetryCount returns the consecutive failed-recognition counter.
func (m *Machine) RetryCount() int { return m.retryCount }

// End forces the machine into ENDED, e.g. on transport disconnect.
func (m *Machine) End() { m.state = StateEnded }
