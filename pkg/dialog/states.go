// Package dialog drives the lead qualification conversation: a finite state
// machine that greets the lead, walks the configured question sequence, and at
// the boundary turn classifies the answers and has the summarizer phrase the
// outcome. Exactly one state step per Advance call.
package dialog

import (
	"leadflow/pkg/store"
)

// State names the position of a conversation in the qualification dialog.
type State string

const (
	// StateNew means no conversation exists yet for the lead.
	StateNew State = "NEW"
	// StateGreeted means the greeting was sent; the next turn asks the first
	// question and discards the incoming acknowledgment.
	StateGreeted State = "GREETED"
	// StateAsking means a question is outstanding; the next turn records its
	// answer and either asks the next question or completes.
	StateAsking State = "ASKING"
	// StateCompleted means the dialog finished: classification assigned,
	// summary delivered. Terminal.
	StateCompleted State = "COMPLETED"
)

// TransitionTable lists the valid successor states. No transition regresses.
type TransitionTable map[State][]State

// ValidTransitions is the dialog's transition table.
//
//nolint:gochecknoglobals // Static transition table
var ValidTransitions = TransitionTable{
	StateNew:       {StateGreeted},
	StateGreeted:   {StateAsking},
	StateAsking:    {StateAsking, StateCompleted},
	StateCompleted: {},
}

// IsValidTransition reports whether from → to is allowed.
func (t TransitionTable) IsValidTransition(from, to State) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StateOf derives the dialog state from a persisted conversation.
// A nil conversation is StateNew.
func StateOf(conv *store.Conversation) State {
	switch {
	case conv == nil:
		return StateNew
	case conv.Classification != "":
		return StateCompleted
	case conv.CurrentIndex == 0:
		return StateGreeted
	default:
		return StateAsking
	}
}

// Snapshot is the persisted-state shape exposed to callers; an HTTP layer
// forwards it verbatim in responses.
type Snapshot struct {
	LeadID         string            `json:"lead_id"`
	LeadName       string            `json:"lead_name,omitempty"`
	State          State             `json:"state"`
	CurrentIndex   int               `json:"current_index"`
	Answers        map[string]string `json:"answers"`
	Classification string            `json:"classification,omitempty"`
}

// snapshotOf builds a caller-facing snapshot from a conversation.
func snapshotOf(conv *store.Conversation) Snapshot {
	answers := make(map[string]string, len(conv.Answers))
	for k, v := range conv.Answers {
		answers[k] = v
	}
	return Snapshot{
		LeadID:         conv.LeadID,
		LeadName:       conv.LeadName,
		State:          StateOf(conv),
		CurrentIndex:   conv.CurrentIndex,
		Answers:        answers,
		Classification: conv.Classification,
	}
}
