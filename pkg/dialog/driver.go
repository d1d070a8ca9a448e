package dialog

import (
	"context"
	"errors"
	"strings"
	"time"

	"leadflow/pkg/classify"
	"leadflow/pkg/config"
	"leadflow/pkg/leaderrors"
	"leadflow/pkg/logx"
	"leadflow/pkg/metrics"
	"leadflow/pkg/store"
	"leadflow/pkg/summarizer"
)

// ErrConversationCompleted is returned when Advance is called on a completed
// conversation. Restart policy belongs to the integrator; the snapshot in the
// result tells the caller which state the conversation is in.
var ErrConversationCompleted = leaderrors.New(leaderrors.KindValidation, "conversation already completed")

// Result is the outcome of one dialog turn.
type Result struct {
	Utterance string
	State     Snapshot
}

// Driver is the conversation state machine. All conversation and lead
// mutations go through its single Advance operation; turns for the same lead
// key are serialized, and every store write is a compare-and-swap against the
// version the turn read.
type Driver struct {
	leads      store.LeadStore
	convs      store.ConversationStore
	scripts    *config.ScriptLoader
	industry   string
	summarizer summarizer.Client
	recorder   *metrics.Recorder
	locks      *keyedMutex
	logger     *logx.Logger
}

// NewDriver creates a dialog driver. The recorder may be nil.
func NewDriver(st store.Store, scripts *config.ScriptLoader, industry string, sum summarizer.Client, recorder *metrics.Recorder) *Driver {
	return &Driver{
		leads:      st,
		convs:      st,
		scripts:    scripts,
		industry:   industry,
		summarizer: sum,
		recorder:   recorder,
		locks:      newKeyedMutex(),
		logger:     logx.NewLogger("dialog"),
	}
}

// Advance processes one inbound turn for a lead: reads the conversation,
// advances the state machine by exactly one step, persists the new state, and
// returns the outbound utterance plus a snapshot. On failure the returned
// snapshot reflects the last durably committed state.
func (d *Driver) Advance(ctx context.Context, leadID, message, displayName string) (Result, error) {
	if leadID == "" {
		return Result{}, leaderrors.New(leaderrors.KindValidation, "leadID is required")
	}

	unlock := d.locks.Lock(leadID)
	defer unlock()

	start := time.Now()
	res, err := d.advanceLocked(ctx, leadID, message, displayName)

	kind := ""
	if err != nil {
		if k, ok := leaderrors.KindOf(err); ok {
			kind = k.String()
		} else {
			kind = "unknown"
		}
	}
	d.recorder.ObserveTurn(string(res.State.State), err == nil, kind, time.Since(start))

	return res, err
}

func (d *Driver) advanceLocked(ctx context.Context, leadID, message, displayName string) (Result, error) {
	script, err := d.scripts.Load(d.industry)
	if err != nil {
		return Result{}, err
	}

	lead, err := d.leads.GetLead(ctx, leadID)
	if err != nil {
		if errors.Is(err, store.ErrLeadNotFound) {
			return Result{}, leaderrors.Newf(leaderrors.KindNotFound, "lead %s not found", leadID)
		}
		return Result{}, leaderrors.WithCause(leaderrors.KindPersistence, err, "lead lookup failed")
	}

	conv, err := d.convs.GetConversation(ctx, leadID)
	if err != nil && !errors.Is(err, store.ErrConversationNotFound) {
		return Result{}, leaderrors.WithCause(leaderrors.KindPersistence, err, "conversation lookup failed")
	}

	switch StateOf(conv) {
	case StateNew:
		return d.greet(ctx, lead, script, displayName)
	case StateGreeted:
		return d.askFirst(ctx, conv, script)
	case StateAsking:
		return d.recordAnswer(ctx, lead, conv, script, message)
	default: // StateCompleted
		return Result{State: snapshotOf(conv)}, ErrConversationCompleted
	}
}

// greet creates the conversation and renders the greeting. The incoming
// message is ignored on this turn.
func (d *Driver) greet(ctx context.Context, lead *store.Lead, script *config.Script, displayName string) (Result, error) {
	name := displayName
	if name == "" {
		name = lead.Name
	}

	conv := &store.Conversation{
		LeadID:       lead.ID,
		LeadName:     name,
		CurrentIndex: 0,
		Answers:      make(map[string]string),
	}
	if err := d.convs.CreateConversation(ctx, conv); err != nil {
		return Result{}, leaderrors.WithCause(leaderrors.KindPersistence, err, "conversation create failed")
	}

	if name == "" {
		name = "there"
	}
	greeting := strings.ReplaceAll(script.Greeting, "{name}", name)

	d.logger.Debug("greeted lead %s", lead.ID)
	return Result{Utterance: greeting, State: snapshotOf(conv)}, nil
}

// askFirst consumes the greeting acknowledgment and asks the first question.
// The acknowledgment text is deliberately discarded, matching the protocol's
// two setup turns.
func (d *Driver) askFirst(ctx context.Context, conv *store.Conversation, script *config.Script) (Result, error) {
	if len(script.Questions) == 0 {
		return Result{State: snapshotOf(conv)}, leaderrors.New(leaderrors.KindConfiguration, "no questions configured")
	}

	updated := conv.Clone()
	updated.CurrentIndex = 1
	if err := d.commit(ctx, conv, updated); err != nil {
		return Result{State: snapshotOf(conv)}, err
	}

	return Result{Utterance: script.Questions[0].Prompt, State: snapshotOf(updated)}, nil
}

// recordAnswer stores the answer to the outstanding question and either asks
// the next question or runs the completion step.
func (d *Driver) recordAnswer(ctx context.Context, lead *store.Lead, conv *store.Conversation, script *config.Script, message string) (Result, error) {
	questions := script.Questions
	i := conv.CurrentIndex

	updated := conv.Clone()
	if i >= 1 && i <= len(questions) {
		updated.Answers[questions[i-1].Key] = message
	}

	if i < len(questions) {
		updated.CurrentIndex = i + 1
		if err := d.commit(ctx, conv, updated); err != nil {
			return Result{State: snapshotOf(conv)}, err
		}
		return Result{Utterance: questions[i].Prompt, State: snapshotOf(updated)}, nil
	}

	return d.complete(ctx, lead, conv, updated, script)
}

// complete runs the boundary turn: classify the accumulated answers, persist
// them, then ask the summarizer to phrase the outcome. The answers are
// committed before the external call so a summarizer failure leaves the
// conversation re-enterable: an identical retry turn recomputes the same
// classification and tries the summary again.
func (d *Driver) complete(ctx context.Context, lead *store.Lead, prev, conv *store.Conversation, script *config.Script) (Result, error) {
	tier := classify.Classify(conv.Answers, script)

	if err := d.commit(ctx, prev, conv); err != nil {
		return Result{State: snapshotOf(prev)}, err
	}

	prompt := summarizer.BuildPrompt(string(tier), script.QuestionKeys(), conv.Answers)

	sumStart := time.Now()
	summary, err := d.summarizer.Summarize(ctx, prompt)
	d.recorder.ObserveSummarizer(d.summarizer.ModelName(), err == nil, time.Since(sumStart))
	if err != nil {
		// Answers are durable but the conversation stays uncompleted.
		return Result{State: snapshotOf(conv)}, err
	}

	final := conv.Clone()
	final.Classification = string(tier)
	if err := d.commit(ctx, conv, final); err != nil {
		return Result{State: snapshotOf(conv)}, err
	}

	if err := d.leads.UpdateLeadStatus(ctx, lead.ID, string(tier)); err != nil {
		return Result{State: snapshotOf(final)}, leaderrors.WithCause(leaderrors.KindPersistence, err, "lead status update failed")
	}

	d.recorder.ObserveClassification(string(tier))
	d.logger.Info("lead %s classified as %s", lead.ID, tier)

	return Result{Utterance: summary, State: snapshotOf(final)}, nil
}

// commit validates the state transition and writes the conversation with the
// store's compare-and-swap, carrying the version forward into updated.
func (d *Driver) commit(ctx context.Context, prev, updated *store.Conversation) error {
	from, to := StateOf(prev), StateOf(updated)
	if from != to && !ValidTransitions.IsValidTransition(from, to) {
		return leaderrors.Newf(leaderrors.KindClassification, "invalid transition %s -> %s", from, to)
	}

	updated.Version = prev.Version
	if err := d.convs.UpdateConversation(ctx, updated); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			return leaderrors.WithCause(leaderrors.KindPersistence, err, "concurrent turn detected")
		}
		return leaderrors.WithCause(leaderrors.KindPersistence, err, "conversation update failed")
	}
	return nil
}

// StateFor reports which dialog state the lead's conversation is in, so the
// caller can decide restart or rejection policy for completed dialogs.
func (d *Driver) StateFor(ctx context.Context, leadID string) (State, error) {
	conv, err := d.convs.GetConversation(ctx, leadID)
	if err != nil {
		if errors.Is(err, store.ErrConversationNotFound) {
			return StateNew, nil
		}
		return StateNew, leaderrors.WithCause(leaderrors.KindPersistence, err, "conversation lookup failed")
	}
	return StateOf(conv), nil
}
