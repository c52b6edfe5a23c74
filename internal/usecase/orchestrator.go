package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/events"
	"FakeNewsDetector/internal/ports"
)

const defaultOutcomeHistory = 128

// ErrSuperseded marks a completion dropped by the sequence fence.
var ErrSuperseded = errors.New("superseded by a newer request")

// Ticket identifies one submitted AnalysisRequest.
type Ticket string

// OutcomeStatus is the lifecycle of a single request.
type OutcomeStatus string

const (
	OutcomePending    OutcomeStatus = "pending"
	OutcomeSucceeded  OutcomeStatus = "succeeded"
	OutcomeFailed     OutcomeStatus = "failed"
	OutcomeSuperseded OutcomeStatus = "superseded"
)

// Outcome is what became of a ticket.
type Outcome struct {
	Status  OutcomeStatus
	Verdict domain.Verdict
	Err     error
}

// OrchestratorDeps wires the driven adapters and tunables.
type OrchestratorDeps struct {
	Classifier ports.Classifier
	Store      ports.ResultStore
	Badges     ports.BadgeRenderer
	Logger     *slog.Logger

	// Threshold defaults to domain.FlagThreshold.
	Threshold float64
	// Timeout bounds a classifier call; zero means none.
	Timeout time.Duration
	// SequenceFence drops completions that are not the tab's latest request.
	SequenceFence  bool
	OutcomeHistory int
}

type tabSlot struct {
	state domain.TabState
	seq   uint64
}

// Orchestrator runs classification round-trips and owns LastResult and the
// per-tab badge state. Every transition happens under mu, which stands in for
// the single event loop: state and badge always change together.
type Orchestrator struct {
	classifier ports.Classifier
	store      ports.ResultStore
	badges     ports.BadgeRenderer
	logger     *slog.Logger
	threshold  float64
	timeout    time.Duration
	fence      bool

	mu       sync.Mutex
	tabs     map[int]*tabSlot
	outcomes map[Ticket]Outcome
	order    []Ticket
	history  int

	inflight sync.WaitGroup
}

// NewOrchestrator builds the orchestrator with every tab Idle.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	threshold := deps.Threshold
	if threshold <= 0 {
		threshold = domain.FlagThreshold
	}
	history := deps.OutcomeHistory
	if history <= 0 {
		history = defaultOutcomeHistory
	}

	return &Orchestrator{
		classifier: deps.Classifier,
		store:      deps.Store,
		badges:     deps.Badges,
		logger:     logger,
		threshold:  threshold,
		timeout:    deps.Timeout,
		fence:      deps.SequenceFence,
		tabs:       map[int]*tabSlot{},
		outcomes:   map[Ticket]Outcome{},
		history:    history,
	}
}

// Subscribe registers the orchestrator's message handlers and navigation listener.
func (o *Orchestrator) Subscribe(src events.Source) {
	src.Handle(events.ActionCheckSelection, o.messageHandler(domain.SourceSelection))
	src.Handle(events.ActionCheckArticle, o.messageHandler(domain.SourcePageScan))
	src.OnTabNavigated(func(ctx context.Context, ev events.TabNavigated) {
		o.OnNavigate(ctx, ev.TabID)
	})
}

func (o *Orchestrator) messageHandler(source domain.CandidateSource) events.MessageHandler {
	return func(ctx context.Context, msg events.Message) events.Response {
		candidate, err := domain.NewCandidate(msg.Text(), source)
		if err != nil {
			o.logger.Debug("message dropped", "action", msg.Action, "tab_id", msg.TabID, "error", err)
			return events.Response{Success: false, Error: err.Error()}
		}
		o.SubmitCandidate(ctx, msg.TabID, &candidate)
		return events.Response{Success: true}
	}
}

// SubmitCandidate moves the tab to Pending, shows the pending badge and then
// dispatches the classifier call in the background. A nil candidate is a no-op
// and yields an empty ticket.
func (o *Orchestrator) SubmitCandidate(ctx context.Context, tabID int, candidate *domain.ContentCandidate) Ticket {
	if candidate == nil {
		return ""
	}

	req := domain.AnalysisRequest{
		ID:        uuid.NewString(),
		TabID:     tabID,
		Candidate: *candidate,
	}
	ticket := Ticket(req.ID)

	o.mu.Lock()
	slot := o.slot(tabID)
	slot.seq++
	req.Seq = slot.seq
	slot.state = domain.TabPending
	o.recordLocked(ticket, Outcome{Status: OutcomePending})
	o.setBadgeLocked(ctx, tabID, domain.BadgePending)
	o.mu.Unlock()

	o.logger.Debug("analysis dispatched",
		"tab_id", tabID, "request_id", req.ID, "source", candidate.Source, "length", candidate.Length)

	o.inflight.Add(1)
	go o.dispatch(context.WithoutCancel(ctx), req)

	return ticket
}

// OnNavigate unconditionally returns the tab to Idle with an empty badge.
// In-flight calls for the previous document keep running.
func (o *Orchestrator) OnNavigate(ctx context.Context, tabID int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	slot := o.slot(tabID)
	slot.state = domain.TabIdle
	if o.fence {
		slot.seq++
	}
	o.setBadgeLocked(ctx, tabID, domain.BadgeEmpty)
	o.logger.Debug("tab navigated", "tab_id", tabID)
}

// LastResult returns the newest stored verdict or domain.ErrNoResult.
func (o *Orchestrator) LastResult(ctx context.Context) (domain.Verdict, error) {
	if o.store == nil {
		return domain.Verdict{}, domain.ErrNoResult
	}
	return o.store.Load(ctx)
}

// TabState reports the current state of a tab; unknown tabs are Idle.
func (o *Orchestrator) TabState(tabID int) domain.TabState {
	o.mu.Lock()
	defer o.mu.Unlock()
	if slot, ok := o.tabs[tabID]; ok {
		return slot.state
	}
	return domain.TabIdle
}

// Outcome reports what happened to a ticket, if it is still remembered.
func (o *Orchestrator) Outcome(ticket Ticket) (Outcome, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out, ok := o.outcomes[ticket]
	return out, ok
}

// Wait blocks until every dispatched classifier call has completed.
func (o *Orchestrator) Wait() {
	o.inflight.Wait()
}

func (o *Orchestrator) dispatch(ctx context.Context, req domain.AnalysisRequest) {
	defer o.inflight.Done()

	callCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	if o.classifier == nil {
		o.complete(ctx, req, domain.Verdict{}, fmt.Errorf("classifier is not configured: %w", domain.ErrClassifierUnreachable))
		return
	}

	verdict, err := o.classifier.Classify(callCtx, req.Candidate.Text)
	o.complete(ctx, req, verdict, err)
}

func (o *Orchestrator) complete(ctx context.Context, req domain.AnalysisRequest, verdict domain.Verdict, err error) {
	ticket := Ticket(req.ID)

	o.mu.Lock()
	stale := o.staleLocked(req)
	o.mu.Unlock()
	if stale {
		return
	}

	// Save runs without mu held; the fence is re-checked afterwards.
	if err == nil && o.store != nil {
		if saveErr := o.store.Save(ctx, verdict); saveErr != nil {
			err = fmt.Errorf("store verdict: %w", saveErr)
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.staleLocked(req) {
		return
	}

	slot := o.slot(req.TabID)
	if err != nil {
		slot.state = domain.TabIdle
		o.setBadgeLocked(ctx, req.TabID, domain.BadgeEmpty)
		o.recordLocked(ticket, Outcome{Status: OutcomeFailed, Err: err})
		o.logger.Warn("analysis failed", "tab_id", req.TabID, "request_id", req.ID, "error", err)
		return
	}

	slot.state = domain.TabClear
	if verdict.Flagged(o.threshold) {
		slot.state = domain.TabFlagged
	}
	o.setBadgeLocked(ctx, req.TabID, slot.state.Badge())
	o.recordLocked(ticket, Outcome{Status: OutcomeSucceeded, Verdict: verdict})
	o.logger.Info("analysis complete",
		"tab_id", req.TabID,
		"request_id", req.ID,
		"potentially_fake", verdict.IsPotentiallyFake,
		"confidence", verdict.Confidence,
		"state", slot.state)
}

// staleLocked applies the sequence fence, recording req as superseded when a
// newer request or a navigation has overtaken it.
func (o *Orchestrator) staleLocked(req domain.AnalysisRequest) bool {
	if !o.fence {
		return false
	}
	slot := o.slot(req.TabID)
	if slot.seq == req.Seq {
		return false
	}
	o.logger.Debug("stale completion dropped", "tab_id", req.TabID, "request_id", req.ID, "seq", req.Seq, "latest", slot.seq)
	o.recordLocked(Ticket(req.ID), Outcome{Status: OutcomeSuperseded, Err: ErrSuperseded})
	return true
}

func (o *Orchestrator) slot(tabID int) *tabSlot {
	slot, ok := o.tabs[tabID]
	if !ok {
		slot = &tabSlot{state: domain.TabIdle}
		o.tabs[tabID] = slot
	}
	return slot
}

func (o *Orchestrator) setBadgeLocked(ctx context.Context, tabID int, state domain.BadgeState) {
	if o.badges == nil {
		return
	}
	if err := o.badges.SetBadge(ctx, tabID, state); err != nil {
		o.logger.Warn("set badge", "tab_id", tabID, "state", state, "error", err)
	}
}

func (o *Orchestrator) recordLocked(ticket Ticket, out Outcome) {
	if _, ok := o.outcomes[ticket]; !ok {
		o.order = append(o.order, ticket)
		if len(o.order) > o.history {
			delete(o.outcomes, o.order[0])
			o.order = o.order[1:]
		}
	}
	o.outcomes[ticket] = out
}
