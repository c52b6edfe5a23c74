package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/ports"
)

const defaultPollDelay = 500 * time.Millisecond

// Runner is the slice of the orchestrator the presenter talks to.
type Runner interface {
	SubmitCandidate(ctx context.Context, tabID int, candidate *domain.ContentCandidate) Ticket
	Outcome(ticket Ticket) (Outcome, bool)
	LastResult(ctx context.Context) (domain.Verdict, error)
	Wait()
}

var _ Runner = (*Orchestrator)(nil)

// PresenterDeps wires the presenter.
type PresenterDeps struct {
	Runner     Runner
	Candidates ports.CandidateSource
	PollDelay  time.Duration
	Logger     *slog.Logger
	// OnProgress, when set, receives intermediate views such as Pending.
	OnProgress func(View)
}

// Presenter renders LastResult and drives on-demand analysis.
type Presenter struct {
	runner     Runner
	candidates ports.CandidateSource
	pollDelay  time.Duration
	logger     *slog.Logger
	onProgress func(View)
}

// NewPresenter builds a presenter.
func NewPresenter(deps PresenterDeps) *Presenter {
	delay := deps.PollDelay
	if delay <= 0 {
		delay = defaultPollDelay
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Presenter{
		runner:     deps.Runner,
		candidates: deps.Candidates,
		pollDelay:  delay,
		logger:     logger,
		onProgress: deps.OnProgress,
	}
}

// Open renders the cached verdict or the placeholder.
func (p *Presenter) Open(ctx context.Context) View {
	verdict, err := p.runner.LastResult(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNoResult) {
			p.logger.Warn("load last result", "error", err)
		}
		return noContentView()
	}
	return RenderVerdict(verdict)
}

// AnalyzeNow extracts the tab's content, submits it and polls once after the
// fixed delay. Failures are always turned into a view, never returned.
func (p *Presenter) AnalyzeNow(ctx context.Context, tabID int) View {
	return p.analyze(ctx, tabID, func(ctx context.Context) {
		timer := time.NewTimer(p.pollDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
	})
}

// AnalyzeAndWait is AnalyzeNow without the deadline: it blocks until every
// in-flight request has completed. Used by the CLI.
func (p *Presenter) AnalyzeAndWait(ctx context.Context, tabID int) View {
	return p.analyze(ctx, tabID, func(context.Context) { p.runner.Wait() })
}

func (p *Presenter) analyze(ctx context.Context, tabID int, settle func(context.Context)) View {
	p.progress(pendingView())

	if p.candidates == nil {
		return noTabView()
	}
	candidate, err := p.candidates.ExtractCandidate(ctx, tabID)
	if err != nil {
		if errors.Is(err, domain.ErrNoDocument) {
			return noTabView()
		}
		p.logger.Debug("on-demand extraction failed", "tab_id", tabID, "error", err)
		return insufficientContentView()
	}

	ticket := p.runner.SubmitCandidate(ctx, tabID, &candidate)
	settle(ctx)
	if ctx.Err() != nil {
		return timeoutView()
	}
	return p.Resolve(ctx, ticket)
}

// Resolve renders whatever is known about ticket right now. A request that
// has not finished falls back to the cached LastResult, and only when there is
// none does the user get the timeout view.
func (p *Presenter) Resolve(ctx context.Context, ticket Ticket) View {
	out, ok := p.runner.Outcome(ticket)
	if !ok {
		return p.cachedOrTimeout(ctx, ticket, OutcomePending)
	}

	switch out.Status {
	case OutcomeSucceeded:
		verdict, err := p.runner.LastResult(ctx)
		if err != nil {
			p.logger.Warn("load last result", "error", err)
			verdict = out.Verdict
		}
		return RenderVerdict(verdict)
	case OutcomeFailed:
		return classifierErrorView(out.Err)
	default:
		return p.cachedOrTimeout(ctx, ticket, out.Status)
	}
}

func (p *Presenter) cachedOrTimeout(ctx context.Context, ticket Ticket, status OutcomeStatus) View {
	verdict, err := p.runner.LastResult(ctx)
	if err == nil {
		p.logger.Debug("showing cached result", "request_id", ticket, "status", status)
		return RenderVerdict(verdict)
	}
	if !errors.Is(err, domain.ErrNoResult) {
		p.logger.Warn("load last result", "error", err)
	}
	p.logger.Debug("result not ready", "request_id", ticket, "status", status,
		"error", domain.ErrResultTimeout)
	return timeoutView()
}

func (p *Presenter) progress(v View) {
	if p.onProgress != nil {
		p.onProgress(v)
	}
}
