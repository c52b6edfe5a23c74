package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/events"
	"FakeNewsDetector/internal/extractor"
	"FakeNewsDetector/internal/ports"
)

const insufficientContentMessage = "Couldn't extract sufficient content from this page."

// PageAgentDeps wires the agent.
type PageAgentDeps struct {
	Extractor *extractor.Extractor
	Sender    events.Sender
	Logger    *slog.Logger
}

// PageAgent plays the in-page role: it remembers each tab's document, scans
// article-like pages passively, forwards selections and answers on-demand
// extraction requests.
type PageAgent struct {
	extractor *extractor.Extractor
	sender    events.Sender
	logger    *slog.Logger

	mu    sync.Mutex
	pages map[int]*extractor.Page
}

var _ ports.CandidateSource = (*PageAgent)(nil)

// NewPageAgent builds an agent with no loaded documents.
func NewPageAgent(deps PageAgentDeps) *PageAgent {
	ex := deps.Extractor
	if ex == nil {
		ex = extractor.New(extractor.Options{})
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PageAgent{
		extractor: ex,
		sender:    deps.Sender,
		logger:    logger,
		pages:     map[int]*extractor.Page{},
	}
}

// Subscribe attaches the agent to the tab and selection feeds and claims analyzePage.
func (a *PageAgent) Subscribe(src events.Source) {
	src.OnDocumentReady(a.onDocumentReady)
	src.OnSelectionChanged(a.onSelectionChanged)
	src.OnTabNavigated(func(_ context.Context, ev events.TabNavigated) {
		a.mu.Lock()
		delete(a.pages, ev.TabID)
		a.mu.Unlock()
	})
	src.Handle(events.ActionAnalyzePage, a.handleAnalyzePage)
}

// ExtractCandidate runs main-content extraction on the tab's current document.
func (a *PageAgent) ExtractCandidate(_ context.Context, tabID int) (domain.ContentCandidate, error) {
	page := a.page(tabID)
	if page == nil {
		return domain.ContentCandidate{}, fmt.Errorf("tab %d: %w", tabID, domain.ErrNoDocument)
	}

	text, strategy := a.extractor.ExtractWithStrategy(page)
	candidate := extractor.FilterPageScan(text)
	if candidate == nil {
		a.logger.Debug("extraction insufficient", "tab_id", tabID, "strategy", strategy, "url", page.URL)
		return domain.ContentCandidate{}, fmt.Errorf("tab %d: %w", tabID, domain.ErrExtractionEmpty)
	}
	a.logger.Debug("extracted", "tab_id", tabID, "strategy", strategy, "length", candidate.Length)
	return *candidate, nil
}

// Attach makes page the tab's current document without a passive scan.
func (a *PageAgent) Attach(tabID int, page *extractor.Page) {
	if page == nil {
		return
	}
	a.mu.Lock()
	a.pages[tabID] = page
	a.mu.Unlock()
}

func (a *PageAgent) onDocumentReady(ctx context.Context, ev events.DocumentReady) {
	if ev.Page == nil {
		return
	}
	a.Attach(ev.TabID, ev.Page)

	signals := a.extractor.Signals(ev.Page)
	if !a.extractor.IsArticleLike(ev.Page) {
		a.logger.Debug("page not article-like", "tab_id", ev.TabID, "url", ev.Page.URL, "score", signals.Score())
		return
	}

	candidate, err := a.ExtractCandidate(ctx, ev.TabID)
	if err != nil {
		return
	}
	a.send(ctx, events.Message{Action: events.ActionCheckArticle, TabID: ev.TabID, Content: candidate.Text})
}

func (a *PageAgent) onSelectionChanged(ctx context.Context, ev events.SelectionChanged) {
	candidate := extractor.FilterSelection(ev.Text)
	if candidate == nil {
		return
	}
	a.send(ctx, events.Message{Action: events.ActionCheckSelection, TabID: ev.TabID, Selection: candidate.Text})
}

func (a *PageAgent) handleAnalyzePage(ctx context.Context, msg events.Message) events.Response {
	candidate, err := a.ExtractCandidate(ctx, msg.TabID)
	if err != nil {
		if errors.Is(err, domain.ErrNoDocument) {
			return events.Response{Success: false, Error: noTabMessage}
		}
		return events.Response{Success: false, Error: insufficientContentMessage}
	}
	if !a.send(ctx, events.Message{Action: events.ActionCheckArticle, TabID: msg.TabID, Content: candidate.Text}) {
		return events.Response{Success: false, Error: insufficientContentMessage}
	}
	return events.Response{Success: true}
}

func (a *PageAgent) send(ctx context.Context, msg events.Message) bool {
	if a.sender == nil {
		return false
	}
	resp, err := a.sender.Send(ctx, msg)
	if err != nil {
		a.logger.Warn("send message", "action", msg.Action, "tab_id", msg.TabID, "error", err)
		return false
	}
	return resp.Success
}

func (a *PageAgent) page(tabID int) *extractor.Page {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pages[tabID]
}
