package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"FakeNewsDetector/internal/config"
	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/events"
	"FakeNewsDetector/internal/extractor"
	"FakeNewsDetector/internal/infrastructure/badge"
	"FakeNewsDetector/internal/infrastructure/classifier"
	"FakeNewsDetector/internal/infrastructure/httpapi"
	"FakeNewsDetector/internal/infrastructure/storage"
	"FakeNewsDetector/internal/logging"
	"FakeNewsDetector/internal/ports"
	"FakeNewsDetector/internal/usecase"
)

const (
	shutdownTimeout = 10 * time.Second
	fetchTimeout    = 30 * time.Second
)

// Deps lets callers replace the driven adapters; nil fields are built from config.
type Deps struct {
	Logger     *slog.Logger
	Classifier ports.Classifier
	Health     ports.HealthChecker
	Store      storage.Store
}

// Application wires configs to use cases and the HTTP bridge.
type Application struct {
	cfg    config.Config
	logger *slog.Logger

	Bus          *events.Bus
	Badges       *badge.Board
	Store        storage.Store
	Orchestrator *usecase.Orchestrator
	Agent        *usecase.PageAgent
	Presenter    *usecase.Presenter

	health     ports.HealthChecker
	httpClient *http.Client
}

// New builds the application from cfg.
func New(ctx context.Context, cfg config.Config, deps Deps) (*Application, error) {
	logger := deps.Logger
	if logger == nil {
		logger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	store := deps.Store
	if store == nil {
		s, err := storage.New(ctx, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("open result store: %w", err)
		}
		store = s
	}

	cls, health := deps.Classifier, deps.Health
	if cls == nil {
		client := classifier.NewClient(cfg.Classifier)
		cls = client
		if health == nil {
			health = client
		}
	}

	bus := events.NewBus()
	board := badge.NewBoard(logger.With("component", "badge"))

	orch := usecase.NewOrchestrator(usecase.OrchestratorDeps{
		Classifier:     cls,
		Store:          store,
		Badges:         board,
		Logger:         logger.With("component", "orchestrator"),
		Threshold:      cfg.Orchestrator.FlagThreshold,
		Timeout:        cfg.Classifier.Timeout,
		SequenceFence:  cfg.Orchestrator.SequenceFence,
		OutcomeHistory: cfg.Orchestrator.OutcomeHistory,
	})
	orch.Subscribe(bus)

	agent := usecase.NewPageAgent(usecase.PageAgentDeps{
		Extractor: extractor.New(extractor.Options{
			ArticleThreshold:   cfg.Extractor.ArticleThreshold,
			TitleLength:        cfg.Extractor.TitleLength,
			MinParagraphLength: cfg.Extractor.MinParagraphLength,
			NewsPatterns:       cfg.Extractor.NewsPatterns,
			Selectors:          cfg.Extractor.Selectors,
			Denylist:           cfg.Extractor.Denylist,
		}),
		Sender: bus,
		Logger: logger.With("component", "agent"),
	})
	agent.Subscribe(bus)

	presenter := usecase.NewPresenter(usecase.PresenterDeps{
		Runner:     orch,
		Candidates: agent,
		PollDelay:  cfg.Presenter.PollDelay,
		Logger:     logger.With("component", "presenter"),
	})

	return &Application{
		cfg:          cfg,
		logger:       logger,
		Bus:          bus,
		Badges:       board,
		Store:        store,
		Orchestrator: orch,
		Agent:        agent,
		Presenter:    presenter,
		health:       health,
		httpClient:   &http.Client{Timeout: fetchTimeout},
	}, nil
}

// Handler returns the HTTP bridge.
func (a *Application) Handler() http.Handler {
	return httpapi.NewHandler(httpapi.Deps{
		Bus:            a.Bus,
		Presenter:      a.Presenter,
		Badges:         a.Badges,
		Health:         a.health,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		Logger:         a.logger.With("component", "http"),
	})
}

// Serve runs the bridge on the configured address until ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Server.Addr, err)
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener serves on ln, shuts down when ctx is done and then drains
// in-flight classifier calls.
func (a *Application) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("http bridge listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down http bridge")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	a.Orchestrator.Wait()
	return err
}

// FetchPage downloads and parses url.
func (a *Application) FetchPage(ctx context.Context, url string) (*extractor.Page, error) {
	return extractor.FetchPage(ctx, a.httpClient, url)
}

// LoadPage hands page to tabID as if the tab had just finished loading.
func (a *Application) LoadPage(ctx context.Context, tabID int, page *extractor.Page) {
	a.Bus.PublishDocumentReady(ctx, events.DocumentReady{TabID: tabID, Page: page})
}

// AttachPage gives tabID a document for on-demand analysis only; no passive
// scan is started.
func (a *Application) AttachPage(tabID int, page *extractor.Page) {
	a.Agent.Attach(tabID, page)
}

// CheckText runs text through the selection filter and waits for its verdict.
func (a *Application) CheckText(ctx context.Context, tabID int, text string) usecase.View {
	candidate := extractor.FilterSelection(text)
	if candidate == nil {
		return usecase.View{
			Kind:    usecase.ViewInsufficientContent,
			Message: fmt.Sprintf("Selection must be longer than %d characters.", domain.MinSelectionLength),
		}
	}
	ticket := a.Orchestrator.SubmitCandidate(ctx, tabID, candidate)
	a.Orchestrator.Wait()
	return a.Presenter.Resolve(ctx, ticket)
}

// Health checks the classifier service.
func (a *Application) Health(ctx context.Context) error {
	if a.health == nil {
		return errors.New("classifier health check not configured")
	}
	return a.health.Health(ctx)
}

// Close waits for in-flight calls and releases the store.
func (a *Application) Close() error {
	a.Orchestrator.Wait()
	return a.Store.Close()
}
