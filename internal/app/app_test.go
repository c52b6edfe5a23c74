package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FakeNewsDetector/internal/config"
	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/extractor"
	"FakeNewsDetector/internal/infrastructure/storage"
	"FakeNewsDetector/internal/usecase"
)

func testConfig() config.Config {
	cfg := config.LoadFile("")
	cfg.Storage.Driver = config.StorageMemory
	cfg.Presenter.PollDelay = 50 * time.Millisecond
	return cfg
}

func classifierServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newApp(t *testing.T, classifierURL string) *Application {
	t.Helper()
	cfg := testConfig()
	cfg.Classifier.Endpoint = classifierURL + "/api/check"
	a, err := New(context.Background(), cfg, Deps{Store: storage.NewMemoryStore()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestCheckTextFlagsContent(t *testing.T) {
	srv := classifierServer(t, http.StatusOK, `{"is_potentially_fake": true, "confidence": 0.91, "label": "FAKE"}`)
	a := newApp(t, srv.URL)

	view := a.CheckText(context.Background(), 1, "Scientists confirm the moon is made of cheese.")
	assert.Equal(t, usecase.ViewResult, view.Kind)
	assert.Equal(t, "91.0%", view.Confidence)
	assert.Equal(t, "FAKE", view.Label)
	assert.Equal(t, "!", a.Badges.Get(1).Text)

	stored, err := a.Store.Load(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.91, stored.Confidence, 1e-9)
}

func TestCheckTextRejectsShortSelection(t *testing.T) {
	srv := classifierServer(t, http.StatusOK, `{"is_potentially_fake": false, "confidence": 0.5}`)
	a := newApp(t, srv.URL)

	view := a.CheckText(context.Background(), 1, "short")
	assert.Equal(t, usecase.ViewInsufficientContent, view.Kind)
	assert.Equal(t, "", a.Badges.Get(1).Text)
}

func TestCheckTextClassifierError(t *testing.T) {
	srv := classifierServer(t, http.StatusInternalServerError, `{"error": "boom"}`)
	a := newApp(t, srv.URL)

	view := a.CheckText(context.Background(), 2, "A long enough selection to be sent for analysis.")
	assert.Equal(t, usecase.ViewClassifierError, view.Kind)
	assert.Contains(t, view.Message, "500")
	assert.Equal(t, domain.TabIdle, a.Orchestrator.TabState(2))
}

func TestLoadPageAndAnalyze(t *testing.T) {
	srv := classifierServer(t, http.StatusOK, `{"is_potentially_fake": false, "confidence": 0.8}`)
	a := newApp(t, srv.URL)

	html := `<html><head><title>Council approves new transit plan after long debate</title></head>
<body><article>` + strings.Repeat("The council voted eight to one in favour of the plan. ", 3) + `</article></body></html>`
	page, err := extractor.ParseHTML("https://example.com/news/transit", html)
	require.NoError(t, err)

	a.LoadPage(context.Background(), 5, page)
	view := a.Presenter.AnalyzeAndWait(context.Background(), 5)
	assert.Equal(t, usecase.ViewResult, view.Kind)
	assert.Equal(t, "Likely Reliable", view.Title)
	assert.Equal(t, domain.TabClear, a.Orchestrator.TabState(5))
}

func TestAttachPageClassifiesOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"is_potentially_fake": false, "confidence": 0.8}`))
	}))
	t.Cleanup(srv.Close)
	a := newApp(t, srv.URL)

	html := `<html><head><title>Council approves new transit plan after long debate</title></head>
<body><article>` + strings.Repeat("The council voted eight to one in favour of the plan. ", 3) + `</article></body></html>`
	page, err := extractor.ParseHTML("https://example.com/news/transit", html)
	require.NoError(t, err)

	a.AttachPage(5, page)
	view := a.Presenter.AnalyzeAndWait(context.Background(), 5)
	assert.Equal(t, usecase.ViewResult, view.Kind)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHealth(t *testing.T) {
	srv := classifierServer(t, http.StatusOK, `{}`)
	a := newApp(t, srv.URL)
	assert.NoError(t, a.Health(context.Background()))
}

func TestServeListenerShutsDown(t *testing.T) {
	srv := classifierServer(t, http.StatusOK, `{}`)
	a := newApp(t, srv.URL)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.ServeListener(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var body map[string]string
		return json.NewDecoder(resp.Body).Decode(&body) == nil && body["status"] == "ok"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
