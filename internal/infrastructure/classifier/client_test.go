package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FakeNewsDetector/internal/config"
	"FakeNewsDetector/internal/domain"
)

func TestClassifyPostsTextAndDecodesVerdict(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/check", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "some article text", body["text"])

		_, _ = w.Write([]byte(`{"is_potentially_fake": true, "confidence": 0.85, "label": "FAKE", "text_sample": "some"}`))
	}))
	defer server.Close()

	c := NewClient(config.ClassifierConfig{Endpoint: server.URL + "/api/check", APIKey: "secret"})
	v, err := c.Classify(context.Background(), "some article text")
	require.NoError(t, err)
	assert.Equal(t, domain.Verdict{IsPotentiallyFake: true, Confidence: 0.85, Label: "FAKE", TextSample: "some"}, v)
}

func TestClassifyNonSuccessStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "Model not loaded"}`))
	}))
	defer server.Close()

	c := NewClient(config.ClassifierConfig{Endpoint: server.URL})
	_, err := c.Classify(context.Background(), "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrClassifierStatus)

	var statusErr *domain.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Contains(t, statusErr.Body, "Model not loaded")
}

func TestClassifyUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := server.URL
	server.Close()

	_, err := NewClient(config.ClassifierConfig{Endpoint: endpoint}).Classify(context.Background(), "text")
	assert.ErrorIs(t, err, domain.ErrClassifierUnreachable)

	_, err = NewClient(config.ClassifierConfig{}).Classify(context.Background(), "text")
	assert.ErrorIs(t, err, domain.ErrClassifierUnreachable)
}

func TestClassifyRejectsMalformedBodies(t *testing.T) {
	t.Parallel()

	bodies := []string{`not json`, `{"is_potentially_fake": true, "confidence": 1.5}`}
	for _, body := range bodies {
		body := body
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		_, err := NewClient(config.ClassifierConfig{Endpoint: server.URL}).Classify(context.Background(), "text")
		assert.Error(t, err, body)
		server.Close()
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	var healthy atomic.Bool
	healthy.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		if !healthy.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	}))
	defer server.Close()

	c := NewClient(config.ClassifierConfig{Endpoint: server.URL + "/api/check"})
	require.NoError(t, c.Health(context.Background()))

	healthy.Store(false)
	assert.ErrorIs(t, c.Health(context.Background()), domain.ErrClassifierStatus)
}

func TestDeriveHealthURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "http://localhost:5000/health", deriveHealthURL("http://localhost:5000/api/check"))
	assert.Equal(t, "", deriveHealthURL("not a url"))
}
