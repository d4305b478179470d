package livescore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddsight/oddsight/internal/platform/resilience"
)

func TestFetchScores(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scores/soccer", r.URL.Path)
		_, _ = w.Write([]byte(`[{"home":"Ajax","away":"PSV","score":"2-0","status":"45'"},{"home":"Lyon","away":"Lille","score":"1-1","status":"FT"}]`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	events, err := client.FetchScores(context.Background(), "soccer")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Ajax", events[0].Home)
	assert.Equal(t, "FT", events[1].Status)
}

func TestFetchScores_ProviderError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	_, err := client.FetchScores(context.Background(), "soccer")
	assert.Error(t, err)
}

func TestFetchScores_CircuitOpenRejectsFast(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	_, err := client.FetchScores(context.Background(), "soccer")
	require.Error(t, err)

	_, err = client.FetchScores(context.Background(), "soccer")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFetchScores_RequiresBaseURL(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{})
	_, err := client.FetchScores(context.Background(), "soccer")
	assert.Error(t, err)
}
