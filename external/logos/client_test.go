package logos

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddsight/oddsight/internal/platform/cache"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "paris-saint-germain", r.URL.Query().Get("team"))
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/psg.png"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
		Cache:   cache.NewStore(time.Minute, time.Minute),
	})

	got, err := client.Resolve(context.Background(), "Paris Saint-Germain")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/psg.png", got)
}

func TestResolve_CachesHits(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/a.png"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
		Cache:   cache.NewStore(time.Minute, time.Minute),
	})

	for i := 0; i < 3; i++ {
		_, err := client.Resolve(context.Background(), "Ajax")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestResolve_CachesMisses(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
		Cache:   cache.NewStore(time.Minute, time.Minute),
	})

	for i := 0; i < 3; i++ {
		_, err := client.Resolve(context.Background(), "Nowhere FC")
		assert.ErrorIs(t, err, cache.ErrNegative)
	}
	// The 404 is remembered: only the first lookup hits the catalog.
	assert.Equal(t, int32(1), calls.Load())
}

func TestResolve_BlankTeamIsNegative(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "http://localhost:0", Timeout: time.Second})
	_, err := client.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, cache.ErrNegative)
}
