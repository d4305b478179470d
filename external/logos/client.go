// Package logos resolves team badge URLs from an external catalog.
// Lookups are cached, including misses, so unknown teams do not hammer
// the provider on every ingest cycle.
package logos

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/oddsight/oddsight/internal/identity"
	"github.com/oddsight/oddsight/internal/platform/cache"
	"github.com/oddsight/oddsight/internal/platform/logging"
)

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	Cache      *cache.Store
	Logger     *logging.Logger
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *cache.Store
	logger     *logging.Logger
}

type logoPayload struct {
	URL string `json:"url"`
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		cache:      cfg.Cache,
		logger:     logger,
	}
}

// Resolve returns the badge URL for a team name, or cache.ErrNegative
// when the catalog has no badge for it.
func (c *Client) Resolve(ctx context.Context, team string) (string, error) {
	if c.baseURL == "" {
		return "", crerr.New("logo base url is not configured")
	}

	slug := identity.Slug(team)
	if slug == "" {
		return "", cache.ErrNegative
	}

	load := func(ctx context.Context) (any, error) {
		return c.fetch(ctx, slug)
	}

	if c.cache == nil {
		out, err := load(ctx)
		if err != nil {
			return "", err
		}
		return out.(string), nil
	}

	out, err := c.cache.GetOrLoad(ctx, "logo:"+slug, load)
	if err != nil {
		return "", err
	}

	logoURL, ok := out.(string)
	if !ok {
		return "", crerr.Newf("unexpected cached value type %T", out)
	}

	return logoURL, nil
}

func (c *Client) fetch(ctx context.Context, slug string) (any, error) {
	fullURL := c.baseURL + "/badges?team=" + url.QueryEscape(slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrap(err, "send request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, cache.ErrNegative
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, crerr.Newf("catalog status=%d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, crerr.Wrap(err, "read response body")
	}

	var payload logoPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, crerr.Wrap(err, "decode badge payload")
	}
	if strings.TrimSpace(payload.URL) == "" {
		return nil, cache.ErrNegative
	}

	return payload.URL, nil
}
