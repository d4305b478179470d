// Package livescore polls an external score provider for in-play and
// finished results.
package livescore

import (
	"context"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/oddsight/oddsight/internal/platform/logging"
	"github.com/oddsight/oddsight/internal/platform/resilience"
	"github.com/oddsight/oddsight/internal/usecase"
)

// ErrUnavailable is returned when the circuit breaker is open.
var ErrUnavailable = crerr.New("livescore provider is temporarily unavailable")

type ClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	http           *fasthttp.Client
	baseURL        string
	timeout        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		http: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchScores downloads the current score feed for one sport.
func (c *Client) FetchScores(ctx context.Context, sportID string) ([]usecase.ScoreEvent, error) {
	if c.baseURL == "" {
		return nil, crerr.New("livescore base url is not configured")
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "livescore circuit breaker rejected request", "state", c.breaker.State())
			return nil, ErrUnavailable
		}
	}

	raw, err := c.executeRequest(c.baseURL + "/scores/" + sportID)
	if c.circuitEnabled {
		if err != nil {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return nil, err
	}

	var events []usecase.ScoreEvent
	if err := sonic.Unmarshal(raw, &events); err != nil {
		return nil, crerr.Wrap(err, "decode score feed")
	}

	return events, nil
}

func (c *Client) executeRequest(fullURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")

	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, crerr.Wrap(err, "send request")
	}
	if status := resp.StatusCode(); status < 200 || status >= 300 {
		return nil, crerr.Newf("provider status=%d", status)
	}

	// The response buffer is recycled with the fasthttp response, so the
	// body is copied out through a pooled buffer.
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.Write(resp.Body()); err != nil {
		return nil, crerr.Wrap(err, "copy response body")
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)

	return out, nil
}
