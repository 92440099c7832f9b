package treasury

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/vitos/ust_basket/internal/domain"
	"github.com/vitos/ust_basket/internal/metrics"
	"go.uber.org/zap"
)

const (
	TreasuryDirectBaseURL = "https://www.treasurydirect.gov"
	securitiesPath        = "/TA_WS/securities/search"
)

// Client reads security listings from the TreasuryDirect web service.
type Client struct {
	baseURL    string
	client     *http.Client
	maxRetries uint64
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, maxRetries int, m *metrics.Metrics, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = TreasuryDirectBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		client:     &http.Client{Timeout: timeout},
		maxRetries: uint64(maxRetries),
		metrics:    m,
		logger:     logger,
	}
}

// FetchSecurities returns every listed security of the given class. Failures
// to reach the service or to read its payload wrap domain.ErrFetch. Entries
// of the list that cannot be decoded are kept with DecodeError set so the
// filter reports them.
func (c *Client) FetchSecurities(ctx context.Context, class domain.SecurityClass) ([]domain.SecurityRecord, error) {
	if class != domain.ClassNote && class != domain.ClassBond {
		return nil, fmt.Errorf("%w: unsupported security class %q", domain.ErrFetch, class)
	}

	start := time.Now()
	body, err := c.get(ctx, class)
	c.metrics.ObserveFetch(string(class), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode %s list: %w", domain.ErrFetch, class, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: decode %s list: payload is not a JSON array", domain.ErrFetch, class)
	}

	records := make([]domain.SecurityRecord, 0, len(raw))
	for i, item := range raw {
		var rec domain.SecurityRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			c.logger.Warn("Undecodable security record", zap.Int("index", i), zap.Error(err))
			records = append(records, domain.SecurityRecord{DecodeError: err.Error()})
			continue
		}
		records = append(records, rec)
	}
	c.logger.Debug("Fetched securities", zap.String("class", string(class)), zap.Int("count", len(records)))
	return records, nil
}

func (c *Client) get(ctx context.Context, class domain.SecurityClass) ([]byte, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("type", string(class))
	endpoint := c.baseURL + securitiesPath + "?" + q.Encode()

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("treasurydirect status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("treasurydirect status %d: %s", resp.StatusCode, truncate(respBody, 200)))
		}
		body = respBody
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("Retrying TreasuryDirect request", zap.Error(err), zap.Duration("wait", wait))
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx), notify); err != nil {
		return nil, err
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
