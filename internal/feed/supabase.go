package feed

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/taller-garcia/quote-sync/internal/model"
	"github.com/taller-garcia/quote-sync/internal/resilience"
)

// SupabaseOptions configures the Supabase REST source.
type SupabaseOptions struct {
	BaseURL string
	APIKey  string
	Table   string
	Timeout time.Duration
	// RequestsPerSecond throttles calls against the hosted REST endpoint.
	RequestsPerSecond float64
}

// SupabaseSource fetches pending line items from a Supabase PostgREST table.
type SupabaseSource struct {
	client  *http.Client
	limiter *rate.Limiter
	opts    SupabaseOptions
	log     *zap.Logger
}

// NewSupabaseSource builds a SupabaseSource with sensible defaults.
func NewSupabaseSource(opts SupabaseOptions) (*SupabaseSource, error) {
	if opts.BaseURL == "" {
		return nil, eris.New("feed: supabase base URL is required")
	}
	if opts.APIKey == "" {
		return nil, eris.New("feed: supabase API key is required")
	}
	if opts.Table == "" {
		opts.Table = "cotizaciones_pendientes"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}

	return &SupabaseSource{
		client:  &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 5),
		opts:    opts,
		log:     zap.L().With(zap.String("component", "feed")),
	}, nil
}

// Fetch pulls all rows from the pending table, ordered by id. Server-side
// errors and network failures are retried with backoff.
func (s *SupabaseSource) Fetch(ctx context.Context) ([]model.LineItem, error) {
	endpoint, err := url.JoinPath(s.opts.BaseURL, "rest", "v1", s.opts.Table)
	if err != nil {
		return nil, eris.Wrap(err, "feed: build endpoint")
	}
	endpoint += "?select=*&order=id.asc"

	records, err := resilience.DoVal(ctx, resilience.DefaultRetryConfig("feed fetch"),
		func(ctx context.Context) ([]model.FeedRecord, error) {
			return s.fetchOnce(ctx, endpoint)
		})
	if err != nil {
		return nil, err
	}

	s.log.Info("fetched pending line items",
		zap.String("table", s.opts.Table),
		zap.Int("count", len(records)),
	)

	return decodeRecords(records)
}

func (s *SupabaseSource) fetchOnce(ctx context.Context, endpoint string) ([]model.FeedRecord, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "feed: rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "feed: create request")
	}
	req.Header.Set("apikey", s.opts.APIKey)
	req.Header.Set("Authorization", "Bearer "+s.opts.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "feed: fetch pending items")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := eris.Errorf("feed: unexpected status %d from %s: %s",
			resp.StatusCode, s.opts.Table, string(body))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var records []model.FeedRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, eris.Wrap(err, "feed: decode response")
	}
	return records, nil
}
