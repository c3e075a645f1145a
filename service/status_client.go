package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/baseline-tools/bscan/domain"
	"github.com/baseline-tools/bscan/internal/constants"
	"github.com/baseline-tools/bscan/internal/version"
)

// StatusClientOptions configures a StatusClient
type StatusClientOptions struct {
	// BaseURL is the status service endpoint; empty uses the default
	BaseURL string

	// Timeout is the per-request timeout; zero uses the default
	Timeout time.Duration

	// MaxConcurrency bounds in-flight fetches; <= 0 uses the default
	MaxConcurrency int

	// CacheTTL is the cache freshness window; zero uses the default
	CacheTTL time.Duration

	// Backoff is the rate-limit wait when no Retry-After hint is sent
	Backoff time.Duration

	// Logf receives non-fatal diagnostics; nil uses the standard logger
	Logf func(format string, args ...interface{})
}

// StatusClient resolves feature ids against a WebStatus-compatible service.
//
// Resolution is cache-first with a TTL; misses go through a bounded
// concurrency gate, retry once on rate limiting, and fall back to a
// search-by-id query on not-found. GetStatus never fails: transport errors
// degrade to an expired cache entry when one exists, or to a synthetic
// limited record carrying an error marker.
//
// Two concurrent misses for the same uncached id may both fetch; the second
// write wins. That duplicate work is an accepted inefficiency, not a bug.
type StatusClient struct {
	baseURL string
	client  *http.Client
	cache   *statusCache
	gate    *semaphore.Weighted
	backoff time.Duration
	logf    func(format string, args ...interface{})
}

var _ domain.StatusService = (*StatusClient)(nil)

// NewStatusClient creates a StatusClient with the given options
func NewStatusClient(opts StatusClientOptions) *StatusClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = constants.DefaultAPIBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultAPITimeoutSeconds * time.Second
	}
	concurrency := opts.MaxConcurrency
	if concurrency <= 0 {
		concurrency = constants.DefaultMaxConcurrency
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTLMinutes * time.Minute
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = constants.DefaultRetryBackoffSeconds * time.Second
	}
	logf := opts.Logf
	if logf == nil {
		logf = log.Printf
	}

	return &StatusClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		cache:   newStatusCache(ttl),
		gate:    semaphore.NewWeighted(int64(concurrency)),
		backoff: backoff,
		logf:    logf,
	}
}

// GetStatus returns the best-effort support record for featureID. The
// returned record always carries the requested id and a provenance tag.
func (c *StatusClient) GetStatus(ctx context.Context, featureID string) *domain.StatusRecord {
	if cached, fresh := c.cache.Get(featureID); fresh {
		return cached
	}

	record, err := c.fetch(ctx, featureID)
	if err == nil {
		c.cache.Put(featureID, *record)
		return record
	}
	c.logf("status fetch for %s failed: %v", featureID, err)

	// Expired cache beats a guess
	if stale, _ := c.cache.Get(featureID); stale != nil {
		return stale
	}

	return &domain.StatusRecord{
		ID:             featureID,
		Name:           featureID,
		BaselineStatus: domain.BaselineLimited,
		Browsers:       map[string]string{},
		Source:         domain.StatusSourceUnknown,
		Error:          fmt.Sprintf("could not fetch status: %v", err),
	}
}

// Close releases idle transport connections
func (c *StatusClient) Close() {
	c.client.CloseIdleConnections()
}

// CacheLen reports the number of cached records
func (c *StatusClient) CacheLen() int {
	return c.cache.Len()
}

// fetch performs one gated resolution attempt against the remote service
func (c *StatusClient) fetch(ctx context.Context, featureID string) (*domain.StatusRecord, error) {
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquiring fetch slot: %w", err)
	}
	defer c.gate.Release(1)

	resp, err := c.get(ctx, c.featureURL(featureID))
	if err != nil {
		return nil, err
	}

	// Rate limited: honor the remote hint, then retry the direct fetch once
	if resp.StatusCode == http.StatusTooManyRequests {
		wait := c.retryAfter(resp)
		drainAndClose(resp)
		if err := sleepCtx(ctx, wait); err != nil {
			return nil, err
		}
		resp, err = c.get(ctx, c.featureURL(featureID))
		if err != nil {
			return nil, err
		}
	}

	switch resp.StatusCode {
	case http.StatusOK:
		record, err := decodeFeature(resp.Body)
		drainAndClose(resp)
		if err != nil {
			return nil, err
		}
		record.Source = domain.StatusSourceLive
		return record, nil

	case http.StatusNotFound:
		drainAndClose(resp)
		return c.searchFallback(ctx, featureID)

	default:
		drainAndClose(resp)
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, featureID)
	}
}

// searchFallback queries the search endpoint and takes the first result
func (c *StatusClient) searchFallback(ctx context.Context, featureID string) (*domain.StatusRecord, error) {
	u := fmt.Sprintf("%s/features?q=%s", c.baseURL, url.QueryEscape("id:"+featureID))
	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search for %s returned status %d", featureID, resp.StatusCode)
	}

	var result struct {
		Data []apiFeature `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("feature %s not found", featureID)
	}

	record := result.Data[0].toRecord()
	record.Source = domain.StatusSourceSearch
	return record, nil
}

func (c *StatusClient) featureURL(featureID string) string {
	return fmt.Sprintf("%s/features/%s", c.baseURL, url.PathEscape(featureID))
}

func (c *StatusClient) get(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constants.ToolName+"/"+version.GetVersion())
	return c.client.Do(req)
}

// retryAfter parses the Retry-After hint, falling back to the configured
// default backoff
func (c *StatusClient) retryAfter(resp *http.Response) time.Duration {
	if hint := resp.Header.Get("Retry-After"); hint != "" {
		if secs, err := strconv.ParseFloat(hint, 64); err == nil && secs >= 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return c.backoff
}

// apiFeature is the wire shape of a feature returned by the status service
type apiFeature struct {
	ID             string                    `json:"id"`
	Name           string                    `json:"name"`
	BaselineStatus string                    `json:"baseline_status"`
	BaselineDate   string                    `json:"baseline_date"`
	Description    string                    `json:"description"`
	Browsers       map[string]browserSupport `json:"browsers"`
}

// browserSupport tolerates both "121" and {"version": "121"} wire shapes
type browserSupport struct {
	Version string
}

func (b *browserSupport) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		b.Version = s
		return nil
	}
	var obj struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	b.Version = obj.Version
	return nil
}

func (f apiFeature) toRecord() *domain.StatusRecord {
	browsers := make(map[string]string, len(f.Browsers))
	for name, support := range f.Browsers {
		v := support.Version
		if v == "" {
			v = "unknown"
		}
		browsers[name] = v
	}

	status := domain.BaselineStatus(f.BaselineStatus)
	switch status {
	case domain.BaselineWidely, domain.BaselineNewly, domain.BaselineLimited:
	default:
		status = domain.BaselineLimited
	}

	return &domain.StatusRecord{
		ID:             f.ID,
		Name:           f.Name,
		BaselineStatus: status,
		BaselineDate:   f.BaselineDate,
		Browsers:       browsers,
		Description:    f.Description,
	}
}

func decodeFeature(r io.Reader) (*domain.StatusRecord, error) {
	var f apiFeature
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding feature response: %w", err)
	}
	return f.toRecord(), nil
}

// sleepCtx waits for d unless the context is canceled first
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
