// Package languagetool provides a typcheck.Backend backed by a
// LanguageTool server's HTTP API (v2).
package languagetool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/typcheck"
	"golang.org/x/time/rate"
)

// DefaultRequestTimeout bounds a single /v2/check request.
const DefaultRequestTimeout = 30 * time.Second

// DefaultRetryDelays returns the backoff delays for failed requests: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Ensure Client implements typcheck.Backend at compile time.
var _ typcheck.Backend = (*Client)(nil)

// Client checks text against a remote LanguageTool server.
// It is safe for concurrent use.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	delays  []time.Duration
	timeout time.Duration

	mu         sync.Mutex
	disabled   []string
	dictionary map[string]struct{}
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.client = c
	}
}

// WithTimeout sets the per-request timeout.
// Defaults to DefaultRequestTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.timeout = d
	}
}

// WithRateLimit throttles requests to the server.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(cl *Client) {
		cl.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithRetryDelays sets the backoff delays between attempts. An empty
// slice disables retries.
func WithRetryDelays(delays []time.Duration) Option {
	return func(cl *Client) {
		cl.delays = delays
	}
}

// NewClient creates a Client for the server at baseURL, e.g.
// "http://127.0.0.1:8081".
func NewClient(baseURL string, opts ...Option) *Client {
	cl := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		delays:  DefaultRetryDelays(),
		timeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(cl)
	}
	if cl.client == nil {
		cl.client = &http.Client{Timeout: cl.timeout}
	}
	return cl
}

// checkResponse mirrors the subset of the /v2/check response we consume.
type checkResponse struct {
	Matches []struct {
		Message      string `json:"message"`
		Offset       int    `json:"offset"`
		Length       int    `json:"length"`
		Replacements []struct {
			Value string `json:"value"`
		} `json:"replacements"`
		Rule struct {
			ID          string `json:"id"`
			Description string `json:"description"`
			IssueType   string `json:"issueType"`
		} `json:"rule"`
	} `json:"matches"`
}

// Check submits text to /v2/check and converts the response to matches
// with byte offsets.
func (cl *Client) Check(ctx context.Context, lang string, text string) ([]typcheck.Match, error) {
	if cl.limiter != nil {
		if err := cl.limiter.Wait(ctx); err != nil {
			return nil, coded(err)
		}
	}

	cl.mu.Lock()
	disabled := strings.Join(cl.disabled, ",")
	dictionary := cl.dictionary
	cl.mu.Unlock()

	form := url.Values{}
	form.Set("text", text)
	form.Set("language", lang)
	if disabled != "" {
		form.Set("disabledRules", disabled)
	}

	body, err := cl.post(ctx, form)
	if err != nil {
		return nil, err
	}

	var decoded checkResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, typcheck.Errorf(typcheck.EINTERNAL, "languagetool: decoding response: %v", err)
	}

	matches := make([]typcheck.Match, 0, len(decoded.Matches))
	for _, m := range decoded.Matches {
		start, end := byteOffsets(text, m.Offset, m.Length)
		if start < 0 {
			continue
		}
		if spelling(m.Rule.IssueType) && inDictionary(dictionary, text[start:end]) {
			continue
		}
		replacements := make([]string, 0, len(m.Replacements))
		for _, r := range m.Replacements {
			replacements = append(replacements, r.Value)
		}
		matches = append(matches, typcheck.Match{
			RuleID:          m.Rule.ID,
			RuleDescription: m.Rule.Description,
			Message:         m.Message,
			Start:           start,
			End:             end,
			Replacements:    replacements,
			Severity:        severity(m.Rule.IssueType),
		})
	}
	return matches, nil
}

// post sends the form to /v2/check, retrying transient failures with
// the configured backoff delays. Client errors (4xx) are not retried.
func (cl *Client) post(ctx context.Context, form url.Values) ([]byte, error) {
	maxAttempts := len(cl.delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		body, retryable, err := cl.postOnce(ctx, form)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, coded(ctx.Err())
		case <-time.After(cl.delays[attempt]):
		}
	}

	return nil, typcheck.Errorf(typcheck.EUNAVAILABLE, "languagetool: server unavailable: %v", lastErr)
}

func (cl *Client) postOnce(ctx context.Context, form url.Values) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cl.baseURL+"/v2/check", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, false, typcheck.Errorf(typcheck.EINTERNAL, "languagetool: building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := cl.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, false, coded(context.DeadlineExceeded)
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return payload, false, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, false, typcheck.Errorf(typcheck.EINVALID, "languagetool: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	default:
		return nil, true, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
}

// Configure stores the dictionary and disabled rules. The server API has
// no per-session dictionary, so dictionary words are filtered out of
// spelling matches client-side.
func (cl *Client) Configure(_ context.Context, cfg typcheck.BackendConfig) error {
	dictionary := make(map[string]struct{}, len(cfg.Dictionary))
	for _, word := range cfg.Dictionary {
		dictionary[strings.ToLower(word)] = struct{}{}
	}

	cl.mu.Lock()
	cl.disabled = append([]string(nil), cfg.DisabledRules...)
	cl.dictionary = dictionary
	cl.mu.Unlock()
	return nil
}

// Shutdown is a no-op; the server's lifecycle is not ours to manage.
func (cl *Client) Shutdown(context.Context) error {
	return nil
}

// coded translates context errors into application error codes.
func coded(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return typcheck.Errorf(typcheck.ETIMEOUT, "languagetool: request timed out")
	}
	return err
}

// byteOffsets converts a rune-based (offset, length) pair into byte
// offsets within text. Returns start -1 when out of range.
func byteOffsets(text string, offset, length int) (start, end int) {
	start, end = -1, -1
	runes := 0
	for i := range text {
		if runes == offset {
			start = i
		}
		if runes == offset+length {
			end = i
			break
		}
		runes++
	}
	if start == -1 && runes == offset {
		start = len(text)
	}
	if end == -1 {
		if runes >= offset+length {
			end = len(text)
		} else {
			return -1, -1
		}
	}
	return start, end
}

func spelling(issueType string) bool {
	return issueType == "misspelling"
}

func inDictionary(dictionary map[string]struct{}, flagged string) bool {
	_, ok := dictionary[strings.ToLower(flagged)]
	return ok
}

func severity(issueType string) typcheck.Severity {
	switch issueType {
	case "misspelling":
		return typcheck.SeverityError
	case "style", "typographical", "whitespace":
		return typcheck.SeverityInfo
	default:
		return typcheck.SeverityWarning
	}
}
