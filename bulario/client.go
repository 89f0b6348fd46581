// Package bulario queries the medication leaflet service and renders its
// records as chat-ready Portuguese text.
package bulario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/giygas/bulario-chat/entities"
	"github.com/giygas/bulario-chat/interfaces"
	"github.com/giygas/bulario-chat/logging"
	"github.com/giygas/bulario-chat/metrics"
	"github.com/giygas/bulario-chat/validation"
)

// DefaultTimeout bounds one lookup, connect and body read included
const DefaultTimeout = 10 * time.Second

// maxResponseSize caps the search envelope read from the service
const maxResponseSize = 4 << 20

// Client looks up medications by name. It never retries; every failure other
// than cancellation of the caller's context is reported as text.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	validator  interfaces.InputValidator
}

var _ interfaces.MedicationLookup = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithValidator replaces the default term normalizer
func WithValidator(v interfaces.InputValidator) Option {
	return func(c *Client) {
		c.validator = v
	}
}

// NewClient creates a client for the service at baseURL. A non-positive
// timeout selects DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
		validator:  validation.NewInputValidator(validation.DefaultMaxMessageLength),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup searches for term and returns the formatted record, a not-found
// notice or an error text. The error is non-nil only when ctx was cancelled
// by the caller.
func (c *Client) Lookup(ctx context.Context, term string) (entities.LookupResult, error) {
	start := time.Now()

	normalized, err := c.validator.NormalizeSearchTerm(term)
	if err != nil {
		result := entities.LookupResult{Term: normalized, Outcome: entities.OutcomeInputInvalid, Text: msgInvalidInput}
		metrics.ObserveLookup(string(result.Outcome), time.Since(start))
		return result, nil
	}

	result, err := c.search(ctx, normalized)
	if err != nil {
		return entities.LookupResult{Term: normalized}, err
	}

	duration := time.Since(start)
	metrics.ObserveLookup(string(result.Outcome), duration)
	logging.Debug("Medication lookup",
		"term", normalized,
		"outcome", result.Outcome,
		"status_code", result.StatusCode,
		"duration_ms", duration.Milliseconds(),
	)
	return result, nil
}

func (c *Client) search(ctx context.Context, term string) (entities.LookupResult, error) {
	result := entities.LookupResult{Term: term}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query := url.Values{}
	query.Set("q", term)
	query.Set("limit", "1")
	endpoint := c.baseURL + "/api/search?" + query.Encode()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return c.classify(ctx, result, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.classify(ctx, result, err)
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		result.Outcome = entities.OutcomeUpstreamHTTPError
		result.Text = httpErrorText(resp.StatusCode)
		return result, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return c.classify(ctx, result, err)
	}

	var envelope entities.SearchResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return c.classify(ctx, result, fmt.Errorf("decode search response: %w", err))
	}

	if envelope.Total <= 0 {
		result.Outcome = entities.OutcomeNotFound
		result.Text = notFoundText(term)
		return result, nil
	}

	if len(envelope.Results) == 0 || len(envelope.Results[0].Bula) == 0 {
		return c.classify(ctx, result, fmt.Errorf("resposta sem resultados (total=%d)", envelope.Total))
	}

	bula, err := entities.DecodeBula(envelope.Results[0].Bula)
	if err != nil {
		result.Outcome = entities.OutcomeFormatError
		result.Text = formatErrorText(err)
		return result, nil
	}

	text, err := Format(bula)
	if err != nil {
		result.Outcome = entities.OutcomeFormatError
		result.Text = formatErrorText(err)
		return result, nil
	}

	result.Outcome = entities.OutcomeFound
	result.Text = text
	return result, nil
}

// classify turns a transport error into a result. Cancellation of the
// caller's own context is the only case returned as an error.
func (c *Client) classify(parent context.Context, result entities.LookupResult, err error) (entities.LookupResult, error) {
	if parent.Err() != nil {
		return result, parent.Err()
	}

	switch {
	case isTimeout(err):
		result.Outcome = entities.OutcomeNetworkTimeout
		result.Text = msgTimeout
	case isUnreachable(err):
		result.Outcome = entities.OutcomeNetworkUnavailable
		result.Text = connectionErrorText(c.baseURL)
	default:
		result.Outcome = entities.OutcomeUnexpected
		result.Text = unexpectedText(err)
	}

	logging.Warn("Medication lookup failed", "term", result.Term, "outcome", result.Outcome, "error", err)
	return result, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isUnreachable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
