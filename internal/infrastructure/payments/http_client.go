package payments

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/usecase/interfaces"
)

const (
	defaultGatewayTimeout = 30 * time.Second
	defaultRetryAttempts  = 2
	defaultRetryDelay     = 1 * time.Second
	maxResponseBytes      = 1 << 20
)

// TransportOptions bounds every outgoing gateway call.
type TransportOptions struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	// Client is mainly overridden in tests.
	Client *http.Client
}

// transport is the shared REST caller of the hand-written gateway clients.
//
// Calls are detached from the caller's cancellation: once a request is fired
// it runs to response or timeout. Only ErrGatewayUnavailable-class failures
// (network errors, 429, 5xx) are retried.
type transport struct {
	gateway    string
	client     *http.Client
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

func newTransport(gateway string, opts TransportOptions) *transport {
	t := &transport{
		gateway:    gateway,
		client:     opts.Client,
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
	}
	if t.timeout <= 0 {
		t.timeout = defaultGatewayTimeout
	}
	if t.client == nil {
		// The per-call context carries the deadline.
		t.client = &http.Client{}
	}
	if t.maxRetries < 0 || t.maxRetries > defaultRetryAttempts {
		t.maxRetries = defaultRetryAttempts
	}
	if t.retryDelay < 0 {
		t.retryDelay = defaultRetryDelay
	}
	return t
}

type apiRequest struct {
	Operation string
	Method    string
	URL       string
	Header    http.Header
	Body      []byte
}

type apiResponse struct {
	StatusCode int
	Body       []byte
}

func (r apiResponse) ok() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// detach derives the context a gateway call runs on.
func (t *transport) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	budget := interfaces.GatewayTimeout(ctx, t.timeout)
	return context.WithTimeout(context.WithoutCancel(ctx), budget)
}

// send returns any non-retryable response (2xx-4xx) to the caller. Exhausted
// retries surface as ErrGatewayUnavailable.
func (t *transport) send(ctx context.Context, r apiRequest) (apiResponse, error) {
	ctx, cancel := t.detach(ctx)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(t.retryDelay):
			case <-ctx.Done():
				return apiResponse{}, fmt.Errorf("%w: %s %s: %v", entities.ErrGatewayUnavailable, t.gateway, r.Operation, ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, bytes.NewReader(r.Body))
		if err != nil {
			return apiResponse{}, fmt.Errorf("%w: %s build request: %v", entities.ErrGatewayProtocolError, t.gateway, err)
		}
		for k, vs := range r.Header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		log.Printf("[payment][gateway] request gateway=%s op=%s method=%s url=%s attempt=%d authorization=%s",
			t.gateway, r.Operation, r.Method, r.URL, attempt+1, maskAuthorization(req.Header.Get("Authorization")))

		resp, err := t.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %s %s: %v", entities.ErrGatewayUnavailable, t.gateway, r.Operation, err)
			log.Printf("[payment][gateway] network error gateway=%s op=%s attempt=%d err=%v", t.gateway, r.Operation, attempt+1, err)
			continue
		}
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("%w: %s %s read body: %v", entities.ErrGatewayUnavailable, t.gateway, r.Operation, readErr)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("%w: %s %s returned HTTP %d", entities.ErrGatewayUnavailable, t.gateway, r.Operation, resp.StatusCode)
			log.Printf("[payment][gateway] retryable status gateway=%s op=%s attempt=%d status=%d", t.gateway, r.Operation, attempt+1, resp.StatusCode)
			continue
		}

		log.Printf("[payment][gateway] response gateway=%s op=%s status=%d body_len=%d", t.gateway, r.Operation, resp.StatusCode, len(body))
		return apiResponse{StatusCode: resp.StatusCode, Body: body}, nil
	}
	return apiResponse{}, lastErr
}

// retry runs fn under the same policy as send, for SDK-backed gateways.
func (t *transport) retry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := t.detach(ctx)
	defer cancel()

	var err error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(t.retryDelay):
			case <-ctx.Done():
				return err
			}
		}
		err = fn(ctx)
		if err == nil || !errors.Is(err, entities.ErrGatewayUnavailable) {
			return err
		}
		log.Printf("[payment][gateway] retryable error gateway=%s op=%s attempt=%d err=%v", t.gateway, op, attempt+1, err)
	}
	return err
}

// classifyStatus maps a non-2xx, non-retryable response onto the error taxonomy.
func classifyStatus(gateway, op string, resp apiResponse) error {
	switch {
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s %s: %s", entities.ErrDuplicateIntent, gateway, op, truncate(resp.Body))
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: %s %s returned HTTP %d: %s", entities.ErrPaymentRejected, gateway, op, resp.StatusCode, truncate(resp.Body))
	default:
		return fmt.Errorf("%w: %s %s returned HTTP %d", entities.ErrGatewayProtocolError, gateway, op, resp.StatusCode)
	}
}

func isUnavailable(err error) bool {
	return errors.Is(err, entities.ErrGatewayUnavailable)
}

func maskAuthorization(v string) string {
	if v == "" {
		return "-"
	}
	if i := strings.IndexByte(v, ' '); i > 0 {
		return v[:i] + " ***"
	}
	return "***"
}

// payloadHash identifies a callback payload in logs without exposing it.
func payloadHash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func truncate(b []byte) string {
	const max = 512
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
