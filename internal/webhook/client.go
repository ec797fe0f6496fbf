// Package webhook posts WBS payloads to the automation endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/alexanderramin/wbshub/internal/domain"
)

// maxBodyBytes caps how much of a response body is kept on the Ack.
const maxBodyBytes = 4096

// Target is where and how long to submit. It is passed per call so a batch
// always sees one consistent endpoint and timeout.
type Target struct {
	Endpoint string
	Timeout  time.Duration
}

// Ack is the acknowledgement of a successful submission.
type Ack struct {
	Status    int
	Body      string
	LatencyMs int64
}

// Client submits one payload per call. Implementations never retry.
type Client interface {
	Submit(ctx context.Context, p domain.Payload, target Target) (*Ack, error)
}

// httpClient implements Client over net/http.
type httpClient struct {
	http     *http.Client
	observer Observer
}

// NewClient creates a Client that posts JSON to the target endpoint.
func NewClient(observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
			// Redirects are reported as unexpected responses instead of being followed.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		observer: observer,
	}
}

func (c *httpClient) Submit(ctx context.Context, p domain.Payload, target Target) (*Ack, error) {
	start := time.Now()

	if target.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, target.Timeout)
		defer cancel()
	}

	ack, err := c.doRequest(ctx, p, target.Endpoint)
	latency := time.Since(start).Milliseconds()

	event := CallEvent{
		Tarefa:    p.Tarefa,
		Endpoint:  redactEndpoint(target.Endpoint),
		LatencyMs: latency,
		Success:   err == nil,
	}
	if ack != nil {
		event.Status = ack.Status
	}
	if err != nil {
		var se *domain.SubmissionError
		if errors.As(err, &se) {
			event.Status = se.Status
			event.ErrorKind = se.Kind
		}
	}
	c.observer.OnCallComplete(event)

	if err != nil {
		return nil, err
	}
	ack.LatencyMs = latency
	return ack, nil
}

func (c *httpClient) doRequest(ctx context.Context, p domain.Payload, endpoint string) (*Ack, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, &domain.SubmissionError{Kind: domain.SubmissionConnectionError, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, &domain.SubmissionError{Kind: domain.SubmissionTimeout, Status: httpResp.StatusCode, Err: ctx.Err()}
		}
		return nil, &domain.SubmissionError{
			Kind:   domain.SubmissionUnexpectedResponse,
			Status: httpResp.StatusCode,
			Err:    fmt.Errorf("reading response: %w", err),
		}
	}

	switch code := httpResp.StatusCode; {
	case code >= 200 && code < 300:
		return &Ack{Status: code, Body: string(body)}, nil
	case code >= 400:
		return nil, &domain.SubmissionError{Kind: domain.SubmissionHTTPError, Status: code}
	default:
		return nil, &domain.SubmissionError{Kind: domain.SubmissionUnexpectedResponse, Status: code}
	}
}

// classify maps a transport error from http.Client.Do to a SubmissionError.
func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &domain.SubmissionError{Kind: domain.SubmissionTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &domain.SubmissionError{Kind: domain.SubmissionTimeout, Err: err}
	}
	return &domain.SubmissionError{Kind: domain.SubmissionConnectionError, Err: err}
}

// redactEndpoint strips the path of a webhook URL, which usually carries the
// secret hook id, so it can be logged.
func redactEndpoint(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "<invalid>"
	}
	return u.Scheme + "://" + u.Host + "/…"
}
