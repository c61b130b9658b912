package execute

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

//go:generate mockgen -destination=mocks/mock_backend.go -package=mocks github.com/mattjoyce/runbot/internal/execute Backend

const (
	// DefaultTimeout bounds a single backend call.
	DefaultTimeout = 15 * time.Second

	// maxResponseBytes caps how much of a backend response is read.
	maxResponseBytes = 1 << 20
)

// Request is one code block to run. Language is the raw tag for the
// dispatcher and the remote language parameter for a backend.
type Request struct {
	Language string
	Code     string
}

// Result is normalized backend output.
type Result struct {
	Output string
}

// Backend runs code on a remote execution service.
type Backend interface {
	Name() string
	Execute(ctx context.Context, req Request) (Result, error)
}

// postJSON sends body to endpoint and decodes the JSON reply into out.
// The call is bounded by timeout on top of any deadline already on ctx.
func postJSON(ctx context.Context, client *http.Client, backend, endpoint string, timeout time.Duration, body, out any) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return backendErr(backend, KindTransport, fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return backendErr(backend, KindTransport, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return classifyTransport(ctx, backend, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return classifyTransport(ctx, backend, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return backendErr(backend, KindStatus, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return backendErr(backend, KindMalformedResponse, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func classifyTransport(ctx context.Context, backend string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return backendErr(backend, KindTimeout, err)
	}
	return backendErr(backend, KindTransport, err)
}
