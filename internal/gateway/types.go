package gateway

import (
	"context"
	"net/http"

	"github.com/mattjoyce/runbot/internal/command"
	"github.com/mattjoyce/runbot/internal/validate"
)

// Verifier authenticates a raw request.
type Verifier interface {
	Verify(headers http.Header, body []byte) error
}

// Responder runs a classified command and returns the content to deliver.
type Responder interface {
	Respond(ctx context.Context, cmd command.Command) validate.Response
}

// Config holds gateway server configuration.
type Config struct {
	Listen string

	// Path is the URL path the platform posts interactions to.
	Path string

	// MaxBodySize is the maximum request body size in bytes.
	MaxBodySize int64
}

// HealthResponse is the JSON body of GET /healthz.
type HealthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Default values
const (
	DefaultListen      = "0.0.0.0:8080"
	DefaultPath        = "/interactions"
	DefaultMaxBodySize = 1048576 // 1 MB
)

const (
	msgInvalidSignature = "invalid request signature"
	msgInvalidPayload   = "invalid interaction payload"
)
