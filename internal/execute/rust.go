package execute

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const (
	DefaultRustEndpoint = "https://play.rust-lang.org/execute"
	DefaultRustEdition  = "2021"

	missingStdout = "<no stdout>"
	missingStderr = "<no stderr>"
)

// RustConfig configures the Rust playground backend.
type RustConfig struct {
	Endpoint string
	Timeout  time.Duration
	Edition  string
}

// RustBackend compiles and runs Rust code on a playground-style service.
type RustBackend struct {
	config RustConfig
	client *http.Client
}

type rustRequest struct {
	Channel   string `json:"channel"`
	Mode      string `json:"mode"`
	Edition   string `json:"edition"`
	CrateType string `json:"crateType"`
	Tests     bool   `json:"tests"`
	Code      string `json:"code"`
	Backtrace bool   `json:"backtrace"`
}

type rustResponse struct {
	Success *bool   `json:"success"`
	Stdout  *string `json:"stdout"`
	Stderr  *string `json:"stderr"`
	Error   *string `json:"error"`
}

// NewRustBackend creates a RustBackend, applying defaults for empty fields.
func NewRustBackend(config RustConfig, client *http.Client) *RustBackend {
	if config.Endpoint == "" {
		config.Endpoint = DefaultRustEndpoint
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Edition == "" {
		config.Edition = DefaultRustEdition
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &RustBackend{config: config, client: client}
}

// Name implements Backend.
func (b *RustBackend) Name() string { return BackendRust }

// Execute implements Backend. The request language is ignored.
func (b *RustBackend) Execute(ctx context.Context, req Request) (Result, error) {
	body := rustRequest{
		Channel:   "stable",
		Mode:      "debug",
		Edition:   b.config.Edition,
		CrateType: "bin",
		Tests:     false,
		Code:      req.Code,
		Backtrace: false,
	}

	var resp rustResponse
	if err := postJSON(ctx, b.client, BackendRust, b.config.Endpoint, b.config.Timeout, body, &resp); err != nil {
		return Result{}, err
	}
	return normalizeRust(resp)
}

// normalizeRust picks the top-level error, then stdout on success, then stderr.
func normalizeRust(resp rustResponse) (Result, error) {
	if resp.Error != nil {
		return Result{Output: *resp.Error}, nil
	}
	if resp.Success == nil {
		return Result{}, backendErr(BackendRust, KindAPIError, errors.New("response has neither error nor success"))
	}
	if *resp.Success {
		if resp.Stdout == nil {
			return Result{Output: missingStdout}, nil
		}
		return Result{Output: *resp.Stdout}, nil
	}
	if resp.Stderr == nil {
		return Result{Output: missingStderr}, nil
	}
	return Result{Output: *resp.Stderr}, nil
}
