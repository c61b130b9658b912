package execute

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const DefaultGenericEndpoint = "https://api2.sololearn.com/v2/codeplayground/v2/compile"

// GenericConfig configures the multi-language backend.
type GenericConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// GenericBackend runs code on a shared multi-language compile service.
type GenericBackend struct {
	config GenericConfig
	client *http.Client
}

type genericRequest struct {
	Code     string `json:"code"`
	CodeID   string `json:"codeId"`
	Input    string `json:"input"`
	Language string `json:"language"`
}

type genericResponse struct {
	Success *bool        `json:"success"`
	Data    *genericData `json:"data"`
}

type genericData struct {
	Output *string `json:"output"`
}

// NewGenericBackend creates a GenericBackend, applying defaults for empty fields.
func NewGenericBackend(config GenericConfig, client *http.Client) *GenericBackend {
	if config.Endpoint == "" {
		config.Endpoint = DefaultGenericEndpoint
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &GenericBackend{config: config, client: client}
}

// Name implements Backend.
func (b *GenericBackend) Name() string { return BackendGeneric }

// Execute implements Backend. req.Language is the remote language parameter.
func (b *GenericBackend) Execute(ctx context.Context, req Request) (Result, error) {
	body := genericRequest{
		Code:     req.Code,
		CodeID:   "",
		Input:    "",
		Language: req.Language,
	}

	var resp genericResponse
	if err := postJSON(ctx, b.client, BackendGeneric, b.config.Endpoint, b.config.Timeout, body, &resp); err != nil {
		return Result{}, err
	}
	return normalizeGeneric(resp)
}

func normalizeGeneric(resp genericResponse) (Result, error) {
	if resp.Success == nil {
		return Result{}, backendErr(BackendGeneric, KindAPIError, errors.New("response missing success flag"))
	}
	if !*resp.Success {
		return Result{}, backendErr(BackendGeneric, KindFailed, errors.New("service reported failure"))
	}
	if resp.Data == nil || resp.Data.Output == nil {
		return Result{}, backendErr(BackendGeneric, KindMissingField, errors.New("response missing data.output"))
	}
	return Result{Output: *resp.Data.Output}, nil
}
