package execute

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Dispatcher resolves a language tag and forwards the code to its backend.
type Dispatcher struct {
	registry *Registry
	backends map[string]Backend
	logger   *slog.Logger
}

// NewDispatcher wires backends to a registry. Every route must name one of
// the supplied backends.
func NewDispatcher(registry *Registry, logger *slog.Logger, backends ...Backend) (*Dispatcher, error) {
	if registry == nil {
		return nil, errors.New("registry is nil")
	}
	byName := make(map[string]Backend, len(backends))
	for _, b := range backends {
		if _, dup := byName[b.Name()]; dup {
			return nil, fmt.Errorf("duplicate backend %q", b.Name())
		}
		byName[b.Name()] = b
	}
	if err := registry.checkBackends(byName); err != nil {
		return nil, err
	}
	return &Dispatcher{
		registry: registry,
		backends: byName,
		logger:   logger,
	}, nil
}

// Execute runs one block. req.Language is the tag as written in the message.
func (d *Dispatcher) Execute(ctx context.Context, req Request) (Result, error) {
	route, err := d.registry.Resolve(req.Language)
	if err != nil {
		return Result{}, err
	}
	backend := d.backends[route.Backend]

	execLogger := d.logger.With(
		slog.String("execution_id", uuid.NewString()),
		slog.String("backend", backend.Name()),
		slog.String("language", Normalize(req.Language)),
	)
	execLogger.Debug("dispatching code", "code_bytes", len(req.Code))

	start := time.Now()
	res, err := backend.Execute(ctx, Request{Language: route.Language, Code: req.Code})
	if err != nil {
		attrs := []any{"duration_ms", time.Since(start).Milliseconds(), "error", err}
		var berr *BackendError
		if errors.As(err, &berr) {
			attrs = append(attrs, "kind", berr.Kind.String())
		}
		execLogger.Warn("execution failed", attrs...)
		return Result{}, err
	}

	execLogger.Info("execution completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"output_bytes", len(res.Output),
	)
	return res, nil
}
