package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mattjoyce/runbot/internal/codeblock"
	"github.com/mattjoyce/runbot/internal/execute"
	"github.com/mattjoyce/runbot/internal/interaction"
	"github.com/mattjoyce/runbot/internal/validate"
)

//go:generate mockgen -destination=mocks/mock_executor.go -package=mocks github.com/mattjoyce/runbot/internal/command Executor

// Executor runs one extracted code block.
type Executor interface {
	Execute(ctx context.Context, req execute.Request) (execute.Result, error)
}

// Router runs classified commands.
type Router struct {
	executor  Executor
	validator validate.Validator
	logger    *slog.Logger
}

// NewRouter creates a Router.
func NewRouter(executor Executor, validator validate.Validator, logger *slog.Logger) *Router {
	return &Router{
		executor:  executor,
		validator: validator,
		logger:    logger,
	}
}

// Run executes cmd and returns the reply content.
func (r *Router) Run(ctx context.Context, cmd Command) (string, error) {
	switch cmd.kind {
	case KindPing:
		return "Pong!", nil
	case KindPong:
		return "Ping!", nil
	case KindRun:
		return r.run(ctx, cmd.data)
	default:
		return "", fmt.Errorf("unhandled command kind %d", cmd.kind)
	}
}

// Respond runs cmd and folds any failure into an error response.
func (r *Router) Respond(ctx context.Context, cmd Command) validate.Response {
	content, err := r.Run(ctx, cmd)
	if err != nil {
		r.logger.Info("command failed", "command", cmd.kind.String(), "error", err)
		return validate.Failure(UserMessage(err))
	}
	return validate.Success(content)
}

// run executes every fenced block in the target message in order and stops
// at the first failure.
func (r *Router) run(ctx context.Context, data interaction.Data) (string, error) {
	msg, ok := data.TargetMessage()
	if !ok {
		return "", ErrNoTargetMessage
	}

	blocks, err := codeblock.Extract(msg.Content)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(blocks))
	for i, block := range blocks {
		res, err := r.executor.Execute(ctx, execute.Request{Language: block.Language, Code: block.Code})
		if err != nil {
			return "", fmt.Errorf("block %d: %w", i+1, err)
		}
		wrapped, err := r.validator.Block(res.Output)
		if err != nil {
			return "", fmt.Errorf("block %d: %w", i+1, err)
		}
		parts = append(parts, wrapped)
	}

	return r.validator.Reply(parts)
}
