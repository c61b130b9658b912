package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mattjoyce/runbot/internal/auth"
	"github.com/mattjoyce/runbot/internal/command"
	"github.com/mattjoyce/runbot/internal/interaction"
)

// Server is the interactions HTTP server.
type Server struct {
	config    Config
	verifier  Verifier
	responder Responder
	logger    *slog.Logger
	server    *http.Server
	startedAt time.Time
}

// New creates a gateway server, applying defaults for empty config fields.
func New(config Config, verifier Verifier, responder Responder, logger *slog.Logger) *Server {
	if config.Listen == "" {
		config.Listen = DefaultListen
	}
	if config.Path == "" {
		config.Path = DefaultPath
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}

	return &Server{
		config:    config,
		verifier:  verifier,
		responder: responder,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Start runs the HTTP server until ctx is cancelled (blocking).
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("gateway starting", "listen", s.config.Listen, "path", s.config.Path)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("gateway shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("gateway shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("gateway server error: %w", err)
	}
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post(s.config.Path, s.handleInteraction)

	return r
}

// loggingMiddleware logs HTTP requests (excludes payloads).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	})
}

// handleInteraction authenticates, decodes and answers one interaction.
func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, s.config.MaxBodySize+1))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to read request body")
		return
	}
	if int64(len(body)) > s.config.MaxBodySize {
		s.respondError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	if err := s.verifier.Verify(r.Header, body); err != nil {
		s.logger.Warn("interaction signature rejected",
			"reason", authReason(err),
			"request_id", middleware.GetReqID(r.Context()),
		)
		s.respondError(w, http.StatusUnauthorized, msgInvalidSignature)
		return
	}

	env, err := interaction.Decode(body)
	if err != nil {
		s.logger.Warn("interaction payload rejected", "error", err)
		s.respondError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	logger := s.logger.With("interaction_id", env.ID, "interaction_type", int(env.Type))

	switch env.Type {
	case discordgo.InteractionPing:
		logger.Debug("answering ping")
		s.respondJSON(w, http.StatusOK, interaction.Pong())

	case discordgo.InteractionApplicationCommand:
		if env.Data == nil {
			logger.Info("application command without data")
			s.respondJSON(w, http.StatusNotFound, interaction.NotImplemented)
			return
		}
		cmd, ok := command.New(*env.Data).Get()
		if !ok {
			logger.Info("unrecognized command", "command", env.Data.Name)
			s.respondJSON(w, http.StatusNotFound, interaction.NotImplemented)
			return
		}

		resp := s.responder.Respond(r.Context(), cmd)
		logger.Info("command answered", "command", cmd.Kind().String(), "is_error", resp.IsError)
		s.respondJSON(w, http.StatusOK, interaction.ChannelMessage(resp.Content, resp.IsError))

	default:
		logger.Info("unsupported interaction type")
		s.respondJSON(w, http.StatusNotFound, interaction.NotImplemented)
	}
}

// authReason names the verification failure for logs.
func authReason(err error) string {
	switch {
	case !auth.IsAuthError(err):
		return "unknown"
	case errors.Is(err, auth.ErrMissingHeader):
		return "missing_header"
	case errors.Is(err, auth.ErrMalformedSignature):
		return "malformed_signature"
	case errors.Is(err, auth.ErrInvalidBodyEncoding):
		return "invalid_body_encoding"
	case errors.Is(err, auth.ErrVerificationFailed):
		return "verification_failed"
	default:
		return "unknown"
	}
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// respondError sends a JSON error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, interaction.ErrorResponse{Error: message})
}
