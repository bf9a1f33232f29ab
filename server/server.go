// Package server exposes the mentor over an HTTP JSON API and archives every
// successful exchange in a Merkle DAG.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/papercomputeco/mentor/pkg/llm"
	"github.com/papercomputeco/mentor/pkg/mentor"
	"github.com/papercomputeco/mentor/pkg/merkle"
	"github.com/papercomputeco/mentor/pkg/structure"
)

// ArchiveHeadHeader carries the archive hash of the latest chat reply.
const ArchiveHeadHeader = "X-Mentor-Archive-Head"

// Server serves mentoring requests. Chat sessions live in memory; exchanges are
// archived in a content-addressable merkle.Storer.
type Server struct {
	config   Config
	mentor   *mentor.Mentor
	storer   merkle.Storer
	archive  *archive
	sessions *sessionRegistry
	metrics  *metrics
	logger   *zap.Logger
	app      *fiber.App
}

// New creates a Server generating replies with gen. opts are applied to the mentor
// in addition to the archive recorder.
func New(config Config, gen llm.Generator, logger *zap.Logger, opts ...mentor.Option) (*Server, error) {
	var storer merkle.Storer
	var err error

	if config.DBPath != "" {
		storer, err = merkle.NewSQLiteStorer(config.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite storer: %w", err)
		}
		logger.Info("using SQLite archive", zap.String("path", config.DBPath))
	} else {
		storer = merkle.NewMemoryStorer()
		logger.Info("using in-memory archive")
	}

	m := newMetrics()
	arc := newArchive(storer, logger, m.archived)
	opts = append(opts, mentor.WithRecorder(arc))

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		mentor:   mentor.New(gen, logger, opts...),
		storer:   storer,
		archive:  arc,
		sessions: newSessionRegistry(config.MaxSessions, config.SessionIdleTTL, arc.forget),
		metrics:  m,
		logger:   logger,
		app:      app,
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})))

	api := app.Group("/api")
	api.Post("/critical-thinking", s.handleCriticalThinking)
	api.Post("/solution", s.handleSolution)
	api.Post("/sessions", s.handleCreateSession)
	api.Post("/sessions/:id/chat", s.handleChat)
	api.Get("/sessions/:id/history", s.handleSessionHistory)
	api.Post("/sessions/:id/reset", s.handleResetSession)
	api.Delete("/sessions/:id", s.handleDeleteSession)

	// Archive inspection endpoints
	app.Get("/archive/stats", s.handleArchiveStats)
	app.Get("/archive/node/:hash", s.handleGetNode)
	app.Get("/archive/history", s.handleListHistories)
	app.Get("/archive/history/:hash", s.handleGetHistory)
	app.Post("/archive/nodes", s.handleIngestNodes)

	return s, nil
}

// Run starts the server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting mentor server", zap.String("listen", s.config.ListenAddr))
	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener serves on an existing listener.
func (s *Server) RunWithListener(ln net.Listener) error {
	s.logger.Info("starting mentor server", zap.String("listen", ln.Addr().String()))
	return s.app.Listener(ln)
}

// Shutdown stops accepting requests, waits for in-flight ones and closes the archive.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownErr := s.app.ShutdownWithContext(ctx)
	return errors.Join(shutdownErr, s.storer.Close())
}

// Close releases the archive without stopping the listener.
func (s *Server) Close() error {
	return s.storer.Close()
}

type criticalThinkingRequest struct {
	Problem string `json:"problem"`
	Context string `json:"context"`
}

type solutionRequest struct {
	Problem      string `json:"problem"`
	TemplateType string `json:"template_type"`
}

type chatRequest struct {
	Message string `json:"message"`
	Mode    string `json:"mode"`
}

// SessionResponse identifies a chat session.
type SessionResponse struct {
	ID string `json:"id"`
}

// SessionHistoryResponse is the in-memory history of a chat session.
type SessionHistoryResponse struct {
	ID    string                 `json:"id"`
	Turns []llm.ConversationTurn `json:"turns"`
}

func (s *Server) handleCriticalThinking(c *fiber.Ctx) error {
	var req criticalThinkingRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		s.logger.Debug("failed to parse request", zap.Error(err))
		return badRequest(c, "invalid request body")
	}

	start := time.Now()
	res := s.mentor.CriticalThinking(c.UserContext(), req.Problem, req.Context)
	return s.respond(c, res, start)
}

func (s *Server) handleSolution(c *fiber.Ctx) error {
	var req solutionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		s.logger.Debug("failed to parse request", zap.Error(err))
		return badRequest(c, "invalid request body")
	}

	kind, ok := structure.ParseTemplateType(req.TemplateType)
	if !ok {
		return badRequest(c, fmt.Sprintf("unknown template_type %q", req.TemplateType))
	}

	start := time.Now()
	res := s.mentor.Solution(c.UserContext(), req.Problem, kind)
	return s.respond(c, res, start)
}

func (s *Server) handleCreateSession(c *fiber.Ctx) error {
	id, err := s.sessions.create()
	if err != nil {
		s.logger.Warn("session rejected", zap.Error(err), zap.Int("max_sessions", s.config.MaxSessions))
		return c.Status(fiber.StatusServiceUnavailable).JSON(llm.ErrorResponse{Error: err.Error()})
	}
	s.metrics.sessions.Inc()
	s.logger.Info("session created",
		zap.String("session", id),
		zap.Int("sessions", s.sessions.len()),
	)
	return c.Status(fiber.StatusCreated).JSON(SessionResponse{ID: id})
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	entry, ok := s.sessions.get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "session not found"})
	}

	var req chatRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		s.logger.Debug("failed to parse request", zap.Error(err))
		return badRequest(c, "invalid request body")
	}

	mode := mentor.CriticalThinking
	if strings.TrimSpace(req.Mode) != "" {
		var err error
		if mode, err = mentor.ParseMode(req.Mode); err != nil {
			return badRequest(c, err.Error())
		}
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	id := entry.session.ID
	prev := s.archive.head(id)

	start := time.Now()
	res := s.mentor.Chat(c.UserContext(), entry.session, req.Message, mode)

	// Only a head written by this exchange is reported.
	if head := s.archive.head(id); res.Success && head != nil && head != prev {
		c.Set(ArchiveHeadHeader, head.Hash)
	}
	if !s.sessions.has(id) {
		s.archive.forget(id)
	}
	return s.respond(c, res, start)
}

func (s *Server) handleSessionHistory(c *fiber.Ctx) error {
	entry, ok := s.sessions.get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "session not found"})
	}

	entry.mu.Lock()
	turns := entry.session.Turns()
	entry.mu.Unlock()

	return c.JSON(SessionHistoryResponse{ID: entry.session.ID, Turns: turns})
}

func (s *Server) handleResetSession(c *fiber.Ctx) error {
	entry, ok := s.sessions.get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "session not found"})
	}

	entry.mu.Lock()
	entry.session.Reset()
	s.archive.forget(entry.session.ID)
	entry.mu.Unlock()

	s.logger.Info("session reset", zap.String("session", entry.session.ID))
	return c.JSON(SessionResponse{ID: entry.session.ID})
}

func (s *Server) handleDeleteSession(c *fiber.Ctx) error {
	id := c.Params("id")
	if !s.sessions.remove(id) {
		return c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "session not found"})
	}

	s.logger.Info("session deleted",
		zap.String("session", id),
		zap.Int("sessions", s.sessions.len()),
	)
	return c.SendStatus(fiber.StatusNoContent)
}

// respond writes res, using 502 when the mentor could not produce guidance.
func (s *Server) respond(c *fiber.Ctx, res *mentor.Result, start time.Time) error {
	elapsed := time.Since(start)
	s.metrics.observe(res, elapsed)

	fields := []zap.Field{
		zap.Stringer("mode", res.Mode),
		zap.Bool("success", res.Success),
		zap.Duration("duration", elapsed),
	}

	if !res.Success {
		s.logger.Warn("mentor request failed", append(fields, zap.String("error", truncate(res.Error, 200)))...)
		return c.Status(fiber.StatusBadGateway).JSON(res)
	}

	s.logger.Info("mentor request served", fields...)
	return c.JSON(res)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: msg})
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
