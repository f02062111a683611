package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/syllabus"
	"github.com/aretw0/syllabus/internal/logging"
	"github.com/aretw0/syllabus/pkg/domain"
	"github.com/aretw0/syllabus/pkg/runner"
)

// CatalogURI is the resource exposing the curriculum.
const CatalogURI = "syllabus://catalog"

// Service is the part of the syllabus engine exposed to assistants.
type Service interface {
	Begin(ctx context.Context) (*domain.Session, error)
	Confirm(ctx context.Context, sessionID string) (*domain.Session, error)
	Current() (*domain.Session, bool)
	Status(ctx context.Context) (syllabus.Status, error)
	Lesson(ctx context.Context, topicID string) (string, error)
	Catalog(ctx context.Context) (*domain.Catalog, error)
}

// SessionResponse is the structured result of the session tools.
type SessionResponse struct {
	Session  *domain.Session `json:"session" jsonschema_description:"The session after the call"`
	Complete bool            `json:"complete" jsonschema_description:"True when every topic is in the ledger"`
	Text     string          `json:"text" jsonschema_description:"The topic as it would be shown to the learner"`
}

// CatalogDocument is the JSON shape of the catalog resource.
type CatalogDocument struct {
	Topics     []domain.Topic        `json:"topics"`
	Strategies []domain.StrategyRule `json:"strategies,omitempty"`
}

type completeArgs struct {
	SessionID string `mapstructure:"session_id"`
}

type lessonArgs struct {
	TopicID string `mapstructure:"topic_id"`
}

// Server wraps the syllabus engine and exposes it as an MCP Server.
type Server struct {
	service   Service
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(service Service, opts ...Option) *Server {
	s := &Server{
		service:   service,
		mcpServer: server.NewMCPServer("syllabus-mcp", strings.TrimSpace(syllabus.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("next_topic",
		mcp.WithDescription("Resolve the next curriculum topic, prepare its workspace and open a session. Show the text to the learner and call complete_topic once they are done."),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleNextTopic))

	s.mcpServer.AddTool(mcp.NewTool("complete_topic",
		mcp.WithDescription("Record the open session's topic as completed in the ledger."),
		mcp.WithString("session_id", mcp.Description("Session to confirm (defaults to the open session)")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleCompleteTopic))

	s.mcpServer.AddTool(mcp.NewTool("get_status",
		mcp.WithDescription("Summarize progress: completed and total topics, the next topic and stale ledger references."),
		mcp.WithOutputSchema[syllabus.Status](),
	), mcp.NewStructuredToolHandler(s.handleGetStatus))

	s.mcpServer.AddTool(mcp.NewTool("get_lesson",
		mcp.WithDescription("Return the markdown lesson for a topic."),
		mcp.WithString("topic_id", mcp.Required(), mcp.Description("Topic id")),
	), s.handleGetLesson)
}

func (s *Server) handleNextTopic(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SessionResponse, error) {
	sess, err := s.service.Begin(ctx)
	if err != nil {
		s.logger.Warn("MCP next_topic failed", "err", err)
		return SessionResponse{Session: sess}, fmt.Errorf("next topic: %w", err)
	}
	return present(sess), nil
}

func (s *Server) handleCompleteTopic(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SessionResponse, error) {
	var in completeArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return SessionResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	id := strings.TrimSpace(in.SessionID)
	if id == "" {
		open, ok := s.service.Current()
		if !ok {
			return SessionResponse{}, fmt.Errorf("%w: no open session, call next_topic first", domain.ErrSessionNotFound)
		}
		id = open.ID
	}

	sess, err := s.service.Confirm(ctx, id)
	if err != nil {
		s.logger.Warn("MCP complete_topic failed", "session_id", id, "err", err)
		return SessionResponse{}, fmt.Errorf("complete topic: %w", err)
	}
	resp := SessionResponse{Session: sess}
	if sess.Topic != nil {
		resp.Text = fmt.Sprintf("Logged %s as complete.", sess.Topic.ID)
	}
	return resp, nil
}

func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (syllabus.Status, error) {
	return s.service.Status(ctx)
}

func (s *Server) handleGetLesson(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in lessonArgs
	if err := mapstructure.Decode(request.GetArguments(), &in); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if in.TopicID == "" {
		return mcp.NewToolResultError("topic_id is required"), nil
	}
	content, err := s.service.Lesson(ctx, in.TopicID)
	if err != nil {
		if errors.Is(err, domain.ErrLessonNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no lesson for topic %s", in.TopicID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("lesson lookup failed: %v", err)), nil
	}
	return mcp.NewToolResultText(content), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Curriculum Catalog",
		mcp.WithMIMEType("application/json"),
	), s.handleCatalog)
}

func (s *Server) handleCatalog(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	catalog, err := s.service.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	jsonBytes, err := json.Marshal(CatalogDocument{Topics: catalog.Topics(), Strategies: catalog.Rules()})
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      CatalogURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

// present renders a session the way the terminal runner would.
func present(sess *domain.Session) SessionResponse {
	resp := SessionResponse{Session: sess, Complete: sess.Done()}
	if sess.Done() {
		resp.Text = "Curriculum complete. Every topic is in the ledger."
		return resp
	}
	text := runner.FormatTopic(sess)
	if sess.Lesson != "" {
		text += "\n" + sess.Lesson + "\n"
	}
	resp.Text = text
	return resp
}
