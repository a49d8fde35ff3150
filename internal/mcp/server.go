// ABOUTME: MCP server initialization and configuration
// ABOUTME: Holds one edit session and viewport shared by all tool calls

package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harper/geoedit/internal/editing"
	"github.com/harper/geoedit/internal/logging"
	"github.com/harper/geoedit/internal/models"
	"github.com/harper/geoedit/internal/session"
	"github.com/harper/geoedit/internal/storage"
	"github.com/harper/geoedit/internal/viewport"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Default viewport used until begin_edit supplies one.
const (
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultResolution = 1.0
)

// Server wraps the MCP server with storage and the active edit session.
// Tool calls are serialized by mu because the session is single-threaded.
type Server struct {
	mcp     *mcp.Server
	repo    storage.Repository
	style   editing.Style
	logger  *log.Logger
	mu      sync.Mutex
	session *session.Session
	view    *viewport.Viewport
}

// NewServer creates MCP server with all capabilities.
func NewServer(repo storage.Repository, style editing.Style, logger *log.Logger) (*Server, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	view, err := viewport.New(DefaultWidth, DefaultHeight, models.Point{}, DefaultResolution)
	if err != nil {
		return nil, err
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "geoedit",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:     mcpServer,
		repo:    repo,
		style:   style,
		logger:  logger,
		session: session.New(repo, logger),
		view:    view,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
