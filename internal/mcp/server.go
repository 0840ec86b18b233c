package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"hdrscan/internal/config"
	"hdrscan/internal/indexer"
	"hdrscan/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "hdrscan"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the database
	DefaultDBPath = "~/.hdrscan"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	storage storage.Storage
	indexer *indexer.Indexer
	cfg     *config.Config

	// lock serializes index_headers calls; a concurrent invocation gets an
	// explicit error instead of contending on the database.
	lock indexer.IndexLock
}

// NewServer creates a new MCP server instance. An empty dbPath uses the
// default location under the user's home directory.
func NewServer(dbPath string, cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	// Expand home directory if needed
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".hdrscan")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// One database file holds every scanned project.
	dbFile := filepath.Join(dbPath, "hdrscan.db")

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	s := &Server{
		mcp:     server.NewMCPServer(ServerName, ServerVersion),
		storage: store,
		indexer: indexer.New(store),
		cfg:     cfg,
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(indexHeadersTool(), s.handleIndexHeaders)
	s.mcp.AddTool(parseHeaderTool(), s.handleParseHeader)
	s.mcp.AddTool(queryClassesTool(), s.handleQueryClasses)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	return nil
}
