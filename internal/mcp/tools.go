package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"hdrscan/internal/cppparse"
	"hdrscan/internal/indexer"
	"hdrscan/internal/storage"
	"hdrscan/pkg/cppast"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeNoHeaders          = -32001 // Specified path contains no header files
	ErrorCodeIndexingInProgress = -32002 // Another indexing operation is already running
	ErrorCodeNotIndexed         = -32003 // Project not indexed
	ErrorCodeEmptyQuery         = -32004 // Query parameter is empty
	ErrorCodeParseFailed        = -32005 // Header did not parse
)

// handleIndexHeaders handles the index_headers tool invocation
func (s *Server) handleIndexHeaders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	if err := validatePath(path); err != nil {
		code := ErrorCodeInvalidParams
		if err == ErrNoHeaderFiles {
			code = ErrorCodeNoHeaders
		}
		return nil, newMCPError(code, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	dialect, err := s.resolveDialect(getStringDefault(args, "dialect", ""))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid dialect", map[string]interface{}{
			"param":  "dialect",
			"reason": err.Error(),
		})
	}

	config := &indexer.Config{
		Dialect:         dialect,
		Workers:         s.cfg.Workers,
		Force:           getBoolDefault(args, "force_reindex", false),
		IncludePatterns: append(append([]string{}, s.cfg.Include...), getStringSlice(args, "include_patterns")...),
		ExcludePatterns: append(append([]string{}, s.cfg.Exclude...), getStringSlice(args, "exclude_patterns")...),
	}

	if !s.lock.TryAcquire() {
		return nil, newMCPError(ErrorCodeIndexingInProgress, "another indexing operation is already running", nil)
	}
	defer s.lock.Release()

	stats, err := s.indexer.IndexTree(ctx, path, config)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed":        true,
		"dialect":        dialect.Name,
		"files_indexed":  stats.FilesIndexed,
		"files_skipped":  stats.FilesSkipped,
		"files_failed":   stats.FilesFailed,
		"classes_stored": stats.ClassesStored,
		"methods_stored": stats.MethodsStored,
		"duration_ms":    stats.Duration.Milliseconds(),
	}

	if len(stats.ErrorMessages) > 0 {
		// Include first few errors
		errorCount := len(stats.ErrorMessages)
		if errorCount > 5 {
			response["errors"] = stats.ErrorMessages[:5]
			response["error_count"] = errorCount
		} else {
			response["errors"] = stats.ErrorMessages
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleParseHeader handles the parse_header tool invocation. Exactly one of
// path and source must be given.
func (s *Server) handleParseHeader(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path := getStringDefault(args, "path", "")
	source := getStringDefault(args, "source", "")
	if (path == "") == (source == "") {
		return nil, newMCPError(ErrorCodeInvalidParams, "exactly one of path and source is required", nil)
	}

	name := "<source>"
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "cannot read header", map[string]interface{}{
				"param":  "path",
				"reason": err.Error(),
			})
		}
		source = string(data)
		name = path
	}

	dialect, err := s.resolveDialect(getStringDefault(args, "dialect", ""))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid dialect", map[string]interface{}{
			"param":  "dialect",
			"reason": err.Error(),
		})
	}

	header, err := cppparse.ParseHeader(source, dialect)
	if err != nil {
		return nil, newMCPError(ErrorCodeParseFailed, "header did not parse", map[string]interface{}{
			"header": name,
			"error":  err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(headerSummary(header, dialect.Name))), nil
}

// handleQueryClasses handles the query_classes tool invocation
func (s *Server) handleQueryClasses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 20)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	project, err := s.storage.GetProject(ctx, path)
	if err == storage.ErrNotFound {
		return nil, newMCPError(ErrorCodeNotIndexed, "project not indexed", map[string]interface{}{
			"path": path,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get project", map[string]interface{}{
			"error": err.Error(),
		})
	}

	classes, err := s.storage.SearchClasses(ctx, project.ID, query, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, 0, len(classes))
	for _, c := range classes {
		entry := map[string]interface{}{
			"name":      c.Name,
			"namespace": c.Namespace,
		}
		if c.Annotation != "" {
			entry["annotation"] = c.Annotation
		}
		if c.Parents != "" {
			entry["parents"] = c.Parents
		}
		if file, err := s.storage.GetFileByID(ctx, c.FileID); err == nil {
			entry["file"] = file.FilePath
		}
		results = append(results, entry)
	}

	response := map[string]interface{}{
		"query":   query,
		"count":   len(results),
		"results": results,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	project, err := s.storage.GetProject(ctx, path)
	if err == storage.ErrNotFound {
		response := map[string]interface{}{
			"indexed": false,
			"path":    path,
			"message": "Project not indexed. Use index_headers tool to index this project.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get project status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	status, err := s.storage.GetStatus(ctx, project.ID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed": true,
		"project": map[string]interface{}{
			"path":            project.RootPath,
			"dialect":         project.Dialect,
			"last_indexed_at": project.LastIndexedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
		"statistics": map[string]interface{}{
			"files_count":   status.FilesCount,
			"classes_count": status.ClassesCount,
			"methods_count": status.MethodsCount,
			"members_count": status.MembersCount,
			"index_size_mb": fmt.Sprintf("%.2f", status.IndexSizeMB),
		},
		"health": map[string]interface{}{
			"database_accessible": status.Health.DatabaseAccessible,
			"fts_indexes_built":   status.Health.FTSIndexesBuilt,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// resolveDialect maps a per-call dialect name over the configured one. The
// configured extra macros apply in both cases.
func (s *Server) resolveDialect(name string) (cppparse.Dialect, error) {
	cfg := *s.cfg
	if name != "" {
		cfg.Dialect = name
	}
	return cfg.ParserDialect()
}

// headerSummary flattens one parsed header into the parse_header response.
func headerSummary(h *cppast.Header, dialect string) map[string]interface{} {
	includes := make([]string, 0, len(h.Includes))
	for _, inc := range h.Includes {
		includes = append(includes, inc.Path)
	}

	classes := make([]map[string]interface{}, 0)
	var addClass func(namespace string, c *cppast.Class)
	addClass = func(namespace string, c *cppast.Class) {
		entry := map[string]interface{}{
			"name":      c.Name,
			"namespace": namespace,
			"methods":   c.MethodCount(),
			"members":   c.MemberCount(),
		}
		if c.API != "" {
			entry["api"] = c.API
		}
		if c.Annotation != "" {
			entry["annotation"] = c.Annotation
		}
		if len(c.Parents) > 0 {
			parents := make([]string, 0, len(c.Parents))
			for _, p := range c.Parents {
				label := p.Type.String()
				if p.Access != cppast.AccessNone {
					label = string(p.Access) + " " + label
				}
				parents = append(parents, label)
			}
			entry["parents"] = parents
		}
		classes = append(classes, entry)

		qualified := c.Name
		if namespace != "" {
			qualified = namespace + "::" + c.Name
		}
		for _, access := range cppast.AccessLevels {
			nested := c.Nested[access]
			for i := range nested {
				addClass(qualified, &nested[i])
			}
		}
	}

	for i := range h.Classes {
		addClass("", &h.Classes[i])
	}
	var walkNS func(prefix string, ns *cppast.Namespace)
	walkNS = func(prefix string, ns *cppast.Namespace) {
		path := ns.Name
		if prefix != "" {
			path = prefix + "::" + ns.Name
		}
		for i := range ns.Classes {
			addClass(path, &ns.Classes[i])
		}
		for i := range ns.Namespaces {
			walkNS(path, &ns.Namespaces[i])
		}
	}
	for i := range h.Namespaces {
		walkNS("", &h.Namespaces[i])
	}

	enums := make([]string, 0)
	for _, e := range h.Enums {
		if e.Name != "" {
			enums = append(enums, e.Name)
		}
	}

	return map[string]interface{}{
		"dialect":   dialect,
		"includes":  includes,
		"classes":   classes,
		"enums":     enums,
		"functions": len(h.Functions),
		"variables": len(h.Variables),
		"aliases":   len(h.Aliases),
	}
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks if a path is an accessible directory containing at
// least one C++ header file.
func validatePath(path string) error {
	if path == "" {
		return ErrPathRequired
	}

	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	if !info.IsDir() {
		return ErrNotDirectory
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	hasHeaders := false
	_ = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() || hasHeaders {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".h", ".hpp", ".hh", ".hxx":
			hasHeaders = true
		}
		return nil
	})

	if !hasHeaders {
		return ErrNoHeaderFiles
	}

	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringSlice extracts a string array parameter; anything else yields nil.
func getStringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
	ErrNoHeaderFiles   = errors.New("directory does not contain C++ header files")
)
