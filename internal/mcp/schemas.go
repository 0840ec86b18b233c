package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// indexHeadersTool returns the tool definition for index_headers
func indexHeadersTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_headers",
		Description: "Scan a C++ source tree and index its header declarations",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the project root (must contain .h/.hpp/.hh/.hxx files)",
				},
				"force_reindex": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, re-parse all files ignoring content hashes (full rebuild)",
					"default":     false,
				},
				"dialect": map[string]interface{}{
					"type":        "string",
					"description": "Parser dialect for this scan; overrides the configured default",
					"enum":        []string{"cpp", "plain", "unreal", "ue"},
				},
				"include_patterns": map[string]interface{}{
					"type":        "array",
					"description": "Glob patterns over root-relative paths; empty means every header",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"exclude_patterns": map[string]interface{}{
					"type":        "array",
					"description": "Glob patterns for paths to skip (e.g., '**/ThirdParty/**')",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"path"},
		},
	}
}

// parseHeaderTool returns the tool definition for parse_header
func parseHeaderTool() mcp.Tool {
	return mcp.Tool{
		Name:        "parse_header",
		Description: "Parse a single C++ header and return its structure without indexing",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the header file to parse (mutually exclusive with source)",
				},
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Header source text to parse (mutually exclusive with path)",
				},
				"dialect": map[string]interface{}{
					"type":        "string",
					"description": "Parser dialect; overrides the configured default",
					"enum":        []string{"cpp", "plain", "unreal", "ue"},
				},
			},
		},
	}
}

// queryClassesTool returns the tool definition for query_classes
func queryClassesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "query_classes",
		Description: "Search indexed classes by name substring",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to an indexed project",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Class name substring to search for",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     20,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"path", "query"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query indexing status and statistics for a scanned project",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the project root",
				},
			},
			Required: []string{"path"},
		},
	}
}
