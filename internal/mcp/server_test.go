package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdrscan/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	server, err := NewServer(t.TempDir(), config.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.storage.Close() })
	return server
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultJSON(t *testing.T, res *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "tool result should be text content")
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

func mcpErrorCode(t *testing.T, err error) int {
	t.Helper()
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	return mcpErr.Code
}

func writeHeaderTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	src := `#pragma once
namespace ui {
class Widget {
public:
	Widget();
	int Size() const;
};
}
`
	require.NoError(t, os.MkdirAll(filepath.Join(root, "include"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "include", "widget.h"), []byte(src), 0o644))
	return root
}

func TestServer_Initialization(t *testing.T) {
	server := newTestServer(t)
	assert.NotNil(t, server.mcp)
	assert.NotNil(t, server.storage)
	assert.NotNil(t, server.indexer)
	assert.NotNil(t, server.cfg)
}

func TestHandleIndexHeaders_EndToEnd(t *testing.T) {
	server := newTestServer(t)
	root := writeHeaderTree(t)
	ctx := context.Background()

	res, err := server.handleIndexHeaders(ctx, toolRequest(map[string]interface{}{
		"path": root,
	}))
	require.NoError(t, err)
	response := resultJSON(t, res)
	assert.Equal(t, true, response["indexed"])
	assert.Equal(t, float64(1), response["files_indexed"])
	assert.Equal(t, float64(1), response["classes_stored"])

	// get_status sees the indexed project.
	res, err = server.handleGetStatus(ctx, toolRequest(map[string]interface{}{
		"path": root,
	}))
	require.NoError(t, err)
	response = resultJSON(t, res)
	assert.Equal(t, true, response["indexed"])
	statistics := response["statistics"].(map[string]interface{})
	assert.Equal(t, float64(1), statistics["files_count"])
	assert.Equal(t, float64(1), statistics["classes_count"])

	// query_classes finds the stored class.
	res, err = server.handleQueryClasses(ctx, toolRequest(map[string]interface{}{
		"path":  root,
		"query": "Widg",
	}))
	require.NoError(t, err)
	response = resultJSON(t, res)
	assert.Equal(t, float64(1), response["count"])
	results := response["results"].([]interface{})
	first := results[0].(map[string]interface{})
	assert.Equal(t, "Widget", first["name"])
	assert.Equal(t, "ui", first["namespace"])
	assert.Equal(t, "include/widget.h", first["file"])
}

func TestHandleIndexHeaders_Validation(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	_, err := server.handleIndexHeaders(ctx, toolRequest(map[string]interface{}{}))
	assert.Equal(t, ErrorCodeInvalidParams, mcpErrorCode(t, err))

	_, err = server.handleIndexHeaders(ctx, toolRequest(map[string]interface{}{
		"path": "relative/path",
	}))
	assert.Equal(t, ErrorCodeInvalidParams, mcpErrorCode(t, err))

	// A directory without headers is a distinct error.
	_, err = server.handleIndexHeaders(ctx, toolRequest(map[string]interface{}{
		"path": t.TempDir(),
	}))
	assert.Equal(t, ErrorCodeNoHeaders, mcpErrorCode(t, err))

	root := writeHeaderTree(t)
	_, err = server.handleIndexHeaders(ctx, toolRequest(map[string]interface{}{
		"path":    root,
		"dialect": "qt",
	}))
	assert.Equal(t, ErrorCodeInvalidParams, mcpErrorCode(t, err))
}

func TestHandleIndexHeaders_LockHeld(t *testing.T) {
	server := newTestServer(t)
	root := writeHeaderTree(t)

	require.True(t, server.lock.TryAcquire())
	defer server.lock.Release()

	_, err := server.handleIndexHeaders(context.Background(), toolRequest(map[string]interface{}{
		"path": root,
	}))
	assert.Equal(t, ErrorCodeIndexingInProgress, mcpErrorCode(t, err))
}

func TestHandleParseHeader_Source(t *testing.T) {
	server := newTestServer(t)

	res, err := server.handleParseHeader(context.Background(), toolRequest(map[string]interface{}{
		"source":  "UCLASS()\nclass AThing : public AActor {\n\tGENERATED_BODY()\n};\n",
		"dialect": "unreal",
	}))
	require.NoError(t, err)
	response := resultJSON(t, res)
	assert.Equal(t, "unreal", response["dialect"])
	classes := response["classes"].([]interface{})
	require.Len(t, classes, 1)
	first := classes[0].(map[string]interface{})
	assert.Equal(t, "AThing", first["name"])
	assert.Equal(t, "UCLASS()", first["annotation"])
}

func TestHandleParseHeader_Path(t *testing.T) {
	server := newTestServer(t)
	path := filepath.Join(t.TempDir(), "widget.h")
	require.NoError(t, os.WriteFile(path, []byte("class Widget {};\n"), 0o644))

	res, err := server.handleParseHeader(context.Background(), toolRequest(map[string]interface{}{
		"path": path,
	}))
	require.NoError(t, err)
	response := resultJSON(t, res)
	classes := response["classes"].([]interface{})
	require.Len(t, classes, 1)
}

func TestHandleParseHeader_Errors(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	// Neither or both of path and source.
	_, err := server.handleParseHeader(ctx, toolRequest(map[string]interface{}{}))
	assert.Equal(t, ErrorCodeInvalidParams, mcpErrorCode(t, err))
	_, err = server.handleParseHeader(ctx, toolRequest(map[string]interface{}{
		"path":   "/tmp/a.h",
		"source": "class A {};",
	}))
	assert.Equal(t, ErrorCodeInvalidParams, mcpErrorCode(t, err))

	_, err = server.handleParseHeader(ctx, toolRequest(map[string]interface{}{
		"source": "class Broken { @@@ };",
	}))
	assert.Equal(t, ErrorCodeParseFailed, mcpErrorCode(t, err))
}

func TestHandleQueryClasses_NotIndexed(t *testing.T) {
	server := newTestServer(t)

	_, err := server.handleQueryClasses(context.Background(), toolRequest(map[string]interface{}{
		"path":  t.TempDir(),
		"query": "Widget",
	}))
	assert.Equal(t, ErrorCodeNotIndexed, mcpErrorCode(t, err))
}

func TestHandleGetStatus_NotIndexed(t *testing.T) {
	server := newTestServer(t)

	res, err := server.handleGetStatus(context.Background(), toolRequest(map[string]interface{}{
		"path": t.TempDir(),
	}))
	require.NoError(t, err)
	response := resultJSON(t, res)
	assert.Equal(t, false, response["indexed"])
}
