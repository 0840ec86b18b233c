// Package mcp implements the MCP server surface of hdrscan.
//
// The server speaks the Model Context Protocol over stdio and exposes four
// tools:
//
//   - index_headers: scan a C++ source tree, parse every header under the
//     configured dialect, and store the declarations in the index database.
//     Scans are incremental by content hash; force_reindex rebuilds.
//     Concurrent invocations are rejected with ErrorCodeIndexingInProgress.
//
//   - parse_header: parse one header, given by path or inline source, and
//     return its structure as JSON without touching the index.
//
//   - query_classes: substring search over indexed class names, returning
//     name, namespace, annotation, inheritance, and file path.
//
//   - get_status: indexing statistics and health for a scanned project.
//
// Parameters are validated before any work happens; failures are returned
// as JSON-RPC errors with the codes defined in tools.go. Tool results are
// indented JSON in a single text content block.
//
// The server holds one SQLite database for every scanned project, located
// under DefaultDBPath unless overridden by configuration or the
// HDRSCAN_DB_PATH environment variable. stdout is reserved for the MCP
// protocol; anything else the process logs goes to stderr.
package mcp
