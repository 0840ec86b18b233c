//go:build cgo && !purego
// +build cgo,!purego

package storage

// This file is compiled when building with CGO. The C driver is faster and
// ships FTS5 behind the fts5 build tag.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "fts5" ./...
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
