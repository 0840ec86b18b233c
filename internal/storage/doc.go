// Package storage provides SQLite-based persistence for scanned header data.
//
// The storage layer manages:
//   - Project metadata
//   - File paths and content hashes
//   - Classes with their inheritance lists and annotations
//   - Methods and data members, partitioned by access level
//   - Include directives
//   - FTS5 full-text index over class names
//
// # Database Schema
//
// Tables:
//   - projects: Project metadata (root path, dialect)
//   - files: File paths and SHA-256 hashes
//   - classes: Class and struct declarations
//   - methods: Method and free-function signatures
//   - members: Data members and free variables
//   - includes: #include directives
//   - classes_fts: FTS5 full-text search index
//
// Type expressions are stored rendered as text; the AST is not round-tripped
// through the database.
//
// # Transactions
//
// Use transactions for atomic per-file updates:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	tx.UpsertFile(ctx, file)
//	tx.DeleteClassesByFile(ctx, file.ID)
//	tx.InsertClass(ctx, class)
//
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//
// # Incremental Updates
//
// Compare the stored content hash against sha256 of the current file to skip
// unchanged headers.
//
// # Build Tags
//
// The storage package supports two build configurations:
//
// CGO build (cgo driver):
//
//	CGO_ENABLED=1 go build -tags "fts5"
//
// Pure Go build (purego tag, no C compiler needed):
//
//	CGO_ENABLED=0 go build -tags "purego"
package storage
