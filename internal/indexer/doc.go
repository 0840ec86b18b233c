// Package indexer coordinates the end-to-end scanning pipeline for C++
// header trees.
//
// The indexer discovers headers, decides which need re-parsing, runs the
// parser, and persists the flattened declarations, managing concurrency and
// per-batch transactions.
//
// # Basic Usage
//
//	idx := indexer.New(store)
//
//	stats, err := idx.IndexTree(ctx, "/path/to/project", &indexer.Config{
//	    Dialect: cppparse.Plain(),
//	})
//
//	fmt.Printf("Indexed %d headers in %v\n", stats.FilesIndexed, stats.Duration)
//
// # Pipeline
//
//  1. Discovery: walk the tree for .h/.hpp/.hh/.hxx files, apply the
//     include/exclude globs
//  2. Incremental decision: compare SHA-256 content hashes, skip unchanged
//     files unless forced
//  3. Parse: run the header parser under the configured dialect (parallel
//     across files; each parse is single-threaded)
//  4. Store: flatten classes, methods, members, and includes into SQLite in
//     per-batch transactions
//
// A header that fails to parse records the failure on its file row and does
// not abort the scan.
package indexer
