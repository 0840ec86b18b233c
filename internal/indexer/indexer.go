package indexer

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"

	"hdrscan/internal/cppparse"
	"hdrscan/internal/storage"
	"hdrscan/pkg/cppast"
)

// headerExtensions lists the file suffixes treated as C++ headers.
var headerExtensions = []string{".h", ".hpp", ".hh", ".hxx"}

// Indexer coordinates the scanning pipeline: discover -> parse -> store
type Indexer struct {
	storage storage.Storage

	// Worker pool configuration
	workers int
}

// Config contains configuration for one scan
type Config struct {
	Dialect         cppparse.Dialect
	Workers         int      // Number of concurrent workers (default: runtime.NumCPU())
	BatchSize       int      // Number of files to commit per transaction (default: 20)
	Force           bool     // Re-parse files even when the content hash is unchanged
	IncludePatterns []string // Glob patterns relative to the root; empty means all headers
	ExcludePatterns []string // Glob patterns to skip
}

// Statistics contains statistics about one scan
type Statistics struct {
	FilesIndexed  int
	FilesSkipped  int
	FilesFailed   int
	ClassesStored int
	MethodsStored int
	Duration      time.Duration
	ErrorMessages []string
}

// New creates a new Indexer instance
func New(store storage.Storage) *Indexer {
	return &Indexer{
		storage: store,
		workers: runtime.NumCPU(),
	}
}

// IndexTree scans every header under rootPath into storage.
func (idx *Indexer) IndexTree(ctx context.Context, rootPath string, config *Config) (*Statistics, error) {
	if config == nil {
		config = &Config{Dialect: cppparse.Plain()}
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	idx.workers = config.Workers

	startTime := time.Now()
	stats := &Statistics{
		ErrorMessages: make([]string, 0),
	}

	project, err := idx.getOrCreateProject(ctx, rootPath, config.Dialect.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create project: %w", err)
	}

	files, err := idx.discoverHeaders(rootPath, config)
	if err != nil {
		return nil, fmt.Errorf("failed to discover headers: %w", err)
	}

	if err := idx.indexFiles(ctx, project, files, config, stats); err != nil {
		return nil, fmt.Errorf("failed to index headers: %w", err)
	}

	if err := idx.updateProjectStats(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project stats: %w", err)
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}

// getOrCreateProject retrieves an existing project or creates a new one
func (idx *Indexer) getOrCreateProject(ctx context.Context, rootPath, dialect string) (*storage.Project, error) {
	project, err := idx.storage.GetProject(ctx, rootPath)
	if err == nil {
		if project.Dialect != dialect {
			project.Dialect = dialect
			if err := idx.storage.UpdateProject(ctx, project); err != nil {
				return nil, err
			}
		}
		return project, nil
	}

	if err != storage.ErrNotFound {
		return nil, err
	}

	project = &storage.Project{
		RootPath:     rootPath,
		Dialect:      dialect,
		IndexVersion: storage.CurrentSchemaVersion,
	}
	if err := idx.storage.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// discoverHeaders finds all header files under the root, applying the
// configured include and exclude globs to root-relative paths.
func (idx *Indexer) discoverHeaders(rootPath string, config *Config) ([]string, error) {
	include, err := compileGlobs(config.IncludePatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern: %w", err)
	}
	exclude, err := compileGlobs(config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}

	var files []string
	err = filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories
			if strings.HasPrefix(info.Name(), ".") && path != rootPath {
				return filepath.SkipDir
			}
			return nil
		}
		if !isHeaderFile(path) {
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if len(include) > 0 && !matchAny(include, relPath) {
			return nil
		}
		if matchAny(exclude, relPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

func isHeaderFile(path string) bool {
	ext := filepath.Ext(path)
	for _, h := range headerExtensions {
		if ext == h {
			return true
		}
	}
	return false
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func matchAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// indexFiles indexes the discovered headers concurrently, one transaction
// per batch.
func (idx *Indexer) indexFiles(ctx context.Context, project *storage.Project, files []string, config *Config, stats *Statistics) error {
	semaphore := make(chan struct{}, idx.workers)

	// Track progress with atomic counters
	var (
		indexed int32
		skipped int32
		failed  int32
		classes int32
		methods int32
	)

	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex // Protect stats.ErrorMessages

	for i := 0; i < len(files); i += batchSize {
		end := i + batchSize
		if end > len(files) {
			end = len(files)
		}
		batch := files[i:end]

		g.Go(func() error {
			return idx.indexBatch(gctx, project, batch, config, semaphore,
				&indexed, &skipped, &failed, &classes, &methods, &mu, stats)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	stats.FilesIndexed = int(indexed)
	stats.FilesSkipped = int(skipped)
	stats.FilesFailed = int(failed)
	stats.ClassesStored = int(classes)
	stats.MethodsStored = int(methods)

	return nil
}

// indexBatch indexes a batch of headers within one transaction
func (idx *Indexer) indexBatch(ctx context.Context, project *storage.Project, files []string,
	config *Config, semaphore chan struct{},
	indexed, skipped, failed, classes, methods *int32,
	mu *sync.Mutex, stats *Statistics) error {

	tx, err := idx.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, filePath := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case semaphore <- struct{}{}:
			// Acquire semaphore
		}

		err := idx.indexFile(ctx, tx, project, filePath, config, indexed, skipped, failed, classes, methods)
		<-semaphore // Release semaphore

		if err != nil {
			atomic.AddInt32(failed, 1)
			mu.Lock()
			stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", filePath, err))
			mu.Unlock()
			// Continue with other files
			continue
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// indexFile parses one header and stores its declarations. A parse failure
// is recorded on the file row, not returned: a broken header should not
// abort the scan.
func (idx *Indexer) indexFile(ctx context.Context, store storage.Storage, project *storage.Project,
	filePath string, config *Config, indexed, skipped, failed, classes, methods *int32) error {

	relPath, err := filepath.Rel(project.RootPath, filePath)
	if err != nil {
		return err
	}
	relPath = filepath.ToSlash(relPath)

	hash, modTime, sizeBytes, err := computeFileHash(filePath)
	if err != nil {
		return err
	}

	shouldSkip, err := idx.checkFileChanged(ctx, store, project.ID, relPath, hash, config.Force, skipped)
	if err != nil {
		return err
	}
	if shouldSkip {
		return nil
	}

	source, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	file := &storage.File{
		ProjectID:   project.ID,
		FilePath:    relPath,
		ContentHash: hash,
		ModTime:     modTime,
		SizeBytes:   sizeBytes,
	}

	header, parseErr := cppparse.ParseHeader(string(source), config.Dialect)
	if parseErr != nil {
		errMsg := parseErr.Error()
		file.ParseError = &errMsg
	}

	if err := store.UpsertFile(ctx, file); err != nil {
		return err
	}

	if parseErr != nil {
		atomic.AddInt32(failed, 1)
		return nil
	}

	classCount, methodCount, err := idx.storeHeader(ctx, store, file.ID, header)
	if err != nil {
		return err
	}

	atomic.AddInt32(indexed, 1)
	atomic.AddInt32(classes, int32(classCount))
	atomic.AddInt32(methods, int32(methodCount))

	return nil
}

// storeHeader flattens one parsed header into storage rows. Namespaces
// flatten to a :: path on each class; nested classes carry their outer
// class's qualified name.
func (idx *Indexer) storeHeader(ctx context.Context, store storage.Storage, fileID int64, header *cppast.Header) (int, int, error) {
	for _, inc := range header.Includes {
		record := &storage.Include{FileID: fileID, Path: inc.Path, Angled: inc.Angled}
		if err := store.InsertInclude(ctx, record); err != nil {
			return 0, 0, fmt.Errorf("failed to store include: %w", err)
		}
	}

	classCount, methodCount := 0, 0

	var storeClass func(namespace string, c *cppast.Class) error
	storeClass = func(namespace string, c *cppast.Class) error {
		row, classMethods, classMembers := storage.FromASTClass(fileID, namespace, c)
		if err := store.InsertClass(ctx, row); err != nil {
			return fmt.Errorf("failed to store class: %w", err)
		}
		classCount++

		for _, m := range classMethods {
			m.ClassID = &row.ID
			if err := store.InsertMethod(ctx, m); err != nil {
				return fmt.Errorf("failed to store method: %w", err)
			}
			methodCount++
		}
		for _, m := range classMembers {
			m.ClassID = &row.ID
			if err := store.InsertMember(ctx, m); err != nil {
				return fmt.Errorf("failed to store member: %w", err)
			}
		}

		qualified := c.Name
		if namespace != "" {
			qualified = namespace + "::" + c.Name
		}
		for _, access := range cppast.AccessLevels {
			nested := c.Nested[access]
			for i := range nested {
				if err := storeClass(qualified, &nested[i]); err != nil {
					return err
				}
			}
		}
		return nil
	}

	storeFree := func(functions []cppast.Method, variables []cppast.Member) error {
		for i := range functions {
			m := storage.FromASTMethod(fileID, &functions[i], "")
			if err := store.InsertMethod(ctx, m); err != nil {
				return fmt.Errorf("failed to store function: %w", err)
			}
			methodCount++
		}
		for i := range variables {
			m := storage.FromASTMember(fileID, &variables[i], "")
			if err := store.InsertMember(ctx, m); err != nil {
				return fmt.Errorf("failed to store variable: %w", err)
			}
		}
		return nil
	}

	for i := range header.Classes {
		if err := storeClass("", &header.Classes[i]); err != nil {
			return classCount, methodCount, err
		}
	}
	if err := storeFree(header.Functions, header.Variables); err != nil {
		return classCount, methodCount, err
	}

	var walkNS func(prefix string, ns *cppast.Namespace) error
	walkNS = func(prefix string, ns *cppast.Namespace) error {
		path := ns.Name
		if prefix != "" {
			path = prefix + "::" + ns.Name
		}
		for i := range ns.Classes {
			if err := storeClass(path, &ns.Classes[i]); err != nil {
				return err
			}
		}
		if err := storeFree(ns.Functions, ns.Variables); err != nil {
			return err
		}
		for i := range ns.Namespaces {
			if err := walkNS(path, &ns.Namespaces[i]); err != nil {
				return err
			}
		}
		return nil
	}
	for i := range header.Namespaces {
		if err := walkNS("", &header.Namespaces[i]); err != nil {
			return classCount, methodCount, err
		}
	}

	return classCount, methodCount, nil
}

// checkFileChanged checks if a file has changed and needs re-scanning
func (idx *Indexer) checkFileChanged(ctx context.Context, store storage.Storage, projectID int64,
	relPath string, hash [32]byte, force bool, skipped *int32) (bool, error) {

	existingFile, err := store.GetFile(ctx, projectID, relPath)
	if err == storage.ErrNotFound {
		// New file, needs scanning
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if existingFile.ContentHash == hash && !force {
		atomic.AddInt32(skipped, 1)
		return true, nil
	}

	// File changed (or force): drop its old rows before re-scanning.
	if err := store.DeleteClassesByFile(ctx, existingFile.ID); err != nil {
		return false, fmt.Errorf("failed to delete old classes: %w", err)
	}
	if err := store.DeleteMethodsByFile(ctx, existingFile.ID); err != nil {
		return false, fmt.Errorf("failed to delete old methods: %w", err)
	}
	if err := store.DeleteMembersByFile(ctx, existingFile.ID); err != nil {
		return false, fmt.Errorf("failed to delete old members: %w", err)
	}
	if err := store.DeleteIncludesByFile(ctx, existingFile.ID); err != nil {
		return false, fmt.Errorf("failed to delete old includes: %w", err)
	}

	return false, nil
}

// updateProjectStats updates the project's file and class counts
func (idx *Indexer) updateProjectStats(ctx context.Context, project *storage.Project) error {
	files, err := idx.storage.ListFiles(ctx, project.ID)
	if err != nil {
		return err
	}

	totalClasses := 0
	for _, file := range files {
		classes, err := idx.storage.ListClassesByFile(ctx, file.ID)
		if err != nil {
			return err
		}
		totalClasses += len(classes)
	}

	project.TotalFiles = len(files)
	project.TotalClasses = totalClasses
	project.LastIndexedAt = time.Now()

	return idx.storage.UpdateProject(ctx, project)
}

// computeFileHash computes SHA-256 hash of a file
func computeFileHash(filePath string) ([32]byte, time.Time, int64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return [32]byte{}, time.Time{}, 0, err
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return [32]byte{}, time.Time{}, 0, err
	}

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return [32]byte{}, time.Time{}, 0, err
	}

	var result [32]byte
	copy(result[:], hash.Sum(nil))

	return result, info.ModTime(), info.Size(), nil
}
