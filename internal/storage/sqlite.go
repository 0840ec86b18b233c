package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error   { return t.tx.Commit() }
func (t *sqliteTx) Rollback() error { return t.tx.Rollback() }

// Project operations

func (s *SQLiteStorage) createProjectWithQuerier(ctx context.Context, q querier, project *Project) error {
	query := `
		INSERT INTO projects (root_path, dialect, index_version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		project.RootPath, project.Dialect, project.IndexVersion, now, now)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	project.ID = id
	project.CreatedAt = now
	project.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) CreateProject(ctx context.Context, project *Project) error {
	return s.createProjectWithQuerier(ctx, s.db, project)
}

func (t *sqliteTx) CreateProject(ctx context.Context, project *Project) error {
	return t.storage.createProjectWithQuerier(ctx, t.tx, project)
}

func (s *SQLiteStorage) getProjectWithQuerier(ctx context.Context, q querier, rootPath string) (*Project, error) {
	query := `
		SELECT id, root_path, dialect, total_files, total_classes,
		       index_version, last_indexed_at, created_at, updated_at
		FROM projects
		WHERE root_path = ?
	`
	var project Project
	var lastIndexedAt sql.NullTime
	err := q.QueryRowContext(ctx, query, rootPath).Scan(
		&project.ID, &project.RootPath, &project.Dialect,
		&project.TotalFiles, &project.TotalClasses, &project.IndexVersion,
		&lastIndexedAt, &project.CreatedAt, &project.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastIndexedAt.Valid {
		project.LastIndexedAt = lastIndexedAt.Time
	}
	return &project, nil
}

func (s *SQLiteStorage) GetProject(ctx context.Context, rootPath string) (*Project, error) {
	return s.getProjectWithQuerier(ctx, s.db, rootPath)
}

func (t *sqliteTx) GetProject(ctx context.Context, rootPath string) (*Project, error) {
	return t.storage.getProjectWithQuerier(ctx, t.tx, rootPath)
}

func (s *SQLiteStorage) updateProjectWithQuerier(ctx context.Context, q querier, project *Project) error {
	query := `
		UPDATE projects
		SET dialect = ?, total_files = ?, total_classes = ?,
		    last_indexed_at = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	_, err := q.ExecContext(ctx, query,
		project.Dialect, project.TotalFiles, project.TotalClasses,
		project.LastIndexedAt, now, project.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	project.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpdateProject(ctx context.Context, project *Project) error {
	return s.updateProjectWithQuerier(ctx, s.db, project)
}

func (t *sqliteTx) UpdateProject(ctx context.Context, project *Project) error {
	return t.storage.updateProjectWithQuerier(ctx, t.tx, project)
}

// File operations

func (s *SQLiteStorage) upsertFileWithQuerier(ctx context.Context, q querier, file *File) error {
	query := `
		INSERT INTO files (project_id, file_path, content_hash, mod_time, size_bytes, parse_error, last_indexed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, file_path) DO UPDATE SET
			content_hash = excluded.content_hash,
			mod_time = excluded.mod_time,
			size_bytes = excluded.size_bytes,
			parse_error = excluded.parse_error,
			last_indexed_at = excluded.last_indexed_at,
			updated_at = excluded.updated_at
		RETURNING id
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		file.ProjectID, file.FilePath, file.ContentHash[:],
		file.ModTime, file.SizeBytes, file.ParseError, now, now, now).Scan(&file.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert file: %w", err)
	}
	file.LastIndexedAt = now
	file.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertFile(ctx context.Context, file *File) error {
	return s.upsertFileWithQuerier(ctx, s.db, file)
}

func (t *sqliteTx) UpsertFile(ctx context.Context, file *File) error {
	return t.storage.upsertFileWithQuerier(ctx, t.tx, file)
}

const fileColumns = `id, project_id, file_path, content_hash, mod_time, size_bytes, parse_error, last_indexed_at, created_at, updated_at`

func scanFile(row interface{ Scan(...interface{}) error }) (*File, error) {
	var f File
	var hash []byte
	var modTime, lastIndexedAt sql.NullTime
	err := row.Scan(
		&f.ID, &f.ProjectID, &f.FilePath, &hash, &modTime,
		&f.SizeBytes, &f.ParseError, &lastIndexedAt, &f.CreatedAt, &f.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	copy(f.ContentHash[:], hash)
	if modTime.Valid {
		f.ModTime = modTime.Time
	}
	if lastIndexedAt.Valid {
		f.LastIndexedAt = lastIndexedAt.Time
	}
	return &f, nil
}

func (s *SQLiteStorage) getFileWithQuerier(ctx context.Context, q querier, projectID int64, filePath string) (*File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE project_id = ? AND file_path = ?`
	return scanFile(q.QueryRowContext(ctx, query, projectID, filePath))
}

func (s *SQLiteStorage) GetFile(ctx context.Context, projectID int64, filePath string) (*File, error) {
	return s.getFileWithQuerier(ctx, s.db, projectID, filePath)
}

func (t *sqliteTx) GetFile(ctx context.Context, projectID int64, filePath string) (*File, error) {
	return t.storage.getFileWithQuerier(ctx, t.tx, projectID, filePath)
}

func (s *SQLiteStorage) getFileByIDWithQuerier(ctx context.Context, q querier, fileID int64) (*File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = ?`
	return scanFile(q.QueryRowContext(ctx, query, fileID))
}

func (s *SQLiteStorage) GetFileByID(ctx context.Context, fileID int64) (*File, error) {
	return s.getFileByIDWithQuerier(ctx, s.db, fileID)
}

func (t *sqliteTx) GetFileByID(ctx context.Context, fileID int64) (*File, error) {
	return t.storage.getFileByIDWithQuerier(ctx, t.tx, fileID)
}

func (s *SQLiteStorage) deleteFileWithQuerier(ctx context.Context, q querier, fileID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) DeleteFile(ctx context.Context, fileID int64) error {
	return s.deleteFileWithQuerier(ctx, s.db, fileID)
}

func (t *sqliteTx) DeleteFile(ctx context.Context, fileID int64) error {
	return t.storage.deleteFileWithQuerier(ctx, t.tx, fileID)
}

func (s *SQLiteStorage) listFilesWithQuerier(ctx context.Context, q querier, projectID int64) ([]*File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE project_id = ? ORDER BY file_path`
	rows, err := q.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var files []*File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *SQLiteStorage) ListFiles(ctx context.Context, projectID int64) ([]*File, error) {
	return s.listFilesWithQuerier(ctx, s.db, projectID)
}

func (t *sqliteTx) ListFiles(ctx context.Context, projectID int64) ([]*File, error) {
	return t.storage.listFilesWithQuerier(ctx, t.tx, projectID)
}

// Class operations

func (s *SQLiteStorage) insertClassWithQuerier(ctx context.Context, q querier, class *Class) error {
	query := `
		INSERT INTO classes (file_id, name, namespace, api, annotation, parents, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		class.FileID, class.Name, class.Namespace, class.API,
		class.Annotation, class.Parents, now)
	if err != nil {
		return fmt.Errorf("failed to insert class: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	class.ID = id
	class.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) InsertClass(ctx context.Context, class *Class) error {
	return s.insertClassWithQuerier(ctx, s.db, class)
}

func (t *sqliteTx) InsertClass(ctx context.Context, class *Class) error {
	return t.storage.insertClassWithQuerier(ctx, t.tx, class)
}

const classColumns = `id, file_id, name, namespace, api, annotation, parents, created_at`

func scanClasses(rows *sql.Rows) ([]*Class, error) {
	var classes []*Class
	for rows.Next() {
		var c Class
		if err := rows.Scan(&c.ID, &c.FileID, &c.Name, &c.Namespace,
			&c.API, &c.Annotation, &c.Parents, &c.CreatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, &c)
	}
	return classes, rows.Err()
}

func (s *SQLiteStorage) listClassesByFileWithQuerier(ctx context.Context, q querier, fileID int64) ([]*Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE file_id = ? ORDER BY id`
	rows, err := q.QueryContext(ctx, query, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanClasses(rows)
}

func (s *SQLiteStorage) ListClassesByFile(ctx context.Context, fileID int64) ([]*Class, error) {
	return s.listClassesByFileWithQuerier(ctx, s.db, fileID)
}

func (t *sqliteTx) ListClassesByFile(ctx context.Context, fileID int64) ([]*Class, error) {
	return t.storage.listClassesByFileWithQuerier(ctx, t.tx, fileID)
}

func (s *SQLiteStorage) deleteClassesByFileWithQuerier(ctx context.Context, q querier, fileID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM classes WHERE file_id = ?`, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete classes: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) DeleteClassesByFile(ctx context.Context, fileID int64) error {
	return s.deleteClassesByFileWithQuerier(ctx, s.db, fileID)
}

func (t *sqliteTx) DeleteClassesByFile(ctx context.Context, fileID int64) error {
	return t.storage.deleteClassesByFileWithQuerier(ctx, t.tx, fileID)
}

func (s *SQLiteStorage) searchClassesWithQuerier(ctx context.Context, q querier, projectID int64, search string, limit int) ([]*Class, error) {
	if limit <= 0 {
		limit = 20
	}
	// LIKE over the name keeps substring semantics; FTS would tokenize
	// CamelCase identifiers apart.
	query := `
		SELECT c.id, c.file_id, c.name, c.namespace, c.api, c.annotation, c.parents, c.created_at
		FROM classes c
		JOIN files f ON f.id = c.file_id
		WHERE f.project_id = ? AND c.name LIKE ?
		ORDER BY c.name
		LIMIT ?
	`
	rows, err := q.QueryContext(ctx, query, projectID, "%"+search+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search classes: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanClasses(rows)
}

func (s *SQLiteStorage) SearchClasses(ctx context.Context, projectID int64, search string, limit int) ([]*Class, error) {
	return s.searchClassesWithQuerier(ctx, s.db, projectID, search, limit)
}

func (t *sqliteTx) SearchClasses(ctx context.Context, projectID int64, search string, limit int) ([]*Class, error) {
	return t.storage.searchClassesWithQuerier(ctx, t.tx, projectID, search, limit)
}

// Method operations

func (s *SQLiteStorage) insertMethodWithQuerier(ctx context.Context, q querier, method *Method) error {
	query := `
		INSERT INTO methods (class_id, file_id, name, access, return_type, signature,
		                     is_virtual, is_static, is_const, special, comment, annotation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		method.ClassID, method.FileID, method.Name, method.Access,
		method.ReturnType, method.Signature, method.IsVirtual, method.IsStatic,
		method.IsConst, method.Special, method.Comment, method.Annotation, now)
	if err != nil {
		return fmt.Errorf("failed to insert method: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	method.ID = id
	method.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) InsertMethod(ctx context.Context, method *Method) error {
	return s.insertMethodWithQuerier(ctx, s.db, method)
}

func (t *sqliteTx) InsertMethod(ctx context.Context, method *Method) error {
	return t.storage.insertMethodWithQuerier(ctx, t.tx, method)
}

func (s *SQLiteStorage) listMethodsByClassWithQuerier(ctx context.Context, q querier, classID int64) ([]*Method, error) {
	query := `
		SELECT id, class_id, file_id, name, access, return_type, signature,
		       is_virtual, is_static, is_const, special, comment, annotation, created_at
		FROM methods WHERE class_id = ? ORDER BY id
	`
	rows, err := q.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to list methods: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var methods []*Method
	for rows.Next() {
		var m Method
		if err := rows.Scan(&m.ID, &m.ClassID, &m.FileID, &m.Name, &m.Access,
			&m.ReturnType, &m.Signature, &m.IsVirtual, &m.IsStatic, &m.IsConst,
			&m.Special, &m.Comment, &m.Annotation, &m.CreatedAt); err != nil {
			return nil, err
		}
		methods = append(methods, &m)
	}
	return methods, rows.Err()
}

func (s *SQLiteStorage) ListMethodsByClass(ctx context.Context, classID int64) ([]*Method, error) {
	return s.listMethodsByClassWithQuerier(ctx, s.db, classID)
}

func (t *sqliteTx) ListMethodsByClass(ctx context.Context, classID int64) ([]*Method, error) {
	return t.storage.listMethodsByClassWithQuerier(ctx, t.tx, classID)
}

func (s *SQLiteStorage) deleteMethodsByFileWithQuerier(ctx context.Context, q querier, fileID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM methods WHERE file_id = ?`, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete methods: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) DeleteMethodsByFile(ctx context.Context, fileID int64) error {
	return s.deleteMethodsByFileWithQuerier(ctx, s.db, fileID)
}

func (t *sqliteTx) DeleteMethodsByFile(ctx context.Context, fileID int64) error {
	return t.storage.deleteMethodsByFileWithQuerier(ctx, t.tx, fileID)
}

// Member operations

func (s *SQLiteStorage) insertMemberWithQuerier(ctx context.Context, q querier, member *Member) error {
	query := `
		INSERT INTO members (class_id, file_id, name, access, type, default_value, comment, annotation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		member.ClassID, member.FileID, member.Name, member.Access,
		member.Type, member.DefaultValue, member.Comment, member.Annotation, now)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	member.ID = id
	member.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) InsertMember(ctx context.Context, member *Member) error {
	return s.insertMemberWithQuerier(ctx, s.db, member)
}

func (t *sqliteTx) InsertMember(ctx context.Context, member *Member) error {
	return t.storage.insertMemberWithQuerier(ctx, t.tx, member)
}

func (s *SQLiteStorage) listMembersByClassWithQuerier(ctx context.Context, q querier, classID int64) ([]*Member, error) {
	query := `
		SELECT id, class_id, file_id, name, access, type, default_value, comment, annotation, created_at
		FROM members WHERE class_id = ? ORDER BY id
	`
	rows, err := q.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var members []*Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.ClassID, &m.FileID, &m.Name, &m.Access,
			&m.Type, &m.DefaultValue, &m.Comment, &m.Annotation, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}

func (s *SQLiteStorage) ListMembersByClass(ctx context.Context, classID int64) ([]*Member, error) {
	return s.listMembersByClassWithQuerier(ctx, s.db, classID)
}

func (t *sqliteTx) ListMembersByClass(ctx context.Context, classID int64) ([]*Member, error) {
	return t.storage.listMembersByClassWithQuerier(ctx, t.tx, classID)
}

func (s *SQLiteStorage) deleteMembersByFileWithQuerier(ctx context.Context, q querier, fileID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM members WHERE file_id = ?`, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete members: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) DeleteMembersByFile(ctx context.Context, fileID int64) error {
	return s.deleteMembersByFileWithQuerier(ctx, s.db, fileID)
}

func (t *sqliteTx) DeleteMembersByFile(ctx context.Context, fileID int64) error {
	return t.storage.deleteMembersByFileWithQuerier(ctx, t.tx, fileID)
}

// Include operations

func (s *SQLiteStorage) insertIncludeWithQuerier(ctx context.Context, q querier, include *Include) error {
	query := `INSERT INTO includes (file_id, path, angled, created_at) VALUES (?, ?, ?, ?)`
	now := time.Now()
	result, err := q.ExecContext(ctx, query, include.FileID, include.Path, include.Angled, now)
	if err != nil {
		return fmt.Errorf("failed to insert include: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	include.ID = id
	include.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) InsertInclude(ctx context.Context, include *Include) error {
	return s.insertIncludeWithQuerier(ctx, s.db, include)
}

func (t *sqliteTx) InsertInclude(ctx context.Context, include *Include) error {
	return t.storage.insertIncludeWithQuerier(ctx, t.tx, include)
}

func (s *SQLiteStorage) listIncludesByFileWithQuerier(ctx context.Context, q querier, fileID int64) ([]*Include, error) {
	query := `SELECT id, file_id, path, angled, created_at FROM includes WHERE file_id = ? ORDER BY id`
	rows, err := q.QueryContext(ctx, query, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list includes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var includes []*Include
	for rows.Next() {
		var inc Include
		if err := rows.Scan(&inc.ID, &inc.FileID, &inc.Path, &inc.Angled, &inc.CreatedAt); err != nil {
			return nil, err
		}
		includes = append(includes, &inc)
	}
	return includes, rows.Err()
}

func (s *SQLiteStorage) ListIncludesByFile(ctx context.Context, fileID int64) ([]*Include, error) {
	return s.listIncludesByFileWithQuerier(ctx, s.db, fileID)
}

func (t *sqliteTx) ListIncludesByFile(ctx context.Context, fileID int64) ([]*Include, error) {
	return t.storage.listIncludesByFileWithQuerier(ctx, t.tx, fileID)
}

func (s *SQLiteStorage) deleteIncludesByFileWithQuerier(ctx context.Context, q querier, fileID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM includes WHERE file_id = ?`, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete includes: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) DeleteIncludesByFile(ctx context.Context, fileID int64) error {
	return s.deleteIncludesByFileWithQuerier(ctx, s.db, fileID)
}

func (t *sqliteTx) DeleteIncludesByFile(ctx context.Context, fileID int64) error {
	return t.storage.deleteIncludesByFileWithQuerier(ctx, t.tx, fileID)
}

// Status operations

func (s *SQLiteStorage) getStatusWithQuerier(ctx context.Context, q querier, projectID int64) (*ProjectStatus, error) {
	var project Project
	var lastIndexedAt sql.NullTime
	err := q.QueryRowContext(ctx, `
		SELECT id, root_path, dialect, total_files, total_classes,
		       index_version, last_indexed_at, created_at, updated_at
		FROM projects WHERE id = ?
	`, projectID).Scan(
		&project.ID, &project.RootPath, &project.Dialect,
		&project.TotalFiles, &project.TotalClasses, &project.IndexVersion,
		&lastIndexedAt, &project.CreatedAt, &project.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastIndexedAt.Valid {
		project.LastIndexedAt = lastIndexedAt.Time
	}

	status := &ProjectStatus{
		Project:       &project,
		LastIndexedAt: project.LastIndexedAt,
		Health: HealthStatus{
			DatabaseAccessible: true,
			FTSIndexesBuilt:    true,
		},
	}

	counts := map[string]*int{
		`SELECT COUNT(*) FROM files WHERE project_id = ?`:                                   &status.FilesCount,
		`SELECT COUNT(*) FROM classes c JOIN files f ON f.id = c.file_id WHERE f.project_id = ?`: &status.ClassesCount,
		`SELECT COUNT(*) FROM methods m JOIN files f ON f.id = m.file_id WHERE f.project_id = ?`: &status.MethodsCount,
		`SELECT COUNT(*) FROM members m JOIN files f ON f.id = m.file_id WHERE f.project_id = ?`: &status.MembersCount,
	}
	for query, dst := range counts {
		if err := q.QueryRowContext(ctx, query, projectID).Scan(dst); err != nil {
			return nil, fmt.Errorf("failed to count rows: %w", err)
		}
	}

	if info, err := os.Stat(s.dbPath); err == nil {
		status.IndexSizeMB = float64(info.Size()) / (1024 * 1024)
	}

	return status, nil
}

func (s *SQLiteStorage) GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error) {
	return s.getStatusWithQuerier(ctx, s.db, projectID)
}

func (t *sqliteTx) GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error) {
	return t.storage.getStatusWithQuerier(ctx, t.tx, projectID)
}

// Close on a transaction is a no-op; the owning storage closes the database.
func (t *sqliteTx) Close() error { return nil }

// BeginTx on a transaction is invalid; nested transactions are not supported.
func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	return nil, errors.New("nested transactions are not supported")
}
