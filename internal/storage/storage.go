package storage

import (
	"context"
	"strings"
	"time"

	"hdrscan/pkg/cppast"
)

// Storage defines the interface for persisting and querying scanned header data
type Storage interface {
	// Project operations
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, rootPath string) (*Project, error)
	UpdateProject(ctx context.Context, project *Project) error

	// File operations
	UpsertFile(ctx context.Context, file *File) error
	GetFile(ctx context.Context, projectID int64, filePath string) (*File, error)
	GetFileByID(ctx context.Context, fileID int64) (*File, error)
	DeleteFile(ctx context.Context, fileID int64) error
	ListFiles(ctx context.Context, projectID int64) ([]*File, error)

	// Class operations
	InsertClass(ctx context.Context, class *Class) error
	ListClassesByFile(ctx context.Context, fileID int64) ([]*Class, error)
	DeleteClassesByFile(ctx context.Context, fileID int64) error
	SearchClasses(ctx context.Context, projectID int64, query string, limit int) ([]*Class, error)

	// Method and member operations
	InsertMethod(ctx context.Context, method *Method) error
	ListMethodsByClass(ctx context.Context, classID int64) ([]*Method, error)
	DeleteMethodsByFile(ctx context.Context, fileID int64) error
	InsertMember(ctx context.Context, member *Member) error
	ListMembersByClass(ctx context.Context, classID int64) ([]*Member, error)
	DeleteMembersByFile(ctx context.Context, fileID int64) error

	// Include operations
	InsertInclude(ctx context.Context, include *Include) error
	ListIncludesByFile(ctx context.Context, fileID int64) ([]*Include, error)
	DeleteIncludesByFile(ctx context.Context, fileID int64) error

	// Status operations
	GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Project represents one scanned C++ source tree
type Project struct {
	ID            int64
	RootPath      string
	Dialect       string
	TotalFiles    int
	TotalClasses  int
	IndexVersion  string
	LastIndexedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// File represents a tracked header file
type File struct {
	ID            int64
	ProjectID     int64
	FilePath      string // Relative to project root
	ContentHash   [32]byte
	ModTime       time.Time
	SizeBytes     int64
	ParseError    *string // Nullable
	LastIndexedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Class represents one class or struct declaration. Parents holds the
// rendered inheritance list; Namespace the enclosing namespace path.
type Class struct {
	ID         int64
	FileID     int64
	Name       string
	Namespace  string
	API        string
	Annotation string
	Parents    string
	CreatedAt  time.Time
}

// Method represents one method or free-function signature. Type expressions
// are stored rendered; the AST is not round-tripped through the database.
type Method struct {
	ID         int64
	ClassID    *int64 // Nullable for free functions
	FileID     int64
	Name       string
	Access     string
	ReturnType string
	Signature  string
	IsVirtual  bool
	IsStatic   bool
	IsConst    bool
	Special    string
	Comment    string
	Annotation string
	CreatedAt  time.Time
}

// Member represents one data member or free variable
type Member struct {
	ID           int64
	ClassID      *int64 // Nullable for free variables
	FileID       int64
	Name         string
	Access       string
	Type         string
	DefaultValue string
	Comment      string
	Annotation   string
	CreatedAt    time.Time
}

// Include represents one #include directive
type Include struct {
	ID        int64
	FileID    int64
	Path      string
	Angled    bool
	CreatedAt time.Time
}

// ProjectStatus contains statistics about a scanned project
type ProjectStatus struct {
	Project       *Project
	FilesCount    int
	ClassesCount  int
	MethodsCount  int
	MembersCount  int
	IndexSizeMB   float64
	LastIndexedAt time.Time
	Health        HealthStatus
}

// HealthStatus represents the health of the index
type HealthStatus struct {
	DatabaseAccessible bool
	FTSIndexesBuilt    bool
}

// FromASTClass flattens one parsed class into storage rows. Nested classes
// are flattened with their qualified name; namespace is the enclosing
// namespace path.
func FromASTClass(fileID int64, namespace string, c *cppast.Class) (*Class, []*Method, []*Member) {
	row := &Class{
		FileID:     fileID,
		Name:       c.Name,
		Namespace:  namespace,
		API:        c.API,
		Annotation: c.Annotation,
		Parents:    renderParents(c.Parents),
	}
	// Fixed access order keeps row insertion deterministic across runs.
	var methods []*Method
	for _, access := range cppast.AccessLevels {
		ms := c.Methods[access]
		for i := range ms {
			methods = append(methods, FromASTMethod(fileID, &ms[i], string(access)))
		}
	}
	var members []*Member
	for _, access := range cppast.AccessLevels {
		ms := c.Members[access]
		for i := range ms {
			members = append(members, FromASTMember(fileID, &ms[i], string(access)))
		}
	}
	return row, methods, members
}

// FromASTMethod converts one parsed method to its storage row. ClassID is
// filled in by the caller once the class row exists.
func FromASTMethod(fileID int64, m *cppast.Method, access string) *Method {
	ret := ""
	if m.Return != nil {
		ret = m.Return.String()
	}
	return &Method{
		FileID:     fileID,
		Name:       m.Name,
		Access:     access,
		ReturnType: ret,
		Signature:  renderSignature(m),
		IsVirtual:  m.IsVirtual(),
		IsStatic:   m.IsStatic(),
		IsConst:    m.IsConst(),
		Special:    string(m.Special),
		Comment:    m.Comment,
		Annotation: m.Annotation,
	}
}

// FromASTMember converts one parsed member to its storage row.
func FromASTMember(fileID int64, m *cppast.Member, access string) *Member {
	def := ""
	if m.Default != nil {
		def = m.Default.String()
	}
	return &Member{
		FileID:       fileID,
		Name:         m.Name,
		Access:       access,
		Type:         m.Type.String(),
		DefaultValue: def,
		Comment:      m.Comment,
		Annotation:   m.Annotation,
	}
}

func renderParents(parents []cppast.Parent) string {
	if len(parents) == 0 {
		return ""
	}
	parts := make([]string, len(parents))
	for i, p := range parents {
		if p.Access != cppast.AccessNone {
			parts[i] = string(p.Access) + " " + p.Type.String()
		} else {
			parts[i] = p.Type.String()
		}
	}
	return strings.Join(parts, ", ")
}

func renderSignature(m *cppast.Method) string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		s := p.Type.String()
		if p.Name != "" {
			s += " " + p.Name
		}
		if p.Default != nil {
			s += " = " + p.Default.String()
		}
		params[i] = s
	}
	return m.Name + "(" + strings.Join(params, ", ") + ")"
}
