package storage

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdrscan/internal/cppparse"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	t.Helper()
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func testProject(t *testing.T, s *SQLiteStorage) *Project {
	t.Helper()
	project := &Project{
		RootPath:     t.TempDir(),
		Dialect:      "cpp",
		IndexVersion: "1.0.0",
	}
	require.NoError(t, s.CreateProject(context.Background(), project))
	return project
}

func testFile(t *testing.T, s *SQLiteStorage, projectID int64, path string) *File {
	t.Helper()
	file := &File{
		ProjectID:   projectID,
		FilePath:    path,
		ContentHash: sha256.Sum256([]byte(path)),
		ModTime:     time.Now(),
		SizeBytes:   128,
	}
	require.NoError(t, s.UpsertFile(context.Background(), file))
	return file
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	assert.NotNil(t, storage.db)
}

func TestCreateAndGetProject(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := testProject(t, storage)
	assert.NotZero(t, project.ID)

	got, err := storage.GetProject(ctx, project.RootPath)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)
	assert.Equal(t, "cpp", got.Dialect)
}

func TestGetProjectNotFound(t *testing.T) {
	storage := setupTestDB(t)

	_, err := storage.GetProject(context.Background(), "/does/not/exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProject(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := testProject(t, storage)
	project.TotalFiles = 7
	project.TotalClasses = 21
	project.LastIndexedAt = time.Now()
	require.NoError(t, storage.UpdateProject(ctx, project))

	got, err := storage.GetProject(ctx, project.RootPath)
	require.NoError(t, err)
	assert.Equal(t, 7, got.TotalFiles)
	assert.Equal(t, 21, got.TotalClasses)
	assert.False(t, got.LastIndexedAt.IsZero())
}

func TestUpsertFile(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := testProject(t, storage)
	file := testFile(t, storage, project.ID, "include/widget.h")
	firstID := file.ID

	// Upserting the same path keeps the row and updates the hash.
	file.ContentHash = sha256.Sum256([]byte("changed"))
	require.NoError(t, storage.UpsertFile(ctx, file))
	assert.Equal(t, firstID, file.ID)

	got, err := storage.GetFile(ctx, project.ID, "include/widget.h")
	require.NoError(t, err)
	assert.Equal(t, file.ContentHash, got.ContentHash)
}

func TestListFiles(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := testProject(t, storage)
	testFile(t, storage, project.ID, "b.h")
	testFile(t, storage, project.ID, "a.h")

	files, err := storage.ListFiles(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.h", files[0].FilePath)
	assert.Equal(t, "b.h", files[1].FilePath)
}

func TestDeleteFileCascades(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := testProject(t, storage)
	file := testFile(t, storage, project.ID, "widget.h")

	class := &Class{FileID: file.ID, Name: "Widget"}
	require.NoError(t, storage.InsertClass(ctx, class))
	require.NoError(t, storage.InsertMethod(ctx, &Method{
		ClassID: &class.ID, FileID: file.ID, Name: "Show", Access: "public",
	}))

	require.NoError(t, storage.DeleteFile(ctx, file.ID))

	classes, err := storage.ListClassesByFile(ctx, file.ID)
	require.NoError(t, err)
	assert.Empty(t, classes)
	methods, err := storage.ListMethodsByClass(ctx, class.ID)
	require.NoError(t, err)
	assert.Empty(t, methods)
}

func TestClassRoundTrip(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := testProject(t, storage)
	file := testFile(t, storage, project.ID, "actor.h")

	class := &Class{
		FileID:     file.ID,
		Name:       "AMyActor",
		Namespace:  "game",
		API:        "ENGINE_API",
		Annotation: "UCLASS(Blueprintable)",
		Parents:    "public AActor",
	}
	require.NoError(t, storage.InsertClass(ctx, class))
	assert.NotZero(t, class.ID)

	classes, err := storage.ListClassesByFile(ctx, file.ID)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "AMyActor", classes[0].Name)
	assert.Equal(t, "game", classes[0].Namespace)
	assert.Equal(t, "UCLASS(Blueprintable)", classes[0].Annotation)
	assert.Equal(t, "public AActor", classes[0].Parents)
}

func TestSearchClasses(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := testProject(t, storage)
	file := testFile(t, storage, project.ID, "widgets.h")
	for _, name := range []string{"Widget", "WidgetFactory", "Button"} {
		require.NoError(t, storage.InsertClass(ctx, &Class{FileID: file.ID, Name: name}))
	}

	found, err := storage.SearchClasses(ctx, project.ID, "Widget", 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Widget", found[0].Name)
	assert.Equal(t, "WidgetFactory", found[1].Name)

	found, err = storage.SearchClasses(ctx, project.ID, "Widget", 1)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestMethodsAndMembers(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := testProject(t, storage)
	file := testFile(t, storage, project.ID, "widget.h")
	class := &Class{FileID: file.ID, Name: "Widget"}
	require.NoError(t, storage.InsertClass(ctx, class))

	require.NoError(t, storage.InsertMethod(ctx, &Method{
		ClassID:    &class.ID,
		FileID:     file.ID,
		Name:       "Tick",
		Access:     "public",
		Signature:  "Tick(float dt)",
		IsVirtual:  true,
		Special:    "pure_virtual",
		Annotation: "UFUNCTION()",
	}))
	require.NoError(t, storage.InsertMember(ctx, &Member{
		ClassID:      &class.ID,
		FileID:       file.ID,
		Name:         "speed_",
		Access:       "private",
		Type:         "float",
		DefaultValue: "0",
	}))

	methods, err := storage.ListMethodsByClass(ctx, class.ID)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.True(t, methods[0].IsVirtual)
	assert.Equal(t, "pure_virtual", methods[0].Special)

	members, err := storage.ListMembersByClass(ctx, class.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "float", members[0].Type)
	assert.Equal(t, "0", members[0].DefaultValue)
}

func TestIncludes(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := testProject(t, storage)
	file := testFile(t, storage, project.ID, "widget.h")

	require.NoError(t, storage.InsertInclude(ctx, &Include{FileID: file.ID, Path: "vector", Angled: true}))
	require.NoError(t, storage.InsertInclude(ctx, &Include{FileID: file.ID, Path: "util/strings.h"}))

	includes, err := storage.ListIncludesByFile(ctx, file.ID)
	require.NoError(t, err)
	require.Len(t, includes, 2)
	assert.True(t, includes[0].Angled)
	assert.False(t, includes[1].Angled)

	require.NoError(t, storage.DeleteIncludesByFile(ctx, file.ID))
	includes, err = storage.ListIncludesByFile(ctx, file.ID)
	require.NoError(t, err)
	assert.Empty(t, includes)
}

func TestTransactionRollback(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := testProject(t, storage)
	file := testFile(t, storage, project.ID, "widget.h")

	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertClass(ctx, &Class{FileID: file.ID, Name: "Ghost"}))
	require.NoError(t, tx.Rollback())

	classes, err := storage.ListClassesByFile(ctx, file.ID)
	require.NoError(t, err)
	assert.Empty(t, classes)
}

func TestTransactionCommit(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := testProject(t, storage)
	file := testFile(t, storage, project.ID, "widget.h")

	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertClass(ctx, &Class{FileID: file.ID, Name: "Kept"}))
	require.NoError(t, tx.Commit())

	classes, err := storage.ListClassesByFile(ctx, file.ID)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "Kept", classes[0].Name)
}

func TestGetStatus(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := testProject(t, storage)
	file := testFile(t, storage, project.ID, "widget.h")
	class := &Class{FileID: file.ID, Name: "Widget"}
	require.NoError(t, storage.InsertClass(ctx, class))
	require.NoError(t, storage.InsertMethod(ctx, &Method{ClassID: &class.ID, FileID: file.ID, Name: "Show"}))

	status, err := storage.GetStatus(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.FilesCount)
	assert.Equal(t, 1, status.ClassesCount)
	assert.Equal(t, 1, status.MethodsCount)
	assert.Equal(t, 0, status.MembersCount)
	assert.True(t, status.Health.DatabaseAccessible)
}

func TestFromASTClass(t *testing.T) {
	h, err := cppparse.ParseHeader(`class ENGINE_API Widget : public Base {
	public:
		virtual void Tick(float dt) = 0;
	private:
		float speed_ = 0;
	};`, cppparse.Plain())
	require.NoError(t, err)
	require.Len(t, h.Classes, 1)

	class, methods, members := FromASTClass(42, "game", &h.Classes[0])
	assert.Equal(t, int64(42), class.FileID)
	assert.Equal(t, "Widget", class.Name)
	assert.Equal(t, "game", class.Namespace)
	assert.Equal(t, "ENGINE_API", class.API)
	assert.Equal(t, "public Base", class.Parents)

	require.Len(t, methods, 1)
	assert.Equal(t, "Tick", methods[0].Name)
	assert.Equal(t, "public", methods[0].Access)
	assert.Equal(t, "Tick(float dt)", methods[0].Signature)
	assert.True(t, methods[0].IsVirtual)
	assert.Equal(t, "pure_virtual", methods[0].Special)

	require.Len(t, members, 1)
	assert.Equal(t, "speed_", members[0].Name)
	assert.Equal(t, "private", members[0].Access)
	assert.Equal(t, "float", members[0].Type)
	assert.Equal(t, "0", members[0].DefaultValue)
}

func TestFromASTClass_AccessOrder(t *testing.T) {
	h, err := cppparse.ParseHeader(`class Widget {
	private:
		void Hide();
		int hidden_;
	public:
		void Show();
		int shown_;
	};`, cppparse.Plain())
	require.NoError(t, err)
	require.Len(t, h.Classes, 1)

	// Rows come out public before private regardless of source order, so
	// repeated conversions insert in the same order.
	_, methods, members := FromASTClass(1, "", &h.Classes[0])
	require.Len(t, methods, 2)
	assert.Equal(t, "Show", methods[0].Name)
	assert.Equal(t, "public", methods[0].Access)
	assert.Equal(t, "Hide", methods[1].Name)
	assert.Equal(t, "private", methods[1].Access)

	require.Len(t, members, 2)
	assert.Equal(t, "shown_", members[0].Name)
	assert.Equal(t, "hidden_", members[1].Name)
}
