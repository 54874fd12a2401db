package filecache

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven/mocks"
)

const testCourseID = int64(42)

func newTestSyncer(t *testing.T, store *mocks.MockFileStore) (*Syncer, *atomic.Int64) {
	t.Helper()

	var downloads atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downloads.Add(1)
		fmt.Fprint(w, "file-bytes")
	}))
	t.Cleanup(server.Close)

	syncer, err := NewSyncer(SyncerConfig{
		Store:       store,
		CacheDir:    t.TempDir(),
		AccessToken: "test-token",
		HTTPClient:  server.Client(),
	})
	if err != nil {
		t.Fatalf("create syncer: %v", err)
	}
	t.Cleanup(func() { syncer.Close() })

	// Point every stored file at the test server
	files, _ := store.FilesByCourse(context.Background(), testCourseID)
	for i := range files {
		files[i].URL = server.URL + fmt.Sprintf("/files/%d", files[i].ID)
	}
	_ = store.ReplaceTree(context.Background(), testCourseID, nil, files)

	return syncer, &downloads
}

func seedFiles(t *testing.T, ids ...int64) *mocks.MockFileStore {
	t.Helper()

	store := mocks.NewMockFileStore()
	files := make([]domain.File, 0, len(ids))
	for _, id := range ids {
		files = append(files, domain.File{
			ID:          id,
			CourseID:    testCourseID,
			DisplayName: fmt.Sprintf("handout-%d.pdf", id),
			UpdatedAt:   time.Now().Add(-time.Hour),
		})
	}
	if err := store.ReplaceTree(context.Background(), testCourseID, nil, files); err != nil {
		t.Fatalf("seed files: %v", err)
	}
	return store
}

func fullSyncSettings() *domain.SyncSettings {
	return &domain.SyncSettings{CourseID: testCourseID, FullFileSync: true}
}

func TestSyncCourseFiles_DownloadsSelected(t *testing.T) {
	store := seedFiles(t, 1, 2, 3)
	syncer, downloads := newTestSyncer(t, store)

	settings := &domain.SyncSettings{CourseID: testCourseID, FileIDs: []int64{1, 3}}
	if err := syncer.SyncCourseFiles(context.Background(), settings); err != nil {
		t.Fatalf("sync files: %v", err)
	}

	if got := downloads.Load(); got != 2 {
		t.Errorf("expected 2 downloads, got %d", got)
	}

	var entry cacheEntry
	if !syncer.getEntry(bucketFiles, "1", &entry) {
		t.Fatal("expected cache entry for file 1")
	}
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		t.Fatalf("read cached file: %v", err)
	}
	if string(data) != "file-bytes" {
		t.Errorf("unexpected cached content %q", data)
	}
	if filepath.Base(entry.Path) != "handout-1.pdf" {
		t.Errorf("expected display name in cache path, got %s", entry.Path)
	}
}

func TestSyncCourseFiles_FullSync(t *testing.T) {
	store := seedFiles(t, 1, 2, 3)
	syncer, downloads := newTestSyncer(t, store)

	if err := syncer.SyncCourseFiles(context.Background(), fullSyncSettings()); err != nil {
		t.Fatalf("sync files: %v", err)
	}
	if got := downloads.Load(); got != 3 {
		t.Errorf("expected 3 downloads, got %d", got)
	}
}

func TestSyncCourseFiles_SkipsCurrentFiles(t *testing.T) {
	store := seedFiles(t, 1)
	syncer, downloads := newTestSyncer(t, store)
	ctx := context.Background()

	if err := syncer.SyncCourseFiles(ctx, fullSyncSettings()); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if err := syncer.SyncCourseFiles(ctx, fullSyncSettings()); err != nil {
		t.Fatalf("second sync: %v", err)
	}

	if got := downloads.Load(); got != 1 {
		t.Errorf("expected unchanged file skipped on rerun, got %d downloads", got)
	}
}

func TestSyncCourseFiles_RefetchesUpdatedFile(t *testing.T) {
	store := seedFiles(t, 1)
	syncer, downloads := newTestSyncer(t, store)
	ctx := context.Background()

	if err := syncer.SyncCourseFiles(ctx, fullSyncSettings()); err != nil {
		t.Fatalf("first sync: %v", err)
	}

	// Bump the remote timestamp
	files, _ := store.FilesByCourse(ctx, testCourseID)
	files[0].UpdatedAt = time.Now().Add(time.Hour)
	_ = store.ReplaceTree(ctx, testCourseID, nil, files)

	if err := syncer.SyncCourseFiles(ctx, fullSyncSettings()); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if got := downloads.Load(); got != 2 {
		t.Errorf("expected updated file refetched, got %d downloads", got)
	}
}

func TestSyncCourseFiles_NothingSelected(t *testing.T) {
	store := seedFiles(t, 1, 2)
	syncer, downloads := newTestSyncer(t, store)

	settings := &domain.SyncSettings{CourseID: testCourseID}
	if err := syncer.SyncCourseFiles(context.Background(), settings); err != nil {
		t.Fatalf("sync files: %v", err)
	}
	if got := downloads.Load(); got != 0 {
		t.Errorf("expected no downloads, got %d", got)
	}
}

func TestSyncCourseFiles_ReportsFailures(t *testing.T) {
	store := seedFiles(t, 1)
	syncer, _ := newTestSyncer(t, store)

	// Break the URL so the download fails
	files, _ := store.FilesByCourse(context.Background(), testCourseID)
	files[0].URL = "http://127.0.0.1:1/unreachable"
	_ = store.ReplaceTree(context.Background(), testCourseID, nil, files)

	err := syncer.SyncCourseFiles(context.Background(), fullSyncSettings())
	if err == nil {
		t.Error("expected error when downloads fail")
	}
}

func TestSyncAdditional_FetchesReferencedFiles(t *testing.T) {
	store := seedFiles(t, 5)
	syncer, downloads := newTestSyncer(t, store)

	err := syncer.SyncAdditional(context.Background(), testCourseID, []int64{5}, nil)
	if err != nil {
		t.Fatalf("sync additional: %v", err)
	}
	if got := downloads.Load(); got != 1 {
		t.Errorf("expected 1 download, got %d", got)
	}
}

func TestSyncAdditional_SkipsUnknownFiles(t *testing.T) {
	store := seedFiles(t)
	syncer, downloads := newTestSyncer(t, store)

	// A file referenced in HTML but deleted remotely is not an error
	err := syncer.SyncAdditional(context.Background(), testCourseID, []int64{999}, nil)
	if err != nil {
		t.Fatalf("sync additional: %v", err)
	}
	if got := downloads.Load(); got != 0 {
		t.Errorf("expected no downloads, got %d", got)
	}
}

// wrappingFileStore wraps lookup errors the way a caching layer might.
type wrappingFileStore struct {
	driven.FileStore
}

func (s wrappingFileStore) FileByID(ctx context.Context, fileID int64) (*domain.File, error) {
	file, err := s.FileStore.FileByID(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("file %d: %w", fileID, err)
	}
	return file, nil
}

func TestSyncAdditional_SkipsWrappedNotFound(t *testing.T) {
	store := seedFiles(t)

	syncer, err := NewSyncer(SyncerConfig{
		Store:    wrappingFileStore{FileStore: store},
		CacheDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("create syncer: %v", err)
	}
	t.Cleanup(func() { syncer.Close() })

	if err := syncer.SyncAdditional(context.Background(), testCourseID, []int64{999}, nil); err != nil {
		t.Fatalf("wrapped not-found must still be skipped: %v", err)
	}
}

func TestSyncAdditional_CachesExternalURLs(t *testing.T) {
	store := seedFiles(t)
	syncer, _ := newTestSyncer(t, store)

	var hits atomic.Int64
	external := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, "external-bytes")
	}))
	defer external.Close()

	ctx := context.Background()
	url := external.URL + "/reading"

	if err := syncer.SyncAdditional(ctx, testCourseID, nil, []string{url}); err != nil {
		t.Fatalf("sync additional: %v", err)
	}

	// Cached external content is not refetched
	if err := syncer.SyncAdditional(ctx, testCourseID, nil, []string{url}); err != nil {
		t.Fatalf("second sync additional: %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("expected 1 external fetch, got %d", got)
	}
}

func TestSyncAdditional_ExternalFailureReported(t *testing.T) {
	store := seedFiles(t)
	syncer, _ := newTestSyncer(t, store)

	err := syncer.SyncAdditional(context.Background(), testCourseID, nil, []string{"http://127.0.0.1:1/down"})
	if err == nil {
		t.Error("expected error for unreachable external URL")
	}
}
