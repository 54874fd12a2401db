// Package filecache downloads course file binaries into a local cache
// directory, tracking what is already cached in a bbolt index so
// repeated sync runs only fetch what changed.
package filecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Bucket names
var (
	bucketFiles = []byte("files")
	bucketURLs  = []byte("urls")
)

// Verify interface compliance
var _ driven.FileSync = (*Syncer)(nil)

// cacheEntry is the bbolt index record for one cached download.
type cacheEntry struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
	CachedAt  time.Time `json:"cached_at"`
}

// Syncer implements FileSync over a local cache directory.
type Syncer struct {
	store       driven.FileStore
	db          *bolt.DB
	httpClient  *http.Client
	cacheDir    string
	accessToken string
	concurrency int
	logger      *slog.Logger
}

// SyncerConfig holds Syncer settings.
type SyncerConfig struct {
	// Store is the file metadata store populated by the sync run.
	Store driven.FileStore

	// CacheDir is the root directory for cached binaries and the index.
	CacheDir string

	// AccessToken authenticates download requests against the LMS.
	AccessToken string

	// Concurrency bounds parallel downloads (default 4).
	Concurrency int

	// HTTPClient overrides the default download client (mainly for tests).
	HTTPClient *http.Client

	Logger *slog.Logger
}

// NewSyncer creates a Syncer, opening (or creating) the cache index.
func NewSyncer(cfg SyncerConfig) (*Syncer, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("file store is required")
	}
	if cfg.CacheDir == "" {
		return nil, fmt.Errorf("cache dir is required")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 5 * time.Minute}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := bolt.Open(filepath.Join(cfg.CacheDir, "index.db"), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache index: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketFiles, bucketURLs} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create index buckets: %w", err)
	}

	return &Syncer{
		store:       cfg.Store,
		db:          db,
		httpClient:  cfg.HTTPClient,
		cacheDir:    cfg.CacheDir,
		accessToken: cfg.AccessToken,
		concurrency: cfg.Concurrency,
		logger:      cfg.Logger.With("component", "filecache"),
	}, nil
}

// Close closes the cache index.
func (s *Syncer) Close() error {
	return s.db.Close()
}

// SyncCourseFiles downloads the files covered by the settings, reading
// metadata from the already-snapshotted file tree. Files whose remote
// timestamp matches the cached copy are skipped.
func (s *Syncer) SyncCourseFiles(ctx context.Context, settings *domain.SyncSettings) error {
	files, err := s.store.FilesByCourse(ctx, settings.CourseID)
	if err != nil {
		return fmt.Errorf("list course files: %w", err)
	}

	var selected []domain.File
	for _, f := range files {
		if settings.FileSelected(f.ID) {
			selected = append(selected, f)
		}
	}
	if len(selected) == 0 {
		return nil
	}

	failed := s.downloadFiles(ctx, selected)
	if failed > 0 {
		return fmt.Errorf("%d of %d file downloads failed", failed, len(selected))
	}
	return nil
}

// SyncAdditional fetches files and external URLs discovered while
// rewriting HTML. Referenced files missing from the snapshot are
// skipped; they were deleted remotely after the content linked them.
func (s *Syncer) SyncAdditional(ctx context.Context, courseID int64, fileIDs []int64, urls []string) error {
	var files []domain.File
	for _, id := range fileIDs {
		file, err := s.store.FileByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Debug("referenced file not in snapshot", "course_id", courseID, "file_id", id)
				continue
			}
			return fmt.Errorf("look up file %d: %w", id, err)
		}
		files = append(files, *file)
	}

	failed := s.downloadFiles(ctx, files)

	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.downloadURL(ctx, courseID, u); err != nil {
			s.logger.Warn("external url fetch failed", "course_id", courseID, "url", u, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d supplementary downloads failed", failed)
	}
	return nil
}

// downloadFiles runs a bounded worker pool over the given files and
// returns the number of failures.
func (s *Syncer) downloadFiles(ctx context.Context, files []domain.File) int {
	if len(files) == 0 {
		return 0
	}

	jobs := make(chan domain.File)
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0

	workers := s.concurrency
	if workers > len(files) {
		workers = len(files)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				if err := s.downloadFile(ctx, file); err != nil {
					s.logger.Warn("file download failed",
						"course_id", file.CourseID, "file_id", file.ID, "error", err)
					mu.Lock()
					failed++
					mu.Unlock()
				}
			}
		}()
	}

	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		jobs <- file
	}
	close(jobs)
	wg.Wait()

	return failed
}

// downloadFile fetches one file unless the cached copy is current.
func (s *Syncer) downloadFile(ctx context.Context, file domain.File) error {
	key := strconv.FormatInt(file.ID, 10)

	var entry cacheEntry
	if s.getEntry(bucketFiles, key, &entry) && !file.UpdatedAt.After(entry.UpdatedAt) {
		if _, err := os.Stat(entry.Path); err == nil {
			return nil
		}
	}

	dir := filepath.Join(s.cacheDir, "files", strconv.FormatInt(file.CourseID, 10), key)
	path := filepath.Join(dir, sanitizeName(file.DisplayName))

	size, err := s.fetch(ctx, file.URL, path, true)
	if err != nil {
		return err
	}

	return s.putEntry(bucketFiles, key, cacheEntry{
		Path:      path,
		Size:      size,
		UpdatedAt: file.UpdatedAt,
		CachedAt:  time.Now(),
	})
}

// downloadURL caches one external URL, keyed by URL hash. External
// content has no version marker, so a cached copy is never refetched.
func (s *Syncer) downloadURL(ctx context.Context, courseID int64, rawURL string) error {
	hash := sha256.Sum256([]byte(rawURL))
	key := hex.EncodeToString(hash[:8])

	var entry cacheEntry
	if s.getEntry(bucketURLs, key, &entry) {
		if _, err := os.Stat(entry.Path); err == nil {
			return nil
		}
	}

	path := filepath.Join(s.cacheDir, "urls", strconv.FormatInt(courseID, 10), key)

	size, err := s.fetch(ctx, rawURL, path, false)
	if err != nil {
		return err
	}

	return s.putEntry(bucketURLs, key, cacheEntry{
		Path:     path,
		Size:     size,
		CachedAt: time.Now(),
	})
}

// fetch downloads a URL to the given path via a temp file rename, so a
// partial download never shadows a good cached copy.
func (s *Syncer) fetch(ctx context.Context, rawURL, path string, authenticated bool) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if authenticated && s.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.accessToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("create cache subdir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("write cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("move cache file: %w", err)
	}

	return size, nil
}

func (s *Syncer) getEntry(bucket []byte, key string, entry *cacheEntry) bool {
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		if json.Unmarshal(data, entry) == nil {
			found = true
		}
		return nil
	})
	return found
}

func (s *Syncer) putEntry(bucket []byte, key string, entry cacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

// sanitizeName strips path separators from a display name before it is
// used as a filename.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	if name == "" || name == "." || name == ".." {
		name = "file"
	}
	return name
}
