package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Tab categories in execution order. Front page is not a unit of its own:
// it augments the Pages tab and runs right after it. The standalone
// Quizzes unit must stay behind Assignments so its delete+reinsert
// supersedes the assignment-embedded quiz set without racing it.
var categoryOrder = []domain.TabID{
	domain.TabPages,
	domain.TabAssignments,
	domain.TabSyllabus,
	domain.TabConferences,
	domain.TabDiscussions,
	domain.TabAnnouncements,
	domain.TabPeople,
	domain.TabQuizzes,
	domain.TabModules,
}

// SyncOrchestrator runs the offline sync job for a course:
//  1. Load sync settings (terminal failure if absent)
//  2. Fetch and persist course metadata (hard dependency)
//  3. Initialize the per-tab progress record
//  4. Snapshot the remote file/folder tree when file sync is requested
//  5. Run binary file sync and category content sync concurrently
//  6. Flush file/URL references discovered while rewriting HTML
//  7. Roll up overall progress
type SyncOrchestrator struct {
	api      driven.CourseAPI
	settings driven.SyncSettingsStore
	progress driven.SyncProgressStore

	courses     driven.CourseStore
	pages       driven.PageStore
	assignments driven.AssignmentStore
	quizzes     driven.QuizStore
	discussions driven.DiscussionStore
	conferences driven.ConferenceStore
	modules     driven.ModuleStore
	schedule    driven.ScheduleStore
	users       driven.CourseUserStore
	files       driven.FileStore

	rewriter driven.HTMLRewriter
	fileSync driven.FileSync
	lock     driven.DistributedLock
	reporter driven.ErrorReporter
	logger   *slog.Logger

	lockTTL time.Duration
}

// SyncOrchestratorConfig holds dependencies for SyncOrchestrator.
type SyncOrchestratorConfig struct {
	API      driven.CourseAPI
	Settings driven.SyncSettingsStore
	Progress driven.SyncProgressStore

	Courses     driven.CourseStore
	Pages       driven.PageStore
	Assignments driven.AssignmentStore
	Quizzes     driven.QuizStore
	Discussions driven.DiscussionStore
	Conferences driven.ConferenceStore
	Modules     driven.ModuleStore
	Schedule    driven.ScheduleStore
	Users       driven.CourseUserStore
	Files       driven.FileStore

	Rewriter driven.HTMLRewriter
	FileSync driven.FileSync
	Lock     driven.DistributedLock
	Reporter driven.ErrorReporter
	Logger   *slog.Logger

	// LockTTL bounds one run's hold on the per-course lock (default 10m)
	LockTTL time.Duration
}

// NewSyncOrchestrator creates a new sync orchestrator.
func NewSyncOrchestrator(cfg SyncOrchestratorConfig) *SyncOrchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lockTTL := cfg.LockTTL
	if lockTTL == 0 {
		lockTTL = 10 * time.Minute
	}

	return &SyncOrchestrator{
		api:         cfg.API,
		settings:    cfg.Settings,
		progress:    cfg.Progress,
		courses:     cfg.Courses,
		pages:       cfg.Pages,
		assignments: cfg.Assignments,
		quizzes:     cfg.Quizzes,
		discussions: cfg.Discussions,
		conferences: cfg.Conferences,
		modules:     cfg.Modules,
		schedule:    cfg.Schedule,
		users:       cfg.Users,
		files:       cfg.Files,
		rewriter:    cfg.Rewriter,
		fileSync:    cfg.FileSync,
		lock:        cfg.Lock,
		reporter:    cfg.Reporter,
		logger:      logger,
		lockTTL:     lockTTL,
	}
}

// syncRun is the mutable state of one sync run. The accumulator sets are
// append-only for the run's lifetime and shared by both top-level
// branches, so they take the run mutex. progressMu serializes the
// read-modify-write progress updates across branches.
type syncRun struct {
	courseID int64
	jobID    string
	settings *domain.SyncSettings
	course   *domain.Course

	mu         sync.Mutex
	extraFiles map[int64]struct{}
	extraURLs  map[string]struct{}

	// content already cached this run, to skip module-item re-fetches
	pageSlugs map[string]struct{}
	quizIDs   map[int64]struct{}

	progressMu sync.Mutex
}

func (r *syncRun) addFileRefs(ids []int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		r.extraFiles[id] = struct{}{}
	}
}

func (r *syncRun) addURLRefs(urls []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range urls {
		r.extraURLs[u] = struct{}{}
	}
}

func (r *syncRun) hasPage(slug string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.pageSlugs[slug]
	return ok
}

func (r *syncRun) markPage(slug string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pageSlugs[slug] = struct{}{}
}

func (r *syncRun) hasQuiz(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.quizIDs[id]
	return ok
}

func (r *syncRun) markQuiz(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quizIDs[id] = struct{}{}
}

func (r *syncRun) quizIDList() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.quizIDs))
	for id := range r.quizIDs {
		ids = append(ids, id)
	}
	return ids
}

// collect returns the accumulated file IDs and external URLs.
func (r *syncRun) collect() ([]int64, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.extraFiles))
	for id := range r.extraFiles {
		ids = append(ids, id)
	}
	urls := make([]string, 0, len(r.extraURLs))
	for u := range r.extraURLs {
		urls = append(urls, u)
	}
	return ids, urls
}

func courseLockName(courseID int64) string {
	return fmt.Sprintf("course-sync:%d", courseID)
}

// SyncCourse runs a full sync for one course. A missing settings record
// is terminal (ErrSettingsNotFound, no remote call made); a failed course
// metadata fetch propagates and aborts the run. Category failures are
// recorded in the progress record and do not fail the run.
func (o *SyncOrchestrator) SyncCourse(ctx context.Context, courseID int64) (*domain.SyncResult, error) {
	startTime := time.Now()
	jobID := domain.GenerateID()

	logger := o.logger.With("course_id", courseID, "job_id", jobID)
	logger.Info("starting course sync")

	settings, err := o.settings.ByCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("load sync settings: %w", err)
	}

	lockName := courseLockName(courseID)
	acquired, err := o.lock.Acquire(ctx, lockName, o.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire course lock: %w", err)
	}
	if !acquired {
		return nil, domain.ErrSyncInProgress
	}
	defer func() {
		if err := o.lock.Release(context.WithoutCancel(ctx), lockName); err != nil {
			logger.Warn("failed to release course lock", "error", err)
		}
	}()

	run := &syncRun{
		courseID:   courseID,
		jobID:      jobID,
		settings:   settings,
		extraFiles: make(map[int64]struct{}),
		extraURLs:  make(map[string]struct{}),
		pageSlugs:  make(map[string]struct{}),
		quizIDs:    make(map[int64]struct{}),
	}

	// Hard dependency: a failed course fetch aborts the whole run with
	// no progress finalization.
	if err := o.syncCourseRecord(ctx, run); err != nil {
		logger.Error("course metadata fetch failed", "error", err)
		return nil, fmt.Errorf("fetch course %d: %w", courseID, err)
	}

	if err := o.initProgress(ctx, run); err != nil {
		logger.Warn("failed to initialize sync progress", "error", err)
	}

	if settings.FileSyncRequested() {
		if err := o.snapshotFileTree(ctx, run); err != nil {
			logger.Error("file tree snapshot failed", "error", err)
			o.reportCategory(run, "files", err)
			o.markTabs(ctx, run, domain.SyncStateError, domain.TabFiles)
		}
	}

	// Two independent branches: binary file sync and category content
	// sync. They share no mutable state besides the run accumulators
	// and the persisted progress record.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		o.runFileBranch(ctx, run)
	}()
	go func() {
		defer wg.Done()
		o.syncContent(ctx, run)
	}()
	wg.Wait()

	o.flushAdditional(ctx, run)

	state := o.finalizeProgress(ctx, run)

	if err := o.settings.TouchSynced(ctx, courseID, time.Now()); err != nil {
		logger.Warn("failed to record sync time", "error", err)
	}

	duration := time.Since(startTime).Seconds()
	logger.Info("course sync finished", "state", state, "duration_seconds", duration)

	return &domain.SyncResult{
		CourseID: courseID,
		JobID:    jobID,
		State:    state,
		Duration: duration,
	}, nil
}

// syncCourseRecord fetches the course record (enrollments and syllabus
// included), rewrites the syllabus body and persists the course.
func (o *SyncOrchestrator) syncCourseRecord(ctx context.Context, run *syncRun) error {
	course, err := o.api.Courses.GetCourse(ctx, run.courseID)
	if err != nil {
		return err
	}

	if course.SyllabusBody != "" {
		body, err := o.rewriteHTML(ctx, run, course.SyllabusBody)
		if err != nil {
			return fmt.Errorf("rewrite syllabus: %w", err)
		}
		course.SyllabusBody = body
	}

	if err := o.courses.Upsert(ctx, course); err != nil {
		return fmt.Errorf("persist course: %w", err)
	}

	run.course = course
	return nil
}

// initProgress writes a fresh progress record: every tab both available
// on the course and selected in settings starts InProgress.
func (o *SyncOrchestrator) initProgress(ctx context.Context, run *syncRun) error {
	progress := domain.NewSyncProgress(run.courseID, run.jobID)
	progress.State = domain.SyncStateInProgress

	for _, tab := range append([]domain.TabID{domain.TabFiles}, categoryOrder...) {
		if run.settings.TabSelected(tab) && tabAvailable(run.course, tab) {
			progress.SetTabState(domain.SyncStateInProgress, tab)
		}
	}

	return o.progress.Save(ctx, progress)
}

// tabAvailable reports whether the course exposes the tab. Courses that
// return no tab list are treated as exposing everything.
func tabAvailable(course *domain.Course, tab domain.TabID) bool {
	if course == nil || len(course.Tabs) == 0 {
		return true
	}
	return course.HasTab(tab)
}

// snapshotFileTree replaces the cached folder/file metadata tree.
func (o *SyncOrchestrator) snapshotFileTree(ctx context.Context, run *syncRun) error {
	folders, err := depaginate(ctx, func(ctx context.Context, token driven.PageToken) ([]domain.Folder, driven.PageToken, error) {
		return o.api.Files.ListFolders(ctx, run.courseID, token)
	})
	if err != nil {
		return fmt.Errorf("list folders: %w", err)
	}

	files, err := depaginate(ctx, func(ctx context.Context, token driven.PageToken) ([]domain.File, driven.PageToken, error) {
		return o.api.Files.ListFiles(ctx, run.courseID, token)
	})
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}

	if err := o.files.ReplaceTree(ctx, run.courseID, folders, files); err != nil {
		return fmt.Errorf("replace file tree: %w", err)
	}
	return nil
}

// runFileBranch is the binary file-sync branch of the run.
func (o *SyncOrchestrator) runFileBranch(ctx context.Context, run *syncRun) {
	if !run.settings.FileSyncRequested() {
		if run.settings.TabSelected(domain.TabFiles) {
			// tab selected but no files requested: nothing to download
			o.markTabs(ctx, run, domain.SyncStateCompleted, domain.TabFiles)
			return
		}
		if err := o.files.DeleteByCourse(ctx, run.courseID); err != nil {
			o.logger.Warn("failed to clear file tree", "course_id", run.courseID, "error", err)
		}
		return
	}

	if err := o.fileSync.SyncCourseFiles(ctx, run.settings); err != nil {
		o.logger.Error("file sync failed", "course_id", run.courseID, "error", err)
		o.reportCategory(run, "files", err)
		o.markTabs(ctx, run, domain.SyncStateError, domain.TabFiles)
		return
	}
	if run.settings.TabSelected(domain.TabFiles) {
		o.markTabs(ctx, run, domain.SyncStateCompleted, domain.TabFiles)
	}
}

// categoryUnit is one independently wrapped unit of the content branch.
type categoryUnit struct {
	tab   domain.TabID
	fetch func(context.Context, *syncRun) error
	clean func(context.Context, *syncRun) error
}

// syncContent runs the category units sequentially. Cancellation is
// cooperative: the context is checked at each unit boundary only, so an
// in-flight fetch finishes but no further unit starts.
func (o *SyncOrchestrator) syncContent(ctx context.Context, run *syncRun) {
	units := []categoryUnit{
		{domain.TabPages, o.syncPages, o.cleanPages},
		{domain.TabAssignments, o.syncAssignments, o.cleanAssignments},
		{domain.TabSyllabus, o.syncSyllabus, o.cleanSyllabus},
		{domain.TabConferences, o.syncConferences, o.cleanConferences},
		{domain.TabDiscussions, o.syncDiscussions, o.cleanDiscussions},
		{domain.TabAnnouncements, o.syncAnnouncements, o.cleanAnnouncements},
		{domain.TabPeople, o.syncPeople, o.cleanPeople},
		{domain.TabQuizzes, o.syncQuizzes, o.cleanQuizzes},
		{domain.TabModules, o.syncModules, o.cleanModules},
	}

	lockName := courseLockName(run.courseID)

	for _, unit := range units {
		if ctx.Err() != nil {
			o.logger.Info("sync cancelled, skipping remaining categories",
				"course_id", run.courseID, "next_tab", unit.tab)
			return
		}

		if !tabAvailable(run.course, unit.tab) {
			continue
		}

		if !run.settings.TabSelected(unit.tab) {
			if err := unit.clean(ctx, run); err != nil {
				o.logger.Warn("failed to clear deselected category",
					"course_id", run.courseID, "tab", unit.tab, "error", err)
			}
			continue
		}

		if err := unit.fetch(ctx, run); err != nil {
			o.logger.Error("category sync failed",
				"course_id", run.courseID, "tab", unit.tab, "error", err)
			o.reportCategory(run, string(unit.tab), err)
			o.markTabs(ctx, run, domain.SyncStateError, unit.tab)
			continue
		}
		o.markTabs(ctx, run, domain.SyncStateCompleted, unit.tab)

		if err := o.lock.Extend(ctx, lockName, o.lockTTL); err != nil {
			o.logger.Warn("failed to extend course lock", "course_id", run.courseID, "error", err)
		}
	}
}

// syncPages fetches all wiki pages, rewrites their bodies and replaces
// the cached set, then augments it with the front page (best effort).
func (o *SyncOrchestrator) syncPages(ctx context.Context, run *syncRun) error {
	items, err := depaginate(ctx, func(ctx context.Context, token driven.PageToken) ([]domain.Page, driven.PageToken, error) {
		return o.api.Pages.ListPages(ctx, run.courseID, token)
	})
	if err != nil {
		return fmt.Errorf("list pages: %w", err)
	}

	for i := range items {
		body, err := o.rewriteHTML(ctx, run, items[i].Body)
		if err != nil {
			return fmt.Errorf("rewrite page %q: %w", items[i].URL, err)
		}
		items[i].Body = body
		items[i].CourseID = run.courseID
	}

	if err := o.pages.DeleteByCourse(ctx, run.courseID); err != nil {
		return fmt.Errorf("clear pages: %w", err)
	}
	if err := o.pages.InsertAll(ctx, items); err != nil {
		return fmt.Errorf("persist pages: %w", err)
	}
	for i := range items {
		run.markPage(items[i].URL)
	}

	// The front page augments the Pages tab rather than owning one, so
	// its failure is swallowed: logged and reported, never surfaced as
	// a tab state. It must run after the page set is rewritten because
	// the set is wiped first.
	o.syncFrontPage(ctx, run)
	return nil
}

func (o *SyncOrchestrator) syncFrontPage(ctx context.Context, run *syncRun) {
	front, err := o.api.Pages.GetFrontPage(ctx, run.courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return // course has no front page configured
		}
		o.logger.Warn("front page fetch failed", "course_id", run.courseID, "error", err)
		o.reportCategory(run, "front_page", err)
		return
	}

	body, err := o.rewriteHTML(ctx, run, front.Body)
	if err != nil {
		o.logger.Warn("front page rewrite failed", "course_id", run.courseID, "error", err)
		o.reportCategory(run, "front_page", err)
		return
	}
	front.Body = body
	front.CourseID = run.courseID
	front.FrontPage = true

	if err := o.pages.Upsert(ctx, front); err != nil {
		o.logger.Warn("front page persist failed", "course_id", run.courseID, "error", err)
		o.reportCategory(run, "front_page", err)
		return
	}
	run.markPage(front.URL)
}

func (o *SyncOrchestrator) cleanPages(ctx context.Context, run *syncRun) error {
	return o.pages.DeleteByCourse(ctx, run.courseID)
}

// syncAssignments fetches assignments and the quizzes embedded in
// quiz-backed assignments.
func (o *SyncOrchestrator) syncAssignments(ctx context.Context, run *syncRun) error {
	items, err := depaginate(ctx, func(ctx context.Context, token driven.PageToken) ([]domain.Assignment, driven.PageToken, error) {
		return o.api.Assignments.ListAssignments(ctx, run.courseID, token)
	})
	if err != nil {
		return fmt.Errorf("list assignments: %w", err)
	}

	var quizIDs []int64
	for i := range items {
		desc, err := o.rewriteHTML(ctx, run, items[i].Description)
		if err != nil {
			return fmt.Errorf("rewrite assignment %d: %w", items[i].ID, err)
		}
		items[i].Description = desc
		items[i].CourseID = run.courseID
		if items[i].QuizID != 0 {
			quizIDs = append(quizIDs, items[i].QuizID)
		}
	}

	if err := o.assignments.DeleteByCourse(ctx, run.courseID); err != nil {
		return fmt.Errorf("clear assignments: %w", err)
	}
	if err := o.assignments.InsertAll(ctx, items); err != nil {
		return fmt.Errorf("persist assignments: %w", err)
	}

	for _, quizID := range quizIDs {
		if err := o.cacheQuiz(ctx, run, quizID); err != nil {
			return fmt.Errorf("embedded quiz %d: %w", quizID, err)
		}
	}
	return nil
}

func (o *SyncOrchestrator) cleanAssignments(ctx context.Context, run *syncRun) error {
	return o.assignments.DeleteByCourse(ctx, run.courseID)
}

// cacheQuiz fetches and upserts a single quiz unless already cached this run.
func (o *SyncOrchestrator) cacheQuiz(ctx context.Context, run *syncRun, quizID int64) error {
	if run.hasQuiz(quizID) {
		return nil
	}
	quiz, err := o.api.Quizzes.GetQuiz(ctx, run.courseID, quizID)
	if err != nil {
		return err
	}
	desc, err := o.rewriteHTML(ctx, run, quiz.Description)
	if err != nil {
		return err
	}
	quiz.Description = desc
	quiz.CourseID = run.courseID
	if err := o.quizzes.Upsert(ctx, quiz); err != nil {
		return err
	}
	run.markQuiz(quizID)
	return nil
}

// syncSyllabus fetches the syllabus schedule: plain calendar events plus
// calendar-linked assignment entries.
func (o *SyncOrchestrator) syncSyllabus(ctx context.Context, run *syncRun) error {
	events, err := depaginate(ctx, func(ctx context.Context, token driven.PageToken) ([]domain.ScheduleItem, driven.PageToken, error) {
		return o.api.Schedule.ListScheduleItems(ctx, run.courseID, domain.ScheduleItemEvent, token)
	})
	if err != nil {
		return fmt.Errorf("list calendar events: %w", err)
	}

	linked, err := depaginate(ctx, func(ctx context.Context, token driven.PageToken) ([]domain.ScheduleItem, driven.PageToken, error) {
		return o.api.Schedule.ListScheduleItems(ctx, run.courseID, domain.ScheduleItemAssignment, token)
	})
	if err != nil {
		return fmt.Errorf("list calendar assignments: %w", err)
	}

	items := append(events, linked...)
	for i := range items {
		desc, err := o.rewriteHTML(ctx, run, items[i].Description)
		if err != nil {
			return fmt.Errorf("rewrite schedule item %d: %w", items[i].ID, err)
		}
		items[i].Description = desc
		items[i].CourseID = run.courseID
	}

	if err := o.schedule.DeleteByCourse(ctx, run.courseID); err != nil {
		return fmt.Errorf("clear schedule: %w", err)
	}
	if err := o.schedule.InsertAll(ctx, items); err != nil {
		return fmt.Errorf("persist schedule: %w", err)
	}
	return nil
}

func (o *SyncOrchestrator) cleanSyllabus(ctx context.Context, run *syncRun) error {
	return o.schedule.DeleteByCourse(ctx, run.courseID)
}

func (o *SyncOrchestrator) syncConferences(ctx context.Context, run *syncRun) error {
	items, err := depaginate(ctx, func(ctx context.Context, token driven.PageToken) ([]domain.Conference, driven.PageToken, error) {
		return o.api.Conferences.ListConferences(ctx, run.courseID, token)
	})
	if err != nil {
		return fmt.Errorf("list conferences: %w", err)
	}

	for i := range items {
		desc, err := o.rewriteHTML(ctx, run, items[i].Description)
		if err != nil {
			return fmt.Errorf("rewrite conference %d: %w", items[i].ID, err)
		}
		items[i].Description = desc
		items[i].CourseID = run.courseID
	}

	if err := o.conferences.DeleteByCourse(ctx, run.courseID); err != nil {
		return fmt.Errorf("clear conferences: %w", err)
	}
	if err := o.conferences.InsertAll(ctx, items); err != nil {
		return fmt.Errorf("persist conferences: %w", err)
	}
	return nil
}

func (o *SyncOrchestrator) cleanConferences(ctx context.Context, run *syncRun) error {
	return o.conferences.DeleteByCourse(ctx, run.courseID)
}

// syncDiscussions fetches discussion topics with their full entry trees,
// rewriting every message at every depth.
func (o *SyncOrchestrator) syncDiscussions(ctx context.Context, run *syncRun) error {
	listed, err := depaginate(ctx, func(ctx context.Context, token driven.PageToken) ([]domain.DiscussionTopic, driven.PageToken, error) {
		return o.api.Discussions.ListTopics(ctx, run.courseID, false, token)
	})
	if err != nil {
		return fmt.Errorf("list discussions: %w", err)
	}

	topics := make([]domain.DiscussionTopic, 0, len(listed))
	for _, t := range listed {
		full, err := o.api.Discussions.GetFullTopic(ctx, run.courseID, t.ID)
		if err != nil {
			return fmt.Errorf("fetch topic %d: %w", t.ID, err)
		}
		msg, err := o.rewriteHTML(ctx, run, full.Message)
		if err != nil {
			return fmt.Errorf("rewrite topic %d: %w", t.ID, err)
		}
		full.Message = msg
		if err := o.rewriteEntries(ctx, run, full.Entries); err != nil {
			return fmt.Errorf("rewrite topic %d entries: %w", t.ID, err)
		}
		full.CourseID = run.courseID
		topics = append(topics, *full)
	}

	if err := o.discussions.DeleteByCourse(ctx, run.courseID, false); err != nil {
		return fmt.Errorf("clear discussions: %w", err)
	}
	if err := o.discussions.InsertAll(ctx, topics); err != nil {
		return fmt.Errorf("persist discussions: %w", err)
	}
	return nil
}

// rewriteEntries walks a reply tree recursively, bounded only by the
// actual data depth.
func (o *SyncOrchestrator) rewriteEntries(ctx context.Context, run *syncRun, entries []domain.DiscussionEntry) error {
	for i := range entries {
		msg, err := o.rewriteHTML(ctx, run, entries[i].Message)
		if err != nil {
			return err
		}
		entries[i].Message = msg
		if err := o.rewriteEntries(ctx, run, entries[i].Replies); err != nil {
			return err
		}
	}
	return nil
}

func (o *SyncOrchestrator) cleanDiscussions(ctx context.Context, run *syncRun) error {
	return o.discussions.DeleteByCourse(ctx, run.courseID, false)
}

func (o *SyncOrchestrator) syncAnnouncements(ctx context.Context, run *syncRun) error {
	items, err := depaginate(ctx, func(ctx context.Context, token driven.PageToken) ([]domain.DiscussionTopic, driven.PageToken, error) {
		return o.api.Discussions.ListTopics(ctx, run.courseID, true, token)
	})
	if err != nil {
		return fmt.Errorf("list announcements: %w", err)
	}

	for i := range items {
		msg, err := o.rewriteHTML(ctx, run, items[i].Message)
		if err != nil {
			return fmt.Errorf("rewrite announcement %d: %w", items[i].ID, err)
		}
		items[i].Message = msg
		items[i].CourseID = run.courseID
		items[i].Announcement = true
	}

	if err := o.discussions.DeleteByCourse(ctx, run.courseID, true); err != nil {
		return fmt.Errorf("clear announcements: %w", err)
	}
	if err := o.discussions.InsertAll(ctx, items); err != nil {
		return fmt.Errorf("persist announcements: %w", err)
	}
	return nil
}

func (o *SyncOrchestrator) cleanAnnouncements(ctx context.Context, run *syncRun) error {
	return o.discussions.DeleteByCourse(ctx, run.courseID, true)
}

func (o *SyncOrchestrator) syncPeople(ctx context.Context, run *syncRun) error {
	items, err := depaginate(ctx, func(ctx context.Context, token driven.PageToken) ([]domain.CourseUser, driven.PageToken, error) {
		return o.api.Users.ListCourseUsers(ctx, run.courseID, token)
	})
	if err != nil {
		return fmt.Errorf("list course users: %w", err)
	}

	for i := range items {
		items[i].CourseID = run.courseID
	}

	if err := o.users.DeleteByCourse(ctx, run.courseID); err != nil {
		return fmt.Errorf("clear course users: %w", err)
	}
	if err := o.users.InsertAll(ctx, items); err != nil {
		return fmt.Errorf("persist course users: %w", err)
	}
	return nil
}

func (o *SyncOrchestrator) cleanPeople(ctx context.Context, run *syncRun) error {
	return o.users.DeleteByCourse(ctx, run.courseID)
}

// syncQuizzes fetches the standalone quiz list. Its delete+reinsert
// supersedes any assignment-embedded quizzes cached earlier in the run.
func (o *SyncOrchestrator) syncQuizzes(ctx context.Context, run *syncRun) error {
	items, err := depaginate(ctx, func(ctx context.Context, token driven.PageToken) ([]domain.Quiz, driven.PageToken, error) {
		return o.api.Quizzes.ListQuizzes(ctx, run.courseID, token)
	})
	if err != nil {
		return fmt.Errorf("list quizzes: %w", err)
	}

	for i := range items {
		desc, err := o.rewriteHTML(ctx, run, items[i].Description)
		if err != nil {
			return fmt.Errorf("rewrite quiz %d: %w", items[i].ID, err)
		}
		items[i].Description = desc
		items[i].CourseID = run.courseID
	}

	if err := o.quizzes.DeleteByCourse(ctx, run.courseID); err != nil {
		return fmt.Errorf("clear quizzes: %w", err)
	}
	if err := o.quizzes.InsertAll(ctx, items); err != nil {
		return fmt.Errorf("persist quizzes: %w", err)
	}
	for i := range items {
		run.markQuiz(items[i].ID)
	}
	return nil
}

// cleanQuizzes drops standalone quizzes. When assignments stay selected
// the embedded quizzes persisted earlier in the run are kept; this unit
// runs after assignments, so run.quizIDs holds the full embedded set.
func (o *SyncOrchestrator) cleanQuizzes(ctx context.Context, run *syncRun) error {
	if !run.settings.TabSelected(domain.TabAssignments) {
		return o.quizzes.DeleteByCourse(ctx, run.courseID)
	}
	return o.quizzes.DeleteByCourseExcept(ctx, run.courseID, run.quizIDList())
}

// syncModules fetches modules with items, then resolves items to content
// not yet cached: page items trigger page fetches, quiz items quiz
// fetches, and file items outside the selected set feed the accumulator.
func (o *SyncOrchestrator) syncModules(ctx context.Context, run *syncRun) error {
	items, err := depaginate(ctx, func(ctx context.Context, token driven.PageToken) ([]domain.Module, driven.PageToken, error) {
		return o.api.Modules.ListModules(ctx, run.courseID, token)
	})
	if err != nil {
		return fmt.Errorf("list modules: %w", err)
	}

	for i := range items {
		items[i].CourseID = run.courseID
	}

	if err := o.modules.DeleteByCourse(ctx, run.courseID); err != nil {
		return fmt.Errorf("clear modules: %w", err)
	}
	if err := o.modules.InsertAll(ctx, items); err != nil {
		return fmt.Errorf("persist modules: %w", err)
	}

	for _, module := range items {
		for _, item := range module.Items {
			if err := o.resolveModuleItem(ctx, run, item); err != nil {
				return fmt.Errorf("module item %d: %w", item.ID, err)
			}
		}
	}
	return nil
}

func (o *SyncOrchestrator) resolveModuleItem(ctx context.Context, run *syncRun, item domain.ModuleItem) error {
	switch item.Type {
	case domain.ModuleItemPage:
		if item.PageURL == "" || run.hasPage(item.PageURL) {
			return nil
		}
		page, err := o.api.Pages.GetPage(ctx, run.courseID, item.PageURL)
		if err != nil {
			return err
		}
		body, err := o.rewriteHTML(ctx, run, page.Body)
		if err != nil {
			return err
		}
		page.Body = body
		page.CourseID = run.courseID
		if err := o.pages.Upsert(ctx, page); err != nil {
			return err
		}
		run.markPage(page.URL)

	case domain.ModuleItemFile:
		if item.ContentID != 0 && !run.settings.FileSelected(item.ContentID) {
			run.addFileRefs([]int64{item.ContentID})
		}

	case domain.ModuleItemQuiz:
		if item.ContentID != 0 {
			return o.cacheQuiz(ctx, run, item.ContentID)
		}
	}
	return nil
}

func (o *SyncOrchestrator) cleanModules(ctx context.Context, run *syncRun) error {
	return o.modules.DeleteByCourse(ctx, run.courseID)
}

// rewriteHTML runs content through the rewriter and feeds the reference
// accumulators. Empty input short-circuits.
func (o *SyncOrchestrator) rewriteHTML(ctx context.Context, run *syncRun, html string) (string, error) {
	if html == "" {
		return "", nil
	}
	result, err := o.rewriter.Rewrite(ctx, run.courseID, html)
	if err != nil {
		return "", err
	}
	run.addFileRefs(result.FileIDs)
	run.addURLRefs(result.ExternalURLs)
	return result.HTML, nil
}

// flushAdditional runs the secondary file-sync pass over everything the
// rewriter discovered.
func (o *SyncOrchestrator) flushAdditional(ctx context.Context, run *syncRun) {
	ids, urls := run.collect()
	if len(ids) == 0 && len(urls) == 0 {
		return
	}
	if err := o.fileSync.SyncAdditional(ctx, run.courseID, ids, urls); err != nil {
		o.logger.Warn("supplementary file sync failed",
			"course_id", run.courseID, "file_ids", len(ids), "urls", len(urls), "error", err)
		o.reportCategory(run, "additional_files", err)
	}
}

// markTabs applies a tab state update via read-modify-write against the
// persisted progress record. The run-level mutex serializes writers from
// the two branches.
func (o *SyncOrchestrator) markTabs(ctx context.Context, run *syncRun, state domain.SyncState, tabs ...domain.TabID) {
	run.progressMu.Lock()
	defer run.progressMu.Unlock()

	progress, err := o.progress.ByCourse(ctx, run.courseID)
	if err != nil {
		o.logger.Warn("failed to load progress for update", "course_id", run.courseID, "error", err)
		return
	}
	progress.SetTabState(state, tabs...)
	if err := o.progress.Save(ctx, progress); err != nil {
		o.logger.Warn("failed to save progress update", "course_id", run.courseID, "error", err)
	}
}

// finalizeProgress recomputes and persists the overall rollup state.
func (o *SyncOrchestrator) finalizeProgress(ctx context.Context, run *syncRun) domain.SyncState {
	run.progressMu.Lock()
	defer run.progressMu.Unlock()

	progress, err := o.progress.ByCourse(ctx, run.courseID)
	if err != nil {
		o.logger.Warn("failed to load progress for rollup", "course_id", run.courseID, "error", err)
		return domain.SyncStateError
	}
	progress.State = progress.Rollup()
	if err := o.progress.Save(ctx, progress); err != nil {
		o.logger.Warn("failed to save progress rollup", "course_id", run.courseID, "error", err)
	}
	return progress.State
}

// reportCategory forwards a recoverable failure to the diagnostics sink.
func (o *SyncOrchestrator) reportCategory(run *syncRun, category string, err error) {
	if o.reporter == nil {
		return
	}
	o.reporter.Report(err, map[string]interface{}{
		"course_id": run.courseID,
		"job_id":    run.jobID,
		"category":  category,
	})
}

// depaginate drains a paginated list endpoint until no next-page token
// remains, concatenating results. A failed page fails the whole fetch.
func depaginate[T any](ctx context.Context, fetch func(context.Context, driven.PageToken) ([]T, driven.PageToken, error)) ([]T, error) {
	var all []T
	var token driven.PageToken
	for {
		items, next, err := fetch(ctx, token)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if next == "" || next == token {
			return all, nil
		}
		token = next
	}
}
