package canvas

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:     server.URL,
		AccessToken: "test-token",
		PageSize:    2,
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	return client, server
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"id": 42, "name": "Biology 101"}`)
	}))

	_, err := client.GetCourse(context.Background(), 42)
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("expected bearer auth header, got %q", gotAuth)
	}
}

func TestClient_GetCourse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/courses/42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"id": 42,
			"name": "Biology 101",
			"course_code": "BIO-101",
			"syllabus_body": "<p>Welcome</p>",
			"term": {"name": "Fall 2026"},
			"tabs": [
				{"id": "pages", "label": "Pages"},
				{"id": "files", "label": "Files", "hidden": true}
			],
			"enrollments": [{"id": 1, "user_id": 7, "role": "StudentEnrollment", "enrollment_state": "active"}]
		}`)
	}))

	course, err := client.GetCourse(context.Background(), 42)
	if err != nil {
		t.Fatalf("get course: %v", err)
	}

	if course.Name != "Biology 101" || course.CourseCode != "BIO-101" {
		t.Errorf("unexpected course %+v", course)
	}
	if course.SyllabusBody != "<p>Welcome</p>" {
		t.Errorf("expected syllabus body, got %q", course.SyllabusBody)
	}
	if course.TermName != "Fall 2026" {
		t.Errorf("expected term name, got %q", course.TermName)
	}
	if len(course.Tabs) != 2 || course.Tabs[0].ID != domain.TabPages {
		t.Errorf("unexpected tabs %+v", course.Tabs)
	}
	if !course.HasTab(domain.TabPages) {
		t.Error("expected pages tab visible")
	}
	if course.HasTab(domain.TabFiles) {
		t.Error("expected hidden files tab to be excluded")
	}
	if len(course.Enrollments) != 1 || course.Enrollments[0].Role != "StudentEnrollment" {
		t.Errorf("unexpected enrollments %+v", course.Enrollments)
	}
}

func TestClient_PaginationFollowsLinkHeader(t *testing.T) {
	var server *httptest.Server
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "2":
			fmt.Fprint(w, `[{"page_id": 3, "url": "week-3", "title": "Week 3"}]`)
		default:
			w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/courses/42/pages?per_page=2&page=2>; rel="next"`, server.URL))
			fmt.Fprint(w, `[{"page_id": 1, "url": "week-1", "title": "Week 1"}, {"page_id": 2, "url": "week-2", "title": "Week 2"}]`)
		}
	}))
	server = srv

	ctx := context.Background()

	pages, next, err := client.ListPages(ctx, 42, "")
	if err != nil {
		t.Fatalf("list pages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if next == "" {
		t.Fatal("expected next page token")
	}

	pages, next, err = client.ListPages(ctx, 42, next)
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(pages) != 1 || pages[0].URL != "week-3" {
		t.Errorf("unexpected second page %+v", pages)
	}
	if next != "" {
		t.Errorf("expected empty token on last page, got %q", next)
	}
	if pages[0].CourseID != 42 {
		t.Errorf("expected course ID stamped on records, got %d", pages[0].CourseID)
	}
}

func TestClient_FrontPageNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors": [{"message": "no front page"}]}`, http.StatusNotFound)
	}))

	_, err := client.GetFrontPage(context.Background(), 42)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_Unauthorized(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))

	_, err := client.GetCourse(context.Background(), 42)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"id": 42, "name": "Biology 101"}`)
	}))

	course, err := client.GetCourse(context.Background(), 42)
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if course.ID != 42 {
		t.Errorf("unexpected course %+v", course)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestClient_ModuleItemTypes(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{
			"id": 1, "name": "Week 1", "position": 1,
			"items": [
				{"id": 10, "type": "Page", "page_url": "week-1", "position": 1},
				{"id": 11, "type": "File", "content_id": 99, "position": 2},
				{"id": 12, "type": "ExternalUrl", "external_url": "https://example.org", "position": 3},
				{"id": 13, "type": "SubHeader", "title": "Readings", "position": 4}
			]
		}]`)
	}))

	modules, _, err := client.ListModules(context.Background(), 42, "")
	if err != nil {
		t.Fatalf("list modules: %v", err)
	}
	if len(modules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(modules))
	}

	items := modules[0].Items
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	if items[0].Type != domain.ModuleItemPage || items[0].PageURL != "week-1" {
		t.Errorf("unexpected page item %+v", items[0])
	}
	if items[1].Type != domain.ModuleItemFile || items[1].ContentID != 99 {
		t.Errorf("unexpected file item %+v", items[1])
	}
	if items[2].Type != domain.ModuleItemExternalURL {
		t.Errorf("unexpected external url item %+v", items[2])
	}
	if items[3].Type != domain.ModuleItemType("subheader") {
		t.Errorf("unexpected passthrough type %q", items[3].Type)
	}
}

func TestClient_AnnouncementsFlagged(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `[{"id": 5, "title": "Exam moved"}]`)
	}))

	topics, _, err := client.ListTopics(context.Background(), 42, true, "")
	if err != nil {
		t.Fatalf("list announcements: %v", err)
	}
	if len(topics) != 1 || !topics[0].Announcement {
		t.Errorf("expected announcement-flagged topic, got %+v", topics)
	}
	if !strings.Contains(gotQuery, "only_announcements=true") {
		t.Errorf("expected only_announcements filter, got %q", gotQuery)
	}
}

func TestClient_FullTopicEntryTree(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/courses/42/discussion_topics/5/view" {
			fmt.Fprint(w, `{"view": [
				{"id": 100, "user_id": 7, "message": "First",
				 "replies": [{"id": 101, "user_id": 8, "message": "Reply"}]}
			]}`)
			return
		}
		fmt.Fprint(w, `{"id": 5, "title": "Week 1 questions", "message": "<p>Ask here</p>"}`)
	}))

	topic, err := client.GetFullTopic(context.Background(), 42, 5)
	if err != nil {
		t.Fatalf("get full topic: %v", err)
	}
	if topic.Title != "Week 1 questions" {
		t.Errorf("unexpected topic %+v", topic)
	}
	if len(topic.Entries) != 1 || len(topic.Entries[0].Replies) != 1 {
		t.Fatalf("expected nested entry tree, got %+v", topic.Entries)
	}
	if topic.Entries[0].Replies[0].Message != "Reply" {
		t.Errorf("unexpected reply %+v", topic.Entries[0].Replies[0])
	}
}

// Guard against accidentally breaking the bundle wiring.
func TestNewCourseAPI_AllPortsBound(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())
	api := NewCourseAPI(client)

	var _ driven.CoursesAPI = api.Courses
	if api.Courses == nil || api.Pages == nil || api.Assignments == nil ||
		api.Quizzes == nil || api.Discussions == nil || api.Conferences == nil ||
		api.Modules == nil || api.Schedule == nil || api.Users == nil || api.Files == nil {
		t.Error("expected every API field to be bound")
	}
}
