package bot

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"therapist-discovery-backend/internal/community"
	"therapist-discovery-backend/internal/database"
	"therapist-discovery-backend/internal/directory"
	"therapist-discovery-backend/internal/flow"
	"therapist-discovery-backend/internal/registration"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	timeout := 2 * time.Second

	app := gin.New()
	app.Use(
		database.InjectInMemoryCache("cache", database.ConnectInMemoryCache()),
		flow.InjectGraph("flow", flow.InitGraph(filepath.Join(dir, "chatbot_flow.json"))),
		community.InjectBoard("board", community.NewBoard(filepath.Join(dir, "community.json"), timeout)),
		registration.InjectBook("registrations", registration.NewBook(filepath.Join(dir, "registrations.csv"), timeout)),
		directory.Inject("directory", directory.New(filepath.Join(dir, "therapists.json"), timeout)),
	)
	InitRoutes(app)
	return app
}

func doJSON(t *testing.T, app *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(method, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func TestRegisterMissingField(t *testing.T) {
	app := newTestRouter(t)

	w := doJSON(t, app, http.MethodPost, "/api/register", gin.H{
		"role":      "parent",
		"full_name": "Asha Rao",
		"phone":     "9000000001",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != "Missing required field: email" {
		t.Fatalf("unexpected error: %q", resp["error"])
	}
}

func TestRegisterSuccess(t *testing.T) {
	app := newTestRouter(t)

	w := doJSON(t, app, http.MethodPost, "/api/register", gin.H{
		"role":            "parent",
		"full_name":       "Asha Rao",
		"email":           "asha@example.com",
		"phone":           "9000000001",
		"child_condition": "ADHD",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Message string            `json:"message"`
		User    map[string]string `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Registration successful" || resp.User["email"] != "asha@example.com" {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
}

func TestTherapistsEmptyBeforeImport(t *testing.T) {
	app := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/therapists", nil)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != "[]" {
		t.Fatalf("want empty array, got %q", got)
	}
}

func TestCommunityRoundTrip(t *testing.T) {
	app := newTestRouter(t)

	w := doJSON(t, app, http.MethodPost, "/api/community/grief", gin.H{
		"title":       "Sleepless nights",
		"description": "Anyone else?",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create post: want 200, got %d: %s", w.Code, w.Body.String())
	}
	var post community.Post
	if err := json.Unmarshal(w.Body.Bytes(), &post); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	if post.ID != 1 {
		t.Fatalf("want post id 1, got %d", post.ID)
	}

	w = doJSON(t, app, http.MethodPost, "/api/community/grief/1/comments", gin.H{
		"text": "same here",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("add comment: want 200, got %d: %s", w.Code, w.Body.String())
	}
	var comment community.Comment
	if err := json.Unmarshal(w.Body.Bytes(), &comment); err != nil {
		t.Fatalf("decode comment: %v", err)
	}
	if comment.ID != 1 || comment.Author != community.DefaultAuthor {
		t.Fatalf("unexpected comment: %+v", comment)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/community/grief", nil)
	rw := httptest.NewRecorder()
	app.ServeHTTP(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("list: want 200, got %d", rw.Code)
	}
	var posts []community.Post
	if err := json.Unmarshal(rw.Body.Bytes(), &posts); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(posts) != 1 || len(posts[0].Comments) != 1 {
		t.Fatalf("unexpected list: %s", rw.Body.String())
	}
}

func TestCommentOnMissingPost(t *testing.T) {
	app := newTestRouter(t)

	w := doJSON(t, app, http.MethodPost, "/api/community/grief/7/comments", gin.H{
		"author": "Asha",
		"text":   "hello",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestChatbotTurn(t *testing.T) {
	app := newTestRouter(t)

	w := doJSON(t, app, http.MethodPost, "/api/chatbot", gin.H{
		"message": "I need to find a therapist",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Message   string `json:"message"`
		State     string `json:"state"`
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.State != database.THERAPIST_SEARCH {
		t.Fatalf("want therapist_search, got %q", resp.State)
	}
	if resp.SessionID == "" {
		t.Fatalf("session id not assigned")
	}

	// the next turn with the same session continues from the stored state
	w = doJSON(t, app, http.MethodPost, "/api/chatbot", gin.H{
		"message":    "anything else",
		"session_id": resp.SessionID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("second turn: want 200, got %d", w.Code)
	}
}
