package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"mathiphone/internal/http/handlers"
	"mathiphone/internal/repos"
	"mathiphone/internal/services"
)

const templatesDir = "../../web/templates"

// testApp is the real route table behind the same middleware main wires, minus
// the global limiter and the access logger.
type testApp struct {
	app   *fiber.App
	db    *sqlx.DB
	users *repos.UserRepo
	csrf  string
}

func newApp(t *testing.T) *testApp {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	app := fiber.New(fiber.Config{
		Views:        handlers.Views(templatesDir),
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    1 << 20,
	})
	app.Use(requestid.New())
	app.Use(handlers.CurrentUser(authSvc))
	app.Use(handlers.CSRF(false))
	app.Use(handlers.CSRFLocals)
	handlers.NewDeps(db, authSvc).Routes(app)
	app.Use(func(c *fiber.Ctx) error { return fiber.ErrNotFound })

	ta := &testApp{app: app, db: db, users: userRepo}
	resp := ta.get(t, "/login", "")
	ta.csrf = extractCookie(resp, "csrf_")
	if ta.csrf == "" {
		t.Fatal("csrf token missing")
	}
	return ta
}

// session binds sid to a seeded user ("u-admin" or "u-mathi").
func (ta *testApp) session(t *testing.T, sid, userID string) string {
	t.Helper()
	if err := ta.users.BindSession(sid, userID); err != nil {
		t.Fatalf("bind session: %v", err)
	}
	return sid
}

func (ta *testApp) do(t *testing.T, req *http.Request, sid string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := ta.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	return resp
}

func (ta *testApp) get(t *testing.T, path, sid string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	return ta.do(t, httptest.NewRequest(http.MethodGet, path, nil), sid, cookies...)
}

// post submits a form with the csrf field and cookie filled in.
func (ta *testApp) post(t *testing.T, path string, form url.Values, sid string) *http.Response {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", ta.csrf)
	return ta.do(t, newFormRequest(path, form), sid, &http.Cookie{Name: "csrf_", Value: ta.csrf})
}

func newFormRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// sendJSON calls the API with the csrf header and cookie.
func (ta *testApp) sendJSON(t *testing.T, method, path string, v any, sid string) *http.Response {
	t.Helper()
	var rdr io.Reader
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(handlers.CSRFHeader, ta.csrf)
	return ta.do(t, req, sid, &http.Cookie{Name: "csrf_", Value: ta.csrf})
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// captureLogs collects the JSON lines written while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0) // remove timestamps to make JSON parseable
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
