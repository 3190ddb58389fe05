package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rapidxcel/internal/config"
	"rapidxcel/internal/http/handlers"
	"rapidxcel/internal/repos"
	"rapidxcel/web"
)

const (
	customer = "customer@rapidxcel.test"
	manager  = "manager@rapidxcel.test"
	supplier = "supplier@rapidxcel.test"
	courier  = "courier@rapidxcel.test"

	// Seeded stock ids, in insertion order.
	riceID   = 1
	oilID    = 2
	dalID    = 3
	cartonID = 4
)

// newApp wires the real routes over a seeded in-memory database. Without
// views every response is JSON.
func newApp(t *testing.T, views bool) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repos.Seed(db, bcrypt.MinCost))

	cfg := config.Defaults()
	cfg.Auth.BcryptCost = bcrypt.MinCost

	fc := fiber.Config{ErrorHandler: handlers.ErrorHandler}
	if views {
		fc.Views = web.Engine()
	}
	app := fiber.New(fc)
	app.Use(requestid.New())
	handlers.Mount(app, handlers.NewDeps(db, cfg, handlers.NewSessionStore(time.Hour, false, nil)))
	return app, db
}

// client keeps cookies between app.Test calls.
type client struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func newClient(t *testing.T, app *fiber.App) *client {
	return &client{t: t, app: app, cookies: map[string]string{}}
}

func (cl *client) send(req *http.Request) *http.Response {
	cl.t.Helper()
	for name, v := range cl.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: v})
	}
	resp, err := cl.app.Test(req, -1)
	require.NoError(cl.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Value == "" || ck.MaxAge < 0 || (!ck.Expires.IsZero() && ck.Expires.Before(time.Now())) {
			delete(cl.cookies, ck.Name)
			continue
		}
		cl.cookies[ck.Name] = ck.Value
	}
	return resp
}

// json sends body as JSON and decodes the JSON reply.
func (cl *client) json(method, path string, body any) (int, map[string]any) {
	cl.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(cl.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	req.Header.Set("Accept", fiber.MIMEApplicationJSON)
	resp := cl.send(req)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

// raw sends body verbatim with the given content type.
func (cl *client) raw(method, path, contentType, body string) (int, map[string]any) {
	cl.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", fiber.MIMEApplicationJSON)
	resp := cl.send(req)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

// form posts a urlencoded body the way a browser would.
func (cl *client) form(path, body string) *http.Response {
	cl.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	req.Header.Set("Accept", fiber.MIMETextHTML)
	return cl.send(req)
}

func (cl *client) page(path string) (int, string) {
	cl.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", fiber.MIMETextHTML)
	resp := cl.send(req)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(cl.t, err)
	return resp.StatusCode, string(b)
}

func (cl *client) login(username string) {
	cl.t.Helper()
	status, body := cl.json(http.MethodPost, "/login", map[string]string{
		"username": username, "password": repos.SeedPassword,
	})
	require.Equal(cl.t, http.StatusOK, status, "login %s: %v", username, body)
}

func items(pairs ...any) map[string]any {
	var out []map[string]any
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, map[string]any{"product_id": pairs[i], "quantity": pairs[i+1]})
	}
	return map[string]any{"items": out}
}

func delivery(pincode string) map[string]string {
	return map[string]string{"address": "12 Anna Salai, Chennai", "pincode": pincode, "phone": "9876543210"}
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Role   string         `json:"role"`
	Path   string         `json:"path"`
	Fields map[string]any `json:"fields"`
}

type logSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *logSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *logSink) find(action string) []logEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []logEntry
	for _, line := range strings.Split(s.buf.String(), "\n") {
		var e logEntry
		if json.Unmarshal([]byte(line), &e) == nil && e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

func captureLogs(t *testing.T) *logSink {
	t.Helper()
	sink := &logSink{}
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(sink)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return sink
}

func stockQty(t *testing.T, db *sqlx.DB, id int64) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT quantity FROM stocks WHERE id = ?`, id))
	return n
}
