package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/typematch/typematch/internal/client/api"
	"github.com/typematch/typematch/internal/client/config"
	"github.com/typematch/typematch/internal/client/connections"
	"github.com/typematch/typematch/internal/client/credentials"
	"github.com/typematch/typematch/internal/client/messaging"
	"github.com/typematch/typematch/internal/client/notify"
	"github.com/typematch/typematch/internal/client/session"
	"github.com/typematch/typematch/internal/logging"
)

func testToken(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

// newBackend serves the handful of endpoints the auth flow touches.
func newBackend(t *testing.T, acceptPassword string) *httptest.Server {
	t.Helper()
	token := testToken(t)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/token", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := jsonDecode(r, &body); err != nil || body["username"] != "alice" || body["password"] != acceptPassword {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid username/password"}`))
			return
		}
		w.Write([]byte(`{"token":"` + token + `"}`))
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{"id":1,"username":"alice","firstName":"Alice"}}`))
	})
	mux.HandleFunc("GET /connections/pending-requests", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"requests":[{"connectionId":7,"username":"bob"}]}`))
	})
	mux.HandleFunc("GET /messages/unread", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"messages":[]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func jsonDecode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newTestApp wires a full App against the given backend, with input read
// from the provided lines and output captured in the returned buffer.
func newTestApp(t *testing.T, baseURL, input string) (*App, *bytes.Buffer) {
	t.Helper()
	ctx := context.Background()

	db, err := credentials.InitDatabase(ctx, filepath.Join(t.TempDir(), "creds.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := credentials.NewSQLiteStore(db)

	logger := testLogger()
	apiClient := api.New(baseURL, api.WithLogger(logger))

	out := &bytes.Buffer{}
	app := &App{
		config: &config.Config{BaseURL: baseURL},
		api:    apiClient,
		db:     db,
		log:    logger,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    out,
	}
	app.session = session.NewController(apiClient, store, logger, app.notifyExpired)
	app.poller = notify.NewPoller(apiClient, app.session, logger)
	app.conns = connections.NewService(apiClient, app.poller)
	app.messages = messaging.NewService(apiClient, app.session, app.poller, logger)
	return app, out
}

func stubPassword(t *testing.T, password string) {
	t.Helper()
	orig := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() { readPassword = orig })
}

func TestLogin_Success(t *testing.T) {
	srv := newBackend(t, "secret")
	stubPassword(t, "secret")
	app, out := newTestApp(t, srv.URL, "alice\n")

	require.NoError(t, app.Login(context.Background()))

	require.True(t, app.isLoggedIn())
	require.Equal(t, "alice", app.session.CurrentUser().Username)
	require.Contains(t, out.String(), "Logged in.")
	require.True(t, app.poller.HasNotifications(), "login runs an immediate notification check")
}

func TestLogin_BadPassword(t *testing.T) {
	srv := newBackend(t, "secret")
	stubPassword(t, "wrong")
	app, _ := newTestApp(t, srv.URL, "alice\n")

	err := app.Login(context.Background())
	require.Error(t, err)
	require.Equal(t, "invalid username/password", err.Error())
	require.False(t, app.isLoggedIn())
}

func TestLogin_EmptyInputFallsBackToHint(t *testing.T) {
	srv := newBackend(t, "secret")
	stubPassword(t, "secret")
	app, _ := newTestApp(t, srv.URL, "alice\n\n")
	ctx := context.Background()

	require.NoError(t, app.Login(ctx))

	// Expiry keeps the username hint; a blank username falls back to it.
	app.session.HandleExpired(ctx)
	require.False(t, app.isLoggedIn())

	require.NoError(t, app.Login(ctx))
	require.True(t, app.isLoggedIn())
}

func TestLogout(t *testing.T) {
	srv := newBackend(t, "secret")
	stubPassword(t, "secret")
	app, out := newTestApp(t, srv.URL, "alice\n")
	ctx := context.Background()

	require.NoError(t, app.Login(ctx))
	require.NoError(t, app.Logout(ctx))

	require.False(t, app.isLoggedIn())
	require.False(t, app.poller.HasNotifications(), "logout discards the derived notification state")
	require.Contains(t, out.String(), "Logged out.")
}

func TestGetStatus(t *testing.T) {
	srv := newBackend(t, "secret")
	stubPassword(t, "secret")
	app, _ := newTestApp(t, srv.URL, "alice\n")
	ctx := context.Background()

	require.Equal(t, "", app.getStatus())

	require.NoError(t, app.Login(ctx))
	require.Equal(t, "(alice *)", app.getStatus(), "pending requests mark the prompt")

	app.poller.Reset()
	require.Equal(t, "(alice)", app.getStatus())
}
