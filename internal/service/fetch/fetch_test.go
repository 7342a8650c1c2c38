package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gearstock/console/internal/errs"
	"github.com/gearstock/console/internal/service/fetch"
	"github.com/gearstock/console/internal/session"
)

type fakeStore struct {
	deleted []string
	byID    map[string]session.Session
}

func (f *fakeStore) Create(_ context.Context, _ session.Session) (string, error) {
	return "", nil
}

func (f *fakeStore) Get(_ context.Context, id string) (session.Session, error) {
	s, ok := f.byID[id]
	if !ok {
		return session.Session{}, errs.ErrNoSession
	}
	return s, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestClient_AttachesBearer(t *testing.T) {
	t.Parallel()
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := fetch.NewClient(zap.NewNop(), fetch.Config{BaseURL: srv.URL, Timeout: time.Second}, &fakeStore{})
	resp, err := c.DoJSON(context.Background(), http.MethodGet, "/api/Implementos", nil, fetch.Auth{SessionID: "sid", Token: "tok-123"})
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "Bearer tok-123", gotAuth)
	require.Equal(t, "application/json", gotContentType)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	t.Parallel()
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	c := fetch.NewClient(zap.NewNop(), fetch.Config{BaseURL: srv.URL, Timeout: time.Second}, &fakeStore{})
	resp, err := c.DoJSON(context.Background(), http.MethodPost, "/api/Auth/login", map[string]string{"email": "a@b.com"}, fetch.Auth{})
	require.NoError(t, err)
	resp.Body.Close()

	require.Empty(t, gotAuth)
}

func TestClient_401ClearsSessionAndIsTerminal(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := &fakeStore{}
	c := fetch.NewClient(zap.NewNop(), fetch.Config{BaseURL: srv.URL, Timeout: time.Second}, store)

	_, err := c.DoJSON(context.Background(), http.MethodGet, "/api/Prestamos/todos", nil, fetch.Auth{SessionID: "sid-1", Token: "expired"})
	require.ErrorIs(t, err, errs.ErrSessionExpired)
	require.Equal(t, []string{"sid-1"}, store.deleted)
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name string
		body string
		want string
	}{
		{name: "json message", body: `{"message":"credenciales inválidas"}`, want: "credenciales inválidas"},
		{name: "json title", body: `{"title":"Bad Request"}`, want: "Bad Request"},
		{name: "plain text", body: "algo salió mal", want: "algo salió mal"},
		{name: "empty falls back", body: "", want: "fallback"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()
			resp, err := http.Get(srv.URL)
			require.NoError(t, err)
			require.Equal(t, tt.want, fetch.ErrorMessage(resp, "fallback"))
		})
	}
}
