package delegations

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"meufenil/internal/middleware"
	"meufenil/internal/platform/logger"
	"meufenil/internal/ports/auth"
)

type claimsResolver struct{}

func (claimsResolver) Resolve(_ context.Context, c auth.Claims) (string, error) {
	return c.UserID, nil
}

func serveAction(t *testing.T, svc *Service, log logger.Logger, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, svc, claimsResolver{}, log)

	req := httptest.NewRequest(http.MethodPost, "/delegacao", strings.NewReader(body))
	req = req.WithContext(middleware.WithClaims(req.Context(), auth.Claims{UserID: userID}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_StoreFailureIsGeneric500(t *testing.T) {
	secret := errors.New("pq: secret detail")

	cases := []struct {
		name  string
		setup func(*testRepo)
		body  string
	}{
		{"listar", func(r *testRepo) { r.failGrantedTo = secret }, `{"acao":"listar"}`},
		{"conceder", func(r *testRepo) { r.failCreate = secret }, `{"acao":"conceder","email":"b@x.com"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newTestService(t)
			tc.setup(repo)

			var buf bytes.Buffer
			log := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatJSON, Output: &buf})

			rec := serveAction(t, svc, log, userA.ID, tc.body)

			require.Equal(t, http.StatusInternalServerError, rec.Code)
			require.JSONEq(t, `{"error":"erro interno"}`, rec.Body.String())
			require.NotContains(t, rec.Body.String(), "secret detail")
			require.Contains(t, buf.String(), "pq: secret detail")
			require.Contains(t, buf.String(), `"acao":"`+tc.name+`"`)
		})
	}
}

func TestHandler_ListIncludesStatus(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Grant(context.Background(), userA.ID, "b@x.com")
	require.NoError(t, err)

	rec := serveAction(t, svc, nil, userA.ID, `{"acao":"listar"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"active"`)
}

func TestGrant_Status(t *testing.T) {
	g := Grant{ID: "g1"}
	require.Equal(t, StatusActive, g.Status())

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	g.RevokedAt = &at
	require.Equal(t, StatusRevoked, g.Status())
	require.False(t, g.Active())
}
