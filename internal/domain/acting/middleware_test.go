package acting

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"meufenil/internal/middleware"
	"meufenil/internal/ports/auth"
)

type resolverFunc func(ctx context.Context, selfID, grantID string) (string, error)

func (f resolverFunc) ActingAs(ctx context.Context, selfID, grantID string) (string, error) {
	return f(ctx, selfID, grantID)
}

func grants(active map[string][2]string) resolverFunc {
	// active: grantID -> {delegateID, ownerID}
	return func(_ context.Context, selfID, grantID string) (string, error) {
		g, ok := active[grantID]
		if !ok || g[0] != selfID {
			return "", ErrNotDelegated
		}
		return g[1], nil
	}
}

// serveWith pasa un request por Middleware (+ extra opcional) y captura la identidad que ve el handler final.
func serveWith(t *testing.T, extra func(http.Handler) http.Handler, userID, grantID string) (*httptest.ResponseRecorder, Identity, bool) {
	t.Helper()
	var (
		got Identity
		ok  bool
	)
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	if extra != nil {
		h = extra(h)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if userID != "" {
		req = req.WithContext(middleware.WithClaims(req.Context(), auth.Claims{UserID: userID}))
	}
	if grantID != "" {
		req.Header.Set(HeaderGrantID, grantID)
	}

	rec := httptest.NewRecorder()
	Middleware(grants(map[string][2]string{"g1": {"b1", "a1"}}))(h).ServeHTTP(rec, req)
	return rec, got, ok
}

func TestMiddleware_SelfWithoutHeader(t *testing.T) {
	rec, id, ok := serveWith(t, nil, "b1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, ok)
	require.Equal(t, Self("b1"), id)
	require.False(t, id.IsDelegated())
	require.Equal(t, "b1", id.EffectiveUserID())
}

func TestMiddleware_DelegatedWithActiveGrant(t *testing.T) {
	rec, id, ok := serveWith(t, nil, "b1", "g1")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, ok)
	require.True(t, id.IsDelegated())
	require.Equal(t, "a1", id.EffectiveUserID())
	require.Equal(t, "b1", id.SelfID)
	require.Equal(t, "g1", id.GrantID)
}

func TestMiddleware_RejectsUnknownOrForeignGrant(t *testing.T) {
	rec, _, _ := serveWith(t, nil, "b1", "nope")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, _, _ = serveWith(t, nil, "c1", "g1")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMiddleware_ResolverFailureIs500(t *testing.T) {
	broken := resolverFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("db down")
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middleware.WithClaims(req.Context(), auth.Claims{UserID: "b1"}))
	req.Header.Set(HeaderGrantID, "g1")

	rec := httptest.NewRecorder()
	Middleware(broken)(http.NotFoundHandler()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMiddleware_NoClaimsPassesThroughWithoutIdentity(t *testing.T) {
	rec, _, ok := serveWith(t, nil, "", "g1")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.False(t, ok)
}

func TestRequireSelf(t *testing.T) {
	rec, _, _ := serveWith(t, RequireSelf, "b1", "g1")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), ReadOnlyMessage)

	rec, _, _ = serveWith(t, RequireSelf, "b1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}
