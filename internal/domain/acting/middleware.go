package acting

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"meufenil/internal/middleware"
)

// HeaderGrantID lleva el id de la delegación asumida (capability token del overlay).
const HeaderGrantID = "X-Delegacao-Id"

// ErrNotDelegated: no existe grant activo con ese id para el caller como delegado.
var ErrNotDelegated = errors.New("no active delegation for caller")

// Resolver valida el grant y devuelve el id del dueño.
type Resolver interface {
	ActingAs(ctx context.Context, selfID, grantID string) (string, error)
}

// Middleware resuelve la identidad efectiva de cada request autenticado.
// El grant se revalida en cada request que trae HeaderGrantID, así una revocación
// corta el acceso del overlay en el request siguiente.
func Middleware(res Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := middleware.GetClaims(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			grantID := strings.TrimSpace(r.Header.Get(HeaderGrantID))
			if grantID == "" {
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), Self(claims.UserID))))
				return
			}

			ownerID, err := res.ActingAs(r.Context(), claims.UserID, grantID)
			if err != nil {
				if errors.Is(err, ErrNotDelegated) {
					writeError(w, http.StatusForbidden, "delegação inválida ou revogada")
					return
				}
				writeError(w, http.StatusInternalServerError, "erro interno")
				return
			}

			id := Delegated(claims.UserID, ownerID, grantID)
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireSelf bloquea escrituras mientras se opera como otro usuario.
func RequireSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := FromContext(r.Context()); ok && id.IsDelegated() {
			writeError(w, http.StatusForbidden, ReadOnlyMessage)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ReadOnlyMessage se devuelve en toda escritura bloqueada por el overlay.
const ReadOnlyMessage = "somente leitura enquanto acessa a conta de outro usuário"

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
