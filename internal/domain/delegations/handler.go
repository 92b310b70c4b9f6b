package delegations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"meufenil/internal/domain/acting"
	"meufenil/internal/middleware"
	"meufenil/internal/platform/logger"
	"meufenil/internal/ports/auth"
)

// PrincipalResolver asegura que el principal autenticado tenga perfil durable y devuelve su id.
type PrincipalResolver interface {
	Resolve(ctx context.Context, c auth.Claims) (string, error)
}

// Acciones del endpoint (portugués, igual que el cliente web).
const (
	ActionList   = "listar"
	ActionGrant  = "conceder"
	ActionRevoke = "revogar"
	ActionAssume = "assumir"
	ActionExit   = "sair"
)

// RegisterRoutes monta el endpoint de acción única. CORS lo pone el router.
func RegisterRoutes(r chi.Router, svc *Service, principals PrincipalResolver, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}
	r.Post("/delegacao", delegationHandler(svc, principals, log))
	r.Options("/delegacao", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

type delegationRequest struct {
	Acao        string `json:"acao" enums:"listar,conceder,revogar,assumir,sair"`
	Email       string `json:"email,omitempty"`
	DelegacaoID string `json:"delegacao_id,omitempty"`
}

type profileResponse struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
}

type grantEntryResponse struct {
	ID         string           `json:"id"`
	DonoID     string           `json:"dono_id"`
	DelegadoID string           `json:"delegado_id"`
	Status     Status           `json:"status" enums:"active,revoked"`
	CreatedAt  time.Time        `json:"created_at"`
	Delegado   *profileResponse `json:"delegado,omitempty"`
	Dono       *profileResponse `json:"dono,omitempty"`
}

type listResponse struct {
	Concedidos []grantEntryResponse `json:"concedidos"`
	Recebidos  []grantEntryResponse `json:"recebidos"`
}

type assumeResponse struct {
	UsuarioAssumidoID string          `json:"usuario_assumido_id"`
	Owner             profileResponse `json:"owner"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// delegationHandler godoc
// @Summary Delegação de acesso (login-as)
// @Description Endpoint único por ação: listar, conceder, revogar, assumir, sair. O principal é resolvido a cada chamada a partir do bearer token. Enquanto o cliente opera como outro usuário (header `X-Delegacao-Id`), `conceder` e `revogar` são bloqueados.
// @Tags delegacao
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer <access token do Supabase>"
// @Param payload body delegationRequest true "acao + campos da ação"
// @Success 200 {object} listResponse "listar; conceder/revogar/sair devolvem successResponse e assumir devolve assumeResponse"
// @Failure 400 {object} errorResponse "ação inválida / email inválido / delegacao_id ausente / auto-delegação"
// @Failure 401 {object} errorResponse "unauthenticated"
// @Failure 403 {object} errorResponse "sem delegação ativa / não é o dono / somente leitura"
// @Failure 404 {object} errorResponse "usuário ou delegação não encontrado"
// @Failure 500 {object} errorResponse "erro interno"
// @Router /delegacao [post]
func delegationHandler(svc *Service, principals PrincipalResolver, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "não autenticado")
			return
		}

		var req delegationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "json inválido")
			return
		}
		action := strings.ToLower(strings.TrimSpace(req.Acao))

		callerID, err := principals.Resolve(r.Context(), claims)
		if err != nil {
			log.Error("resolve principal failed", map[string]any{"acao": action, "user_id": claims.UserID, "error": err})
			writeError(w, http.StatusInternalServerError, "erro interno")
			return
		}

		reqLog := log.With(map[string]any{"acao": action, "user_id": callerID})

		if id, ok := acting.FromContext(r.Context()); ok && id.IsDelegated() {
			switch action {
			case ActionGrant, ActionRevoke:
				writeError(w, http.StatusForbidden, acting.ReadOnlyMessage)
				return
			}
		}

		switch action {
		case ActionList:
			listing, err := svc.List(r.Context(), callerID)
			if err != nil {
				internalError(w, reqLog, err)
				return
			}
			writeJSON(w, http.StatusOK, toListResponse(listing))

		case ActionGrant:
			g, err := svc.Grant(r.Context(), callerID, req.Email)
			if err != nil {
				switch {
				case errors.Is(err, ErrInvalidEmail):
					writeError(w, http.StatusBadRequest, "email inválido")
				case errors.Is(err, ErrGranteeNotFound):
					writeError(w, http.StatusNotFound, "usuário não encontrado")
				case errors.Is(err, ErrSelfGrant):
					writeError(w, http.StatusBadRequest, "não é possível delegar acesso a si mesmo")
				default:
					internalError(w, reqLog, err)
				}
				return
			}
			reqLog.Info("delegation granted", map[string]any{"delegacao_id": g.ID, "delegado_id": g.DelegateUserID})
			writeJSON(w, http.StatusOK, successResponse{Success: true})

		case ActionRevoke:
			if strings.TrimSpace(req.DelegacaoID) == "" {
				writeError(w, http.StatusBadRequest, "delegacao_id obrigatório")
				return
			}
			if err := svc.Revoke(r.Context(), callerID, req.DelegacaoID); err != nil {
				switch {
				case errors.Is(err, ErrInvalidInput):
					writeError(w, http.StatusBadRequest, "delegacao_id obrigatório")
				case errors.Is(err, ErrNotFound):
					writeError(w, http.StatusNotFound, "delegação não encontrada")
				case errors.Is(err, ErrForbidden):
					writeError(w, http.StatusForbidden, "somente quem concedeu pode revogar")
				default:
					internalError(w, reqLog, err)
				}
				return
			}
			reqLog.Info("delegation revoked", map[string]any{"delegacao_id": req.DelegacaoID})
			writeJSON(w, http.StatusOK, successResponse{Success: true})

		case ActionAssume:
			if strings.TrimSpace(req.DelegacaoID) == "" {
				writeError(w, http.StatusBadRequest, "delegacao_id obrigatório")
				return
			}
			a, err := svc.Assume(r.Context(), callerID, req.DelegacaoID)
			if err != nil {
				switch {
				case errors.Is(err, ErrInvalidInput):
					writeError(w, http.StatusBadRequest, "delegacao_id obrigatório")
				case errors.Is(err, ErrForbidden):
					writeError(w, http.StatusForbidden, "sem delegação ativa para este usuário")
				default:
					internalError(w, reqLog, err)
				}
				return
			}
			reqLog.Info("delegation assumed", map[string]any{"delegacao_id": a.GrantID, "usuario_assumido_id": a.AssumedUserID})
			writeJSON(w, http.StatusOK, assumeResponse{
				UsuarioAssumidoID: a.AssumedUserID,
				Owner:             toProfileResponse(a.Owner),
			})

		case ActionExit:
			if err := svc.Exit(r.Context(), callerID); err != nil {
				internalError(w, reqLog, err)
				return
			}
			writeJSON(w, http.StatusOK, successResponse{Success: true})

		default:
			writeError(w, http.StatusBadRequest, "ação inválida")
		}
	}
}

func toListResponse(l Listing) listResponse {
	out := listResponse{
		Concedidos: make([]grantEntryResponse, 0, len(l.GrantedBy)),
		Recebidos:  make([]grantEntryResponse, 0, len(l.GrantedTo)),
	}
	for _, g := range l.GrantedBy {
		p := toProfileResponse(g.Counterpart)
		e := toGrantEntry(g.Grant)
		e.Delegado = &p
		out.Concedidos = append(out.Concedidos, e)
	}
	for _, g := range l.GrantedTo {
		p := toProfileResponse(g.Counterpart)
		e := toGrantEntry(g.Grant)
		e.Dono = &p
		out.Recebidos = append(out.Recebidos, e)
	}
	return out
}

func toGrantEntry(g Grant) grantEntryResponse {
	return grantEntryResponse{
		ID:         g.ID,
		DonoID:     g.OwnerUserID,
		DelegadoID: g.DelegateUserID,
		Status:     g.Status(),
		CreatedAt:  g.CreatedAt,
	}
}

func toProfileResponse(p Profile) profileResponse {
	return profileResponse{ID: p.ID, Nome: p.Name, Email: p.Email}
}

// internalError loguea el error crudo y devuelve un mensaje genérico.
func internalError(w http.ResponseWriter, log logger.Logger, err error) {
	log.Error("delegation action failed", map[string]any{"error": err})
	writeError(w, http.StatusInternalServerError, "erro interno")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
