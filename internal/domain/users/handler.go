package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"meufenil/internal/domain/acting"
	"meufenil/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/me/perfil", func(pr chi.Router) {
		// Perfil de la identidad efectiva (el dueño si hay delegación asumida)
		pr.Get("/", getProfileHandler(svc))

		// Solo el propio usuario edita su perfil
		pr.With(acting.RequireSelf).Patch("/", updateProfileHandler(svc))
	})
}

type profileResponse struct {
	ID              string     `json:"id"`
	Nome            string     `json:"nome"`
	Email           string     `json:"email"`
	Papel           Role       `json:"papel"`
	LimiteDiarioMg  int        `json:"limite_diario_mg"`
	Timezone        string     `json:"timezone"`
	ConsentimentoEm *time.Time `json:"consentimento_em,omitempty"`

	// Presente solo cuando se opera como otro usuario
	AcessandoComo *string `json:"acessando_como,omitempty"`
}

type updateProfileRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Nome           *string `json:"nome"`
	LimiteDiarioMg *int    `json:"limite_diario_mg"`
	Timezone       *string `json:"timezone"`
	Consentir      bool    `json:"consentir"`
}

// getProfileHandler godoc
// @Summary Perfil do usuário
// @Description Devolve o perfil da identidade efetiva. Com `X-Delegacao-Id` devolve o perfil do dono da delegação.
// @Tags perfil
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param X-Delegacao-Id header string false "delegação assumida"
// @Success 200 {object} profileResponse
// @Failure 401 {string} string "não autenticado"
// @Router /me/perfil [get]
func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var (
			u   User
			err error
		)
		id, delegated := acting.FromContext(r.Context())
		if delegated && id.IsDelegated() {
			u, err = svc.GetByID(r.Context(), id.ActingAsID)
		} else {
			u, err = svc.EnsureFromClaims(r.Context(), claims)
		}
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := toProfileResponse(u)
		if delegated && id.IsDelegated() {
			self := id.SelfID
			resp.AcessandoComo = &self
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// updateProfileHandler godoc
// @Summary Atualizar perfil
// @Tags perfil
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payload body updateProfileRequest true "campos a atualizar"
// @Success 200 {object} profileResponse
// @Failure 400 {string} string "dados inválidos"
// @Failure 403 {string} string "somente leitura"
// @Router /me/perfil [patch]
func updateProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// primer PATCH antes de cualquier GET
		if _, err := svc.EnsureFromClaims(r.Context(), claims); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		u, err := svc.UpdateProfile(r.Context(), claims.UserID, UpdateProfileInput{
			Name:         req.Nome,
			DailyLimitMg: req.LimiteDiarioMg,
			Timezone:     req.Timezone,
			Consent:      req.Consentir,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(u))
	}
}

func toProfileResponse(u User) profileResponse {
	return profileResponse{
		ID:              u.ID,
		Nome:            u.Name,
		Email:           u.Email,
		Papel:           u.Role,
		LimiteDiarioMg:  u.DailyLimitMg,
		Timezone:        u.Timezone,
		ConsentimentoEm: u.ConsentAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
