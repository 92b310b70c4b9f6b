package diary

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"meufenil/internal/domain/acting"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/registros", func(rr chi.Router) {
		rr.Get("/", listEntriesHandler(svc))
		rr.Get("/resumo", summaryHandler(svc))

		// Escritura: bloqueada mientras se opera como otro usuario
		rr.With(acting.RequireSelf).Post("/", createEntryHandler(svc))
	})
}

type createEntryRequest struct {
	Data                string  `json:"data"` // YYYY-MM-DD opcional
	Alimento            string  `json:"alimento"`
	QuantidadeG         float64 `json:"quantidade_g"`
	FenilalaninaPor100g float64 `json:"fenilalanina_por_100g"`
}

type entryResponse struct {
	ID                  string    `json:"id"`
	UsuarioID           string    `json:"usuario_id"`
	Data                string    `json:"data"`
	Alimento            string    `json:"alimento"`
	QuantidadeG         float64   `json:"quantidade_g"`
	FenilalaninaPor100g float64   `json:"fenilalanina_por_100g"`
	FenilalaninaMg      float64   `json:"fenilalanina_mg"`
	CreatedAt           time.Time `json:"created_at"`
}

type summaryResponse struct {
	Data       string  `json:"data"`
	TotalMg    float64 `json:"total_mg"`
	LimiteMg   int     `json:"limite_mg"`
	RestanteMg float64 `json:"restante_mg"`
	Percentual float64 `json:"percentual"`
	Registros  int     `json:"registros"`
}

// createEntryHandler godoc
// @Summary Registrar consumo
// @Description Registra um alimento para o usuário autenticado. Bloqueado (403) enquanto se acessa a conta de outro usuário.
// @Tags registros
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payload body createEntryRequest true "registro"
// @Success 201 {object} entryResponse
// @Failure 400 {string} string "dados inválidos"
// @Failure 401 {string} string "não autenticado"
// @Failure 403 {string} string "somente leitura"
// @Router /registros [post]
func createEntryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := acting.FromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.Add(r.Context(), id.EffectiveUserID(), AddInput{
			Date:         req.Data,
			Food:         req.Alimento,
			QuantityG:    req.QuantidadeG,
			PhePer100gMg: req.FenilalaninaPor100g,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidDate):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toEntryResponse(e))
	}
}

// listEntriesHandler godoc
// @Summary Registros do dia
// @Description Lista os registros da identidade efetiva (o dono, se houver delegação assumida via `X-Delegacao-Id`).
// @Tags registros
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param X-Delegacao-Id header string false "delegação assumida"
// @Param data query string false "YYYY-MM-DD (default hoje)"
// @Success 200 {array} entryResponse
// @Router /registros [get]
func listEntriesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := acting.FromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, _, err := svc.ListByDay(r.Context(), id.EffectiveUserID(), r.URL.Query().Get("data"))
		if err != nil {
			if errors.Is(err, ErrInvalidDate) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]entryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEntryResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// summaryHandler godoc
// @Summary Resumo diário de fenilalanina
// @Tags registros
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param X-Delegacao-Id header string false "delegação assumida"
// @Param data query string false "YYYY-MM-DD (default hoje)"
// @Success 200 {object} summaryResponse
// @Router /registros/resumo [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := acting.FromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		s, err := svc.Summary(r.Context(), id.EffectiveUserID(), r.URL.Query().Get("data"))
		if err != nil {
			if errors.Is(err, ErrInvalidDate) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, summaryResponse{
			Data:       s.Date.Format(DateLayout),
			TotalMg:    s.TotalMg,
			LimiteMg:   s.LimitMg,
			RestanteMg: s.RemainingMg,
			Percentual: s.Percent,
			Registros:  s.Entries,
		})
	}
}

func toEntryResponse(e Entry) entryResponse {
	return entryResponse{
		ID:                  e.ID,
		UsuarioID:           e.UserID,
		Data:                e.Date.Format(DateLayout),
		Alimento:            e.Food,
		QuantidadeG:         e.QuantityG,
		FenilalaninaPor100g: e.PhePer100gMg,
		FenilalaninaMg:      e.PheMg,
		CreatedAt:           e.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
