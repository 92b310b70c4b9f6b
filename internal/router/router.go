package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "meufenil/docs"
	mem "meufenil/internal/adapters/storage/memory"
	pg "meufenil/internal/adapters/storage/postgres"
	"meufenil/internal/domain/acting"
	"meufenil/internal/domain/delegations"
	"meufenil/internal/domain/diary"
	"meufenil/internal/domain/users"
	"meufenil/internal/middleware"
	"meufenil/internal/platform/logger"
	"meufenil/internal/ports/auth"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger

	// Orígenes permitidos en las rutas de la app. Vacío = "*".
	CORSOrigins []string
}

// Headers que manda el cliente web (supabase-js agrega x-client-info y apikey).
var allowedHeaders = []string{
	"Accept",
	"Authorization",
	"Content-Type",
	"X-Client-Info",
	"apikey",
	acting.HeaderGrantID,
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	var (
		userRepo  users.Repository
		grantRepo delegations.Repository
		diaryRepo diary.Repository
	)
	if opts.DB != nil {
		userRepo = pg.NewUsersRepo(opts.DB)
		grantRepo = pg.NewDelegationsRepo(opts.DB)
		diaryRepo = pg.NewDiaryRepo(opts.DB)
	} else {
		userRepo = mem.NewUsersRepo()
		grantRepo = mem.NewDelegationsRepo()
		diaryRepo = mem.NewDiaryRepo()
	}

	// Services por módulo
	usersSvc := users.NewService(userRepo)
	dir := userDirectory{users: usersSvc}
	delegationsSvc := delegations.NewService(grantRepo, dir)
	diarySvc := diary.NewService(diaryRepo, usersSvc)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier, log))
	r.Use(acting.Middleware(delegationsSvc))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Endpoint de delegación: abierto a cualquier origen, solo POST/OPTIONS.
	r.Group(func(gr chi.Router) {
		gr.Use(cors.Handler(cors.Options{
			AllowedOrigins:     []string{"*"},
			AllowedMethods:     []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders:     allowedHeaders,
			OptionsPassthrough: true,
			MaxAge:             300,
		}))
		delegations.RegisterRoutes(gr, delegationsSvc, dir, log)
	})

	// Rutas de la app
	r.Group(func(gr chi.Router) {
		origins := opts.CORSOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		gr.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
			AllowedHeaders: allowedHeaders,
			MaxAge:         300,
		}))
		gr.Use(ensureProfile(usersSvc, log))

		users.RegisterRoutes(gr, usersSvc)
		diary.RegisterRoutes(gr, diarySvc)
	})

	return r
}

// ensureProfile crea el perfil en el primer request autenticado, antes de que
// cualquier escritura lo referencie.
func ensureProfile(svc *users.Service, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := middleware.GetClaims(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if _, err := svc.EnsureFromClaims(r.Context(), claims); err != nil {
				log.Error("ensure profile failed", map[string]any{"user_id": claims.UserID, "error": err})
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
