// @title MeuFenil API
// @version 1.0
// @description Backend do MeuFenil: perfil, registros de fenilalanina e delegação de acesso.
// @BasePath /
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"meufenil/internal/adapters/auth/supabase"
	pg "meufenil/internal/adapters/storage/postgres"
	"meufenil/internal/platform/config"
	"meufenil/internal/platform/logger"
	"meufenil/internal/ports/auth"
	"meufenil/internal/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	envFile := config.LoadDotenv()

	var cfg config.Config
	if err := config.Parse(&cfg, os.Args[1:]); err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	if envFile != "" {
		log.Debug("loaded env file", map[string]any{"path": envFile})
	}

	verifier, err := newVerifier(cfg)
	if err != nil {
		return err
	}

	var db *sql.DB
	if cfg.DBDSN != "" {
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()

		if cfg.DBAutoMigrate {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			err := pg.Migrate(ctx, db, log)
			cancel()
			if err != nil {
				return err
			}
		}
	} else {
		log.Warn("DB_DSN not set, using in-memory storage", nil)
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			AuthVerifier: verifier,
			DB:           db,
			Logger:       log,
			CORSOrigins:  cfg.CORSOrigins,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "auth_mode": cfg.AuthMode, "postgres": db != nil})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newVerifier devuelve nil en modo dev (AuthContext acepta X-Debug-User-ID).
func newVerifier(cfg config.Config) (auth.AuthVerifier, error) {
	switch config.AuthMode(cfg.AuthMode) {
	case config.AuthModeJWT:
		return supabase.NewJWTVerifier(cfg.SupabaseJWTSecret), nil
	case config.AuthModeRemote:
		client, err := supabase.NewClient(supabase.Config{
			BaseURL: cfg.SupabaseURL,
			AnonKey: cfg.SupabaseAnonKey,
		})
		if err != nil {
			return nil, fmt.Errorf("supabase client: %w", err)
		}
		return supabase.NewVerifier(client), nil
	default:
		return nil, nil
	}
}
