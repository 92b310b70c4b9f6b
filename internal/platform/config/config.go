package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

type AuthMode string

const (
	// AuthModeJWT verifica localmente el JWT de Supabase (HS256 con el JWT secret del proyecto).
	AuthModeJWT AuthMode = "jwt"
	// AuthModeRemote pregunta a Supabase Auth (/auth/v1/user) por cada token.
	AuthModeRemote AuthMode = "remote"
	// AuthModeDev no verifica tokens; acepta X-Debug-User-ID.
	AuthModeDev AuthMode = "dev"
)

// Config se llena con kong: flags > env > default.
type Config struct {
	Port string `help:"HTTP listen port" default:"8080" env:"PORT"`

	DBDSN         string `name:"db-dsn" help:"Postgres DSN; vacío usa storage in-memory" env:"DB_DSN"`
	DBAutoMigrate bool   `name:"db-auto-migrate" help:"aplicar migraciones al arrancar" default:"false" env:"DB_AUTO_MIGRATE"`

	AuthMode          string `help:"modo de autenticación" default:"jwt" enum:"jwt,remote,dev" env:"AUTH_MODE"`
	SupabaseURL       string `name:"supabase-url" help:"URL del proyecto Supabase" env:"SUPABASE_URL"`
	SupabaseAnonKey   string `name:"supabase-anon-key" help:"anon key (header apikey)" env:"SUPABASE_ANON_KEY"`
	SupabaseJWTSecret string `name:"supabase-jwt-secret" help:"JWT secret del proyecto" env:"SUPABASE_JWT_SECRET"`

	CORSOrigins []string `name:"cors-origins" help:"origins permitidos para rutas de la app" default:"*" env:"CORS_ORIGINS"`

	LogLevel  string `help:"debug|info|warn|error" default:"info" env:"LOG_LEVEL"`
	LogFormat string `help:"text|json" default:"text" env:"LOG_FORMAT"`
	AppName   string `help:"nombre de la app en logs" default:"meufenil" env:"APP_NAME"`
}

// Validate revisa combinaciones que kong no puede expresar.
func (c *Config) Validate() error {
	switch AuthMode(c.AuthMode) {
	case AuthModeJWT:
		if strings.TrimSpace(c.SupabaseJWTSecret) == "" {
			return fmt.Errorf("auth mode %q requires SUPABASE_JWT_SECRET", c.AuthMode)
		}
	case AuthModeRemote:
		if strings.TrimSpace(c.SupabaseURL) == "" || strings.TrimSpace(c.SupabaseAnonKey) == "" {
			return fmt.Errorf("auth mode %q requires SUPABASE_URL and SUPABASE_ANON_KEY", c.AuthMode)
		}
	case AuthModeDev:
	default:
		return fmt.Errorf("unknown auth mode %q", c.AuthMode)
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}

// LoadDotenv carga el primer .env que encuentre subiendo hasta dos niveles.
// Ausente es OK (prod usa env real). Devuelve el path cargado o "".
func LoadDotenv() string {
	for _, p := range []string{".env", filepath.Join("..", ".env"), filepath.Join("..", "..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// Parse arma un parser kong sobre cfg sin salir del proceso; lo usa main y los tests.
func Parse(cfg *Config, args []string) error {
	parser, err := kong.New(cfg,
		kong.Name("meufenil-api"),
		kong.Description("MeuFenil API"),
	)
	if err != nil {
		return err
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}
	return cfg.Validate()
}
