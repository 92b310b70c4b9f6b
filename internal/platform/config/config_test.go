package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_DefaultsFromEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "dev")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	var cfg Config
	require.NoError(t, Parse(&cfg, nil))

	require.Equal(t, ":9090", cfg.Addr())
	require.Equal(t, "dev", cfg.AuthMode)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.Equal(t, "meufenil", cfg.AppName)
	require.False(t, cfg.DBAutoMigrate)
}

func TestParse_JWTModeRequiresSecret(t *testing.T) {
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("SUPABASE_JWT_SECRET", "")

	var cfg Config
	require.Error(t, Parse(&cfg, nil))

	t.Setenv("SUPABASE_JWT_SECRET", "super-secret")
	cfg = Config{}
	require.NoError(t, Parse(&cfg, nil))
}

func TestParse_RemoteModeRequiresSupabase(t *testing.T) {
	var cfg Config
	err := Parse(&cfg, []string{"--auth-mode=remote"})
	require.Error(t, err)

	cfg = Config{}
	err = Parse(&cfg, []string{
		"--auth-mode=remote",
		"--supabase-url=https://proj.supabase.co",
		"--supabase-anon-key=anon",
	})
	require.NoError(t, err)
}
