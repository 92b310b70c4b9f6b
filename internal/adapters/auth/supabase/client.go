package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"meufenil/internal/platform/httpclient"
	"meufenil/internal/ports/auth"
)

var (
	ErrSupabaseNotConfigured = errors.New("supabase client not configured")
	ErrSupabaseUpstream      = errors.New("supabase upstream error")
)

// Config del cliente de Supabase Auth.
type Config struct {
	BaseURL string // https://<proj>.supabase.co
	AnonKey string

	Timeout time.Duration
}

type Client struct {
	http    *httpclient.Client
	anonKey string
}

func NewClient(cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), timeout)
	if err != nil {
		return nil, err
	}
	anon := strings.TrimSpace(cfg.AnonKey)
	hc.Headers = map[string]string{"apikey": anon}

	return &Client{http: hc, anonKey: anon}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.anonKey != ""
}

// GetUser resuelve el usuario dueño del access token vía GET /auth/v1/user.
func (c *Client) GetUser(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrSupabaseNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrUnauthenticated
	}

	var out struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	err := c.http.DoJSON(ctx, http.MethodGet, "/auth/v1/user",
		map[string]string{"Authorization": "Bearer " + token}, nil, &out)
	if err != nil {
		if he, ok := httpclient.AsHTTPError(err); ok {
			switch he.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden:
				return auth.Claims{}, auth.ErrUnauthenticated
			}
			return auth.Claims{}, fmt.Errorf("%w: status=%d", ErrSupabaseUpstream, he.StatusCode)
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrSupabaseUpstream, err)
	}

	out.ID = strings.TrimSpace(out.ID)
	if out.ID == "" {
		return auth.Claims{}, errors.New("supabase response missing id")
	}

	return auth.Claims{
		UserID: out.ID,
		Email:  strings.ToLower(strings.TrimSpace(out.Email)),
		Role:   strings.TrimSpace(out.Role),
	}, nil
}
