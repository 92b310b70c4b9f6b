// Package delegationclient es el cliente Go del endpoint /delegacao: las cinco
// acciones más el overlay de sesión que usa la UI para "entrar como" otro usuario.
package delegationclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"meufenil/internal/platform/httpclient"
)

const (
	DefaultPath = "/delegacao"

	// FallbackMessage se usa cuando el servidor no manda {"error": ...}.
	FallbackMessage = "Erro ao processar delegação"

	headerGrantID = "X-Delegacao-Id"
)

// ErrReadOnly: conceder/revogar no se permiten mientras hay un overlay activo.
var ErrReadOnly = errors.New("somente leitura enquanto acessa a conta de outro usuário")

// APIError es una respuesta no-2xx del endpoint.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// TokenSource devuelve el access token actual ("" = sin Authorization).
type TokenSource func(ctx context.Context) (string, error)

type Config struct {
	BaseURL string
	Path    string        // default DefaultPath
	Timeout time.Duration // default httpclient.DefaultTimeout

	// Headers extra en cada request (apikey de Supabase, headers de debug en dev).
	Headers map[string]string
}

type Client struct {
	http    *httpclient.Client
	path    string
	token   TokenSource
	session Session
}

func New(cfg Config, token TokenSource, session Session) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("delegationclient: base url required")
	}
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	hc.Headers = cfg.Headers

	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		path = DefaultPath
	}
	if session == nil {
		session = NewMemorySession()
	}
	return &Client{http: hc, path: path, token: token, session: session}, nil
}

type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
}

type Grant struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"dono_id"`
	DelegateID string    `json:"delegado_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	Delegate   *Profile  `json:"delegado,omitempty"`
	Owner      *Profile  `json:"dono,omitempty"`
}

type Listing struct {
	GrantedBy []Grant `json:"concedidos"`
	GrantedTo []Grant `json:"recebidos"`
}

type request struct {
	Acao        string `json:"acao"`
	Email       string `json:"email,omitempty"`
	DelegacaoID string `json:"delegacao_id,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type assumeResponse struct {
	AssumedUserID string  `json:"usuario_assumido_id"`
	Owner         Profile `json:"owner"`
}

func (c *Client) List(ctx context.Context) (Listing, error) {
	var out Listing
	if err := c.call(ctx, request{Acao: "listar"}, &out); err != nil {
		return Listing{}, err
	}
	if out.GrantedBy == nil {
		out.GrantedBy = []Grant{}
	}
	if out.GrantedTo == nil {
		out.GrantedTo = []Grant{}
	}
	return out, nil
}

func (c *Client) Grant(ctx context.Context, email string) error {
	if c.Acting() {
		return ErrReadOnly
	}
	return c.call(ctx, request{Acao: "conceder", Email: strings.TrimSpace(email)}, &successResponse{})
}

func (c *Client) Revoke(ctx context.Context, grantID string) error {
	if c.Acting() {
		return ErrReadOnly
	}
	return c.call(ctx, request{Acao: "revogar", DelegacaoID: grantID}, &successResponse{})
}

// Assume valida el grant en el servidor y guarda el overlay en la sesión.
func (c *Client) Assume(ctx context.Context, grantID string) (Overlay, error) {
	var out assumeResponse
	if err := c.call(ctx, request{Acao: "assumir", DelegacaoID: grantID}, &out); err != nil {
		return Overlay{}, err
	}
	o := Overlay{GrantID: grantID, AssumedUserID: out.AssumedUserID, Owner: out.Owner}
	c.session.Set(o)
	return o, nil
}

// Exit avisa al servidor y limpia el overlay aunque la llamada falle.
func (c *Client) Exit(ctx context.Context) error {
	defer c.session.Clear()
	return c.call(ctx, request{Acao: "sair"}, &successResponse{})
}

// Current devuelve el overlay activo, si hay.
func (c *Client) Current() (Overlay, bool) {
	return c.session.Get()
}

func (c *Client) Acting() bool {
	_, ok := c.session.Get()
	return ok
}

// ActingHeaders son los headers que la app agrega a sus requests mientras hay overlay.
func (c *Client) ActingHeaders() map[string]string {
	o, ok := c.session.Get()
	if !ok {
		return map[string]string{}
	}
	return map[string]string{headerGrantID: o.GrantID}
}

func (c *Client) call(ctx context.Context, in request, out any) error {
	headers := map[string]string{}
	if c.token != nil {
		tok, err := c.token(ctx)
		if err != nil {
			return fmt.Errorf("delegationclient: token: %w", err)
		}
		if tok = strings.TrimSpace(tok); tok != "" {
			headers["Authorization"] = "Bearer " + tok
		}
	}

	err := c.http.DoJSON(ctx, http.MethodPost, c.path, headers, in, out)
	if err == nil {
		return nil
	}
	if he, ok := httpclient.AsHTTPError(err); ok {
		msg := he.Message()
		if msg == "" {
			msg = FallbackMessage
		}
		return &APIError{Status: he.StatusCode, Message: msg}
	}
	return err
}
