package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDoJSON_SendsHeadersAndDecodes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "anon", r.Header.Get("apikey"))
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["acao"]})
	}))
	defer ts.Close()

	c, err := NewWithBaseURL(ts.URL, time.Second)
	require.NoError(t, err)
	c.Headers = map[string]string{"apikey": "anon"}

	var out struct {
		Echo string `json:"echo"`
	}
	err = c.DoJSON(context.Background(), http.MethodPost, "delegacao",
		map[string]string{"Authorization": "Bearer tok"},
		map[string]string{"acao": "listar"}, &out)
	require.NoError(t, err)
	require.Equal(t, "listar", out.Echo)
}

func TestDoJSON_Non2xx_ReturnsHTTPErrorWithMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"sem acesso"}`))
	}))
	defer ts.Close()

	c := New(time.Second)
	err := c.DoJSON(context.Background(), http.MethodGet, ts.URL, nil, nil, nil)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.StatusCode)
	require.Equal(t, "sem acesso", he.Message())
}

func TestHTTPError_Message_NonJSONBody(t *testing.T) {
	he := &HTTPError{StatusCode: 502, Body: "bad gateway"}
	require.Equal(t, "", he.Message())
}

func TestDoJSON_RelativePathWithoutBaseURL(t *testing.T) {
	c := New(0)
	err := c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil)
	require.Error(t, err)
}
