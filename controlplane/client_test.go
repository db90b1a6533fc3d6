// controlplane/client_test.go
package controlplane_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dev-rajatverma/doorward/controlplane"
	doorward_errors "github.com/dev-rajatverma/doorward/errors"
	logger "github.com/dev-rajatverma/doorward/logging"
)

func TestMain(m *testing.M) {
	logger.InitLogger("../logging")
	defer logger.Sync()
	os.Exit(m.Run())
}

func newTestClient(handler http.HandlerFunc) (*controlplane.Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := controlplane.NewClient(controlplane.Config{
		BaseURL:    server.URL,
		APIKey:     "test-session",
		APIVersion: "2.8",
	})
	return client, server
}

func TestClient_Call(t *testing.T) {
	ctx := context.Background()

	t.Run("Sends the session header and version parameter", func(t *testing.T) {
		var gotHeader, gotVersion string
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			gotHeader = r.Header.Get("bs-session-id")
			gotVersion = r.URL.Query().Get("api_version")
			w.Write([]byte(`true`))
		})
		defer server.Close()

		raw, err := client.Call(ctx, http.MethodGet, "devices", nil, nil)

		assert.NoError(t, err)
		assert.Equal(t, true, raw)
		assert.Equal(t, "test-session", gotHeader)
		assert.Equal(t, "2.8", gotVersion)
	})

	t.Run("Marshals the body and merges query parameters", func(t *testing.T) {
		var gotBody map[string]any
		var gotParam string
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			gotParam = r.URL.Query().Get("external_id")
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.Write([]byte(`{"id": 4012}`))
		})
		defer server.Close()

		raw, err := client.Call(ctx, http.MethodPost, "users/lookup",
			map[string]string{"external_id": "EMP-1042"},
			map[string]any{"user_id": 4012})

		assert.NoError(t, err)
		assert.Equal(t, "EMP-1042", gotParam)
		assert.Equal(t, float64(4012), gotBody["user_id"])
		assert.Equal(t, map[string]any{"id": float64(4012)}, raw)
	})

	t.Run("Preserves the vendor response shape", func(t *testing.T) {
		shapes := []struct {
			name string
			body string
			want any
		}{
			{"json bool", `false`, false},
			{"json number", `257`, float64(257)},
			{"quoted numeric string", `"-1"`, "-1"},
			{"json object", `{"Ecode": 5}`, map[string]any{"Ecode": float64(5)}},
			{"bare prose", `Success`, "Success"},
			{"empty body", ``, nil},
		}
		for _, tc := range shapes {
			t.Run(tc.name, func(t *testing.T) {
				client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(tc.body))
				})
				defer server.Close()

				raw, err := client.Call(ctx, http.MethodGet, "status", nil, nil)

				assert.NoError(t, err)
				assert.Equal(t, tc.want, raw)
			})
		}
	})

	t.Run("Non-2xx is a transport error carrying the body", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "session expired", http.StatusUnauthorized)
		})
		defer server.Close()

		raw, err := client.Call(ctx, http.MethodGet, "devices", nil, nil)

		assert.Nil(t, raw)
		var httpErr *controlplane.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
		assert.Contains(t, httpErr.Body, "session expired")
		assert.ErrorIs(t, err, doorward_errors.ErrControlPlane)
	})

	t.Run("Unreachable control plane is an error, not an outcome", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
		server.Close() // refuse all connections

		raw, err := client.Call(ctx, http.MethodGet, "devices", nil, nil)

		assert.Nil(t, raw)
		assert.ErrorIs(t, err, doorward_errors.ErrControlPlane)
	})
}

func TestStateReader(t *testing.T) {
	ctx := context.Background()

	t.Run("Reads terminals from a wrapped record list", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/4012/terminal_auth", r.URL.Path)
			w.Write([]byte(`{"records": [{"terminal_id": 3}, {"terminal_id": 7}]}`))
		})
		defer server.Close()

		terminals, err := controlplane.NewStateReader(client).TerminalAuthList(ctx, 4012)

		assert.NoError(t, err)
		assert.Equal(t, []int64{3, 7}, terminals)
	})

	t.Run("Reads terminals from a bare array under alternate keys", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"device_id": 3}, {"id": 7}]`))
		})
		defer server.Close()

		terminals, err := controlplane.NewStateReader(client).TerminalAuthList(ctx, 4012)

		assert.NoError(t, err)
		assert.Equal(t, []int64{3, 7}, terminals)
	})

	t.Run("Reads template identifiers", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/4012/templates", r.URL.Path)
			w.Write([]byte(`{"rows": [{"template_id": "tpl-88"}]}`))
		})
		defer server.Close()

		templates, err := controlplane.NewStateReader(client).TemplateList(ctx, 4012)

		assert.NoError(t, err)
		assert.Equal(t, []string{"tpl-88"}, templates)
	})

	t.Run("Empty listing is empty, not an error", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"records": []}`))
		})
		defer server.Close()

		terminals, err := controlplane.NewStateReader(client).TerminalAuthList(ctx, 4012)

		assert.NoError(t, err)
		assert.Empty(t, terminals)
	})
}
