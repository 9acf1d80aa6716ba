package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/quietleaf/mindlog/pkg/config"
)

func newTestClient(t *testing.T, srv *httptest.Server, maxRetries int) Client {
	t.Helper()
	c, err := NewClient(zap.NewNop().Sugar(), &cfgpkg.Config{GenAI: cfgpkg.GenAIConfig{
		BaseURL:        srv.URL,
		APIKey:         "test-key",
		Model:          "gemini-2.5-flash-lite",
		TimeoutSeconds: 5,
		MaxRetries:     maxRetries,
	}})
	require.NoError(t, err)
	return c
}

func generateBody(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
}

func TestGenerateText_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1beta/models/gemini-2.5-flash-lite:generateContent", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Equal(t, "hola", req.Contents[0].Parts[0].Text)

		_ = json.NewEncoder(w).Encode(generateBody("  respuesta  "))
	}))
	defer srv.Close()

	text, err := newTestClient(t, srv, 0).GenerateText(context.Background(), "hola")
	require.NoError(t, err)
	require.Equal(t, "respuesta", text)
}

func TestGenerateText_RetriesOn500(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(generateBody("segunda vez"))
	}))
	defer srv.Close()

	text, err := newTestClient(t, srv, 2).GenerateText(context.Background(), "hola")
	require.NoError(t, err)
	require.Equal(t, "segunda vez", text)
	require.Equal(t, 2, calls)
}

func TestGenerateText_NoRetryOn400(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 3).GenerateText(context.Background(), "hola")
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestGenerateText_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 0).GenerateText(context.Background(), "hola")
	require.Error(t, err)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(zap.NewNop().Sugar(), &cfgpkg.Config{})
	require.Error(t, err)
}
