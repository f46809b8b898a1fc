package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	var gotPayload generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/generate", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		json.NewEncoder(w).Encode(map[string]any{"response": "All quiet.\nACTION: show_notification with title=Hi, message=There"})
	}))
	defer srv.Close()

	c, err := NewClient(Config{Model: "llama2", APIBase: srv.URL})
	require.NoError(t, err)

	text, err := c.Generate(context.Background(), "How is the system?")
	require.NoError(t, err)

	assert.Equal(t, "All quiet.\nACTION: show_notification with title=Hi, message=There", text)
	assert.Equal(t, generateRequest{Model: "llama2", Prompt: "How is the system?", Stream: false}, gotPayload)
}

func TestGenerateBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient(Config{Model: "llama2", APIBase: srv.URL})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "hello")
	assert.Error(t, err)
}

func TestGenerateConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c, err := NewClient(Config{Model: "llama2", APIBase: srv.URL})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "hello")
	assert.Error(t, err)
}

func TestGenerateDecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c, err := NewClient(Config{Model: "llama2", APIBase: srv.URL})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "hello")
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{{"name": "llama2"}, {"name": "mistral"}},
		})
	}))
	defer srv.Close()

	c, err := NewClient(Config{Model: "llama2", APIBase: srv.URL})
	require.NoError(t, err)

	assert.NoError(t, c.Verify(context.Background()))
}

func TestVerifyMissingModelIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{{"name": "mistral"}},
		})
	}))
	defer srv.Close()

	c, err := NewClient(Config{Model: "llama2", APIBase: srv.URL})
	require.NoError(t, err)

	assert.NoError(t, c.Verify(context.Background()))
}

func TestModelInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/show", r.URL.Path)
		require.Equal(t, "llama2", r.URL.Query().Get("name"))
		json.NewEncoder(w).Encode(map[string]any{"parameters": "num_ctx 4096"})
	}))
	defer srv.Close()

	c, err := NewClient(Config{Model: "llama2", APIBase: srv.URL})
	require.NoError(t, err)

	info, err := c.ModelInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "num_ctx 4096", info["parameters"])
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{Model: "", APIBase: "http://localhost:11434"})
	assert.Error(t, err)

	_, err = NewClient(Config{Model: "llama2", APIBase: ""})
	assert.Error(t, err)
}
