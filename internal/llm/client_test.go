package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/llm"
)

func testClient(t *testing.T, handler http.HandlerFunc) *llm.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return llm.NewClient(llm.Provider{
		Name:    "test",
		BaseURL: srv.URL,
		Model:   "test-model",
		APIKey:  "test-key",
	})
}

func TestChat_ReturnsFirstChoiceContent(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "{\"title\":\"Trip\"}"}}]}`))
	})

	got, err := client.Chat(context.Background(), "plan a trip")

	require.NoError(t, err)
	assert.Equal(t, `{"title":"Trip"}`, got)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotBody["model"])
}

func TestChat_Non2xxIsUpstreamError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.Chat(context.Background(), "prompt")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "429")
}

func TestChat_ErrorFieldIn200Body(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"error": {"message": "model overloaded", "type": "server_error"}}`))
	})

	_, err := client.Chat(context.Background(), "prompt")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestChat_MissingChoices(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	})

	_, err := client.Chat(context.Background(), "prompt")

	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestChat_EmptyContent(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "  "}}]}`))
	})

	_, err := client.Chat(context.Background(), "prompt")

	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestChat_ContextCancellation(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Chat(ctx, "prompt")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProvider_Configured(t *testing.T) {
	assert.False(t, llm.Provider{}.Configured())
	assert.False(t, llm.Provider{BaseURL: "x", Model: "y"}.Configured())
	assert.True(t, llm.Provider{BaseURL: "x", Model: "y", APIKey: "z"}.Configured())
}

func TestPreset(t *testing.T) {
	for _, name := range []string{"openai", "deepseek", "moonshot"} {
		p, ok := llm.Preset(name)
		require.True(t, ok, "preset %q should exist", name)
		assert.Equal(t, name, p.Name)
		assert.NotEmpty(t, p.BaseURL)
		assert.NotEmpty(t, p.Model)
		assert.False(t, p.Configured(), "presets carry no API key")
	}

	_, ok := llm.Preset("unknown")
	assert.False(t, ok)
}
