package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/c360studio/docsense/llm"
	_ "github.com/c360studio/docsense/llm/providers" // Register providers
	"github.com/c360studio/docsense/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRegistry builds a single-endpoint registry pointing the fast
// capability at the given OpenAI-compatible test server.
func testRegistry(url string) *model.Registry {
	return model.NewRegistry(
		map[model.Capability]*model.CapabilityConfig{
			model.CapabilityFast: {
				Preferred: []string{"test-model"},
			},
		},
		map[string]*model.EndpointConfig{
			"test-model": {
				Provider: "ollama",
				URL:      url,
				Model:    "test-model",
			},
		},
	)
}

func openAIReply(content string) map[string]any {
	return map[string]any{
		"model": "test-model",
		"choices": []map[string]any{
			{
				"message": map[string]string{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]int{
			"prompt_tokens":     10,
			"completion_tokens": 8,
			"total_tokens":      18,
		},
	}
}

func TestClient_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openAIReply("ANSWER: Forty-two."))
	}))
	defer server.Close()

	client := llm.NewClient(testRegistry(server.URL))

	resp, err := client.Complete(context.Background(), llm.Request{
		Capability: "fast",
		Messages: []llm.Message{
			{Role: "user", Content: "What is the answer?"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "ANSWER: Forty-two.", resp.Content)
	assert.Equal(t, "test-model", resp.Model)
	assert.Equal(t, 18, resp.Usage.TotalTokens)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.NotEmpty(t, resp.RequestID)
}

func TestClient_Complete_RetryOnTransientError(t *testing.T) {
	var attempts atomic.Int32

	// Fails twice, succeeds on the third attempt.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Service temporarily unavailable"))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openAIReply("Success after retries"))
	}))
	defer server.Close()

	client := llm.NewClient(testRegistry(server.URL), llm.WithRetryConfig(llm.RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       10 * time.Millisecond,
		BackoffMultiplier: 1.5,
		MaxBackoff:        100 * time.Millisecond,
	}))

	resp, err := client.Complete(context.Background(), llm.Request{
		Capability: "fast",
		Messages: []llm.Message{
			{Role: "user", Content: "Test"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Success after retries", resp.Content)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_Complete_NoRetryOnFatalError(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Invalid API key"))
	}))
	defer server.Close()

	client := llm.NewClient(testRegistry(server.URL))

	_, err := client.Complete(context.Background(), llm.Request{
		Capability: "fast",
		Messages: []llm.Message{
			{Role: "user", Content: "Test"},
		},
	})

	require.Error(t, err)
	assert.True(t, llm.IsFatal(err))
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_Complete_Fallback(t *testing.T) {
	var primaryAttempts, fallbackAttempts atomic.Int32

	primaryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		primaryAttempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Primary down"))
	}))
	defer primaryServer.Close()

	fallbackServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fallbackAttempts.Add(1)
		json.NewEncoder(w).Encode(openAIReply("From fallback"))
	}))
	defer fallbackServer.Close()

	registry := model.NewRegistry(
		map[model.Capability]*model.CapabilityConfig{
			model.CapabilityReasoning: {
				Preferred: []string{"primary"},
				Fallback:  []string{"fallback"},
			},
		},
		map[string]*model.EndpointConfig{
			"primary": {
				Provider: "ollama",
				URL:      primaryServer.URL,
				Model:    "primary-model",
			},
			"fallback": {
				Provider: "ollama",
				URL:      fallbackServer.URL,
				Model:    "fallback-model",
			},
		},
	)

	client := llm.NewClient(registry, llm.WithRetryConfig(llm.RetryConfig{
		MaxAttempts:       2,
		BackoffBase:       1 * time.Millisecond,
		BackoffMultiplier: 1.0,
		MaxBackoff:        10 * time.Millisecond,
	}))

	resp, err := client.Complete(context.Background(), llm.Request{
		Capability: "reasoning",
		Messages: []llm.Message{
			{Role: "user", Content: "Test"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "From fallback", resp.Content)
	assert.Equal(t, int32(2), primaryAttempts.Load())
	assert.Equal(t, int32(1), fallbackAttempts.Load())
}

func TestClient_Complete_RateLimitRetry(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte("Rate limited"))
			return
		}

		json.NewEncoder(w).Encode(openAIReply("Success"))
	}))
	defer server.Close()

	client := llm.NewClient(testRegistry(server.URL), llm.WithRetryConfig(llm.RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       1 * time.Millisecond,
		BackoffMultiplier: 1.0,
		MaxBackoff:        10 * time.Millisecond,
	}))

	resp, err := client.Complete(context.Background(), llm.Request{
		Capability: "fast",
		Messages: []llm.Message{
			{Role: "user", Content: "Test"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Success", resp.Content)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestClient_Complete_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := llm.NewClient(testRegistry(server.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, llm.Request{
		Capability: "fast",
		Messages: []llm.Message{
			{Role: "user", Content: "Test"},
		},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "context")
}

func TestClient_Complete_ValidationErrors(t *testing.T) {
	client := llm.NewClient(model.NewDefaultRegistry())

	tests := []struct {
		name    string
		req     llm.Request
		wantErr string
	}{
		{
			name:    "empty capability",
			req:     llm.Request{Messages: []llm.Message{{Role: "user", Content: "hi"}}},
			wantErr: "capability is required",
		},
		{
			name:    "no messages",
			req:     llm.Request{Capability: "fast"},
			wantErr: "at least one message is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Complete(context.Background(), tt.req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClient_Complete_CircuitBreakerSkipsFailedEndpoint(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	registry := testRegistry(server.URL)
	registry.SetHealthConfig(model.HealthConfig{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Minute,
	})

	client := llm.NewClient(registry, llm.WithRetryConfig(llm.RetryConfig{
		MaxAttempts:       1,
		BackoffBase:       1 * time.Millisecond,
		BackoffMultiplier: 1.0,
		MaxBackoff:        10 * time.Millisecond,
	}))

	req := llm.Request{
		Capability: "fast",
		Messages:   []llm.Message{{Role: "user", Content: "Test"}},
	}

	_, err := client.Complete(context.Background(), req)
	require.Error(t, err)
	assert.False(t, registry.IsEndpointAvailable("test-model"))
}

func TestClient_Complete_TriesEndpointWithOpenCircuit(t *testing.T) {
	var attempts atomic.Int32

	// Fails on the first call, recovers afterwards.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream down"))
			return
		}
		json.NewEncoder(w).Encode(openAIReply("Recovered"))
	}))
	defer server.Close()

	registry := testRegistry(server.URL)
	registry.SetHealthConfig(model.HealthConfig{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Minute,
	})

	client := llm.NewClient(registry, llm.WithRetryConfig(llm.RetryConfig{
		MaxAttempts:       1,
		BackoffBase:       1 * time.Millisecond,
		BackoffMultiplier: 1.0,
		MaxBackoff:        10 * time.Millisecond,
	}))

	req := llm.Request{
		Capability: "fast",
		Messages:   []llm.Message{{Role: "user", Content: "Test"}},
	}

	_, err := client.Complete(context.Background(), req)
	require.Error(t, err)
	require.False(t, registry.IsEndpointAvailable("test-model"))

	// With every circuit open the full chain is still tried, so the
	// recovered endpoint serves the request and its circuit closes.
	resp, err := client.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Recovered", resp.Content)
	assert.True(t, registry.IsEndpointAvailable("test-model"))
}
