package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilityForTask(t *testing.T) {
	assert.Equal(t, CapabilityFast, CapabilityForTask("summarize"))
	assert.Equal(t, CapabilityReasoning, CapabilityForTask("answer"))
	assert.Equal(t, CapabilityReasoning, CapabilityForTask("challenge"))
	assert.Equal(t, CapabilityGrading, CapabilityForTask("evaluate"))

	// Unknown tasks fall back to reasoning.
	assert.Equal(t, CapabilityReasoning, CapabilityForTask("translate"))
}

func TestParseCapability(t *testing.T) {
	assert.Equal(t, CapabilityFast, ParseCapability("fast"))
	assert.Equal(t, CapabilityGrading, ParseCapability("grading"))
	assert.Equal(t, Capability(""), ParseCapability("bogus"))
}

func TestDefaultRegistryResolve(t *testing.T) {
	r := NewDefaultRegistry()

	assert.Equal(t, "gemini-flash", r.Resolve(CapabilityFast))
	assert.Equal(t, "gemini-flash", r.Resolve(CapabilityReasoning))

	// Unknown capability resolves to the default model.
	assert.Equal(t, "gemini-flash", r.Resolve(Capability("unknown")))
}

func TestGetFallbackChain(t *testing.T) {
	r := NewDefaultRegistry()

	chain := r.GetFallbackChain(CapabilityReasoning)
	require.Len(t, chain, 3)
	assert.Equal(t, "gemini-flash", chain[0])
	assert.Equal(t, "claude-sonnet", chain[1])
	assert.Equal(t, "qwen", chain[2])
}

func TestGetEndpoint(t *testing.T) {
	r := NewDefaultRegistry()

	ep := r.GetEndpoint("gemini-flash")
	require.NotNil(t, ep)
	assert.Equal(t, "gemini", ep.Provider)
	assert.Equal(t, "gemini-1.5-flash", ep.Model)

	assert.Nil(t, r.GetEndpoint("nonexistent"))
}

func TestSetEndpointAndCapability(t *testing.T) {
	r := NewRegistry(nil, nil)

	r.SetEndpoint("local", &EndpointConfig{
		Provider: "ollama",
		URL:      "http://localhost:11434/v1",
		Model:    "llama3",
	})
	r.SetCapability(CapabilityFast, &CapabilityConfig{
		Preferred: []string{"local"},
	})
	r.SetDefault("local")

	assert.Equal(t, "local", r.Resolve(CapabilityFast))
	require.NotNil(t, r.GetEndpoint("local"))
	assert.Contains(t, r.ListEndpoints(), "local")
	assert.Contains(t, r.ListCapabilities(), CapabilityFast)
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	r := NewDefaultRegistry()

	// Two failures stay below the default threshold of three.
	r.MarkEndpointFailure("gemini-flash")
	r.MarkEndpointFailure("gemini-flash")
	assert.True(t, r.IsEndpointAvailable("gemini-flash"))

	r.MarkEndpointFailure("gemini-flash")
	assert.False(t, r.IsEndpointAvailable("gemini-flash"))

	health := r.GetEndpointHealth("gemini-flash")
	require.NotNil(t, health)
	assert.True(t, health.CircuitOpen)
	assert.Equal(t, 3, health.FailureCount)
}

func TestCircuitBreakerRecovery(t *testing.T) {
	r := NewDefaultRegistry()
	r.SetHealthConfig(HealthConfig{
		FailureThreshold: 1,
		RecoveryTimeout:  10 * time.Millisecond,
	})

	r.MarkEndpointFailure("qwen")
	assert.False(t, r.IsEndpointAvailable("qwen"))

	// Half-open after the recovery timeout.
	time.Sleep(20 * time.Millisecond)
	assert.True(t, r.IsEndpointAvailable("qwen"))

	// A success closes the circuit for good.
	r.MarkEndpointSuccess("qwen")
	health := r.GetEndpointHealth("qwen")
	require.NotNil(t, health)
	assert.False(t, health.CircuitOpen)
	assert.Equal(t, 0, health.FailureCount)
}

func TestGetAvailableFallbackChainFiltersOpenCircuits(t *testing.T) {
	r := NewDefaultRegistry()
	r.SetHealthConfig(HealthConfig{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Minute,
	})

	r.MarkEndpointFailure("gemini-flash")

	chain := r.GetAvailableFallbackChain(CapabilityReasoning)
	require.Len(t, chain, 2)
	assert.Equal(t, "claude-sonnet", chain[0])
	assert.Equal(t, "qwen", chain[1])
}

func TestGetAvailableFallbackChainAllUnavailable(t *testing.T) {
	r := NewDefaultRegistry()
	r.SetHealthConfig(HealthConfig{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Minute,
	})

	for _, name := range r.GetFallbackChain(CapabilityFast) {
		r.MarkEndpointFailure(name)
	}

	// Better to try something than nothing.
	chain := r.GetAvailableFallbackChain(CapabilityFast)
	assert.Equal(t, r.GetFallbackChain(CapabilityFast), chain)
}

func TestResetEndpointHealth(t *testing.T) {
	r := NewDefaultRegistry()

	r.MarkEndpointFailure("gemini-flash")
	require.NotNil(t, r.GetEndpointHealth("gemini-flash"))

	r.ResetEndpointHealth("gemini-flash")
	assert.Nil(t, r.GetEndpointHealth("gemini-flash"))
}
