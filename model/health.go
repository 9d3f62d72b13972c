package model

import (
	"sync"
	"time"
)

// EndpointHealth is a point-in-time snapshot of an endpoint's health.
type EndpointHealth struct {
	// Available indicates if the endpoint is currently usable.
	Available bool `json:"available"`

	// LastSuccess is the time of the last successful request.
	LastSuccess time.Time `json:"last_success,omitempty"`

	// LastFailure is the time of the last failed request.
	LastFailure time.Time `json:"last_failure,omitempty"`

	// FailureCount is the number of consecutive failures.
	FailureCount int `json:"failure_count"`

	// CircuitOpen indicates if the circuit breaker has tripped.
	CircuitOpen bool `json:"circuit_open"`

	// CircuitOpenedAt is when the circuit was opened.
	CircuitOpenedAt time.Time `json:"circuit_opened_at,omitempty"`
}

// HealthConfig configures circuit breaker behavior for endpoints.
type HealthConfig struct {
	// FailureThreshold is the number of consecutive failures that trips
	// the circuit.
	FailureThreshold int

	// RecoveryTimeout is how long a tripped circuit stays closed before a
	// test request is allowed through.
	RecoveryTimeout time.Duration
}

// DefaultHealthConfig returns the default circuit breaker settings.
func DefaultHealthConfig() HealthConfig {
	return HealthConfig{
		FailureThreshold: 3,
		RecoveryTimeout:  30 * time.Second,
	}
}

type healthState struct {
	mu       sync.RWMutex
	config   HealthConfig
	statuses map[string]*EndpointHealth
}

func newHealthState(cfg HealthConfig) *healthState {
	return &healthState{
		config:   cfg,
		statuses: make(map[string]*EndpointHealth),
	}
}

func (h *healthState) get(name string) *EndpointHealth {
	if status, ok := h.statuses[name]; ok {
		return status
	}
	status := &EndpointHealth{Available: true}
	h.statuses[name] = status
	return status
}

// ensureHealth lazily initializes health tracking with defaults.
func (r *Registry) ensureHealth() *healthState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.health == nil {
		r.health = newHealthState(DefaultHealthConfig())
	}
	return r.health
}

// MarkEndpointSuccess records a successful request, resetting the failure
// count and closing the circuit if it was open.
func (r *Registry) MarkEndpointSuccess(name string) {
	h := r.ensureHealth()

	h.mu.Lock()
	defer h.mu.Unlock()

	status := h.get(name)
	status.LastSuccess = time.Now()
	status.FailureCount = 0
	status.Available = true
	status.CircuitOpen = false
}

// MarkEndpointFailure records a failed request and trips the circuit once
// the failure threshold is reached.
func (r *Registry) MarkEndpointFailure(name string) {
	h := r.ensureHealth()

	h.mu.Lock()
	defer h.mu.Unlock()

	status := h.get(name)
	status.LastFailure = time.Now()
	status.FailureCount++

	if status.FailureCount >= h.config.FailureThreshold {
		status.CircuitOpen = true
		status.CircuitOpenedAt = time.Now()
		status.Available = false
	}
}

// IsEndpointAvailable reports whether an endpoint should receive requests.
// A tripped circuit admits one test request after the recovery timeout.
func (r *Registry) IsEndpointAvailable(name string) bool {
	r.mu.RLock()
	h := r.health
	r.mu.RUnlock()
	if h == nil {
		return true
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	status, ok := h.statuses[name]
	if !ok || !status.CircuitOpen {
		return true
	}

	// Half-open: admit a probe once the recovery window has passed.
	return time.Since(status.CircuitOpenedAt) > h.config.RecoveryTimeout
}

// GetEndpointHealth returns a copy of the health status for an endpoint,
// or nil if the endpoint has never been tracked.
func (r *Registry) GetEndpointHealth(name string) *EndpointHealth {
	r.mu.RLock()
	h := r.health
	r.mu.RUnlock()
	if h == nil {
		return nil
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	status, ok := h.statuses[name]
	if !ok {
		return nil
	}
	snapshot := *status
	return &snapshot
}

// GetAvailableFallbackChain returns the capability's fallback chain with
// circuit-open endpoints filtered out. When every endpoint is unavailable
// the full chain is returned so the client still tries something.
func (r *Registry) GetAvailableFallbackChain(c Capability) []string {
	chain := r.GetFallbackChain(c)
	available := make([]string, 0, len(chain))

	for _, name := range chain {
		if r.IsEndpointAvailable(name) {
			available = append(available, name)
		}
	}

	if len(available) == 0 {
		return chain
	}
	return available
}

// SetHealthConfig replaces the circuit breaker configuration.
func (r *Registry) SetHealthConfig(cfg HealthConfig) {
	r.mu.Lock()
	if r.health == nil {
		r.health = newHealthState(cfg)
		r.mu.Unlock()
		return
	}
	h := r.health
	r.mu.Unlock()

	h.mu.Lock()
	h.config = cfg
	h.mu.Unlock()
}

// ResetEndpointHealth clears tracked health for an endpoint.
func (r *Registry) ResetEndpointHealth(name string) {
	r.mu.RLock()
	h := r.health
	r.mu.RUnlock()
	if h == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.statuses, name)
}
