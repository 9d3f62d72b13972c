package model

import "sync"

// Registry manages model selection based on capabilities.
// It maps capabilities to preferred models with fallback chains and tracks
// endpoint health so the completion client can skip failing endpoints.
// There is deliberately no package-level instance: whoever composes the
// assistant constructs a registry and passes it down.
type Registry struct {
	mu           sync.RWMutex
	capabilities map[Capability]*CapabilityConfig
	endpoints    map[string]*EndpointConfig
	defaults     *DefaultsConfig
	health       *healthState
}

// CapabilityConfig defines model preferences for a capability.
type CapabilityConfig struct {
	// Description explains what this capability is for.
	Description string `yaml:"description" json:"description"`

	// Preferred lists models in order of preference.
	Preferred []string `yaml:"preferred" json:"preferred"`

	// Fallback lists backup models if all preferred fail.
	Fallback []string `yaml:"fallback" json:"fallback"`
}

// EndpointConfig defines an available model endpoint.
type EndpointConfig struct {
	// Provider is the completion backend (gemini, openai, anthropic, ollama).
	Provider string `yaml:"provider" json:"provider"`

	// URL is the API endpoint URL (empty uses the provider default).
	URL string `yaml:"url,omitempty" json:"url,omitempty"`

	// Model is the actual model identifier to send to the provider.
	Model string `yaml:"model" json:"model"`

	// MaxTokens is the context window size.
	MaxTokens int `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty"`
}

// DefaultsConfig holds default model settings.
type DefaultsConfig struct {
	// Model is the default model when no capability matches.
	Model string `yaml:"model" json:"model"`
}

// NewRegistry creates a model registry with the given configuration.
func NewRegistry(caps map[Capability]*CapabilityConfig, endpoints map[string]*EndpointConfig) *Registry {
	return &Registry{
		capabilities: caps,
		endpoints:    endpoints,
		defaults: &DefaultsConfig{
			Model: "default",
		},
	}
}

// NewDefaultRegistry creates a registry with sensible defaults.
// The assistant's original backend is Gemini, so it leads every chain;
// local Ollama is the offline fallback.
func NewDefaultRegistry() *Registry {
	return &Registry{
		capabilities: map[Capability]*CapabilityConfig{
			CapabilityFast: {
				Description: "Summaries and other quick generation",
				Preferred:   []string{"gemini-flash"},
				Fallback:    []string{"qwen"},
			},
			CapabilityReasoning: {
				Description: "Question answering and challenge generation",
				Preferred:   []string{"gemini-flash", "claude-sonnet"},
				Fallback:    []string{"qwen"},
			},
			CapabilityGrading: {
				Description: "Evaluating user answers against the source",
				Preferred:   []string{"gemini-flash", "claude-sonnet"},
				Fallback:    []string{"qwen"},
			},
		},
		endpoints: map[string]*EndpointConfig{
			"gemini-flash": {
				Provider:  "gemini",
				Model:     "gemini-1.5-flash",
				MaxTokens: 1000000,
			},
			"claude-sonnet": {
				Provider:  "anthropic",
				Model:     "claude-sonnet-4-20250514",
				MaxTokens: 200000,
			},
			"gpt-4o-mini": {
				Provider:  "openai",
				Model:     "gpt-4o-mini",
				MaxTokens: 128000,
			},
			"qwen": {
				Provider:  "ollama",
				URL:       "http://localhost:11434/v1",
				Model:     "qwen2.5:14b",
				MaxTokens: 128000,
			},
		},
		defaults: &DefaultsConfig{
			Model: "gemini-flash",
		},
	}
}

// Resolve returns the preferred model for a capability.
func (r *Registry) Resolve(c Capability) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cfg, ok := r.capabilities[c]; ok && len(cfg.Preferred) > 0 {
		return cfg.Preferred[0]
	}
	return r.defaults.Model
}

// GetFallbackChain returns all models for a capability in order of
// preference. The completion client walks this chain when endpoints fail.
func (r *Registry) GetFallbackChain(c Capability) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cfg, ok := r.capabilities[c]; ok {
		chain := make([]string, 0, len(cfg.Preferred)+len(cfg.Fallback))
		chain = append(chain, cfg.Preferred...)
		chain = append(chain, cfg.Fallback...)
		return chain
	}
	return []string{r.defaults.Model}
}

// GetEndpoint returns the endpoint configuration for a model name.
// Returns nil if the model is not configured.
func (r *Registry) GetEndpoint(modelName string) *EndpointConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.endpoints[modelName]
}

// SetCapability updates or adds a capability configuration.
func (r *Registry) SetCapability(c Capability, cfg *CapabilityConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.capabilities == nil {
		r.capabilities = make(map[Capability]*CapabilityConfig)
	}
	r.capabilities[c] = cfg
}

// SetEndpoint updates or adds an endpoint configuration.
// Used by config reload to swap endpoints without restarting.
func (r *Registry) SetEndpoint(name string, cfg *EndpointConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.endpoints == nil {
		r.endpoints = make(map[string]*EndpointConfig)
	}
	r.endpoints[name] = cfg
}

// SetDefault sets the default model.
func (r *Registry) SetDefault(modelName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.defaults == nil {
		r.defaults = &DefaultsConfig{}
	}
	r.defaults.Model = modelName
}

// ListCapabilities returns all configured capabilities.
func (r *Registry) ListCapabilities() []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps := make([]Capability, 0, len(r.capabilities))
	for c := range r.capabilities {
		caps = append(caps, c)
	}
	return caps
}

// ListEndpoints returns all configured endpoint names.
func (r *Registry) ListEndpoints() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	return names
}
