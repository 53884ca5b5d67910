package resilience

import (
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ProviderHealth represents the health status of a provider.
type ProviderHealth struct {
	// Name is the provider identifier.
	Name string

	// CircuitState is the current circuit breaker state.
	CircuitState gobreaker.State

	// Counts contains circuit breaker statistics.
	Counts gobreaker.Counts

	// LastSuccessAt is the timestamp of the last successful request.
	LastSuccessAt *time.Time

	// LastFailureAt is the timestamp of the last failed request.
	LastFailureAt *time.Time

	// ConsecutiveFailures is the number of failures since the last success.
	ConsecutiveFailures int

	// LastError is the most recent error message, if any.
	LastError string
}

// IsHealthy returns true if the provider is considered healthy.
func (h *ProviderHealth) IsHealthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// IsDegraded returns true if the provider is in a degraded state (half-open).
func (h *ProviderHealth) IsDegraded() bool {
	return h.CircuitState == gobreaker.StateHalfOpen
}

// IsUnhealthy returns true if the provider is unhealthy (circuit open).
func (h *ProviderHealth) IsUnhealthy() bool {
	return h.CircuitState == gobreaker.StateOpen
}

// Registry tracks registered providers and their health status. Entries are
// reported in registration order, which callers rely on for ordered fallback
// across candidates (the assistant tries models in the order they were
// registered).
type Registry struct {
	mu        sync.RWMutex
	order     []string
	providers map[string]*registeredProvider
}

type registeredProvider struct {
	client              *Client
	state               gobreaker.State
	lastSuccessAt       *time.Time
	lastFailureAt       *time.Time
	consecutiveFailures int
	lastError           string
}

// GlobalRegistry is the default provider registry.
var GlobalRegistry = NewRegistry()

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]*registeredProvider),
	}
}

// Register adds a provider client to the registry.
func (r *Registry) Register(name string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		r.order = append(r.order, name)
	}
	r.providers[name] = &registeredProvider{
		client: client,
		state:  gobreaker.StateClosed,
	}
}

// RegisterName adds a tracker-only entry without a client. Used for
// candidates that share a single HTTP client but are tracked individually,
// such as the assistant's model list.
func (r *Registry) RegisterName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; ok {
		return
	}
	r.order = append(r.order, name)
	r.providers[name] = &registeredProvider{
		state: gobreaker.StateClosed,
	}
}

// Unregister removes a provider from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		return
	}
	delete(r.providers, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// RecordSuccess records a successful request for a provider and resets its
// consecutive failure count.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.providers[name]; ok {
		now := time.Now()
		p.lastSuccessAt = &now
		p.consecutiveFailures = 0
	}
}

// RecordFailure records a failed request for a provider.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.providers[name]; ok {
		now := time.Now()
		p.lastFailureAt = &now
		p.consecutiveFailures++
		if err != nil {
			p.lastError = err.Error()
		}
	}
}

// RecordStateChange records a circuit breaker state transition.
func (r *Registry) RecordStateChange(name string, state gobreaker.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.providers[name]; ok {
		p.state = state
	}
}

// ConsecutiveFailures returns the failure streak for a provider, or zero if
// the provider is not registered.
func (r *Registry) ConsecutiveFailures(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.providers[name]; ok {
		return p.consecutiveFailures
	}
	return 0
}

// GetHealth returns the health status of a specific provider.
func (r *Registry) GetHealth(name string) *ProviderHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil
	}

	return providerHealth(name, p)
}

// GetAllHealth returns the health status of all registered providers in
// registration order.
func (r *Registry) GetAllHealth() []*ProviderHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := make([]*ProviderHealth, 0, len(r.order))
	for _, name := range r.order {
		health = append(health, providerHealth(name, r.providers[name]))
	}

	return health
}

// GetProviderNames returns the names of all registered providers in
// registration order.
func (r *Registry) GetProviderNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// ProviderCount returns the number of registered providers.
func (r *Registry) ProviderCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}

func providerHealth(name string, p *registeredProvider) *ProviderHealth {
	h := &ProviderHealth{
		Name:                name,
		CircuitState:        p.state,
		LastSuccessAt:       p.lastSuccessAt,
		LastFailureAt:       p.lastFailureAt,
		ConsecutiveFailures: p.consecutiveFailures,
		LastError:           p.lastError,
	}
	if p.client != nil {
		h.CircuitState = p.client.CircuitBreakerState()
		h.Counts = p.client.CircuitBreakerCounts()
	}
	return h
}
