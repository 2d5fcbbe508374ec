// Package lookup resolves callsigns to operator details via QRZ.com or
// HamQTH. Both services speak session-keyed XML over HTTP; results are
// cached for the life of the service so repeat lookups cost nothing.
package lookup

import (
	"context"
	"strings"
	"sync"

	"github.com/termlog/termlog/internal/config"
	"github.com/termlog/termlog/internal/core"
)

// Provider is a single lookup backend.
type Provider interface {
	// Authenticate obtains a session with the service.
	Authenticate(ctx context.Context) error

	// Lookup resolves one callsign. Returns core.ErrLookupNotFound when
	// the service has no record for it.
	Lookup(ctx context.Context, callsign string) (*core.LookupResult, error)
}

// Service wraps a provider with a result cache.
type Service struct {
	provider Provider

	mu    sync.Mutex
	cache map[string]*core.LookupResult
}

// NewService builds a lookup service from configuration. Returns
// core.ErrLookupDisabled when no service is configured or credentials
// are missing.
func NewService(cfg config.LookupConfig) (*Service, error) {
	var provider Provider
	switch cfg.Service {
	case config.LookupQRZ:
		if cfg.Username == "" || cfg.Password == "" {
			return nil, core.ErrLookupDisabled
		}
		provider = NewQRZClient(cfg.Username, cfg.Password)
	case config.LookupHamQTH:
		if cfg.Username == "" || cfg.Password == "" {
			return nil, core.ErrLookupDisabled
		}
		provider = NewHamQTHClient(cfg.Username, cfg.Password)
	default:
		return nil, core.ErrLookupDisabled
	}

	return &Service{
		provider: provider,
		cache:    make(map[string]*core.LookupResult),
	}, nil
}

// newServiceWithProvider is a test hook.
func newServiceWithProvider(p Provider) *Service {
	return &Service{provider: p, cache: make(map[string]*core.LookupResult)}
}

// Lookup resolves a callsign, serving repeats from cache.
func (s *Service) Lookup(ctx context.Context, callsign string) (*core.LookupResult, error) {
	callsign = strings.ToUpper(strings.TrimSpace(callsign))
	if callsign == "" {
		return nil, core.ErrInvalidInput
	}

	s.mu.Lock()
	if cached, ok := s.cache[callsign]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	result, err := s.provider.Lookup(ctx, callsign)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[callsign] = result
	s.mu.Unlock()
	return result, nil
}

// ClearCache drops every cached result.
func (s *Service) ClearCache() {
	s.mu.Lock()
	s.cache = make(map[string]*core.LookupResult)
	s.mu.Unlock()
}
