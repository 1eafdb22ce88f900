package provider

import (
	"net/http"

	"github.com/spec-kit/fullstack-starter/pkg/apperr"
)

// Registry holds all configured OAuth providers and allows lookup by name.
// It performs no auth logic itself.
type Registry struct {
	providers map[string]OAuthProvider
}

// NewRegistry registers the given OAuth providers by name.
func NewRegistry(list ...OAuthProvider) *Registry {
	m := make(map[string]OAuthProvider)
	for _, p := range list {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// Get returns the OAuth provider by name.
func (r *Registry) Get(name string) (OAuthProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, apperr.NewWithCode("unknown provider: "+name, http.StatusNotFound, "UNKNOWN_PROVIDER")
	}
	return p, nil
}

// Names lists registered provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
