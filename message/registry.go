package message

import (
	"strings"
	"sync"

	"github.com/zostay/go-mimeframe/message/header"
)

// EntityFactory builds the entity that will receive a body with the given
// header. The depth is zero for a top-level body and one more for each
// multipart level above it.
type EntityFactory func(pr *Parser, h *header.Header, depth int) (Entity, error)

// Registry maps media types to entity factories. A key may be an exact
// media type such as "text/plain", a "type/*" wildcard, or "*/*". It is safe
// for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]EntityFactory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]EntityFactory{}}
}

// NewDefaultRegistry returns a Registry that builds a *Multipart for
// multipart/*, a *Form for application/x-www-form-urlencoded, and an *Opaque
// for everything else.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("multipart/*", multipartFactory)
	r.Register(FormURLEncoded, formFactory)
	r.Register("*/*", opaqueFactory)
	return r
}

// DefaultRegistry is the Registry used when no other is configured.
var DefaultRegistry = NewDefaultRegistry()

// Register sets the factory for a media type or wildcard, replacing any
// factory already set for it.
func (r *Registry) Register(mediaType string, f EntityFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(mediaType)] = f
}

// Lookup finds the factory for a media type. An exact match wins over a
// "type/*" wildcard, which wins over "*/*".
func (r *Registry) Lookup(mediaType string) (EntityFactory, bool) {
	mediaType = strings.ToLower(mediaType)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.factories[mediaType]; ok {
		return f, true
	}

	if typ, _, ok := strings.Cut(mediaType, "/"); ok {
		if f, ok := r.factories[typ+"/*"]; ok {
			return f, true
		}
	}

	f, ok := r.factories["*/*"]
	return f, ok
}

func opaqueFactory(_ *Parser, h *header.Header, _ int) (Entity, error) {
	return NewOpaque(h), nil
}

func formFactory(_ *Parser, h *header.Header, _ int) (Entity, error) {
	return newFormEntity(h), nil
}

func multipartFactory(pr *Parser, h *header.Header, depth int) (Entity, error) {
	boundary, err := h.GetBoundary()
	if err != nil || boundary == "" {
		return nil, ErrNoBoundary
	}
	return NewMultipart(h, pr.NewMultipartParser(boundary, depth)), nil
}
