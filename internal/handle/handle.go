// Package handle manages the opaque tokens that stand between the adapters
// and the backend. An adapter never sees what a token maps to; it creates a
// token, forwards calls through the registry, and destroys the token exactly
// once. A destroyed token is never reissued.
package handle

import "sync"

// Token identifies one backend-owned entity. The zero Token is "absent" and
// is a permanent terminal condition: every forwarding path treats it as a
// benign failure, never as something to dereference.
type Token uint64

// None is the absent token.
const None Token = 0

// Registry issues tokens for backend entities and resolves them on every
// forwarded call. Tokens are allocated from a monotonic counter, so a
// destroyed token can never collide with a live one.
//
// Thread Safety: all methods are safe for concurrent use, though the host
// contract itself is single-threaded.
type Registry struct {
	mu      sync.Mutex
	next    uint64
	entries map[Token]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Token]any)}
}

// Create binds a backend entity to a fresh token. A nil entity yields None,
// which callers propagate as an initialization failure; there are no retry
// semantics at this layer.
func (r *Registry) Create(entity any) Token {
	if entity == nil {
		return None
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	t := Token(r.next)
	r.entries[t] = entity
	return t
}

// Resolve returns the entity bound to a token. The second return is false
// for None, unknown, and destroyed tokens.
func (r *Registry) Resolve(t Token) (any, bool) {
	if t == None {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entity, ok := r.entries[t]
	return entity, ok
}

// Destroy releases a token. Callers guarantee a single call per token, but
// Destroy must not misbehave if handed None or an already-destroyed token;
// those are silent no-ops.
func (r *Registry) Destroy(t Token) {
	if t == None {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, t)
}

// Live returns the number of tokens currently bound.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
