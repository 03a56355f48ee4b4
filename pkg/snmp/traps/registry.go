// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package traps

import (
	"fmt"
	"sync"

	"github.com/jchmura/jmeter-snmp/pkg/snmp/snmperr"
)

// ErrDuplicateKey is returned when a correlation key is registered while an
// earlier waiter for the same key has not been resolved or cancelled yet.
var ErrDuplicateKey = &snmperr.Error{Class: snmperr.Correlation, Message: "correlation key is already awaited"}

// Registry maps correlation keys to the waiters blocked on them.
type Registry struct {
	mu      sync.Mutex
	waiters map[string]*Waiter
}

// Waiter is one pending wait for a correlated reply. It is either fired by
// Resolve or cancelled by its owner, never both.
type Waiter struct {
	key      string
	registry *Registry
	done     chan struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{waiters: make(map[string]*Waiter)}
}

// Register inserts a waiter for key. It fails with ErrDuplicateKey if key is
// already registered, leaving the existing waiter untouched.
func (r *Registry) Register(key string) (*Waiter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.waiters[key]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	w := &Waiter{key: key, registry: r, done: make(chan struct{})}
	r.waiters[key] = w
	pendingWaiters.Inc()
	return w, nil
}

// Resolve removes the waiter registered under key and fires it. It returns
// false when no waiter was registered.
func (r *Registry) Resolve(key string) bool {
	r.mu.Lock()
	w, ok := r.waiters[key]
	if ok {
		delete(r.waiters, key)
		pendingWaiters.Dec()
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	close(w.done)
	return true
}

// Pending returns the number of registered waiters.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.waiters)
}

func (r *Registry) remove(w *Waiter) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.waiters[w.key]; ok && current == w {
		delete(r.waiters, w.key)
		pendingWaiters.Dec()
		return true
	}
	return false
}

// Key returns the correlation key the waiter is registered under.
func (w *Waiter) Key() string {
	return w.key
}

// Done is closed when a matching notification is received.
func (w *Waiter) Done() <-chan struct{} {
	return w.done
}

// Cancel removes the registration if it is still pending. It is safe to call
// after the waiter fired, and more than once.
func (w *Waiter) Cancel() bool {
	return w.registry.remove(w)
}
