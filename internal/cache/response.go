// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cache provides the TTL response cache for idempotent read
// endpoints. Entries are keyed by a canonical request signature and served
// until their TTL elapses or a mutation invalidates the route prefix.
//
// Caching is a performance optimization, never a correctness dependency:
// every backend error is logged and absorbed, and the caller recomputes
// the response fresh.
package cache

import (
	"context"
	"net/url"
	"time"
)

// DefaultTTL is how long a cached response stays valid unless the route
// has its own TTL configured.
const DefaultTTL = 5 * time.Minute

// Entry is a cached serialized response.
type Entry struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Backend is the storage behind the response cache. Implementations must
// fail open: errors are logged internally and reported as misses, never
// returned.
type Backend interface {
	Get(ctx context.Context, key string) (Entry, bool)
	Set(ctx context.Context, key string, e Entry, ttl time.Duration)
	DeletePrefix(ctx context.Context, prefix string)
}

// ResponseCache caches full serialized responses of read endpoints, with
// an independently configurable TTL per route.
type ResponseCache struct {
	backend   Backend
	ttl       time.Duration
	routeTTLs map[string]time.Duration
}

// New creates a ResponseCache over the given backend. A ttl of 0 uses
// DefaultTTL.
func New(backend Backend, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &ResponseCache{
		backend:   backend,
		ttl:       ttl,
		routeTTLs: make(map[string]time.Duration),
	}
}

// SetRouteTTL overrides the TTL for a single route (matched by canonical
// path).
func (rc *ResponseCache) SetRouteTTL(path string, ttl time.Duration) {
	rc.routeTTLs[path] = ttl
}

// TTLFor returns the TTL that applies to the given canonical path.
func (rc *ResponseCache) TTLFor(path string) time.Duration {
	if ttl, ok := rc.routeTTLs[path]; ok {
		return ttl
	}
	return rc.ttl
}

// Get looks up a cached response by its canonical key.
func (rc *ResponseCache) Get(ctx context.Context, key string) (Entry, bool) {
	return rc.backend.Get(ctx, key)
}

// Store caches a response under the given path's key. Only successful
// responses should be stored; the middleware enforces that.
func (rc *ResponseCache) Store(ctx context.Context, path string, key string, e Entry) {
	rc.backend.Set(ctx, key, e, rc.TTLFor(path))
}

// Invalidate drops every cached entry whose key starts with the given
// path prefix. Deliberately coarse: a mutation under /api/blogs clears all
// blog listings rather than tracking which filters it affected.
func (rc *ResponseCache) Invalidate(ctx context.Context, pathPrefix string) {
	rc.backend.DeletePrefix(ctx, pathPrefix)
}

// Key builds the canonical request signature for a path and its query
// parameters. Encode sorts parameters by name, so two requests that differ
// only in parameter order share one entry.
func Key(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
