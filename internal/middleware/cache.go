// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache.go is the response-cache middleware for idempotent GET routes.
// On a hit it short-circuits the handler entirely; on a miss it records
// the handler's response and stores it if successful. The X-Cache header
// exposes which path was taken so callers and tests can assert on it.
package middleware

import (
	"bytes"
	"net/http"

	"inkwell/internal/cache"
)

// recordedWriter buffers the response body alongside the status code so a
// successful response can be cached after the handler returns.
type recordedWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
	body       bytes.Buffer
}

func (rw *recordedWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordedWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.statusCode = http.StatusOK
		rw.written = true
	}
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

// CacheResponse wraps a GET route with the response cache. route is the
// canonical path used for TTL lookup and key prefixing; the full key also
// includes the sorted query string, so parameter order never splits
// entries.
func CacheResponse(rc *cache.ResponseCache, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rc == nil || r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := cache.Key(r.URL.Path, r.URL.Query())

			if e, ok := rc.Get(r.Context(), key); ok {
				if e.ContentType != "" {
					w.Header().Set("Content-Type", e.ContentType)
				}
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(e.Status)
				w.Write(e.Body)
				return
			}

			w.Header().Set("X-Cache", "MISS")
			rw := &recordedWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			// Only successful responses are cacheable.
			if rw.statusCode >= 200 && rw.statusCode < 300 {
				rc.Store(r.Context(), route, key, cache.Entry{
					Status:      rw.statusCode,
					ContentType: rw.Header().Get("Content-Type"),
					Body:        rw.body.Bytes(),
				})
			}
		})
	}
}
