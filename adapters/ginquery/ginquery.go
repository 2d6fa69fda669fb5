// Package ginquery binds a state.URLStore to the query string of a gin
// request.
package ginquery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-querystate/pkg/state"
)

const (
	storeKey   = "querystate.store"
	versionKey = "querystate.version"
	pushesKey  = "querystate.pushes"
)

// Option configures the middleware.
type Option func(*config)

type config struct {
	storeOpts  []state.Option
	autoCommit bool
}

// WithStoreOptions forwards options to every URLStore the middleware builds.
func WithStoreOptions(opts ...state.Option) Option {
	return func(cfg *config) {
		cfg.storeOpts = append(cfg.storeOpts, opts...)
	}
}

// WithAutoCommit redirects after the handler chain when it changed the
// state and has not written a response itself.
func WithAutoCommit() Option {
	return func(cfg *config) {
		cfg.autoCommit = true
	}
}

// Middleware attaches a URLStore seeded from the request URL to the context.
func Middleware(opts ...Option) gin.HandlerFunc {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return func(c *gin.Context) {
		store := state.NewURLStore(c.Request.URL, cfg.storeOpts...)
		c.Set(storeKey, store)
		meta := store.Meta()
		c.Set(versionKey, meta.Version)
		c.Set(pushesKey, meta.Pushes)
		c.Next()

		if cfg.autoCommit && !c.Writer.Written() {
			Commit(c)
		}
	}
}

// Store returns the store bound by Middleware, or nil.
func Store(c *gin.Context) *state.URLStore {
	if c == nil {
		return nil
	}
	if v, ok := c.Get(storeKey); ok {
		if store, ok := v.(*state.URLStore); ok {
			return store
		}
	}
	return nil
}

// Commit flushes batched writes and redirects to the new URL when the state
// changed during the request: 303 See Other when any transition of the
// request was pushed, 302 Found when all were replaced. It reports whether a
// redirect was issued.
func Commit(c *gin.Context) bool {
	store := Store(c)
	if store == nil {
		return false
	}
	store.Flush(c.Request.Context())

	meta := store.Meta()
	if meta.Version == c.GetUint64(versionKey) {
		return false
	}
	status := http.StatusFound
	if meta.Pushes != c.GetUint64(pushesKey) {
		status = http.StatusSeeOther
	}
	c.Redirect(status, store.URL().RequestURI())
	return true
}
