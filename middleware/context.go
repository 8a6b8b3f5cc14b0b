package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/fieldops/opsreport/store"
)

const (
	storeContextKey  = "opsreport_store"
	callerContextKey = "opsreport_caller"
)

// Caller is the resolved identity of an authorized request, snapshot from
// the session claims after the guard has passed.
type Caller struct {
	Email   string
	Name    string
	IsAdmin bool
}

// StoreMiddleware injects the process-wide store into the request context so
// handlers never reach for ambient globals.
func StoreMiddleware(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(storeContextKey, st)
		c.Next()
	}
}

// GetStore retrieves the injected store, or nil when the middleware was not
// installed.
func GetStore(c *gin.Context) *store.Store {
	v, ok := c.Get(storeContextKey)
	if !ok {
		return nil
	}
	st, _ := v.(*store.Store)
	return st
}

// SetCaller records the authorized caller on the request context.
func SetCaller(c *gin.Context, caller Caller) {
	c.Set(callerContextKey, caller)
}

// GetCaller returns the authorized caller, if the request passed the guard.
func GetCaller(c *gin.Context) (Caller, bool) {
	v, ok := c.Get(callerContextKey)
	if !ok {
		return Caller{}, false
	}
	caller, ok := v.(Caller)
	return caller, ok
}
