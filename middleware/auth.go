package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fieldops/opsreport/store"
	"github.com/fieldops/opsreport/util"
)

// ValidateSessionToken is the per-request authorization guard. It extracts
// the bearer token, verifies signature and expiry, and then re-checks live
// block status so a block takes effect even for sessions issued before it.
// Only login appends access audit rows; this guard does not, to keep audit
// volume bounded.
func ValidateSessionToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Credential not provided",
				Err: store.ErrMissingCredential,
			})
			c.Abort()
			return
		}

		claims, err := util.VerifySessionToken(token)
		if err != nil {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Invalid or expired session",
				Err: store.ErrInvalidCredential,
			})
			c.Abort()
			return
		}

		st := GetStore(c)
		if st == nil {
			util.CallServerError(c, util.APIErrorParams{
				Msg: "Store not available",
				Err: fmt.Errorf("store is nil"),
			})
			c.Abort()
			return
		}

		// Signature alone is not enough: the block set is consulted on every
		// authorized call, so an admin block invalidates live sessions.
		if st.Access.IsBlocked(claims.Email) {
			util.LogUnauthorizedAccess(claims.Email, c.ClientIP(), c.Request.URL.Path, "operator is blocked")
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Access is blocked",
				Err: store.ErrBlocked,
			})
			c.Abort()
			return
		}

		SetCaller(c, Caller{
			Email:   claims.Email,
			Name:    claims.Name,
			IsAdmin: claims.IsAdmin,
		})
		c.Next()
	}
}

// RequireAdmin gates admin-only operations. It must run after
// ValidateSessionToken.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Credential not provided",
				Err: store.ErrMissingCredential,
			})
			c.Abort()
			return
		}
		if !caller.IsAdmin {
			util.LogUnauthorizedAccess(caller.Email, c.ClientIP(), c.Request.URL.Path, "administrator role required")
			util.CallUserForbidden(c, util.APIErrorParams{
				Msg: "Administrator role required",
				Err: store.ErrForbidden,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
