package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ryabko/account-service/internal/core/domain"
)

// Keys under which request-scoped values are stored on the gin context.
const (
	TraceIDHeader = "X-Trace-ID"
	TraceIDKey    = "trace_id"
	AccountKey    = "account"
)

// EnrichContext ensures every request carries a trace id, minting one when
// the caller did not supply it, and echoes it back in the response.
func EnrichContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)
		c.Next()
	}
}

// GetTraceID returns the request's trace id, or empty when unset.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(TraceIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// GetAuthenticatedAccount returns the account attached by RequireAuth.
func GetAuthenticatedAccount(c *gin.Context) (domain.Account, bool) {
	v, ok := c.Get(AccountKey)
	if !ok {
		return domain.Account{}, false
	}
	account, ok := v.(domain.Account)
	return account, ok
}
