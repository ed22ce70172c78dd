package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mission-backend/internal/shared/telemetry"
)

const requestIDHeader = "X-Request-Id"

// Inbound IDs end up in log lines and the response header, so only short
// token-like values are trusted.
var inboundRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID reuses a well-formed X-Request-Id or assigns a new UUID, echoes it
// in the response and stores it on the request context for the handlers and
// the missions service.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if !inboundRequestID.MatchString(id) {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(telemetry.WithRequestID(c.Request.Context(), id))
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestIDFromContext returns the ID assigned by RequestID.
func RequestIDFromContext(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return ""
	}
	return telemetry.RequestID(c.Request.Context())
}
