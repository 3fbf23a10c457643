package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/example/fta/internal/ctxutil"
	"github.com/example/fta/internal/logger"
)

const requestLoggerKey = "fta.logger"

// requestContext assigns a request id, resolves the actor, and logs the
// request on completion. The id and actor travel on the request context so
// services and the audit log see them.
func requestContext(log *logger.Logger, defaultActor string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		actor := c.GetHeader(HeaderActor)
		if actor == "" {
			actor = defaultActor
		}

		ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
		ctx = ctxutil.WithActorID(ctx, actor)
		c.Request = c.Request.WithContext(ctx)

		reqLog := log.With("request_id", requestID)
		c.Set(requestLoggerKey, reqLog)

		start := time.Now()
		c.Next()

		reqLog.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"actor", actor,
		)
	}
}

// requestLogger returns the per-request logger set by requestContext.
func requestLogger(c *gin.Context, fallback *logger.Logger) *logger.Logger {
	if v, ok := c.Get(requestLoggerKey); ok {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return fallback
}
