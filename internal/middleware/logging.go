package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moldovancsaba/narimato-sub003/internal/logger"
)

// RequestID middleware adds a request ID to the context
func RequestID() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		
		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	})
}

// ZapLogger middleware logs HTTP requests using Zap. Every Narimato
// route is scoped to a tenant and most are scoped to a play, so the
// access log carries tenantId/playId path params whenever the matched
// route has them — the single place an operator can grep "tenant X's
// traffic" or "every request touching play Y" without reading the body.
func ZapLogger() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)
		requestID, _ := c.Get("request_id")

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Duration("duration", duration),
			zap.Int("size", c.Writer.Size()),
		}

		if requestID != nil {
			fields = append(fields, zap.String("request_id", requestID.(string)))
		}
		if tenantID := c.Param("tenantId"); tenantID != "" {
			fields = append(fields, zap.String("tenant_id", tenantID))
		}
		if playID := c.Param("playId"); playID != "" {
			fields = append(fields, zap.String("play_id", playID))
		}
		if raw != "" {
			fields = append(fields, zap.String("query", raw))
		}

		status := c.Writer.Status()
		msg := "HTTP Request"

		if len(c.Errors) > 0 {
			for _, err := range c.Errors {
				logger.Get().Error("HTTP Request Error",
					append(fields, zap.String("error", err.Error()))...)
			}
		} else if status >= 500 {
			logger.Get().Error(msg, fields...)
		} else if status >= 400 {
			logger.Get().Warn(msg, fields...)
		} else {
			logger.Get().Info(msg, fields...)
		}
	})
}

// ZapRecovery is a panic-recovery middleware that logs the same
// tenant/play identifiers as ZapLogger before aborting with 500, so a
// panic during a play operation is traceable to the tenant and play
// that triggered it without cross-referencing the access log by
// request ID alone.
func ZapRecovery() gin.HandlerFunc {
	return gin.RecoveryWithWriter(gin.DefaultWriter, func(c *gin.Context, err interface{}) {
		requestID, _ := c.Get("request_id")

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
			zap.Any("error", err),
		}

		if requestID != nil {
			fields = append(fields, zap.String("request_id", requestID.(string)))
		}
		if tenantID := c.Param("tenantId"); tenantID != "" {
			fields = append(fields, zap.String("tenant_id", tenantID))
		}
		if playID := c.Param("playId"); playID != "" {
			fields = append(fields, zap.String("play_id", playID))
		}

		logger.Get().Error("Panic recovered", fields...)
		c.AbortWithStatus(500)
	})
}

// generateRequestID generates a request ID.
func generateRequestID() string {
	return uuid.NewString()
}