package logger

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	obscontext "github.com/debdutisardar8903/wallineex-backend/internal/observability/context"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

// MiddlewareConfig configures the request logging middleware. Zero value is
// usable: the global logger and random request ids.
type MiddlewareConfig struct {
	Log       *zap.Logger
	GenID     *snowflake.Node
	SkipPaths []string
}

// GinMiddleware assigns a request id, echoes it on the response, and logs
// each completed request with masked headers. This is the one place outgoing
// responses get observed; handlers never intercept the writer themselves.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skip[path] = struct{}{}
	}

	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = newRequestID(cfg.GenID)
		}
		c.Header(requestIDHeader, requestID)
		c.Set("request_id", requestID)
		c.Request = c.Request.WithContext(obscontext.WithRequestID(c.Request.Context(), requestID))

		if _, skipped := skip[c.FullPath()]; skipped {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		log := cfg.Log
		if log == nil {
			log = zap.L()
		}
		log.Info("http request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.String("client_ip", c.ClientIP()),
			zap.Any("headers", MaskHeaders(c.Request.Header)),
		)
	}
}

func newRequestID(genID *snowflake.Node) string {
	if genID != nil {
		return genID.Generate().String()
	}
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "req-unknown"
	}
	return hex.EncodeToString(buf)
}
