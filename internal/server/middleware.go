package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/runway/pkg/telemetry"
	"github.com/smallbiznis/runway/pkg/telemetry/correlation"
)

const HeaderCorrelationID = "X-Correlation-ID"

// Correlation carries the inbound correlation id, or the request id, onto the
// request context so forecast runs reuse it as their run id.
func Correlation() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(HeaderCorrelationID)
		if cid == "" {
			cid = c.GetString("request_id")
		}
		ctx, cid := correlation.EnsureCorrelationID(correlation.ContextWithCorrelationID(c.Request.Context(), cid))
		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderCorrelationID, cid)
		c.Next()
	}
}

func APIMetrics(m *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveAPIRequest(c.Request.Method, c.FullPath(), strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
