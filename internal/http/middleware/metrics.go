package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bookshelf-backend/internal/observability"
)

func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		m.APIInflight(1)
		defer m.APIInflight(-1)
		c.Next()
		m.ObserveAPI(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
