package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	internalRedis "limo/internal/redis"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// responseWriter wraps gin.ResponseWriter to capture the response body.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware returns middleware that replays cached responses for
// repeated POSTs carrying the same Idempotency-Key header. This only
// deduplicates at the relay edge; replay safety of the charge itself remains
// the upstream processor's contract.
func IdempotencyMiddleware(store *internalRedis.ResponseStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		cached, err := store.Get(ctx, key)
		if err != nil {
			// Cache unavailable - proceed without deduplication.
			c.Next()
			return
		}

		if cached != nil {
			contentType := cached.ContentType
			if contentType == "" {
				contentType = "application/json"
			}
			c.Data(cached.StatusCode, contentType, cached.Body)
			c.Abort()
			return
		}

		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		// Cache everything except server faults so a transient 500 can be
		// retried with the same key.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 500 {
			_ = store.Set(ctx, key, &internalRedis.CachedResponse{
				StatusCode:  c.Writer.Status(),
				Body:        w.body.Bytes(),
				ContentType: c.Writer.Header().Get("Content-Type"),
			}, idempotencyTTL)
		}
	}
}
