package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/finpilot-backoffice/internal/idempotency"
	"github.com/gin-gonic/gin"
)

const (
	// IdempotencyKeyHeader carries the client-chosen retry key
	IdempotencyKeyHeader = "Idempotency-Key"

	// IdempotentReplayedHeader marks a response served from the idempotency store
	IdempotentReplayedHeader = "X-Idempotent-Replayed"
)

// Idempotency guards mutating endpoints against duplicate submissions.
//
// Requests without an Idempotency-Key header pass through untouched. With a
// key, the first request executes and its 2xx outcome is recorded; a retry
// carrying the same key and an equal body fingerprint replays the recorded
// response without reaching the handler, and a retry with a different body is
// rejected with 409. Keys are scoped per tenant, and concurrent requests
// sharing a key are serialized so the handler runs at most once.
//
// The guard runs before any database transaction is opened.
func Idempotency(logger *slog.Logger, store idempotency.Store) gin.HandlerFunc {
	locks := idempotency.NewKeyLocks()

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		if tenantID := c.Param("tenantId"); tenantID != "" {
			key = tenantID + ":" + key
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			abortWithEnvelope(c, http.StatusBadRequest, "BAD_REQUEST", "Failed to read request body")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		fingerprint, err := idempotency.Fingerprint(body)
		if err != nil {
			abortWithEnvelope(c, http.StatusBadRequest, "BAD_REQUEST", "Request body must be valid JSON")
			return
		}

		locks.Lock(key)
		defer locks.Unlock(key)

		cached, err := store.Get(c.Request.Context(), key)
		if err != nil {
			logger.Error("Idempotency store lookup failed", "key", key, "error", err)
			abortWithEnvelope(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred")
			return
		}

		if cached != nil {
			if cached.Fingerprint != fingerprint {
				abortWithEnvelope(c, http.StatusConflict, "CONFLICT", "Idempotency key was already used with a different request body")
				return
			}

			c.Header("Content-Type", "application/json")
			c.Header(IdempotentReplayedHeader, "true")
			c.Data(cached.StatusCode, "application/json", cached.Body)
			c.Abort()
			return
		}

		recorder := &responseRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder

		c.Next()

		status := recorder.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}

		rec := idempotency.Record{
			Fingerprint: fingerprint,
			StatusCode:  status,
			Body:        recorder.body.Bytes(),
			CreatedAt:   time.Now().UTC(),
		}
		if err := store.Put(c.Request.Context(), key, rec); err != nil {
			logger.Error("Idempotency store write failed", "key", key, "error", err)
		}
	}
}

func abortWithEnvelope(c *gin.Context, statusCode int, code, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(statusCode, response)
}

// responseRecorder tees the handler's response so a successful outcome can be
// stored for replay.
type responseRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteString(s string) (int, error) {
	r.body.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}
