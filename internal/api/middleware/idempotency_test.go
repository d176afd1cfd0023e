package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/finpilot-backoffice/internal/idempotency"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newIdempotencyRouter(store idempotency.Store, handlerCalls *int32, handlerStatus int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	router := gin.New()
	router.POST("/v1/tenants/:tenantId/bank-transactions/import",
		Idempotency(logger, store),
		func(c *gin.Context) {
			atomic.AddInt32(handlerCalls, 1)
			c.JSON(handlerStatus, gin.H{"data": gin.H{"imported": 2}})
		})
	return router
}

func importRequest(key, body string) *http.Request {
	req, _ := http.NewRequest(http.MethodPost, "/v1/tenants/tenant-a/bank-transactions/import", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	return req
}

func TestIdempotencyMiddleware(t *testing.T) {
	body := `{"transactions": [{"amount": 10, "date": "2024-03-01T00:00:00Z", "description": "x"}]}`

	t.Run("NoHeaderPassesThrough", func(t *testing.T) {
		store := idempotency.NewMemoryStore()
		var calls int32
		router := newIdempotencyRouter(store, &calls, http.StatusCreated)

		for i := 0; i < 2; i++ {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, importRequest("", body))
			assert.Equal(t, http.StatusCreated, rr.Code)
			assert.Empty(t, rr.Header().Get(IdempotentReplayedHeader))
		}

		assert.Equal(t, int32(2), calls, "without a key every request must execute")
	})

	t.Run("ReplaySameKeyAndBody", func(t *testing.T) {
		store := idempotency.NewMemoryStore()
		var calls int32
		router := newIdempotencyRouter(store, &calls, http.StatusCreated)

		first := httptest.NewRecorder()
		router.ServeHTTP(first, importRequest("key-1", body))
		assert.Equal(t, http.StatusCreated, first.Code)
		assert.Empty(t, first.Header().Get(IdempotentReplayedHeader))

		replay := httptest.NewRecorder()
		router.ServeHTTP(replay, importRequest("key-1", body))
		assert.Equal(t, http.StatusCreated, replay.Code)
		assert.Equal(t, "true", replay.Header().Get(IdempotentReplayedHeader))
		assert.JSONEq(t, first.Body.String(), replay.Body.String())

		assert.Equal(t, int32(1), calls, "replay must not reach the handler")
	})

	t.Run("ReplayIgnoresKeyOrderInBody", func(t *testing.T) {
		store := idempotency.NewMemoryStore()
		var calls int32
		router := newIdempotencyRouter(store, &calls, http.StatusCreated)

		first := httptest.NewRecorder()
		router.ServeHTTP(first, importRequest("key-1", `{"a": 1, "b": 2}`))

		replay := httptest.NewRecorder()
		router.ServeHTTP(replay, importRequest("key-1", `{"b": 2, "a": 1}`))

		assert.Equal(t, "true", replay.Header().Get(IdempotentReplayedHeader))
		assert.Equal(t, int32(1), calls)
	})

	t.Run("ConflictOnDifferentBody", func(t *testing.T) {
		store := idempotency.NewMemoryStore()
		var calls int32
		router := newIdempotencyRouter(store, &calls, http.StatusCreated)

		first := httptest.NewRecorder()
		router.ServeHTTP(first, importRequest("key-1", body))

		conflicting := httptest.NewRecorder()
		router.ServeHTTP(conflicting, importRequest("key-1", `{"transactions": []}`))

		assert.Equal(t, http.StatusConflict, conflicting.Code)
		assert.Contains(t, conflicting.Body.String(), "CONFLICT")
		assert.Equal(t, int32(1), calls, "conflicting retry must not reach the handler")
	})

	t.Run("KeysAreTenantScoped", func(t *testing.T) {
		store := idempotency.NewMemoryStore()
		var calls int32
		router := newIdempotencyRouter(store, &calls, http.StatusCreated)

		first := httptest.NewRecorder()
		router.ServeHTTP(first, importRequest("key-1", body))

		otherTenant, _ := http.NewRequest(http.MethodPost, "/v1/tenants/tenant-b/bank-transactions/import", bytes.NewBufferString(body))
		otherTenant.Header.Set(IdempotencyKeyHeader, "key-1")
		second := httptest.NewRecorder()
		router.ServeHTTP(second, otherTenant)

		assert.Empty(t, second.Header().Get(IdempotentReplayedHeader))
		assert.Equal(t, int32(2), calls, "the same key under another tenant is a fresh request")
	})

	t.Run("FailuresAreNotRecorded", func(t *testing.T) {
		store := idempotency.NewMemoryStore()
		var calls int32
		router := newIdempotencyRouter(store, &calls, http.StatusBadRequest)

		for i := 0; i < 2; i++ {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, importRequest("key-1", body))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		}

		assert.Equal(t, int32(2), calls, "non-2xx outcomes must not be replayed")
	})

	t.Run("InvalidJSONBodyRejected", func(t *testing.T) {
		store := idempotency.NewMemoryStore()
		var calls int32
		router := newIdempotencyRouter(store, &calls, http.StatusCreated)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, importRequest("key-1", `{"broken":`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, int32(0), calls)
	})

	t.Run("ConcurrentRequestsExecuteOnce", func(t *testing.T) {
		store := idempotency.NewMemoryStore()
		var calls int32
		router := newIdempotencyRouter(store, &calls, http.StatusCreated)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				rr := httptest.NewRecorder()
				router.ServeHTTP(rr, importRequest("key-1", body))
				assert.Equal(t, http.StatusCreated, rr.Code)
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), calls, "a burst sharing one new key must execute the handler once")
	})
}
