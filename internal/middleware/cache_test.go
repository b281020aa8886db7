package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarchese/concert-seats/internal/config"
)

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func theaterContext(e *echo.Echo) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/v1/concerts/1/theater", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/concerts/:id/theater")
	return c, rec
}

func TestRedisCacheMissServesHandler(t *testing.T) {
	cfg := cacheTestConfig()
	rdb, mock := redismock.NewClientMock()
	e := echo.New()
	c, rec := theaterContext(e)

	mock.ExpectGet(cacheKeyFrom(cfg, c)).RedisNil()
	// The subsequent SetEx is fire-and-forget; its result is ignored by
	// the middleware, so no expectation is registered for it.

	h := NewRedisCache(cfg, rdb)(func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"theater": "Main Hall"})
	})
	require.NoError(t, h(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "Main Hall")
}

func TestRedisCacheHitSkipsHandler(t *testing.T) {
	cfg := cacheTestConfig()
	rdb, mock := redismock.NewClientMock()
	e := echo.New()
	c, rec := theaterContext(e)

	hdr := http.Header{"Content-Type": []string{echo.MIMEApplicationJSON}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"theater":"cached"}`))
	require.NoError(t, err)
	mock.ExpectGet(cacheKeyFrom(cfg, c)).SetVal(string(payload))

	handlerRan := false
	h := NewRedisCache(cfg, rdb)(func(c echo.Context) error {
		handlerRan = true
		return c.NoContent(http.StatusTeapot)
	})
	require.NoError(t, h(c))

	assert.False(t, handlerRan, "a HIT must not invoke the handler")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, `{"theater":"cached"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheDisabledPassesThrough(t *testing.T) {
	cfg := cacheTestConfig()
	cfg.Enabled = false
	e := echo.New()
	c, rec := theaterContext(e)

	h := NewRedisCache(cfg, nil)(func(c echo.Context) error {
		return c.String(http.StatusOK, "live")
	})
	require.NoError(t, h(c))

	assert.Equal(t, "live", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCacheKeyDistinguishesQueries(t *testing.T) {
	cfg := cacheTestConfig()
	e := echo.New()

	reqA := httptest.NewRequest(http.MethodGet, "/v1/concerts?page=1", nil)
	cA := e.NewContext(reqA, httptest.NewRecorder())
	cA.SetPath("/v1/concerts")

	reqB := httptest.NewRequest(http.MethodGet, "/v1/concerts?page=2", nil)
	cB := e.NewContext(reqB, httptest.NewRecorder())
	cB.SetPath("/v1/concerts")

	keyA := cacheKeyFrom(cfg, cA)
	keyB := cacheKeyFrom(cfg, cB)
	assert.NotEqual(t, keyA, keyB)
	assert.True(t, strings.HasPrefix(keyA, "cache:"))
}

func TestCaptureWriterDetectsTruncation(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 8}

	_, err := cw.Write([]byte("0123456789"))
	require.NoError(t, err)

	// The client sees the full body; the capture stops at the limit
	// and the writer flags itself so the response is never cached.
	assert.Equal(t, "0123456789", rec.Body.String())
	assert.Equal(t, "01234567", cw.buf.String())
	assert.True(t, cw.truncated())

	exact := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: 8}
	_, err = exact.Write([]byte("01234567"))
	require.NoError(t, err)
	assert.False(t, exact.truncated(), "a body exactly at the limit is cacheable")

	unlimited := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	_, err = unlimited.Write([]byte("0123456789"))
	require.NoError(t, err)
	assert.False(t, unlimited.truncated())
}

func TestRedisCacheServesOversizedResponseInFull(t *testing.T) {
	cfg := cacheTestConfig()
	cfg.MaxBodyBytes = 8
	rdb, mock := redismock.NewClientMock()
	e := echo.New()
	c, rec := theaterContext(e)

	mock.ExpectGet(cacheKeyFrom(cfg, c)).RedisNil()

	big := strings.Repeat("x", 64)
	h := NewRedisCache(cfg, rdb)(func(c echo.Context) error {
		return c.String(http.StatusOK, big)
	})
	require.NoError(t, h(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, big, rec.Body.String())
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}, "X-Custom": []string{"a", "b"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte("body-bytes"))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, "body-bytes", string(body))

	_, _, _, ok = decodePayload([]byte("short"))
	assert.False(t, ok)
}
