package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/config"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

// serve runs one request through the full gin router.
func serve(srv *CalendarServer, req *http.Request) *http.Response {
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w.Result()
}

// -----------------------------------------------------------------------------
// Handler Tests
// -----------------------------------------------------------------------------

func TestHandler_ServingContent(t *testing.T) {
	srv := NewCalendarServer(0)
	expectedICS := []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR")
	srv.Update(expectedICS)

	for _, route := range []string{config.RouteRoot, config.RouteCalendar} {
		t.Run(route, func(t *testing.T) {
			resp := serve(srv, httptest.NewRequest(http.MethodGet, route, nil))
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
			assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
			assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
			assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))

			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, expectedICS, body)
		})
	}
}

func TestHandler_HeadHasNoBody(t *testing.T) {
	srv := NewCalendarServer(0)
	srv.Update([]byte("DATA"))

	resp := serve(srv, httptest.NewRequest(http.MethodHead, config.RouteCalendar, nil))
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)
}

// TestHandler_Caching verifies If-None-Match and If-Modified-Since handling.
func TestHandler_Caching(t *testing.T) {
	srv := NewCalendarServer(0)
	srv.Update([]byte("DATA_VERSION_1"))

	first := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	etag := first.Header.Get(config.HeaderETag)
	lastModified := first.Header.Get(config.HeaderLastModified)
	require.NotEmpty(t, etag, "Server must provide an ETag")
	require.NotEmpty(t, lastModified)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(config.HeaderIfNoneMatch, etag)
	resp := serve(srv, req)
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body, "Body must be empty on 304 Not Modified")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(config.HeaderIfModifiedSince, lastModified)
	assert.Equal(t, http.StatusNotModified, serve(srv, req).StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(config.HeaderIfModifiedSince, time.Now().Add(-24*time.Hour).UTC().Format(http.TimeFormat))
	assert.Equal(t, http.StatusOK, serve(srv, req).StatusCode, "Older client copy must be refreshed")

	// A second snapshot within the same second keeps Last-Modified unchanged;
	// the stale ETag must still win over the matching date.
	srv.Update([]byte("DATA_VERSION_2"))
	second := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEqual(t, etag, second.Header.Get(config.HeaderETag))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(config.HeaderIfNoneMatch, etag)
	req.Header.Set(config.HeaderIfModifiedSince, second.Header.Get(config.HeaderLastModified))
	resp = serve(srv, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "Stale ETag must be refreshed regardless of the date")
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "DATA_VERSION_2", string(body))
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := NewCalendarServer(0)
	srv.Update([]byte("DATA"))

	resp := serve(srv, httptest.NewRequest(http.MethodPost, "/", nil))
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, config.AllowedMethods, resp.Header.Get(config.HeaderAllow))
}

func TestHandler_Initializing(t *testing.T) {
	srv := NewCalendarServer(0)

	resp := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
}

func TestStart_RejectsInvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		err := NewCalendarServer(port).Start(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), config.ErrPortRange)
	}
}

// -----------------------------------------------------------------------------
// Concurrency Tests (Race Detection)
// -----------------------------------------------------------------------------

// TestServer_RaceCondition stresses Update against concurrent reads. Run with -race.
func TestServer_RaceCondition(t *testing.T) {
	srv := NewCalendarServer(0)
	router := srv.Router()
	var wg sync.WaitGroup
	end := time.Now().Add(300 * time.Millisecond)

	for w := 0; w < 3; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; time.Now().Before(end); i++ {
				srv.Update([]byte(fmt.Sprintf("VERSION:%d-%d", id, i)))
				time.Sleep(time.Microsecond)
			}
		}(w)
	}

	for r := 0; r < 10; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
				if w.Code != http.StatusOK && w.Code != http.StatusServiceUnavailable {
					t.Errorf("Unexpected status code during race test: %d", w.Code)
				}
			}
		}()
	}

	wg.Wait()
}

// -----------------------------------------------------------------------------
// Integration Tests (Real TCP Lifecycle)
// -----------------------------------------------------------------------------

func TestServer_Lifecycle(t *testing.T) {
	const port = 18099

	srv := NewCalendarServer(port)
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- srv.Start(ctx)
	}()

	url := "http://127.0.0.1:" + strconv.Itoa(port) + config.RouteCalendar

	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "Server failed to bind/listen in time")

	resp, err := http.Get(url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	srv.Update([]byte("BEGIN:VCALENDAR\nEND:VCALENDAR"))

	resp, err = http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")

	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err, "Server should shutdown gracefully without error")
	case <-time.After(5 * time.Second):
		t.Fatal("Server shutdown timed out")
	}
}
