package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// cacheItem stores the rendered calendar and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// CalendarServer publishes the last calendar snapshot handed to Update.
// The address book itself is never shared with the HTTP goroutines; they only
// see immutable byte slices through the atomic pointer.
type CalendarServer struct {
	cache atomic.Pointer[cacheItem]
	Port  int
}

func NewCalendarServer(port int) *CalendarServer {
	return &CalendarServer{Port: port}
}

// Router registers the calendar routes on a fresh gin engine.
func (s *CalendarServer) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.Header(config.HeaderAllow, config.AllowedMethods)
		c.String(http.StatusMethodNotAllowed, config.HTTPMsgMethodNotAll)
	})

	for _, route := range []string{config.RouteRoot, config.RouteCalendar} {
		router.GET(route, s.handleCalendarRequest)
		router.HEAD(route, s.handleCalendarRequest)
	}
	return router
}

// Start serves on LocalhostBindAddr:Port and blocks until ctx is cancelled.
func (s *CalendarServer) Start(ctx context.Context) error {
	if s.Port < 1 || s.Port > 65535 {
		return errors.New(config.ErrPortRange)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + strconv.Itoa(s.Port),
		Handler:      s.Router(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served content.
func (s *CalendarServer) Update(data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	s.cache.Store(&cacheItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// handleCalendarRequest serves the ICS content with ETag and Last-Modified support.
func (s *CalendarServer) handleCalendarRequest(c *gin.Context) {
	item := s.cache.Load()
	if item == nil {
		c.Header(config.HeaderRetryAfter, config.RetryAfterSeconds)
		c.String(http.StatusServiceUnavailable, config.HTTPMsgInitializing)
		return
	}

	c.Header(config.HeaderContentType, config.MimeTextCalendar)
	c.Header(config.HeaderXContentType, config.MimeNoSniff)
	c.Header(config.HeaderCacheControl, config.CacheControlPrivate)
	c.Header(config.HeaderETag, item.etag)
	c.Header(config.HeaderLastModified, item.lastModified)

	// If-Modified-Since only applies without If-None-Match (RFC 7232 §3.3).
	if match := c.GetHeader(config.HeaderIfNoneMatch); match != "" {
		if match == item.etag {
			c.Status(http.StatusNotModified)
			return
		}
	} else if since := c.GetHeader(config.HeaderIfModifiedSince); since != "" {
		clientTime, errClient := time.Parse(http.TimeFormat, since)
		serverTime, errServer := time.Parse(http.TimeFormat, item.lastModified)
		if errClient == nil && errServer == nil && !serverTime.After(clientTime) {
			c.Status(http.StatusNotModified)
			return
		}
	}

	c.Status(http.StatusOK)
	if c.Request.Method == http.MethodGet {
		if _, err := c.Writer.Write(item.data); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// requestLogger replaces gin's default stdout logger with slog at debug level.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug(config.MsgRequest,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyMethod, c.Request.Method,
			config.LogKeyPath, c.Request.URL.Path,
			config.LogKeyStatus, c.Writer.Status(),
			config.LogKeyDuration, time.Since(start).Milliseconds(),
		)
	}
}
