package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// Fetcher retrieves a remote vCard document.
type Fetcher interface {
	Fetch(ctx context.Context, src Source) (io.ReadCloser, error)
}

// HTTPFetcher implements Fetcher using the standard net/http library.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with the configured timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// Fetch downloads src.Location with optional Basic Auth.
// The body is capped at config.MaxHTTPResponseSize and query strings never reach the logs.
func (f *HTTPFetcher) Fetch(ctx context.Context, src Source) (io.ReadCloser, error) {
	u, err := url.Parse(src.Location)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)
	log.Debug("Requesting contacts")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.Location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if src.User != "" || src.Pass != "" {
		req.SetBasicAuth(src.User, src.Pass)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error during fetch: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn("Server returned error status", slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("server returned unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	log.Info("Contacts downloading", slog.Int64("content_length", resp.ContentLength))

	return &limitedReadCloser{
		Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		Closer: resp.Body,
	}, nil
}

// limitedReadCloser pairs a size-limited reader with the body it wraps.
type limitedReadCloser struct {
	io.Reader
	io.Closer
}
