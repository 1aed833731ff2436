package engine

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// Source names where contacts are imported from: a local path or an HTTP(S) URL.
type Source struct {
	Location string
	User     string // HTTP Basic Auth, remote sources only
	Pass     string
}

// IsRemote reports whether Location is an http or https URL.
func (s Source) IsRemote() bool {
	loc := strings.ToLower(s.Location)
	return strings.HasPrefix(loc, config.SchemeHTTP+"://") || strings.HasPrefix(loc, config.SchemeHTTPS+"://")
}

// Loader opens import sources.
type Loader struct {
	Fetcher Fetcher
}

// Open returns a stream for src. Local paths are opened directly; URLs go through the Fetcher.
func (l *Loader) Open(ctx context.Context, src Source) (io.ReadCloser, error) {
	if src.Location == "" {
		return nil, errors.New(config.ErrSourceEmpty)
	}
	if !src.IsRemote() {
		return os.Open(src.Location)
	}
	if l.Fetcher == nil {
		return nil, errors.New(config.ErrFetcherMissing)
	}
	return l.Fetcher.Fetch(ctx, src)
}
