package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

// FontCache downloads font attachments to a directory the renderer scans.
type FontCache struct {
	dir     string
	client  *http.Client
	loading sync.Map // url -> *loadEntry
	sem     chan struct{}
}

// loadEntry tracks an in-flight download shared by every caller.
type loadEntry struct {
	done chan struct{}
	path string
	err  error
}

// NewFontCache creates a font cache in dir.
func NewFontCache(dir string) (*FontCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{Timeout: 30 * time.Second}

	return &FontCache{
		dir:    dir,
		client: retryClient.StandardClient(),
		sem:    make(chan struct{}, 4),
	}, nil
}

// Dir returns the cache directory.
func (fc *FontCache) Dir() string {
	return fc.dir
}

// Fetch returns the local path of the font at rawURL, downloading it when
// it is not on disk yet. Concurrent fetches of the same URL share one
// download.
func (fc *FontCache) Fetch(ctx context.Context, rawURL string) (string, error) {
	p := fc.diskPath(rawURL)
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}

	entry := &loadEntry{done: make(chan struct{})}
	if existing, loaded := fc.loading.LoadOrStore(rawURL, entry); loaded {
		e := existing.(*loadEntry)
		select {
		case <-e.done:
			return e.path, e.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	func() {
		defer fc.loading.Delete(rawURL)
		defer close(entry.done)

		select {
		case fc.sem <- struct{}{}:
		case <-ctx.Done():
			entry.err = ctx.Err()
			return
		}
		defer func() { <-fc.sem }()

		// Another caller may have finished between the stat and the store.
		if _, err := os.Stat(p); err == nil {
			entry.path = p
			return
		}
		entry.err = fc.download(ctx, rawURL, p)
		if entry.err == nil {
			entry.path = p
		}
	}()
	return entry.path, entry.err
}

// Prefetch downloads every URL in the background and calls done with the
// local paths that succeeded, in input order.
func (fc *FontCache) Prefetch(ctx context.Context, urls []string, done func(paths []string)) {
	go func() {
		paths := make([]string, len(urls))
		var wg sync.WaitGroup
		for i, u := range urls {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p, err := fc.Fetch(ctx, u)
				if err != nil {
					log.Warn().Err(err).Str("url", u).Msg("Font download failed")
					return
				}
				paths[i] = p
			}()
		}
		wg.Wait()

		out := paths[:0]
		for _, p := range paths {
			if p != "" {
				out = append(out, p)
			}
		}
		if done != nil {
			done(out)
		}
	}()
}

// Clear removes every cached font from disk.
func (fc *FontCache) Clear() error {
	if err := os.RemoveAll(fc.dir); err != nil {
		return err
	}
	return os.MkdirAll(fc.dir, 0o755)
}

func (fc *FontCache) download(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("font request: %w", err)
	}
	resp, err := fc.client.Do(req)
	if err != nil {
		return fmt.Errorf("font download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("font download failed: %s", resp.Status)
	}

	// Write to a temp file so a partial download never looks cached.
	tmp, err := os.CreateTemp(fc.dir, ".font-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("font download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// diskPath keeps the attachment's file name so the renderer can match the
// font by extension.
func (fc *FontCache) diskPath(rawURL string) string {
	h := sha256.Sum256([]byte(rawURL))
	name := "font"
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
			name = base
		}
	}
	return filepath.Join(fc.dir, fmt.Sprintf("%x-%s", h[:6], name))
}
