// Package imageload fetches and decodes slideshow images from HTTP(S) URLs,
// file URLs and local paths.
package imageload

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/zeebo/blake3"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"github.com/hay-kot/slides/internal/slideshow"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultMaxBytes  = 32 << 20
	DefaultMaxPixels = 64 << 20
	DefaultUserAgent = "slides"
)

// ErrTooLarge is returned when an image exceeds the configured size limit.
var ErrTooLarge = errors.New("image exceeds size limit")

// Options configures a Loader.
type Options struct {
	Timeout   time.Duration
	MaxBytes  int64
	// MaxPixels caps width*height so a small file cannot decode into a huge
	// bitmap.
	MaxPixels int64
	UserAgent string
	// BaseDir resolves relative paths. Empty means the working directory.
	BaseDir string
	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

// Loader implements slideshow.Loader.
type Loader struct {
	client *http.Client
	opts   Options
	log    zerolog.Logger
}

// New creates a Loader. Zero option values select defaults.
func New(opts Options, log zerolog.Logger) (*Loader, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = DefaultMaxPixels
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	client := opts.Client
	if client == nil {
		var err error
		client, err = NewHTTPClient(opts.Timeout)
		if err != nil {
			return nil, err
		}
	}

	return &Loader{client: client, opts: opts, log: log}, nil
}

// WithBaseDir returns a copy of l resolving relative paths against dir.
func (l *Loader) WithBaseDir(dir string) *Loader {
	cp := *l
	cp.opts.BaseDir = dir
	return &cp
}

// Load fetches and decodes the image at rawURL.
func (l *Loader) Load(ctx context.Context, rawURL string) (slideshow.Image, error) {
	start := time.Now()

	data, err := l.fetch(ctx, rawURL)
	if err != nil {
		return slideshow.Image{}, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return slideshow.Image{}, fmt.Errorf("decode: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > l.opts.MaxPixels {
		return slideshow.Image{}, fmt.Errorf("%w: %dx%d pixels", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return slideshow.Image{}, fmt.Errorf("decode: %w", err)
	}

	sum := blake3.Sum256(data)
	digest := hex.EncodeToString(sum[:8])

	l.log.Debug().
		Ctx(ctx).
		Str("url", rawURL).
		Str("format", format).
		Int("bytes", len(data)).
		Str("digest", digest).
		Dur("elapsed", time.Since(start)).
		Msg("image loaded")

	return slideshow.Image{URL: rawURL, Digest: digest, Pixels: img}, nil
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return l.fetchHTTP(ctx, rawURL)
		case "file":
			return l.readFile(u.Path)
		}
	}
	return l.readFile(l.resolve(rawURL))
}

func (l *Loader) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, l.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", l.opts.UserAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch: unexpected status %s", resp.Status)
	}
	if resp.ContentLength > l.opts.MaxBytes {
		return nil, ErrTooLarge
	}

	return l.readLimited(resp.Body)
}

func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	return l.readLimited(f)
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.opts.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if int64(len(data)) > l.opts.MaxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

func (l *Loader) resolve(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	if filepath.IsAbs(path) || l.opts.BaseDir == "" {
		return path
	}
	return filepath.Join(l.opts.BaseDir, path)
}
