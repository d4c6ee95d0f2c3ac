package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultMaxBytes caps downloaded image size.
const DefaultMaxBytes = 20 << 20

const defaultTimeout = 30 * time.Second

// ErrBlockedURL marks URLs rejected by validation (scheme, local targets).
var ErrBlockedURL = fmt.Errorf("url not allowed")

// ValidateURL checks scheme and blocks local/internal targets so the
// fetch endpoint cannot be used to probe the network the service runs in.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: empty url", ErrBlockedURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBlockedURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q (allowed: http, https)", ErrBlockedURL, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	blocked := []string{"localhost", "127.0.0.1", "0.0.0.0", "[::]", "::1"}
	for _, b := range blocked {
		if strings.Contains(host, b) {
			return fmt.Errorf("%w: local host %q", ErrBlockedURL, host)
		}
	}
	for _, prefix := range []string{"10.", "172.16.", "192.168.", "169.254."} {
		if strings.HasPrefix(host, prefix) {
			return fmt.Errorf("%w: internal host %q", ErrBlockedURL, host)
		}
	}
	return nil
}

// Fetcher downloads an image for analysis.
type Fetcher struct {
	Client    *http.Client
	MaxBytes  int64
	UserAgent string

	allowLocal bool // test hook: skip the local-target guard
}

// Fetch downloads the image at rawURL and returns its bytes and MIME type.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	if !f.allowLocal {
		if err := ValidateURL(rawURL); err != nil {
			return nil, "", err
		}
	}

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	maxBytes := f.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrBlockedURL, err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("image fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image fetch failed: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("image fetch failed: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, "", fmt.Errorf("image fetch failed: larger than %d bytes", maxBytes)
	}

	mimeType := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", fmt.Errorf("image fetch failed: unexpected content type %q", mimeType)
	}
	return data, mimeType, nil
}
