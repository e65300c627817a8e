package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// browserUserAgent mimics a desktop browser; several small-business
	// sites serve bot UAs an empty shell.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 512 * 1024
)

// Fetcher retrieves pages with a single unauthenticated GET. Redirects
// are surfaced by the transport and followed exactly once. Outbound
// requests are paced by a shared rate limiter.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures the fetcher.
type Option func(*Fetcher)

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.client.Timeout = d }
}

// WithRateLimit paces outbound requests at r per second.
func WithRateLimit(r float64) Option {
	return func(f *Fetcher) { f.limiter = rate.NewLimiter(rate.Limit(r), 1) }
}

// New creates a Fetcher. The underlying client never auto-follows
// redirects so the caller sees 3xx responses.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout: defaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		limiter: rate.NewLimiter(rate.Limit(2), 2),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch GETs the URL and returns the page text after the binary-garbage
// guard. A 3xx response is followed once; a second redirect is an
// error. Single attempt, no retries.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	body, contentType, redirect, err := f.get(ctx, rawURL)
	if err != nil {
		return "", err
	}

	if redirect != "" {
		resolved, rErr := resolveRedirect(rawURL, redirect)
		if rErr != nil {
			return "", rErr
		}
		zap.L().Debug("fetch: following redirect",
			zap.String("from", rawURL),
			zap.String("to", resolved),
		)
		body, contentType, redirect, err = f.get(ctx, resolved)
		if err != nil {
			return "", err
		}
		if redirect != "" {
			return "", eris.Errorf("fetch: too many redirects for %s", rawURL)
		}
	}

	if err := Classify(body, contentType); err != nil {
		return "", eris.Wrap(err, "fetch: rejected payload")
	}

	return string(body), nil
}

// get performs one request. Returns the body, the declared content type
// and, for 3xx responses, the Location target.
func (f *Fetcher) get(ctx context.Context, rawURL string) (body []byte, contentType, redirect string, err error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, "", "", eris.Wrap(err, "fetch: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", "", eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", browserUserAgent)
	// Identity encoding keeps compressed payloads from being misread as
	// binary garbage.
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", "", eris.Wrapf(err, "fetch: get %s", rawURL)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		loc := resp.Header.Get("Location")
		if loc == "" {
			return nil, "", "", eris.Errorf("fetch: status %d without location", resp.StatusCode)
		}
		return nil, "", loc, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", "", eris.Errorf("fetch: status %d for %s", resp.StatusCode, rawURL)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "", "", eris.Wrap(err, "fetch: read body")
	}

	return body, resp.Header.Get("Content-Type"), "", nil
}

func resolveRedirect(base, loc string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", eris.Wrapf(err, "fetch: parse base url %s", base)
	}
	target, err := baseURL.Parse(loc)
	if err != nil {
		return "", eris.Wrapf(err, "fetch: parse redirect %s", loc)
	}
	return target.String(), nil
}
