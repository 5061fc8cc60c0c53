// Package fetch downloads the rule list over HTTP(S).
package fetch

import (
	"bytes"
	"context"
	"crypto/tls"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/rulesplit/pkg/errors"
	"github.com/arthur-debert/rulesplit/pkg/logging"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options configures a Fetcher
type Options struct {
	// Timeout bounds the whole request chain, redirects and body included
	Timeout time.Duration
	// MaxRedirects is the number of redirect hops followed before giving up
	MaxRedirects int
	// InsecureSkipVerify disables certificate verification on this fetcher's
	// transport only
	InsecureSkipVerify bool
	UserAgent          string
}

// Result is a fetched document
type Result struct {
	URL       string
	FinalURL  string
	Redirects int
	Body      string
}

// Fetcher issues GET requests and follows redirects by hand so that the hop
// count is capped and every hop is logged
type Fetcher struct {
	client *http.Client
	opts   Options
	logger zerolog.Logger
}

// New creates a fetcher with its own transport
func New(opts Options) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true, //nolint:gosec // opt-in through configuration
		}
	}
	return NewWithClient(&http.Client{Transport: transport}, opts)
}

// NewWithClient wraps an existing client. Its redirect policy is replaced.
func NewWithClient(client *http.Client, opts Options) *Fetcher {
	c := *client
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	f := &Fetcher{
		client: &c,
		opts:   opts,
		logger: logging.GetLogger("fetch"),
	}
	if opts.InsecureSkipVerify {
		f.logger.Warn().Msg("TLS certificate verification is disabled for the rule list source")
	}
	return f
}

// Fetch returns the body of rawURL as text. Non-2xx answers other than
// redirects fail with HTTP_STATUS, connection problems with NETWORK, an
// expired timeout with TIMEOUT and a redirect chain longer than the cap
// with TOO_MANY_REDIRECTS.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	if f.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.Timeout)
		defer cancel()
	}

	result := &Result{URL: rawURL}
	current := rawURL

	for {
		resp, err := f.get(ctx, current)
		if err != nil {
			return nil, classify(ctx, err, current)
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			body, err := readBody(resp)
			if err != nil {
				return nil, classify(ctx, err, current)
			}
			result.FinalURL = current
			result.Body = body
			f.logger.Debug().
				Str("url", current).
				Int("status", resp.StatusCode).
				Int("bytes", len(body)).
				Msg("Fetched document")
			return result, nil

		case resp.StatusCode >= 300 && resp.StatusCode < 400 && resp.Header.Get("Location") != "":
			next, err := resp.Location()
			drain(resp)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrHTTPStatus, "invalid redirect location from %s", current).
					WithDetail("url", current).
					WithDetail("status", resp.StatusCode)
			}
			if result.Redirects >= f.opts.MaxRedirects {
				return nil, errors.Newf(errors.ErrTooManyRedirects, "stopped after %d redirects", result.Redirects).
					WithDetail("url", rawURL).
					WithDetail("last", current)
			}
			result.Redirects++
			f.logger.Debug().
				Str("from", current).
				Str("to", next.String()).
				Int("status", resp.StatusCode).
				Msg("Following redirect")
			current = next.String()

		default:
			drain(resp)
			return nil, errors.Newf(errors.ErrHTTPStatus, "request failed with status code %d", resp.StatusCode).
				WithDetail("url", current).
				WithDetail("status", resp.StatusCode)
		}
	}
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}
	return f.client.Do(req)
}

func readBody(resp *http.Response) (string, error) {
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return decode(data), nil
}

// decode drops a UTF-8 byte order mark and replaces invalid sequences
func decode(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

func classify(ctx context.Context, err error, rawURL string) error {
	var netErr net.Error
	switch {
	case stderrors.Is(err, context.DeadlineExceeded),
		stderrors.Is(ctx.Err(), context.DeadlineExceeded),
		stderrors.As(err, &netErr) && netErr.Timeout():
		return errors.Wrap(err, errors.ErrTimeout, "request timeout").
			WithDetail("url", rawURL)
	default:
		return errors.Wrapf(err, errors.ErrNetwork, "request to %s failed", rawURL).
			WithDetail("url", rawURL)
	}
}
