// Package httpclient fetches small remote documents (catalog extensions)
// without letting a configured URL reach loopback or private networks.
package httpclient

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/vibelang/vibe/errors"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxBytes = 1 << 20
	maxRedirects    = 5
)

// Options tune a Client. Zero values mean the defaults.
type Options struct {
	Timeout  time.Duration
	MaxBytes int64
	// AllowPrivate permits loopback and private addresses. Only tests
	// against httptest servers should set it.
	AllowPrivate bool
}

// Client is an http.Client whose dialer refuses private addresses and whose
// redirects are re-validated.
type Client struct {
	http         *http.Client
	maxBytes     int64
	allowPrivate bool
}

// New builds a Client.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	c := &Client{maxBytes: opts.MaxBytes, allowPrivate: opts.AllowPrivate}

	dialer := &net.Dialer{Timeout: opts.Timeout, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: opts.Timeout,
		IdleConnTimeout:     90 * time.Second,
	}
	if !opts.AllowPrivate {
		// resolved addresses are checked here so DNS rebinding cannot slip
		// past the hostname check in validate
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, errors.Wrap(err, "invalid address")
			}
			addrs, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to resolve host %q", host)
			}
			for _, a := range addrs {
				if isPrivate(a) {
					return nil, errors.Newf("private address blocked: %s", a)
				}
			}
			if len(addrs) == 0 {
				return nil, errors.Newf("no addresses for host %q", host)
			}
			return dialer.DialContext(ctx, network, net.JoinHostPort(addrs[0].String(), port))
		}
	}

	c.http = &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errors.Newf("stopped after %d redirects", maxRedirects)
			}
			if err := c.validate(req.URL); err != nil {
				return errors.Wrap(err, "redirect blocked")
			}
			return nil
		},
	}
	return c
}

// IsRemote reports whether location is an http(s) URL rather than a path.
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Validate parses raw and rejects URLs the client would refuse to fetch.
func (c *Client) Validate(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(errors.Join(errors.ErrInvalidRequest, err), "invalid URL")
	}
	if err := c.validate(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *Client) validate(u *url.URL) error {
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return errors.NewInvalidRequestError("scheme %q not allowed", u.Scheme)
	}
	if u.User != nil {
		return errors.NewInvalidRequestError("URL must not carry credentials")
	}
	host := u.Hostname()
	if host == "" {
		return errors.NewInvalidRequestError("URL missing hostname")
	}
	if c.allowPrivate {
		return nil
	}
	if isLocalhost(host) {
		return errors.NewInvalidRequestError("localhost access blocked")
	}
	if a, err := netip.ParseAddr(host); err == nil && isPrivate(a) {
		return errors.NewInvalidRequestError("private address blocked: %s", host)
	}
	return nil
}

// Fetch GETs raw and returns the body. Non-2xx statuses and bodies larger
// than the configured limit are errors.
func (c *Client) Fetch(ctx context.Context, raw string) ([]byte, error) {
	u, err := c.Validate(raw)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", u.Redacted())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf("fetch %s: unexpected status %s", u.Redacted(), resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", u.Redacted())
	}
	if int64(len(body)) > c.maxBytes {
		return nil, errors.WithDetailf(
			errors.NewInvalidRequestError("response from %s exceeds %d bytes", u.Redacted(), c.maxBytes),
			"content-length: %d", resp.ContentLength,
		)
	}
	return body, nil
}

var blockedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"), // carrier-grade NAT
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("2001:db8::/32"),
	netip.MustParsePrefix("fec0::/10"),
}

func isPrivate(a netip.Addr) bool {
	a = a.Unmap()
	if a.IsLoopback() || a.IsPrivate() || a.IsLinkLocalUnicast() || a.IsLinkLocalMulticast() ||
		a.IsMulticast() || a.IsUnspecified() || a.IsInterfaceLocalMulticast() {
		return true
	}
	for _, p := range blockedPrefixes {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

func isLocalhost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	return host == "localhost" || host == "localhost.localdomain" || strings.HasSuffix(host, ".localhost")
}
