package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibelang/vibe/errors"
)

func TestValidate(t *testing.T) {
	client := New(Options{})

	tests := []struct {
		name        string
		url         string
		errContains string
	}{
		{name: "https", url: "https://example.com/vibe/extra.toml"},
		{name: "http", url: "http://example.com"},
		{name: "file scheme", url: "file:///etc/passwd", errContains: "scheme"},
		{name: "ftp scheme", url: "ftp://example.com/x.toml", errContains: "scheme"},
		{name: "credentials", url: "http://user:pw@example.com/", errContains: "credentials"},
		{name: "confusing userinfo", url: "http://example.com@localhost/", errContains: "credentials"},
		{name: "missing host", url: "http:///x.toml", errContains: "hostname"},
		{name: "localhost", url: "http://localhost:8080/", errContains: "localhost"},
		{name: "localhost subdomain", url: "http://app.localhost/", errContains: "localhost"},
		{name: "loopback v4", url: "http://127.0.0.1/", errContains: "private"},
		{name: "rfc1918", url: "http://192.168.1.10/", errContains: "private"},
		{name: "link local metadata", url: "http://169.254.169.254/latest", errContains: "private"},
		{name: "loopback v6", url: "http://[::1]/", errContains: "private"},
		{name: "unique local v6", url: "http://[fd00::1]/", errContains: "private"},
		{name: "mapped v4", url: "http://[::ffff:10.0.0.1]/", errContains: "private"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Validate(tt.url)
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
			assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
		})
	}
}

func TestIsPrivate(t *testing.T) {
	private := []string{"10.1.2.3", "172.16.0.1", "100.64.0.1", "0.0.0.0", "224.0.0.1", "fe80::1", "2001:db8::1"}
	public := []string{"8.8.8.8", "1.1.1.1", "2606:4700:4700::1111"}

	for _, s := range private {
		assert.True(t, isPrivate(netip.MustParseAddr(s)), s)
	}
	for _, s := range public {
		assert.False(t, isPrivate(netip.MustParseAddr(s)), s)
	}
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/x.toml"))
	assert.True(t, IsRemote("HTTP://example.com/x.toml"))
	assert.False(t, IsRemote("/etc/vibe/x.toml"))
	assert.False(t, IsRemote("extra.yaml"))
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("requires = \"^1.0\"\n"))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		case "/redirect":
			http.Redirect(w, r, "file:///etc/passwd", http.StatusFound)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := New(Options{AllowPrivate: true, MaxBytes: 32, Timeout: 5 * time.Second})
	ctx := context.Background()

	body, err := client.Fetch(ctx, srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "requires = \"^1.0\"\n", string(body))

	_, err = client.Fetch(ctx, srv.URL+"/big")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 32 bytes")

	_, err = client.Fetch(ctx, srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = client.Fetch(ctx, srv.URL+"/redirect")
	require.Error(t, err)
}

func TestFetchBlocksLoopbackByDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should never reach the server")
	}))
	defer srv.Close()

	_, err := New(Options{}).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "private")
}
