package server

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"http://localhost", "https://vibe.example.com"}

	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost", true},
		{"http://localhost:5173", true},
		{"http://localhost/", true},
		{"https://vibe.example.com", true},
		{"http://localhost.evil.com", false},
		{"http://localhostx:80", false},
		{"https://localhost", false},
		{"http://vibe.example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			assert.Equal(t, tt.want, originAllowed(tt.origin, allowed))
		})
	}

	assert.True(t, originAllowed("https://anything.test", []string{"*"}))
	assert.False(t, originAllowed("http://localhost", nil))
}

func TestFindAvailablePort(t *testing.T) {
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer listener.Close()
	busy := listener.Addr().(*net.TCPAddr).Port

	port, err := findAvailablePort(busy)
	require.NoError(t, err)
	assert.NotEqual(t, busy, port)
}
