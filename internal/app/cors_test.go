package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractOriginHost(t *testing.T) {
	assert.Equal(t, "example.com", extractOriginHost("https://example.com"))
	assert.Equal(t, "example.com:3000", extractOriginHost("http://example.com:3000"))
	assert.Equal(t, "not a url", extractOriginHost("not a url"))
}

func TestMatchOriginPattern(t *testing.T) {
	tests := []struct {
		pattern string
		host    string
		want    bool
	}{
		{"example.com", "example.com", true},
		{"example.com", "other.com", false},
		{"*.example.com", "app.example.com", true},
		{"*.example.com", "example.org", false},
		{"localhost:*", "localhost:5173", true},
		{"localhost:*", "remotehost:5173", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchOriginPattern(tt.pattern, tt.host), "%s vs %s", tt.pattern, tt.host)
	}
}
