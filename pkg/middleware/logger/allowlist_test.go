package logger

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldLogBody(t *testing.T) {
	AddBodyLogPaths("/feedback")

	body := []byte(`{"ok":true}`)

	r := httptest.NewRequest("POST", "/feedback", nil)
	r.Header.Set("Content-Type", "application/json")
	assert.True(t, shouldLogBody(r, body))

	// GETs never log bodies.
	r = httptest.NewRequest("GET", "/feedback", nil)
	r.Header.Set("Content-Type", "application/json")
	assert.False(t, shouldLogBody(r, body))

	// Unlisted path.
	r = httptest.NewRequest("POST", "/elsewhere", nil)
	r.Header.Set("Content-Type", "application/json")
	assert.False(t, shouldLogBody(r, body))

	// Non-JSON.
	r = httptest.NewRequest("POST", "/feedback", nil)
	r.Header.Set("Content-Type", "text/plain")
	assert.False(t, shouldLogBody(r, body))

	// Oversized.
	r = httptest.NewRequest("POST", "/feedback", nil)
	r.Header.Set("Content-Type", "application/json")
	big := []byte(strings.Repeat("x", 1<<16+1))
	assert.False(t, shouldLogBody(r, big))

	// Empty.
	assert.False(t, shouldLogBody(r, nil))
}
