package ld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContextOptions(t *testing.T) {
	opts := NewContextOptions("http://example.org/")
	assert.Equal(t, "http://example.org/", opts.Base)
	require.NotNil(t, opts.DocumentLoader)
}

func TestContextOptions_Copy(t *testing.T) {
	opts := NewContextOptions("http://example.org/")
	opts.ExpandContext = map[string]interface{}{"@vocab": "http://schema.org/"}

	clone := opts.Copy()
	clone.Base = "http://other.example/"

	assert.Equal(t, "http://example.org/", opts.Base)
	assert.Equal(t, "http://other.example/", clone.Base)
	assert.Equal(t, opts.ExpandContext, clone.ExpandContext)
}
