package ld

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAbsoluteIRI(t *testing.T) {
	assert.True(t, IsAbsoluteIRI("http://example.org/foo"))
	assert.True(t, IsAbsoluteIRI("_:b0"))
	assert.False(t, IsAbsoluteIRI("foo"))
	assert.False(t, IsAbsoluteIRI("/foo/bar"))
}

func TestResolve(t *testing.T) {
	cases := []struct {
		base, ref, expected string
	}{
		{"http://example.org/a/b", "c", "http://example.org/a/c"},
		{"http://example.org/a/b/", "c", "http://example.org/a/b/c"},
		{"http://example.org/a/b", "/c", "http://example.org/c"},
		{"http://example.org/a/b", "http://other.example/x", "http://other.example/x"},
		{"", "c", "c"},
		{"http://example.org/a/b", "", "http://example.org/a/b"},
		{"http://example.org/a/b/c", "../d", "http://example.org/a/d"},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, Resolve(c.base, c.ref), "base=%q ref=%q", c.base, c.ref)
	}
}
