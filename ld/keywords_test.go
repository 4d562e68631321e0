package ld

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKeyword(t *testing.T) {
	assert.True(t, IsKeyword("@context"))
	assert.True(t, IsKeyword("@vocab"))
	assert.False(t, IsKeyword("@version"))
	assert.False(t, IsKeyword("name"))
	assert.False(t, IsKeyword(42))
}
