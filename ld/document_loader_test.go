package ld

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachingRemoteContextLoader_Preload(t *testing.T) {
	ctx := map[string]interface{}{"@vocab": "http://schema.org/"}
	base := NewCachingRemoteContextLoader(&stubLoader{contexts: map[string]interface{}{
		"/tmp/cached-context.jsonld": ctx,
	}})

	err := base.PreloadWithMapping(map[string]string{
		"http://example.org/context.jsonld": "/tmp/cached-context.jsonld",
	})
	require.NoError(t, err)

	loaded, err := base.LoadContext("http://example.org/context.jsonld")
	require.NoError(t, err)
	assert.Equal(t, ctx, loaded)
}

func TestCachingRemoteContextLoader_AddContext(t *testing.T) {
	loader := NewCachingRemoteContextLoader(&stubLoader{})
	loader.AddContext("http://example.org/context.jsonld", map[string]interface{}{"name": "http://schema.org/name"})

	loaded, err := loader.LoadContext("http://example.org/context.jsonld")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "http://schema.org/name"}, loaded)
}

func TestCachingRemoteContextLoader_FallsThroughOnMiss(t *testing.T) {
	calls := 0
	loader := NewCachingRemoteContextLoader(&stubLoader{
		contexts: map[string]interface{}{"http://example.org/a": "loaded"},
		onLoad:   func() { calls++ },
	})

	_, err := loader.LoadContext("http://example.org/a")
	require.NoError(t, err)
	_, err = loader.LoadContext("http://example.org/a")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second load should hit the cache, not the wrapped loader")
}

func TestContextFromReader_ExtractsContextEntry(t *testing.T) {
	doc := strings.NewReader(`{"@context": {"name": "http://schema.org/name"}, "name": "Ada"}`)
	ctx, err := ContextFromReader(doc)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "http://schema.org/name"}, ctx)
}

type stubLoader struct {
	contexts map[string]interface{}
	onLoad   func()
}

func (s *stubLoader) LoadContext(u string) (interface{}, error) {
	if s.onLoad != nil {
		s.onLoad()
	}
	ctx, ok := s.contexts[u]
	if !ok {
		return nil, NewContextError(RemoteContextError, u)
	}
	return ctx, nil
}
