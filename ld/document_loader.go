// Copyright 2015-2017 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ld

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/pquerna/cachecontrol"
)

// An HTTP Accept header that prefers JSON-LD.
const acceptHeader = "application/ld+json, application/json;q=0.9, application/javascript;q=0.5, text/javascript;q=0.5, text/plain;q=0.2, */*;q=0.1"

// RemoteContextLoader resolves a string context reference (a URL, in
// practice) to the parsed value a @context entry may be. It is the only
// capability the context processor needs from its host: fetching and
// parsing are the host's concern, not the core's.
type RemoteContextLoader interface {
	LoadContext(u string) (interface{}, error)
}

// ContextFromReader decodes a single JSON value (expected to be a context
// document, or an object with a top-level "@context" entry) from r.
func ContextFromReader(r io.Reader) (interface{}, error) {
	var doc interface{}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, WrapContextError(RemoteContextError, nil, err)
	}
	if obj, isMap := doc.(map[string]interface{}); isMap {
		if ctx, hasCtx := obj["@context"]; hasCtx {
			return ctx, nil
		}
	}
	return doc, nil
}

// DefaultRemoteContextLoader is a standard RemoteContextLoader that
// retrieves documents over HTTP(S), or from the local filesystem for any
// other scheme.
type DefaultRemoteContextLoader struct {
	httpClient *http.Client
}

// NewDefaultRemoteContextLoader creates a DefaultRemoteContextLoader using
// httpClient, or http.DefaultClient if httpClient is nil.
func NewDefaultRemoteContextLoader(httpClient *http.Client) *DefaultRemoteContextLoader {
	rval := &DefaultRemoteContextLoader{httpClient: httpClient}
	if rval.httpClient == nil {
		rval.httpClient = http.DefaultClient
	}
	return rval
}

// LoadContext fetches and parses the context at u.
func (dl *DefaultRemoteContextLoader) LoadContext(u string) (interface{}, error) {
	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, WrapContextError(RemoteContextError, u, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		file, err := os.Open(u)
		if err != nil {
			return nil, WrapContextError(RemoteContextError, u, err)
		}
		defer file.Close()
		return ContextFromReader(file)
	}

	req, err := http.NewRequest("GET", u, http.NoBody)
	if err != nil {
		return nil, WrapContextError(RemoteContextError, u, err)
	}
	req.Header.Add("Accept", acceptHeader)

	res, err := dl.httpClient.Do(req)
	if err != nil {
		return nil, WrapContextError(RemoteContextError, u, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, WrapContextError(RemoteContextError, u,
			fmt.Errorf("bad response status code: %d", res.StatusCode))
	}

	return ContextFromReader(res.Body)
}

// CachingRemoteContextLoader is an overlay on top of a RemoteContextLoader
// which caches every context it retrieves. It may also be preloaded, which
// is useful for testing against a fixed context without network access.
type CachingRemoteContextLoader struct {
	nextLoader RemoteContextLoader
	cache      map[string]interface{}
}

// NewCachingRemoteContextLoader creates a CachingRemoteContextLoader
// wrapping nextLoader.
func NewCachingRemoteContextLoader(nextLoader RemoteContextLoader) *CachingRemoteContextLoader {
	return &CachingRemoteContextLoader{
		nextLoader: nextLoader,
		cache:      make(map[string]interface{}),
	}
}

// LoadContext returns the cached context for u, loading and caching it via
// the wrapped loader on a miss.
func (cdl *CachingRemoteContextLoader) LoadContext(u string) (interface{}, error) {
	if ctx, cached := cdl.cache[u]; cached {
		return ctx, nil
	}
	ctx, err := cdl.nextLoader.LoadContext(u)
	if err != nil {
		return nil, err
	}
	cdl.cache[u] = ctx
	return ctx, nil
}

// AddContext populates the cache with ctx for the given URL, without going
// through the wrapped loader.
func (cdl *CachingRemoteContextLoader) AddContext(u string, ctx interface{}) {
	cdl.cache[u] = ctx
}

// PreloadWithMapping populates the cache for a set of URLs by loading each
// one from a different location (typically a local file), via the wrapped
// loader.
//
// Example:
//
//	l.PreloadWithMapping(map[string]string{
//	    "http://www.example.com/context.json": "/home/me/cache/example_com_context.json",
//	})
func (cdl *CachingRemoteContextLoader) PreloadWithMapping(urlMap map[string]string) error {
	for srcURL, mappedURL := range urlMap {
		ctx, err := cdl.nextLoader.LoadContext(mappedURL)
		if err != nil {
			return err
		}
		cdl.cache[srcURL] = ctx
	}
	return nil
}

type cachedContext struct {
	context      interface{}
	expireTime   time.Time
	neverExpires bool
}

// RFC7324CachingRemoteContextLoader respects HTTP caching headers
// (Cache-Control, Expires) so repeated loads of the same context across a
// long-running host don't re-fetch more often than the server allows.
type RFC7324CachingRemoteContextLoader struct {
	httpClient *http.Client
	cache      map[string]*cachedContext
}

// NewRFC7324CachingRemoteContextLoader creates a
// RFC7324CachingRemoteContextLoader using httpClient, or http.DefaultClient
// if httpClient is nil.
func NewRFC7324CachingRemoteContextLoader(httpClient *http.Client) *RFC7324CachingRemoteContextLoader {
	rval := &RFC7324CachingRemoteContextLoader{
		httpClient: httpClient,
		cache:      make(map[string]*cachedContext),
	}
	if httpClient == nil {
		rval.httpClient = http.DefaultClient
	}
	return rval
}

// LoadContext fetches and parses the context at u, honoring any cache entry
// still valid per the response's original caching headers.
func (rcdl *RFC7324CachingRemoteContextLoader) LoadContext(u string) (interface{}, error) {
	now := time.Now()
	if entry, ok := rcdl.cache[u]; ok && (entry.neverExpires || entry.expireTime.After(now)) {
		return entry.context, nil
	}

	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, WrapContextError(RemoteContextError, u, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		file, err := os.Open(u)
		if err != nil {
			return nil, WrapContextError(RemoteContextError, u, err)
		}
		defer file.Close()
		ctx, err := ContextFromReader(file)
		if err != nil {
			return nil, err
		}
		rcdl.cache[u] = &cachedContext{context: ctx, neverExpires: true}
		return ctx, nil
	}

	req, err := http.NewRequest("GET", u, http.NoBody)
	if err != nil {
		return nil, WrapContextError(RemoteContextError, u, err)
	}
	req.Header.Add("Accept", acceptHeader)

	res, err := rcdl.httpClient.Do(req)
	if err != nil {
		return nil, WrapContextError(RemoteContextError, u, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, WrapContextError(RemoteContextError, u,
			fmt.Errorf("bad response status code: %d", res.StatusCode))
	}

	ctx, err := ContextFromReader(res.Body)
	if err != nil {
		return nil, err
	}

	reasons, expireTime, ccErr := cachecontrol.CachableResponse(req, res, cachecontrol.Options{})
	if ccErr == nil && len(reasons) == 0 {
		rcdl.cache[u] = &cachedContext{context: ctx, expireTime: expireTime}
	}

	return ctx, nil
}
