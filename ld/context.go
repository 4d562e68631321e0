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
	"strings"
)

// TermDefinition is the result of expanding a single term in a local
// context: the IRI it maps to, plus the optional type, container and
// language refinements that travel with it.
type TermDefinition struct {
	IRIMapping       string
	TypeMapping      *string
	Reverse          bool
	ContainerMapping *string
	LanguageMapping  *string
}

// ActiveContext is the running result of processing zero or more local
// contexts: a base IRI, an optional vocabulary mapping and default
// language, and a table of term definitions.
type ActiveContext struct {
	BaseIRI           *string
	VocabularyMapping *string
	DefaultLanguage   *string
	Terms             map[string]*TermDefinition

	options *ContextOptions
}

// NewActiveContext creates an empty active context seeded with the base IRI
// from options. A nil options is treated as NewContextOptions("").
func NewActiveContext(options *ContextOptions) *ActiveContext {
	if options == nil {
		options = NewContextOptions("")
	}
	ctx := &ActiveContext{
		Terms:   make(map[string]*TermDefinition),
		options: options,
	}
	if options.Base != "" {
		base := options.Base
		ctx.BaseIRI = &base
	}
	return ctx
}

// Clone returns a copy of c whose Terms map is independent of the
// original's, so the copy can gain or lose term definitions without
// affecting c.
func (c *ActiveContext) Clone() *ActiveContext {
	clone := &ActiveContext{
		BaseIRI:           c.BaseIRI,
		VocabularyMapping: c.VocabularyMapping,
		DefaultLanguage:   c.DefaultLanguage,
		Terms:             make(map[string]*TermDefinition, len(c.Terms)),
		options:           c.options,
	}
	for term, def := range c.Terms {
		clone.Terms[term] = def
	}
	return clone
}

// defineStatus tracks a term's progress through defineTerm, so a term that
// refers to itself (directly or through a compact IRI prefix) is caught as
// a cycle rather than recursing forever.
type defineStatus int

const (
	statusDefining defineStatus = iota
	statusDefined
)

// ExpandIRI expands val into an absolute IRI or keyword, without installing
// any new term definitions as a side effect. Use this form once a context
// is fully built; use expandIRIMut while a local context is still being
// processed and terms may need defining on demand.
func (c *ActiveContext) ExpandIRI(val string, documentRelative, vocab bool) (string, error) {
	return c.expandIRI(val, documentRelative, vocab, nil, nil)
}

// expandIRIMut expands val the same way ExpandIRI does, except that if val
// (or, for a compact IRI, its prefix) names a key still pending in
// localCtx, that term is defined first via defineTerm. defined and localCtx
// are threaded through from the enclosing Process call.
func (c *ActiveContext) expandIRIMut(
	val string,
	documentRelative, vocab bool,
	defined map[string]defineStatus,
	localCtx map[string]interface{},
) (string, error) {
	return c.expandIRI(val, documentRelative, vocab, defined, localCtx)
}

// expandIRI is the shared worker behind ExpandIRI and expandIRIMut. When
// defined and localCtx are both non-nil, it is free to pull a pending key
// out of localCtx and define it on the fly; when either is nil it behaves
// as the pure (read-only) expansion.
func (c *ActiveContext) expandIRI(
	val string,
	documentRelative, vocab bool,
	defined map[string]defineStatus,
	localCtx map[string]interface{},
) (string, error) {
	// 1) keywords and keyword-shaped values expand to themselves.
	if strings.HasPrefix(val, "@") {
		return val, nil
	}

	mutating := defined != nil && localCtx != nil

	// 2) if val is a key still pending definition in the local context
	// being processed, define it now.
	if mutating {
		if v, present := localCtx[val]; present {
			if _, isDefined := defined[val]; !isDefined {
				delete(localCtx, val)
				if err := c.defineTerm(localCtx, val, v, defined); err != nil {
					return "", err
				}
			}
		} else if status, seen := defined[val]; seen && status == statusDefining {
			return "", NewContextError(CyclicIRIMapping, val)
		}
	}

	// 3) a term with a vocabulary-relative mapping.
	if vocab {
		if term, found := c.Terms[val]; found {
			return term.IRIMapping, nil
		}
	}

	// 4) a compact IRI, or an IRI with a scheme.
	if loc := strings.IndexByte(val, ':'); loc >= 0 {
		prefix, suffix := val[:loc], val[loc+1:]

		// 4.2) "_" is the blank node prefix; "//" after the colon marks an
		// absolute IRI with an authority component. Neither is a compact
		// IRI to resolve against a term.
		if prefix == "_" || strings.HasPrefix(suffix, "//") {
			return val, nil
		}

		if mutating {
			if v, present := localCtx[prefix]; present {
				if _, isDefined := defined[prefix]; !isDefined {
					delete(localCtx, prefix)
					if err := c.defineTerm(localCtx, prefix, v, defined); err != nil {
						return "", err
					}
				}
			} else if status, seen := defined[prefix]; seen && status == statusDefining {
				return "", NewContextError(CyclicIRIMapping, prefix)
			}
		}

		if term, found := c.Terms[prefix]; found {
			return term.IRIMapping + suffix, nil
		}

		// 4.5) prefix isn't a term: val is already IRI-like, keep it as is.
		return val, nil
	}

	// 5) no colon: fall back to @vocab, then to @base, then to val itself.
	if vocab && c.VocabularyMapping != nil {
		return *c.VocabularyMapping + val, nil
	}
	if documentRelative && c.BaseIRI != nil {
		return Resolve(*c.BaseIRI, val), nil
	}
	return val, nil
}

// defineTerm installs the definition for term, taken from value, into c,
// consuming further entries of localCtx as needed to resolve term
// dependencies out of order. defined records progress so a term that
// depends on itself is reported as a cyclic IRI mapping rather than
// recursing forever.
func (c *ActiveContext) defineTerm(
	localCtx map[string]interface{},
	term string,
	value interface{},
	defined map[string]defineStatus,
) error {
	if status, seen := defined[term]; seen {
		if status == statusDefining {
			return NewContextError(CyclicIRIMapping, term)
		}
		return nil
	}

	defined[term] = statusDefining

	if IsKeyword(term) {
		return NewContextError(KeywordRedefinition, term)
	}

	delete(c.Terms, term)

	if s, isString := value.(string); isString {
		value = map[string]interface{}{"@id": s}
	}

	switch v := value.(type) {
	case nil:
		// A null value clears any existing mapping and installs a
		// placeholder whose IRI mapping is the term itself, so vocab-mode
		// expansion of the term returns the term unchanged.
		c.Terms[term] = &TermDefinition{IRIMapping: term}
		defined[term] = statusDefined
		return nil

	case map[string]interface{}:
		return c.defineTermFromMap(localCtx, term, v, defined)

	default:
		return NewContextError(InvalidTermDefinition, term)
	}
}

func (c *ActiveContext) defineTermFromMap(
	localCtx map[string]interface{},
	term string,
	m map[string]interface{},
	defined map[string]defineStatus,
) error {
	var typeMapping *string
	if atType, hasType := m["@type"]; hasType {
		s, isString := atType.(string)
		if !isString {
			return NewContextError(InvalidTypeMapping, term)
		}
		expanded, err := c.expandIRIMut(s, false, true, defined, localCtx)
		if err != nil {
			return err
		}
		if !strings.Contains(expanded, ":") && expanded != "@id" && expanded != "@vocab" {
			return NewContextError(InvalidTypeMapping, term)
		}
		typeMapping = &expanded
	}

	if atReverse, hasReverse := m["@reverse"]; hasReverse {
		if _, hasID := m["@id"]; hasID {
			return NewContextError(InvalidReverseProperty, term)
		}

		s, isString := atReverse.(string)
		if !isString {
			return NewContextError(InvalidIRIMapping, term)
		}
		expanded, err := c.expandIRIMut(s, false, true, defined, localCtx)
		if err != nil {
			return err
		}
		if !strings.Contains(expanded, ":") {
			return NewContextError(InvalidIRIMapping, term)
		}

		var containerMapping *string
		if atContainer, hasContainer := m["@container"]; hasContainer {
			switch cv := atContainer.(type) {
			case string:
				if cv != "@set" && cv != "@index" {
					return NewContextError(InvalidReverseProperty, term)
				}
				containerMapping = &cv
			case nil:
				// no container
			default:
				return NewContextError(InvalidReverseProperty, term)
			}
		}

		defined[term] = statusDefined
		c.Terms[term] = &TermDefinition{
			IRIMapping:       expanded,
			TypeMapping:      typeMapping,
			Reverse:          true,
			ContainerMapping: containerMapping,
		}
		return nil
	}

	var iriMapping *string
	if atID, hasID := m["@id"]; hasID {
		switch idv := atID.(type) {
		case string:
			if idv == term {
				iriMapping = nil
			} else {
				expanded, err := c.expandIRIMut(idv, false, true, defined, localCtx)
				if err != nil {
					return err
				}
				switch {
				case expanded == "@context":
					return NewContextError(InvalidKeywordAlias, term)
				case strings.HasPrefix(expanded, "@"),
					strings.HasPrefix(expanded, "_:"),
					strings.Contains(expanded, "://"):
					iriMapping = &expanded
				default:
					return NewContextError(InvalidIRIMapping, term)
				}
			}
		case nil:
			t := term
			iriMapping = &t
		default:
			return NewContextError(InvalidIRIMapping, term)
		}
	}

	if iriMapping == nil && strings.Contains(term, ":") {
		loc := strings.IndexByte(term, ':')
		prefix, suffix := term[:loc], term[loc+1:]

		if v, present := localCtx[prefix]; present {
			delete(localCtx, prefix)
			if err := c.defineTerm(localCtx, prefix, v, defined); err != nil {
				return err
			}
		}

		if prefixTerm, found := c.Terms[prefix]; found {
			expanded := prefixTerm.IRIMapping + suffix
			iriMapping = &expanded
		} else {
			t := term
			iriMapping = &t
		}
	}

	if iriMapping == nil {
		if c.VocabularyMapping == nil {
			return NewContextError(InvalidIRIMapping, term)
		}
		expanded := *c.VocabularyMapping + term
		iriMapping = &expanded
	}

	var containerMapping *string
	if atContainer, hasContainer := m["@container"]; hasContainer {
		s, isString := atContainer.(string)
		if !isString || (s != "@list" && s != "@set" && s != "@index" && s != "@language") {
			return NewContextError(InvalidContainerMapping, term)
		}
		containerMapping = &s
	}

	var languageMapping *string
	if typeMapping == nil {
		if language, hasLanguage := m["@language"]; hasLanguage {
			switch lv := language.(type) {
			case string:
				lower := strings.ToLower(lv)
				languageMapping = &lower
			case nil:
				none := "@null"
				languageMapping = &none
			default:
				return NewContextError(InvalidLanguageMapping, term)
			}
		}
	}

	defined[term] = statusDefined
	c.Terms[term] = &TermDefinition{
		IRIMapping:       *iriMapping,
		TypeMapping:      typeMapping,
		Reverse:          false,
		ContainerMapping: containerMapping,
		LanguageMapping:  languageMapping,
	}
	return nil
}

// RemoteContexts records, for a single Process call tree, which remote
// context URLs have been dereferenced (mapped to the context value they
// resolved to) or are mid-dereference (mapped to nil), so a context that
// includes itself, directly or transitively, is caught rather than looped
// on forever.
type RemoteContexts map[string]interface{}

// NewRemoteContexts creates an empty RemoteContexts map.
func NewRemoteContexts() RemoteContexts {
	return make(RemoteContexts)
}

const maxRemoteContexts = 4

// Process runs the active context construction algorithm: it applies
// localContext (a single context, or an array of them) on top of c and
// returns the resulting context, without mutating c. remote carries
// already-resolved remote context URLs across a chain of recursive calls,
// so a cycle through a remote reference is detected rather than looped on.
// If c's options carry an ExpandContext, it is processed once, ahead of
// localContext, the first time Process is called in a recursion chain
// (remote empty).
func (c *ActiveContext) Process(localContext interface{}, remote RemoteContexts) (RemoteContexts, *ActiveContext, error) {
	result := c

	if len(remote) == 0 && c.options != nil && c.options.ExpandContext != nil {
		expandContext := c.options.ExpandContext
		if exCtxMap, isMap := expandContext.(map[string]interface{}); isMap {
			if nested, hasContext := exCtxMap["@context"]; hasContext {
				expandContext = nested
			}
		}

		rc, next, err := result.process(expandContext, remote)
		if err != nil {
			return rc, nil, err
		}
		result = next
		remote = rc
	}

	return result.process(localContext, remote)
}

// process is the active context construction algorithm proper, with no
// ExpandContext pre-step — used both by Process and by its own recursive
// calls, so ExpandContext is never applied more than once per chain.
func (c *ActiveContext) process(localContext interface{}, remote RemoteContexts) (RemoteContexts, *ActiveContext, error) {
	result := c.Clone()

	contexts := Arrayify(localContext)

	for _, context := range contexts {
		switch ctx := context.(type) {

		case nil:
			result = NewActiveContext(result.options)

		case string:
			if len(remote) > maxRemoteContexts {
				return remote, nil, NewContextError(TooManyContexts, nil)
			}

			if cached, seen := remote[ctx]; seen {
				if cached == nil {
					return remote, nil, NewContextError(RecursiveContextInclusion, ctx)
				}
				rc, next, err := result.process(cached, remote)
				if err != nil {
					return rc, nil, err
				}
				rc[ctx] = cached
				result = next
				remote = rc
				continue
			}

			loader := result.options.DocumentLoader
			if loader == nil {
				loader = NewDefaultRemoteContextLoader(nil)
			}
			dereferenced, err := loader.LoadContext(ctx)
			if err != nil {
				return remote, nil, WrapContextError(RemoteContextError, ctx, err)
			}
			remote[ctx] = nil

			obj, isObject := dereferenced.(map[string]interface{})
			if !isObject {
				return remote, nil, NewContextError(RemoteContextNoObject, ctx)
			}
			nestedContext, hasContext := obj["@context"]
			if !hasContext {
				nestedContext = map[string]interface{}{}
			}

			rc, next, err := result.process(nestedContext, remote)
			if err != nil {
				return rc, nil, err
			}
			rc[ctx] = nestedContext
			result = next
			remote = rc

		case map[string]interface{}:
			m := make(map[string]interface{}, len(ctx))
			for k, v := range ctx {
				m[k] = v
			}

			base, hasBase := m["@base"]
			delete(m, "@base")
			if hasBase && len(remote) == 0 {
				switch bv := base.(type) {
				case nil:
					result.BaseIRI = nil
				case string:
					if result.BaseIRI != nil {
						resolved := Resolve(*result.BaseIRI, bv)
						result.BaseIRI = &resolved
					} else if IsAbsoluteIRI(bv) {
						result.BaseIRI = &bv
					} else {
						return remote, nil, NewContextError(InvalidBaseIRI, bv)
					}
				default:
					return remote, nil, NewContextError(InvalidBaseIRI, base)
				}
			}

			if vocab, hasVocab := m["@vocab"]; hasVocab {
				delete(m, "@vocab")
				switch vv := vocab.(type) {
				case nil:
					result.VocabularyMapping = nil
				case string:
					result.VocabularyMapping = &vv
				default:
					return remote, nil, NewContextError(InvalidVocabMapping, vocab)
				}
			}

			if language, hasLanguage := m["@language"]; hasLanguage {
				delete(m, "@language")
				switch lv := language.(type) {
				case nil:
					result.DefaultLanguage = nil
				case string:
					lower := strings.ToLower(lv)
					result.DefaultLanguage = &lower
				default:
					return remote, nil, NewContextError(InvalidDefaultLanguage, language)
				}
			}

			defined := make(map[string]defineStatus)
			for len(m) > 0 {
				var key string
				for k := range m {
					key = k
					break
				}
				val := m[key]
				delete(m, key)
				if err := result.defineTerm(m, key, val, defined); err != nil {
					return remote, nil, WrapContextError(InvalidTerm, key, err)
				}
			}

		default:
			return remote, nil, NewContextError(InvalidLocalContext, context)
		}
	}

	return remote, result, nil
}
