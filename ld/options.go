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

// ContextOptions carries the caller-supplied configuration a context
// processing run reads from: the initial base IRI, the host's remote
// context loader, and an optional context to apply ahead of any the
// caller passes explicitly (http://www.w3.org/TR/json-ld-api/#idl-def-JsonLdOptions,
// trimmed to the fields context processing and IRI expansion touch).
type ContextOptions struct {
	// Base is the initial base IRI a newly created active context resolves
	// relative IRIs against, and the IRI a null local context re-seeds
	// @base from.
	Base string

	// ExpandContext, when set, is processed ahead of any context the
	// caller supplies to Process.
	ExpandContext interface{}

	// DocumentLoader resolves a string context reference into its parsed
	// value. If nil, NewDefaultRemoteContextLoader() is used.
	DocumentLoader RemoteContextLoader
}

// NewContextOptions creates ContextOptions with the given base IRI and the
// default remote context loader.
func NewContextOptions(base string) *ContextOptions {
	return &ContextOptions{
		Base:           base,
		DocumentLoader: NewDefaultRemoteContextLoader(nil),
	}
}

// Copy creates a shallow copy of opt.
func (opt *ContextOptions) Copy() *ContextOptions {
	return &ContextOptions{
		Base:           opt.Base,
		ExpandContext:  opt.ExpandContext,
		DocumentLoader: opt.DocumentLoader,
	}
}
