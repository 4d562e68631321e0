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
	"net/url"
	"strings"
)

// IsAbsoluteIRI returns true if value is an absolute IRI or a blank node
// identifier (the two IRI-mapping shapes a term definition is allowed to
// terminate in).
func IsAbsoluteIRI(value string) bool {
	if strings.HasPrefix(value, "_:") {
		return true
	}
	u, err := url.Parse(value)
	return err == nil && u.IsAbs()
}

// Resolve resolves pathToResolve against baseURI per RFC 3986, the way
// document-relative IRI expansion and @base updates both need.
func Resolve(baseURI string, pathToResolve string) string {
	if baseURI == "" {
		return pathToResolve
	}
	if strings.TrimSpace(pathToResolve) == "" {
		return baseURI
	}

	base, err := url.Parse(baseURI)
	if err != nil {
		return pathToResolve
	}

	if strings.HasPrefix(pathToResolve, "?") {
		base.Fragment = ""
		base.RawQuery = pathToResolve[1:]
		return base.String()
	}

	ref, err := url.Parse(pathToResolve)
	if err != nil {
		return pathToResolve
	}

	resolved := base.ResolveReference(ref)
	if resolved.Path != "" {
		resolved.Path = removeDotSegments(resolved.Path, true)
	}
	return resolved.String()
}

// removeDotSegments removes "." and ".." path segments per RFC 3986 5.2.4.
// net/url.ResolveReference already does most of this; this pass reapplies
// it defensively for paths assembled manually.
func removeDotSegments(path string, hasAuthority bool) string {
	var rval []byte
	if strings.HasPrefix(path, "/") {
		rval = append(rval, '/')
	}

	input := strings.Split(path, "/")
	output := make([]string, 0, len(input))
	for i := 0; i < len(input); i++ {
		if input[i] == "." || (input[i] == "" && len(input)-i > 1) {
			continue
		}
		if input[i] == ".." {
			if hasAuthority || (len(output) > 0 && output[len(output)-1] != "..") {
				if len(output) > 0 {
					output = output[:len(output)-1]
				}
			} else {
				output = append(output, "..")
			}
			continue
		}
		output = append(output, input[i])
	}

	if len(output) > 0 {
		rval = append(rval, output[0]...)
		for i := 1; i < len(output); i++ {
			rval = append(rval, '/')
			rval = append(rval, output[i]...)
		}
	}
	return string(rval)
}
