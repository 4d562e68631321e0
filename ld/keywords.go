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

// keywords is the closed set of JSON-LD 1.0 keywords. A term matching one
// of these may not be redefined by a local context.
var keywords = map[string]bool{
	"@context":   true,
	"@id":        true,
	"@value":     true,
	"@language":  true,
	"@type":      true,
	"@container": true,
	"@list":      true,
	"@set":       true,
	"@reverse":   true,
	"@index":     true,
	"@base":      true,
	"@vocab":     true,
	"@graph":     true,
}

// IsKeyword returns whether the given value is a reserved JSON-LD keyword.
func IsKeyword(value interface{}) bool {
	s, isString := value.(string)
	if !isString {
		return false
	}
	return keywords[s]
}
