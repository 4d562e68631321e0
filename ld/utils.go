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

// Arrayify returns v, if v is already an array, otherwise returns an array
// containing v as the only element.
func Arrayify(v interface{}) []interface{} {
	if av, isArray := v.([]interface{}); isArray {
		return av
	}
	return []interface{}{v}
}
