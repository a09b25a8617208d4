/*
Copyright 2025 Piotr Janik.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package userpool

import "strings"

// ExclusionSet holds identifiers (usernames or emails) protected from
// deletion. Matching is case-insensitive; email attributes in the pool are
// not case-sensitive. The set is immutable for the duration of one invocation.
type ExclusionSet map[string]struct{}

// NewExclusionSet builds an exclusion set from identifiers. Blank entries
// are dropped and surrounding whitespace is trimmed.
func NewExclusionSet(identifiers ...string) ExclusionSet {
	set := make(ExclusionSet, len(identifiers))
	for _, id := range identifiers {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		set[strings.ToLower(id)] = struct{}{}
	}
	return set
}

// Union returns a new set containing the identifiers of both sets.
func (s ExclusionSet) Union(other ExclusionSet) ExclusionSet {
	merged := make(ExclusionSet, len(s)+len(other))
	for id := range s {
		merged[id] = struct{}{}
	}
	for id := range other {
		merged[id] = struct{}{}
	}
	return merged
}

// Contains reports whether the identifier is in the set.
func (s ExclusionSet) Contains(identifier string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(identifier))]
	return ok
}

// Excludes reports whether the user is protected, matching either the
// username or the email attribute.
func (s ExclusionSet) Excludes(user *User) bool {
	if user == nil {
		return false
	}
	if s.Contains(user.Username) {
		return true
	}
	if email := user.Email(); email != "" && s.Contains(email) {
		return true
	}
	return false
}

// Identifiers returns the set's contents, lowercased, in unspecified order.
func (s ExclusionSet) Identifiers() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}
