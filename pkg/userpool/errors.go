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

import "errors"

// Error taxonomy for user pool operations. Implementations wrap these
// sentinels so callers can match with errors.Is regardless of the backend.
var (
	// ErrUserNotFound indicates the identifier does not exist in the pool
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser indicates the identifier already exists in the pool
	ErrDuplicateUser = errors.New("user already exists")

	// ErrInvalidPassword indicates the pool's password policy rejected the password
	ErrInvalidPassword = errors.New("password rejected by pool policy")

	// ErrUnsupportedAttribute indicates the attribute cannot carry a verification flag
	ErrUnsupportedAttribute = errors.New("attribute does not support verification")

	// ErrExcludedUser indicates the user is protected by the exclusion policy.
	// It is raised locally, before any remote call is issued.
	ErrExcludedUser = errors.New("user is excluded from deletion")

	// ErrDirectoryUnavailable indicates a transient service or network failure
	ErrDirectoryUnavailable = errors.New("user pool unavailable")
)
