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

import (
	"context"
	"iter"
	"time"
)

// Status is the lifecycle status of a user as reported by the user pool.
type Status string

const (
	StatusUnconfirmed         Status = "UNCONFIRMED"
	StatusConfirmed           Status = "CONFIRMED"
	StatusArchived            Status = "ARCHIVED"
	StatusCompromised         Status = "COMPROMISED"
	StatusResetRequired       Status = "RESET_REQUIRED"
	StatusForceChangePassword Status = "FORCE_CHANGE_PASSWORD"
	StatusExternalProvider    Status = "EXTERNAL_PROVIDER"
	StatusUnknown             Status = "UNKNOWN"
)

// User represents a user in a user pool. The record is a transient,
// request-scoped copy; the pool remains the source of truth.
type User struct {
	Username   string
	Attributes map[string]string
	Status     Status
	Enabled    bool
	Created    time.Time
	Modified   time.Time
}

// Email returns the email attribute, or "" when the user has none.
func (u *User) Email() string {
	return u.Attributes["email"]
}

// Phone returns the phone_number attribute, or "" when the user has none.
func (u *User) Phone() string {
	return u.Attributes["phone_number"]
}

// Client defines the interface for managing users in a user pool
type Client interface {
	// CreateUser creates a new user in the user pool. Email and phone
	// attributes are marked verified and no welcome message is sent.
	CreateUser(ctx context.Context, user *User) (*User, error)

	// GetUser retrieves a user from the user pool by username
	GetUser(ctx context.Context, username string) (*User, error)

	// SetPassword sets a user's password. A permanent password moves the
	// user to CONFIRMED; a temporary one forces a change at next sign-in.
	SetPassword(ctx context.Context, username, password string, permanent bool) error

	// UpdateAttributes merges the given attributes into the user's existing
	// set. Attributes not named are left untouched.
	UpdateAttributes(ctx context.Context, username string, attrs map[string]string) error

	// EnableUser enables a user's account. Enabling an enabled user is a no-op.
	EnableUser(ctx context.Context, username string) error

	// DisableUser disables a user's account. Disabling a disabled user is a no-op.
	DisableUser(ctx context.Context, username string) error

	// ResetMFA clears the user's configured multi-factor methods
	ResetMFA(ctx context.Context, username string) error

	// DeleteUser removes a user from the user pool
	DeleteUser(ctx context.Context, username string) error

	// Users returns a lazy sequence over all users in the pool, transparently
	// paging through the service. Ranging again restarts from the first page.
	Users(ctx context.Context) iter.Seq2[*User, error]

	// ListGroups lists the group names defined in the user pool
	ListGroups(ctx context.Context) ([]string, error)

	// UserGroups lists the groups the user belongs to
	UserGroups(ctx context.Context, username string) ([]string, error)

	// AddUserToGroup adds the user to a group
	AddUserToGroup(ctx context.Context, username, group string) error

	// RemoveUserFromGroup removes the user from a group
	RemoveUserFromGroup(ctx context.Context, username, group string) error
}
