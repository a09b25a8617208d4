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

package cognito

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/cogniteo/cognito-user-manager/pkg/userpool"
)

// MockClient implements the userpool.Client interface for testing. It keeps
// users in memory in insertion order and records the delete calls it
// receives. Failure injection fields let tests exercise per-user outcomes.
type MockClient struct {
	users  map[string]*userpool.User
	order  []string
	groups []string
	member map[string][]string

	// Deleted records usernames passed to DeleteUser, in call order
	Deleted []string

	// FailCreate and FailDelete inject per-username errors
	FailCreate map[string]error
	FailDelete map[string]error

	// ListFailures makes the next N Users iterations fail with ListErr
	ListFailures int
	ListErr      error
}

// NewMockClient creates a new mock client for testing
func NewMockClient() *MockClient {
	return &MockClient{
		users:  make(map[string]*userpool.User),
		member: make(map[string][]string),
	}
}

// AddUser seeds a user into the mock store
func (m *MockClient) AddUser(user *userpool.User) {
	if _, exists := m.users[user.Username]; !exists {
		m.order = append(m.order, user.Username)
	}
	m.users[user.Username] = copyUser(user)
}

// AddGroup seeds a group into the mock pool
func (m *MockClient) AddGroup(name string) {
	if !slices.Contains(m.groups, name) {
		m.groups = append(m.groups, name)
	}
}

func copyUser(user *userpool.User) *userpool.User {
	cp := *user
	cp.Attributes = make(map[string]string, len(user.Attributes))
	for k, v := range user.Attributes {
		cp.Attributes[k] = v
	}
	return &cp
}

// CreateUser creates a new user in the mock store
func (m *MockClient) CreateUser(ctx context.Context, user *userpool.User) (*userpool.User, error) {
	if user == nil {
		return nil, fmt.Errorf("user cannot be nil")
	}
	email := user.Email()
	if email == "" {
		return nil, fmt.Errorf("email cannot be empty")
	}
	if err := m.FailCreate[email]; err != nil {
		return nil, err
	}
	if _, exists := m.users[email]; exists {
		return nil, fmt.Errorf("failed to create user %s: %w", email, userpool.ErrDuplicateUser)
	}

	created := copyUser(user)
	created.Username = email
	created.Status = userpool.StatusForceChangePassword
	created.Enabled = true
	m.users[email] = created
	m.order = append(m.order, email)

	return copyUser(created), nil
}

// GetUser retrieves a user from the mock store
func (m *MockClient) GetUser(ctx context.Context, username string) (*userpool.User, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	user, exists := m.users[username]
	if !exists {
		return nil, fmt.Errorf("failed to get user %s: %w", username, userpool.ErrUserNotFound)
	}

	return copyUser(user), nil
}

// SetPassword sets a user's password in the mock store
func (m *MockClient) SetPassword(ctx context.Context, username, password string, permanent bool) error {
	user, exists := m.users[username]
	if !exists {
		return fmt.Errorf("failed to set password for %s: %w", username, userpool.ErrUserNotFound)
	}
	if permanent {
		user.Status = userpool.StatusConfirmed
	} else {
		user.Status = userpool.StatusForceChangePassword
	}
	return nil
}

// UpdateAttributes merges attributes into a user in the mock store
func (m *MockClient) UpdateAttributes(ctx context.Context, username string, attrs map[string]string) error {
	user, exists := m.users[username]
	if !exists {
		return fmt.Errorf("failed to update user attributes for %s: %w", username, userpool.ErrUserNotFound)
	}
	for k, v := range attrs {
		user.Attributes[k] = v
	}
	return nil
}

// EnableUser enables a user in the mock store
func (m *MockClient) EnableUser(ctx context.Context, username string) error {
	user, exists := m.users[username]
	if !exists {
		return fmt.Errorf("failed to enable user %s: %w", username, userpool.ErrUserNotFound)
	}
	user.Enabled = true
	return nil
}

// DisableUser disables a user in the mock store
func (m *MockClient) DisableUser(ctx context.Context, username string) error {
	user, exists := m.users[username]
	if !exists {
		return fmt.Errorf("failed to disable user %s: %w", username, userpool.ErrUserNotFound)
	}
	user.Enabled = false
	return nil
}

// ResetMFA is a no-op for users present in the mock store
func (m *MockClient) ResetMFA(ctx context.Context, username string) error {
	if _, exists := m.users[username]; !exists {
		return fmt.Errorf("failed to reset MFA for %s: %w", username, userpool.ErrUserNotFound)
	}
	return nil
}

// DeleteUser removes a user from the mock store and records the call
func (m *MockClient) DeleteUser(ctx context.Context, username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	m.Deleted = append(m.Deleted, username)
	if err := m.FailDelete[username]; err != nil {
		return err
	}

	if _, exists := m.users[username]; exists {
		delete(m.users, username)
		m.order = slices.DeleteFunc(m.order, func(u string) bool { return u == username })
	}
	return nil
}

// Users returns a sequence over the mock store in insertion order
func (m *MockClient) Users(ctx context.Context) iter.Seq2[*userpool.User, error] {
	return func(yield func(*userpool.User, error) bool) {
		if m.ListFailures > 0 {
			m.ListFailures--
			err := m.ListErr
			if err == nil {
				err = userpool.ErrDirectoryUnavailable
			}
			yield(nil, err)
			return
		}
		for _, username := range slices.Clone(m.order) {
			user, exists := m.users[username]
			if !exists {
				continue
			}
			if !yield(copyUser(user), nil) {
				return
			}
		}
	}
}

// ListGroups lists the groups seeded into the mock pool
func (m *MockClient) ListGroups(ctx context.Context) ([]string, error) {
	return slices.Clone(m.groups), nil
}

// UserGroups lists the groups the user was added to
func (m *MockClient) UserGroups(ctx context.Context, username string) ([]string, error) {
	if _, exists := m.users[username]; !exists {
		return nil, fmt.Errorf("failed to list groups for %s: %w", username, userpool.ErrUserNotFound)
	}
	return slices.Clone(m.member[username]), nil
}

// AddUserToGroup adds the user to a group in the mock store
func (m *MockClient) AddUserToGroup(ctx context.Context, username, group string) error {
	if _, exists := m.users[username]; !exists {
		return fmt.Errorf("failed to add user %s to group %s: %w", username, group, userpool.ErrUserNotFound)
	}
	if !slices.Contains(m.member[username], group) {
		m.member[username] = append(m.member[username], group)
	}
	return nil
}

// RemoveUserFromGroup removes the user from a group in the mock store
func (m *MockClient) RemoveUserFromGroup(ctx context.Context, username, group string) error {
	if _, exists := m.users[username]; !exists {
		return fmt.Errorf("failed to remove user %s from group %s: %w", username, group, userpool.ErrUserNotFound)
	}
	m.member[username] = slices.DeleteFunc(m.member[username], func(g string) bool { return g == group })
	return nil
}

// Verify that MockClient implements the userpool.Client interface
var _ userpool.Client = (*MockClient)(nil)
