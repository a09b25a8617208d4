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

// Package ops is the operations facade between the user interfaces and the
// user pool client. Every operation is a synchronous request/response step;
// bulk operations issue their sub-operations sequentially and report one
// outcome per user.
package ops

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-logr/logr"

	"github.com/cogniteo/cognito-user-manager/internal/config"
	"github.com/cogniteo/cognito-user-manager/pkg/userpool"
)

const (
	// DefaultPassword is used when no password is given, mirroring the
	// pool's test-user convention.
	DefaultPassword = "Password123!"

	// DefaultPhone is the placeholder phone number for created users
	DefaultPhone = "+6587654321"

	testUserFormat = "testuser%d@example.com"

	retryDelay = 200 * time.Millisecond
)

// Service exposes the user pool operations. The configured exclusion set is
// immutable for the lifetime of the service.
type Service struct {
	client        userpool.Client
	excluded      userpool.ExclusionSet
	retryAttempts uint
	log           logr.Logger
}

// NewService creates the operations facade
func NewService(client userpool.Client, cfg *config.Config, log logr.Logger) *Service {
	return &Service{
		client:        client,
		excluded:      userpool.NewExclusionSet(cfg.ExcludedUsers...),
		retryAttempts: cfg.RetryAttempts,
		log:           log,
	}
}

// Excluded returns the configured exclusion set
func (s *Service) Excluded() userpool.ExclusionSet {
	return s.excluded
}

// withRetry reissues fn when it fails transiently, up to the configured
// budget. Only read operations go through here; they are safe to repeat.
func (s *Service) withRetry(ctx context.Context, fn func() error) error {
	if s.retryAttempts <= 1 {
		return fn()
	}
	return retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(s.retryAttempts),
		retry.Delay(retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, userpool.ErrDirectoryUnavailable)
		}),
	)
}

// Users returns the lazy user sequence of the pool. The sequence is
// restartable; ranging it again lists from the first page.
func (s *Service) Users(ctx context.Context) iter.Seq2[*userpool.User, error] {
	return s.client.Users(ctx)
}

// ListUsers collects all users of the pool. Transient listing failures are
// retried from the first page; the sequence makes a restart cheap and safe.
func (s *Service) ListUsers(ctx context.Context) ([]*userpool.User, error) {
	var users []*userpool.User
	err := s.withRetry(ctx, func() error {
		users = users[:0]
		for user, err := range s.client.Users(ctx) {
			if err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser retrieves one user with its full attribute mapping
func (s *Service) GetUser(ctx context.Context, username string) (*userpool.User, error) {
	var user *userpool.User
	err := s.withRetry(ctx, func() error {
		var err error
		user, err = s.client.GetUser(ctx, username)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser creates a single user with the email as username and a
// permanent password. Empty password and phone fall back to the defaults.
func (s *Service) CreateUser(ctx context.Context, email, password, phone string) (*userpool.User, error) {
	if email == "" {
		return nil, fmt.Errorf("email cannot be empty")
	}
	if password == "" {
		password = DefaultPassword
	}
	if phone == "" {
		phone = DefaultPhone
	}

	user, err := s.client.CreateUser(ctx, &userpool.User{
		Attributes: map[string]string{
			"email":        email,
			"phone_number": phone,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.client.SetPassword(ctx, user.Username, password, true); err != nil {
		return nil, err
	}

	s.log.V(1).Info("created user", "username", user.Username)
	return user, nil
}

// CreateTestUsers creates count sequentially numbered synthetic users.
// Every creation is an independent call; a failure is recorded in the
// outcome sequence and does not abort the remaining creations.
func (s *Service) CreateTestUsers(ctx context.Context, count int, password string) []Outcome {
	outcomes := make([]Outcome, 0, count)
	for i := 1; i <= count; i++ {
		email := fmt.Sprintf(testUserFormat, i)
		if _, err := s.CreateUser(ctx, email, password, ""); err != nil {
			s.log.V(1).Info("test user creation failed", "username", email, "error", err.Error())
			outcomes = append(outcomes, Outcome{Username: email, Action: ActionFailed, Err: err})
			continue
		}
		outcomes = append(outcomes, Outcome{Username: email, Action: ActionCreated})
	}
	return outcomes
}

// SetPassword sets a user's password
func (s *Service) SetPassword(ctx context.Context, username, password string, permanent bool) error {
	return s.client.SetPassword(ctx, username, password, permanent)
}

// UpdateAttributes merges the given attributes into the user's existing set
func (s *Service) UpdateAttributes(ctx context.Context, username string, attrs map[string]string) error {
	if len(attrs) == 0 {
		return fmt.Errorf("no attributes to update")
	}
	return s.client.UpdateAttributes(ctx, username, attrs)
}

// verifiableAttributes are the attributes that carry a verification flag
var verifiableAttributes = map[string]struct{}{
	"email":        {},
	"phone_number": {},
}

// SetVerified sets the verification flag of an attribute. Attributes other
// than email and phone_number fail locally with ErrUnsupportedAttribute.
func (s *Service) SetVerified(ctx context.Context, username, attribute string, verified bool) error {
	if _, ok := verifiableAttributes[attribute]; !ok {
		return fmt.Errorf("set verified %s for %s: %w", attribute, username, userpool.ErrUnsupportedAttribute)
	}
	return s.client.UpdateAttributes(ctx, username, map[string]string{
		attribute + "_verified": strconv.FormatBool(verified),
	})
}

// SetEnabled enables or disables a user's account. The pool treats repeated
// enables and disables as no-ops, so the call is idempotent.
func (s *Service) SetEnabled(ctx context.Context, username string, enabled bool) error {
	if enabled {
		return s.client.EnableUser(ctx, username)
	}
	return s.client.DisableUser(ctx, username)
}

// ResetMFA clears the user's configured multi-factor methods
func (s *Service) ResetMFA(ctx context.Context, username string) error {
	return s.client.ResetMFA(ctx, username)
}

// DeleteUser deletes one user. The exclusion policy is consulted before
// anything else; an excluded user fails with ErrExcludedUser and no remote
// call is issued.
func (s *Service) DeleteUser(ctx context.Context, user *userpool.User) error {
	if user == nil || user.Username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if s.excluded.Excludes(user) {
		return fmt.Errorf("delete user %s: %w", user.Username, userpool.ErrExcludedUser)
	}
	if err := s.client.DeleteUser(ctx, user.Username); err != nil {
		return err
	}
	s.log.V(1).Info("deleted user", "username", user.Username)
	return nil
}

// DeleteAll deletes every user in the pool not protected by the union of
// the configured and the extra exclusions. It returns one outcome per
// listed user, in listing order; a single user's failure is recorded and
// does not stop the remainder.
func (s *Service) DeleteAll(ctx context.Context, extraExclusions ...string) ([]Outcome, error) {
	excluded := s.excluded.Union(userpool.NewExclusionSet(extraExclusions...))

	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(users))
	for _, user := range users {
		if excluded.Excludes(user) {
			s.log.V(1).Info("skipping excluded user", "username", user.Username)
			outcomes = append(outcomes, Outcome{Username: user.Username, Action: ActionSkipped})
			continue
		}
		if err := s.client.DeleteUser(ctx, user.Username); err != nil {
			s.log.V(1).Info("user deletion failed", "username", user.Username, "error", err.Error())
			outcomes = append(outcomes, Outcome{Username: user.Username, Action: ActionFailed, Err: err})
			continue
		}
		s.log.V(1).Info("deleted user", "username", user.Username)
		outcomes = append(outcomes, Outcome{Username: user.Username, Action: ActionDeleted})
	}
	return outcomes, nil
}

// Groups lists the group names defined in the pool
func (s *Service) Groups(ctx context.Context) ([]string, error) {
	var groups []string
	err := s.withRetry(ctx, func() error {
		var err error
		groups, err = s.client.ListGroups(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// UserGroups lists the groups the user belongs to
func (s *Service) UserGroups(ctx context.Context, username string) ([]string, error) {
	var groups []string
	err := s.withRetry(ctx, func() error {
		var err error
		groups, err = s.client.UserGroups(ctx, username)
		return err
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// AddToGroup adds the user to a group
func (s *Service) AddToGroup(ctx context.Context, username, group string) error {
	return s.client.AddUserToGroup(ctx, username, group)
}

// RemoveFromGroup removes the user from a group
func (s *Service) RemoveFromGroup(ctx context.Context, username, group string) error {
	return s.client.RemoveUserFromGroup(ctx, username, group)
}
