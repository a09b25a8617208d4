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

package ops

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogniteo/cognito-user-manager/internal/config"
	"github.com/cogniteo/cognito-user-manager/pkg/cognito"
	"github.com/cogniteo/cognito-user-manager/pkg/userpool"
)

func newTestService(client userpool.Client, excluded []string) *Service {
	return NewService(client, &config.Config{
		ExcludedUsers: excluded,
		RetryAttempts: 1,
	}, logr.Discard())
}

func seedUser(mock *cognito.MockClient, username, email string) {
	mock.AddUser(&userpool.User{
		Username:   username,
		Attributes: map[string]string{"email": email},
		Status:     userpool.StatusConfirmed,
		Enabled:    true,
	})
}

func TestService_DeleteUser(t *testing.T) {
	tests := []struct {
		name          string
		excluded      []string
		user          *userpool.User
		expectErr     error
		expectDeletes int
	}{
		{
			name:     "excluded by username fails locally",
			excluded: []string{"admin@example.com"},
			user: &userpool.User{
				Username:   "admin@example.com",
				Attributes: map[string]string{"email": "admin@example.com"},
			},
			expectErr:     userpool.ErrExcludedUser,
			expectDeletes: 0,
		},
		{
			name:     "excluded by email attribute fails locally",
			excluded: []string{"admin@example.com"},
			user: &userpool.User{
				Username:   "b7e2a4d0-1f3c",
				Attributes: map[string]string{"email": "admin@example.com"},
			},
			expectErr:     userpool.ErrExcludedUser,
			expectDeletes: 0,
		},
		{
			name:     "exclusion matching is case-insensitive",
			excluded: []string{"Admin@Example.com"},
			user: &userpool.User{
				Username:   "admin@example.com",
				Attributes: map[string]string{"email": "admin@example.com"},
			},
			expectErr:     userpool.ErrExcludedUser,
			expectDeletes: 0,
		},
		{
			name:     "non-excluded user issues exactly one delete call",
			excluded: []string{"admin@example.com"},
			user: &userpool.User{
				Username:   "alice@example.com",
				Attributes: map[string]string{"email": "alice@example.com"},
			},
			expectDeletes: 1,
		},
		{
			name:          "nil user",
			user:          nil,
			expectErr:     nil, // plain validation error, no taxonomy match
			expectDeletes: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := cognito.NewMockClient()
			if tt.user != nil {
				client.AddUser(tt.user)
			}
			svc := newTestService(client, tt.excluded)

			err := svc.DeleteUser(context.Background(), tt.user)

			if tt.user == nil {
				require.Error(t, err)
			} else if tt.expectErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectErr)
			} else {
				require.NoError(t, err)
			}
			assert.Len(t, client.Deleted, tt.expectDeletes)
		})
	}
}

func TestService_DeleteAll(t *testing.T) {
	t.Run("deletes only non-excluded users", func(t *testing.T) {
		client := cognito.NewMockClient()
		seedUser(client, "admin@example.com", "admin@example.com")
		seedUser(client, "alice@example.com", "alice@example.com")
		svc := newTestService(client, []string{"admin@example.com"})

		outcomes, err := svc.DeleteAll(context.Background())
		require.NoError(t, err)

		require.Len(t, outcomes, 2)
		assert.Equal(t, "admin@example.com", outcomes[0].Username)
		assert.Equal(t, ActionSkipped, outcomes[0].Action)
		assert.Equal(t, "alice@example.com", outcomes[1].Username)
		assert.Equal(t, ActionDeleted, outcomes[1].Action)

		assert.Equal(t, []string{"alice@example.com"}, client.Deleted)
	})

	t.Run("k users with m excluded issue k-m deletes and k outcomes", func(t *testing.T) {
		client := cognito.NewMockClient()
		var excluded []string
		for i := 1; i <= 6; i++ {
			email := fmt.Sprintf("user%d@example.com", i)
			seedUser(client, email, email)
			if i%2 == 0 {
				excluded = append(excluded, email)
			}
		}
		svc := newTestService(client, nil)

		outcomes, err := svc.DeleteAll(context.Background(), excluded...)
		require.NoError(t, err)

		assert.Len(t, outcomes, 6)
		assert.Len(t, client.Deleted, 3)

		summary := Summarize(outcomes)
		assert.Equal(t, 3, summary.Succeeded)
		assert.Equal(t, 3, summary.Skipped)
		assert.Equal(t, 0, summary.Failed)
	})

	t.Run("extra exclusions union with configured set", func(t *testing.T) {
		client := cognito.NewMockClient()
		seedUser(client, "admin@example.com", "admin@example.com")
		seedUser(client, "ops@example.com", "ops@example.com")
		seedUser(client, "alice@example.com", "alice@example.com")
		svc := newTestService(client, []string{"admin@example.com"})

		outcomes, err := svc.DeleteAll(context.Background(), "Ops@Example.com")
		require.NoError(t, err)

		require.Len(t, outcomes, 3)
		assert.Equal(t, []string{"alice@example.com"}, client.Deleted)
	})

	t.Run("one failed delete does not stop the batch", func(t *testing.T) {
		client := cognito.NewMockClient()
		seedUser(client, "user1@example.com", "user1@example.com")
		seedUser(client, "user2@example.com", "user2@example.com")
		seedUser(client, "user3@example.com", "user3@example.com")
		client.FailDelete = map[string]error{
			"user2@example.com": userpool.ErrDirectoryUnavailable,
		}
		svc := newTestService(client, nil)

		outcomes, err := svc.DeleteAll(context.Background())
		require.NoError(t, err)

		require.Len(t, outcomes, 3)
		assert.Equal(t, ActionDeleted, outcomes[0].Action)
		assert.Equal(t, ActionFailed, outcomes[1].Action)
		assert.ErrorIs(t, outcomes[1].Err, userpool.ErrDirectoryUnavailable)
		assert.Equal(t, ActionDeleted, outcomes[2].Action)

		// All three were attempted.
		assert.Len(t, client.Deleted, 3)
	})

	t.Run("listing failure aborts before any delete", func(t *testing.T) {
		client := cognito.NewMockClient()
		seedUser(client, "user1@example.com", "user1@example.com")
		client.ListFailures = 1
		svc := newTestService(client, nil)

		outcomes, err := svc.DeleteAll(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, userpool.ErrDirectoryUnavailable)
		assert.Nil(t, outcomes)
		assert.Empty(t, client.Deleted)
	})
}

func TestService_ListUsersRetry(t *testing.T) {
	t.Run("transient failures are retried within the budget", func(t *testing.T) {
		client := cognito.NewMockClient()
		seedUser(client, "user1@example.com", "user1@example.com")
		client.ListFailures = 2
		svc := NewService(client, &config.Config{RetryAttempts: 3}, logr.Discard())

		users, err := svc.ListUsers(context.Background())
		require.NoError(t, err)
		require.Len(t, users, 1)
	})

	t.Run("budget exhaustion surfaces unavailable", func(t *testing.T) {
		client := cognito.NewMockClient()
		seedUser(client, "user1@example.com", "user1@example.com")
		client.ListFailures = 5
		svc := NewService(client, &config.Config{RetryAttempts: 3}, logr.Discard())

		_, err := svc.ListUsers(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, userpool.ErrDirectoryUnavailable)
	})

	t.Run("non-transient failures are not retried", func(t *testing.T) {
		client := cognito.NewMockClient()
		client.ListFailures = 1
		client.ListErr = errors.New("access denied")
		svc := NewService(client, &config.Config{RetryAttempts: 3}, logr.Discard())

		_, err := svc.ListUsers(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, userpool.ErrDirectoryUnavailable)
	})
}

func TestService_CreateTestUsers(t *testing.T) {
	t.Run("creates count sequentially numbered users", func(t *testing.T) {
		client := cognito.NewMockClient()
		svc := newTestService(client, nil)

		outcomes := svc.CreateTestUsers(context.Background(), 3, "")

		require.Len(t, outcomes, 3)
		for i, o := range outcomes {
			assert.Equal(t, fmt.Sprintf("testuser%d@example.com", i+1), o.Username)
			assert.Equal(t, ActionCreated, o.Action)
		}

		users, err := svc.ListUsers(context.Background())
		require.NoError(t, err)
		assert.Len(t, users, 3)
	})

	t.Run("failures do not abort remaining creations", func(t *testing.T) {
		client := cognito.NewMockClient()
		client.FailCreate = map[string]error{
			"testuser2@example.com": userpool.ErrDuplicateUser,
		}
		svc := newTestService(client, nil)

		outcomes := svc.CreateTestUsers(context.Background(), 3, "")

		require.Len(t, outcomes, 3)
		assert.Equal(t, ActionCreated, outcomes[0].Action)
		assert.Equal(t, ActionFailed, outcomes[1].Action)
		assert.ErrorIs(t, outcomes[1].Err, userpool.ErrDuplicateUser)
		assert.Equal(t, ActionCreated, outcomes[2].Action)

		summary := Summarize(outcomes)
		assert.Equal(t, 2, summary.Succeeded)
		assert.Equal(t, 1, summary.Failed)
	})

	t.Run("zero count produces no attempts", func(t *testing.T) {
		client := cognito.NewMockClient()
		svc := newTestService(client, nil)

		outcomes := svc.CreateTestUsers(context.Background(), 0, "")
		assert.Empty(t, outcomes)
	})
}

func TestService_CreateUser(t *testing.T) {
	t.Run("defaults applied and password set permanent", func(t *testing.T) {
		client := cognito.NewMockClient()
		svc := newTestService(client, nil)

		user, err := svc.CreateUser(context.Background(), "alice@example.com", "", "")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Username)

		got, err := svc.GetUser(context.Background(), "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, DefaultPhone, got.Phone())
		// Permanent password confirms the account.
		assert.Equal(t, userpool.StatusConfirmed, got.Status)
	})

	t.Run("duplicate user", func(t *testing.T) {
		client := cognito.NewMockClient()
		seedUser(client, "alice@example.com", "alice@example.com")
		svc := newTestService(client, nil)

		_, err := svc.CreateUser(context.Background(), "alice@example.com", "", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, userpool.ErrDuplicateUser)
	})

	t.Run("empty email", func(t *testing.T) {
		client := cognito.NewMockClient()
		svc := newTestService(client, nil)

		_, err := svc.CreateUser(context.Background(), "", "", "")
		require.Error(t, err)
	})
}

func TestService_SetVerified(t *testing.T) {
	tests := []struct {
		name      string
		attribute string
		verified  bool
		expectErr error
		expectVal string
	}{
		{
			name:      "email verified",
			attribute: "email",
			verified:  true,
			expectVal: "true",
		},
		{
			name:      "phone unverified",
			attribute: "phone_number",
			verified:  false,
			expectVal: "false",
		},
		{
			name:      "unsupported attribute fails locally",
			attribute: "nickname",
			expectErr: userpool.ErrUnsupportedAttribute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := cognito.NewMockClient()
			seedUser(client, "alice@example.com", "alice@example.com")
			svc := newTestService(client, nil)

			err := svc.SetVerified(context.Background(), "alice@example.com", tt.attribute, tt.verified)

			if tt.expectErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)

			user, err := svc.GetUser(context.Background(), "alice@example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.expectVal, user.Attributes[tt.attribute+"_verified"])
		})
	}
}

func TestService_SetEnabled(t *testing.T) {
	client := cognito.NewMockClient()
	seedUser(client, "alice@example.com", "alice@example.com")
	svc := newTestService(client, nil)

	require.NoError(t, svc.SetEnabled(context.Background(), "alice@example.com", false))

	user, err := svc.GetUser(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.False(t, user.Enabled)

	// Disabling an already-disabled user succeeds.
	require.NoError(t, svc.SetEnabled(context.Background(), "alice@example.com", false))

	require.NoError(t, svc.SetEnabled(context.Background(), "alice@example.com", true))
	user, err = svc.GetUser(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, user.Enabled)
}

func TestService_Groups(t *testing.T) {
	client := cognito.NewMockClient()
	client.AddGroup("admins")
	client.AddGroup("viewers")
	seedUser(client, "alice@example.com", "alice@example.com")
	svc := newTestService(client, nil)

	groups, err := svc.Groups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"admins", "viewers"}, groups)

	require.NoError(t, svc.AddToGroup(context.Background(), "alice@example.com", "admins"))

	got, err := svc.UserGroups(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"admins"}, got)

	require.NoError(t, svc.RemoveFromGroup(context.Background(), "alice@example.com", "admins"))

	got, err = svc.UserGroups(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_UpdateAttributes(t *testing.T) {
	t.Run("merges without touching other attributes", func(t *testing.T) {
		client := cognito.NewMockClient()
		client.AddUser(&userpool.User{
			Username: "alice@example.com",
			Attributes: map[string]string{
				"email":        "alice@example.com",
				"phone_number": "+6587654321",
			},
		})
		svc := newTestService(client, nil)

		err := svc.UpdateAttributes(context.Background(), "alice@example.com", map[string]string{
			"email": "alice.new@example.com",
		})
		require.NoError(t, err)

		user, err := svc.GetUser(context.Background(), "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice.new@example.com", user.Email())
		assert.Equal(t, "+6587654321", user.Phone())
	})

	t.Run("empty attribute map", func(t *testing.T) {
		client := cognito.NewMockClient()
		svc := newTestService(client, nil)

		err := svc.UpdateAttributes(context.Background(), "alice@example.com", nil)
		require.Error(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		client := cognito.NewMockClient()
		svc := newTestService(client, nil)

		err := svc.UpdateAttributes(context.Background(), "ghost@example.com", map[string]string{"email": "x"})
		assert.ErrorIs(t, err, userpool.ErrUserNotFound)
	})
}
