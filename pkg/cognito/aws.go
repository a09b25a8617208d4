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
	"errors"
	"fmt"
	"iter"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"

	"github.com/cogniteo/cognito-user-manager/pkg/userpool"
)

// AWSClient implements the userpool.Client interface for AWS Cognito
type AWSClient struct {
	cognito    CognitoAPI
	userPoolID string
}

// NewAWSClient creates a new AWS Cognito client. Credentials are resolved by
// the SDK's default chain (environment, shared config, instance identity).
func NewAWSClient(ctx context.Context, userPoolID, region string) (*AWSClient, error) {
	if userPoolID == "" {
		return nil, fmt.Errorf("userPoolID cannot be empty")
	}

	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSClient{
		cognito:    cognitoidentityprovider.NewFromConfig(cfg),
		userPoolID: userPoolID,
	}, nil
}

// wrapErr maps Cognito API exceptions onto the userpool error taxonomy.
// Non-API failures (transport, timeouts) are treated as the pool being
// unavailable; API errors outside the taxonomy pass through unchanged.
func wrapErr(err error) error {
	var (
		notFound *types.UserNotFoundException
		exists   *types.UsernameExistsException
		badPass  *types.InvalidPasswordException
		throttle *types.TooManyRequestsException
		limit    *types.LimitExceededException
		internal *types.InternalErrorException
		apiErr   smithy.APIError
	)
	switch {
	case errors.As(err, &notFound):
		return userpool.ErrUserNotFound
	case errors.As(err, &exists):
		return userpool.ErrDuplicateUser
	case errors.As(err, &badPass):
		return userpool.ErrInvalidPassword
	case errors.As(err, &throttle), errors.As(err, &limit), errors.As(err, &internal):
		return fmt.Errorf("%w: %v", userpool.ErrDirectoryUnavailable, err)
	case !errors.As(err, &apiErr):
		return fmt.Errorf("%w: %v", userpool.ErrDirectoryUnavailable, err)
	}
	return err
}

// fromUserType converts a Cognito user entry into a userpool.User
func fromUserType(cu types.UserType) *userpool.User {
	user := &userpool.User{
		Attributes: make(map[string]string, len(cu.Attributes)),
		Status:     mapStatus(cu.UserStatus),
		Enabled:    cu.Enabled,
	}
	if cu.Username != nil {
		user.Username = *cu.Username
	}
	for _, attr := range cu.Attributes {
		if attr.Name != nil && attr.Value != nil {
			user.Attributes[*attr.Name] = *attr.Value
		}
	}
	if cu.UserCreateDate != nil {
		user.Created = *cu.UserCreateDate
	}
	if cu.UserLastModifiedDate != nil {
		user.Modified = *cu.UserLastModifiedDate
	}
	return user
}

func mapStatus(s types.UserStatusType) userpool.Status {
	if s == "" {
		return userpool.StatusUnknown
	}
	return userpool.Status(s)
}

func toAttributeTypes(attrs map[string]string) []types.AttributeType {
	out := make([]types.AttributeType, 0, len(attrs))
	for name, value := range attrs {
		out = append(out, types.AttributeType{
			Name:  aws.String(name),
			Value: aws.String(value),
		})
	}
	return out
}

// CreateUser creates a new user in the Cognito user pool. The email and
// phone attributes are marked verified and the welcome message is suppressed.
func (c *AWSClient) CreateUser(ctx context.Context, user *userpool.User) (*userpool.User, error) {
	if user == nil {
		return nil, fmt.Errorf("user cannot be nil")
	}
	if user.Email() == "" {
		return nil, fmt.Errorf("email cannot be empty")
	}

	attributes := []types.AttributeType{
		{
			Name:  aws.String("email"),
			Value: aws.String(user.Email()),
		},
		{
			Name:  aws.String("email_verified"),
			Value: aws.String("true"),
		},
	}
	if phone := user.Phone(); phone != "" {
		attributes = append(attributes,
			types.AttributeType{
				Name:  aws.String("phone_number"),
				Value: aws.String(phone),
			},
			types.AttributeType{
				Name:  aws.String("phone_number_verified"),
				Value: aws.String("true"),
			},
		)
	}

	input := &cognitoidentityprovider.AdminCreateUserInput{
		UserPoolId:     aws.String(c.userPoolID),
		Username:       aws.String(user.Email()),
		UserAttributes: attributes,
		MessageAction:  types.MessageActionTypeSuppress, // Don't send welcome email
	}

	resp, err := c.cognito.AdminCreateUser(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", user.Email(), wrapErr(err))
	}

	if resp.User == nil {
		return nil, fmt.Errorf("create user %s: empty response", user.Email())
	}
	return fromUserType(*resp.User), nil
}

// GetUser retrieves a user from the Cognito user pool by username
func (c *AWSClient) GetUser(ctx context.Context, username string) (*userpool.User, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	input := &cognitoidentityprovider.AdminGetUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(username),
	}

	output, err := c.cognito.AdminGetUser(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", username, wrapErr(err))
	}

	user := &userpool.User{
		Username:   username,
		Attributes: make(map[string]string, len(output.UserAttributes)),
		Status:     mapStatus(output.UserStatus),
		Enabled:    output.Enabled,
	}
	for _, attr := range output.UserAttributes {
		if attr.Name != nil && attr.Value != nil {
			user.Attributes[*attr.Name] = *attr.Value
		}
	}
	if output.UserCreateDate != nil {
		user.Created = *output.UserCreateDate
	}
	if output.UserLastModifiedDate != nil {
		user.Modified = *output.UserLastModifiedDate
	}

	return user, nil
}

// SetPassword sets a user's password in the Cognito user pool
func (c *AWSClient) SetPassword(ctx context.Context, username, password string, permanent bool) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	input := &cognitoidentityprovider.AdminSetUserPasswordInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(username),
		Password:   aws.String(password),
		Permanent:  permanent,
	}

	if _, err := c.cognito.AdminSetUserPassword(ctx, input); err != nil {
		return fmt.Errorf("failed to set password for %s: %w", username, wrapErr(err))
	}

	return nil
}

// UpdateAttributes merges the given attributes into the user's existing set
func (c *AWSClient) UpdateAttributes(ctx context.Context, username string, attrs map[string]string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if len(attrs) == 0 {
		return fmt.Errorf("no attributes to update")
	}

	input := &cognitoidentityprovider.AdminUpdateUserAttributesInput{
		UserPoolId:     aws.String(c.userPoolID),
		Username:       aws.String(username),
		UserAttributes: toAttributeTypes(attrs),
	}

	if _, err := c.cognito.AdminUpdateUserAttributes(ctx, input); err != nil {
		return fmt.Errorf("failed to update user attributes for %s: %w", username, wrapErr(err))
	}

	return nil
}

// EnableUser enables a user's account in the Cognito user pool
func (c *AWSClient) EnableUser(ctx context.Context, username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	input := &cognitoidentityprovider.AdminEnableUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(username),
	}

	if _, err := c.cognito.AdminEnableUser(ctx, input); err != nil {
		return fmt.Errorf("failed to enable user %s: %w", username, wrapErr(err))
	}

	return nil
}

// DisableUser disables a user's account in the Cognito user pool
func (c *AWSClient) DisableUser(ctx context.Context, username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	input := &cognitoidentityprovider.AdminDisableUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(username),
	}

	if _, err := c.cognito.AdminDisableUser(ctx, input); err != nil {
		return fmt.Errorf("failed to disable user %s: %w", username, wrapErr(err))
	}

	return nil
}

// ResetMFA clears all configured multi-factor methods for a user
func (c *AWSClient) ResetMFA(ctx context.Context, username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	input := &cognitoidentityprovider.AdminSetUserMFAPreferenceInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(username),
		SMSMfaSettings: &types.SMSMfaSettingsType{
			Enabled:      false,
			PreferredMfa: false,
		},
		SoftwareTokenMfaSettings: &types.SoftwareTokenMfaSettingsType{
			Enabled:      false,
			PreferredMfa: false,
		},
	}

	if _, err := c.cognito.AdminSetUserMFAPreference(ctx, input); err != nil {
		return fmt.Errorf("failed to reset MFA for %s: %w", username, wrapErr(err))
	}

	return nil
}

// DeleteUser removes a user from the Cognito user pool
func (c *AWSClient) DeleteUser(ctx context.Context, username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	input := &cognitoidentityprovider.AdminDeleteUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(username),
	}

	_, err := c.cognito.AdminDeleteUser(ctx, input)
	if err != nil {
		// Check if the error is due to user not existing
		var userNotFoundErr *types.UserNotFoundException
		if errors.As(err, &userNotFoundErr) {
			// User doesn't exist, this is not an error for deletion
			return nil
		}
		return fmt.Errorf("failed to delete user %s: %w", username, wrapErr(err))
	}

	return nil
}

// Users returns a lazy sequence over all users in the Cognito user pool,
// paging with the service's pagination token. Ranging the sequence again
// restarts from the first page.
func (c *AWSClient) Users(ctx context.Context) iter.Seq2[*userpool.User, error] {
	return func(yield func(*userpool.User, error) bool) {
		var nextToken *string

		for {
			input := &cognitoidentityprovider.ListUsersInput{
				UserPoolId:      aws.String(c.userPoolID),
				PaginationToken: nextToken,
			}

			output, err := c.cognito.ListUsers(ctx, input)
			if err != nil {
				yield(nil, fmt.Errorf("failed to list users: %w", wrapErr(err)))
				return
			}

			for _, cognitoUser := range output.Users {
				if cognitoUser.Username == nil {
					continue
				}
				if !yield(fromUserType(cognitoUser), nil) {
					return
				}
			}

			nextToken = output.PaginationToken
			if nextToken == nil {
				return
			}
		}
	}
}

// ListGroups lists the group names defined in the Cognito user pool
func (c *AWSClient) ListGroups(ctx context.Context) ([]string, error) {
	var groups []string
	var nextToken *string

	for {
		input := &cognitoidentityprovider.ListGroupsInput{
			UserPoolId: aws.String(c.userPoolID),
			NextToken:  nextToken,
		}

		output, err := c.cognito.ListGroups(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list groups: %w", wrapErr(err))
		}

		for _, group := range output.Groups {
			if group.GroupName != nil {
				groups = append(groups, *group.GroupName)
			}
		}

		nextToken = output.NextToken
		if nextToken == nil {
			break
		}
	}

	return groups, nil
}

// UserGroups lists the groups a user belongs to
func (c *AWSClient) UserGroups(ctx context.Context, username string) ([]string, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	var groups []string
	var nextToken *string

	for {
		input := &cognitoidentityprovider.AdminListGroupsForUserInput{
			UserPoolId: aws.String(c.userPoolID),
			Username:   aws.String(username),
			NextToken:  nextToken,
		}

		output, err := c.cognito.AdminListGroupsForUser(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list groups for %s: %w", username, wrapErr(err))
		}

		for _, group := range output.Groups {
			if group.GroupName != nil {
				groups = append(groups, *group.GroupName)
			}
		}

		nextToken = output.NextToken
		if nextToken == nil {
			break
		}
	}

	return groups, nil
}

// AddUserToGroup adds a user to a group in the Cognito user pool
func (c *AWSClient) AddUserToGroup(ctx context.Context, username, group string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if group == "" {
		return fmt.Errorf("group cannot be empty")
	}

	input := &cognitoidentityprovider.AdminAddUserToGroupInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(username),
		GroupName:  aws.String(group),
	}

	if _, err := c.cognito.AdminAddUserToGroup(ctx, input); err != nil {
		return fmt.Errorf("failed to add user %s to group %s: %w", username, group, wrapErr(err))
	}

	return nil
}

// RemoveUserFromGroup removes a user from a group in the Cognito user pool
func (c *AWSClient) RemoveUserFromGroup(ctx context.Context, username, group string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if group == "" {
		return fmt.Errorf("group cannot be empty")
	}

	input := &cognitoidentityprovider.AdminRemoveUserFromGroupInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(username),
		GroupName:  aws.String(group),
	}

	if _, err := c.cognito.AdminRemoveUserFromGroup(ctx, input); err != nil {
		return fmt.Errorf("failed to remove user %s from group %s: %w", username, group, wrapErr(err))
	}

	return nil
}
