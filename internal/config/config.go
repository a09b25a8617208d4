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

// Package config resolves the tool's configuration from the environment once
// at startup. The resulting struct is passed explicitly to every component;
// nothing else in the repository reads environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// DefaultRegion is used when AWS_REGION is not set
	DefaultRegion = "ap-southeast-1"

	// DefaultRetryAttempts bounds retries of calls that failed transiently
	DefaultRetryAttempts = 3
)

// Config holds the resolved configuration for one invocation
type Config struct {
	// Region is the AWS region of the user pool
	Region string

	// UserPoolID identifies the Cognito user pool
	UserPoolID string

	// AccessKeyID is kept for display purposes only; the SDK resolves
	// credentials through its own default chain.
	AccessKeyID string

	// ExcludedUsers are identifiers (usernames or emails) protected from
	// deletion, from the EXCLUDE_USERS environment variable.
	ExcludedUsers []string

	// RetryAttempts is the budget for retrying transient pool failures.
	// 1 or less disables retries.
	RetryAttempts uint
}

// Load reads configuration from a .env file (if present) and the
// environment. A missing user pool ID is a fatal configuration error.
func Load() (*Config, error) {
	// Best effort; running without a .env file is normal.
	_ = godotenv.Load()

	cfg := &Config{
		Region:        os.Getenv("AWS_REGION"),
		UserPoolID:    os.Getenv("AWS_COGNITO_USER_POOL_ID"),
		AccessKeyID:   os.Getenv("AWS_ACCESS_KEY_ID"),
		ExcludedUsers: splitList(os.Getenv("EXCLUDE_USERS")),
		RetryAttempts: DefaultRetryAttempts,
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	if raw := os.Getenv("COGNITO_RETRY_ATTEMPTS"); raw != "" {
		attempts, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid COGNITO_RETRY_ATTEMPTS %q: %w", raw, err)
		}
		cfg.RetryAttempts = uint(attempts)
	}

	if cfg.UserPoolID == "" {
		return nil, fmt.Errorf("AWS_COGNITO_USER_POOL_ID environment variable not set")
	}

	return cfg, nil
}

// MaskedAccessKeyID returns the access key with all but the last four
// characters replaced, or "" when no key is configured.
func (c *Config) MaskedAccessKeyID() string {
	if c.AccessKeyID == "" {
		return ""
	}
	if len(c.AccessKeyID) <= 4 {
		return strings.Repeat("*", len(c.AccessKeyID))
	}
	return strings.Repeat("*", 16) + c.AccessKeyID[len(c.AccessKeyID)-4:]
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
