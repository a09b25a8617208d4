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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAWSClient(t *testing.T) {
	tests := []struct {
		name       string
		userPoolID string
		region     string
		expectErr  bool
	}{
		{
			name:       "valid user pool ID",
			userPoolID: "ap-southeast-1_ABC123",
			region:     "ap-southeast-1",
			expectErr:  false,
		},
		{
			name:       "region left to the SDK default chain",
			userPoolID: "ap-southeast-1_ABC123",
			region:     "",
			expectErr:  false,
		},
		{
			name:       "empty user pool ID",
			userPoolID: "",
			expectErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewAWSClient(context.Background(), tt.userPoolID, tt.region)

			if tt.expectErr {
				require.Error(t, err)
				assert.Nil(t, client)
			} else {
				require.NoError(t, err)
				require.NotNil(t, client)
				assert.Equal(t, tt.userPoolID, client.userPoolID)
			}
		})
	}
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(context.Background(), "ap-southeast-1_ABC123", "ap-southeast-1")
	require.NoError(t, err)
	assert.NotNil(t, client)
}
