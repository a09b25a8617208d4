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

package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogniteo/cognito-user-manager/internal/config"
	"github.com/cogniteo/cognito-user-manager/internal/ops"
	"github.com/cogniteo/cognito-user-manager/pkg/cognito"
	"github.com/cogniteo/cognito-user-manager/pkg/userpool"
)

func newTestApp(t *testing.T, excluded []string) (*app, *cognito.MockClient) {
	t.Helper()
	client := cognito.NewMockClient()
	cfg := &config.Config{
		Region:        config.DefaultRegion,
		UserPoolID:    "ap-southeast-1_TestPool",
		ExcludedUsers: excluded,
		RetryAttempts: 1,
	}
	return &app{
		ctx: context.Background(),
		svc: ops.NewService(client, cfg, logr.Discard()),
		cfg: cfg,
	}, client
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestMenuNavigation(t *testing.T) {
	a, _ := newTestApp(t, nil)
	menu := newMenuModel(a)

	// Second entry opens the user management screen.
	screen, _ := menu.Update(keyMsg("down"))
	screen, cmd := screen.Update(keyMsg("enter"))
	require.NotNil(t, cmd)

	push, ok := cmd().(pushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &usersModel{}, push.screen)
	assert.Same(t, menu, screen)
}

func TestRootModelScreenStack(t *testing.T) {
	a, _ := newTestApp(t, nil)
	var root tea.Model = Model{stack: []screenModel{newMenuModel(a)}}

	next, _ := root.Update(pushScreenMsg{screen: newSettingsModel(a)})
	model := next.(Model)
	require.Len(t, model.stack, 2)

	next, _ = model.Update(popScreenMsg{})
	model = next.(Model)
	require.Len(t, model.stack, 1)

	// Popping the last screen is a no-op.
	next, _ = model.Update(popScreenMsg{})
	model = next.(Model)
	assert.Len(t, model.stack, 1)
}

func TestUsersScreenSelection(t *testing.T) {
	a, _ := newTestApp(t, []string{"admin@example.com"})
	users := newUsersModel(a)

	screen, _ := users.Update(usersLoadedMsg{users: []*userpool.User{
		{Username: "admin@example.com", Attributes: map[string]string{"email": "admin@example.com"}},
		{Username: "alice@example.com", Attributes: map[string]string{"email": "alice@example.com"}},
	}})
	m := screen.(*usersModel)

	rows := m.table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, markerExcluded, rows[0][0])
	assert.Equal(t, markerBlank, rows[1][0])

	// The excluded user cannot be selected.
	screen, _ = m.Update(keyMsg("enter"))
	m = screen.(*usersModel)
	assert.Empty(t, m.selected)
	assert.True(t, m.statusErr)

	// The second user can.
	screen, _ = m.Update(keyMsg("down"))
	m = screen.(*usersModel)
	screen, _ = m.Update(keyMsg("enter"))
	m = screen.(*usersModel)
	assert.Contains(t, m.selected, "alice@example.com")
	assert.Equal(t, markerSelected, m.table.Rows()[1][0])

	// Toggling again clears the selection.
	screen, _ = m.Update(keyMsg("enter"))
	m = screen.(*usersModel)
	assert.Empty(t, m.selected)
}

func TestUsersScreenDeleteSelected(t *testing.T) {
	a, client := newTestApp(t, nil)
	users := newUsersModel(a)

	screen, _ := users.Update(usersLoadedMsg{users: []*userpool.User{
		{Username: "alice@example.com", Attributes: map[string]string{"email": "alice@example.com"}},
	}})
	m := screen.(*usersModel)

	// Deleting with nothing selected is a local error.
	screen, cmd := m.Update(keyMsg("d"))
	m = screen.(*usersModel)
	assert.Nil(t, cmd)
	assert.True(t, m.statusErr)

	screen, _ = m.Update(keyMsg("enter"))
	m = screen.(*usersModel)
	_, cmd = m.Update(keyMsg("d"))
	require.NotNil(t, cmd)

	done, ok := cmd().(actionDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.True(t, done.reload)
	assert.Equal(t, []string{"alice@example.com"}, client.Deleted)
}

func TestEditScreenPasswordValidation(t *testing.T) {
	a, _ := newTestApp(t, nil)
	edit := newEditModel(a, "alice@example.com")

	// Empty password is rejected locally.
	screen, cmd := edit.Update(keyMsg("enter"))
	m := screen.(*editModel)
	assert.Nil(t, cmd)
	assert.True(t, m.statusErr)
	assert.Equal(t, "Error: Password is required", m.status)
}

func TestCreateScreenBulkValidation(t *testing.T) {
	a, _ := newTestApp(t, nil)
	create := newCreateModel(a)
	create.setFocus(createCount)

	screen, cmd := create.Update(keyMsg("enter"))
	m := screen.(*createModel)
	assert.Nil(t, cmd)
	assert.Equal(t, "Error: Number of users is required", m.status)

	m.count.SetValue("nope")
	screen, cmd = m.Update(keyMsg("enter"))
	m = screen.(*createModel)
	assert.Nil(t, cmd)
	assert.Equal(t, "Error: Please enter a valid positive number", m.status)

	m.count.SetValue("2")
	_, cmd = m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)

	done, ok := cmd().(actionDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, "Created: 2, Failed: 0", done.text)
}
