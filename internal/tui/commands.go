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
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cogniteo/cognito-user-manager/internal/ops"
	"github.com/cogniteo/cognito-user-manager/pkg/userpool"
)

// usersLoadedMsg carries the result of a pool listing
type usersLoadedMsg struct {
	users []*userpool.User
	err   error
}

// userLoadedMsg carries one user with its group memberships
type userLoadedMsg struct {
	user   *userpool.User
	groups []string
	err    error
}

// groupsLoadedMsg carries the pool's group names
type groupsLoadedMsg struct {
	groups []string
	err    error
}

// actionDoneMsg reports the result of a single mutation
type actionDoneMsg struct {
	text   string
	err    error
	reload bool
}

// bulkDoneMsg reports the aggregated result of a bulk operation
type bulkDoneMsg struct {
	summary ops.Summary
	verb    string
	err     error
}

func loadUsers(a *app) tea.Cmd {
	return func() tea.Msg {
		users, err := a.svc.ListUsers(a.ctx)
		return usersLoadedMsg{users: users, err: err}
	}
}

func loadUser(a *app, username string) tea.Cmd {
	return func() tea.Msg {
		user, err := a.svc.GetUser(a.ctx, username)
		if err != nil {
			return userLoadedMsg{err: err}
		}
		groups, err := a.svc.UserGroups(a.ctx, username)
		if err != nil {
			return userLoadedMsg{err: err}
		}
		return userLoadedMsg{user: user, groups: groups}
	}
}

func loadGroups(a *app) tea.Cmd {
	return func() tea.Msg {
		groups, err := a.svc.Groups(a.ctx)
		return groupsLoadedMsg{groups: groups, err: err}
	}
}

func deleteUsers(a *app, users []*userpool.User) tea.Cmd {
	return func() tea.Msg {
		deleted := 0
		for _, user := range users {
			if err := a.svc.DeleteUser(a.ctx, user); err != nil {
				return actionDoneMsg{err: fmt.Errorf("deleting %s: %w", user.Username, err), reload: true}
			}
			deleted++
		}
		return actionDoneMsg{text: fmt.Sprintf("Deleted %d users", deleted), reload: true}
	}
}

func deleteAllUsers(a *app) tea.Cmd {
	return func() tea.Msg {
		outcomes, err := a.svc.DeleteAll(a.ctx)
		return bulkDoneMsg{summary: ops.Summarize(outcomes), verb: "Deleted", err: err}
	}
}

// renderStatus renders the one-line message area at the bottom of a screen
func renderStatus(text string, isErr bool) string {
	if text == "" {
		return ""
	}
	if isErr {
		return errorStyle.Render(text)
	}
	return statusStyle.Render(text)
}
