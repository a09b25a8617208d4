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
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cogniteo/cognito-user-manager/pkg/userpool"
)

const (
	markerBlank    = "[ ]"
	markerSelected = "[X]"
	markerExcluded = "[E]"
)

// usersModel is the user management screen: a table of every user in the
// pool with selection, navigation into the detail and edit screens, and the
// delete operations. Excluded users are marked and cannot be selected.
type usersModel struct {
	app       *app
	table     table.Model
	users     []*userpool.User
	selected  map[string]struct{}
	status    string
	statusErr bool
	loading   bool
}

func newUsersModel(a *app) *usersModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Sel", Width: 4},
			{Title: "Username", Width: 30},
			{Title: "Email", Width: 30},
			{Title: "Status", Width: 22},
			{Title: "Enabled", Width: 8},
			{Title: "Created", Width: 17},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("240"))
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	return &usersModel{
		app:      a,
		table:    t,
		selected: make(map[string]struct{}),
	}
}

func (m *usersModel) Init() tea.Cmd {
	m.loading = true
	m.status = "Loading users..."
	m.statusErr = false
	return loadUsers(m.app)
}

func (m *usersModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading users: %v", msg.err)
			m.statusErr = true
			return m, nil
		}
		m.users = msg.users
		m.selected = make(map[string]struct{})
		m.rebuildRows()
		m.status = fmt.Sprintf("Loaded %d users", len(msg.users))
		m.statusErr = false
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			m.statusErr = true
		} else {
			m.status = msg.text
			m.statusErr = false
		}
		if msg.reload {
			return m, loadUsers(m.app)
		}
		return m, nil

	case bulkDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			m.statusErr = true
			return m, nil
		}
		m.status = fmt.Sprintf("%s: %d, Skipped: %d (excluded), Failed: %d",
			msg.verb, msg.summary.Succeeded, msg.summary.Skipped, msg.summary.Failed)
		m.statusErr = msg.summary.Failed > 0
		return m, loadUsers(m.app)

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, popScreen
		case "r":
			return m, m.Init()
		case "v":
			if user := m.current(); user != nil {
				return m, pushScreen(newDetailModel(m.app, user.Username))
			}
			m.setError("No user highlighted")
		case "e":
			if user := m.current(); user != nil {
				return m, pushScreen(newEditModel(m.app, user.Username))
			}
			m.setError("No user highlighted")
		case "enter", " ":
			m.toggleSelection()
			return m, nil
		case "d":
			return m, m.deleteSelected()
		case "D":
			m.status = "Deleting all users..."
			m.statusErr = false
			return m, deleteAllUsers(m.app)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// current returns the user under the table cursor
func (m *usersModel) current() *userpool.User {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.users) {
		return nil
	}
	return m.users[cursor]
}

func (m *usersModel) setError(text string) {
	m.status = text
	m.statusErr = true
}

func (m *usersModel) toggleSelection() {
	user := m.current()
	if user == nil {
		return
	}
	if m.app.svc.Excluded().Excludes(user) {
		m.setError(fmt.Sprintf("User %s is excluded from deletion", user.Username))
		return
	}
	if _, ok := m.selected[user.Username]; ok {
		delete(m.selected, user.Username)
	} else {
		m.selected[user.Username] = struct{}{}
	}
	m.rebuildRows()
}

func (m *usersModel) deleteSelected() tea.Cmd {
	if len(m.selected) == 0 {
		m.setError("No users selected (use Enter to select)")
		return nil
	}
	var targets []*userpool.User
	for _, user := range m.users {
		if _, ok := m.selected[user.Username]; ok {
			targets = append(targets, user)
		}
	}
	m.status = fmt.Sprintf("Deleting %d users...", len(targets))
	m.statusErr = false
	return deleteUsers(m.app, targets)
}

func (m *usersModel) rebuildRows() {
	rows := make([]table.Row, 0, len(m.users))
	for _, user := range m.users {
		marker := markerBlank
		if m.app.svc.Excluded().Excludes(user) {
			marker = markerExcluded
		} else if _, ok := m.selected[user.Username]; ok {
			marker = markerSelected
		}

		enabled := "No"
		if user.Enabled {
			enabled = "Yes"
		}
		created := ""
		if !user.Created.IsZero() {
			created = user.Created.Format("2006-01-02 15:04")
		}

		rows = append(rows, table.Row{
			marker,
			user.Username,
			user.Email(),
			string(user.Status),
			enabled,
			created,
		})
	}
	m.table.SetRows(rows)
}

func (m *usersModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("User Management"))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(renderStatus(m.status, m.statusErr))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(
		"r: refresh • v: view • e: edit • enter: select • d: delete selected • D: delete all • esc: back"))
	return frameStyle.Render(b.String())
}
