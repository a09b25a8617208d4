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
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cogniteo/cognito-user-manager/pkg/userpool"
)

// detailModel is the read-only user detail screen
type detailModel struct {
	app       *app
	username  string
	user      *userpool.User
	groups    []string
	status    string
	statusErr bool
}

func newDetailModel(a *app, username string) *detailModel {
	return &detailModel{app: a, username: username}
}

func (m *detailModel) Init() tea.Cmd {
	m.status = "Loading user..."
	m.statusErr = false
	return loadUser(m.app, m.username)
}

func (m *detailModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case userLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading user: %v", msg.err)
			m.statusErr = true
			return m, nil
		}
		m.user = msg.user
		m.groups = msg.groups
		m.status = fmt.Sprintf("Loaded user: %s", m.username)
		m.statusErr = false
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, popScreen
		case "e":
			return m, pushScreen(newEditModel(m.app, m.username))
		case "r":
			return m, m.Init()
		}
	}
	return m, nil
}

// maskSub shortens the pool-assigned identifier so it is recognizable
// without filling the screen
func maskSub(sub string) string {
	if len(sub) <= 12 {
		return sub
	}
	return sub[:8] + "..." + sub[len(sub)-4:]
}

func (m *detailModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("User Details"))
	b.WriteString("\n\n")

	if m.user != nil {
		enabled := "No"
		if m.user.Enabled {
			enabled = "Yes"
		}
		details := fmt.Sprintf("Username: %s\nStatus: %s\nEnabled: %s\nCreated: %s\nLast Modified: %s",
			m.user.Username,
			m.user.Status,
			enabled,
			m.user.Created.Format("2006-01-02 15:04:05"),
			m.user.Modified.Format("2006-01-02 15:04:05"),
		)
		b.WriteString(boxStyle.Render(details))
		b.WriteString("\n\n")

		b.WriteString(subtitleStyle.Render("Group Membership"))
		b.WriteString("\n")
		if len(m.groups) > 0 {
			b.WriteString("  " + strings.Join(m.groups, ", "))
		} else {
			b.WriteString(mutedStyle.Render("  (none)"))
		}
		b.WriteString("\n\n")

		b.WriteString(subtitleStyle.Render("User Attributes"))
		b.WriteString("\n")
		names := make([]string, 0, len(m.user.Attributes))
		for name := range m.user.Attributes {
			names = append(names, name)
		}
		sort.Strings(names)
		if len(names) == 0 {
			b.WriteString(mutedStyle.Render("  No attributes"))
		}
		for _, name := range names {
			value := m.user.Attributes[name]
			if name == "sub" {
				value = maskSub(value)
			}
			b.WriteString(fmt.Sprintf("  %s: %s\n", name, value))
		}
		b.WriteString("\n")
	}

	b.WriteString(renderStatus(m.status, m.statusErr))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("e: edit • r: refresh • esc: back"))
	return frameStyle.Render(b.String())
}
