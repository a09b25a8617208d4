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
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cogniteo/cognito-user-manager/internal/ops"
)

const (
	createEmail = iota
	createPassword
	createPhone
	createGroup
	createCount
	createBulkGroup
	createFieldCount
)

// createModel is the user creation screen: a single-user form on top and
// the bulk test-user form below it.
type createModel struct {
	app *app

	email    textinput.Model
	password textinput.Model
	phone    textinput.Model
	count    textinput.Model

	allGroups       []string
	groupCursor     int
	bulkGroupCursor int

	focus     int
	status    string
	statusErr bool
}

func newCreateModel(a *app) *createModel {
	email := textinput.New()
	email.Placeholder = "user@example.com"
	email.CharLimit = 128
	email.Width = 36
	email.Focus()

	password := textinput.New()
	password.Placeholder = ops.DefaultPassword
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 99
	password.Width = 36

	phone := textinput.New()
	phone.Placeholder = ops.DefaultPhone
	phone.CharLimit = 20
	phone.Width = 36

	count := textinput.New()
	count.Placeholder = "10"
	count.CharLimit = 5
	count.Width = 36

	return &createModel{
		app:             a,
		email:           email,
		password:        password,
		phone:           phone,
		count:           count,
		groupCursor:     -1,
		bulkGroupCursor: -1,
	}
}

func (m *createModel) Init() tea.Cmd {
	return loadGroups(m.app)
}

func (m *createModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case groupsLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading groups: %v", msg.err)
			m.statusErr = true
			return m, nil
		}
		m.allGroups = msg.groups
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			m.statusErr = true
			return m, nil
		}
		m.status = msg.text
		m.statusErr = false
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, popScreen
		case "tab", "down":
			m.setFocus((m.focus + 1) % createFieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + createFieldCount - 1) % createFieldCount)
			return m, nil
		case "left":
			if cursor := m.cursorFor(m.focus); cursor != nil && *cursor >= 0 {
				*cursor--
				return m, nil
			}
		case "right":
			if cursor := m.cursorFor(m.focus); cursor != nil && *cursor < len(m.allGroups)-1 {
				*cursor++
				return m, nil
			}
		case "enter":
			if m.focus <= createGroup {
				return m, m.createSingle()
			}
			return m, m.createBulk()
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case createEmail:
		m.email, cmd = m.email.Update(msg)
	case createPassword:
		m.password, cmd = m.password.Update(msg)
	case createPhone:
		m.phone, cmd = m.phone.Update(msg)
	case createCount:
		m.count, cmd = m.count.Update(msg)
	}
	return m, cmd
}

// cursorFor returns the group cursor belonging to the focused field.
// A cursor of -1 means no group picked.
func (m *createModel) cursorFor(focus int) *int {
	switch focus {
	case createGroup:
		return &m.groupCursor
	case createBulkGroup:
		return &m.bulkGroupCursor
	}
	return nil
}

func (m *createModel) setFocus(focus int) {
	m.focus = focus
	m.email.Blur()
	m.password.Blur()
	m.phone.Blur()
	m.count.Blur()
	switch focus {
	case createEmail:
		m.email.Focus()
	case createPassword:
		m.password.Focus()
	case createPhone:
		m.phone.Focus()
	case createCount:
		m.count.Focus()
	}
}

func (m *createModel) groupAt(cursor int) string {
	if cursor < 0 || cursor >= len(m.allGroups) {
		return ""
	}
	return m.allGroups[cursor]
}

func (m *createModel) createSingle() tea.Cmd {
	email := strings.TrimSpace(m.email.Value())
	if email == "" {
		m.status = "Error: Email is required"
		m.statusErr = true
		return nil
	}
	password := strings.TrimSpace(m.password.Value())
	phone := strings.TrimSpace(m.phone.Value())
	group := m.groupAt(m.groupCursor)

	m.status = fmt.Sprintf("Creating user %s...", email)
	m.statusErr = false
	m.email.SetValue("")
	m.password.SetValue("")
	m.phone.SetValue("")
	m.groupCursor = -1

	a := m.app
	return func() tea.Msg {
		user, err := a.svc.CreateUser(a.ctx, email, password, phone)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if group == "" {
			return actionDoneMsg{text: fmt.Sprintf("Successfully created user: %s", user.Username)}
		}
		if err := a.svc.AddToGroup(a.ctx, user.Username, group); err != nil {
			return actionDoneMsg{
				text: fmt.Sprintf("Created user %s (group error: %v)", user.Username, err),
			}
		}
		return actionDoneMsg{
			text: fmt.Sprintf("Successfully created user: %s and added to group '%s'", user.Username, group),
		}
	}
}

func (m *createModel) createBulk() tea.Cmd {
	countValue := strings.TrimSpace(m.count.Value())
	if countValue == "" {
		m.status = "Error: Number of users is required"
		m.statusErr = true
		return nil
	}
	count, err := strconv.Atoi(countValue)
	if err != nil || count < 1 {
		m.status = "Error: Please enter a valid positive number"
		m.statusErr = true
		return nil
	}
	group := m.groupAt(m.bulkGroupCursor)

	m.status = fmt.Sprintf("Creating %d test users...", count)
	m.statusErr = false
	m.count.SetValue("")
	m.bulkGroupCursor = -1

	a := m.app
	return func() tea.Msg {
		outcomes := a.svc.CreateTestUsers(a.ctx, count, "")

		groupAdded := 0
		if group != "" {
			for _, o := range outcomes {
				if o.Failed() {
					continue
				}
				if err := a.svc.AddToGroup(a.ctx, o.Username, group); err == nil {
					groupAdded++
				}
			}
		}

		summary := ops.Summarize(outcomes)
		text := fmt.Sprintf("Created: %d, Failed: %d", summary.Succeeded, summary.Failed)
		if group != "" {
			text += fmt.Sprintf(", Added to group: %d", groupAdded)
		}
		return actionDoneMsg{text: text}
	}
}

func (m *createModel) groupView(cursor int, focused bool) string {
	view := "(none)"
	if group := m.groupAt(cursor); group != "" {
		view = "< " + group + " >"
	}
	if focused {
		return focusedStyle.Render(view)
	}
	return view
}

func (m *createModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create User"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Email:") + m.email.View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Password:") + m.password.View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Phone:") + m.phone.View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Group:") + m.groupView(m.groupCursor, m.focus == createGroup))
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render("Bulk Create Test Users"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Number of users:") + m.count.View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Group:") + m.groupView(m.bulkGroupCursor, m.focus == createBulkGroup))
	b.WriteString("\n\n")

	b.WriteString(renderStatus(m.status, m.statusErr))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(
		"tab: next field • left/right: pick group • enter: create • esc: back"))
	return frameStyle.Render(b.String())
}
