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
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	editPassword = iota
	editEmail
	editPhone
	editEmailVerified
	editPhoneVerified
	editGroup
	editEnabled
	editFieldCount
)

// editModel is the user edit screen. Fields are focused with tab or the
// arrow keys; enter applies the action of the focused field.
type editModel struct {
	app      *app
	username string

	password textinput.Model
	email    textinput.Model
	phone    textinput.Model

	emailVerified bool
	phoneVerified bool
	enabled       bool

	allGroups   []string
	userGroups  []string
	groupCursor int

	focus     int
	status    string
	statusErr bool
}

func newEditModel(a *app, username string) *editModel {
	password := textinput.New()
	password.Placeholder = "Enter new password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 99
	password.Width = 36
	password.Focus()

	email := textinput.New()
	email.Placeholder = "user@example.com"
	email.CharLimit = 128
	email.Width = 36

	phone := textinput.New()
	phone.Placeholder = "+6512345678"
	phone.CharLimit = 20
	phone.Width = 36

	return &editModel{
		app:      a,
		username: username,
		password: password,
		email:    email,
		phone:    phone,
	}
}

func (m *editModel) Init() tea.Cmd {
	m.status = "Loading user..."
	m.statusErr = false
	return tea.Batch(loadUser(m.app, m.username), loadGroups(m.app))
}

func (m *editModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case userLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading user: %v", msg.err)
			m.statusErr = true
			return m, nil
		}
		m.enabled = msg.user.Enabled
		m.email.SetValue(msg.user.Email())
		m.phone.SetValue(msg.user.Phone())
		m.emailVerified = strings.EqualFold(msg.user.Attributes["email_verified"], "true")
		m.phoneVerified = strings.EqualFold(msg.user.Attributes["phone_number_verified"], "true")
		m.userGroups = msg.groups
		m.status = fmt.Sprintf("Loaded user data for: %s", m.username)
		m.statusErr = false
		return m, nil

	case groupsLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading groups: %v", msg.err)
			m.statusErr = true
			return m, nil
		}
		m.allGroups = msg.groups
		if m.groupCursor >= len(m.allGroups) {
			m.groupCursor = 0
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			m.statusErr = true
			return m, nil
		}
		m.status = msg.text
		m.statusErr = false
		if msg.reload {
			return m, tea.Batch(loadUser(m.app, m.username), loadGroups(m.app))
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, popScreen
		case "tab", "down":
			m.setFocus((m.focus + 1) % editFieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + editFieldCount - 1) % editFieldCount)
			return m, nil
		case "left":
			if m.focus == editGroup && m.groupCursor > 0 {
				m.groupCursor--
				return m, nil
			}
		case "right":
			if m.focus == editGroup && m.groupCursor < len(m.allGroups)-1 {
				m.groupCursor++
				return m, nil
			}
		case " ":
			switch m.focus {
			case editEmailVerified:
				m.emailVerified = !m.emailVerified
				return m, nil
			case editPhoneVerified:
				m.phoneVerified = !m.phoneVerified
				return m, nil
			case editEnabled:
				m.enabled = !m.enabled
				return m, nil
			}
		case "x":
			if m.focus == editGroup {
				return m, m.removeFromGroup()
			}
		case "ctrl+r":
			m.status = "Resetting MFA..."
			m.statusErr = false
			return m, m.resetMFA()
		case "enter":
			return m, m.apply()
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case editPassword:
		m.password, cmd = m.password.Update(msg)
	case editEmail:
		m.email, cmd = m.email.Update(msg)
	case editPhone:
		m.phone, cmd = m.phone.Update(msg)
	}
	return m, cmd
}

func (m *editModel) setFocus(focus int) {
	m.focus = focus
	m.password.Blur()
	m.email.Blur()
	m.phone.Blur()
	switch focus {
	case editPassword:
		m.password.Focus()
	case editEmail:
		m.email.Focus()
	case editPhone:
		m.phone.Focus()
	}
}

// apply runs the action of the focused field
func (m *editModel) apply() tea.Cmd {
	switch m.focus {
	case editPassword:
		return m.updatePassword()
	case editEmail, editPhone, editEmailVerified, editPhoneVerified:
		return m.updateAttributes()
	case editGroup:
		return m.addToGroup()
	case editEnabled:
		return m.updateStatus()
	}
	return nil
}

func (m *editModel) updatePassword() tea.Cmd {
	password := strings.TrimSpace(m.password.Value())
	if password == "" {
		m.status = "Error: Password is required"
		m.statusErr = true
		return nil
	}
	a, username := m.app, m.username
	m.password.SetValue("")
	return func() tea.Msg {
		if err := a.svc.SetPassword(a.ctx, username, password, true); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{text: "Password updated successfully"}
	}
}

func (m *editModel) updateAttributes() tea.Cmd {
	email := strings.TrimSpace(m.email.Value())
	phone := strings.TrimSpace(m.phone.Value())

	attrs := make(map[string]string)
	if email != "" {
		attrs["email"] = email
		attrs["email_verified"] = fmt.Sprintf("%t", m.emailVerified)
	}
	if phone != "" {
		attrs["phone_number"] = phone
		attrs["phone_number_verified"] = fmt.Sprintf("%t", m.phoneVerified)
	}
	if len(attrs) == 0 {
		m.status = "Error: No attributes to update"
		m.statusErr = true
		return nil
	}

	a, username := m.app, m.username
	return func() tea.Msg {
		if err := a.svc.UpdateAttributes(a.ctx, username, attrs); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{text: "Attributes updated successfully"}
	}
}

func (m *editModel) updateStatus() tea.Cmd {
	a, username, enabled := m.app, m.username, m.enabled
	return func() tea.Msg {
		if err := a.svc.SetEnabled(a.ctx, username, enabled); err != nil {
			return actionDoneMsg{err: err}
		}
		if enabled {
			return actionDoneMsg{text: "User account enabled"}
		}
		return actionDoneMsg{text: "User account disabled"}
	}
}

func (m *editModel) resetMFA() tea.Cmd {
	a, username := m.app, m.username
	return func() tea.Msg {
		if err := a.svc.ResetMFA(a.ctx, username); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{text: "MFA settings reset successfully"}
	}
}

func (m *editModel) selectedGroup() string {
	if m.groupCursor < 0 || m.groupCursor >= len(m.allGroups) {
		return ""
	}
	return m.allGroups[m.groupCursor]
}

func (m *editModel) addToGroup() tea.Cmd {
	group := m.selectedGroup()
	if group == "" {
		m.status = "Error: Please select a group"
		m.statusErr = true
		return nil
	}
	if slices.Contains(m.userGroups, group) {
		m.status = fmt.Sprintf("User is already in group '%s'", group)
		m.statusErr = true
		return nil
	}
	a, username := m.app, m.username
	return func() tea.Msg {
		if err := a.svc.AddToGroup(a.ctx, username, group); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{text: fmt.Sprintf("Added user to group '%s'", group), reload: true}
	}
}

func (m *editModel) removeFromGroup() tea.Cmd {
	group := m.selectedGroup()
	if group == "" {
		m.status = "Error: Please select a group"
		m.statusErr = true
		return nil
	}
	if !slices.Contains(m.userGroups, group) {
		m.status = fmt.Sprintf("User is not in group '%s'", group)
		m.statusErr = true
		return nil
	}
	a, username := m.app, m.username
	return func() tea.Msg {
		if err := a.svc.RemoveFromGroup(a.ctx, username, group); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{text: fmt.Sprintf("Removed user from group '%s'", group), reload: true}
	}
}

func checkbox(label string, checked, focused bool) string {
	mark := "[ ]"
	if checked {
		mark = "[x]"
	}
	line := mark + " " + label
	if focused {
		return focusedStyle.Render(line)
	}
	return line
}

func (m *editModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Edit User: " + m.username))
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render("Change Password"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("New Password:") + m.password.View())
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render("Update Attributes"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Email:") + m.email.View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Phone:") + m.phone.View())
	b.WriteString("\n")
	b.WriteString(checkbox("Email Verified", m.emailVerified, m.focus == editEmailVerified))
	b.WriteString("   ")
	b.WriteString(checkbox("Phone Verified", m.phoneVerified, m.focus == editPhoneVerified))
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render("Group Membership"))
	b.WriteString("\n")
	current := "(none)"
	if len(m.userGroups) > 0 {
		current = strings.Join(m.userGroups, ", ")
	}
	b.WriteString(labelStyle.Render("Current Groups:") + current)
	b.WriteString("\n")
	group := "(no groups)"
	if selected := m.selectedGroup(); selected != "" {
		group = "< " + selected + " >"
	}
	if m.focus == editGroup {
		group = focusedStyle.Render(group)
	}
	b.WriteString(labelStyle.Render("Group:") + group)
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render("Account Status"))
	b.WriteString("\n")
	b.WriteString(checkbox("Account Enabled", m.enabled, m.focus == editEnabled))
	b.WriteString("\n\n")

	b.WriteString(renderStatus(m.status, m.statusErr))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(
		"tab: next field • space: toggle • enter: apply field • left/right: pick group • x: leave group • ctrl+r: reset MFA • esc: back"))
	return frameStyle.Render(b.String())
}
