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
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	menuCreate = iota
	menuUsers
	menuSettings
	menuQuit
)

var menuEntries = []string{
	"Create Users",
	"Manage Users",
	"Settings",
	"Quit",
}

// menuModel is the main menu screen
type menuModel struct {
	app    *app
	cursor int
}

func newMenuModel(a *app) *menuModel {
	return &menuModel{app: a}
}

func (m *menuModel) Init() tea.Cmd {
	return nil
}

func (m *menuModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menuEntries)-1 {
			m.cursor++
		}
	case "q":
		return m, tea.Quit
	case "enter":
		switch m.cursor {
		case menuCreate:
			return m, pushScreen(newCreateModel(m.app))
		case menuUsers:
			return m, pushScreen(newUsersModel(m.app))
		case menuSettings:
			return m, pushScreen(newSettingsModel(m.app))
		case menuQuit:
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *menuModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("AWS Cognito User Manager"))
	b.WriteString("\n\n")

	for i, entry := range menuEntries {
		if i == m.cursor {
			b.WriteString(menuSelectedStyle.Render("> " + entry))
		} else {
			b.WriteString(menuItemStyle.Render("  " + entry))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("up/down: move • enter: select • q: quit"))
	return frameStyle.Render(b.String())
}
