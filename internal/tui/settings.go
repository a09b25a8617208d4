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

	tea "github.com/charmbracelet/bubbletea"
)

// settingsModel shows the active configuration. Values are read-only; the
// configuration comes from the environment or the .env file.
type settingsModel struct {
	app *app
}

func newSettingsModel(a *app) *settingsModel {
	return &settingsModel{app: a}
}

func (m *settingsModel) Init() tea.Cmd {
	return nil
}

func (m *settingsModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return m, popScreen
	}
	return m, nil
}

func (m *settingsModel) View() string {
	cfg := m.app.cfg

	excluded := "None"
	if len(cfg.ExcludedUsers) > 0 {
		excluded = strings.Join(cfg.ExcludedUsers, ", ")
	}
	accessKey := cfg.MaskedAccessKeyID()
	if accessKey == "" {
		accessKey = "Not set"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("Current Configuration"))
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(fmt.Sprintf(
		"AWS Region: %s\nAWS Access Key ID: %s\nUser Pool ID: %s\nExcluded Users: %s",
		cfg.Region, accessKey, cfg.UserPoolID, excluded,
	)))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("Settings are read from environment variables or the .env file."))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Restart the application after modifying .env"))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("esc: back"))
	return frameStyle.Render(b.String())
}
