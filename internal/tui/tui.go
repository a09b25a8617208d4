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

// Package tui is the interactive terminal interface of the user pool
// manager. It is organized as a stack of screens over a shared operations
// facade; every pool call runs asynchronously as a command and reports back
// through a message.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cogniteo/cognito-user-manager/internal/config"
	"github.com/cogniteo/cognito-user-manager/internal/ops"
)

// app is the state shared by every screen
type app struct {
	ctx context.Context
	svc *ops.Service
	cfg *config.Config
}

// screenModel is one screen on the navigation stack
type screenModel interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screenModel, tea.Cmd)
	View() string
}

// pushScreenMsg puts a new screen on top of the stack
type pushScreenMsg struct {
	screen screenModel
}

// popScreenMsg returns to the previous screen
type popScreenMsg struct{}

func pushScreen(s screenModel) tea.Cmd {
	return func() tea.Msg { return pushScreenMsg{screen: s} }
}

func popScreen() tea.Msg {
	return popScreenMsg{}
}

// Model is the root of the interface: a screen stack plus the terminal size
type Model struct {
	stack  []screenModel
	width  int
	height int
}

// NewModel builds the root model showing the main menu
func NewModel(ctx context.Context, svc *ops.Service, cfg *config.Config) Model {
	a := &app{ctx: ctx, svc: svc, cfg: cfg}
	return Model{stack: []screenModel{newMenuModel(a)}}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.stack[0].Init()
}

// Update implements tea.Model. Navigation and termination are handled here;
// everything else goes to the screen on top of the stack.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case pushScreenMsg:
		m.stack = append(m.stack, msg.screen)
		return m, msg.screen.Init()

	case popScreenMsg:
		if len(m.stack) > 1 {
			m.stack = m.stack[:len(m.stack)-1]
		}
		return m, nil
	}

	top := len(m.stack) - 1
	screen, cmd := m.stack[top].Update(msg)
	m.stack[top] = screen
	return m, cmd
}

// View implements tea.Model
func (m Model) View() string {
	return m.stack[len(m.stack)-1].View()
}

// Run starts the interactive interface and blocks until it exits
func Run(ctx context.Context, svc *ops.Service, cfg *config.Config) error {
	program := tea.NewProgram(
		NewModel(ctx, svc, cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := program.Run()
	return err
}
