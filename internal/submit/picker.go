// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package submit

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Pick shows an interactive list of pending records and returns the ones the
// user marked. All records start marked. A nil result means the user aborted.
func Pick(in io.Reader, out io.Writer, pending []Pending) ([]Pending, error) {
	if len(pending) == 0 {
		return nil, nil
	}

	p := tea.NewProgram(newPicker(pending), tea.WithInput(in), tea.WithOutput(out))
	m, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	return m.(picker).chosen(), nil
}

type picker struct {
	items   []Pending
	cursor  int
	marked  []bool
	aborted bool
}

func newPicker(items []Pending) picker {
	marked := make([]bool, len(items))
	for i := range marked {
		marked[i] = true
	}
	return picker{items: items, marked: marked}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case " ":
		marked := append([]bool(nil), m.marked...)
		marked[m.cursor] = !marked[m.cursor]
		m.marked = marked
	case "a":
		marked := make([]bool, len(m.marked))
		all := !m.allMarked()
		for i := range marked {
			marked[i] = all
		}
		m.marked = marked
	case "enter":
		return m, tea.Quit
	}
	return m, nil
}

func (m picker) View() string {
	var sb strings.Builder
	sb.WriteString("Select edits to submit:\n\n")
	for i, p := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		mark := " "
		if m.marked[i] {
			mark = "x"
		}
		fmt.Fprintf(&sb, "%s [%s] %-40s %s\n", cursor, mark, p.Record.Title, filepath.Base(p.Path))
	}
	sb.WriteString("\nSPACE: toggle, A: all/none, ENTER: submit, Q/ESCAPE: quit\n")
	return sb.String()
}

func (m picker) allMarked() bool {
	for _, v := range m.marked {
		if !v {
			return false
		}
	}
	return true
}

func (m picker) chosen() []Pending {
	if m.aborted {
		return nil
	}
	chosen := []Pending{}
	for i, p := range m.items {
		if m.marked[i] {
			chosen = append(chosen, p)
		}
	}
	return chosen
}
