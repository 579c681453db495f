package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/decompiler/il"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const defaultListHeight = 20

type interactiveModel struct {
	err      error
	res      *ilResult
	name     string
	jump     textinput.Model
	selected int
	top      int
	height   int
	jumping  bool
}

func newInteractiveModel(name string, res *ilResult) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "IL_0000"
	ti.Prompt = "go to: "
	ti.Width = 20
	return &interactiveModel{
		name:   name,
		res:    res,
		jump:   ti,
		height: defaultListHeight,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// title, detail pane and help take the rest
		m.height = max(msg.Height-10, 3)
		m.scroll()
		return m, nil

	case tea.KeyMsg:
		if m.jumping {
			return m.updateJump(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.height)
		case "pgdown":
			m.move(m.height)
		case "home":
			m.move(-len(m.res.raw))
		case "end":
			m.move(len(m.res.raw))
		case "g", "/":
			m.jumping = true
			m.err = nil
			return m, m.jump.Focus()
		}
	}
	return m, nil
}

func (m *interactiveModel) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.err = m.jumpTo(m.jump.Value())
		m.closeJump()
		return m, nil
	case "esc":
		m.closeJump()
		return m, nil
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

func (m *interactiveModel) closeJump() {
	m.jumping = false
	m.jump.Blur()
	m.jump.Reset()
}

func (m *interactiveModel) move(delta int) {
	m.selected = min(max(m.selected+delta, 0), max(len(m.res.raw)-1, 0))
	m.scroll()
}

// scroll keeps the selected row inside the visible window.
func (m *interactiveModel) scroll() {
	if m.selected < m.top {
		m.top = m.selected
	}
	if m.selected >= m.top+m.height {
		m.top = m.selected - m.height + 1
	}
}

// jumpTo selects the instruction covering an offset written as IL_xxxx,
// 0x... or bare hex digits.
func (m *interactiveModel) jumpTo(s string) error {
	s = strings.TrimSpace(s)
	digits := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "il_"), "0x")
	off, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return fmt.Errorf("invalid offset %q", s)
	}
	for k, inst := range m.res.raw {
		if int(off) >= inst.Offset && int(off) < inst.End() {
			m.selected = k
			m.scroll()
			return nil
		}
	}
	return fmt.Errorf("no instruction at %s", il.FormatOffset(int(off)))
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("IL Browser"))
	b.WriteString(" ")
	b.WriteString(m.name)
	b.WriteString("\n\n")

	if len(m.res.raw) == 0 {
		b.WriteString("No instructions.\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	end := min(m.top+m.height, len(m.res.raw))
	for k := m.top; k < end; k++ {
		line := m.res.raw[k].String()
		if k == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.detail())

	if m.jumping {
		b.WriteString("\n")
		b.WriteString(m.jump.View())
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	b.WriteString("\n\n")
	if m.jumping {
		b.WriteString(helpStyle.Render("enter go • esc cancel"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ move • g go to offset • q quit"))
	}
	return b.String()
}

// detail describes the selected instruction and the IR nodes built from it.
func (m *interactiveModel) detail() string {
	inst := m.res.raw[m.selected]
	op := inst.OpCode

	var b strings.Builder
	pops, pushes := op.StackEffect()
	fmt.Fprintf(&b, "%s  operand %s  flow %s  pops %d pushes %d  size %d\n",
		opStyle.Render(op.String()), op.OperandKind(), op.Flow(), pops, pushes, inst.Size)

	for _, line := range m.res.Instructions {
		if line.Offset != inst.Offset || line.Pop == nil {
			continue
		}
		fmt.Fprintf(&b, "ir: %s  pop %d push %s", line.Text, *line.Pop, typeStyle.Render(line.Push))
		if line.Peek {
			b.WriteString(" peek")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func runInteractive(name string, res *ilResult) error {
	p := tea.NewProgram(newInteractiveModel(name, res), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
