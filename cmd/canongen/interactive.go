package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/canon-abi/abi"
	"github.com/wippyai/canon-abi/bindgen"
	"github.com/wippyai/canon-abi/layout"
)

const listWidth = 36

type interactiveModel struct {
	err      error
	bindings []*bindgen.Binding
	filter   textinput.Model
	code     viewport.Model
	cfg      config
	visible  []int
	selected int
	state    modelState
	listing  bool
	ready    bool
}

type modelState int

const (
	stateBrowse modelState = iota
	stateFilter
)

type loadedMsg struct {
	err      error
	bindings []*bindgen.Binding
}

func newInteractiveModel(cfg config) *interactiveModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter functions"
	ti.Width = listWidth - 4
	return &interactiveModel{
		cfg:    cfg,
		filter: ti,
		state:  stateBrowse,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.load
}

func (m *interactiveModel) load() tea.Msg {
	bindings, err := load(m.cfg)
	return loadedMsg{bindings: bindings, err: err}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := msg.Width-listWidth-2, msg.Height-4
		if !m.ready {
			m.code = viewport.New(w, h)
			m.ready = true
		} else {
			m.code.Width, m.code.Height = w, h
		}
		m.refresh()

	case loadedMsg:
		m.err = msg.err
		m.bindings = msg.bindings
		m.applyFilter()

	case tea.KeyMsg:
		if m.state == stateFilter {
			switch msg.String() {
			case "enter", "esc":
				m.state = stateBrowse
				m.filter.Blur()
				return m, nil
			}
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.refresh()
			}

		case "down", "j":
			if m.selected < len(m.visible)-1 {
				m.selected++
				m.refresh()
			}

		case "/":
			m.state = stateFilter
			return m, m.filter.Focus()

		case "tab":
			m.listing = !m.listing
			m.refresh()

		case "d":
			if m.cfg.dir == "import" {
				m.cfg.dir = "export"
			} else {
				m.cfg.dir = "import"
			}
			return m, m.load

		case "t":
			m.cfg.trusted = !m.cfg.trusted
			return m, m.load

		default:
			m.code, cmd = m.code.Update(msg)
			return m, cmd
		}

	case tea.MouseMsg:
		m.code, cmd = m.code.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) applyFilter() {
	q := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, b := range m.bindings {
		if q == "" || strings.Contains(strings.ToLower(b.Target.Name), q) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
	m.refresh()
}

// refresh loads the selected binding into the viewport.
func (m *interactiveModel) refresh() {
	if !m.ready {
		return
	}
	b := m.current()
	if b == nil {
		m.code.SetContent("")
		return
	}
	content := b.Listing()
	if !m.listing {
		src, err := b.Source()
		if err != nil {
			src = errorStyle.Render(err.Error())
		}
		content = src
	}
	m.code.SetContent(content)
	m.code.GotoTop()
}

func (m *interactiveModel) current() *bindgen.Binding {
	if m.selected < len(m.visible) {
		return m.bindings[m.visible[m.selected]]
	}
	return nil
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.ready || m.bindings == nil {
		return "Loading bindings..."
	}

	var b strings.Builder
	mode := "strict"
	if m.cfg.trusted {
		mode = "trusted"
	}
	b.WriteString(titleStyle.Render("Canonical ABI bindings"))
	b.WriteString(" ")
	b.WriteString(typeStyle.Render(m.cfg.dir + " · " + mode))
	b.WriteString("\n\n")

	var list strings.Builder
	list.WriteString(m.filter.View())
	list.WriteString("\n\n")
	for i, idx := range m.visible {
		line := formatFunc(m.bindings[idx].Target)
		if i == m.selected {
			list.WriteString(selectedStyle.Render("> " + line))
		} else {
			list.WriteString("  " + line)
		}
		list.WriteString("\n")
	}

	left := lipgloss.NewStyle().Width(listWidth).Render(list.String())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.code.View()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • / filter • tab code/instructions • d direction • t trusted • q quit"))
	return b.String()
}

func formatFunc(f *abi.Func) string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Name + ": " + typeStyle.Render(layout.String(p.Type))
	}
	result := ""
	if len(f.Results) > 0 {
		results := make([]string, len(f.Results))
		for i, r := range f.Results {
			results[i] = layout.String(r)
		}
		result = " -> " + typeStyle.Render(strings.Join(results, ", "))
	}
	return funcStyle.Render(f.Name) + "(" + strings.Join(params, ", ") + ")" + result
}

func runInteractive(cfg config) error {
	p := tea.NewProgram(newInteractiveModel(cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
