package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/wippyai/witgen/bindgen"
	"github.com/wippyai/witgen/internal/config"
	"github.com/wippyai/witgen/internal/driver"
	"github.com/wippyai/witgen/ir"
)

var browseCmd = &cobra.Command{
	Use:   "browse <wit-path>",
	Short: "Pick a world interactively and preview its bindings",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
			return errors.WithHint(errors.New("browse needs an interactive terminal"), "use witgen worlds to list worlds")
		}
		_, err := tea.NewProgram(newBrowseModel(args[0]), tea.WithAltScreen()).Run()
		return err
	},
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	worldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD166"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browseState int

const (
	stateSelectWorld browseState = iota
	stateFilter
	stateShowSource
)

// genMode cycles through the generator modes in the preview.
type genMode int

const (
	modeAll genMode = iota
	modeImports
	modeExports
)

func (m genMode) String() string {
	switch m {
	case modeImports:
		return "imports only"
	case modeExports:
		return "exports only"
	default:
		return "imports and exports"
	}
}

func (m genMode) options() bindgen.Options {
	return bindgen.Options{ImportsOnly: m == modeImports, ExportsOnly: m == modeExports}
}

type browseModel struct {
	err      error
	res      *ir.Resolve
	result   *bindgen.Result
	path     string
	worlds   []worldInfo
	visible  []int
	filter   textinput.Model
	source   viewport.Model
	selected int
	width    int
	height   int
	mode     genMode
	state    browseState
}

type loadedMsg struct {
	err error
	res *ir.Resolve
}

type generatedMsg struct {
	err    error
	result *bindgen.Result
}

func newBrowseModel(path string) *browseModel {
	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "filter worlds"
	filter.Width = 40

	return &browseModel{
		path:   path,
		filter: filter,
		source: viewport.New(80, 20),
		state:  stateSelectWorld,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.load
}

func (m *browseModel) load() tea.Msg {
	res, err := driver.LoadIR(&config.Target{WIT: m.path})
	return loadedMsg{res: res, err: err}
}

// generate runs the generator for the selected world in the current mode.
func (m *browseModel) generate() tea.Cmd {
	res, id, mode := m.res, ir.WorldID(m.visible[m.selected]), m.mode
	return func() tea.Msg {
		out, err := bindgen.Generate(res, id, mode.options())
		return generatedMsg{result: out, err: err}
	}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.source.Width = msg.Width
		m.source.Height = max(msg.Height-6, 3)
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.res = msg.res
		m.worlds = describeWorlds(msg.res)
		m.applyFilter()
		return m, nil

	case generatedMsg:
		m.err = msg.err
		m.result = msg.result
		m.source.SetContent(m.preview())
		m.source.GotoTop()
		m.state = stateShowSource
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case stateFilter:
			return m.updateFilter(msg)
		case stateShowSource:
			return m.updateSource(msg)
		default:
			return m.updateSelect(msg)
		}
	}
	return m, nil
}

func (m *browseModel) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
	case "/":
		m.state = stateFilter
		return m, m.filter.Focus()
	case "m":
		m.mode = (m.mode + 1) % 3
	case "enter":
		if len(m.visible) > 0 {
			return m, m.generate()
		}
	}
	return m, nil
}

func (m *browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		if msg.String() == "esc" {
			m.filter.SetValue("")
			m.applyFilter()
		}
		m.filter.Blur()
		m.state = stateSelectWorld
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *browseModel) updateSource(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.state = stateSelectWorld
		m.result = nil
		m.err = nil
		return m, nil
	case "m":
		m.mode = (m.mode + 1) % 3
		return m, m.generate()
	}
	var cmd tea.Cmd
	m.source, cmd = m.source.Update(msg)
	return m, cmd
}

func (m *browseModel) applyFilter() {
	needle := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, w := range m.worlds {
		if strings.Contains(strings.ToLower(w.Name), needle) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

// preview renders diagnostics followed by the generated source.
func (m *browseModel) preview() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}
	var b strings.Builder
	for _, d := range m.result.Diagnostics {
		style := warnStyle
		if d.Severity == bindgen.SeverityError {
			style = errorStyle
		}
		b.WriteString(style.Render(d.String()))
		b.WriteString("\n")
	}
	if len(m.result.Diagnostics) > 0 {
		b.WriteString("\n")
	}
	b.Write(m.result.Source)
	return b.String()
}

func (m *browseModel) View() string {
	if m.res == nil && m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress ctrl+c to quit.", m.err))
	}
	if m.res == nil {
		return "Loading " + m.path + "..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("witgen"))
	b.WriteString(" ")
	b.WriteString(m.path)
	b.WriteString(" ")
	b.WriteString(helpStyle.Render("[" + m.mode.String() + "]"))
	b.WriteString("\n\n")

	switch m.state {
	case stateShowSource:
		b.WriteString(worldStyle.Render(m.worlds[m.visible[m.selected]].Name))
		b.WriteString("\n")
		b.WriteString(m.source.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("%3.f%% • ↑/↓ scroll • m mode • esc back • q quit", m.source.ScrollPercent()*100)))

	default:
		if len(m.worlds) == 0 {
			b.WriteString("No worlds found.\n\n")
			b.WriteString(helpStyle.Render("q quit"))
			break
		}
		b.WriteString("Select a world to generate:\n\n")
		for i, idx := range m.visible {
			line := m.formatWorld(m.worlds[idx])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("↑/↓ select • enter generate • / filter • m mode • q quit"))
	}
	return b.String()
}

func (m *browseModel) formatWorld(w worldInfo) string {
	counts := fmt.Sprintf("%d imports, %d exports", len(w.Imports), len(w.Exports))
	return worldStyle.Render(w.Name) + " " + countStyle.Render(counts)
}
