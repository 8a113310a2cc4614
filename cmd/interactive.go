package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Beastly713/whisper/pkg/pipeline"
	"github.com/Beastly713/whisper/pkg/stego"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// Styles
var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	cursorStyle  = focusedStyle
	checkedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")) // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	docStyle     = lipgloss.NewStyle().Margin(1, 2)
)

const browseHelp = "Navigate: ↑/↓ | Enter: Open Dir | h: Hide | r: Reveal | d: Detect | q: Quit"

var imageExts = map[string]bool{".png": true, ".bmp": true, ".jpg": true, ".jpeg": true, ".gif": true}

type fileItem struct {
	path  string
	name  string
	isDir bool
}

type mode int

const (
	browsing mode = iota
	enteringMessage
	enteringPassword
)

type action int

const (
	hideAction action = iota
	revealAction
)

type model struct {
	path     string
	files    []fileItem
	cursor   int
	status   string
	failed   bool
	mode     mode
	action   action
	target   string
	message  textinput.Model
	password textinput.Model
	quitting bool
}

func initialModel() model {
	cwd, _ := os.Getwd()

	msg := textinput.New()
	msg.Placeholder = "message to hide"
	msg.Prompt = "Message: "

	pw := textinput.New()
	pw.Placeholder = "leave empty for none"
	pw.Prompt = "Password: "
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'

	m := model{
		path:     cwd,
		status:   browseHelp,
		message:  msg,
		password: pw,
	}
	m.loadFiles()
	return m
}

func (m *model) loadFiles() {
	entries, err := os.ReadDir(m.path)
	if err != nil {
		m.status = "Error reading directory"
		m.failed = true
		return
	}

	m.files = []fileItem{}
	// Parent directory
	m.files = append(m.files, fileItem{name: "..", isDir: true, path: filepath.Dir(m.path)})

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || imageExts[strings.ToLower(filepath.Ext(name))] {
			m.files = append(m.files, fileItem{
				name:  name,
				isDir: e.IsDir(),
				path:  filepath.Join(m.path, name),
			})
		}
	}
	m.cursor = 0
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.mode != browsing {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)

	case statusMsg:
		m.status = msg.text
		m.failed = msg.failed
		m.loadFiles()
		return m, nil
	}

	return m, nil
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.files)-1 {
			m.cursor++
		}

	case "enter":
		selected := m.files[m.cursor]
		if selected.isDir {
			m.path = selected.path
			m.loadFiles()
		}

	case "h", "r":
		selected := m.files[m.cursor]
		if selected.isDir {
			m.status = "Select an image first"
			m.failed = true
			return m, nil
		}
		m.target = selected.path
		m.message.SetValue("")
		m.password.SetValue("")
		if msg.String() == "h" {
			m.action = hideAction
			m.mode = enteringMessage
			m.status = "Enter: Next | Esc: Cancel"
			return m, m.message.Focus()
		}
		m.action = revealAction
		m.mode = enteringPassword
		m.status = "Enter: Reveal | Esc: Cancel"
		return m, m.password.Focus()

	case "d":
		selected := m.files[m.cursor]
		if !selected.isDir {
			return m, detectFile(selected.path)
		}
	}
	return m, nil
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = browsing
		m.message.Blur()
		m.password.Blur()
		m.status = browseHelp
		m.failed = false
		return m, nil

	case "enter":
		if m.mode == enteringMessage {
			m.message.Blur()
			m.mode = enteringPassword
			m.status = "Enter: Hide | Esc: Cancel"
			return m, m.password.Focus()
		}
		m.password.Blur()
		m.mode = browsing
		m.status = "Working..."
		if m.action == hideAction {
			return m, hideFile(m.target, m.message.Value(), m.password.Value())
		}
		return m, revealFile(m.target, m.password.Value())
	}

	var cmd tea.Cmd
	if m.mode == enteringMessage {
		m.message, cmd = m.message.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

type statusMsg struct {
	text   string
	failed bool
}

func errStatus(err error) statusMsg {
	return statusMsg{text: fmt.Sprintf("Error: %v", err), failed: true}
}

func hideFile(path, text, pw string) tea.Cmd {
	return func() tea.Msg {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		dest := filepath.Join(filepath.Dir(path), base+"_hidden.png")
		if _, err := os.Stat(dest); err == nil {
			return errStatus(fmt.Errorf("%s already exists", filepath.Base(dest)))
		}

		if _, err := writeHidden(path, dest, text, baseConfig(pw)); err != nil {
			return errStatus(err)
		}
		return statusMsg{text: "Success! Message hidden in " + filepath.Base(dest)}
	}
}

func revealFile(path, pw string) tea.Cmd {
	return func() tea.Msg {
		in, err := os.Open(path)
		if err != nil {
			return errStatus(err)
		}
		defer in.Close()

		text, err := pipeline.RevealPipeline(in, baseConfig(pw))
		if err != nil {
			return errStatus(err)
		}
		return statusMsg{text: "Hidden message: " + text}
	}
}

func detectFile(path string) tea.Cmd {
	return func() tea.Msg {
		a, err := analyzeFile(path)
		if err != nil {
			return errStatus(err)
		}
		verdict := stego.Plain
		if a.Protected {
			verdict = stego.Protected
		}
		return statusMsg{text: fmt.Sprintf("%s looks %s (tri-level %.2f)", filepath.Base(path), verdict, a.TriLevelFraction)}
	}
}

func (m model) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	s := fmt.Sprintf("Directory: %s\n\n", m.path)

	for i, file := range m.files {
		cursor := " " // no cursor
		if m.cursor == i {
			cursor = ">"
			s += cursorStyle.Render(cursor)
		} else {
			s += cursor
		}

		line := ""
		if file.isDir {
			line = fmt.Sprintf("[DIR] %s", file.name)
		} else {
			line = fmt.Sprintf("      %s", file.name)
		}

		if !file.isDir && file.path == m.target && m.mode != browsing {
			line = checkedStyle.Render(line)
		}

		s += " " + line + "\n"
	}

	switch m.mode {
	case enteringMessage:
		s += "\n" + m.message.View() + "\n"
	case enteringPassword:
		if m.action == hideAction {
			s += "\n" + m.message.Prompt + m.message.Value() + "\n"
		}
		s += m.password.View() + "\n"
	}

	status := m.status
	if m.failed {
		status = errorStyle.Render(status)
	}
	s += fmt.Sprintf("\n%s\n", status)
	return docStyle.Render(s)
}

// Cobra command setup
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Interactive terminal UI for hiding and revealing messages",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tea.NewProgram(initialModel())
		if _, err := p.Run(); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
