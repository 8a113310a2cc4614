package cmd

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func TestInteractiveHideAndReveal(t *testing.T) {
	t.Setenv(passwordEnv, "")
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "pic.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 40, 40))))
	require.NoError(t, f.Close())

	m := initialModel()
	m.path = dir
	m.loadFiles()
	require.Len(t, m.files, 2) // ".." and pic.png

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)

	// Hide: message, then password.
	m, _ = press(t, m, keyRunes("h"))
	assert.Equal(t, enteringMessage, m.mode)
	for _, r := range "tui secret" {
		m, _ = press(t, m, keyRunes(string(r)))
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, enteringPassword, m.mode)
	for _, r := range "pw" {
		m, _ = press(t, m, keyRunes(string(r)))
	}
	assert.NotContains(t, m.View(), "Password: pw")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	status := cmd().(statusMsg)
	require.False(t, status.failed, status.text)
	m, _ = press(t, m, status)
	require.Len(t, m.files, 3)

	// Reveal the new file.
	m.cursor = 0
	for i, file := range m.files {
		if strings.HasSuffix(file.name, "_hidden.png") {
			m.cursor = i
		}
	}
	require.NotZero(t, m.cursor)
	m, _ = press(t, m, keyRunes("r"))
	assert.Equal(t, enteringPassword, m.mode)
	for _, r := range "pw" {
		m, _ = press(t, m, keyRunes(string(r)))
	}
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, browsing, m.mode)
	require.NotNil(t, cmd)
	status = cmd().(statusMsg)
	assert.False(t, status.failed, status.text)
	assert.Equal(t, "Hidden message: tui secret", status.text)

	// Detect.
	_, cmd = press(t, m, keyRunes("d"))
	require.NotNil(t, cmd)
	assert.Contains(t, cmd().(statusMsg).text, "protected")
}

func TestInteractiveHideKeepsExistingOutput(t *testing.T) {
	t.Setenv(passwordEnv, "")
	dir := t.TempDir()
	src := filepath.Join(dir, "pic.png")
	f, err := os.Create(src)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 40, 40))))
	require.NoError(t, f.Close())

	status := hideFile(src, "one", "")().(statusMsg)
	require.False(t, status.failed, status.text)

	dest := filepath.Join(dir, "pic_hidden.png")
	before, err := os.ReadFile(dest)
	require.NoError(t, err)

	status = hideFile(src, "two", "")().(statusMsg)
	assert.True(t, status.failed)
	assert.Contains(t, status.text, "already exists")

	after, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	status = revealFile(dest, "")().(statusMsg)
	assert.Equal(t, "Hidden message: one", status.text)
}

func TestInteractiveEscapeAndQuit(t *testing.T) {
	m := initialModel()
	m.path = t.TempDir()
	m.loadFiles()

	// Only ".." is listed; hide needs an image.
	m, _ = press(t, m, keyRunes("h"))
	assert.True(t, m.failed)
	assert.Equal(t, browsing, m.mode)

	m, cmd := press(t, m, keyRunes("q"))
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, "Bye!\n", m.View())
}
