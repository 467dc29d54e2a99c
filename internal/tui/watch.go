// Package tui renders a live view of the daemon's cursor readings.
package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/cursorsense/internal/ipc"
)

const historySize = 10

// Daemon is the subset of the IPC client the view polls.
type Daemon interface {
	GetCursor() (*ipc.CursorInfo, error)
	GetStatus() (*ipc.StatusData, error)
	HideCursor() (*ipc.VisibilityData, error)
	ShowCursor() (*ipc.VisibilityData, error)
	DockOverride() (*ipc.VisibilityData, error)
}

type keyMap struct {
	Hide key.Binding
	Show key.Binding
	Dock key.Binding
	Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Hide, k.Show, k.Dock, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeys = keyMap{
	Hide: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hide")),
	Show: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "show")),
	Dock: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dock override")),
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q/ctrl+c", "quit")),
}

type tickMsg time.Time

type pollMsg struct {
	cursor *ipc.CursorInfo
	status *ipc.StatusData
	err    error
}

type actionMsg struct {
	name string
	data *ipc.VisibilityData
	err  error
}

type historyEntry struct {
	at       time.Time
	category string
}

// model is the bubbletea model for the watch view.
type model struct {
	daemon   Daemon
	interval time.Duration
	now      func() time.Time
	keys     keyMap
	help     help.Model

	connected bool
	lastErr   string
	cursor    *ipc.CursorInfo
	status    *ipc.StatusData
	history   []historyEntry
	notice    string

	width  int
	height int
}

func newModel(d Daemon, interval time.Duration) model {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return model{
		daemon:   d,
		interval: interval,
		now:      time.Now,
		keys:     defaultKeys,
		help:     help.New(),
	}
}

// Run starts the watch view on the terminal.
func Run(d Daemon, interval time.Duration) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("watch requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	_, err := tea.NewProgram(newModel(d, interval), tea.WithAltScreen()).Run()
	return err
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) poll() tea.Cmd {
	d := m.daemon
	return func() tea.Msg {
		cursor, err := d.GetCursor()
		if err != nil {
			return pollMsg{err: err}
		}
		status, err := d.GetStatus()
		return pollMsg{cursor: cursor, status: status, err: err}
	}
}

func (m model) action(name string, call func() (*ipc.VisibilityData, error)) tea.Cmd {
	return func() tea.Msg {
		data, err := call()
		return actionMsg{name: name, data: data, err: err}
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.poll(), m.tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Hide):
			return m, m.action("hide", m.daemon.HideCursor)
		case key.Matches(msg, m.keys.Show):
			return m, m.action("show", m.daemon.ShowCursor)
		case key.Matches(msg, m.keys.Dock):
			return m, m.action("dock override", m.daemon.DockOverride)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		return m, tea.Batch(m.poll(), m.tick())

	case pollMsg:
		m.applyPoll(msg)

	case actionMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("%s failed: %v", msg.name, msg.err)
		} else {
			m.notice = msg.name + " sent"
			if m.status != nil && msg.data != nil && msg.data.State != nil {
				st := *msg.data.State
				m.status.Visibility = &st
			}
		}
	}
	return m, nil
}

func (m *model) applyPoll(msg pollMsg) {
	if msg.err != nil {
		m.connected = false
		m.lastErr = msg.err.Error()
		return
	}
	m.connected = true
	m.lastErr = ""
	m.status = msg.status
	if msg.cursor == nil {
		return
	}
	if m.cursor == nil || m.cursor.Category != msg.cursor.Category {
		m.history = append([]historyEntry{{at: m.now(), category: msg.cursor.Category}}, m.history...)
		if len(m.history) > historySize {
			m.history = m.history[:historySize]
		}
	}
	m.cursor = msg.cursor
}

// View implements tea.Model.
func (m model) View() string {
	width := m.width
	if width <= 0 {
		width = 60
	}

	sections := []string{renderStatusBar(m.connected, m.status, width)}
	if !m.connected {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		msg := "waiting for daemon"
		if m.lastErr != "" {
			msg = m.lastErr
		}
		sections = append(sections, errStyle.Render(msg))
	} else {
		sections = append(sections, renderCursor(m.cursor), renderHistory(m.history))
	}
	if m.notice != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Render(m.notice))
	}
	sections = append(sections, renderHelpBar(m.help.View(m.keys), width))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderStatusBar(connected bool, status *ipc.StatusData, width int) string {
	var text string
	if connected {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{dot + " daemon connected"}
		if status != nil {
			parts = append(parts, fmt.Sprintf("up:%ds", status.UptimeSeconds))
			if v := status.Visibility; v != nil {
				parts = append(parts, "hidden:"+yesNo(v.Hidden), "dock-override:"+yesNo(v.DockOverride))
			}
		}
		text = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		text = dot + " daemon not running"
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(text)
}

func renderCursor(info *ipc.CursorInfo) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 2)
	if info == nil {
		return box.Render("no reading yet")
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render(info.Category)
	lines := []string{title, fmt.Sprintf("%dx%d", info.Width, info.Height)}
	if info.Fingerprint != "" {
		lines = append(lines, "dhash "+info.Fingerprint)
	}
	if info.Error != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(info.Error))
	}
	return box.Render(strings.Join(lines, "\n"))
}

func renderHistory(history []historyEntry) string {
	if len(history) == 0 {
		return ""
	}
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	lines := make([]string, 0, len(history))
	for _, h := range history {
		lines = append(lines, dim.Render(h.at.Format("15:04:05"))+" "+h.category)
	}
	return strings.Join(lines, "\n")
}

func renderHelpBar(help string, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Padding(0, 1)
	return style.Render(help)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
