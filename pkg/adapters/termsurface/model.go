package termsurface

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ideamans/go-l10n"

	"github.com/user/reelsort/pkg/ports"
)

// ── styles ───────────────────────────────────────────────────────────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	dimStyle    = lipgloss.NewStyle().Faint(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	keepStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("2")).
			Padding(0, 1)

	trashStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("196")).
			Padding(0, 1)
)

// chromeLines is the number of lines around the picture.
const chromeLines = 5

// seekStep is the fraction moved by the arrow keys.
const seekStep = 0.05

// ── messages ─────────────────────────────────────────────────────────────────

type frameMsg struct{ img image.Image }

type statusMsg struct{ status ports.Status }

type noticeMsg struct{ notice ports.Notice }

type finishMsg struct{ message string }

// ── model ────────────────────────────────────────────────────────────────────

type model struct {
	emit func(ports.Event)
	keys keyMap
	help help.Model

	width  int
	height int

	frame    image.Image
	picture  string
	status   ports.Status
	notice   ports.Notice
	finished string
}

func newModel(emit func(ports.Event)) model {
	return model{
		emit: emit,
		keys: defaultKeyMap(),
		help: help.New(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.redraw()
		return m, nil

	case frameMsg:
		m.frame = msg.img
		m.redraw()
		return m, nil

	case statusMsg:
		if msg.status.File != m.status.File {
			m.notice = ports.Notice{}
		}
		m.status = msg.status
		return m, nil

	case noticeMsg:
		m.notice = msg.notice
		return m, nil

	case finishMsg:
		m.finished = msg.message
		return m, tea.Quit

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.emit(ports.Quit())
	case key.Matches(msg, m.keys.Toggle):
		m.emit(ports.Toggle())
	case key.Matches(msg, m.keys.Keep):
		m.emit(ports.Decide(ports.DecisionKeep))
	case key.Matches(msg, m.keys.Trash):
		m.emit(ports.Decide(ports.DecisionTrash))
	case key.Matches(msg, m.keys.Commit):
		m.emit(ports.Commit())
	case key.Matches(msg, m.keys.Skip):
		m.emit(ports.Skip())
	case key.Matches(msg, m.keys.Back):
		m.emit(ports.SeekTo(m.fraction() - seekStep))
	case key.Matches(msg, m.keys.Forward):
		m.emit(ports.SeekTo(m.fraction() + seekStep))
	case key.Matches(msg, m.keys.Jump):
		digit := int(msg.String()[0] - '0')
		m.emit(ports.SeekTo(float64(digit) / 10))
	case msg.String() == "?":
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m model) fraction() float64 {
	if m.status.Duration <= 0 {
		return 0
	}
	return m.status.Position / m.status.Duration
}

// redraw caches the picture so View stays cheap between frames.
func (m *model) redraw() {
	if m.frame == nil || m.width == 0 {
		m.picture = ""
		return
	}
	cols, rows := cellSize(m.frame, m.width, m.height-chromeLines)
	m.picture = renderHalfBlocks(m.frame, cols, rows)
}

func (m model) View() string {
	if m.finished != "" {
		return ""
	}
	if m.width == 0 {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderTitle())
	if m.picture != "" {
		sections = append(sections, m.picture)
	} else {
		sections = append(sections, dimStyle.Render(l10n.T("Loading…")))
	}
	sections = append(sections, m.renderStatus(), m.renderNotice(), m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) renderTitle() string {
	if m.status.Total == 0 {
		return titleStyle.Render("reelsort")
	}
	label := l10n.F("Video %d of %d", m.status.Index+1, m.status.Total)
	return titleStyle.Render(label) + "  " + m.status.File
}

func (m model) renderStatus() string {
	badge := keepStyle.Render(strings.ToUpper(string(ports.DecisionKeep)))
	if m.status.Decision == ports.DecisionTrash {
		badge = trashStyle.Render(strings.ToUpper(string(ports.DecisionTrash)))
	}

	state := "❚❚"
	if m.status.Playing {
		state = "▶"
	}

	times := fmt.Sprintf("%s / %s", clock(m.status.Position), clock(m.status.Duration))
	if m.status.Duration <= 0 {
		times = clock(m.status.Position)
	}

	used := lipgloss.Width(badge) + lipgloss.Width(state) + lipgloss.Width(times) + 3
	return strings.Join([]string{badge, state, progressBar(m.fraction(), m.width-used), times}, " ")
}

func (m model) renderNotice() string {
	if m.notice.Text == "" {
		return ""
	}
	if m.notice.Error {
		return errStyle.Render(m.notice.Text)
	}
	return noticeStyle.Render(m.notice.Text)
}
