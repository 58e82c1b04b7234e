// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Thermoquad/e2ecan/pkg/e2e"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Event log entry
type eventLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// TUI model
type model struct {
	connInfo      string
	variant       e2e.ChecksumVariant
	showAll       bool
	stats         *e2e.Statistics
	frames        table.Model
	rows          []table.Row
	maxRows       int
	eventLog      []eventLogEntry
	maxLogEntries int
	indicator     e2e.Indicator
	hasIndicator  bool
	state         e2e.ReceiverState
	linkErr       error
	width         int
	height        int
	quitting      bool
}

// Messages
type tickMsg time.Time
type frameEventMsg e2e.FrameEvent
type linkErrMsg struct {
	err error
}

var frameColumns = []table.Column{
	{Title: "Time", Width: 12},
	{Title: "ID", Width: 5},
	{Title: "Ctr", Width: 4},
	{Title: "Payload", Width: 16},
	{Title: "Chk", Width: 4},
	{Title: "Outcome", Width: 17},
	{Title: "Valid", Width: 5},
	{Title: "LED", Width: 5},
}

func initialModel(connInfo string, variant e2e.ChecksumVariant, showAll bool) model {
	t := table.New(
		table.WithColumns(frameColumns),
		table.WithFocused(false),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = lipgloss.NewStyle()
	t.SetStyles(styles)

	return model{
		connInfo:      connInfo,
		variant:       variant,
		showAll:       showAll,
		stats:         e2e.NewStatistics(),
		frames:        t,
		maxRows:       100,
		eventLog:      make([]eventLogEntry, 0),
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.frames.SetHeight(m.tableHeight())

	case tickMsg:
		m.stats.CalculateRates()
		return m, tickCmd()

	case linkErrMsg:
		m.linkErr = msg.err
		m.addLogEntry(fmt.Sprintf("LINK: %v", msg.err), true)

	case frameEventMsg:
		m.handleFrameEvent(e2e.FrameEvent(msg))
	}

	return m, nil
}

func (m *model) handleFrameEvent(ev e2e.FrameEvent) {
	m.stats.Update(ev)
	m.state = ev.State

	if ev.Err != nil {
		m.addLogEntry(fmt.Sprintf("DECODE ERROR id=0x%03X [%s]: %v", ev.ID, e2e.FormatHex(ev.Data), ev.Err), true)
		return
	}

	m.indicator = ev.Indicator
	m.hasIndicator = true
	m.addRow(ev)

	res := ev.Result
	switch res.Outcome {
	case e2e.OutcomeSequenceMismatch:
		m.addLogEntry(fmt.Sprintf("SEQUENCE MISMATCH: ctr=%d expected=%d", res.Frame.Counter, res.Expected), true)
	case e2e.OutcomeChecksumMismatch:
		m.addLogEntry(fmt.Sprintf("CHECKSUM MISMATCH: ctr=%d chk=0x%02X computed=0x%02X",
			res.Frame.Counter, res.Frame.Checksum, res.Computed), true)
	default:
		if m.showAll {
			m.addLogEntry(fmt.Sprintf("ACCEPTED: ctr=%d payload=%s", res.Frame.Counter, e2e.FormatPayload(res.Frame.Payload)), false)
		}
	}
}

func (m *model) addRow(ev e2e.FrameEvent) {
	f := ev.Result.Frame
	row := table.Row{
		ev.Time.Format("15:04:05.000"),
		fmt.Sprintf("0x%03X", ev.ID),
		fmt.Sprintf("%d", f.Counter),
		e2e.FormatPayload(f.Payload),
		fmt.Sprintf("0x%02X", f.Checksum),
		ev.Result.Outcome.String(),
		fmt.Sprintf("%d", ev.State.ValidCount),
		ev.Indicator.String(),
	}

	// Newest first
	m.rows = append([]table.Row{row}, m.rows...)
	if len(m.rows) > m.maxRows {
		m.rows = m.rows[:m.maxRows]
	}
	m.frames.SetRows(m.rows)
}

func (m *model) addLogEntry(message string, isError bool) {
	entry := eventLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.eventLog = append(m.eventLog, entry)

	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

// tableHeight splits the window between the frame table and the event log
func (m model) tableHeight() int {
	h := (m.height - 16) / 2
	if h < 5 {
		h = 5
	}
	return h
}

func (m model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	statsLabelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	statsValueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("E2ECAN - INDICATOR NODE"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Checksum: %s | Press 'q' to quit",
		m.connInfo, m.variant.Description())))
	s.WriteString("\n\n")

	// Indicator and sequence state
	if m.hasIndicator {
		s.WriteString(renderIndicator(m.indicator))
	} else {
		s.WriteString(warningStyle.Render("⏳ Waiting for frames..."))
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("   expected ctr=%d  valid=%d",
		m.state.ExpectedCounter, m.state.ValidCount)))
	s.WriteString("\n\n")

	// Statistics
	m.stats.CalculateRates()
	rejected := m.stats.Errors()
	var acceptedPercent, errorPercent float64
	if m.stats.TotalFrames > 0 {
		acceptedPercent = float64(m.stats.AcceptedFrames) * 100.0 / float64(m.stats.TotalFrames)
		errorPercent = float64(rejected) * 100.0 / float64(m.stats.TotalFrames)
	}

	statsContent := strings.Builder{}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		statsLabelStyle.Render("Total:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.TotalFrames)),
		statsLabelStyle.Render("Accepted:"), statsValueStyle.Render(fmt.Sprintf("%d (%.1f%%)", m.stats.AcceptedFrames, acceptedPercent)),
		statsLabelStyle.Render("Rejected:"), errorStyle.Render(fmt.Sprintf("%d (%.1f%%)", rejected, errorPercent)),
	))

	if rejected > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
			statsLabelStyle.Render("Sequence:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.SequenceMismatches)),
			statsLabelStyle.Render("Checksum:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.ChecksumMismatches)),
			statsLabelStyle.Render("Decode:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.DecodeErrors)),
		))
	}

	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s",
		statsLabelStyle.Render("Frame Rate:"), statsValueStyle.Render(fmt.Sprintf("%.1f frames/s", m.stats.FrameRate)),
		statsLabelStyle.Render("Error Rate:"), func() string {
			if m.stats.ErrorRate > 0 {
				return errorStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
			}
			return statsValueStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
		}(),
	))

	s.WriteString(boxStyle.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Recent frames
	s.WriteString(statsLabelStyle.Render("Recent Frames:"))
	s.WriteString("\n")
	s.WriteString(boxStyle.Render(m.frames.View()))
	s.WriteString("\n\n")

	// Event log
	s.WriteString(statsLabelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	logHeight := m.height - m.tableHeight() - 18
	if logHeight < 3 {
		logHeight = 3
	}

	logContent := strings.Builder{}
	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("01/02/06 15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					warningStyle.Render("ℹ "+entry.message),
				))
			}
		}
	}

	s.WriteString(boxStyle.Width(m.width - 4).Render(logContent.String()))

	return s.String()
}
