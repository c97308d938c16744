package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nathanbeddoewebdev/pbrec/internal/dns/domain"
	"nathanbeddoewebdev/pbrec/internal/tui/components"
	"nathanbeddoewebdev/pbrec/internal/tui/styles"
	"nathanbeddoewebdev/pbrec/internal/util"
	"nathanbeddoewebdev/pbrec/internal/verify"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Messages ---

// watchRoundMsg carries the outcome of one query round.
type watchRoundMsg struct {
	report verify.Report
	err    error
}

// watchTickMsg tells the Update loop it is time for the next round.
type watchTickMsg struct{}

// --- Watch model ---

type watchModel struct {
	checker   *verify.Checker
	exp       verify.Expectation
	resolvers []string
	interval  time.Duration

	report   verify.Report
	haveData bool
	rounds   int
	rtt      []float64 // average round-trip per round, in ms

	checking bool
	spinner  spinner.Model
	err      error

	width  int
	height int
}

// RunWatch starts the full-window propagation watch: one query round per
// interval until the user quits.
func RunWatch(checker *verify.Checker, exp verify.Expectation, resolvers []string, interval time.Duration) error {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	m := watchModel{
		checker:   checker,
		exp:       exp,
		resolvers: resolvers,
		interval:  interval,
		checking:  true,
		spinner:   s,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.checkCmd())
}

func (m watchModel) checkCmd() tea.Cmd {
	return func() tea.Msg {
		report, err := m.checker.Check(context.Background(), m.exp, m.resolvers)
		return watchRoundMsg{report: report, err: err}
	}
}

// scheduleRound returns a tea.Cmd that fires the next round after the
// configured interval.
func (m watchModel) scheduleRound() tea.Cmd {
	return tea.Tick(m.interval, func(_ time.Time) tea.Msg {
		return watchTickMsg{}
	})
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r":
			if !m.checking {
				m.checking = true
				return m, tea.Batch(m.spinner.Tick, m.checkCmd())
			}
		}

	case watchRoundMsg:
		m.checking = false
		m.rounds++
		m.err = msg.err
		if msg.err == nil {
			m.report = msg.report
			m.haveData = true
			if avg, ok := averageRTT(msg.report); ok {
				m.rtt = append(m.rtt, avg)
			}
		}
		cmds = append(cmds, m.scheduleRound())

	case watchTickMsg:
		if !m.checking {
			m.checking = true
			cmds = append(cmds, m.spinner.Tick, m.checkCmd())
		}

	case spinner.TickMsg:
		if m.checking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m watchModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "verify "+m.exp.FQName(), "watch")
	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "r", Desc: "check now"},
		{Key: "q", Desc: "quit"},
	})

	statusBar := components.StatusBar(m.width, m.statusText(), m.err != nil)

	headerH := lipgloss.Height(header)
	footerH := lipgloss.Height(footer)
	statusH := lipgloss.Height(statusBar)
	contentH := max(m.height-headerH-footerH-statusH, 1)

	content := m.renderContent(contentH)

	sections := []string{header, content}
	if statusBar != "" {
		sections = append(sections, statusBar)
	}
	sections = append(sections, footer)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m watchModel) statusText() string {
	switch {
	case m.err != nil:
		return "Error: " + m.err.Error()
	case !m.haveData:
		return "Querying resolvers…"
	case m.report.Converged():
		return fmt.Sprintf("round %d: all resolvers in sync", m.rounds)
	default:
		return fmt.Sprintf("round %d: waiting for %d resolver(s)", m.rounds, len(m.report.Pending()))
	}
}

func (m watchModel) renderContent(height int) string {
	if !m.haveData {
		loadingText := m.spinner.View() + "  Querying resolvers…"
		return lipgloss.Place(
			m.width, height,
			lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render(loadingText),
		)
	}

	expect := styles.Label.Render("Expect  ") + styles.Value.Render(expectationLine(m.exp))

	table := m.renderResolverTable()
	chart := components.RTTChart("resolver rtt (avg)", m.rtt, max(m.width-8, 20))

	indicator := ""
	if m.checking {
		indicator = m.spinner.View() + " checking"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		expect,
		"",
		table,
		"",
		chart,
		"",
		styles.MutedText.Render(indicator),
	)

	return lipgloss.NewStyle().Padding(1, 3).Height(height).Render(content)
}

func (m watchModel) renderResolverTable() string {
	labelWidth := 0
	for _, a := range m.report.Answers {
		if len(a.Resolver) > labelWidth {
			labelWidth = len(a.Resolver)
		}
	}
	labelWidth += 2

	rows := make([]string, 0, len(m.report.Answers))
	for _, a := range m.report.Answers {
		name := styles.Label.Width(labelWidth).Render(a.Resolver)
		state := styles.SyncIndicator(answerState(a, m.exp))
		answer := styles.MutedText.Render("  " + util.Truncate(answerText(a), max(m.width-labelWidth-30, 16)))
		rtt := styles.MutedText.Render(fmt.Sprintf("  %3dms", a.RTT.Milliseconds()))
		rows = append(rows, name+state+rtt+answer)
	}
	return strings.Join(rows, "\n")
}

// answerState maps one resolver answer to the propagation state shown in
// its table row.
func answerState(a verify.Answer, exp verify.Expectation) string {
	switch {
	case a.Err != nil:
		return styles.SyncError
	case a.InSync(exp):
		return styles.SyncInSync
	default:
		return styles.SyncPending
	}
}

// answerText renders what a resolver served, for display next to its state.
func answerText(a verify.Answer) string {
	if a.Err != nil {
		return a.Err.Error()
	}
	if len(a.Values) == 0 {
		return "no answer"
	}
	return strings.Join(a.Values, ", ")
}

// expectationLine renders the expected state on a single line.
func expectationLine(exp verify.Expectation) string {
	line := fmt.Sprintf("%s %s", exp.Type, exp.FQName())
	if exp.State == domain.StateAbsent {
		return line + " absent"
	}
	if exp.Content == "" {
		return line + " (any content)"
	}
	return line + " = " + exp.Content
}

// averageRTT returns the mean round-trip across the resolvers that
// answered, in milliseconds. ok is false when no resolver answered.
func averageRTT(report verify.Report) (float64, bool) {
	var sum time.Duration
	n := 0
	for _, a := range report.Answers {
		if a.Err != nil || a.RTT <= 0 {
			continue
		}
		sum += a.RTT
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum.Milliseconds()) / float64(n), true
}
