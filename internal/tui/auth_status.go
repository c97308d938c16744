package tui

import (
	"context"
	"fmt"

	"nathanbeddoewebdev/pbrec/internal/dns/domain"
	"nathanbeddoewebdev/pbrec/internal/services/auth"
	"nathanbeddoewebdev/pbrec/internal/tui/components"
	"nathanbeddoewebdev/pbrec/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Messages ---

type pingResultMsg struct {
	ip  string
	err error
}

// --- Key status ---

type keyStatus struct {
	label  string
	source string // auth.Source* value, or an error message
	ok     bool
}

func buildKeyStatuses(store auth.Store) []keyStatus {
	keys := auth.CredentialKeys()
	statuses := make([]keyStatus, 0, len(keys))
	for _, key := range keys {
		source, err := auth.KeySource(store, key)
		if err != nil {
			statuses = append(statuses, keyStatus{label: key.Prompt, source: fmt.Sprintf("error: %v", err)})
			continue
		}
		statuses = append(statuses, keyStatus{
			label:  key.Prompt,
			source: source,
			ok:     source != auth.SourceNotSet,
		})
	}
	return statuses
}

// --- Auth status model ---

type authStatusModel struct {
	statuses []keyStatus

	// pinger, when non-nil, is used for a live connectivity check.
	pinger  domain.Provider
	pinging bool
	pingIP  string
	pingErr error
	spinner spinner.Model

	width  int
	height int
}

// RunAuthStatus starts the full-window credential status TUI. When both
// keys resolve, pinger carries a provider built from them and the view
// includes a live API check.
func RunAuthStatus(store auth.Store, pinger domain.Provider) error {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	m := authStatusModel{
		statuses: buildKeyStatuses(store),
		pinger:   pinger,
		pinging:  pinger != nil,
		spinner:  s,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m authStatusModel) Init() tea.Cmd {
	if m.pinging {
		return tea.Batch(m.spinner.Tick, m.pingCmd())
	}
	return nil
}

func (m authStatusModel) pingCmd() tea.Cmd {
	return func() tea.Msg {
		ip, err := m.pinger.Ping(context.Background())
		return pingResultMsg{ip: ip, err: err}
	}
}

func (m authStatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}

	case pingResultMsg:
		m.pinging = false
		m.pingIP = msg.ip
		m.pingErr = msg.err
		return m, nil

	case spinner.TickMsg:
		if m.pinging {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m authStatusModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "auth status", "Porkbun")
	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "q", Desc: "quit"},
	})

	headerH := lipgloss.Height(header)
	footerH := lipgloss.Height(footer)
	contentH := max(m.height-headerH-footerH, 1)

	content := m.renderContent(contentH)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (m authStatusModel) renderContent(height int) string {
	title := styles.Title.Render("Porkbun Credentials")

	cardWidth := 52
	labelWidth := 18

	rows := make([]string, 0, len(m.statuses)+1)
	for _, ks := range m.statuses {
		label := styles.Label.Width(labelWidth).Render(ks.label)
		rows = append(rows, label+renderSource(ks))
	}
	rows = append(rows, styles.Label.Width(labelWidth).Render("API check")+m.renderPing())

	card := styles.Card.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	combined := lipgloss.JoinVertical(lipgloss.Center, title, "", card)

	return lipgloss.Place(
		m.width, height,
		lipgloss.Center, lipgloss.Center,
		combined,
	)
}

func renderSource(ks keyStatus) string {
	switch {
	case ks.source == auth.SourceKeychain:
		return styles.SuccessText.Render(ks.source)
	case ks.source == auth.SourceEnvironment:
		return styles.AccentText.Render(ks.source)
	case ks.ok:
		return styles.Value.Render(ks.source)
	default:
		return styles.MutedText.Render(ks.source)
	}
}

func (m authStatusModel) renderPing() string {
	switch {
	case m.pinger == nil:
		return styles.MutedText.Render("skipped (no credential pair)")
	case m.pinging:
		return m.spinner.View() + styles.MutedText.Render(" checking…")
	case m.pingErr != nil:
		return styles.ErrorText.Render("failed") + styles.MutedText.Render(" ("+m.pingErr.Error()+")")
	default:
		return styles.SuccessText.Render("ok") + styles.MutedText.Render(" (your IP "+m.pingIP+")")
	}
}
