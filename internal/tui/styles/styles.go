package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// --- Typography ---

var (
	// Title is the main header text style.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	// Subtitle is used for secondary headings.
	Subtitle = lipgloss.NewStyle().
			Foreground(Gray)

	// Label is used for field names in detail views.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	// Value is used for field values in detail views.
	Value = lipgloss.NewStyle().
		Foreground(White)

	// MutedText is for help text, hints, and less important info.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// AccentText is for highlighted interactive elements.
	AccentText = lipgloss.NewStyle().
			Foreground(Blue)

	// ErrorText is for error messages.
	ErrorText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// SuccessText is for success messages.
	SuccessText = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	// WarningText is for warning messages.
	WarningText = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)
)

// --- Record type badges ---

// RecordTypeStyle returns the accent style for a DNS record type.
func RecordTypeStyle(recordType string) lipgloss.Style {
	switch strings.ToUpper(recordType) {
	case "A", "AAAA":
		return lipgloss.NewStyle().Foreground(Green)
	case "CNAME", "ALIAS":
		return lipgloss.NewStyle().Foreground(Yellow)
	case "MX", "SRV":
		return lipgloss.NewStyle().Foreground(Blue)
	case "TXT":
		return MutedText
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// Propagation states rendered by SyncIndicator.
const (
	SyncInSync  = "in sync"
	SyncPending = "pending"
	SyncError   = "error"
)

// SyncIndicator returns a small dot + state text for a resolver's
// propagation state.
func SyncIndicator(state string) string {
	var style lipgloss.Style
	switch state {
	case SyncInSync:
		style = lipgloss.NewStyle().Foreground(Green).Bold(true)
	case SyncPending:
		style = lipgloss.NewStyle().Foreground(Yellow)
	case SyncError:
		style = lipgloss.NewStyle().Foreground(Red)
	default:
		style = lipgloss.NewStyle().Foreground(Gray)
	}
	dot := style.Render("●")
	text := style.Render(state)
	return dot + " " + text
}

// --- Layout components ---

var (
	// Border is the default subtle border style.
	Border = lipgloss.RoundedBorder()

	// Card is a rounded-border panel for content sections.
	Card = lipgloss.NewStyle().
		Border(Border).
		BorderForeground(DimGray).
		Padding(1, 2)

	// CardActive is a card with an accent border for focused elements.
	CardActive = lipgloss.NewStyle().
			Border(Border).
			BorderForeground(Blue).
			Padding(1, 2)
)

// --- Key binding hint styles ---

var (
	// KeyStyle is used for key labels in the footer (e.g. "q").
	KeyStyle = lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true)

	// KeyDescStyle is used for key descriptions in the footer (e.g. "quit").
	KeyDescStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// KeySepStyle is used for separators between key bindings.
	KeySepStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// FormatKeyBinding formats a single key binding for the footer.
func FormatKeyBinding(key, desc string) string {
	return KeyStyle.Render(key) + " " + KeyDescStyle.Render(desc)
}

// --- Table styles ---

var (
	// TableHeader is the style for table header cells.
	TableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Gray).
			Padding(0, 1)

	// TableCell is the style for table data cells.
	TableCell = lipgloss.NewStyle().
			Foreground(White).
			Padding(0, 1)

	// TableSelectedRow is the style for the currently selected table row.
	TableSelectedRow = lipgloss.NewStyle().
				Foreground(White).
				Background(DarkBlue).
				Bold(true).
				Padding(0, 1)
)
