package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/pbrec/internal/dns/domain"

	"github.com/charmbracelet/huh"
)

// ConfirmDelete asks before an absent reconcile removes a matched record.
// Declining and aborting both return false.
func ConfirmDelete(desired domain.DesiredRecord) (bool, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	confirm := false
	note := huh.NewNote().
		Title("Record to remove").
		Description(deleteSummary(desired))
	field := huh.NewConfirm().
		Title("Delete this DNS record?").
		Description("This cannot be undone.").
		Affirmative("Delete").
		Negative("Cancel").
		Value(&confirm)

	if err := runForm(accessible, huh.NewGroup(note, field)); err != nil {
		if errors.Is(err, ErrAborted) {
			return false, nil
		}
		return false, err
	}
	return confirm, nil
}

// deleteSummary builds the record description shown above the confirm.
func deleteSummary(desired domain.DesiredRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Type: %s\n", desired.Type)
	fmt.Fprintf(&b, "Name: %s\n", desired.FQName())
	fmt.Fprintf(&b, "Domain: %s\n", desired.Domain)
	return strings.TrimSpace(b.String())
}
