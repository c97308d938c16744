package apply

import (
	"os"
	"strings"
	"time"

	"nathanbeddoewebdev/pbrec/internal/auditlog"
	"nathanbeddoewebdev/pbrec/internal/dns/services"

	"github.com/spf13/cobra"
)

// recordAudit appends the reconciliation outcome to the local audit trail.
// Best effort: a failure to record never changes the command's result.
func recordAudit(cmd *cobra.Command, res services.Result, runErr error, elapsed time.Duration) {
	repo, err := auditlog.Open()
	if err != nil {
		return
	}
	defer repo.Close()

	meta := auditlog.MetadataFromContext(cmd.Context())

	entry := auditlog.AuditEntry{
		Command:    cmd.CommandPath(),
		Args:       strings.Join(auditlog.SanitizeArgs(os.Args[1:]), " "),
		Domain:     meta.Domain,
		RecordType: meta.RecordType,
		RecordName: meta.RecordName,
		RecordID:   meta.RecordID,
		Outcome:    auditlog.OutcomeSuccess,
		Detail:     res.Msg,
		DurationMs: elapsed.Milliseconds(),
	}
	if runErr != nil {
		entry.Outcome = auditlog.OutcomeError
		entry.Detail = runErr.Error()
	}

	_ = repo.Save(&entry)
}
