package records

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"nathanbeddoewebdev/pbrec/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ListCommand returns the "records list" subcommand.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <domain>",
		Short: "List DNS records for a domain",
		Long: `List the DNS records Porkbun serves for the given domain.

On a terminal this opens an interactive browser; piped output prints a
plain table.

Examples:
  pbrec records list example.com
  pbrec records list example.com --type A
  pbrec records list example.com -o json`,
		Args:         cobra.ExactArgs(1),
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().String("type", "", "Filter records by type (A, AAAA, CNAME, MX, TXT, etc.)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	domainName := args[0]
	typeFilter, _ := cmd.Flags().GetString("type")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	if output == "table" && term.IsTerminal(int(os.Stdout.Fd())) {
		return tui.RunRecordBrowser(svc, domainName)
	}

	records, err := svc.ListRecords(cmd.Context(), domainName)
	if err != nil {
		return err
	}

	if typeFilter != "" {
		filtered := records[:0]
		for _, r := range records {
			if strings.EqualFold(string(r.Type), typeFilter) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No records found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tCONTENT\tTTL\tPRIORITY")
	fmt.Fprintln(w, "--\t----\t----\t-------\t---\t--------")

	for _, r := range records {
		prio := ""
		if r.Priority > 0 {
			prio = fmt.Sprintf("%d", r.Priority)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID,
			r.Name,
			string(r.Type),
			r.Content,
			r.TTL,
			prio,
		)
	}

	w.Flush()
	return nil
}
