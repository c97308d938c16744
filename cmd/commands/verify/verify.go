// Package verify implements the pbrec verify command, which checks what
// public resolvers actually serve for a record.
package verify

import (
	"context"
	"fmt"
	"net"
	"strings"
	"text/tabwriter"
	"time"

	dnsdomain "nathanbeddoewebdev/pbrec/internal/dns/domain"
	"nathanbeddoewebdev/pbrec/internal/tui"
	dnsverify "nathanbeddoewebdev/pbrec/internal/verify"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

// NewCommand returns the "verify" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check whether resolvers serve the expected record",
		Long: `Query resolvers directly and compare what they serve against the
expected record. Useful after an apply to see propagation happen.

Queries go to the domain's own nameservers unless --resolver is given.
The command exits zero once every queried resolver agrees.

Examples:
  pbrec verify --domain example.com --type A --name www --content 192.0.2.1
  pbrec verify --domain example.com --type TXT --name _acme-challenge --absent
  pbrec verify --domain example.com --type A --name www --content 192.0.2.1 \
      --resolver 1.1.1.1:53 --resolver 8.8.8.8:53
  pbrec verify --domain example.com --type A --name www --content 192.0.2.1 --wait
  pbrec verify --domain example.com --type A --name www --watch`,
		Args:         cobra.NoArgs,
		RunE:         runVerify,
		SilenceUsage: true,
	}

	cmd.Flags().String("domain", "", "Root domain the record belongs to [required]")
	cmd.Flags().String("type", "", "Record type to query (A, AAAA, CNAME, MX, TXT, etc.) [required]")
	cmd.Flags().String("name", "", "Subdomain name (leave empty for the root domain)")
	cmd.Flags().String("content", "", "Expected record content (omit to check existence only)")
	cmd.Flags().Bool("absent", false, "Expect no record of this type and name")
	cmd.Flags().StringArray("resolver", nil, "Resolver address (can be specified multiple times)")
	cmd.Flags().Bool("wait", false, "Keep checking until every resolver agrees or --timeout passes")
	cmd.Flags().Duration("timeout", 5*time.Minute, "Give up waiting after this long")
	cmd.Flags().Bool("watch", false, "Watch rounds in a live full-screen view")
	cmd.Flags().Duration("interval", 5*time.Second, "Delay between watch rounds")

	cmd.MarkFlagRequired("domain")
	cmd.MarkFlagRequired("type")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	domainName, _ := cmd.Flags().GetString("domain")
	recordType, _ := cmd.Flags().GetString("type")
	name, _ := cmd.Flags().GetString("name")
	content, _ := cmd.Flags().GetString("content")
	absent, _ := cmd.Flags().GetBool("absent")
	resolverFlags, _ := cmd.Flags().GetStringArray("resolver")
	wait, _ := cmd.Flags().GetBool("wait")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	watch, _ := cmd.Flags().GetBool("watch")
	interval, _ := cmd.Flags().GetDuration("interval")

	if absent && content != "" {
		return fmt.Errorf("--absent and --content cannot be combined")
	}

	log := logr.FromContextOrDiscard(cmd.Context())
	checker := dnsverify.New(dnsverify.WithLogger(log))

	exp := dnsverify.Expectation{
		Domain:  domainName,
		Type:    dnsdomain.RecordType(strings.ToUpper(strings.TrimSpace(recordType))),
		Name:    name,
		Content: content,
	}
	if absent {
		exp.State = dnsdomain.StateAbsent
	}

	resolvers, err := resolveResolvers(cmd, checker, resolverFlags, domainName)
	if err != nil {
		return err
	}

	if watch {
		return tui.RunWatch(checker, exp, resolvers, interval)
	}

	if wait {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		rounds := 0
		report, err := checker.Wait(ctx, exp, resolvers, func(r dnsverify.Report) {
			rounds++
			inSync := len(r.Answers) - len(r.Pending())
			fmt.Fprintf(cmd.ErrOrStderr(), "Round %d: %d/%d resolvers in sync\n", rounds, inSync, len(r.Answers))
		})
		if len(report.Answers) > 0 {
			printReport(cmd, report)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Converged after %d round(s).\n", rounds)
		return nil
	}

	report, err := checker.Check(cmd.Context(), exp, resolvers)
	if err != nil {
		return err
	}
	printReport(cmd, report)
	if !report.Converged() {
		return fmt.Errorf("%d of %d resolvers not in sync yet", len(report.Pending()), len(report.Answers))
	}
	return nil
}

// resolveResolvers decides which resolvers to query: explicit --resolver
// values win, then the domain's own nameservers, then public resolvers.
func resolveResolvers(cmd *cobra.Command, checker *dnsverify.Checker, explicit []string, domainName string) ([]string, error) {
	if len(explicit) > 0 {
		resolvers := make([]string, 0, len(explicit))
		for _, addr := range explicit {
			addr = strings.TrimSpace(addr)
			if addr == "" {
				return nil, fmt.Errorf("empty --resolver value")
			}
			resolvers = append(resolvers, withDefaultPort(addr))
		}
		return resolvers, nil
	}

	nameservers, err := checker.DiscoverNameservers(cmd.Context(), domainName)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Nameserver discovery failed (%v); using public resolvers.\n", err)
		return dnsverify.DefaultResolvers, nil
	}
	return nameservers, nil
}

// withDefaultPort appends :53 to an address without an explicit port.
func withDefaultPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, "53")
}

func printReport(cmd *cobra.Command, report dnsverify.Report) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "RESOLVER\tSTATUS\tRTT\tANSWER")
	fmt.Fprintln(w, "--------\t------\t---\t------")

	for _, a := range report.Answers {
		status := "in sync"
		answer := strings.Join(a.Values, ", ")
		switch {
		case a.Err != nil:
			status = "error"
			answer = a.Err.Error()
		case !a.InSync(report.Expectation):
			status = "pending"
			if answer == "" {
				answer = "no answer"
			}
		case answer == "":
			answer = "no answer"
		}
		fmt.Fprintf(w, "%s\t%s\t%dms\t%s\n", a.Resolver, status, a.RTT.Milliseconds(), answer)
	}

	w.Flush()
}
