// Package verify answers the question "do resolvers serve this record
// yet". It queries a set of DNS resolvers directly, compares their
// answers against an expected state, and reports which resolvers have
// converged. It talks plain DNS, never the provider API, so it observes
// what clients actually see.
package verify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/miekg/dns"
	"golang.org/x/sync/errgroup"

	"nathanbeddoewebdev/pbrec/internal/dns/domain"
	"nathanbeddoewebdev/pbrec/internal/retry"
)

// ErrNotConverged reports that at least one resolver does not serve the
// expected state yet.
var ErrNotConverged = errors.New("propagation pending")

// DefaultResolvers are the public resolvers queried when the caller
// names none: Cloudflare, Google, and Quad9.
var DefaultResolvers = []string{"1.1.1.1:53", "8.8.8.8:53", "9.9.9.9:53"}

const defaultQueryTimeout = 5 * time.Second

// ExchangeFunc performs one DNS exchange against a resolver address and
// returns the response and round-trip time.
type ExchangeFunc func(ctx context.Context, msg *dns.Msg, addr string) (*dns.Msg, time.Duration, error)

// Checker queries resolvers and compares their answers to an expectation.
type Checker struct {
	exchange ExchangeFunc
	log      logr.Logger
	timeout  time.Duration
	waitCfg  retry.Config
}

// Option configures a Checker.
type Option func(*Checker)

// WithExchange replaces the network exchange. Intended for testing.
func WithExchange(fn ExchangeFunc) Option {
	return func(c *Checker) {
		c.exchange = fn
	}
}

// WithLogger attaches a logger for per-round detail.
func WithLogger(log logr.Logger) Option {
	return func(c *Checker) {
		c.log = log
	}
}

// WithQueryTimeout bounds a single resolver query.
func WithQueryTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithWaitConfig overrides the polling schedule used by Wait.
func WithWaitConfig(cfg retry.Config) Option {
	return func(c *Checker) {
		c.waitCfg = cfg
	}
}

// New returns a Checker that queries over UDP with a TCP fallback on
// truncated responses.
func New(opts ...Option) *Checker {
	c := &Checker{
		log:     logr.Discard(),
		timeout: defaultQueryTimeout,
		waitCfg: retry.WaitConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.exchange == nil {
		c.exchange = c.netExchange
	}
	return c
}

func (c *Checker) netExchange(ctx context.Context, msg *dns.Msg, addr string) (*dns.Msg, time.Duration, error) {
	client := &dns.Client{Timeout: c.timeout}
	in, rtt, err := client.ExchangeContext(ctx, msg, addr)
	if err == nil && in.Truncated {
		tcp := &dns.Client{Net: "tcp", Timeout: c.timeout}
		in, rtt, err = tcp.ExchangeContext(ctx, msg, addr)
	}
	return in, rtt, err
}

// Expectation describes the record state resolvers should serve.
type Expectation struct {
	// Domain is the root domain the record belongs to.
	Domain string

	// Type is the DNS record type to query.
	Type domain.RecordType

	// Name is the subdomain portion, empty for the root domain.
	Name string

	// Content is the expected record value. Empty checks existence only.
	Content string

	// State is the expected existence. Empty means present.
	State domain.State
}

// FQName returns the fully-qualified name to query.
func (e Expectation) FQName() string {
	return domain.TargetName(e.Name, e.Domain)
}

func (e Expectation) state() domain.State {
	if e.State == "" {
		return domain.StatePresent
	}
	return e.State
}

// Answer is one resolver's view of the queried name.
type Answer struct {
	// Resolver is the address that was queried.
	Resolver string

	// Values are the answer contents for the queried type, rendered the
	// way record content is written at the provider.
	Values []string

	// RTT is the query round-trip time.
	RTT time.Duration

	// Err is set when the resolver could not be queried or refused.
	Err error
}

// InSync reports whether this answer satisfies the expectation.
func (a Answer) InSync(exp Expectation) bool {
	if a.Err != nil {
		return false
	}
	if exp.state() == domain.StateAbsent {
		return len(a.Values) == 0
	}
	if len(a.Values) == 0 {
		return false
	}
	if exp.Content == "" {
		return true
	}
	want := normalizeValue(exp.Content)
	for _, v := range a.Values {
		if normalizeValue(v) == want {
			return true
		}
	}
	return false
}

// Report is the outcome of one query round across all resolvers. Answers
// are in the same order as the resolvers that were queried.
type Report struct {
	Expectation Expectation
	Answers     []Answer
}

// Converged reports whether every resolver serves the expected state.
func (r Report) Converged() bool {
	if len(r.Answers) == 0 {
		return false
	}
	for _, a := range r.Answers {
		if !a.InSync(r.Expectation) {
			return false
		}
	}
	return true
}

// Pending returns the resolvers that do not serve the expected state yet.
func (r Report) Pending() []string {
	var pending []string
	for _, a := range r.Answers {
		if !a.InSync(r.Expectation) {
			pending = append(pending, a.Resolver)
		}
	}
	return pending
}

// Check queries every resolver once, in parallel, and reports what each
// serves. A resolver failure lands in its Answer rather than failing the
// round; the error return covers bad input only.
func (c *Checker) Check(ctx context.Context, exp Expectation, resolvers []string) (Report, error) {
	if len(resolvers) == 0 {
		return Report{}, fmt.Errorf("verify: no resolvers to query")
	}
	if exp.Type == domain.RecordTypeAlias {
		return Report{}, fmt.Errorf("verify: ALIAS records are flattened by the provider; verify the resulting A or AAAA record instead")
	}
	qtype, ok := dns.StringToType[strings.ToUpper(string(exp.Type))]
	if !ok {
		return Report{}, fmt.Errorf("verify: unsupported record type %q", exp.Type)
	}

	fqdn := dns.Fqdn(exp.FQName())
	report := Report{Expectation: exp, Answers: make([]Answer, len(resolvers))}

	g, gctx := errgroup.WithContext(ctx)
	for i, resolver := range resolvers {
		g.Go(func() error {
			msg := new(dns.Msg)
			msg.SetQuestion(fqdn, qtype)
			msg.RecursionDesired = true

			in, rtt, err := c.exchange(gctx, msg, resolver)
			answer := Answer{Resolver: resolver, RTT: rtt}
			switch {
			case err != nil:
				answer.Err = fmt.Errorf("query %s: %w", resolver, err)
			case in.Rcode != dns.RcodeSuccess && in.Rcode != dns.RcodeNameError:
				answer.Err = fmt.Errorf("query %s: %s", resolver, dns.RcodeToString[in.Rcode])
			default:
				answer.Values = answerValues(in, qtype)
			}
			report.Answers[i] = answer
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	c.log.V(1).Info("checked resolvers",
		"name", exp.FQName(), "type", exp.Type,
		"resolvers", len(resolvers), "pending", len(report.Pending()))
	return report, nil
}

// Wait polls the resolver set until every one serves the expected state or
// the context expires. onRound, when non-nil, observes each completed
// round. The last report is returned alongside the error so callers can
// show what the resolvers served when the wait gave up.
func (c *Checker) Wait(ctx context.Context, exp Expectation, resolvers []string, onRound func(Report)) (Report, error) {
	var last Report
	err := retry.Do(ctx, c.waitCfg, func(err error) bool {
		return errors.Is(err, ErrNotConverged)
	}, func() error {
		report, err := c.Check(ctx, exp, resolvers)
		if err != nil {
			return err
		}
		last = report
		if onRound != nil {
			onRound(report)
		}
		if !report.Converged() {
			return fmt.Errorf("%w: %s", ErrNotConverged, strings.Join(report.Pending(), ", "))
		}
		return nil
	})
	return last, err
}

// DiscoverNameservers returns the domain's authoritative nameservers as
// resolver addresses, found through an NS query against the public
// resolvers. The first resolver that answers wins.
func (c *Checker) DiscoverNameservers(ctx context.Context, domainName string) ([]string, error) {
	fqdn := dns.Fqdn(domainName)
	var lastErr error
	for _, resolver := range DefaultResolvers {
		msg := new(dns.Msg)
		msg.SetQuestion(fqdn, dns.TypeNS)
		msg.RecursionDesired = true

		in, _, err := c.exchange(ctx, msg, resolver)
		if err != nil {
			lastErr = err
			continue
		}

		var servers []string
		for _, rr := range in.Answer {
			if ns, ok := rr.(*dns.NS); ok {
				servers = append(servers, strings.TrimSuffix(ns.Ns, ".")+":53")
			}
		}
		if len(servers) > 0 {
			sort.Strings(servers)
			c.log.V(1).Info("discovered nameservers", "domain", domainName, "count", len(servers))
			return servers, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("verify: nameserver discovery for %q failed: %w", domainName, lastErr)
	}
	return nil, fmt.Errorf("verify: no nameservers found for %q", domainName)
}

// answerValues extracts the answer values for the queried type. Owner
// names shift along CNAME chains, so answers are matched on type alone.
func answerValues(in *dns.Msg, qtype uint16) []string {
	var values []string
	for _, rr := range in.Answer {
		if rr.Header().Rrtype != qtype {
			continue
		}
		switch v := rr.(type) {
		case *dns.A:
			values = append(values, v.A.String())
		case *dns.AAAA:
			values = append(values, v.AAAA.String())
		case *dns.CNAME:
			values = append(values, strings.TrimSuffix(v.Target, "."))
		case *dns.TXT:
			values = append(values, strings.Join(v.Txt, ""))
		case *dns.NS:
			values = append(values, strings.TrimSuffix(v.Ns, "."))
		case *dns.MX:
			values = append(values, strings.TrimSuffix(v.Mx, "."))
		case *dns.SRV:
			values = append(values, fmt.Sprintf("%d %d %s", v.Weight, v.Port, strings.TrimSuffix(v.Target, ".")))
		case *dns.CAA:
			values = append(values, fmt.Sprintf("%d %s %q", v.Flag, v.Tag, v.Value))
		case *dns.TLSA:
			values = append(values, fmt.Sprintf("%d %d %d %s", v.Usage, v.Selector, v.MatchingType, v.Certificate))
		}
	}
	return values
}

// normalizeValue prepares a DNS answer or expected content for comparison:
// case-insensitive, ignoring surrounding space and a trailing dot.
func normalizeValue(s string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), "."))
}
