// Package services provides the DNS reconciliation layer.
//
// The Service type wraps a domain.Provider and adds input normalisation,
// validation, and the reconcile step that brings a single record to its
// desired state. CLI commands construct a Service from a resolved provider
// and call service methods rather than calling the provider directly.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"nathanbeddoewebdev/pbrec/internal/dns/domain"
	"nathanbeddoewebdev/pbrec/internal/util"
)

// Outcome messages reported by Apply. Every reconciliation that does not
// fail reports exactly one of these.
const (
	MsgCreated      = "DNS record created"
	MsgUpdated      = "DNS record updated"
	MsgUnchanged    = "DNS record already exists"
	MsgDeleted      = "DNS record deleted"
	MsgDoesNotExist = "DNS record does not exist"
)

// Result describes the outcome of one reconciliation.
type Result struct {
	// Changed reports whether provider state was modified, or in dry-run
	// mode whether it would have been.
	Changed bool

	// Msg is the human-readable outcome.
	Msg string

	// Record is the record the decision applied to: the created or updated
	// record carrying its new values, the deleted record, or the unchanged
	// match. Zero when no record exists and none was wanted.
	Record domain.Record
}

// Service is the DNS business logic layer. It sits between CLI commands and
// the provider, applying normalisation and validation to all inputs.
type Service struct {
	provider domain.Provider
	log      logr.Logger
	strict   bool
	dryRun   bool
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a logger for reconciliation decisions.
func WithLogger(log logr.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithStrictMatch makes Apply fail with domain.ErrAmbiguousMatch when more
// than one existing record matches the desired type and name, instead of
// acting on the first match.
func WithStrictMatch() Option {
	return func(s *Service) {
		s.strict = true
	}
}

// WithDryRun makes Apply report the decision it would take without calling
// any mutating provider operation.
func WithDryRun() Option {
	return func(s *Service) {
		s.dryRun = true
	}
}

// New returns a Service backed by the given provider.
func New(provider domain.Provider, opts ...Option) *Service {
	svc := &Service{provider: provider, log: logr.Discard()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Apply reconciles one desired record against provider state and returns
// what it did. At most one mutating call is made per invocation:
//
//	state    existing  action
//	present  none      create
//	present  differs   update content and TTL in place
//	present  equal     nothing
//	absent   none      nothing
//	absent   found     delete by ID
//
// A record counts as equal when its content matches and its TTL, compared
// as an integer, matches.
func (s *Service) Apply(ctx context.Context, desired domain.DesiredRecord) (Result, error) {
	desired, err := normalizeDesired(desired)
	if err != nil {
		return Result{}, err
	}

	matches, err := s.provider.FindRecords(ctx, desired.Domain, desired.Type, desired.Name)
	if err != nil {
		return Result{}, err
	}

	found, err := s.selectMatch(matches, desired)
	if err != nil {
		return Result{}, err
	}

	switch {
	case desired.State == domain.StateAbsent && found == nil:
		return Result{Msg: MsgDoesNotExist}, nil

	case desired.State == domain.StateAbsent:
		if !s.dryRun {
			if err := s.provider.DeleteRecord(ctx, desired.Domain, found.ID); err != nil {
				return Result{}, err
			}
		}
		s.log.Info("record deleted",
			"domain", desired.Domain, "type", desired.Type, "name", found.Name, "id", found.ID, "dryRun", s.dryRun)
		return Result{Changed: true, Msg: MsgDeleted, Record: *found}, nil

	case found == nil:
		rec := domain.Record{
			Domain:   desired.Domain,
			Name:     desired.FQName(),
			Type:     desired.Type,
			Content:  desired.Content,
			TTL:      desired.TTL,
			Priority: desired.Priority,
			Notes:    desired.Notes,
		}
		if !s.dryRun {
			id, err := s.provider.CreateRecord(ctx, desired.Domain, domain.CreateRecordOpts{
				Name:     desired.Name,
				Type:     desired.Type,
				Content:  desired.Content,
				TTL:      desired.TTL,
				Priority: desired.Priority,
				Notes:    desired.Notes,
			})
			if err != nil {
				return Result{}, err
			}
			rec.ID = id
		}
		s.log.Info("record created",
			"domain", desired.Domain, "type", desired.Type, "name", rec.Name, "id", rec.ID, "dryRun", s.dryRun)
		return Result{Changed: true, Msg: MsgCreated, Record: rec}, nil

	case recordMatchesDesired(*found, desired):
		return Result{Msg: MsgUnchanged, Record: *found}, nil

	default:
		rec := *found
		rec.Content = desired.Content
		rec.TTL = desired.TTL
		if desired.Priority > 0 {
			rec.Priority = desired.Priority
		}
		if !s.dryRun {
			err := s.provider.EditRecordByNameType(ctx, desired.Domain, desired.Type, desired.Name, domain.EditRecordOpts{
				Content:  desired.Content,
				TTL:      desired.TTL,
				Priority: desired.Priority,
			})
			if err != nil {
				return Result{}, err
			}
		}
		s.log.Info("record updated",
			"domain", desired.Domain, "type", desired.Type, "name", rec.Name, "id", rec.ID, "dryRun", s.dryRun)
		return Result{Changed: true, Msg: MsgUpdated, Record: rec}, nil
	}
}

// selectMatch picks the record reconciliation acts on. When several records
// share the desired type and name the provider mutates all of them on an
// update and repeated absent runs drain them one by one, so first-match is
// safe; strict mode refuses to guess instead.
func (s *Service) selectMatch(matches []domain.Record, desired domain.DesiredRecord) (*domain.Record, error) {
	if len(matches) == 0 {
		return nil, nil
	}

	if len(matches) > 1 {
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		if s.strict {
			return nil, fmt.Errorf("%d records match %s %q (ids %s): %w",
				len(matches), desired.Type, desired.FQName(), strings.Join(ids, ", "), domain.ErrAmbiguousMatch)
		}
		s.log.Info("multiple records match, acting on first",
			"domain", desired.Domain, "type", desired.Type, "name", desired.FQName(), "ids", strings.Join(ids, ","))
	}

	return &matches[0], nil
}

// recordMatchesDesired reports whether the existing record already carries
// the desired content and TTL. TTLs compare as integers, so a "0600" on the
// wire equals a desired 600.
func recordMatchesDesired(existing domain.Record, desired domain.DesiredRecord) bool {
	return existing.Content == desired.Content && existing.TTL == desired.TTL
}

// ListRecords returns all DNS records for the given domain.
func (s *Service) ListRecords(ctx context.Context, domainName string) ([]domain.Record, error) {
	domainName = normalizeDomain(domainName)
	if err := util.ValidateDomainName(domainName); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return s.provider.ListRecords(ctx, domainName)
}

// FindRecords returns all records matching the type and subdomain within
// the domain, in provider order.
func (s *Service) FindRecords(ctx context.Context, domainName string, recordType domain.RecordType, subdomain string) ([]domain.Record, error) {
	domainName = normalizeDomain(domainName)
	if err := util.ValidateDomainName(domainName); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	recordType = domain.RecordType(strings.ToUpper(strings.TrimSpace(string(recordType))))
	if err := validateRecordType(recordType); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	subdomain = normalizeSubdomain(subdomain, domainName)
	return s.provider.FindRecords(ctx, domainName, recordType, subdomain)
}

// Ping verifies provider credentials and returns the caller's public IP.
func (s *Service) Ping(ctx context.Context) (string, error) {
	return s.provider.Ping(ctx)
}
