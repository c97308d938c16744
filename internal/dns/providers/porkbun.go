package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"nathanbeddoewebdev/pbrec/internal/dns/domain"
)

const (
	porkbunBaseURL = "https://api.porkbun.com/api/json/v3"
	porkbunTimeout = 30 * time.Second

	statusSuccess = "SUCCESS"
)

// Compile-time check that PorkbunProvider satisfies domain.Provider.
var _ domain.Provider = (*PorkbunProvider)(nil)

// PorkbunProvider implements domain.Provider using the Porkbun API v3.
//
// Every call is a POST with the credential pair embedded in the JSON body;
// the API uses neither auth headers nor URL parameters. Credentials never
// appear in logs or error text.
type PorkbunProvider struct {
	apiKey    string
	secretKey string
	baseURL   string
	client    *http.Client
	log       logr.Logger
}

// PorkbunOption configures a PorkbunProvider.
type PorkbunOption func(*PorkbunProvider)

// WithBaseURL points the provider at a different API endpoint.
func WithBaseURL(baseURL string) PorkbunOption {
	return func(p *PorkbunProvider) {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) PorkbunOption {
	return func(p *PorkbunProvider) {
		p.client = client
	}
}

// WithLogger attaches a logger for request-level debug output.
func WithLogger(log logr.Logger) PorkbunOption {
	return func(p *PorkbunProvider) {
		p.log = log
	}
}

// NewPorkbunProvider creates a PorkbunProvider with the given credentials.
func NewPorkbunProvider(apiKey, secretKey string, opts ...PorkbunOption) *PorkbunProvider {
	p := &PorkbunProvider{
		apiKey:    apiKey,
		secretKey: secretKey,
		baseURL:   porkbunBaseURL,
		client:    &http.Client{Timeout: porkbunTimeout},
		log:       logr.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetDisplayName returns the human-readable provider name.
func (p *PorkbunProvider) GetDisplayName() string {
	return "Porkbun"
}

// --- API request/response types ---

// porkbunAuth is embedded in every request body.
type porkbunAuth struct {
	APIKey    string `json:"apikey"`
	SecretKey string `json:"secretapikey"`
}

// porkbunResponse is the base response shape for all Porkbun API calls.
type porkbunResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (r porkbunResponse) err() error {
	if r.Status == "" {
		return fmt.Errorf("porkbun: malformed response: missing status field")
	}
	if r.Status != statusSuccess {
		return fmt.Errorf("porkbun: %s", r.Message)
	}
	return nil
}

// porkbunDomainRecord maps to the Porkbun DNS record object. Numeric fields
// arrive as strings on the wire.
type porkbunDomainRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
	TTL     string `json:"ttl"`
	Prio    string `json:"prio"`
	Notes   string `json:"notes"`
}

// --- HTTP helpers ---

// post sends a POST request to the given path with the JSON body,
// and decodes the response into out. Failures to reach the API or to
// decode its response classify as domain.ErrTransport.
func (p *PorkbunProvider) post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("porkbun: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("porkbun: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Log the path only; the body carries credentials.
	p.log.V(1).Info("porkbun request", "path", path)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("porkbun: request failed: %w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("porkbun: failed to decode response: %w: %v", domain.ErrTransport, err)
	}

	return nil
}

// authBody returns the base request body with credentials embedded.
func (p *PorkbunProvider) authBody() porkbunAuth {
	return porkbunAuth{APIKey: p.apiKey, SecretKey: p.secretKey}
}

// mapAPIError converts Porkbun error replies to domain sentinels.
// Recognisable messages refine to a category; anything else is a bare ErrAPI.
func mapAPIError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "invalid api key") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "authentication"):
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, err.Error())
	case strings.Contains(msg, "not found") ||
		strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "invalid domain"):
		return fmt.Errorf("%w: %s", domain.ErrNotFound, err.Error())
	case strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests"):
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, err.Error())
	case strings.Contains(msg, "already exists") ||
		strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "conflict"):
		return fmt.Errorf("%w: %s", domain.ErrConflict, err.Error())
	}
	return fmt.Errorf("%w: %s", domain.ErrAPI, err.Error())
}

// --- Provider implementation ---

// ListRecords returns all DNS records for the given domain.
func (p *PorkbunProvider) ListRecords(ctx context.Context, domainName string) ([]domain.Record, error) {
	type response struct {
		porkbunResponse
		Records []porkbunDomainRecord `json:"records"`
	}

	var out response
	if err := p.post(ctx, "/dns/retrieve/"+domainName, p.authBody(), &out); err != nil {
		return nil, fmt.Errorf("failed to list records for %q: %w", domainName, err)
	}
	if err := mapAPIError(out.err()); err != nil {
		return nil, fmt.Errorf("failed to list records for %q: %w", domainName, err)
	}
	if out.Records == nil {
		return nil, fmt.Errorf("failed to list records for %q: %w: response missing records field", domainName, domain.ErrAPI)
	}

	records := make([]domain.Record, 0, len(out.Records))
	for _, r := range out.Records {
		records = append(records, toDomainRecord(domainName, r))
	}
	p.log.V(1).Info("listed records", "domain", domainName, "count", len(records))
	return records, nil
}

// FindRecords returns every record matching the type and subdomain, in the
// order the API reports them. The Porkbun API has no server-side filter for
// this, so the full record set is fetched and matched locally.
func (p *PorkbunProvider) FindRecords(ctx context.Context, domainName string, recordType domain.RecordType, subdomain string) ([]domain.Record, error) {
	records, err := p.ListRecords(ctx, domainName)
	if err != nil {
		return nil, err
	}

	target := domain.TargetName(subdomain, domainName)
	matched := domain.MatchRecords(records, recordType, target)
	p.log.V(1).Info("matched records", "domain", domainName, "type", recordType, "name", target, "count", len(matched))
	return matched, nil
}

// CreateRecord creates a new DNS record and returns the assigned record ID.
// The ID comes straight from the create response; no follow-up read is made.
func (p *PorkbunProvider) CreateRecord(ctx context.Context, domainName string, opts domain.CreateRecordOpts) (string, error) {
	type request struct {
		porkbunAuth
		Name    string `json:"name,omitempty"`
		Type    string `json:"type"`
		Content string `json:"content"`
		TTL     string `json:"ttl,omitempty"`
		Prio    string `json:"prio,omitempty"`
		Notes   string `json:"notes,omitempty"`
	}

	// The create response carries the id as a JSON number while every other
	// endpoint uses strings; json.Number tolerates both.
	type response struct {
		porkbunResponse
		ID json.Number `json:"id"`
	}

	body := request{
		porkbunAuth: p.authBody(),
		Name:        opts.Name,
		Type:        string(opts.Type),
		Content:     opts.Content,
		Notes:       opts.Notes,
	}
	if opts.TTL > 0 {
		body.TTL = fmt.Sprintf("%d", opts.TTL)
	}
	if opts.Priority > 0 {
		body.Prio = fmt.Sprintf("%d", opts.Priority)
	}

	var out response
	if err := p.post(ctx, "/dns/create/"+domainName, body, &out); err != nil {
		return "", fmt.Errorf("failed to create record for %q: %w", domainName, err)
	}
	if err := mapAPIError(out.err()); err != nil {
		return "", fmt.Errorf("failed to create record for %q: %w", domainName, err)
	}
	if out.ID.String() == "" {
		return "", fmt.Errorf("failed to create record for %q: %w: response missing record id", domainName, domain.ErrAPI)
	}

	p.log.V(1).Info("created record", "domain", domainName, "id", out.ID.String(), "type", opts.Type)
	return out.ID.String(), nil
}

// EditRecordByNameType updates all records matching the type and subdomain.
// The API addresses the records by name and type; IDs are not involved.
func (p *PorkbunProvider) EditRecordByNameType(ctx context.Context, domainName string, recordType domain.RecordType, subdomain string, opts domain.EditRecordOpts) error {
	type request struct {
		porkbunAuth
		Content string `json:"content"`
		TTL     string `json:"ttl,omitempty"`
		Prio    string `json:"prio,omitempty"`
	}

	body := request{
		porkbunAuth: p.authBody(),
		Content:     opts.Content,
	}
	if opts.TTL > 0 {
		body.TTL = fmt.Sprintf("%d", opts.TTL)
	}
	if opts.Priority > 0 {
		body.Prio = fmt.Sprintf("%d", opts.Priority)
	}

	// A root record leaves the final path segment empty; the API accepts
	// the trailing slash.
	path := "/dns/editByNameType/" + domainName + "/" + string(recordType) + "/" + subdomain

	target := domain.TargetName(subdomain, domainName)
	var out porkbunResponse
	if err := p.post(ctx, path, body, &out); err != nil {
		return fmt.Errorf("failed to update %s record %q for %q: %w", recordType, target, domainName, err)
	}
	if err := mapAPIError(out.err()); err != nil {
		return fmt.Errorf("failed to update %s record %q for %q: %w", recordType, target, domainName, err)
	}

	p.log.V(1).Info("updated record", "domain", domainName, "type", recordType, "name", target)
	return nil
}

// DeleteRecord deletes a DNS record by its ID.
func (p *PorkbunProvider) DeleteRecord(ctx context.Context, domainName string, id string) error {
	var out porkbunResponse
	if err := p.post(ctx, "/dns/delete/"+domainName+"/"+id, p.authBody(), &out); err != nil {
		return fmt.Errorf("failed to delete record %q for %q: %w", id, domainName, err)
	}
	if err := mapAPIError(out.err()); err != nil {
		return fmt.Errorf("failed to delete record %q for %q: %w", id, domainName, err)
	}

	p.log.V(1).Info("deleted record", "domain", domainName, "id", id)
	return nil
}

// Ping verifies the credentials and returns the caller's public IP.
func (p *PorkbunProvider) Ping(ctx context.Context) (string, error) {
	type response struct {
		porkbunResponse
		YourIP string `json:"yourIp"`
	}

	var out response
	if err := p.post(ctx, "/ping", p.authBody(), &out); err != nil {
		return "", fmt.Errorf("failed to ping porkbun: %w", err)
	}
	if err := mapAPIError(out.err()); err != nil {
		return "", fmt.Errorf("failed to ping porkbun: %w", err)
	}
	if out.YourIP == "" {
		return "", fmt.Errorf("failed to ping porkbun: %w: response missing yourIp field", domain.ErrAPI)
	}

	return out.YourIP, nil
}

// --- Conversion helpers ---

// toDomainRecord converts a Porkbun API record to a domain.Record.
func toDomainRecord(domainName string, r porkbunDomainRecord) domain.Record {
	ttl := parseInt(r.TTL)
	prio := parseInt(r.Prio)

	return domain.Record{
		ID:       r.ID,
		Domain:   domainName,
		Name:     r.Name,
		Type:     domain.RecordType(r.Type),
		Content:  r.Content,
		TTL:      ttl,
		Priority: prio,
		Notes:    r.Notes,
	}
}

// parseInt converts a string to int, returning 0 on failure. Values with
// leading zeros ("0600") parse as decimal.
func parseInt(s string) int {
	if s == "" {
		return 0
	}
	var n int
	fmt.Sscanf(s, "%d", &n)
	return n
}
