// Package specfile loads the desired state of a DNS record from a YAML
// file, the -f argument to pbrec apply. A file describes exactly one
// record; flags given on the command line take precedence over file
// values when both are present.
package specfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
	"nathanbeddoewebdev/pbrec/internal/dns/domain"
	"nathanbeddoewebdev/pbrec/internal/services/auth"
)

// Spec is the parsed content of a record file.
type Spec struct {
	Record domain.DesiredRecord

	// Credentials is zero unless the file carries an api_key and
	// secret_api_key pair of its own.
	Credentials auth.Credentials
}

// HasCredentials reports whether the file supplied its own credential pair.
func (s Spec) HasCredentials() bool {
	return s.Credentials.APIKey != "" && s.Credentials.SecretAPIKey != ""
}

type file struct {
	Domain  string  `yaml:"domain"`
	Type    string  `yaml:"type"`
	Name    string  `yaml:"name"`
	Content string  `yaml:"content"`
	TTL     flexInt `yaml:"ttl"`
	Prio    flexInt `yaml:"prio"`
	State   string  `yaml:"state"`
	Notes   string  `yaml:"notes"`

	APIKey       string `yaml:"api_key"`
	SecretAPIKey string `yaml:"secret_api_key"`
}

// flexInt accepts a YAML integer or a numeric string. The raw scalar text
// is parsed as decimal, so ttl: 0600 is six hundred whether quoted or not,
// never octal.
type flexInt int

func (f *flexInt) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected a number, got %s", nodeKind(value.Kind))
	}
	n, err := strconv.Atoi(strings.TrimSpace(value.Value))
	if err != nil {
		return fmt.Errorf("%q is not an integer", value.Value)
	}
	*f = flexInt(n)
	return nil
}

func nodeKind(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "a list"
	case yaml.MappingNode:
		return "a mapping"
	default:
		return "an unexpected value"
	}
}

// Load reads and parses a record file. Field values are carried through
// as written; normalization and validation happen when the record is
// applied. Unknown keys are rejected so a typo like "contnet" fails
// loudly instead of silently applying an empty record.
func Load(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("failed to read record file: %w", err)
	}

	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Spec{}, fmt.Errorf("%w: record file %s is empty", domain.ErrValidation, path)
		}
		return Spec{}, fmt.Errorf("failed to parse record file %s: %w", path, err)
	}

	if (f.APIKey == "") != (f.SecretAPIKey == "") {
		return Spec{}, fmt.Errorf("%w: record file must set both api_key and secret_api_key, or neither", domain.ErrValidation)
	}

	return Spec{
		Record: domain.DesiredRecord{
			Domain:   f.Domain,
			Type:     domain.RecordType(f.Type),
			Name:     f.Name,
			Content:  f.Content,
			TTL:      int(f.TTL),
			Priority: int(f.Prio),
			Notes:    f.Notes,
			State:    domain.State(f.State),
		},
		Credentials: auth.Credentials{
			APIKey:       f.APIKey,
			SecretAPIKey: f.SecretAPIKey,
		},
	}, nil
}
