package tui

import (
	"errors"
	"os"
	"strings"

	"nathanbeddoewebdev/pbrec/internal/services/auth"

	"github.com/charmbracelet/huh"
)

// LoginForm collects the Porkbun API credential pair with masked inputs.
// Returns ErrAborted when the user cancels.
func LoginForm() (auth.Credentials, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	var creds auth.Credentials
	targets := map[string]*string{
		auth.KeyAPIKey:       &creds.APIKey,
		auth.KeySecretAPIKey: &creds.SecretAPIKey,
	}

	keys := auth.CredentialKeys()
	fields := make([]huh.Field, 0, len(keys))
	for _, key := range keys {
		input := huh.NewInput().
			Title(key.Prompt).
			Value(targets[key.Key]).
			Validate(requiredField(key.Prompt))
		if key.Secret {
			input = input.EchoMode(huh.EchoModePassword)
		}
		fields = append(fields, input)
	}

	group := huh.NewGroup(fields...).
		Title("Porkbun API credentials").
		Description("Keys are created under Account > API Access on porkbun.com.")

	if err := runForm(accessible, group); err != nil {
		return auth.Credentials{}, err
	}

	creds.APIKey = strings.TrimSpace(creds.APIKey)
	creds.SecretAPIKey = strings.TrimSpace(creds.SecretAPIKey)
	return creds, nil
}

func requiredField(label string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.New(strings.ToLower(label) + " is required")
		}
		return nil
	}
}
