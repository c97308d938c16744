package auth

import (
	"errors"
	"os"
)

// CredentialKey describes a single credential field the API requires.
type CredentialKey struct {
	// Key is the keychain entry name the value is stored under.
	Key string

	// EnvVar is the environment variable consulted when the keychain
	// has no entry.
	EnvVar string

	// Prompt is the human-readable label shown when prompting the user.
	Prompt string

	// Secret controls whether the input should be masked.
	Secret bool
}

// CredentialKeys lists the credentials 'auth login' must collect, in
// prompt order.
func CredentialKeys() []CredentialKey {
	return []CredentialKey{
		{Key: KeyAPIKey, EnvVar: EnvAPIKey, Prompt: "API Key", Secret: true},
		{Key: KeySecretAPIKey, EnvVar: EnvSecretAPIKey, Prompt: "Secret API Key", Secret: true},
	}
}

// Source values reported by KeySource.
const (
	SourceKeychain    = "keychain"
	SourceEnvironment = "environment"
	SourceNotSet      = "not set"
)

// KeySource reports where a credential currently resolves from, following
// the same precedence as ResolveCredentials.
func KeySource(store Store, k CredentialKey) (string, error) {
	token, err := store.GetToken(k.Key)
	if err == nil && token != "" {
		return SourceKeychain, nil
	}
	if os.Getenv(k.EnvVar) != "" {
		return SourceEnvironment, nil
	}
	if err != nil && !errors.Is(err, ErrTokenNotFound) {
		return "", err
	}
	return SourceNotSet, nil
}
