package auth

import (
	"errors"
	"fmt"
	"os"

	"nathanbeddoewebdev/pbrec/internal/util"
)

const ServiceName = "pbrec"

// Keychain entry names and environment fallbacks for the Porkbun API
// credential pair.
const (
	KeyAPIKey       = "porkbun-apikey"
	KeySecretAPIKey = "porkbun-secretapikey"

	EnvAPIKey       = "PORKBUN_API_KEY"
	EnvSecretAPIKey = "PORKBUN_SECRET_API_KEY"
)

var ErrTokenNotFound = errors.New("auth token not found")

type Store interface {
	SetToken(key string, token string) error
	GetToken(key string) (string, error)
	DeleteToken(key string) error
}

// DefaultStore returns the standard auth store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeKey normalizes a credential key name for consistent lookup.
func NormalizeKey(key string) string {
	return util.NormalizeKey(key)
}

// Credentials holds the Porkbun API credential pair. Both values are
// sensitive: they travel only in request bodies and must never be logged
// or included in error text.
type Credentials struct {
	APIKey       string
	SecretAPIKey string
}

// String implements fmt.Stringer so accidental formatting of a Credentials
// value prints no secret material.
func (c Credentials) String() string {
	return "auth.Credentials{<redacted>}"
}

// ResolveCredentials returns the API credential pair, preferring the
// keychain and falling back to the environment per key.
func ResolveCredentials(store Store) (Credentials, error) {
	apiKey, err := ResolveKey(store, KeyAPIKey, EnvAPIKey)
	if err != nil {
		return Credentials{}, fmt.Errorf("porkbun auth: api key not found (run 'pbrec auth login' or set %s): %w", EnvAPIKey, err)
	}

	secretKey, err := ResolveKey(store, KeySecretAPIKey, EnvSecretAPIKey)
	if err != nil {
		return Credentials{}, fmt.Errorf("porkbun auth: secret api key not found (run 'pbrec auth login' or set %s): %w", EnvSecretAPIKey, err)
	}

	return Credentials{APIKey: apiKey, SecretAPIKey: secretKey}, nil
}

// ResolveKey looks up a single credential, keychain first, environment
// second. A broken keychain backend (headless hosts without a keyring
// daemon) still falls through to the environment; its error surfaces only
// when the environment has nothing either.
func ResolveKey(store Store, key, envVar string) (string, error) {
	token, err := store.GetToken(key)
	if err == nil && token != "" {
		return token, nil
	}

	if v := os.Getenv(envVar); v != "" {
		return v, nil
	}

	if err != nil && !errors.Is(err, ErrTokenNotFound) {
		return "", err
	}
	return "", ErrTokenNotFound
}
