package credentials

import (
	"errors"
	"fmt"
	"os"
)

// ErrNotFound is returned when no provider holds the requested credential.
var ErrNotFound = errors.New("credential not found")

// Provider defines the interface for credential providers
type Provider interface {
	GetCredential(key string) (string, error)
}

// EnvProvider retrieves credentials from environment variables
type EnvProvider struct{}

func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

func (p *EnvProvider) GetCredential(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return value, nil
}

// StaticProvider serves credentials from a fixed map, typically the
// configuration file.
type StaticProvider struct {
	credentials map[string]string
}

func NewStaticProvider(creds map[string]string) *StaticProvider {
	copied := make(map[string]string, len(creds))
	for k, v := range creds {
		copied[k] = v
	}
	return &StaticProvider{
		credentials: copied,
	}
}

func (p *StaticProvider) GetCredential(key string) (string, error) {
	value, ok := p.credentials[key]
	if !ok || value == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return value, nil
}

// Chain asks each provider in turn and returns the first hit.
type Chain []Provider

func (c Chain) GetCredential(key string) (string, error) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if v, err := p.GetCredential(key); err == nil {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, key)
}
