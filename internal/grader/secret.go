package grader

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoCredential means the provider credential could not be resolved.
// The credential is looked up per call so a rotated secret takes effect
// without a restart.
var ErrNoCredential = errors.New("provider credential is not configured")

// SecretSource resolves the model provider credential at call time.
type SecretSource interface {
	APIKey() (string, error)
}

type envSecretSource struct {
	name string
}

// NewEnvSecretSource reads the credential from the named environment
// variable on every call.
func NewEnvSecretSource(name string) SecretSource {
	return &envSecretSource{name: name}
}

func (s *envSecretSource) APIKey() (string, error) {
	key := strings.TrimSpace(os.Getenv(s.name))
	if key == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNoCredential, s.name)
	}
	return key, nil
}

type fileSecretSource struct {
	path string
}

// NewFileSecretSource reads the credential from a mounted secret file,
// the shape used by container secret volumes.
func NewFileSecretSource(path string) SecretSource {
	return &fileSecretSource{path: path}
}

func (s *fileSecretSource) APIKey() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrNoCredential, s.path, err)
	}
	key := strings.TrimSpace(string(raw))
	if key == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNoCredential, s.path)
	}
	return key, nil
}
