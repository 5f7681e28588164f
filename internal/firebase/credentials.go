package firebase

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"google.golang.org/api/option"
)

var (
	// ErrNoCredentials means no source produced a service account key.
	ErrNoCredentials = errors.New("firebase service account key not found")
	// ErrMalformedCredentials means a source produced a key that is not a JSON object.
	ErrMalformedCredentials = errors.New("firebase service account key is not valid JSON")
)

// SecretsKey is the key looked up in the hosting platform secrets file.
const SecretsKey = "FIREBASE_SERVICE_ACCOUNT_KEY_JSON"

// Credentials is a resolved service account key.
type Credentials struct {
	Source string
	JSON   []byte
	File   string
}

// Option converts the credentials into a Google API client option.
func (c *Credentials) Option() option.ClientOption {
	if c.File != "" {
		return option.WithCredentialsFile(c.File)
	}
	return option.WithCredentialsJSON(c.JSON)
}

// CredentialSource yields credentials, or nil without error when it has nothing configured.
type CredentialSource interface {
	Name() string
	Resolve() (*Credentials, error)
}

// ResolveCredentials walks sources in order and returns the first hit.
// A malformed key stops the walk.
func ResolveCredentials(sources ...CredentialSource) (*Credentials, error) {
	for _, src := range sources {
		creds, err := src.Resolve()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name(), err)
		}
		if creds != nil {
			return creds, nil
		}
	}
	return nil, ErrNoCredentials
}

func checkJSON(data []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedCredentials, err)
	}
	return nil
}

// SecretsFileSource reads the key from a TOML, YAML or JSON secrets file.
// The value may be a JSON string or a table.
type SecretsFileSource struct {
	Path string
}

func (s SecretsFileSource) Name() string { return "secrets file" }

func (s SecretsFileSource) Resolve() (*Credentials, error) {
	if s.Path == "" {
		return nil, nil
	}
	if _, err := os.Stat(s.Path); err != nil {
		return nil, nil
	}

	v := viper.New()
	v.SetConfigFile(s.Path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	if !v.IsSet(SecretsKey) {
		return nil, nil
	}

	var raw []byte
	switch val := v.Get(SecretsKey).(type) {
	case string:
		if val == "" {
			return nil, nil
		}
		raw = []byte(val)
	case map[string]any:
		encoded, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCredentials, err)
		}
		raw = encoded
	default:
		return nil, fmt.Errorf("%w: unexpected %T", ErrMalformedCredentials, val)
	}
	if err := checkJSON(raw); err != nil {
		return nil, err
	}
	return &Credentials{Source: s.Name(), JSON: raw}, nil
}

// EnvJSONSource takes the key from environment-provided JSON, raw first, then base64.
type EnvJSONSource struct {
	JSON   string
	Base64 string
}

func (s EnvJSONSource) Name() string { return "environment" }

func (s EnvJSONSource) Resolve() (*Credentials, error) {
	if s.JSON != "" {
		if err := checkJSON([]byte(s.JSON)); err != nil {
			return nil, err
		}
		return &Credentials{Source: s.Name(), JSON: []byte(s.JSON)}, nil
	}
	if s.Base64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(s.Base64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64: %v", ErrMalformedCredentials, err)
		}
		if err := checkJSON(decoded); err != nil {
			return nil, err
		}
		return &Credentials{Source: s.Name(), JSON: decoded}, nil
	}
	return nil, nil
}

// FileSource probes the explicit path, then each candidate, and uses the first file that exists.
type FileSource struct {
	Path       string
	Candidates []string
}

func (s FileSource) Name() string { return "key file" }

func (s FileSource) Resolve() (*Credentials, error) {
	paths := s.Candidates
	if s.Path != "" {
		paths = append([]string{s.Path}, s.Candidates...)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		if err := checkJSON(data); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		return &Credentials{Source: s.Name(), File: p}, nil
	}
	return nil, nil
}
