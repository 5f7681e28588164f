package firebase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/internal/config"
	"github.com/aicuratorhub/curatorhub-admin/pkg/database"
)

// ClientFactory opens a Firestore client from resolved credentials.
type ClientFactory func(ctx context.Context, creds *Credentials, projectID string) (*firestore.Client, error)

// NewFirestoreClient initializes the Firebase app and returns its Firestore client.
func NewFirestoreClient(ctx context.Context, creds *Credentials, projectID string) (*firestore.Client, error) {
	var appConfig *firebase.Config
	if projectID != "" {
		appConfig = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, appConfig, creds.Option())
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}
	return client, nil
}

// ClientProvider hands out one Firestore client per process, created on first use.
// A failed initialization is remembered and reported as database.ErrUnavailable
// until Reset or Reconnect.
type ClientProvider struct {
	sources   []CredentialSource
	projectID string
	factory   ClientFactory
	logger    *zap.Logger
	// closeClient releases a replaced or closed client.
	closeClient func(*firestore.Client) error

	mu     sync.Mutex
	client *firestore.Client
	source string
	err    error
}

// NewClientProvider creates a provider that tries sources in order.
func NewClientProvider(logger *zap.Logger, projectID string, factory ClientFactory, sources ...CredentialSource) *ClientProvider {
	if factory == nil {
		factory = NewFirestoreClient
	}
	return &ClientProvider{
		sources:     sources,
		projectID:   projectID,
		factory:     factory,
		logger:      logger,
		closeClient: (*firestore.Client).Close,
	}
}

// SourcesFromConfig builds the credential chain: secrets file, environment JSON, key files.
func SourcesFromConfig(cfg *config.Config) []CredentialSource {
	return []CredentialSource{
		SecretsFileSource{Path: cfg.FirebaseSecretsFile},
		EnvJSONSource{JSON: cfg.FirebaseServiceAccountKeyJSON, Base64: cfg.FirebaseServiceAccountJSONBase64},
		FileSource{Path: cfg.FirebaseServiceAccountKeyPath, Candidates: cfg.KeySearchPaths()},
	}
}

// Client returns the shared client, initializing it on the first call.
func (p *ClientProvider) Client(ctx context.Context) (*firestore.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	if p.err != nil {
		return nil, p.err
	}
	p.client, p.source, p.err = p.init(context.WithoutCancel(ctx))
	return p.client, p.err
}

// Reset forgets a remembered initialization failure so the next Client call
// resolves credentials again. A working client is kept.
func (p *ClientProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = nil
}

// Reconnect resolves credentials and opens a new client now. On success the
// previous client is closed; on failure a working previous client stays in use.
func (p *ClientProvider) Reconnect(ctx context.Context) error {
	p.mu.Lock()
	client, source, err := p.init(context.WithoutCancel(ctx))
	if err != nil {
		if p.client == nil {
			p.err = err
		}
		p.mu.Unlock()
		return err
	}
	old := p.client
	p.client, p.source, p.err = client, source, nil
	p.mu.Unlock()

	if old != nil {
		if err := p.closeClient(old); err != nil {
			p.logger.Warn("Failed to close replaced Firestore client", zap.Error(err))
		}
	}
	return nil
}

func (p *ClientProvider) init(ctx context.Context) (*firestore.Client, string, error) {
	creds, err := ResolveCredentials(p.sources...)
	if err != nil {
		if errors.Is(err, ErrMalformedCredentials) {
			p.logger.Error("Firebase credentials are malformed; Firestore disabled", zap.Error(err))
		} else {
			p.logger.Error("Firebase credentials not found; Firestore disabled", zap.Error(err))
		}
		return nil, "", fmt.Errorf("%w: %w", database.ErrUnavailable, err)
	}

	client, err := p.factory(ctx, creds, p.projectID)
	if err != nil {
		p.logger.Error("Failed to initialize Firestore client", zap.String("source", creds.Source), zap.Error(err))
		return nil, "", fmt.Errorf("%w: %w", database.ErrUnavailable, err)
	}
	p.logger.Info("Firestore client initialized", zap.String("source", creds.Source))
	return client, creds.Source, nil
}

// Source names the credential source that produced the client, empty while
// no client is open.
func (p *ClientProvider) Source() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

// Connected reports whether a client is open.
func (p *ClientProvider) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.client != nil
}

// Close releases the client if one was created.
func (p *ClientProvider) Close() error {
	p.mu.Lock()
	client := p.client
	p.client, p.source = nil, ""
	p.mu.Unlock()
	if client == nil {
		return nil
	}
	return p.closeClient(client)
}
