package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// ExternalIdentity is what an identity provider vouches for.
type ExternalIdentity struct {
	UID   string
	Email string
	Name  string
	Phone string
}

// IdentityProvider verifies ID tokens minted by an external provider.
type IdentityProvider interface {
	VerifyIDToken(ctx context.Context, idToken string) (*ExternalIdentity, error)
}

// FirebaseProvider verifies Firebase ID tokens with the Admin SDK
type FirebaseProvider struct {
	client *fbauth.Client
}

// NewFirebaseProvider initializes the Admin SDK from a service account file.
// An empty credentialsFile falls back to application default credentials.
func NewFirebaseProvider(ctx context.Context, projectID, credentialsFile string) (*FirebaseProvider, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
	}
	return &FirebaseProvider{client: client}, nil
}

func (p *FirebaseProvider) VerifyIDToken(ctx context.Context, idToken string) (*ExternalIdentity, error) {
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	claim := func(name string) string {
		v, _ := token.Claims[name].(string)
		return v
	}
	return &ExternalIdentity{
		UID:   token.UID,
		Email: claim("email"),
		Name:  claim("name"),
		Phone: claim("phone_number"),
	}, nil
}

var _ IdentityProvider = (*FirebaseProvider)(nil)
