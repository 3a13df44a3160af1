package auth

import (
	"context"
	"errors"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
)

var (
	ErrNoCredential    = errors.New("no credential supplied")
	ErrUnauthenticated = errors.New("credential not accepted")
)

// Identity is the resolved caller attached to a request.
type Identity struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func identityOf(user *models.User) *Identity {
	return &Identity{UserID: user.ID, Role: user.Role, Email: user.Email, Name: user.Name}
}

// Credentials are the places a request may carry a token.
type Credentials struct {
	Cookie string
	Bearer string
	Query  string
}

// Local is the first non-empty credential in cookie, header, query order.
func (c Credentials) Local() string {
	for _, v := range []string{c.Cookie, c.Bearer, c.Query} {
		if v != "" {
			return v
		}
	}
	return ""
}

func (c Credentials) empty() bool {
	return c.Local() == ""
}

// UserLookup is the slice of storage the verifiers need
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
}

// Verifier turns credentials into an identity or fails.
type Verifier interface {
	Verify(ctx context.Context, creds Credentials) (*Identity, error)
}

// LocalVerifier accepts tokens signed by TokenService for users that still exist.
type LocalVerifier struct {
	tokens *TokenService
	users  UserLookup
}

func NewLocalVerifier(tokens *TokenService, users UserLookup) *LocalVerifier {
	return &LocalVerifier{tokens: tokens, users: users}
}

func (v *LocalVerifier) Verify(ctx context.Context, creds Credentials) (*Identity, error) {
	raw := creds.Local()
	if raw == "" {
		return nil, ErrNoCredential
	}
	claims, err := v.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	user, err := v.users.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	return identityOf(user), nil
}

// ExternalVerifier accepts bearer ID tokens from an identity provider for
// users linked to the provider's uid.
type ExternalVerifier struct {
	provider IdentityProvider
	users    UserLookup
}

// NewExternalVerifier returns nil when provider is nil, so the resolver skips it.
func NewExternalVerifier(provider IdentityProvider, users UserLookup) Verifier {
	if provider == nil {
		return nil
	}
	return &ExternalVerifier{provider: provider, users: users}
}

func (v *ExternalVerifier) Verify(ctx context.Context, creds Credentials) (*Identity, error) {
	if creds.Bearer == "" {
		return nil, ErrNoCredential
	}
	ext, err := v.provider.VerifyIDToken(ctx, creds.Bearer)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	user, err := v.users.GetUserByFirebaseUID(ctx, ext.UID)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	return identityOf(user), nil
}

// Resolver tries verifiers in order; the first success wins.
type Resolver struct {
	verifiers []Verifier
}

// NewResolver drops nil verifiers.
func NewResolver(verifiers ...Verifier) *Resolver {
	r := &Resolver{}
	for _, v := range verifiers {
		if v != nil {
			r.verifiers = append(r.verifiers, v)
		}
	}
	return r
}

// Resolve fails with ErrNoCredential before consulting any verifier when
// the request carries nothing at all.
func (r *Resolver) Resolve(ctx context.Context, creds Credentials) (*Identity, error) {
	if creds.empty() {
		return nil, ErrNoCredential
	}
	for _, v := range r.verifiers {
		if id, err := v.Verify(ctx, creds); err == nil {
			return id, nil
		}
	}
	return nil, ErrUnauthenticated
}
