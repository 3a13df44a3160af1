package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
)

type fakeUsers struct {
	byID  map[string]*models.User
	byUID map[string]*models.User
}

var errMissing = errors.New("missing")

func (f *fakeUsers) GetUser(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, errMissing
}

func (f *fakeUsers) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	if u, ok := f.byUID[uid]; ok {
		return u, nil
	}
	return nil, errMissing
}

type fakeProvider struct {
	tokens map[string]*ExternalIdentity
	calls  int
}

func (p *fakeProvider) VerifyIDToken(ctx context.Context, idToken string) (*ExternalIdentity, error) {
	p.calls++
	if id, ok := p.tokens[idToken]; ok {
		return id, nil
	}
	return nil, errors.New("bad token")
}

func setupResolver(t *testing.T) (*Resolver, *TokenService, *fakeProvider, *models.User, *models.User) {
	t.Helper()
	local := &models.User{ID: models.NewID(), Name: "Local", Email: "local@example.com", Role: models.RoleAdmin}
	uid := "fb-1"
	external := &models.User{ID: models.NewID(), Name: "Ext", Email: "ext@example.com", Role: models.RoleCustomer, FirebaseUID: &uid}
	users := &fakeUsers{
		byID:  map[string]*models.User{local.ID: local, external.ID: external},
		byUID: map[string]*models.User{uid: external},
	}
	tokens := NewTokenService("secret", time.Hour)
	provider := &fakeProvider{tokens: map[string]*ExternalIdentity{"firebase-token": {UID: uid}}}
	r := NewResolver(NewLocalVerifier(tokens, users), NewExternalVerifier(provider, users))
	return r, tokens, provider, local, external
}

func TestResolver_LocalTokenSources(t *testing.T) {
	r, tokens, _, local, _ := setupResolver(t)
	token, err := tokens.Issue(local)
	require.NoError(t, err)

	for name, creds := range map[string]Credentials{
		"cookie": {Cookie: token},
		"bearer": {Bearer: token},
		"query":  {Query: token},
	} {
		t.Run(name, func(t *testing.T) {
			id, err := r.Resolve(context.Background(), creds)
			require.NoError(t, err)
			assert.Equal(t, local.ID, id.UserID)
			assert.Equal(t, models.RoleAdmin, id.Role)
			assert.Equal(t, "local@example.com", id.Email)
		})
	}
}

func TestResolver_FallsBackToExternal(t *testing.T) {
	r, _, provider, _, external := setupResolver(t)

	id, err := r.Resolve(context.Background(), Credentials{Bearer: "firebase-token"})
	require.NoError(t, err)
	assert.Equal(t, external.ID, id.UserID)
	assert.Equal(t, 1, provider.calls)
}

func TestResolver_LocalTokenForDeletedUserFallsThrough(t *testing.T) {
	r, tokens, provider, _, _ := setupResolver(t)
	token, err := tokens.Issue(&models.User{ID: models.NewID(), Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), Credentials{Bearer: token})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, 1, provider.calls)
}

func TestResolver_NoCredentialSkipsProviders(t *testing.T) {
	r, _, provider, _, _ := setupResolver(t)

	_, err := r.Resolve(context.Background(), Credentials{})
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.Zero(t, provider.calls)
}

func TestResolver_ExternalUsesBearerOnly(t *testing.T) {
	r, _, provider, _, _ := setupResolver(t)

	_, err := r.Resolve(context.Background(), Credentials{Cookie: "firebase-token"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Zero(t, provider.calls)
}

func TestResolver_NilProviderIsSkipped(t *testing.T) {
	users := &fakeUsers{}
	r := NewResolver(NewLocalVerifier(NewTokenService("s", time.Hour), users), NewExternalVerifier(nil, users))
	assert.Len(t, r.verifiers, 1)

	_, err := r.Resolve(context.Background(), Credentials{Bearer: "garbage"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
