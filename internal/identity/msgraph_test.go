package identity_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huskymart/huskymart/internal/identity"
)

// fakeIdentityPlatform stands in for the device-code and token endpoints
// plus the Graph profile endpoint.
type fakeIdentityPlatform struct {
	pendingPolls atomic.Int32 // token polls answered "pending" before success
	profile      string
	tokenIssued  atomic.Int32
}

func (f *fakeIdentityPlatform) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/devicecode":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "client-123", r.PostForm.Get("client_id"))
			_, _ = w.Write([]byte(`{
				"device_code": "dev-1",
				"user_code": "ABCD-1234",
				"verification_uri": "https://microsoft.com/devicelogin",
				"expires_in": 900,
				"interval": 0
			}`))
		case "/token":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "dev-1", r.PostForm.Get("device_code"))
			if f.pendingPolls.Add(-1) >= 0 {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error": "authorization_pending"}`))
				return
			}
			f.tokenIssued.Add(1)
			_, _ = w.Write([]byte(`{"access_token": "tok-1", "expires_in": 3600}`))
		case "/me":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(f.profile))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}
}

func newTestProvider(t *testing.T, fake *fakeIdentityPlatform) *identity.GraphProvider {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	return identity.NewGraphProvider("client-123",
		identity.WithAuthority(srv.URL),
		identity.WithGraphURL(srv.URL+"/me"),
		identity.WithPollInterval(time.Millisecond),
	)
}

func TestGraphProvider_Authenticate(t *testing.T) {
	t.Parallel()

	fake := &fakeIdentityPlatform{profile: `{"displayName": "Alice", "mail": "a@x.com"}`}
	fake.pendingPolls.Store(2)

	p := newTestProvider(t, fake)

	id, err := p.Authenticate(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Alice", id.DisplayName)
	assert.Equal(t, "a@x.com", id.Email)
}

func TestGraphProvider_TokenIsCached(t *testing.T) {
	t.Parallel()

	fake := &fakeIdentityPlatform{profile: `{"displayName": "Alice", "mail": "a@x.com"}`}
	p := newTestProvider(t, fake)

	_, err := p.Authenticate(t.Context())
	require.NoError(t, err)
	_, err = p.Authenticate(t.Context())
	require.NoError(t, err)

	assert.Equal(t, int32(1), fake.tokenIssued.Load(), "second sign-in reuses the cached token")
}

func TestGraphProvider_SignOutDropsToken(t *testing.T) {
	t.Parallel()

	fake := &fakeIdentityPlatform{profile: `{"displayName": "Alice", "mail": "a@x.com"}`}
	p := newTestProvider(t, fake)

	_, err := p.Authenticate(t.Context())
	require.NoError(t, err)

	require.NoError(t, p.SignOut(t.Context()))

	_, err = p.Authenticate(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int32(2), fake.tokenIssued.Load(), "sign-out must force a fresh flow")
}

func TestGraphProvider_PrincipalNameFallback(t *testing.T) {
	t.Parallel()

	fake := &fakeIdentityPlatform{profile: `{"displayName": "Bob", "mail": "", "userPrincipalName": "b@x.com"}`}
	p := newTestProvider(t, fake)

	id, err := p.Authenticate(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", id.Email)
}

func TestGraphProvider_DeniedConsent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/devicecode":
			_, _ = w.Write([]byte(`{"device_code": "dev-1", "user_code": "X", "verification_uri": "u", "expires_in": 900, "interval": 0}`))
		case "/token":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "access_denied", "error_description": "user declined"}`))
		}
	}))
	t.Cleanup(srv.Close)

	p := identity.NewGraphProvider("client-123",
		identity.WithAuthority(srv.URL),
		identity.WithGraphURL(srv.URL+"/me"),
	)

	_, err := p.Authenticate(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
}
