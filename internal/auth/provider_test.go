package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/client"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/config"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/logger"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/session"
)

var u1 = session.User{ID: "u1", Nom: "Ben Ali", Prenom: "Sami", Email: "a@b.com", Role: "CLIENT"}

type fixture struct {
	provider *Provider
	mem      *session.MemoryStorage
	store    *session.Store
	nav      *client.History
	api      *client.Client

	verifyStatus atomic.Int32
	logoutCalls  atomic.Int32
	lastAuth     atomic.Value
}

func newFixture(t *testing.T, location string) *fixture {
	t.Helper()
	f := &fixture{}
	f.verifyStatus.Store(http.StatusOK)
	f.lastAuth.Store("")

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body client.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"bad creds"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"token": "t1", "user": u1})
	})
	mux.HandleFunc("GET /api/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		status := int(f.verifyStatus.Load())
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"valid":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"message":"Token invalide"}`))
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.logoutCalls.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"expired"}`))
	})
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"products":[],"pagination":{"page":1,"limit":12,"total":0,"totalPages":0}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	f.mem = session.NewMemoryStorage()
	f.store = session.NewStore(f.mem)
	f.nav = client.NewHistory(location)
	f.api = client.New(client.WithBaseURL(srv.URL))
	f.provider = NewProvider(f.api, f.store, f.nav,
		WithLogger(logger.Discard()),
		WithConfig(config.ClientConfig{LoginTimeout: 2 * time.Second, VerifyTimeout: 2 * time.Second}),
	)
	t.Cleanup(f.provider.Unmount)
	return f
}

func TestProvider_StartsBootstrapping(t *testing.T) {
	f := newFixture(t, "/")
	st := f.provider.State()
	assert.Equal(t, StatusBootstrapping, st.Status)
	assert.True(t, st.Loading)
	assert.Nil(t, st.User)
}

func TestProvider_LoginRoundTrip(t *testing.T) {
	f := newFixture(t, "/login")
	f.provider.Mount(context.Background())

	require.NoError(t, f.provider.Login(context.Background(), "a@b.com", "pw"))

	st := f.provider.State()
	assert.Equal(t, StatusAuthenticated, st.Status)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.Equal(t, "t1", st.Token)
	require.NotNil(t, st.User)
	assert.Equal(t, u1, *st.User)

	tok, ok, _ := f.mem.GetItem(session.KeyToken)
	require.True(t, ok)
	assert.Equal(t, "t1", tok)
	raw, ok, _ := f.mem.GetItem(session.KeyUser)
	require.True(t, ok)
	want, _ := json.Marshal(u1)
	assert.JSONEq(t, string(want), raw)
}

func TestProvider_LoginFailureLeavesAnonymous(t *testing.T) {
	f := newFixture(t, "/login")
	f.provider.Mount(context.Background())

	err := f.provider.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))
	assert.Equal(t, "bad creds", err.Error())

	st := f.provider.State()
	assert.Equal(t, StatusAnonymous, st.Status)
	assert.Equal(t, "bad creds", st.Error)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Token)
	assert.Nil(t, st.User)
	assert.Zero(t, f.mem.Len())
}

func TestProvider_FailedReloginKeepsStoredSession(t *testing.T) {
	f := newFixture(t, "/login")
	f.provider.Mount(context.Background())
	require.NoError(t, f.provider.Login(context.Background(), "a@b.com", "pw"))

	err := f.provider.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))

	st := f.provider.State()
	assert.Equal(t, StatusAuthenticated, st.Status)
	assert.Equal(t, "bad creds", st.Error)
	assert.False(t, st.Loading)
	assert.Equal(t, "t1", st.Token)

	sess, err := f.store.Read()
	require.NoError(t, err)
	assert.Equal(t, "t1", sess.Token)
	assert.Equal(t, u1, sess.User)
}

func TestProvider_LoginNetworkFailureUsesFallbackMessage(t *testing.T) {
	api := client.New(client.WithBaseURL("http://127.0.0.1:1"))
	p := NewProvider(api, session.NewStore(session.NewMemoryStorage()), client.NewHistory("/"),
		WithLogger(logger.Discard()))

	err := p.Login(context.Background(), "a@b.com", "pw")
	require.Error(t, err)
	assert.Equal(t, DefaultLoginError, err.Error())
	assert.Equal(t, DefaultLoginError, p.State().Error)
}

func TestProvider_RestoreAccepted(t *testing.T) {
	f := newFixture(t, "/")
	require.NoError(t, f.store.Save("t1", u1))

	st := f.provider.Mount(context.Background())
	assert.True(t, st.Authenticated())
	assert.Equal(t, "t1", st.Token)
	assert.False(t, st.Loading)
}

func TestProvider_RestoreThenReject(t *testing.T) {
	f := newFixture(t, "/")
	require.NoError(t, f.store.Save("t1", u1))
	f.verifyStatus.Store(http.StatusUnauthorized)

	st := f.provider.Mount(context.Background())
	assert.Equal(t, StatusAnonymous, st.Status)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error, "bootstrap failures are silent")
	assert.Zero(t, f.mem.Len())
}

func TestProvider_RestoreCorruptUser(t *testing.T) {
	f := newFixture(t, "/")
	require.NoError(t, f.mem.SetItem(session.KeyToken, "t1"))
	require.NoError(t, f.mem.SetItem(session.KeyUser, "{broken"))
	require.NoError(t, f.mem.SetItem(session.KeyVersion, session.SchemaVersion))

	st := f.provider.Mount(context.Background())
	assert.Equal(t, StatusAnonymous, st.Status)
	assert.Zero(t, f.mem.Len())
}

func TestProvider_UnauthorizedOnDashboard(t *testing.T) {
	f := newFixture(t, "/")
	require.NoError(t, f.store.Save("t1", u1))
	f.provider.Mount(context.Background())
	require.True(t, f.provider.State().Authenticated())

	f.nav.Navigate("/dashboard/users")
	_, err := f.api.Users(context.Background())
	apiErr, ok := client.AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsUnauthorized())

	assert.Equal(t, "Bearer t1", f.lastAuth.Load())
	assert.Zero(t, f.mem.Len())
	assert.Equal(t, StatusAnonymous, f.provider.State().Status)
	assert.Equal(t, "/login", f.nav.Location())
}

func TestProvider_UnauthorizedOffDashboardKeepsSession(t *testing.T) {
	f := newFixture(t, "/produits")
	require.NoError(t, f.store.Save("t1", u1))
	f.provider.Mount(context.Background())

	_, err := f.api.Users(context.Background())
	require.Error(t, err)

	assert.True(t, f.provider.State().Authenticated())
	assert.NotZero(t, f.mem.Len())
	assert.Equal(t, "/produits", f.nav.Location())
}

func TestProvider_Logout(t *testing.T) {
	f := newFixture(t, "/dashboard")
	f.provider.Mount(context.Background())
	require.NoError(t, f.provider.Login(context.Background(), "a@b.com", "pw"))

	f.provider.Logout(context.Background())
	assert.Equal(t, int32(1), f.logoutCalls.Load())
	assert.Equal(t, StatusAnonymous, f.provider.State().Status)
	assert.Zero(t, f.mem.Len())
	assert.Equal(t, "/", f.nav.Location())

	// already anonymous: only navigates
	f.nav.Navigate("/contact")
	f.provider.Logout(context.Background())
	assert.Equal(t, int32(1), f.logoutCalls.Load())
	assert.Equal(t, "/", f.nav.Location())
}

func TestProvider_RequestsCarryToken(t *testing.T) {
	f := newFixture(t, "/")
	f.provider.Mount(context.Background())

	_, err := f.api.Products(context.Background(), client.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, "", f.lastAuth.Load())

	require.NoError(t, f.provider.Login(context.Background(), "a@b.com", "pw"))
	_, err = f.api.Products(context.Background(), client.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer t1", f.lastAuth.Load())
}

func TestProvider_UnmountRestoresTransport(t *testing.T) {
	f := newFixture(t, "/")
	before := f.api.HTTPClient().Transport

	f.provider.Mount(context.Background())
	assert.NotEqual(t, before, f.api.HTTPClient().Transport)

	f.provider.Unmount()
	f.provider.Unmount()
	assert.Equal(t, before, f.api.HTTPClient().Transport)
}
