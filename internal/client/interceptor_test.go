package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedToken struct {
	token string
}

func (f fixedToken) Token() (string, bool) {
	return f.token, f.token != ""
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestShouldAuthorize_Table(t *testing.T) {
	for _, hasToken := range []bool{true, false} {
		for _, login := range []bool{true, false} {
			for _, dashboard := range []bool{true, false} {
				want := hasToken && (dashboard || !login)
				name := fmt.Sprintf("token=%v/login=%v/dashboard=%v", hasToken, login, dashboard)
				assert.Equal(t, want, ShouldAuthorize(hasToken, login, dashboard), name)
			}
		}
	}
}

func TestInterceptor_DecorationOverHTTP(t *testing.T) {
	var gotAuth, gotCustom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCustom = r.Header.Get("X-Custom")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cases := []struct {
		token    string
		path     string
		location string
		wantAuth string
	}{
		{"t1", "/api/products", "/", "Bearer t1"},
		{"t1", "/api/auth/login", "/", ""},
		{"t1", "/api/auth/login", "/dashboard/users", "Bearer t1"},
		{"t1", "/api/users", "/dashboard", "Bearer t1"},
		{"", "/api/products", "/", ""},
		{"", "/api/users", "/dashboard/users", ""},
		{"", "/api/auth/login", "/dashboard", ""},
		{"", "/api/auth/login", "/", ""},
	}
	for _, tc := range cases {
		name := fmt.Sprintf("%s@%s/token=%q", tc.path, tc.location, tc.token)
		t.Run(name, func(t *testing.T) {
			hc := &http.Client{}
			in := &Interceptor{Tokens: fixedToken{tc.token}, Navigator: NewHistory(tc.location)}
			restore := in.Install(hc)
			defer restore()

			req, err := http.NewRequest(http.MethodGet, srv.URL+tc.path, nil)
			require.NoError(t, err)
			req.Header.Set("X-Custom", "kept")

			resp, err := hc.Do(req)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, tc.wantAuth, gotAuth)
			assert.Equal(t, "kept", gotCustom, "caller headers are preserved")
			assert.Empty(t, req.Header.Get("Authorization"), "caller request is not mutated")
		})
	}
}

func TestInterceptor_OverwritesCallerAuthorization(t *testing.T) {
	var got string
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		got = r.Header.Get("Authorization")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
	})}
	in := &Interceptor{Tokens: fixedToken{"t1"}, Navigator: NewHistory("/")}
	defer in.Install(hc)()

	req, _ := http.NewRequest(http.MethodGet, "http://shop.test/api/orders", nil)
	req.Header.Set("Authorization", "Bearer stale")
	resp, err := hc.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "Bearer t1", got)
}

func TestInterceptor_UnauthorizedOnDashboard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`anything`))
	}))
	defer srv.Close()

	for _, tc := range []struct {
		location string
		want     int32
	}{
		{"/dashboard/products", 1},
		{"/produits", 0},
	} {
		t.Run(tc.location, func(t *testing.T) {
			var calls atomic.Int32
			hc := &http.Client{}
			in := &Interceptor{
				Tokens:         fixedToken{"t1"},
				Navigator:      NewHistory(tc.location),
				OnUnauthorized: func() { calls.Add(1) },
			}
			defer in.Install(hc)()

			resp, err := hc.Get(srv.URL + "/api/products")
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "response is passed through")
			assert.Equal(t, tc.want, calls.Load())
		})
	}
}

func TestInterceptor_NetworkErrorPassesThrough(t *testing.T) {
	boom := errors.New("connection refused")
	hc := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, boom
	})}
	called := false
	in := &Interceptor{
		Tokens:         fixedToken{"t1"},
		Navigator:      NewHistory("/dashboard"),
		OnUnauthorized: func() { called = true },
	}
	defer in.Install(hc)()

	_, err := hc.Get("http://shop.test/api/users")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}

func TestInterceptor_RestoreTransport(t *testing.T) {
	t.Run("default transport", func(t *testing.T) {
		hc := &http.Client{}
		restore := (&Interceptor{}).Install(hc)
		assert.NotNil(t, hc.Transport)
		restore()
		restore()
		assert.Nil(t, hc.Transport)
	})

	t.Run("custom transport", func(t *testing.T) {
		base := &http.Transport{}
		hc := &http.Client{Transport: base}
		restore := (&Interceptor{}).Install(hc)
		assert.NotSame(t, base, hc.Transport)
		restore()
		assert.Same(t, base, hc.Transport)
	})

	t.Run("replacement does not stack", func(t *testing.T) {
		var seen []string
		base := roundTripFunc(func(r *http.Request) (*http.Response, error) {
			seen = append(seen, r.Header.Get("Authorization"))
			return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
		})
		hc := &http.Client{Transport: base}

		first := &Interceptor{Tokens: fixedToken{"old"}, Navigator: NewHistory("/")}
		second := &Interceptor{Tokens: fixedToken{"new"}, Navigator: NewHistory("/")}
		restoreFirst := first.Install(hc)
		installed := hc.Transport
		restoreSecond := second.Install(hc)

		resp, err := hc.Get("http://shop.test/api/orders")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, []string{"Bearer new"}, seen)

		restoreSecond()
		assert.Same(t, installed, hc.Transport)
		restoreFirst()
		assert.NotNil(t, hc.Transport)
		_, isAuth := hc.Transport.(*authTransport)
		assert.False(t, isAuth)
	})
}
