package nuvemfiscal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/junior875/nfcePt2/internal/config"
)

func newAuthServer(t *testing.T, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++

		require.Equal(t, "/oauth/token", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "client-id", user)
		require.Equal(t, "client-secret", pass)

		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		require.Equal(t, "empresa cnpj nfe", r.PostForm.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`))
	}))
}

func authConfig(authURL string) config.NuvemFiscalConfig {
	return config.NuvemFiscalConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AuthBaseURL:  authURL,
		Scopes:       "empresa cnpj nfe",
	}
}

func TestTokenSourceCachesUntilExpiry(t *testing.T) {
	var calls int
	srv := newAuthServer(t, &calls)
	defer srv.Close()

	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	tokens := NewTokenSource(authConfig(srv.URL), srv.Client())
	tokens.now = func() time.Time { return now }

	tok, err := tokens.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-1", tok)

	_, err = tokens.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, calls, "cached token should not re-authenticate")

	// Past the renew-early window the source must fetch a fresh token.
	now = now.Add(time.Hour)
	_, err = tokens.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestTokenSourceInvalidateForcesRefresh(t *testing.T) {
	var calls int
	srv := newAuthServer(t, &calls)
	defer srv.Close()

	tokens := NewTokenSource(authConfig(srv.URL), srv.Client())

	_, err := tokens.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	tokens.Invalidate()

	_, err = tokens.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestTokenSourceMissingCredentials(t *testing.T) {
	tokens := NewTokenSource(config.NuvemFiscalConfig{}, nil)

	_, err := tokens.Token(context.Background())
	require.ErrorIs(t, err, ErrCredenciaisAusentes)
}

func TestTokenSourceRejectsEmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"","expires_in":3600}`))
	}))
	defer srv.Close()

	tokens := NewTokenSource(authConfig(srv.URL), srv.Client())

	_, err := tokens.Token(context.Background())
	require.Error(t, err)
}
