package nuvemfiscal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/junior875/nfcePt2/internal/config"
)

// ErrCredenciaisAusentes indicates the provider credentials were not configured.
var ErrCredenciaisAusentes = errors.New("nuvem fiscal credentials are not configured")

// TokenSource caches an OAuth2 client-credentials token and refreshes it when
// expired. It is an injected dependency, never ambient state.
type TokenSource struct {
	cfg    config.NuvemFiscalConfig
	client *http.Client
	now    func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func NewTokenSource(cfg config.NuvemFiscalConfig, client *http.Client) *TokenSource {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &TokenSource{
		cfg:    cfg,
		client: client,
		now:    time.Now,
	}
}

// Token returns a valid access token, fetching a new one when the cached token
// is missing or about to expire.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && t.now().Before(t.expiry) {
		return t.token, nil
	}
	return t.refreshLocked(ctx)
}

// Invalidate discards the cached token so the next call re-authenticates.
func (t *TokenSource) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
	t.expiry = time.Time{}
}

func (t *TokenSource) refreshLocked(ctx context.Context) (string, error) {
	if t.cfg.ClientID == "" || t.cfg.ClientSecret == "" {
		return "", ErrCredenciaisAusentes
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", t.cfg.Scopes)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(t.cfg.AuthBaseURL, "/")+"/oauth/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(t.cfg.ClientID, t.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("authenticate: unexpected status %d", resp.StatusCode)
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("authenticate: decode token: %w", err)
	}
	if payload.AccessToken == "" {
		return "", errors.New("authenticate: empty access token")
	}

	ttl := time.Duration(payload.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	t.token = payload.AccessToken
	// Renew slightly early so in-flight requests never carry a stale token.
	t.expiry = t.now().Add(ttl - 30*time.Second)
	return t.token, nil
}
