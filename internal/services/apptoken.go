package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/decades-app/decades/internal/shared"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	// tokenExpiryBuffer is subtracted from the reported lifetime so a token
	// handed to a caller never expires mid-request.
	tokenExpiryBuffer = time.Minute
)

// AppTokenProvider implements [TokenProvider] with the client-credentials
// grant. The exchanged token is cached until shortly before expiry and
// shared across callers; it can read public playlists but never acts on
// behalf of a user.
type AppTokenProvider struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client
	logger       *log.Logger

	mu      sync.Mutex
	token   string
	expires time.Time

	now func() time.Time
}

// NewAppTokenProvider creates a provider from application credentials.
// Either credential may be empty; the failure surfaces on first use so a
// misconfigured deployment still starts and reports a clean error.
func NewAppTokenProvider(clientID, clientSecret string, logger *log.Logger) *AppTokenProvider {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AppTokenProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     spotifyTokenURL,
		httpClient:   &http.Client{Timeout: requestTimeout},
		logger:       logger,
		now:          time.Now,
	}
}

// SetTokenURL overrides the token endpoint, used by tests.
func (p *AppTokenProvider) SetTokenURL(url string) {
	p.tokenURL = url
}

// Token returns a cached application token, exchanging credentials for a
// fresh one when the cache is empty or within the expiry buffer.
func (p *AppTokenProvider) Token(ctx context.Context) (string, error) {
	if p.clientID == "" || p.clientSecret == "" {
		return "", shared.ErrMissingCredentials
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.now().Before(p.expires) {
		return p.token, nil
	}

	token, expiresIn, err := p.exchange(ctx)
	if err != nil {
		return "", err
	}

	p.token = token
	p.expires = p.now().Add(time.Duration(expiresIn)*time.Second - tokenExpiryBuffer)
	p.logger.Debug("exchanged app token", "expires_in", expiresIn)

	return token, nil
}

func (p *AppTokenProvider) exchange(ctx context.Context) (string, int, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create token request: %w", err)
	}

	basic := base64.StdEncoding.EncodeToString([]byte(p.clientID + ":" + p.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", shared.ErrTokenExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("%w: status %d", shared.ErrTokenExchange, resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", 0, fmt.Errorf("%w: failed to decode response: %v", shared.ErrTokenExchange, err)
	}
	if payload.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: empty access token", shared.ErrTokenExchange)
	}

	return payload.AccessToken, payload.ExpiresIn, nil
}
