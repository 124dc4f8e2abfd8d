package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultAuthority = "https://login.microsoftonline.com/common/oauth2/v2.0"
	defaultGraphURL  = "https://graph.microsoft.com/v1.0/me"
	defaultScopes    = "User.Read offline_access"

	refreshBuffer = 60 * time.Second
)

// ErrAuthorizationPending mirrors the identity platform's polling signal
// while the user has not yet completed the device-code prompt.
var ErrAuthorizationPending = errors.New("authorization pending")

// GraphProvider implements Provider against the Microsoft identity
// platform: it acquires a token via the OAuth2 device-code flow and reads
// the profile (displayName, mail) from Microsoft Graph. Tokens are cached
// and reused until 60 seconds before expiry. Safe for concurrent use.
type GraphProvider struct {
	clientID     string
	authority    string
	graphURL     string
	scopes       string
	client       *http.Client
	prompt       func(userCode, verificationURI string)
	pollInterval time.Duration

	mu      sync.Mutex
	token   string
	expiry  time.Time
	nowFunc func() time.Time
}

// GraphOption configures the GraphProvider.
type GraphOption func(*GraphProvider)

// WithAuthority overrides the identity platform endpoint base.
func WithAuthority(u string) GraphOption {
	return func(p *GraphProvider) {
		p.authority = u
	}
}

// WithGraphURL overrides the profile endpoint.
func WithGraphURL(u string) GraphOption {
	return func(p *GraphProvider) {
		p.graphURL = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) GraphOption {
	return func(p *GraphProvider) {
		p.client = c
	}
}

// WithPrompt sets the callback that shows the user the device code and
// verification URL. The default writes nothing, which only makes sense in
// tests.
func WithPrompt(f func(userCode, verificationURI string)) GraphOption {
	return func(p *GraphProvider) {
		p.prompt = f
	}
}

// WithPollInterval overrides the token poll interval the endpoint suggests.
func WithPollInterval(d time.Duration) GraphOption {
	return func(p *GraphProvider) {
		p.pollInterval = d
	}
}

// WithNowFunc overrides the time source for testing.
func WithNowFunc(f func() time.Time) GraphOption {
	return func(p *GraphProvider) {
		p.nowFunc = f
	}
}

// NewGraphProvider creates a device-code identity provider for the given
// application (client) ID.
func NewGraphProvider(clientID string, opts ...GraphOption) *GraphProvider {
	p := &GraphProvider{
		clientID:  clientID,
		authority: defaultAuthority,
		graphURL:  defaultGraphURL,
		scopes:    defaultScopes,
		client:    &http.Client{Timeout: 30 * time.Second},
		prompt:    func(string, string) {},
		nowFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type deviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

type profileResponse struct {
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// Authenticate implements Provider. It reuses the cached token when still
// valid, otherwise runs the device-code flow, then fetches the profile.
func (p *GraphProvider) Authenticate(ctx context.Context) (Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token == "" || !p.nowFunc().Before(p.expiry.Add(-refreshBuffer)) {
		if err := p.acquireTokenLocked(ctx); err != nil {
			return Identity{}, err
		}
	}

	return p.fetchProfileLocked(ctx)
}

// SignOut implements Provider by dropping the cached token.
func (p *GraphProvider) SignOut(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = ""
	p.expiry = time.Time{}
	return nil
}

func (p *GraphProvider) acquireTokenLocked(ctx context.Context) error {
	dc, err := p.requestDeviceCode(ctx)
	if err != nil {
		return err
	}

	p.prompt(dc.UserCode, dc.VerificationURI)

	interval := p.pollInterval
	if interval <= 0 {
		interval = time.Duration(dc.Interval) * time.Second
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	deadline := p.nowFunc().Add(time.Duration(dc.ExpiresIn) * time.Second)

	for {
		tok, err := p.requestToken(ctx, dc.DeviceCode)
		if err == nil {
			p.token = tok.AccessToken
			p.expiry = p.nowFunc().Add(time.Duration(tok.ExpiresIn) * time.Second)
			return nil
		}
		if !errors.Is(err, ErrAuthorizationPending) {
			return err
		}
		if p.nowFunc().After(deadline) {
			return errors.New("device code expired before sign-in completed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

func (p *GraphProvider) requestDeviceCode(ctx context.Context) (*deviceCodeResponse, error) {
	form := url.Values{
		"client_id": {p.clientID},
		"scope":     {p.scopes},
	}

	body, err := p.postForm(ctx, p.authority+"/devicecode", form)
	if err != nil {
		return nil, fmt.Errorf("requesting device code: %w", err)
	}

	var dc deviceCodeResponse
	if err := json.Unmarshal(body, &dc); err != nil {
		return nil, fmt.Errorf("parsing device code response: %w", err)
	}
	return &dc, nil
}

func (p *GraphProvider) requestToken(ctx context.Context, deviceCode string) (*tokenResponse, error) {
	form := url.Values{
		"grant_type":  {"urn:ietf:params:oauth:grant-type:device_code"},
		"client_id":   {p.clientID},
		"device_code": {deviceCode},
	}

	body, err := p.postForm(ctx, p.authority+"/token", form)
	if err != nil {
		return nil, fmt.Errorf("requesting token: %w", err)
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	switch tok.Error {
	case "":
		return &tok, nil
	case "authorization_pending", "slow_down":
		return nil, ErrAuthorizationPending
	default:
		return nil, fmt.Errorf("token request failed: %s - %s", tok.Error, tok.Description)
	}
}

// postForm sends an urlencoded POST and returns the raw body. Both the
// device-code and token endpoints answer polling errors with non-2xx
// statuses and a JSON body, so status alone is not treated as fatal here.
func (p *GraphProvider) postForm(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

func (p *GraphProvider) fetchProfileLocked(ctx context.Context) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.graphURL, http.NoBody)
	if err != nil {
		return Identity{}, fmt.Errorf("creating profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("fetching profile: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Identity{}, fmt.Errorf("reading profile response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("profile request failed (status %d): %s", resp.StatusCode, string(body))
	}

	var prof profileResponse
	if err := json.Unmarshal(body, &prof); err != nil {
		return Identity{}, fmt.Errorf("parsing profile response: %w", err)
	}

	email := prof.Mail
	if email == "" {
		email = prof.UserPrincipalName
	}
	if email == "" {
		return Identity{}, errors.New("profile has no email address")
	}

	return Identity{DisplayName: prof.DisplayName, Email: email}, nil
}
