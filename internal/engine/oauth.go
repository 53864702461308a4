package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/edvin/modelerd/internal/model"
)

// tokenSource fetches OAuth client-credentials tokens for endpoints
// that require them and caches them until shortly before expiry.
// Endpoints with AuthType none or basic yield an empty token.
type tokenSource struct {
	httpClient *http.Client

	mu    sync.Mutex
	cache map[string]cachedToken
}

type cachedToken struct {
	token   string
	expires time.Time
}

func newTokenSource(httpClient *http.Client) *tokenSource {
	return &tokenSource{
		httpClient: httpClient,
		cache:      make(map[string]cachedToken),
	}
}

const cloudTokenURL = "https://login.cloud.camunda.io/oauth/token"

func (ts *tokenSource) token(ctx context.Context, endpoint model.Endpoint) (string, error) {
	clientID, clientSecret, tokenURL, audience := oauthParams(endpoint)
	if clientID == "" {
		return "", nil
	}

	key := endpoint.ID + "|" + clientID
	ts.mu.Lock()
	cached, ok := ts.cache[key]
	ts.mu.Unlock()
	if ok && time.Now().Before(cached.expires) {
		return cached.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"audience":      {audience},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch token: %s", resp.Status)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("parse token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("token response carried no access token")
	}

	expires := time.Now().Add(time.Duration(body.ExpiresIn)*time.Second - 30*time.Second)
	ts.mu.Lock()
	ts.cache[key] = cachedToken{token: body.AccessToken, expires: expires}
	ts.mu.Unlock()

	return body.AccessToken, nil
}

// oauthParams picks the credential set for the endpoint's target type.
// Cloud endpoints always authenticate; self-hosted only with
// AuthType oauth.
func oauthParams(endpoint model.Endpoint) (clientID, clientSecret, tokenURL, audience string) {
	if endpoint.TargetType == model.TargetTypeCamundaCloud {
		return endpoint.CamundaCloudClientID, endpoint.CamundaCloudClientSecret, cloudTokenURL, "zeebe.camunda.io"
	}
	if endpoint.AuthType == model.AuthTypeOAuth {
		return endpoint.ClientID, endpoint.ClientSecret, endpoint.OAuthURL, endpoint.Audience
	}
	return "", "", "", ""
}
