package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/LegalMindAI/Backend-V2/internal/observability"

	"github.com/tidwall/gjson"
)

const (
	identityToolkitBaseURL = "https://identitytoolkit.googleapis.com/v1"
	apiKeyHeader           = "X-Goog-Api-Key"
)

var (
	// ErrRejected means the identity provider answered and refused the token or credentials.
	ErrRejected = errors.New("identity provider rejected the request")
)

type Account struct {
	LocalID string
	Email   string
}

type SignInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
}

type Client struct {
	apiKey     string
	baseURL    string
	logger     *observability.Logger
	httpClient *http.Client
}

var _ IdentityClient = (*Client)(nil)

func NewClient(apiKey string, logger *observability.Logger) *Client {
	return NewClientWithBaseURL(apiKey, identityToolkitBaseURL, logger)
}

// NewClientWithBaseURL points the client at another Identity Toolkit endpoint, such as the
// Firebase auth emulator.
func NewClientWithBaseURL(apiKey, baseURL string, logger *observability.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		logger:     logger,
		httpClient: &http.Client{},
	}
}

// LookupAccount calls accounts:lookup. A token the provider does not accept, or a response
// without users, yields ErrRejected.
func (c *Client) LookupAccount(ctx context.Context, idToken string) (Account, error) {
	status, body, err := c.post(ctx, "accounts:lookup", map[string]any{"idToken": idToken})
	if err != nil {
		return Account{}, err
	}

	if status != http.StatusOK {
		c.logger.Warn(ctx, "identity provider rejected token",
			observability.Field{Key: "status_code", Value: status},
			observability.Field{Key: "provider_message", Value: gjson.GetBytes(body, "error.message").String()},
		)
		if status >= http.StatusInternalServerError {
			return Account{}, fmt.Errorf("identitytoolkit lookup returned %d", status)
		}
		return Account{}, ErrRejected
	}

	user := gjson.GetBytes(body, "users.0")
	if !user.Exists() || user.Get("localId").String() == "" {
		return Account{}, ErrRejected
	}
	return Account{
		LocalID: user.Get("localId").String(),
		Email:   user.Get("email").String(),
	}, nil
}

// SignInWithPassword calls accounts:signInWithPassword.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (SignInResponse, error) {
	status, body, err := c.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return SignInResponse{}, err
	}

	if status != http.StatusOK {
		message := gjson.GetBytes(body, "error.message").String()
		c.logger.Warn(ctx, "password sign-in failed",
			observability.Field{Key: "status_code", Value: status},
			observability.Field{Key: "provider_message", Value: message},
		)
		if status >= http.StatusInternalServerError {
			return SignInResponse{}, fmt.Errorf("identitytoolkit sign-in returned %d", status)
		}
		return SignInResponse{}, fmt.Errorf("%s: %w", message, ErrRejected)
	}

	var resp SignInResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error(ctx, "failed to unmarshal sign-in response", err)
		return SignInResponse{}, fmt.Errorf("failed to unmarshal identitytoolkit response: %w", err)
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, method string, payload any) (int, []byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// The key goes in a header so transport errors, which embed the URL, never carry it.
	url := fmt.Sprintf("%s/%s", c.baseURL, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		c.logger.Error(ctx, "failed to create request", err)
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "failed to call identitytoolkit", err)
		return 0, nil, fmt.Errorf("identitytoolkit request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error(ctx, "failed to read response body", err)
		return 0, nil, fmt.Errorf("failed to read identitytoolkit response: %w", err)
	}
	return resp.StatusCode, body, nil
}
