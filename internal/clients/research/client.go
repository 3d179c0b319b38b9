package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/LegalMindAI/Backend-V2/internal/observability"

	"github.com/tidwall/gjson"
)

// Client queries the case-law retrieval service for prior cases similar to a question.
type Client struct {
	baseURL    string
	logger     *observability.Logger
	httpClient *http.Client
}

func NewClient(baseURL string, logger *observability.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
		httpClient: &http.Client{},
	}
}

type fetchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// FetchCases posts the query to {base}/fetch and returns the response as compact JSON.
func (c *Client) FetchCases(ctx context.Context, query string, topK int) (string, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "top_k", Value: topK})

	reqBody, err := json.Marshal(fetchRequest{Query: query, TopK: topK})
	if err != nil {
		return "", fmt.Errorf("failed to marshal research request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/fetch", bytes.NewReader(reqBody))
	if err != nil {
		c.logger.Error(ctx, "failed to create research request", err)
		return "", fmt.Errorf("failed to create research request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("research request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read research response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("research endpoint returned status %d", resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("research endpoint returned invalid JSON")
	}

	cases := gjson.GetBytes(body, "@ugly").Raw
	c.logger.Debug(ctx, "research response", observability.Field{Key: "response_bytes", Value: len(cases)})
	return cases, nil
}
