package botclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the HTTP client the Telegram bot gateway uses to talk to the
// backend's internal API. Requests authenticate with a shared token.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// AuthResult is a backend session issued for a Telegram identity.
type AuthResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SubmittedDream is the bot-facing view of a submitted dream.
type SubmittedDream struct {
	Id             string `json:"id"`
	Interpretation *struct {
		MainSymbol      string `json:"main_symbol"`
		MainSymbolEmoji string `json:"main_symbol_emoji"`
		Interpretation  string `json:"interpretation"`
		Advice          string `json:"advice"`
	} `json:"interpretation"`
	QuotaRemaining *int `json:"quota_remaining"`
}

// QuotaStatus mirrors the backend quota endpoint.
type QuotaStatus struct {
	Plan       string `json:"plan"`
	DailyLimit int    `json:"daily_limit"`
	Used       int    `json:"used"`
	Remaining  int    `json:"remaining"`
	Unlimited  bool   `json:"unlimited"`
}

// AuthenticateTelegram exchanges a Telegram identity for backend tokens,
// creating the account on first contact.
func (c *Client) AuthenticateTelegram(ctx context.Context, telegramId int64, fullName, language string) (*AuthResult, error) {
	payload := map[string]interface{}{
		"telegram_id": telegramId,
		"full_name":   fullName,
		"language":    language,
	}

	var result AuthResult
	if err := c.post(ctx, "/api/internal/auth/telegram", "", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitDream sends dream text on behalf of an authenticated user.
func (c *Client) SubmitDream(ctx context.Context, accessToken, text, language string) (*SubmittedDream, error) {
	payload := map[string]interface{}{
		"text":     text,
		"language": language,
	}

	var result SubmittedDream
	if err := c.post(ctx, "/api/dreams", accessToken, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetQuota fetches the user's remaining daily quota.
func (c *Client) GetQuota(ctx context.Context, accessToken string) (*QuotaStatus, error) {
	var result QuotaStatus
	if err := c.get(ctx, "/api/dreams/quota", accessToken, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, path, accessToken string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, accessToken, out)
}

func (c *Client) get(ctx context.Context, path, accessToken string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, accessToken, out)
}

func (c *Client) do(req *http.Request, accessToken string, out interface{}) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-Token", c.token)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, string(body))
	}

	if resp.StatusCode >= 400 || !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("unmarshal response data: %w", err)
		}
	}
	return nil
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
}

// IsQuotaExceeded reports whether the error is the daily-limit rejection.
func IsQuotaExceeded(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusForbidden
}
