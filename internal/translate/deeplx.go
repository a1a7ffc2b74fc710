package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DeepLX translates through a self-hosted DeepLX endpoint.
type DeepLX struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewDeepLX creates a deeplx engine for the given endpoint base URL. An
// empty token skips the Authorization header for unprotected endpoints.
func NewDeepLX(client *http.Client, baseURL, token string) *DeepLX {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &DeepLX{client: client, baseURL: strings.TrimRight(baseURL, "/"), token: token}
}

// Name returns the engine identifier.
func (d *DeepLX) Name() string { return "deeplx" }

type deeplxRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type deeplxResponse struct {
	Data string `json:"data"`
}

// Translate posts the text to the /translate endpoint.
func (d *DeepLX) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	payload, err := json.Marshal(deeplxRequest{
		Text:       text,
		SourceLang: "auto",
		TargetLang: targetLanguage,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		d.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1*1024*1024))
	if err != nil {
		return "", err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return "", fmt.Errorf("empty response body")
	}

	var parsed deeplxResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parsing translation response: %w", err)
	}
	return parsed.Data, nil
}
