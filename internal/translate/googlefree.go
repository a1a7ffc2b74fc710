package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const defaultGoogleSite = "translate.google.cn"

// googleSitePattern restricts the service site to real google translate
// hosts so a mistyped config value cannot redirect titles elsewhere.
var googleSitePattern = regexp.MustCompile(`^translate\.google\.(com|com\.\w{2}|\w{2})$`)

// GoogleFree translates through the unauthenticated gtx endpoint.
type GoogleFree struct {
	client  *http.Client
	baseURL string
}

// NewGoogleFree creates a google-free engine. An invalid or empty site
// falls back to the default mirror.
func NewGoogleFree(client *http.Client, site string) *GoogleFree {
	if !googleSitePattern.MatchString(site) {
		site = defaultGoogleSite
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &GoogleFree{client: client, baseURL: "https://" + site}
}

// Name returns the engine identifier.
func (g *GoogleFree) Name() string { return "google-free" }

type googleResponse struct {
	Sentences []struct {
		Trans string `json:"trans"`
	} `json:"sentences"`
}

// Translate translates text via the gtx endpoint and joins the answer's
// sentence fragments.
func (g *GoogleFree) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	params := url.Values{
		"client": {"gtx"},
		"dt":     {"t"},
		"dj":     {"1"},
		"ie":     {"UTF-8"},
		"sl":     {"auto"},
		"tl":     {targetLanguage},
		"q":      {text},
	}
	reqURL := fmt.Sprintf("%s/translate_a/single?%s", g.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Do(req)
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

	var parsed googleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parsing translation response: %w", err)
	}

	var b strings.Builder
	for _, s := range parsed.Sentences {
		b.WriteString(s.Trans)
	}
	return b.String(), nil
}
