package airav

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/sydlexius/avresolve/internal/provider"
)

const defaultBaseURL = "https://airav.io"

// Adapter implements provider.Provider for airav's JSON API. The barcode
// endpoint answers with Traditional Chinese metadata and needs no
// authentication.
type Adapter struct {
	limiter *provider.RateLimiterMap
	logger  *slog.Logger
	baseURL string
}

// New creates an airav adapter with the default base URL.
func New(limiter *provider.RateLimiterMap, logger *slog.Logger) *Adapter {
	return NewWithBaseURL(limiter, logger, defaultBaseURL)
}

// NewWithBaseURL creates an airav adapter with a custom base URL (for testing).
func NewWithBaseURL(limiter *provider.RateLimiterMap, logger *slog.Logger, baseURL string) *Adapter {
	return &Adapter{
		limiter: limiter,
		logger:  logger.With(slog.String("source", "airav")),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the source identifier.
func (a *Adapter) Name() provider.Name { return provider.NameAirav }

// barcodeResponse is the shape of /api/video/barcode/<number>.
type barcodeResponse struct {
	Count  int    `json:"count"`
	Status string `json:"status"`
	Result struct {
		Name        string   `json:"name"`
		Barcode     string   `json:"barcode"`
		ImgURL      string   `json:"img_url"`
		Images      []string `json:"images"`
		Describe    string   `json:"describe"`
		PublishDate string   `json:"publish_date"`
		Factories   []struct {
			Name string `json:"name"`
		} `json:"factories"`
		Actors []struct {
			Name string `json:"name"`
		} `json:"actors"`
		Tags []struct {
			Name string `json:"name"`
		} `json:"tags"`
	} `json:"result"`
}

// Scrape queries the barcode endpoint for one identifier.
func (a *Adapter) Scrape(ctx context.Context, number string, rc *provider.RequestContext) (*provider.Result, error) {
	if err := a.limiter.Wait(ctx, provider.NameAirav); err != nil {
		return nil, &provider.ErrQuery{
			Source: provider.NameAirav,
			Cause:  fmt.Errorf("rate limiter: %w", err),
		}
	}

	reqURL := fmt.Sprintf("%s/api/video/barcode/%s?lng=zh-TW", a.baseURL, url.PathEscape(number))
	body, err := a.doRequest(ctx, reqURL, number, rc)
	if err != nil {
		return nil, err
	}

	var resp barcodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &provider.ErrQuery{
			Source: provider.NameAirav,
			Cause:  fmt.Errorf("parsing barcode response: %w", err),
		}
	}
	if resp.Count == 0 || resp.Result.Barcode == "" {
		return nil, &provider.ErrNotFound{Source: provider.NameAirav, Number: number}
	}

	result := &provider.Result{
		Title:   stripNumberPrefix(resp.Result.Name, resp.Result.Barcode),
		Number:  resp.Result.Barcode,
		Cover:   resp.Result.ImgURL,
		Release: resp.Result.PublishDate,
		Outline: resp.Result.Describe,
		Source:  provider.NameAirav,
	}
	if len(resp.Result.PublishDate) >= 4 {
		result.Year = resp.Result.PublishDate[:4]
	}
	if len(resp.Result.Factories) > 0 {
		result.Studio = resp.Result.Factories[0].Name
	}
	for _, actor := range resp.Result.Actors {
		if actor.Name != "" {
			result.Actors = append(result.Actors, actor.Name)
		}
	}
	for _, tag := range resp.Result.Tags {
		if tag.Name != "" {
			result.Tags = append(result.Tags, tag.Name)
		}
	}
	for _, img := range resp.Result.Images {
		if img != "" {
			result.ExtraFanart = append(result.ExtraFanart, img)
		}
	}

	a.logger.Debug("barcode lookup completed",
		slog.String("number", number),
		slog.String("title", result.Title))

	return result, nil
}

// doRequest executes a GET request and returns the response body.
func (a *Adapter) doRequest(ctx context.Context, reqURL, number string, rc *provider.RequestContext) ([]byte, error) {
	client, err := rc.HTTPClient()
	if err != nil {
		return nil, &provider.ErrQuery{Source: provider.NameAirav, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &provider.ErrQuery{Source: provider.NameAirav, Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if cookies, ok := rc.Cookies(provider.NameAirav); ok {
		for name, value := range cookies {
			req.AddCookie(&http.Cookie{Name: name, Value: value})
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &provider.ErrQuery{Source: provider.NameAirav, Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusNotFound:
		return nil, &provider.ErrNotFound{Source: provider.NameAirav, Number: number}
	default:
		return nil, &provider.ErrQuery{
			Source: provider.NameAirav,
			Cause:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	return io.ReadAll(io.LimitReader(resp.Body, 1*1024*1024))
}

// stripNumberPrefix removes a leading identifier from the display title.
// airav prefixes titles with the barcode, e.g. "ABC-123 actual title".
func stripNumberPrefix(title, number string) string {
	trimmed := strings.TrimSpace(title)
	if number != "" && strings.HasPrefix(strings.ToUpper(trimmed), strings.ToUpper(number)) {
		trimmed = strings.TrimSpace(trimmed[len(number):])
	}
	return trimmed
}
