package airav

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sydlexius/avresolve/internal/provider"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const barcodeBody = `{
  "count": 1,
  "status": "ok",
  "result": {
    "name": "SNIS-829 偶像タレントの裏の顔",
    "barcode": "SNIS-829",
    "img_url": "https://cdn.example/snis-829.jpg",
    "images": ["https://cdn.example/f1.jpg", "https://cdn.example/f2.jpg"],
    "describe": "劇情簡介。",
    "publish_date": "2017-03-07",
    "factories": [{"name": "S1"}],
    "actors": [{"name": "三上悠亜"}],
    "tags": [{"name": "單體作品"}, {"name": ""}]
  }
}`

func TestScrape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/video/barcode/SNIS-829" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("lng") != "zh-TW" {
			t.Errorf("missing lng query, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(barcodeBody))
	}))
	defer server.Close()

	adapter := NewWithBaseURL(provider.NewRateLimiterMap(), testLogger(), server.URL)
	result, err := adapter.Scrape(context.Background(), "SNIS-829", &provider.RequestContext{VerifyTLS: true})
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}

	if result.Number != "SNIS-829" {
		t.Errorf("Number = %q, want SNIS-829", result.Number)
	}
	if result.Title != "偶像タレントの裏の顔" {
		t.Errorf("Title = %q, want stripped title", result.Title)
	}
	if result.Cover != "https://cdn.example/snis-829.jpg" {
		t.Errorf("Cover = %q", result.Cover)
	}
	if result.Year != "2017" || result.Release != "2017-03-07" {
		t.Errorf("Year/Release = %q/%q", result.Year, result.Release)
	}
	if result.Studio != "S1" {
		t.Errorf("Studio = %q, want S1", result.Studio)
	}
	if len(result.Actors) != 1 || result.Actors[0] != "三上悠亜" {
		t.Errorf("Actors = %v", result.Actors)
	}
	if len(result.Tags) != 1 {
		t.Errorf("Tags = %v, want empty names dropped", result.Tags)
	}
	if len(result.ExtraFanart) != 2 {
		t.Errorf("ExtraFanart = %v", result.ExtraFanart)
	}
	if !result.Acceptable() {
		t.Error("complete result should be acceptable")
	}
}

func TestScrape_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count": 0, "status": "ok", "result": {}}`))
	}))
	defer server.Close()

	adapter := NewWithBaseURL(provider.NewRateLimiterMap(), testLogger(), server.URL)
	_, err := adapter.Scrape(context.Background(), "NOPE-000", &provider.RequestContext{VerifyTLS: true})

	var notFound *provider.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want *ErrNotFound", err)
	}
	if notFound.Number != "NOPE-000" {
		t.Errorf("Number = %q", notFound.Number)
	}
}

func TestScrape_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	adapter := NewWithBaseURL(provider.NewRateLimiterMap(), testLogger(), server.URL)
	_, err := adapter.Scrape(context.Background(), "SNIS-829", &provider.RequestContext{VerifyTLS: true})

	var query *provider.ErrQuery
	if !errors.As(err, &query) {
		t.Fatalf("err = %v, want *ErrQuery", err)
	}
}

func TestStripNumberPrefix(t *testing.T) {
	tests := []struct {
		title, number, want string
	}{
		{"SNIS-829 タイトル", "SNIS-829", "タイトル"},
		{"snis-829 タイトル", "SNIS-829", "タイトル"},
		{"タイトルだけ", "SNIS-829", "タイトルだけ"},
		{"  SNIS-829  タイトル ", "SNIS-829", "タイトル"},
		{"", "SNIS-829", ""},
	}
	for _, tt := range tests {
		if got := stripNumberPrefix(tt.title, tt.number); got != tt.want {
			t.Errorf("stripNumberPrefix(%q, %q) = %q, want %q", tt.title, tt.number, got, tt.want)
		}
	}
}
