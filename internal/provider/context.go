package provider

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/net/proxy"
)

// cookieMaxAge is how long a per-source cookie file stays valid. Session
// cookies for these sites expire on roughly this horizon; stale files are
// worse than none because sites answer them with login walls.
const cookieMaxAge = 7 * 24 * time.Hour

// RequestContext carries the shared transport settings every source adapter
// uses for its queries.
type RequestContext struct {
	// ProxyURL is an optional proxy (http, https or socks5 scheme).
	ProxyURL string
	// VerifyTLS disables certificate verification when false.
	VerifyTLS bool
	// CookieDir holds per-source cookie files named <source>.json.
	CookieDir string
	// MoreStoryline asks adapters that support it for an extended outline.
	MoreStoryline bool
	// Debug enables full diagnostic traces on adapter failures.
	Debug bool
	// Timeout bounds each adapter request. Zero means a 15s default.
	Timeout time.Duration
}

// HTTPClient builds an http.Client honoring the context's proxy and TLS
// settings.
func (rc *RequestContext) HTTPClient() (*http.Client, error) {
	transport := &http.Transport{}

	if !rc.VerifyTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // G402: explicit user opt-out for MITM proxies
	}

	if rc.ProxyURL != "" {
		u, err := url.Parse(rc.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy URL: %w", err)
		}
		switch u.Scheme {
		case "http", "https":
			transport.Proxy = http.ProxyURL(u)
		case "socks5":
			var auth *proxy.Auth
			if u.User != nil {
				auth = &proxy.Auth{User: u.User.Username()}
				if pw, ok := u.User.Password(); ok {
					auth.Password = pw
				}
			}
			dialer, err := proxy.SOCKS5("tcp", u.Host, auth, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("building socks5 dialer: %w", err)
			}
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				transport.DialContext = cd.DialContext
			}
		default:
			return nil, fmt.Errorf("unsupported proxy scheme: %q", u.Scheme)
		}
	}

	timeout := rc.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

// Cookies loads the cookie map for a source from the cookie directory.
// Returns (nil, false) when no fresh cookie file exists; a stale or
// malformed file is treated the same as a missing one.
func (rc *RequestContext) Cookies(source Name) (map[string]string, bool) {
	if rc.CookieDir == "" {
		return nil, false
	}

	path := filepath.Join(rc.CookieDir, string(source)+".json")
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) >= cookieMaxAge {
		return nil, false
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path derived from trusted config
	if err != nil {
		return nil, false
	}

	var cookies map[string]string
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, false
	}
	if len(cookies) == 0 {
		return nil, false
	}
	return cookies, true
}
