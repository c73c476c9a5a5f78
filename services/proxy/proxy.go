package proxy

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	scerrors "sjsage522/productscraper/pkg/errors"
)

// ProxyManager interface for routing outbound requests
type ProxyManager interface {
	// ProxyFunc returns the function used by http.Transport.Proxy
	ProxyFunc() func(*http.Request) (*url.URL, error)

	// GetProxyInfo returns the configured proxy, or nil for direct connections
	GetProxyInfo() *ProxyInfo

	// GetProxyStats returns current proxy statistics
	GetProxyStats() map[string]interface{}
}

// ProxyInfo holds the proxy address
type ProxyInfo struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	Type string `json:"type"`
}

// Address returns host:port
func (p *ProxyInfo) Address() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}

// StaticProxyManager routes every request through one configured proxy
type StaticProxyManager struct {
	proxyURL *url.URL
	info     *ProxyInfo
	requests atomic.Int64
}

var _ ProxyManager = (*StaticProxyManager)(nil)

// NewProxyManager parses the configured proxy URL. An empty URL means direct connections.
func NewProxyManager(rawURL string) (*StaticProxyManager, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return &StaticProxyManager{}, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, scerrors.NewConfiguration("invalid PROXY url", err)
	}

	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, scerrors.NewConfiguration(fmt.Sprintf("unsupported proxy scheme %q", u.Scheme), nil)
	}

	host := u.Hostname()
	if host == "" {
		return nil, scerrors.NewConfiguration("PROXY url has no host", nil)
	}

	port, err := proxyPort(u)
	if err != nil {
		return nil, scerrors.NewConfiguration("invalid PROXY port", err)
	}

	return &StaticProxyManager{
		proxyURL: u,
		info: &ProxyInfo{
			Host: host,
			Port: port,
			Type: u.Scheme,
		},
	}, nil
}

// proxyPort returns the explicit port or the scheme default
func proxyPort(u *url.URL) (int, error) {
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %q out of range", p)
		}
		return port, nil
	}

	switch u.Scheme {
	case "https":
		return 443, nil
	case "socks5", "socks5h":
		return 1080, nil
	default:
		return 80, nil
	}
}

// ProxyFunc returns the transport proxy function
func (pm *StaticProxyManager) ProxyFunc() func(*http.Request) (*url.URL, error) {
	if pm.proxyURL == nil {
		return nil
	}

	return func(*http.Request) (*url.URL, error) {
		pm.requests.Add(1)
		return pm.proxyURL, nil
	}
}

// GetProxyInfo returns the configured proxy
func (pm *StaticProxyManager) GetProxyInfo() *ProxyInfo {
	if pm.info == nil {
		return nil
	}
	info := *pm.info
	return &info
}

// String returns the proxy URL with credentials redacted
func (pm *StaticProxyManager) String() string {
	if pm.proxyURL == nil {
		return "direct"
	}
	return pm.proxyURL.Redacted()
}

// GetProxyStats returns current proxy statistics
func (pm *StaticProxyManager) GetProxyStats() map[string]interface{} {
	stats := map[string]interface{}{
		"enabled":  pm.proxyURL != nil,
		"requests": pm.requests.Load(),
	}

	if pm.info != nil {
		stats["proxy"] = pm.String()
		stats["type"] = pm.info.Type
	}

	return stats
}
