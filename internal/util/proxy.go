package util

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// NewHTTPClient builds an outbound HTTP client with explicit proxy settings.
// Proxy handling is configuration, not ambient environment inspection; empty
// proxy values fall back to the process environment. noProxy is a
// comma-separated list of hosts (or ".domain" suffixes, or "*") that bypass
// the configured proxies.
func NewHTTPClient(timeout time.Duration, httpProxy, httpsProxy, noProxy string) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: proxyFunc(httpProxy, httpsProxy, noProxy),
		},
	}
}

func proxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}
	excluded := splitHosts(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		if hostExcluded(excluded, req.URL.Hostname()) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

func splitHosts(noProxy string) []string {
	var hosts []string
	for _, h := range strings.Split(noProxy, ",") {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

// hostExcluded matches an exact host, a ".domain" suffix entry, or "*".
func hostExcluded(excluded []string, host string) bool {
	host = strings.ToLower(host)
	for _, e := range excluded {
		switch {
		case e == "*":
			return true
		case strings.HasPrefix(e, "."):
			if strings.HasSuffix(host, e) {
				return true
			}
		case host == e:
			return true
		}
	}
	return false
}
