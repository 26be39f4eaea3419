package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc returns a proxy selector for the harvest HTTP client.
// Explicit proxy URLs from the config win over the process environment;
// with neither configured the standard environment lookup applies.
func NewProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		proxy := httpProxy
		if req.URL.Scheme == "https" && httpsProxy != "" {
			proxy = httpsProxy
		}
		if proxy == "" {
			return http.ProxyFromEnvironment(req)
		}
		return url.Parse(proxy)
	}
}
