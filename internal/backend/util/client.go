package util

import (
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/http2"
)

// NewHTTPClient builds a keepalive client that negotiates HTTP/2 with TLS
// endpoints and falls back to HTTP/1.1 for plain local servers. It sets no
// overall timeout; callers bound requests through the context.
func NewHTTPClient() (*http.Client, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		return nil, errors.Wrap(err, "error configuring HTTP/2 transport")
	}
	return &http.Client{Transport: transport}, nil
}
