// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"fmt"
	"net/http"
	"time"

	"github.com/StalkR/hsts"
)

// DowngradedRedirectError is returned when the API redirects an HTTPS
// request to plain HTTP.
type DowngradedRedirectError struct {
	Endpoint string
}

func (e *DowngradedRedirectError) Error() string {
	return fmt.Sprintf("the endpoint %s is attempting to downgrade an HTTPS request to HTTP", e.Endpoint)
}

// NewClient returns an HTTP client with the given timeout and HTTP Strict
// Transport Security enabled. Redirects to plain HTTP are refused.
func NewClient(timeout time.Duration) *http.Client {
	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > 0 && via[0].URL.Scheme == "https" && req.URL.Scheme == "http" {
				return &DowngradedRedirectError{Endpoint: req.URL.Host + req.URL.Path}
			}
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
	client.Transport = hsts.New(http.DefaultTransport)
	return client
}
