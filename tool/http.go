package tool

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/moyoez/risport-go/types"
)

var DefaultTimeout = 30 * time.Second

// NewHTTPClient builds the client for a single RIS call. It is derived from the
// call's config every time, so TLS and timeout changes apply to the next call.
func NewHTTPClient(cfg types.ClientConfig) (*http.Client, error) {
	tlsConfig := &tls.Config{}
	if cfg.CACertFile != "" {
		pool, err := LoadRootCAs(cfg.CACertFile)
		if err != nil {
			return nil, err
		}
		tlsConfig.RootCAs = pool
	}
	if cfg.InsecureSkipVerify {
		tlsConfig.InsecureSkipVerify = true
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSClientConfig:     tlsConfig,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        10,
		IdleConnTimeout:     30 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		// a redirect is answered as a status error; the envelope and credentials are sent once
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, nil
}

// NewHTTPReqWithSOAP sets the headers every RIS request carries.
func NewHTTPReqWithSOAP(req *http.Request, err error, soapAction, username, password string) (*http.Request, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", soapAction)
	req.Header.Set("Authorization", BasicAuthorization(username, password))
	return req, nil
}
