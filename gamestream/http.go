package gamestream

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"gostream/crypto"
)

// Doer abstracts the HTTP backend so tests can script host responses.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// newHTTPClient builds the shared transport for both plain and TLS
// requests. The client certificate is presented on every HTTPS request;
// host certificates are self-signed, so chain verification is disabled and
// trust is established by the pairing handshake instead.
func newHTTPClient(identity *crypto.Identity) *http.Client {
	tlsConfig := &tls.Config{
		Certificates:       []tls.Certificate{identity.TLSCertificate()},
		InsecureSkipVerify: true,
	}

	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig:   tlsConfig,
			DisableKeepAlives: true,
		},
	}
}

// get performs one blocking GET bounded by the given timeout tier and
// returns the raw response body. Transport failures map to ErrIO.
func (c *Client) get(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrIO, err)
	}
	return body, nil
}

// getDocument performs a GET and parses the response as a host document,
// rejecting host-reported error statuses.
func (c *Client) getDocument(ctx context.Context, url string, timeout time.Duration) (*document, error) {
	body, err := c.get(ctx, url, timeout)
	if err != nil {
		return nil, err
	}

	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}
	if err := doc.status(); err != nil {
		return nil, err
	}
	return doc, nil
}
