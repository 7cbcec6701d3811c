// Package probe diagnoses selector drift. It fetches storefront markup over
// plain HTTP with a Chrome TLS fingerprint and reports which of an adapter's
// price selectors and embedded-data patterns still match. The storefronts
// render prices client-side, so a static fetch mostly exercises embedded
// JSON payloads and server-rendered fragments; the report says so when the
// page looks like an empty app shell.
package probe

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"

	utls "github.com/refraction-networking/utls"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// maxBody caps how much markup a single fetch reads.
const maxBody = 10 * 1024 * 1024

// Fetch retrieves the URL with a Chrome TLS fingerprint and browser-like
// headers. Accept-Encoding is left to the transport so the body arrives
// decompressed.
func Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	transport := &http.Transport{
		DialTLSContext: dialTLSChrome,
	}
	client := &http.Client{Transport: transport}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("probe: build request: %w", err)
	}
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-AU,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("probe: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("probe: HTTP %d for %s", resp.StatusCode, targetURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("probe: read body: %w", err)
	}
	return body, nil
}

// dialTLSChrome establishes a TLS connection presenting a Chrome ClientHello
// via utls, so TLS-fingerprinting CDNs see the same handshake a real browser
// would send.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}
	rawConn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, _ := net.SplitHostPort(addr)
	tlsConn := utls.UClient(rawConn, &utls.Config{
		ServerName: host,
	}, utls.HelloChrome_Auto)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, err
	}
	return tlsConn, nil
}
