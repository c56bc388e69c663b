// Package proxy builds the outbound HTTP clients used toward the remote
// speech and dialogue services.
package proxy

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"

	"golang.org/x/net/proxy"
)

// Options shape a single outbound client.
type Options struct {
	// SocksAddr routes the client through a SOCKS5 proxy when non-empty.
	SocksAddr string
	// InsecureTLS accepts any certificate from the remote endpoint. Known
	// weakening, kept on purpose: the gadget has no CA bundle to keep fresh.
	InsecureTLS bool
}

// NewClient builds an http.Client with no timeout layered on top of the
// transport defaults; a hung endpoint stalls the caller.
func NewClient(opts Options) (*http.Client, error) {
	transport := &http.Transport{}

	if opts.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	if opts.SocksAddr != "" {
		dialer, err := proxy.SOCKS5("tcp", opts.SocksAddr, nil, proxy.Direct)
		if err != nil {
			return nil, err
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}

	return &http.Client{Transport: transport}, nil
}
