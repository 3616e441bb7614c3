package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// ParseRoute parses an egress route.
// An empty route means a direct connection and returns nil.
// A bare "host:port" is treated as an HTTP proxy.
func ParseRoute(route string) (*url.URL, error) {
	route = strings.TrimSpace(route)
	if route == "" {
		return nil, nil //nolint:nilnil // nil route means direct connection
	}
	if !strings.Contains(route, "://") {
		if !isValidProxyAddress(route) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRoute, route)
		}
		route = "http://" + route
	}

	u, err := url.Parse(route)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoute, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidRoute, u.Scheme)
	}
	if !isValidProxyAddress(u.Host) {
		return nil, fmt.Errorf("%w: bad proxy address %q", ErrInvalidRoute, u.Host)
	}
	return u, nil
}

// isValidProxyAddress checks that address is "host:port" with a port in 1..65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// newTransport builds the HTTP transport for a route. A nil route dials
// directly; proxy environment variables are ignored.
// HTTP(S) proxies use the standard proxy support of net/http; SOCKS5
// proxies dial through golang.org/x/net/proxy, which also handles
// user:password authentication taken from the URL.
func newTransport(route *url.URL) (*http.Transport, error) {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     30 * time.Second,
	}

	if route == nil {
		return transport, nil
	}

	switch route.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(route)
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(route, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.DialContext = dialContext(dialer)
	}
	return transport, nil
}

// dialContext adapts a proxy.Dialer to the DialContext signature.
// Dialers without context support are raced against ctx.Done().
func dialContext(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}
		resultCh := make(chan dialResult, 1)

		go func() {
			conn, err := d.Dial(network, addr)
			resultCh <- dialResult{conn, err}
		}()

		select {
		case result := <-resultCh:
			return result.conn, result.err
		case <-ctx.Done():
			go func() {
				if result := <-resultCh; result.conn != nil {
					_ = result.conn.Close() //nolint:errcheck // nobody waits for this connection
				}
			}()
			return nil, ctx.Err()
		}
	}
}
