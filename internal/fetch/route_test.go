package fetch

import (
	"context"
	"net"
	"net/url"
	"testing"
	"time"
)

func TestNewTransport(t *testing.T) {
	// Not parallel: t.Setenv.
	t.Setenv("HTTP_PROXY", "http://127.0.0.1:1")
	t.Setenv("HTTPS_PROXY", "http://127.0.0.1:1")

	t.Run("no route dials directly", func(t *testing.T) {
		transport, err := newTransport(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if transport.Proxy != nil {
			t.Error("expected no proxy function for a direct route")
		}
	})

	t.Run("http route sets the proxy", func(t *testing.T) {
		route, _ := url.Parse("http://127.0.0.1:3128")
		transport, err := newTransport(route)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if transport.Proxy == nil {
			t.Fatal("expected proxy function")
		}
	})

	t.Run("socks route sets the dialer", func(t *testing.T) {
		route, _ := url.Parse("socks5://127.0.0.1:9050")
		transport, err := newTransport(route)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if transport.DialContext == nil || transport.Proxy != nil {
			t.Error("expected SOCKS dialer and no HTTP proxy")
		}
	})
}

// closeRecorder is a connection that reports when it is closed.
type closeRecorder struct {
	net.Conn
	closed chan struct{}
}

func (c *closeRecorder) Close() error {
	close(c.closed)
	return c.Conn.Close()
}

// slowDialer finishes dialing only after release is closed.
type slowDialer struct {
	release chan struct{}
	conn    *closeRecorder
}

func (d *slowDialer) Dial(_, _ string) (net.Conn, error) {
	<-d.release
	return d.conn, nil
}

func TestDialContext_ClosesLateConnection(t *testing.T) {
	t.Parallel()

	client, server := net.Pipe()
	defer server.Close()

	d := &slowDialer{
		release: make(chan struct{}),
		conn:    &closeRecorder{Conn: client, closed: make(chan struct{})},
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := dialContext(d)(ctx, "tcp", "www.marinetraffic.com:443"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
	close(d.release)

	select {
	case <-d.conn.closed:
	case <-time.After(2 * time.Second):
		t.Error("expected the connection dialed after cancellation to be closed")
	}
}
