// Package tor starts an embedded Tor daemon to use as the egress route of
// the crawler.
//
// The daemon is launched with github.com/nao1215/tornago, which runs the tor
// binary found in PATH on OS-assigned SOCKS and control ports. Route returns
// a socks5:// URL that fetch.NewClient accepts like any other proxy route.
package tor
