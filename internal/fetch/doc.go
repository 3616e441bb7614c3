// Package fetch retrieves HTML pages over HTTP.
//
// A Client performs plain GET requests, either directly or through an
// egress route: an HTTP(S) proxy or a SOCKS5 proxy such as a local Tor
// daemon. Every request carries a browser-like User-Agent and waits on a
// shared rate limiter, so one Client can be used by many goroutines without
// exceeding the configured request rate.
//
// Fetch reports transport failures as errors. HTTP status codes outside
// the 2xx range are returned as a Page; Page.Err converts them into a
// *StatusError when the caller wants one.
package fetch
