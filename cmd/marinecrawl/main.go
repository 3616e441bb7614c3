// Package main provides the entry point for the marinecrawl CLI.
//
// marinecrawl collects port, vessel and expected-arrival data for Brazilian
// ports from a vessel-tracking website and writes it as ';' separated
// datasets.
//
// Usage:
//
//	marinecrawl crawl
//	marinecrawl crawl ports ships-in-port
//	marinecrawl history
//
// See --help for all available options.
package main

func main() {
	Execute()
}
