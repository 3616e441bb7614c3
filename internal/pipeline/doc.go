// Package pipeline runs the crawl passes of a marinecrawl run.
//
// A run is a sequence of four passes, each producing one dataset:
//
//	ports              -> portos
//	ships-in-port      -> navios_em_portos      (needs portos + interest file)
//	expected-arrivals  -> chegadas_esperadas    (needs portos + interest file)
//	ships-of-interest  -> navios_interesse      (needs the two datasets above)
//
// Each pass enumerates its seed URLs, walks every seed's pagination chain
// with a crawler.Paginator, post-processes the records and saves the dataset
// through a dataset.Store. Seeds of one pass may be crawled in parallel by a
// SeedRunner; pages of one seed are always fetched in order.
//
// Fetch failures become error records and never stop a pass. A missing
// prerequisite file stops its pass only. The error records of every pass are
// written to the error dataset once per run by SaveErrors.
package pipeline
