// Package model defines the core data structures used throughout marinecrawl.
//
// This package contains the following main types:
//   - Value: An optional cell value; the zero Value is null
//   - Port, ShipInPort, ExpectedArrival, ShipOfInterest: Harvested records
//   - ErrorRecord: A failed fetch, kept alongside the harvested data
//   - Dataset: An ordered set of records with a fixed column header
//   - RunReport: The per-pass outcome of one crawl run
//
// Models live in their own package because the crawler, pipeline, dataset
// and report packages all need them.
package model
