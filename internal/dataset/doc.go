// Package dataset persists datasets as ';' separated files and reads the
// inputs the crawl passes depend on.
//
// Store writes each dataset twice: a snapshot overwritten every run and a
// cumulative file appended every run. Files are read back as UTF-8, or as
// Latin-1 when they are not valid UTF-8, since the interest file is often
// edited in spreadsheet tools that save Latin-1.
//
// PortIndex is the join between the ports dataset and the passes that start
// from a port name; InterestFilter is the list of those names.
package dataset
