// Package config provides the configuration of marinecrawl.
//
// A Config starts from NewConfig defaults, is overlaid with the optional
// .marinecrawl YAML file (see FindConfigFile and File.Apply) and finally with
// command line flags. The result is validated once with Validate and then
// passed to every component explicitly.
//
// The file also carries the CSS selectors of the site's markup so a markup
// change can be absorbed without a new release.
package config
