package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "marinecrawl"

	// DefaultBaseURL is prepended to every relative link found on a page.
	DefaultBaseURL = "https://www.marinetraffic.com"

	// DefaultPortsURL lists every port, anchorage and marina flagged BR.
	// Adding "/port_type:p" restricts the listing to ports only.
	DefaultPortsURL = "https://www.marinetraffic.com/en/ais/index/ports/all/flag:BR/per_page:50"

	// DefaultOutputDir is where datasets are written.
	DefaultOutputDir = "output"

	// DefaultInterestFile is the user maintained list of ports of interest.
	DefaultInterestFile = "input/portos_interesse.csv"

	// DefaultErrorFile is the snapshot file of the error dataset.
	DefaultErrorFile = "navios_erro.csv"

	// DefaultTimeout is the timeout of a single page fetch.
	DefaultTimeout = 60 * time.Second

	// DefaultRequestsPerSecond bounds the fetch rate against the site.
	DefaultRequestsPerSecond = 1.0

	// DefaultUserAgent is the User-Agent header sent with every request.
	// The site rejects requests that do not look like a browser.
	DefaultUserAgent = "Mozilla/5.0"

	// DefaultPageSize is appended to list URLs as "/per_page:N".
	DefaultPageSize = 50

	// DefaultShipType is the vessel type filter appended to ships-in-port URLs
	// as "/ship_type:N". 8 selects tankers.
	DefaultShipType = 8

	// DefaultTypeKeyword is the type text a vessel must contain to be kept.
	DefaultTypeKeyword = "tanker"

	// DefaultTypeIcon is the type icon an expected arrival must show to be kept.
	DefaultTypeIcon = "vessel_types/vi8.png"

	// DefaultConcurrency is the number of seeds crawled at the same time.
	DefaultConcurrency = 1

	// DefaultMaxPages bounds the pages followed for one seed. 0 means no bound.
	DefaultMaxPages = 0

	// DefaultTorStartupTimeout bounds the bootstrap of the embedded Tor daemon.
	DefaultTorStartupTimeout = 3 * time.Minute

	// DefaultMaxBodySize limits the response body read for one page.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB
)

// Config holds all configuration options for marinecrawl.
// It is populated from the configuration file and CLI flags, then passed
// down explicitly rather than kept in global state.
type Config struct {
	// BaseURL is prepended to relative links found on pages.
	BaseURL string

	// PortsURL is the seed of the ports pass.
	PortsURL string

	// OutputDir is the directory of the dataset files.
	OutputDir string

	// InterestFile is the path of the ports-of-interest list.
	InterestFile string

	// ErrorFile is the snapshot path of the error dataset.
	// The cumulative file is derived from it.
	ErrorFile string

	// Route is the optional egress proxy (http://, https:// or socks5:// URL).
	// Empty means a direct connection.
	Route string

	// EmbeddedTor starts a Tor daemon and uses it as the route.
	// It cannot be combined with Route.
	EmbeddedTor bool

	// TorStartupTimeout bounds the bootstrap of the embedded Tor daemon.
	TorStartupTimeout time.Duration

	// Timeout is the timeout of a single page fetch.
	Timeout time.Duration

	// RequestsPerSecond bounds the fetch rate. 0 disables rate limiting.
	RequestsPerSecond float64

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize limits the response body read for one page.
	MaxBodySize int64

	// PageSize is the page size requested from list pages.
	PageSize int

	// ShipType is the vessel type filter of the ships-in-port listing.
	ShipType int

	// TypeKeyword is matched case-insensitively against the vessel type.
	TypeKeyword string

	// TypeIcon is matched against the vessel type icon of expected arrivals.
	TypeIcon string

	// MaxPorts caps the number of ports collected. 0 means no cap.
	MaxPorts int

	// MaxShips caps the number of vessel detail pages fetched. 0 means no cap.
	MaxShips int

	// MaxPages bounds the pages followed for one seed. 0 means no bound.
	MaxPages int

	// Concurrency is the number of seeds crawled at the same time.
	Concurrency int

	// Selectors locates the elements the extraction reads.
	Selectors Selectors

	// Verbose enables debug logging.
	Verbose bool

	// LogFile, when set, receives a copy of the log output.
	LogFile string

	// ConfigFilePath is the path of the configuration file.
	// When empty, .marinecrawl is searched in the current and home directory.
	ConfigFilePath string

	// HistoryDir is the directory of the run history database.
	// Empty disables run history.
	HistoryDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:           DefaultBaseURL,
		PortsURL:          DefaultPortsURL,
		OutputDir:         DefaultOutputDir,
		InterestFile:      DefaultInterestFile,
		ErrorFile:         DefaultErrorFile,
		Timeout:           DefaultTimeout,
		TorStartupTimeout: DefaultTorStartupTimeout,
		RequestsPerSecond: DefaultRequestsPerSecond,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		PageSize:          DefaultPageSize,
		ShipType:          DefaultShipType,
		TypeKeyword:       DefaultTypeKeyword,
		TypeIcon:          DefaultTypeIcon,
		MaxPages:          DefaultMaxPages,
		Concurrency:       DefaultConcurrency,
		Selectors:         DefaultSelectors(),
		HistoryDir:        XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for marinecrawl.
// On Linux: ~/.local/share/marinecrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for marinecrawl.
// On Linux: ~/.config/marinecrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrNoBaseURL
	}
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.EmbeddedTor && c.Route != "" {
		return ErrConflictingRoute
	}
	if c.EmbeddedTor && c.TorStartupTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.RequestsPerSecond < 0 {
		return ErrInvalidRate
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.PageSize <= 0 {
		return ErrInvalidPageSize
	}
	if c.MaxPorts < 0 || c.MaxShips < 0 || c.MaxPages < 0 {
		return ErrInvalidLimit
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return c.Selectors.Validate()
}

// DatasetPath returns the snapshot path of the named dataset.
func (c *Config) DatasetPath(name string) string {
	return filepath.Join(c.OutputDir, name+".csv")
}

// ErrorPath returns the snapshot path of the error dataset. A bare file
// name is placed in OutputDir.
func (c *Config) ErrorPath() string {
	if filepath.IsAbs(c.ErrorFile) || filepath.Base(c.ErrorFile) != c.ErrorFile {
		return c.ErrorFile
	}
	return filepath.Join(c.OutputDir, c.ErrorFile)
}
