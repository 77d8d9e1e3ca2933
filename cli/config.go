package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abiiranathan/pdfscan/pdf"
	"github.com/abiiranathan/pdfscan/search"
	"github.com/abiiranathan/pdfscan/viewer"
)

// Config holds the configuration for the CLI.
type Config struct {
	// Max files processed at a time.
	// Large values will increase CPU and memory usage.
	// Default is the number of CPUs.
	MaxConcurrency int `yaml:"concurrency"`

	// the directory to search
	Directory string `yaml:"directory"`

	// the file for locate
	Filename string `yaml:"-"`

	// Search keywords separated by spaces, commas or semicolons
	Pattern string `yaml:"-"`

	// Text to place on a page, for locate
	Text string `yaml:"-"`

	// pages, text or multi
	Mode string `yaml:"mode"`

	// poppler or docconv
	Backend string `yaml:"backend"`

	// Documents kept in memory between searches.
	CacheSize int `yaml:"cache_size"`

	// fill (keep the first documents) or lru
	CachePolicy string `yaml:"cache_policy"`

	// Search files in path order instead of smallest first.
	PathOrder bool `yaml:"path_order"`

	// Drop English stop words from the keywords.
	Stopwords bool `yaml:"stopwords"`

	// Lines per page assumed when estimating page numbers.
	LinesPerPage int `yaml:"lines_per_page"`

	// Largest document served to the viewer, in bytes.
	MaxDocumentBytes int64 `yaml:"max_document_bytes"`

	// debug, info, warn or error
	LogLevel string `yaml:"log_level"`

	// address the server binds to. default is 127.0.0.1
	Host string `yaml:"host"`

	// server port. default is 8080
	Port int `yaml:"port"`

	// YAML file read before the command line flags.
	ConfigFile string `yaml:"-"`
}

var DefaultConfig = Config{
	Mode:             string(search.ModePages),
	Backend:          pdf.BackendPoppler,
	CacheSize:        search.DefaultCacheSize,
	CachePolicy:      search.PolicyFill,
	LinesPerPage:     search.DefaultLinesPerPage,
	MaxDocumentBytes: viewer.DefaultMaxBytes,
	LogLevel:         "info",
	Host:             "127.0.0.1",
	Port:             8080,
}

// LoadFile overlays the YAML file at path onto config. A missing file is not
// an error when optional is true.
func LoadFile(config *Config, path string, optional bool) error {
	f, err := os.Open(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("unable to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil {
		return fmt.Errorf("unable to parse config file %s: %w", path, err)
	}
	return nil
}

// ConfigPath returns the value of -C/--config in args, if any.
func ConfigPath(args []string) string {
	for i, arg := range args {
		for _, name := range []string{"-C", "--config", "-config"} {
			if arg == name && i+1 < len(args) {
				return args[i+1]
			}
			if v, ok := strings.CutPrefix(arg, name+"="); ok {
				return v
			}
		}
	}
	return ""
}

// Validate checks the values that flags and files cannot constrain.
func (c *Config) Validate() error {
	if _, err := search.ParseMode(c.Mode); err != nil {
		return err
	}

	switch c.Backend {
	case pdf.BackendPoppler, pdf.BackendDocconv:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	switch c.CachePolicy {
	case search.PolicyFill, search.PolicyLRU:
	default:
		return fmt.Errorf("unknown cache policy %q", c.CachePolicy)
	}

	if c.MaxConcurrency < 0 || c.MaxConcurrency > 100 {
		return fmt.Errorf("concurrency must be between 0 (one per CPU) and 100, got %d", c.MaxConcurrency)
	}

	if c.CacheSize < 1 {
		return fmt.Errorf("cache size must be positive, got %d", c.CacheSize)
	}
	return nil
}

// Logger returns a text logger on stderr at the configured level.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// QueryOptions returns the keyword options implied by the config.
func (c *Config) QueryOptions() []search.QueryOption {
	if c.Stopwords {
		return []search.QueryOption{search.WithoutStopwords("en")}
	}
	return nil
}

// NewEngine builds the search engine described by the config.
func NewEngine(c *Config, logger *slog.Logger) (*search.Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	extractor, err := pdf.NewExtractor(c.Backend)
	if err != nil {
		return nil, err
	}

	cache, err := search.NewCache(c.CachePolicy, c.CacheSize)
	if err != nil {
		return nil, err
	}

	engine, err := search.New(search.Options{
		Extractor:    extractor,
		Cache:        cache,
		Workers:      c.MaxConcurrency,
		PathOrder:    c.PathOrder,
		LinesPerPage: c.LinesPerPage,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	// Page mode needs an extractor that reads pages.
	if mode, _ := search.ParseMode(c.Mode); mode == search.ModePages && !engine.Paged() {
		return nil, fmt.Errorf("backend %s cannot run mode %s: %w", c.Backend, c.Mode, search.ErrPagesUnsupported)
	}
	return engine, nil
}
