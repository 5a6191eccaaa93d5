package pubadmin

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/pubadmin/table"
)

// SiteConfig holds all configuration for the admin console.
type SiteConfig struct {
	Name string `yaml:"name"` // Site name (default "Blog Admin")
	URL  string `yaml:"url"`  // Canonical URL (default "http://localhost:3000")
	Addr string `yaml:"addr"` // Listen address (default ":3000")

	APIEndpoint string        `yaml:"api_endpoint"` // Listing API (default URL + "/api/blog/getAllBlogs")
	APITimeout  time.Duration `yaml:"api_timeout"`  // default 15s

	LocalAPI     bool          `yaml:"local_api"`     // Serve the listing API from SQLite
	DatabasePath string        `yaml:"database_path"` // SQLite path (default "data/blogs.db")
	CacheTTL     time.Duration `yaml:"cache_ttl"`     // Local API cache TTL (default 1min)

	AdminName     string `yaml:"admin_name"`     // Shown in the header (default "Admin")
	AdminEmail    string `yaml:"admin_email"`    // Required
	AdminPassword string `yaml:"admin_password"` // Required
	SessionSecret string `yaml:"session_secret"` // Required
	CookieSecure  bool   `yaml:"cookie_secure"`  // Set true for HTTPS

	PageSize    int           `yaml:"page_size"`    // Initial rows per page (default 10)
	SearchDelay time.Duration `yaml:"search_delay"` // Search quiet period (default 500ms)
	SessionIdle time.Duration `yaml:"session_idle"` // Table state kept this long after last use (default 30min)

	LogLevel string `yaml:"log_level"` // debug, info, warn or error (default info)
	SeqURL   string `yaml:"seq_url"`   // Optional Seq ingestion URL
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog Admin"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.APIEndpoint == "" {
		c.APIEndpoint = c.URL + localAPIPath
	}
	if c.APITimeout == 0 {
		c.APITimeout = 15 * time.Second
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blogs.db"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = time.Minute
	}
	if c.AdminName == "" {
		c.AdminName = "Admin"
	}
	if c.PageSize == 0 {
		c.PageSize = table.DefaultPageSize
	}
	if c.SearchDelay == 0 {
		c.SearchDelay = table.SearchQuietPeriod
	}
	if c.SessionIdle == 0 {
		c.SessionIdle = 30 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports missing required settings.
func (c SiteConfig) Validate() error {
	var errs []error
	if c.AdminEmail == "" {
		errs = append(errs, errors.New("AdminEmail is required"))
	}
	if c.AdminPassword == "" {
		errs = append(errs, errors.New("AdminPassword is required"))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SessionSecret is required"))
	}
	if !table.ValidPageSize(c.PageSize) {
		errs = append(errs, fmt.Errorf("page size %d: %w", c.PageSize, table.ErrInvalidPageSize))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("pubadmin: %w", err)
	}
	return nil
}

// Level parses LogLevel, falling back to info.
func (c SiteConfig) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// LoadConfig reads the YAML file at path, when path is non-empty, then
// applies PUBADMIN_* environment overrides.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("pubadmin: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("pubadmin: parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) applyEnv(getenv func(string) string) error {
	str := map[string]*string{
		"PUBADMIN_SITE_NAME":      &c.Name,
		"PUBADMIN_SITE_URL":       &c.URL,
		"PUBADMIN_ADDR":           &c.Addr,
		"PUBADMIN_API_ENDPOINT":   &c.APIEndpoint,
		"PUBADMIN_DATABASE_PATH":  &c.DatabasePath,
		"PUBADMIN_ADMIN_NAME":     &c.AdminName,
		"PUBADMIN_ADMIN_EMAIL":    &c.AdminEmail,
		"PUBADMIN_ADMIN_PASSWORD": &c.AdminPassword,
		"PUBADMIN_SESSION_SECRET": &c.SessionSecret,
		"PUBADMIN_LOG_LEVEL":      &c.LogLevel,
		"PUBADMIN_SEQ_URL":        &c.SeqURL,
	}
	for key, dst := range str {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	bools := map[string]*bool{
		"PUBADMIN_LOCAL_API":     &c.LocalAPI,
		"PUBADMIN_COOKIE_SECURE": &c.CookieSecure,
	}
	for key, dst := range bools {
		if v := getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("pubadmin: %s: %w", key, err)
			}
			*dst = b
		}
	}
	durations := map[string]*time.Duration{
		"PUBADMIN_API_TIMEOUT":  &c.APITimeout,
		"PUBADMIN_CACHE_TTL":    &c.CacheTTL,
		"PUBADMIN_SEARCH_DELAY": &c.SearchDelay,
		"PUBADMIN_SESSION_IDLE": &c.SessionIdle,
	}
	for key, dst := range durations {
		if v := getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("pubadmin: %s: %w", key, err)
			}
			*dst = d
		}
	}
	if v := getenv("PUBADMIN_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("pubadmin: PUBADMIN_PAGE_SIZE: %w", err)
		}
		c.PageSize = n
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithHTTPClient sets the client used to reach the listing API.
func WithHTTPClient(c *http.Client) Option {
	return func(a *App) {
		a.httpClient = c
	}
}
