package pubadmin

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eringen/pubadmin/table"
)

func TestSetDefaults(t *testing.T) {
	var c SiteConfig
	c.setDefaults()
	if c.Name != "Blog Admin" || c.Addr != ":3000" {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if c.APIEndpoint != "http://localhost:3000"+localAPIPath {
		t.Errorf("APIEndpoint = %q", c.APIEndpoint)
	}
	if c.PageSize != table.DefaultPageSize || c.SearchDelay != table.SearchQuietPeriod {
		t.Errorf("table defaults = %d %v", c.PageSize, c.SearchDelay)
	}
}

func TestSetDefaultsTrimsURL(t *testing.T) {
	c := SiteConfig{URL: "https://admin.example.com/"}
	c.setDefaults()
	if c.APIEndpoint != "https://admin.example.com"+localAPIPath {
		t.Errorf("APIEndpoint = %q", c.APIEndpoint)
	}
}

func TestValidate(t *testing.T) {
	c := SiteConfig{}
	c.setDefaults()
	err := c.Validate()
	if err == nil {
		t.Fatal("expected missing credentials to fail")
	}

	c.AdminEmail, c.AdminPassword, c.SessionSecret = "a@example.com", "pw", "secret"
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	c.PageSize = 7
	if err := c.Validate(); !errors.Is(err, table.ErrInvalidPageSize) {
		t.Errorf("Validate page size 7 = %v, want ErrInvalidPageSize", err)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pubadmin.yaml")
	yaml := `
name: Team Blog
admin_email: file@example.com
admin_password: from-file
session_secret: s3cret
page_size: 20
search_delay: 300ms
local_api: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PUBADMIN_ADMIN_PASSWORD", "from-env")
	t.Setenv("PUBADMIN_API_TIMEOUT", "2s")

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.Name != "Team Blog" || c.AdminEmail != "file@example.com" {
		t.Errorf("file values not applied: %+v", c)
	}
	if c.AdminPassword != "from-env" {
		t.Errorf("AdminPassword = %q, want env override", c.AdminPassword)
	}
	if c.PageSize != 20 || c.SearchDelay != 300*time.Millisecond || !c.LocalAPI {
		t.Errorf("typed values = %d %v %v", c.PageSize, c.SearchDelay, c.LocalAPI)
	}
	if c.APITimeout != 2*time.Second {
		t.Errorf("APITimeout = %v", c.APITimeout)
	}
}

func TestLoadConfigBadEnv(t *testing.T) {
	t.Setenv("PUBADMIN_LOCAL_API", "maybe")
	if _, err := LoadConfig(""); err == nil {
		t.Error("expected an error for a non-boolean PUBADMIN_LOCAL_API")
	}
}

func TestLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := (SiteConfig{LogLevel: in}).Level(); got != want {
			t.Errorf("Level(%q) = %v, want %v", in, got, want)
		}
	}
}
