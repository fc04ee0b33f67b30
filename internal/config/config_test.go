package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWithEnvironment(map[string]string{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Schemas: SchemasConfig{CacheTTL: 5 * time.Minute},
		Render:  RenderConfig{Renderer: "vanilla", Columns: 1, Language: "en"},
		Client:  ClientConfig{Timeout: 15 * time.Second},
	}
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := LoadWithEnvironment(map[string]string{
		"FORMKIT_ADDR":       "127.0.0.1:9000",
		"FORMKIT_LOG_LEVEL":  "debug",
		"FORMKIT_LOG_FORMAT": "json",
		"FORMKIT_SCHEMA_DIR": "./schemas",
		"FORMKIT_COLUMNS":    "3",
		"FORMKIT_COUNTRY":    "us",
		"FORMKIT_BASE_URL":   "http://localhost:3000",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	if cfg.Schemas.Dir != "./schemas" || cfg.Render.Columns != 3 || cfg.Render.Country != "us" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Client.BaseURL != "http://localhost:3000" {
		t.Fatalf("base url = %q", cfg.Client.BaseURL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]struct {
		env  map[string]string
		want string
	}{
		"level":   {env: map[string]string{"FORMKIT_LOG_LEVEL": "loud"}, want: "invalid log level"},
		"format":  {env: map[string]string{"FORMKIT_LOG_FORMAT": "xml"}, want: "invalid log format"},
		"columns": {env: map[string]string{"FORMKIT_COLUMNS": "0"}, want: "columns must be at least 1"},
		"body":    {env: map[string]string{"FORMKIT_MAX_BODY_BYTES": "0"}, want: "max body bytes"},
		"parse":   {env: map[string]string{"FORMKIT_READ_TIMEOUT": "soon"}, want: "parse environment"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWithEnvironment(tc.env)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
