package config

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/vango-dev/flxrouter/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "flxrouter.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Router.Entry != "/" {
		t.Errorf("Router.Entry = %q, want %q", cfg.Router.Entry, "/")
	}
	if !cfg.Router.UseHistory {
		t.Error("Router.UseHistory should default to true")
	}
	if cfg.Router.UseMemory {
		t.Error("Router.UseMemory should default to false")
	}
	if cfg.Store.Backend != BackendMemory {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, BackendMemory)
	}
	if cfg.Store.Key != "route" {
		t.Errorf("Store.Key = %q, want %q", cfg.Store.Key, "route")
	}
	if cfg.Store.Redis.Prefix != "flxrouter:route:" {
		t.Errorf("Store.Redis.Prefix = %q", cfg.Store.Redis.Prefix)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v, want info/text", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		cfg, err := Load(t.TempDir(), nil)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.ConfigFile() != "" {
			t.Errorf("ConfigFile() = %q, want empty", cfg.ConfigFile())
		}
		if cfg.Server.Addr != ":8080" {
			t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
		}
	})

	t.Run("yaml file", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, `
server:
  addr: ":9000"
router:
  routes_file: routes.yaml
  entry: /users
  use_memory: true
store:
  backend: redis
  redis:
    addr: redis:6379
    ttl: 1h
log:
  level: debug
  format: json
`)

		cfg, err := Load(dir, nil)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Server.Addr != ":9000" {
			t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":9000")
		}
		if want := filepath.Join(dir, "routes.yaml"); cfg.Router.RoutesFile != want {
			t.Errorf("Router.RoutesFile = %q, want %q", cfg.Router.RoutesFile, want)
		}
		if cfg.Router.Entry != "/users" {
			t.Errorf("Router.Entry = %q, want %q", cfg.Router.Entry, "/users")
		}
		if !cfg.Router.UseMemory {
			t.Error("Router.UseMemory should be true")
		}
		if !cfg.Router.UseHistory {
			t.Error("Router.UseHistory should keep its default")
		}
		if cfg.Store.Backend != BackendRedis {
			t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, BackendRedis)
		}
		if cfg.Store.Redis.Addr != "redis:6379" {
			t.Errorf("Store.Redis.Addr = %q", cfg.Store.Redis.Addr)
		}
		if cfg.Store.Redis.TTL != time.Hour {
			t.Errorf("Store.Redis.TTL = %v, want 1h", cfg.Store.Redis.TTL)
		}
		if !strings.HasSuffix(cfg.ConfigFile(), "flxrouter.yaml") {
			t.Errorf("ConfigFile() = %q", cfg.ConfigFile())
		}
	})

	t.Run("env overrides file", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "server:\n  addr: \":9000\"\n")
		t.Setenv("FLXROUTER_SERVER_ADDR", ":7000")
		t.Setenv("FLXROUTER_STORE_SQLITE_PATH", "/tmp/routes.db")

		cfg, err := Load(dir, nil)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Server.Addr != ":7000" {
			t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":7000")
		}
		if cfg.Store.SQLite.Path != "/tmp/routes.db" {
			t.Errorf("Store.SQLite.Path = %q", cfg.Store.SQLite.Path)
		}
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("FLXROUTER_SERVER_ADDR", ":7000")

		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.String("addr", "", "")
		fs.Bool("memory", false, "")
		fs.String("entry", "", "")
		if err := fs.Parse([]string{"--addr=:6000", "--memory"}); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(t.TempDir(), fs)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Server.Addr != ":6000" {
			t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":6000")
		}
		if !cfg.Router.UseMemory {
			t.Error("Router.UseMemory should be set by --memory")
		}
		if cfg.Router.Entry != "/" {
			t.Errorf("Router.Entry = %q, unset flag should not override default", cfg.Router.Entry)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "server: [unclosed\n")

		_, err := Load(dir, nil)
		assertCode(t, err, errors.CodeConfigInvalid)
	})

	t.Run("invalid values", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "store:\n  backend: etcd\n")

		_, err := Load(dir, nil)
		assertCode(t, err, errors.CodeConfigInvalid)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"sqlite", func(c *Config) { c.Store.Backend = BackendSQLite }, true},
		{"s3 without bucket", func(c *Config) { c.Store.Backend = BackendS3 }, false},
		{"s3 with bucket", func(c *Config) { c.Store.Backend = BackendS3; c.Store.S3.Bucket = "b" }, true},
		{"unknown backend", func(c *Config) { c.Store.Backend = "etcd" }, false},
		{"empty key", func(c *Config) { c.Store.Key = "" }, false},
		{"relative entry", func(c *Config) { c.Router.Entry = "users" }, false},
		{"watch without file", func(c *Config) { c.Router.Watch = true }, false},
		{"watch with file", func(c *Config) { c.Router.Watch = true; c.Router.RoutesFile = "routes.yaml" }, true},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, false},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok {
				assertCode(t, err, errors.CodeConfigInvalid)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer

	cfg := Default()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"
	logger := cfg.Logger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("json output = %s", out)
	}

	buf.Reset()
	cfg.Log.Format = "text"
	cfg.Log.Level = "debug"
	cfg.Logger(&buf).Debug("visible")
	if !strings.Contains(buf.String(), "msg=visible") {
		t.Errorf("text output = %s", buf.String())
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("error = nil, want %s", code)
	}
	var re *errors.RouterError
	if !stderrors.As(err, &re) {
		t.Fatalf("error %v is not a *RouterError", err)
	}
	if re.Code != code {
		t.Errorf("Code = %q, want %q", re.Code, code)
	}
}
