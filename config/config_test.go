package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/flumehq/flume/logger"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "ingest"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "ingest", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})

	t.Run("service name propagates into logging", func(t *testing.T) {
		cfg := ServiceConfig{Name: "ingest"}
		cfg.ApplyDefaults()
		if cfg.Logging.ServiceName != "ingest" {
			t.Errorf("expected logging service name 'ingest', got %q", cfg.Logging.ServiceName)
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected logging defaults applied, got level %q", cfg.Logging.Level)
		}
	})

	t.Run("explicit logging service name wins", func(t *testing.T) {
		cfg := ServiceConfig{Name: "ingest", Logging: logger.Config{ServiceName: "custom"}}
		cfg.ApplyDefaults()
		if cfg.Logging.ServiceName != "custom" {
			t.Errorf("expected 'custom', got %q", cfg.Logging.ServiceName)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	validLogging := logger.Config{Level: "info", Format: "json"}

	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", ServiceConfig{Name: "svc", Environment: "development", Logging: validLogging}, false, ""},
		{"valid staging", ServiceConfig{Name: "svc", Environment: "staging", Logging: validLogging}, false, ""},
		{"valid production", ServiceConfig{Name: "svc", Environment: "production", Logging: validLogging}, false, ""},
		{"missing name", ServiceConfig{Environment: "production", Logging: validLogging}, true, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "invalid", Logging: validLogging}, true, "config.environment must be one of"},
		{"invalid logging", ServiceConfig{Name: "svc", Environment: "production", Logging: logger.Config{Level: "loud", Format: "json"}}, true, "config.logging"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

type testAppConfig struct {
	Base struct {
		Name    string `yaml:"name" mapstructure:"name"`
		Version string `yaml:"version" mapstructure:"version"`
	} `yaml:"base" mapstructure:"base"`
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfigFile(t, `
base:
  name: ingest
  version: "1.0.0"
`)

	var cfg testAppConfig
	if err := Load("ingest", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Base.Name != "ingest" {
		t.Errorf("expected name 'ingest', got %q", cfg.Base.Name)
	}
	if cfg.Base.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", cfg.Base.Version)
	}
}

func TestLoadMissingFileIsNotError(t *testing.T) {
	var cfg testAppConfig
	if err := Load("nonexistent", &cfg, WithConfigFile("/nonexistent/path.yml")); err != nil {
		t.Fatalf("expected Load to succeed with missing file, got %v", err)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "base: [unclosed")

	var cfg testAppConfig
	err := Load("ingest", &cfg, WithConfigFile(path))
	if err == nil {
		t.Fatal("expected error for malformed config")
	}
	if !strings.Contains(err.Error(), "reading") {
		t.Errorf("expected reading error, got %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfigFile(t, `
base:
  name: ingest
  version: "1.0.0"
`)

	t.Setenv("FLUME_BASE_VERSION", "2.0.0")

	var cfg testAppConfig
	if err := Load("ingest", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Base.Version != "2.0.0" {
		t.Errorf("expected env override '2.0.0', got %q", cfg.Base.Version)
	}
}

func TestLoadEnvValueUnquoted(t *testing.T) {
	path := writeConfigFile(t, `
base:
  name: ingest
`)

	// docker --env-file keeps literal quotes, unlike a shell.
	t.Setenv("FLUME_BASE_VERSION", `"3.0.0"`)

	var cfg testAppConfig
	if err := Load("ingest", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Base.Version != "3.0.0" {
		t.Errorf("expected quotes stripped, got %q", cfg.Base.Version)
	}
}

func TestLoadEnvPrefixWins(t *testing.T) {
	path := writeConfigFile(t, `
base:
  name: ingest
`)

	t.Setenv("BASE_VERSION", "bare")
	t.Setenv("FLUME_BASE_VERSION", "prefixed")

	var cfg testAppConfig
	if err := Load("ingest", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Base.Version != "prefixed" {
		t.Errorf("expected prefixed variable to win, got %q", cfg.Base.Version)
	}
}

type mockFS struct {
	files     map[string]bool
	loadedEnv string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }

func (m *mockFS) LoadEnv(path string) error {
	m.loadedEnv = path
	return nil
}

func TestResolveFiles(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	tests := []struct {
		name       string
		files      map[string]bool
		opts       LoaderConfig
		configFile string
		envFile    string
	}{
		{
			name:       "explicit paths win",
			files:      map[string]bool{"config/ingest.yaml": true, ".env": true},
			opts:       LoaderConfig{ConfigFile: "custom.yaml", EnvFile: "custom.env"},
			configFile: "custom.yaml",
			envFile:    "custom.env",
		},
		{
			name:       "service config file",
			files:      map[string]bool{"config/ingest.yaml": true, "config.yaml": true},
			configFile: "config/ingest.yaml",
		},
		{
			name:       "fallback config file",
			files:      map[string]bool{"config.yaml": true},
			configFile: "config.yaml",
		},
		{
			name:       "service env file preferred",
			files:      map[string]bool{".env.ingest": true, ".env": true},
			configFile: "",
			envFile:    ".env.ingest",
		},
		{
			name:    "shared env file",
			files:   map[string]bool{".env": true},
			envFile: ".env",
		},
		{
			name: "nothing found",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resolver := &Resolver{FileSystem: &mockFS{files: tc.files}}
			got := resolver.ResolveFiles("ingest", tc.opts)
			want := ResolvedFiles{ConfigFile: tc.configFile, EnvFile: tc.envFile}
			if got != want {
				t.Errorf("got %+v, want %+v", got, want)
			}
		})
	}
}

func TestResolveFilesConfigFileVariable(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/etc/flume/ingest.yaml")

	resolver := &Resolver{FileSystem: &mockFS{}}
	got := resolver.ResolveFiles("ingest", LoaderConfig{})
	if got.ConfigFile != "/etc/flume/ingest.yaml" {
		t.Errorf("expected CONFIG_FILE value, got %q", got.ConfigFile)
	}
}

func TestLoadCallsEnvFileLoader(t *testing.T) {
	fs := &mockFS{files: map[string]bool{".env.ingest": true}}

	var cfg testAppConfig
	if err := Load("ingest", &cfg, WithFileSystem(fs)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if fs.loadedEnv != ".env.ingest" {
		t.Errorf("expected .env.ingest loaded, got %q", fs.loadedEnv)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{"PORT", []string{"port"}},
		{"LOGGING_LEVEL", []string{"logging_level", "logging.level"}},
		{"KAFKA_BATCH_TIMEOUT", []string{"kafka_batch_timeout", "kafka.batch.timeout", "kafka.batch_timeout"}},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			got := generateEnvKeyVariants(tc.key)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig

	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("INGEST")(&lc)

	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" {
		t.Errorf("unexpected config file %q", lc.ConfigFile)
	}
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("unexpected env file %q", lc.EnvFile)
	}
	if lc.EnvPrefix != "INGEST" {
		t.Errorf("unexpected env prefix %q", lc.EnvPrefix)
	}
}
