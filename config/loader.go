package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/flumehq/flume/util"
)

// DefaultEnvPrefix is stripped from environment variables when binding
// overrides, so FLUME_LOGGING_LEVEL reaches the logging.level key.
const DefaultEnvPrefix = "FLUME"

// FileSystem abstracts the two file operations the loader needs, so
// tests can run against a fake.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem is the FileSystem backed by the OS.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver handles finding config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles names the config and env files a load will read.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles finds config and env files for a service. Explicit paths
// win, then the CONFIG_FILE variable, then the standard locations.
func (cr *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = os.Getenv("CONFIG_FILE")
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.findConfigFile(serviceName)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.findEnvFile(serviceName)
	}

	return resolved
}

// findConfigFile searches the standard locations.
func (cr *Resolver) findConfigFile(serviceName string) string {
	searchPaths := []string{
		fmt.Sprintf("config/%s.yaml", serviceName),
		fmt.Sprintf("config/%s.yml", serviceName),
		"config.yaml",
		"config.yml",
	}

	for _, path := range searchPaths {
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// findEnvFile prefers a service-specific .env file over the shared one.
func (cr *Resolver) findEnvFile(serviceName string) string {
	searchPaths := []string{
		fmt.Sprintf(".env.%s", serviceName),
		".env",
	}

	for _, path := range searchPaths {
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional overrides for Load.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct .env file path (optional)
	EnvPrefix  string // Environment variable prefix (default FLUME)
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem swaps the filesystem, usually for a test fake.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile pins the config file instead of searching for one.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile pins the .env file instead of searching for one.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// Load loads configuration for a service into the provided cfg struct.
// It finds a YAML config file and an optional .env file, binds
// environment overrides in both prefixed and bare forms, and
// unmarshals the merged result into cfg. A missing config file is not
// an error; a malformed one is.
func Load(serviceName string, cfg any, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}
	if lc.EnvPrefix == "" {
		lc.EnvPrefix = DefaultEnvPrefix
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)

	return loadFromResolvedFiles(serviceName, cfg, files, lc)
}

// loadFromResolvedFiles runs the actual layering once the file
// locations are settled.
func loadFromResolvedFiles(serviceName string, cfg any, files ResolvedFiles, lc LoaderConfig) error {
	v := viper.New()

	// 1. Load the YAML config file as the base layer.
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: reading %s: %w", files.ConfigFile, err)
		}
	}

	// 2. Bind environment overrides on top.
	v.AutomaticEnv()
	bindEnvVars(v, lc.EnvPrefix)

	// 3. Load the .env file and re-bind to pick up its variables.
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("config: loading %s: %w", files.EnvFile, err)
		}
		bindEnvVars(v, lc.EnvPrefix)
	}

	// 4. Unmarshal into the config struct.
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal for service %s: %w", serviceName, err)
	}

	return nil
}

// bindEnvVars binds environment variables to viper keys. Bare variables
// bind first so prefixed ones win on collision. Values are sanitized
// because docker --env-file and systemd EnvironmentFile keep literal
// quotes that a shell would strip.
func bindEnvVars(v *viper.Viper, prefix string) {
	prefix = strings.TrimSuffix(prefix, "_")

	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}
		if prefix != "" && strings.HasPrefix(pair[0], prefix+"_") {
			continue
		}
		value := util.SanitizeEnvValue(pair[1])
		for _, variant := range generateEnvKeyVariants(pair[0]) {
			v.Set(variant, value)
		}
	}

	if prefix == "" {
		return
	}
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}
		key := strings.TrimPrefix(pair[0], prefix+"_")
		if key == pair[0] || key == "" {
			continue
		}
		value := util.SanitizeEnvValue(pair[1])
		for _, variant := range generateEnvKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// generateEnvKeyVariants creates the key variants an environment
// variable can bind to.
// Examples:
//
//	LOGGING_LEVEL -> [logging_level, logging.level]
//	KAFKA_BATCH_TIMEOUT -> [kafka_batch_timeout, kafka.batch.timeout, kafka.batch_timeout]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")

	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}

	// Progressive nesting: each split point between dotted prefix and
	// underscored suffix.
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}

	return util.Unique(variants)
}
