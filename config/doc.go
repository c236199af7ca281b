// Package config provides configuration loading for pipeline services.
//
// It uses viper to merge a YAML config file, an optional .env file and
// environment variable overrides into an application config struct:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Kafka kafka.Config `yaml:"kafka" mapstructure:"kafka"`
//	}
//
//	var cfg AppConfig
//	err := config.Load("ingest", &cfg)
//
// The config file is found via an explicit WithConfigFile path, the
// CONFIG_FILE variable, config/{service}.yaml, or config.yaml.
// Environment variables override file values in both prefixed and bare
// forms: FLUME_LOGGING_LEVEL and LOGGING_LEVEL both reach
// logging.level, with the prefixed form winning.
package config
