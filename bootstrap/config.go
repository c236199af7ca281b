package bootstrap

import (
	"github.com/flumehq/flume/config"
)

// Config is what NewApp requires of an application's configuration
// type. Embedding config.ServiceConfig by value satisfies it through
// promoted methods, so most applications never implement it by hand.
//
// Example:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Kafka kafka.Config `yaml:"kafka" mapstructure:"kafka"`
//	}
//
//	app, err := bootstrap.NewApp(&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
