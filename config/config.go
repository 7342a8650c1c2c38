package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/gearstock/console/internal/service/fetch"
	"github.com/gearstock/console/internal/session"
	"github.com/gearstock/console/pkg/kafka"
	"github.com/gearstock/console/pkg/logger"
)

type HTTPServer struct {
	Host        string        `yaml:"host" envconfig:"CONSOLE_HTTP_HOST"`
	Port        string        `yaml:"port" envconfig:"CONSOLE_HTTP_PORT" default:"8080"`
	ReadTimeout time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"30s"`
	// zero keeps long-lived loan streams open
	WriteTimeout time.Duration
}

type Config struct {
	Server  HTTPServer `yaml:"server"`
	API     fetch.Config
	Session session.Config
	Kafka   kafka.Config
	Log     logger.Log `yaml:"log"`
}

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
