package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/library-loans/pkg/kafka"
	"github.com/Astemirdum/library-loans/pkg/logger"
	"github.com/Astemirdum/library-loans/pkg/postgres"
	"github.com/Astemirdum/library-loans/pkg/server"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

type HTTPServer struct {
	Host         string        `envconfig:"CATALOG_HTTP_HOST" default:"localhost"`
	Port         string        `envconfig:"CATALOG_HTTP_PORT" default:"8081"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE" default:"30s"`
}

func (s HTTPServer) Config() server.Config {
	return server.Config{Host: s.Host, Port: s.Port, ReadTimeout: s.ReadTimeout, WriteTimeout: s.WriteTimeout}
}

type Config struct {
	Server   HTTPServer
	Database postgres.DB
	Kafka    kafka.Config
	Log      logger.Log
}

const Schema = "catalog"

var (
	once sync.Once
	cfg  Config
)

type Option func(c *Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = timeout
	}
}

// NewConfig reads config from environment; options override what the environment sets.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		for _, op := range ops {
			op(&config)
		}
		config.Database.Schema = Schema
		cfg = config
		printConfig(cfg)
	})
	return &cfg
}

func printConfig(cfg Config) {
	cfg.Database.Password = "***"
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
