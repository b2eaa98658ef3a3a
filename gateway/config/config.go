package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/library-loans/pkg/circuit_breaker"
	"github.com/Astemirdum/library-loans/pkg/client"
	"github.com/Astemirdum/library-loans/pkg/logger"
	"github.com/Astemirdum/library-loans/pkg/server"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

type HTTPServer struct {
	Host         string        `envconfig:"GATEWAY_HTTP_HOST" default:"localhost"`
	Port         string        `envconfig:"GATEWAY_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE" default:"30s"`
}

func (s HTTPServer) Config() server.Config {
	return server.Config{Host: s.Host, Port: s.Port, ReadTimeout: s.ReadTimeout, WriteTimeout: s.WriteTimeout}
}

type Config struct {
	Server   HTTPServer
	Breaker  circuit_breaker.Config
	Catalog  client.CatalogHTTPServer
	Loan     client.LoanHTTPServer
	Request  client.RequestHTTPServer
	Identity client.IdentityHTTPServer
	Log      logger.Log

	ClientTimeout time.Duration `envconfig:"CLIENT_TIMEOUT" default:"10s"`
}

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
		cfg = config
		printConfig(cfg)
	})
	return &cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
