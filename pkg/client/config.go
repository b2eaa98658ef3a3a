package client

import "time"

type CatalogHTTPServer struct {
	Host string `envconfig:"CATALOG_HTTP_HOST" default:"localhost"`
	Port string `envconfig:"CATALOG_HTTP_PORT" default:"8081"`
}

type LoanHTTPServer struct {
	Host string `envconfig:"LOAN_HTTP_HOST" default:"localhost"`
	Port string `envconfig:"LOAN_HTTP_PORT" default:"8082"`
}

type RequestHTTPServer struct {
	Host string `envconfig:"REQUEST_HTTP_HOST" default:"localhost"`
	Port string `envconfig:"REQUEST_HTTP_PORT" default:"8083"`
}

type IdentityHTTPServer struct {
	Host string `envconfig:"IDENTITY_HTTP_HOST" default:"localhost"`
	Port string `envconfig:"IDENTITY_HTTP_PORT" default:"8084"`
}

func (s CatalogHTTPServer) Config(timeout time.Duration) Config {
	return Config{Host: s.Host, Port: s.Port, Timeout: timeout}
}

func (s LoanHTTPServer) Config(timeout time.Duration) Config {
	return Config{Host: s.Host, Port: s.Port, Timeout: timeout}
}

func (s RequestHTTPServer) Config(timeout time.Duration) Config {
	return Config{Host: s.Host, Port: s.Port, Timeout: timeout}
}

func (s IdentityHTTPServer) Config(timeout time.Duration) Config {
	return Config{Host: s.Host, Port: s.Port, Timeout: timeout}
}
