// Package client holds the JSON-over-HTTP clients the services use to reach each other.
// Every client is guarded by its own circuit breaker and maps error bodies back onto apierr
// sentinels.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/Astemirdum/library-loans/pkg/apierr"
	"github.com/Astemirdum/library-loans/pkg/circuit_breaker"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	Host    string
	Port    string
	Timeout time.Duration
}

func (c Config) BaseURL() string {
	return "http://" + net.JoinHostPort(c.Host, c.Port)
}

type Client struct {
	base   string
	client *http.Client
	cb     circuit_breaker.CircuitBreaker
	log    *zap.Logger
}

func New(cfg Config, cbCfg circuit_breaker.Config, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base:   cfg.BaseURL(),
		client: &http.Client{Timeout: timeout},
		cb:     circuit_breaker.New(cbCfg, circuit_breaker.WithFailurePredicate(IsUnavailable)),
		log:    log,
	}
}

// IsUnavailable reports whether err means the downstream could not serve the call at all.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	code := apierr.CodeOf(err)
	return code == apierr.CodeUpstreamUnavailable || code == apierr.CodeInternal
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", apierr.ErrUpstreamUnavailable, err)
}

func (c *Client) call(fn func() error) error {
	err := c.cb.Call(fn)
	if errors.Is(err, circuit_breaker.ErrOpenCB) {
		return unavailable(err)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	return c.call(func() error {
		var body io.Reader = http.NoBody
		if in != nil {
			b := bytes.NewBuffer(nil)
			if err := json.NewEncoder(b).Encode(in); err != nil {
				return err
			}
			body = b
		}
		u := c.base + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}
		req, err := http.NewRequestWithContext(ctx, method, u, body)
		if err != nil {
			return err
		}
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
		resp, err := c.client.Do(req)
		if err != nil {
			c.log.Warn("downstream call", zap.String("url", u), zap.Error(err))
			return unavailable(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			return decodeError(resp)
		}
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return unavailable(errors.Wrap(err, "decode response"))
		}
		return nil
	})
}

func decodeError(resp *http.Response) error {
	var b apierr.Body
	data, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(data, &b)
	e := apierr.Decode(resp.StatusCode, b)
	if e.Code == apierr.CodeInternal || e.Code == "" {
		return unavailable(e)
	}
	return e
}

// Forward proxies the current echo request to the same path on the downstream service.
func (c *Client) Forward(ec echo.Context) error {
	var (
		status int
		ctype  string
		data   []byte
	)
	err := c.call(func() error {
		src := ec.Request()
		u := c.base + src.URL.Path
		if src.URL.RawQuery != "" {
			u += "?" + src.URL.RawQuery
		}
		req, err := http.NewRequestWithContext(src.Context(), src.Method, u, src.Body)
		if err != nil {
			return err
		}
		req.Header = src.Header.Clone()
		req.ContentLength = src.ContentLength
		resp, err := c.client.Do(req)
		if err != nil {
			return unavailable(err)
		}
		defer resp.Body.Close()
		if data, err = io.ReadAll(resp.Body); err != nil {
			return unavailable(err)
		}
		status, ctype = resp.StatusCode, resp.Header.Get(echo.HeaderContentType)
		if status >= http.StatusInternalServerError {
			return apierr.ErrUpstreamUnavailable
		}
		return nil
	})
	if err != nil {
		if status >= http.StatusInternalServerError && len(data) > 0 {
			return ec.Blob(status, ctype, data)
		}
		return apierr.HTTPError(err)
	}
	if len(data) == 0 {
		return ec.NoContent(status)
	}
	return ec.Blob(status, ctype, data)
}
