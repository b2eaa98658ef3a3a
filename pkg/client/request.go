package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Astemirdum/library-loans/pkg/circuit_breaker"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"go.uber.org/zap"
)

type RequestClient struct {
	*Client
}

func NewRequestClient(cfg Config, cbCfg circuit_breaker.Config, log *zap.Logger) *RequestClient {
	return &RequestClient{Client: New(cfg, cbCfg, log.Named("request_client"))}
}

// ListRequests fetches one page; query carries the request service filters.
func (c *RequestClient) ListRequests(ctx context.Context, query url.Values, page int) (pagination.Page[Request], error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(pagination.MaxSize))
	var p pagination.Page[Request]
	err := c.do(ctx, http.MethodGet, "/api/v1/requests", q, nil, &p)
	return p, err
}
