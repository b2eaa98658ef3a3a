package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Astemirdum/library-loans/pkg/circuit_breaker"
	"go.uber.org/zap"
)

type IdentityClient struct {
	*Client
}

func NewIdentityClient(cfg Config, cbCfg circuit_breaker.Config, log *zap.Logger) *IdentityClient {
	return &IdentityClient{Client: New(cfg, cbCfg, log.Named("identity_client"))}
}

func (c *IdentityClient) ResolveUser(ctx context.Context, id int64) (User, error) {
	var u User
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", id), nil, nil, &u)
	return u, err
}

func (c *IdentityClient) ResolveUserByDocument(ctx context.Context, doc string) (User, error) {
	var u User
	err := c.do(ctx, http.MethodGet, "/api/v1/users/document/"+url.PathEscape(doc), nil, nil, &u)
	return u, err
}
