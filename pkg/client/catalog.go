package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Astemirdum/library-loans/pkg/circuit_breaker"
	"go.uber.org/zap"
)

type CatalogClient struct {
	*Client
}

func NewCatalogClient(cfg Config, cbCfg circuit_breaker.Config, log *zap.Logger) *CatalogClient {
	return &CatalogClient{Client: New(cfg, cbCfg, log.Named("catalog_client"))}
}

func (c *CatalogClient) GetMaterial(ctx context.Context, id int64) (Material, error) {
	var m Material
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/materials/%d", id), nil, nil, &m)
	return m, err
}

func (c *CatalogClient) AdjustCopies(ctx context.Context, id int64, delta int, holdKey string) (Adjustment, error) {
	var a Adjustment
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/materials/%d/copies", id), nil,
		AdjustRequest{Delta: delta, HoldKey: holdKey}, &a)
	return a, err
}

// AdoptHold hands the hold over to a loan; the copy count does not change.
func (c *CatalogClient) AdoptHold(ctx context.Context, id int64, holdKey string) (Adjustment, error) {
	return c.hold(ctx, id, "adopt", holdKey)
}

// ReleaseHold gives back the copy of a hold, also one that a loan has adopted.
func (c *CatalogClient) ReleaseHold(ctx context.Context, id int64, holdKey string) (Adjustment, error) {
	return c.hold(ctx, id, "release", holdKey)
}

func (c *CatalogClient) hold(ctx context.Context, id int64, action, holdKey string) (Adjustment, error) {
	var a Adjustment
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/materials/%d/holds/%s", id, action), nil,
		HoldRef{HoldKey: holdKey}, &a)
	return a, err
}

func (c *CatalogClient) AvailableByType(ctx context.Context) ([]AvailableItem, error) {
	var items []AvailableItem
	err := c.do(ctx, http.MethodGet, "/api/v1/materials/available", nil, nil, &items)
	return items, err
}
