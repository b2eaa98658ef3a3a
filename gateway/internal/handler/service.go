package handler

import (
	"context"
	"net/url"

	"github.com/Astemirdum/library-loans/pkg/client"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"github.com/labstack/echo/v4"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

// Proxy hands the current request to a downstream service unchanged.
type Proxy interface {
	Forward(c echo.Context) error
}

type CatalogService interface {
	Proxy
	GetMaterial(ctx context.Context, id int64) (client.Material, error)
	AvailableByType(ctx context.Context) ([]client.AvailableItem, error)
}

type LoanService interface {
	Proxy
	Summary(ctx context.Context) ([]client.LoanSummary, error)
}

type RequestService interface {
	Proxy
	ListRequests(ctx context.Context, query url.Values, page int) (pagination.Page[client.Request], error)
}

type IdentityService interface {
	Proxy
	ResolveUser(ctx context.Context, id int64) (client.User, error)
}

var (
	_ CatalogService  = (*client.CatalogClient)(nil)
	_ LoanService     = (*client.LoanClient)(nil)
	_ RequestService  = (*client.RequestClient)(nil)
	_ IdentityService = (*client.IdentityClient)(nil)
)
