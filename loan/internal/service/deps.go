package service

import (
	"context"

	"github.com/Astemirdum/library-loans/loan/internal/model"
	"github.com/Astemirdum/library-loans/pkg/client"
	"github.com/Astemirdum/library-loans/pkg/pagination"
)

//go:generate go run github.com/golang/mock/mockgen -source=deps.go -destination=mocks/mock.go

type Repository interface {
	Create(ctx context.Context, l model.Loan) (model.Loan, error)
	Get(ctx context.Context, id int64) (model.Loan, error)
	GetByHoldKey(ctx context.Context, holdKey string) (model.Loan, error)
	List(ctx context.Context, f model.Filter, p pagination.Params) ([]model.Loan, int, error)
	Summary(ctx context.Context) ([]model.MaterialSummary, error)
	Update(ctx context.Context, id int64, fn func(l *model.Loan) error) (model.Loan, error)
}

type CatalogClient interface {
	AdjustCopies(ctx context.Context, id int64, delta int, holdKey string) (client.Adjustment, error)
	AdoptHold(ctx context.Context, id int64, holdKey string) (client.Adjustment, error)
	ReleaseHold(ctx context.Context, id int64, holdKey string) (client.Adjustment, error)
}

type IdentityClient interface {
	ResolveUser(ctx context.Context, id int64) (client.User, error)
}
