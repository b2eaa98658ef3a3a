package service

import (
	"context"

	"github.com/Astemirdum/library-loans/pkg/client"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"github.com/Astemirdum/library-loans/request/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=deps.go -destination=mocks/mock.go

type Repository interface {
	Create(ctx context.Context, req model.LoanRequest) (model.LoanRequest, error)
	Get(ctx context.Context, id int64) (model.LoanRequest, error)
	List(ctx context.Context, f model.Filter, p pagination.Params) ([]model.LoanRequest, int, error)
	Transition(ctx context.Context, id int64, fn func(req *model.LoanRequest) error) (model.LoanRequest, error)
	Stats(ctx context.Context) (model.Stats, error)
}

type CatalogClient interface {
	GetMaterial(ctx context.Context, id int64) (client.Material, error)
	AdjustCopies(ctx context.Context, id int64, delta int, holdKey string) (client.Adjustment, error)
}

type IdentityClient interface {
	ResolveUser(ctx context.Context, id int64) (client.User, error)
	ResolveUserByDocument(ctx context.Context, doc string) (client.User, error)
}

type LoanClient interface {
	AdoptLoan(ctx context.Context, req client.AdoptLoanRequest) (client.Loan, error)
	GetByHoldKey(ctx context.Context, holdKey string) (client.Loan, error)
}
