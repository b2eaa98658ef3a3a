package handler

import (
	"context"

	"github.com/Astemirdum/library-loans/loan/internal/model"
	"github.com/Astemirdum/library-loans/loan/internal/service"
	"github.com/Astemirdum/library-loans/pkg/pagination"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LoanService interface {
	CreateLoan(ctx context.Context, req model.CreateLoan) (model.Loan, error)
	AdoptLoan(ctx context.Context, req model.AdoptLoan) (model.Loan, error)
	GetLoan(ctx context.Context, id int64) (model.Loan, error)
	GetByHoldKey(ctx context.Context, holdKey string) (model.Loan, error)
	ListLoans(ctx context.Context, f model.Filter, p pagination.Params) (pagination.Page[model.Loan], error)
	ListOverdue(ctx context.Context, p pagination.Params) (pagination.Page[model.Loan], error)
	ReturnLoan(ctx context.Context, id int64) (model.Loan, error)
	DeleteLoan(ctx context.Context, id int64) error
	Summary(ctx context.Context) ([]model.MaterialSummary, error)
}

var _ LoanService = (*service.Service)(nil)
