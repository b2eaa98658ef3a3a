package handler

import (
	"context"

	"github.com/Astemirdum/library-loans/pkg/pagination"
	"github.com/Astemirdum/library-loans/request/internal/model"
	"github.com/Astemirdum/library-loans/request/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type RequestService interface {
	CreateRequest(ctx context.Context, req model.CreateRequest) (model.LoanRequest, error)
	GetRequest(ctx context.Context, id int64) (model.LoanRequest, error)
	ListRequests(ctx context.Context, f model.Filter, p pagination.Params) (pagination.Page[model.LoanRequest], error)
	UpdateRequest(ctx context.Context, id int64, req model.UpdateRequest) (model.LoanRequest, error)
	ApproveRequest(ctx context.Context, id int64) (model.LoanRequest, error)
	RejectRequest(ctx context.Context, id int64, notes *string) (model.LoanRequest, error)
	DeleteRequest(ctx context.Context, id int64) error
	Stats(ctx context.Context) (model.Stats, error)
}

var _ RequestService = (*service.Service)(nil)
