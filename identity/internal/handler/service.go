package handler

import (
	"context"

	"github.com/Astemirdum/library-loans/identity/internal/model"
	"github.com/Astemirdum/library-loans/identity/internal/service"
	"github.com/Astemirdum/library-loans/pkg/pagination"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type IdentityService interface {
	CreateUser(ctx context.Context, req model.CreateUser) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByDocument(ctx context.Context, doc string) (model.User, error)
	ListUsers(ctx context.Context, p pagination.Params) (pagination.Page[model.User], error)
	UpdateUser(ctx context.Context, id int64, req model.UpdateUser) (model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

var _ IdentityService = (*service.Service)(nil)
