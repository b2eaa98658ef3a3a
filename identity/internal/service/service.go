package service

import (
	"context"

	"github.com/Astemirdum/library-loans/identity/internal/model"
	"github.com/Astemirdum/library-loans/identity/internal/repository"
	"github.com/Astemirdum/library-loans/pkg/auth"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"go.uber.org/zap"
)

type Service struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewService(repo repository.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log.Named("service"),
		repo: repo,
	}
}

func (s *Service) CreateUser(ctx context.Context, req model.CreateUser) (model.User, error) {
	role := req.Role
	if role == "" {
		role = auth.RoleUser
	}
	u, err := s.repo.Create(ctx, model.User{
		Name:             req.Name,
		Email:            req.Email,
		IdentityDocument: req.IdentityDocument,
		Address:          req.Address,
		Role:             role,
	})
	if err != nil {
		return model.User{}, err
	}
	s.log.Info("user created", zap.Int64("id", u.ID))
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (model.User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetUserByDocument(ctx context.Context, doc string) (model.User, error) {
	return s.repo.GetByDocument(ctx, doc)
}

func (s *Service) ListUsers(ctx context.Context, p pagination.Params) (pagination.Page[model.User], error) {
	items, total, err := s.repo.List(ctx, p)
	if err != nil {
		return pagination.Page[model.User]{}, err
	}
	return pagination.NewPage(items, total, p), nil
}

func (s *Service) UpdateUser(ctx context.Context, id int64, req model.UpdateUser) (model.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	req.Apply(&u)
	return s.repo.Update(ctx, u)
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
