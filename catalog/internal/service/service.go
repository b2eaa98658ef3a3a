package service

import (
	"context"

	"github.com/Astemirdum/library-loans/catalog/internal/model"
	"github.com/Astemirdum/library-loans/catalog/internal/repository"
	"github.com/Astemirdum/library-loans/pkg/apierr"
	"github.com/Astemirdum/library-loans/pkg/kafka"
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

func (s *Service) CreateMaterial(ctx context.Context, req model.CreateMaterial) (model.Material, error) {
	m, err := s.repo.Create(ctx, req.Material())
	if err != nil {
		return model.Material{}, err
	}
	s.log.Info("material created", zap.Int64("id", m.ID), zap.String("identifier", m.Identifier))
	return *m.Fill(), nil
}

func (s *Service) GetMaterial(ctx context.Context, id int64) (model.Material, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Material{}, err
	}
	return *m.Fill(), nil
}

func (s *Service) ListMaterials(ctx context.Context, f model.Filter, p pagination.Params) (pagination.Page[model.Material], error) {
	items, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return pagination.Page[model.Material]{}, err
	}
	for i := range items {
		items[i].Fill()
	}
	return pagination.NewPage(items, total, p), nil
}

func (s *Service) UpdateMaterial(ctx context.Context, id int64, req model.UpdateMaterial) (model.Material, error) {
	m, err := s.repo.Update(ctx, id, func(m *model.Material) error {
		req.Apply(m)
		if m.TotalCopies < m.LoanedCopies {
			return apierr.ErrInsufficientCopies
		}
		return nil
	})
	if err != nil {
		return model.Material{}, err
	}
	return *m.Fill(), nil
}

func (s *Service) DeleteMaterial(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("material deleted", zap.Int64("id", id))
	return nil
}

func (s *Service) AdjustCopies(ctx context.Context, id int64, req model.AdjustCopies) (model.Adjustment, error) {
	adj, err := s.repo.AdjustCopies(ctx, id, req.Delta, req.HoldKey)
	if err != nil {
		return model.Adjustment{}, err
	}
	adj.Material.Fill()
	return adj, nil
}

func (s *Service) AdoptHold(ctx context.Context, id int64, ref model.HoldRef) (model.Adjustment, error) {
	adj, err := s.repo.AdoptHold(ctx, id, ref.HoldKey)
	if err != nil {
		return model.Adjustment{}, err
	}
	if adj.Applied {
		s.log.Info("hold adopted", zap.Int64("material_id", id), zap.String("hold", ref.HoldKey))
	}
	adj.Material.Fill()
	return adj, nil
}

func (s *Service) ReleaseHold(ctx context.Context, id int64, ref model.HoldRef) (model.Adjustment, error) {
	adj, err := s.repo.ReleaseHold(ctx, id, ref.HoldKey)
	if err != nil {
		return model.Adjustment{}, err
	}
	adj.Material.Fill()
	return adj, nil
}

// ReplayRelease replays a release that a saga could not deliver synchronously. Queued holds
// never reached a loan, so the release does not check ownership.
func (s *Service) ReplayRelease(ctx context.Context, msg kafka.HoldRelease) error {
	adj, err := s.repo.ReleaseHold(ctx, msg.MaterialID, msg.HoldKey)
	if err != nil {
		return err
	}
	s.log.Info("hold released from queue",
		zap.Int64("material_id", msg.MaterialID), zap.String("hold", msg.HoldKey), zap.Bool("applied", adj.Applied))
	return nil
}

func (s *Service) AvailableByType(ctx context.Context) ([]model.AvailableItem, error) {
	return s.repo.Available(ctx)
}

func (s *Service) Stats(ctx context.Context) ([]model.KindStats, error) {
	return s.repo.Stats(ctx)
}
