package handler

import (
	"context"

	"github.com/Astemirdum/library-loans/catalog/internal/model"
	"github.com/Astemirdum/library-loans/catalog/internal/service"
	"github.com/Astemirdum/library-loans/pkg/kafka"
	"github.com/Astemirdum/library-loans/pkg/pagination"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type CatalogService interface {
	CreateMaterial(ctx context.Context, req model.CreateMaterial) (model.Material, error)
	GetMaterial(ctx context.Context, id int64) (model.Material, error)
	ListMaterials(ctx context.Context, f model.Filter, p pagination.Params) (pagination.Page[model.Material], error)
	UpdateMaterial(ctx context.Context, id int64, req model.UpdateMaterial) (model.Material, error)
	DeleteMaterial(ctx context.Context, id int64) error
	AdjustCopies(ctx context.Context, id int64, req model.AdjustCopies) (model.Adjustment, error)
	AdoptHold(ctx context.Context, id int64, ref model.HoldRef) (model.Adjustment, error)
	ReleaseHold(ctx context.Context, id int64, ref model.HoldRef) (model.Adjustment, error)
	ReplayRelease(ctx context.Context, msg kafka.HoldRelease) error
	AvailableByType(ctx context.Context) ([]model.AvailableItem, error)
	Stats(ctx context.Context) ([]model.KindStats, error)
}

var _ CatalogService = (*service.Service)(nil)
