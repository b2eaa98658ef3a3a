package service

import (
	"context"
	"time"

	"github.com/Astemirdum/library-loans/loan/internal/model"
	"github.com/Astemirdum/library-loans/loan/internal/repository"
	"github.com/Astemirdum/library-loans/pkg/apierr"
	"github.com/Astemirdum/library-loans/pkg/client"
	"github.com/Astemirdum/library-loans/pkg/kafka"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Service struct {
	log        *zap.Logger
	repo       Repository
	catalog    CatalogClient
	identity   IdentityClient
	enqueuer   kafka.Enqueuer
	loanPeriod time.Duration
	now        func() time.Time
}

func NewService(
	repo Repository,
	catalog CatalogClient,
	identity IdentityClient,
	enqueuer kafka.Enqueuer,
	loanPeriod time.Duration,
	log *zap.Logger,
) *Service {
	return &Service{
		log:        log.Named("service"),
		repo:       repo,
		catalog:    catalog,
		identity:   identity,
		enqueuer:   enqueuer,
		loanPeriod: loanPeriod,
		now:        time.Now,
	}
}

// CreateLoan takes a fresh copy hold in the catalog and records the loan under it.
func (s *Service) CreateLoan(ctx context.Context, req model.CreateLoan) (model.Loan, error) {
	if _, err := s.identity.ResolveUser(ctx, req.UserID); err != nil {
		return model.Loan{}, err
	}
	holdKey := client.NewLoanHoldKey()
	adj, err := s.catalog.AdjustCopies(ctx, req.MaterialID, 1, holdKey)
	if err != nil {
		// the hold may have been taken before the call failed
		if client.IsUnavailable(err) {
			s.release(ctx, req.MaterialID, holdKey)
		}
		return model.Loan{}, err
	}

	l, err := s.repo.Create(ctx, s.newLoan(req.UserID, req.MaterialID, holdKey))
	if err != nil {
		if adj.Applied {
			s.release(ctx, req.MaterialID, holdKey)
		}
		return model.Loan{}, err
	}
	s.log.Info("loan created", zap.Int64("id", l.ID), zap.Int64("material_id", l.MaterialID),
		zap.String("hold", holdKey))
	return l, nil
}

// AdoptLoan turns the copy hold of a request into a loan. The call is idempotent on the hold
// key; a replay naming another user or material is refused. The catalog hands the hold over
// before the loan is recorded, so from then on the request side can no longer give it back.
func (s *Service) AdoptLoan(ctx context.Context, req model.AdoptLoan) (model.Loan, error) {
	l, err := s.repo.GetByHoldKey(ctx, req.HoldKey)
	if err == nil {
		return l, sameLoan(l, req)
	}
	if !errors.Is(err, apierr.ErrLoanNotFound) {
		return model.Loan{}, err
	}

	if _, err := s.identity.ResolveUser(ctx, req.UserID); err != nil {
		return model.Loan{}, err
	}
	if _, err := s.catalog.AdoptHold(ctx, req.MaterialID, req.HoldKey); err != nil {
		return model.Loan{}, err
	}
	l, err = s.repo.Create(ctx, s.newLoan(req.UserID, req.MaterialID, req.HoldKey))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateHold) {
			if l, err = s.repo.GetByHoldKey(ctx, req.HoldKey); err != nil {
				return model.Loan{}, err
			}
			return l, sameLoan(l, req)
		}
		return model.Loan{}, err
	}
	s.log.Info("loan adopted hold", zap.Int64("id", l.ID), zap.Int64("material_id", l.MaterialID),
		zap.String("hold", req.HoldKey))
	return l, nil
}

func sameLoan(l model.Loan, req model.AdoptLoan) error {
	if l.UserID != req.UserID || l.MaterialID != req.MaterialID {
		return apierr.ErrHoldConflict
	}
	return nil
}

func (s *Service) newLoan(userID, materialID int64, holdKey string) model.Loan {
	now := s.now().UTC()
	return model.Loan{
		UserID:     userID,
		MaterialID: materialID,
		HoldKey:    holdKey,
		Status:     model.StatusActive,
		LoanDate:   now,
		DueDate:    now.Add(s.loanPeriod),
	}
}

// release gives a copy hold back; when the catalog is unreachable the release is queued.
func (s *Service) release(ctx context.Context, materialID int64, holdKey string) {
	ctx = context.WithoutCancel(ctx)
	_, err := s.catalog.ReleaseHold(ctx, materialID, holdKey)
	if err == nil {
		return
	}
	if !client.IsUnavailable(err) {
		s.log.Error("release hold", zap.String("hold", holdKey), zap.Error(err))
		return
	}
	msg := kafka.HoldRelease{MaterialID: materialID, HoldKey: holdKey}
	if err := s.enqueuer.Enqueue(kafka.HoldReleaseTopic, msg); err != nil {
		s.log.Error("hold release lost", zap.Int64("material_id", materialID),
			zap.String("hold", holdKey), zap.Error(err))
	}
}

func (s *Service) ReturnLoan(ctx context.Context, id int64) (model.Loan, error) {
	l, err := s.repo.Update(ctx, id, func(l *model.Loan) error {
		if l.Status == model.StatusReturned {
			return apierr.ErrAlreadyReturned
		}
		if _, err := s.catalog.ReleaseHold(ctx, l.MaterialID, l.HoldKey); err != nil {
			return err
		}
		now := s.now().UTC()
		l.Status = model.StatusReturned
		l.ReturnDate = &now
		return nil
	})
	if err != nil {
		return model.Loan{}, err
	}
	s.log.Info("loan returned", zap.Int64("id", id))
	return l, nil
}

// DeleteLoan soft-deletes the loan; an active loan gives its copy back first.
func (s *Service) DeleteLoan(ctx context.Context, id int64) error {
	_, err := s.repo.Update(ctx, id, func(l *model.Loan) error {
		if l.Status == model.StatusActive {
			if _, err := s.catalog.ReleaseHold(ctx, l.MaterialID, l.HoldKey); err != nil {
				return err
			}
		}
		l.Deleted = true
		return nil
	})
	return err
}

func (s *Service) GetLoan(ctx context.Context, id int64) (model.Loan, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByHoldKey(ctx context.Context, holdKey string) (model.Loan, error) {
	return s.repo.GetByHoldKey(ctx, holdKey)
}

func (s *Service) ListLoans(ctx context.Context, f model.Filter, p pagination.Params) (pagination.Page[model.Loan], error) {
	items, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return pagination.Page[model.Loan]{}, err
	}
	return pagination.NewPage(items, total, p), nil
}

func (s *Service) ListOverdue(ctx context.Context, p pagination.Params) (pagination.Page[model.Loan], error) {
	return s.ListLoans(ctx, model.Filter{OverdueAt: s.now().UTC()}, p)
}

func (s *Service) Summary(ctx context.Context) ([]model.MaterialSummary, error) {
	return s.repo.Summary(ctx)
}
