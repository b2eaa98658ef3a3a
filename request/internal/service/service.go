package service

import (
	"context"
	"time"

	"github.com/Astemirdum/library-loans/pkg/apierr"
	"github.com/Astemirdum/library-loans/pkg/client"
	"github.com/Astemirdum/library-loans/pkg/kafka"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"github.com/Astemirdum/library-loans/request/internal/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var errInvalidStatus = apierr.New(apierr.CodeBadRequest, "status is invalid")

type Service struct {
	log      *zap.Logger
	repo     Repository
	catalog  CatalogClient
	identity IdentityClient
	loans    LoanClient
	enqueuer kafka.Enqueuer
	now      func() time.Time
}

func NewService(
	repo Repository,
	catalog CatalogClient,
	identity IdentityClient,
	loans LoanClient,
	enqueuer kafka.Enqueuer,
	log *zap.Logger,
) *Service {
	return &Service{
		log:      log.Named("service"),
		repo:     repo,
		catalog:  catalog,
		identity: identity,
		loans:    loans,
		enqueuer: enqueuer,
		now:      time.Now,
	}
}

// requester fills the requester fields from the identity service. A document that is not
// registered yet is accepted as long as the request names the person.
func (s *Service) requester(ctx context.Context, req model.CreateRequest) (model.LoanRequest, error) {
	r := model.LoanRequest{
		Name:             req.Name,
		IdentityDocument: req.IdentityDocument,
		Address:          req.Address,
	}
	var (
		u   client.User
		err error
	)
	if req.UserID > 0 {
		u, err = s.identity.ResolveUser(ctx, req.UserID)
	} else {
		u, err = s.identity.ResolveUserByDocument(ctx, req.IdentityDocument)
		if errors.Is(err, apierr.ErrUserNotFound) && req.Name != "" {
			return r, nil
		}
	}
	if err != nil {
		return model.LoanRequest{}, err
	}
	r.UserID = &u.ID
	r.Name = u.Name
	r.IdentityDocument = u.IdentityDocument
	if r.Address == "" {
		r.Address = u.Address
	}
	return r, nil
}

// CreateRequest reserves a copy for the request right away; approval turns the reservation
// into a loan, rejection gives it back.
func (s *Service) CreateRequest(ctx context.Context, req model.CreateRequest) (model.LoanRequest, error) {
	r, err := s.requester(ctx, req)
	if err != nil {
		return model.LoanRequest{}, err
	}
	r.MaterialID = req.MaterialID
	r.Notes = req.Notes
	r.HoldKey = client.NewRequestHoldKey()
	r.Status = model.StatusPending
	r.RequestDate = s.now().UTC()

	if _, err := s.catalog.AdjustCopies(ctx, r.MaterialID, 1, r.HoldKey); err != nil {
		if client.IsUnavailable(err) {
			s.release(ctx, r.MaterialID, r.HoldKey)
		}
		return model.LoanRequest{}, err
	}
	r.Reserved = true

	created, err := s.repo.Create(ctx, r)
	if err != nil {
		s.release(ctx, r.MaterialID, r.HoldKey)
		return model.LoanRequest{}, err
	}
	s.log.Info("request created", zap.Int64("id", created.ID), zap.Int64("material_id", created.MaterialID))
	return created, nil
}

// release gives the reserved copy back; when the catalog is unreachable the release is queued.
func (s *Service) release(ctx context.Context, materialID int64, holdKey string) {
	ctx = context.WithoutCancel(ctx)
	_, err := s.catalog.AdjustCopies(ctx, materialID, -1, holdKey)
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

// ApproveRequest turns the reservation into a loan. Approving an approved request returns it
// unchanged; any failure on the way leaves the request pending.
func (s *Service) ApproveRequest(ctx context.Context, id int64) (model.LoanRequest, error) {
	r, err := s.repo.Transition(ctx, id, func(r *model.LoanRequest) error {
		switch r.Status {
		case model.StatusApproved:
			return nil
		case model.StatusRejected:
			return apierr.ErrAlreadyFinal
		}
		u, err := s.resolve(ctx, r)
		if err != nil {
			return err
		}
		if _, err := s.catalog.GetMaterial(ctx, r.MaterialID); err != nil {
			return err
		}
		// the loan adopts the reservation, so no second copy is taken
		l, err := s.loans.AdoptLoan(ctx, client.AdoptLoanRequest{
			UserID:     u.ID,
			MaterialID: r.MaterialID,
			HoldKey:    r.HoldKey,
		})
		if err != nil {
			return err
		}
		markApproved(r, l)
		return nil
	})
	if err != nil {
		return model.LoanRequest{}, err
	}
	s.log.Info("request approved", zap.Int64("id", id), zap.Int64p("loan_id", r.LoanID))
	return r, nil
}

func markApproved(r *model.LoanRequest, l client.Loan) {
	r.UserID = &l.UserID
	r.LoanID = &l.ID
	r.Reserved = false
	r.Status = model.StatusApproved
}

// giveBack releases the reservation of a pending request. A hold already adopted by a loan
// means an approval committed the loan but never heard back, so the request is settled as
// approved instead and settled is true.
func (s *Service) giveBack(ctx context.Context, r *model.LoanRequest) (settled bool, err error) {
	_, err = s.catalog.AdjustCopies(ctx, r.MaterialID, -1, r.HoldKey)
	if err == nil {
		r.Reserved = false
		return false, nil
	}
	if !errors.Is(err, apierr.ErrHoldAdopted) {
		return false, err
	}
	l, err := s.loans.GetByHoldKey(ctx, r.HoldKey)
	if err != nil {
		if errors.Is(err, apierr.ErrLoanNotFound) {
			// the loan insert failed after adoption; only approval can finish it
			return false, apierr.ErrHoldAdopted
		}
		return false, err
	}
	markApproved(r, l)
	s.log.Warn("request settled by its loan", zap.Int64("id", r.ID), zap.Int64("loan_id", l.ID))
	return true, nil
}

func (s *Service) resolve(ctx context.Context, r *model.LoanRequest) (client.User, error) {
	if r.UserID != nil {
		return s.identity.ResolveUser(ctx, *r.UserID)
	}
	return s.identity.ResolveUserByDocument(ctx, r.IdentityDocument)
}

// RejectRequest gives the reserved copy back and closes the request. A request whose loan
// already exists is stored as approved and ErrAlreadyFinal is returned.
func (s *Service) RejectRequest(ctx context.Context, id int64, notes *string) (model.LoanRequest, error) {
	var settled bool
	r, err := s.repo.Transition(ctx, id, func(r *model.LoanRequest) error {
		if r.Status.Final() {
			return apierr.ErrAlreadyFinal
		}
		if r.Reserved {
			var err error
			if settled, err = s.giveBack(ctx, r); err != nil || settled {
				return err
			}
		}
		if notes != nil {
			r.Notes = *notes
		}
		r.Status = model.StatusRejected
		return nil
	})
	if err != nil {
		return model.LoanRequest{}, err
	}
	if settled {
		return model.LoanRequest{}, apierr.ErrAlreadyFinal
	}
	s.log.Info("request rejected", zap.Int64("id", id))
	return r, nil
}

// UpdateRequest applies a decision made through PUT.
func (s *Service) UpdateRequest(ctx context.Context, id int64, req model.UpdateRequest) (model.LoanRequest, error) {
	switch req.Status {
	case model.StatusApproved:
		return s.ApproveRequest(ctx, id)
	case model.StatusRejected:
		return s.RejectRequest(ctx, id, req.Notes)
	default:
		return model.LoanRequest{}, errInvalidStatus
	}
}

// DeleteRequest soft-deletes the request; a pending one gives its reservation back first.
func (s *Service) DeleteRequest(ctx context.Context, id int64) error {
	_, err := s.repo.Transition(ctx, id, func(r *model.LoanRequest) error {
		if r.Status == model.StatusPending && r.Reserved {
			if _, err := s.giveBack(ctx, r); err != nil {
				return err
			}
		}
		r.Deleted = true
		return nil
	})
	return err
}

func (s *Service) GetRequest(ctx context.Context, id int64) (model.LoanRequest, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListRequests(ctx context.Context, f model.Filter, p pagination.Params) (pagination.Page[model.LoanRequest], error) {
	items, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return pagination.Page[model.LoanRequest]{}, err
	}
	return pagination.NewPage(items, total, p), nil
}

func (s *Service) Stats(ctx context.Context) (model.Stats, error) {
	return s.repo.Stats(ctx)
}
