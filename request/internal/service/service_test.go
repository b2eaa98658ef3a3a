package service

import (
	"context"
	"testing"
	"time"

	"github.com/Astemirdum/library-loans/pkg/apierr"
	"github.com/Astemirdum/library-loans/pkg/client"
	"github.com/Astemirdum/library-loans/pkg/kafka"
	"github.com/Astemirdum/library-loans/request/internal/model"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mock_service "github.com/Astemirdum/library-loans/request/internal/service/mocks"
)

var testNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type fakeEnqueuer struct {
	sent []kafka.HoldRelease
}

func (f *fakeEnqueuer) Enqueue(topic string, v any) error {
	if topic != kafka.HoldReleaseTopic {
		return errors.Errorf("unexpected topic %s", topic)
	}
	f.sent = append(f.sent, v.(kafka.HoldRelease))
	return nil
}

type deps struct {
	repo     *mock_service.MockRepository
	catalog  *mock_service.MockCatalogClient
	identity *mock_service.MockIdentityClient
	loans    *mock_service.MockLoanClient
	queue    *fakeEnqueuer
}

func newService(t *testing.T) (*Service, deps) {
	t.Helper()
	c := gomock.NewController(t)
	d := deps{
		repo:     mock_service.NewMockRepository(c),
		catalog:  mock_service.NewMockCatalogClient(c),
		identity: mock_service.NewMockIdentityClient(c),
		loans:    mock_service.NewMockLoanClient(c),
		queue:    &fakeEnqueuer{},
	}
	svc := NewService(d.repo, d.catalog, d.identity, d.loans, d.queue, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc, d
}

// transitionWith runs the callback against r the way the repository does under its row lock,
// and reports what would have been written.
func transitionWith(r model.LoanRequest) func(context.Context, int64, func(*model.LoanRequest) error) (model.LoanRequest, error) {
	return func(_ context.Context, _ int64, fn func(*model.LoanRequest) error) (model.LoanRequest, error) {
		if err := fn(&r); err != nil {
			return model.LoanRequest{}, err
		}
		return r, nil
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestService_CreateRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	user := client.User{ID: 3, Name: "Ana", IdentityDocument: "D-1", Address: "Main st"}

	t.Run("by user id", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		var hold string
		d.identity.EXPECT().ResolveUser(gomock.Any(), int64(3)).Return(user, nil)
		d.catalog.EXPECT().AdjustCopies(gomock.Any(), int64(2), 1, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, _ int, key string) (client.Adjustment, error) {
				hold = key
				return client.Adjustment{Applied: true}, nil
			})
		d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r model.LoanRequest) (model.LoanRequest, error) {
				require.Equal(t, hold, r.HoldKey)
				r.ID = 1
				return r, nil
			})

		r, err := svc.CreateRequest(ctx, model.CreateRequest{UserID: 3, MaterialID: 2, Notes: "urgent"})
		require.NoError(t, err)
		require.Equal(t, model.StatusPending, r.Status)
		require.True(t, r.Reserved)
		require.Equal(t, int64(3), *r.UserID)
		require.Equal(t, "D-1", r.IdentityDocument)
		require.Equal(t, "urgent", r.Notes)
		require.Equal(t, testNow, r.RequestDate)
		require.Regexp(t, `^request:`, r.HoldKey)
	})

	t.Run("unregistered document with a name", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.identity.EXPECT().ResolveUserByDocument(gomock.Any(), "D-9").Return(client.User{}, apierr.ErrUserNotFound)
		d.catalog.EXPECT().AdjustCopies(gomock.Any(), int64(2), 1, gomock.Any()).Return(client.Adjustment{Applied: true}, nil)
		d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r model.LoanRequest) (model.LoanRequest, error) { return r, nil })

		r, err := svc.CreateRequest(ctx, model.CreateRequest{IdentityDocument: "D-9", Name: "Luis", MaterialID: 2})
		require.NoError(t, err)
		require.Nil(t, r.UserID)
		require.Equal(t, "Luis", r.Name)
	})

	t.Run("unregistered document without a name", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.identity.EXPECT().ResolveUserByDocument(gomock.Any(), "D-9").Return(client.User{}, apierr.ErrUserNotFound)

		_, err := svc.CreateRequest(ctx, model.CreateRequest{IdentityDocument: "D-9", MaterialID: 2})
		require.ErrorIs(t, err, apierr.ErrUserNotFound)
	})

	t.Run("no copies", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.identity.EXPECT().ResolveUser(gomock.Any(), int64(3)).Return(user, nil)
		d.catalog.EXPECT().AdjustCopies(gomock.Any(), int64(2), 1, gomock.Any()).
			Return(client.Adjustment{}, apierr.ErrNoCopiesAvailable)

		_, err := svc.CreateRequest(ctx, model.CreateRequest{UserID: 3, MaterialID: 2})
		require.ErrorIs(t, err, apierr.ErrNoCopiesAvailable)
	})

	t.Run("insert failure releases the reservation", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.identity.EXPECT().ResolveUser(gomock.Any(), int64(3)).Return(user, nil)
		d.catalog.EXPECT().AdjustCopies(gomock.Any(), int64(2), 1, gomock.Any()).Return(client.Adjustment{Applied: true}, nil)
		d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.LoanRequest{}, errors.New("db down"))
		d.catalog.EXPECT().AdjustCopies(gomock.Any(), int64(2), -1, gomock.Any()).
			Return(client.Adjustment{}, apierr.ErrUpstreamUnavailable)

		_, err := svc.CreateRequest(ctx, model.CreateRequest{UserID: 3, MaterialID: 2})
		require.EqualError(t, err, "db down")
		require.Len(t, d.queue.sent, 1)
		require.Equal(t, int64(2), d.queue.sent[0].MaterialID)
		require.Regexp(t, `^request:`, d.queue.sent[0].HoldKey)
	})
}

func TestService_ApproveRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	pending := model.LoanRequest{
		ID: 1, UserID: ptr(int64(3)), MaterialID: 2, HoldKey: "request:a",
		Reserved: true, Status: model.StatusPending,
	}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().Transition(gomock.Any(), int64(1), gomock.Any()).DoAndReturn(transitionWith(pending))
		d.identity.EXPECT().ResolveUser(gomock.Any(), int64(3)).Return(client.User{ID: 3}, nil)
		d.catalog.EXPECT().GetMaterial(gomock.Any(), int64(2)).Return(client.Material{ID: 2}, nil)
		d.loans.EXPECT().
			AdoptLoan(gomock.Any(), client.AdoptLoanRequest{UserID: 3, MaterialID: 2, HoldKey: "request:a"}).
			Return(client.Loan{ID: 9, UserID: 3, MaterialID: 2, HoldKey: "request:a"}, nil)

		r, err := svc.ApproveRequest(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, model.StatusApproved, r.Status)
		require.Equal(t, int64(9), *r.LoanID)
		require.False(t, r.Reserved)
	})

	t.Run("approving twice has no side effects", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		approved := pending
		approved.Status = model.StatusApproved
		approved.LoanID = ptr(int64(9))
		d.repo.EXPECT().Transition(gomock.Any(), int64(1), gomock.Any()).DoAndReturn(transitionWith(approved))

		r, err := svc.ApproveRequest(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, approved, r)
	})

	t.Run("rejected", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		rejected := pending
		rejected.Status = model.StatusRejected
		d.repo.EXPECT().Transition(gomock.Any(), int64(1), gomock.Any()).DoAndReturn(transitionWith(rejected))

		_, err := svc.ApproveRequest(ctx, 1)
		require.ErrorIs(t, err, apierr.ErrAlreadyFinal)
	})

	t.Run("resolves a document to a user", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		byDoc := pending
		byDoc.UserID = nil
		byDoc.IdentityDocument = "D-9"
		d.repo.EXPECT().Transition(gomock.Any(), int64(1), gomock.Any()).DoAndReturn(transitionWith(byDoc))
		d.identity.EXPECT().ResolveUserByDocument(gomock.Any(), "D-9").Return(client.User{ID: 7}, nil)
		d.catalog.EXPECT().GetMaterial(gomock.Any(), int64(2)).Return(client.Material{ID: 2}, nil)
		d.loans.EXPECT().AdoptLoan(gomock.Any(), client.AdoptLoanRequest{UserID: 7, MaterialID: 2, HoldKey: "request:a"}).
			Return(client.Loan{ID: 9, UserID: 7, MaterialID: 2, HoldKey: "request:a"}, nil)

		r, err := svc.ApproveRequest(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, int64(7), *r.UserID)
	})

	t.Run("unknown requester stays pending", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		byDoc := pending
		byDoc.UserID = nil
		byDoc.IdentityDocument = "D-9"
		d.repo.EXPECT().Transition(gomock.Any(), int64(1), gomock.Any()).DoAndReturn(transitionWith(byDoc))
		d.identity.EXPECT().ResolveUserByDocument(gomock.Any(), "D-9").Return(client.User{}, apierr.ErrUserNotFound)

		_, err := svc.ApproveRequest(ctx, 1)
		require.ErrorIs(t, err, apierr.ErrUserNotFound)
	})

	t.Run("loan failure keeps the request pending", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		r := pending
		d.repo.EXPECT().Transition(gomock.Any(), int64(1), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, fn func(*model.LoanRequest) error) (model.LoanRequest, error) {
				err := fn(&r)
				require.Equal(t, model.StatusPending, r.Status)
				require.Nil(t, r.LoanID)
				return model.LoanRequest{}, err
			})
		d.identity.EXPECT().ResolveUser(gomock.Any(), int64(3)).Return(client.User{ID: 3}, nil)
		d.catalog.EXPECT().GetMaterial(gomock.Any(), int64(2)).Return(client.Material{ID: 2}, nil)
		d.loans.EXPECT().AdoptLoan(gomock.Any(), gomock.Any()).Return(client.Loan{}, apierr.ErrUpstreamUnavailable)

		_, err := svc.ApproveRequest(ctx, 1)
		require.ErrorIs(t, err, apierr.ErrUpstreamUnavailable)
	})
}

func TestService_RejectRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	pending := model.LoanRequest{ID: 1, MaterialID: 2, HoldKey: "request:a", Reserved: true, Status: model.StatusPending}

	t.Run("releases the reservation once", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		r := pending
		d.repo.EXPECT().Transition(gomock.Any(), int64(1), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, fn func(*model.LoanRequest) error) (model.LoanRequest, error) {
				if err := fn(&r); err != nil {
					return model.LoanRequest{}, err
				}
				return r, nil
			}).Times(2)
		d.catalog.EXPECT().AdjustCopies(gomock.Any(), int64(2), -1, "request:a").
			Return(client.Adjustment{Applied: true}, nil).Times(1)

		got, err := svc.RejectRequest(ctx, 1, ptr("no stock"))
		require.NoError(t, err)
		require.Equal(t, model.StatusRejected, got.Status)
		require.False(t, got.Reserved)
		require.Equal(t, "no stock", got.Notes)

		_, err = svc.RejectRequest(ctx, 1, nil)
		require.ErrorIs(t, err, apierr.ErrAlreadyFinal)
	})

	t.Run("approved", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		approved := pending
		approved.Status = model.StatusApproved
		d.repo.EXPECT().Transition(gomock.Any(), int64(1), gomock.Any()).DoAndReturn(transitionWith(approved))

		_, err := svc.UpdateRequest(ctx, 1, model.UpdateRequest{Status: model.StatusRejected})
		require.ErrorIs(t, err, apierr.ErrAlreadyFinal)
	})

	t.Run("catalog down keeps the request pending", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().Transition(gomock.Any(), int64(1), gomock.Any()).DoAndReturn(transitionWith(pending))
		d.catalog.EXPECT().AdjustCopies(gomock.Any(), int64(2), -1, "request:a").
			Return(client.Adjustment{}, apierr.ErrUpstreamUnavailable)

		_, err := svc.RejectRequest(ctx, 1, nil)
		require.ErrorIs(t, err, apierr.ErrUpstreamUnavailable)
	})

	t.Run("loan already created for the hold", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		r := pending
		var written model.LoanRequest
		d.repo.EXPECT().Transition(gomock.Any(), int64(1), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, fn func(*model.LoanRequest) error) (model.LoanRequest, error) {
				if err := fn(&r); err != nil {
					return model.LoanRequest{}, err
				}
				written = r
				return r, nil
			})
		gomock.InOrder(
			d.catalog.EXPECT().AdjustCopies(gomock.Any(), int64(2), -1, "request:a").
				Return(client.Adjustment{}, apierr.ErrHoldAdopted),
			d.loans.EXPECT().GetByHoldKey(gomock.Any(), "request:a").
				Return(client.Loan{ID: 9, UserID: 3, MaterialID: 2, HoldKey: "request:a"}, nil),
		)

		_, err := svc.RejectRequest(ctx, 1, ptr("no stock"))
		require.ErrorIs(t, err, apierr.ErrAlreadyFinal)
		require.Equal(t, model.StatusApproved, written.Status)
		require.Equal(t, int64(9), *written.LoanID)
		require.Equal(t, int64(3), *written.UserID)
		require.False(t, written.Reserved)
		require.Empty(t, written.Notes)
		require.Empty(t, d.queue.sent)
	})

	t.Run("adopted hold without a loan stays pending", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().Transition(gomock.Any(), int64(1), gomock.Any()).DoAndReturn(transitionWith(pending))
		d.catalog.EXPECT().AdjustCopies(gomock.Any(), int64(2), -1, "request:a").
			Return(client.Adjustment{}, apierr.ErrHoldAdopted)
		d.loans.EXPECT().GetByHoldKey(gomock.Any(), "request:a").Return(client.Loan{}, apierr.ErrLoanNotFound)

		_, err := svc.RejectRequest(ctx, 1, nil)
		require.ErrorIs(t, err, apierr.ErrHoldAdopted)
	})

	t.Run("loan service down keeps the request pending", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().Transition(gomock.Any(), int64(1), gomock.Any()).DoAndReturn(transitionWith(pending))
		d.catalog.EXPECT().AdjustCopies(gomock.Any(), int64(2), -1, "request:a").
			Return(client.Adjustment{}, apierr.ErrHoldAdopted)
		d.loans.EXPECT().GetByHoldKey(gomock.Any(), "request:a").Return(client.Loan{}, apierr.ErrUpstreamUnavailable)

		_, err := svc.RejectRequest(ctx, 1, nil)
		require.ErrorIs(t, err, apierr.ErrUpstreamUnavailable)
	})
}

func TestService_DeleteRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name     string
		status   model.Status
		reserved bool
		release  bool
	}{
		{name: "pending", status: model.StatusPending, reserved: true, release: true},
		{name: "approved", status: model.StatusApproved},
		{name: "rejected", status: model.StatusRejected},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, d := newService(t)
			r := model.LoanRequest{ID: 1, MaterialID: 2, HoldKey: "request:a", Reserved: tt.reserved, Status: tt.status}
			d.repo.EXPECT().Transition(gomock.Any(), int64(1), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ int64, fn func(*model.LoanRequest) error) (model.LoanRequest, error) {
					require.NoError(t, fn(&r))
					require.True(t, r.Deleted)
					require.False(t, r.Reserved)
					return r, nil
				})
			if tt.release {
				d.catalog.EXPECT().AdjustCopies(gomock.Any(), int64(2), -1, "request:a").Return(client.Adjustment{Applied: true}, nil)
			}

			require.NoError(t, svc.DeleteRequest(ctx, 1))
		})
	}

	t.Run("pending with a loan behind it", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		r := model.LoanRequest{ID: 1, MaterialID: 2, HoldKey: "request:a", Reserved: true, Status: model.StatusPending}
		d.repo.EXPECT().Transition(gomock.Any(), int64(1), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, fn func(*model.LoanRequest) error) (model.LoanRequest, error) {
				require.NoError(t, fn(&r))
				return r, nil
			})
		d.catalog.EXPECT().AdjustCopies(gomock.Any(), int64(2), -1, "request:a").
			Return(client.Adjustment{}, apierr.ErrHoldAdopted)
		d.loans.EXPECT().GetByHoldKey(gomock.Any(), "request:a").
			Return(client.Loan{ID: 9, UserID: 3, MaterialID: 2, HoldKey: "request:a"}, nil)

		require.NoError(t, svc.DeleteRequest(ctx, 1))
		require.True(t, r.Deleted)
		require.Equal(t, model.StatusApproved, r.Status)
		require.Equal(t, int64(9), *r.LoanID)
		require.False(t, r.Reserved)
	})

	t.Run("pending with an orphaned adopted hold", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		r := model.LoanRequest{ID: 1, MaterialID: 2, HoldKey: "request:a", Reserved: true, Status: model.StatusPending}
		d.repo.EXPECT().Transition(gomock.Any(), int64(1), gomock.Any()).DoAndReturn(transitionWith(r))
		d.catalog.EXPECT().AdjustCopies(gomock.Any(), int64(2), -1, "request:a").
			Return(client.Adjustment{}, apierr.ErrHoldAdopted)
		d.loans.EXPECT().GetByHoldKey(gomock.Any(), "request:a").Return(client.Loan{}, apierr.ErrLoanNotFound)

		require.ErrorIs(t, svc.DeleteRequest(ctx, 1), apierr.ErrHoldAdopted)
	})
}

func TestService_Stats(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	d.repo.EXPECT().Stats(gomock.Any()).Return(model.Stats{Total: 3, Pending: 1, Approved: 2}, nil)

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, model.Stats{Total: 3, Pending: 1, Approved: 2}, st)
}
