package service

import (
	"context"
	"testing"
	"time"

	"github.com/Astemirdum/library-loans/loan/internal/model"
	"github.com/Astemirdum/library-loans/loan/internal/repository"
	"github.com/Astemirdum/library-loans/pkg/apierr"
	"github.com/Astemirdum/library-loans/pkg/client"
	"github.com/Astemirdum/library-loans/pkg/kafka"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mock_service "github.com/Astemirdum/library-loans/loan/internal/service/mocks"
)

var testNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type queued struct {
	topic string
	msg   any
}

type fakeEnqueuer struct {
	sent []queued
	err  error
}

func (f *fakeEnqueuer) Enqueue(topic string, v any) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, queued{topic: topic, msg: v})
	return nil
}

type deps struct {
	repo     *mock_service.MockRepository
	catalog  *mock_service.MockCatalogClient
	identity *mock_service.MockIdentityClient
	queue    *fakeEnqueuer
}

func newService(t *testing.T) (*Service, deps) {
	t.Helper()
	c := gomock.NewController(t)
	d := deps{
		repo:     mock_service.NewMockRepository(c),
		catalog:  mock_service.NewMockCatalogClient(c),
		identity: mock_service.NewMockIdentityClient(c),
		queue:    &fakeEnqueuer{},
	}
	svc := NewService(d.repo, d.catalog, d.identity, d.queue, 7*24*time.Hour, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc, d
}

func stored(l model.Loan) model.Loan {
	l.ID = 10
	return l
}

func TestService_CreateLoan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		var hold string
		d.identity.EXPECT().ResolveUser(gomock.Any(), int64(1)).Return(client.User{ID: 1}, nil)
		d.catalog.EXPECT().AdjustCopies(gomock.Any(), int64(2), 1, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, _ int, key string) (client.Adjustment, error) {
				hold = key
				return client.Adjustment{Applied: true}, nil
			})
		d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, l model.Loan) (model.Loan, error) {
				require.Equal(t, hold, l.HoldKey)
				return stored(l), nil
			})

		l, err := svc.CreateLoan(ctx, model.CreateLoan{UserID: 1, MaterialID: 2})
		require.NoError(t, err)
		require.Equal(t, int64(10), l.ID)
		require.Equal(t, model.StatusActive, l.Status)
		require.Equal(t, testNow, l.LoanDate)
		require.Equal(t, testNow.Add(7*24*time.Hour), l.DueDate)
		require.Regexp(t, `^loan:`, l.HoldKey)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.identity.EXPECT().ResolveUser(gomock.Any(), int64(1)).Return(client.User{}, apierr.ErrUserNotFound)

		_, err := svc.CreateLoan(ctx, model.CreateLoan{UserID: 1, MaterialID: 2})
		require.ErrorIs(t, err, apierr.ErrUserNotFound)
	})

	t.Run("no copies", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.identity.EXPECT().ResolveUser(gomock.Any(), int64(1)).Return(client.User{ID: 1}, nil)
		d.catalog.EXPECT().AdjustCopies(gomock.Any(), int64(2), 1, gomock.Any()).
			Return(client.Adjustment{}, apierr.ErrNoCopiesAvailable)

		_, err := svc.CreateLoan(ctx, model.CreateLoan{UserID: 1, MaterialID: 2})
		require.ErrorIs(t, err, apierr.ErrNoCopiesAvailable)
	})

	t.Run("catalog unavailable releases the hold", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.identity.EXPECT().ResolveUser(gomock.Any(), int64(1)).Return(client.User{ID: 1}, nil)
		d.catalog.EXPECT().AdjustCopies(gomock.Any(), int64(2), 1, gomock.Any()).
			Return(client.Adjustment{}, apierr.ErrUpstreamUnavailable)
		d.catalog.EXPECT().ReleaseHold(gomock.Any(), int64(2), gomock.Any()).
			Return(client.Adjustment{}, apierr.ErrUpstreamUnavailable)

		_, err := svc.CreateLoan(ctx, model.CreateLoan{UserID: 1, MaterialID: 2})
		require.ErrorIs(t, err, apierr.ErrUpstreamUnavailable)
		require.Len(t, d.queue.sent, 1)
		require.Equal(t, kafka.HoldReleaseTopic, d.queue.sent[0].topic)
		msg := d.queue.sent[0].msg.(kafka.HoldRelease)
		require.Equal(t, int64(2), msg.MaterialID)
		require.Regexp(t, `^loan:`, msg.HoldKey)
	})

	t.Run("insert failure gives the copy back", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		var hold string
		d.identity.EXPECT().ResolveUser(gomock.Any(), int64(1)).Return(client.User{ID: 1}, nil)
		d.catalog.EXPECT().AdjustCopies(gomock.Any(), int64(2), 1, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, _ int, key string) (client.Adjustment, error) {
				hold = key
				return client.Adjustment{Applied: true}, nil
			})
		d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.Loan{}, errors.New("db down"))
		d.catalog.EXPECT().ReleaseHold(gomock.Any(), int64(2), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, key string) (client.Adjustment, error) {
				require.Equal(t, hold, key)
				return client.Adjustment{Applied: true}, nil
			})

		_, err := svc.CreateLoan(ctx, model.CreateLoan{UserID: 1, MaterialID: 2})
		require.EqualError(t, err, "db down")
		require.Empty(t, d.queue.sent)
	})
}

func TestService_AdoptLoan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	req := model.AdoptLoan{UserID: 3, MaterialID: 2, HoldKey: "request:abc"}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		gomock.InOrder(
			d.repo.EXPECT().GetByHoldKey(gomock.Any(), "request:abc").Return(model.Loan{}, apierr.ErrLoanNotFound),
			d.identity.EXPECT().ResolveUser(gomock.Any(), int64(3)).Return(client.User{ID: 3}, nil),
			d.catalog.EXPECT().AdoptHold(gomock.Any(), int64(2), "request:abc").Return(client.Adjustment{Applied: true}, nil),
			d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, l model.Loan) (model.Loan, error) { return stored(l), nil }),
		)

		l, err := svc.AdoptLoan(ctx, req)
		require.NoError(t, err)
		require.Equal(t, "request:abc", l.HoldKey)
		require.Equal(t, int64(3), l.UserID)
		require.Equal(t, model.StatusActive, l.Status)
	})

	t.Run("replay returns the recorded loan", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		existing := model.Loan{ID: 3, UserID: 3, MaterialID: 2, HoldKey: "request:abc", Status: model.StatusActive}
		d.repo.EXPECT().GetByHoldKey(gomock.Any(), "request:abc").Return(existing, nil)

		l, err := svc.AdoptLoan(ctx, req)
		require.NoError(t, err)
		require.Equal(t, existing, l)
	})

	t.Run("replay for another user or material", func(t *testing.T) {
		t.Parallel()
		for _, existing := range []model.Loan{
			{ID: 10, UserID: 5, MaterialID: 2, HoldKey: "request:abc"},
			{ID: 10, UserID: 3, MaterialID: 9, HoldKey: "request:abc"},
		} {
			svc, d := newService(t)
			d.repo.EXPECT().GetByHoldKey(gomock.Any(), "request:abc").Return(existing, nil)

			_, err := svc.AdoptLoan(ctx, req)
			require.ErrorIs(t, err, apierr.ErrHoldConflict)
		}
	})

	t.Run("released hold records no loan", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().GetByHoldKey(gomock.Any(), "request:abc").Return(model.Loan{}, apierr.ErrLoanNotFound)
		d.identity.EXPECT().ResolveUser(gomock.Any(), int64(3)).Return(client.User{ID: 3}, nil)
		d.catalog.EXPECT().AdoptHold(gomock.Any(), int64(2), "request:abc").
			Return(client.Adjustment{}, apierr.ErrHoldUnavailable)

		_, err := svc.AdoptLoan(ctx, req)
		require.ErrorIs(t, err, apierr.ErrHoldUnavailable)
	})

	t.Run("insert failure keeps the adopted hold", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().GetByHoldKey(gomock.Any(), "request:abc").Return(model.Loan{}, apierr.ErrLoanNotFound)
		d.identity.EXPECT().ResolveUser(gomock.Any(), int64(3)).Return(client.User{ID: 3}, nil)
		d.catalog.EXPECT().AdoptHold(gomock.Any(), int64(2), "request:abc").Return(client.Adjustment{Applied: true}, nil)
		d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.Loan{}, errors.New("db down"))

		_, err := svc.AdoptLoan(ctx, req)
		require.EqualError(t, err, "db down")
		require.Empty(t, d.queue.sent)
	})

	t.Run("concurrent adopt of the same hold", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		existing := model.Loan{ID: 4, UserID: 3, MaterialID: 2, HoldKey: "request:abc"}
		gomock.InOrder(
			d.repo.EXPECT().GetByHoldKey(gomock.Any(), "request:abc").Return(model.Loan{}, apierr.ErrLoanNotFound),
			d.repo.EXPECT().GetByHoldKey(gomock.Any(), "request:abc").Return(existing, nil),
		)
		d.identity.EXPECT().ResolveUser(gomock.Any(), int64(3)).Return(client.User{ID: 3}, nil)
		d.catalog.EXPECT().AdoptHold(gomock.Any(), int64(2), "request:abc").Return(client.Adjustment{}, nil)
		d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.Loan{}, repository.ErrDuplicateHold)

		l, err := svc.AdoptLoan(ctx, req)
		require.NoError(t, err)
		require.Equal(t, existing, l)
	})
}

// updateWith runs the repository callback against l the way the repository does under its row lock.
func updateWith(l model.Loan) func(context.Context, int64, func(*model.Loan) error) (model.Loan, error) {
	return func(_ context.Context, _ int64, fn func(*model.Loan) error) (model.Loan, error) {
		if err := fn(&l); err != nil {
			return model.Loan{}, err
		}
		return l, nil
	}
}

func TestService_ReturnLoan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	active := model.Loan{ID: 5, MaterialID: 2, HoldKey: "loan:x", Status: model.StatusActive}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().Update(gomock.Any(), int64(5), gomock.Any()).DoAndReturn(updateWith(active))
		d.catalog.EXPECT().ReleaseHold(gomock.Any(), int64(2), "loan:x").Return(client.Adjustment{Applied: true}, nil)

		l, err := svc.ReturnLoan(ctx, 5)
		require.NoError(t, err)
		require.Equal(t, model.StatusReturned, l.Status)
		require.NotNil(t, l.ReturnDate)
		require.Equal(t, testNow, *l.ReturnDate)
	})

	t.Run("twice", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		returned := active
		returned.Status = model.StatusReturned
		d.repo.EXPECT().Update(gomock.Any(), int64(5), gomock.Any()).DoAndReturn(updateWith(returned))

		_, err := svc.ReturnLoan(ctx, 5)
		require.ErrorIs(t, err, apierr.ErrAlreadyReturned)
	})

	t.Run("catalog unavailable keeps the loan active", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().Update(gomock.Any(), int64(5), gomock.Any()).DoAndReturn(updateWith(active))
		d.catalog.EXPECT().ReleaseHold(gomock.Any(), int64(2), "loan:x").
			Return(client.Adjustment{}, apierr.ErrUpstreamUnavailable)

		_, err := svc.ReturnLoan(ctx, 5)
		require.ErrorIs(t, err, apierr.ErrUpstreamUnavailable)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().Update(gomock.Any(), int64(5), gomock.Any()).Return(model.Loan{}, apierr.ErrLoanNotFound)

		_, err := svc.ReturnLoan(ctx, 5)
		require.ErrorIs(t, err, apierr.ErrLoanNotFound)
	})
}

func TestService_DeleteLoan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("active loan gives its copy back", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		l := model.Loan{ID: 5, MaterialID: 2, HoldKey: "loan:x", Status: model.StatusActive}
		d.repo.EXPECT().Update(gomock.Any(), int64(5), gomock.Any()).
			DoAndReturn(func(ctx context.Context, id int64, fn func(*model.Loan) error) (model.Loan, error) {
				require.NoError(t, fn(&l))
				require.True(t, l.Deleted)
				return l, nil
			})
		d.catalog.EXPECT().ReleaseHold(gomock.Any(), int64(2), "loan:x").Return(client.Adjustment{Applied: true}, nil)

		require.NoError(t, svc.DeleteLoan(ctx, 5))
	})

	t.Run("returned loan", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		l := model.Loan{ID: 5, MaterialID: 2, HoldKey: "loan:x", Status: model.StatusReturned}
		d.repo.EXPECT().Update(gomock.Any(), int64(5), gomock.Any()).DoAndReturn(updateWith(l))

		require.NoError(t, svc.DeleteLoan(ctx, 5))
	})
}

func TestService_ListOverdue(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	p := pagination.Params{Offset: 0, Limit: 10}
	d.repo.EXPECT().List(gomock.Any(), model.Filter{OverdueAt: testNow}, p).
		Return([]model.Loan{{ID: 1}}, 1, nil)

	page, err := svc.ListOverdue(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	require.Equal(t, 1, page.Pagination.Total)
}
