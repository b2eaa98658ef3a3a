package repository

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Astemirdum/library-loans/pkg/apierr"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"github.com/Astemirdum/library-loans/request/internal/model"
	"github.com/Astemirdum/library-loans/request/migrations"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newRepo needs a reachable Postgres in TEST_POSTGRES_DSN (key=value form); every call gets
// its own schema.
func newRepo(t *testing.T) *repository {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN is not set")
	}
	schema := "request_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	admin, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	_, err = admin.Exec("create schema " + schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec("drop schema " + schema + " cascade")
		_ = admin.Close()
	})

	db, err := sqlx.Connect("pgx", dsn+" search_path="+schema)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.MigrationFiles)
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db.DB, "."))

	repo, err := NewRepository(db, zap.NewNop())
	require.NoError(t, err)
	return repo
}

func pending(doc string, materialID int64) model.LoanRequest {
	return model.LoanRequest{
		Name:             "Ana",
		IdentityDocument: doc,
		MaterialID:       materialID,
		HoldKey:          "request:" + uuid.NewString(),
		Reserved:         true,
		Status:           model.StatusPending,
		RequestDate:      time.Now().UTC(),
	}
}

func TestRepository_Transition(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, pending("D-1", 2))
	require.NoError(t, err)
	require.Nil(t, created.UserID)

	_, err = repo.Transition(ctx, created.ID, func(r *model.LoanRequest) error {
		r.Status = model.StatusApproved
		return apierr.ErrUpstreamUnavailable
	})
	require.ErrorIs(t, err, apierr.ErrUpstreamUnavailable)
	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, got.Status)
	require.True(t, got.Reserved)

	userID, loanID := int64(7), int64(9)
	approved, err := repo.Transition(ctx, created.ID, func(r *model.LoanRequest) error {
		r.UserID = &userID
		r.LoanID = &loanID
		r.Reserved = false
		r.Status = model.StatusApproved
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, model.StatusApproved, approved.Status)
	require.Equal(t, userID, *approved.UserID)
	require.Equal(t, loanID, *approved.LoanID)
	require.Equal(t, created.HoldKey, approved.HoldKey)

	_, err = repo.Transition(ctx, created.ID, func(r *model.LoanRequest) error {
		r.Deleted = true
		return nil
	})
	require.NoError(t, err)
	_, err = repo.Get(ctx, created.ID)
	require.ErrorIs(t, err, apierr.ErrRequestNotFound)
	_, err = repo.Transition(ctx, created.ID, func(*model.LoanRequest) error { return nil })
	require.ErrorIs(t, err, apierr.ErrRequestNotFound)
}

func TestRepository_List(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	for _, r := range []model.LoanRequest{pending("D-1", 1), pending("D-1", 2), pending("D-2", 2)} {
		_, err := repo.Create(ctx, r)
		require.NoError(t, err)
	}

	items, total, err := repo.List(ctx, model.Filter{IdentityDocument: "D-1"}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, items, 2)

	_, total, err = repo.List(ctx, model.Filter{MaterialID: 2, Status: model.StatusPending}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 2, total)

	items, total, err = repo.List(ctx, model.Filter{Status: model.StatusRejected}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, items)
}

func TestRepository_Stats(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	st, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, model.Stats{}, st)

	ids := make([]int64, 0, 4)
	for i := 0; i < 4; i++ {
		r, err := repo.Create(ctx, pending("D-1", 2))
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}
	decide := func(id int64, fn func(r *model.LoanRequest)) {
		_, err := repo.Transition(ctx, id, func(r *model.LoanRequest) error {
			fn(r)
			return nil
		})
		require.NoError(t, err)
	}
	decide(ids[0], func(r *model.LoanRequest) { r.Status = model.StatusApproved })
	decide(ids[1], func(r *model.LoanRequest) { r.Status = model.StatusRejected })
	decide(ids[2], func(r *model.LoanRequest) { r.Deleted = true })

	st, err = repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, model.Stats{Total: 3, Pending: 1, Approved: 1, Rejected: 1}, st)
}
