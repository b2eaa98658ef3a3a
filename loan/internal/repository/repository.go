package repository

import (
	"context"
	"database/sql"

	"github.com/Astemirdum/library-loans/loan/internal/model"
	"github.com/Astemirdum/library-loans/pkg/apierr"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"github.com/Astemirdum/library-loans/pkg/postgres"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrDuplicateHold is returned by Create when a loan already owns the hold key.
var ErrDuplicateHold = errors.New("loan for hold key already exists")

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const loansTableName = `loans`

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const returning = "returning id, user_id, material_id, hold_key, status, loan_date, due_date, return_date"

// loans is the base query for every read: soft-deleted loans are never visible.
func loans(columns ...string) sq.SelectBuilder {
	if len(columns) == 0 {
		columns = []string{"id", "user_id", "material_id", "hold_key", "status", "loan_date", "due_date", "return_date"}
	}
	return qb.Select(columns...).From(loansTableName).Where(sq.Eq{"active": true})
}

func (r *repository) Create(ctx context.Context, l model.Loan) (model.Loan, error) {
	q, args, err := qb.Insert(loansTableName).
		Columns("user_id", "material_id", "hold_key", "status", "loan_date", "due_date").
		Values(l.UserID, l.MaterialID, l.HoldKey, l.Status, l.LoanDate, l.DueDate).
		Suffix(returning).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var created model.Loan
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return model.Loan{}, ErrDuplicateHold
		}
		r.log.Error("Create", zap.String("q", q), zap.Any("args", args))
		return model.Loan{}, err
	}
	return created, nil
}

func (r *repository) get(ctx context.Context, db sqlx.QueryerContext, b sq.SelectBuilder) (model.Loan, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var l model.Loan
	if err := sqlx.GetContext(ctx, db, &l, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, apierr.ErrLoanNotFound
		}
		return model.Loan{}, err
	}
	return l, nil
}

func (r *repository) Get(ctx context.Context, id int64) (model.Loan, error) {
	return r.get(ctx, r.db, loans().Where(sq.Eq{"id": id}))
}

// GetByHoldKey also sees deleted loans: a hold key is never reused.
func (r *repository) GetByHoldKey(ctx context.Context, holdKey string) (model.Loan, error) {
	b := qb.Select("id", "user_id", "material_id", "hold_key", "status", "loan_date", "due_date", "return_date").
		From(loansTableName).
		Where(sq.Eq{"hold_key": holdKey})
	return r.get(ctx, r.db, b)
}

func applyFilter(b sq.SelectBuilder, f model.Filter) sq.SelectBuilder {
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": f.Status})
	}
	if f.UserID != 0 {
		b = b.Where(sq.Eq{"user_id": f.UserID})
	}
	if f.MaterialID != 0 {
		b = b.Where(sq.Eq{"material_id": f.MaterialID})
	}
	if !f.OverdueAt.IsZero() {
		b = b.Where(sq.Eq{"status": model.StatusActive}).Where(sq.Lt{"due_date": f.OverdueAt})
	}
	return b
}

func (r *repository) List(ctx context.Context, f model.Filter, p pagination.Params) ([]model.Loan, int, error) {
	q, args, err := applyFilter(loans("count(*)"), f).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.GetContext(ctx, &total, q, args...); err != nil {
		return nil, 0, err
	}
	q, args, err = applyFilter(loans(), f).
		OrderBy("loan_date desc", "id desc").
		Limit(uint64(p.Limit)).
		Offset(uint64(p.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.log.Debug("List", zap.String("query", q), zap.Any("args", args))

	items := make([]model.Loan, 0, p.Limit)
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Summary groups active loans per material, oldest-first by first loan so ties keep query order.
func (r *repository) Summary(ctx context.Context) ([]model.MaterialSummary, error) {
	q, args, err := loans("material_id", "count(*) as loaned_count", "max(loan_date) as most_recent_loan_date").
		Where(sq.Eq{"status": model.StatusActive}).
		GroupBy("material_id").
		OrderBy("min(id)").
		ToSql()
	if err != nil {
		return nil, err
	}
	items := make([]model.MaterialSummary, 0)
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

// Update locks the loan row for the duration of fn; the changes fn makes are written only
// when it succeeds.
func (r *repository) Update(ctx context.Context, id int64, fn func(l *model.Loan) error) (model.Loan, error) {
	var updated model.Loan
	err := postgres.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		l, err := r.get(ctx, tx, loans().Where(sq.Eq{"id": id}).Suffix("for update"))
		if err != nil {
			return err
		}
		if err := fn(&l); err != nil {
			return err
		}
		q, args, err := qb.Update(loansTableName).
			Set("status", l.Status).
			Set("return_date", l.ReturnDate).
			Set("active", !l.Deleted).
			Where(sq.Eq{"id": id}).
			Suffix(returning).
			ToSql()
		if err != nil {
			return err
		}
		return tx.GetContext(ctx, &updated, q, args...)
	})
	return updated, err
}
