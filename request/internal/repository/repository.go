package repository

import (
	"context"
	"database/sql"

	"github.com/Astemirdum/library-loans/pkg/apierr"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"github.com/Astemirdum/library-loans/pkg/postgres"
	"github.com/Astemirdum/library-loans/request/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

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

const requestsTableName = `requests`

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var columns = []string{
	"id", "user_id", "name", "identity_document", "address", "material_id", "hold_key",
	"reserved", "status", "notes", "loan_id", "request_date",
}

const returning = "returning id, user_id, name, identity_document, address, material_id, hold_key, " +
	"reserved, status, notes, loan_id, request_date"

func requests(cols ...string) sq.SelectBuilder {
	if len(cols) == 0 {
		cols = columns
	}
	return qb.Select(cols...).From(requestsTableName).Where(sq.Eq{"active": true})
}

func (r *repository) Create(ctx context.Context, req model.LoanRequest) (model.LoanRequest, error) {
	q, args, err := qb.Insert(requestsTableName).
		Columns("user_id", "name", "identity_document", "address", "material_id", "hold_key",
			"reserved", "status", "notes", "request_date").
		Values(req.UserID, req.Name, req.IdentityDocument, req.Address, req.MaterialID, req.HoldKey,
			req.Reserved, req.Status, req.Notes, req.RequestDate).
		Suffix(returning).
		ToSql()
	if err != nil {
		return model.LoanRequest{}, err
	}
	var created model.LoanRequest
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		r.log.Error("Create", zap.String("q", q), zap.Any("args", args))
		return model.LoanRequest{}, err
	}
	return created, nil
}

func (r *repository) get(ctx context.Context, db sqlx.QueryerContext, b sq.SelectBuilder) (model.LoanRequest, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return model.LoanRequest{}, err
	}
	var req model.LoanRequest
	if err := sqlx.GetContext(ctx, db, &req, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.LoanRequest{}, apierr.ErrRequestNotFound
		}
		return model.LoanRequest{}, err
	}
	return req, nil
}

func (r *repository) Get(ctx context.Context, id int64) (model.LoanRequest, error) {
	return r.get(ctx, r.db, requests().Where(sq.Eq{"id": id}))
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
	if f.IdentityDocument != "" {
		b = b.Where(sq.Eq{"identity_document": f.IdentityDocument})
	}
	return b
}

func (r *repository) List(ctx context.Context, f model.Filter, p pagination.Params) ([]model.LoanRequest, int, error) {
	q, args, err := applyFilter(requests("count(*)"), f).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.GetContext(ctx, &total, q, args...); err != nil {
		return nil, 0, err
	}
	q, args, err = applyFilter(requests(), f).
		OrderBy("request_date desc", "id desc").
		Limit(uint64(p.Limit)).
		Offset(uint64(p.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.log.Debug("List", zap.String("query", q), zap.Any("args", args))

	items := make([]model.LoanRequest, 0, p.Limit)
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) Stats(ctx context.Context) (model.Stats, error) {
	q, args, err := requests("status", "count(*) as n").GroupBy("status").ToSql()
	if err != nil {
		return model.Stats{}, err
	}
	var rows []struct {
		Status model.Status `db:"status"`
		N      int          `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return model.Stats{}, err
	}
	var st model.Stats
	for _, row := range rows {
		st.Total += row.N
		switch row.Status {
		case model.StatusPending:
			st.Pending = row.N
		case model.StatusApproved:
			st.Approved = row.N
		case model.StatusRejected:
			st.Rejected = row.N
		}
	}
	return st, nil
}

// Transition locks the request row while fn decides and performs the side effects of a state
// change. Nothing is written when fn fails, so a failed approval leaves the request pending.
func (r *repository) Transition(ctx context.Context, id int64, fn func(req *model.LoanRequest) error) (model.LoanRequest, error) {
	var updated model.LoanRequest
	err := postgres.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		req, err := r.get(ctx, tx, requests().Where(sq.Eq{"id": id}).Suffix("for update"))
		if err != nil {
			return err
		}
		if err := fn(&req); err != nil {
			return err
		}
		q, args, err := qb.Update(requestsTableName).
			Set("user_id", req.UserID).
			Set("reserved", req.Reserved).
			Set("status", req.Status).
			Set("notes", req.Notes).
			Set("loan_id", req.LoanID).
			Set("active", !req.Deleted).
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
