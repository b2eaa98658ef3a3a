package repository

import (
	"context"
	"database/sql"

	"github.com/Astemirdum/library-loans/identity/internal/model"
	"github.com/Astemirdum/library-loans/pkg/apierr"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"github.com/Astemirdum/library-loans/pkg/postgres"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	Get(ctx context.Context, id int64) (model.User, error)
	GetByDocument(ctx context.Context, doc string) (model.User, error)
	List(ctx context.Context, p pagination.Params) ([]model.User, int, error)
	Update(ctx context.Context, u model.User) (model.User, error)
	Delete(ctx context.Context, id int64) error
}

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

const usersTableName = `users`

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const returning = "returning id, name, email, identity_document, address, role, created_at"

func users(columns ...string) sq.SelectBuilder {
	if len(columns) == 0 {
		columns = []string{"id", "name", "email", "identity_document", "address", "role", "created_at"}
	}
	return qb.Select(columns...).From(usersTableName).Where(sq.Eq{"active": true})
}

func (r *repository) Create(ctx context.Context, u model.User) (model.User, error) {
	q, args, err := qb.Insert(usersTableName).
		Columns("name", "email", "identity_document", "address", "role").
		Values(u.Name, u.Email, u.IdentityDocument, u.Address, u.Role).
		Suffix(returning).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var created model.User
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return model.User{}, apierr.ErrDuplicateDocument
		}
		r.log.Error("Create", zap.String("q", q), zap.Any("args", args))
		return model.User{}, err
	}
	return created, nil
}

func (r *repository) get(ctx context.Context, where sq.Eq) (model.User, error) {
	q, args, err := users().Where(where).Limit(1).ToSql()
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	if err := r.db.GetContext(ctx, &u, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, apierr.ErrUserNotFound
		}
		return model.User{}, err
	}
	return u, nil
}

func (r *repository) Get(ctx context.Context, id int64) (model.User, error) {
	return r.get(ctx, sq.Eq{"id": id})
}

func (r *repository) GetByDocument(ctx context.Context, doc string) (model.User, error) {
	return r.get(ctx, sq.Eq{"identity_document": doc})
}

func (r *repository) List(ctx context.Context, p pagination.Params) ([]model.User, int, error) {
	q, args, err := users("count(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.GetContext(ctx, &total, q, args...); err != nil {
		return nil, 0, err
	}
	q, args, err = users().OrderBy("id").Limit(uint64(p.Limit)).Offset(uint64(p.Offset)).ToSql()
	if err != nil {
		return nil, 0, err
	}
	items := make([]model.User, 0, p.Limit)
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) Update(ctx context.Context, u model.User) (model.User, error) {
	q, args, err := qb.Update(usersTableName).
		Set("name", u.Name).
		Set("email", u.Email).
		Set("address", u.Address).
		Set("role", u.Role).
		Where(sq.Eq{"id": u.ID, "active": true}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var updated model.User
	if err := r.db.GetContext(ctx, &updated, q, args...); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return model.User{}, apierr.ErrUserNotFound
		case postgres.IsUniqueViolation(err):
			return model.User{}, apierr.ErrDuplicateDocument
		}
		return model.User{}, err
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	q, args, err := qb.Update(usersTableName).
		Set("active", false).
		Where(sq.Eq{"id": id, "active": true}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apierr.ErrUserNotFound
	}
	return nil
}
