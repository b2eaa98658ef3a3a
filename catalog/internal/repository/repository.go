package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Astemirdum/library-loans/catalog/internal/model"
	"github.com/Astemirdum/library-loans/pkg/apierr"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"github.com/Astemirdum/library-loans/pkg/postgres"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, m model.Material) (model.Material, error)
	Get(ctx context.Context, id int64) (model.Material, error)
	List(ctx context.Context, f model.Filter, p pagination.Params) ([]model.Material, int, error)
	Update(ctx context.Context, id int64, fn func(m *model.Material) error) (model.Material, error)
	Delete(ctx context.Context, id int64) error
	AdjustCopies(ctx context.Context, id int64, delta int, holdKey string) (model.Adjustment, error)
	AdoptHold(ctx context.Context, id int64, holdKey string) (model.Adjustment, error)
	ReleaseHold(ctx context.Context, id int64, holdKey string) (model.Adjustment, error)
	Available(ctx context.Context) ([]model.AvailableItem, error)
	Stats(ctx context.Context) ([]model.KindStats, error)
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

const (
	materialsTableName = `materials`
	holdsTableName     = `copy_holds`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var materialColumns = []string{
	"id", "identifier", "kind", "title", "author", "description", "location",
	"publication_year", "arrival_year", "publisher", "total_copies", "loaned_copies",
	"genre", "publication_frequency", "conference_name", "created_at",
}

// materials is the base query for every read: soft-deleted rows are never visible.
func materials(columns ...string) sq.SelectBuilder {
	if len(columns) == 0 {
		columns = materialColumns
	}
	return qb.Select(columns...).From(materialsTableName).Where(sq.Eq{"active": true})
}

var returning = "returning " + strings.Join(materialColumns, ", ")

func (r *repository) Create(ctx context.Context, m model.Material) (model.Material, error) {
	q, args, err := qb.Insert(materialsTableName).
		Columns("identifier", "kind", "title", "author", "description", "location",
			"publication_year", "arrival_year", "publisher", "total_copies",
			"genre", "publication_frequency", "conference_name").
		Values(m.Identifier, m.Kind, m.Title, m.Author, m.Description, m.Location,
			m.PublicationYear, m.ArrivalYear, m.Publisher, m.TotalCopies,
			m.Genre, m.Frequency, m.ConferenceName).
		Suffix(returning).
		ToSql()
	if err != nil {
		return model.Material{}, err
	}
	var created model.Material
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return model.Material{}, apierr.ErrDuplicateIdentifier
		}
		r.log.Error("Create", zap.String("q", q), zap.Any("args", args))
		return model.Material{}, err
	}
	return created, nil
}

func (r *repository) Get(ctx context.Context, id int64) (model.Material, error) {
	return r.get(ctx, r.db, id, false)
}

func (r *repository) get(ctx context.Context, db sqlx.QueryerContext, id int64, lock bool) (model.Material, error) {
	b := materials().Where(sq.Eq{"id": id})
	if lock {
		b = b.Suffix("for update")
	}
	q, args, err := b.ToSql()
	if err != nil {
		return model.Material{}, err
	}
	var m model.Material
	if err := sqlx.GetContext(ctx, db, &m, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Material{}, apierr.ErrMaterialNotFound
		}
		return model.Material{}, err
	}
	return m, nil
}

func applyFilter(b sq.SelectBuilder, f model.Filter) sq.SelectBuilder {
	if f.Title != "" {
		b = b.Where(sq.ILike{"title": "%" + f.Title + "%"})
	}
	if f.Author != "" {
		b = b.Where(sq.ILike{"author": "%" + f.Author + "%"})
	}
	if f.Kind != "" {
		b = b.Where(sq.Eq{"kind": f.Kind})
	}
	if f.Subtype != "" {
		b = b.Where(sq.Or{
			sq.Eq{"genre": f.Subtype},
			sq.Eq{"publication_frequency": f.Subtype},
			sq.Eq{"conference_name": f.Subtype},
		})
	}
	switch f.Status {
	case model.StatusAvailable:
		b = b.Where("loaned_copies < total_copies")
	case model.StatusExhausted:
		b = b.Where("loaned_copies >= total_copies")
	}
	return b
}

func (r *repository) List(ctx context.Context, f model.Filter, p pagination.Params) ([]model.Material, int, error) {
	q, args, err := applyFilter(materials("count(*)"), f).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.GetContext(ctx, &total, q, args...); err != nil {
		return nil, 0, err
	}

	b := applyFilter(materials(), f)
	if f.Sorted {
		b = b.OrderBy("author", "title", "id")
	} else {
		b = b.OrderBy("id")
	}
	q, args, err = b.Limit(uint64(p.Limit)).Offset(uint64(p.Offset)).ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.log.Debug("List", zap.String("query", q), zap.Any("args", args))

	items := make([]model.Material, 0, p.Limit)
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) Update(ctx context.Context, id int64, fn func(m *model.Material) error) (model.Material, error) {
	var updated model.Material
	err := postgres.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		m, err := r.get(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := fn(&m); err != nil {
			return err
		}
		q, args, err := qb.Update(materialsTableName).
			SetMap(map[string]any{
				"identifier":            m.Identifier,
				"title":                 m.Title,
				"author":                m.Author,
				"description":           m.Description,
				"location":              m.Location,
				"publication_year":      m.PublicationYear,
				"arrival_year":          m.ArrivalYear,
				"publisher":             m.Publisher,
				"total_copies":          m.TotalCopies,
				"genre":                 m.Genre,
				"publication_frequency": m.Frequency,
				"conference_name":       m.ConferenceName,
			}).
			Where(sq.Eq{"id": id}).
			Suffix(returning).
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &updated, q, args...); err != nil {
			if postgres.IsUniqueViolation(err) {
				return apierr.ErrDuplicateIdentifier
			}
			return err
		}
		return nil
	})
	return updated, err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	q := fmt.Sprintf(`update %s set active = false
where id = $1 and active and loaned_copies = 0`, materialsTableName)
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return apierr.ErrMaterialOnLoan
}

// AdjustCopies moves loaned_copies by delta. With a hold key the change is recorded in
// copy_holds and happens at most once per key in each direction; a hold owned by a loan is
// only given back through ReleaseHold.
func (r *repository) AdjustCopies(ctx context.Context, id int64, delta int, holdKey string) (model.Adjustment, error) {
	if holdKey == "" {
		m, err := r.adjust(ctx, r.db, id, delta)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				if _, gerr := r.Get(ctx, id); gerr != nil {
					return model.Adjustment{}, gerr
				}
				return model.Adjustment{}, apierr.ErrInsufficientCopies
			}
			return model.Adjustment{}, err
		}
		return model.Adjustment{Material: m, Applied: true}, nil
	}

	if delta > 0 {
		return r.withHold(ctx, id, holdKey, func(tx *sqlx.Tx, h *hold) (int, error) {
			if h != nil {
				if !h.live(id) {
					return 0, apierr.ErrHoldUnavailable
				}
				return 0, nil
			}
			res, err := tx.ExecContext(ctx, fmt.Sprintf(`insert into %s (hold_key, material_id)
values ($1, $2) on conflict (hold_key) do nothing`, holdsTableName), holdKey, id)
			if err != nil {
				return 0, err
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return 0, apierr.ErrHoldUnavailable
			}
			return 1, nil
		})
	}
	return r.withHold(ctx, id, holdKey, func(tx *sqlx.Tx, h *hold) (int, error) {
		if h == nil {
			return 0, r.tombstone(ctx, tx, id, holdKey)
		}
		if !h.live(id) {
			return 0, nil
		}
		if h.AdoptedAt != nil {
			return 0, apierr.ErrHoldAdopted
		}
		return -1, r.release(ctx, tx, holdKey)
	})
}

// AdoptHold hands a live hold over to a loan. The copy stays counted; from now on only
// ReleaseHold gives it back.
func (r *repository) AdoptHold(ctx context.Context, id int64, holdKey string) (model.Adjustment, error) {
	adopted := false
	adj, err := r.withHold(ctx, id, holdKey, func(tx *sqlx.Tx, h *hold) (int, error) {
		switch {
		case h == nil:
			return 0, apierr.ErrHoldNotFound
		case !h.live(id):
			return 0, apierr.ErrHoldUnavailable
		case h.AdoptedAt != nil:
			return 0, nil
		}
		adopted = true
		_, err := tx.ExecContext(ctx, fmt.Sprintf(`update %s set adopted_at = now()
where hold_key = $1`, holdsTableName), holdKey)
		return 0, err
	})
	if err != nil {
		return model.Adjustment{}, err
	}
	adj.Applied = adopted
	return adj, nil
}

// ReleaseHold gives back the copy of a live hold whoever owns it. Releasing an already
// released hold is a no-op; releasing an unknown key records it as released so a late take
// under that key is refused.
func (r *repository) ReleaseHold(ctx context.Context, id int64, holdKey string) (model.Adjustment, error) {
	return r.withHold(ctx, id, holdKey, func(tx *sqlx.Tx, h *hold) (int, error) {
		if h == nil {
			return 0, r.tombstone(ctx, tx, id, holdKey)
		}
		if !h.live(id) {
			return 0, nil
		}
		return -1, r.release(ctx, tx, holdKey)
	})
}

type hold struct {
	MaterialID int64      `db:"material_id"`
	AdoptedAt  *time.Time `db:"adopted_at"`
	ReleasedAt *time.Time `db:"released_at"`
}

func (h *hold) live(materialID int64) bool {
	return h != nil && h.MaterialID == materialID && h.ReleasedAt == nil
}

// withHold runs fn with the material row and the hold row locked (h is nil when no hold is
// recorded under the key), then moves loaned_copies by the delta fn returns.
func (r *repository) withHold(
	ctx context.Context, id int64, holdKey string, fn func(tx *sqlx.Tx, h *hold) (int, error),
) (model.Adjustment, error) {
	var adj model.Adjustment
	err := postgres.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		m, err := r.get(ctx, tx, id, true)
		if err != nil {
			return err
		}
		adj.Material = m

		h := new(hold)
		err = tx.GetContext(ctx, h, fmt.Sprintf(`select material_id, adopted_at, released_at
from %s where hold_key = $1 for update`, holdsTableName), holdKey)
		if errors.Is(err, sql.ErrNoRows) {
			h = nil
		} else if err != nil {
			return err
		}

		delta, err := fn(tx, h)
		if err != nil || delta == 0 {
			return err
		}
		if adj.Material, err = r.adjust(ctx, tx, id, delta); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				if delta > 0 {
					return apierr.ErrNoCopiesAvailable
				}
				return apierr.ErrInsufficientCopies
			}
			return err
		}
		adj.Applied = true
		return nil
	})
	if err != nil {
		return model.Adjustment{}, err
	}
	r.log.Debug("hold", zap.Int64("id", id), zap.String("hold", holdKey), zap.Bool("applied", adj.Applied))
	return adj, nil
}

func (r *repository) release(ctx context.Context, tx *sqlx.Tx, holdKey string) error {
	_, err := tx.ExecContext(ctx, fmt.Sprintf(`update %s set released_at = now()
where hold_key = $1`, holdsTableName), holdKey)
	return err
}

func (r *repository) tombstone(ctx context.Context, tx *sqlx.Tx, id int64, holdKey string) error {
	_, err := tx.ExecContext(ctx, fmt.Sprintf(`insert into %s (hold_key, material_id, released_at)
values ($1, $2, now()) on conflict (hold_key) do nothing`, holdsTableName), holdKey, id)
	return err
}

// adjust is a single conditional update; sql.ErrNoRows means the row is missing or the
// result would leave [live holds, total_copies].
func (r *repository) adjust(ctx context.Context, db sqlx.QueryerContext, id int64, delta int) (model.Material, error) {
	q := fmt.Sprintf(`update %s
    set loaned_copies = loaned_copies + $2
where id = $1 and active and loaned_copies + $2 between 0 and total_copies
  and loaned_copies + $2 >= (select count(*) from %s h where h.material_id = $1 and h.released_at is null)
%s`, materialsTableName, holdsTableName, returning)
	var m model.Material
	err := sqlx.GetContext(ctx, db, &m, q, id, delta)
	return m, err
}

func (r *repository) Available(ctx context.Context) ([]model.AvailableItem, error) {
	q, args, err := materials("id", "kind", "title",
		"greatest(total_copies - loaned_copies, 0) as available", "total_copies as total").
		OrderBy("kind", "title", "id").
		ToSql()
	if err != nil {
		return nil, err
	}
	items := make([]model.AvailableItem, 0)
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Stats(ctx context.Context) ([]model.KindStats, error) {
	q, args, err := materials("kind", "count(*) as materials",
		"coalesce(sum(total_copies), 0) as total_copies", "coalesce(sum(loaned_copies), 0) as loaned_copies").
		GroupBy("kind").
		OrderBy("kind").
		ToSql()
	if err != nil {
		return nil, err
	}
	items := make([]model.KindStats, 0)
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}
