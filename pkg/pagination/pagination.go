package pagination

import (
	"strconv"

	"github.com/pkg/errors"
)

const (
	DefaultSize = 10
	MaxSize     = 100
)

type Params struct {
	Offset int
	Limit  int
}

type Info struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

type Page[T any] struct {
	Data       []T  `json:"data"`
	Pagination Info `json:"pagination"`
}

type Getter interface {
	QueryParam(name string) string
}

// FromQuery accepts either page/size (1-based) or skip/limit.
func FromQuery(q Getter) (Params, error) {
	atoi := func(name string, def int) (int, error) {
		v := q.QueryParam(name)
		if v == "" {
			return def, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, errors.Errorf("%s is invalid", name)
		}
		return n, nil
	}

	if q.QueryParam("skip") != "" || q.QueryParam("limit") != "" {
		skip, err := atoi("skip", 0)
		if err != nil {
			return Params{}, err
		}
		limit, err := atoi("limit", DefaultSize)
		if err != nil {
			return Params{}, err
		}
		return normalize(Params{Offset: skip, Limit: limit}), nil
	}

	page, err := atoi("page", 1)
	if err != nil {
		return Params{}, err
	}
	size, err := atoi("size", DefaultSize)
	if err != nil {
		return Params{}, err
	}
	if page < 1 {
		page = 1
	}
	p := normalize(Params{Limit: size})
	p.Offset = (page - 1) * p.Limit
	return p, nil
}

func normalize(p Params) Params {
	if p.Limit <= 0 {
		p.Limit = DefaultSize
	}
	if p.Limit > MaxSize {
		p.Limit = MaxSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

func NewPage[T any](items []T, total int, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	size := p.Limit
	if size <= 0 {
		size = DefaultSize
	}
	pages := 1
	if total > 0 {
		pages = (total + size - 1) / size
	}
	return Page[T]{
		Data: items,
		Pagination: Info{
			Total: total,
			Page:  p.Offset/size + 1,
			Size:  size,
			Pages: pages,
		},
	}
}
