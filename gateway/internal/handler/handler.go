package handler

import (
	"context"
	"net/http"
	"net/url"
	"sort"

	"github.com/Astemirdum/library-loans/gateway/internal/model"
	_ "github.com/Astemirdum/library-loans/gateway/swagger"
	"github.com/Astemirdum/library-loans/pkg/apierr"
	"github.com/Astemirdum/library-loans/pkg/auth"
	"github.com/Astemirdum/library-loans/pkg/client"
	md "github.com/Astemirdum/library-loans/pkg/middleware"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// fetchLimit bounds the concurrent catalog lookups of one aggregation.
const fetchLimit = 8

type Handler struct {
	catalog  CatalogService
	loans    LoanService
	requests RequestService
	identity IdentityService
	log      *zap.Logger
}

func New(catalog CatalogService, loans LoanService, requests RequestService, identity IdentityService, log *zap.Logger) *Handler {
	return &Handler{
		catalog:  catalog,
		loans:    loans,
		requests: requests,
		identity: identity,
		log:      log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, auth.XUserNameHeader, auth.XUserRoleHeader},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.AuthContext,
	)
	admin := api.Group("", md.RequireRole(auth.RoleAdmin))

	catalog := h.catalog.Forward
	api.GET("/materials", catalog)
	api.GET("/materials/sorted", catalog)
	api.GET("/materials/stats", catalog)
	api.GET("/materials/available", catalog)
	api.GET("/materials/kind/:kind", catalog)
	api.GET("/materials/:id", catalog)
	admin.POST("/materials", catalog)
	admin.PUT("/materials/:id", catalog)
	admin.PATCH("/materials/:id", catalog)
	admin.DELETE("/materials/:id", catalog)
	admin.POST("/materials/:id/copies", catalog)

	loans := h.loans.Forward
	api.GET("/loans", loans)
	api.GET("/loans/active", loans)
	api.GET("/loans/overdue", loans)
	api.GET("/loans/summary", loans)
	api.GET("/loans/user/:id", loans)
	api.GET("/loans/material/:id", loans)
	api.GET("/loans/:id", loans)
	admin.POST("/loans", loans)
	admin.PUT("/loans/:id", loans)
	admin.POST("/loans/:id/return", loans)
	admin.DELETE("/loans/:id", loans)

	requests := h.requests.Forward
	api.POST("/requests", requests)
	api.GET("/requests", requests)
	api.GET("/requests/stats", requests)
	api.GET("/requests/periodicals", h.PeriodicalRequests)
	api.GET("/requests/document/:doc", requests)
	api.GET("/requests/:id", requests)
	admin.PUT("/requests/:id", requests)
	admin.POST("/requests/:id/approve", requests)
	admin.POST("/requests/:id/reject", requests)
	admin.DELETE("/requests/:id", requests)

	users := h.identity.Forward
	api.POST("/users", users)
	api.GET("/users", users)
	api.GET("/users/document/:doc", users)
	api.GET("/users/:id", users)
	admin.PUT("/users/:id", users)
	admin.DELETE("/users/:id", users)

	api.GET("/availability/materials", h.AvailableMaterials)
	api.GET("/availability/on-loan", h.OnLoan)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// AvailableMaterials godoc
// @Summary      Spare copies per material
// @Tags         availability
// @Produce      json
// @Param        X-User-Name header string true "user name"
// @Param        X-User-Role header string true "user role"
// @Success      200 {array} model.AvailableItem
// @Failure      503 {object} apierr.Body
// @Router       /availability/materials [get]
func (h *Handler) AvailableMaterials(c echo.Context) error {
	items, err := h.catalog.AvailableByType(c.Request().Context())
	if err != nil {
		return apierr.HTTPError(err)
	}
	resp := make([]model.AvailableItem, 0, len(items))
	for _, it := range items {
		resp = append(resp, model.AvailableItem{
			ID:        it.ID,
			Type:      it.Kind,
			Title:     it.Title,
			Available: max(0, it.Available),
			Total:     it.Total,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// OnLoan godoc
// @Summary      Materials on loan, highest stay factor first
// @Tags         availability
// @Produce      json
// @Param        X-User-Name header string true "user name"
// @Param        X-User-Role header string true "user role"
// @Success      200 {array} model.OnLoanItem
// @Failure      503 {object} apierr.Body
// @Router       /availability/on-loan [get]
func (h *Handler) OnLoan(c echo.Context) error {
	ctx := c.Request().Context()
	summary, err := h.loans.Summary(ctx)
	if err != nil {
		return apierr.HTTPError(err)
	}

	materials := make([]*client.Material, len(summary))
	gg, gctx := errgroup.WithContext(ctx)
	gg.SetLimit(fetchLimit)
	for i, s := range summary {
		i, s := i, s
		gg.Go(func() error {
			m, err := h.catalog.GetMaterial(gctx, s.MaterialID)
			if err != nil {
				if errors.Is(err, apierr.ErrMaterialNotFound) {
					h.log.Warn("loaned material is gone", zap.Int64("material_id", s.MaterialID))
					return nil
				}
				return err
			}
			materials[i] = &m
			return nil
		})
	}
	if err := gg.Wait(); err != nil {
		return apierr.HTTPError(err)
	}

	items := make([]model.OnLoanItem, 0, len(summary))
	for i, s := range summary {
		m := materials[i]
		if m == nil {
			continue
		}
		items = append(items, model.OnLoanItem{
			MaterialID:         s.MaterialID,
			Type:               m.Kind,
			Title:              m.Title,
			Author:             m.Author,
			LoanedCount:        s.LoanedCount,
			MostRecentLoanDate: model.Date{Time: s.MostRecentLoanDate},
			StayFactor:         m.StayFactor,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StayFactor > items[j].StayFactor
	})
	return c.JSON(http.StatusOK, items)
}

// PeriodicalRequests godoc
// @Summary      Loan requests for periodicals with requester and title
// @Tags         requests
// @Produce      json
// @Param        X-User-Name header string true "user name"
// @Param        X-User-Role header string true "user role"
// @Param        status query string false "pending, approved or rejected"
// @Success      200 {array} model.PeriodicalRequest
// @Failure      400 {object} apierr.Body
// @Failure      503 {object} apierr.Body
// @Router       /requests/periodicals [get]
func (h *Handler) PeriodicalRequests(c echo.Context) error {
	ctx := c.Request().Context()
	query := url.Values{}
	if status := c.QueryParam("status"); status != "" {
		query.Set("status", status)
	}
	reqs, err := h.allRequests(ctx, query)
	if err != nil {
		return apierr.HTTPError(err)
	}

	materials := make(map[int64]*client.Material)
	users := make(map[int64]*client.User)
	for _, r := range reqs {
		materials[r.MaterialID] = nil
		if r.UserID != nil {
			users[*r.UserID] = nil
		}
	}
	if err := h.lookup(ctx, materials, users); err != nil {
		return apierr.HTTPError(err)
	}

	items := make([]model.PeriodicalRequest, 0, len(reqs))
	for _, r := range reqs {
		m := materials[r.MaterialID]
		if m == nil || m.Kind != kindPeriodical {
			continue
		}
		it := model.PeriodicalRequest{
			ID:          r.ID,
			Status:      r.Status,
			RequestDate: model.Date{Time: r.RequestDate},
			UserID:      r.UserID,
			Name:        r.Name,
			Address:     r.Address,
			MaterialID:  r.MaterialID,
			Title:       m.Title,
			Notes:       r.Notes,
		}
		if r.UserID != nil {
			if u := users[*r.UserID]; u != nil {
				it.Name = u.Name
				if u.Address != "" {
					it.Address = u.Address
				}
			}
		}
		items = append(items, it)
	}
	return c.JSON(http.StatusOK, items)
}

const kindPeriodical = "periodical"

func (h *Handler) allRequests(ctx context.Context, query url.Values) ([]client.Request, error) {
	var reqs []client.Request
	for page := 1; ; page++ {
		p, err := h.requests.ListRequests(ctx, query, page)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, p.Data...)
		if page >= p.Pagination.Pages || len(p.Data) == 0 {
			return reqs, nil
		}
	}
}

type slot[T any] struct {
	id int64
	v  *T
}

// lookup fills both maps in place; ids that no longer resolve stay nil.
func (h *Handler) lookup(ctx context.Context, materials map[int64]*client.Material, users map[int64]*client.User) error {
	ms := make([]slot[client.Material], 0, len(materials))
	for id := range materials {
		ms = append(ms, slot[client.Material]{id: id})
	}
	us := make([]slot[client.User], 0, len(users))
	for id := range users {
		us = append(us, slot[client.User]{id: id})
	}

	gg, gctx := errgroup.WithContext(ctx)
	gg.SetLimit(fetchLimit)
	for i := range ms {
		s := &ms[i]
		gg.Go(func() error {
			m, err := h.catalog.GetMaterial(gctx, s.id)
			if err != nil {
				if errors.Is(err, apierr.ErrMaterialNotFound) {
					return nil
				}
				return err
			}
			s.v = &m
			return nil
		})
	}
	for i := range us {
		s := &us[i]
		gg.Go(func() error {
			u, err := h.identity.ResolveUser(gctx, s.id)
			if err != nil {
				if errors.Is(err, apierr.ErrUserNotFound) {
					h.log.Warn("requester is gone", zap.Int64("user_id", s.id))
					return nil
				}
				return err
			}
			s.v = &u
			return nil
		})
	}
	if err := gg.Wait(); err != nil {
		return err
	}
	for _, s := range ms {
		materials[s.id] = s.v
	}
	for _, s := range us {
		users[s.id] = s.v
	}
	return nil
}
