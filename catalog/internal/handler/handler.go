package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Astemirdum/library-loans/catalog/internal/model"
	"github.com/Astemirdum/library-loans/pkg/apierr"
	md "github.com/Astemirdum/library-loans/pkg/middleware"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"github.com/Astemirdum/library-loans/pkg/validate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Handler struct {
	catalogSvc CatalogService
	log        *zap.Logger
}

func New(catalogSvc CatalogService, log *zap.Logger) *Handler {
	return &Handler{
		catalogSvc: catalogSvc,
		log:        log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 200
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/materials", h.CreateMaterial)
	api.GET("/materials", h.ListMaterials)
	api.GET("/materials/sorted", h.ListSorted)
	api.GET("/materials/stats", h.Stats)
	api.GET("/materials/available", h.AvailableByType)
	api.GET("/materials/kind/:kind", h.ListByKind)
	api.GET("/materials/:id", h.GetMaterial)
	api.PUT("/materials/:id", h.UpdateMaterial)
	api.PATCH("/materials/:id", h.UpdateMaterial)
	api.DELETE("/materials/:id", h.DeleteMaterial)
	api.POST("/materials/:id/copies", h.AdjustCopies)
	api.POST("/materials/:id/holds/adopt", h.AdoptHold)
	api.POST("/materials/:id/holds/release", h.ReleaseHold)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierr.BadRequest("id is invalid")
	}
	return id, nil
}

func (h *Handler) CreateMaterial(c echo.Context) error {
	var req model.CreateMaterial
	if err := c.Bind(&req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	if err := c.Validate(req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	m, err := h.catalogSvc.CreateMaterial(c.Request().Context(), req)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetMaterial(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	m, err := h.catalogSvc.GetMaterial(c.Request().Context(), id)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) list(c echo.Context, f model.Filter) error {
	p, err := pagination.FromQuery(c)
	if err != nil {
		return apierr.BadRequest(err.Error())
	}
	page, err := h.catalogSvc.ListMaterials(c.Request().Context(), f, p)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *Handler) ListMaterials(c echo.Context) error {
	f := model.Filter{
		Title:   c.QueryParam("title"),
		Author:  c.QueryParam("author"),
		Kind:    model.Kind(c.QueryParam("type")),
		Subtype: c.QueryParam("subtype"),
		Status:  model.Status(c.QueryParam("status")),
	}
	switch f.Status {
	case "", model.StatusAvailable, model.StatusExhausted:
	default:
		return apierr.BadRequest("status is invalid")
	}
	return h.list(c, f)
}

func (h *Handler) ListSorted(c echo.Context) error {
	return h.list(c, model.Filter{Sorted: true})
}

func (h *Handler) ListByKind(c echo.Context) error {
	return h.list(c, model.Filter{Kind: model.Kind(c.Param("kind"))})
}

func (h *Handler) UpdateMaterial(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req model.UpdateMaterial
	if err := c.Bind(&req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	if err := c.Validate(req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	m, err := h.catalogSvc.UpdateMaterial(c.Request().Context(), id, req)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMaterial(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.catalogSvc.DeleteMaterial(c.Request().Context(), id); err != nil {
		return apierr.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AdjustCopies(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req model.AdjustCopies
	if err := c.Bind(&req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	if err := c.Validate(req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	adj, err := h.catalogSvc.AdjustCopies(c.Request().Context(), id, req)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, adj)
}

func (h *Handler) AdoptHold(c echo.Context) error {
	return h.hold(c, h.catalogSvc.AdoptHold)
}

func (h *Handler) ReleaseHold(c echo.Context) error {
	return h.hold(c, h.catalogSvc.ReleaseHold)
}

func (h *Handler) hold(c echo.Context, fn func(ctx context.Context, id int64, ref model.HoldRef) (model.Adjustment, error)) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var ref model.HoldRef
	if err := c.Bind(&ref); err != nil {
		return apierr.BadRequest(err.Error())
	}
	if err := c.Validate(ref); err != nil {
		return apierr.BadRequest(err.Error())
	}
	adj, err := fn(c.Request().Context(), id, ref)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, adj)
}

func (h *Handler) AvailableByType(c echo.Context) error {
	items, err := h.catalogSvc.AvailableByType(c.Request().Context())
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Stats(c echo.Context) error {
	items, err := h.catalogSvc.Stats(c.Request().Context())
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, items)
}
