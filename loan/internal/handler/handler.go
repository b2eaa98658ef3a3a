package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/library-loans/loan/internal/model"
	"github.com/Astemirdum/library-loans/pkg/apierr"
	md "github.com/Astemirdum/library-loans/pkg/middleware"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"github.com/Astemirdum/library-loans/pkg/validate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Handler struct {
	loanSvc LoanService
	log     *zap.Logger
}

func New(loanSvc LoanService, log *zap.Logger) *Handler {
	return &Handler{
		loanSvc: loanSvc,
		log:     log,
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

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/loans", h.CreateLoan)
	// request approvals only; the gateway does not route here
	api.POST("/loans/adopt", h.AdoptLoan)
	api.GET("/loans/hold/:key", h.GetByHoldKey)
	api.GET("/loans", h.ListLoans)
	api.GET("/loans/active", h.ListActive)
	api.GET("/loans/overdue", h.ListOverdue)
	api.GET("/loans/summary", h.Summary)
	api.GET("/loans/user/:id", h.ListByUser)
	api.GET("/loans/material/:id", h.ListByMaterial)
	api.GET("/loans/:id", h.GetLoan)
	api.PUT("/loans/:id", h.UpdateLoan)
	api.POST("/loans/:id/return", h.ReturnLoan)
	api.DELETE("/loans/:id", h.DeleteLoan)

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

func queryID(c echo.Context, name string) (int64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierr.BadRequest(name + " is invalid")
	}
	return id, nil
}

func (h *Handler) CreateLoan(c echo.Context) error {
	var req model.CreateLoan
	if err := c.Bind(&req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	if err := c.Validate(req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	l, err := h.loanSvc.CreateLoan(c.Request().Context(), req)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *Handler) AdoptLoan(c echo.Context) error {
	var req model.AdoptLoan
	if err := c.Bind(&req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	if err := c.Validate(req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	l, err := h.loanSvc.AdoptLoan(c.Request().Context(), req)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *Handler) GetByHoldKey(c echo.Context) error {
	l, err := h.loanSvc.GetByHoldKey(c.Request().Context(), c.Param("key"))
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) GetLoan(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	l, err := h.loanSvc.GetLoan(c.Request().Context(), id)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) list(c echo.Context, f model.Filter) error {
	p, err := pagination.FromQuery(c)
	if err != nil {
		return apierr.BadRequest(err.Error())
	}
	page, err := h.loanSvc.ListLoans(c.Request().Context(), f, p)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *Handler) ListLoans(c echo.Context) error {
	var (
		f   model.Filter
		err error
	)
	f.Status = model.Status(c.QueryParam("status"))
	switch f.Status {
	case "", model.StatusActive, model.StatusReturned:
	default:
		return apierr.BadRequest("status is invalid")
	}
	if f.UserID, err = queryID(c, "userId"); err != nil {
		return err
	}
	if f.MaterialID, err = queryID(c, "materialId"); err != nil {
		return err
	}
	return h.list(c, f)
}

func (h *Handler) ListActive(c echo.Context) error {
	return h.list(c, model.Filter{Status: model.StatusActive})
}

func (h *Handler) ListByUser(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	return h.list(c, model.Filter{UserID: id})
}

func (h *Handler) ListByMaterial(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	return h.list(c, model.Filter{MaterialID: id})
}

func (h *Handler) ListOverdue(c echo.Context) error {
	p, err := pagination.FromQuery(c)
	if err != nil {
		return apierr.BadRequest(err.Error())
	}
	page, err := h.loanSvc.ListOverdue(c.Request().Context(), p)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// UpdateLoan only supports the transition to returned.
func (h *Handler) UpdateLoan(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req model.UpdateLoan
	if err := c.Bind(&req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	if err := c.Validate(req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	return h.returnLoan(c, id)
}

func (h *Handler) ReturnLoan(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	return h.returnLoan(c, id)
}

func (h *Handler) returnLoan(c echo.Context, id int64) error {
	l, err := h.loanSvc.ReturnLoan(c.Request().Context(), id)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) DeleteLoan(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.loanSvc.DeleteLoan(c.Request().Context(), id); err != nil {
		return apierr.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Summary(c echo.Context) error {
	items, err := h.loanSvc.Summary(c.Request().Context())
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, items)
}
