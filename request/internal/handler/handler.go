package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/library-loans/pkg/apierr"
	md "github.com/Astemirdum/library-loans/pkg/middleware"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"github.com/Astemirdum/library-loans/pkg/validate"
	"github.com/Astemirdum/library-loans/request/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Handler struct {
	requestSvc RequestService
	log        *zap.Logger
}

func New(requestSvc RequestService, log *zap.Logger) *Handler {
	return &Handler{
		requestSvc: requestSvc,
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

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/requests", h.CreateRequest)
	api.GET("/requests", h.ListRequests)
	api.GET("/requests/stats", h.Stats)
	api.GET("/requests/document/:doc", h.ListByDocument)
	api.GET("/requests/:id", h.GetRequest)
	api.PUT("/requests/:id", h.UpdateRequest)
	api.POST("/requests/:id/approve", h.ApproveRequest)
	api.POST("/requests/:id/reject", h.RejectRequest)
	api.DELETE("/requests/:id", h.DeleteRequest)

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

func (h *Handler) CreateRequest(c echo.Context) error {
	var req model.CreateRequest
	if err := c.Bind(&req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	if err := c.Validate(req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	r, err := h.requestSvc.CreateRequest(c.Request().Context(), req)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) GetRequest(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	r, err := h.requestSvc.GetRequest(c.Request().Context(), id)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) list(c echo.Context, f model.Filter) error {
	p, err := pagination.FromQuery(c)
	if err != nil {
		return apierr.BadRequest(err.Error())
	}
	page, err := h.requestSvc.ListRequests(c.Request().Context(), f, p)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *Handler) ListRequests(c echo.Context) error {
	f := model.Filter{Status: model.Status(c.QueryParam("status"))}
	switch f.Status {
	case "", model.StatusPending, model.StatusApproved, model.StatusRejected:
	default:
		return apierr.BadRequest("status is invalid")
	}
	var err error
	if f.UserID, err = queryID(c, "userId"); err != nil {
		return err
	}
	if f.MaterialID, err = queryID(c, "materialId"); err != nil {
		return err
	}
	return h.list(c, f)
}

func (h *Handler) ListByDocument(c echo.Context) error {
	return h.list(c, model.Filter{IdentityDocument: c.Param("doc")})
}

func (h *Handler) UpdateRequest(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req model.UpdateRequest
	if err := c.Bind(&req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	if err := c.Validate(req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	r, err := h.requestSvc.UpdateRequest(c.Request().Context(), id, req)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ApproveRequest(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	r, err := h.requestSvc.ApproveRequest(c.Request().Context(), id)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, r)
}

type rejectBody struct {
	Notes *string `json:"notes" validate:"omitempty,max=1000"`
}

func (h *Handler) RejectRequest(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var body rejectBody
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&body); err != nil {
			return apierr.BadRequest(err.Error())
		}
		if err := c.Validate(body); err != nil {
			return apierr.BadRequest(err.Error())
		}
	}
	r, err := h.requestSvc.RejectRequest(c.Request().Context(), id, body.Notes)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteRequest(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.requestSvc.DeleteRequest(c.Request().Context(), id); err != nil {
		return apierr.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Stats(c echo.Context) error {
	st, err := h.requestSvc.Stats(c.Request().Context())
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, st)
}
