package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/library-loans/identity/internal/model"
	"github.com/Astemirdum/library-loans/pkg/apierr"
	md "github.com/Astemirdum/library-loans/pkg/middleware"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"github.com/Astemirdum/library-loans/pkg/validate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Handler struct {
	identitySvc IdentityService
	log         *zap.Logger
}

func New(identitySvc IdentityService, log *zap.Logger) *Handler {
	return &Handler{
		identitySvc: identitySvc,
		log:         log,
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

	api.POST("/users", h.CreateUser)
	api.GET("/users", h.ListUsers)
	api.GET("/users/document/:doc", h.GetUserByDocument)
	api.GET("/users/:id", h.GetUser)
	api.PUT("/users/:id", h.UpdateUser)
	api.DELETE("/users/:id", h.DeleteUser)

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

func (h *Handler) CreateUser(c echo.Context) error {
	var req model.CreateUser
	if err := c.Bind(&req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	if err := c.Validate(req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	u, err := h.identitySvc.CreateUser(c.Request().Context(), req)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) GetUser(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	u, err := h.identitySvc.GetUser(c.Request().Context(), id)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) GetUserByDocument(c echo.Context) error {
	return h.byDocument(c, c.Param("doc"))
}

func (h *Handler) byDocument(c echo.Context, doc string) error {
	u, err := h.identitySvc.GetUserByDocument(c.Request().Context(), doc)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, u)
}

// ListUsers answers ?document= with the single matching user, otherwise a page of users.
func (h *Handler) ListUsers(c echo.Context) error {
	if doc := c.QueryParam("document"); doc != "" {
		return h.byDocument(c, doc)
	}
	p, err := pagination.FromQuery(c)
	if err != nil {
		return apierr.BadRequest(err.Error())
	}
	page, err := h.identitySvc.ListUsers(c.Request().Context(), p)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req model.UpdateUser
	if err := c.Bind(&req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	if err := c.Validate(req); err != nil {
		return apierr.BadRequest(err.Error())
	}
	u, err := h.identitySvc.UpdateUser(c.Request().Context(), id, req)
	if err != nil {
		return apierr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.identitySvc.DeleteUser(c.Request().Context(), id); err != nil {
		return apierr.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
