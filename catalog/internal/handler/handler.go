package handler

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	md "github.com/Astemirdum/library-catalog/pkg/middleware"
	"github.com/Astemirdum/library-catalog/pkg/validate"
	_ "github.com/Astemirdum/library-catalog/swagger"
)

type Handler struct {
	catalogSvc CatalogService
	screens    AdminScreens
	log        *zap.Logger
}

func New(catalogSvc CatalogService, screens AdminScreens, log *zap.Logger) *Handler {
	return &Handler{
		catalogSvc: catalogSvc,
		screens:    screens,
		log:        log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS  = 10
		apiRPS   = 100
		adminRPS = 50
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Validator = validate.NewCustomValidator()

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.GET("/genres", h.ListGenres)
	api.POST("/genres", h.CreateGenre)
	api.GET("/genres/:id", h.GetGenre)
	api.PUT("/genres/:id", h.UpdateGenre)
	api.DELETE("/genres/:id", h.DeleteGenre)

	api.GET("/languages", h.ListLanguages)
	api.POST("/languages", h.CreateLanguage)
	api.GET("/languages/:id", h.GetLanguage)
	api.PUT("/languages/:id", h.UpdateLanguage)
	api.DELETE("/languages/:id", h.DeleteLanguage)

	api.GET("/authors", h.ListAuthors)
	api.POST("/authors", h.CreateAuthor)
	api.GET("/authors/:id", h.GetAuthor)
	api.PUT("/authors/:id", h.UpdateAuthor)
	api.DELETE("/authors/:id", h.DeleteAuthor)

	api.GET("/books", h.ListBooks)
	api.POST("/books", h.CreateBook)
	api.GET("/books/:id", h.GetBook)
	api.PUT("/books/:id", h.UpdateBook)
	api.DELETE("/books/:id", h.DeleteBook)

	api.GET("/bookinstances", h.ListBookInstances)
	api.POST("/bookinstances", h.CreateBookInstance)
	api.GET("/bookinstances/:id", h.GetBookInstance)
	api.PUT("/bookinstances/:id", h.UpdateBookInstance)
	api.DELETE("/bookinstances/:id", h.DeleteBookInstance)

	adm := e.Group("/admin",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(adminRPS),
	)
	adm.GET("/", h.AdminIndex)
	adm.GET("/:entity/", h.AdminList)
	adm.GET("/:entity/add", h.AdminAddForm)
	adm.POST("/:entity/add", h.AdminAdd)
	adm.GET("/:entity/:id", h.AdminForm)
	adm.POST("/:entity/:id", h.AdminSave)
	adm.POST("/:entity/:id/delete", h.AdminDelete)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// fail maps service errors onto HTTP responses.
func (h *Handler) fail(c echo.Context, err error) error {
	if vErr, ok := errs.AsValidation(err); ok {
		return c.JSON(http.StatusBadRequest, errs.ValidationErrorResponse{
			Message: "validation failed",
			Errors:  vErr.Fields,
		})
	}
	if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrUnknownEntity) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	h.log.Error("request failed", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func intParam(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s is invalid", name))
	}
	return id, nil
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s is invalid", name))
	}
	return id, nil
}

func pageQuery(c echo.Context) (model.Page, error) {
	var (
		p   model.Page
		err error
	)
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if p.Page, err = strconv.Atoi(pageParam); err != nil || p.Page < 0 {
			return p, echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if p.Size, err = strconv.Atoi(sizeParam); err != nil || p.Size < 0 || p.Size > model.MaxPageSize {
			return p, echo.NewHTTPError(http.StatusBadRequest, "size is invalid")
		}
	}
	if p.Size > 0 && p.Page > math.MaxInt/p.Size {
		return p, echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
	}
	return p, nil
}

// listQuery accepts both repeated and comma separated values.
func listQuery(c echo.Context, name string) []string {
	var out []string
	for _, v := range c.QueryParams()[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func intsQuery(c echo.Context, name string) ([]int, error) {
	var ids []int
	for _, v := range listQuery(c, name) {
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s is invalid", name))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func intQuery(c echo.Context, name string) (*int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(v)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s is invalid", name))
	}
	return &id, nil
}

func dateQuery(c echo.Context, name string) (*model.Date, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	d, err := model.ParseDate(v)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s is invalid", name))
	}
	return &d, nil
}

func boolQuery(c echo.Context, name string) (*bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s is invalid", name))
	}
	return &b, nil
}

func nameFilter(c echo.Context) (model.NameFilter, error) {
	ids, err := intsQuery(c, "ids")
	if err != nil {
		return model.NameFilter{}, err
	}
	page, err := pageQuery(c)
	if err != nil {
		return model.NameFilter{}, err
	}
	return model.NameFilter{IDs: ids, Name: c.QueryParam("name"), Page: page}, nil
}
