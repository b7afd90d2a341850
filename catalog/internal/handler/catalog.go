package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-catalog/catalog/internal/model"
)

type AuthorResponse struct {
	model.Author
	URL string `json:"url"`
}

type BookResponse struct {
	model.Book
	URL string `json:"url"`
}

type BookInstanceResponse struct {
	model.BookInstance
	IsOverdue bool `json:"isOverdue"`
}

func (h *Handler) instanceResponse(inst model.BookInstance) BookInstanceResponse {
	return BookInstanceResponse{BookInstance: inst, IsOverdue: h.catalogSvc.IsOverdue(inst)}
}

// ListGenres godoc
// @Summary list genres
// @Tags genres
// @Produce json
// @Param ids query string false "comma separated ids"
// @Param name query string false "name substring"
// @Param page query int false "page"
// @Param size query int false "page size"
// @Success 200 {object} model.List[model.Genre]
// @Router /api/v1/genres [get]
func (h *Handler) ListGenres(c echo.Context) error {
	filter, err := nameFilter(c)
	if err != nil {
		return err
	}
	list, err := h.catalogSvc.ListGenres(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// CreateGenre godoc
// @Summary create a genre
// @Tags genres
// @Accept json
// @Produce json
// @Param genre body model.Genre true "genre"
// @Success 201 {object} model.Genre
// @Failure 400 {object} errs.ValidationErrorResponse
// @Router /api/v1/genres [post]
func (h *Handler) CreateGenre(c echo.Context) error {
	var req model.Genre
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	genre, err := h.catalogSvc.CreateGenre(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, genre)
}

// GetGenre godoc
// @Summary get a genre
// @Tags genres
// @Produce json
// @Param id path int true "genre id"
// @Success 200 {object} model.Genre
// @Failure 404 {object} echo.HTTPError
// @Router /api/v1/genres/{id} [get]
func (h *Handler) GetGenre(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	genre, err := h.catalogSvc.GetGenre(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, genre)
}

func (h *Handler) UpdateGenre(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req model.Genre
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.ID = id
	genre, err := h.catalogSvc.UpdateGenre(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, genre)
}

func (h *Handler) DeleteGenre(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalogSvc.DeleteGenre(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListLanguages godoc
// @Summary list languages
// @Tags languages
// @Produce json
// @Param ids query string false "comma separated ids"
// @Param name query string false "name substring"
// @Param page query int false "page"
// @Param size query int false "page size"
// @Success 200 {object} model.List[model.Language]
// @Router /api/v1/languages [get]
func (h *Handler) ListLanguages(c echo.Context) error {
	filter, err := nameFilter(c)
	if err != nil {
		return err
	}
	list, err := h.catalogSvc.ListLanguages(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateLanguage(c echo.Context) error {
	var req model.Language
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	lang, err := h.catalogSvc.CreateLanguage(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, lang)
}

func (h *Handler) GetLanguage(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	lang, err := h.catalogSvc.GetLanguage(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, lang)
}

func (h *Handler) UpdateLanguage(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req model.Language
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.ID = id
	lang, err := h.catalogSvc.UpdateLanguage(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, lang)
}

// DeleteLanguage clears the language of every book that used it.
func (h *Handler) DeleteLanguage(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalogSvc.DeleteLanguage(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAuthors godoc
// @Summary list authors
// @Tags authors
// @Produce json
// @Param ids query string false "comma separated ids"
// @Param name query string false "first or last name substring"
// @Param page query int false "page"
// @Param size query int false "page size"
// @Success 200 {object} model.List[model.Author]
// @Router /api/v1/authors [get]
func (h *Handler) ListAuthors(c echo.Context) error {
	filter, err := nameFilter(c)
	if err != nil {
		return err
	}
	list, err := h.catalogSvc.ListAuthors(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateAuthor(c echo.Context) error {
	var req model.Author
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	author, err := h.catalogSvc.CreateAuthor(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, AuthorResponse{Author: author, URL: author.URL()})
}

// GetAuthor godoc
// @Summary get an author
// @Tags authors
// @Produce json
// @Param id path int true "author id"
// @Success 200 {object} AuthorResponse
// @Failure 404 {object} echo.HTTPError
// @Router /api/v1/authors/{id} [get]
func (h *Handler) GetAuthor(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	author, err := h.catalogSvc.GetAuthor(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, AuthorResponse{Author: author, URL: author.URL()})
}

func (h *Handler) UpdateAuthor(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req model.Author
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.ID = id
	author, err := h.catalogSvc.UpdateAuthor(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, AuthorResponse{Author: author, URL: author.URL()})
}

func (h *Handler) DeleteAuthor(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalogSvc.DeleteAuthor(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListBooks godoc
// @Summary list books
// @Tags books
// @Produce json
// @Param ids query string false "comma separated ids"
// @Param author_id query int false "author id"
// @Param language_id query int false "language id"
// @Param genre_id query int false "genre id"
// @Param title query string false "title substring"
// @Param page query int false "page"
// @Param size query int false "page size"
// @Success 200 {object} model.List[model.Book]
// @Router /api/v1/books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	var (
		filter = model.BookFilter{Title: c.QueryParam("title")}
		err    error
	)
	if filter.IDs, err = intsQuery(c, "ids"); err != nil {
		return err
	}
	if filter.AuthorID, err = intQuery(c, "author_id"); err != nil {
		return err
	}
	if filter.LanguageID, err = intQuery(c, "language_id"); err != nil {
		return err
	}
	if filter.GenreID, err = intQuery(c, "genre_id"); err != nil {
		return err
	}
	if filter.Page, err = pageQuery(c); err != nil {
		return err
	}
	list, err := h.catalogSvc.ListBooks(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// CreateBook godoc
// @Summary create a book
// @Tags books
// @Accept json
// @Produce json
// @Param book body model.Book true "book"
// @Success 201 {object} BookResponse
// @Failure 400 {object} errs.ValidationErrorResponse
// @Router /api/v1/books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var req model.Book
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.catalogSvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, BookResponse{Book: book, URL: book.URL()})
}

func (h *Handler) GetBook(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	book, err := h.catalogSvc.GetBook(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, BookResponse{Book: book, URL: book.URL()})
}

func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req model.Book
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.ID = id
	book, err := h.catalogSvc.UpdateBook(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, BookResponse{Book: book, URL: book.URL()})
}

func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalogSvc.DeleteBook(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListBookInstances godoc
// @Summary list book instances
// @Tags bookinstances
// @Produce json
// @Param ids query string false "comma separated ids"
// @Param book_id query int false "book id"
// @Param status query string false "m, o, a, r or a status label"
// @Param borrower query string false "borrower username"
// @Param due_from query string false "due back on or after (YYYY-MM-DD)"
// @Param due_to query string false "due back before (YYYY-MM-DD)"
// @Param has_due_back query bool false "due date set"
// @Param overdue query bool false "only overdue copies"
// @Param page query int false "page"
// @Param size query int false "page size"
// @Success 200 {object} model.List[BookInstanceResponse]
// @Router /api/v1/bookinstances [get]
func (h *Handler) ListBookInstances(c echo.Context) error {
	var (
		filter model.InstanceFilter
		err    error
	)
	for _, raw := range listQuery(c, "ids") {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "ids is invalid")
		}
		filter.IDs = append(filter.IDs, id)
	}
	if filter.BookID, err = intQuery(c, "book_id"); err != nil {
		return err
	}
	if s := c.QueryParam("status"); s != "" {
		st, err := model.ParseStatus(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filter.Status = &st
	}
	if b := c.QueryParam("borrower"); b != "" {
		filter.Borrower = &b
	}
	if filter.DueFrom, err = dateQuery(c, "due_from"); err != nil {
		return err
	}
	if filter.DueTo, err = dateQuery(c, "due_to"); err != nil {
		return err
	}
	if filter.HasDueBack, err = boolQuery(c, "has_due_back"); err != nil {
		return err
	}
	overdue, err := boolQuery(c, "overdue")
	if err != nil {
		return err
	}
	if filter.Page, err = pageQuery(c); err != nil {
		return err
	}

	ctx := c.Request().Context()
	var list model.List[model.BookInstance]
	if overdue != nil && *overdue {
		list, err = h.catalogSvc.ListOverdueInstances(ctx, filter)
	} else {
		list, err = h.catalogSvc.ListBookInstances(ctx, filter)
	}
	if err != nil {
		return h.fail(c, err)
	}
	resp := model.List[BookInstanceResponse]{
		Paging: list.Paging,
		Items:  make([]BookInstanceResponse, 0, len(list.Items)),
	}
	for _, inst := range list.Items {
		resp.Items = append(resp.Items, h.instanceResponse(inst))
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateBookInstance godoc
// @Summary create a book instance
// @Description the id is generated unless supplied; status defaults to maintenance
// @Tags bookinstances
// @Accept json
// @Produce json
// @Param instance body model.BookInstance true "book instance"
// @Success 201 {object} BookInstanceResponse
// @Failure 400 {object} errs.ValidationErrorResponse
// @Router /api/v1/bookinstances [post]
func (h *Handler) CreateBookInstance(c echo.Context) error {
	var req model.BookInstance
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	inst, err := h.catalogSvc.CreateBookInstance(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, h.instanceResponse(inst))
}

func (h *Handler) GetBookInstance(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	inst, err := h.catalogSvc.GetBookInstance(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, h.instanceResponse(inst))
}

func (h *Handler) UpdateBookInstance(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req model.BookInstance
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.ID = id
	inst, err := h.catalogSvc.UpdateBookInstance(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, h.instanceResponse(inst))
}

func (h *Handler) DeleteBookInstance(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalogSvc.DeleteBookInstance(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
