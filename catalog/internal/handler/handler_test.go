package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-catalog/catalog/internal/admin"
	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/Astemirdum/library-catalog/catalog/internal/handler"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"

	service_mocks "github.com/Astemirdum/library-catalog/catalog/internal/handler/mocks"
)

func ptr[T any](v T) *T { return &v }

type request struct {
	method      string
	target      string
	body        string
	contentType string
}

type response struct {
	expectedCode int
	expectedBody string
}

type mockBehavior func(svc *service_mocks.MockCatalogService, screens *service_mocks.MockAdminScreens)

type testCase struct {
	name         string
	mockBehavior mockBehavior
	request      request
	response     response
}

func run(t *testing.T, tests []testCase) {
	t.Helper()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockCatalogService(c)
			screens := service_mocks.NewMockAdminScreens(c)
			h := handler.New(svc, screens, zap.NewNop())
			e := h.NewRouter()

			r := httptest.NewRequest(tt.request.method, tt.request.target, strings.NewReader(tt.request.body))
			contentType := tt.request.contentType
			if contentType == "" {
				contentType = echo.MIMEApplicationJSON
			}
			r.Header.Set(echo.HeaderContentType, contentType)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc, screens)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_GetBook(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(svc *service_mocks.MockCatalogService, _ *service_mocks.MockAdminScreens) {
				svc.EXPECT().GetBook(gomock.Any(), 1).Return(model.Book{
					ID:       1,
					Title:    "Dune",
					Summary:  "Spice and sand.",
					ISBN:     "9780441172719",
					AuthorID: ptr(2),
					GenreIDs: []int{3},
				}, nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/books/1"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":1,"title":"Dune","summary":"Spice and sand.","isbn":"9780441172719","authorId":2,"languageId":null,"genreIds":[3],"url":"/catalog/book/1"}`,
			},
		},
		{
			name: "err. not found",
			mockBehavior: func(svc *service_mocks.MockCatalogService, _ *service_mocks.MockAdminScreens) {
				svc.EXPECT().GetBook(gomock.Any(), 7).Return(model.Book{}, errs.ErrNotFound)
			},
			request: request{method: http.MethodGet, target: "/api/v1/books/7"},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name:         "err. bad id",
			mockBehavior: func(*service_mocks.MockCatalogService, *service_mocks.MockAdminScreens) {},
			request:      request{method: http.MethodGet, target: "/api/v1/books/dune"},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"id is invalid"}`,
			},
		},
		{
			name: "err. internal",
			mockBehavior: func(svc *service_mocks.MockCatalogService, _ *service_mocks.MockAdminScreens) {
				svc.EXPECT().GetBook(gomock.Any(), 1).Return(model.Book{}, errors.New("db internal"))
			},
			request: request{method: http.MethodGet, target: "/api/v1/books/1"},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	})
}

func TestHandler_CreateBookInstance(t *testing.T) {
	t.Parallel()
	id := uuid.MustParse("f7cdc58f-2caf-4b15-9727-f89dcc629b27")
	run(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(svc *service_mocks.MockCatalogService, _ *service_mocks.MockAdminScreens) {
				created := model.BookInstance{
					ID:      id,
					BookID:  ptr(1),
					Imprint: "Chilton, 1965",
					DueBack: ptr(model.NewDate(2024, 5, 1)),
					Status:  model.StatusOnLoan,
				}
				svc.EXPECT().CreateBookInstance(gomock.Any(), model.BookInstance{
					BookID:  ptr(1),
					Imprint: "Chilton, 1965",
					DueBack: ptr(model.NewDate(2024, 5, 1)),
					Status:  model.StatusOnLoan,
				}).Return(created, nil)
				svc.EXPECT().IsOverdue(created).Return(true)
			},
			request: request{
				method: http.MethodPost,
				target: "/api/v1/bookinstances",
				body:   `{"bookId":1,"imprint":"Chilton, 1965","dueBack":"2024-05-01","status":"o"}`,
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","bookId":1,"imprint":"Chilton, 1965","dueBack":"2024-05-01","status":"o","borrower":null,"isOverdue":true}`,
			},
		},
		{
			name: "err. validation",
			mockBehavior: func(svc *service_mocks.MockCatalogService, _ *service_mocks.MockAdminScreens) {
				svc.EXPECT().CreateBookInstance(gomock.Any(), model.BookInstance{BookID: ptr(1)}).
					Return(model.BookInstance{}, errs.NewValidationError("imprint", "this field is required"))
			},
			request: request{method: http.MethodPost, target: "/api/v1/bookinstances", body: `{"bookId":1}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"validation failed","errors":{"imprint":"this field is required"}}`,
			},
		},
		{
			name:         "err. malformed date",
			mockBehavior: func(*service_mocks.MockCatalogService, *service_mocks.MockAdminScreens) {},
			request:      request{method: http.MethodPost, target: "/api/v1/bookinstances", body: `{"dueBack":"soon"}`},
			response:     response{expectedCode: http.StatusBadRequest},
		},
	})
}

func TestHandler_ListBookInstances(t *testing.T) {
	t.Parallel()
	id := uuid.MustParse("83575e12-7ce0-48ee-9931-51919ff3c9ee")
	inst := model.BookInstance{ID: id, Imprint: "Ace", Status: model.StatusOnLoan, Borrower: ptr("paul"),
		DueBack: ptr(model.NewDate(2024, 4, 1))}
	run(t, []testCase{
		{
			name: "overdue on loan",
			mockBehavior: func(svc *service_mocks.MockCatalogService, _ *service_mocks.MockAdminScreens) {
				svc.EXPECT().
					ListOverdueInstances(gomock.Any(), model.InstanceFilter{Status: ptr(model.StatusOnLoan)}).
					Return(model.List[model.BookInstance]{
						Paging: model.Paging{TotalElements: 1},
						Items:  []model.BookInstance{inst},
					}, nil)
				svc.EXPECT().IsOverdue(inst).Return(true)
			},
			request: request{method: http.MethodGet, target: "/api/v1/bookinstances?overdue=true&status=on-loan"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":0,"pageSize":0,"totalElements":1,"items":[{"id":"83575e12-7ce0-48ee-9931-51919ff3c9ee","bookId":null,"imprint":"Ace","dueBack":"2024-04-01","status":"o","borrower":"paul","isOverdue":true}]}`,
			},
		},
		{
			name: "filters",
			mockBehavior: func(svc *service_mocks.MockCatalogService, _ *service_mocks.MockAdminScreens) {
				svc.EXPECT().
					ListBookInstances(gomock.Any(), model.InstanceFilter{
						IDs:        []uuid.UUID{id},
						BookID:     ptr(3),
						DueFrom:    ptr(model.NewDate(2024, 1, 1)),
						DueTo:      ptr(model.NewDate(2024, 2, 1)),
						HasDueBack: ptr(true),
						Page:       model.Page{Page: 2, Size: 5},
					}).
					Return(model.List[model.BookInstance]{Paging: model.Paging{Page: 2, PageSize: 5}}, nil)
			},
			request: request{
				method: http.MethodGet,
				target: "/api/v1/bookinstances?ids=" + id.String() + "&book_id=3&due_from=2024-01-01&due_to=2024-02-01&has_due_back=true&page=2&size=5",
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":2,"pageSize":5,"totalElements":0,"items":[]}`,
			},
		},
		{
			name:         "err. bad due_from",
			mockBehavior: func(*service_mocks.MockCatalogService, *service_mocks.MockAdminScreens) {},
			request:      request{method: http.MethodGet, target: "/api/v1/bookinstances?due_from=yesterday"},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"due_from is invalid"}`,
			},
		},
	})
}

func TestHandler_ListGenres(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(svc *service_mocks.MockCatalogService, _ *service_mocks.MockAdminScreens) {
				svc.EXPECT().ListGenres(gomock.Any(), model.NameFilter{IDs: []int{1, 2, 3}, Name: "fic"}).
					Return(model.List[model.Genre]{
						Paging: model.Paging{TotalElements: 1},
						Items:  []model.Genre{{ID: 2, Name: "Science Fiction"}},
					}, nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/genres?ids=1,2&ids=3&name=fic"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":0,"pageSize":0,"totalElements":1,"items":[{"id":2,"name":"Science Fiction"}]}`,
			},
		},
		{
			name:         "err. bad size",
			mockBehavior: func(*service_mocks.MockCatalogService, *service_mocks.MockAdminScreens) {},
			request:      request{method: http.MethodGet, target: "/api/v1/genres?size=ten"},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"size is invalid"}`,
			},
		},
		{
			name:         "err. size over the limit",
			mockBehavior: func(*service_mocks.MockCatalogService, *service_mocks.MockAdminScreens) {},
			request:      request{method: http.MethodGet, target: "/api/v1/genres?page=1&size=1001"},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"size is invalid"}`,
			},
		},
		{
			name:         "err. page offset overflows",
			mockBehavior: func(*service_mocks.MockCatalogService, *service_mocks.MockAdminScreens) {},
			request:      request{method: http.MethodGet, target: "/api/v1/genres?page=4611686018427387904&size=4"},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"page is invalid"}`,
			},
		},
		{
			name: "ok. largest page",
			mockBehavior: func(svc *service_mocks.MockCatalogService, _ *service_mocks.MockAdminScreens) {
				svc.EXPECT().ListGenres(gomock.Any(), model.NameFilter{Page: model.Page{Page: 2, Size: 1000}}).
					Return(model.List[model.Genre]{Paging: model.Paging{Page: 2, PageSize: 1000}, Items: []model.Genre{}}, nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/genres?page=2&size=1000"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":2,"pageSize":1000,"totalElements":0,"items":[]}`,
			},
		},
	})
}

func TestHandler_DeleteAuthor(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(svc *service_mocks.MockCatalogService, _ *service_mocks.MockAdminScreens) {
				svc.EXPECT().DeleteAuthor(gomock.Any(), 4).Return(nil)
			},
			request:  request{method: http.MethodDelete, target: "/api/v1/authors/4"},
			response: response{expectedCode: http.StatusNoContent},
		},
	})
}

func TestHandler_Admin(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name: "index",
			mockBehavior: func(_ *service_mocks.MockCatalogService, screens *service_mocks.MockAdminScreens) {
				screens.EXPECT().Index().Return(admin.IndexScreen{Entities: []admin.EntityLink{{
					Entity:            admin.EntityGenre,
					VerboseName:       "genre",
					VerboseNamePlural: "genres",
					URL:               "/admin/genre/",
					AddURL:            "/admin/genre/add",
				}}})
			},
			request: request{method: http.MethodGet, target: "/admin/"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"entities":[{"entity":"genre","verboseName":"genre","verboseNamePlural":"genres","url":"/admin/genre/","addUrl":"/admin/genre/add"}]}`,
			},
		},
		{
			name: "list with filters",
			mockBehavior: func(_ *service_mocks.MockCatalogService, screens *service_mocks.MockAdminScreens) {
				screens.EXPECT().List(gomock.Any(), admin.EntityBookInstance, admin.ListParams{
					Filters: map[string]string{"status": "o"},
					Search:  "paul",
					Page:    model.Page{Page: 2, Size: 10},
				}).Return(admin.ListScreen{}, nil)
			},
			request:  request{method: http.MethodGet, target: "/admin/bookinstance/?status=o&q=paul&page=2&size=10"},
			response: response{expectedCode: http.StatusOK},
		},
		{
			name: "err. unknown entity",
			mockBehavior: func(_ *service_mocks.MockCatalogService, screens *service_mocks.MockAdminScreens) {
				screens.EXPECT().List(gomock.Any(), admin.Entity("publisher"), gomock.Any()).
					Return(admin.ListScreen{}, errs.ErrUnknownEntity)
			},
			request: request{method: http.MethodGet, target: "/admin/publisher/"},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"unknown entity"}`,
			},
		},
		{
			name: "add form",
			mockBehavior: func(_ *service_mocks.MockCatalogService, screens *service_mocks.MockAdminScreens) {
				screens.EXPECT().Form(gomock.Any(), admin.EntityAuthor, "").Return(admin.FormScreen{}, nil)
			},
			request:  request{method: http.MethodGet, target: "/admin/author/add"},
			response: response{expectedCode: http.StatusOK},
		},
		{
			name: "save rejected",
			mockBehavior: func(_ *service_mocks.MockCatalogService, screens *service_mocks.MockAdminScreens) {
				fields := map[string]string{"title": "this field is required"}
				screens.EXPECT().
					Save(gomock.Any(), admin.EntityBook, "1", url.Values{"title": {""}, "bookinstance-TOTAL_FORMS": {"0"}}).
					Return(admin.FormScreen{
						EntityLink: admin.EntityLink{Entity: admin.EntityBook},
						Errors:     fields,
					}, &errs.ValidationError{Fields: fields})
			},
			request: request{
				method:      http.MethodPost,
				target:      "/admin/book/1",
				body:        "title=&bookinstance-TOTAL_FORMS=0",
				contentType: echo.MIMEApplicationForm,
			},
			response: response{expectedCode: http.StatusBadRequest},
		},
		{
			name: "add",
			mockBehavior: func(_ *service_mocks.MockCatalogService, screens *service_mocks.MockAdminScreens) {
				screens.EXPECT().
					Save(gomock.Any(), admin.EntityGenre, "", url.Values{"name": {"Poetry"}}).
					Return(admin.FormScreen{ID: "5"}, nil)
			},
			request: request{
				method:      http.MethodPost,
				target:      "/admin/genre/add",
				body:        "name=Poetry",
				contentType: echo.MIMEApplicationForm,
			},
			response: response{expectedCode: http.StatusCreated},
		},
		{
			name: "delete",
			mockBehavior: func(_ *service_mocks.MockCatalogService, screens *service_mocks.MockAdminScreens) {
				screens.EXPECT().Delete(gomock.Any(), admin.EntityGenre, "5").Return(nil)
			},
			request:  request{method: http.MethodPost, target: "/admin/genre/5/delete"},
			response: response{expectedCode: http.StatusNoContent},
		},
	})
}
