package handler

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/Astemirdum/library-catalog/catalog/internal/admin"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/catalog/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type CatalogService interface {
	IsOverdue(inst model.BookInstance) bool

	CreateGenre(ctx context.Context, genre model.Genre) (model.Genre, error)
	GetGenre(ctx context.Context, id int) (model.Genre, error)
	ListGenres(ctx context.Context, filter model.NameFilter) (model.List[model.Genre], error)
	UpdateGenre(ctx context.Context, genre model.Genre) (model.Genre, error)
	DeleteGenre(ctx context.Context, id int) error

	CreateLanguage(ctx context.Context, language model.Language) (model.Language, error)
	GetLanguage(ctx context.Context, id int) (model.Language, error)
	ListLanguages(ctx context.Context, filter model.NameFilter) (model.List[model.Language], error)
	UpdateLanguage(ctx context.Context, language model.Language) (model.Language, error)
	DeleteLanguage(ctx context.Context, id int) error

	CreateAuthor(ctx context.Context, author model.Author) (model.Author, error)
	GetAuthor(ctx context.Context, id int) (model.Author, error)
	ListAuthors(ctx context.Context, filter model.NameFilter) (model.List[model.Author], error)
	UpdateAuthor(ctx context.Context, author model.Author) (model.Author, error)
	DeleteAuthor(ctx context.Context, id int) error

	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter) (model.List[model.Book], error)
	UpdateBook(ctx context.Context, book model.Book) (model.Book, error)
	DeleteBook(ctx context.Context, id int) error

	CreateBookInstance(ctx context.Context, inst model.BookInstance) (model.BookInstance, error)
	GetBookInstance(ctx context.Context, id uuid.UUID) (model.BookInstance, error)
	ListBookInstances(ctx context.Context, filter model.InstanceFilter) (model.List[model.BookInstance], error)
	ListOverdueInstances(ctx context.Context, filter model.InstanceFilter) (model.List[model.BookInstance], error)
	UpdateBookInstance(ctx context.Context, inst model.BookInstance) (model.BookInstance, error)
	DeleteBookInstance(ctx context.Context, id uuid.UUID) error
}

type AdminScreens interface {
	Index() admin.IndexScreen
	List(ctx context.Context, entity admin.Entity, params admin.ListParams) (admin.ListScreen, error)
	Form(ctx context.Context, entity admin.Entity, id string) (admin.FormScreen, error)
	Save(ctx context.Context, entity admin.Entity, id string, form url.Values) (admin.FormScreen, error)
	Delete(ctx context.Context, entity admin.Entity, id string) error
}

var (
	_ CatalogService = (*service.Service)(nil)
	_ AdminScreens   = (*admin.Screens)(nil)
)
