package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/Astemirdum/library-catalog/catalog/internal/events"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/catalog/internal/repository"
	"github.com/Astemirdum/library-catalog/pkg/validate"
)

type Service struct {
	log       *zap.Logger
	repo      repository.Repository
	validator *validate.CustomValidator
	publisher events.Publisher
	now       func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now; the overdue rule reads the calendar day from it.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo repository.Repository, publisher events.Publisher, log *zap.Logger, opts ...Option) *Service {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	s := &Service{
		log:       log.Named("service"),
		repo:      repo,
		validator: validate.NewCustomValidator(),
		publisher: publisher,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) Today() model.Date {
	return model.DateOf(s.now())
}

func (s *Service) IsOverdue(inst model.BookInstance) bool {
	return inst.IsOverdue(s.now())
}

// Validate checks field constraints without touching storage.
func (s *Service) Validate(v interface{}) error {
	if err := s.validator.Validate(v); err != nil {
		if fields := validate.Fields(err); fields != nil {
			return &errs.ValidationError{Fields: fields}
		}
		return err
	}
	return nil
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func (s *Service) CreateGenre(ctx context.Context, genre model.Genre) (model.Genre, error) {
	genre.Name = strings.TrimSpace(genre.Name)
	if err := s.Validate(genre); err != nil {
		return model.Genre{}, err
	}
	return s.repo.CreateGenre(ctx, genre)
}

func (s *Service) GetGenre(ctx context.Context, id int) (model.Genre, error) {
	return s.repo.GetGenre(ctx, id)
}

func (s *Service) ListGenres(ctx context.Context, filter model.NameFilter) (model.List[model.Genre], error) {
	return s.repo.ListGenres(ctx, filter)
}

func (s *Service) UpdateGenre(ctx context.Context, genre model.Genre) (model.Genre, error) {
	genre.Name = strings.TrimSpace(genre.Name)
	if err := s.Validate(genre); err != nil {
		return model.Genre{}, err
	}
	return s.repo.UpdateGenre(ctx, genre)
}

func (s *Service) DeleteGenre(ctx context.Context, id int) error {
	return s.repo.DeleteGenre(ctx, id)
}

func (s *Service) CreateLanguage(ctx context.Context, language model.Language) (model.Language, error) {
	language.Name = strings.TrimSpace(language.Name)
	if err := s.Validate(language); err != nil {
		return model.Language{}, err
	}
	return s.repo.CreateLanguage(ctx, language)
}

func (s *Service) GetLanguage(ctx context.Context, id int) (model.Language, error) {
	return s.repo.GetLanguage(ctx, id)
}

func (s *Service) ListLanguages(ctx context.Context, filter model.NameFilter) (model.List[model.Language], error) {
	return s.repo.ListLanguages(ctx, filter)
}

func (s *Service) UpdateLanguage(ctx context.Context, language model.Language) (model.Language, error) {
	language.Name = strings.TrimSpace(language.Name)
	if err := s.Validate(language); err != nil {
		return model.Language{}, err
	}
	return s.repo.UpdateLanguage(ctx, language)
}

func (s *Service) DeleteLanguage(ctx context.Context, id int) error {
	return s.repo.DeleteLanguage(ctx, id)
}

func normalizeAuthor(a model.Author) model.Author {
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.LastName = strings.TrimSpace(a.LastName)
	return a
}

func (s *Service) CreateAuthor(ctx context.Context, author model.Author) (model.Author, error) {
	author = normalizeAuthor(author)
	if err := s.Validate(author); err != nil {
		return model.Author{}, err
	}
	return s.repo.CreateAuthor(ctx, author)
}

func (s *Service) GetAuthor(ctx context.Context, id int) (model.Author, error) {
	return s.repo.GetAuthor(ctx, id)
}

func (s *Service) ListAuthors(ctx context.Context, filter model.NameFilter) (model.List[model.Author], error) {
	return s.repo.ListAuthors(ctx, filter)
}

func (s *Service) UpdateAuthor(ctx context.Context, author model.Author) (model.Author, error) {
	author = normalizeAuthor(author)
	if err := s.Validate(author); err != nil {
		return model.Author{}, err
	}
	return s.repo.UpdateAuthor(ctx, author)
}

// DeleteAuthor keeps the author's books; their author reference becomes empty.
func (s *Service) DeleteAuthor(ctx context.Context, id int) error {
	return s.repo.DeleteAuthor(ctx, id)
}

func normalizeBook(b model.Book) model.Book {
	b.Title = strings.TrimSpace(b.Title)
	b.Summary = strings.TrimSpace(b.Summary)
	b.ISBN = strings.TrimSpace(b.ISBN)
	if b.GenreIDs == nil {
		b.GenreIDs = []int{}
	}
	return b
}

func (s *Service) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	book = normalizeBook(book)
	if err := s.Validate(book); err != nil {
		return model.Book{}, err
	}
	return s.repo.CreateBook(ctx, book)
}

func (s *Service) GetBook(ctx context.Context, id int) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) ListBooks(ctx context.Context, filter model.BookFilter) (model.List[model.Book], error) {
	return s.repo.ListBooks(ctx, filter)
}

func (s *Service) UpdateBook(ctx context.Context, book model.Book) (model.Book, error) {
	book = normalizeBook(book)
	if err := s.Validate(book); err != nil {
		return model.Book{}, err
	}
	return s.repo.UpdateBook(ctx, book)
}

// DeleteBook keeps the book's instances; their book reference becomes empty.
func (s *Service) DeleteBook(ctx context.Context, id int) error {
	return s.repo.DeleteBook(ctx, id)
}

func normalizeInstance(inst model.BookInstance) model.BookInstance {
	inst.Imprint = strings.TrimSpace(inst.Imprint)
	inst.Borrower = trimPtr(inst.Borrower)
	if inst.Status == "" {
		inst.Status = model.StatusMaintenance
	}
	return inst
}

// CreateBookInstance assigns a fresh identifier unless one is supplied and
// defaults the status to maintenance.
func (s *Service) CreateBookInstance(ctx context.Context, inst model.BookInstance) (model.BookInstance, error) {
	inst = normalizeInstance(inst)
	if inst.ID == uuid.Nil {
		inst.ID = uuid.New()
	}
	if err := s.Validate(inst); err != nil {
		return model.BookInstance{}, err
	}
	created, err := s.repo.CreateBookInstance(ctx, inst)
	if err != nil {
		return model.BookInstance{}, err
	}
	s.publish(ctx, events.InstanceCreated, created)
	return created, nil
}

func (s *Service) GetBookInstance(ctx context.Context, id uuid.UUID) (model.BookInstance, error) {
	return s.repo.GetBookInstance(ctx, id)
}

func (s *Service) ListBookInstances(ctx context.Context, filter model.InstanceFilter) (model.List[model.BookInstance], error) {
	return s.repo.ListBookInstances(ctx, filter)
}

// ListOverdueInstances narrows filter to copies whose due date is before today.
func (s *Service) ListOverdueInstances(ctx context.Context, filter model.InstanceFilter) (model.List[model.BookInstance], error) {
	today := s.Today()
	hasDue := true
	filter.HasDueBack = &hasDue
	if filter.DueTo == nil || today.Before(filter.DueTo.Time) {
		filter.DueTo = &today
	}
	return s.repo.ListBookInstances(ctx, filter)
}

func (s *Service) UpdateBookInstance(ctx context.Context, inst model.BookInstance) (model.BookInstance, error) {
	inst = normalizeInstance(inst)
	if err := s.Validate(inst); err != nil {
		return model.BookInstance{}, err
	}
	updated, err := s.repo.UpdateBookInstance(ctx, inst)
	if err != nil {
		return model.BookInstance{}, err
	}
	s.publish(ctx, events.InstanceUpdated, updated)
	return updated, nil
}

func (s *Service) DeleteBookInstance(ctx context.Context, id uuid.UUID) error {
	inst, err := s.repo.GetBookInstance(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBookInstance(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.InstanceDeleted, inst)
	return nil
}

// publish failures are only logged.
func (s *Service) publish(ctx context.Context, t events.Type, inst model.BookInstance) {
	if err := s.publisher.Publish(ctx, events.NewInstanceEvent(t, inst, s.now())); err != nil {
		s.log.Warn("publish event", zap.String("type", string(t)),
			zap.String("instance", inst.ID.String()), zap.Error(err))
	}
}
