package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
)

type Repository interface {
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
	UpdateBookInstance(ctx context.Context, inst model.BookInstance) (model.BookInstance, error)
	DeleteBookInstance(ctx context.Context, id uuid.UUID) error
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

var _ Repository = (*repository)(nil)

const (
	genreTableName        = `genre`
	languageTableName     = `language`
	authorTableName       = `author`
	bookTableName         = `book`
	bookGenreTableName    = `book_genre`
	bookInstanceTableName = `book_instance`
)

var (
	qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	namedColumns    = []string{"id", "name"}
	authorColumns   = []string{"id", "first_name", "last_name", "date_of_birth", "date_of_death"}
	instanceColumns = []string{"id", "book_id", "imprint", "due_back", "status", "borrower"}
)

func getOne[T any](ctx context.Context, q querier, b sq.Sqlizer) (T, error) {
	var zero T
	query, args, err := b.ToSql()
	if err != nil {
		return zero, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return zero, mapError(err)
	}
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return zero, mapError(err)
	}
	return item, nil
}

func getAll[T any](ctx context.Context, q querier, b sq.Sqlizer) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, mapError(err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func count(ctx context.Context, q querier, b sq.SelectBuilder) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func exec(ctx context.Context, q querier, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func paginate(b sq.SelectBuilder, p model.Page) sq.SelectBuilder {
	if p.Limited() {
		b = b.Limit(uint64(p.Size)).Offset(uint64(p.Offset()))
	}
	return b
}

func listOf[T any](items []T, total int, p model.Page) model.List[T] {
	return model.List[T]{
		Paging: model.Paging{
			Page:          p.Page,
			PageSize:      p.Size,
			TotalElements: total,
		},
		Items: items,
	}
}

func nameConds(f model.NameFilter, nameCols ...string) sq.And {
	conds := sq.And{}
	if len(f.IDs) > 0 {
		conds = append(conds, sq.Eq{"id": f.IDs})
	}
	if f.Name != "" {
		or := sq.Or{}
		for _, col := range nameCols {
			or = append(or, sq.ILike{col: "%" + f.Name + "%"})
		}
		conds = append(conds, or)
	}
	return conds
}

// genre and language share a shape

func createNamed[T any](ctx context.Context, q querier, table, name string) (T, error) {
	return getOne[T](ctx, q, qb.Insert(table).
		Columns("name").
		Values(name).
		Suffix("returning id, name"))
}

func getNamed[T any](ctx context.Context, q querier, table string, id int) (T, error) {
	return getOne[T](ctx, q, qb.Select(namedColumns...).
		From(table).
		Where(sq.Eq{"id": id}))
}

func updateNamed[T any](ctx context.Context, q querier, table string, id int, name string) (T, error) {
	return getOne[T](ctx, q, qb.Update(table).
		Set("name", name).
		Where(sq.Eq{"id": id}).
		Suffix("returning id, name"))
}

func listNamed[T any](ctx context.Context, q querier, table string, f model.NameFilter) (model.List[T], error) {
	conds := nameConds(f, "name")
	items, err := getAll[T](ctx, q, paginate(qb.Select(namedColumns...).
		From(table).
		Where(conds).
		OrderBy("id"), f.Page))
	if err != nil {
		return model.List[T]{}, err
	}
	total, err := count(ctx, q, qb.Select("count(*)").From(table).Where(conds))
	if err != nil {
		return model.List[T]{}, err
	}
	return listOf(items, total, f.Page), nil
}

func (r *repository) CreateGenre(ctx context.Context, genre model.Genre) (model.Genre, error) {
	return createNamed[model.Genre](ctx, r.db, genreTableName, genre.Name)
}

func (r *repository) GetGenre(ctx context.Context, id int) (model.Genre, error) {
	return getNamed[model.Genre](ctx, r.db, genreTableName, id)
}

func (r *repository) ListGenres(ctx context.Context, filter model.NameFilter) (model.List[model.Genre], error) {
	return listNamed[model.Genre](ctx, r.db, genreTableName, filter)
}

func (r *repository) UpdateGenre(ctx context.Context, genre model.Genre) (model.Genre, error) {
	return updateNamed[model.Genre](ctx, r.db, genreTableName, genre.ID, genre.Name)
}

// DeleteGenre drops the genre; book_genre rows go with it.
func (r *repository) DeleteGenre(ctx context.Context, id int) error {
	return exec(ctx, r.db, qb.Delete(genreTableName).Where(sq.Eq{"id": id}))
}

func (r *repository) CreateLanguage(ctx context.Context, language model.Language) (model.Language, error) {
	return createNamed[model.Language](ctx, r.db, languageTableName, language.Name)
}

func (r *repository) GetLanguage(ctx context.Context, id int) (model.Language, error) {
	return getNamed[model.Language](ctx, r.db, languageTableName, id)
}

func (r *repository) ListLanguages(ctx context.Context, filter model.NameFilter) (model.List[model.Language], error) {
	return listNamed[model.Language](ctx, r.db, languageTableName, filter)
}

func (r *repository) UpdateLanguage(ctx context.Context, language model.Language) (model.Language, error) {
	return updateNamed[model.Language](ctx, r.db, languageTableName, language.ID, language.Name)
}

// DeleteLanguage clears book.language_id through "on delete set null".
func (r *repository) DeleteLanguage(ctx context.Context, id int) error {
	return exec(ctx, r.db, qb.Delete(languageTableName).Where(sq.Eq{"id": id}))
}

func (r *repository) CreateAuthor(ctx context.Context, author model.Author) (model.Author, error) {
	return getOne[model.Author](ctx, r.db, qb.Insert(authorTableName).
		Columns("first_name", "last_name", "date_of_birth", "date_of_death").
		Values(author.FirstName, author.LastName, author.DateOfBirth, author.DateOfDeath).
		Suffix("returning id, first_name, last_name, date_of_birth, date_of_death"))
}

func (r *repository) GetAuthor(ctx context.Context, id int) (model.Author, error) {
	return getOne[model.Author](ctx, r.db, qb.Select(authorColumns...).
		From(authorTableName).
		Where(sq.Eq{"id": id}))
}

func (r *repository) ListAuthors(ctx context.Context, filter model.NameFilter) (model.List[model.Author], error) {
	conds := nameConds(filter, "first_name", "last_name")
	items, err := getAll[model.Author](ctx, r.db, paginate(qb.Select(authorColumns...).
		From(authorTableName).
		Where(conds).
		OrderBy("last_name", "first_name", "id"), filter.Page))
	if err != nil {
		return model.List[model.Author]{}, err
	}
	total, err := count(ctx, r.db, qb.Select("count(*)").From(authorTableName).Where(conds))
	if err != nil {
		return model.List[model.Author]{}, err
	}
	return listOf(items, total, filter.Page), nil
}

func (r *repository) UpdateAuthor(ctx context.Context, author model.Author) (model.Author, error) {
	return getOne[model.Author](ctx, r.db, qb.Update(authorTableName).
		SetMap(map[string]interface{}{
			"first_name":    author.FirstName,
			"last_name":     author.LastName,
			"date_of_birth": author.DateOfBirth,
			"date_of_death": author.DateOfDeath,
		}).
		Where(sq.Eq{"id": author.ID}).
		Suffix("returning id, first_name, last_name, date_of_birth, date_of_death"))
}

// DeleteAuthor clears book.author_id through "on delete set null".
func (r *repository) DeleteAuthor(ctx context.Context, id int) error {
	return exec(ctx, r.db, qb.Delete(authorTableName).Where(sq.Eq{"id": id}))
}

func selectBooks() sq.SelectBuilder {
	return qb.Select("b.id", "b.title", "b.summary", "b.isbn", "b.author_id", "b.language_id",
		"coalesce(array_agg(bg.genre_id order by bg.genre_id) filter (where bg.genre_id is not null), '{}') as genre_ids").
		From(bookTableName + " b").
		LeftJoin(bookGenreTableName + " bg on bg.book_id = b.id").
		GroupBy("b.id")
}

func bookConds(f model.BookFilter) sq.And {
	conds := sq.And{}
	if len(f.IDs) > 0 {
		conds = append(conds, sq.Eq{"b.id": f.IDs})
	}
	if f.AuthorID != nil {
		conds = append(conds, sq.Eq{"b.author_id": *f.AuthorID})
	}
	if f.LanguageID != nil {
		conds = append(conds, sq.Eq{"b.language_id": *f.LanguageID})
	}
	if f.GenreID != nil {
		conds = append(conds, sq.Expr("b.id in (select book_id from "+bookGenreTableName+" where genre_id = ?)", *f.GenreID))
	}
	if f.Title != "" {
		conds = append(conds, sq.ILike{"b.title": "%" + f.Title + "%"})
	}
	return conds
}

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	var id int
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		query, args, err := qb.Insert(bookTableName).
			Columns("title", "summary", "isbn", "author_id", "language_id").
			Values(book.Title, book.Summary, book.ISBN, book.AuthorID, book.LanguageID).
			Suffix("returning id").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
			return mapError(err)
		}
		return setBookGenres(ctx, tx, id, book.GenreIDs)
	})
	if err != nil {
		r.log.Error("CreateBook", zap.Error(err))
		return model.Book{}, err
	}
	return r.GetBook(ctx, id)
}

func setBookGenres(ctx context.Context, tx pgx.Tx, bookID int, genreIDs []int) error {
	query, args, err := qb.Delete(bookGenreTableName).Where(sq.Eq{"book_id": bookID}).ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return mapError(err)
	}
	genreIDs = uniqueInts(genreIDs)
	if len(genreIDs) == 0 {
		return nil
	}
	ins := qb.Insert(bookGenreTableName).Columns("book_id", "genre_id")
	for _, gid := range genreIDs {
		ins = ins.Values(bookID, gid)
	}
	query, args, err = ins.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, query, args...)
	return mapError(err)
}

func uniqueInts(in []int) []int {
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (r *repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	return getOne[model.Book](ctx, r.db, selectBooks().Where(sq.Eq{"b.id": id}))
}

func (r *repository) ListBooks(ctx context.Context, filter model.BookFilter) (model.List[model.Book], error) {
	conds := bookConds(filter)
	q := paginate(selectBooks().Where(conds).OrderBy("b.id"), filter.Page)
	if query, args, err := q.ToSql(); err == nil {
		r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))
	}
	items, err := getAll[model.Book](ctx, r.db, q)
	if err != nil {
		return model.List[model.Book]{}, err
	}
	total, err := count(ctx, r.db, qb.Select("count(*)").From(bookTableName+" b").Where(conds))
	if err != nil {
		return model.List[model.Book]{}, err
	}
	return listOf(items, total, filter.Page), nil
}

func (r *repository) UpdateBook(ctx context.Context, book model.Book) (model.Book, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := exec(ctx, tx, qb.Update(bookTableName).
			SetMap(map[string]interface{}{
				"title":       book.Title,
				"summary":     book.Summary,
				"isbn":        book.ISBN,
				"author_id":   book.AuthorID,
				"language_id": book.LanguageID,
			}).
			Where(sq.Eq{"id": book.ID})); err != nil {
			return err
		}
		return setBookGenres(ctx, tx, book.ID, book.GenreIDs)
	})
	if err != nil {
		return model.Book{}, err
	}
	return r.GetBook(ctx, book.ID)
}

// DeleteBook clears book_instance.book_id through "on delete set null".
func (r *repository) DeleteBook(ctx context.Context, id int) error {
	return exec(ctx, r.db, qb.Delete(bookTableName).Where(sq.Eq{"id": id}))
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func instanceConds(f model.InstanceFilter) sq.And {
	conds := sq.And{}
	// uuid.UUID is an array; squirrel would expand it into a list
	if len(f.IDs) > 0 {
		conds = append(conds, sq.Eq{"id": uuidStrings(f.IDs)})
	}
	if f.BookID != nil {
		conds = append(conds, sq.Eq{"book_id": *f.BookID})
	}
	if f.Status != nil {
		conds = append(conds, sq.Eq{"status": string(*f.Status)})
	}
	if f.Borrower != nil {
		conds = append(conds, sq.Eq{"borrower": *f.Borrower})
	}
	if f.DueFrom != nil {
		conds = append(conds, sq.GtOrEq{"due_back": *f.DueFrom})
	}
	if f.DueTo != nil {
		conds = append(conds, sq.Lt{"due_back": *f.DueTo})
	}
	if f.HasDueBack != nil {
		if *f.HasDueBack {
			conds = append(conds, sq.NotEq{"due_back": nil})
		} else {
			conds = append(conds, sq.Eq{"due_back": nil})
		}
	}
	return conds
}

func (r *repository) CreateBookInstance(ctx context.Context, inst model.BookInstance) (model.BookInstance, error) {
	bi, err := getOne[model.BookInstance](ctx, r.db, qb.Insert(bookInstanceTableName).
		Columns(instanceColumns...).
		Values(inst.ID.String(), inst.BookID, inst.Imprint, inst.DueBack, string(inst.Status), inst.Borrower).
		Suffix("returning id, book_id, imprint, due_back, status, borrower"))
	if err != nil {
		r.log.Error("CreateBookInstance", zap.String("id", inst.ID.String()), zap.Error(err))
		return model.BookInstance{}, err
	}
	return bi, nil
}

func (r *repository) GetBookInstance(ctx context.Context, id uuid.UUID) (model.BookInstance, error) {
	return getOne[model.BookInstance](ctx, r.db, qb.Select(instanceColumns...).
		From(bookInstanceTableName).
		Where(sq.Eq{"id": id.String()}))
}

func (r *repository) ListBookInstances(ctx context.Context, filter model.InstanceFilter) (model.List[model.BookInstance], error) {
	conds := instanceConds(filter)
	q := paginate(qb.Select(instanceColumns...).
		From(bookInstanceTableName).
		Where(conds).
		OrderBy("due_back asc nulls last", "id"), filter.Page)
	items, err := getAll[model.BookInstance](ctx, r.db, q)
	if err != nil {
		return model.List[model.BookInstance]{}, err
	}
	total, err := count(ctx, r.db, qb.Select("count(*)").From(bookInstanceTableName).Where(conds))
	if err != nil {
		return model.List[model.BookInstance]{}, err
	}
	return listOf(items, total, filter.Page), nil
}

func (r *repository) UpdateBookInstance(ctx context.Context, inst model.BookInstance) (model.BookInstance, error) {
	return getOne[model.BookInstance](ctx, r.db, qb.Update(bookInstanceTableName).
		SetMap(map[string]interface{}{
			"book_id":  inst.BookID,
			"imprint":  inst.Imprint,
			"due_back": inst.DueBack,
			"status":   string(inst.Status),
			"borrower": inst.Borrower,
		}).
		Where(sq.Eq{"id": inst.ID.String()}).
		Suffix("returning id, book_id, imprint, due_back, status, borrower"))
}

func (r *repository) DeleteBookInstance(ctx context.Context, id uuid.UUID) error {
	return exec(ctx, r.db, qb.Delete(bookInstanceTableName).Where(sq.Eq{"id": id.String()}))
}
