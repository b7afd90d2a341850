package admin

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
)

const (
	emptyValue    = "-"
	invalidChoice = "select a valid choice: that choice is not one of the available choices"
	genreColumnN  = 3

	// maxInlineForms caps the rows of one submitted inline formset.
	maxInlineForms = 1000
)

type query struct {
	filters map[string]string
	search  string
	page    model.Page
}

// record is one entity value as seen by the admin screens.
type record interface {
	pk() string
	// values returns the form value of a field; reference sets return several.
	values(field string) []string
	set(field string, vals []string) error
	display(field string, rc renderContext) string
	collect(r refs)
	value() interface{}
}

type adapter interface {
	blank() record
	get(ctx context.Context, id string) (record, error)
	list(ctx context.Context, q query) ([]record, model.Paging, error)
	save(ctx context.Context, r record, create bool) (record, error)
	delete(ctx context.Context, id string) error
}

func adapters(c Catalog) map[Entity]adapter {
	return map[Entity]adapter{
		EntityGenre:        genreAdapter{c: c},
		EntityLanguage:     languageAdapter{c: c},
		EntityAuthor:       authorAdapter{c: c},
		EntityBook:         bookAdapter{c: c},
		EntityBookInstance: instanceAdapter{c: c},
	}
}

type renderContext struct {
	refs refs
	c    Catalog
}

// refs holds the display labels of referenced entities, keyed by id.
type refs map[Entity]map[int]string

func (r refs) want(e Entity, id *int) {
	if id == nil {
		return
	}
	if r[e] == nil {
		r[e] = make(map[int]string)
	}
	r[e][*id] = ""
}

func (r refs) label(e Entity, id *int) string {
	if id == nil {
		return emptyValue
	}
	if l := r[e][*id]; l != "" {
		return l
	}
	return "#" + strconv.Itoa(*id)
}

// load resolves every wanted label, one list call per referenced entity.
func (r refs) load(ctx context.Context, c Catalog) error {
	g, ctx := errgroup.WithContext(ctx)
	for e, labels := range r {
		e, labels := e, labels
		ids := make([]int, 0, len(labels))
		for id := range labels {
			ids = append(ids, id)
		}
		g.Go(func() error {
			got, err := refLabels(ctx, c, e, ids)
			if err != nil {
				return errors.Wrapf(err, "load %s labels", e)
			}
			for id, l := range got {
				labels[id] = l
			}
			return nil
		})
	}
	return g.Wait()
}

func refLabels(ctx context.Context, c Catalog, e Entity, ids []int) (map[int]string, error) {
	out := make(map[int]string, len(ids))
	switch e {
	case EntityGenre:
		list, err := c.ListGenres(ctx, model.NameFilter{IDs: ids})
		if err != nil {
			return nil, err
		}
		for _, g := range list.Items {
			out[g.ID] = g.String()
		}
	case EntityLanguage:
		list, err := c.ListLanguages(ctx, model.NameFilter{IDs: ids})
		if err != nil {
			return nil, err
		}
		for _, l := range list.Items {
			out[l.ID] = l.String()
		}
	case EntityAuthor:
		list, err := c.ListAuthors(ctx, model.NameFilter{IDs: ids})
		if err != nil {
			return nil, err
		}
		for _, a := range list.Items {
			out[a.ID] = a.String()
		}
	case EntityBook:
		list, err := c.ListBooks(ctx, model.BookFilter{IDs: ids})
		if err != nil {
			return nil, err
		}
		for _, b := range list.Items {
			out[b.ID] = b.String()
		}
	default:
		return nil, errs.ErrUnknownEntity
	}
	return out, nil
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return strings.TrimSpace(vals[0])
}

func orDash(s string) string {
	if s == "" {
		return emptyValue
	}
	return s
}

func idString(id int) string {
	if id == 0 {
		return ""
	}
	return strconv.Itoa(id)
}

func intPK(id string) (int, error) {
	n, err := strconv.Atoi(id)
	if err != nil || n <= 0 {
		return 0, errors.Wrapf(errs.ErrNotFound, "id %q", id)
	}
	return n, nil
}

func uuidPK(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errors.Wrapf(errs.ErrNotFound, "id %q", id)
	}
	return u, nil
}

func refValue(id *int) []string {
	if id == nil {
		return []string{""}
	}
	return []string{strconv.Itoa(*id)}
}

func parseRef(vals []string) (*int, error) {
	s := first(vals)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return nil, errors.New(invalidChoice)
	}
	return &n, nil
}

func parseRefSet(vals []string) ([]int, error) {
	ids := make([]int, 0, len(vals))
	for _, v := range vals {
		id, err := parseRef([]string{v})
		if err != nil {
			return nil, err
		}
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids, nil
}

func dateValue(d *model.Date) []string {
	if d == nil {
		return []string{""}
	}
	return []string{d.String()}
}

func parseOptDate(vals []string) (*model.Date, error) {
	s := first(vals)
	if s == "" {
		return nil, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func filterRef(q query, key string) (*int, error) {
	id, err := parseRef([]string{q.filters[key]})
	if err != nil {
		return nil, errs.NewValidationError(key, err.Error())
	}
	return id, nil
}

func records[T any](items []T, wrap func(T) record) []record {
	out := make([]record, 0, len(items))
	for _, it := range items {
		out = append(out, wrap(it))
	}
	return out
}

type genreRecord struct{ model.Genre }

func (r *genreRecord) pk() string { return idString(r.ID) }

func (r *genreRecord) values(field string) []string {
	switch field {
	case "id":
		return []string{r.pk()}
	case "name":
		return []string{r.Name}
	}
	return nil
}

func (r *genreRecord) set(field string, vals []string) error {
	if field == "name" {
		r.Name = first(vals)
	}
	return nil
}

func (r *genreRecord) display(field string, _ renderContext) string { return orDash(first(r.values(field))) }
func (r *genreRecord) collect(refs)                                 {}
func (r *genreRecord) value() interface{}                           { return r.Genre }

type genreAdapter struct{ c Catalog }

func wrapGenre(g model.Genre) record { return &genreRecord{Genre: g} }

func (a genreAdapter) blank() record { return &genreRecord{} }

func (a genreAdapter) get(ctx context.Context, id string) (record, error) {
	n, err := intPK(id)
	if err != nil {
		return nil, err
	}
	g, err := a.c.GetGenre(ctx, n)
	if err != nil {
		return nil, err
	}
	return wrapGenre(g), nil
}

func (a genreAdapter) list(ctx context.Context, q query) ([]record, model.Paging, error) {
	list, err := a.c.ListGenres(ctx, model.NameFilter{Name: q.search, Page: q.page})
	if err != nil {
		return nil, model.Paging{}, err
	}
	return records(list.Items, wrapGenre), list.Paging, nil
}

func (a genreAdapter) save(ctx context.Context, r record, create bool) (record, error) {
	g := r.(*genreRecord).Genre
	var err error
	if create {
		g, err = a.c.CreateGenre(ctx, g)
	} else {
		g, err = a.c.UpdateGenre(ctx, g)
	}
	if err != nil {
		return nil, err
	}
	return wrapGenre(g), nil
}

func (a genreAdapter) delete(ctx context.Context, id string) error {
	n, err := intPK(id)
	if err != nil {
		return err
	}
	return a.c.DeleteGenre(ctx, n)
}

type languageRecord struct{ model.Language }

func (r *languageRecord) pk() string { return idString(r.ID) }

func (r *languageRecord) values(field string) []string {
	switch field {
	case "id":
		return []string{r.pk()}
	case "name":
		return []string{r.Name}
	}
	return nil
}

func (r *languageRecord) set(field string, vals []string) error {
	if field == "name" {
		r.Name = first(vals)
	}
	return nil
}

func (r *languageRecord) display(field string, _ renderContext) string {
	return orDash(first(r.values(field)))
}
func (r *languageRecord) collect(refs)       {}
func (r *languageRecord) value() interface{} { return r.Language }

type languageAdapter struct{ c Catalog }

func wrapLanguage(l model.Language) record { return &languageRecord{Language: l} }

func (a languageAdapter) blank() record { return &languageRecord{} }

func (a languageAdapter) get(ctx context.Context, id string) (record, error) {
	n, err := intPK(id)
	if err != nil {
		return nil, err
	}
	l, err := a.c.GetLanguage(ctx, n)
	if err != nil {
		return nil, err
	}
	return wrapLanguage(l), nil
}

func (a languageAdapter) list(ctx context.Context, q query) ([]record, model.Paging, error) {
	list, err := a.c.ListLanguages(ctx, model.NameFilter{Name: q.search, Page: q.page})
	if err != nil {
		return nil, model.Paging{}, err
	}
	return records(list.Items, wrapLanguage), list.Paging, nil
}

func (a languageAdapter) save(ctx context.Context, r record, create bool) (record, error) {
	l := r.(*languageRecord).Language
	var err error
	if create {
		l, err = a.c.CreateLanguage(ctx, l)
	} else {
		l, err = a.c.UpdateLanguage(ctx, l)
	}
	if err != nil {
		return nil, err
	}
	return wrapLanguage(l), nil
}

func (a languageAdapter) delete(ctx context.Context, id string) error {
	n, err := intPK(id)
	if err != nil {
		return err
	}
	return a.c.DeleteLanguage(ctx, n)
}

type authorRecord struct{ model.Author }

func (r *authorRecord) pk() string { return idString(r.ID) }

func (r *authorRecord) values(field string) []string {
	switch field {
	case "id":
		return []string{r.pk()}
	case "name":
		return []string{r.String()}
	case "first_name":
		return []string{r.FirstName}
	case "last_name":
		return []string{r.LastName}
	case "date_of_birth":
		return dateValue(r.DateOfBirth)
	case "date_of_death":
		return dateValue(r.DateOfDeath)
	}
	return nil
}

func (r *authorRecord) set(field string, vals []string) (err error) {
	switch field {
	case "first_name":
		r.FirstName = first(vals)
	case "last_name":
		r.LastName = first(vals)
	case "date_of_birth":
		r.DateOfBirth, err = parseOptDate(vals)
	case "date_of_death":
		r.DateOfDeath, err = parseOptDate(vals)
	}
	return err
}

func (r *authorRecord) display(field string, _ renderContext) string {
	return orDash(first(r.values(field)))
}
func (r *authorRecord) collect(refs)       {}
func (r *authorRecord) value() interface{} { return r.Author }

type authorAdapter struct{ c Catalog }

func wrapAuthor(a model.Author) record { return &authorRecord{Author: a} }

func (a authorAdapter) blank() record { return &authorRecord{} }

func (a authorAdapter) get(ctx context.Context, id string) (record, error) {
	n, err := intPK(id)
	if err != nil {
		return nil, err
	}
	au, err := a.c.GetAuthor(ctx, n)
	if err != nil {
		return nil, err
	}
	return wrapAuthor(au), nil
}

func (a authorAdapter) list(ctx context.Context, q query) ([]record, model.Paging, error) {
	list, err := a.c.ListAuthors(ctx, model.NameFilter{Name: q.search, Page: q.page})
	if err != nil {
		return nil, model.Paging{}, err
	}
	return records(list.Items, wrapAuthor), list.Paging, nil
}

func (a authorAdapter) save(ctx context.Context, r record, create bool) (record, error) {
	au := r.(*authorRecord).Author
	var err error
	if create {
		au, err = a.c.CreateAuthor(ctx, au)
	} else {
		au, err = a.c.UpdateAuthor(ctx, au)
	}
	if err != nil {
		return nil, err
	}
	return wrapAuthor(au), nil
}

func (a authorAdapter) delete(ctx context.Context, id string) error {
	n, err := intPK(id)
	if err != nil {
		return err
	}
	return a.c.DeleteAuthor(ctx, n)
}

type bookRecord struct{ model.Book }

func (r *bookRecord) pk() string { return idString(r.ID) }

func (r *bookRecord) values(field string) []string {
	switch field {
	case "id":
		return []string{r.pk()}
	case "title":
		return []string{r.Title}
	case "summary":
		return []string{r.Summary}
	case "isbn":
		return []string{r.ISBN}
	case "author":
		return refValue(r.AuthorID)
	case "language":
		return refValue(r.LanguageID)
	case "genre":
		vals := make([]string, 0, len(r.GenreIDs))
		for _, id := range r.GenreIDs {
			vals = append(vals, strconv.Itoa(id))
		}
		return vals
	}
	return nil
}

func (r *bookRecord) set(field string, vals []string) (err error) {
	switch field {
	case "title":
		r.Title = first(vals)
	case "summary":
		r.Summary = first(vals)
	case "isbn":
		r.ISBN = first(vals)
	case "author":
		r.AuthorID, err = parseRef(vals)
	case "language":
		r.LanguageID, err = parseRef(vals)
	case "genre":
		r.GenreIDs, err = parseRefSet(vals)
	}
	return err
}

func (r *bookRecord) display(field string, rc renderContext) string {
	switch field {
	case "author":
		return rc.refs.label(EntityAuthor, r.AuthorID)
	case "language":
		return rc.refs.label(EntityLanguage, r.LanguageID)
	case "genre":
		n := len(r.GenreIDs)
		if n > genreColumnN {
			n = genreColumnN
		}
		names := make([]string, 0, n)
		for i := 0; i < n; i++ {
			names = append(names, rc.refs.label(EntityGenre, &r.GenreIDs[i]))
		}
		return orDash(strings.Join(names, ", "))
	}
	return orDash(first(r.values(field)))
}

func (r *bookRecord) collect(rf refs) {
	rf.want(EntityAuthor, r.AuthorID)
	rf.want(EntityLanguage, r.LanguageID)
	for i := range r.GenreIDs {
		rf.want(EntityGenre, &r.GenreIDs[i])
	}
}

func (r *bookRecord) value() interface{} { return r.Book }

type bookAdapter struct{ c Catalog }

func wrapBook(b model.Book) record { return &bookRecord{Book: b} }

func (a bookAdapter) blank() record { return &bookRecord{} }

func (a bookAdapter) get(ctx context.Context, id string) (record, error) {
	n, err := intPK(id)
	if err != nil {
		return nil, err
	}
	b, err := a.c.GetBook(ctx, n)
	if err != nil {
		return nil, err
	}
	return wrapBook(b), nil
}

func (a bookAdapter) list(ctx context.Context, q query) ([]record, model.Paging, error) {
	f := model.BookFilter{Title: q.search, Page: q.page}
	var err error
	if f.AuthorID, err = filterRef(q, "author"); err != nil {
		return nil, model.Paging{}, err
	}
	if f.LanguageID, err = filterRef(q, "language"); err != nil {
		return nil, model.Paging{}, err
	}
	if f.GenreID, err = filterRef(q, "genre"); err != nil {
		return nil, model.Paging{}, err
	}
	list, err := a.c.ListBooks(ctx, f)
	if err != nil {
		return nil, model.Paging{}, err
	}
	return records(list.Items, wrapBook), list.Paging, nil
}

func (a bookAdapter) save(ctx context.Context, r record, create bool) (record, error) {
	b := r.(*bookRecord).Book
	var err error
	if create {
		b, err = a.c.CreateBook(ctx, b)
	} else {
		b, err = a.c.UpdateBook(ctx, b)
	}
	if err != nil {
		return nil, err
	}
	return wrapBook(b), nil
}

func (a bookAdapter) delete(ctx context.Context, id string) error {
	n, err := intPK(id)
	if err != nil {
		return err
	}
	return a.c.DeleteBook(ctx, n)
}

type instanceRecord struct{ model.BookInstance }

func (r *instanceRecord) pk() string {
	if r.ID == uuid.Nil {
		return ""
	}
	return r.ID.String()
}

func (r *instanceRecord) values(field string) []string {
	switch field {
	case "id":
		return []string{r.pk()}
	case "book":
		return refValue(r.BookID)
	case "imprint":
		return []string{r.Imprint}
	case "due_back":
		return dateValue(r.DueBack)
	case "status":
		return []string{string(r.Status)}
	case "borrower":
		if r.Borrower == nil {
			return []string{""}
		}
		return []string{*r.Borrower}
	}
	return nil
}

func (r *instanceRecord) set(field string, vals []string) (err error) {
	switch field {
	case "book":
		r.BookID, err = parseRef(vals)
	case "imprint":
		r.Imprint = first(vals)
	case "due_back":
		r.DueBack, err = parseOptDate(vals)
	case "status":
		s := first(vals)
		if s == "" {
			r.Status = model.StatusMaintenance
			return nil
		}
		r.Status, err = model.ParseStatus(s)
	case "borrower":
		r.Borrower = nil
		if b := first(vals); b != "" {
			r.Borrower = &b
		}
	}
	return err
}

func (r *instanceRecord) display(field string, rc renderContext) string {
	switch field {
	case "book":
		return rc.refs.label(EntityBook, r.BookID)
	case "instance":
		title := ""
		if r.BookID != nil {
			title = rc.refs.label(EntityBook, r.BookID)
		}
		return r.Label(title)
	case "status":
		return r.Status.Label()
	case "is_overdue":
		return strconv.FormatBool(rc.c.IsOverdue(r.BookInstance))
	}
	return orDash(first(r.values(field)))
}

func (r *instanceRecord) collect(rf refs) { rf.want(EntityBook, r.BookID) }

func (r *instanceRecord) value() interface{} { return r.BookInstance }

type instanceAdapter struct{ c Catalog }

func wrapInstance(bi model.BookInstance) record { return &instanceRecord{BookInstance: bi} }

func (a instanceAdapter) blank() record {
	return &instanceRecord{BookInstance: model.BookInstance{Status: model.StatusMaintenance}}
}

func (a instanceAdapter) get(ctx context.Context, id string) (record, error) {
	u, err := uuidPK(id)
	if err != nil {
		return nil, err
	}
	bi, err := a.c.GetBookInstance(ctx, u)
	if err != nil {
		return nil, err
	}
	return wrapInstance(bi), nil
}

func (a instanceAdapter) list(ctx context.Context, q query) ([]record, model.Paging, error) {
	f := model.InstanceFilter{Page: q.page}
	if q.search != "" {
		f.Borrower = &q.search
	}
	var err error
	if f.BookID, err = filterRef(q, "book"); err != nil {
		return nil, model.Paging{}, err
	}
	if s := q.filters["status"]; s != "" {
		st, err := model.ParseStatus(s)
		if err != nil {
			return nil, model.Paging{}, errs.NewValidationError("status", err.Error())
		}
		f.Status = &st
	}
	if err := applyDueBack(&f, q.filters["due_back"], a.c.Today()); err != nil {
		return nil, model.Paging{}, err
	}
	list, err := a.c.ListBookInstances(ctx, f)
	if err != nil {
		return nil, model.Paging{}, err
	}
	return records(list.Items, wrapInstance), list.Paging, nil
}

func (a instanceAdapter) save(ctx context.Context, r record, create bool) (record, error) {
	bi := r.(*instanceRecord).BookInstance
	var err error
	if create {
		bi, err = a.c.CreateBookInstance(ctx, bi)
	} else {
		bi, err = a.c.UpdateBookInstance(ctx, bi)
	}
	if err != nil {
		return nil, err
	}
	return wrapInstance(bi), nil
}

func (a instanceAdapter) delete(ctx context.Context, id string) error {
	u, err := uuidPK(id)
	if err != nil {
		return err
	}
	return a.c.DeleteBookInstance(ctx, u)
}
