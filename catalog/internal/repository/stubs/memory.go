package stubs

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/catalog/internal/repository"
)

const invalidChoice = "select a valid choice: that choice is not one of the available choices"

// MemoryDB is an in-memory Repository with the same referential rules as the
// SQL schema: deleting an author, language or book clears references to it.
type MemoryDB struct {
	mu        sync.RWMutex
	seq       map[string]int
	genres    map[int]model.Genre
	languages map[int]model.Language
	authors   map[int]model.Author
	books     map[int]model.Book
	instances map[uuid.UUID]model.BookInstance
}

var _ repository.Repository = (*MemoryDB)(nil)

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		seq:       make(map[string]int),
		genres:    make(map[int]model.Genre),
		languages: make(map[int]model.Language),
		authors:   make(map[int]model.Author),
		books:     make(map[int]model.Book),
		instances: make(map[uuid.UUID]model.BookInstance),
	}
}

func (m *MemoryDB) nextID(table string) int {
	m.seq[table]++
	return m.seq[table]
}

func page[T any](items []T, p model.Page) model.List[T] {
	total := len(items)
	if p.Limited() {
		from := p.Offset()
		if from < 0 || from > total {
			from = total
		}
		to := total
		if p.Size < total-from {
			to = from + p.Size
		}
		items = items[from:to]
	}
	if items == nil {
		items = []T{}
	}
	return model.List[T]{
		Paging: model.Paging{Page: p.Page, PageSize: p.Size, TotalElements: total},
		Items:  items,
	}
}

func containsInt(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func matchName(f model.NameFilter, id int, names ...string) bool {
	if len(f.IDs) > 0 && !containsInt(f.IDs, id) {
		return false
	}
	if f.Name == "" {
		return true
	}
	for _, n := range names {
		if model.ContainsFold(n, f.Name) {
			return true
		}
	}
	return false
}

func (m *MemoryDB) CreateGenre(_ context.Context, genre model.Genre) (model.Genre, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	genre.ID = m.nextID("genre")
	m.genres[genre.ID] = genre
	return genre, nil
}

func (m *MemoryDB) GetGenre(_ context.Context, id int) (model.Genre, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.genres[id]
	if !ok {
		return model.Genre{}, errs.ErrNotFound
	}
	return g, nil
}

func (m *MemoryDB) ListGenres(_ context.Context, filter model.NameFilter) (model.List[model.Genre], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var items []model.Genre
	for _, g := range m.genres {
		if matchName(filter, g.ID, g.Name) {
			items = append(items, g)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return page(items, filter.Page), nil
}

func (m *MemoryDB) UpdateGenre(_ context.Context, genre model.Genre) (model.Genre, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.genres[genre.ID]; !ok {
		return model.Genre{}, errs.ErrNotFound
	}
	m.genres[genre.ID] = genre
	return genre, nil
}

func (m *MemoryDB) DeleteGenre(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.genres[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.genres, id)
	for bid, b := range m.books {
		if containsInt(b.GenreIDs, id) {
			kept := make([]int, 0, len(b.GenreIDs))
			for _, gid := range b.GenreIDs {
				if gid != id {
					kept = append(kept, gid)
				}
			}
			b.GenreIDs = kept
			m.books[bid] = b
		}
	}
	return nil
}

func (m *MemoryDB) CreateLanguage(_ context.Context, language model.Language) (model.Language, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	language.ID = m.nextID("language")
	m.languages[language.ID] = language
	return language, nil
}

func (m *MemoryDB) GetLanguage(_ context.Context, id int) (model.Language, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.languages[id]
	if !ok {
		return model.Language{}, errs.ErrNotFound
	}
	return l, nil
}

func (m *MemoryDB) ListLanguages(_ context.Context, filter model.NameFilter) (model.List[model.Language], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var items []model.Language
	for _, l := range m.languages {
		if matchName(filter, l.ID, l.Name) {
			items = append(items, l)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return page(items, filter.Page), nil
}

func (m *MemoryDB) UpdateLanguage(_ context.Context, language model.Language) (model.Language, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.languages[language.ID]; !ok {
		return model.Language{}, errs.ErrNotFound
	}
	m.languages[language.ID] = language
	return language, nil
}

func (m *MemoryDB) DeleteLanguage(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.languages[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.languages, id)
	for bid, b := range m.books {
		if b.LanguageID != nil && *b.LanguageID == id {
			b.LanguageID = nil
			m.books[bid] = b
		}
	}
	return nil
}

func (m *MemoryDB) CreateAuthor(_ context.Context, author model.Author) (model.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	author.ID = m.nextID("author")
	m.authors[author.ID] = author
	return author, nil
}

func (m *MemoryDB) GetAuthor(_ context.Context, id int) (model.Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.authors[id]
	if !ok {
		return model.Author{}, errs.ErrNotFound
	}
	return a, nil
}

func (m *MemoryDB) ListAuthors(_ context.Context, filter model.NameFilter) (model.List[model.Author], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var items []model.Author
	for _, a := range m.authors {
		if matchName(filter, a.ID, a.FirstName, a.LastName) {
			items = append(items, a)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].LastName != items[j].LastName {
			return items[i].LastName < items[j].LastName
		}
		if items[i].FirstName != items[j].FirstName {
			return items[i].FirstName < items[j].FirstName
		}
		return items[i].ID < items[j].ID
	})
	return page(items, filter.Page), nil
}

func (m *MemoryDB) UpdateAuthor(_ context.Context, author model.Author) (model.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.authors[author.ID]; !ok {
		return model.Author{}, errs.ErrNotFound
	}
	m.authors[author.ID] = author
	return author, nil
}

func (m *MemoryDB) DeleteAuthor(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.authors[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.authors, id)
	for bid, b := range m.books {
		if b.AuthorID != nil && *b.AuthorID == id {
			b.AuthorID = nil
			m.books[bid] = b
		}
	}
	return nil
}

// checkBookRefs mirrors the foreign keys of the book table. Caller holds the lock.
func (m *MemoryDB) checkBookRefs(book model.Book) error {
	if book.AuthorID != nil {
		if _, ok := m.authors[*book.AuthorID]; !ok {
			return errs.NewValidationError("authorId", invalidChoice)
		}
	}
	if book.LanguageID != nil {
		if _, ok := m.languages[*book.LanguageID]; !ok {
			return errs.NewValidationError("languageId", invalidChoice)
		}
	}
	for _, gid := range book.GenreIDs {
		if _, ok := m.genres[gid]; !ok {
			return errs.NewValidationError("genreIds", invalidChoice)
		}
	}
	return nil
}

func normalizeGenres(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !containsInt(out, id) {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

func copyBook(b model.Book) model.Book {
	b.GenreIDs = append([]int{}, b.GenreIDs...)
	return b
}

func (m *MemoryDB) CreateBook(_ context.Context, book model.Book) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkBookRefs(book); err != nil {
		return model.Book{}, err
	}
	book.ID = m.nextID("book")
	book.GenreIDs = normalizeGenres(book.GenreIDs)
	m.books[book.ID] = book
	return copyBook(book), nil
}

func (m *MemoryDB) GetBook(_ context.Context, id int) (model.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	return copyBook(b), nil
}

func (m *MemoryDB) ListBooks(_ context.Context, filter model.BookFilter) (model.List[model.Book], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var items []model.Book
	for _, b := range m.books {
		if len(filter.IDs) > 0 && !containsInt(filter.IDs, b.ID) {
			continue
		}
		if filter.AuthorID != nil && (b.AuthorID == nil || *b.AuthorID != *filter.AuthorID) {
			continue
		}
		if filter.LanguageID != nil && (b.LanguageID == nil || *b.LanguageID != *filter.LanguageID) {
			continue
		}
		if filter.GenreID != nil && !containsInt(b.GenreIDs, *filter.GenreID) {
			continue
		}
		if filter.Title != "" && !model.ContainsFold(b.Title, filter.Title) {
			continue
		}
		items = append(items, copyBook(b))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return page(items, filter.Page), nil
}

func (m *MemoryDB) UpdateBook(_ context.Context, book model.Book) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[book.ID]; !ok {
		return model.Book{}, errs.ErrNotFound
	}
	if err := m.checkBookRefs(book); err != nil {
		return model.Book{}, err
	}
	book.GenreIDs = normalizeGenres(book.GenreIDs)
	m.books[book.ID] = book
	return copyBook(book), nil
}

func (m *MemoryDB) DeleteBook(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.books, id)
	for iid, inst := range m.instances {
		if inst.BookID != nil && *inst.BookID == id {
			inst.BookID = nil
			m.instances[iid] = inst
		}
	}
	return nil
}

func (m *MemoryDB) checkInstanceRefs(inst model.BookInstance) error {
	if inst.BookID != nil {
		if _, ok := m.books[*inst.BookID]; !ok {
			return errs.NewValidationError("bookId", invalidChoice)
		}
	}
	return nil
}

func (m *MemoryDB) CreateBookInstance(_ context.Context, inst model.BookInstance) (model.BookInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.instances[inst.ID]; ok {
		return model.BookInstance{}, errs.NewValidationError("id", "an entry with this value already exists")
	}
	if err := m.checkInstanceRefs(inst); err != nil {
		return model.BookInstance{}, err
	}
	if inst.Status == "" {
		inst.Status = model.StatusMaintenance
	}
	m.instances[inst.ID] = inst
	return inst, nil
}

func (m *MemoryDB) GetBookInstance(_ context.Context, id uuid.UUID) (model.BookInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.instances[id]
	if !ok {
		return model.BookInstance{}, errs.ErrNotFound
	}
	return inst, nil
}

func matchInstance(f model.InstanceFilter, inst model.BookInstance) bool {
	if len(f.IDs) > 0 {
		found := false
		for _, id := range f.IDs {
			if id == inst.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.BookID != nil && (inst.BookID == nil || *inst.BookID != *f.BookID) {
		return false
	}
	if f.Status != nil && inst.Status != *f.Status {
		return false
	}
	if f.Borrower != nil && (inst.Borrower == nil || *inst.Borrower != *f.Borrower) {
		return false
	}
	if f.HasDueBack != nil && *f.HasDueBack != (inst.DueBack != nil) {
		return false
	}
	if f.DueFrom != nil && (inst.DueBack == nil || inst.DueBack.Before(f.DueFrom.Time)) {
		return false
	}
	if f.DueTo != nil && (inst.DueBack == nil || !inst.DueBack.Before(f.DueTo.Time)) {
		return false
	}
	return true
}

func (m *MemoryDB) ListBookInstances(_ context.Context, filter model.InstanceFilter) (model.List[model.BookInstance], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var items []model.BookInstance
	for _, inst := range m.instances {
		if matchInstance(filter, inst) {
			items = append(items, inst)
		}
	}
	// due_back ascending, undated last
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i].DueBack, items[j].DueBack
		switch {
		case a != nil && b != nil && !a.Equal(b.Time):
			return a.Before(b.Time)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return strings.Compare(items[i].ID.String(), items[j].ID.String()) < 0
	})
	return page(items, filter.Page), nil
}

func (m *MemoryDB) UpdateBookInstance(_ context.Context, inst model.BookInstance) (model.BookInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.instances[inst.ID]; !ok {
		return model.BookInstance{}, errs.ErrNotFound
	}
	if err := m.checkInstanceRefs(inst); err != nil {
		return model.BookInstance{}, err
	}
	m.instances[inst.ID] = inst
	return inst, nil
}

func (m *MemoryDB) DeleteBookInstance(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.instances[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.instances, id)
	return nil
}
