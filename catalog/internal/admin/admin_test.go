package admin_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-catalog/catalog/internal/admin"
	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/catalog/internal/repository/stubs"
	"github.com/Astemirdum/library-catalog/catalog/internal/service"
)

var now = time.Date(2024, time.May, 15, 9, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	svc     *service.Service
	screens *admin.Screens
	author  model.Author
	lang    model.Language
	genres  []model.Genre
	book    model.Book
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	svc := service.NewService(stubs.NewMemoryDB(), nil, zap.NewNop(),
		service.WithClock(func() time.Time { return now }))
	site, err := admin.DefaultSite()
	require.NoError(t, err)

	f := &fixture{svc: svc, screens: admin.NewScreens(site, svc, zap.NewNop())}
	f.author, err = svc.CreateAuthor(ctx, model.Author{FirstName: "Frank", LastName: "Herbert"})
	require.NoError(t, err)
	f.lang, err = svc.CreateLanguage(ctx, model.Language{Name: "English"})
	require.NoError(t, err)
	for _, name := range []string{"Science Fiction", "Adventure", "Politics", "Ecology"} {
		g, err := svc.CreateGenre(ctx, model.Genre{Name: name})
		require.NoError(t, err)
		f.genres = append(f.genres, g)
	}
	f.book, err = svc.CreateBook(ctx, model.Book{
		Title:      "Dune",
		Summary:    "Spice and sand.",
		ISBN:       "9780441172719",
		AuthorID:   &f.author.ID,
		LanguageID: &f.lang.ID,
		GenreIDs:   []int{f.genres[0].ID, f.genres[1].ID, f.genres[2].ID, f.genres[3].ID},
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) instance(t *testing.T, status model.Status, due *model.Date, borrower string) model.BookInstance {
	t.Helper()
	inst := model.BookInstance{BookID: &f.book.ID, Imprint: "Chilton, 1965", Status: status, DueBack: due}
	if borrower != "" {
		inst.Borrower = &borrower
	}
	created, err := f.svc.CreateBookInstance(context.Background(), inst)
	require.NoError(t, err)
	return created
}

func TestNewSite(t *testing.T) {
	tests := []struct {
		name    string
		regs    []admin.Registration
		wantErr bool
	}{
		{
			name: "defaults",
			regs: []admin.Registration{admin.Register(admin.EntityGenre, admin.Options{})},
		},
		{
			name: "unknown list column",
			regs: []admin.Registration{admin.Register(admin.EntityBook, admin.Options{
				ListDisplay: admin.Fields("title", "publisher"),
			})},
			wantErr: true,
		},
		{
			name: "field that cannot be filtered",
			regs: []admin.Registration{admin.Register(admin.EntityBook, admin.Options{
				ListFilter: admin.Fields("summary"),
			})},
			wantErr: true,
		},
		{
			name: "unknown fieldset field",
			regs: []admin.Registration{admin.Register(admin.EntityAuthor, admin.Options{
				Fieldsets: []admin.Fieldset{{Fields: [][]string{{"first_name", "nickname"}}}},
			})},
			wantErr: true,
		},
		{
			name: "inline without a reference",
			regs: []admin.Registration{admin.Register(admin.EntityGenre, admin.Options{
				Inlines: []admin.Inline{{Entity: admin.EntityBookInstance}},
			})},
			wantErr: true,
		},
		{
			name: "unknown search field",
			regs: []admin.Registration{admin.Register(admin.EntityBook, admin.Options{
				SearchFields: admin.Fields("isbn"),
			})},
			wantErr: true,
		},
		{
			name: "registered twice",
			regs: []admin.Registration{
				admin.Register(admin.EntityGenre, admin.Options{}),
				admin.Register(admin.EntityGenre, admin.Options{}),
			},
			wantErr: true,
		},
		{
			name:    "unknown entity",
			regs:    []admin.Registration{admin.Register("publisher", admin.Options{})},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := admin.NewSite(tt.regs...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDefaultSite(t *testing.T) {
	site, err := admin.DefaultSite()
	require.NoError(t, err)
	require.Equal(t, []admin.Entity{
		admin.EntityGenre, admin.EntityLanguage, admin.EntityAuthor, admin.EntityBook, admin.EntityBookInstance,
	}, site.Entities())

	genre, err := site.Options(admin.EntityGenre)
	require.NoError(t, err)
	require.Equal(t, []string{"name"}, genre.ListDisplay)
	require.Equal(t, "genres", genre.VerboseNamePlural)

	book, err := site.Options(admin.EntityBook)
	require.NoError(t, err)
	require.Equal(t, []string{"language", "genre"}, book.ListFilter)
	require.Len(t, book.Inlines, 1)
	require.Equal(t, admin.EntityBookInstance, book.Inlines[0].Entity)

	inst, err := site.Options(admin.EntityBookInstance)
	require.NoError(t, err)
	require.Equal(t, "book instances", inst.VerboseNamePlural)
	require.Equal(t, "Availability", inst.Fieldsets[1].Name)

	_, err = site.Options("publisher")
	require.ErrorIs(t, err, errs.ErrUnknownEntity)
}

func TestScreens_Index(t *testing.T) {
	f := newFixture(t)
	index := f.screens.Index()
	require.Len(t, index.Entities, 5)
	require.Equal(t, "/admin/bookinstance/", index.Entities[4].URL)
	require.Equal(t, "book instances", index.Entities[4].VerboseNamePlural)
}

func TestScreens_ListBooks(t *testing.T) {
	f := newFixture(t)
	screen, err := f.screens.List(context.Background(), admin.EntityBook, admin.ListParams{})
	require.NoError(t, err)

	require.Equal(t, []admin.Column{
		{Name: "title", Label: "Title"},
		{Name: "author", Label: "Author"},
		{Name: "genre", Label: "Genre"},
	}, screen.Columns)
	require.Len(t, screen.Rows, 1)
	require.Equal(t, []string{"Dune", "Herbert Frank", "Science Fiction, Adventure, Politics"}, screen.Rows[0].Cells)
	require.True(t, screen.Searchable)

	require.Len(t, screen.Filters, 2)
	require.Equal(t, "language", screen.Filters[0].Name)
	require.True(t, screen.Filters[0].Choices[0].Selected)
	require.Equal(t, "English", screen.Filters[0].Choices[1].Label)
}

func TestScreens_ListInstancesFiltered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := model.DateOf(now)
	onLoan := f.instance(t, model.StatusOnLoan, ptr(today.AddDays(-3)), "paul")
	f.instance(t, model.StatusAvailable, nil, "")
	f.instance(t, model.StatusOnLoan, ptr(today.AddDays(-30)), "leto")

	tests := []struct {
		name    string
		filters map[string]string
		rows    int
	}{
		{name: "no filter", rows: 3},
		{name: "on loan", filters: map[string]string{"status": "o"}, rows: 2},
		{name: "status label", filters: map[string]string{"status": "Available"}, rows: 1},
		{name: "past 7 days", filters: map[string]string{"due_back": "past_7_days"}, rows: 1},
		{name: "no date", filters: map[string]string{"due_back": "no_date"}, rows: 1},
		{name: "has date", filters: map[string]string{"due_back": "has_date"}, rows: 2},
		{name: "this month", filters: map[string]string{"due_back": "this_month"}, rows: 1},
		{name: "this year", filters: map[string]string{"due_back": "this_year"}, rows: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen, err := f.screens.List(ctx, admin.EntityBookInstance, admin.ListParams{Filters: tt.filters})
			require.NoError(t, err)
			require.Len(t, screen.Rows, tt.rows)
			require.Equal(t, tt.rows, screen.TotalElements)
		})
	}

	screen, err := f.screens.List(ctx, admin.EntityBookInstance, admin.ListParams{
		Filters: map[string]string{"due_back": "past_7_days"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Dune", "On loan", "paul", today.AddDays(-3).String(), onLoan.ID.String()},
		screen.Rows[0].Cells)
	for _, fv := range screen.Filters {
		if fv.Name != "due_back" {
			continue
		}
		for _, c := range fv.Choices {
			require.Equal(t, c.Value == "past_7_days", c.Selected, c.Value)
		}
	}

	_, err = f.screens.List(ctx, admin.EntityBookInstance, admin.ListParams{
		Filters: map[string]string{"due_back": "next_week"},
	})
	_, ok := errs.AsValidation(err)
	require.True(t, ok)

	_, err = f.screens.List(ctx, "publisher", admin.ListParams{})
	require.ErrorIs(t, err, errs.ErrUnknownEntity)
}

func TestScreens_FormBookWithInlines(t *testing.T) {
	f := newFixture(t)
	f.instance(t, model.StatusOnLoan, ptr(model.DateOf(now).AddDays(-1)), "paul")
	f.instance(t, model.StatusAvailable, nil, "")

	screen, err := f.screens.Form(context.Background(), admin.EntityBook, "1")
	require.NoError(t, err)
	require.Equal(t, "Dune", screen.Title)
	require.Len(t, screen.Fieldsets, 1)

	var names []string
	for _, row := range screen.Fieldsets[0].Rows {
		names = append(names, row[0].Name)
	}
	require.Equal(t, []string{"title", "author", "summary", "isbn", "language", "genre"}, names)

	author := screen.Fieldsets[0].Rows[1][0]
	require.Equal(t, "Herbert Frank", author.Display)
	require.Equal(t, "1", author.Value)
	require.Len(t, author.Choices, 1)

	isbn := screen.Fieldsets[0].Rows[3][0]
	require.Equal(t, "ISBN", isbn.Label)
	require.Contains(t, isbn.HelpText, "13 Character")
	require.True(t, isbn.Required)

	genre := screen.Fieldsets[0].Rows[5][0]
	require.Len(t, genre.Values, 4)
	require.Len(t, genre.Choices, 4)

	require.Len(t, screen.Inlines, 1)
	inline := screen.Inlines[0]
	require.Equal(t, admin.EntityBookInstance, inline.Entity)
	require.Equal(t, 3, inline.TotalForms)
	require.Equal(t, "bookinstance-2-", inline.Rows[2].Prefix)
	require.Empty(t, inline.Rows[2].ID)
	require.NotEmpty(t, inline.Rows[0].ID)
	require.Equal(t, "status", inline.Rows[0].Fields[1].Name)
	require.Len(t, inline.Rows[0].Fields[1].Choices, 4)

	_, err = f.screens.Form(context.Background(), admin.EntityBook, "42")
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = f.screens.Form(context.Background(), admin.EntityBook, "dune")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestScreens_FormAdd(t *testing.T) {
	f := newFixture(t)
	screen, err := f.screens.Form(context.Background(), admin.EntityBookInstance, "")
	require.NoError(t, err)
	require.Equal(t, "Add book instance", screen.Title)
	require.Empty(t, screen.ID)

	status := screen.Fieldsets[1].Rows[0][0]
	require.Equal(t, "status", status.Name)
	require.Equal(t, "m", status.Value)
	require.Equal(t, "Maintenance", status.Display)

	id := screen.Fieldsets[0].Rows[2][0]
	require.True(t, id.ReadOnly)
}

func TestScreens_SaveBookWithInlines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lent := f.instance(t, model.StatusOnLoan, ptr(model.DateOf(now).AddDays(-1)), "paul")
	spare := f.instance(t, model.StatusAvailable, nil, "")

	form := url.Values{
		"title":                    {"Dune Messiah"},
		"author":                   {"1"},
		"summary":                  {"The sequel."},
		"isbn":                     {"9780593098233"},
		"language":                 {""},
		"genre":                    {"1", "2"},
		"bookinstance-TOTAL_FORMS": {"4"},
		"bookinstance-0-id":        {lent.ID.String()},
		"bookinstance-0-imprint":   {"Chilton, 1965"},
		"bookinstance-0-status":    {"a"},
		"bookinstance-0-due_back":  {""},
		"bookinstance-0-borrower":  {""},
		"bookinstance-1-id":        {spare.ID.String()},
		"bookinstance-1-DELETE":    {"on"},
		"bookinstance-2-imprint":   {"Ace, 1987"},
		"bookinstance-2-status":    {"o"},
		"bookinstance-2-due_back":  {"2024-06-01"},
		"bookinstance-2-borrower":  {"alia"},
		"bookinstance-3-status":    {"m"},
	}
	screen, err := f.screens.Save(ctx, admin.EntityBook, "1", form)
	require.NoError(t, err)
	require.Equal(t, "Dune Messiah", screen.Title)

	book, err := f.svc.GetBook(ctx, f.book.ID)
	require.NoError(t, err)
	require.Equal(t, "Dune Messiah", book.Title)
	require.Nil(t, book.LanguageID)
	require.ElementsMatch(t, []int{f.genres[0].ID, f.genres[1].ID}, book.GenreIDs)

	returned, err := f.svc.GetBookInstance(ctx, lent.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusAvailable, returned.Status)
	require.Nil(t, returned.DueBack)
	require.Nil(t, returned.Borrower)

	_, err = f.svc.GetBookInstance(ctx, spare.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)

	list, err := f.svc.ListBookInstances(ctx, model.InstanceFilter{BookID: &f.book.ID})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	created := list.Items[0]
	require.Equal(t, "Ace, 1987", created.Imprint)
	require.Equal(t, "alia", *created.Borrower)
	require.Equal(t, model.NewDate(2024, time.June, 1), *created.DueBack)
}

func TestScreens_SaveRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	form := url.Values{
		"title":                    {""},
		"summary":                  {"Spice and sand."},
		"isbn":                     {"9780441172719"},
		"author":                   {"99"},
		"bookinstance-TOTAL_FORMS": {"1"},
		"bookinstance-0-imprint":   {"Ace"},
		"bookinstance-0-due_back":  {"tomorrow"},
	}
	screen, err := f.screens.Save(ctx, admin.EntityBook, "1", form)
	vErr, ok := errs.AsValidation(err)
	require.True(t, ok)
	require.Contains(t, vErr.Fields, "title")
	require.Contains(t, vErr.Fields, "bookinstance-0-due_back")
	require.Equal(t, vErr.Fields, screen.Errors)
	require.Equal(t, "Ace", screen.Inlines[0].Rows[0].Fields[0].Value)

	book, err := f.svc.GetBook(ctx, f.book.ID)
	require.NoError(t, err)
	require.Equal(t, "Dune", book.Title)
	list, err := f.svc.ListBookInstances(ctx, model.InstanceFilter{})
	require.NoError(t, err)
	require.Empty(t, list.Items)

	// a dangling reference is only caught by storage
	form.Set("title", "Dune")
	form.Set("bookinstance-TOTAL_FORMS", "0")
	_, err = f.screens.Save(ctx, admin.EntityBook, "1", form)
	vErr, ok = errs.AsValidation(err)
	require.True(t, ok)
	require.Contains(t, vErr.Fields, "author")
}

func TestScreens_SaveRejectsBadTotalForms(t *testing.T) {
	tests := []struct {
		name  string
		total string
		want  string
	}{
		{name: "negative", total: "-1", want: "management form data is missing or has been tampered with"},
		{name: "not a number", total: "many", want: "management form data is missing or has been tampered with"},
		{name: "over the cap", total: "1001", want: "please submit at most 1000 forms"},
		{name: "far over the cap", total: "10000000000", want: "please submit at most 1000 forms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			screen, err := f.screens.Save(ctx, admin.EntityBook, "1", url.Values{
				"title":                    {"Dune Messiah"},
				"summary":                  {"Spice and sand."},
				"isbn":                     {"9780441172719"},
				"bookinstance-TOTAL_FORMS": {tt.total},
			})
			vErr, ok := errs.AsValidation(err)
			require.True(t, ok)
			require.Equal(t, map[string]string{"bookinstance-TOTAL_FORMS": tt.want}, vErr.Fields)
			require.Equal(t, vErr.Fields, screen.Errors)
			require.Empty(t, screen.Inlines[0].Rows)

			book, err := f.svc.GetBook(ctx, f.book.ID)
			require.NoError(t, err)
			require.Equal(t, "Dune", book.Title)
		})
	}
}

func TestScreens_SaveAddAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	screen, err := f.screens.Save(ctx, admin.EntityAuthor, "", url.Values{
		"first_name":       {"Isaac"},
		"last_name":        {"Asimov"},
		"date_of_birth":    {"1920-01-02"},
		"date_of_death":    {"1992-04-06"},
		"book-TOTAL_FORMS": {"1"},
		"book-0-title":     {"Foundation"},
		"book-0-summary":   {"Psychohistory."},
		"book-0-isbn":      {"9780553293357"},
	})
	require.NoError(t, err)
	require.Equal(t, "Asimov Isaac", screen.Title)
	require.Equal(t, "Died", screen.Fieldsets[0].Rows[2][1].Label)
	require.Equal(t, "1992-04-06", screen.Fieldsets[0].Rows[2][1].Value)
	require.Len(t, screen.Inlines[0].Rows, 1)
	require.Equal(t, "Foundation", screen.Inlines[0].Rows[0].Fields[0].Value)

	require.NoError(t, f.screens.Delete(ctx, admin.EntityAuthor, screen.ID))
	books, err := f.svc.ListBooks(ctx, model.BookFilter{Title: "Foundation"})
	require.NoError(t, err)
	require.Len(t, books.Items, 1)
	require.Nil(t, books.Items[0].AuthorID)

	err = f.screens.Delete(ctx, admin.EntityAuthor, screen.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
