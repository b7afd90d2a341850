package admin

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
)

type filterSpec struct {
	label   string
	choices func(ctx context.Context, c Catalog) ([]model.Choice, error)
}

var filterSpecs = map[Entity]map[string]filterSpec{
	EntityBook: {
		"author":   {label: "Author", choices: authorChoices},
		"language": {label: "Language", choices: languageChoices},
		"genre":    {label: "Genre", choices: genreChoices},
	},
	EntityBookInstance: {
		"book":     {label: "Book", choices: bookChoices},
		"status":   {label: "Status", choices: statusChoices},
		"due_back": {label: "Due back", choices: dueBackChoices},
	},
}

// searchFields lists the fields each entity's list search can match.
var searchFields = map[Entity][]string{
	EntityGenre:        {"name"},
	EntityLanguage:     {"name"},
	EntityAuthor:       {"first_name", "last_name"},
	EntityBook:         {"title"},
	EntityBookInstance: {"borrower"},
}

const (
	dueToday     = "today"
	duePast7Days = "past_7_days"
	dueThisMonth = "this_month"
	dueThisYear  = "this_year"
	dueNoDate    = "no_date"
	dueHasDate   = "has_date"
)

func dueBackChoices(context.Context, Catalog) ([]model.Choice, error) {
	return []model.Choice{
		{Value: dueToday, Label: "Today"},
		{Value: duePast7Days, Label: "Past 7 days"},
		{Value: dueThisMonth, Label: "This month"},
		{Value: dueThisYear, Label: "This year"},
		{Value: dueNoDate, Label: "No date"},
		{Value: dueHasDate, Label: "Has date"},
	}, nil
}

// applyDueBack narrows f to the chosen due_back window, relative to today.
func applyDueBack(f *model.InstanceFilter, choice string, today model.Date) error {
	has := true
	switch choice {
	case "":
		return nil
	case dueToday:
		f.DueFrom, f.DueTo = datePtr(today), datePtr(today.AddDays(1))
	case duePast7Days:
		f.DueFrom, f.DueTo = datePtr(today.AddDays(-7)), datePtr(today.AddDays(1))
	case dueThisMonth:
		first := model.NewDate(today.Year(), today.Month(), 1)
		f.DueFrom, f.DueTo = datePtr(first), datePtr(model.DateOf(first.AddDate(0, 1, 0)))
	case dueThisYear:
		first := model.NewDate(today.Year(), time.January, 1)
		f.DueFrom, f.DueTo = datePtr(first), datePtr(model.NewDate(today.Year()+1, time.January, 1))
	case dueNoDate:
		has = false
		f.HasDueBack = &has
	case dueHasDate:
		f.HasDueBack = &has
	default:
		return errs.NewValidationError("due_back", fmt.Sprintf("select a valid choice: %s is not one of the available choices", choice))
	}
	return nil
}

func datePtr(d model.Date) *model.Date { return &d }

func statusChoices(context.Context, Catalog) ([]model.Choice, error) {
	return model.StatusChoices(), nil
}

func genreChoices(ctx context.Context, c Catalog) ([]model.Choice, error) {
	list, err := c.ListGenres(ctx, model.NameFilter{})
	if err != nil {
		return nil, err
	}
	return choicesOf(list.Items, func(g model.Genre) int { return g.ID }), nil
}

func languageChoices(ctx context.Context, c Catalog) ([]model.Choice, error) {
	list, err := c.ListLanguages(ctx, model.NameFilter{})
	if err != nil {
		return nil, err
	}
	return choicesOf(list.Items, func(l model.Language) int { return l.ID }), nil
}

func authorChoices(ctx context.Context, c Catalog) ([]model.Choice, error) {
	list, err := c.ListAuthors(ctx, model.NameFilter{})
	if err != nil {
		return nil, err
	}
	return choicesOf(list.Items, func(a model.Author) int { return a.ID }), nil
}

func bookChoices(ctx context.Context, c Catalog) ([]model.Choice, error) {
	list, err := c.ListBooks(ctx, model.BookFilter{})
	if err != nil {
		return nil, err
	}
	return choicesOf(list.Items, func(b model.Book) int { return b.ID }), nil
}

func choicesOf[T fmt.Stringer](items []T, id func(T) int) []model.Choice {
	choices := make([]model.Choice, 0, len(items))
	for _, it := range items {
		choices = append(choices, model.Choice{Value: strconv.Itoa(id(it)), Label: it.String()})
	}
	return choices
}

// refChoices returns the selectable values of a reference field.
func refChoices(ctx context.Context, c Catalog, ref Entity) ([]model.Choice, error) {
	switch ref {
	case EntityGenre:
		return genreChoices(ctx, c)
	case EntityLanguage:
		return languageChoices(ctx, c)
	case EntityAuthor:
		return authorChoices(ctx, c)
	case EntityBook:
		return bookChoices(ctx, c)
	}
	return nil, errs.ErrUnknownEntity
}
