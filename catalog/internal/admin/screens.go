package admin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
)

// Catalog is the part of the catalog service the admin screens drive.
type Catalog interface {
	Validate(v interface{}) error
	Today() model.Date
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
	UpdateBookInstance(ctx context.Context, inst model.BookInstance) (model.BookInstance, error)
	DeleteBookInstance(ctx context.Context, id uuid.UUID) error
}

type EntityLink struct {
	Entity            Entity `json:"entity"`
	VerboseName       string `json:"verboseName"`
	VerboseNamePlural string `json:"verboseNamePlural"`
	URL               string `json:"url"`
	AddURL            string `json:"addUrl"`
}

type IndexScreen struct {
	Entities []EntityLink `json:"entities"`
}

type Column struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type Row struct {
	ID    string   `json:"id"`
	URL   string   `json:"url"`
	Cells []string `json:"cells"`
}

type FilterChoice struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type FilterView struct {
	Name    string         `json:"name"`
	Label   string         `json:"label"`
	Choices []FilterChoice `json:"choices"`
}

type ListScreen struct {
	EntityLink
	Columns    []Column     `json:"columns"`
	Rows       []Row        `json:"rows"`
	Filters    []FilterView `json:"filters,omitempty"`
	Searchable bool         `json:"searchable"`
	Search     string       `json:"search,omitempty"`
	model.Paging
}

type FieldView struct {
	Name     string         `json:"name"`
	Label    string         `json:"label"`
	Kind     string         `json:"kind"`
	Value    string         `json:"value,omitempty"`
	Values   []string       `json:"values,omitempty"`
	Display  string         `json:"display"`
	Required bool           `json:"required"`
	ReadOnly bool           `json:"readOnly"`
	HelpText string         `json:"helpText,omitempty"`
	Choices  []model.Choice `json:"choices,omitempty"`
	Error    string         `json:"error,omitempty"`
}

type FieldsetView struct {
	Name string        `json:"name,omitempty"`
	Rows [][]FieldView `json:"rows"`
}

type InlineRow struct {
	ID     string      `json:"id,omitempty"`
	Prefix string      `json:"prefix"`
	Fields []FieldView `json:"fields"`
}

type InlineView struct {
	Entity            Entity      `json:"entity"`
	VerboseNamePlural string      `json:"verboseNamePlural"`
	Columns           []Column    `json:"columns"`
	Rows              []InlineRow `json:"rows"`
	TotalForms        int         `json:"totalForms"`
}

type FormScreen struct {
	EntityLink
	ID        string            `json:"id,omitempty"`
	Title     string            `json:"title"`
	Fieldsets []FieldsetView    `json:"fieldsets"`
	Inlines   []InlineView      `json:"inlines,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// ListParams carries the list screen's query: filter selections by filter
// name, a search term and the page.
type ListParams struct {
	Filters map[string]string
	Search  string
	Page    model.Page
}

type Screens struct {
	site     *Site
	catalog  Catalog
	adapters map[Entity]adapter
	log      *zap.Logger
}

func NewScreens(site *Site, catalog Catalog, log *zap.Logger) *Screens {
	return &Screens{
		site:     site,
		catalog:  catalog,
		adapters: adapters(catalog),
		log:      log.Named("admin"),
	}
}

func (s *Screens) link(entity Entity, opts Options) EntityLink {
	return EntityLink{
		Entity:            entity,
		VerboseName:       opts.VerboseName,
		VerboseNamePlural: opts.VerboseNamePlural,
		URL:               fmt.Sprintf("/admin/%s/", entity),
		AddURL:            fmt.Sprintf("/admin/%s/add", entity),
	}
}

func (s *Screens) Index() IndexScreen {
	entities := s.site.Entities()
	out := IndexScreen{Entities: make([]EntityLink, 0, len(entities))}
	for _, e := range entities {
		opts, _ := s.site.Options(e)
		out.Entities = append(out.Entities, s.link(e, opts))
	}
	return out
}

func (s *Screens) lookup(entity Entity) (Options, adapter, error) {
	opts, err := s.site.Options(entity)
	if err != nil {
		return Options{}, nil, err
	}
	return opts, s.adapters[entity], nil
}

func (s *Screens) List(ctx context.Context, entity Entity, params ListParams) (ListScreen, error) {
	opts, ad, err := s.lookup(entity)
	if err != nil {
		return ListScreen{}, err
	}
	q := query{filters: make(map[string]string, len(opts.ListFilter)), page: params.Page}
	for _, name := range opts.ListFilter {
		if v := strings.TrimSpace(params.Filters[name]); v != "" {
			q.filters[name] = v
		}
	}
	if len(opts.SearchFields) > 0 {
		q.search = strings.TrimSpace(params.Search)
	}
	recs, paging, err := ad.list(ctx, q)
	if err != nil {
		return ListScreen{}, err
	}

	rf := refs{}
	for _, rec := range recs {
		rec.collect(rf)
	}
	filterChoices := make([][]model.Choice, len(opts.ListFilter))
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return rf.load(gCtx, s.catalog) })
	for i, name := range opts.ListFilter {
		i, spec := i, filterSpecs[entity][name]
		g.Go(func() error {
			choices, err := spec.choices(gCtx, s.catalog)
			filterChoices[i] = choices
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return ListScreen{}, err
	}

	sch := schemas[entity]
	rc := renderContext{refs: rf, c: s.catalog}
	screen := ListScreen{
		EntityLink: s.link(entity, opts),
		Columns:    make([]Column, 0, len(opts.ListDisplay)),
		Rows:       make([]Row, 0, len(recs)),
		Searchable: len(opts.SearchFields) > 0,
		Search:     q.search,
		Paging:     paging,
	}
	for _, name := range opts.ListDisplay {
		f, _ := sch.field(name)
		screen.Columns = append(screen.Columns, Column{Name: name, Label: f.label})
	}
	for _, rec := range recs {
		row := Row{ID: rec.pk(), URL: screen.URL + rec.pk(), Cells: make([]string, 0, len(opts.ListDisplay))}
		for _, name := range opts.ListDisplay {
			row.Cells = append(row.Cells, rec.display(name, rc))
		}
		screen.Rows = append(screen.Rows, row)
	}
	for i, name := range opts.ListFilter {
		selected := q.filters[name]
		fv := FilterView{Name: name, Label: filterSpecs[entity][name].label}
		fv.Choices = append(fv.Choices, FilterChoice{Label: "All", Selected: selected == ""})
		for _, c := range filterChoices[i] {
			fv.Choices = append(fv.Choices, FilterChoice{Value: c.Value, Label: c.Label, Selected: c.Value == selected})
		}
		screen.Filters = append(screen.Filters, fv)
	}
	return screen, nil
}

// Form builds the add screen when id is empty, the change screen otherwise.
func (s *Screens) Form(ctx context.Context, entity Entity, id string) (FormScreen, error) {
	opts, ad, err := s.lookup(entity)
	if err != nil {
		return FormScreen{}, err
	}
	if id == "" {
		return s.render(ctx, entity, opts, ad.blank(), make([][]record, len(opts.Inlines)), true, nil)
	}

	var (
		rec    record
		getErr error
	)
	children := make([][]record, len(opts.Inlines))
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, getErr = ad.get(gCtx, id)
		return nil
	})
	for i, in := range opts.Inlines {
		i, in := i, in
		g.Go(func() error {
			link := inlineLinks[[2]Entity{entity, in.Entity}]
			recs, _, err := s.adapters[in.Entity].list(gCtx, query{filters: map[string]string{link: id}})
			children[i] = recs
			return err
		})
	}
	err = g.Wait()
	if getErr != nil {
		return FormScreen{}, getErr
	}
	if err != nil {
		return FormScreen{}, err
	}
	return s.render(ctx, entity, opts, rec, children, true, nil)
}

func (s *Screens) render(ctx context.Context, entity Entity, opts Options, rec record,
	children [][]record, extra bool, fieldErrs map[string]string,
) (FormScreen, error) {
	rf := refs{}
	rec.collect(rf)
	for _, rows := range children {
		for _, child := range rows {
			child.collect(rf)
		}
	}

	sch := schemas[entity]
	wanted := make(map[Entity]struct{})
	for _, fs := range opts.Fieldsets {
		for _, row := range fs.Fields {
			for _, name := range row {
				if f, _ := sch.field(name); f.ref != "" {
					wanted[f.ref] = struct{}{}
				}
			}
		}
	}
	for _, in := range opts.Inlines {
		child := schemas[in.Entity]
		for _, name := range in.Fields {
			if f, _ := child.field(name); f.ref != "" {
				wanted[f.ref] = struct{}{}
			}
		}
	}
	choices := make(map[Entity][]model.Choice, len(wanted))
	loaded := make([][]model.Choice, 0, len(wanted))
	order := make([]Entity, 0, len(wanted))
	for e := range wanted {
		order = append(order, e)
		loaded = append(loaded, nil)
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return rf.load(gCtx, s.catalog) })
	for i, e := range order {
		i, e := i, e
		g.Go(func() error {
			c, err := refChoices(gCtx, s.catalog, e)
			loaded[i] = c
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return FormScreen{}, err
	}
	for i, e := range order {
		choices[e] = loaded[i]
	}

	rc := renderContext{refs: rf, c: s.catalog}
	screen := FormScreen{
		EntityLink: s.link(entity, opts),
		ID:         rec.pk(),
		Errors:     fieldErrs,
	}
	if screen.ID == "" {
		screen.Title = "Add " + opts.VerboseName
	} else {
		screen.Title = rec.display(sch.strField, rc)
	}
	for _, fs := range opts.Fieldsets {
		view := FieldsetView{Name: fs.Name}
		for _, row := range fs.Fields {
			fields := make([]FieldView, 0, len(row))
			for _, name := range row {
				f, _ := sch.field(name)
				fields = append(fields, fieldView(f, rec, rc, choices, fieldErrs[name]))
			}
			view.Rows = append(view.Rows, fields)
		}
		screen.Fieldsets = append(screen.Fieldsets, view)
	}

	for i, in := range opts.Inlines {
		child := schemas[in.Entity]
		childOpts, err := s.site.Options(in.Entity)
		if err != nil {
			childOpts = Options{VerboseNamePlural: child.verboseName + "s"}
		}
		view := InlineView{Entity: in.Entity, VerboseNamePlural: childOpts.VerboseNamePlural}
		for _, name := range in.Fields {
			f, _ := child.field(name)
			view.Columns = append(view.Columns, Column{Name: name, Label: f.label})
		}
		rows := children[i]
		if extra {
			for n := 0; n < in.Extra; n++ {
				rows = append(rows, s.adapters[in.Entity].blank())
			}
		}
		for idx, childRec := range rows {
			prefix := fmt.Sprintf("%s-%d-", in.Entity, idx)
			ir := InlineRow{ID: childRec.pk(), Prefix: prefix}
			for _, name := range in.Fields {
				f, _ := child.field(name)
				ir.Fields = append(ir.Fields, fieldView(f, childRec, rc, choices, fieldErrs[prefix+name]))
			}
			view.Rows = append(view.Rows, ir)
		}
		view.TotalForms = len(view.Rows)
		screen.Inlines = append(screen.Inlines, view)
	}
	return screen, nil
}

func fieldView(f fieldSpec, rec record, rc renderContext, choices map[Entity][]model.Choice, fieldErr string) FieldView {
	v := FieldView{
		Name:     f.name,
		Label:    f.label,
		Kind:     string(f.kind),
		Display:  rec.display(f.name, rc),
		Required: f.required,
		ReadOnly: !f.editable(),
		HelpText: f.help,
		Error:    fieldErr,
	}
	vals := rec.values(f.name)
	if f.kind == kindM2M {
		v.Values = vals
	} else {
		v.Value = first(vals)
	}
	switch f.kind {
	case kindFK, kindM2M:
		v.Choices = choices[f.ref]
	case kindChoice:
		v.Choices = model.StatusChoices()
	}
	return v
}

type inlineRow struct {
	id     string
	delete bool
	rec    record
}

// Save applies a submitted form. Inline rows use the formset naming
// "<entity>-<index>-<field>" with "<entity>-TOTAL_FORMS" giving the row count
// and "<entity>-<index>-DELETE" marking rows for removal. Nothing is written
// unless the entity and every inline row validate. On a validation failure the
// returned screen carries the submitted values and the error is an
// *errs.ValidationError.
func (s *Screens) Save(ctx context.Context, entity Entity, id string, form url.Values) (FormScreen, error) {
	opts, ad, err := s.lookup(entity)
	if err != nil {
		return FormScreen{}, err
	}
	create := id == ""
	rec := ad.blank()
	if !create {
		if rec, err = ad.get(ctx, id); err != nil {
			return FormScreen{}, err
		}
	}

	sch := schemas[entity]
	fieldErrs := make(map[string]string)
	for _, fs := range opts.Fieldsets {
		for _, row := range fs.Fields {
			for _, name := range row {
				if f, _ := sch.field(name); !f.editable() {
					continue
				}
				if err := rec.set(name, form[name]); err != nil {
					fieldErrs[name] = err.Error()
				}
			}
		}
	}
	if err := s.validate(sch, rec, "", fieldErrs); err != nil {
		return FormScreen{}, err
	}
	rows, err := s.decodeInlines(ctx, entity, opts, id, form, fieldErrs)
	if err != nil {
		return FormScreen{}, err
	}
	if len(fieldErrs) > 0 {
		return s.rejected(ctx, entity, opts, rec, rows, fieldErrs)
	}

	saved, err := ad.save(ctx, rec, create)
	if err != nil {
		if mapped := mapErrors(sch, "", err, fieldErrs); mapped {
			return s.rejected(ctx, entity, opts, rec, rows, fieldErrs)
		}
		return FormScreen{}, errors.Wrapf(err, "save %s", entity)
	}
	for i, in := range opts.Inlines {
		link := inlineLinks[[2]Entity{entity, in.Entity}]
		cad := s.adapters[in.Entity]
		for idx, row := range rows[i] {
			if row == nil {
				continue
			}
			prefix := fmt.Sprintf("%s-%d-", in.Entity, idx)
			if row.delete {
				if err := cad.delete(ctx, row.id); err != nil && !errors.Is(err, errs.ErrNotFound) {
					return FormScreen{}, errors.Wrapf(err, "delete %s %s", in.Entity, row.id)
				}
				continue
			}
			if err := row.rec.set(link, []string{saved.pk()}); err != nil {
				return FormScreen{}, err
			}
			if _, err := cad.save(ctx, row.rec, row.id == ""); err != nil {
				if mapErrors(schemas[in.Entity], prefix, err, fieldErrs) {
					return s.rejected(ctx, entity, opts, saved, rows, fieldErrs)
				}
				return FormScreen{}, errors.Wrapf(err, "save %s", in.Entity)
			}
		}
	}
	s.log.Info("admin save", zap.String("entity", string(entity)), zap.String("id", saved.pk()),
		zap.Bool("created", create))
	return s.Form(ctx, entity, saved.pk())
}

func (s *Screens) Delete(ctx context.Context, entity Entity, id string) error {
	_, ad, err := s.lookup(entity)
	if err != nil {
		return err
	}
	if err := ad.delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("admin delete", zap.String("entity", string(entity)), zap.String("id", id))
	return nil
}

func (s *Screens) rejected(ctx context.Context, entity Entity, opts Options, rec record,
	rows [][]*inlineRow, fieldErrs map[string]string,
) (FormScreen, error) {
	children := make([][]record, len(opts.Inlines))
	for i, in := range opts.Inlines {
		for _, row := range rows[i] {
			if row == nil {
				children[i] = append(children[i], s.adapters[in.Entity].blank())
				continue
			}
			children[i] = append(children[i], row.rec)
		}
	}
	screen, err := s.render(ctx, entity, opts, rec, children, false, fieldErrs)
	if err != nil {
		return FormScreen{}, err
	}
	return screen, &errs.ValidationError{Fields: fieldErrs}
}

// decodeInlines reads the submitted inline rows. A nil row is an untouched blank row.
func (s *Screens) decodeInlines(ctx context.Context, entity Entity, opts Options, parentID string,
	form url.Values, fieldErrs map[string]string,
) ([][]*inlineRow, error) {
	out := make([][]*inlineRow, len(opts.Inlines))
	for i, in := range opts.Inlines {
		link := inlineLinks[[2]Entity{entity, in.Entity}]
		cad := s.adapters[in.Entity]
		child := schemas[in.Entity]
		totalKey := fmt.Sprintf("%s-TOTAL_FORMS", in.Entity)
		total, err := totalForms(form.Get(totalKey))
		if err != nil {
			fieldErrs[totalKey] = err.Error()
			continue
		}
		rows := make([]*inlineRow, total)
		for idx := 0; idx < total; idx++ {
			prefix := fmt.Sprintf("%s-%d-", in.Entity, idx)
			id := strings.TrimSpace(form.Get(prefix + "id"))
			del := checked(form.Get(prefix + "DELETE"))
			var rec record
			if id == "" {
				if del || untouched(cad.blank(), child, in.Fields, form, prefix) {
					continue
				}
				rec = cad.blank()
			} else {
				var err error
				rec, err = cad.get(ctx, id)
				if errors.Is(err, errs.ErrNotFound) {
					fieldErrs[prefix+"id"] = invalidChoice
					continue
				}
				if err != nil {
					return nil, err
				}
				if parentID == "" || first(rec.values(link)) != parentID {
					fieldErrs[prefix+"id"] = invalidChoice
					continue
				}
			}
			rows[idx] = &inlineRow{id: id, delete: del, rec: rec}
			if del {
				continue
			}
			for _, name := range in.Fields {
				if f, _ := child.field(name); !f.editable() {
					continue
				}
				if err := rec.set(name, form[prefix+name]); err != nil {
					fieldErrs[prefix+name] = err.Error()
				}
			}
			if err := s.validate(child, rec, prefix, fieldErrs); err != nil {
				return nil, err
			}
		}
		out[i] = rows
	}
	return out, nil
}

func (s *Screens) validate(sch schema, rec record, prefix string, fieldErrs map[string]string) error {
	err := s.catalog.Validate(rec.value())
	if err == nil {
		return nil
	}
	if !mapErrors(sch, prefix, err, fieldErrs) {
		return err
	}
	return nil
}

// mapErrors copies a validation failure into fieldErrs under admin field names.
// Errors already recorded for a field win.
func mapErrors(sch schema, prefix string, err error, fieldErrs map[string]string) bool {
	vErr, ok := errs.AsValidation(err)
	if !ok {
		return false
	}
	for key, msg := range vErr.Fields {
		if i := strings.IndexByte(key, '['); i >= 0 {
			key = key[:i]
		}
		name := prefix + sch.fieldForKey(key)
		if _, seen := fieldErrs[name]; !seen {
			fieldErrs[name] = msg
		}
	}
	return true
}

func untouched(blank record, sch schema, fields []string, form url.Values, prefix string) bool {
	for _, name := range fields {
		if f, _ := sch.field(name); !f.editable() {
			continue
		}
		if v := first(form[prefix+name]); v != "" && v != first(blank.values(name)) {
			return false
		}
	}
	return true
}

// totalForms reads a formset row count; an absent count means no rows.
func totalForms(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("management form data is missing or has been tampered with")
	}
	if n > maxInlineForms {
		return 0, errors.Errorf("please submit at most %d forms", maxInlineForms)
	}
	return n, nil
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
