package admin

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
)

type Entity string

const (
	EntityGenre        Entity = "genre"
	EntityLanguage     Entity = "language"
	EntityAuthor       Entity = "author"
	EntityBook         Entity = "book"
	EntityBookInstance Entity = "bookinstance"
)

// Fieldset groups form fields. Each row of Fields is rendered on one line.
type Fieldset struct {
	Name   string     `json:"name,omitempty"`
	Fields [][]string `json:"fields"`
}

// Inline embeds the dependents of an entity in its form.
type Inline struct {
	Entity Entity   `json:"entity"`
	Fields []string `json:"fields"`
	// Extra is the number of blank rows offered for new dependents.
	Extra int `json:"extra"`
}

type Options struct {
	VerboseName       string
	VerboseNamePlural string
	ListDisplay       []string
	ListFilter        []string
	SearchFields      []string
	Fieldsets         []Fieldset
	Inlines           []Inline
}

type Registration struct {
	Entity  Entity
	Options Options
}

func Register(entity Entity, opts Options) Registration {
	return Registration{Entity: entity, Options: opts}
}

func Fields(fields ...string) []string { return fields }

// Site is the admin configuration table. It is immutable once built.
type Site struct {
	order   []Entity
	options map[Entity]Options
}

func NewSite(regs ...Registration) (*Site, error) {
	s := &Site{options: make(map[Entity]Options, len(regs))}
	for _, reg := range regs {
		if _, dup := s.options[reg.Entity]; dup {
			return nil, fmt.Errorf("admin: %s registered twice", reg.Entity)
		}
		opts, err := complete(reg.Entity, reg.Options)
		if err != nil {
			return nil, errors.Wrapf(err, "admin: %s", reg.Entity)
		}
		s.order = append(s.order, reg.Entity)
		s.options[reg.Entity] = opts
	}
	return s, nil
}

// complete fills defaults and checks every configured name against the schema.
func complete(entity Entity, opts Options) (Options, error) {
	sch, ok := schemas[entity]
	if !ok {
		return Options{}, errs.ErrUnknownEntity
	}
	if opts.VerboseName == "" {
		opts.VerboseName = sch.verboseName
	}
	if opts.VerboseNamePlural == "" {
		opts.VerboseNamePlural = opts.VerboseName + "s"
	}
	if len(opts.ListDisplay) == 0 {
		opts.ListDisplay = []string{sch.strField}
	}
	for _, name := range opts.ListDisplay {
		if _, ok := sch.field(name); !ok {
			return Options{}, fmt.Errorf("list_display: unknown field %q", name)
		}
	}
	for _, name := range opts.ListFilter {
		if _, ok := filterSpecs[entity][name]; !ok {
			return Options{}, fmt.Errorf("list_filter: %q is not filterable", name)
		}
	}
	for _, name := range opts.SearchFields {
		if !contains(searchFields[entity], name) {
			return Options{}, fmt.Errorf("search_fields: %q is not searchable", name)
		}
	}
	if len(opts.Fieldsets) == 0 {
		rows := make([][]string, 0, len(sch.fields))
		for _, f := range sch.fields {
			if f.editable() {
				rows = append(rows, []string{f.name})
			}
		}
		opts.Fieldsets = []Fieldset{{Fields: rows}}
	}
	for _, fs := range opts.Fieldsets {
		for _, row := range fs.Fields {
			for _, name := range row {
				if _, ok := sch.field(name); !ok {
					return Options{}, fmt.Errorf("fieldsets: unknown field %q", name)
				}
			}
		}
	}
	opts.Inlines = append([]Inline(nil), opts.Inlines...)
	for i, in := range opts.Inlines {
		link, ok := inlineLinks[[2]Entity{entity, in.Entity}]
		if !ok {
			return Options{}, fmt.Errorf("inlines: %s has no reference to %s", in.Entity, entity)
		}
		child := schemas[in.Entity]
		if len(in.Fields) == 0 {
			for _, f := range child.fields {
				if f.editable() && f.name != link {
					opts.Inlines[i].Fields = append(opts.Inlines[i].Fields, f.name)
				}
			}
		}
		for _, name := range opts.Inlines[i].Fields {
			if _, ok := child.field(name); !ok {
				return Options{}, fmt.Errorf("inlines: unknown %s field %q", in.Entity, name)
			}
		}
	}
	return opts, nil
}

func (s *Site) Entities() []Entity {
	return append([]Entity(nil), s.order...)
}

func (s *Site) Options(entity Entity) (Options, error) {
	opts, ok := s.options[entity]
	if !ok {
		return Options{}, errors.Wrapf(errs.ErrUnknownEntity, "%q", entity)
	}
	return opts, nil
}

// DefaultSite is the catalog's stock admin configuration.
func DefaultSite() (*Site, error) {
	return NewSite(
		Register(EntityGenre, Options{}),
		Register(EntityLanguage, Options{}),
		Register(EntityAuthor, Options{
			ListDisplay:  Fields("last_name", "first_name", "date_of_birth", "date_of_death"),
			SearchFields: Fields("last_name", "first_name"),
			Fieldsets: []Fieldset{{
				Fields: [][]string{{"first_name"}, {"last_name"}, {"date_of_birth", "date_of_death"}},
			}},
			Inlines: []Inline{{Entity: EntityBook, Fields: Fields("title", "summary", "isbn")}},
		}),
		Register(EntityBook, Options{
			ListDisplay:  Fields("title", "author", "genre"),
			ListFilter:   Fields("language", "genre"),
			SearchFields: Fields("title"),
			Inlines: []Inline{{
				Entity: EntityBookInstance,
				Fields: Fields("imprint", "status", "due_back", "borrower", "id"),
				Extra:  1,
			}},
		}),
		Register(EntityBookInstance, Options{
			VerboseName: "book instance",
			ListDisplay: Fields("book", "status", "borrower", "due_back", "id"),
			ListFilter:  Fields("status", "due_back"),
			Fieldsets: []Fieldset{
				{Fields: [][]string{{"book"}, {"imprint"}, {"id"}}},
				{Name: "Availability", Fields: [][]string{{"status"}, {"due_back"}, {"borrower"}}},
			},
		}),
	)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
