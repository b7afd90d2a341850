package admin

type kind string

const (
	kindID       kind = "id"
	kindText     kind = "text"
	kindTextarea kind = "textarea"
	kindDate     kind = "date"
	kindChoice   kind = "choice"
	kindFK       kind = "fk"
	kindM2M      kind = "m2m"
	kindBool     kind = "bool"
)

type fieldSpec struct {
	name     string
	label    string
	help     string
	kind     kind
	required bool
	// jsonKey is the field's key in the entity's JSON form; empty for computed fields.
	jsonKey string
	ref     Entity
}

func (f fieldSpec) editable() bool {
	return f.jsonKey != "" && f.kind != kindID
}

type schema struct {
	verboseName string
	// strField is the column shown when nothing else is configured.
	strField string
	fields   []fieldSpec
}

func (s schema) field(name string) (fieldSpec, bool) {
	for _, f := range s.fields {
		if f.name == name {
			return f, true
		}
	}
	return fieldSpec{}, false
}

// fieldForKey maps a JSON key back to the admin field name.
func (s schema) fieldForKey(key string) string {
	for _, f := range s.fields {
		if f.jsonKey == key {
			return f.name
		}
	}
	return key
}

var schemas = map[Entity]schema{
	EntityGenre: {
		verboseName: "genre",
		strField:    "name",
		fields: []fieldSpec{
			{name: "id", label: "ID", kind: kindID},
			{name: "name", label: "Name", kind: kindText, required: true, jsonKey: "name", help: "Enter a book genre (e.g. Science Fiction)"},
		},
	},
	EntityLanguage: {
		verboseName: "language",
		strField:    "name",
		fields: []fieldSpec{
			{name: "id", label: "ID", kind: kindID},
			{name: "name", label: "Name", kind: kindText, required: true, jsonKey: "name", help: "Enter the book's natural language (e.g. English, French, Japanese etc.)"},
		},
	},
	EntityAuthor: {
		verboseName: "author",
		strField:    "name",
		fields: []fieldSpec{
			{name: "id", label: "ID", kind: kindID},
			{name: "name", label: "Author", kind: kindText},
			{name: "first_name", label: "First name", kind: kindText, required: true, jsonKey: "firstName"},
			{name: "last_name", label: "Last name", kind: kindText, required: true, jsonKey: "lastName"},
			{name: "date_of_birth", label: "Date of birth", kind: kindDate, jsonKey: "dateOfBirth"},
			{name: "date_of_death", label: "Died", kind: kindDate, jsonKey: "dateOfDeath"},
		},
	},
	EntityBook: {
		verboseName: "book",
		strField:    "title",
		fields: []fieldSpec{
			{name: "id", label: "ID", kind: kindID},
			{name: "title", label: "Title", kind: kindText, required: true, jsonKey: "title"},
			{name: "author", label: "Author", kind: kindFK, jsonKey: "authorId", ref: EntityAuthor},
			{name: "summary", label: "Summary", kind: kindTextarea, required: true, jsonKey: "summary", help: "Enter a brief description of the book"},
			{name: "isbn", label: "ISBN", kind: kindText, required: true, jsonKey: "isbn", help: "13 Character ISBN number (https://www.isbn-international.org/content/what-isbn)"},
			{name: "language", label: "Language", kind: kindFK, jsonKey: "languageId", ref: EntityLanguage},
			{name: "genre", label: "Genre", kind: kindM2M, jsonKey: "genreIds", ref: EntityGenre, help: "Select a genre for this book"},
		},
	},
	EntityBookInstance: {
		verboseName: "book instance",
		strField:    "instance",
		fields: []fieldSpec{
			{name: "id", label: "ID", kind: kindID, help: "Unique ID for this particular book across whole library"},
			{name: "instance", label: "Book instance", kind: kindText},
			{name: "book", label: "Book", kind: kindFK, jsonKey: "bookId", ref: EntityBook},
			{name: "imprint", label: "Imprint", kind: kindText, required: true, jsonKey: "imprint"},
			{name: "due_back", label: "Due back", kind: kindDate, jsonKey: "dueBack"},
			{name: "status", label: "Status", kind: kindChoice, jsonKey: "status", help: "Book availability"},
			{name: "borrower", label: "Borrower", kind: kindText, jsonKey: "borrower"},
			{name: "is_overdue", label: "Is overdue", kind: kindBool},
		},
	},
}

// inlineLinks names the child field that points at the parent.
var inlineLinks = map[[2]Entity]string{
	{EntityAuthor, EntityBook}:       "author",
	{EntityLanguage, EntityBook}:     "language",
	{EntityBook, EntityBookInstance}: "book",
}
