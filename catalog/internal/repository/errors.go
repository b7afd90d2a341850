package repository

import (
	"strings"

	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

const invalidChoice = "select a valid choice: that choice is not one of the available choices"

// constraintFields maps schema constraint names onto request field names.
var constraintFields = map[string]string{
	"book_author_id_fkey":        "authorId",
	"book_language_id_fkey":      "languageId",
	"book_genre_genre_id_fkey":   "genreIds",
	"book_instance_book_id_fkey": "bookId",
	"genre_name_check":           "name",
	"language_name_check":        "name",
	"book_instance_status_check": "status",
	"book_instance_pkey":         "id",
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	field := constraintFields[pgErr.ConstraintName]
	if field == "" {
		field = strings.TrimSuffix(pgErr.ColumnName, "_id")
	}
	switch pgErr.Code {
	case pgerrcode.ForeignKeyViolation:
		return errs.NewValidationError(field, invalidChoice)
	case pgerrcode.CheckViolation:
		return errs.NewValidationError(field, "value violates "+pgErr.ConstraintName)
	case pgerrcode.UniqueViolation:
		return errs.NewValidationError(field, "an entry with this value already exists")
	case pgerrcode.NotNullViolation:
		return errs.NewValidationError(field, "this field is required")
	case pgerrcode.StringDataRightTruncationDataException:
		return errs.NewValidationError(field, "value too long")
	}
	return err
}
