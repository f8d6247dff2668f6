package repository

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a lookup of a single user or article matches no
// rows. Services translate it into app_errors.ErrNotFound so callers never see
// sql.ErrNoRows.
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicate is returned when a write breaks a UNIQUE constraint, such as two
// articles racing for the same slug.
var ErrDuplicate = errors.New("repository: duplicate")

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
