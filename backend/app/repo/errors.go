package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

const (
	// ErrNotFound is returned when a user or feedback row does not exist.
	ErrNotFound Error = "not found"
	// ErrAlreadyExists is returned when a unique column (username, email) is
	// already taken.
	ErrAlreadyExists Error = "already exists"
)

// Error is an error type returned by the repositories.
type Error string

func (e Error) Error() string { return string(e) }

// translate maps driver and gorm errors onto the repository errors. Drivers
// that gorm cannot translate are matched on their message.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrAlreadyExists
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"unique constraint failed", "duplicate entry", "duplicate key value"} {
		if strings.Contains(msg, s) {
			return ErrAlreadyExists
		}
	}
	return err
}
