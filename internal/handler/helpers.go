package handler

import (
	"errors"
	"strconv"

	"gorm.io/gorm"
)

// parseID parses a numeric path parameter.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// isNotFound reports whether the repository error means the record does
// not exist.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicate reports whether the write failed on a unique constraint.
// Catches the race where two requests pass the read-side uniqueness
// check and both insert.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
