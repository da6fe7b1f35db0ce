package databases

import (
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when no document matched the lookup
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write violated a unique index
	ErrDuplicate = errors.New("duplicate key")
)

// DuplicateKeyError names the unique index a write collided with
type DuplicateKeyError struct {
	Index string
	Err   error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key on index %q: %v", e.Index, e.Err)
}

func (e *DuplicateKeyError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrDuplicate) match
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicate
}

// IsDuplicateOn reports whether err is a unique index violation on index
func IsDuplicateOn(err error, index string) bool {
	var dk *DuplicateKeyError
	return errors.As(err, &dk) && dk.Index == index
}

var dupIndexPattern = regexp.MustCompile(`index: (\S+) dup key`)

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return &DuplicateKeyError{Index: duplicateIndexName(err), Err: err}
	}
	return err
}

func duplicateIndexName(err error) string {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if m := dupIndexPattern.FindStringSubmatch(e.Message); m != nil {
				return m[1]
			}
		}
	}
	if m := dupIndexPattern.FindStringSubmatch(err.Error()); m != nil {
		return m[1]
	}
	return ""
}
