package model

import "errors"

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrISBNAlreadyExists = errors.New("ISBN already exists")
	// ErrAuthorMissing is raised when the author_id foreign key is violated
	ErrAuthorMissing = errors.New("referenced author does not exist")
)
