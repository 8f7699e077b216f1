package model

import "errors"

var (
	// Business Rule Errors
	ErrAuthorNotFound = errors.New("author not found")
	ErrDuplicateEmail = errors.New("author with this email already exists")
)
