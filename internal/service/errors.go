package service

import "errors"

// Errors the handlers translate into form field errors or status codes.
var (
	ErrSlugTaken          = errors.New("slug already taken")
	ErrSlugRequired       = errors.New("slug cannot be derived from name")
	ErrSlugInvalid        = errors.New("slug is not in canonical form")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrTemplateInUse      = errors.New("template already assigned to another category")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrPasswordTooLong    = errors.New("password too long")
)
