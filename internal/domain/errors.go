package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserInactive        = errors.New("user is inactive")
	ErrUserNotFound        = errors.New("user not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrDuplicateShare      = errors.New("list already shared with this user")
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrListNotFound        = errors.New("shopping list not found")
	ErrInvalidPermission   = errors.New("invalid list permission; allowed: owner, editor")

	// ErrNoDocumentData is returned when an analysis result contains no
	// document entries. An empty OCR confuses every downstream stage more
	// than an explicit failure would, so this is a hard error.
	ErrNoDocumentData = errors.New("no document data found in analysis result")

	// ErrMalformedResponse is returned when a terminal analysis response
	// lacks its expected top-level structure.
	ErrMalformedResponse = errors.New("analyze result not found in response body")
)

// ServiceError carries a non-success response from an external analysis or
// classification endpoint, including the provider's error body.
type ServiceError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}
