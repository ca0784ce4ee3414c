package airtable

import (
	"errors"
	"fmt"
	"net/http"

	at "github.com/mehanizm/airtable"
)

// Sentinel errors for Airtable operations.
var (
	// ErrNoSearchableFields means a search had no text field to look in.
	ErrNoSearchableFields = errors.New("no searchable fields")

	// ErrNotFound means the base, table or record does not exist or is not
	// visible to the credential.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the credential was rejected.
	ErrUnauthorized = errors.New("unauthorized")
)

// wrapAPIError maps client status errors onto the package sentinels.
func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}
	var httpErr *at.HTTPClientError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
	}
	return err
}
