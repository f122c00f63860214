package accessviz

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrEmptyInput is returned when a request carries no identifiers at all.
// Nothing is processed in that case.
var ErrEmptyInput = errors.New("identifier list is empty, at least one YKR_ID is required")

// CatalogLoadError means the grid source itself could not be loaded.
// It is fatal for the whole batch: no identifier can be validated or
// joined without the catalog.
type CatalogLoadError struct {
	Source string
	Err    error
}

func (e *CatalogLoadError) Error() string {
	return fmt.Sprintf("can not load grid catalog from '%s': %s", e.Source, e.Err)
}

func (e *CatalogLoadError) Unwrap() error {
	return e.Err
}

// ParseError means one travel time table is malformed. It is localized
// to that table: the batch skips the identifier and continues.
type ParseError struct {
	Location string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("can not parse travel time table '%s': %s", e.Location, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingColumnError means a requested measurement column is not present
// in a layer. Localized to the comparison or render call that asked for it.
type MissingColumnError struct {
	Column string
	Layer  string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("layer '%s' has no column '%s'", e.Layer, e.Column)
}

// UnknownModeError means a mode code is not in the recognized vocabulary.
// This is a usage error and is raised before any data is touched.
type UnknownModeError struct {
	Code string
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("unknown travel mode '%s', supported modes: %s", e.Code, supportedModesList())
}
